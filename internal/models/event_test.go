package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelayEvent_Kind(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{SourceVote, KindVote},
		{SourceSubmitPage, KindSubmission},
		{SourceWebsite, KindSubscriber},
		{"tiktok", KindSubscriber},
		{"", KindSubscriber},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.want, RelayEvent{Source: tt.source}.Kind())
		})
	}
}
