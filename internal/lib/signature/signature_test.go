package signature

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSign_KnownVector(t *testing.T) {
	// RFC 4231, test case 2
	assert.Equal(t,
		"5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843",
		Sign("Jefe", "what do ya want for nothing?"),
	)
}

func TestVerify_Symmetric(t *testing.T) {
	messages := []string{"", "a", "player@example.com", "player@example.com:684", "юникод"}
	for _, msg := range messages {
		t.Run(msg, func(t *testing.T) {
			sig := Sign("secret", msg)
			assert.Len(t, sig, 64)
			assert.True(t, Verify("secret", msg, sig))
			assert.Equal(t, sig, Sign("secret", msg))
		})
	}
}

func TestVerify_SingleBitFlip(t *testing.T) {
	msg := "player@example.com"
	sig := Sign("secret", msg)

	flip := func(s string) string {
		b := []byte(s)
		b[0] ^= 0x01
		return string(b)
	}

	assert.False(t, Verify("secret", flip(msg), sig), "message")
	assert.False(t, Verify(flip("secret"), msg, sig), "secret")
	assert.False(t, Verify("secret", msg, flip(sig)), "signature")
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"abc", "abc", true},
		{"abc", "abd", false},
		{"abc", "ab", false},
		{"", "", true},
		{"xbc", "abc", false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q=%q", tt.a, tt.b), func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestParseHeader(t *testing.T) {
	h := ParseHeader("t=1700000000,v1=aaa,v0=old,v1=bbb")
	assert.Equal(t, "1700000000", h.Timestamp)
	assert.Equal(t, []string{"aaa", "bbb"}, h.Signatures)

	empty := ParseHeader("")
	assert.Empty(t, empty.Timestamp)
	assert.Empty(t, empty.Signatures)
}

func TestVerifyWebhook(t *testing.T) {
	body := []byte(`{"type":"checkout.session.completed"}`)
	good := Sign("whsec", "1700000000."+string(body))

	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{"valid", "t=1700000000,v1=" + good, true},
		{"any v1 matches", "t=1700000000,v1=deadbeef,v1=" + good, true},
		{"wrong timestamp", "t=1700000001,v1=" + good, false},
		{"no signatures", "t=1700000000", false},
		{"garbage", "nonsense", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyWebhook("whsec", body, tt.header))
		})
	}
}
