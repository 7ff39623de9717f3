package relay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/notice/internal/models"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

func recordingServer(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		reqs []recordedRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		mu.Lock()
		reqs = append(reqs, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: body})
		mu.Unlock()
		handle(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), reqs...)
	}
}

func TestSheetClient_Post(t *testing.T) {
	srv, requests := recordingServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	c := NewSheetClient(srv.URL+"/exec", "shh", time.Second)
	err := c.Post(context.Background(), models.RelayEvent{
		ID:            "e1",
		Source:        models.SourceVote,
		Timestamp:     time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC),
		VoteDirection: models.DirectionUp,
		PromptHash:    "p2kh",
	})
	require.NoError(t, err)

	reqs := requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "shh", reqs[0].Body["_secret"])
	assert.Equal(t, "vote", reqs[0].Body["source"])
	assert.Equal(t, "up", reqs[0].Body["vote_direction"])
	assert.Equal(t, "2026-02-14T00:00:00Z", reqs[0].Body["timestamp"])
	assert.NotContains(t, reqs[0].Body, "email")
}

func TestSheetClient_RedirectReplay(t *testing.T) {
	for _, status := range []int{http.StatusMovedPermanently, http.StatusFound} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv, requests := recordingServer(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/exec" {
					w.Header().Set("Location", "/echo")
					w.WriteHeader(status)
					return
				}
				w.WriteHeader(http.StatusOK)
			})

			c := NewSheetClient(srv.URL+"/exec", "shh", time.Second)
			require.NoError(t, c.Post(context.Background(), models.RelayEvent{Source: models.SourceWebsite, Email: "a@b.co"}))

			reqs := requests()
			require.Len(t, reqs, 2)
			assert.Equal(t, "/echo", reqs[1].Path)
			assert.Equal(t, http.MethodPost, reqs[1].Method)
			assert.Equal(t, reqs[0].Body, reqs[1].Body)
		})
	}
}

func TestSheetClient_Errors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv, _ := recordingServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		err := NewSheetClient(srv.URL, "", time.Second).Post(context.Background(), models.RelayEvent{})
		assert.ErrorIs(t, err, ErrSheetStatus)
	})

	t.Run("redirect without location", func(t *testing.T) {
		srv, _ := recordingServer(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusFound)
		})
		err := NewSheetClient(srv.URL, "", time.Second).Post(context.Background(), models.RelayEvent{})
		assert.Error(t, err)
	})

	t.Run("unreachable", func(t *testing.T) {
		err := NewSheetClient("http://127.0.0.1:1", "", time.Second).Post(context.Background(), models.RelayEvent{})
		assert.Error(t, err)
	})
}

func TestNewsletterClient_Subscribe(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "created", status: http.StatusCreated},
		{name: "already subscribed", status: http.StatusConflict},
		{name: "rejected", status: http.StatusBadRequest, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var auth string
			srv, requests := recordingServer(t, func(w http.ResponseWriter, r *http.Request) {
				auth = r.Header.Get("Authorization")
				w.WriteHeader(tt.status)
			})

			err := NewNewsletterClient("bd_key", srv.URL+"/", time.Second).Subscribe(context.Background(), "a@b.co", "website")
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNewsletterStatus)
			} else {
				assert.NoError(t, err)
			}

			reqs := requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, "/v1/subscribers", reqs[0].Path)
			assert.Equal(t, "Token bd_key", auth)
			assert.Equal(t, "a@b.co", reqs[0].Body["email_address"])
			assert.Equal(t, []any{"website"}, reqs[0].Body["tags"])
		})
	}
}
