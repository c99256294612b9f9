package quotes

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	quote *Quote
	err   error
	calls int
}

func (f *stubFetcher) Fetch(context.Context) (*Quote, error) {
	f.calls++
	return f.quote, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the provider quote", func(t *testing.T) {
		fetcher := &stubFetcher{quote: &Quote{Quote: "Do the work.", Author: "Anonymous"}}
		svc := NewService(fetcher, nil, discardLogger())

		q, err := svc.Get(ctx)
		require.NoError(t, err)

		assert.Equal(t, "Do the work.", q.Quote)
		assert.Equal(t, "Anonymous", q.Author)
	})

	t.Run("provider failure surfaces as unavailable", func(t *testing.T) {
		fetcher := &stubFetcher{err: errors.New("connection refused")}
		svc := NewService(fetcher, nil, discardLogger())

		_, err := svc.Get(ctx)

		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("breaker opens after consecutive failures", func(t *testing.T) {
		fetcher := &stubFetcher{err: errors.New("connection refused")}
		svc := NewService(fetcher, nil, discardLogger())

		for i := 0; i < 5; i++ {
			_, err := svc.Get(ctx)
			assert.ErrorIs(t, err, ErrUnavailable)
		}

		// Three consecutive failures trip the breaker; later calls never
		// reach the provider.
		assert.Equal(t, 3, fetcher.calls)
	})
}

func TestClient_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("sends the api key and decodes the first quote", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"quote":"Focus.","author":"Someone","category":"work"}]`))
		}))
		defer srv.Close()

		client := NewClient("secret").WithBaseURL(srv.URL)

		q, err := client.Fetch(ctx)
		require.NoError(t, err)

		assert.Equal(t, "Focus.", q.Quote)
		assert.Equal(t, "Someone", q.Author)
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		client := NewClient("bad-key").WithBaseURL(srv.URL)

		_, err := client.Fetch(ctx)
		assert.ErrorContains(t, err, "401")
	})

	t.Run("empty result is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		client := NewClient("secret").WithBaseURL(srv.URL)

		_, err := client.Fetch(ctx)
		assert.ErrorContains(t, err, "empty")
	})
}
