package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopfront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_Fetch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the body", func(t *testing.T) {
		var userAgent string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userAgent = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write([]byte(sampleFeed))
		}))
		defer srv.Close()

		f := NewHTTPFetcher(FetcherConfig{UserAgent: "test-agent"})
		body, err := f.Fetch(ctx, srv.URL+"/shop1.yaml")
		require.NoError(t, err)
		assert.Equal(t, sampleFeed, string(body))
		assert.Equal(t, "test-agent", userAgent)
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			http.NotFound(w, r)
		}))
		defer srv.Close()

		f := NewHTTPFetcher(FetcherConfig{Retries: 2})
		_, err := f.Fetch(ctx, srv.URL)
		require.Error(t, err)
		assert.Equal(t, shared.CodeExternalFetch, shared.CodeOf(err))
		assert.Contains(t, err.Error(), "404")
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("server errors are retried", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte("shop: A\n"))
		}))
		defer srv.Close()

		f := NewHTTPFetcher(FetcherConfig{Retries: 2})
		body, err := f.Fetch(ctx, srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "shop: A\n", string(body))
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("oversized bodies are rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 2048)))
		}))
		defer srv.Close()

		f := NewHTTPFetcher(FetcherConfig{MaxSize: 1024})
		_, err := f.Fetch(ctx, srv.URL)
		require.Error(t, err)
		assert.Equal(t, shared.CodeExternalFetch, shared.CodeOf(err))
		assert.Contains(t, err.Error(), "exceeds 1024 bytes")
	})

	t.Run("streamed oversized bodies are rejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			flusher := w.(http.Flusher)
			for i := 0; i < 4; i++ {
				_, _ = w.Write([]byte(strings.Repeat("y", 512)))
				flusher.Flush()
			}
		}))
		defer srv.Close()

		f := NewHTTPFetcher(FetcherConfig{MaxSize: 1024})
		_, err := f.Fetch(ctx, srv.URL)
		assert.Equal(t, shared.CodeExternalFetch, shared.CodeOf(err))
	})

	t.Run("unreachable host", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		f := NewHTTPFetcher(FetcherConfig{Retries: 0, Timeout: time.Second})
		_, err := f.Fetch(ctx, url)
		require.Error(t, err)
		assert.Equal(t, shared.CodeExternalFetch, shared.CodeOf(err))
	})
}
