// Package feed fetches, decodes and archives vendor catalog feeds.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopfront/backend/internal/domain/shared"
)

// FetcherConfig configures HTTPFetcher
type FetcherConfig struct {
	Timeout   time.Duration
	MaxSize   int64
	UserAgent string
	// Retries is the number of extra attempts on network errors and 5xx answers
	Retries int
}

// DefaultFetcherConfig returns the default fetcher settings
func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		Timeout:   30 * time.Second,
		MaxSize:   10 << 20,
		UserAgent: "shopfront-feed-fetcher/1.0",
		Retries:   2,
	}
}

// HTTPFetcher downloads feeds over HTTP
type HTTPFetcher struct {
	client  *resty.Client
	maxSize int64
}

// NewHTTPFetcher creates a fetcher. Zero fields take the defaults.
func NewHTTPFetcher(cfg FetcherConfig) *HTTPFetcher {
	def := DefaultFetcherConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = def.MaxSize
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/yaml, application/x-yaml, text/yaml, text/plain, */*").
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	return &HTTPFetcher{client: client, maxSize: cfg.MaxSize}
}

// Fetch GETs url and returns the body. Transport failures, non-2xx answers and
// oversized bodies are reported as EXTERNAL_FETCH_ERROR.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fetchError(fmt.Sprintf("request to %s failed: %v", url, err))
	}
	body := resp.RawBody()
	defer body.Close()

	if !resp.IsSuccess() {
		return nil, fetchError(fmt.Sprintf("%s answered %d", url, resp.StatusCode()))
	}
	if resp.RawResponse != nil && resp.RawResponse.ContentLength > f.maxSize {
		return nil, tooLarge(f.maxSize)
	}

	data, err := io.ReadAll(io.LimitReader(body, f.maxSize+1))
	if err != nil {
		return nil, fetchError(fmt.Sprintf("reading %s failed: %v", url, err))
	}
	if int64(len(data)) > f.maxSize {
		return nil, tooLarge(f.maxSize)
	}
	return data, nil
}

func fetchError(msg string) error {
	return shared.NewDomainError(shared.CodeExternalFetch, "Feed fetch failed: "+msg)
}

func tooLarge(limit int64) error {
	return fetchError(fmt.Sprintf("feed exceeds %d bytes", limit))
}
