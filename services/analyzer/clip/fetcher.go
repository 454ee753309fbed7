// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package clip

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36"

// ImageFetcher retrieves media referenced by posts with a bounded timeout,
// a response size cap, per-domain rate limiting, and a short-lived byte
// cache so repeated posts pointing at the same image are fetched once.
type ImageFetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	cache      *gocache.Cache

	limiters     map[string]*rate.Limiter
	limitersMu   sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

// FetcherConfig configures the image fetcher. Zero values get defaults.
type FetcherConfig struct {
	// Timeout bounds a single retrieval. Default: 10s.
	Timeout time.Duration
	// MaxBytes caps the response body. Default: 8 MiB.
	MaxBytes int64
	// CacheTTL controls how long fetched bytes are kept. Default: 5m.
	CacheTTL time.Duration
	// RequestsPerSecond is the per-domain fetch rate. Default: 2.
	RequestsPerSecond float64
}

// NewImageFetcher builds a fetcher with the given configuration.
func NewImageFetcher(cfg FetcherConfig) *ImageFetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = 8 << 20
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = 2
	}
	return &ImageFetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:    defaultUserAgent,
		maxBytes:     cfg.MaxBytes,
		cache:        gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(cfg.RequestsPerSecond),
		defaultBurst: 2,
	}
}

// Fetch retrieves the image at rawURL and verifies the bytes decode as an
// image. Any failure returns an error; the caller decides how soft it is.
func (f *ImageFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if cached, found := f.cache.Get(rawURL); found {
		return cached.([]byte), nil
	}

	if err := f.wait(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "image/*,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(body)); err != nil {
		return nil, fmt.Errorf("undecodable image bytes: %w", err)
	}

	f.cache.SetDefault(rawURL, body)
	return body, nil
}

// wait blocks until the per-domain limiter admits the request.
func (f *ImageFetcher) wait(ctx context.Context, rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return fmt.Errorf("invalid media url %q", rawURL)
	}
	domain := parsed.Hostname()

	f.limitersMu.Lock()
	limiter, ok := f.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(f.defaultRate, f.defaultBurst)
		f.limiters[domain] = limiter
	}
	f.limitersMu.Unlock()

	return limiter.Wait(ctx)
}
