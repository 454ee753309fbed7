// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"time"
)

// retryer runs store operations with bounded retries and exponential
// backoff plus jitter. Only transient network failures are retried;
// application errors surface immediately.
type retryer struct {
	attempts   int
	backoff    time.Duration
	maxBackoff time.Duration
	jitter     float64
}

func defaultRetryer() retryer {
	return retryer{
		attempts:   3,
		backoff:    100 * time.Millisecond,
		maxBackoff: 5 * time.Second,
		jitter:     0.25,
	}
}

// execute runs fn, retrying transient failures until the attempt budget is
// spent or the context ends.
func (r retryer) execute(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= r.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.calculateBackoff(attempt)):
			}
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isRetryable(lastErr) {
			break
		}
	}
	return lastErr
}

func (r retryer) calculateBackoff(attempt int) time.Duration {
	backoff := r.backoff * time.Duration(1<<attempt)
	if backoff > r.maxBackoff {
		backoff = r.maxBackoff
	}
	jitterRange := float64(backoff) * r.jitter
	jitter := (rand.Float64()*2 - 1) * jitterRange
	backoff = time.Duration(float64(backoff) + jitter)
	if backoff < 0 {
		backoff = r.backoff
	}
	return backoff
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
