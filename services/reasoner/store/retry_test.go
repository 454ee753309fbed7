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
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryer() retryer {
	return retryer{attempts: 3, backoff: time.Millisecond, maxBackoff: 5 * time.Millisecond, jitter: 0.1}
}

func TestRetryer_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := fastRetryer().execute(context.Background(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryer_RetriesTransientFailures(t *testing.T) {
	calls := 0
	err := fastRetryer().execute(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &net.OpError{Op: "dial", Err: fmt.Errorf("connection refused")}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryer_DoesNotRetryApplicationErrors(t *testing.T) {
	calls := 0
	appErr := fmt.Errorf("schema rejected the object")
	err := fastRetryer().execute(context.Background(), func() error {
		calls++
		return appErr
	})
	assert.Equal(t, appErr, err)
	assert.Equal(t, 1, calls)
}

func TestRetryer_GivesUpAfterBudget(t *testing.T) {
	calls := 0
	err := fastRetryer().execute(context.Background(), func() error {
		calls++
		return context.DeadlineExceeded
	})
	assert.Error(t, err)
	assert.Equal(t, 4, calls) // initial try plus three retries
}

func TestRetryer_StopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := retryer{attempts: 5, backoff: 50 * time.Millisecond, maxBackoff: time.Second, jitter: 0}.
		execute(ctx, func() error {
			calls++
			cancel()
			return context.DeadlineExceeded
		})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, isRetryable(nil))
	assert.False(t, isRetryable(context.Canceled))
	assert.True(t, isRetryable(context.DeadlineExceeded))
	assert.True(t, isRetryable(&net.OpError{Op: "dial", Err: fmt.Errorf("refused")}))
	assert.False(t, isRetryable(fmt.Errorf("plain error")))
}
