// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPollOpenCommentsDelivers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var delivered atomic.Int32
	fetch := func(ctx context.Context) (map[string]int, error) {
		return map[string]int{"panel:0": 1}, nil
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		PollOpenComments(ctx, time.Millisecond, fetch, func(counts map[string]int) {
			assert.Equal(t, 1, counts["panel:0"])
			if delivered.Add(1) >= 3 {
				cancel()
			}
		})
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not stop after cancel")
	}
	assert.GreaterOrEqual(t, delivered.Load(), int32(3))
}

func TestPollOpenCommentsKeepsGoingOnError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	fetch := func(ctx context.Context) (map[string]int, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("comment service unavailable")
		}
		return map[string]int{}, nil
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		PollOpenComments(ctx, time.Millisecond, fetch, func(map[string]int) {
			cancel()
		})
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not survive a fetch error")
	}
	assert.GreaterOrEqual(t, calls.Load(), int32(2))
}
