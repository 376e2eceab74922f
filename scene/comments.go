// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"context"
	"log/slog"
	"time"
)

// SetOpenComments replaces the open-comment counts driving the
// badge markers. Keys are "type:id" anchor keys; counts of zero or
// anchors that no longer resolve in the current layout produce no
// badge. Call from the frame-loop goroutine, typically from a push
// subscription or the polling helper below.
func (h *Handle) SetOpenComments(counts map[string]int) {
	h.sc.markers.rebuild(h.sc, counts)
}

// SubscribeOpenComments forwards pushed open-comment count updates
// from ch to deliver until ch closes or ctx is done. deliver runs on
// this goroutine and must hand the counts to the frame loop, ending
// in [Handle.SetOpenComments].
func SubscribeOpenComments(ctx context.Context, ch <-chan map[string]int, deliver func(map[string]int)) {
	for {
		select {
		case <-ctx.Done():
			return
		case counts, ok := <-ch:
			if !ok {
				return
			}
			deliver(counts)
		}
	}
}

// CommentFetcher returns the current open-comment counts keyed by
// anchor key. Implementations typically hit the comment service.
type CommentFetcher func(ctx context.Context) (map[string]int, error)

// PollOpenComments refreshes the badge markers from fetch on a fixed
// interval until ctx is done. deliver is invoked on each successful
// fetch with the new counts and must hand them to the frame loop
// (ending in [Handle.SetOpenComments]); it runs on the polling
// goroutine. Fetch errors are logged and the previous badges kept.
//
// This is the fallback for deployments without a push channel for
// comment updates.
func PollOpenComments(ctx context.Context, interval time.Duration, fetch CommentFetcher, deliver func(map[string]int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		counts, err := fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Warn("scene: comment poll failed", "err", err)
			continue
		}
		deliver(counts)
	}
}
