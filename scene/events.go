// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

// Button identifies a pointer button.
type Button int

const (
	// Primary is the main pointer button (left / one-finger drag).
	Primary Button = iota

	// Secondary is the alternate pointer button (right / two-finger drag).
	Secondary
)

// Handler receives pointer and wheel events from an input [Source].
// Coordinates are normalized device coordinates in [-1, 1], y up.
type Handler interface {
	PointerDown(btn Button, x, y float32)
	PointerMove(x, y float32)
	PointerUp(btn Button, x, y float32)

	// Wheel receives scroll ticks; positive is zoom in.
	Wheel(ticks float32)
}

// Source is a native input event source. A handler is attached for
// the lifetime of the active camera mode and must be fully detached
// on mode switch or scene teardown, so listeners never compound
// across remounts.
type Source interface {
	Attach(h Handler)
	Detach(h Handler)
}
