// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/google/uuid"
)

// CaptureOptions configure a one-off frame capture.
type CaptureOptions struct {
	// HideAuxLayers temporarily hides annotation layers (cables,
	// boundaries, comment markers) so the captured image shows the
	// physical layout only.
	HideAuxLayers bool
}

// CaptureResult is a captured frame with a fresh identifier for
// upload bookkeeping.
type CaptureResult struct {
	ID    uuid.UUID
	Image *image.RGBA
}

// Capture renders one frame off the interactive loop and returns it
// as an image. When aux layers are hidden for the shot, their
// previous visibility is restored before returning, on every path.
func (sc *Scene) Capture(opts CaptureOptions) (*CaptureResult, error) {
	var saved map[Layer]bool
	if opts.HideAuxLayers {
		saved = make(map[Layer]bool, len(AuxLayers))
		for _, layer := range AuxLayers {
			saved[layer] = sc.visible[layer]
			sc.visible[layer] = false
		}
		defer func() {
			for layer, was := range saved {
				sc.visible[layer] = was
			}
		}()
	}

	img := sc.RenderFrame(0)
	if img == nil {
		return nil, fmt.Errorf("capture: backend does not produce images")
	}
	res := &CaptureResult{ID: uuid.New(), Image: img}
	slog.Debug("scene: captured frame", "id", res.ID,
		"size", img.Bounds().Size(), "hideAux", opts.HideAuxLayers)
	return res, nil
}
