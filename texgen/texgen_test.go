// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheMemoizes(t *testing.T) {
	c := &Cache{}
	a := c.Get(PanelGlass)
	b := c.Get(PanelGlass)
	assert.Same(t, a, b)

	g := c.Get(Ground)
	assert.NotSame(t, a, g)
}

func TestTextureSize(t *testing.T) {
	c := &Cache{}
	for _, kind := range []Kind{PanelGlass, Ground, Metal, TreeCanopy, Kind("unknown")} {
		img := c.Get(kind)
		assert.Equal(t, Size, img.Bounds().Dx(), "kind %v", kind)
		assert.Equal(t, Size, img.Bounds().Dy(), "kind %v", kind)
	}
}

func TestPanelGlassHasGrid(t *testing.T) {
	c := &Cache{}
	img := c.Get(PanelGlass)
	// grid lines are painted last with an exact color
	edge := img.RGBAAt(0, Size/2)
	assert.Equal(t, uint8(0x2a), edge.R)
	assert.Equal(t, uint8(0x3a), edge.G)
	assert.Equal(t, uint8(0x6e), edge.B)
}
