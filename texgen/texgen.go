// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texgen generates and memoizes the procedural surface
// textures used by the scene renderers. Generation is pure per kind;
// each texture is created once and shared.
package texgen

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/noise"
)

// Kind identifies a procedural texture.
type Kind string

const (
	PanelGlass Kind = "panel-glass"
	Ground     Kind = "ground"
	Metal      Kind = "metal"
	TreeCanopy Kind = "tree-canopy"
)

// Size is the side length in pixels of all generated textures.
const Size = 256

// Cache memoizes generated textures by [Kind]. The zero value is
// ready to use.
type Cache struct {
	mu sync.Mutex
	m  map[Kind]*image.RGBA
}

// Get returns the texture for the given kind, generating it on first
// use. Unknown kinds yield the metal texture.
func (c *Cache) Get(kind Kind) *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	if img, ok := c.m[kind]; ok {
		return img
	}
	if c.m == nil {
		c.m = make(map[Kind]*image.RGBA)
	}
	img := generate(kind)
	c.m[kind] = img
	return img
}

func generate(kind Kind) *image.RGBA {
	switch kind {
	case PanelGlass:
		return panelGlass()
	case Ground:
		return grainy(color.RGBA{R: 0x8a, G: 0x7a, B: 0x5a, A: 0xff}, 2)
	case TreeCanopy:
		return grainy(color.RGBA{R: 0x2e, G: 0x5c, B: 0x2a, A: 0xff}, 3)
	default:
		return grainy(color.RGBA{R: 0xb0, G: 0xb4, B: 0xb8, A: 0xff}, 1)
	}
}

// panelGlass is a dark blue glass surface with a module grid.
func panelGlass() *image.RGBA {
	img := grainy(color.RGBA{R: 0x10, G: 0x1e, B: 0x46, A: 0xff}, 1)

	// module grid lines
	line := color.RGBA{R: 0x2a, G: 0x3a, B: 0x6e, A: 0xff}
	const cells = 8
	for i := 0; i <= cells; i++ {
		p := i * (Size - 1) / cells
		for j := 0; j < Size; j++ {
			img.SetRGBA(p, j, line)
			img.SetRGBA(j, p, line)
		}
	}
	return img
}

// grainy fills a texture with the base color modulated by blurred
// gaussian noise.
func grainy(base color.RGBA, blurRadius float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Size, Size))
	draw.Draw(img, img.Bounds(), image.NewUniform(base), image.Point{}, draw.Src)

	grain := noise.Generate(Size, Size, &noise.Options{
		NoiseFn:    noise.Gaussian,
		Monochrome: true,
	})
	grain = blur.Gaussian(grain, blurRadius)
	return blend.Overlay(img, grain)
}
