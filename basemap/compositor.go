// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package basemap

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

// TileSizePx is the pixel side length all tile textures are
// normalized to.
const TileSizePx = 256

// Update delivers one resolved tile texture to the scene. While a
// fetch is pending, and permanently after a failed fetch, the tile is
// covered by the neutral fallback texture so the ground never exposes
// missing geometry.
type Update struct {
	Tile  Tile
	Image *image.RGBA

	// Fallback is true when Image is the neutral placeholder rather
	// than fetched imagery.
	Fallback bool
}

// Compositor fetches basemap tiles asynchronously and delivers them
// through a callback. Fetches for a superseded grid are discarded,
// never applied.
type Compositor struct {
	// URLTemplate is the tile server URL with {z}, {x} and {y}
	// placeholders.
	URLTemplate string

	// Client is the HTTP client for tile fetches; http.DefaultClient
	// when nil.
	Client *http.Client

	// OnTile receives tile updates. It is called from fetch
	// goroutines and must be safe for concurrent use.
	OnTile func(Update)

	mu     sync.Mutex
	gen    int
	cancel context.CancelFunc
	group  *errgroup.Group
}

// Load computes the grid for the given GPS coordinate, footprint and
// zoom, immediately covers every tile with the neutral fallback, and
// starts asynchronous fetches. Any in-flight fetches from a previous
// Load are canceled and their late results discarded.
func (c *Compositor) Load(ctx context.Context, lat, lon float64, zoom int, footprintMeters float64) *Grid {
	grid := NewGrid(lat, lon, zoom, footprintMeters)

	c.mu.Lock()
	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
	}
	fctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	g, fctx := errgroup.WithContext(fctx)
	c.group = g
	c.mu.Unlock()

	for _, tile := range grid.Tiles {
		c.deliver(gen, Update{Tile: tile, Image: NeutralTile(), Fallback: true})
	}

	for _, tile := range grid.Tiles {
		tile := tile
		g.Go(func() error {
			img, err := c.fetch(fctx, tile)
			if err != nil {
				if fctx.Err() == nil {
					slog.Warn("basemap: tile fetch failed, keeping fallback",
						"z", tile.Z, "x", tile.X, "y", tile.Y, "error", err)
				}
				// fallback plane already covers the tile
				return nil
			}
			c.deliver(gen, Update{Tile: tile, Image: img})
			return nil
		})
	}
	return grid
}

// Wait blocks until all fetches of the most recent Load have resolved.
func (c *Compositor) Wait() {
	c.mu.Lock()
	g := c.group
	c.mu.Unlock()
	if g != nil {
		g.Wait()
	}
}

// Cancel stops any in-flight tile fetches.
func (c *Compositor) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// deliver passes an update to OnTile unless the grid has been
// superseded since the fetch started.
func (c *Compositor) deliver(gen int, up Update) {
	c.mu.Lock()
	stale := gen != c.gen
	cb := c.OnTile
	c.mu.Unlock()
	if stale || cb == nil {
		return
	}
	cb(up)
}

func (c *Compositor) fetch(ctx context.Context, tile Tile) (*image.RGBA, error) {
	url := strings.NewReplacer(
		"{z}", strconv.Itoa(tile.Z),
		"{x}", strconv.Itoa(tile.X),
		"{y}", strconv.Itoa(tile.Y),
	).Replace(c.URLTemplate)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("basemap: building request for %s: %w", url, err)
	}
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("basemap: fetching %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("basemap: fetching %s: status %s", url, resp.Status)
	}

	src, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("basemap: decoding %s: %w", url, err)
	}
	return normalize(src), nil
}

// normalize scales decoded imagery to the uniform tile texture size.
func normalize(src image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, TileSizePx, TileSizePx))
	if b := src.Bounds(); b.Dx() == TileSizePx && b.Dy() == TileSizePx {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	} else {
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	}
	return dst
}

// NeutralTile returns a fresh neutral-colored placeholder texture of
// the standard tile size.
func NeutralTile() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, TileSizePx, TileSizePx))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 0x9a, G: 0x9a, B: 0x94, A: 0xff}),
		image.Point{}, draw.Src)
	return img
}
