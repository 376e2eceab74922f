// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/pvscene/pvscene/basemap"
	"github.com/pvscene/pvscene/math32"
)

// groundSet holds the basemap ground planes. Tile updates arrive from
// fetch goroutines, so the tile and pending-texture state is
// mutex-guarded; the drawer itself is only ever touched from the
// frame loop, which drains the pending queue via flush.
type groundSet struct {
	mu      sync.Mutex
	side    float32
	tiles   map[[3]int]groundTile
	pending []pendingTexture
}

type groundTile struct {
	tex    string
	center math32.Vector3
}

type pendingTexture struct {
	name string
	img  *image.RGBA
}

func newGroundSet() *groundSet {
	return &groundSet{tiles: map[[3]int]groundTile{}}
}

// apply ingests one compositor update. Called from fetch goroutines:
// it only queues the texture, never touches the drawer.
func (gs *groundSet) apply(up basemap.Update, side float64) {
	name := fmt.Sprintf("tile-%d-%d-%d", up.Tile.Z, up.Tile.X, up.Tile.Y)
	if up.Fallback {
		name += "-fallback"
	}
	gs.mu.Lock()
	gs.side = float32(side)
	gs.tiles[up.Tile.Key()] = groundTile{tex: name, center: up.Tile.Center}
	gs.pending = append(gs.pending, pendingTexture{name: name, img: up.Image})
	gs.mu.Unlock()
}

// flush registers queued tile textures on the drawer. Called from the
// frame loop only, keeping the drawer single-writer.
func (gs *groundSet) flush(d Drawer) {
	gs.mu.Lock()
	pend := gs.pending
	gs.pending = nil
	gs.mu.Unlock()
	for _, p := range pend {
		d.SetTexture(p.name, p.img)
	}
}

// reset clears all tiles, e.g. when a new grid supersedes the old one.
func (gs *groundSet) reset() {
	gs.mu.Lock()
	gs.tiles = map[[3]int]groundTile{}
	gs.pending = nil
	gs.mu.Unlock()
}

func (gs *groundSet) render(d Drawer) {
	gs.mu.Lock()
	side := gs.side
	tiles := make([]groundTile, 0, len(gs.tiles))
	for _, t := range gs.tiles {
		tiles = append(tiles, t)
	}
	gs.mu.Unlock()

	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	one := math32.Vec3(1, 1, 1)
	// ground quads lie flat: rotate the quad plane onto the ground
	flat := math32.NewQuatAxisAngle(math32.Vec3(1, 0, 0), -math32.Pi/2)
	for _, t := range tiles {
		var tr math32.Matrix4
		tr.SetTransform(t.center, flat, one)
		d.DrawQuad(&tr, math32.Vec2(side, side), t.tex, white)
	}
}

// LoadBasemap composites basemap tiles under the layout using the
// given compositor. The scene's georeference must be present; without
// one the ground stays bare. The footprint defaults to the layout
// extent when zero.
func (sc *Scene) LoadBasemap(ctx context.Context, comp *basemap.Compositor, zoom int, footprintMeters float64) *basemap.Grid {
	if sc.layout == nil || sc.layout.Geo == nil {
		return nil
	}
	if footprintMeters <= 0 {
		ext := sc.layout.Bounds.Extents
		footprintMeters = 2 * maxf(ext.X, ext.Y)
	}
	sc.ground.reset()

	side := basemap.TileSideMeters(sc.layout.Geo.Lat, zoom)
	comp.OnTile = func(up basemap.Update) {
		sc.ground.apply(up, side)
	}
	return comp.Load(ctx, sc.layout.Geo.Lat, sc.layout.Geo.Lon, zoom, footprintMeters)
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
