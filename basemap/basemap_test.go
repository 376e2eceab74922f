// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package basemap

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridSizeAlwaysOddAndPositive(t *testing.T) {
	tests := []struct {
		footprint float64
		side      float64
		want      int
	}{
		{100, 150, 1},  // fits one tile
		{150, 150, 1},  // exact fit
		{400, 150, 3},  // ceil(400/150)=3, already odd
		{700, 150, 5},  // ceil=5
		{600, 150, 5},  // ceil=4, bumped to odd
		{0, 150, 1},    // degenerate footprint
		{1500, 150, 11},
	}
	for _, tt := range tests {
		got := GridSize(tt.footprint, tt.side)
		assert.Equal(t, tt.want, got, "footprint %v side %v", tt.footprint, tt.side)
		assert.GreaterOrEqual(t, got, 1)
		assert.Equal(t, 1, got%2)
	}
}

func TestTileSideMetersShrinksWithZoom(t *testing.T) {
	lat := 37.0
	prev := TileSideMeters(lat, 10)
	for z := 11; z <= 18; z++ {
		side := TileSideMeters(lat, z)
		assert.Less(t, side, prev)
		prev = side
	}
	// each zoom level halves the side
	assert.InDelta(t, TileSideMeters(lat, 10)/2, TileSideMeters(lat, 11), 1e-6)
}

func TestNewGridCenterTileContainsPoint(t *testing.T) {
	g := NewGrid(37.42, -122.08, 17, 400)
	require.Equal(t, len(g.Tiles), g.N*g.N)
	assert.Equal(t, 1, g.N%2)

	// the center tile's plane must cover the origin (the requested point)
	center := g.Tiles[len(g.Tiles)/2]
	half := float32(g.SideMeters / 2)
	assert.LessOrEqual(t, center.Center.X-half, float32(0))
	assert.GreaterOrEqual(t, center.Center.X+half, float32(0))
	assert.LessOrEqual(t, center.Center.Z-half, float32(0))
	assert.GreaterOrEqual(t, center.Center.Z+half, float32(0))
}

func TestNewGridSingleTileForSmallFootprint(t *testing.T) {
	g := NewGrid(37.42, -122.08, 12, 10)
	assert.Equal(t, 1, g.N)
	assert.Len(t, g.Tiles, 1)
}

func tilePNG(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCompositorFetchesAndNormalizes(t *testing.T) {
	body := tilePNG(t, color.RGBA{R: 10, G: 200, B: 30, A: 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	var mu sync.Mutex
	var updates []Update
	c := &Compositor{
		URLTemplate: srv.URL + "/{z}/{x}/{y}.png",
		OnTile: func(up Update) {
			mu.Lock()
			updates = append(updates, up)
			mu.Unlock()
		},
	}
	grid := c.Load(context.Background(), 37.42, -122.08, 17, 10)
	c.Wait()

	require.Equal(t, 1, grid.N)
	mu.Lock()
	defer mu.Unlock()
	// first the fallback, then the fetched image
	require.Len(t, updates, 2)
	assert.True(t, updates[0].Fallback)
	assert.False(t, updates[1].Fallback)
	got := updates[1].Image
	assert.Equal(t, TileSizePx, got.Bounds().Dx())
	assert.Equal(t, uint8(200), got.RGBAAt(128, 128).G)
}

func TestCompositorFallbackOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	var mu sync.Mutex
	var updates []Update
	c := &Compositor{
		URLTemplate: srv.URL + "/{z}/{x}/{y}.png",
		OnTile: func(up Update) {
			mu.Lock()
			updates = append(updates, up)
			mu.Unlock()
		},
	}
	c.Load(context.Background(), 37.42, -122.08, 17, 10)
	c.Wait()

	mu.Lock()
	defer mu.Unlock()
	// only the fallback is ever delivered
	require.Len(t, updates, 1)
	assert.True(t, updates[0].Fallback)
}

func TestCompositorDiscardsSupersededResults(t *testing.T) {
	release := make(chan struct{})
	body := tilePNG(t, color.RGBA{R: 10, G: 200, B: 30, A: 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write(body)
	}))
	defer srv.Close()

	var mu sync.Mutex
	fetched := 0
	c := &Compositor{
		URLTemplate: srv.URL + "/{z}/{x}/{y}.png",
		OnTile: func(up Update) {
			if !up.Fallback {
				mu.Lock()
				fetched++
				mu.Unlock()
			}
		},
	}
	// first load is superseded while its fetch is blocked
	c.Load(context.Background(), 37.42, -122.08, 17, 10)
	c.Load(context.Background(), 37.42, -122.08, 17, 10)
	close(release)
	c.Wait()

	mu.Lock()
	defer mu.Unlock()
	// at most the second load's fetch may land; the first is discarded
	assert.LessOrEqual(t, fetched, 1)
}
