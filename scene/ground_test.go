// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvscene/pvscene/basemap"
	"github.com/pvscene/pvscene/layout"
)

func TestLoadBasemapRequiresGeoreference(t *testing.T) {
	sc, _, _ := newTestScene(t, 1, 1) // no GeoData in the fixture
	comp := &basemap.Compositor{URLTemplate: "http://invalid/{z}/{x}/{y}.png"}
	grid := sc.LoadBasemap(context.Background(), comp, 18, 0)
	assert.Nil(t, grid)
	assert.Equal(t, 0, countGroundTiles(sc))
}

func TestLoadBasemapCoversGridWithFallbacks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	pl := gridLayout(2, 2)
	pl.Geo = &layout.GeoData{Lat: 39.5, Lon: -105.2}
	rd := newRecordDrawer()
	sc, _ := New(rd)
	sc.SetLayout(pl)

	comp := &basemap.Compositor{URLTemplate: srv.URL + "/{z}/{x}/{y}.png"}
	grid := sc.LoadBasemap(context.Background(), comp, 18, 400)
	require.NotNil(t, grid)
	comp.Wait()

	// fallback planes cover every tile even though every fetch 404ed,
	// but nothing reaches the drawer until a frame renders: texture
	// registration stays on the frame loop
	assert.Equal(t, len(grid.Tiles), countGroundTiles(sc))
	assert.Equal(t, 0, countTileTextures(rd))

	quadsBefore := rd.quads
	sc.RenderFrame(0)
	assert.Equal(t, quadsBefore+len(grid.Tiles), rd.quads)

	fallbacks := 0
	for name := range rd.textures {
		if strings.HasPrefix(name, "tile-") && strings.HasSuffix(name, "-fallback") {
			fallbacks++
		}
	}
	assert.Equal(t, len(grid.Tiles), fallbacks)
}

func countTileTextures(rd *recordDrawer) int {
	n := 0
	for name := range rd.textures {
		if strings.HasPrefix(name, "tile-") {
			n++
		}
	}
	return n
}

func countGroundTiles(sc *Scene) int {
	sc.ground.mu.Lock()
	defer sc.ground.mu.Unlock()
	return len(sc.ground.tiles)
}
