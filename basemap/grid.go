// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package basemap computes web-mercator tile grids for a GPS
// coordinate and composites the fetched tile imagery into ground
// planes placed in render space.
package basemap

import (
	"math"

	"github.com/pvscene/pvscene/math32"
)

// earthCircumference is the equatorial circumference of the web
// mercator sphere in meters.
const earthCircumference = 40075016.686

// TileSideMeters returns the real-world side length in meters of one
// 256px tile at the given latitude and zoom level.
func TileSideMeters(lat float64, zoom int) float64 {
	return earthCircumference * math.Cos(lat*math.Pi/180) / math.Exp2(float64(zoom))
}

// tileCoords returns the fractional tile coordinates of the given GPS
// point at the given zoom.
func tileCoords(lat, lon float64, zoom int) (x, y float64) {
	n := math.Exp2(float64(zoom))
	x = (lon + 180) / 360 * n
	latRad := lat * math.Pi / 180
	y = (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * n
	return x, y
}

// GridSize returns the odd N for an NxN tile grid covering the given
// ground footprint in meters. A footprint that fits a single tile
// yields 1.
func GridSize(footprintMeters, tileSideMeters float64) int {
	if footprintMeters <= tileSideMeters {
		return 1
	}
	n := int(math.Ceil(footprintMeters / tileSideMeters))
	if n < 1 {
		n = 1
	}
	if n%2 == 0 {
		n++
	}
	return n
}

// Tile is one basemap tile of a [Grid]: its slippy-map indices and
// its placement in render space.
type Tile struct {
	X int
	Y int
	Z int

	// Center is the render-space center of this tile's ground plane,
	// relative to the grid's requested GPS point at the origin.
	Center math32.Vector3
}

// Key returns the z/x/y identity of the tile.
func (t Tile) Key() [3]int {
	return [3]int{t.Z, t.X, t.Y}
}

// Grid is an odd NxN arrangement of basemap tiles with the requested
// GPS point on the center tile.
type Grid struct {
	N          int
	Zoom       int
	SideMeters float64
	Tiles      []Tile
}

// NewGrid computes the tile grid for the given GPS coordinate, zoom
// level and desired ground footprint in meters. The requested point
// lands on the center tile and maps to the render-space origin; tile
// placement offsets account for where the point falls inside that
// tile.
func NewGrid(lat, lon float64, zoom int, footprintMeters float64) *Grid {
	side := TileSideMeters(lat, zoom)
	n := GridSize(footprintMeters, side)

	fx, fy := tileCoords(lat, lon, zoom)
	cx := int(math.Floor(fx))
	cy := int(math.Floor(fy))

	// render-space offset from the requested point to the center
	// tile's center: +x east, +z south (tile y grows southward)
	ox := (math.Floor(fx) + 0.5 - fx) * side
	oz := (math.Floor(fy) + 0.5 - fy) * side

	g := &Grid{N: n, Zoom: zoom, SideMeters: side}
	half := n / 2
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			g.Tiles = append(g.Tiles, Tile{
				X: cx + dx,
				Y: cy + dy,
				Z: zoom,
				Center: math32.Vec3(
					float32(ox+float64(dx)*side),
					0,
					float32(oz+float64(dy)*side),
				),
			})
		}
	}
	return g
}
