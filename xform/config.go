// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xform

import (
	_ "embed"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/pvscene/pvscene/layout"
)

//go:embed defaults.toml
var defaultsTOML []byte

// PanelDefaults are the fallback values for optional [layout.PanelRecord]
// fields, in meters and degrees.
type PanelDefaults struct {
	TableWidth     float64 `toml:"table-width"`
	TableHeight    float64 `toml:"table-height"`
	MountingHeight float64 `toml:"mounting-height"`
	TiltDeg        float64 `toml:"tilt-deg"`
}

// Offset is an empirical placement correction for one equipment type,
// in CAD meters in the equipment's local frame (lateral = +x,
// forward = +y at yaw 0).
type Offset struct {
	Lateral float64 `toml:"lateral"`
	Forward float64 `toml:"forward"`
}

// Config holds the geometry defaults and the per-type equipment
// correction table. All consumers (renderers, overlay, position
// lookup) must read corrections from the same Config so that a future
// tuning cannot desync the renderer from the lookup.
type Config struct {
	Panel   PanelDefaults          `toml:"panel"`
	Offsets map[string]Offset      `toml:"offsets"`
	Dims    map[string]layout.Dims `toml:"dims"`
}

// DefaultConfig returns the compiled-in configuration. The returned
// value is a fresh copy each call, so callers may mutate it.
func DefaultConfig() *Config {
	cfg := &Config{}
	if err := toml.Unmarshal(defaultsTOML, cfg); err != nil {
		// embedded data, cannot fail in a released build
		panic("xform: invalid embedded defaults.toml: " + err.Error())
	}
	return cfg
}

// LoadConfig returns the default configuration with the given TOML
// overlay applied on top. Only keys present in the overlay replace
// defaults.
func LoadConfig(overlay []byte) (*Config, error) {
	cfg := DefaultConfig()
	if len(overlay) == 0 {
		return cfg, nil
	}
	if err := toml.Unmarshal(overlay, cfg); err != nil {
		return nil, fmt.Errorf("xform: parsing config overlay: %w", err)
	}
	return cfg, nil
}

// OffsetFor returns the placement correction for the given equipment
// type, zero if none is configured.
func (c *Config) OffsetFor(et layout.EquipmentType) Offset {
	return c.Offsets[string(et)]
}

// DimsFor returns the dimensions for the given equipment record,
// preferring the record's own dimensions over the per-type default.
func (c *Config) DimsFor(rec *layout.EquipmentRecord) layout.Dims {
	if rec.Dimensions != nil {
		return *rec.Dimensions
	}
	if d, ok := c.Dims[string(rec.Type)]; ok {
		return d
	}
	return layout.Dims{Width: 1, Depth: 1, Height: 1}
}
