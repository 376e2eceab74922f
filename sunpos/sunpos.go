// Copyright (c) 2025, PVScene Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sunpos maps a decimal hour of day to a sun light direction
// and intensity for realistic scene preview. This is a stylized model,
// not an ephemeris: elevation is proportional to distance from noon
// and azimuth sweeps linearly east to west.
package sunpos

import "github.com/pvscene/pvscene/math32"

const (
	// HourMin and HourMax bound the modeled day; hours outside are clamped.
	HourMin = 6.0
	HourMax = 18.0

	// DegreesPerHour is the polar angle gained per hour away from noon,
	// reaching the horizon at the bounds.
	DegreesPerHour = 15.0

	// IntensityScale multiplies the cosine falloff.
	IntensityScale = 0.9

	// AmbientFloor keeps the scene from cutting to black at the horizon.
	AmbientFloor = 0.25
)

// Position is the sun state for one hour of day.
type Position struct {
	// Direction is the unit vector pointing from the scene toward the
	// sun, in render space (y-up, +x east).
	Direction math32.Vector3

	// Intensity is the directional light intensity in normalized units,
	// always at least [AmbientFloor].
	Intensity float32
}

// At returns the sun position for the given decimal hour of day,
// clamped to [HourMin, HourMax].
func At(hour float32) Position {
	hour = math32.Clamp(hour, HourMin, HourMax)

	// polar angle from zenith: 0 at noon, 90 degrees at the bounds
	polar := math32.DegToRad(math32.Abs(hour-12) * DegreesPerHour)

	// azimuth sweeps linearly east (+x) to west (-x) across the day
	azimuth := math32.Pi * (hour - HourMin) / (HourMax - HourMin)

	sinP := math32.Sin(polar)
	dir := math32.Vec3(
		sinP*math32.Cos(azimuth),
		math32.Cos(polar),
		-sinP*math32.Sin(azimuth),
	)

	return Position{
		Direction: dir.Normal(),
		Intensity: math32.Max(0, math32.Cos(polar))*IntensityScale + AmbientFloor,
	}
}

// PolarAngle returns the polar angle from zenith in radians for the
// given hour, clamped to the modeled day.
func PolarAngle(hour float32) float32 {
	hour = math32.Clamp(hour, HourMin, HourMax)
	return math32.DegToRad(math32.Abs(hour-12) * DegreesPerHour)
}
