// Package coverage derives the antenna coverage footprint (ring, boundary
// rays and heading ray) from the tracker state, and replays it onto a map
// layer.
package coverage

import (
	"errors"

	"github.com/Rrisinglight/isabella/internal/config"
	"github.com/Rrisinglight/isabella/internal/geo"
)

// ErrBaseUnset is returned when geometry is requested before the two-phase
// base setup has completed.
var ErrBaseUnset = errors.New("coverage: base point or base direction not set")

// AntennaState is the read model the geometry derives from. Base and
// BaseDirection go through two-phase setup: first map click sets the base
// point, the second fixes the reference direction.
type AntennaState struct {
	Base          geo.Point
	HasBase       bool
	BaseDirection float64 // degrees [0,360), valid when HasDirection
	HasDirection  bool

	CurrentAngle float64 // degrees within [MinAngle, MaxAngle]
	MinAngle     float64
	MaxAngle     float64
	RangeKm      float64
}

// DefaultState returns an empty state with the physical servo limits.
func DefaultState() AntennaState {
	return AntennaState{
		MinAngle:     config.MinAngle,
		MaxAngle:     config.MaxAngle,
		CurrentAngle: (config.MinAngle + config.MaxAngle) / 2,
		RangeKm:      config.DefaultRangeKm,
	}
}

// Ready reports whether both base point and base direction are set.
func (s AntennaState) Ready() bool {
	return s.HasBase && s.HasDirection
}

// Midpoint is the servo angle that points exactly at BaseDirection.
func (s AntennaState) Midpoint() float64 {
	return (s.MinAngle + s.MaxAngle) / 2
}

// HalfSpan is half the total servo sweep in degrees.
func (s AntennaState) HalfSpan() float64 {
	return (s.MaxAngle - s.MinAngle) / 2
}

// AbsoluteDirection is the compass bearing the antenna currently points at.
// Only meaningful when HasDirection.
func (s AntennaState) AbsoluteDirection() float64 {
	offset := s.CurrentAngle - s.Midpoint()
	return geo.NormalizeDeg(s.BaseDirection + offset)
}

// LeftBoundary is the compass bearing of the left edge of the sweep.
func (s AntennaState) LeftBoundary() float64 {
	return geo.NormalizeDeg(s.BaseDirection - s.HalfSpan())
}

// RightBoundary is the compass bearing of the right edge of the sweep.
func (s AntennaState) RightBoundary() float64 {
	return geo.NormalizeDeg(s.BaseDirection + s.HalfSpan())
}

// Geometry is a computed coverage snapshot ready for the renderer.
type Geometry struct {
	Base geo.Point

	// Ring is the coverage polygon: base point, arc samples from the left
	// boundary around to the right boundary, base point again.
	Ring []geo.Point

	// Rays from the base point to the range limit.
	Heading  [2]geo.Point
	LeftRay  [2]geo.Point
	RightRay [2]geo.Point
}

// Compute derives the coverage geometry from the state. stepDeg controls
// ring resolution; pass config.ArcStep unless the display needs otherwise.
// Returns ErrBaseUnset when the two-phase setup is incomplete.
func Compute(s AntennaState, stepDeg float64) (Geometry, error) {
	if !s.Ready() {
		return Geometry{}, ErrBaseUnset
	}
	if stepDeg <= 0 {
		stepDeg = config.ArcStep
	}

	left := s.LeftBoundary()
	right := s.RightBoundary()

	// Walk the arc as an offset from the left boundary so a sweep crossing
	// 0/360 stays one continuous ring. span is the clockwise extent.
	span := geo.NormalizeDeg(right - left)
	if span == 0 && s.HalfSpan() > 0 {
		span = 360
	}

	ring := make([]geo.Point, 0, int(span/stepDeg)+3)
	ring = append(ring, s.Base)
	for off := 0.0; off < span; off += stepDeg {
		ring = append(ring, geo.Endpoint(s.Base, geo.NormalizeDeg(left+off), s.RangeKm))
	}
	// closing sample exactly at the right boundary, so the ring never stops
	// short when the span is not a multiple of the step
	ring = append(ring, geo.Endpoint(s.Base, right, s.RangeKm))
	ring = append(ring, s.Base)

	g := Geometry{
		Base:     s.Base,
		Ring:     ring,
		Heading:  [2]geo.Point{s.Base, geo.Endpoint(s.Base, s.AbsoluteDirection(), s.RangeKm)},
		LeftRay:  [2]geo.Point{s.Base, geo.Endpoint(s.Base, left, s.RangeKm)},
		RightRay: [2]geo.Point{s.Base, geo.Endpoint(s.Base, right, s.RangeKm)},
	}
	return g, nil
}
