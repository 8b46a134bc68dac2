package geometry

import (
	"math"
	"strings"

	"github.com/tphakala/dasdcalc/internal/units"
)

// Unit is a DASD addressing unit token
type Unit string

const (
	Cylinders Unit = "CYL"
	Tracks    Unit = "TRKS"
	Megabytes Unit = "MO"
)

// AllUnits lists the recognized units in display order.
var AllUnits = []Unit{Cylinders, Tracks, Megabytes}

// Valid reports whether u is a recognized unit.
func (u Unit) Valid() bool {
	switch u {
	case Cylinders, Tracks, Megabytes:
		return true
	}
	return false
}

// ParseUnit maps user input to a Unit. Besides the canonical tokens it
// accepts common spellings (cyl, cylinders, trk, tracks, mb). Unrecognized
// input is returned as-is so that Convert degrades it to zero.
func ParseUnit(s string) Unit {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CYL", "CYLS", "CYLINDER", "CYLINDERS":
		return Cylinders
	case "TRK", "TRKS", "TRACK", "TRACKS":
		return Tracks
	case "MO", "MB", "MEGABYTES":
		return Megabytes
	}
	return Unit(s)
}

// Converter converts quantities for a single resolved profile.
type Converter struct {
	profile Profile
}

// NewConverter returns a converter for the device type key.
func NewConverter(key string) (*Converter, error) {
	p, err := Lookup(key)
	if err != nil {
		return nil, err
	}
	return &Converter{profile: p}, nil
}

// Profile returns the profile the converter is bound to.
func (c *Converter) Profile() Profile {
	return c.profile
}

// Convert converts value from one unit to another. Non-positive or
// non-finite values and unrecognized units yield 0.
func (c *Converter) Convert(value float64, from, to Unit) float64 {
	if !(value > 0) || math.IsInf(value, 1) {
		return 0
	}

	var tracks float64
	switch from {
	case Cylinders:
		tracks = value * float64(c.profile.TracksPerCylinder)
	case Tracks:
		tracks = value
	case Megabytes:
		tracks = value * units.BytesPerMegabyte / float64(c.profile.BytesPerTrack)
	default:
		return 0
	}

	switch to {
	case Cylinders:
		return tracks / float64(c.profile.TracksPerCylinder)
	case Tracks:
		return tracks
	case Megabytes:
		return tracks * float64(c.profile.BytesPerTrack) / units.BytesPerMegabyte
	default:
		return 0
	}
}

// ConvertAll expresses value in every recognized unit.
func (c *Converter) ConvertAll(value float64, from Unit) map[Unit]float64 {
	out := make(map[Unit]float64, len(AllUnits))
	for _, u := range AllUnits {
		out[u] = c.Convert(value, from, u)
	}
	return out
}

// Convert converts value between units for the device type key. The only
// error is an unknown device type; degenerate values and units yield 0.
func Convert(value float64, from, to Unit, key string) (float64, error) {
	c, err := NewConverter(key)
	if err != nil {
		return 0, err
	}
	return c.Convert(value, from, to), nil
}
