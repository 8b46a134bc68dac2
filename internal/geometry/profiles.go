// Package geometry converts DASD quantities between cylinders, tracks and
// megabytes for a fixed catalog of device geometries.
package geometry

import (
	"slices"
	"strings"

	"github.com/tphakala/dasdcalc/internal/errors"
)

// Profile describes the addressing layout of one device model.
type Profile struct {
	Key               string `json:"key" yaml:"key"`
	Name              string `json:"name" yaml:"name"`
	TracksPerCylinder int    `json:"tracks_per_cylinder" yaml:"tracks_per_cylinder"`
	BytesPerTrack     int    `json:"bytes_per_track" yaml:"bytes_per_track"`
}

// BytesPerCylinder returns the capacity of one cylinder in bytes.
func (p Profile) BytesPerCylinder() int {
	return p.TracksPerCylinder * p.BytesPerTrack
}

// ErrUnknownProfile is returned when a device type key is not in the catalog.
var ErrUnknownProfile = errors.NewStd("geometry: unknown device type")

// catalog is the closed set of supported devices, keyed by device type.
var catalog = map[string]Profile{
	"3390": {Key: "3390", Name: "IBM 3390", TracksPerCylinder: 15, BytesPerTrack: 56664},
	"3380": {Key: "3380", Name: "IBM 3380", TracksPerCylinder: 15, BytesPerTrack: 47476},
	"3350": {Key: "3350", Name: "IBM 3350", TracksPerCylinder: 30, BytesPerTrack: 19254},
}

// DefaultProfileKey is the device type used when none is configured.
const DefaultProfileKey = "3390"

// Lookup returns the profile registered under key.
func Lookup(key string) (Profile, error) {
	p, ok := catalog[strings.TrimSpace(key)]
	if !ok {
		return Profile{}, errors.New(ErrUnknownProfile).
			Component("geometry").
			Category(errors.CategoryNotFound).
			Context("device_type", key).
			Build()
	}
	return p, nil
}

// Profiles returns every catalog entry ordered by device type key.
func Profiles() []Profile {
	keys := Keys()
	out := make([]Profile, 0, len(keys))
	for _, k := range keys {
		out = append(out, catalog[k])
	}
	return out
}

// Keys returns the sorted device type keys.
func Keys() []string {
	keys := make([]string, 0, len(catalog))
	for k := range catalog {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
