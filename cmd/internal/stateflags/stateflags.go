// Package stateflags resolves a storage state from command line flags or
// from the live filesystem.
package stateflags

import (
	"github.com/spf13/pflag"

	"github.com/tphakala/dasdcalc/internal/capacity"
	"github.com/tphakala/dasdcalc/internal/diskmanager"
	"github.com/tphakala/dasdcalc/internal/errors"
	"github.com/tphakala/dasdcalc/internal/units"
)

// stateForPath is replaced in tests
var stateForPath = diskmanager.StateForPath

// StateFlags holds the flags describing a volume.
type StateFlags struct {
	Total float64
	Used  float64
	Unit  string
	Path  string
}

// Register adds the state flags to fs.
func (f *StateFlags) Register(fs *pflag.FlagSet) {
	fs.Float64Var(&f.Total, "total", 0, "Total capacity of the volume")
	fs.Float64Var(&f.Used, "used", 0, "Used capacity of the volume")
	fs.StringVar(&f.Unit, "unit", string(units.Bytes), "Unit of --total and --used (bytes, mb)")
	fs.StringVar(&f.Path, "path", "", "Read total and used space from the filesystem holding this path")
}

// Resolve returns the state in bytes. --path wins over --total/--used.
func (f *StateFlags) Resolve() (capacity.State, error) {
	if f.Path != "" {
		return stateForPath(f.Path)
	}

	unit := units.Unit(f.Unit)
	if !unit.Valid() {
		return capacity.State{}, errors.Newf("unsupported unit %q, use bytes or mb", f.Unit).
			Component("cli").
			Category(errors.CategoryValidation).
			Build()
	}
	if f.Total < 0 || f.Used < 0 {
		return capacity.State{}, errors.Newf("total and used space must not be negative").
			Component("cli").
			Category(errors.CategoryValidation).
			Build()
	}

	return capacity.NewState(units.ToBytes(f.Total, unit), units.ToBytes(f.Used, unit)), nil
}
