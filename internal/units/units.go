// Package units normalizes byte quantities between raw bytes and megabytes.
package units

// Unit is a byte-based unit token
type Unit string

const (
	Bytes     Unit = "bytes"
	Megabytes Unit = "mb"
)

// BytesPerMegabyte is the binary megabyte used throughout the calculators
const BytesPerMegabyte = 1024 * 1024

// ConvertUnit converts value between byte units. Equal units return value
// unchanged, and so does any pair that is not bytes<->mb.
func ConvertUnit(value float64, from, to Unit) float64 {
	if from == to {
		return value
	}

	switch {
	case from == Bytes && to == Megabytes:
		return value / BytesPerMegabyte
	case from == Megabytes && to == Bytes:
		return value * BytesPerMegabyte
	}

	return value
}

// ToBytes converts value expressed in unit to raw bytes
func ToBytes(value float64, from Unit) float64 {
	return ConvertUnit(value, from, Bytes)
}

// Valid reports whether u is one of the normalizable byte units
func (u Unit) Valid() bool {
	return u == Bytes || u == Megabytes
}
