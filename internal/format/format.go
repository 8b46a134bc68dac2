// Package format renders calculator results for terminal output with
// locale-aware digit grouping.
package format

import (
	"math"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/tphakala/dasdcalc/internal/capacity"
	"github.com/tphakala/dasdcalc/internal/units"
)

// Printer formats numbers with a fixed number of decimals.
type Printer struct {
	p         *message.Printer
	title     cases.Caser
	precision int
}

// New returns a Printer for tag. A negative precision is treated as zero.
func New(tag language.Tag, precision int) *Printer {
	return &Printer{
		p:         message.NewPrinter(tag),
		title:     cases.Title(tag),
		precision: max(precision, 0),
	}
}

// Number formats v with grouping and the configured precision. Integral
// values are printed without decimals.
func (pr *Printer) Number(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		return pr.p.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(0)))
	}
	return pr.p.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(pr.precision)))
}

// Percent formats a percentage value such as 42.5 as "42.5%".
func (pr *Printer) Percent(v float64) string {
	return pr.Number(v) + "%"
}

// Bytes formats a byte count followed by its megabyte equivalent.
func (pr *Printer) Bytes(v float64) string {
	mb := units.ConvertUnit(v, units.Bytes, units.Megabytes)
	return pr.p.Sprintf("%s bytes (%s MB)", pr.Number(v), pr.Number(mb))
}

// Level returns a capitalized alert level.
func (pr *Printer) Level(l capacity.Level) string {
	return pr.title.String(string(l))
}

// Sprintf formats according to the printer's locale.
func (pr *Printer) Sprintf(format string, args ...any) string {
	return pr.p.Sprintf(format, args...)
}
