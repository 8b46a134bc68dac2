package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/tphakala/dasdcalc/internal/capacity"
)

func TestNumber(t *testing.T) {
	t.Parallel()

	p := New(language.English, 2)

	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{15, "15"},
		{849960, "849,960"},
		{0.8105, "0.81"},
		{1234.5, "1,234.5"},
		{-300, "-300"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.Number(tt.in))
	}
}

func TestPercentBytesLevel(t *testing.T) {
	t.Parallel()

	p := New(language.English, 1)
	assert.Equal(t, "55%", p.Percent(55))
	assert.Equal(t, "12.3%", p.Percent(12.34))
	assert.Equal(t, "2,097,152 bytes (2 MB)", p.Bytes(2*1048576))
	assert.Equal(t, "Warning", p.Level(capacity.LevelWarning))
}

func TestNegativePrecision(t *testing.T) {
	t.Parallel()

	p := New(language.English, -3)
	assert.Equal(t, "1", p.Number(0.6))
}
