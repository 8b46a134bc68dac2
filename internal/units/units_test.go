package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertUnit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    float64
		from, to Unit
		want     float64
	}{
		{"bytes to mb", 1048576, Bytes, Megabytes, 1},
		{"mb to bytes", 100, Megabytes, Bytes, 104857600},
		{"identity bytes", 42, Bytes, Bytes, 42},
		{"identity mb", 0.5, Megabytes, Megabytes, 0.5},
		{"unknown source passes through", 7, Unit("gb"), Bytes, 7},
		{"unknown target passes through", 7, Bytes, Unit("kb"), 7},
		{"negative values convert", -2, Megabytes, Bytes, -2 * BytesPerMegabyte},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, ConvertUnit(tt.value, tt.from, tt.to), 1e-9)
		})
	}
}

func TestToBytes(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 3*BytesPerMegabyte, ToBytes(3, Megabytes), 0)
	assert.InDelta(t, 3, ToBytes(3, Bytes), 0)
}

func TestValid(t *testing.T) {
	t.Parallel()

	assert.True(t, Bytes.Valid())
	assert.True(t, Megabytes.Valid())
	assert.False(t, Unit("percentage").Valid())
	assert.False(t, Unit("MB").Valid())
}
