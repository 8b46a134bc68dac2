package errors

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKeepsExplicitMetadata(t *testing.T) {
	t.Parallel()

	ee := Newf("device type %q not found", "9999").
		Component("geometry").
		Category(CategoryNotFound).
		Context("device_type", "9999").
		Build()

	assert.Equal(t, "device type \"9999\" not found", ee.Error())
	assert.Equal(t, "geometry", ee.GetComponent())
	assert.Equal(t, string(CategoryNotFound), ee.GetCategory())
	assert.Equal(t, map[string]any{"device_type": "9999"}, ee.GetContext())
	assert.False(t, ee.Timestamp.IsZero())
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	err := New(fmt.Errorf("missing")).Category(CategoryNotFound).Build()
	wrapped := fmt.Errorf("lookup failed: %w", err)

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsNotFound(ValidationError("bad input")))
	assert.False(t, IsNotFound(fmt.Errorf("plain")))
}

func TestEnhancedErrorUnwrapsToSentinel(t *testing.T) {
	t.Parallel()

	sentinel := NewStd("sentinel")
	ee := New(fmt.Errorf("context: %w", sentinel)).Component("test").Build()

	require.ErrorIs(t, ee, sentinel)
	assert.True(t, Is(ee, &EnhancedError{Category: ee.Category}))
}

func TestDetectCategoryFromMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"not found", fmt.Errorf("profile not found"), CategoryNotFound},
		{"unknown", fmt.Errorf("unknown device"), CategoryNotFound},
		{"invalid", fmt.Errorf("invalid unit"), CategoryValidation},
		{"file", fmt.Errorf("cannot open file"), CategoryFileIO},
		{"generic", fmt.Errorf("something happened"), CategoryGeneric},
		{"nil", nil, CategoryGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, detectCategory(tt.err))
		})
	}
}

func TestTimingAddsOperationContext(t *testing.T) {
	t.Parallel()

	ee := New(fmt.Errorf("statfs failed")).
		Context("path", "/data").
		Timing("disk-usage", 1500*time.Millisecond).
		Build()

	ctx := ee.GetContext()
	assert.Equal(t, "/data", ctx["path"])
	assert.Equal(t, "disk-usage", ctx["operation"])
	assert.Equal(t, int64(1500), ctx["duration_ms"])
}
