package devices

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tphakala/dasdcalc/internal/conf"
	"github.com/tphakala/dasdcalc/internal/geometry"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	cmd := Command(conf.DefaultSettings())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(append([]string{}, args...))
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestDevicesTable(t *testing.T) {
	t.Parallel()

	out := run(t)
	assert.Contains(t, out, "TYPE")
	assert.Contains(t, out, "3390*")
	assert.Contains(t, out, "IBM 3380")
	assert.Contains(t, out, "56,664")
	assert.Contains(t, out, "849,960")
	assert.NotContains(t, out, "3350*")
}

func TestDevicesJSON(t *testing.T) {
	t.Parallel()

	var profiles []geometry.Profile
	require.NoError(t, json.Unmarshal([]byte(run(t, "--json")), &profiles))
	assert.Equal(t, geometry.Profiles(), profiles)
}

func TestDevicesYAML(t *testing.T) {
	t.Parallel()

	out := run(t, "--yaml")
	assert.Contains(t, out, "tracks_per_cylinder: 30")

	var profiles []geometry.Profile
	require.NoError(t, yaml.Unmarshal([]byte(out), &profiles))
	assert.Equal(t, geometry.Profiles(), profiles)
}

func TestDevicesFormatsExclusive(t *testing.T) {
	t.Parallel()

	cmd := Command(conf.DefaultSettings())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--json", "--yaml"})
	assert.Error(t, cmd.Execute())
}
