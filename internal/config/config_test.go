package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "partial.json", `{"lidar_max_range": 10, "intensity_jitter": 0}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	s := cfg.Resolve()
	assert.Equal(t, 10.0, s.LidarMaxRange)
	assert.Equal(t, 0, s.IntensityJitter, "explicit zero survives resolution")
	assert.Equal(t, 25.0, s.ArenaWidth, "unset fields keep defaults")
	assert.Equal(t, 1.0, s.LidarFrequencyHz)
}

func TestLoadRejectsNonJSONExtension(t *testing.T) {
	path := writeConfig(t, "tuning.yaml", `{}`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := writeConfig(t, "bad.json", `{"arena_width": `)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []string{
		`{"arena_width": 0}`,
		`{"arena_height": -5}`,
		`{"lidar_frequency_hz": 0}`,
		`{"lidar_max_range": -1}`,
		`{"intensity_jitter": -1}`,
		`{"sonar_max_range": 0}`,
		`{"sonar_min_range": 5, "sonar_max_range": 4}`,
		`{"boundary_tolerance": 0}`,
		`{"step_meters": 0}`,
		`{"turn_step_degrees": -15}`,
	}
	for _, contents := range cases {
		path := writeConfig(t, "invalid.json", contents)
		_, err := Load(path)
		assert.Error(t, err, "contents: %s", contents)
	}
}

func TestDefaultSimConfigResolvesToDefaults(t *testing.T) {
	got := DefaultSimConfig().Resolve()
	want := (*SimConfig)(nil).Resolve()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeOverlaysOnlySetFields(t *testing.T) {
	base := DefaultSimConfig()
	override := &SimConfig{LidarFrequencyHz: ptrFloat64(5)}
	base.Merge(override)

	s := base.Resolve()
	assert.Equal(t, 5.0, s.LidarFrequencyHz)
	assert.Equal(t, 25.0, s.ArenaWidth)

	base.Merge(nil) // no-op
	assert.Equal(t, 5.0, base.Resolve().LidarFrequencyHz)
}
