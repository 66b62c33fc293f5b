package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "dietchart/internal/errors"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"PROFILE_FILE", "DATA_SOURCE", "GEOMETRY_PRESET", "PORT", "VITAMIN_MARKER", "EXCLUDED_COLUMNS", "TRIM_COUNT", "FETCH_TIMEOUT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultSource, cfg.Source.Location)
	assert.Equal(t, "Vita", cfg.Dataset.Marker)
	assert.Equal(t, 4, cfg.Dataset.TrimCount)
	assert.Contains(t, cfg.Dataset.Exclusions, "Potatoes")
	assert.Equal(t, "standard", cfg.Chart.Preset)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Source.FetchTimeout)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATA_SOURCE", "data/diet.csv")
	t.Setenv("TRIM_COUNT", "0")
	t.Setenv("VITAMIN_MARKER", "")
	t.Setenv("EXCLUDED_COLUMNS", " Potatoes, ,Milk ")
	t.Setenv("GEOMETRY_PRESET", "tall")
	t.Setenv("FETCH_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/diet.csv", cfg.Source.Location)
	assert.Equal(t, 0, cfg.Dataset.TrimCount)
	assert.Equal(t, "", cfg.Dataset.Marker, "an explicitly empty marker disables marker matching")
	assert.Equal(t, []string{"Potatoes", "Milk"}, cfg.Dataset.Exclusions)
	assert.Equal(t, 5*time.Second, cfg.Source.FetchTimeout)

	g, err := cfg.Geometry()
	require.NoError(t, err)
	assert.Equal(t, "tall", g.Name)
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]string{
		"TRIM_COUNT":      "many",
		"FETCH_TIMEOUT":   "soon",
		"GEOMETRY_PRESET": "poster",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
		})
	}
}

func TestLoadProfile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
source: data/other.csv
exclusions: [Salt]
marker: Vit
trim_count: 0
labels:
  title: Diet by age
`), 0o644))
	t.Setenv("PROFILE_FILE", path)
	t.Setenv("TRIM_COUNT", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/other.csv", cfg.Source.Location)
	assert.Equal(t, []string{"Salt"}, cfg.Dataset.Exclusions)
	assert.Equal(t, "Vit", cfg.Dataset.Marker)
	assert.Equal(t, 2, cfg.Dataset.TrimCount, "environment wins over the profile")
	assert.Equal(t, "Diet by age", cfg.Chart.Labels.Title)
	assert.Equal(t, "Age", cfg.Chart.Labels.AxisLabel, "unset labels keep their defaults")
}

func TestLoadWithProfilePath(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envProfile := filepath.Join(dir, "env.yaml")
	flagProfile := filepath.Join(dir, "flag.yaml")
	require.NoError(t, os.WriteFile(envProfile, []byte("marker: FromEnv\n"), 0o644))
	require.NoError(t, os.WriteFile(flagProfile, []byte("marker: FromFlag\n"), 0o644))
	t.Setenv("PROFILE_FILE", envProfile)

	cfg, err := LoadWith(flagProfile)
	require.NoError(t, err)
	assert.Equal(t, "FromFlag", cfg.Dataset.Marker, "explicit path wins over PROFILE_FILE")
	assert.Equal(t, envProfile, os.Getenv("PROFILE_FILE"))

	cfg, err = LoadWith("")
	require.NoError(t, err)
	assert.Equal(t, "FromEnv", cfg.Dataset.Marker)
}

func TestLoadProfileErrors(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("trim_count: [1, 2"), 0o644))
	_, err = LoadProfile(path)
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Dataset.TrimCount = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Source.Location = ""
	assert.Error(t, cfg.Validate())
}
