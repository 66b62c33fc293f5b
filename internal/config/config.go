package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "dietchart/internal/errors"
	"dietchart/internal/layout"
)

// DefaultSource is the published dataset: GDD 2018 dietary factors for Greece by age.
const DefaultSource = "https://raw.githubusercontent.com/akprodromou/dietary-factors-age/refs/heads/main/dietary_factors_per_age_GR.csv"

// Config represents the complete application configuration
type Config struct {
	Source  SourceConfig
	Dataset DatasetConfig
	Chart   ChartConfig
	Server  ServerConfig
}

// SourceConfig says where the dataset comes from
type SourceConfig struct {
	Location     string
	FetchTimeout time.Duration
}

// DatasetConfig holds the constants tied to one particular dataset
type DatasetConfig struct {
	Exclusions []string
	Marker     string
	TrimCount  int
}

// ChartConfig selects the geometry and the texts
type ChartConfig struct {
	Preset string
	Labels layout.Labels
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// Profile is the YAML form of the dataset and chart settings. Absent keys keep the defaults.
type Profile struct {
	Source     string         `yaml:"source"`
	Exclusions []string       `yaml:"exclusions"`
	Marker     *string        `yaml:"marker"`
	TrimCount  *int           `yaml:"trim_count"`
	Preset     string         `yaml:"preset"`
	Labels     *layout.Labels `yaml:"labels"`
}

// Default returns the settings of the published chart.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Location:     DefaultSource,
			FetchTimeout: 30 * time.Second,
		},
		Dataset: DatasetConfig{
			Exclusions: []string{
				"Total.omega.6.fat",
				"Other.starchy.vegetables",
				"Vitamin.A.with.supplements",
				"Potatoes",
				"Total.seafoods",
			},
			Marker: "Vita",
			// The last rows are the sparse oldest age groups
			TrimCount: 4,
		},
		Chart: ChartConfig{
			Preset: "standard",
			Labels: layout.DefaultLabels(),
		},
		Server: ServerConfig{Port: "8080"},
	}
}

// Load reads .env (if present), then PROFILE_FILE (if set), then the environment,
// each layer overriding the previous one, and validates the result.
func Load() (*Config, error) {
	return LoadWith("")
}

// LoadWith is Load with an explicit profile path; an empty path falls back to PROFILE_FILE.
func LoadWith(profilePath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] ignoring .env: %v", err)
	}

	cfg := Default()

	path := profilePath
	if path == "" {
		path = os.Getenv("PROFILE_FILE")
	}
	if path != "" {
		p, err := LoadProfile(path)
		if err != nil {
			return nil, err
		}
		cfg.ApplyProfile(p)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, apperrors.Wrap(err, "failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// LoadProfile parses a YAML profile file.
func LoadProfile(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ConfigInvalid(err.Error()), "failed to read profile %s", path)
	}
	var p Profile
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, apperrors.Wrapf(apperrors.ConfigInvalid(err.Error()), "failed to parse profile %s", path)
	}
	return &p, nil
}

// ApplyProfile overrides the settings the profile sets.
func (c *Config) ApplyProfile(p *Profile) {
	if p.Source != "" {
		c.Source.Location = p.Source
	}
	if p.Exclusions != nil {
		c.Dataset.Exclusions = p.Exclusions
	}
	if p.Marker != nil {
		c.Dataset.Marker = *p.Marker
	}
	if p.TrimCount != nil {
		c.Dataset.TrimCount = *p.TrimCount
	}
	if p.Preset != "" {
		c.Chart.Preset = p.Preset
	}
	if p.Labels != nil {
		mergeLabels(&c.Chart.Labels, *p.Labels)
	}
}

func mergeLabels(dst *layout.Labels, src layout.Labels) {
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&dst.Title, src.Title},
		{&dst.Subtitle, src.Subtitle},
		{&dst.SourceNote, src.SourceNote},
		{&dst.AxisLabel, src.AxisLabel},
		{&dst.LegendLabel, src.LegendLabel},
	} {
		if f.src != "" {
			*f.dst = f.src
		}
	}
}

func (c *Config) applyEnv() error {
	c.Source.Location = getEnvOrDefault("DATA_SOURCE", c.Source.Location)
	c.Chart.Preset = getEnvOrDefault("GEOMETRY_PRESET", c.Chart.Preset)
	c.Server.Port = getEnvOrDefault("PORT", c.Server.Port)

	if v, ok := os.LookupEnv("VITAMIN_MARKER"); ok {
		c.Dataset.Marker = v
	}
	if v, ok := os.LookupEnv("EXCLUDED_COLUMNS"); ok {
		c.Dataset.Exclusions = splitList(v)
	}
	if v := os.Getenv("TRIM_COUNT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apperrors.ConfigInvalid("TRIM_COUNT must be an integer")
		}
		c.Dataset.TrimCount = n
	}
	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return apperrors.ConfigInvalid("FETCH_TIMEOUT must be a duration like 30s")
		}
		c.Source.FetchTimeout = d
	}
	return nil
}

// Validate checks the settings a load cannot run without.
func (c *Config) Validate() error {
	if c.Source.Location == "" {
		return apperrors.ConfigInvalid("DATA_SOURCE is required")
	}
	if c.Source.FetchTimeout <= 0 {
		return apperrors.ConfigInvalid("FETCH_TIMEOUT must be positive")
	}
	if c.Dataset.TrimCount < 0 {
		return apperrors.ConfigInvalid("TRIM_COUNT must not be negative")
	}
	if _, err := layout.Preset(c.Chart.Preset); err != nil {
		return err
	}
	if c.Server.Port == "" {
		return apperrors.ConfigInvalid("PORT is required")
	}
	return nil
}

// Geometry resolves the configured preset.
func (c *Config) Geometry() (layout.Geometry, error) {
	return layout.Preset(c.Chart.Preset)
}

func splitList(v string) []string {
	out := []string{}
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
