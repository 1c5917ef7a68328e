// Package config handles configuration loading and validation for meridian.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/meridian/internal/timeline"
	"gopkg.in/yaml.v3"
)

// Environment overrides.
const (
	EnvConfigPath = "MERIDIAN_CONFIG"
	EnvDBPath     = "MERIDIAN_DB"
)

// Preference store backends.
const (
	PrefsBackendSQLite = "sqlite"
	PrefsBackendDisk   = "disk"
)

// Config holds the application configuration.
type Config struct {
	DBPath   string         `yaml:"db_path"`
	LogLevel string         `yaml:"log_level"`
	LogFile  string         `yaml:"log_file"`
	Timeline TimelineConfig `yaml:"timeline"`
	Prefs    PrefsConfig    `yaml:"prefs"`
	HomeDir  string         `yaml:"-"` // set by caller, not from config file
}

// TimelineConfig tunes the timeline view.
type TimelineConfig struct {
	Scales             Scales  `yaml:"scales"`
	EdgeHitboxPx       float64 `yaml:"edge_hitbox_px"`
	LaneHeightPx       float64 `yaml:"lane_height_px"` // the TUI counts rows
	DefaultGranularity string  `yaml:"default_granularity"`
	CellPx             float64 `yaml:"cell_px"` // pixels per terminal column
}

// Scales holds pixels per day for each granularity.
type Scales struct {
	Weekly    float64 `yaml:"weekly"`
	Monthly   float64 `yaml:"monthly"`
	Quarterly float64 `yaml:"quarterly"`
}

// PrefsConfig selects where view preferences are kept.
type PrefsConfig struct {
	Backend string `yaml:"backend"` // sqlite or disk
	Dir     string `yaml:"dir"`     // disk backend root
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	scales := timeline.DefaultScaleTable()
	return Config{
		LogLevel: "info",
		Timeline: TimelineConfig{
			Scales: Scales{
				Weekly:    scales[timeline.Weekly],
				Monthly:   scales[timeline.Monthly],
				Quarterly: scales[timeline.Quarterly],
			},
			EdgeHitboxPx:       timeline.DefaultEdgeHitboxPx,
			LaneHeightPx:       1,
			DefaultGranularity: string(timeline.Weekly),
			CellPx:             12,
		},
		Prefs: PrefsConfig{Backend: PrefsBackendSQLite},
	}
}

// DefaultHome returns ~/.meridian.
func DefaultHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".meridian"), nil
}

// Path returns the config file location, honouring MERIDIAN_CONFIG.
func Path(homeDir string) string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(homeDir, "config.yaml")
}

// Load reads configuration from configPath onto the defaults. A missing
// file is not an error. homeDir anchors the default database, log and
// preference paths.
func Load(configPath, homeDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}
	cfg.HomeDir = homeDir

	if p := os.Getenv(EnvDBPath); p != "" {
		cfg.DBPath = p
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.DBPath == "" && c.HomeDir != "" {
		c.DBPath = filepath.Join(c.HomeDir, "meridian.db")
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.Timeline.Scales.Weekly == 0 {
		c.Timeline.Scales.Weekly = defaults.Timeline.Scales.Weekly
	}
	if c.Timeline.Scales.Monthly == 0 {
		c.Timeline.Scales.Monthly = defaults.Timeline.Scales.Monthly
	}
	if c.Timeline.Scales.Quarterly == 0 {
		c.Timeline.Scales.Quarterly = defaults.Timeline.Scales.Quarterly
	}
	if c.Timeline.EdgeHitboxPx == 0 {
		c.Timeline.EdgeHitboxPx = defaults.Timeline.EdgeHitboxPx
	}
	if c.Timeline.LaneHeightPx == 0 {
		c.Timeline.LaneHeightPx = defaults.Timeline.LaneHeightPx
	}
	if c.Timeline.DefaultGranularity == "" {
		c.Timeline.DefaultGranularity = defaults.Timeline.DefaultGranularity
	}
	if c.Timeline.CellPx == 0 {
		c.Timeline.CellPx = defaults.Timeline.CellPx
	}
	if c.Prefs.Backend == "" {
		c.Prefs.Backend = defaults.Prefs.Backend
	}
	if c.Prefs.Dir == "" && c.HomeDir != "" {
		c.Prefs.Dir = filepath.Join(c.HomeDir, "prefs")
	}
}

// ScaleTable converts the configured scales for the viewport.
func (c *Config) ScaleTable() timeline.ScaleTable {
	return timeline.ScaleTable{
		timeline.Weekly:    c.Timeline.Scales.Weekly,
		timeline.Monthly:   c.Timeline.Scales.Monthly,
		timeline.Quarterly: c.Timeline.Scales.Quarterly,
	}
}

// Granularity returns the parsed default granularity. Validate guarantees
// it parses.
func (c *Config) Granularity() timeline.Granularity {
	g, err := timeline.ParseGranularity(c.Timeline.DefaultGranularity)
	if err != nil {
		return timeline.Weekly
	}
	return g
}
