package config

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/meridian/internal/timeline"
	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
)

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("db_path", c.DBPath, notEmpty),
		criterio.Run("log_level", c.LogLevel, validLevel),
		c.validateTimeline(),
		criterio.Run("prefs.backend", c.Prefs.Backend, validBackend),
		c.validatePrefsDir(),
	)
}

func (c *Config) validateTimeline() error {
	var errs criterio.FieldErrorsBuilder
	scales := map[string]float64{
		"timeline.scales.weekly":    c.Timeline.Scales.Weekly,
		"timeline.scales.monthly":   c.Timeline.Scales.Monthly,
		"timeline.scales.quarterly": c.Timeline.Scales.Quarterly,
	}
	for field, v := range scales {
		if v <= 0 {
			errs = errs.Append(field, fmt.Errorf("must be positive, got %v", v))
		}
	}
	s := c.Timeline.Scales
	if s.Weekly > 0 && s.Monthly > 0 && s.Quarterly > 0 && (s.Monthly > s.Weekly || s.Quarterly > s.Monthly) {
		errs = errs.Append("timeline.scales", errors.New("must not grow from weekly to quarterly"))
	}
	if c.Timeline.EdgeHitboxPx <= 0 {
		errs = errs.Append("timeline.edge_hitbox_px", errors.New("must be positive"))
	}
	if c.Timeline.LaneHeightPx <= 0 {
		errs = errs.Append("timeline.lane_height_px", errors.New("must be positive"))
	}
	if c.Timeline.CellPx <= 0 {
		errs = errs.Append("timeline.cell_px", errors.New("must be positive"))
	}
	if _, err := timeline.ParseGranularity(c.Timeline.DefaultGranularity); err != nil {
		errs = errs.Append("timeline.default_granularity", err)
	}
	return errs.ToError()
}

func (c *Config) validatePrefsDir() error {
	if c.Prefs.Backend != PrefsBackendDisk {
		return nil
	}
	return criterio.Run("prefs.dir", c.Prefs.Dir, notEmpty)
}

func notEmpty(s string) error {
	if s == "" {
		return errors.New("cannot be empty")
	}
	return nil
}

func validLevel(s string) error {
	if _, err := zerolog.ParseLevel(s); err != nil {
		return fmt.Errorf("unknown level %q", s)
	}
	return nil
}

func validBackend(s string) error {
	switch s {
	case PrefsBackendSQLite, PrefsBackendDisk:
		return nil
	}
	return fmt.Errorf("must be %q or %q, got %q", PrefsBackendSQLite, PrefsBackendDisk, s)
}
