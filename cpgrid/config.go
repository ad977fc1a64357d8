// Package cpgrid reconstructs an indexed polyhedral mesh from a corner-point
// grid section: pillars are built from COORD, corner depths are checked and
// repaired, cell corners are resolved along the pillars and the topology is
// assembled with shared vertices, logical neighbor faces and non-neighbor
// connections across faults and pinch-outs.
package cpgrid

import (
	"github.com/sirupsen/logrus"
)

// Config carries the options of one mesh build. There is no package level
// state; every call takes its own Config.
type Config struct {
	RepairZcorn  bool // rewrite non-monotone corner depths instead of failing
	ProcessPinch bool // elide zero thickness cells and connect across them

	// Tolerance is the distance below which two corners on one pillar are
	// merged and below which a contact is considered to have no extent.
	Tolerance float64

	// MaxDegenerateFraction is the share of active cells that may be dropped
	// for degenerate geometry before the build fails.
	MaxDegenerateFraction float64

	Workers int    // <= 0 means one per CPU
	Actnum  []bool // overrides the section's ACTNUM when not nil

	Log logrus.FieldLogger
}

// DefaultConfig repairs depths, keeps zero thickness cells and merges corners
// closer than 1e-6.
func DefaultConfig() Config {
	return Config{
		RepairZcorn:           true,
		ProcessPinch:          false,
		Tolerance:             1e-6,
		MaxDegenerateFraction: 0.5,
		Log:                   logrus.StandardLogger(),
	}
}

func (cfg *Config) setDefaults() {
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = 1e-6
	}
	if cfg.MaxDegenerateFraction <= 0 {
		cfg.MaxDegenerateFraction = 0.5
	}
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
}
