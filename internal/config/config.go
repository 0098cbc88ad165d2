// Package config holds the runtime's startup configuration: this
// machine's identity in the peer list, turn-synchronizer tuning, and the
// savegame directory, as accepted by the cityrund CLI (spec.md §6).
package config

import "fmt"

// Config is the runtime's process-level configuration.
type Config struct {
	MachineIndex  uint8
	Peers         []string
	SavegameDir   string
	BatchMsgBytes int
	OkTurnDist    uint64
	SkipRatio     float64
	TargetFPS     float64
	MetricsAddr   string
}

// Validate checks the configuration is internally consistent enough to
// start the runtime.
func (c Config) Validate() error {
	if int(c.MachineIndex) >= len(c.Peers) {
		return fmt.Errorf("config: machine index %d out of range for %d peers", c.MachineIndex, len(c.Peers))
	}
	if c.SavegameDir == "" {
		return fmt.Errorf("config: savegame dir is required")
	}
	if c.BatchMsgBytes <= 0 {
		return fmt.Errorf("config: batch-msg-bytes must be positive, got %d", c.BatchMsgBytes)
	}
	if c.SkipRatio < 0 {
		return fmt.Errorf("config: skip-ratio must not be negative, got %f", c.SkipRatio)
	}
	if c.TargetFPS <= 0 {
		return fmt.Errorf("config: target-fps must be positive, got %f", c.TargetFPS)
	}
	return nil
}

// FrameInterval is how long one turn should occupy to hold TargetFPS.
func (c Config) FrameInterval() float64 {
	return 1.0 / c.TargetFPS
}
