// Package config provides YAML-based server configuration loading,
// validation and hot reload for the arena.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ServerConfig contains all configuration for the arena server.
type ServerConfig struct {
	Board       BoardConfig       `yaml:"board"`
	Tick        TickConfig        `yaml:"tick"`
	SSH         SSHConfig         `yaml:"ssh"`
	Web         WebConfig         `yaml:"web"`
	Storage     StorageConfig     `yaml:"storage"`
	Log         LogConfig         `yaml:"log"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
}

// BoardConfig defines the playfield. Changes require a restart.
type BoardConfig struct {
	Width         int `yaml:"width"`
	Height        int `yaml:"height"`
	InitialLength int `yaml:"initial_length"` // Segments of a freshly spawned snake
}

// TickConfig defines the simulation clock.
type TickConfig struct {
	Interval   time.Duration `yaml:"interval"`
	InputQueue int           `yaml:"input_queue"` // Pending messages buffered between ticks
}

// SSHConfig defines the terminal server.
type SSHConfig struct {
	Address     string        `yaml:"address"`
	HostKey     string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// WebConfig defines the HTTP and websocket server.
type WebConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Address        string   `yaml:"address"`
	AllowedOrigins []string `yaml:"allowed_origins"` // "*" allows any origin
}

// StorageConfig defines the leaderboard database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn or error
}

// LeaderboardConfig defines leaderboard queries.
type LeaderboardConfig struct {
	Size int `yaml:"size"`
}

// Validate reports the first setting the server cannot run with.
func (c ServerConfig) Validate() error {
	var errs []error
	if c.Board.Width <= 0 || c.Board.Height <= 0 {
		errs = append(errs, fmt.Errorf("board size must be positive, got %dx%d", c.Board.Width, c.Board.Height))
	}
	if c.Board.InitialLength < 1 {
		errs = append(errs, fmt.Errorf("board.initial_length must be at least 1, got %d", c.Board.InitialLength))
	}
	if c.Tick.Interval <= 0 {
		errs = append(errs, fmt.Errorf("tick.interval must be positive, got %s", c.Tick.Interval))
	}
	if c.Tick.InputQueue < 1 {
		errs = append(errs, fmt.Errorf("tick.input_queue must be at least 1, got %d", c.Tick.InputQueue))
	}
	if c.Leaderboard.Size < 1 {
		errs = append(errs, fmt.Errorf("leaderboard.size must be at least 1, got %d", c.Leaderboard.Size))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}
