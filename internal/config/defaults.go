package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/server.yaml
var defaultServerYAML []byte

// DefaultServerConfig returns the hardcoded server configuration. It matches
// the embedded defaults/server.yaml.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Board: BoardConfig{
			Width:         60,
			Height:        37,
			InitialLength: 4,
		},
		Tick: TickConfig{
			Interval:   50 * time.Millisecond,
			InputQueue: 1024,
		},
		SSH: SSHConfig{
			Address:     ":23234",
			HostKey:     "~/.snakearena/host_key",
			IdleTimeout: 30 * time.Minute,
		},
		Web: WebConfig{
			Enabled:        true,
			Address:        ":8080",
			AllowedOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			DBPath: "~/.snakearena/scores.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Leaderboard: LeaderboardConfig{
			Size: 10,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultServerYAML
}
