package config

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

func TestEmbeddedMatchesHardcoded(t *testing.T) {
	var cfg ServerConfig
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("Embedded default does not parse: %v", err)
	}

	def := DefaultServerConfig()
	if cfg.Board != def.Board || cfg.Tick != def.Tick || cfg.SSH != def.SSH ||
		cfg.Storage != def.Storage || cfg.Log != def.Log || cfg.Leaderboard != def.Leaderboard {
		t.Errorf("Embedded config %+v differs from hardcoded %+v", cfg, def)
	}
	if len(RestartRequired(def, cfg)) != 0 {
		t.Errorf("RestartRequired(default, embedded) = %v, expected none", RestartRequired(def, cfg))
	}
}

func TestDefaultsAreValid(t *testing.T) {
	if err := DefaultServerConfig().Validate(); err != nil {
		t.Errorf("Default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ServerConfig)
		key    string
	}{
		{"zero width", func(c *ServerConfig) { c.Board.Width = 0 }, "board size"},
		{"negative height", func(c *ServerConfig) { c.Board.Height = -3 }, "board size"},
		{"zero length", func(c *ServerConfig) { c.Board.InitialLength = 0 }, "initial_length"},
		{"zero interval", func(c *ServerConfig) { c.Tick.Interval = 0 }, "tick.interval"},
		{"empty queue", func(c *ServerConfig) { c.Tick.InputQueue = 0 }, "input_queue"},
		{"empty leaderboard", func(c *ServerConfig) { c.Leaderboard.Size = 0 }, "leaderboard.size"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultServerConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() should fail")
			}
			if !strings.Contains(err.Error(), tc.key) {
				t.Errorf("Validate() = %v, expected mention of %q", err, tc.key)
			}
		})
	}
}

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "snakearena.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestLoadCustomPathKeepsDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "board:\n  width: 20\ntick:\n  interval: 80ms\n")

	cfg, used, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if used != path {
		t.Errorf("Load() used %q, expected %q", used, path)
	}
	if cfg.Board.Width != 20 || cfg.Board.Height != 37 {
		t.Errorf("Board = %+v, expected 20x37", cfg.Board)
	}
	if cfg.Tick.Interval != 80*time.Millisecond {
		t.Errorf("Interval = %v, expected 80ms", cfg.Tick.Interval)
	}
	if cfg.SSH.Address != ":23234" {
		t.Errorf("SSH address = %q, expected default", cfg.SSH.Address)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load() of a missing custom path should fail")
	}

	broken := writeConfig(t, dir, "board: [not, a, map\n")
	if _, _, err := Load(broken); err == nil {
		t.Error("Load() of malformed YAML should fail")
	}

	invalid := writeConfig(t, dir, "board:\n  width: -1\n")
	if _, _, err := Load(invalid); err == nil {
		t.Error("Load() of an invalid config should fail")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandHome("~/x.db"); got != filepath.Join(home, "x.db") {
		t.Errorf("ExpandHome(~/x.db) = %q", got)
	}
	if got := ExpandHome("/tmp/x.db"); got != "/tmp/x.db" {
		t.Errorf("ExpandHome(/tmp/x.db) = %q, expected unchanged", got)
	}
}

func TestRestartRequired(t *testing.T) {
	old := DefaultServerConfig()

	live := old
	live.Tick.Interval = time.Second
	live.Log.Level = "debug"
	if keys := RestartRequired(old, live); len(keys) != 0 {
		t.Errorf("RestartRequired = %v, expected none for live settings", keys)
	}

	next := old
	next.Board.Width = 99
	next.Web.AllowedOrigins = []string{"https://example.com"}
	keys := RestartRequired(old, next)
	if len(keys) != 2 || keys[0] != "board" || keys[1] != "web" {
		t.Errorf("RestartRequired = %v, expected [board web]", keys)
	}
}

func TestWatchAppliesChanges(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "tick:\n  interval: 50ms\n")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	applied := make(chan ServerConfig, 8)
	if err := Watch(ctx, path, cfg, log.New(io.Discard), func(c ServerConfig) { applied <- c }); err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}

	writeConfig(t, dir, "tick:\n  interval: 75ms\nlog:\n  level: debug\n")

	deadline := time.After(3 * time.Second)
	for {
		select {
		case c := <-applied:
			if c.Tick.Interval == 75*time.Millisecond && c.Log.Level == "debug" {
				return
			}
		case <-deadline:
			t.Fatal("Watch() never applied the new config")
		}
	}
}

func TestWatchRunsOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "tick:\n  interval: 50ms\n")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	cfg.Tick.Interval = 120 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	applied := make(chan ServerConfig, 8)
	keepTick := func(c *ServerConfig) { c.Tick.Interval = 120 * time.Millisecond }
	if err := Watch(ctx, path, cfg, log.New(io.Discard), func(c ServerConfig) { applied <- c }, keepTick); err != nil {
		t.Fatalf("Watch() failed: %v", err)
	}

	writeConfig(t, dir, "tick:\n  interval: 50ms\nlog:\n  level: warn\n")

	deadline := time.After(3 * time.Second)
	for {
		select {
		case c := <-applied:
			if c.Log.Level != "warn" {
				continue
			}
			if c.Tick.Interval != 120*time.Millisecond {
				t.Errorf("Tick.Interval = %v, expected the override 120ms", c.Tick.Interval)
			}
			return
		case <-deadline:
			t.Fatal("Watch() never applied the new config")
		}
	}
}
