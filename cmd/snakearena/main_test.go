package main

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/vovakirdan/snakearena/internal/config"
	"github.com/vovakirdan/snakearena/internal/multiplayer"
)

func TestApplyServeFlags(t *testing.T) {
	cfg := config.DefaultServerConfig()
	if err := serveCmd.ParseFlags([]string{"--ssh", ":2222", "--tick", "80ms", "--width", "40", "--no-web"}); err != nil {
		t.Fatalf("ParseFlags() failed: %v", err)
	}
	t.Cleanup(func() {
		serveCmd.Flags().Visit(func(f *pflag.Flag) { f.Changed = false })
		flagNoWeb = false
	})

	applyServeFlags(serveCmd, &cfg)

	if cfg.SSH.Address != ":2222" {
		t.Errorf("SSH.Address = %q, expected :2222", cfg.SSH.Address)
	}
	if cfg.Tick.Interval != 80*time.Millisecond {
		t.Errorf("Tick.Interval = %v, expected 80ms", cfg.Tick.Interval)
	}
	if cfg.Board.Width != 40 {
		t.Errorf("Board.Width = %d, expected 40", cfg.Board.Width)
	}
	if cfg.Board.Height != config.DefaultServerConfig().Board.Height {
		t.Errorf("Board.Height = %d, expected the default", cfg.Board.Height)
	}
	if cfg.Web.Enabled {
		t.Error("--no-web should disable the web server")
	}
}

func TestLoggersSetLevel(t *testing.T) {
	logs := newLoggers("warn")
	a := logs.New("a")
	if a.GetLevel() != log.WarnLevel {
		t.Errorf("Level = %v, expected warn", a.GetLevel())
	}

	if err := logs.SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel() failed: %v", err)
	}
	b := logs.New("b")
	if a.GetLevel() != log.DebugLevel || b.GetLevel() != log.DebugLevel {
		t.Errorf("Levels = %v, %v, expected debug for both", a.GetLevel(), b.GetLevel())
	}

	if err := logs.SetLevel("loud"); err == nil {
		t.Error("Expected an error for an unknown level")
	}
}

func TestNewLoggersDefaultsToInfo(t *testing.T) {
	if got := newLoggers("nonsense").New("x").GetLevel(); got != log.InfoLevel {
		t.Errorf("Level = %v, expected info", got)
	}
}

func TestPortOf(t *testing.T) {
	tests := map[string]string{
		":23234":         "23234",
		"0.0.0.0:2222":   "2222",
		"[::1]:22":       "22",
		"not-an-address": "not-an-address",
	}
	for addr, expected := range tests {
		if got := portOf(addr); got != expected {
			t.Errorf("portOf(%q) = %q, expected %q", addr, got, expected)
		}
	}
}

func TestNewRoomUsesBoardConfig(t *testing.T) {
	cfg := config.DefaultServerConfig()
	cfg.Board.Width, cfg.Board.Height = 12, 9

	room := newRoom(cfg, log.New(io.Discard))
	_, snap := room.LastSnapshot()
	if snap.Size.Width != 12 || snap.Size.Height != 9 {
		t.Errorf("Board = %dx%d, expected 12x9", snap.Size.Width, snap.Size.Height)
	}
}

type sentMessages []multiplayer.RoomMessage

func (s *sentMessages) Send(msg multiplayer.RoomMessage) bool {
	*s = append(*s, msg)
	return true
}

func TestReloaderSendsOnlyIntervalChanges(t *testing.T) {
	var sent sentMessages
	logs := newLoggers("info")
	apply := reloader(&sent, logs, log.New(io.Discard), 80*time.Millisecond)

	cfg := config.DefaultServerConfig()
	cfg.Tick.Interval = 80 * time.Millisecond
	cfg.Log.Level = "debug"
	apply(cfg)
	if len(sent) != 0 {
		t.Errorf("Sent %d messages for an unchanged interval, expected 0", len(sent))
	}
	if logs.level != log.DebugLevel {
		t.Errorf("Level = %v, expected debug", logs.level)
	}

	cfg.Tick.Interval = 60 * time.Millisecond
	apply(cfg)
	apply(cfg)
	if len(sent) != 1 {
		t.Fatalf("Sent %d messages, expected 1", len(sent))
	}
	if msg, ok := sent[0].(multiplayer.SetTickIntervalMsg); !ok || msg.Interval != 60*time.Millisecond {
		t.Errorf("Message = %#v, expected a 60ms SetTickIntervalMsg", sent[0])
	}
}
