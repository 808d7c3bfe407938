package main

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snakearena/internal/config"
	"github.com/vovakirdan/snakearena/internal/game"
	"github.com/vovakirdan/snakearena/internal/multiplayer"
)

// loadConfig loads the configuration file and applies global flag overrides.
func loadConfig() (config.ServerConfig, string, error) {
	cfg, path, err := config.Load(flagConfig)
	if err != nil {
		return cfg, path, err
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	return cfg, path, nil
}

// loggers hands out prefixed loggers and keeps them so a config reload can
// change every component's level at once.
type loggers struct {
	mu    sync.Mutex
	level log.Level
	all   []*log.Logger
}

func newLoggers(level string) *loggers {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return &loggers{level: lvl}
}

// New returns a logger writing to stderr with the given prefix.
func (l *loggers) New(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           l.level,
	})

	l.mu.Lock()
	l.all = append(l.all, logger)
	l.mu.Unlock()
	return logger
}

// SetLevel changes the level of every logger handed out so far.
func (l *loggers) SetLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = lvl
	for _, logger := range l.all {
		logger.SetLevel(lvl)
	}
	return nil
}

// newRoom builds the engine and the room that owns it.
func newRoom(cfg config.ServerConfig, logger *log.Logger) *multiplayer.Room {
	g := game.New(cfg.Board.Width, cfg.Board.Height,
		game.WithSeed(flagSeed),
		game.WithInitialLength(cfg.Board.InitialLength),
	)
	roomCfg := multiplayer.RoomConfig{
		TickInterval: cfg.Tick.Interval,
		QueueSize:    cfg.Tick.InputQueue,
	}
	return multiplayer.NewRoom(roomCfg, g, multiplayer.NewSessionRegistry(), logger)
}
