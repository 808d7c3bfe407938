package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/snakearena/internal/config"
	"github.com/vovakirdan/snakearena/internal/multiplayer"
	"github.com/vovakirdan/snakearena/internal/platform/tui"
	"github.com/vovakirdan/snakearena/internal/platform/web"
	"github.com/vovakirdan/snakearena/internal/storage"
)

var (
	flagSSHAddr string
	flagHostKey string
	flagWebAddr string
	flagNoWeb   bool
	flagTick    time.Duration
	flagWidth   int
	flagHeight  int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the arena server",
	Long: `Start the shared arena. Terminal players connect over SSH; browsers use
the HTTP API and the /ws websocket.

Every death is recorded in the scores database, so the leaderboard is
shared by all players of this server.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.snakearena/host_key

The config file is watched while the server runs: tick interval and log
level changes apply immediately, other changes need a restart.

Examples:
  snakearena serve                        # SSH on :23234, web on :8080
  snakearena serve --ssh :2222            # Listen on port 2222
  snakearena serve --tick 80ms            # Slower game
  snakearena serve --width 40 --height 25 # Smaller board
  snakearena serve --no-web               # SSH only

Users can connect with:
  ssh localhost -p 23234`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagWebAddr, "web", "", "Web server address (host:port)")
	serveCmd.Flags().BoolVar(&flagNoWeb, "no-web", false, "Disable the web server")
	serveCmd.Flags().DurationVar(&flagTick, "tick", 0, "Tick interval (e.g. 50ms)")
	serveCmd.Flags().IntVar(&flagWidth, "width", 0, "Board width in cells")
	serveCmd.Flags().IntVar(&flagHeight, "height", 0, "Board height in cells")
}

// applyServeFlags overrides config values with flags set on the command line.
func applyServeFlags(cmd *cobra.Command, cfg *config.ServerConfig) {
	flags := cmd.Flags()
	if flags.Changed("ssh") {
		cfg.SSH.Address = flagSSHAddr
	}
	if flags.Changed("host-key") {
		cfg.SSH.HostKey = flagHostKey
	}
	if flags.Changed("web") {
		cfg.Web.Address = flagWebAddr
		cfg.Web.Enabled = true
	}
	if flagNoWeb {
		cfg.Web.Enabled = false
	}
	if flags.Changed("tick") {
		cfg.Tick.Interval = flagTick
	}
	if flags.Changed("width") {
		cfg.Board.Width = flagWidth
	}
	if flags.Changed("height") {
		cfg.Board.Height = flagHeight
	}
}

func runServe(cmd *cobra.Command, _ []string) {
	cfg, cfgPath, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	applyServeFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logs := newLoggers(cfg.Log.Level)
	logger := logs.New("snakearena")
	if cfgPath != "" {
		logger.Info("loaded config", "path", cfgPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open storage, continue without a leaderboard if it fails
	var sshBoard tui.Leaderboard
	var webBoard web.Leaderboard
	store, err := storage.Open(config.ExpandHome(cfg.Storage.DBPath))
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
	}

	room := newRoom(cfg, logs.New("room"))
	if store != nil {
		defer store.Close()
		room.SetDeathRecorder(store)
		sshBoard, webBoard = store, store
	}
	go room.Run(ctx)

	sshServer, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:         cfg.SSH.Address,
		HostKeyPath:     config.ExpandHome(cfg.SSH.HostKey),
		IdleTimeout:     cfg.SSH.IdleTimeout,
		LeaderboardSize: cfg.Leaderboard.Size,
	}, room, sshBoard, logs.New("snakearena-ssh"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating SSH server: %v\n", err)
		os.Exit(1)
	}

	errCh := make(chan error, 2)
	running := 1
	go func() { errCh <- sshServer.ListenAndServe(ctx) }()

	if cfg.Web.Enabled {
		webServer := web.NewServer(web.Config{
			Address:         cfg.Web.Address,
			AllowedOrigins:  cfg.Web.AllowedOrigins,
			LeaderboardSize: cfg.Leaderboard.Size,
		}, room, webBoard, logs.New("snakearena-web"))
		running++
		go func() { errCh <- webServer.ListenAndServe(ctx) }()
	}

	if cfgPath != "" {
		watchLogger := logs.New("config")
		err := config.Watch(ctx, cfgPath, cfg, watchLogger,
			reloader(room, logs, watchLogger, cfg.Tick.Interval),
			func(next *config.ServerConfig) {
				if flagDBPath != "" {
					next.Storage.DBPath = flagDBPath
				}
				applyServeFlags(cmd, next)
			},
		)
		if err != nil {
			logger.Warn("config hot reload disabled", "err", err)
		}
	}

	fmt.Printf("Snake Arena running: ssh localhost -p %s\n", portOf(cfg.SSH.Address))
	if cfg.Web.Enabled {
		fmt.Printf("Web API on %s\n", cfg.Web.Address)
	}
	fmt.Println("Press Ctrl+C to stop")

	exitCode := 0
	for range running {
		if err := <-errCh; err != nil {
			logger.Error("server error", "err", err)
			exitCode = 1
			stop()
		}
	}

	room.Stop()
	logger.Info("bye")
	if exitCode != 0 {
		if store != nil {
			store.Close()
		}
		os.Exit(exitCode)
	}
}

// tickSender is the part of the room a config reload talks to.
type tickSender interface {
	Send(msg multiplayer.RoomMessage) bool
}

// reloader applies a reloaded config to the running server. The room only
// hears about the tick interval when it actually changed.
func reloader(room tickSender, logs *loggers, logger *log.Logger, interval time.Duration) func(config.ServerConfig) {
	return func(next config.ServerConfig) {
		if next.Tick.Interval != interval {
			interval = next.Tick.Interval
			room.Send(multiplayer.SetTickIntervalMsg{Interval: interval})
		}
		if err := logs.SetLevel(next.Log.Level); err != nil {
			logger.Warn("ignoring log level", "level", next.Log.Level, "err", err)
		}
	}
}

// portOf returns the port of a host:port address for the connect hint.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
