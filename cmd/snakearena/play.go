package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/snakearena/internal/platform/tui"
	"github.com/vovakirdan/snakearena/internal/storage"
)

var (
	flagName  string
	flagColor string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play locally",
	Long: `Start an arena in this process and play it on the local terminal.
No network listeners are opened; scores still go to the local database.

Controls:
  Arrows/WASD - Steer
  Tab         - Change colour (before joining)
  Enter       - Join
  R           - Respawn (after death)
  Esc         - Spectate
  Q/Ctrl+C    - Quit

Examples:
  snakearena play
  snakearena play --name linus --color cyan
  snakearena play --seed 42`,
	Run: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagName, "name", "", "Player name (default: $USER)")
	playCmd.Flags().StringVar(&flagColor, "color", "", "Snake colour (name or #rrggbb)")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg, _, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	name := flagName
	if name == "" {
		name = os.Getenv("USER")
	}

	// The alt screen owns the terminal, so the room stays quiet
	room := newRoom(cfg, log.New(io.Discard))

	var board tui.Leaderboard
	store, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: scores will not be saved: %v\n", err)
	} else {
		defer store.Close()
		room.SetDeathRecorder(store)
		board = store
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go room.Run(ctx)

	err = tui.RunLocal(room, board, tui.LocalConfig{
		Name:            name,
		Color:           flagColor,
		LeaderboardSize: cfg.Leaderboard.Size,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
}
