package tui

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/vovakirdan/snakearena/internal/multiplayer"
)

// LocalConfig configures a local terminal client.
type LocalConfig struct {
	Name            string
	Color           string
	LeaderboardSize int
}

// RunLocal runs one client on the current terminal against room, which must
// already be running. Blocks until the player quits.
func RunLocal(room *multiplayer.Room, board Leaderboard, cfg LocalConfig) error {
	id := multiplayer.NewSessionID()
	sess := multiplayer.NewChannelSession(id, sessionBuffer)
	room.Sessions().Register(sess)
	defer func() {
		sess.Close()
		room.Sessions().Unregister(id)
	}()

	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}

	model := NewPlayerModel(PlayerConfig{
		Room:            room,
		Session:         sess,
		Leaderboard:     board,
		LeaderboardSize: cfg.LeaderboardSize,
		PlayerID:        string(id),
		Name:            cfg.Name,
		Color:           cfg.Color,
		Width:           width,
		Height:          height,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
