// Package tui provides the terminal client for the arena, served locally
// or over SSH via Wish.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	gossh "golang.org/x/crypto/ssh"

	"github.com/vovakirdan/snakearena/internal/multiplayer"
)

// sessionBuffer is how many events a client may fall behind before the
// oldest are dropped.
const sessionBuffer = 16

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.snakearena/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// LeaderboardSize is the number of rows on the death screen.
	LeaderboardSize int
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:         ":23234",
		IdleTimeout:     30 * time.Minute,
		LeaderboardSize: 10,
	}
}

// SSHServer serves the arena to SSH clients. Each connection gets its own
// PlayerModel subscribed to the shared room.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	room   *multiplayer.Room
	board  Leaderboard
	logger *log.Logger
}

// NewSSHServer creates an SSH server for room. board may be nil.
func NewSSHServer(cfg SSHServerConfig, room *multiplayer.Room, board Leaderboard, logger *log.Logger) (*SSHServer, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "snakearena-ssh",
		})
	}

	srv := &SSHServer{
		config: cfg,
		room:   room,
		board:  board,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".snakearena", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		// Anyone may play; offered keys only serve to recognise returning players
		wish.WithPublicKeyAuth(func(ssh.Context, ssh.PublicKey) bool { return true }),
		wish.WithKeyboardInteractiveAuth(func(ssh.Context, gossh.KeyboardInteractiveChallenge) bool { return true }),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.sessionMiddleware,
		),
	}
	if cfg.IdleTimeout > 0 {
		opts = append(opts, wish.WithIdleTimeout(cfg.IdleTimeout))
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

type sessionKey struct{}

// sessionMiddleware registers a room session for the connection, logs it
// and tears it down when the connection ends. It runs before teaHandler.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		id := multiplayer.NewSessionID()
		sess := multiplayer.NewChannelSession(id, sessionBuffer)
		s.room.Sessions().Register(sess)
		sshSession.Context().SetValue(sessionKey{}, sess)

		s.logger.Info("player connected",
			"user", sshSession.User(),
			"session", id,
			"remote", sshSession.RemoteAddr().String(),
		)

		defer func() {
			sess.Close()
			s.room.Sessions().Unregister(id)
			s.logger.Info("player disconnected", "user", sshSession.User(), "session", id)
		}()

		next(sshSession)
	}
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	sess, ok := sshSession.Context().Value(sessionKey{}).(*multiplayer.ChannelSession)
	if !ok {
		s.logger.Error("connection has no room session", "user", sshSession.User())
		return nil, nil
	}

	model := NewPlayerModel(PlayerConfig{
		Room:            s.room,
		Session:         sess,
		Leaderboard:     s.board,
		LeaderboardSize: s.config.LeaderboardSize,
		PlayerID:        sshPlayerID(sshSession.User(), sshSession.PublicKey()),
		Name:            sshSession.User(),
		Width:           pty.Window.Width,
		Height:          pty.Window.Height,
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// sshPlayerID derives a player id that survives reconnects: the key
// fingerprint when the client authenticated with a key, the user name
// otherwise.
func sshPlayerID(user string, key ssh.PublicKey) string {
	if key != nil {
		return "ssh-key:" + gossh.FingerprintSHA256(key)
	}
	return "ssh-user:" + user
}

// ListenAndServe starts the SSH server and blocks until ctx is cancelled
// or the listener fails.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
