// Package web serves the arena over HTTP: a small gin API for joining and
// the leaderboard, and a websocket endpoint streaming ticks to browsers.
package web

import (
	"context"
	"errors"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/snakearena/internal/codec"
	"github.com/vovakirdan/snakearena/internal/game"
	"github.com/vovakirdan/snakearena/internal/multiplayer"
	"github.com/vovakirdan/snakearena/internal/storage"
)

// Arena is the room as seen by the web transport. *multiplayer.Room
// implements it.
type Arena interface {
	Send(msg multiplayer.RoomMessage) bool
	Sessions() *multiplayer.SessionRegistry
	LastSnapshot() (uint64, game.Snapshot)
}

// Leaderboard supplies /highscores. *storage.Store implements it.
type Leaderboard interface {
	TopScores(limit int) ([]storage.DeathEntry, error)
	BestByPlayer(playerID string) (*storage.DeathEntry, error)
}

// Config holds configuration for the web server.
type Config struct {
	// Address is the host:port to listen on (e.g., ":8080").
	Address string

	// AllowedOrigins lists browser origins allowed to call the API and open
	// websockets. Empty or "*" allows any origin.
	AllowedOrigins []string

	// LeaderboardSize is the number of entries /highscores returns.
	LeaderboardSize int
}

// Server is the HTTP and websocket front end of the arena.
type Server struct {
	cfg      Config
	arena    Arena
	board    Leaderboard
	logger   *log.Logger
	engine   *gin.Engine
	http     *http.Server
	upgrader websocket.Upgrader
}

// NewServer builds the router. board may be nil, in which case
// /highscores reports an empty leaderboard.
func NewServer(cfg Config, arena Arena, board Leaderboard, logger *log.Logger) *Server {
	if cfg.LeaderboardSize <= 0 {
		cfg.LeaderboardSize = storage.DefaultLimit
	}
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "snakearena-web",
		})
	}

	s := &Server{
		cfg:    cfg,
		arena:  arena,
		board:  board,
		logger: logger,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			return s.originAllowed(r.Header.Get("Origin"))
		},
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger(), s.cors())

	router.POST("/join", s.handleJoin)
	router.GET("/highscores", s.handleHighscores)
	router.GET("/state", s.handleState)
	router.GET("/ws", s.handleWebsocket)

	s.engine = router
	s.http = &http.Server{
		Addr:              cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting web server", "address", s.cfg.Address)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
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

// Shutdown gracefully stops the server. Hijacked websocket connections are
// not tracked by net/http and end when the room stops or their peer leaves.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleJoin issues a fresh player id.
func (s *Server) handleJoin(c *gin.Context) {
	id := multiplayer.NewPlayerID()
	s.logger.Debug("player joined", "player", id)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"playerId": id}})
}

// handleHighscores returns the top scores and, when playerId is given,
// that player's best run.
func (s *Server) handleHighscores(c *gin.Context) {
	all := []storage.DeathEntry{}
	var best *storage.DeathEntry

	if s.board != nil {
		top, err := s.board.TopScores(s.cfg.LeaderboardSize)
		if err != nil {
			s.logger.Warn("cannot load leaderboard", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "leaderboard unavailable"})
			return
		}
		all = top

		if playerID := c.Query("playerId"); playerID != "" {
			best, err = s.board.BestByPlayer(playerID)
			if err != nil {
				s.logger.Warn("cannot load personal best", "player", playerID, "err", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "leaderboard unavailable"})
				return
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"all": all, "personalBest": best}})
}

// handleState returns the latest published snapshot.
func (s *Server) handleState(c *gin.Context) {
	tick, snap := s.arena.LastSnapshot()
	c.JSON(http.StatusOK, ServerMessage{Type: TypeTick, Tick: tick, Data: snap})
}

// handleWebsocket upgrades the connection and runs the client pumps until
// the peer goes away.
func (s *Server) handleWebsocket(c *gin.Context) {
	playerID := c.Query("playerId")
	if playerID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing playerId"})
		return
	}

	cdc, err := codec.Get(c.Query("codec"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// The upgrader has already replied with an HTTP error
		s.logger.Debug("websocket upgrade failed", "err", err)
		return
	}

	client := newClient(conn, cdc, s.arena, playerID, s.logger)
	sessions := s.arena.Sessions()
	sessions.Register(client)
	client.logger.Info("websocket connected", "codec", cdc.Name(), "remote", c.ClientIP())

	// Late joiners see the board immediately instead of waiting a tick
	tick, snap := s.arena.LastSnapshot()
	client.Send(multiplayer.SnapshotEvent{Tick: tick, Snapshot: snap})

	go client.writePump()
	client.readPump()

	sessions.Unregister(client.ID())
	client.logger.Info("websocket disconnected")
}

// originAllowed reports whether a browser origin may use the API.
// Requests without an Origin header come from non-browser clients.
func (s *Server) originAllowed(origin string) bool {
	if origin == "" || len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	return slices.Contains(s.cfg.AllowedOrigins, "*") || slices.Contains(s.cfg.AllowedOrigins, origin)
}

// cors answers preflight requests and tags responses for allowed origins.
func (s *Server) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if !s.originAllowed(origin) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "origin not allowed"})
				return
			}
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type")
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// requestLogger logs each request at debug level.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
