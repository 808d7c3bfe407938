package multiplayer

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snakearena/internal/core"
	"github.com/vovakirdan/snakearena/internal/game"
)

// RoomConfig holds configuration for a room.
type RoomConfig struct {
	TickInterval time.Duration // Time between engine ticks
	QueueSize    int           // Pending messages buffered between ticks
}

// DefaultRoomConfig returns the arena defaults.
func DefaultRoomConfig() RoomConfig {
	return RoomConfig{
		TickInterval: 50 * time.Millisecond,
		QueueSize:    1024,
	}
}

// DeathRecorder persists eliminations.
// This allows the room to save results without depending on the storage package.
type DeathRecorder interface {
	RecordDeath(rec DeathRecord) error
}

// DeathRecord contains death data for persistence.
type DeathRecord struct {
	PlayerID string
	Name     string
	Color    string
	Score    int
	Cause    string
	PlayedAt time.Time
}

// Room is the single owner of a game.Game. Every mutation of the engine
// happens on the goroutine running Run; other goroutines talk to it through
// Send and read the latest state through LastSnapshot.
type Room struct {
	cfg      RoomConfig
	game     *game.Game
	sessions *SessionRegistry
	recorder DeathRecorder // Optional, can be nil
	logger   *log.Logger

	msgChan chan RoomMessage
	ticker  *time.Ticker

	// Loop-owned state
	tick   uint64
	deaths []game.Death

	last atomic.Pointer[SnapshotEvent]

	done     chan struct{}
	doneOnce sync.Once
}

// NewRoom wraps g. The room takes ownership: callers must not touch g
// afterwards. logger is used as given; nil selects a "room" child of the
// default logger.
func NewRoom(cfg RoomConfig, g *game.Game, sessions *SessionRegistry, logger *log.Logger) *Room {
	def := DefaultRoomConfig()
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = def.TickInterval
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = def.QueueSize
	}
	if logger == nil {
		logger = log.Default().WithPrefix("room")
	}

	r := &Room{
		cfg:      cfg,
		game:     g,
		sessions: sessions,
		logger:   logger,
		msgChan:  make(chan RoomMessage, cfg.QueueSize),
		done:     make(chan struct{}),
	}
	g.OnDeath(func(d game.Death) {
		r.deaths = append(r.deaths, d)
	})
	r.last.Store(&SnapshotEvent{Snapshot: g.Snapshot()})
	return r
}

// SetDeathRecorder sets the optional death recorder. Must be called before Run.
func (r *Room) SetDeathRecorder(rec DeathRecorder) {
	r.recorder = rec
}

// Sessions returns the registry the room broadcasts to.
func (r *Room) Sessions() *SessionRegistry {
	return r.sessions
}

// Send queues a message for the next tick. Non-blocking: returns false when
// the queue is full or the room has stopped.
func (r *Room) Send(msg RoomMessage) bool {
	select {
	case <-r.done:
		return false
	default:
	}

	select {
	case r.msgChan <- msg:
		return true
	default:
		r.logger.Debug("input queue full, dropping message", "type", msgType(msg))
		return false
	}
}

// LastSnapshot returns the most recently published tick and snapshot.
// Safe to call from any goroutine. The snapshot must not be modified.
func (r *Room) LastSnapshot() (uint64, game.Snapshot) {
	evt := r.last.Load()
	return evt.Tick, evt.Snapshot
}

// Run drives the tick loop until ctx is cancelled or Stop is called.
func (r *Room) Run(ctx context.Context) {
	r.ticker = time.NewTicker(r.cfg.TickInterval)
	defer r.ticker.Stop()

	r.logger.Info("room started", "interval", r.cfg.TickInterval)
	defer r.logger.Info("room stopped", "ticks", r.tick)

	for {
		select {
		case <-r.ticker.C:
			r.step()
		case <-ctx.Done():
			r.Stop()
			return
		case <-r.done:
			return
		}
	}
}

// Stop ends the tick loop. Safe to call multiple times.
func (r *Room) Stop() {
	r.doneOnce.Do(func() {
		close(r.done)
	})
}

// Done returns a channel that closes when the room stops.
func (r *Room) Done() <-chan struct{} {
	return r.done
}

// step runs one full tick: apply queued input, advance the engine, then
// publish deaths followed by the new snapshot.
func (r *Room) step() {
	r.drainMessages()

	r.game.Tick()
	r.tick++

	deaths := r.deaths
	r.deaths = nil
	for _, d := range deaths {
		r.publishDeath(d)
	}

	evt := SnapshotEvent{Tick: r.tick, Snapshot: r.game.Snapshot()}
	r.last.Store(&evt)
	r.broadcast(evt)
}

func (r *Room) drainMessages() {
	for {
		select {
		case msg := <-r.msgChan:
			r.handleMessage(msg)
		default:
			return
		}
	}
}

func (r *Room) handleMessage(msg RoomMessage) {
	switch m := msg.(type) {
	case SpawnMsg:
		r.handleSpawn(m)
	case TurnMsg:
		if m.Direction.Valid() {
			r.game.SetPlayerFacing(m.PlayerID, m.Direction)
		}
	case SetTickIntervalMsg:
		r.handleSetInterval(m)
	}
}

func (r *Room) handleSpawn(m SpawnMsg) {
	if m.PlayerID == "" {
		return
	}
	if r.game.HasPlayer(m.PlayerID) {
		r.logger.Debug("spawn ignored, player alive", "player", m.PlayerID)
		return
	}
	name, color := ValidateSpawn(m.Name, m.Color)
	r.game.SpawnPlayer(m.PlayerID, color, name)
	r.logger.Info("player spawned", "player", m.PlayerID, "name", name, "color", color)
}

func (r *Room) handleSetInterval(m SetTickIntervalMsg) {
	if m.Interval <= 0 || m.Interval == r.cfg.TickInterval {
		return
	}
	r.cfg.TickInterval = m.Interval
	if r.ticker != nil {
		r.ticker.Reset(m.Interval)
	}
	r.logger.Info("tick interval changed", "interval", m.Interval)
}

func (r *Room) publishDeath(d game.Death) {
	r.logger.Info("player died", "player", d.PlayerID, "name", d.Name, "score", d.Score, "cause", d.Cause)
	r.broadcast(DeathEvent{Tick: r.tick, Death: d})

	if r.recorder == nil {
		return
	}
	rec := DeathRecord{
		PlayerID: d.PlayerID,
		Name:     d.Name,
		Color:    d.Color,
		Score:    d.Score,
		Cause:    string(d.Cause),
		PlayedAt: time.Now(),
	}
	// Best effort save, never block the tick loop
	go func() {
		if err := r.recorder.RecordDeath(rec); err != nil {
			r.logger.Warn("cannot record death", "player", rec.PlayerID, "err", err)
		}
	}()
}

// broadcast sends evt to every live session and forgets finished ones.
func (r *Room) broadcast(evt SessionEvent) {
	for _, s := range r.sessions.All() {
		select {
		case <-s.Done():
			r.sessions.Unregister(s.ID())
			continue
		default:
		}
		s.Send(evt)
	}
}

// ValidateSpawn normalizes client-supplied spawn parameters: names are
// sanitized and default to core.DefaultName, unrenderable colours fall back
// to core.DefaultColor.
func ValidateSpawn(name, color string) (string, string) {
	name = core.SanitizeName(name)
	color = strings.ToLower(strings.TrimSpace(color))
	if !core.ValidColor(color) {
		color = core.DefaultColor
	}
	return name, color
}

func msgType(msg RoomMessage) string {
	switch msg.(type) {
	case SpawnMsg:
		return "spawn"
	case TurnMsg:
		return "turn"
	case SetTickIntervalMsg:
		return "set-interval"
	default:
		return "unknown"
	}
}
