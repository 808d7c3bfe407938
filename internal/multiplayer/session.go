package multiplayer

import "sync"

// SessionHandle is the transport-neutral interface for communicating with a session.
// It allows the room to push events without depending on Wish, Bubble Tea or gin.
type SessionHandle interface {
	// ID returns the unique session identifier.
	ID() SessionID

	// Send sends an event to the session asynchronously.
	// Must be non-blocking; implementations should use buffered channels.
	Send(evt SessionEvent)

	// Done returns a channel that closes when the session ends.
	Done() <-chan struct{}
}

// ChannelSession is a SessionHandle implementation using Go channels.
// Used by the TUI and web layers to bridge their clients with the room.
//
// A slow reader loses the oldest snapshots first. Death events are never
// dropped: when the buffer holds nothing but deaths, the excess waits in
// an overflow queue and is delivered ahead of later events.
type ChannelSession struct {
	id       SessionID
	events   chan SessionEvent
	done     chan struct{}
	doneOnce sync.Once

	mu       sync.Mutex
	overflow []SessionEvent
}

// NewChannelSession creates a new channel-based session handle.
// eventBufferSize controls how many events can be buffered before dropping.
func NewChannelSession(id SessionID, eventBufferSize int) *ChannelSession {
	if eventBufferSize < 1 {
		eventBufferSize = 64 // Default buffer size
	}
	return &ChannelSession{
		id:     id,
		events: make(chan SessionEvent, eventBufferSize),
		done:   make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *ChannelSession) ID() SessionID {
	return s.id
}

// Send queues an event for the session without blocking.
// If the buffer is full, the oldest snapshots make room for it.
func (s *ChannelSession) Send(evt SessionEvent) {
	select {
	case <-s.done:
		return
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pending := append(s.overflow, evt)
	s.overflow = nil
	for len(pending) > 0 {
		select {
		case s.events <- pending[0]:
			pending = pending[1:]
			continue
		default:
		}
		break
	}
	if len(pending) == 0 {
		return
	}

	// Buffer full: take everything queued and rebuild it without the
	// stalest snapshots. The reader may still be draining concurrently,
	// which only leaves more room.
	queued := make([]SessionEvent, 0, cap(s.events)+len(pending))
drain:
	for {
		select {
		case e := <-s.events:
			queued = append(queued, e)
		default:
			break drain
		}
	}
	queued = dropStaleSnapshots(append(queued, pending...), cap(s.events))

	for i, e := range queued {
		select {
		case s.events <- e:
		default:
			s.overflow = append([]SessionEvent(nil), queued[i:]...)
			return
		}
	}
}

// dropStaleSnapshots removes the oldest SnapshotEvents until events fits in
// limit or no snapshot is left. Other events keep their order.
func dropStaleSnapshots(events []SessionEvent, limit int) []SessionEvent {
	excess := len(events) - limit
	if excess <= 0 {
		return events
	}
	kept := make([]SessionEvent, 0, len(events))
	for _, e := range events {
		if _, ok := e.(SnapshotEvent); ok && excess > 0 {
			excess--
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// Events returns the channel to receive events from.
// The TUI layer reads from this channel.
func (s *ChannelSession) Events() <-chan SessionEvent {
	return s.events
}

// Done returns the done channel.
func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Close marks the session as done.
// Safe to call multiple times.
func (s *ChannelSession) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		s.overflow = nil
		s.mu.Unlock()
	})
}

// SessionRegistry tracks active sessions.
// Thread-safe for concurrent access.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

// NewSessionRegistry creates a new session registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[SessionID]SessionHandle),
	}
}

// Register adds a session to the registry.
func (r *SessionRegistry) Register(session SessionHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
}

// Unregister removes a session from the registry.
func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Get retrieves a session by ID.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// All returns a snapshot of the registered sessions in no particular order.
func (r *SessionRegistry) All() []SessionHandle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]SessionHandle, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

// Count returns the number of registered sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
