// Package session ties a running engine to the host that displays it.
package session

import (
	"context"
	"sync"

	"github.com/vovakirdan/tui-lander/internal/config"
	"github.com/vovakirdan/tui-lander/internal/engine"
)

// ID identifies a session.
type ID string

// LocalID is the session used by the local terminal.
const LocalID ID = "local"

// Session owns one engine and buffers the frames it publishes.
type Session struct {
	id     ID
	engine *engine.Engine
	frames chan engine.Frame

	cancel   context.CancelFunc
	done     chan struct{}
	doneOnce sync.Once
}

// New creates a session and its engine.
// frameBuffer controls how many frames can be buffered before dropping.
func New(id ID, cfg config.LanderConfig, frameBuffer int, opts ...engine.Option) *Session {
	if frameBuffer < 1 {
		frameBuffer = 4 // Default buffer size
	}
	s := &Session{
		id:     id,
		frames: make(chan engine.Frame, frameBuffer),
		done:   make(chan struct{}),
	}
	opts = append(opts, engine.WithRedraw(s.Publish))
	s.engine = engine.New(cfg, opts...)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() ID {
	return s.id
}

// Slot returns the storage slot for the session's suspended flight.
func (s *Session) Slot() string {
	return string(s.id)
}

// Engine returns the session's engine.
func (s *Session) Engine() *engine.Engine {
	return s.engine
}

// Start runs the engine loop in a new goroutine until ctx ends or the
// session is closed.
func (s *Session) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go func() {
		s.engine.Run(ctx) //nolint:errcheck // Returns ctx.Err() on shutdown
	}()
}

// Publish queues a frame for the host.
// If the buffer is full, the oldest frame is dropped to prevent blocking.
func (s *Session) Publish(f engine.Frame) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.frames <- f:
	default:
		select {
		case <-s.frames:
		default:
		}
		select {
		case s.frames <- f:
		default:
		}
	}
}

// Frames returns the channel frames are delivered on.
func (s *Session) Frames() <-chan engine.Frame {
	return s.frames
}

// Done returns a channel that closes when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close stops the engine and marks the session as done.
// Safe to call multiple times.
func (s *Session) Close() {
	s.doneOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.engine.Destroy()
		close(s.done)
	})
}

// Registry tracks active sessions.
// Thread-safe for concurrent access.
type Registry struct {
	mu       sync.RWMutex
	sessions map[ID]*Session
}

// NewRegistry creates a new session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[ID]*Session),
	}
}

// Register adds a session to the registry.
func (r *Registry) Register(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
}

// Add registers s unless a session with the same ID is already present.
// It reports whether s was added.
func (r *Registry) Add(s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID()]; ok {
		return false
	}
	r.sessions[s.ID()] = s
	return true
}

// Unregister removes a session from the registry.
func (r *Registry) Unregister(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Remove unregisters s only if it is still the session registered under
// its ID.
func (r *Registry) Remove(s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.sessions[s.ID()]; !ok || cur != s {
		return false
	}
	delete(r.sessions, s.ID())
	return true
}

// Get retrieves a session by ID.
func (r *Registry) Get(id ID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of registered sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Each calls fn for every registered session.
// fn must not call back into the registry.
func (r *Registry) Each(fn func(*Session)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.sessions {
		fn(s)
	}
}

// CloseAll closes and removes every session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[ID]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
