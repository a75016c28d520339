package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry keeps the live sessions of this process.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idleTTL  time.Duration
	now      func() time.Time
}

// NewRegistry creates a Registry that forgets sessions idle for longer than idleTTL.
func NewRegistry(idleTTL time.Duration) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.New().String()
}

// Get returns the session for id, creating it on first sight. An empty or
// malformed id yields a brand-new session with a fresh identifier.
func (r *Registry) Get(id string) *Session {
	if _, err := uuid.Parse(id); err != nil {
		id = NewID()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		s = New(id)
		r.sessions[id] = s
	}
	s.Touch(r.now())
	return s
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle since before now-idleTTL and returns how many
// were dropped. Sessions with a payment completion in flight are kept.
func (r *Registry) Sweep(now time.Time) int {
	cutoff := now.Add(-r.idleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := 0
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) && !s.Processing() {
			delete(r.sessions, id)
			dropped++
		}
	}
	return dropped
}

// Run sweeps periodically until ctx is done.
func (r *Registry) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := r.Sweep(now); n > 0 {
				log.Printf("session: evicted %d idle sessions", n)
			}
		}
	}
}
