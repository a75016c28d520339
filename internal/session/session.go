// Package session holds the server-side state of one browser session: the
// signed-in user, the cached bookings list and the single draft booking.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"taxiweb/internal/domain"
)

// Session is the per-browser state shared by the auth and bookings services.
// All accessors are safe for concurrent use; getters return copies.
type Session struct {
	ID string

	mu           sync.RWMutex
	user         *domain.User
	bootstrapped bool
	bookings     []domain.Booking
	loading      bool
	draft        *domain.DraftBooking
	generation   uint64
	lastSeen     time.Time

	processing atomic.Bool
}

// New creates an empty, not yet bootstrapped session.
func New(id string) *Session {
	return &Session{ID: id, bookings: []domain.Booking{}, lastSeen: time.Now()}
}

// User returns the signed-in user or nil.
func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether a user is present.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// SetUser replaces the in-memory user.
func (s *Session) SetUser(u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.user = nil
		return
	}
	cp := *u
	s.user = &cp
}

// Bootstrapped reports whether the initial current-user check has resolved.
func (s *Session) Bootstrapped() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bootstrapped
}

// MarkBootstrapped sets the bootstrapped flag. It returns false if the flag
// was already set.
func (s *Session) MarkBootstrapped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bootstrapped {
		return false
	}
	s.bootstrapped = true
	return true
}

// Generation identifies the current sign-in epoch. It changes on Reset.
func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Reset drops the user, the bookings and the draft together and starts a new
// generation, so results of requests started before the reset are discarded.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.bookings = []domain.Booking{}
	s.draft = nil
	s.loading = false
	s.generation++
}

// Bookings returns the cached list, most recent first.
func (s *Session) Bookings() []domain.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Booking, len(s.bookings))
	copy(out, s.bookings)
	return out
}

// Loading reports whether a bookings load is in flight.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// BeginLoading marks a load as started if gen is still current.
func (s *Session) BeginLoading(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.loading = true
	return true
}

// FinishLoading stores the loaded list if gen is still current.
func (s *Session) FinishLoading(gen uint64, list []domain.Booking) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	if list == nil {
		list = []domain.Booking{}
	}
	s.bookings = append([]domain.Booking(nil), list...)
	s.loading = false
	return true
}

// ClearBookings empties the cached list.
func (s *Session) ClearBookings() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = []domain.Booking{}
}

// PrependBooking adds b at the head of the list if gen is still current.
func (s *Session) PrependBooking(gen uint64, b domain.Booking) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.bookings = append([]domain.Booking{b}, s.bookings...)
	return true
}

// ReplaceBooking swaps the cached entry with the same ID for b.
// It returns false when no entry matched or gen is stale.
func (s *Session) ReplaceBooking(gen uint64, b domain.Booking) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	for i := range s.bookings {
		if s.bookings[i].ID == b.ID {
			s.bookings[i] = b
			return true
		}
	}
	return false
}

// Draft returns a copy of the draft booking or nil.
func (s *Session) Draft() *domain.DraftBooking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.draft == nil {
		return nil
	}
	d := *s.draft
	return &d
}

// SetDraft replaces the draft booking. A session holds at most one.
func (s *Session) SetDraft(d domain.DraftBooking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = &d
}

// ClearDraft drops the draft booking.
func (s *Session) ClearDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
}

// TryBeginProcessing claims the payment-completion guard. Only one caller
// holds it at a time.
func (s *Session) TryBeginProcessing() bool {
	return s.processing.CompareAndSwap(false, true)
}

// EndProcessing releases the payment-completion guard.
func (s *Session) EndProcessing() {
	s.processing.Store(false)
}

// Processing reports whether a payment completion is in flight.
func (s *Session) Processing() bool {
	return s.processing.Load()
}

// Touch records activity at now.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

// LastSeen returns the time of the last recorded activity.
func (s *Session) LastSeen() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}
