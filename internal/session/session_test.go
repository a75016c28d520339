package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxiweb/internal/domain"
)

func TestDraft_SetAndClear(t *testing.T) {
	s := New(NewID())
	assert.Nil(t, s.Draft())

	s.SetDraft(domain.DraftBooking{TempID: "t1"})
	s.SetDraft(domain.DraftBooking{TempID: "t2"})

	require.NotNil(t, s.Draft())
	assert.Equal(t, "t2", s.Draft().TempID)

	s.ClearDraft()
	assert.Nil(t, s.Draft())
}

func TestDraft_GetterReturnsCopy(t *testing.T) {
	s := New(NewID())
	s.SetDraft(domain.DraftBooking{TempID: "t1"})

	d := s.Draft()
	d.TempID = "changed"

	assert.Equal(t, "t1", s.Draft().TempID)
}

func TestReset_ClearsEverythingAndBumpsGeneration(t *testing.T) {
	s := New(NewID())
	s.SetUser(&domain.User{ID: "u1"})
	s.SetDraft(domain.DraftBooking{TempID: "t1"})
	gen := s.Generation()
	require.True(t, s.FinishLoading(gen, []domain.Booking{{ID: "b1"}}))

	s.Reset()

	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.Draft())
	assert.Empty(t, s.Bookings())
	assert.NotEqual(t, gen, s.Generation())
}

func TestStaleGenerationResultsAreDiscarded(t *testing.T) {
	s := New(NewID())
	gen := s.Generation()
	s.Reset()

	assert.False(t, s.FinishLoading(gen, []domain.Booking{{ID: "b1"}}))
	assert.False(t, s.PrependBooking(gen, domain.Booking{ID: "b2"}))
	assert.Empty(t, s.Bookings())
}

func TestPrependAndReplace(t *testing.T) {
	s := New(NewID())
	gen := s.Generation()
	s.FinishLoading(gen, []domain.Booking{{ID: "b1", Status: domain.BookingStatusConfirmed}})

	s.PrependBooking(gen, domain.Booking{ID: "b2"})
	ok := s.ReplaceBooking(gen, domain.Booking{ID: "b1", Status: domain.BookingStatusCancelled})

	require.True(t, ok)
	list := s.Bookings()
	require.Len(t, list, 2)
	assert.Equal(t, "b2", list[0].ID)
	assert.Equal(t, domain.BookingStatusCancelled, list[1].Status)
	assert.False(t, s.ReplaceBooking(gen, domain.Booking{ID: "missing"}))
}

func TestMarkBootstrapped_OnlyOnce(t *testing.T) {
	s := New(NewID())

	assert.True(t, s.MarkBootstrapped())
	assert.False(t, s.MarkBootstrapped())
	assert.True(t, s.Bootstrapped())
}

func TestTryBeginProcessing_SingleWinner(t *testing.T) {
	s := New(NewID())

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.TryBeginProcessing() {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
	s.EndProcessing()
	assert.True(t, s.TryBeginProcessing())
}

func TestRegistry_GetCreatesAndReuses(t *testing.T) {
	r := NewRegistry(time.Hour)

	a := r.Get("")
	b := r.Get(a.ID)
	c := r.Get("not-a-uuid")

	assert.Same(t, a, b)
	assert.NotEqual(t, a.ID, c.ID)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_SweepDropsIdleSessions(t *testing.T) {
	r := NewRegistry(time.Minute)
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return start }

	idle := r.Get("")
	busy := r.Get("")
	require.True(t, busy.TryBeginProcessing())

	dropped := r.Sweep(start.Add(2 * time.Minute))

	assert.Equal(t, 1, dropped)
	assert.Equal(t, 1, r.Len())
	assert.Same(t, busy, r.Get(busy.ID))
	assert.NotSame(t, idle, r.Get(idle.ID))
}

func TestMemoryTokenStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTokenStore()

	tok, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, store.Set(ctx, "s1", "abc"))
	tok, _ = store.Get(ctx, "s1")
	assert.Equal(t, "abc", tok)

	require.NoError(t, store.Clear(ctx, "s1"))
	tok, _ = store.Get(ctx, "s1")
	assert.Empty(t, tok)
}
