package tests

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"taxiweb/internal/api"
	"taxiweb/internal/domain"
	"taxiweb/internal/service"
	"taxiweb/internal/session"
)

// ──────────────────────────────────────────────
// LOGIN / REGISTER / LOGOUT
// ──────────────────────────────────────────────

func TestLogin_StoresTokenAndLoadsBookings(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.bookingAPI.AddBooking(domain.Booking{ID: "b-old", Status: domain.BookingStatusConfirmed})
	sess := session.New(session.NewID())

	res, err := h.auth.Login(context.Background(), sess, domain.Credentials{Email: " jane@example.com ", Password: "secret"}, "/booking")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if res.Redirect != "/booking" {
		t.Errorf("expected redirect /booking, got %s", res.Redirect)
	}
	if !sess.IsAuthenticated() || !sess.Bootstrapped() {
		t.Error("expected an authenticated, bootstrapped session")
	}
	tok, _ := h.tokens.Get(context.Background(), sess.ID)
	if tok != h.authAPI.LoginToken {
		t.Errorf("expected stored token %q, got %q", h.authAPI.LoginToken, tok)
	}
	if list := sess.Bookings(); len(list) != 1 || list[0].ID != "b-old" {
		t.Errorf("expected bookings to load on sign-in, got %+v", list)
	}
}

func TestLogin_DefaultsToDashboard(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	sess := session.New(session.NewID())

	res, err := h.auth.Login(context.Background(), sess, domain.Credentials{Email: "jane@example.com", Password: "secret"}, "https://evil.example/")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if res.Redirect != "/dashboard" {
		t.Errorf("expected /dashboard, got %s", res.Redirect)
	}
}

func TestLogin_MissingCredentialsSendNoRequest(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	sess := session.New(session.NewID())

	_, err := h.auth.Login(context.Background(), sess, domain.Credentials{Email: "  ", Password: "secret"}, "")

	if !errors.Is(err, service.ErrCredentialsRequired) {
		t.Fatalf("expected ErrCredentialsRequired, got %v", err)
	}
	if got := atomic.LoadInt32(&h.authAPI.LoginCallCount); got != 0 {
		t.Errorf("expected 0 login calls, got %d", got)
	}
}

func TestLogin_FailureLeavesSessionUntouched(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.authAPI.LoginError = &api.Error{Kind: api.KindBackend, Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	sess := session.New(session.NewID())

	_, err := h.auth.Login(context.Background(), sess, domain.Credentials{Email: "jane@example.com", Password: "wrong"}, "")

	if api.Message(err, "") != "Invalid credentials" {
		t.Fatalf("expected backend message, got %v", err)
	}
	if sess.IsAuthenticated() {
		t.Error("session must stay signed out")
	}
	if tok, _ := h.tokens.Get(context.Background(), sess.ID); tok != "" {
		t.Errorf("no token may be stored, got %q", tok)
	}
}

func TestRegister_PasswordMismatchSendsNoRequest(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	sess := session.New(session.NewID())

	_, err := h.auth.Register(context.Background(), sess, service.RegisterRequest{
		FullName:        "Jane Doe",
		Email:           "jane@example.com",
		Phone:           "+447700900000",
		Password:        "secret1",
		ConfirmPassword: "secret2",
	})

	if !errors.Is(err, service.ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if got := atomic.LoadInt32(&h.authAPI.RegisterCallCount); got != 0 {
		t.Errorf("expected 0 register calls, got %d", got)
	}
}

func TestRegister_SignsIn(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	sess := session.New(session.NewID())

	res, err := h.auth.Register(context.Background(), sess, service.RegisterRequest{
		FullName:        "Jane Doe",
		Email:           "jane@example.com",
		Phone:           "+447700900000",
		Password:        "secret",
		ConfirmPassword: "secret",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if res.Redirect != "/dashboard" {
		t.Errorf("expected /dashboard, got %s", res.Redirect)
	}
	if u := sess.User(); u == nil || u.FullName != "Jane Doe" {
		t.Errorf("expected registered user on session, got %+v", u)
	}
}

func TestLogout_ClearsDraftBookingsAndToken(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.bookingAPI.AddBooking(domain.Booking{ID: "b1"})
	sess := h.signedIn(t)
	h.withDraft(t, sess)

	if sess.Draft() == nil || len(sess.Bookings()) == 0 {
		t.Fatal("precondition: expected a draft and a loaded list")
	}
	gen := sess.Generation()

	h.auth.Logout(context.Background(), sess)

	if sess.IsAuthenticated() {
		t.Error("expected signed out")
	}
	if sess.Draft() != nil {
		t.Error("expected draft to be cleared")
	}
	if len(sess.Bookings()) != 0 {
		t.Error("expected bookings to be cleared")
	}
	if tok, _ := h.tokens.Get(context.Background(), sess.ID); tok != "" {
		t.Errorf("expected token to be cleared, got %q", tok)
	}
	if sess.Generation() == gen {
		t.Error("expected a new generation after logout")
	}
}

// ──────────────────────────────────────────────
// BOOTSTRAP
// ──────────────────────────────────────────────

func TestBootstrap_NoTokenSkipsBackend(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	sess := session.New(session.NewID())

	if err := h.auth.EnsureBootstrapped(context.Background(), sess); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !sess.Bootstrapped() || sess.IsAuthenticated() {
		t.Error("expected bootstrapped and signed out")
	}
	if got := atomic.LoadInt32(&h.authAPI.CurrentUserCallCount); got != 0 {
		t.Errorf("expected 0 current-user calls, got %d", got)
	}
}

func TestBootstrap_ValidTokenRestoresUser(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	sess := session.New(session.NewID())
	h.authAPI.AddUser("tok-stored", &domain.User{ID: "u9", FullName: "Sam Lee"})
	_ = h.tokens.Set(context.Background(), sess.ID, "tok-stored")

	if err := h.auth.EnsureBootstrapped(context.Background(), sess); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if u := sess.User(); u == nil || u.ID != "u9" {
		t.Errorf("expected restored user u9, got %+v", u)
	}
	if got := atomic.LoadInt32(&h.bookingAPI.ListCallCount); got != 1 {
		t.Errorf("expected bookings to load once, got %d", got)
	}
}

func TestBootstrap_InvalidTokenClearsIt(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	sess := session.New(session.NewID())
	_ = h.tokens.Set(context.Background(), sess.ID, "tok-expired")

	if err := h.auth.EnsureBootstrapped(context.Background(), sess); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if !sess.Bootstrapped() || sess.IsAuthenticated() {
		t.Error("expected bootstrapped and signed out")
	}
	if tok, _ := h.tokens.Get(context.Background(), sess.ID); tok != "" {
		t.Errorf("expected token to be cleared, got %q", tok)
	}
}

func TestBootstrap_ConcurrentRequestsShareOneCheck(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	sess := session.New(session.NewID())
	h.authAPI.AddUser("tok-stored", &domain.User{ID: "u9"})
	_ = h.tokens.Set(context.Background(), sess.ID, "tok-stored")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.auth.EnsureBootstrapped(context.Background(), sess)
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&h.authAPI.CurrentUserCallCount); got != 1 {
		t.Errorf("expected exactly 1 current-user call, got %d", got)
	}
	if !sess.IsAuthenticated() {
		t.Error("expected session to be signed in")
	}
}

// ──────────────────────────────────────────────
// REDIRECT SAFETY
// ──────────────────────────────────────────────

func TestSafeRedirect(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		from string
		want string
	}{
		{"", "/dashboard"},
		{"/booking", "/booking"},
		{"/bookings/b1?tab=receipt", "/bookings/b1?tab=receipt"},
		{"/login", "/dashboard"},
		{"/register", "/dashboard"},
		{"//evil.example", "/dashboard"},
		{"/\\evil.example", "/dashboard"},
		{"https://evil.example/booking", "/dashboard"},
		{"booking", "/dashboard"},
	}

	for _, tc := range testCases {
		if got := service.SafeRedirect(tc.from, "/dashboard"); got != tc.want {
			t.Errorf("SafeRedirect(%q) = %q, want %q", tc.from, got, tc.want)
		}
	}
}
