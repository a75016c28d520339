package service

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"golang.org/x/sync/singleflight"

	"taxiweb/internal/api"
	"taxiweb/internal/domain"
	"taxiweb/internal/session"
)

const (
	// DefaultLoginRedirect is where a successful sign-in lands without a recorded path.
	DefaultLoginRedirect = "/dashboard"
	// LogoutRedirect is where a sign-out lands.
	LogoutRedirect = "/"
)

// AuthListener reacts to authentication transitions of a session.
type AuthListener interface {
	OnAuthenticated(ctx context.Context, sess *session.Session)
	OnUnauthenticated(ctx context.Context, sess *session.Session)
}

// AuthService owns the signed-in state of each session.
type AuthService struct {
	client    AuthClient
	tokens    session.TokenStore
	listeners []AuthListener
	group     singleflight.Group
}

// NewAuthService creates a new AuthService.
func NewAuthService(client AuthClient, tokens session.TokenStore) *AuthService {
	return &AuthService{
		client: client,
		tokens: tokens,
	}
}

// Subscribe registers l for authentication transitions. Not safe to call
// once requests are being served.
func (s *AuthService) Subscribe(l AuthListener) {
	s.listeners = append(s.listeners, l)
}

// LoginResult is returned by a successful login or registration.
type LoginResult struct {
	User     *domain.User `json:"user"`
	Redirect string       `json:"redirect"`
}

// RegisterRequest carries the register form.
type RegisterRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// EnsureBootstrapped runs the session check at most once per session and
// waits for it until ctx is done. The check itself is detached from ctx so a
// client that gives up does not cancel it for the next request.
func (s *AuthService) EnsureBootstrapped(ctx context.Context, sess *session.Session) error {
	if sess.Bootstrapped() {
		return nil
	}

	ch := s.group.DoChan(sess.ID, func() (any, error) {
		s.Bootstrap(context.WithoutCancel(ctx), sess)
		return nil, nil
	})

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ErrBootstrapPending
	}
}

// Bootstrap verifies the stored token against the backend. Whatever the
// outcome the session ends up bootstrapped; a failed check clears the token
// and the user together.
func (s *AuthService) Bootstrap(ctx context.Context, sess *session.Session) {
	if sess.Bootstrapped() {
		return
	}
	defer sess.MarkBootstrapped()

	gen := sess.Generation()
	token := s.Token(ctx, sess)
	if token == "" {
		return
	}

	user, err := s.client.CurrentUser(ctx, token)
	if sess.Generation() != gen || sess.IsAuthenticated() {
		return
	}
	if err != nil {
		log.Printf("auth: session %s bootstrap failed: %v", sess.ID, err)
		s.signOut(ctx, sess)
		return
	}

	sess.SetUser(user)
	s.notifyAuthenticated(ctx, sess)
}

// Login signs the session in. On failure the session is left untouched.
func (s *AuthService) Login(ctx context.Context, sess *session.Session, creds domain.Credentials, from string) (*LoginResult, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return nil, ErrCredentialsRequired
	}

	res, err := s.client.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	if err := s.signIn(ctx, sess, res, "Invalid email or password"); err != nil {
		return nil, err
	}

	return &LoginResult{User: sess.User(), Redirect: SafeRedirect(from, DefaultLoginRedirect)}, nil
}

// Register creates an account and signs the session in.
func (s *AuthService) Register(ctx context.Context, sess *session.Session, req RegisterRequest) (*LoginResult, error) {
	reg := domain.Registration{
		FullName: strings.TrimSpace(req.FullName),
		Email:    strings.TrimSpace(req.Email),
		Phone:    strings.TrimSpace(req.Phone),
		Password: req.Password,
	}
	if reg.FullName == "" || reg.Email == "" || reg.Phone == "" || reg.Password == "" {
		return nil, ErrRegistrationIncomplete
	}
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	res, err := s.client.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	if err := s.signIn(ctx, sess, res, "Registration failed"); err != nil {
		return nil, err
	}

	return &LoginResult{User: sess.User(), Redirect: DefaultLoginRedirect}, nil
}

// Logout clears the token and the user together. It never calls the backend.
func (s *AuthService) Logout(ctx context.Context, sess *session.Session) {
	s.signOut(ctx, sess)
}

// CurrentUser returns the signed-in user of sess or nil.
func (s *AuthService) CurrentUser(sess *session.Session) *domain.User {
	return sess.User()
}

// Token returns the bearer token of sess, or "" when none is stored or the
// store is unavailable.
func (s *AuthService) Token(ctx context.Context, sess *session.Session) string {
	return tokenFor(ctx, s.tokens, sess)
}

func (s *AuthService) signIn(ctx context.Context, sess *session.Session, res *domain.AuthResult, fallback string) error {
	if res == nil || res.Token == "" || res.User == nil {
		return &api.Error{Kind: api.KindBackend, Message: fallback}
	}
	if err := s.tokens.Set(ctx, sess.ID, res.Token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	sess.SetUser(res.User)
	sess.MarkBootstrapped()
	s.notifyAuthenticated(ctx, sess)
	return nil
}

func (s *AuthService) signOut(ctx context.Context, sess *session.Session) {
	if err := s.tokens.Clear(ctx, sess.ID); err != nil {
		log.Printf("auth: clear token for session %s: %v", sess.ID, err)
	}
	sess.Reset()

	for _, l := range s.listeners {
		l.OnUnauthenticated(ctx, sess)
	}
}

func (s *AuthService) notifyAuthenticated(ctx context.Context, sess *session.Session) {
	for _, l := range s.listeners {
		l.OnAuthenticated(ctx, sess)
	}
}

func tokenFor(ctx context.Context, tokens session.TokenStore, sess *session.Session) string {
	token, err := tokens.Get(ctx, sess.ID)
	if err != nil {
		log.Printf("auth: read token for session %s: %v", sess.ID, err)
		return ""
	}
	return token
}

// SafeRedirect returns from when it is a local path other than the auth
// screens, and fallback otherwise.
func SafeRedirect(from, fallback string) string {
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.Contains(from, "\\") {
		return fallback
	}

	u, err := url.Parse(from)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}

	switch u.Path {
	case "/login", "/register":
		return fallback
	}
	return from
}
