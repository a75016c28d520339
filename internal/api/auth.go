package api

import (
	"context"
	"net/http"

	"taxiweb/internal/domain"
)

// AuthAPI wraps the /api/auth endpoints.
type AuthAPI struct {
	client *Client
}

// NewAuthAPI creates a new AuthAPI.
func NewAuthAPI(client *Client) *AuthAPI {
	return &AuthAPI{client: client}
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

// Register handles POST /api/auth/register.
func (a *AuthAPI) Register(ctx context.Context, req domain.Registration) (*domain.AuthResult, error) {
	var out authResponse
	if err := a.client.do(ctx, call{
		op:       "register",
		method:   http.MethodPost,
		path:     "/api/auth/register",
		body:     req,
		result:   &out,
		fallback: "Registration failed",
	}); err != nil {
		return nil, err
	}
	return &domain.AuthResult{Token: out.Token, User: out.User}, nil
}

// Login handles POST /api/auth/login.
func (a *AuthAPI) Login(ctx context.Context, req domain.Credentials) (*domain.AuthResult, error) {
	var out authResponse
	if err := a.client.do(ctx, call{
		op:       "login",
		method:   http.MethodPost,
		path:     "/api/auth/login",
		body:     req,
		result:   &out,
		fallback: "Invalid email or password",
	}); err != nil {
		return nil, err
	}
	return &domain.AuthResult{Token: out.Token, User: out.User}, nil
}

// CurrentUser handles GET /api/auth/me.
func (a *AuthAPI) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	var out userResponse
	if err := a.client.do(ctx, call{
		op:       "current user",
		method:   http.MethodGet,
		path:     "/api/auth/me",
		token:    token,
		auth:     true,
		result:   &out,
		fallback: "Session expired",
	}); err != nil {
		return nil, err
	}
	if out.User == nil {
		return nil, &Error{Kind: KindBackend, Status: http.StatusOK, Message: "Session expired"}
	}
	return out.User, nil
}
