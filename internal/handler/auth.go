package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxiweb/internal/domain"
	"taxiweb/internal/service"
)

// AuthHandler handles HTTP requests for sign-in state.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// SessionResponse describes the signed-in state of the browser session.
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	Bootstrapped  bool         `json:"bootstrapped"`
	User          *domain.User `json:"user"`
}

// LoginRequest is the HTTP request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	From     string `json:"from"`
}

// Session handles GET /api/session
func (h *AuthHandler) Session(c *gin.Context) {
	sess := currentSession(c)
	if err := h.auth.EnsureBootstrapped(c.Request.Context(), sess); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, SessionResponse{
		Authenticated: sess.IsAuthenticated(),
		Bootstrapped:  sess.Bootstrapped(),
		User:          h.auth.CurrentUser(sess),
	})
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	res, err := h.auth.Register(c.Request.Context(), currentSession(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, res)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	from := req.From
	if from == "" {
		from = c.Query("from")
	}

	res, err := h.auth.Login(c.Request.Context(), currentSession(c), domain.Credentials{
		Email:    req.Email,
		Password: req.Password,
	}, from)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, res)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.auth.Logout(c.Request.Context(), currentSession(c))
	respondJSON(c, http.StatusOK, gin.H{"redirect": service.LogoutRedirect})
}
