package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxiweb/internal/api"
	"taxiweb/internal/middleware"
	"taxiweb/internal/repository"
	"taxiweb/internal/service"
	"taxiweb/internal/session"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code, kind := mapErrorToHTTPStatus(err)
	resp := ErrorResponse{Error: errorMessage(err), Code: kind}

	var partial *service.PartialFailureError
	if errors.As(err, &partial) {
		resp.Detail = partial.Detail()
	}

	if code >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(code, resp)
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// badRequest answers a body that could not be bound.
func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: "validation"})
}

// currentSession returns the request's session. The session middleware runs on every route.
func currentSession(c *gin.Context) *session.Session {
	return middleware.CurrentSession(c)
}

// errorMessage returns the user-facing text of err.
func errorMessage(err error) string {
	var partial *service.PartialFailureError
	if errors.As(err, &partial) {
		return partial.Error()
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// mapErrorToHTTPStatus maps service, api and repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) (int, string) {
	var (
		validation  *service.ValidationError
		partial     *service.PartialFailureError
		notComplete *service.PaymentNotCompletedError
		apiErr      *api.Error
	)

	switch {
	// A partial failure may wrap any cause, so it is matched first
	case errors.As(err, &partial):
		return http.StatusBadGateway, "partial_failure"

	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrNoDraft):
		return http.StatusNotFound, "no_draft"

	// Validation errors - Bad Request
	case errors.As(err, &validation):
		return http.StatusBadRequest, "validation"

	// Conflict errors
	case errors.Is(err, service.ErrPaymentProcessing):
		return http.StatusConflict, "payment_processing"

	// Payment errors
	case errors.As(err, &notComplete):
		return http.StatusPaymentRequired, "payment_not_completed"

	// Service unavailable
	case errors.Is(err, service.ErrBootstrapPending):
		return http.StatusServiceUnavailable, "session_pending"

	// Backend errors
	case errors.As(err, &apiErr):
		return apiStatus(apiErr), string(apiErr.Kind)

	// Default to internal server error
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func apiStatus(err *api.Error) int {
	switch err.Kind {
	case api.KindValidation:
		return http.StatusBadRequest
	case api.KindAuthRequired:
		return http.StatusUnauthorized
	case api.KindNotFound:
		return http.StatusNotFound
	case api.KindNetwork:
		return http.StatusBadGateway
	}

	if err.Status >= 400 && err.Status < 500 {
		return err.Status
	}
	return http.StatusBadGateway
}
