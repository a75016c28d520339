package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxiweb/internal/service"
)

// BookingFormHandler handles the booking form and its draft.
type BookingFormHandler struct {
	form     *service.BookingFormService
	bookings *service.BookingsService
}

// NewBookingFormHandler creates a new BookingFormHandler.
func NewBookingFormHandler(form *service.BookingFormService, bookings *service.BookingsService) *BookingFormHandler {
	return &BookingFormHandler{form: form, bookings: bookings}
}

// Submit handles POST /api/booking
func (h *BookingFormHandler) Submit(c *gin.Context) {
	var req service.BookingForm
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	res, err := h.form.Submit(c.Request.Context(), currentSession(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, res)
}

// GetDraft handles GET /api/booking/draft
func (h *BookingFormHandler) GetDraft(c *gin.Context) {
	draft := h.bookings.Draft(currentSession(c))
	if draft == nil {
		respondError(c, service.ErrNoDraft)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"draft": draft})
}

// ClearDraft handles DELETE /api/booking/draft
func (h *BookingFormHandler) ClearDraft(c *gin.Context) {
	h.bookings.ClearDraft(currentSession(c))
	c.Status(http.StatusNoContent)
}
