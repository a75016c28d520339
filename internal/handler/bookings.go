package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxiweb/internal/domain"
	"taxiweb/internal/service"
)

// BookingsHandler handles HTTP requests for confirmed bookings.
type BookingsHandler struct {
	bookings *service.BookingsService
	receipts *service.ReceiptService
}

// NewBookingsHandler creates a new BookingsHandler.
func NewBookingsHandler(bookings *service.BookingsService, receipts *service.ReceiptService) *BookingsHandler {
	return &BookingsHandler{bookings: bookings, receipts: receipts}
}

// DashboardResponse is the signed-in landing view.
type DashboardResponse struct {
	User     *domain.User     `json:"user"`
	Bookings []domain.Booking `json:"bookings"`
	Loading  bool             `json:"loading"`
}

// Dashboard handles GET /api/dashboard
func (h *BookingsHandler) Dashboard(c *gin.Context) {
	sess := currentSession(c)
	respondJSON(c, http.StatusOK, DashboardResponse{
		User:     sess.User(),
		Bookings: h.bookings.Bookings(sess),
		Loading:  sess.Loading(),
	})
}

// Reload handles POST /api/bookings/reload
func (h *BookingsHandler) Reload(c *gin.Context) {
	list := h.bookings.Reload(c.Request.Context(), currentSession(c))
	respondJSON(c, http.StatusOK, gin.H{"bookings": list})
}

// GetBooking handles GET /api/bookings/:id
func (h *BookingsHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookings.GetByID(c.Request.Context(), currentSession(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"booking": booking})
}

// CancelBooking handles POST /api/bookings/:id/cancel
func (h *BookingsHandler) CancelBooking(c *gin.Context) {
	booking, err := h.bookings.Cancel(c.Request.Context(), currentSession(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"booking": booking})
}

// Receipt handles GET /api/bookings/:id/receipt
func (h *BookingsHandler) Receipt(c *gin.Context) {
	receipt, err := h.receipts.GenerateReceipt(c.Request.Context(), currentSession(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, receipt.Filename))
	c.Data(http.StatusOK, "application/pdf", receipt.PDF)
}
