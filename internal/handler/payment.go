package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxiweb/internal/api"
	"taxiweb/internal/service"
)

// HomeRedirect is where the payment step sends a session without a draft.
const HomeRedirect = "/"

// PaymentHandler handles the payment step.
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Page handles GET /api/booking/payment
func (h *PaymentHandler) Page(c *gin.Context) {
	page, err := h.payments.Start(c.Request.Context(), currentSession(c))
	if errors.Is(err, service.ErrNoDraft) {
		c.Redirect(http.StatusSeeOther, HomeRedirect)
		return
	}
	if err != nil {
		code, kind := mapErrorToHTTPStatus(err)
		c.JSON(code, ErrorResponse{
			Error: api.Message(err, "Failed to initialize payment"),
			Code:  kind,
		})
		return
	}

	respondJSON(c, http.StatusOK, page)
}

// Confirm handles POST /api/booking/payment/confirm
func (h *PaymentHandler) Confirm(c *gin.Context) {
	var req service.WidgetResult
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	confirmation, err := h.payments.Complete(c.Request.Context(), currentSession(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, confirmation)
}
