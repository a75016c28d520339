package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxiweb/internal/config"
	"taxiweb/internal/service"
)

// QuoteHandler handles the public fare-quote dialog and widget settings.
type QuoteHandler struct {
	quotes *service.QuoteService
	places config.PlacesConfig
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(quotes *service.QuoteService, places config.PlacesConfig) *QuoteHandler {
	return &QuoteHandler{quotes: quotes, places: places}
}

// QuoteRequest is the HTTP request body for a quote.
type QuoteRequest struct {
	FromPlaceID string `json:"fromPlaceId"`
	ToPlaceID   string `json:"toPlaceId"`
}

// Quote handles POST /api/quote
func (h *QuoteHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	quote, err := h.quotes.Quote(c.Request.Context(), req.FromPlaceID, req.ToPlaceID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, quote)
}

// PlacesConfig handles GET /api/config/places
func (h *QuoteHandler) PlacesConfig(c *gin.Context) {
	respondJSON(c, http.StatusOK, gin.H{
		"apiKey":  h.places.APIKey,
		"country": h.places.Country,
	})
}
