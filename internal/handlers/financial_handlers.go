package handlers

import (
	"errors"
	"net/http"
	"strings"

	"sp500watch/internal/models"
	"sp500watch/internal/repository"
	"sp500watch/internal/services"

	"github.com/gin-gonic/gin"
)

// FinancialHandler serves stored financials and triggers enrichment runs.
type FinancialHandler struct {
	rosterSvc     *services.RosterService
	enrichmentSvc *services.EnrichmentService
}

// NewFinancialHandler creates a new FinancialHandler
func NewFinancialHandler(rosterSvc *services.RosterService, enrichmentSvc *services.EnrichmentService) *FinancialHandler {
	return &FinancialHandler{
		rosterSvc:     rosterSvc,
		enrichmentSvc: enrichmentSvc,
	}
}

// List handles GET /financials
func (h *FinancialHandler) List(c *gin.Context) {
	financials, err := h.enrichmentSvc.GetFinancials(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}
	if financials == nil {
		financials = []models.Financials{}
	}
	c.JSON(http.StatusOK, financials)
}

// Get handles GET /financials/:symbol
func (h *FinancialHandler) Get(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	financials, err := h.enrichmentSvc.GetFinancialsBySymbol(c.Request.Context(), symbol)
	if err != nil {
		if errors.Is(err, repository.ErrFinancialsNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "not_found",
				Message: "financials not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, financials)
}

// Refresh handles POST /financials/refresh: it enriches every symbol in
// the current snapshot.
func (h *FinancialHandler) Refresh(c *gin.Context) {
	companies, err := h.rosterSvc.GetCompanies(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	symbols := make([]string, len(companies))
	for i, company := range companies {
		symbols[i] = company.Symbol
	}

	result, err := h.enrichmentSvc.RefreshFinancials(c.Request.Context(), symbols)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, result)
}
