package handlers

import (
	"context"
	"errors"
	"net/http"

	"sp500watch/internal/htmltable"
	"sp500watch/internal/models"
	"sp500watch/internal/services"

	"github.com/gin-gonic/gin"
)

// TableSource supplies the raw membership table. Satisfied by the
// wikipedia client; faked in tests.
type TableSource interface {
	FetchTable(ctx context.Context) (*htmltable.Table, error)
}

// RefreshHandler triggers a full fetch-and-reconcile run.
type RefreshHandler struct {
	source    TableSource
	rosterSvc *services.RosterService
}

// NewRefreshHandler creates a new RefreshHandler
func NewRefreshHandler(source TableSource, rosterSvc *services.RosterService) *RefreshHandler {
	return &RefreshHandler{
		source:    source,
		rosterSvc: rosterSvc,
	}
}

// Refresh handles POST /refresh. Fetch, parse, and empty-source failures
// report as 502 (the upstream document is the problem); store failures as
// 500. A log-append failure still reports success, with a warning field.
func (h *RefreshHandler) Refresh(c *gin.Context) {
	table, err := h.source.FetchTable(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "bad_gateway",
			Message: "failed to fetch source list: " + err.Error(),
		})
		return
	}

	result, err := h.rosterSvc.Refresh(c.Request.Context(), table)
	if err != nil {
		if errors.Is(err, services.ErrSourceEmpty) {
			c.JSON(http.StatusBadGateway, models.ErrorResponse{
				Error:   "source_empty",
				Message: "source table has no usable rows; snapshot left unchanged",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.RefreshResponse{
		Status:     "success",
		Count:      result.Count,
		Added:      result.Summary.Added,
		Removed:    result.Summary.Removed,
		Updated:    result.Summary.Updated,
		LogWarning: result.LogWarning,
	})
}
