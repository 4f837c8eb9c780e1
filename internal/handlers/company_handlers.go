package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"sp500watch/internal/models"
	"sp500watch/internal/repository"
	"sp500watch/internal/services"

	"github.com/gin-gonic/gin"
)

// CompanyHandler serves the current snapshot and the change history.
type CompanyHandler struct {
	rosterSvc *services.RosterService
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(rosterSvc *services.RosterService) *CompanyHandler {
	return &CompanyHandler{
		rosterSvc: rosterSvc,
	}
}

// List handles GET /companies
func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.rosterSvc.GetCompanies(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}
	if companies == nil {
		companies = []models.Company{}
	}
	c.JSON(http.StatusOK, companies)
}

// Get handles GET /companies/:symbol
func (h *CompanyHandler) Get(c *gin.Context) {
	company, err := h.rosterSvc.GetCompany(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "not_found",
				Message: "company not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, company)
}

// Changes handles GET /changes?limit=n
func (h *CompanyHandler) Changes(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "bad_request",
				Message: "limit must be a positive integer",
			})
			return
		}
		limit = n
	}

	events, err := h.rosterSvc.History(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}
	if events == nil {
		events = []models.ChangeEvent{}
	}
	c.JSON(http.StatusOK, events)
}
