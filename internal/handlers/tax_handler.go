package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wealthpath/internal/services"
)

// TaxHandler handles tax-loss review requests.
type TaxHandler struct {
	taxService services.TaxServicer
}

// NewTaxHandler creates a new TaxHandler.
func NewTaxHandler(taxService services.TaxServicer) *TaxHandler {
	return &TaxHandler{taxService: taxService}
}

// GetOpportunities handles listing tax-loss harvesting opportunities.
// @Summary     Get harvesting opportunities
// @Description Get loss positions flagged for tax-loss review, largest loss first
// @Tags        tax
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]services.HarvestingOpportunity "Opportunities"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tax/opportunities [get]
func (h *TaxHandler) GetOpportunities(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	opportunities, err := h.taxService.GetHarvestingOpportunities(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"opportunities": opportunities})
}

// GetAnalysis handles the aggregate tax-loss analysis.
// @Summary     Get tax analysis
// @Description Get harvesting opportunities with portfolio-level totals
// @Tags        tax
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.TaxAnalysis "Tax analysis"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tax/analysis [get]
func (h *TaxHandler) GetAnalysis(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	analysis, err := h.taxService.GetTaxAnalysis(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}
