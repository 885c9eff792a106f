package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "wealthpath/internal/errors"
	"wealthpath/internal/models"
	"wealthpath/internal/pagination"
	"wealthpath/internal/services"
)

// PortfolioHandler handles holdings and portfolio aggregate requests.
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
	auditService     services.AuditServicer
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(portfolioService services.PortfolioServicer, auditService services.AuditServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService, auditService: auditService}
}

// AddHoldingRequest represents the request payload for adding a holding.
type AddHoldingRequest struct {
	Symbol       string            `json:"symbol" binding:"required,min=1,max=20"`
	Name         string            `json:"name" binding:"required,min=1,max=200"`
	AssetClass   models.AssetClass `json:"asset_class" binding:"required,asset_class"`
	Quantity     float64           `json:"quantity" binding:"required,gt=0"`
	AvgCost      float64           `json:"avg_cost" binding:"required,gt=0"`
	CurrentPrice float64           `json:"current_price" binding:"required,gt=0"`
	PurchaseDate *time.Time        `json:"purchase_date"`
}

// UpdateHoldingRequest represents the request payload for updating a holding.
type UpdateHoldingRequest struct {
	Quantity     *float64 `json:"quantity" binding:"omitempty,gt=0"`
	AvgCost      *float64 `json:"avg_cost" binding:"omitempty,gt=0"`
	CurrentPrice *float64 `json:"current_price" binding:"omitempty,gt=0"`
}

// AddHolding handles adding a holding to the portfolio.
// @Summary     Add holding
// @Description Add a new holding to the authenticated user's portfolio
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AddHoldingRequest true "Holding details"
// @Success     201 {object} models.Holding "Holding created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/holdings [post]
func (h *PortfolioHandler) AddHolding(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	holding, err := h.portfolioService.AddHolding(
		userID, req.Symbol, req.Name, req.AssetClass, req.Quantity, req.AvgCost, req.CurrentPrice, req.PurchaseDate,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "ADD_HOLDING", "holding", holding.ID, c.ClientIP(),
		map[string]interface{}{"symbol": req.Symbol, "asset_class": string(req.AssetClass), "quantity": req.Quantity})

	c.JSON(http.StatusCreated, gin.H{"holding": holding})
}

// GetHoldings handles listing holdings for the authenticated user.
// @Summary     Get holdings
// @Description Get a paginated list of holdings for the authenticated user
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Holding] "Paginated holdings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/holdings [get]
func (h *PortfolioHandler) GetHoldings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.portfolioService.GetUserHoldings(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetHoldingByID handles retrieving a specific holding.
// @Summary     Get holding by ID
// @Description Get a specific holding owned by the authenticated user
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Holding ID"
// @Success     200 {object} models.Holding "Holding details"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/holdings/{id} [get]
func (h *PortfolioHandler) GetHoldingByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	holding, err := h.portfolioService.GetHoldingByID(userID, holdingID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holding": holding})
}

// UpdateHolding handles updating a holding.
// @Summary     Update holding
// @Description Update a holding's quantity, average cost, or current price
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                  true "Holding ID"
// @Param       request body UpdateHoldingRequest true "Fields to update"
// @Success     200 {object} models.Holding "Holding updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/holdings/{id} [put]
func (h *PortfolioHandler) UpdateHolding(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	holding, err := h.portfolioService.UpdateHolding(userID, holdingID, req.Quantity, req.AvgCost, req.CurrentPrice)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_HOLDING", "holding", holding.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"holding": holding})
}

// DeleteHolding handles removing a holding from the portfolio.
// @Summary     Delete holding
// @Description Remove a holding from the authenticated user's portfolio
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Holding ID"
// @Success     200 {object} map[string]string "Holding deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/holdings/{id} [delete]
func (h *PortfolioHandler) DeleteHolding(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.portfolioService.DeleteHolding(userID, holdingID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_HOLDING", "holding", holdingID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Holding deleted successfully"})
}

// GetSummary handles retrieving portfolio headline figures.
// @Summary     Get portfolio summary
// @Description Get aggregate value, cost basis, and gain for the portfolio
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.PortfolioSummary "Portfolio summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/summary [get]
func (h *PortfolioHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.portfolioService.GetSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetAllocation handles retrieving the current allocation breakdown.
// @Summary     Get portfolio allocation
// @Description Get the current allocation percentages by asset class
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Allocation percentages and total value"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /portfolio/allocation [get]
func (h *PortfolioHandler) GetAllocation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	allocation, totalValue, err := h.portfolioService.GetAllocation(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"allocation":  allocation,
		"total_value": totalValue,
	})
}
