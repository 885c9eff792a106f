package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "wealthpath/internal/errors"
	"wealthpath/internal/models"
	"wealthpath/internal/pagination"
	"wealthpath/internal/planner"
	"wealthpath/internal/services"
)

// RebalancingHandler handles drift analysis and rebalancing requests.
type RebalancingHandler struct {
	rebalancingService services.RebalancingServicer
	auditService       services.AuditServicer
}

// NewRebalancingHandler creates a new RebalancingHandler.
func NewRebalancingHandler(rebalancingService services.RebalancingServicer, auditService services.AuditServicer) *RebalancingHandler {
	return &RebalancingHandler{rebalancingService: rebalancingService, auditService: auditService}
}

// UpdateTargetAllocationRequest represents the request payload for setting targets.
type UpdateTargetAllocationRequest struct {
	Allocation map[string]float64 `json:"allocation" binding:"required,min=1"`
}

// ExecutePlanRequest represents the request payload for executing a plan.
type ExecutePlanRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// UpdateRebalancingSettingsRequest represents the request payload for preferences.
type UpdateRebalancingSettingsRequest struct {
	DriftThreshold       *float64                   `json:"drift_threshold" binding:"omitempty,gt=0,lte=100"`
	MinTransactionAmount *float64                   `json:"min_transaction_amount" binding:"omitempty,gte=0"`
	AutoRebalancing      *bool                      `json:"auto_rebalancing"`
	NotificationsEnabled *bool                      `json:"notifications_enabled"`
	Frequency            *models.RebalanceFrequency `json:"frequency" binding:"omitempty,rebalance_frequency"`
}

// parseThreshold reads the optional drift threshold query parameter.
func parseThreshold(c *gin.Context) (*float64, error) {
	v := c.Query("threshold")
	if v == "" {
		return nil, nil
	}
	t, err := strconv.ParseFloat(v, 64)
	if err != nil || t <= 0 || t > 100 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid threshold, must be between 0 and 100")
	}
	return &t, nil
}

// GetTargetAllocation handles retrieving the target allocation.
// @Summary     Get target allocation
// @Description Get the user's target allocation percentages by asset class
// @Tags        rebalancing
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]planner.AllocationVector "Target allocation"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /rebalancing/target [get]
func (h *RebalancingHandler) GetTargetAllocation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	allocation, err := h.rebalancingService.GetTargetAllocation(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"allocation": allocation})
}

// UpdateTargetAllocation handles replacing the target allocation.
// @Summary     Update target allocation
// @Description Replace the user's target allocation percentages
// @Tags        rebalancing
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateTargetAllocationRequest true "Target percentages by asset class"
// @Success     200 {object} map[string]planner.AllocationVector "Updated allocation"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /rebalancing/target [put]
func (h *RebalancingHandler) UpdateTargetAllocation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTargetAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	allocation, err := h.rebalancingService.UpdateTargetAllocation(userID, planner.AllocationVector(req.Allocation))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_TARGET_ALLOCATION", "target_allocation", userID, c.ClientIP(),
		map[string]interface{}{"allocation": req.Allocation})

	c.JSON(http.StatusOK, gin.H{"allocation": allocation})
}

// AnalyzeDrift handles computing the drift assessment.
// @Summary     Analyze portfolio drift
// @Description Compare current allocation against targets and flag drifted assets
// @Tags        rebalancing
// @Produce     json
// @Security    BearerAuth
// @Param       threshold query number false "Drift threshold override in percentage points"
// @Success     200 {object} planner.DriftAssessment "Drift assessment"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     400 {object} ErrorResponse "Empty portfolio"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /rebalancing/drift [get]
func (h *RebalancingHandler) AnalyzeDrift(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	threshold, err := parseThreshold(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assessment, err := h.rebalancingService.AnalyzeDrift(userID, threshold)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// GeneratePlan handles synthesizing a rebalancing plan.
// @Summary     Generate rebalancing plan
// @Description Build an ordered transaction plan from the current drift assessment
// @Tags        rebalancing
// @Produce     json
// @Security    BearerAuth
// @Param       threshold query number false "Drift threshold override in percentage points"
// @Success     200 {object} planner.Plan "Rebalancing plan"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     400 {object} ErrorResponse "Empty portfolio"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /rebalancing/plan [get]
func (h *RebalancingHandler) GeneratePlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	threshold, err := parseThreshold(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	plan, err := h.rebalancingService.GeneratePlan(userID, threshold)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// ExecutePlan handles simulating execution of the current plan.
// @Summary     Execute rebalancing plan
// @Description Simulate execution of the current rebalancing plan and record it
// @Tags        rebalancing
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       threshold query number             false "Drift threshold override in percentage points"
// @Param       request   body  ExecutePlanRequest false "Execution metadata"
// @Success     200 {object} services.ExecutionResult "Execution started"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     422 {object} ErrorResponse "Plan not actionable"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /rebalancing/execute [post]
func (h *RebalancingHandler) ExecutePlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	threshold, err := parseThreshold(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExecutePlanRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	result, err := h.rebalancingService.ExecutePlan(userID, threshold, req.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "EXECUTE_REBALANCING", "rebalancing_record", userID, c.ClientIP(),
		map[string]interface{}{"execution_id": result.ExecutionID, "total_cost": result.TotalCost})

	c.JSON(http.StatusOK, result)
}

// GetHistory handles listing past rebalancing executions.
// @Summary     Get rebalancing history
// @Description Get a paginated list of past rebalancing executions, newest first
// @Tags        rebalancing
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.RebalancingRecord] "Paginated history"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /rebalancing/history [get]
func (h *RebalancingHandler) GetHistory(c *gin.Context) {
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

	result, err := h.rebalancingService.GetHistory(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAlerts handles retrieving drift-derived alerts.
// @Summary     Get rebalancing alerts
// @Description Get drift-derived notifications for the dashboard
// @Tags        rebalancing
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]services.RebalancingAlert "Alerts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /rebalancing/alerts [get]
func (h *RebalancingHandler) GetAlerts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	alerts, err := h.rebalancingService.GetAlerts(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

// GetSettings handles retrieving rebalancing preferences.
// @Summary     Get rebalancing settings
// @Description Get the user's rebalancing preferences
// @Tags        rebalancing
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.RebalancingSettings "Settings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /rebalancing/settings [get]
func (h *RebalancingHandler) GetSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settings, err := h.rebalancingService.GetSettings(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings handles updating rebalancing preferences.
// @Summary     Update rebalancing settings
// @Description Update the user's rebalancing preferences
// @Tags        rebalancing
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateRebalancingSettingsRequest true "Fields to update"
// @Success     200 {object} models.RebalancingSettings "Settings updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /rebalancing/settings [put]
func (h *RebalancingHandler) UpdateSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRebalancingSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	settings, err := h.rebalancingService.UpdateSettings(
		userID, req.DriftThreshold, req.MinTransactionAmount,
		req.AutoRebalancing, req.NotificationsEnabled, req.Frequency,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_REBALANCING_SETTINGS", "rebalancing_settings", settings.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}
