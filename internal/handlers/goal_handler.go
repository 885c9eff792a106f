package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "wealthpath/internal/errors"
	"wealthpath/internal/models"
	"wealthpath/internal/pagination"
	"wealthpath/internal/services"
)

// GoalHandler handles goal-related requests.
type GoalHandler struct {
	goalService  services.GoalServicer
	auditService services.AuditServicer
}

// NewGoalHandler creates a new GoalHandler.
func NewGoalHandler(goalService services.GoalServicer, auditService services.AuditServicer) *GoalHandler {
	return &GoalHandler{goalService: goalService, auditService: auditService}
}

// CreateGoalRequest represents the request payload for creating a goal.
type CreateGoalRequest struct {
	Name          string              `json:"name" binding:"required,min=1,max=100"`
	Category      models.GoalCategory `json:"category" binding:"required,goal_category"`
	TargetAmount  float64             `json:"target_amount" binding:"required,gt=0"`
	CurrentAmount float64             `json:"current_amount" binding:"gte=0"`
	TargetDate    time.Time           `json:"target_date" binding:"required"`
}

// UpdateGoalRequest represents the request payload for updating a goal.
type UpdateGoalRequest struct {
	Name          string     `json:"name" binding:"omitempty,min=1,max=100"`
	TargetAmount  *float64   `json:"target_amount" binding:"omitempty,gt=0"`
	CurrentAmount *float64   `json:"current_amount" binding:"omitempty,gte=0"`
	TargetDate    *time.Time `json:"target_date"`
}

// UpdateProgressRequest represents the request payload for recording goal progress.
type UpdateProgressRequest struct {
	CurrentAmount *float64 `json:"current_amount" binding:"required,gte=0"`
}

// CreateGoal handles the creation of a new investment goal.
// @Summary     Create a goal
// @Description Create a new investment goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} models.Goal "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, err := h.goalService.CreateGoal(
		userID, req.Name, req.Category, req.TargetAmount, req.CurrentAmount, req.TargetDate,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_GOAL", "goal", goal.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "category": string(req.Category), "target_amount": req.TargetAmount})

	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

// GetGoals handles listing goals for the authenticated user.
// @Summary     Get goals
// @Description Get a paginated list of goals for the authenticated user
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       category  query string false "Filter by category"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Goal] "Paginated goals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals [get]
func (h *GoalHandler) GetGoals(c *gin.Context) {
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

	var category *models.GoalCategory
	if v := c.Query("category"); v != "" {
		cat := models.GoalCategory(v)
		switch cat {
		case models.GoalCategoryRetirement, models.GoalCategoryEmergencyFund,
			models.GoalCategoryHomePurchase, models.GoalCategoryEducation,
			models.GoalCategoryTravel, models.GoalCategoryInvestment:
			category = &cat
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid category"))
			return
		}
	}

	result, err := h.goalService.GetUserGoals(userID, page, category)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetGoalSummaries handles listing trimmed goal records for linking.
// @Summary     Get goal summaries
// @Description Get a compact list of the user's goals for selection lists
// @Tags        goals
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]services.GoalSummary "Goal summaries"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/summaries [get]
func (h *GoalHandler) GetGoalSummaries(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summaries, err := h.goalService.GetGoalSummaries(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goals": summaries})
}

// GetGoalByID handles retrieving a specific goal.
// @Summary     Get goal by ID
// @Description Get a specific goal owned by the authenticated user
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Goal ID"
// @Success     200 {object} models.Goal "Goal details"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id} [get]
func (h *GoalHandler) GetGoalByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.GetGoalByID(userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// GetGoalPlan handles computing the projection plan for a goal.
// @Summary     Get goal plan
// @Description Get projection, milestones, and contribution figures for a goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id                   path  int    true  "Goal ID"
// @Param       monthly_contribution query number false "Hypothetical monthly contribution (default 0)"
// @Success     200 {object} services.GoalPlan "Goal plan"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id}/plan [get]
func (h *GoalHandler) GetGoalPlan(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var monthly float64
	if v := c.Query("monthly_contribution"); v != "" {
		monthly, err = strconv.ParseFloat(v, 64)
		if err != nil || monthly < 0 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid monthly_contribution"))
			return
		}
	}

	plan, err := h.goalService.GetGoalPlan(userID, goalID, monthly, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// UpdateGoal handles updating a goal.
// @Summary     Update a goal
// @Description Update an existing goal's name, amounts, or target date
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true "Goal ID"
// @Param       request body UpdateGoalRequest true "Fields to update"
// @Success     200 {object} models.Goal "Goal updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id} [put]
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, err := h.goalService.UpdateGoal(userID, goalID, req.Name, req.TargetAmount, req.CurrentAmount, req.TargetDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_GOAL", "goal", goal.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// UpdateProgress handles recording progress against a goal.
// @Summary     Update goal progress
// @Description Record the current saved amount for a goal
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                   true "Goal ID"
// @Param       request body UpdateProgressRequest true "Current amount"
// @Success     200 {object} models.Goal "Goal updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id}/progress [put]
func (h *GoalHandler) UpdateProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, err := h.goalService.UpdateProgress(userID, goalID, *req.CurrentAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_GOAL_PROGRESS", "goal", goal.ID, c.ClientIP(),
		map[string]interface{}{"current_amount": *req.CurrentAmount})

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// DeleteGoal handles deleting a goal.
// @Summary     Delete a goal
// @Description Delete a goal and detach any linked investment plans
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Goal ID"
// @Success     200 {object} map[string]string "Goal deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goalID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteGoal(userID, goalID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_GOAL", "goal", goalID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted successfully"})
}
