package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "wealthpath/internal/errors"
	"wealthpath/internal/services"
)

// RiskHandler handles risk questionnaire requests.
type RiskHandler struct {
	riskService  services.RiskServicer
	auditService services.AuditServicer
}

// NewRiskHandler creates a new RiskHandler.
func NewRiskHandler(riskService services.RiskServicer, auditService services.AuditServicer) *RiskHandler {
	return &RiskHandler{riskService: riskService, auditService: auditService}
}

// SubmitAssessmentRequest represents the questionnaire submission payload.
// Answers maps question IDs to the chosen answer ID.
type SubmitAssessmentRequest struct {
	Answers         map[int]int `json:"answers" binding:"required,min=1"`
	ApplyAllocation bool        `json:"apply_allocation"`
}

// GetQuestions handles retrieving the questionnaire.
// @Summary     Get risk questions
// @Description Get the risk tolerance questionnaire
// @Tags        risk
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]planner.RiskQuestion "Questions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /risk/questions [get]
func (h *RiskHandler) GetQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"questions": h.riskService.GetQuestions()})
}

// GetProfiles handles retrieving the available risk profiles.
// @Summary     Get risk profiles
// @Description Get the risk profiles and their model allocations
// @Tags        risk
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string][]planner.RiskProfile "Profiles"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /risk/profiles [get]
func (h *RiskHandler) GetProfiles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"profiles": h.riskService.GetProfiles()})
}

// SubmitAssessment handles scoring and storing a questionnaire submission.
// @Summary     Submit risk assessment
// @Description Score the questionnaire, store the result, and optionally apply the profile's allocation as the rebalancing target
// @Tags        risk
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SubmitAssessmentRequest true "Answers keyed by question ID"
// @Success     201 {object} services.RiskAssessmentOutcome "Assessment stored"
// @Failure     400 {object} ErrorResponse "Invalid or incomplete answers"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /risk/assessments [post]
func (h *RiskHandler) SubmitAssessment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SubmitAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	outcome, err := h.riskService.SubmitAssessment(userID, req.Answers, req.ApplyAllocation)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SUBMIT_RISK_ASSESSMENT", "risk_assessment", outcome.Assessment.ID, c.ClientIP(),
		map[string]interface{}{"profile": outcome.Result.Profile, "score": outcome.Result.Score})

	c.JSON(http.StatusCreated, outcome)
}

// GetLatestAssessment handles retrieving the most recent assessment.
// @Summary     Get latest risk assessment
// @Description Get the user's most recent risk assessment
// @Tags        risk
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.RiskAssessment "Latest assessment"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No assessment on record"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /risk/assessments/latest [get]
func (h *RiskHandler) GetLatestAssessment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	assessment, err := h.riskService.GetLatestAssessment(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assessment": assessment})
}
