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

// SIPHandler handles systematic investment plan requests.
type SIPHandler struct {
	sipService   services.SIPServicer
	auditService services.AuditServicer
}

// NewSIPHandler creates a new SIPHandler.
func NewSIPHandler(sipService services.SIPServicer, auditService services.AuditServicer) *SIPHandler {
	return &SIPHandler{sipService: sipService, auditService: auditService}
}

// CreateSIPRequest represents the request payload for creating a SIP.
type CreateSIPRequest struct {
	Name      string              `json:"name" binding:"required,min=1,max=100"`
	Amount    float64             `json:"amount" binding:"required,gt=0"`
	Frequency models.SIPFrequency `json:"frequency" binding:"required,sip_frequency"`
	StartDate time.Time           `json:"start_date" binding:"required"`
	GoalID    *uint               `json:"goal_id"`
}

// UpdateSIPRequest represents the request payload for updating a SIP.
type UpdateSIPRequest struct {
	Name      string               `json:"name" binding:"omitempty,min=1,max=100"`
	Amount    *float64             `json:"amount" binding:"omitempty,gt=0"`
	Frequency *models.SIPFrequency `json:"frequency" binding:"omitempty,sip_frequency"`
}

// ProcessDueRequest represents the request payload for the due-installment run.
type ProcessDueRequest struct {
	AsOf *time.Time `json:"as_of"`
}

// CreateSIP handles creating a new SIP.
// @Summary     Create a SIP
// @Description Create a new systematic investment plan, optionally linked to a goal
// @Tags        sips
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSIPRequest true "SIP details"
// @Success     201 {object} models.SIP "SIP created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sips [post]
func (h *SIPHandler) CreateSIP(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSIPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sip, err := h.sipService.CreateSIP(userID, req.GoalID, req.Name, req.Amount, req.Frequency, req.StartDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_SIP", "sip", sip.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "amount": req.Amount, "frequency": string(req.Frequency)})

	c.JSON(http.StatusCreated, gin.H{"sip": sip})
}

// GetSIPs handles listing SIPs for the authenticated user.
// @Summary     Get SIPs
// @Description Get a paginated list of SIPs for the authenticated user
// @Tags        sips
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       status    query string false "Filter by status (active/paused)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.SIP] "Paginated SIPs"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sips [get]
func (h *SIPHandler) GetSIPs(c *gin.Context) {
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

	var status *models.SIPStatus
	if v := c.Query("status"); v != "" {
		st := models.SIPStatus(v)
		switch st {
		case models.SIPStatusActive, models.SIPStatusPaused:
			status = &st
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid status, must be active or paused"))
			return
		}
	}

	result, err := h.sipService.GetUserSIPs(userID, page, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSIPByID handles retrieving a specific SIP.
// @Summary     Get SIP by ID
// @Description Get a specific SIP owned by the authenticated user
// @Tags        sips
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "SIP ID"
// @Success     200 {object} models.SIP "SIP details"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "SIP not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sips/{id} [get]
func (h *SIPHandler) GetSIPByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sipID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	sip, err := h.sipService.GetSIPByID(userID, sipID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sip": sip})
}

// UpdateSIP handles updating a SIP.
// @Summary     Update a SIP
// @Description Update a SIP's name, amount, or frequency
// @Tags        sips
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int              true "SIP ID"
// @Param       request body UpdateSIPRequest true "Fields to update"
// @Success     200 {object} models.SIP "SIP updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "SIP not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sips/{id} [put]
func (h *SIPHandler) UpdateSIP(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sipID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSIPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sip, err := h.sipService.UpdateSIP(userID, sipID, req.Name, req.Amount, req.Frequency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_SIP", "sip", sip.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"sip": sip})
}

// DeleteSIP handles deleting a SIP.
// @Summary     Delete a SIP
// @Description Delete a systematic investment plan
// @Tags        sips
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "SIP ID"
// @Success     200 {object} map[string]string "SIP deleted"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "SIP not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sips/{id} [delete]
func (h *SIPHandler) DeleteSIP(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sipID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.sipService.DeleteSIP(userID, sipID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_SIP", "sip", sipID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "SIP deleted successfully"})
}

// ToggleStatus handles pausing or resuming a SIP.
// @Summary     Toggle SIP status
// @Description Flip a SIP between active and paused
// @Tags        sips
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "SIP ID"
// @Success     200 {object} models.SIP "SIP updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "SIP not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sips/{id}/toggle [post]
func (h *SIPHandler) ToggleStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	sipID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	sip, err := h.sipService.ToggleStatus(userID, sipID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "TOGGLE_SIP", "sip", sip.ID, c.ClientIP(),
		map[string]interface{}{"status": string(sip.Status)})

	c.JSON(http.StatusOK, gin.H{"sip": sip})
}

// GetGoalSIPs handles listing the SIPs linked to a goal.
// @Summary     Get goal SIPs
// @Description Get all SIPs linked to a specific goal
// @Tags        sips
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Goal ID"
// @Success     200 {object} map[string][]models.SIP "Linked SIPs"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id}/sips [get]
func (h *SIPHandler) GetGoalSIPs(c *gin.Context) {
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

	sips, err := h.sipService.GetGoalSIPs(userID, goalID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sips": sips})
}

// GetCommitment handles computing the total monthly SIP commitment.
// @Summary     Get monthly commitment
// @Description Get the total monthly contribution across active SIPs
// @Tags        sips
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]float64 "Monthly commitment"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /sips/commitment [get]
func (h *SIPHandler) GetCommitment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	total, err := h.sipService.TotalMonthlyCommitment(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"monthly_commitment": total})
}

// ProcessDue handles the pipeline run that applies due installments.
// @Summary     Process due SIP installments
// @Description Apply all due installments across users (pipeline endpoint)
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Param       X-API-Key header string            true  "Pipeline API key"
// @Param       request   body   ProcessDueRequest false "Run parameters"
// @Success     200 {object} map[string]int "Installments processed count"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     503 {object} ErrorResponse "Pipeline not configured"
// @Router      /pipeline/sips/process [post]
func (h *SIPHandler) ProcessDue(c *gin.Context) {
	var req ProcessDueRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	asOf := time.Now()
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	count, err := h.sipService.ProcessDue(asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"installments_processed": count})
}
