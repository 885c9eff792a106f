package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "wealthpath/internal/errors"
	"wealthpath/internal/models"
	"wealthpath/internal/planner"
	"wealthpath/internal/services"
)

// --- mock risk service ---

type mockRiskService struct {
	getQuestionsFn        func() []planner.RiskQuestion
	getProfilesFn         func() []planner.RiskProfile
	submitAssessmentFn    func(userID uint, answers map[int]int, applyAllocation bool) (*services.RiskAssessmentOutcome, error)
	getLatestAssessmentFn func(userID uint) (*models.RiskAssessment, error)
}

func (m *mockRiskService) GetQuestions() []planner.RiskQuestion {
	if m.getQuestionsFn != nil {
		return m.getQuestionsFn()
	}
	return planner.RiskQuestions()
}

func (m *mockRiskService) GetProfiles() []planner.RiskProfile {
	if m.getProfilesFn != nil {
		return m.getProfilesFn()
	}
	return planner.RiskProfiles()
}

func (m *mockRiskService) SubmitAssessment(userID uint, answers map[int]int, applyAllocation bool) (*services.RiskAssessmentOutcome, error) {
	if m.submitAssessmentFn != nil {
		return m.submitAssessmentFn(userID, answers, applyAllocation)
	}
	return &services.RiskAssessmentOutcome{}, nil
}

func (m *mockRiskService) GetLatestAssessment(userID uint) (*models.RiskAssessment, error) {
	if m.getLatestAssessmentFn != nil {
		return m.getLatestAssessmentFn(userID)
	}
	return &models.RiskAssessment{}, nil
}

var _ services.RiskServicer = (*mockRiskService)(nil)

func setupRiskRouter(handler *RiskHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.GET("/risk/questions", handler.GetQuestions)
	auth.GET("/risk/profiles", handler.GetProfiles)
	auth.POST("/risk/assessments", handler.SubmitAssessment)
	auth.GET("/risk/assessments/latest", handler.GetLatestAssessment)
	return r
}

func TestRiskHandler_GetQuestions(t *testing.T) {
	t.Run("returns 200 with questionnaire", func(t *testing.T) {
		handler := NewRiskHandler(&mockRiskService{}, &mockAuditService{})
		r := setupRiskRouter(handler)

		rec := doRequest(r, "GET", "/risk/questions", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		questions := result["questions"].([]interface{})
		if len(questions) != 6 {
			t.Errorf("expected 6 questions, got %d", len(questions))
		}
	})
}

func TestRiskHandler_SubmitAssessment(t *testing.T) {
	t.Run("returns 201 with outcome", func(t *testing.T) {
		var gotApply bool
		svc := &mockRiskService{
			submitAssessmentFn: func(_ uint, answers map[int]int, applyAllocation bool) (*services.RiskAssessmentOutcome, error) {
				gotApply = applyAllocation
				return &services.RiskAssessmentOutcome{
					Assessment: models.RiskAssessment{
						Base:        models.Base{ID: 1},
						Profile:     "Moderate",
						Score:       15,
						MaxScore:    24,
						CompletedAt: time.Now(),
					},
					Result: planner.RiskResult{Score: 15, MaxPossibleScore: 24},
				}, nil
			},
		}
		handler := NewRiskHandler(svc, &mockAuditService{})
		r := setupRiskRouter(handler)

		rec := doRequest(r, "POST", "/risk/assessments",
			`{"answers":{"1":3,"2":3,"3":2,"4":3,"5":2,"6":2},"apply_allocation":true}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotApply {
			t.Error("expected apply_allocation passed to service")
		}
		result := parseJSON(t, rec)
		assessment := result["assessment"].(map[string]interface{})
		if assessment["profile"] != "Moderate" {
			t.Errorf("expected Moderate, got %v", assessment["profile"])
		}
	})

	t.Run("returns 400 on missing answers", func(t *testing.T) {
		handler := NewRiskHandler(&mockRiskService{}, &mockAuditService{})
		r := setupRiskRouter(handler)

		rec := doRequest(r, "POST", "/risk/assessments", `{"apply_allocation":true}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on incomplete answers", func(t *testing.T) {
		svc := &mockRiskService{
			submitAssessmentFn: func(_ uint, _ map[int]int, _ bool) (*services.RiskAssessmentOutcome, error) {
				return nil, apperrors.ErrIncompleteAnswers
			},
		}
		handler := NewRiskHandler(svc, &mockAuditService{})
		r := setupRiskRouter(handler)

		rec := doRequest(r, "POST", "/risk/assessments", `{"answers":{"1":3}}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INCOMPLETE_ANSWERS")
	})
}

func TestRiskHandler_GetLatestAssessment(t *testing.T) {
	t.Run("returns 200 with assessment", func(t *testing.T) {
		svc := &mockRiskService{
			getLatestAssessmentFn: func(_ uint) (*models.RiskAssessment, error) {
				return &models.RiskAssessment{Base: models.Base{ID: 3}, Profile: "Aggressive", Score: 21}, nil
			},
		}
		handler := NewRiskHandler(svc, &mockAuditService{})
		r := setupRiskRouter(handler)

		rec := doRequest(r, "GET", "/risk/assessments/latest", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		assessment := result["assessment"].(map[string]interface{})
		if assessment["profile"] != "Aggressive" {
			t.Errorf("expected Aggressive, got %v", assessment["profile"])
		}
	})

	t.Run("returns 404 when none on record", func(t *testing.T) {
		svc := &mockRiskService{
			getLatestAssessmentFn: func(_ uint) (*models.RiskAssessment, error) {
				return nil, apperrors.ErrAssessmentNotFound
			},
		}
		handler := NewRiskHandler(svc, &mockAuditService{})
		r := setupRiskRouter(handler)

		rec := doRequest(r, "GET", "/risk/assessments/latest", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "ASSESSMENT_NOT_FOUND")
	})
}
