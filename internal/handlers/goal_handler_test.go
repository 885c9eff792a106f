package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "wealthpath/internal/errors"
	"wealthpath/internal/models"
	"wealthpath/internal/pagination"
	"wealthpath/internal/services"
)

// --- mock goal service ---

type mockGoalService struct {
	createGoalFn       func(userID uint, name string, category models.GoalCategory, targetAmount, currentAmount float64, targetDate time.Time) (*models.Goal, error)
	getUserGoalsFn     func(userID uint, page pagination.PageRequest, category *models.GoalCategory) (*pagination.PageResponse[models.Goal], error)
	getGoalByIDFn      func(userID, goalID uint) (*models.Goal, error)
	updateGoalFn       func(userID, goalID uint, name string, targetAmount, currentAmount *float64, targetDate *time.Time) (*models.Goal, error)
	deleteGoalFn       func(userID, goalID uint) error
	updateProgressFn   func(userID, goalID uint, currentAmount float64) (*models.Goal, error)
	getGoalPlanFn      func(userID, goalID uint, monthlyContribution float64, now time.Time) (*services.GoalPlan, error)
	getGoalSummariesFn func(userID uint) ([]services.GoalSummary, error)
}

func (m *mockGoalService) CreateGoal(userID uint, name string, category models.GoalCategory, targetAmount, currentAmount float64, targetDate time.Time) (*models.Goal, error) {
	if m.createGoalFn != nil {
		return m.createGoalFn(userID, name, category, targetAmount, currentAmount, targetDate)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) GetUserGoals(userID uint, page pagination.PageRequest, category *models.GoalCategory) (*pagination.PageResponse[models.Goal], error) {
	if m.getUserGoalsFn != nil {
		return m.getUserGoalsFn(userID, page, category)
	}
	resp := pagination.NewPageResponse([]models.Goal{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockGoalService) GetGoalByID(userID, goalID uint) (*models.Goal, error) {
	if m.getGoalByIDFn != nil {
		return m.getGoalByIDFn(userID, goalID)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) UpdateGoal(userID, goalID uint, name string, targetAmount, currentAmount *float64, targetDate *time.Time) (*models.Goal, error) {
	if m.updateGoalFn != nil {
		return m.updateGoalFn(userID, goalID, name, targetAmount, currentAmount, targetDate)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) DeleteGoal(userID, goalID uint) error {
	if m.deleteGoalFn != nil {
		return m.deleteGoalFn(userID, goalID)
	}
	return nil
}

func (m *mockGoalService) UpdateProgress(userID, goalID uint, currentAmount float64) (*models.Goal, error) {
	if m.updateProgressFn != nil {
		return m.updateProgressFn(userID, goalID, currentAmount)
	}
	return &models.Goal{}, nil
}

func (m *mockGoalService) GetGoalPlan(userID, goalID uint, monthlyContribution float64, now time.Time) (*services.GoalPlan, error) {
	if m.getGoalPlanFn != nil {
		return m.getGoalPlanFn(userID, goalID, monthlyContribution, now)
	}
	return &services.GoalPlan{}, nil
}

func (m *mockGoalService) GetGoalSummaries(userID uint) ([]services.GoalSummary, error) {
	if m.getGoalSummariesFn != nil {
		return m.getGoalSummariesFn(userID)
	}
	return []services.GoalSummary{}, nil
}

var _ services.GoalServicer = (*mockGoalService)(nil)

func setupGoalRouter(handler *GoalHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/goals", handler.CreateGoal)
	auth.GET("/goals", handler.GetGoals)
	auth.GET("/goals/summaries", handler.GetGoalSummaries)
	auth.GET("/goals/:id", handler.GetGoalByID)
	auth.GET("/goals/:id/plan", handler.GetGoalPlan)
	auth.PUT("/goals/:id", handler.UpdateGoal)
	auth.PUT("/goals/:id/progress", handler.UpdateProgress)
	auth.DELETE("/goals/:id", handler.DeleteGoal)
	return r
}

func TestGoalHandler_CreateGoal(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockGoalService{
			createGoalFn: func(_ uint, name string, category models.GoalCategory, targetAmount, currentAmount float64, targetDate time.Time) (*models.Goal, error) {
				return &models.Goal{
					Base:          models.Base{ID: 1},
					UserID:        1,
					Name:          name,
					Category:      category,
					TargetAmount:  targetAmount,
					CurrentAmount: currentAmount,
					TargetDate:    targetDate,
				}, nil
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals",
			`{"name":"House Down Payment","category":"home_purchase","target_amount":60000,"current_amount":12000,"target_date":"2028-06-01T00:00:00Z"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		goal := result["goal"].(map[string]interface{})
		if goal["name"] != "House Down Payment" {
			t.Errorf("expected House Down Payment, got %v", goal["name"])
		}
		if goal["target_amount"].(float64) != 60000 {
			t.Errorf("expected target_amount 60000, got %v", goal["target_amount"])
		}
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{}, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals",
			`{"category":"home_purchase","target_amount":60000,"target_date":"2028-06-01T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on unknown category", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{}, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals",
			`{"name":"Test","category":"yacht","target_amount":60000,"target_date":"2028-06-01T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on zero target amount", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{}, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "POST", "/goals",
			`{"name":"Test","category":"home_purchase","target_amount":0,"target_date":"2028-06-01T00:00:00Z"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestGoalHandler_GetGoals(t *testing.T) {
	t.Run("returns 200 with paginated goals", func(t *testing.T) {
		svc := &mockGoalService{
			getUserGoalsFn: func(_ uint, page pagination.PageRequest, _ *models.GoalCategory) (*pagination.PageResponse[models.Goal], error) {
				resp := pagination.NewPageResponse([]models.Goal{
					{Base: models.Base{ID: 1}, Name: "Emergency Fund"},
				}, page.Page, page.PageSize, 1)
				return &resp, nil
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "GET", "/goals?page=1&page_size=10", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 1 {
			t.Errorf("expected 1 goal, got %d", len(data))
		}
		if result["total_items"].(float64) != 1 {
			t.Errorf("expected total_items 1, got %v", result["total_items"])
		}
	})

	t.Run("passes category filter to service", func(t *testing.T) {
		var gotCategory *models.GoalCategory
		svc := &mockGoalService{
			getUserGoalsFn: func(_ uint, page pagination.PageRequest, category *models.GoalCategory) (*pagination.PageResponse[models.Goal], error) {
				gotCategory = category
				resp := pagination.NewPageResponse([]models.Goal{}, page.Page, page.PageSize, 0)
				return &resp, nil
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "GET", "/goals?category=retirement", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotCategory == nil || *gotCategory != models.GoalCategoryRetirement {
			t.Errorf("expected retirement category filter, got %v", gotCategory)
		}
	})

	t.Run("returns 400 on invalid category", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{}, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "GET", "/goals?category=nonsense", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestGoalHandler_GetGoalPlan(t *testing.T) {
	t.Run("returns 200 with plan", func(t *testing.T) {
		var gotContribution float64
		svc := &mockGoalService{
			getGoalPlanFn: func(_, goalID uint, monthlyContribution float64, _ time.Time) (*services.GoalPlan, error) {
				gotContribution = monthlyContribution
				return &services.GoalPlan{
					Goal:            models.Goal{Base: models.Base{ID: goalID}, Name: "Retirement"},
					Progress:        25,
					RemainingAmount: 75000,
					RequiredMonthly: 1250,
				}, nil
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "GET", "/goals/7/plan?monthly_contribution=500", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotContribution != 500 {
			t.Errorf("expected monthly contribution 500, got %v", gotContribution)
		}
		result := parseJSON(t, rec)
		if result["required_monthly_contribution"].(float64) != 1250 {
			t.Errorf("expected required monthly 1250, got %v", result["required_monthly_contribution"])
		}
	})

	t.Run("returns 400 on negative contribution", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{}, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "GET", "/goals/7/plan?monthly_contribution=-10", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 when goal missing", func(t *testing.T) {
		svc := &mockGoalService{
			getGoalPlanFn: func(_, _ uint, _ float64, _ time.Time) (*services.GoalPlan, error) {
				return nil, apperrors.ErrGoalNotFound
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "GET", "/goals/99/plan", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "GOAL_NOT_FOUND")
	})
}

func TestGoalHandler_UpdateProgress(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		svc := &mockGoalService{
			updateProgressFn: func(_, goalID uint, currentAmount float64) (*models.Goal, error) {
				return &models.Goal{Base: models.Base{ID: goalID}, CurrentAmount: currentAmount}, nil
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "PUT", "/goals/3/progress", `{"current_amount":2500}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		goal := result["goal"].(map[string]interface{})
		if goal["current_amount"].(float64) != 2500 {
			t.Errorf("expected current_amount 2500, got %v", goal["current_amount"])
		}
	})

	t.Run("returns 400 when amount missing", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{}, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "PUT", "/goals/3/progress", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("accepts explicit zero", func(t *testing.T) {
		var gotAmount float64 = -1
		svc := &mockGoalService{
			updateProgressFn: func(_, goalID uint, currentAmount float64) (*models.Goal, error) {
				gotAmount = currentAmount
				return &models.Goal{Base: models.Base{ID: goalID}}, nil
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "PUT", "/goals/3/progress", `{"current_amount":0}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotAmount != 0 {
			t.Errorf("expected amount 0 passed through, got %v", gotAmount)
		}
	})
}

func TestGoalHandler_DeleteGoal(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		var deletedID uint
		svc := &mockGoalService{
			deleteGoalFn: func(_, goalID uint) error {
				deletedID = goalID
				return nil
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "DELETE", "/goals/5", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if deletedID != 5 {
			t.Errorf("expected goal 5 deleted, got %d", deletedID)
		}
	})

	t.Run("returns 404 when goal missing", func(t *testing.T) {
		svc := &mockGoalService{
			deleteGoalFn: func(_, _ uint) error {
				return apperrors.ErrGoalNotFound
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "DELETE", "/goals/99", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on non-numeric id", func(t *testing.T) {
		handler := NewGoalHandler(&mockGoalService{}, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "DELETE", "/goals/abc", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestGoalHandler_GetGoalSummaries(t *testing.T) {
	t.Run("returns 200 with summaries", func(t *testing.T) {
		svc := &mockGoalService{
			getGoalSummariesFn: func(_ uint) ([]services.GoalSummary, error) {
				return []services.GoalSummary{
					{ID: 1, Name: "Emergency Fund", TargetAmount: 10000, CurrentAmount: 4000},
					{ID: 2, Name: "Retirement", TargetAmount: 500000, CurrentAmount: 125000},
				}, nil
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "GET", "/goals/summaries", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		goals := result["goals"].([]interface{})
		if len(goals) != 2 {
			t.Errorf("expected 2 summaries, got %d", len(goals))
		}
	})

	t.Run("returns 500 on service failure", func(t *testing.T) {
		svc := &mockGoalService{
			getGoalSummariesFn: func(_ uint) ([]services.GoalSummary, error) {
				return nil, fmt.Errorf("db gone")
			},
		}
		handler := NewGoalHandler(svc, &mockAuditService{})
		r := setupGoalRouter(handler)

		rec := doRequest(r, "GET", "/goals/summaries", "")

		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
	})
}
