package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "wealthpath/internal/errors"
	"wealthpath/internal/models"
	"wealthpath/internal/pagination"
	"wealthpath/internal/planner"
	"wealthpath/internal/services"
)

// --- mock portfolio service ---

type mockPortfolioService struct {
	addHoldingFn      func(userID uint, symbol, name string, assetClass models.AssetClass, quantity, avgCost, currentPrice float64, purchaseDate *time.Time) (*models.Holding, error)
	getUserHoldingsFn func(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Holding], error)
	getHoldingByIDFn  func(userID, holdingID uint) (*models.Holding, error)
	updateHoldingFn   func(userID, holdingID uint, quantity, avgCost, currentPrice *float64) (*models.Holding, error)
	deleteHoldingFn   func(userID, holdingID uint) error
	getSummaryFn      func(userID uint) (*services.PortfolioSummary, error)
	getAllocationFn   func(userID uint) (planner.AllocationVector, float64, error)
}

func (m *mockPortfolioService) AddHolding(userID uint, symbol, name string, assetClass models.AssetClass, quantity, avgCost, currentPrice float64, purchaseDate *time.Time) (*models.Holding, error) {
	if m.addHoldingFn != nil {
		return m.addHoldingFn(userID, symbol, name, assetClass, quantity, avgCost, currentPrice, purchaseDate)
	}
	return &models.Holding{}, nil
}

func (m *mockPortfolioService) GetUserHoldings(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Holding], error) {
	if m.getUserHoldingsFn != nil {
		return m.getUserHoldingsFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.Holding{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockPortfolioService) GetHoldingByID(userID, holdingID uint) (*models.Holding, error) {
	if m.getHoldingByIDFn != nil {
		return m.getHoldingByIDFn(userID, holdingID)
	}
	return &models.Holding{}, nil
}

func (m *mockPortfolioService) UpdateHolding(userID, holdingID uint, quantity, avgCost, currentPrice *float64) (*models.Holding, error) {
	if m.updateHoldingFn != nil {
		return m.updateHoldingFn(userID, holdingID, quantity, avgCost, currentPrice)
	}
	return &models.Holding{}, nil
}

func (m *mockPortfolioService) DeleteHolding(userID, holdingID uint) error {
	if m.deleteHoldingFn != nil {
		return m.deleteHoldingFn(userID, holdingID)
	}
	return nil
}

func (m *mockPortfolioService) GetSummary(userID uint) (*services.PortfolioSummary, error) {
	if m.getSummaryFn != nil {
		return m.getSummaryFn(userID)
	}
	return &services.PortfolioSummary{}, nil
}

func (m *mockPortfolioService) GetAllocation(userID uint) (planner.AllocationVector, float64, error) {
	if m.getAllocationFn != nil {
		return m.getAllocationFn(userID)
	}
	return planner.AllocationVector{}, 0, nil
}

var _ services.PortfolioServicer = (*mockPortfolioService)(nil)

func setupPortfolioRouter(handler *PortfolioHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/portfolio/holdings", handler.AddHolding)
	auth.GET("/portfolio/holdings", handler.GetHoldings)
	auth.GET("/portfolio/holdings/:id", handler.GetHoldingByID)
	auth.PUT("/portfolio/holdings/:id", handler.UpdateHolding)
	auth.DELETE("/portfolio/holdings/:id", handler.DeleteHolding)
	auth.GET("/portfolio/summary", handler.GetSummary)
	auth.GET("/portfolio/allocation", handler.GetAllocation)
	return r
}

func TestPortfolioHandler_AddHolding(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockPortfolioService{
			addHoldingFn: func(_ uint, symbol, name string, assetClass models.AssetClass, quantity, avgCost, currentPrice float64, _ *time.Time) (*models.Holding, error) {
				return &models.Holding{
					Base:         models.Base{ID: 1},
					UserID:       1,
					Symbol:       symbol,
					Name:         name,
					AssetClass:   assetClass,
					Quantity:     quantity,
					AvgCost:      avgCost,
					CurrentPrice: currentPrice,
				}, nil
			},
		}
		handler := NewPortfolioHandler(svc, &mockAuditService{})
		r := setupPortfolioRouter(handler)

		rec := doRequest(r, "POST", "/portfolio/holdings",
			`{"symbol":"VTI","name":"Total Market ETF","asset_class":"stocks","quantity":10,"avg_cost":200,"current_price":220}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		holding := result["holding"].(map[string]interface{})
		if holding["symbol"] != "VTI" {
			t.Errorf("expected VTI, got %v", holding["symbol"])
		}
	})

	t.Run("returns 400 on unknown asset class", func(t *testing.T) {
		handler := NewPortfolioHandler(&mockPortfolioService{}, &mockAuditService{})
		r := setupPortfolioRouter(handler)

		rec := doRequest(r, "POST", "/portfolio/holdings",
			`{"symbol":"XYZ","name":"Thing","asset_class":"crypto","quantity":1,"avg_cost":100,"current_price":100}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on non-positive quantity", func(t *testing.T) {
		handler := NewPortfolioHandler(&mockPortfolioService{}, &mockAuditService{})
		r := setupPortfolioRouter(handler)

		rec := doRequest(r, "POST", "/portfolio/holdings",
			`{"symbol":"VTI","name":"ETF","asset_class":"stocks","quantity":0,"avg_cost":100,"current_price":100}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestPortfolioHandler_GetSummary(t *testing.T) {
	t.Run("returns 200 with summary figures", func(t *testing.T) {
		svc := &mockPortfolioService{
			getSummaryFn: func(_ uint) (*services.PortfolioSummary, error) {
				return &services.PortfolioSummary{
					TotalValue:     1650,
					CostBasis:      1500,
					UnrealizedGain: 150,
					GainPercent:    10,
					HoldingCount:   2,
				}, nil
			},
		}
		handler := NewPortfolioHandler(svc, &mockAuditService{})
		r := setupPortfolioRouter(handler)

		rec := doRequest(r, "GET", "/portfolio/summary", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["total_value"].(float64) != 1650 {
			t.Errorf("expected total_value 1650, got %v", result["total_value"])
		}
		if result["gain_percent"].(float64) != 10 {
			t.Errorf("expected gain_percent 10, got %v", result["gain_percent"])
		}
	})
}

func TestPortfolioHandler_GetAllocation(t *testing.T) {
	t.Run("returns 200 with allocation and total", func(t *testing.T) {
		svc := &mockPortfolioService{
			getAllocationFn: func(_ uint) (planner.AllocationVector, float64, error) {
				return planner.AllocationVector{"stocks": 80, "bonds": 20}, 10000, nil
			},
		}
		handler := NewPortfolioHandler(svc, &mockAuditService{})
		r := setupPortfolioRouter(handler)

		rec := doRequest(r, "GET", "/portfolio/allocation", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		allocation := result["allocation"].(map[string]interface{})
		if allocation["stocks"].(float64) != 80 {
			t.Errorf("expected stocks 80, got %v", allocation["stocks"])
		}
		if result["total_value"].(float64) != 10000 {
			t.Errorf("expected total_value 10000, got %v", result["total_value"])
		}
	})
}

func TestPortfolioHandler_UpdateHolding(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		svc := &mockPortfolioService{
			updateHoldingFn: func(_, holdingID uint, _, _, currentPrice *float64) (*models.Holding, error) {
				return &models.Holding{Base: models.Base{ID: holdingID}, CurrentPrice: *currentPrice}, nil
			},
		}
		handler := NewPortfolioHandler(svc, &mockAuditService{})
		r := setupPortfolioRouter(handler)

		rec := doRequest(r, "PUT", "/portfolio/holdings/2", `{"current_price":240}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		holding := result["holding"].(map[string]interface{})
		if holding["current_price"].(float64) != 240 {
			t.Errorf("expected current_price 240, got %v", holding["current_price"])
		}
	})

	t.Run("returns 404 when holding missing", func(t *testing.T) {
		svc := &mockPortfolioService{
			updateHoldingFn: func(_, _ uint, _, _, _ *float64) (*models.Holding, error) {
				return nil, apperrors.ErrHoldingNotFound
			},
		}
		handler := NewPortfolioHandler(svc, &mockAuditService{})
		r := setupPortfolioRouter(handler)

		rec := doRequest(r, "PUT", "/portfolio/holdings/99", `{"current_price":240}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "HOLDING_NOT_FOUND")
	})
}

func TestPortfolioHandler_DeleteHolding(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		var deletedID uint
		svc := &mockPortfolioService{
			deleteHoldingFn: func(_, holdingID uint) error {
				deletedID = holdingID
				return nil
			},
		}
		handler := NewPortfolioHandler(svc, &mockAuditService{})
		r := setupPortfolioRouter(handler)

		rec := doRequest(r, "DELETE", "/portfolio/holdings/5", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if deletedID != 5 {
			t.Errorf("expected holding 5 deleted, got %d", deletedID)
		}
	})
}
