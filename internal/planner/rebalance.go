package planner

import (
	"fmt"
	"math"
	"sort"

	apperrors "wealthpath/internal/errors"
)

// PlanTimeframe is the declared settlement window for a rebalancing plan.
// It is policy, not derived from data.
const PlanTimeframe = "2-3 business days"

// planExecutionSteps is the fixed checklist attached to every actionable plan.
var planExecutionSteps = []string{
	"Review and approve rebalancing plan",
	"Execute sell orders for overweight assets",
	"Wait for settlement (T+2)",
	"Execute buy orders for underweight assets",
	"Monitor and confirm new allocation",
}

// Transaction is one trade in a rebalancing plan.
type Transaction struct {
	Asset        string   `json:"asset"`
	Action       Action   `json:"action"`
	Amount       float64  `json:"amount"`
	EstimatedFee float64  `json:"estimated_fee"`
	Priority     Severity `json:"priority"`
	Description  string   `json:"description"`
}

// PlanCosts aggregates the estimated costs of executing a plan.
type PlanCosts struct {
	TransactionFees float64 `json:"transaction_fees"`
	TaxImplications float64 `json:"tax_implications"`
	Total           float64 `json:"total"`
}

// Plan is a synthesized rebalancing plan. When the source assessment needs
// no rebalancing the plan carries a message and no transactions.
type Plan struct {
	NeedsRebalancing bool             `json:"needs_rebalancing"`
	Message          string           `json:"message,omitempty"`
	Analysis         *DriftAssessment `json:"analysis"`
	Transactions     []Transaction    `json:"transactions"`
	EstimatedCosts   PlanCosts        `json:"estimated_costs"`
	ExecutionSteps   []string         `json:"execution_steps"`
	Timeframe        string           `json:"timeframe"`
}

// BuildPlan synthesizes a rebalancing plan from a drift assessment: one
// transaction per asset needing action, fee estimated at feeRate of the
// trade amount, priority copied from the asset's drift severity.
// Transactions are ordered by priority descending, then asset key, so the
// same assessment always yields the same plan.
func BuildPlan(assessment *DriftAssessment, feeRate float64) (*Plan, error) {
	if assessment == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "drift assessment is required")
	}
	if feeRate < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("fee rate cannot be negative, got %.4f", feeRate))
	}

	if !assessment.NeedsRebalancing {
		return &Plan{
			NeedsRebalancing: false,
			Message:          "Portfolio is well-balanced within target ranges",
			Analysis:         assessment,
			Transactions:     []Transaction{},
			ExecutionSteps:   []string{},
		}, nil
	}

	plan := &Plan{
		NeedsRebalancing: true,
		Analysis:         assessment,
		Transactions:     []Transaction{},
		ExecutionSteps:   append([]string(nil), planExecutionSteps...),
		Timeframe:        PlanTimeframe,
	}

	for _, asset := range assessment.Assets {
		if !asset.NeedsAction {
			continue
		}
		plan.Transactions = append(plan.Transactions, Transaction{
			Asset:        asset.Asset,
			Action:       asset.RecommendedAction,
			Amount:       asset.RecommendedAmount,
			EstimatedFee: math.Round(asset.RecommendedAmount * feeRate),
			Priority:     asset.Severity,
			Description:  describeTransaction(asset),
		})
	}

	sort.SliceStable(plan.Transactions, func(i, j int) bool {
		a, b := plan.Transactions[i], plan.Transactions[j]
		if a.Priority != b.Priority {
			return severityRank(a.Priority) > severityRank(b.Priority)
		}
		return a.Asset < b.Asset
	})

	for _, tx := range plan.Transactions {
		plan.EstimatedCosts.TransactionFees += tx.EstimatedFee
	}
	plan.EstimatedCosts.Total = plan.EstimatedCosts.TransactionFees + plan.EstimatedCosts.TaxImplications

	return plan, nil
}

func describeTransaction(asset AssetDrift) string {
	verb := "Decrease"
	if asset.RecommendedAction == ActionBuy {
		verb = "Increase"
	}
	return fmt.Sprintf("%s %s allocation by %.1f%% to reach target", verb, asset.Asset, asset.Drift)
}

func severityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}
