package planner

import (
	"fmt"
	"math"
	"sort"

	apperrors "wealthpath/internal/errors"
)

// AssetDrift is the per-asset result of a drift analysis.
type AssetDrift struct {
	Asset             string    `json:"asset"`
	Current           float64   `json:"current"`
	Target            float64   `json:"target"`
	Drift             float64   `json:"drift"`
	Direction         Direction `json:"direction"`
	DriftPercentage   float64   `json:"drift_percentage"`
	Severity          Severity  `json:"severity"`
	NeedsAction       bool      `json:"needs_action"`
	RecommendedAction Action    `json:"recommended_action"`
	RecommendedAmount float64   `json:"recommended_amount"`
}

// DriftAssessment is the aggregate result of comparing a current allocation
// against its target. It is a pure snapshot: recomputing with the same
// inputs yields the same assessment.
type DriftAssessment struct {
	TotalValue       float64      `json:"total_value"`
	DriftThreshold   float64      `json:"drift_threshold"`
	OverallDrift     float64      `json:"overall_drift"`
	NeedsRebalancing bool         `json:"needs_rebalancing"`
	RiskLevel        Severity     `json:"risk_level"`
	Assets           []AssetDrift `json:"assets"`
}

// AnalyzeDrift compares current vs target allocation percentages over the
// union of their asset keys (missing key = 0) and classifies each asset's
// drift. Assets are emitted in sorted key order so identical inputs produce
// identical output.
func AnalyzeDrift(current, target AllocationVector, totalValue, threshold float64) (*DriftAssessment, error) {
	if totalValue < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("total portfolio value cannot be negative, got %.2f", totalValue))
	}
	if threshold <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("drift threshold must be positive, got %.2f", threshold))
	}
	if err := validateVector("current", current); err != nil {
		return nil, err
	}
	if err := validateVector("target", target); err != nil {
		return nil, err
	}

	assets := unionKeys(current, target)

	assessment := &DriftAssessment{
		TotalValue:     totalValue,
		DriftThreshold: threshold,
		RiskLevel:      SeverityLow,
		Assets:         make([]AssetDrift, 0, len(assets)),
	}

	totalDrift := 0.0
	for _, asset := range assets {
		cur := current[asset]
		tgt := target[asset]
		drift := math.Abs(cur - tgt)
		totalDrift += drift

		ad := AssetDrift{
			Asset:             asset,
			Current:           cur,
			Target:            tgt,
			Drift:             drift,
			Direction:         DirectionUnderweight,
			Severity:          classifySeverity(drift, threshold),
			NeedsAction:       drift > threshold,
			RecommendedAction: ActionNone,
		}
		if cur > tgt {
			ad.Direction = DirectionOverweight
		}
		if tgt > 0 {
			ad.DriftPercentage = drift / tgt * 100
		}

		if ad.NeedsAction {
			targetAmount := tgt / 100 * totalValue
			currentAmount := cur / 100 * totalValue
			difference := targetAmount - currentAmount

			ad.RecommendedAction = ActionSell
			if difference > 0 {
				ad.RecommendedAction = ActionBuy
			}
			ad.RecommendedAmount = math.Abs(difference)
			assessment.NeedsRebalancing = true
		}

		assessment.Assets = append(assessment.Assets, ad)
	}

	if len(assets) > 0 {
		assessment.OverallDrift = totalDrift / float64(len(assets))
	}
	assessment.RiskLevel = classifyOverallRisk(assessment.OverallDrift, threshold)

	return assessment, nil
}

func classifySeverity(drift, threshold float64) Severity {
	switch {
	case drift > threshold*2:
		return SeverityHigh
	case drift > threshold:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// classifyOverallRisk bands the mean drift. Unlike per-asset severity the
// high band is inclusive at twice the threshold, so a portfolio averaging
// exactly 2x is already rated high.
func classifyOverallRisk(overallDrift, threshold float64) Severity {
	switch {
	case overallDrift >= threshold*2:
		return SeverityHigh
	case overallDrift > threshold:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func validateVector(name string, v AllocationVector) error {
	for asset, pct := range v {
		if pct < 0 || pct > 100 {
			return apperrors.WithMessage(apperrors.ErrInvalidInput,
				fmt.Sprintf("%s allocation for %q must be in [0,100], got %.2f", name, asset, pct))
		}
	}
	return nil
}

func unionKeys(a, b AllocationVector) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		seen[k] = struct{}{}
	}
	for k := range b {
		seen[k] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
