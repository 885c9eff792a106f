// Package planner contains the computational core of WealthPath: goal
// projection, portfolio drift analysis, rebalancing plan synthesis, and
// risk profile scoring. Every function here is pure: no storage, no I/O,
// identical inputs always produce identical outputs. Services own
// persistence and feed plain values in.
package planner

// AllocationVector maps an asset-class key (stocks, bonds, cash,
// alternatives, extensible) to a percentage in [0,100]. Values are not
// required to sum to exactly 100; rounding drift is tolerated.
type AllocationVector map[string]float64

// Severity classifies how far a value is outside its threshold. It doubles
// as the priority of a rebalancing transaction and the aggregate risk level
// of an assessment.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Action is a recommended trade direction for an asset class.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionNone Action = "none"
)

// Direction indicates which side of its target an allocation sits on.
type Direction string

const (
	DirectionOverweight  Direction = "overweight"
	DirectionUnderweight Direction = "underweight"
)

// Policy constants. These are defaults; callers may override the threshold
// and fee rate per call so tests can exercise boundaries directly.
const (
	// DaysPerMonth is the average-month-length convention used to convert
	// calendar distances into month counts.
	DaysPerMonth = 30.44

	// DefaultDriftThreshold is the allocation drift (in percentage points)
	// above which an asset class needs action.
	DefaultDriftThreshold = 5.0

	// DefaultFeeRate is the flat transaction fee model applied to
	// rebalancing trade amounts.
	DefaultFeeRate = 0.001
)
