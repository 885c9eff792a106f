package planner

import (
	"fmt"
	"math"
	"time"

	apperrors "wealthpath/internal/errors"
)

// milestoneCheckpoints are the fixed progress percentages reported for a goal.
var milestoneCheckpoints = []float64{25, 50, 75, 100}

// ProjectionPoint is one month in a goal's projected trajectory. Date is
// normalized to year-month granularity (first of month). Projected is false
// only for the starting point, which carries the goal's current amount.
type ProjectionPoint struct {
	Date      time.Time `json:"date"`
	Amount    float64   `json:"amount"`
	Projected bool      `json:"projected"`
}

// Milestone reports whether a fixed progress checkpoint has been reached.
type Milestone struct {
	Percentage float64 `json:"percentage"`
	Achieved   bool    `json:"achieved"`
}

// MonthsRemaining returns the number of average-length months between now
// and targetDate, rounded up. Past or present target dates yield 0; they
// are not an error.
func MonthsRemaining(targetDate, now time.Time) int {
	if !targetDate.After(now) {
		return 0
	}
	days := targetDate.Sub(now).Hours() / 24
	return int(math.Ceil(days / DaysPerMonth))
}

// RequiredMonthlyContribution returns the monthly amount needed to close the
// gap between currentAmount and targetAmount by targetDate. Returns 0 when
// the goal is already met or when no months remain; callers must read a zero
// with zero months remaining as "contribute immediately", not "nothing to do".
func RequiredMonthlyContribution(targetAmount, currentAmount float64, targetDate, now time.Time) (float64, error) {
	if err := validateGoalAmounts(targetAmount, currentAmount); err != nil {
		return 0, err
	}

	months := MonthsRemaining(targetDate, now)
	if months == 0 {
		return 0, nil
	}
	return math.Max(0, (targetAmount-currentAmount)/float64(months)), nil
}

// ProjectedCompletionDate estimates when a goal will be reached at the given
// monthly contribution. Returns now when the goal is already met. Returns
// (nil, nil) when the contribution is zero and the goal is unmet: completion
// is not computable, which is an expected condition, not an error.
func ProjectedCompletionDate(targetAmount, currentAmount, monthlyContribution float64, now time.Time) (*time.Time, error) {
	if err := validateGoalAmounts(targetAmount, currentAmount); err != nil {
		return nil, err
	}
	if monthlyContribution < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly contribution cannot be negative")
	}

	if currentAmount >= targetAmount {
		done := now
		return &done, nil
	}
	if monthlyContribution == 0 {
		return nil, nil
	}

	months := int(math.Ceil((targetAmount - currentAmount) / monthlyContribution))
	completion := now.AddDate(0, months, 0)
	return &completion, nil
}

// GenerateProjection builds the month-by-month trajectory of a goal at the
// given contribution: one point per month from now through the goal's target
// date, inclusive. Amounts are not capped at the target, so late points can
// exceed it.
func GenerateProjection(targetAmount, currentAmount, monthlyContribution float64, targetDate, now time.Time) ([]ProjectionPoint, error) {
	if err := validateGoalAmounts(targetAmount, currentAmount); err != nil {
		return nil, err
	}
	if monthlyContribution < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "monthly contribution cannot be negative")
	}

	months := MonthsRemaining(targetDate, now)
	points := make([]ProjectionPoint, 0, months+1)
	points = append(points, ProjectionPoint{
		Date:      monthStart(now),
		Amount:    currentAmount,
		Projected: false,
	})

	amount := currentAmount
	for i := 1; i <= months; i++ {
		amount += monthlyContribution
		points = append(points, ProjectionPoint{
			Date:      monthStart(now.AddDate(0, i, 0)),
			Amount:    amount,
			Projected: true,
		})
	}
	return points, nil
}

// Milestones reports the fixed 25/50/75/100 percent checkpoints for a goal.
func Milestones(targetAmount, currentAmount float64) ([]Milestone, error) {
	if err := validateGoalAmounts(targetAmount, currentAmount); err != nil {
		return nil, err
	}

	progress := currentAmount / targetAmount * 100
	milestones := make([]Milestone, 0, len(milestoneCheckpoints))
	for _, pct := range milestoneCheckpoints {
		milestones = append(milestones, Milestone{
			Percentage: pct,
			Achieved:   progress >= pct,
		})
	}
	return milestones, nil
}

func validateGoalAmounts(targetAmount, currentAmount float64) error {
	if targetAmount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("target amount must be positive, got %.2f", targetAmount))
	}
	if currentAmount < 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("current amount cannot be negative, got %.2f", currentAmount))
	}
	return nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
