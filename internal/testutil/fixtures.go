package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"wealthpath/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestGoal creates a goal with the given target and current amounts,
// due one year from now.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID uint, targetAmount, currentAmount float64) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:        userID,
		Name:          fmt.Sprintf("Test Goal %d", nextID()),
		Category:      models.GoalCategoryInvestment,
		TargetAmount:  targetAmount,
		CurrentAmount: currentAmount,
		TargetDate:    time.Now().AddDate(1, 0, 0),
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestGoalWithDate creates a goal with an explicit target date.
func CreateTestGoalWithDate(t *testing.T, db *gorm.DB, userID uint, targetAmount, currentAmount float64, targetDate time.Time) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:        userID,
		Name:          fmt.Sprintf("Test Goal %d", nextID()),
		Category:      models.GoalCategoryRetirement,
		TargetAmount:  targetAmount,
		CurrentAmount: currentAmount,
		TargetDate:    targetDate,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestHolding creates a holding in the given asset class. Quantity is
// fixed at 10 so market value is 10x the current price.
func CreateTestHolding(t *testing.T, db *gorm.DB, userID uint, assetClass models.AssetClass, avgCost, currentPrice float64) *models.Holding {
	t.Helper()

	n := nextID()
	holding := &models.Holding{
		UserID:       userID,
		Symbol:       fmt.Sprintf("TST%d", n),
		Name:         fmt.Sprintf("Test Holding %d", n),
		AssetClass:   assetClass,
		Quantity:     10,
		AvgCost:      avgCost,
		CurrentPrice: currentPrice,
	}
	if err := db.Create(holding).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return holding
}

// CreateTestSIP creates an active monthly SIP starting now.
func CreateTestSIP(t *testing.T, db *gorm.DB, userID uint, goalID *uint, amount float64) *models.SIP {
	t.Helper()
	return CreateTestSIPWithFrequency(t, db, userID, goalID, amount, models.SIPFrequencyMonthly, time.Now())
}

// CreateTestSIPWithFrequency creates an active SIP with the given frequency
// and start date. The next investment date is set to the start date.
func CreateTestSIPWithFrequency(t *testing.T, db *gorm.DB, userID uint, goalID *uint, amount float64, frequency models.SIPFrequency, startDate time.Time) *models.SIP {
	t.Helper()

	sip := &models.SIP{
		UserID:             userID,
		GoalID:             goalID,
		Name:               fmt.Sprintf("Test SIP %d", nextID()),
		Amount:             amount,
		Frequency:          frequency,
		Status:             models.SIPStatusActive,
		StartDate:          startDate,
		NextInvestmentDate: startDate,
	}
	if err := db.Create(sip).Error; err != nil {
		t.Fatalf("failed to create test SIP: %v", err)
	}
	return sip
}

// CreateTestTargetAllocation creates target allocation rows for a user from
// a percentage map keyed by asset class.
func CreateTestTargetAllocation(t *testing.T, db *gorm.DB, userID uint, allocation map[models.AssetClass]float64) {
	t.Helper()

	for assetClass, percent := range allocation {
		row := &models.TargetAllocation{
			UserID:     userID,
			AssetClass: assetClass,
			Percent:    percent,
		}
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("failed to create test target allocation: %v", err)
		}
	}
}
