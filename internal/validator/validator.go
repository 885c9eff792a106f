// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("goal_category", validateGoalCategory)
		_ = v.RegisterValidation("asset_class", validateAssetClass)
		_ = v.RegisterValidation("sip_frequency", validateSIPFrequency)
		_ = v.RegisterValidation("rebalance_frequency", validateRebalanceFrequency)
	}
}

func validateGoalCategory(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "retirement", "emergency_fund", "home_purchase", "education", "travel", "investment":
		return true
	}
	return false
}

func validateAssetClass(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "stocks", "bonds", "cash", "alternatives":
		return true
	}
	return false
}

func validateSIPFrequency(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "daily", "weekly", "monthly":
		return true
	}
	return false
}

func validateRebalanceFrequency(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "monthly", "quarterly", "yearly":
		return true
	}
	return false
}
