package models

import "time"

// RiskAssessment stores the outcome of a completed risk questionnaire.
// Answers holds the JSON-encoded question-to-answer map for auditability.
type RiskAssessment struct {
	Base
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Profile     string    `gorm:"not null" json:"profile"`
	Score       int       `gorm:"not null" json:"score"`
	MaxScore    int       `gorm:"not null" json:"max_score"`
	Answers     string    `json:"answers,omitempty"`
	CompletedAt time.Time `gorm:"not null" json:"completed_at"`
}
