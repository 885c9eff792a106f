package planner

import (
	"fmt"

	apperrors "wealthpath/internal/errors"
)

// RiskAnswer is one selectable answer to a risk question, carrying the score
// it contributes to the overall risk tolerance.
type RiskAnswer struct {
	ID          int    `json:"id"`
	Text        string `json:"text"`
	Description string `json:"description"`
	Score       int    `json:"score"`
}

// RiskQuestion is one question of the risk tolerance questionnaire.
type RiskQuestion struct {
	ID       int          `json:"id"`
	Question string       `json:"question"`
	Answers  []RiskAnswer `json:"answers"`
}

// RiskProfile describes one of the three investor profiles, including the
// target allocation recommended for it.
type RiskProfile struct {
	Profile         string           `json:"profile"`
	MinScore        int              `json:"min_score"`
	MaxScore        int              `json:"max_score"`
	Description     string           `json:"description"`
	Recommendations []string         `json:"recommendations"`
	Allocation      AllocationVector `json:"allocation"`
}

// RiskResult is the outcome of scoring a completed questionnaire.
type RiskResult struct {
	RiskProfile
	Score            int `json:"score"`
	MaxPossibleScore int `json:"max_possible_score"`
}

var riskQuestions = []RiskQuestion{
	{
		ID:       1,
		Question: "What is your investment timeline?",
		Answers: []RiskAnswer{
			{ID: 1, Text: "Less than 2 years", Description: "Short-term goals like emergency fund or near-term purchases", Score: 1},
			{ID: 2, Text: "2-5 years", Description: "Medium-term goals like home down payment or major purchase", Score: 2},
			{ID: 3, Text: "5-10 years", Description: "Long-term goals like children's education", Score: 3},
			{ID: 4, Text: "More than 10 years", Description: "Very long-term goals like retirement", Score: 4},
		},
	},
	{
		ID:       2,
		Question: "How comfortable are you with investment risk?",
		Answers: []RiskAnswer{
			{ID: 1, Text: "Very uncomfortable", Description: "I prefer guaranteed returns even if they're lower", Score: 1},
			{ID: 2, Text: "Somewhat uncomfortable", Description: "I can accept small fluctuations for slightly higher returns", Score: 2},
			{ID: 3, Text: "Moderately comfortable", Description: "I can handle moderate ups and downs for better growth potential", Score: 3},
			{ID: 4, Text: "Very comfortable", Description: "I'm willing to accept significant volatility for maximum growth", Score: 4},
		},
	},
	{
		ID:       3,
		Question: "What is your primary financial goal?",
		Answers: []RiskAnswer{
			{ID: 1, Text: "Capital preservation", Description: "Protect my money from inflation with minimal risk", Score: 1},
			{ID: 2, Text: "Steady income", Description: "Generate consistent returns for regular income", Score: 2},
			{ID: 3, Text: "Balanced growth", Description: "Grow my wealth at a moderate pace with some risk", Score: 3},
			{ID: 4, Text: "Maximum growth", Description: "Maximize long-term wealth accumulation", Score: 4},
		},
	},
	{
		ID:       4,
		Question: "How would you react if your portfolio lost 20% in a market downturn?",
		Answers: []RiskAnswer{
			{ID: 1, Text: "Panic and sell everything", Description: "I would need to access my money immediately", Score: 1},
			{ID: 2, Text: "Feel very anxious but hold", Description: "I would be worried but not make immediate changes", Score: 2},
			{ID: 3, Text: "Stay calm and wait", Description: "I would view it as a temporary setback", Score: 3},
			{ID: 4, Text: "Buy more investments", Description: "I would see it as a buying opportunity", Score: 4},
		},
	},
	{
		ID:       5,
		Question: "What is your experience with investing?",
		Answers: []RiskAnswer{
			{ID: 1, Text: "No experience", Description: "I'm completely new to investing", Score: 1},
			{ID: 2, Text: "Basic knowledge", Description: "I understand basic investment concepts", Score: 2},
			{ID: 3, Text: "Moderate experience", Description: "I've been investing for a few years", Score: 3},
			{ID: 4, Text: "Very experienced", Description: "I have extensive investment knowledge and experience", Score: 4},
		},
	},
	{
		ID:       6,
		Question: "Which investment approach appeals to you most?",
		Answers: []RiskAnswer{
			{ID: 1, Text: "Safe and predictable", Description: "CDs, savings accounts, government bonds", Score: 1},
			{ID: 2, Text: "Conservative growth", Description: "Mix of bonds and stable dividend stocks", Score: 2},
			{ID: 3, Text: "Balanced portfolio", Description: "Diversified mix of stocks, bonds, and other assets", Score: 3},
			{ID: 4, Text: "Aggressive growth", Description: "Growth stocks, emerging markets, alternative investments", Score: 4},
		},
	},
}

var riskProfiles = []RiskProfile{
	{
		Profile:     "Conservative",
		MinScore:    6,
		MaxScore:    12,
		Description: "You prefer stability and capital preservation over growth. Your investment approach focuses on minimizing risk and protecting your principal, even if it means accepting lower returns. This profile is suitable for investors with short-term goals or those who cannot afford significant losses.",
		Recommendations: []string{
			"Focus on high-grade bonds and fixed-income securities",
			"Consider CDs and money market accounts for short-term goals",
			"Limit stock exposure to dividend-paying, established companies",
			"Maintain a larger emergency fund (6-12 months of expenses)",
			"Review and rebalance portfolio quarterly",
		},
		Allocation: AllocationVector{"bonds": 60, "stocks": 25, "cash": 15},
	},
	{
		Profile:     "Moderate",
		MinScore:    13,
		MaxScore:    18,
		Description: "You seek a balance between growth and stability. You're willing to accept some risk and volatility in exchange for potentially higher returns than conservative investments. This profile suits investors with medium-term goals who can weather moderate market fluctuations.",
		Recommendations: []string{
			"Diversify across stocks, bonds, and other asset classes",
			"Consider index funds and ETFs for broad market exposure",
			"Include both domestic and international investments",
			"Rebalance portfolio semi-annually",
			"Consider dollar-cost averaging for regular investments",
		},
		Allocation: AllocationVector{"stocks": 60, "bonds": 30, "alternatives": 10},
	},
	{
		Profile:     "Aggressive",
		MinScore:    19,
		MaxScore:    24,
		Description: "You prioritize long-term growth and are comfortable with significant volatility. You understand that higher potential returns come with higher risk, and you have the time horizon and risk tolerance to ride out market downturns. This profile is ideal for young investors or those with long-term investment goals.",
		Recommendations: []string{
			"Focus heavily on growth stocks and equity investments",
			"Consider emerging markets and small-cap stocks",
			"Explore alternative investments like REITs or commodities",
			"Minimize bond allocation to maximize growth potential",
			"Take advantage of tax-advantaged retirement accounts",
		},
		Allocation: AllocationVector{"stocks": 80, "alternatives": 15, "bonds": 5},
	},
}

// RiskQuestions returns the questionnaire. The returned slice is a copy;
// callers cannot mutate the underlying data.
func RiskQuestions() []RiskQuestion {
	return append([]RiskQuestion(nil), riskQuestions...)
}

// RiskProfiles returns the three investor profiles with their score bands
// and recommended allocations.
func RiskProfiles() []RiskProfile {
	return append([]RiskProfile(nil), riskProfiles...)
}

// CalculateRiskProfile scores a completed questionnaire (question ID to
// chosen answer ID) and returns the matching profile. Every question must be
// answered and every answer must belong to its question.
func CalculateRiskProfile(answers map[int]int) (*RiskResult, error) {
	total := 0
	for _, q := range riskQuestions {
		answerID, ok := answers[q.ID]
		if !ok {
			return nil, apperrors.ErrIncompleteAnswers
		}
		score, err := answerScore(q, answerID)
		if err != nil {
			return nil, err
		}
		total += score
	}
	if len(answers) > len(riskQuestions) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "answers reference unknown questions")
	}

	result := &RiskResult{
		Score:            total,
		MaxPossibleScore: len(riskQuestions) * 4,
	}
	for _, p := range riskProfiles {
		if total <= p.MaxScore {
			result.RiskProfile = p
			return result, nil
		}
	}
	// Scores above the aggressive band cap still map to aggressive.
	result.RiskProfile = riskProfiles[len(riskProfiles)-1]
	return result, nil
}

func answerScore(q RiskQuestion, answerID int) (int, error) {
	for _, a := range q.Answers {
		if a.ID == answerID {
			return a.Score, nil
		}
	}
	return 0, apperrors.WithMessage(apperrors.ErrInvalidInput,
		fmt.Sprintf("answer %d is not valid for question %d", answerID, q.ID))
}
