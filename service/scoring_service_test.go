package service

import (
	"testing"
	"time"

	"github.com/crediflow/underwriting/dto"
	"github.com/stretchr/testify/assert"
)

func TestWorkingCapitalFormulas(t *testing.T) {
	svc := NewScoringService(60)
	fields := &dto.CanonicalFields{
		Sales:     1_000_000,
		Inventory: 300_000,
		Debtors:   200_000,
		Creditors: 250_000,
	}

	turnover := svc.TurnoverMethod(fields)
	mpbf := svc.MPBF(fields)

	assert.Equal(t, 200_000.0, turnover)
	assert.Equal(t, 125_000.0, mpbf) // 0.75 x 500,000 - 250,000
	assert.Equal(t, 125_000.0, svc.WorkingCapitalLimit(turnover, mpbf), "lower of the two when both positive")
}

func TestWorkingCapitalLimitWhenOneSideZero(t *testing.T) {
	svc := NewScoringService(60)

	assert.Equal(t, 200_000.0, svc.WorkingCapitalLimit(200_000, 0))
	assert.Equal(t, 125_000.0, svc.WorkingCapitalLimit(0, 125_000))
	assert.Zero(t, svc.WorkingCapitalLimit(0, 0))
}

func TestMPBFNeverNegative(t *testing.T) {
	svc := NewScoringService(60)
	fields := &dto.CanonicalFields{Inventory: 100_000, Debtors: 50_000, Creditors: 900_000}

	assert.Zero(t, svc.MPBF(fields))
}

func TestDSCR(t *testing.T) {
	svc := NewScoringService(60)
	fields := &dto.CanonicalFields{NetProfit: 240_000, Depreciation: 60_000, EMIMonthly: 15_000}

	assert.InDelta(t, 1.6667, svc.DSCR(fields), 0.001)

	fields.EMIMonthly = 0
	assert.Zero(t, svc.DSCR(fields), "zero annualized EMI must yield zero, not a panic")
}

func TestAgricultureEligibility(t *testing.T) {
	svc := NewScoringService(60)
	fields := &dto.CanonicalFields{
		NetProfit:    500_000,
		Depreciation: 100_000,
		EMIMonthly:   10_000,
	}

	// loan above 30 lakh selects the 0.70 scale
	surplus, eligible := svc.AgricultureEligibility(fields, 4_000_000, 50_000)

	assert.InDelta(t, 26_750.0, surplus, 0.01) // 35,000 - 10,000 + 1,750
	assert.InDelta(t, 191_071.43, eligible, 0.01)

	// loan at or below the threshold selects 0.60
	surplus, _ = svc.AgricultureEligibility(fields, 2_000_000, 0)
	assert.InDelta(t, 20_000.0, surplus, 0.01) // 600,000 x 0.60 / 12 - 10,000
}

func TestAgricultureNegativeSurplusFloorsEligibility(t *testing.T) {
	svc := NewScoringService(60)
	fields := &dto.CanonicalFields{NetProfit: 60_000, EMIMonthly: 50_000}

	surplus, eligible := svc.AgricultureEligibility(fields, 1_000_000, 0)

	assert.Negative(t, surplus)
	assert.Zero(t, eligible)
}

func TestCompositeRiskScoreAndDecision(t *testing.T) {
	svc := NewScoringService(60)

	assert.Equal(t, 60, svc.CompositeRiskScore(12, 1.6, 0), "all high tiers")
	assert.Equal(t, 45, svc.CompositeRiskScore(7, 1.3, 2), "all mid tiers")
	assert.Equal(t, 21, svc.CompositeRiskScore(2, 0.8, 5), "all low tiers")

	fields := &dto.CanonicalFields{
		Sales:              1_000_000,
		NetProfit:          150_000,
		CurrentAssets:      600_000,
		CurrentLiabilities: 300_000,
	}
	result := svc.Score(fields, nil, 0, 0, 0)
	assert.Equal(t, 60, result.RiskScore)
	assert.Equal(t, "Approve", result.Decision)
	assert.Equal(t, "A", result.RiskGrade)
	assert.Equal(t, "OK", result.CurrentRatioStatus, "current ratio 2.0 clears the 1.33 benchmark")

	result = svc.Score(&dto.CanonicalFields{}, nil, 0, 0, 5)
	assert.Equal(t, "Review", result.Decision)
}

func TestScoreIsTotalOnZeroedFields(t *testing.T) {
	svc := NewScoringService(60)

	result := svc.Score(&dto.CanonicalFields{}, nil, 0, 0, 0)

	assert.Zero(t, result.TurnoverMethod)
	assert.Zero(t, result.MPBF)
	assert.Zero(t, result.WorkingCapitalLimit)
	assert.Zero(t, result.DSCR)
	assert.Zero(t, result.AgriEligible)
	assert.Zero(t, result.CurrentRatio)
	assert.NotEmpty(t, result.Decision)
}

func TestScoringResultRounded(t *testing.T) {
	result := dto.ScoringResult{DSCR: 1.66666, AgriEligible: 191_071.42857}

	rounded := result.Rounded()

	assert.Equal(t, 1.67, rounded.DSCR)
	assert.Equal(t, 191_071.43, rounded.AgriEligible)
	assert.Equal(t, 1.66666, result.DSCR, "raw values stay available")
}

func TestAnalyzeBanking(t *testing.T) {
	svc := NewScoringService(60)
	jan := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)

	transactions := []dto.Transaction{
		{Date: &jan, Credit: 100_000, Description: "NEFT FROM ACME"},
		{Date: &jan, Debit: 40_000, Description: "RENT PAYMENT"},
		{Date: &feb, Credit: 120_000, Description: "CASH DEPOSIT CDM"},
		{Date: &feb, Debit: 5_000, Description: "CHQ RET INSUFFICIENT FUNDS"},
		{Date: nil, Credit: 10_000, Description: "UPI IN"}, // unparsed date: totals only
	}

	summary := svc.AnalyzeBanking(transactions)

	assert.Equal(t, 230_000.0, summary.TotalCredit)
	assert.Equal(t, 45_000.0, summary.TotalDebit)
	assert.Len(t, summary.MonthlyCredit, 2)
	assert.Equal(t, 100_000.0, summary.MonthlyCredit["2024-01"])
	assert.Equal(t, 1, summary.BounceCount)
	assert.Zero(t, summary.EMIBounceCount)
	assert.InDelta(t, 52.17, summary.CashRatioPercent, 0.01)
	assert.Equal(t, 100.0, summary.ConcentrationRatio, "three credits are all in the top five")
	// 100 - 5 (one bounce) - 10 (fully concentrated credits)
	assert.Equal(t, 85, summary.HygieneScore)
	assert.Equal(t, "A", summary.HygieneGrade)
	assert.Equal(t, "Strong", summary.HygieneStatus)
}

func TestAnalyzeBankingEmptyLedger(t *testing.T) {
	svc := NewScoringService(60)

	summary := svc.AnalyzeBanking(nil)

	assert.Zero(t, summary.TotalCredit)
	assert.Zero(t, summary.CashRatioPercent)
	assert.Equal(t, 100, summary.HygieneScore)
}
