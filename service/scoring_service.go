package service

import (
	"sort"

	"github.com/crediflow/underwriting/dto"
	"github.com/crediflow/underwriting/utils"
)

// ScoringService implements the fixed underwriting formulas. Every function
// here is total: division by a zero denominator yields 0 and negative
// intermediates are floored at 0 where the business rule wants a floor, so
// scoring can never fail on degenerate inputs.
type ScoringService struct {
	approvalThreshold int
}

func NewScoringService(approvalThreshold int) *ScoringService {
	return &ScoringService{approvalThreshold: approvalThreshold}
}

func safeDivide(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// TurnoverMethod is the 20%-of-sales working capital cap.
func (s *ScoringService) TurnoverMethod(fields *dto.CanonicalFields) float64 {
	return 0.20 * fields.Sales
}

// MPBF is the working-capital gap method:
// max(0, 0.75 x (inventory + debtors) - creditors).
func (s *ScoringService) MPBF(fields *dto.CanonicalFields) float64 {
	mpbf := 0.75*(fields.Inventory+fields.Debtors) - fields.Creditors
	if mpbf < 0 {
		return 0
	}
	return mpbf
}

// WorkingCapitalLimit is the lower of the turnover and MPBF methods when
// both are positive, otherwise the larger of the two.
func (s *ScoringService) WorkingCapitalLimit(turnover, mpbf float64) float64 {
	if turnover > 0 && mpbf > 0 {
		if turnover < mpbf {
			return turnover
		}
		return mpbf
	}
	if turnover > mpbf {
		return turnover
	}
	return mpbf
}

// DSCR divides net cash accrual by the annualized EMI, 0 when there is no
// debt service.
func (s *ScoringService) DSCR(fields *dto.CanonicalFields) float64 {
	return safeDivide(fields.NetProfit+fields.Depreciation, fields.EMIMonthly*12)
}

// AgricultureEligibility applies the income-stress model: net cash accrual
// scaled by 0.70 above the 30 lakh loan threshold (0.60 below), spread to a
// monthly surplus net of existing EMI plus 42% of monthly undocumented
// income, then capitalized at a 14% FOIR.
func (s *ScoringService) AgricultureEligibility(fields *dto.CanonicalFields, loanRequired, undocumentedIncome float64) (surplus, eligible float64) {
	nca := fields.NetProfit + fields.Depreciation - fields.TaxPaid

	scale := 0.60
	if loanRequired > 3_000_000 {
		scale = 0.70
	}

	surplus = (nca*scale)/12 - fields.EMIMonthly + (undocumentedIncome*0.42)/12
	if surplus <= 0 {
		return surplus, 0
	}
	return surplus, surplus / 0.14
}

// CompositeRiskScore buckets profit margin, liquidity and cheque bounces
// into tiers and sums the tier points.
func (s *ScoringService) CompositeRiskScore(marginPercent, currentRatio float64, bounceCount int) int {
	score := 0

	switch {
	case marginPercent > 10:
		score += 20
	case marginPercent > 5:
		score += 15
	default:
		score += 8
	}

	switch {
	case currentRatio >= 1.5:
		score += 20
	case currentRatio >= 1.2:
		score += 15
	default:
		score += 8
	}

	switch {
	case bounceCount == 0:
		score += 20
	case bounceCount <= 2:
		score += 15
	default:
		score += 5
	}

	return score
}

// Score computes the full deterministic result record for one case. The
// input fields are read-only; nothing ever flows back into them.
func (s *ScoringService) Score(fields *dto.CanonicalFields, banking *dto.BankingSummary, loanRequired, undocumentedIncome float64, bounceCount int) dto.ScoringResult {
	turnover := s.TurnoverMethod(fields)
	mpbf := s.MPBF(fields)

	currentRatio := safeDivide(fields.CurrentAssets, fields.CurrentLiabilities)
	if currentRatio == 0 {
		// Fall back to the trading-cycle proxy when the balance sheet
		// aggregates were not extracted.
		currentRatio = safeDivide(fields.Inventory+fields.Debtors, fields.Creditors)
	}

	netWorth := fields.Capital + fields.Reserves
	outsideLiabilities := fields.UnsecuredLoans + fields.LoansAdvances + fields.Creditors
	leverage := safeDivide(outsideLiabilities, netWorth)

	margin := safeDivide(fields.NetProfit, fields.Sales) * 100

	surplus, eligible := s.AgricultureEligibility(fields, loanRequired, undocumentedIncome)

	if banking != nil {
		bounceCount += banking.BounceCount
	}

	riskScore := s.CompositeRiskScore(margin, currentRatio, bounceCount)

	decision := "Review"
	if riskScore >= s.approvalThreshold {
		decision = "Approve"
	}

	return dto.ScoringResult{
		TurnoverMethod:      turnover,
		MPBF:                mpbf,
		WorkingCapitalLimit: s.WorkingCapitalLimit(turnover, mpbf),
		DSCR:                s.DSCR(fields),
		NetCashAccrual:      fields.NetProfit + fields.Depreciation,
		AgriMonthlySurplus:  surplus,
		AgriEligible:        eligible,
		AgriEligibleLakhs:   eligible / 100_000,
		CurrentRatio:        currentRatio,
		CurrentRatioStatus:  benchmarkStatus(currentRatio >= 1.33),
		LeverageRatio:       leverage,
		LeverageStatus:      benchmarkStatus(leverage <= 3),
		ProfitMarginPercent: margin,
		RiskScore:           riskScore,
		RiskGrade:           riskGrade(riskScore),
		Decision:            decision,
	}
}

// benchmarkStatus labels a ratio against its lending benchmark: current
// ratio 1.33, leverage (TOL/TNW) 3.
func benchmarkStatus(ok bool) string {
	if ok {
		return "OK"
	}
	return "Outside benchmark"
}

func riskGrade(score int) string {
	switch {
	case score >= 60:
		return "A"
	case score >= 45:
		return "B"
	case score >= 30:
		return "C"
	}
	return "D"
}

// AnalyzeBanking aggregates a transaction ledger into the hygiene summary.
// Monthly buckets use the parsed date; rows with unparseable dates stay out
// of the buckets but still count toward the totals.
func (s *ScoringService) AnalyzeBanking(transactions []dto.Transaction) *dto.BankingSummary {
	summary := &dto.BankingSummary{
		MonthlyCredit:    make(map[string]float64),
		MonthlyDebit:     make(map[string]float64),
		TransactionCount: len(transactions),
	}

	var cashCredit float64
	var credits []float64

	for _, tx := range transactions {
		summary.TotalCredit += tx.Credit
		summary.TotalDebit += tx.Debit

		if tx.Date != nil {
			month := tx.Date.Format("2006-01")
			summary.MonthlyCredit[month] += tx.Credit
			summary.MonthlyDebit[month] += tx.Debit
		}

		if utils.ContainsAny(tx.Description, utils.BounceKeywords) {
			summary.BounceCount++
			if utils.ContainsAny(tx.Description, utils.EMIKeywords) {
				summary.EMIBounceCount++
			}
		}
		if utils.ContainsAny(tx.Description, utils.CashKeywords) {
			cashCredit += tx.Credit
		}
		if tx.Credit > 5_000_000 {
			summary.FraudFlags++
		}
		if tx.Credit > 0 {
			credits = append(credits, tx.Credit)
		}
	}

	months := len(summary.MonthlyCredit)
	if months == 0 {
		months = 1
	}
	summary.AvgMonthlyCredit = summary.TotalCredit / float64(months)
	summary.AvgMonthlyDebit = summary.TotalDebit / float64(months)
	summary.NetMonthlySurplus = summary.AvgMonthlyCredit - summary.AvgMonthlyDebit

	summary.CashRatioPercent = safeDivide(cashCredit, summary.TotalCredit) * 100

	sort.Sort(sort.Reverse(sort.Float64Slice(credits)))
	topN := 5
	if len(credits) < topN {
		topN = len(credits)
	}
	var topSum float64
	for _, c := range credits[:topN] {
		topSum += c
	}
	summary.ConcentrationRatio = safeDivide(topSum, summary.TotalCredit) * 100

	summary.HygieneScore = hygieneScore(summary)
	summary.HygieneGrade, summary.HygieneStatus = hygieneGrade(summary.HygieneScore)
	return summary
}

// hygieneScore starts at 100 and deducts per negative signal, floored at 0.
func hygieneScore(summary *dto.BankingSummary) int {
	score := 100

	if summary.NetMonthlySurplus < 0 {
		score -= 30
	}
	score -= minInt(summary.BounceCount*5, 25)
	score -= minInt(summary.EMIBounceCount*10, 20)
	if summary.CashRatioPercent > 60 {
		score -= 10
	}
	if summary.ConcentrationRatio > 70 {
		score -= 10
	}
	score -= minInt(summary.FraudFlags*10, 20)

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func hygieneGrade(score int) (grade, status string) {
	switch {
	case score >= 80:
		return "A", "Strong"
	case score >= 65:
		return "B", "Good"
	case score >= 50:
		return "C", "Moderate"
	}
	return "D", "Weak"
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
