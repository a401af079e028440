package dto

import (
	"errors"
	"math"
)

// Custom errors
var (
	ErrUnsupportedFormat  = errors.New("unsupported document format")
	ErrUnreadableDocument = errors.New("document could not be read by any extraction tier")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// BankingSummary aggregates a transaction ledger for the hygiene score.
// Monthly buckets are keyed "YYYY-MM"; transactions with unparseable dates
// are excluded from the buckets but still counted in the totals.
type BankingSummary struct {
	TotalCredit        float64            `json:"total_credit"`
	TotalDebit         float64            `json:"total_debit"`
	AvgMonthlyCredit   float64            `json:"avg_monthly_credit"`
	AvgMonthlyDebit    float64            `json:"avg_monthly_debit"`
	NetMonthlySurplus  float64            `json:"net_monthly_surplus"`
	BounceCount        int                `json:"bounce_count"`
	EMIBounceCount     int                `json:"emi_bounce_count"`
	CashRatioPercent   float64            `json:"cash_ratio_percent"`
	ConcentrationRatio float64            `json:"credit_concentration_percent"`
	FraudFlags         int                `json:"fraud_flags"`
	HygieneScore       int                `json:"hygiene_score"`
	HygieneGrade       string             `json:"hygiene_grade"`
	HygieneStatus      string             `json:"hygiene_status"`
	MonthlyCredit      map[string]float64 `json:"monthly_credit"`
	MonthlyDebit       map[string]float64 `json:"monthly_debit"`
	TransactionCount   int                `json:"transaction_count"`
}

// ScoringResult carries the raw (unrounded) outputs of the scoring engine.
// It is derived once per request from a CanonicalFields record and never
// written back into it.
type ScoringResult struct {
	TurnoverMethod      float64 `json:"turnover_method"`
	MPBF                float64 `json:"mpbf"`
	WorkingCapitalLimit float64 `json:"working_capital_limit"`
	DSCR                float64 `json:"dscr"`
	NetCashAccrual      float64 `json:"net_cash_accrual"`
	AgriMonthlySurplus  float64 `json:"agri_monthly_surplus"`
	AgriEligible        float64 `json:"agri_eligible"`
	AgriEligibleLakhs   float64 `json:"agri_eligible_lakhs"`
	CurrentRatio        float64 `json:"current_ratio"`
	CurrentRatioStatus  string  `json:"current_ratio_status"`
	LeverageRatio       float64 `json:"leverage_ratio"`
	LeverageStatus      string  `json:"leverage_status"`
	ProfitMarginPercent float64 `json:"profit_margin_percent"`
	RiskScore           int     `json:"risk_score"`
	RiskGrade           string  `json:"risk_grade"`
	Decision            string  `json:"decision"`
}

// Rounded returns a display copy with all float fields rounded to two
// decimal places. The receiver keeps the raw values for further computation.
func (r ScoringResult) Rounded() ScoringResult {
	out := r
	out.TurnoverMethod = round2(r.TurnoverMethod)
	out.MPBF = round2(r.MPBF)
	out.WorkingCapitalLimit = round2(r.WorkingCapitalLimit)
	out.DSCR = round2(r.DSCR)
	out.NetCashAccrual = round2(r.NetCashAccrual)
	out.AgriMonthlySurplus = round2(r.AgriMonthlySurplus)
	out.AgriEligible = round2(r.AgriEligible)
	out.AgriEligibleLakhs = round2(r.AgriEligibleLakhs)
	out.CurrentRatio = round2(r.CurrentRatio)
	out.LeverageRatio = round2(r.LeverageRatio)
	out.ProfitMarginPercent = round2(r.ProfitMarginPercent)
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AnalysisResponse is the final response for the underwrite endpoint.
type AnalysisResponse struct {
	Extractions []ExtractionResult `json:"extractions"`
	Banking     *BankingSummary    `json:"banking,omitempty"`
	Scoring     ScoringResult      `json:"scoring"`
	ProcessedAt string             `json:"processed_at"`
}
