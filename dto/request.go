package dto

import (
	"errors"
	"mime/multipart"
)

// AnalysisRequest represents the incoming underwrite request
type AnalysisRequest struct {
	Files    []*multipart.FileHeader `form:"files[]" binding:"required"`
	Metadata string                  `form:"metadata" binding:"required"`
}

// Validate performs basic validation on the request
func (r *AnalysisRequest) Validate() error {
	if len(r.Files) == 0 {
		return errors.New("at least one document is required")
	}
	if r.Metadata == "" {
		return errors.New("metadata is required")
	}
	return nil
}

// ScoringInput is the direct-entry payload for the score endpoint, used when
// canonical figures are keyed in manually instead of extracted.
type ScoringInput struct {
	Sales              float64 `json:"sales"`
	NetProfit          float64 `json:"net_profit"`
	Depreciation       float64 `json:"depreciation"`
	TaxPaid            float64 `json:"tax_paid"`
	Inventory          float64 `json:"inventory"`
	Debtors            float64 `json:"debtors"`
	Creditors          float64 `json:"creditors"`
	CurrentAssets      float64 `json:"current_assets"`
	CurrentLiabilities float64 `json:"current_liabilities"`
	EMIMonthly         float64 `json:"emi_monthly"`
	LoanRequired       float64 `json:"loan_required"`
	UndocumentedIncome float64 `json:"undocumented_income"`
	BounceCount        int     `json:"bounce_count"`
}

// Fields maps the direct input onto a CanonicalFields record.
func (in *ScoringInput) Fields() CanonicalFields {
	return CanonicalFields{
		Sales:              in.Sales,
		NetProfit:          in.NetProfit,
		Depreciation:       in.Depreciation,
		TaxPaid:            in.TaxPaid,
		Inventory:          in.Inventory,
		Debtors:            in.Debtors,
		Creditors:          in.Creditors,
		CurrentAssets:      in.CurrentAssets,
		CurrentLiabilities: in.CurrentLiabilities,
		EMIMonthly:         in.EMIMonthly,
	}
}
