package dto

import (
	"math"
	"time"
)

type DocumentType string

const (
	DocTypeBalanceSheet  DocumentType = "balance_sheet"
	DocTypeProfitLoss    DocumentType = "profit_loss"
	DocTypeBankStatement DocumentType = "bank_statement"
)

// ContentKind is the dispatch result for an uploaded document. Classification
// is strictly by filename extension, never by sniffing bytes.
type ContentKind string

const (
	KindDelimited   ContentKind = "delimited"
	KindSpreadsheet ContentKind = "spreadsheet"
	KindPDF         ContentKind = "pdf"
	KindImage       ContentKind = "image"
)

type DocumentMeta struct {
	Filename string       `json:"filename"`
	DocType  DocumentType `json:"doc_type"`
	Password string       `json:"password,omitempty"`
}

type UploadMetadata struct {
	Documents          []DocumentMeta `json:"documents"`
	LoanRequired       float64        `json:"loan_required"`
	UndocumentedIncome float64        `json:"undocumented_income"`
}

// CanonicalFields is the fixed set of standardized financial line items that
// every synonym variant resolves to. Unmatched fields stay at zero so the
// scoring formulas always receive well-typed inputs.
type CanonicalFields struct {
	Sales              float64 `json:"sales"`
	NetProfit          float64 `json:"net_profit"`
	Depreciation       float64 `json:"depreciation"`
	TaxPaid            float64 `json:"tax_paid"`
	Inventory          float64 `json:"inventory"`
	Debtors            float64 `json:"debtors"`
	Creditors          float64 `json:"creditors"`
	CurrentAssets      float64 `json:"current_assets"`
	CurrentLiabilities float64 `json:"current_liabilities"`
	Capital            float64 `json:"capital"`
	Reserves           float64 `json:"reserves"`
	UnsecuredLoans     float64 `json:"unsecured_loans"`
	LoansAdvances      float64 `json:"loans_advances"`
	FixedAssets        float64 `json:"fixed_assets"`
	Purchases          float64 `json:"purchases"`
	BankCredit         float64 `json:"bank_credit"`
	EMIMonthly         float64 `json:"emi_monthly"`
}

// FieldName identifies one canonical field. The extractors report values
// keyed by FieldName; only the canonicalization layer writes them into a
// CanonicalFields record.
type FieldName string

const (
	FieldSales              FieldName = "sales"
	FieldNetProfit          FieldName = "net_profit"
	FieldDepreciation       FieldName = "depreciation"
	FieldTaxPaid            FieldName = "tax_paid"
	FieldInventory          FieldName = "inventory"
	FieldDebtors            FieldName = "debtors"
	FieldCreditors          FieldName = "creditors"
	FieldCurrentAssets      FieldName = "current_assets"
	FieldCurrentLiabilities FieldName = "current_liabilities"
	FieldCapital            FieldName = "capital"
	FieldReserves           FieldName = "reserves"
	FieldUnsecuredLoans     FieldName = "unsecured_loans"
	FieldLoansAdvances      FieldName = "loans_advances"
	FieldFixedAssets        FieldName = "fixed_assets"
	FieldPurchases          FieldName = "purchases"
	FieldBankCredit         FieldName = "bank_credit"
	FieldEMIMonthly         FieldName = "emi_monthly"
)

// Set writes a value for the named field. Non-finite values are dropped so
// NaN/Inf never escapes this layer.
func (c *CanonicalFields) Set(name FieldName, value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return
	}
	switch name {
	case FieldSales:
		c.Sales = value
	case FieldNetProfit:
		c.NetProfit = value
	case FieldDepreciation:
		c.Depreciation = value
	case FieldTaxPaid:
		c.TaxPaid = value
	case FieldInventory:
		c.Inventory = value
	case FieldDebtors:
		c.Debtors = value
	case FieldCreditors:
		c.Creditors = value
	case FieldCurrentAssets:
		c.CurrentAssets = value
	case FieldCurrentLiabilities:
		c.CurrentLiabilities = value
	case FieldCapital:
		c.Capital = value
	case FieldReserves:
		c.Reserves = value
	case FieldUnsecuredLoans:
		c.UnsecuredLoans = value
	case FieldLoansAdvances:
		c.LoansAdvances = value
	case FieldFixedAssets:
		c.FixedAssets = value
	case FieldPurchases:
		c.Purchases = value
	case FieldBankCredit:
		c.BankCredit = value
	case FieldEMIMonthly:
		c.EMIMonthly = value
	}
}

// Get returns the value of the named field, zero for unknown names.
func (c *CanonicalFields) Get(name FieldName) float64 {
	switch name {
	case FieldSales:
		return c.Sales
	case FieldNetProfit:
		return c.NetProfit
	case FieldDepreciation:
		return c.Depreciation
	case FieldTaxPaid:
		return c.TaxPaid
	case FieldInventory:
		return c.Inventory
	case FieldDebtors:
		return c.Debtors
	case FieldCreditors:
		return c.Creditors
	case FieldCurrentAssets:
		return c.CurrentAssets
	case FieldCurrentLiabilities:
		return c.CurrentLiabilities
	case FieldCapital:
		return c.Capital
	case FieldReserves:
		return c.Reserves
	case FieldUnsecuredLoans:
		return c.UnsecuredLoans
	case FieldLoansAdvances:
		return c.LoansAdvances
	case FieldFixedAssets:
		return c.FixedAssets
	case FieldPurchases:
		return c.Purchases
	case FieldBankCredit:
		return c.BankCredit
	case FieldEMIMonthly:
		return c.EMIMonthly
	}
	return 0
}

// Transaction is one normalized bank statement row. Exactly one of Credit
// and Debit is normally non-zero; both zero means the row should have been
// discarded upstream. Date is nil when the raw date token did not parse.
type Transaction struct {
	Date        *time.Time `json:"date"`
	Credit      float64    `json:"credit"`
	Debit       float64    `json:"debit"`
	Description string     `json:"description"`
}

// ExtractionResult is the output of the extraction pipeline for a single
// document. Confidence is computed once after all extractors run and is
// immutable afterwards.
type ExtractionResult struct {
	DocType           DocumentType    `json:"doc_type"`
	Filename          string          `json:"filename"`
	CanonicalFields   CanonicalFields `json:"canonical_fields"`
	Transactions      []Transaction   `json:"transactions"`
	Confidence        int             `json:"confidence"`
	ConfidenceReasons []string        `json:"confidence_reasons"`
}
