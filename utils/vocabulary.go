package utils

import (
	"strings"

	"github.com/crediflow/underwriting/dto"
)

// VocabularyEntry maps one canonical field to its synonym phrases. Synonym
// order is a tie-break: when several synonyms match the same cell, the first
// one wins.
type VocabularyEntry struct {
	Field    dto.FieldName
	Synonyms []string
}

// FieldVocabulary is the controlled accounting vocabulary, loaded once and
// read-only for the life of the process. Entry order matters: more specific
// labels ("working capital loan") must be tested before generic ones
// ("capital") because matching is by substring containment.
var FieldVocabulary = []VocabularyEntry{
	{dto.FieldDebtors, []string{
		"sundry debtors", "trade receivables", "debtors", "accounts receivable", "bills receivable",
	}},
	{dto.FieldCreditors, []string{
		"sundry creditors", "trade payables", "creditors", "accounts payable", "bills payable",
	}},
	{dto.FieldInventory, []string{
		"closing stock", "stock in trade", "inventories", "inventory", "stock",
	}},
	{dto.FieldSales, []string{
		"revenue from operations", "gross receipts", "net sales", "sales", "turnover", "total income", "revenue",
	}},
	{dto.FieldNetProfit, []string{
		"net profit as per p&l", "profit after tax", "net profit", "profit for the year", "pat",
	}},
	{dto.FieldDepreciation, []string{
		"depreciation and amortisation", "depreciation & amortization", "depreciation",
	}},
	{dto.FieldTaxPaid, []string{
		"provision for tax", "income tax", "tax paid", "taxes",
	}},
	{dto.FieldCurrentAssets, []string{
		"total current assets", "current assets", "short term assets", "cash and bank balances",
	}},
	{dto.FieldCurrentLiabilities, []string{
		"total current liabilities", "current liabilities", "short term liabilities", "short term borrowings",
	}},
	{dto.FieldBankCredit, []string{
		"working capital loan", "cash credit limit", "cash credit", "bank borrowings", "od limit", "bank credit",
	}},
	{dto.FieldEMIMonthly, []string{
		"monthly emi", "emi per month", "loan installment", "emi",
	}},
	{dto.FieldUnsecuredLoans, []string{
		"unsecured loans", "unsecured loan",
	}},
	{dto.FieldLoansAdvances, []string{
		"short term loans and advances", "loans and advances", "loans & advances",
	}},
	{dto.FieldFixedAssets, []string{
		"property plant and equipment", "fixed assets", "net block",
	}},
	{dto.FieldPurchases, []string{
		"cost of goods sold", "cost of materials consumed", "purchases",
	}},
	{dto.FieldReserves, []string{
		"reserves and surplus", "general reserve", "reserves",
	}},
	{dto.FieldCapital, []string{
		"share capital", "partners capital", "proprietors capital", "capital",
	}},
}

// Banking keyword cues used by the ledger classifier and hygiene analysis.
var (
	DebitKeywords  = []string{"withdrawal", "atm", "pos", "debit", "chq paid", "cheque paid", "chq ret", "emi", "nach", "upi out"}
	BounceKeywords = []string{"bounce", "return", "chq ret", "insufficient funds", "reversal"}
	CashKeywords   = []string{"cash dep", "cash deposit", "self", "cts", "cdm"}
	EMIKeywords    = []string{"emi", "loan payment", "nach", "repayment"}
)

// NormalizeLabel cleans a raw cell label for vocabulary matching.
func NormalizeLabel(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// MatchField resolves a raw label against the vocabulary. Returns the
// canonical field of the first entry whose synonym is contained in the
// normalized label.
func MatchField(label string) (dto.FieldName, bool) {
	normalized := NormalizeLabel(label)
	if normalized == "" {
		return "", false
	}
	for _, entry := range FieldVocabulary {
		for _, synonym := range entry.Synonyms {
			if strings.Contains(normalized, synonym) {
				return entry.Field, true
			}
		}
	}
	return "", false
}

// ContainsAny reports whether the lowercased text contains any of the cues.
func ContainsAny(text string, cues []string) bool {
	lower := strings.ToLower(text)
	for _, cue := range cues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}
