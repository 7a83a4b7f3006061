package model

import "strings"

// SplitAction is the free-text action tag of a split. Well-known values are
// matched case-insensitively; anything else is preserved as written.
type SplitAction string

const (
	SplitActionNone     SplitAction = ""
	SplitActionPayment  SplitAction = "Payment"
	SplitActionInvoice  SplitAction = "Invoice"
	SplitActionBill     SplitAction = "Bill"
	SplitActionVoucher  SplitAction = "Voucher"
	SplitActionBuy      SplitAction = "Buy"
	SplitActionSell     SplitAction = "Sell"
	SplitActionDividend SplitAction = "Dividend"
	SplitActionInterest SplitAction = "Interest"
	SplitActionFee      SplitAction = "Fee"
	SplitActionSplit    SplitAction = "Split"
)

var splitActions = []SplitAction{
	SplitActionPayment, SplitActionInvoice, SplitActionBill, SplitActionVoucher,
	SplitActionBuy, SplitActionSell, SplitActionDividend, SplitActionInterest,
	SplitActionFee, SplitActionSplit,
}

// ParseSplitAction normalizes well-known actions.
func ParseSplitAction(s string) SplitAction {
	s = strings.TrimSpace(s)
	for _, a := range splitActions {
		if strings.EqualFold(string(a), s) {
			return a
		}
	}
	return SplitAction(s)
}

// TransactionRecord is a raw transaction with its split sub-records.
type TransactionRecord struct {
	ID            string
	CurrencySpace string
	CurrencyID    string
	Number        string
	DatePosted    string
	DateEntered   string
	Description   string
	Splits        []SplitRecord
}

// SplitRecord is a raw split. Value and Quantity are "num/denom" strings.
type SplitRecord struct {
	ID             string
	AccountID      string
	Memo           string
	Action         string
	ReconcileState string
	Value          string // transaction currency
	Quantity       string // account commodity
	LotID          string
}
