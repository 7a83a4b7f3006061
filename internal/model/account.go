package model

import (
	"fmt"
	"strings"
)

// AccountType classifies accounts in the account tree.
type AccountType string

const (
	AccountTypeNone       AccountType = "NONE"
	AccountTypeBank       AccountType = "BANK"
	AccountTypeCash       AccountType = "CASH"
	AccountTypeCredit     AccountType = "CREDIT"
	AccountTypeAsset      AccountType = "ASSET"
	AccountTypeLiability  AccountType = "LIABILITY"
	AccountTypeStock      AccountType = "STOCK"
	AccountTypeMutual     AccountType = "MUTUAL"
	AccountTypeCurrency   AccountType = "CURRENCY"
	AccountTypeIncome     AccountType = "INCOME"
	AccountTypeExpense    AccountType = "EXPENSE"
	AccountTypeEquity     AccountType = "EQUITY"
	AccountTypeReceivable AccountType = "RECEIVABLE"
	AccountTypePayable    AccountType = "PAYABLE"
	AccountTypeRoot       AccountType = "ROOT"
	AccountTypeTrading    AccountType = "TRADING"
)

var accountTypes = []AccountType{
	AccountTypeNone, AccountTypeBank, AccountTypeCash, AccountTypeCredit,
	AccountTypeAsset, AccountTypeLiability, AccountTypeStock, AccountTypeMutual,
	AccountTypeCurrency, AccountTypeIncome, AccountTypeExpense, AccountTypeEquity,
	AccountTypeReceivable, AccountTypePayable, AccountTypeRoot, AccountTypeTrading,
}

// AccountTypes returns every known account type.
func AccountTypes() []AccountType {
	return append([]AccountType(nil), accountTypes...)
}

// ParseAccountType maps a book's account type string to an AccountType.
// "A/RECEIVABLE" and "A/PAYABLE" are accepted as written by some frontends.
func ParseAccountType(s string) (AccountType, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	key = strings.TrimPrefix(key, "A/")
	for _, t := range accountTypes {
		if string(t) == key {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown account type %q", s)
}

// AccountRecord is a raw account as read from a book.
type AccountRecord struct {
	ID             string
	Name           string
	Type           string
	CommoditySpace string
	CommodityID    string
	ParentID       string // empty = top-level
	Code           string
	Description    string
	Hidden         string
	Placeholder    string
}
