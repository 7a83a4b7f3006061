// Package accounts holds the account tree of a book and the splits booked to each account.
package accounts

import (
	"slices"

	"github.com/gncx-dev/gncx/internal/commodity"
	"github.com/gncx-dev/gncx/internal/fixedpoint"
	"github.com/gncx-dev/gncx/internal/ledger"
	"github.com/gncx-dev/gncx/internal/model"
)

// Account is one node of the account tree. Accounts do not own their splits;
// they index the splits of the book's transactions.
//
// An Account is not safe for concurrent use.
type Account struct {
	ID          string
	Name        string
	Code        string
	Description string
	Type        model.AccountType
	Commodity   commodity.ID
	ParentID    string // empty = top-level
	Hidden      bool
	Placeholder bool

	splits []*ledger.Split
	dirty  bool
}

// New parses a raw account.
func New(rec model.AccountRecord) (*Account, error) {
	typ, err := model.ParseAccountType(rec.Type)
	if err != nil {
		return nil, model.Malformed("account", rec.ID, "type", rec.Type, err)
	}
	a := &Account{
		ID:          rec.ID,
		Name:        rec.Name,
		Code:        rec.Code,
		Description: rec.Description,
		Type:        typ,
		ParentID:    rec.ParentID,
	}
	if rec.CommodityID != "" {
		if a.Commodity, err = commodity.Parse(rec.CommoditySpace, rec.CommodityID); err != nil {
			return nil, model.Malformed("account", rec.ID, "commodity", rec.CommoditySpace+":"+rec.CommodityID, err)
		}
	}
	if a.Hidden, err = model.ParseBool(rec.Hidden); err != nil {
		return nil, model.Malformed("account", rec.ID, "hidden", rec.Hidden, err)
	}
	if a.Placeholder, err = model.ParseBool(rec.Placeholder); err != nil {
		return nil, model.Malformed("account", rec.ID, "placeholder", rec.Placeholder, err)
	}
	return a, nil
}

// IsTopLevel reports whether the account has no parent.
func (a *Account) IsTopLevel() bool { return a.ParentID == "" }

// AddTransactionSplit indexes a split under this account. A split whose ID is
// already indexed replaces the earlier object at the same position; replaced
// reports whether that happened.
func (a *Account) AddTransactionSplit(s *ledger.Split) (replaced bool) {
	a.dirty = true
	for i, old := range a.splits {
		if old.ID == s.ID {
			a.splits[i] = s
			return true
		}
	}
	a.splits = append(a.splits, s)
	return false
}

// TransactionSplits returns the account's splits ordered by transaction date.
// The list is re-sorted only when splits were added since the last call.
func (a *Account) TransactionSplits() []*ledger.Split {
	if a.dirty {
		slices.SortStableFunc(a.splits, ledger.CompareSplits)
		a.dirty = false
	}
	return append([]*ledger.Split(nil), a.splits...)
}

// SplitCount returns the number of indexed splits.
func (a *Account) SplitCount() int { return len(a.splits) }

// Balance returns the sum of split quantities, in the account's commodity.
func (a *Account) Balance() fixedpoint.Number {
	total := fixedpoint.Zero
	for _, s := range a.splits {
		total = total.Add(s.Quantity)
	}
	return total
}
