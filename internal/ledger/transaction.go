// Package ledger models transactions and their splits.
package ledger

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gncx-dev/gncx/internal/commodity"
	"github.com/gncx-dev/gncx/internal/fixedpoint"
	"github.com/gncx-dev/gncx/internal/model"
)

// ErrSplitNotFound is returned when a transaction has no split at the requested position or ID.
var ErrSplitNotFound = errors.New("split not found")

// Split is one debit/credit line of a transaction, tied to one account.
// Value is in the transaction currency, Quantity in the account commodity;
// the two are never converted into each other.
type Split struct {
	ID             string
	AccountID      string
	Memo           string
	Action         model.SplitAction
	ReconcileState string
	Value          fixedpoint.Number
	Quantity       fixedpoint.Number
	LotID          string

	tx *Transaction
}

// Transaction returns the owning transaction.
func (s *Split) Transaction() *Transaction { return s.tx }

// IsPayment reports whether the split pays a lot.
func (s *Split) IsPayment() bool {
	return s.LotID != "" && s.Action == model.SplitActionPayment
}

// Transaction is a balanced (or not) set of splits.
type Transaction struct {
	ID          string
	Currency    commodity.ID
	Number      string
	Description string
	DatePosted  time.Time
	DateEntered time.Time

	splits []*Split
}

// NewTransaction parses a raw transaction and materializes its splits.
func NewTransaction(rec model.TransactionRecord) (*Transaction, error) {
	tx := &Transaction{
		ID:          rec.ID,
		Number:      rec.Number,
		Description: rec.Description,
	}

	if rec.CurrencyID != "" {
		cur, err := commodity.Parse(rec.CurrencySpace, rec.CurrencyID)
		if err != nil {
			return nil, model.Malformed("transaction", rec.ID, "currency", rec.CurrencySpace+":"+rec.CurrencyID, err)
		}
		tx.Currency = cur
	}

	var err error
	if tx.DatePosted, err = model.ParseTimestamp(rec.DatePosted); err != nil {
		return nil, model.Malformed("transaction", rec.ID, "date-posted", rec.DatePosted, err)
	}
	if tx.DateEntered, err = model.ParseOptionalTimestamp(rec.DateEntered); err != nil {
		return nil, model.Malformed("transaction", rec.ID, "date-entered", rec.DateEntered, err)
	}

	tx.splits = make([]*Split, 0, len(rec.Splits))
	for _, sr := range rec.Splits {
		s, err := newSplit(tx, sr)
		if err != nil {
			return nil, err
		}
		tx.splits = append(tx.splits, s)
	}
	return tx, nil
}

func newSplit(tx *Transaction, rec model.SplitRecord) (*Split, error) {
	value, err := fixedpoint.Parse(rec.Value)
	if err != nil {
		return nil, model.Malformed("split", rec.ID, "value", rec.Value, err)
	}
	quantity := value
	if rec.Quantity != "" {
		quantity, err = fixedpoint.Parse(rec.Quantity)
		if err != nil {
			return nil, model.Malformed("split", rec.ID, "quantity", rec.Quantity, err)
		}
	}
	return &Split{
		ID:             rec.ID,
		AccountID:      rec.AccountID,
		Memo:           rec.Memo,
		Action:         model.ParseSplitAction(rec.Action),
		ReconcileState: rec.ReconcileState,
		Value:          value,
		Quantity:       quantity,
		LotID:          rec.LotID,
		tx:             tx,
	}, nil
}

// Splits returns the splits in record order.
func (t *Transaction) Splits() []*Split {
	return append([]*Split(nil), t.splits...)
}

// SplitCount returns the number of splits.
func (t *Transaction) SplitCount() int { return len(t.splits) }

// FirstSplit returns the first split.
func (t *Transaction) FirstSplit() (*Split, error) {
	return t.splitAt(0)
}

// SecondSplit returns the second split.
func (t *Transaction) SecondSplit() (*Split, error) {
	return t.splitAt(1)
}

func (t *Transaction) splitAt(i int) (*Split, error) {
	if i >= len(t.splits) {
		return nil, fmt.Errorf("transaction %s has %d splits, want index %d: %w", t.ID, len(t.splits), i, ErrSplitNotFound)
	}
	return t.splits[i], nil
}

// SplitByID returns the split with the given ID.
func (t *Transaction) SplitByID(id string) (*Split, error) {
	for _, s := range t.splits {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("transaction %s split %s: %w", t.ID, id, ErrSplitNotFound)
}

// SplitsForAccount returns the splits booked to an account.
func (t *Transaction) SplitsForAccount(accountID string) []*Split {
	var out []*Split
	for _, s := range t.splits {
		if s.AccountID == accountID {
			out = append(out, s)
		}
	}
	return out
}

// Balance returns the sum of all split values.
func (t *Transaction) Balance() fixedpoint.Number {
	total := fixedpoint.Zero
	for _, s := range t.splits {
		total = total.Add(s.Value)
	}
	return total
}

// IsBalanced reports whether the split values sum to zero.
func (t *Transaction) IsBalanced() bool {
	return t.Balance().IsZero()
}

// CompareSplits orders splits by posted date, then entered date, then ID.
func CompareSplits(a, b *Split) int {
	ta, tb := a.tx, b.tx
	if ta != nil && tb != nil {
		if c := ta.DatePosted.Compare(tb.DatePosted); c != 0 {
			return c
		}
		if c := ta.DateEntered.Compare(tb.DateEntered); c != 0 {
			return c
		}
	}
	return cmp.Compare(strings.ToLower(a.ID), strings.ToLower(b.ID))
}
