package ledger

import (
	"fmt"
)

// Rules checked by ValidateTransactions.
const (
	RuleBalanced       = "balanced"
	RuleHasSplits      = "has-splits"
	RuleKnownAccount   = "known-account"
	RuleUniqueSplitIDs = "unique-split-ids"
)

// ValidationError describes a single rule violation.
type ValidationError struct {
	Rule          string
	TransactionID string
	Description   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Rule, e.TransactionID, e.Description)
}

// AccountChecker tests whether an account ID exists in the book.
type AccountChecker interface {
	Exists(id string) bool
}

// ValidateTransactions checks each transaction for balance, split presence,
// account references and split ID uniqueness. Imbalance is reported, never fixed.
func ValidateTransactions(txs []*Transaction, accounts AccountChecker) []ValidationError {
	var errs []ValidationError

	for _, tx := range txs {
		if len(tx.splits) == 0 {
			errs = append(errs, ValidationError{
				Rule:          RuleHasSplits,
				TransactionID: tx.ID,
				Description:   "transaction has no splits",
			})
			continue
		}

		if bal := tx.Balance(); !bal.IsZero() {
			errs = append(errs, ValidationError{
				Rule:          RuleBalanced,
				TransactionID: tx.ID,
				Description:   fmt.Sprintf("split values sum to %s, not 0", bal.StringFixed(2)),
			})
		}

		seen := make(map[string]bool, len(tx.splits))
		for _, s := range tx.splits {
			if !accounts.Exists(s.AccountID) {
				errs = append(errs, ValidationError{
					Rule:          RuleKnownAccount,
					TransactionID: tx.ID,
					Description:   fmt.Sprintf("split %s references unknown account %q", s.ID, s.AccountID),
				})
			}
			if seen[s.ID] {
				errs = append(errs, ValidationError{
					Rule:          RuleUniqueSplitIDs,
					TransactionID: tx.ID,
					Description:   fmt.Sprintf("split ID %s appears more than once", s.ID),
				})
			}
			seen[s.ID] = true
		}
	}

	return errs
}
