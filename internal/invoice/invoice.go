// Package invoice computes the amounts, taxes and payment status of customer
// invoices, vendor bills, employee vouchers and job invoices.
package invoice

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gncx-dev/gncx/internal/commodity"
	"github.com/gncx-dev/gncx/internal/fixedpoint"
	"github.com/gncx-dev/gncx/internal/ledger"
	"github.com/gncx-dev/gncx/internal/logger"
	"github.com/gncx-dev/gncx/internal/model"
	"github.com/gncx-dev/gncx/internal/taxtable"
)

// DefaultTolerance absorbs rounding drift when comparing owed and paid amounts.
var DefaultTolerance = fixedpoint.MustParse("0.005")

// Resolver looks up what an invoice needs from the rest of the book.
type Resolver interface {
	TaxTable(id string) (*taxtable.Table, bool)
	AccountType(id string) (model.AccountType, bool)
	JobOwnerType(jobID string) (model.OwnerType, error)
}

// TaxAmount is the tax collected at one rate.
type TaxAmount struct {
	Percent fixedpoint.Number // fraction, 0.19 for 19%
	Amount  fixedpoint.Number
}

// Invoice is a customer invoice, vendor bill, employee voucher or job invoice.
// Entries and paying transactions are added while the book is built; after
// Seal the invoice only answers computations.
//
// An Invoice is not safe for concurrent mutation.
type Invoice struct {
	ID                string
	Number            string
	Owner             model.Owner
	Currency          commodity.ID
	DateOpened        time.Time
	DatePosted        time.Time
	LotID             string // empty until posted
	PostTransactionID string
	PostAccountID     string
	TermsID           string
	BillingID         string
	Notes             string
	Active            bool
	Tolerance         fixedpoint.Number

	entries   []*Entry
	paying    []*ledger.Transaction
	payingIDs map[string]bool
	sealed    bool
	resolver  Resolver
	log       zerolog.Logger
}

// Option configures an Invoice.
type Option func(*Invoice)

// WithTolerance sets the tolerance used by IsFullyPaid and IsNotFullyPaid.
func WithTolerance(tol fixedpoint.Number) Option {
	return func(inv *Invoice) { inv.Tolerance = tol.Abs() }
}

// WithLogger sets the logger that receives computation warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(inv *Invoice) { inv.log = l }
}

// New parses a raw invoice. r answers the tax table, account type and job
// lookups the computations need.
func New(rec model.InvoiceRecord, r Resolver, opts ...Option) (*Invoice, error) {
	inv := &Invoice{
		ID:                rec.ID,
		Number:            rec.Number,
		LotID:             rec.PostLotID,
		PostTransactionID: rec.PostTxnID,
		PostAccountID:     rec.PostAccountID,
		TermsID:           rec.TermsID,
		BillingID:         rec.BillingID,
		Notes:             rec.Notes,
		Tolerance:         DefaultTolerance,
		payingIDs:         make(map[string]bool),
		resolver:          r,
		log:               logger.WithComponent("invoice"),
	}

	typ, err := model.ParseOwnerType(rec.OwnerType)
	if err != nil {
		return nil, model.Malformed("invoice", rec.ID, "owner-type", rec.OwnerType, err)
	}
	inv.Owner = model.Owner{Type: typ, ID: rec.OwnerID}

	if rec.CurrencyID != "" {
		if inv.Currency, err = commodity.Parse(rec.CurrencySpace, rec.CurrencyID); err != nil {
			return nil, model.Malformed("invoice", rec.ID, "currency", rec.CurrencyID, err)
		}
	}
	if inv.DateOpened, err = model.ParseOptionalTimestamp(rec.DateOpened); err != nil {
		return nil, model.Malformed("invoice", rec.ID, "date-opened", rec.DateOpened, err)
	}
	if inv.DatePosted, err = model.ParseOptionalTimestamp(rec.DatePosted); err != nil {
		return nil, model.Malformed("invoice", rec.ID, "date-posted", rec.DatePosted, err)
	}
	inv.Active = true
	if rec.Active != "" {
		if inv.Active, err = model.ParseBool(rec.Active); err != nil {
			return nil, model.Malformed("invoice", rec.ID, "active", rec.Active, err)
		}
	}

	for _, opt := range opts {
		opt(inv)
	}
	return inv, nil
}

// Type returns the owner type of the invoice.
func (inv *Invoice) Type() model.OwnerType { return inv.Owner.Type }

// NaturalFamily returns the family matching the invoice's owner type.
func (inv *Invoice) NaturalFamily() Family {
	f, err := NaturalFamily(inv.Owner.Type)
	if err != nil {
		return ""
	}
	return f
}

// IsPosted reports whether the invoice has been posted to the ledger.
func (inv *Invoice) IsPosted() bool { return inv.LotID != "" }

// Entries returns the entries in book order.
func (inv *Invoice) Entries() []*Entry {
	return append([]*Entry(nil), inv.entries...)
}

// PayingTransactions returns the transactions registered as payments.
func (inv *Invoice) PayingTransactions() []*ledger.Transaction {
	return append([]*ledger.Transaction(nil), inv.paying...)
}

// Sealed reports whether Seal has been called.
func (inv *Invoice) Sealed() bool { return inv.sealed }

// AddEntry attaches an entry to the invoice. An entry with an already attached
// ID replaces the earlier one.
func (inv *Invoice) AddEntry(e *Entry) error {
	if inv.sealed {
		return fmt.Errorf("adding entry %s to invoice %s: %w", e.ID, inv.ID, ErrSealed)
	}
	for i, old := range inv.entries {
		if old.ID == e.ID {
			old.invoice = nil
			inv.entries[i] = e
			e.invoice = inv
			return nil
		}
	}
	inv.entries = append(inv.entries, e)
	e.invoice = inv
	return nil
}

// AddPayingTransaction registers a transaction that pays the invoice.
// Registering the same transaction again has no effect.
func (inv *Invoice) AddPayingTransaction(tx *ledger.Transaction) error {
	if inv.sealed {
		return fmt.Errorf("adding payment %s to invoice %s: %w", tx.ID, inv.ID, ErrSealed)
	}
	if inv.payingIDs[tx.ID] {
		return nil
	}
	inv.payingIDs[tx.ID] = true
	inv.paying = append(inv.paying, tx)
	return nil
}

// Seal forbids further mutation.
func (inv *Invoice) Seal() { inv.sealed = true }

// resolve checks that f may be computed on the invoice and returns the family
// whose rules apply. The job family follows the job's owner.
func (inv *Invoice) resolve(f Family) (Family, error) {
	if !f.Accepts(inv.Owner.Type) {
		return "", &WrongOwnerTypeError{InvoiceID: inv.ID, OwnerType: inv.Owner.Type, Family: f}
	}
	if f != FamilyJob {
		return f, nil
	}
	t, err := inv.resolver.JobOwnerType(inv.Owner.ID)
	if err != nil {
		return "", fmt.Errorf("invoice %s: %w", inv.ID, err)
	}
	switch t {
	case model.OwnerTypeCustomer:
		return FamilyCustomer, nil
	case model.OwnerTypeVendor:
		return FamilyVendor, nil
	}
	return "", fmt.Errorf("invoice %s: job %s owned by %q: %w", inv.ID, inv.Owner.ID, t, ErrUnknownOwnerType)
}

// sumEntries adds up fn over the entries booked on the side rf reads.
func (inv *Invoice) sumEntries(rf Family, fn func(*Entry, PriceTerms) (fixedpoint.Number, error)) (fixedpoint.Number, error) {
	total := fixedpoint.Zero
	for _, e := range inv.entries {
		if e.OnInvoiceSide() != rf.usesInvoiceSide() {
			continue
		}
		v, err := fn(e, e.side(rf))
		if err != nil {
			return fixedpoint.Zero, err
		}
		total = total.Add(v)
	}
	return total, nil
}

// AmountWithTaxes returns the total owed including tax.
func (inv *Invoice) AmountWithTaxes(f Family) (fixedpoint.Number, error) {
	rf, err := inv.resolve(f)
	if err != nil {
		return fixedpoint.Zero, err
	}
	return inv.sumEntries(rf, (*Entry).sumInclTaxes)
}

// AmountWithoutTaxes returns the total owed excluding tax.
func (inv *Invoice) AmountWithoutTaxes(f Family) (fixedpoint.Number, error) {
	rf, err := inv.resolve(f)
	if err != nil {
		return fixedpoint.Zero, err
	}
	return inv.sumEntries(rf, (*Entry).sumExclTaxes)
}

// AmountPaidWithTaxes returns the amount paid by the registered paying
// transactions. Customer payments are the credits to receivable accounts;
// vendor and employee payments are the debits to payable accounts.
func (inv *Invoice) AmountPaidWithTaxes(f Family) (fixedpoint.Number, error) {
	rf, err := inv.resolve(f)
	if err != nil {
		return fixedpoint.Zero, err
	}
	return inv.amountPaid(rf), nil
}

func (inv *Invoice) amountPaid(rf Family) fixedpoint.Number {
	want := rf.paymentAccountType()
	paid := fixedpoint.Zero
	for _, tx := range inv.paying {
		for _, s := range tx.Splits() {
			if t, ok := inv.resolver.AccountType(s.AccountID); !ok || t != want {
				continue
			}
			if rf == FamilyCustomer {
				if !s.Value.IsPositive() {
					paid = paid.Sub(s.Value)
				}
			} else if s.Value.IsPositive() {
				paid = paid.Add(s.Value)
			}
		}
	}
	return paid
}

// AmountUnpaidWithTaxes returns AmountWithTaxes minus AmountPaidWithTaxes.
func (inv *Invoice) AmountUnpaidWithTaxes(f Family) (fixedpoint.Number, error) {
	rf, err := inv.resolve(f)
	if err != nil {
		return fixedpoint.Zero, err
	}
	with, err := inv.sumEntries(rf, (*Entry).sumInclTaxes)
	if err != nil {
		return fixedpoint.Zero, err
	}
	return with.Sub(inv.amountPaid(rf)), nil
}

// AmountPaidWithoutTaxes returns the entries' amounts excluding tax. Unlike
// AmountPaidWithTaxes it does not look at the paying transactions.
func (inv *Invoice) AmountPaidWithoutTaxes(f Family) (fixedpoint.Number, error) {
	rf, err := inv.resolve(f)
	if err != nil {
		return fixedpoint.Zero, err
	}
	return inv.sumEntries(rf, (*Entry).sumExclTaxes)
}

// IsNotFullyPaid reports whether the amount owed exceeds the amount paid by
// more than the invoice's Tolerance.
func (inv *Invoice) IsNotFullyPaid(f Family) (bool, error) {
	return inv.isNotFullyPaid(f, inv.Tolerance)
}

// IsFullyPaid is the negation of IsNotFullyPaid.
func (inv *Invoice) IsFullyPaid(f Family) (bool, error) {
	return inv.IsFullyPaidWithin(f, inv.Tolerance)
}

// IsFullyPaidWithin is IsFullyPaid with an explicit tolerance.
func (inv *Invoice) IsFullyPaidWithin(f Family, tolerance fixedpoint.Number) (bool, error) {
	notPaid, err := inv.isNotFullyPaid(f, tolerance)
	if err != nil {
		return false, err
	}
	return !notPaid, nil
}

func (inv *Invoice) isNotFullyPaid(f Family, tolerance fixedpoint.Number) (bool, error) {
	rf, err := inv.resolve(f)
	if err != nil {
		return false, err
	}
	with, err := inv.sumEntries(rf, (*Entry).sumInclTaxes)
	if err != nil {
		return false, err
	}
	return with.IsGreaterThan(inv.amountPaid(rf), tolerance), nil
}

// Taxes returns the tax collected per distinct rate, in order of first occurrence.
func (inv *Invoice) Taxes(f Family) ([]TaxAmount, error) {
	rf, err := inv.resolve(f)
	if err != nil {
		return nil, err
	}

	var taxes []TaxAmount
	index := make(map[string]int)
	for _, e := range inv.entries {
		if e.OnInvoiceSide() != rf.usesInvoiceSide() {
			continue
		}
		pt := e.side(rf)
		rate, err := e.taxRate(pt)
		if err != nil {
			return nil, err
		}
		incl, err := e.sumInclTaxes(pt)
		if err != nil {
			return nil, err
		}
		excl, err := e.sumExclTaxes(pt)
		if err != nil {
			return nil, err
		}

		key := rate.String()
		i, ok := index[key]
		if !ok {
			i = len(taxes)
			index[key] = i
			taxes = append(taxes, TaxAmount{Percent: rate})
		}
		taxes[i].Amount = taxes[i].Amount.Add(incl.Sub(excl))
	}
	return taxes, nil
}
