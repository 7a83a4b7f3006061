package invoice

import (
	"fmt"
	"time"

	"github.com/gncx-dev/gncx/internal/fixedpoint"
	"github.com/gncx-dev/gncx/internal/model"
	"github.com/gncx-dev/gncx/internal/taxtable"
)

// PriceTerms are the price and tax settings of one side of an entry.
type PriceTerms struct {
	Price       fixedpoint.Number
	Taxable     bool
	TaxIncluded bool
	TaxTableID  string
	AccountID   string
}

// Entry is one line of an invoice. InvoiceSide holds the customer-facing
// terms, BillSide the terms used by vendor bills and employee vouchers.
type Entry struct {
	ID          string
	InvoiceID   string // customer invoice this entry is on
	BillID      string // vendor bill or employee voucher this entry is on
	Date        time.Time
	DateEntered time.Time
	Description string
	Action      string
	Notes       string
	Quantity    fixedpoint.Number
	InvoiceSide PriceTerms
	BillSide    PriceTerms

	invoice *Invoice
}

// NewEntry parses a raw entry. Only the side the entry is booked on needs a price.
func NewEntry(rec model.EntryRecord) (*Entry, error) {
	e := &Entry{
		ID:          rec.ID,
		InvoiceID:   rec.InvoiceID,
		BillID:      rec.BillID,
		Description: rec.Description,
		Action:      rec.Action,
		Notes:       rec.Notes,
	}

	var err error
	if e.Date, err = model.ParseOptionalTimestamp(rec.Date); err != nil {
		return nil, model.Malformed("entry", rec.ID, "date", rec.Date, err)
	}
	if e.DateEntered, err = model.ParseOptionalTimestamp(rec.DateEntered); err != nil {
		return nil, model.Malformed("entry", rec.ID, "date-entered", rec.DateEntered, err)
	}
	if e.Quantity, err = fixedpoint.Parse(rec.Quantity); err != nil {
		return nil, model.Malformed("entry", rec.ID, "quantity", rec.Quantity, err)
	}

	if e.InvoiceSide, err = parseTerms(rec.ID, "i", rec.InvPrice, rec.InvTaxable, rec.InvTaxIncluded, rec.InvTaxTableID, rec.InvAccountID); err != nil {
		return nil, err
	}
	if e.BillSide, err = parseTerms(rec.ID, "b", rec.BillPrice, rec.BillTaxable, rec.BillTaxIncl, rec.BillTaxTableID, rec.BillAccountID); err != nil {
		return nil, err
	}
	return e, nil
}

func parseTerms(id, prefix, price, taxable, taxIncluded, taxTableID, accountID string) (PriceTerms, error) {
	pt := PriceTerms{TaxTableID: taxTableID, AccountID: accountID}
	var err error
	if price != "" {
		if pt.Price, err = fixedpoint.Parse(price); err != nil {
			return PriceTerms{}, model.Malformed("entry", id, prefix+"-price", price, err)
		}
	}
	if pt.Taxable, err = model.ParseBool(taxable); err != nil {
		return PriceTerms{}, model.Malformed("entry", id, prefix+"-taxable", taxable, err)
	}
	if pt.TaxIncluded, err = model.ParseBool(taxIncluded); err != nil {
		return PriceTerms{}, model.Malformed("entry", id, prefix+"-taxincluded", taxIncluded, err)
	}
	return pt, nil
}

// OwnerInvoiceID returns the ID of the invoice, bill or voucher the entry is on.
func (e *Entry) OwnerInvoiceID() string {
	if e.InvoiceID != "" {
		return e.InvoiceID
	}
	return e.BillID
}

// OnInvoiceSide reports whether the entry is booked on a customer invoice.
func (e *Entry) OnInvoiceSide() bool {
	return e.InvoiceID != ""
}

// Invoice returns the owning invoice, or nil for a detached entry.
func (e *Entry) Invoice() *Invoice { return e.invoice }

// terms checks f against the owning invoice and returns the side f reads
// together with the family whose rules apply.
func (e *Entry) terms(f Family) (PriceTerms, Family, error) {
	if e.invoice == nil {
		return PriceTerms{}, "", fmt.Errorf("entry %s: %w", e.ID, ErrDetached)
	}
	rf, err := e.invoice.resolve(f)
	if err != nil {
		return PriceTerms{}, "", err
	}
	return e.side(rf), rf, nil
}

func (e *Entry) side(rf Family) PriceTerms {
	if rf.usesInvoiceSide() {
		return e.InvoiceSide
	}
	return e.BillSide
}

// IsTaxable reports whether the entry is taxable under family f.
func (e *Entry) IsTaxable(f Family) (bool, error) {
	pt, _, err := e.terms(f)
	if err != nil {
		return false, err
	}
	return pt.Taxable, nil
}

// Price returns the unit price under family f.
func (e *Entry) Price(f Family) (fixedpoint.Number, error) {
	pt, _, err := e.terms(f)
	if err != nil {
		return fixedpoint.Zero, err
	}
	return pt.Price, nil
}

// ApplicableTaxPercent returns the tax rate of the entry as a fraction, 19% as 0.19.
func (e *Entry) ApplicableTaxPercent(f Family) (fixedpoint.Number, error) {
	pt, _, err := e.terms(f)
	if err != nil {
		return fixedpoint.Zero, err
	}
	return e.taxRate(pt)
}

// Sum returns price times quantity under family f.
func (e *Entry) Sum(f Family) (fixedpoint.Number, error) {
	pt, _, err := e.terms(f)
	if err != nil {
		return fixedpoint.Zero, err
	}
	return e.sum(pt), nil
}

// SumInclTaxes returns the entry amount including tax under family f.
func (e *Entry) SumInclTaxes(f Family) (fixedpoint.Number, error) {
	pt, _, err := e.terms(f)
	if err != nil {
		return fixedpoint.Zero, err
	}
	return e.sumInclTaxes(pt)
}

// SumExclTaxes returns the entry amount excluding tax under family f.
func (e *Entry) SumExclTaxes(f Family) (fixedpoint.Number, error) {
	pt, _, err := e.terms(f)
	if err != nil {
		return fixedpoint.Zero, err
	}
	return e.sumExclTaxes(pt)
}

// taxRate resolves the rate of one side. A reference to a missing table, an
// empty table or a VALUE-type first entry all yield 0 with a warning.
func (e *Entry) taxRate(pt PriceTerms) (fixedpoint.Number, error) {
	if !pt.Taxable {
		return fixedpoint.Zero, nil
	}
	if pt.TaxTableID == "" {
		return fixedpoint.Zero, fmt.Errorf("entry %s is taxable: %w", e.ID, ErrTaxTableNotFound)
	}

	log := e.invoice.log
	table, ok := e.invoice.resolver.TaxTable(pt.TaxTableID)
	if !ok {
		log.Warn().Str("entry", e.ID).Str("taxtable", pt.TaxTableID).Msg("tax table not found, using 0%")
		return fixedpoint.Zero, nil
	}
	first, ok := table.First()
	if !ok {
		log.Warn().Str("entry", e.ID).Str("taxtable", table.ID).Msg("tax table has no entries, using 0%")
		return fixedpoint.Zero, nil
	}
	if first.Type != taxtable.EntryTypePercent {
		log.Warn().Str("entry", e.ID).Str("taxtable", table.ID).Str("type", string(first.Type)).
			Msg("tax table entry is not a percentage, using 0%")
		return fixedpoint.Zero, nil
	}
	return first.Amount.Div(fixedpoint.Hundred)
}

func (e *Entry) sum(pt PriceTerms) fixedpoint.Number {
	return pt.Price.Mul(e.Quantity)
}

func (e *Entry) sumInclTaxes(pt PriceTerms) (fixedpoint.Number, error) {
	sum := e.sum(pt)
	if pt.TaxIncluded {
		return sum, nil
	}
	rate, err := e.taxRate(pt)
	if err != nil {
		return fixedpoint.Zero, err
	}
	return sum.Mul(fixedpoint.One.Add(rate)), nil
}

func (e *Entry) sumExclTaxes(pt PriceTerms) (fixedpoint.Number, error) {
	sum := e.sum(pt)
	if !pt.TaxIncluded {
		return sum, nil
	}
	rate, err := e.taxRate(pt)
	if err != nil {
		return fixedpoint.Zero, err
	}
	excl, err := sum.Div(fixedpoint.One.Add(rate))
	if err != nil {
		return fixedpoint.Zero, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	return excl, nil
}
