// Package report computes per-invoice payment status over a book and renders
// it as a terminal table or CSV.
package report

import (
	"sort"
	"time"

	"github.com/gncx-dev/gncx/internal/commodity"
	"github.com/gncx-dev/gncx/internal/diag"
	"github.com/gncx-dev/gncx/internal/fixedpoint"
	"github.com/gncx-dev/gncx/internal/invoice"
	"github.com/gncx-dev/gncx/internal/logger"
	"github.com/gncx-dev/gncx/internal/owners"
)

// Book is what the report reads.
type Book interface {
	Invoices() []*invoice.Invoice
	Owners() *owners.Directory
}

// Row is the computed status of one invoice.
type Row struct {
	InvoiceID    string
	Number       string
	Owner        string
	Family       invoice.Family
	Currency     commodity.ID
	Posted       time.Time // zero when not posted
	Due          time.Time // posting date without billing terms; zero when not posted
	WithTaxes    fixedpoint.Number
	WithoutTaxes fixedpoint.Number
	Paid         fixedpoint.Number
	Unpaid       fixedpoint.Number
	FullyPaid    bool
}

// Total sums the rows of one currency.
type Total struct {
	Currency  commodity.ID
	WithTaxes fixedpoint.Number
	Paid      fixedpoint.Number
	Unpaid    fixedpoint.Number
}

// Options selects the invoices to report.
type Options struct {
	Family     invoice.Family // empty: each invoice's own family
	UnpaidOnly bool
	PostedOnly bool
	AsOf       time.Time // with UnpaidOnly, keeps only posted invoices due by then; zero disables
}

// Report holds the rows that computed and one diagnostic per invoice that did not.
type Report struct {
	Rows     []Row
	Failures []diag.Diagnostic
}

// Invoices computes a row per selected invoice. An invoice whose computation
// fails is left out and reported in Failures; the others are still computed.
func Invoices(b Book, opts Options) *Report {
	log := logger.WithComponent("report")
	rec := diag.NewRecorder(log)
	rep := &Report{}

	for _, inv := range b.Invoices() {
		f := opts.Family
		if f == "" {
			f = inv.NaturalFamily()
		}
		if !f.Accepts(inv.Type()) {
			continue
		}
		if opts.PostedOnly && !inv.IsPosted() {
			continue
		}
		row, err := compute(b, inv, f)
		if err != nil {
			rec.Warn(diag.KindComputeFailure, inv.ID, "%v", err)
			continue
		}
		if opts.UnpaidOnly {
			if row.FullyPaid {
				continue
			}
			if !opts.AsOf.IsZero() && (row.Due.IsZero() || row.Due.After(opts.AsOf)) {
				continue
			}
		}
		rep.Rows = append(rep.Rows, row)
	}
	rep.Failures = rec.All()

	log.Debug().Int("rows", len(rep.Rows)).Int("failures", len(rep.Failures)).Msg("invoice report computed")
	return rep
}

func compute(b Book, inv *invoice.Invoice, f invoice.Family) (Row, error) {
	row := Row{
		InvoiceID: inv.ID,
		Number:    inv.Number,
		Owner:     b.Owners().OwnerName(inv.Owner),
		Family:    f,
		Currency:  inv.Currency,
		Posted:    inv.DatePosted,
	}
	var err error
	if row.WithTaxes, err = inv.AmountWithTaxes(f); err != nil {
		return Row{}, err
	}
	if row.WithoutTaxes, err = inv.AmountWithoutTaxes(f); err != nil {
		return Row{}, err
	}
	if row.Paid, err = inv.AmountPaidWithTaxes(f); err != nil {
		return Row{}, err
	}
	if row.Unpaid, err = inv.AmountUnpaidWithTaxes(f); err != nil {
		return Row{}, err
	}
	if row.FullyPaid, err = inv.IsFullyPaid(f); err != nil {
		return Row{}, err
	}
	switch bt, ok := terms(b.Owners(), inv); {
	case !inv.IsPosted():
		row.Posted = time.Time{}
	case ok:
		row.Due = bt.DueDate(inv.DatePosted)
	default:
		// Without billing terms an invoice is due when posted.
		row.Due = inv.DatePosted
	}
	return row, nil
}

// terms prefers the invoice's own billing term over its owner's.
func terms(d *owners.Directory, inv *invoice.Invoice) (*owners.BillTerm, bool) {
	if inv.TermsID != "" {
		if bt, ok := d.BillTerm(inv.TermsID); ok {
			return bt, true
		}
	}
	return d.Terms(inv.Owner)
}

// Totals sums the rows per currency, ordered by currency.
func (r *Report) Totals() []Total {
	byCurrency := make(map[commodity.ID]*Total)
	for _, row := range r.Rows {
		t, ok := byCurrency[row.Currency]
		if !ok {
			t = &Total{Currency: row.Currency}
			byCurrency[row.Currency] = t
		}
		t.WithTaxes = t.WithTaxes.Add(row.WithTaxes)
		t.Paid = t.Paid.Add(row.Paid)
		t.Unpaid = t.Unpaid.Add(row.Unpaid)
	}
	totals := make([]Total, 0, len(byCurrency))
	for _, t := range byCurrency {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Currency.String() < totals[j].Currency.String() })
	return totals
}
