// Package book builds the cross-linked object graph of a GnuCash book from
// its raw records and answers lookups over it.
package book

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gncx-dev/gncx/internal/accounts"
	"github.com/gncx-dev/gncx/internal/commodity"
	"github.com/gncx-dev/gncx/internal/diag"
	"github.com/gncx-dev/gncx/internal/fixedpoint"
	"github.com/gncx-dev/gncx/internal/invoice"
	"github.com/gncx-dev/gncx/internal/ledger"
	"github.com/gncx-dev/gncx/internal/logger"
	"github.com/gncx-dev/gncx/internal/model"
	"github.com/gncx-dev/gncx/internal/owners"
	"github.com/gncx-dev/gncx/internal/prices"
	"github.com/gncx-dev/gncx/internal/taxtable"
)

// Book is a fully built book. Invoices are sealed once Build returns; the
// account split lists still sort lazily on read, so a Book is not safe for
// concurrent use.
type Book struct {
	commodities  []*commodity.Commodity
	commodityMap map[commodity.ID]*commodity.Commodity
	prices       *prices.DB
	accounts     *accounts.Graph
	transactions []*ledger.Transaction
	txByID       map[string]*ledger.Transaction
	taxTables    *taxtable.Lookup
	owners       *owners.Directory
	invoices     []*invoice.Invoice
	invoiceByID  map[string]*invoice.Invoice
	invoiceByLot map[string]*invoice.Invoice
	entries      []*invoice.Entry
	diags        *diag.Recorder
}

// Option configures Build.
type Option func(*options)

type options struct {
	skipMalformed bool
	log           *zerolog.Logger
	tolerance     *fixedpoint.Number
}

// WithSkipMalformed skips records that fail to parse and records a diagnostic
// for each, instead of aborting the build.
func WithSkipMalformed() Option {
	return func(o *options) { o.skipMalformed = true }
}

// WithLogger sets the logger for diagnostics and computation warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = &l }
}

// WithTolerance sets the fully-paid tolerance of every invoice.
func WithTolerance(tol fixedpoint.Number) Option {
	return func(o *options) { o.tolerance = &tol }
}

type builder struct {
	opts options
	b    *Book
}

// Build parses records and wires them into a Book. A malformed record aborts
// the build with an error matching model.ErrMalformedRecord unless
// WithSkipMalformed is given. Records sharing an ID are merged, the last one
// winning, and reported as diagnostics.
func Build(records model.Records, opts ...Option) (*Book, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	log := logger.WithComponent("book")
	if o.log != nil {
		log = *o.log
	}

	bl := &builder{opts: o, b: &Book{
		commodityMap: make(map[commodity.ID]*commodity.Commodity),
		txByID:       make(map[string]*ledger.Transaction),
		invoiceByID:  make(map[string]*invoice.Invoice),
		invoiceByLot: make(map[string]*invoice.Invoice),
		diags:        diag.NewRecorder(log),
	}}

	steps := []struct {
		name string
		run  func(model.Records) error
	}{
		{"commodities", bl.buildCommodities},
		{"prices", bl.buildPrices},
		{"accounts", bl.buildAccounts},
		{"tax tables", bl.buildTaxTables},
		{"owners", bl.buildOwners},
		{"transactions", bl.buildTransactions},
		{"invoices", bl.buildInvoices},
		{"entries", bl.buildEntries},
	}
	for _, step := range steps {
		if err := step.run(records); err != nil {
			return nil, fmt.Errorf("building %s: %w", step.name, err)
		}
	}

	bl.linkPayments()
	for _, inv := range bl.b.invoices {
		inv.Seal()
	}

	log.Debug().
		Int("accounts", len(bl.b.accounts.All())).
		Int("transactions", len(bl.b.transactions)).
		Int("invoices", len(bl.b.invoices)).
		Int("diagnostics", bl.b.diags.Len()).
		Msg("book built")
	return bl.b, nil
}

// reject returns err when malformed records abort the build, and records a
// diagnostic and returns nil when they are skipped.
func (bl *builder) reject(err error) error {
	if !bl.opts.skipMalformed {
		return err
	}
	subject := ""
	var mre *model.MalformedRecordError
	if errors.As(err, &mre) {
		subject = mre.ID
	}
	bl.b.diags.Warn(diag.KindMalformed, subject, "skipped: %v", err)
	return nil
}

// dedupe keeps the last of several items sharing an ID, at the position of the first.
func dedupe[T any](items []T, id func(T) string, kind string, diags *diag.Recorder) []T {
	index := make(map[string]int, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		k := id(it)
		if i, ok := index[k]; ok {
			diags.Warn(diag.KindDuplicate, k, "%s defined more than once, keeping the last definition", kind)
			out[i] = it
			continue
		}
		index[k] = len(out)
		out = append(out, it)
	}
	return out
}

func (bl *builder) buildCommodities(rs model.Records) error {
	for _, rec := range rs.Commodities {
		id, err := commodity.Parse(rec.Space, rec.ID)
		if err != nil {
			err = model.Malformed("commodity", rec.Space+":"+rec.ID, "id", rec.ID, err)
		}
		var fraction int64
		if err == nil && rec.Fraction != "" {
			if fraction, err = strconv.ParseInt(rec.Fraction, 10, 64); err != nil {
				err = model.Malformed("commodity", rec.Space+":"+rec.ID, "fraction", rec.Fraction, err)
			}
		}
		if err != nil {
			if err := bl.reject(err); err != nil {
				return err
			}
			continue
		}
		c := &commodity.Commodity{ID: id, Name: rec.Name, Fraction: fraction}
		if _, dup := bl.b.commodityMap[id]; dup {
			bl.b.diags.Warn(diag.KindDuplicate, id.String(), "commodity defined more than once, keeping the last definition")
			for i, old := range bl.b.commodities {
				if old.ID == id {
					bl.b.commodities[i] = c
				}
			}
		} else {
			bl.b.commodities = append(bl.b.commodities, c)
		}
		bl.b.commodityMap[id] = c
	}
	return nil
}

func (bl *builder) buildPrices(rs model.Records) error {
	var list []*prices.Price
	for _, rec := range rs.Prices {
		p, err := prices.New(rec)
		if err != nil {
			if err := bl.reject(err); err != nil {
				return err
			}
			continue
		}
		list = append(list, p)
	}
	list = dedupe(list, func(p *prices.Price) string { return p.ID }, "price", bl.b.diags)
	bl.b.prices = prices.NewDB(list)
	return nil
}

func (bl *builder) buildAccounts(rs model.Records) error {
	var list []*accounts.Account
	for _, rec := range rs.Accounts {
		a, err := accounts.New(rec)
		if err != nil {
			if err := bl.reject(err); err != nil {
				return err
			}
			continue
		}
		list = append(list, a)
	}
	bl.b.accounts = accounts.NewGraph(list, bl.b.diags)
	return nil
}

func (bl *builder) buildTaxTables(rs model.Records) error {
	var list []*taxtable.Table
	for _, rec := range rs.TaxTables {
		t, err := taxtable.New(rec)
		if err != nil {
			if err := bl.reject(err); err != nil {
				return err
			}
			continue
		}
		for _, e := range t.Entries {
			if e.Type != taxtable.EntryTypePercent {
				bl.b.diags.Warn(diag.KindUnsupported, t.ID, "tax table %q has a %s entry; it computes as 0%%", t.Name, e.Type)
				break
			}
		}
		list = append(list, t)
	}
	list = dedupe(list, func(t *taxtable.Table) string { return t.ID }, "tax table", bl.b.diags)
	bl.b.taxTables = taxtable.NewLookup(list)
	return nil
}

func (bl *builder) buildOwners(rs model.Records) error {
	d := owners.NewDirectory(bl.b.diags)
	bl.b.owners = d

	for _, rec := range rs.BillTerms {
		bt, err := owners.NewBillTerm(rec)
		if err != nil {
			if err := bl.reject(err); err != nil {
				return err
			}
			continue
		}
		d.AddBillTerm(bt)
	}
	for _, rec := range rs.Customers {
		c, err := owners.NewCustomer(rec)
		if err != nil {
			if err := bl.reject(err); err != nil {
				return err
			}
			continue
		}
		d.AddCustomer(c)
	}
	for _, rec := range rs.Vendors {
		v, err := owners.NewVendor(rec)
		if err != nil {
			if err := bl.reject(err); err != nil {
				return err
			}
			continue
		}
		d.AddVendor(v)
	}
	for _, rec := range rs.Employees {
		e, err := owners.NewEmployee(rec)
		if err != nil {
			if err := bl.reject(err); err != nil {
				return err
			}
			continue
		}
		d.AddEmployee(e)
	}
	for _, rec := range rs.Jobs {
		j, err := owners.NewJob(rec)
		if err != nil {
			if err := bl.reject(err); err != nil {
				return err
			}
			continue
		}
		d.AddJob(j)
	}
	return nil
}

func (bl *builder) buildTransactions(rs model.Records) error {
	var list []*ledger.Transaction
	for _, rec := range rs.Transactions {
		tx, err := ledger.NewTransaction(rec)
		if err != nil {
			if err := bl.reject(err); err != nil {
				return err
			}
			continue
		}
		list = append(list, tx)
	}
	bl.b.transactions = dedupe(list, func(tx *ledger.Transaction) string { return tx.ID }, "transaction", bl.b.diags)

	for _, tx := range bl.b.transactions {
		bl.b.txByID[tx.ID] = tx
		for _, s := range tx.Splits() {
			bl.b.accounts.AddTransactionSplit(s)
		}
	}
	return nil
}

func (bl *builder) buildInvoices(rs model.Records) error {
	var invOpts []invoice.Option
	if bl.opts.log != nil {
		invOpts = append(invOpts, invoice.WithLogger(*bl.opts.log))
	}
	if bl.opts.tolerance != nil {
		invOpts = append(invOpts, invoice.WithTolerance(*bl.opts.tolerance))
	}

	var list []*invoice.Invoice
	for _, rec := range rs.Invoices {
		inv, err := invoice.New(rec, bl.b, invOpts...)
		if err != nil {
			if err := bl.reject(err); err != nil {
				return err
			}
			continue
		}
		list = append(list, inv)
	}
	bl.b.invoices = dedupe(list, func(inv *invoice.Invoice) string { return inv.ID }, "invoice", bl.b.diags)

	for _, inv := range bl.b.invoices {
		bl.b.invoiceByID[inv.ID] = inv
		if inv.LotID == "" {
			continue
		}
		if prev, dup := bl.b.invoiceByLot[inv.LotID]; dup {
			bl.b.diags.Warn(diag.KindDuplicate, inv.LotID, "lot posted by invoices %s and %s, keeping %s", prev.ID, inv.ID, inv.ID)
		}
		bl.b.invoiceByLot[inv.LotID] = inv
	}
	return nil
}

func (bl *builder) buildEntries(rs model.Records) error {
	var list []*invoice.Entry
	for _, rec := range rs.Entries {
		e, err := invoice.NewEntry(rec)
		if err != nil {
			if err := bl.reject(err); err != nil {
				return err
			}
			continue
		}
		list = append(list, e)
	}
	bl.b.entries = dedupe(list, func(e *invoice.Entry) string { return e.ID }, "entry", bl.b.diags)

	for _, e := range bl.b.entries {
		inv, ok := bl.b.invoiceByID[e.OwnerInvoiceID()]
		if !ok {
			bl.b.diags.Warn(diag.KindUnresolved, e.ID, "entry references unknown invoice %q, left detached", e.OwnerInvoiceID())
			continue
		}
		if err := inv.AddEntry(e); err != nil {
			return err
		}
	}
	return nil
}

// linkPayments registers every transaction holding a payment split as a
// paying transaction of the invoice that posted the split's lot.
func (bl *builder) linkPayments() {
	for _, tx := range bl.b.transactions {
		for _, s := range tx.Splits() {
			if !s.IsPayment() {
				continue
			}
			inv, ok := bl.b.invoiceByLot[s.LotID]
			if !ok {
				continue
			}
			// Invoices are not sealed yet.
			_ = inv.AddPayingTransaction(tx)
		}
	}
}
