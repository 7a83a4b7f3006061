package book

import (
	"github.com/gncx-dev/gncx/internal/accounts"
	"github.com/gncx-dev/gncx/internal/commodity"
	"github.com/gncx-dev/gncx/internal/diag"
	"github.com/gncx-dev/gncx/internal/invoice"
	"github.com/gncx-dev/gncx/internal/ledger"
	"github.com/gncx-dev/gncx/internal/model"
	"github.com/gncx-dev/gncx/internal/owners"
	"github.com/gncx-dev/gncx/internal/prices"
	"github.com/gncx-dev/gncx/internal/taxtable"
)

var _ invoice.Resolver = (*Book)(nil)

// Accounts returns the account graph.
func (b *Book) Accounts() *accounts.Graph { return b.accounts }

// Account returns an account by ID.
func (b *Book) Account(id string) (*accounts.Account, bool) { return b.accounts.Get(id) }

// AccountType returns the type of an account.
func (b *Book) AccountType(id string) (model.AccountType, bool) { return b.accounts.Type(id) }

// Transactions returns all transactions in book order.
func (b *Book) Transactions() []*ledger.Transaction { return b.transactions }

// Transaction returns a transaction by ID.
func (b *Book) Transaction(id string) (*ledger.Transaction, bool) {
	tx, ok := b.txByID[id]
	return tx, ok
}

// Invoices returns all invoices, bills and vouchers in book order.
func (b *Book) Invoices() []*invoice.Invoice { return b.invoices }

// Invoice returns an invoice by ID.
func (b *Book) Invoice(id string) (*invoice.Invoice, bool) {
	inv, ok := b.invoiceByID[id]
	return inv, ok
}

// InvoiceByLot returns the invoice that posted a lot.
func (b *Book) InvoiceByLot(lotID string) (*invoice.Invoice, bool) {
	inv, ok := b.invoiceByLot[lotID]
	return inv, ok
}

// InvoicesByOwner returns the invoices of one owner in book order.
func (b *Book) InvoicesByOwner(o model.Owner) []*invoice.Invoice {
	var result []*invoice.Invoice
	for _, inv := range b.invoices {
		if inv.Owner == o {
			result = append(result, inv)
		}
	}
	return result
}

// Entries returns all entries, including those attached to no invoice.
func (b *Book) Entries() []*invoice.Entry { return b.entries }

// TaxTables returns the tax table lookup.
func (b *Book) TaxTables() *taxtable.Lookup { return b.taxTables }

// TaxTable returns a tax table by ID.
func (b *Book) TaxTable(id string) (*taxtable.Table, bool) { return b.taxTables.Get(id) }

// Owners returns the customers, vendors, employees, jobs and billing terms.
func (b *Book) Owners() *owners.Directory { return b.owners }

// JobOwnerType returns the owner type of a job.
func (b *Book) JobOwnerType(jobID string) (model.OwnerType, error) {
	return b.owners.JobOwnerType(jobID)
}

// Commodities returns the commodity definitions in book order.
func (b *Book) Commodities() []*commodity.Commodity { return b.commodities }

// Commodity returns a commodity definition.
func (b *Book) Commodity(id commodity.ID) (*commodity.Commodity, bool) {
	c, ok := b.commodityMap[id]
	return c, ok
}

// Prices returns the price database.
func (b *Book) Prices() *prices.DB { return b.prices }

// Diagnostics returns the findings recorded while building.
func (b *Book) Diagnostics() []diag.Diagnostic { return b.diags.All() }
