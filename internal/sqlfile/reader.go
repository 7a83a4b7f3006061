// Package sqlfile reads GnuCash books stored in SQLite databases.
package sqlfile

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/gncx-dev/gncx/internal/model"
)

// Format is the registry name of this reader.
const Format = "sqlite"

var sqliteMagic = []byte("SQLite format 3\x00")

// Reader reads SQLite books. The database is opened read-only.
type Reader struct{}

// Format returns "sqlite".
func (Reader) Format() string { return Format }

// Detect reports whether header starts with the SQLite file signature.
func (Reader) Detect(header []byte) bool {
	return bytes.HasPrefix(header, sqliteMagic)
}

// ReadFile loads every book object from the database at path.
func (Reader) ReadFile(ctx context.Context, path string) (model.Records, error) {
	if _, err := os.Stat(path); err != nil {
		return model.Records{}, fmt.Errorf("opening %s: %w", path, err)
	}
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return model.Records{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return model.Records{}, fmt.Errorf("opening %s: %w", path, err)
	}

	r := &reader{db: db}
	if err := r.load(ctx); err != nil {
		return model.Records{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return r.recs, nil
}

type commodityKey struct {
	space, id string
}

type reader struct {
	db          *sql.DB
	recs        model.Records
	tables      map[string]bool
	commodities map[string]commodityKey // by guid
	template    map[string]bool         // template account guids
}

func (r *reader) load(ctx context.Context) error {
	if err := r.listTables(ctx); err != nil {
		return err
	}
	steps := []struct {
		table string
		run   func(context.Context) error
	}{
		{"commodities", r.loadCommodities},
		{"prices", r.loadPrices},
		{"accounts", r.loadAccounts},
		{"transactions", r.loadTransactions},
		{"taxtables", r.loadTaxTables},
		{"billterms", r.loadBillTerms},
		{"customers", r.loadCustomers},
		{"vendors", r.loadVendors},
		{"employees", r.loadEmployees},
		{"jobs", r.loadJobs},
		{"invoices", r.loadInvoices},
		{"entries", r.loadEntries},
	}
	for _, step := range steps {
		if !r.tables[step.table] {
			continue
		}
		if err := step.run(ctx); err != nil {
			return fmt.Errorf("loading %s: %w", step.table, err)
		}
	}
	return nil
}

func (r *reader) listTables(ctx context.Context) error {
	r.tables = make(map[string]bool)
	return r.query(ctx, "SELECT name FROM sqlite_master WHERE type = 'table'", 1, func(c []sql.NullString) error {
		r.tables[c[0].String] = true
		return nil
	})
}

// query runs q and hands each row to fn as n nullable strings.
func (r *reader) query(ctx context.Context, q string, n int, fn func([]sql.NullString) error) error {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return err
	}
	defer rows.Close()

	cols := make([]sql.NullString, n)
	ptrs := make([]any, n)
	for i := range cols {
		ptrs[i] = &cols[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		if err := fn(cols); err != nil {
			return err
		}
	}
	return rows.Err()
}

// fraction renders a num/denom column pair the way the XML format writes it.
func fraction(num, denom sql.NullString) string {
	if !num.Valid {
		return ""
	}
	if !denom.Valid {
		return num.String
	}
	return num.String + "/" + denom.String
}

func (r *reader) commodity(guid sql.NullString) commodityKey {
	return r.commodities[guid.String]
}

func (r *reader) loadCommodities(ctx context.Context) error {
	r.commodities = make(map[string]commodityKey)
	return r.query(ctx, "SELECT guid, namespace, mnemonic, fullname, fraction FROM commodities", 5, func(c []sql.NullString) error {
		r.commodities[c[0].String] = commodityKey{space: c[1].String, id: c[2].String}
		r.recs.Commodities = append(r.recs.Commodities, model.CommodityRecord{
			Space: c[1].String, ID: c[2].String, Name: c[3].String, Fraction: c[4].String,
		})
		return nil
	})
}

func (r *reader) loadPrices(ctx context.Context) error {
	q := "SELECT guid, commodity_guid, currency_guid, date, source, type, value_num, value_denom FROM prices"
	return r.query(ctx, q, 8, func(c []sql.NullString) error {
		cmdty, cur := r.commodity(c[1]), r.commodity(c[2])
		r.recs.Prices = append(r.recs.Prices, model.PriceRecord{
			ID:             c[0].String,
			CommoditySpace: cmdty.space,
			CommodityID:    cmdty.id,
			CurrencySpace:  cur.space,
			CurrencyID:     cur.id,
			Time:           c[3].String,
			Source:         c[4].String,
			Type:           c[5].String,
			Value:          fraction(c[6], c[7]),
		})
		return nil
	})
}

// loadAccounts skips the template root of scheduled transactions and
// everything below it.
func (r *reader) loadAccounts(ctx context.Context) error {
	templateRoot := ""
	if r.tables["books"] {
		err := r.query(ctx, "SELECT root_template_guid FROM books", 1, func(c []sql.NullString) error {
			templateRoot = c[0].String
			return nil
		})
		if err != nil {
			return err
		}
	}

	var all []model.AccountRecord
	q := "SELECT guid, name, account_type, commodity_guid, parent_guid, code, description, hidden, placeholder FROM accounts"
	err := r.query(ctx, q, 9, func(c []sql.NullString) error {
		cmdty := r.commodity(c[3])
		all = append(all, model.AccountRecord{
			ID:             c[0].String,
			Name:           c[1].String,
			Type:           c[2].String,
			CommoditySpace: cmdty.space,
			CommodityID:    cmdty.id,
			ParentID:       c[4].String,
			Code:           c[5].String,
			Description:    c[6].String,
			Hidden:         c[7].String,
			Placeholder:    c[8].String,
		})
		return nil
	})
	if err != nil {
		return err
	}

	parent := make(map[string]string, len(all))
	for _, a := range all {
		parent[a.ID] = a.ParentID
	}
	r.template = make(map[string]bool)
	for _, a := range all {
		seen := make(map[string]bool)
		for id := a.ID; id != "" && !seen[id]; id = parent[id] {
			seen[id] = true
			if id == templateRoot {
				r.template[a.ID] = true
				break
			}
		}
		if !r.template[a.ID] {
			r.recs.Accounts = append(r.recs.Accounts, a)
		}
	}
	return nil
}

// loadTransactions drops transactions with a split on a template account.
func (r *reader) loadTransactions(ctx context.Context) error {
	splits := make(map[string][]model.SplitRecord)
	templateTx := make(map[string]bool)
	if r.tables["splits"] {
		q := "SELECT guid, tx_guid, account_guid, memo, action, reconcile_state, value_num, value_denom, quantity_num, quantity_denom, lot_guid FROM splits"
		err := r.query(ctx, q, 11, func(c []sql.NullString) error {
			if r.template[c[2].String] {
				templateTx[c[1].String] = true
			}
			splits[c[1].String] = append(splits[c[1].String], model.SplitRecord{
				ID:             c[0].String,
				AccountID:      c[2].String,
				Memo:           c[3].String,
				Action:         c[4].String,
				ReconcileState: c[5].String,
				Value:          fraction(c[6], c[7]),
				Quantity:       fraction(c[8], c[9]),
				LotID:          c[10].String,
			})
			return nil
		})
		if err != nil {
			return err
		}
	}

	q := "SELECT guid, currency_guid, num, post_date, enter_date, description FROM transactions"
	return r.query(ctx, q, 6, func(c []sql.NullString) error {
		if templateTx[c[0].String] {
			return nil
		}
		cur := r.commodity(c[1])
		r.recs.Transactions = append(r.recs.Transactions, model.TransactionRecord{
			ID:            c[0].String,
			CurrencySpace: cur.space,
			CurrencyID:    cur.id,
			Number:        c[2].String,
			DatePosted:    c[3].String,
			DateEntered:   c[4].String,
			Description:   c[5].String,
			Splits:        splits[c[0].String],
		})
		return nil
	})
}

func (r *reader) loadTaxTables(ctx context.Context) error {
	entries := make(map[string][]model.TaxTableEntryRecord)
	if r.tables["taxtable_entries"] {
		q := "SELECT taxtable, account, amount_num, amount_denom, type FROM taxtable_entries ORDER BY id"
		err := r.query(ctx, q, 5, func(c []sql.NullString) error {
			entries[c[0].String] = append(entries[c[0].String], model.TaxTableEntryRecord{
				AccountID: c[1].String,
				Amount:    fraction(c[2], c[3]),
				Type:      c[4].String,
			})
			return nil
		})
		if err != nil {
			return err
		}
	}
	return r.query(ctx, "SELECT guid, name, parent FROM taxtables", 3, func(c []sql.NullString) error {
		r.recs.TaxTables = append(r.recs.TaxTables, model.TaxTableRecord{
			ID: c[0].String, Name: c[1].String, ParentID: c[2].String,
			Entries: entries[c[0].String],
		})
		return nil
	})
}

func (r *reader) loadBillTerms(ctx context.Context) error {
	q := "SELECT guid, name, description, duedays, discountdays, discount_num, discount_denom FROM billterms"
	return r.query(ctx, q, 7, func(c []sql.NullString) error {
		r.recs.BillTerms = append(r.recs.BillTerms, model.BillTermRecord{
			ID: c[0].String, Name: c[1].String, Description: c[2].String,
			DueDays: c[3].String, DiscountDays: c[4].String, Discount: fraction(c[5], c[6]),
		})
		return nil
	})
}

// taxTableRef drops the table reference when the override flag is off.
func taxTableRef(override, table sql.NullString) string {
	if use, err := model.ParseBool(override.String); err == nil && !use && override.Valid {
		return ""
	}
	return table.String
}

func (r *reader) loadCustomers(ctx context.Context) error {
	q := "SELECT guid, name, id, notes, active, currency, tax_override, terms, tax_included, taxtable FROM customers"
	return r.query(ctx, q, 10, func(c []sql.NullString) error {
		cur := r.commodity(c[5])
		r.recs.Customers = append(r.recs.Customers, model.CustomerRecord{
			ID: c[0].String, Name: c[1].String, Number: c[2].String, Notes: c[3].String,
			Active: c[4].String, CurrencySpace: cur.space, CurrencyID: cur.id,
			TermsID: c[7].String, TaxIncluded: c[8].String, TaxTableID: taxTableRef(c[6], c[9]),
		})
		return nil
	})
}

func (r *reader) loadVendors(ctx context.Context) error {
	q := "SELECT guid, name, id, notes, active, currency, tax_override, terms, tax_inc, tax_table FROM vendors"
	return r.query(ctx, q, 10, func(c []sql.NullString) error {
		cur := r.commodity(c[5])
		r.recs.Vendors = append(r.recs.Vendors, model.VendorRecord{
			ID: c[0].String, Name: c[1].String, Number: c[2].String, Notes: c[3].String,
			Active: c[4].String, CurrencySpace: cur.space, CurrencyID: cur.id,
			TermsID: c[7].String, TaxIncluded: c[8].String, TaxTableID: taxTableRef(c[6], c[9]),
		})
		return nil
	})
}

func (r *reader) loadEmployees(ctx context.Context) error {
	q := "SELECT guid, username, id, active, currency, rate_num, rate_denom, addr_name FROM employees"
	return r.query(ctx, q, 8, func(c []sql.NullString) error {
		cur := r.commodity(c[4])
		r.recs.Employees = append(r.recs.Employees, model.EmployeeRecord{
			ID: c[0].String, Username: c[1].String, Number: c[2].String, Active: c[3].String,
			CurrencySpace: cur.space, CurrencyID: cur.id,
			Rate: fraction(c[5], c[6]), Name: c[7].String,
		})
		return nil
	})
}

func (r *reader) loadJobs(ctx context.Context) error {
	q := "SELECT guid, id, name, reference, active, owner_type, owner_guid FROM jobs"
	return r.query(ctx, q, 7, func(c []sql.NullString) error {
		r.recs.Jobs = append(r.recs.Jobs, model.JobRecord{
			ID: c[0].String, Number: c[1].String, Name: c[2].String, Reference: c[3].String,
			Active: c[4].String, OwnerType: c[5].String, OwnerID: c[6].String,
		})
		return nil
	})
}

func (r *reader) loadInvoices(ctx context.Context) error {
	q := `SELECT guid, id, date_opened, date_posted, notes, active, currency, owner_type, owner_guid,
		terms, billing_id, post_txn, post_lot, post_acc FROM invoices`
	return r.query(ctx, q, 14, func(c []sql.NullString) error {
		cur := r.commodity(c[6])
		r.recs.Invoices = append(r.recs.Invoices, model.InvoiceRecord{
			ID: c[0].String, Number: c[1].String,
			DateOpened: c[2].String, DatePosted: c[3].String,
			Notes: c[4].String, Active: c[5].String,
			CurrencySpace: cur.space, CurrencyID: cur.id,
			OwnerType: c[7].String, OwnerID: c[8].String,
			TermsID: c[9].String, BillingID: c[10].String,
			PostTxnID: c[11].String, PostLotID: c[12].String, PostAccountID: c[13].String,
		})
		return nil
	})
}

func (r *reader) loadEntries(ctx context.Context) error {
	q := `SELECT guid, date, date_entered, description, action, notes, quantity_num, quantity_denom,
		invoice, i_acct, i_price_num, i_price_denom, i_taxable, i_taxincluded, i_taxtable,
		bill, b_acct, b_price_num, b_price_denom, b_taxable, b_taxincluded, b_taxtable FROM entries`
	return r.query(ctx, q, 22, func(c []sql.NullString) error {
		r.recs.Entries = append(r.recs.Entries, model.EntryRecord{
			ID: c[0].String, Date: c[1].String, DateEntered: c[2].String,
			Description: c[3].String, Action: c[4].String, Notes: c[5].String,
			Quantity:  fraction(c[6], c[7]),
			InvoiceID: c[8].String, InvAccountID: c[9].String, InvPrice: fraction(c[10], c[11]),
			InvTaxable: c[12].String, InvTaxIncluded: c[13].String, InvTaxTableID: c[14].String,
			BillID: c[15].String, BillAccountID: c[16].String, BillPrice: fraction(c[17], c[18]),
			BillTaxable: c[19].String, BillTaxIncl: c[20].String, BillTaxTableID: c[21].String,
		})
		return nil
	})
}
