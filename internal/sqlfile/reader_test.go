package sqlfile

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gncx-dev/gncx/internal/model"
)

const coreSchema = `
CREATE TABLE books (guid TEXT PRIMARY KEY, root_account_guid TEXT, root_template_guid TEXT);
CREATE TABLE commodities (guid TEXT PRIMARY KEY, namespace TEXT, mnemonic TEXT, fullname TEXT, cusip TEXT, fraction INTEGER);
CREATE TABLE prices (guid TEXT PRIMARY KEY, commodity_guid TEXT, currency_guid TEXT, date TEXT, source TEXT, type TEXT, value_num INTEGER, value_denom INTEGER);
CREATE TABLE accounts (guid TEXT PRIMARY KEY, name TEXT, account_type TEXT, commodity_guid TEXT, commodity_scu INTEGER,
	non_std_scu INTEGER, parent_guid TEXT, code TEXT, description TEXT, hidden INTEGER, placeholder INTEGER);
CREATE TABLE transactions (guid TEXT PRIMARY KEY, currency_guid TEXT, num TEXT, post_date TEXT, enter_date TEXT, description TEXT);
CREATE TABLE splits (guid TEXT PRIMARY KEY, tx_guid TEXT, account_guid TEXT, memo TEXT, action TEXT, reconcile_state TEXT,
	reconcile_date TEXT, value_num INTEGER, value_denom INTEGER, quantity_num INTEGER, quantity_denom INTEGER, lot_guid TEXT);
`

const businessSchema = `
CREATE TABLE taxtables (guid TEXT PRIMARY KEY, name TEXT, refcount INTEGER, invisible INTEGER, parent TEXT);
CREATE TABLE taxtable_entries (id INTEGER PRIMARY KEY AUTOINCREMENT, taxtable TEXT, account TEXT, amount_num INTEGER, amount_denom INTEGER, type INTEGER);
CREATE TABLE billterms (guid TEXT PRIMARY KEY, name TEXT, description TEXT, refcount INTEGER, invisible INTEGER, parent TEXT,
	type TEXT, duedays INTEGER, discountdays INTEGER, discount_num INTEGER, discount_denom INTEGER, cutoff INTEGER);
CREATE TABLE customers (guid TEXT PRIMARY KEY, name TEXT, id TEXT, notes TEXT, active INTEGER, currency TEXT,
	tax_override INTEGER, terms TEXT, tax_included INTEGER, taxtable TEXT);
CREATE TABLE vendors (guid TEXT PRIMARY KEY, name TEXT, id TEXT, notes TEXT, active INTEGER, currency TEXT,
	tax_override INTEGER, terms TEXT, tax_inc TEXT, tax_table TEXT);
CREATE TABLE employees (guid TEXT PRIMARY KEY, username TEXT, id TEXT, active INTEGER, currency TEXT,
	rate_num INTEGER, rate_denom INTEGER, addr_name TEXT);
CREATE TABLE jobs (guid TEXT PRIMARY KEY, id TEXT, name TEXT, reference TEXT, active INTEGER, owner_type INTEGER, owner_guid TEXT);
CREATE TABLE invoices (guid TEXT PRIMARY KEY, id TEXT, date_opened TEXT, date_posted TEXT, notes TEXT, active INTEGER,
	currency TEXT, owner_type INTEGER, owner_guid TEXT, terms TEXT, billing_id TEXT, post_txn TEXT, post_lot TEXT, post_acc TEXT);
CREATE TABLE entries (guid TEXT PRIMARY KEY, date TEXT, date_entered TEXT, description TEXT, action TEXT, notes TEXT,
	quantity_num INTEGER, quantity_denom INTEGER, invoice TEXT, i_acct TEXT, i_price_num INTEGER, i_price_denom INTEGER,
	i_taxable INTEGER, i_taxincluded INTEGER, i_taxtable TEXT, bill TEXT, b_acct TEXT, b_price_num INTEGER,
	b_price_denom INTEGER, b_taxable INTEGER, b_taxincluded INTEGER, b_taxtable TEXT);
`

const coreData = `
INSERT INTO books VALUES ('book', 'root', 'troot');
INSERT INTO commodities VALUES ('c-eur', 'CURRENCY', 'EUR', 'Euro', '978', 100);
INSERT INTO commodities VALUES ('c-aapl', 'NASDAQ', 'AAPL', 'Apple Inc.', NULL, 10000);
INSERT INTO prices VALUES ('p1', 'c-aapl', 'c-eur', '2024-01-02 10:59:00', 'user:price-editor', 'last', 17050, 100);
INSERT INTO accounts VALUES ('root', 'Root Account', 'ROOT', NULL, 0, 0, NULL, '', '', 0, 0);
INSERT INTO accounts VALUES ('bank', 'Checking', 'BANK', 'c-eur', 100, 0, 'root', '1200', 'Main account', 0, 0);
INSERT INTO accounts VALUES ('ar', 'Accounts Receivable', 'RECEIVABLE', 'c-eur', 100, 0, 'root', '', '', 0, 1);
INSERT INTO accounts VALUES ('income', 'Sales', 'INCOME', 'c-eur', 100, 0, 'root', '', '', 1, 0);
INSERT INTO accounts VALUES ('troot', 'Template Root', 'ROOT', NULL, 0, 0, NULL, '', '', 0, 0);
INSERT INTO accounts VALUES ('tacct', 'tmpl', 'BANK', 'c-eur', 100, 0, 'troot', '', '', 0, 0);
INSERT INTO transactions VALUES ('tx-post', 'c-eur', 'INV-001', '2024-01-10 10:59:00', '2024-01-10 12:00:00', 'Acme GmbH');
INSERT INTO transactions VALUES ('tx-pay', 'c-eur', '', '2024-02-01 10:59:00', '2024-02-01 12:00:00', 'Acme GmbH');
INSERT INTO transactions VALUES ('tx-tmpl', 'c-eur', '', '2024-01-01 10:59:00', '2024-01-01 10:59:00', 'Rent');
INSERT INTO splits VALUES ('s-post-ar', 'tx-post', 'ar', '', 'Invoice', 'n', NULL, 11900, 100, 11900, 100, 'lot-1');
INSERT INTO splits VALUES ('s-post-inc', 'tx-post', 'income', 'Consulting', '', 'n', NULL, -11900, 100, -11900, 100, NULL);
INSERT INTO splits VALUES ('s-pay-bank', 'tx-pay', 'bank', '', '', 'c', NULL, 10000, 100, 10000, 100, NULL);
INSERT INTO splits VALUES ('s-pay-ar', 'tx-pay', 'ar', '', 'Payment', 'n', NULL, -10000, 100, -10000, 100, 'lot-1');
INSERT INTO splits VALUES ('s-tmpl', 'tx-tmpl', 'tacct', '', '', 'n', NULL, 0, 1, 0, 1, NULL);
`

const businessData = `
INSERT INTO taxtables VALUES ('vat19', 'VAT 19', 1, 0, NULL);
INSERT INTO taxtable_entries (taxtable, account, amount_num, amount_denom, type) VALUES ('vat19', 'income', 1900000, 100000, 2);
INSERT INTO billterms VALUES ('bt-30', 'Net 30', 'Due in 30 days', 1, 0, NULL, 'GNC_TERM_TYPE_DAYS', 30, 10, 2, 1, 0);
INSERT INTO customers VALUES ('cust-1', 'Acme GmbH', '000001', 'Key account', 1, 'c-eur', 1, 'bt-30', 3, 'vat19');
INSERT INTO vendors VALUES ('vend-1', 'Paper Supply', '000001', '', 1, 'c-eur', 0, NULL, '2', 'vat19');
INSERT INTO employees VALUES ('emp-1', 'jdoe', '000001', 1, 'c-eur', 0, 1, 'J. Doe');
INSERT INTO jobs VALUES ('job-1', '000001', 'Website relaunch', 'PO-77', 1, 2, 'cust-1');
INSERT INTO invoices VALUES ('inv-1', '000001', '2024-01-09 10:59:00', '2024-01-10 10:59:00', '', 1, 'c-eur', 2, 'cust-1',
	'bt-30', 'PO-4711', 'tx-post', 'lot-1', 'ar');
INSERT INTO entries VALUES ('en-1', '2024-01-09 10:59:00', '2024-01-09 11:00:00', 'Consulting', 'Hours', '', 2, 1,
	'inv-1', 'income', 5000, 100, 1, 0, 'vat19', NULL, NULL, NULL, NULL, NULL, NULL, NULL);
`

func createBook(t *testing.T, statements ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "book.sqlite.gnucash")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()
	for _, s := range statements {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}
	return path
}

func TestReadFile_Core(t *testing.T) {
	path := createBook(t, coreSchema, coreData)

	recs, err := Reader{}.ReadFile(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, recs.Commodities, 2)
	assert.Equal(t, model.CommodityRecord{Space: "CURRENCY", ID: "EUR", Name: "Euro", Fraction: "100"}, recs.Commodities[0])

	require.Len(t, recs.Prices, 1)
	assert.Equal(t, "NASDAQ", recs.Prices[0].CommoditySpace)
	assert.Equal(t, "EUR", recs.Prices[0].CurrencyID)
	assert.Equal(t, "17050/100", recs.Prices[0].Value)

	ids := make([]string, 0, len(recs.Accounts))
	for _, a := range recs.Accounts {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"root", "bank", "ar", "income"}, ids, "template accounts are skipped")

	bank := recs.Accounts[1]
	assert.Equal(t, "CURRENCY", bank.CommoditySpace)
	assert.Equal(t, "EUR", bank.CommodityID)
	assert.Equal(t, "root", bank.ParentID)
	assert.Equal(t, "1200", bank.Code)
	assert.Equal(t, "1", recs.Accounts[2].Placeholder)
	assert.Equal(t, "1", recs.Accounts[3].Hidden)
	assert.Empty(t, recs.Accounts[0].ParentID)

	require.Len(t, recs.Transactions, 2, "template transactions are skipped")
	post := recs.Transactions[0]
	assert.Equal(t, "tx-post", post.ID)
	assert.Equal(t, "INV-001", post.Number)
	assert.Equal(t, "2024-01-10 10:59:00", post.DatePosted)
	require.Len(t, post.Splits, 2)
	assert.Equal(t, "11900/100", post.Splits[0].Value)
	assert.Equal(t, "lot-1", post.Splits[0].LotID)
	assert.Empty(t, post.Splits[1].LotID)

	pay := recs.Transactions[1]
	assert.Equal(t, "Payment", pay.Splits[1].Action)

	assert.Empty(t, recs.Invoices, "no business tables")
	assert.Empty(t, recs.Customers)
}

func TestReadFile_Business(t *testing.T) {
	path := createBook(t, coreSchema, businessSchema, coreData, businessData)

	recs, err := Reader{}.ReadFile(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, recs.TaxTables, 1)
	require.Len(t, recs.TaxTables[0].Entries, 1)
	assert.Equal(t, model.TaxTableEntryRecord{AccountID: "income", Amount: "1900000/100000", Type: "2"}, recs.TaxTables[0].Entries[0])

	require.Len(t, recs.BillTerms, 1)
	assert.Equal(t, "30", recs.BillTerms[0].DueDays)
	assert.Equal(t, "2/1", recs.BillTerms[0].Discount)

	require.Len(t, recs.Customers, 1)
	cust := recs.Customers[0]
	assert.Equal(t, "vat19", cust.TaxTableID)
	assert.Equal(t, "3", cust.TaxIncluded)
	assert.Equal(t, "EUR", cust.CurrencyID)
	assert.Equal(t, "bt-30", cust.TermsID)

	require.Len(t, recs.Vendors, 1)
	assert.Empty(t, recs.Vendors[0].TaxTableID, "tax_override=0 drops the table")

	require.Len(t, recs.Employees, 1)
	assert.Equal(t, "J. Doe", recs.Employees[0].Name)
	assert.Equal(t, "0/1", recs.Employees[0].Rate)

	require.Len(t, recs.Jobs, 1)
	assert.Equal(t, "2", recs.Jobs[0].OwnerType)

	require.Len(t, recs.Invoices, 1)
	inv := recs.Invoices[0]
	assert.Equal(t, "2", inv.OwnerType)
	assert.Equal(t, "cust-1", inv.OwnerID)
	assert.Equal(t, "lot-1", inv.PostLotID)
	assert.Equal(t, "PO-4711", inv.BillingID)

	require.Len(t, recs.Entries, 1)
	e := recs.Entries[0]
	assert.Equal(t, "2/1", e.Quantity)
	assert.Equal(t, "5000/100", e.InvPrice)
	assert.Equal(t, "inv-1", e.InvoiceID)
	assert.Empty(t, e.BillPrice)
	assert.Empty(t, e.BillID)
}

func TestDetect(t *testing.T) {
	path := createBook(t, coreSchema)
	header := make([]byte, 16)
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.Read(header)
	require.NoError(t, err)

	assert.True(t, Reader{}.Detect(header))
	assert.False(t, Reader{}.Detect([]byte("<?xml version=\"1.0\"?>")))
}

func TestReadFile_Missing(t *testing.T) {
	_, err := Reader{}.ReadFile(context.Background(), filepath.Join(t.TempDir(), "nope.gnucash"))
	assert.Error(t, err)
}
