// Package xmlfile reads GnuCash books stored as XML, plain or gzip-compressed.
package xmlfile

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/gncx-dev/gncx/internal/model"
)

// Format is the registry name of this reader.
const Format = "xml"

var gzipMagic = []byte{0x1f, 0x8b}

// Reader reads XML books from disk.
type Reader struct{}

// Format returns "xml".
func (Reader) Format() string { return Format }

// Detect reports whether header looks like an XML book, compressed or not.
func (Reader) Detect(header []byte) bool {
	if bytes.HasPrefix(header, gzipMagic) {
		return true
	}
	trimmed := bytes.TrimLeft(header, " \t\r\n\xef\xbb\xbf")
	return bytes.HasPrefix(trimmed, []byte("<?xml")) || bytes.HasPrefix(trimmed, []byte("<gnc-v2"))
}

// ReadFile decodes the book at path.
func (Reader) ReadFile(ctx context.Context, path string) (model.Records, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Records{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	recs, err := Read(ctx, f)
	if err != nil {
		return model.Records{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return recs, nil
}

// Read decodes an XML book from r. Gzip input is detected by its magic bytes.
func Read(ctx context.Context, r io.Reader) (model.Records, error) {
	br := bufio.NewReader(r)
	var src io.Reader = br
	if head, _ := br.Peek(len(gzipMagic)); bytes.Equal(head, gzipMagic) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return model.Records{}, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer zr.Close()
		src = zr
	}
	d := &decoder{dec: xml.NewDecoder(src)}
	if err := d.run(ctx); err != nil {
		return model.Records{}, err
	}
	return d.recs, nil
}

type decoder struct {
	dec  *xml.Decoder
	recs model.Records
}

// run walks the token stream and decodes each book object it meets.
// Scheduled transaction templates are skipped.
func (d *decoder) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		tok, err := d.dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("decoding xml: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if err := d.element(start); err != nil {
			return fmt.Errorf("decoding %s: %w", start.Name.Local, err)
		}
	}
}

func (d *decoder) element(start xml.StartElement) error {
	switch start.Name.Local {
	case "template-transactions", "schedxaction":
		return d.dec.Skip()
	case "commodity":
		var v xmlCommodity
		if err := d.dec.DecodeElement(&v, &start); err != nil {
			return err
		}
		d.recs.Commodities = append(d.recs.Commodities, model.CommodityRecord{
			Space: v.Space, ID: v.ID, Name: v.Name, Fraction: v.Fraction,
		})
	case "pricedb":
		var v xmlPriceDB
		if err := d.dec.DecodeElement(&v, &start); err != nil {
			return err
		}
		for _, p := range v.Prices {
			d.recs.Prices = append(d.recs.Prices, model.PriceRecord{
				ID:             p.ID,
				CommoditySpace: p.Commodity.Space,
				CommodityID:    p.Commodity.ID,
				CurrencySpace:  p.Currency.Space,
				CurrencyID:     p.Currency.ID,
				Time:           p.Time.Date,
				Source:         p.Source,
				Type:           p.Type,
				Value:          p.Value,
			})
		}
	case "account":
		var v xmlAccount
		if err := d.dec.DecodeElement(&v, &start); err != nil {
			return err
		}
		d.recs.Accounts = append(d.recs.Accounts, accountRecord(v))
	case "transaction":
		var v xmlTransaction
		if err := d.dec.DecodeElement(&v, &start); err != nil {
			return err
		}
		d.recs.Transactions = append(d.recs.Transactions, transactionRecord(v))
	case "GncTaxTable":
		var v xmlTaxTable
		if err := d.dec.DecodeElement(&v, &start); err != nil {
			return err
		}
		rec := model.TaxTableRecord{ID: v.GUID, Name: v.Name, ParentID: v.Parent}
		for _, e := range v.Entries {
			rec.Entries = append(rec.Entries, model.TaxTableEntryRecord{
				AccountID: e.Account, Amount: e.Amount, Type: e.Type,
			})
		}
		d.recs.TaxTables = append(d.recs.TaxTables, rec)
	case "GncBillTerm":
		var v xmlBillTerm
		if err := d.dec.DecodeElement(&v, &start); err != nil {
			return err
		}
		d.recs.BillTerms = append(d.recs.BillTerms, model.BillTermRecord{
			ID: v.GUID, Name: v.Name, Description: v.Description,
			DueDays: v.DueDays, DiscountDays: v.DiscountDays, Discount: v.Discount,
		})
	case "GncCustomer":
		var v xmlParty
		if err := d.dec.DecodeElement(&v, &start); err != nil {
			return err
		}
		d.recs.Customers = append(d.recs.Customers, model.CustomerRecord{
			ID: v.GUID, Number: v.Number, Name: v.Name,
			CurrencySpace: v.Currency.Space, CurrencyID: v.Currency.ID,
			TaxTableID: partyTaxTable(v), TaxIncluded: v.TaxIncluded,
			TermsID: v.Terms, Notes: v.Notes, Active: v.Active,
		})
	case "GncVendor":
		var v xmlParty
		if err := d.dec.DecodeElement(&v, &start); err != nil {
			return err
		}
		d.recs.Vendors = append(d.recs.Vendors, model.VendorRecord{
			ID: v.GUID, Number: v.Number, Name: v.Name,
			CurrencySpace: v.Currency.Space, CurrencyID: v.Currency.ID,
			TaxTableID: partyTaxTable(v), TaxIncluded: v.TaxIncluded,
			TermsID: v.Terms, Notes: v.Notes, Active: v.Active,
		})
	case "GncEmployee":
		var v xmlEmployee
		if err := d.dec.DecodeElement(&v, &start); err != nil {
			return err
		}
		d.recs.Employees = append(d.recs.Employees, model.EmployeeRecord{
			ID: v.GUID, Number: v.Number, Username: v.Username, Name: v.Name,
			CurrencySpace: v.Currency.Space, CurrencyID: v.Currency.ID,
			Rate: v.Rate, Active: v.Active,
		})
	case "GncJob":
		var v xmlJob
		if err := d.dec.DecodeElement(&v, &start); err != nil {
			return err
		}
		d.recs.Jobs = append(d.recs.Jobs, model.JobRecord{
			ID: v.GUID, Number: v.Number, Name: v.Name, Reference: v.Reference,
			OwnerType: v.Owner.Type, OwnerID: v.Owner.ID, Active: v.Active,
		})
	case "GncInvoice":
		var v xmlInvoice
		if err := d.dec.DecodeElement(&v, &start); err != nil {
			return err
		}
		d.recs.Invoices = append(d.recs.Invoices, model.InvoiceRecord{
			ID: v.GUID, Number: v.Number,
			OwnerType: v.Owner.Type, OwnerID: v.Owner.ID,
			DateOpened: v.Opened.Date, DatePosted: v.Posted.Date,
			TermsID: v.Terms, BillingID: v.BillingID, Notes: v.Notes, Active: v.Active,
			CurrencySpace: v.Currency.Space, CurrencyID: v.Currency.ID,
			PostTxnID: v.PostTxn, PostLotID: v.PostLot, PostAccountID: v.PostAcc,
		})
	case "GncEntry":
		var v xmlEntry
		if err := d.dec.DecodeElement(&v, &start); err != nil {
			return err
		}
		d.recs.Entries = append(d.recs.Entries, model.EntryRecord{
			ID: v.GUID, Date: v.Date.Date, DateEntered: v.Entered.Date,
			Description: v.Description, Action: v.Action, Notes: v.Notes,
			Quantity:  v.Qty,
			InvoiceID: v.Invoice, InvAccountID: v.InvAccount, InvPrice: v.InvPrice,
			InvTaxable: v.InvTaxable, InvTaxIncluded: v.InvTaxIncluded, InvTaxTableID: v.InvTaxTable,
			BillID: v.Bill, BillAccountID: v.BillAccount, BillPrice: v.BillPrice,
			BillTaxable: v.BillTaxable, BillTaxIncl: v.BillTaxIncl, BillTaxTableID: v.BillTaxTable,
		})
	}
	return nil
}

func accountRecord(v xmlAccount) model.AccountRecord {
	rec := model.AccountRecord{
		ID:             v.ID,
		Name:           v.Name,
		Type:           v.Type,
		CommoditySpace: v.Commodity.Space,
		CommodityID:    v.Commodity.ID,
		ParentID:       v.Parent,
		Code:           v.Code,
		Description:    v.Description,
	}
	for _, s := range v.Slots {
		switch s.Key {
		case "hidden":
			rec.Hidden = s.Value
		case "placeholder":
			rec.Placeholder = s.Value
		}
	}
	return rec
}

func transactionRecord(v xmlTransaction) model.TransactionRecord {
	rec := model.TransactionRecord{
		ID:            v.ID,
		CurrencySpace: v.Currency.Space,
		CurrencyID:    v.Currency.ID,
		Number:        v.Num,
		DatePosted:    v.DatePosted.Date,
		DateEntered:   v.DateEntered.Date,
		Description:   v.Description,
	}
	for _, s := range v.Splits {
		rec.Splits = append(rec.Splits, model.SplitRecord{
			ID:             s.ID,
			AccountID:      s.Account,
			Memo:           s.Memo,
			Action:         s.Action,
			ReconcileState: s.ReconcileState,
			Value:          s.Value,
			Quantity:       s.Quantity,
			LotID:          s.Lot,
		})
	}
	return rec
}

// partyTaxTable drops the table reference when use-tt is off.
func partyTaxTable(v xmlParty) string {
	if use, err := model.ParseBool(v.UseTaxTable); err == nil && !use && v.UseTaxTable != "" {
		return ""
	}
	return v.TaxTable
}
