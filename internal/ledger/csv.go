package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gncx-dev/gncx/internal/fixedpoint"
	"github.com/gncx-dev/gncx/internal/model"
)

// Header is the CSV header of a journal export.
const Header = "transaction_id,split_id,date_posted,num,description,account_id,memo,action,value,quantity,lot_id"

const (
	numFields  = 11
	dateFormat = "2006-01-02"
	colTxID    = 0
	colSplitID = 1
	colDate    = 2
	colNum     = 3
	colDesc    = 4
	colAcctID  = 5
	colMemo    = 6
	colAction  = 7
	colValue   = 8
	colQty     = 9
	colLot     = 10
)

// JournalRow is one split flattened with its transaction header.
// Amounts are kept as exact fractions.
type JournalRow struct {
	TransactionID string
	SplitID       string
	DatePosted    time.Time
	Number        string
	Description   string
	AccountID     string
	Memo          string
	Action        model.SplitAction
	Value         fixedpoint.Number
	Quantity      fixedpoint.Number
	LotID         string
}

// Rows flattens transactions into journal rows, one per split.
func Rows(txs []*Transaction) []JournalRow {
	var rows []JournalRow
	for _, tx := range txs {
		for _, s := range tx.splits {
			rows = append(rows, JournalRow{
				TransactionID: tx.ID,
				SplitID:       s.ID,
				DatePosted:    tx.DatePosted,
				Number:        tx.Number,
				Description:   tx.Description,
				AccountID:     s.AccountID,
				Memo:          s.Memo,
				Action:        s.Action,
				Value:         s.Value,
				Quantity:      s.Quantity,
				LotID:         s.LotID,
			})
		}
	}
	return rows
}

// WriteJournal writes rows including the header.
func WriteJournal(w io.Writer, rows []JournalRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadJournal reads rows written by WriteJournal.
func ReadJournal(r io.Reader) ([]JournalRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading journal CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var rows []JournalRow
	for i, rec := range records[1:] {
		row, err := UnmarshalRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MarshalRow converts a JournalRow to a CSV row.
func MarshalRow(row JournalRow) []string {
	rec := make([]string, numFields)
	rec[colTxID] = row.TransactionID
	rec[colSplitID] = row.SplitID
	rec[colDate] = row.DatePosted.Format(dateFormat)
	rec[colNum] = row.Number
	rec[colDesc] = row.Description
	rec[colAcctID] = row.AccountID
	rec[colMemo] = row.Memo
	rec[colAction] = string(row.Action)
	rec[colValue] = row.Value.String()
	rec[colQty] = row.Quantity.String()
	rec[colLot] = row.LotID
	return rec
}

// UnmarshalRow converts a CSV row to a JournalRow.
func UnmarshalRow(rec []string) (JournalRow, error) {
	if len(rec) != numFields {
		return JournalRow{}, fmt.Errorf("expected %d fields, got %d", numFields, len(rec))
	}

	date, err := time.Parse(dateFormat, rec[colDate])
	if err != nil {
		return JournalRow{}, fmt.Errorf("parsing date %q: %w", rec[colDate], err)
	}
	value, err := fixedpoint.Parse(rec[colValue])
	if err != nil {
		return JournalRow{}, fmt.Errorf("parsing value %q: %w", rec[colValue], err)
	}
	qty, err := fixedpoint.Parse(rec[colQty])
	if err != nil {
		return JournalRow{}, fmt.Errorf("parsing quantity %q: %w", rec[colQty], err)
	}

	return JournalRow{
		TransactionID: rec[colTxID],
		SplitID:       rec[colSplitID],
		DatePosted:    date,
		Number:        rec[colNum],
		Description:   rec[colDesc],
		AccountID:     rec[colAcctID],
		Memo:          rec[colMemo],
		Action:        model.ParseSplitAction(rec[colAction]),
		Value:         value,
		Quantity:      qty,
		LotID:         rec[colLot],
	}, nil
}
