package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gncx-dev/gncx/internal/commodity"
	"github.com/gncx-dev/gncx/internal/model"
)

// Header is the CSV header of a chart-of-accounts export.
const Header = "account_id,full_name,account_type,commodity,parent_id,code,description,hidden,placeholder"

const (
	numFields      = 9
	colID          = 0
	colFullName    = 1
	colType        = 2
	colCommodity   = 3
	colParent      = 4
	colCode        = 5
	colDesc        = 6
	colHidden      = 7
	colPlaceholder = 8
)

// WriteAccounts writes the chart of accounts in book order.
// ROOT accounts are left out.
func WriteAccounts(w io.Writer, g *Graph) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	row := 2
	for _, a := range g.All() {
		if a.Type == model.AccountTypeRoot {
			continue
		}
		if err := cw.Write(MarshalAccount(a, g.FullName(a.ID))); err != nil {
			return fmt.Errorf("writing row %d: %w", row, err)
		}
		row++
	}
	cw.Flush()
	return cw.Error()
}

// ReadAccounts reads a chart-of-accounts export back into raw records.
// The last component of full_name becomes the account name.
func ReadAccounts(r io.Reader) ([]model.AccountRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.AccountRecord
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(a *Account, fullName string) []string {
	row := make([]string, numFields)
	row[colID] = a.ID
	row[colFullName] = fullName
	row[colType] = string(a.Type)
	if !a.Commodity.IsZero() {
		row[colCommodity] = a.Commodity.String()
	}
	row[colParent] = a.ParentID
	row[colCode] = a.Code
	row[colDesc] = a.Description
	row[colHidden] = strconv.FormatBool(a.Hidden)
	row[colPlaceholder] = strconv.FormatBool(a.Placeholder)
	return row
}

// UnmarshalAccount converts a CSV row to a raw account record.
func UnmarshalAccount(record []string) (model.AccountRecord, error) {
	if len(record) != numFields {
		return model.AccountRecord{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	if _, err := model.ParseAccountType(record[colType]); err != nil {
		return model.AccountRecord{}, fmt.Errorf("parsing account_type: %w", err)
	}

	name := record[colFullName]
	if i := strings.LastIndex(name, ":"); i >= 0 {
		name = name[i+1:]
	}

	rec := model.AccountRecord{
		ID:          record[colID],
		Name:        name,
		Type:        record[colType],
		ParentID:    record[colParent],
		Code:        record[colCode],
		Description: record[colDesc],
		Hidden:      record[colHidden],
		Placeholder: record[colPlaceholder],
	}
	if c := record[colCommodity]; c != "" {
		space, code, ok := strings.Cut(c, ":")
		if !ok {
			space, code = commodity.NamespaceISO4217, c
		}
		rec.CommoditySpace, rec.CommodityID = space, code
	}
	return rec, nil
}
