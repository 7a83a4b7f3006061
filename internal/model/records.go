// Package model holds the raw, string-typed records read from a book and the
// enumerations shared by the typed object graph.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformedRecord is returned for a record field that cannot be parsed.
var ErrMalformedRecord = errors.New("malformed record")

// MalformedRecordError describes which field of which record failed to parse.
type MalformedRecordError struct {
	Kind  string // "account", "split", ...
	ID    string
	Field string
	Value string
	Err   error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed %s %s: field %s %q: %v", e.Kind, e.ID, e.Field, e.Value, e.Err)
}

// Unwrap returns the parse error.
func (e *MalformedRecordError) Unwrap() error { return e.Err }

// Is matches ErrMalformedRecord.
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// Malformed builds a MalformedRecordError.
func Malformed(kind, id, field, value string, err error) error {
	return &MalformedRecordError{Kind: kind, ID: id, Field: field, Value: value, Err: err}
}

// Records is everything a record source delivers for one book.
type Records struct {
	Commodities  []CommodityRecord
	Prices       []PriceRecord
	Accounts     []AccountRecord
	Transactions []TransactionRecord
	TaxTables    []TaxTableRecord
	BillTerms    []BillTermRecord
	Customers    []CustomerRecord
	Vendors      []VendorRecord
	Employees    []EmployeeRecord
	Jobs         []JobRecord
	Invoices     []InvoiceRecord
	Entries      []EntryRecord
}

// CommodityRecord is a raw commodity definition.
type CommodityRecord struct {
	Space    string
	ID       string
	Name     string
	Fraction string
}

// PriceRecord is a raw price quote.
type PriceRecord struct {
	ID             string
	CommoditySpace string
	CommodityID    string
	CurrencySpace  string
	CurrencyID     string
	Time           string
	Source         string
	Type           string
	Value          string
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
	"20060102150405",
	"2006-01-02",
}

// ParseTimestamp reads the timestamp formats written by the XML and SQL backends.
// Timestamps without a zone are UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ParseOptionalTimestamp is ParseTimestamp that maps "" to the zero time.
func ParseOptionalTimestamp(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	return ParseTimestamp(s)
}

// ParseBool reads the flag encodings used by books: "1"/"0", "true"/"false",
// "yes"/"no" and "t"/"f". Empty is false.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "t", "y":
		return true, nil
	case "0", "false", "no", "f", "n", "":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", s)
}
