// Package taxtable provides read-only access to a book's tax tables.
package taxtable

import (
	"fmt"
	"strings"

	"github.com/gncx-dev/gncx/internal/fixedpoint"
	"github.com/gncx-dev/gncx/internal/model"
)

// EntryType says how a tax table entry's amount is applied.
type EntryType string

const (
	EntryTypePercent EntryType = "PERCENT"
	EntryTypeValue   EntryType = "VALUE"
)

// ParseEntryType accepts the XML names and the SQL codes (1 value, 2 percent).
func ParseEntryType(s string) (EntryType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PERCENT", "2":
		return EntryTypePercent, nil
	case "VALUE", "1":
		return EntryTypeValue, nil
	}
	return "", fmt.Errorf("unknown tax table entry type %q", s)
}

// Entry is one rate of a table. A percent entry of 19 means 19%.
type Entry struct {
	AccountID string
	Amount    fixedpoint.Number
	Type      EntryType
}

// Table is a named, ordered list of entries.
type Table struct {
	ID       string
	Name     string
	ParentID string
	Entries  []Entry
}

// First returns the table's first entry.
func (t *Table) First() (Entry, bool) {
	if len(t.Entries) == 0 {
		return Entry{}, false
	}
	return t.Entries[0], true
}

// New builds a Table from its raw record.
func New(rec model.TaxTableRecord) (*Table, error) {
	t := &Table{ID: rec.ID, Name: rec.Name, ParentID: rec.ParentID}
	for i, er := range rec.Entries {
		amount, err := fixedpoint.Parse(er.Amount)
		if err != nil {
			return nil, model.Malformed("tax table", rec.ID, fmt.Sprintf("entries[%d].amount", i), er.Amount, err)
		}
		typ, err := ParseEntryType(er.Type)
		if err != nil {
			return nil, model.Malformed("tax table", rec.ID, fmt.Sprintf("entries[%d].type", i), er.Type, err)
		}
		t.Entries = append(t.Entries, Entry{AccountID: er.AccountID, Amount: amount, Type: typ})
	}
	return t, nil
}

// Lookup maps tax table IDs to tables.
type Lookup struct {
	tables []*Table
	byID   map[string]*Table
}

// NewLookup indexes tables by ID. A later table with the same ID wins.
func NewLookup(tables []*Table) *Lookup {
	byID := make(map[string]*Table, len(tables))
	for _, t := range tables {
		byID[t.ID] = t
	}
	return &Lookup{tables: tables, byID: byID}
}

// Get returns the table with the given ID.
func (l *Lookup) Get(id string) (*Table, bool) {
	t, ok := l.byID[id]
	return t, ok
}

// All returns all tables in book order.
func (l *Lookup) All() []*Table {
	return l.tables
}

// ByName returns the first table with the given name.
func (l *Lookup) ByName(name string) (*Table, bool) {
	for _, t := range l.tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}
