// Package owners holds the customers, vendors, employees and jobs that own invoices.
package owners

import (
	"fmt"
	"strings"

	"github.com/gncx-dev/gncx/internal/commodity"
	"github.com/gncx-dev/gncx/internal/fixedpoint"
	"github.com/gncx-dev/gncx/internal/model"
)

// TaxIncluded is a customer or vendor default for whether prices include tax.
type TaxIncluded string

const (
	TaxIncludedYes       TaxIncluded = "YES"
	TaxIncludedNo        TaxIncluded = "NO"
	TaxIncludedUseGlobal TaxIncluded = "USEGLOBAL"
)

// ParseTaxIncluded accepts the XML names and the SQL codes 1, 2 and 3.
// Empty means USEGLOBAL.
func ParseTaxIncluded(s string) (TaxIncluded, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "YES", "1":
		return TaxIncludedYes, nil
	case "NO", "2":
		return TaxIncludedNo, nil
	case "USEGLOBAL", "3", "":
		return TaxIncludedUseGlobal, nil
	}
	return "", fmt.Errorf("unknown tax-included setting %q", s)
}

// Party holds the fields customers and vendors share.
type Party struct {
	ID          string
	Number      string
	Name        string
	Currency    commodity.ID
	TaxTableID  string
	TaxIncluded TaxIncluded
	TermsID     string
	Notes       string
	Active      bool
}

// Customer is billed through customer invoices.
type Customer struct {
	Party
}

// Vendor bills the book's owner through vendor bills.
type Vendor struct {
	Party
}

// Employee is reimbursed through expense vouchers.
type Employee struct {
	ID       string
	Number   string
	Username string
	Name     string
	Currency commodity.ID
	Rate     fixedpoint.Number
	Active   bool
}

// DisplayName returns the employee's name, or the username when unnamed.
func (e *Employee) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Username
}

// Job groups invoices under a customer or vendor.
type Job struct {
	ID        string
	Number    string
	Name      string
	Reference string
	Owner     model.Owner
	Active    bool
}

// NewCustomer parses a raw customer.
func NewCustomer(rec model.CustomerRecord) (*Customer, error) {
	p, err := newParty("customer", party{
		id: rec.ID, number: rec.Number, name: rec.Name,
		currencySpace: rec.CurrencySpace, currencyID: rec.CurrencyID,
		taxTableID: rec.TaxTableID, taxIncluded: rec.TaxIncluded,
		termsID: rec.TermsID, notes: rec.Notes, active: rec.Active,
	})
	if err != nil {
		return nil, err
	}
	return &Customer{Party: p}, nil
}

// NewVendor parses a raw vendor.
func NewVendor(rec model.VendorRecord) (*Vendor, error) {
	p, err := newParty("vendor", party{
		id: rec.ID, number: rec.Number, name: rec.Name,
		currencySpace: rec.CurrencySpace, currencyID: rec.CurrencyID,
		taxTableID: rec.TaxTableID, taxIncluded: rec.TaxIncluded,
		termsID: rec.TermsID, notes: rec.Notes, active: rec.Active,
	})
	if err != nil {
		return nil, err
	}
	return &Vendor{Party: p}, nil
}

type party struct {
	id, number, name          string
	currencySpace, currencyID string
	taxTableID, taxIncluded   string
	termsID, notes, active    string
}

func newParty(kind string, r party) (Party, error) {
	p := Party{
		ID:         r.id,
		Number:     r.number,
		Name:       r.name,
		TaxTableID: r.taxTableID,
		TermsID:    r.termsID,
		Notes:      r.notes,
	}
	var err error
	if p.Currency, err = parseCurrency(r.currencySpace, r.currencyID); err != nil {
		return Party{}, model.Malformed(kind, r.id, "currency", r.currencyID, err)
	}
	if p.TaxIncluded, err = ParseTaxIncluded(r.taxIncluded); err != nil {
		return Party{}, model.Malformed(kind, r.id, "tax-included", r.taxIncluded, err)
	}
	if p.Active, err = parseActive(r.active); err != nil {
		return Party{}, model.Malformed(kind, r.id, "active", r.active, err)
	}
	return p, nil
}

// NewEmployee parses a raw employee.
func NewEmployee(rec model.EmployeeRecord) (*Employee, error) {
	e := &Employee{
		ID:       rec.ID,
		Number:   rec.Number,
		Username: rec.Username,
		Name:     rec.Name,
	}
	var err error
	if e.Currency, err = parseCurrency(rec.CurrencySpace, rec.CurrencyID); err != nil {
		return nil, model.Malformed("employee", rec.ID, "currency", rec.CurrencyID, err)
	}
	if rec.Rate != "" {
		if e.Rate, err = fixedpoint.Parse(rec.Rate); err != nil {
			return nil, model.Malformed("employee", rec.ID, "rate", rec.Rate, err)
		}
	}
	if e.Active, err = parseActive(rec.Active); err != nil {
		return nil, model.Malformed("employee", rec.ID, "active", rec.Active, err)
	}
	return e, nil
}

// NewJob parses a raw job. An unrecognized owner tag is kept as written so
// that resolving the job's owner type reports it.
func NewJob(rec model.JobRecord) (*Job, error) {
	j := &Job{
		ID:        rec.ID,
		Number:    rec.Number,
		Name:      rec.Name,
		Reference: rec.Reference,
		Owner:     model.Owner{ID: rec.OwnerID},
	}
	typ, err := model.ParseOwnerType(rec.OwnerType)
	if err != nil {
		typ = model.OwnerType(rec.OwnerType)
	}
	j.Owner.Type = typ
	if j.Active, err = parseActive(rec.Active); err != nil {
		return nil, model.Malformed("job", rec.ID, "active", rec.Active, err)
	}
	return j, nil
}

func parseCurrency(space, id string) (commodity.ID, error) {
	if id == "" {
		return commodity.ID{}, nil
	}
	return commodity.Parse(space, id)
}

// parseActive treats a missing flag as active.
func parseActive(s string) (bool, error) {
	if strings.TrimSpace(s) == "" {
		return true, nil
	}
	return model.ParseBool(s)
}
