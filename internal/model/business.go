package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownOwnerType is returned when an owner type tag has no known meaning.
var ErrUnknownOwnerType = errors.New("unknown owner type")

// OwnerType tags the owner of an invoice or job.
type OwnerType string

const (
	OwnerTypeCustomer OwnerType = "CUSTOMER"
	OwnerTypeVendor   OwnerType = "VENDOR"
	OwnerTypeEmployee OwnerType = "EMPLOYEE"
	OwnerTypeJob      OwnerType = "JOB"
)

// ParseOwnerType accepts XML tags ("gncCustomer"), plain names and the
// numeric codes of the SQL backend (2 customer, 3 job, 4 vendor, 5 employee).
func ParseOwnerType(s string) (OwnerType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.TrimPrefix(key, "gnc")
	switch key {
	case "customer", "2":
		return OwnerTypeCustomer, nil
	case "vendor", "4":
		return OwnerTypeVendor, nil
	case "employee", "5":
		return OwnerTypeEmployee, nil
	case "job", "3":
		return OwnerTypeJob, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOwnerType, s)
}

// Owner references the customer, vendor, employee or job owning a record.
type Owner struct {
	Type OwnerType
	ID   string
}

func (o Owner) String() string {
	return fmt.Sprintf("%s:%s", o.Type, o.ID)
}

// CustomerRecord is a raw customer.
type CustomerRecord struct {
	ID            string
	Number        string
	Name          string
	CurrencySpace string
	CurrencyID    string
	TaxTableID    string
	TaxIncluded   string
	TermsID       string
	Notes         string
	Active        string
}

// VendorRecord is a raw vendor.
type VendorRecord struct {
	ID            string
	Number        string
	Name          string
	CurrencySpace string
	CurrencyID    string
	TaxTableID    string
	TaxIncluded   string
	TermsID       string
	Notes         string
	Active        string
}

// EmployeeRecord is a raw employee.
type EmployeeRecord struct {
	ID            string
	Number        string
	Username      string
	Name          string // address name
	CurrencySpace string
	CurrencyID    string
	Rate          string
	Active        string
}

// JobRecord is a raw job; its owner is a customer or vendor.
type JobRecord struct {
	ID        string
	Number    string
	Name      string
	Reference string
	OwnerType string
	OwnerID   string
	Active    string
}

// InvoiceRecord is a raw invoice, bill or voucher.
type InvoiceRecord struct {
	ID            string
	Number        string
	OwnerType     string
	OwnerID       string
	DateOpened    string
	DatePosted    string
	TermsID       string
	BillingID     string
	Notes         string
	Active        string
	CurrencySpace string
	CurrencyID    string
	PostTxnID     string
	PostLotID     string
	PostAccountID string
}

// EntryRecord is a raw invoice line. The i-fields belong to customer
// invoices, the b-fields to vendor bills and employee vouchers.
type EntryRecord struct {
	ID             string
	Date           string
	DateEntered    string
	Description    string
	Action         string
	Notes          string
	Quantity       string
	InvoiceID      string
	InvAccountID   string
	InvPrice       string
	InvTaxable     string
	InvTaxIncluded string
	InvTaxTableID  string
	BillID         string
	BillAccountID  string
	BillPrice      string
	BillTaxable    string
	BillTaxIncl    string
	BillTaxTableID string
}

// TaxTableRecord is a raw tax table.
type TaxTableRecord struct {
	ID       string
	Name     string
	ParentID string
	Entries  []TaxTableEntryRecord
}

// TaxTableEntryRecord is one rate of a tax table.
type TaxTableEntryRecord struct {
	AccountID string
	Amount    string
	Type      string // PERCENT or VALUE, or the SQL codes 2 and 1
}

// BillTermRecord is a raw billing term.
type BillTermRecord struct {
	ID           string
	Name         string
	Description  string
	DueDays      string
	DiscountDays string
	Discount     string
}
