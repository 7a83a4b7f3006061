package invoice

import (
	"fmt"

	"github.com/gncx-dev/gncx/internal/model"
)

// Family selects the computation rules applied to an invoice: customer
// invoices, vendor bills, employee vouchers, or job invoices, which follow
// the rules of their job's owner.
type Family string

const (
	FamilyCustomer Family = "customer"
	FamilyVendor   Family = "vendor"
	FamilyEmployee Family = "employee"
	FamilyJob      Family = "job"
)

var families = []Family{FamilyCustomer, FamilyVendor, FamilyEmployee, FamilyJob}

// Families returns every family.
func Families() []Family {
	return append([]Family(nil), families...)
}

// ParseFamily maps a family name to a Family.
func ParseFamily(s string) (Family, error) {
	for _, f := range families {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown invoice family %q", s)
}

// Accepts reports whether the family may be computed on an invoice of owner type t.
// Customer and vendor rules also apply to job invoices; employee and job rules
// apply only to their own owner type.
func (f Family) Accepts(t model.OwnerType) bool {
	switch f {
	case FamilyCustomer:
		return t == model.OwnerTypeCustomer || t == model.OwnerTypeJob
	case FamilyVendor:
		return t == model.OwnerTypeVendor || t == model.OwnerTypeJob
	case FamilyEmployee:
		return t == model.OwnerTypeEmployee
	case FamilyJob:
		return t == model.OwnerTypeJob
	}
	return false
}

// usesInvoiceSide reports whether the family reads the customer-side prices
// of an entry. Vendor and employee families read the bill side.
func (f Family) usesInvoiceSide() bool {
	return f == FamilyCustomer
}

// paymentAccountType is the account type whose splits record payments.
func (f Family) paymentAccountType() model.AccountType {
	if f == FamilyCustomer {
		return model.AccountTypeReceivable
	}
	return model.AccountTypePayable
}

// NaturalFamily returns the family matching an owner type.
func NaturalFamily(t model.OwnerType) (Family, error) {
	switch t {
	case model.OwnerTypeCustomer:
		return FamilyCustomer, nil
	case model.OwnerTypeVendor:
		return FamilyVendor, nil
	case model.OwnerTypeEmployee:
		return FamilyEmployee, nil
	case model.OwnerTypeJob:
		return FamilyJob, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOwnerType, t)
}
