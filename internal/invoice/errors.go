package invoice

import (
	"errors"
	"fmt"

	"github.com/gncx-dev/gncx/internal/model"
)

var (
	// ErrWrongOwnerType is returned when a family's computation is requested
	// on an invoice whose owner type does not belong to that family.
	ErrWrongOwnerType = errors.New("wrong owner type")

	// ErrTaxTableNotFound is returned when a taxable entry carries no tax table reference.
	ErrTaxTableNotFound = errors.New("tax table not found")

	// ErrSealed is returned when an entry or paying transaction is added to a sealed invoice.
	ErrSealed = errors.New("invoice is sealed")

	// ErrDetached is returned when an entry that belongs to no invoice is asked for sums.
	ErrDetached = errors.New("entry is not attached to an invoice")

	// ErrUnknownOwnerType is returned when a job's owner is neither a customer nor a vendor.
	ErrUnknownOwnerType = model.ErrUnknownOwnerType
)

// WrongOwnerTypeError reports a family mismatch.
type WrongOwnerTypeError struct {
	InvoiceID string
	OwnerType model.OwnerType
	Family    Family
}

// Error implements the error interface.
func (e *WrongOwnerTypeError) Error() string {
	return fmt.Sprintf("invoice %s: owner type %s cannot be computed as %s", e.InvoiceID, e.OwnerType, e.Family)
}

// Is reports whether target is ErrWrongOwnerType.
func (e *WrongOwnerTypeError) Is(target error) bool {
	return target == ErrWrongOwnerType
}
