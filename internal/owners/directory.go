package owners

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gncx-dev/gncx/internal/diag"
	"github.com/gncx-dev/gncx/internal/fixedpoint"
	"github.com/gncx-dev/gncx/internal/model"
)

// BillTerm sets when an invoice falls due and the early-payment discount.
type BillTerm struct {
	ID           string
	Name         string
	Description  string
	DueDays      int
	DiscountDays int
	Discount     fixedpoint.Number // percent
}

// NewBillTerm parses a raw billing term.
func NewBillTerm(rec model.BillTermRecord) (*BillTerm, error) {
	bt := &BillTerm{ID: rec.ID, Name: rec.Name, Description: rec.Description}
	var err error
	if bt.DueDays, err = parseDays(rec.DueDays); err != nil {
		return nil, model.Malformed("bill term", rec.ID, "due-days", rec.DueDays, err)
	}
	if bt.DiscountDays, err = parseDays(rec.DiscountDays); err != nil {
		return nil, model.Malformed("bill term", rec.ID, "discount-days", rec.DiscountDays, err)
	}
	if rec.Discount != "" {
		if bt.Discount, err = fixedpoint.Parse(rec.Discount); err != nil {
			return nil, model.Malformed("bill term", rec.ID, "discount", rec.Discount, err)
		}
	}
	return bt, nil
}

// DueDate returns the date an invoice posted at posted falls due.
func (bt *BillTerm) DueDate(posted time.Time) time.Time {
	return posted.AddDate(0, 0, bt.DueDays)
}

func parseDays(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// registry keeps records in book order with an ID index.
// A later record with a known ID replaces the earlier one in place.
type registry[T any] struct {
	kind  string
	items []T
	byID  map[string]int
}

func (r *registry[T]) put(id string, v T, diags *diag.Recorder) {
	if r.byID == nil {
		r.byID = make(map[string]int)
	}
	if i, ok := r.byID[id]; ok {
		diags.Warn(diag.KindDuplicate, id, "%s defined more than once, keeping the last definition", r.kind)
		r.items[i] = v
		return
	}
	r.byID[id] = len(r.items)
	r.items = append(r.items, v)
}

func (r *registry[T]) get(id string) (T, bool) {
	i, ok := r.byID[id]
	if !ok {
		var zero T
		return zero, false
	}
	return r.items[i], true
}

// Directory provides lookup over the owners and billing terms of a book.
type Directory struct {
	customers registry[*Customer]
	vendors   registry[*Vendor]
	employees registry[*Employee]
	jobs      registry[*Job]
	terms     registry[*BillTerm]
	diags     *diag.Recorder
}

// NewDirectory returns an empty Directory that reports duplicates to diags.
func NewDirectory(diags *diag.Recorder) *Directory {
	return &Directory{
		customers: registry[*Customer]{kind: "customer"},
		vendors:   registry[*Vendor]{kind: "vendor"},
		employees: registry[*Employee]{kind: "employee"},
		jobs:      registry[*Job]{kind: "job"},
		terms:     registry[*BillTerm]{kind: "bill term"},
		diags:     diags,
	}
}

// AddCustomer adds or replaces a customer.
func (d *Directory) AddCustomer(c *Customer) { d.customers.put(c.ID, c, d.diags) }

// AddVendor adds or replaces a vendor.
func (d *Directory) AddVendor(v *Vendor) { d.vendors.put(v.ID, v, d.diags) }

// AddEmployee adds or replaces an employee.
func (d *Directory) AddEmployee(e *Employee) { d.employees.put(e.ID, e, d.diags) }

// AddJob adds or replaces a job.
func (d *Directory) AddJob(j *Job) { d.jobs.put(j.ID, j, d.diags) }

// AddBillTerm adds or replaces a billing term.
func (d *Directory) AddBillTerm(bt *BillTerm) { d.terms.put(bt.ID, bt, d.diags) }

// Customer returns the customer with the given ID.
func (d *Directory) Customer(id string) (*Customer, bool) { return d.customers.get(id) }

// Vendor returns the vendor with the given ID.
func (d *Directory) Vendor(id string) (*Vendor, bool) { return d.vendors.get(id) }

// Employee returns the employee with the given ID.
func (d *Directory) Employee(id string) (*Employee, bool) { return d.employees.get(id) }

// Job returns the job with the given ID.
func (d *Directory) Job(id string) (*Job, bool) { return d.jobs.get(id) }

// BillTerm returns the billing term with the given ID.
func (d *Directory) BillTerm(id string) (*BillTerm, bool) { return d.terms.get(id) }

// Customers returns all customers in book order.
func (d *Directory) Customers() []*Customer { return d.customers.items }

// Vendors returns all vendors in book order.
func (d *Directory) Vendors() []*Vendor { return d.vendors.items }

// Employees returns all employees in book order.
func (d *Directory) Employees() []*Employee { return d.employees.items }

// Jobs returns all jobs in book order.
func (d *Directory) Jobs() []*Job { return d.jobs.items }

// BillTerms returns all billing terms in book order.
func (d *Directory) BillTerms() []*BillTerm { return d.terms.items }

// JobOwnerType returns the owner type of a job: CUSTOMER or VENDOR.
// A missing job or any other owner type yields model.ErrUnknownOwnerType.
func (d *Directory) JobOwnerType(jobID string) (model.OwnerType, error) {
	j, ok := d.jobs.get(jobID)
	if !ok {
		return "", fmt.Errorf("job %s not found: %w", jobID, model.ErrUnknownOwnerType)
	}
	switch j.Owner.Type {
	case model.OwnerTypeCustomer, model.OwnerTypeVendor:
		return j.Owner.Type, nil
	}
	return "", fmt.Errorf("job %s owned by %q: %w", jobID, j.Owner.Type, model.ErrUnknownOwnerType)
}

// OwnerName returns a display name for an owner, or its ID when unknown.
// Jobs are shown with the name of their own owner.
func (d *Directory) OwnerName(o model.Owner) string {
	switch o.Type {
	case model.OwnerTypeCustomer:
		if c, ok := d.customers.get(o.ID); ok {
			return c.Name
		}
	case model.OwnerTypeVendor:
		if v, ok := d.vendors.get(o.ID); ok {
			return v.Name
		}
	case model.OwnerTypeEmployee:
		if e, ok := d.employees.get(o.ID); ok {
			return e.DisplayName()
		}
	case model.OwnerTypeJob:
		if j, ok := d.jobs.get(o.ID); ok {
			if j.Owner.Type == model.OwnerTypeJob {
				return j.Name
			}
			return fmt.Sprintf("%s (%s)", j.Name, d.OwnerName(j.Owner))
		}
	}
	return o.ID
}

// Terms returns the billing term set on a customer or vendor.
func (d *Directory) Terms(o model.Owner) (*BillTerm, bool) {
	var id string
	switch o.Type {
	case model.OwnerTypeCustomer:
		if c, ok := d.customers.get(o.ID); ok {
			id = c.TermsID
		}
	case model.OwnerTypeVendor:
		if v, ok := d.vendors.get(o.ID); ok {
			id = v.TermsID
		}
	case model.OwnerTypeJob:
		if j, ok := d.jobs.get(o.ID); ok && j.Owner.Type != model.OwnerTypeJob {
			return d.Terms(j.Owner)
		}
	}
	if id == "" {
		return nil, false
	}
	return d.terms.get(id)
}
