package owners

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gncx-dev/gncx/internal/diag"
	"github.com/gncx-dev/gncx/internal/model"
)

func sampleDirectory(t *testing.T, rec *diag.Recorder) *Directory {
	t.Helper()
	d := NewDirectory(rec)

	c, err := NewCustomer(model.CustomerRecord{ID: "c1", Name: "ACME GmbH", CurrencySpace: "ISO4217", CurrencyID: "EUR", TaxIncluded: "NO", TermsID: "net30"})
	require.NoError(t, err)
	d.AddCustomer(c)

	v, err := NewVendor(model.VendorRecord{ID: "v1", Name: "Paper Supplies", TaxIncluded: "1", Active: "0"})
	require.NoError(t, err)
	d.AddVendor(v)

	e, err := NewEmployee(model.EmployeeRecord{ID: "e1", Username: "jdoe", Rate: "45.50"})
	require.NoError(t, err)
	d.AddEmployee(e)

	for _, jr := range []model.JobRecord{
		{ID: "j-cust", Name: "Website", OwnerType: "gncCustomer", OwnerID: "c1"},
		{ID: "j-vend", Name: "Stock", OwnerType: "4", OwnerID: "v1"},
		{ID: "j-empl", Name: "Travel", OwnerType: "employee", OwnerID: "e1"},
		{ID: "j-bad", Name: "Broken", OwnerType: "gncPartner", OwnerID: "x"},
	} {
		j, err := NewJob(jr)
		require.NoError(t, err)
		d.AddJob(j)
	}

	bt, err := NewBillTerm(model.BillTermRecord{ID: "net30", Name: "Net 30", DueDays: "30", DiscountDays: "10", Discount: "2"})
	require.NoError(t, err)
	d.AddBillTerm(bt)
	return d
}

func TestParseTaxIncluded(t *testing.T) {
	tests := []struct {
		in   string
		want TaxIncluded
	}{
		{"YES", TaxIncludedYes},
		{"no", TaxIncludedNo},
		{"3", TaxIncludedUseGlobal},
		{"", TaxIncludedUseGlobal},
		{"1", TaxIncludedYes},
	}
	for _, tt := range tests {
		got, err := ParseTaxIncluded(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseTaxIncluded("sometimes")
	assert.Error(t, err)
}

func TestNewParsers(t *testing.T) {
	d := sampleDirectory(t, nil)

	c, ok := d.Customer("c1")
	require.True(t, ok)
	assert.Equal(t, "EUR", c.Currency.String())
	assert.Equal(t, TaxIncludedNo, c.TaxIncluded)
	assert.True(t, c.Active, "missing active flag means active")

	v, ok := d.Vendor("v1")
	require.True(t, ok)
	assert.Equal(t, TaxIncludedYes, v.TaxIncluded)
	assert.False(t, v.Active)
	assert.True(t, v.Currency.IsZero())

	e, ok := d.Employee("e1")
	require.True(t, ok)
	assert.Equal(t, "91/2", e.Rate.String())
	assert.Equal(t, "jdoe", e.DisplayName())

	j, ok := d.Job("j-vend")
	require.True(t, ok)
	assert.Equal(t, model.Owner{Type: model.OwnerTypeVendor, ID: "v1"}, j.Owner)
}

func TestNewParsers_Malformed(t *testing.T) {
	_, err := NewCustomer(model.CustomerRecord{ID: "c", TaxIncluded: "perhaps"})
	assert.ErrorIs(t, err, model.ErrMalformedRecord)

	_, err = NewVendor(model.VendorRecord{ID: "v", CurrencySpace: "ISO4217", CurrencyID: "EURO"})
	assert.ErrorIs(t, err, model.ErrMalformedRecord)

	_, err = NewEmployee(model.EmployeeRecord{ID: "e", Rate: "lots"})
	assert.ErrorIs(t, err, model.ErrMalformedRecord)

	_, err = NewJob(model.JobRecord{ID: "j", Active: "unknown"})
	assert.ErrorIs(t, err, model.ErrMalformedRecord)

	_, err = NewBillTerm(model.BillTermRecord{ID: "b", DueDays: "thirty"})
	assert.ErrorIs(t, err, model.ErrMalformedRecord)
}

func TestJobOwnerType(t *testing.T) {
	d := sampleDirectory(t, nil)

	typ, err := d.JobOwnerType("j-cust")
	require.NoError(t, err)
	assert.Equal(t, model.OwnerTypeCustomer, typ)

	typ, err = d.JobOwnerType("j-vend")
	require.NoError(t, err)
	assert.Equal(t, model.OwnerTypeVendor, typ)

	for _, id := range []string{"j-empl", "j-bad", "missing"} {
		_, err := d.JobOwnerType(id)
		assert.ErrorIs(t, err, model.ErrUnknownOwnerType, id)
	}
}

func TestOwnerName(t *testing.T) {
	d := sampleDirectory(t, nil)

	tests := []struct {
		owner model.Owner
		want  string
	}{
		{model.Owner{Type: model.OwnerTypeCustomer, ID: "c1"}, "ACME GmbH"},
		{model.Owner{Type: model.OwnerTypeVendor, ID: "v1"}, "Paper Supplies"},
		{model.Owner{Type: model.OwnerTypeEmployee, ID: "e1"}, "jdoe"},
		{model.Owner{Type: model.OwnerTypeJob, ID: "j-cust"}, "Website (ACME GmbH)"},
		{model.Owner{Type: model.OwnerTypeCustomer, ID: "gone"}, "gone"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, d.OwnerName(tt.owner))
	}
}

func TestTermsAndDueDate(t *testing.T) {
	d := sampleDirectory(t, nil)

	bt, ok := d.Terms(model.Owner{Type: model.OwnerTypeJob, ID: "j-cust"})
	require.True(t, ok)
	assert.Equal(t, "Net 30", bt.Name)
	assert.Equal(t, "2", bt.Discount.String())

	posted := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC), bt.DueDate(posted))

	_, ok = d.Terms(model.Owner{Type: model.OwnerTypeVendor, ID: "v1"})
	assert.False(t, ok)
}

func TestDirectory_Duplicates(t *testing.T) {
	rec := diag.NewRecorder(zerolog.Nop())
	d := sampleDirectory(t, rec)

	c, err := NewCustomer(model.CustomerRecord{ID: "c1", Name: "ACME AG"})
	require.NoError(t, err)
	d.AddCustomer(c)

	require.Len(t, d.Customers(), 1)
	got, _ := d.Customer("c1")
	assert.Equal(t, "ACME AG", got.Name)
	assert.Len(t, rec.ByKind(diag.KindDuplicate), 1)

	assert.Len(t, d.Jobs(), 4)
	assert.Len(t, d.Vendors(), 1)
	assert.Len(t, d.Employees(), 1)
	assert.Len(t, d.BillTerms(), 1)
}
