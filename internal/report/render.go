package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Header is the CSV header line.
const Header = "invoice_id,number,owner,family,currency,posted,due,amount_with_taxes,amount_without_taxes,paid,unpaid,fully_paid"

const numFields = 12

const (
	colInvoiceID = iota
	colNumber
	colOwner
	colFamily
	colCurrency
	colPosted
	colDue
	colWithTaxes
	colWithoutTaxes
	colPaid
	colUnpaid
	colFullyPaid
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	amountStyle = cellStyle.Align(lipgloss.Right)
	paidStyle   = amountStyle.Foreground(lipgloss.Color("#a6e3a1"))
	owedStyle   = amountStyle.Foreground(lipgloss.Color("#f38ba8"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
)

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

// MarshalRow converts a row to CSV fields with amounts rounded to places.
func MarshalRow(row Row, places int32) []string {
	rec := make([]string, numFields)
	rec[colInvoiceID] = row.InvoiceID
	rec[colNumber] = row.Number
	rec[colOwner] = row.Owner
	rec[colFamily] = string(row.Family)
	rec[colCurrency] = row.Currency.String()
	rec[colPosted] = formatDate(row.Posted)
	rec[colDue] = formatDate(row.Due)
	rec[colWithTaxes] = row.WithTaxes.StringFixed(places)
	rec[colWithoutTaxes] = row.WithoutTaxes.StringFixed(places)
	rec[colPaid] = row.Paid.StringFixed(places)
	rec[colUnpaid] = row.Unpaid.StringFixed(places)
	rec[colFullyPaid] = strconv.FormatBool(row.FullyPaid)
	return rec
}

// WriteCSV writes the rows as CSV with a header line.
func WriteCSV(w io.Writer, rows []Row, places int32) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(MarshalRow(row, places)); err != nil {
			return fmt.Errorf("writing invoice %s: %w", row.InvoiceID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTable renders the report as a bordered table followed by per-currency totals.
func WriteTable(w io.Writer, r *Report, places int32) error {
	rows := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		status := "open"
		if row.FullyPaid {
			status = "paid"
		}
		rows = append(rows, []string{
			row.Number,
			row.Owner,
			string(row.Family),
			formatDate(row.Posted),
			formatDate(row.Due),
			row.WithTaxes.StringFixed(places),
			row.Paid.StringFixed(places),
			row.Unpaid.StringFixed(places),
			row.Currency.String(),
			status,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("NUMBER", "OWNER", "FAMILY", "POSTED", "DUE", "TOTAL", "PAID", "UNPAID", "CUR", "STATUS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 7 && row >= 0 && row < len(r.Rows):
				if r.Rows[row].FullyPaid {
					return paidStyle
				}
				return owedStyle
			case col >= 5 && col <= 7:
				return amountStyle
			}
			return cellStyle
		})
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}

	for _, tot := range r.Totals() {
		_, err := fmt.Fprintf(w, "%s  total %s  paid %s  unpaid %s\n",
			tot.Currency, tot.WithTaxes.StringFixed(places), tot.Paid.StringFixed(places), tot.Unpaid.StringFixed(places))
		if err != nil {
			return err
		}
	}
	if n := len(r.Failures); n > 0 {
		if _, err := fmt.Fprintf(w, "%d invoice(s) could not be computed\n", n); err != nil {
			return err
		}
	}
	return nil
}
