package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gncx-dev/gncx/internal/book"
	"github.com/gncx-dev/gncx/internal/diag"
	"github.com/gncx-dev/gncx/internal/id"
	"github.com/gncx-dev/gncx/internal/ledger"
)

func newCheckCommand(a *app) *cobra.Command {
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate transactions and list problems found while reading the book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.openBook(cmd.Context())
			if err != nil {
				return err
			}
			return runCheck(cmd.OutOrStdout(), b, asCSV)
		},
	}

	cmd.Flags().BoolVar(&asCSV, "csv", false, "write findings as CSV")

	return cmd
}

// checkFindings merges book diagnostics with transaction rule violations.
func checkFindings(b *book.Book) []diag.Diagnostic {
	findings := b.Diagnostics()
	for _, v := range ledger.ValidateTransactions(b.Transactions(), b.Accounts()) {
		findings = append(findings, diag.Diagnostic{
			Kind:    diag.Kind(v.Rule),
			Subject: v.TransactionID,
			Message: v.Description,
		})
	}
	return findings
}

func runCheck(out io.Writer, b *book.Book, asCSV bool) error {
	findings := checkFindings(b)

	if asCSV {
		if err := diag.WriteCSV(out, findings); err != nil {
			return err
		}
	} else {
		for _, f := range findings {
			subject := f.Subject
			if id.Valid(subject) {
				subject = id.Short(subject)
			}
			fmt.Fprintf(out, "%-16s %-10s %s\n", f.Kind, subject, f.Message)
		}
		if len(findings) == 0 {
			fmt.Fprintf(out, "OK: %d transactions, %d invoices\n", len(b.Transactions()), len(b.Invoices()))
		}
	}

	if n := len(findings); n > 0 {
		return fmt.Errorf("%d problem(s) found", n)
	}
	return nil
}
