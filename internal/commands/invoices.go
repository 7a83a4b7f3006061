package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/gncx-dev/gncx/internal/invoice"
	"github.com/gncx-dev/gncx/internal/report"
)

type invoicesOptions struct {
	unpaid bool
	posted bool
	family string
	asOf   string
	csv    bool
}

func newInvoicesCommand(a *app) *cobra.Command {
	var opts invoicesOptions

	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "List invoices with their taxed, untaxed and paid amounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ropts, err := opts.reportOptions()
			if err != nil {
				return err
			}
			b, err := a.openBook(cmd.Context())
			if err != nil {
				return err
			}

			rep := report.Invoices(b, ropts)
			asCSV := opts.csv || a.cfg.Report.Format == "csv"
			return runInvoices(cmd.OutOrStdout(), rep, asCSV, a.cfg.Report.DecimalPlaces)
		},
	}

	cmd.Flags().BoolVar(&opts.unpaid, "unpaid", false, "only invoices with an unpaid balance")
	cmd.Flags().BoolVar(&opts.posted, "posted", false, "only posted invoices")
	cmd.Flags().StringVar(&opts.family, "family", "", "compute every invoice as customer, vendor, employee or job")
	cmd.Flags().StringVar(&opts.asOf, "as-of", "", "with --unpaid, only invoices due on or before this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&opts.csv, "csv", false, "write CSV instead of a table")

	return cmd
}

func (o invoicesOptions) reportOptions() (report.Options, error) {
	ropts := report.Options{UnpaidOnly: o.unpaid, PostedOnly: o.posted}
	if o.family != "" {
		f, err := invoice.ParseFamily(o.family)
		if err != nil {
			return ropts, err
		}
		ropts.Family = f
	}
	if o.asOf != "" {
		t, err := time.Parse(time.DateOnly, o.asOf)
		if err != nil {
			return ropts, fmt.Errorf("parsing --as-of: %w", err)
		}
		ropts.AsOf = t
	}
	return ropts, nil
}

func runInvoices(out io.Writer, rep *report.Report, asCSV bool, places int32) error {
	if asCSV {
		return report.WriteCSV(out, rep.Rows, places)
	}
	return report.WriteTable(out, rep, places)
}
