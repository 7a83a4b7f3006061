package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gncx-dev/gncx/internal/accounts"
	"github.com/gncx-dev/gncx/internal/report"
)

type accountsOptions struct {
	csv         bool
	hidden      bool
	find        string
	maxDistance int
}

func newAccountsCommand(a *app) *cobra.Command {
	var opts accountsOptions

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Show the account tree with balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.openBook(cmd.Context())
			if err != nil {
				return err
			}
			return runAccounts(cmd.OutOrStdout(), b.Accounts(), opts, a.cfg.Report.DecimalPlaces)
		},
	}

	cmd.Flags().BoolVar(&opts.csv, "csv", false, "write the chart of accounts as CSV")
	cmd.Flags().BoolVar(&opts.hidden, "hidden", false, "include hidden accounts")
	cmd.Flags().StringVar(&opts.find, "find", "", "list accounts whose name is close to this")
	cmd.Flags().IntVar(&opts.maxDistance, "max-distance", 2, "maximum edit distance for --find")

	return cmd
}

func runAccounts(out io.Writer, g *accounts.Graph, opts accountsOptions, places int32) error {
	switch {
	case opts.find != "":
		matches := g.FindByName(opts.find, opts.maxDistance)
		if len(matches) == 0 {
			return fmt.Errorf("no account matches %q", opts.find)
		}
		for _, m := range matches {
			fmt.Fprintf(out, "%s\t%s\t%s\n", m.FullName, m.Account.Type, m.Account.Balance().StringFixed(places))
		}
		return nil
	case opts.csv:
		return accounts.WriteAccounts(out, g)
	default:
		return report.WriteAccountTree(out, g, report.TreeOptions{ShowHidden: opts.hidden, Places: places})
	}
}
