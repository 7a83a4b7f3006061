package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gncx-dev/gncx/internal/ledger"
)

func newExportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export book data as CSV",
	}
	cmd.AddCommand(newExportJournalCommand(a))
	return cmd
}

func newExportJournalCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Write every split with its transaction header as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.openBook(cmd.Context())
			if err != nil {
				return err
			}
			rows := ledger.Rows(b.Transactions())

			if output == "" || output == "-" {
				return ledger.WriteJournal(cmd.OutOrStdout(), rows)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			if err := ledger.WriteJournal(f, rows); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			a.log.Info().Str("file", output).Int("rows", len(rows)).Msg("journal exported")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}
