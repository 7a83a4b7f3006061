package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gncx-dev/gncx/internal/config"
	"github.com/gncx-dev/gncx/internal/source"
)

func newInitCommand(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a gncx.yaml for the book in a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, a.bookPath, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing gncx.yaml")

	return cmd
}

// runInit picks the book (the --book flag, or the first book file found in
// dir) and writes a default configuration pointing at it.
func runInit(out io.Writer, dir, bookPath string, force bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	}

	if bookPath == "" {
		files, err := source.Scan(dir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return errors.New("no book file found; pass --book")
		}
		bookPath = files[0].Name
		if len(files) > 1 {
			fmt.Fprintf(out, "Found %d book files, using %s\n", len(files), bookPath)
		}
	}

	reg := source.DefaultRegistry()
	resolved := bookPath
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(dir, resolved)
	}
	rd, err := reg.Detect(resolved)
	if err != nil {
		return err
	}

	cfg := config.Default(bookPath)
	cfg.Format = rd.Format()
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(out, "Wrote %s (book: %s, format: %s)\n", cfgPath, bookPath, rd.Format())
	return nil
}
