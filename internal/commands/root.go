package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gncx-dev/gncx/internal/book"
	"github.com/gncx-dev/gncx/internal/buildinfo"
	"github.com/gncx-dev/gncx/internal/config"
	"github.com/gncx-dev/gncx/internal/logger"
	"github.com/gncx-dev/gncx/internal/source"
)

// app carries the settings shared by all subcommands.
type app struct {
	configPath    string
	bookPath      string
	format        string
	logLevel      string
	skipMalformed bool

	cfg       *config.Config
	logCloser io.Closer
	log       zerolog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "gncx",
		Short:   "Read GnuCash books and report on invoices",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.logCloser != nil {
				return a.logCloser.Close()
			}
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", config.FileName, "config file")
	pf.StringVar(&a.bookPath, "book", "", "book file (overrides config and GNCX_BOOK)")
	pf.StringVar(&a.format, "format", "", "book format: xml, sqlite or auto")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	pf.BoolVar(&a.skipMalformed, "skip-malformed", false, "skip unparsable records instead of failing")

	rootCmd.AddCommand(newInitCommand(a))
	rootCmd.AddCommand(newAccountsCommand(a))
	rootCmd.AddCommand(newInvoicesCommand(a))
	rootCmd.AddCommand(newCheckCommand(a))
	rootCmd.AddCommand(newExportCommand(a))

	return rootCmd
}

// setup resolves the configuration (defaults, file, environment, flags, in
// that order) and configures logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if cmd.Flags().Changed("config") {
			return err
		}
		cfg = config.Default("")
	case err != nil:
		return err
	default:
		// A relative book path in the file is relative to the file.
		if cfg.Book != "" && !filepath.IsAbs(cfg.Book) {
			cfg.Book = filepath.Join(filepath.Dir(a.configPath), cfg.Book)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return fmt.Errorf("applying environment: %w", err)
	}
	if a.bookPath != "" {
		cfg.Book = a.bookPath
	}
	if a.format != "" {
		cfg.Format = a.format
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.skipMalformed {
		cfg.Malformed = config.MalformedSkip
	}
	a.cfg = cfg

	closer, err := logger.Setup(logger.LogConfig{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return err
	}
	a.logCloser = closer
	a.log = logger.WithComponent("cli")
	return nil
}

// openBook builds the configured book.
func (a *app) openBook(ctx context.Context) (*book.Book, error) {
	if a.cfg.Book == "" {
		return nil, errors.New("no book configured: pass --book, set GNCX_BOOK or run gncx init")
	}
	tol, err := a.cfg.ToleranceValue()
	if err != nil {
		return nil, err
	}
	opts := []book.Option{book.WithTolerance(tol), book.WithLogger(logger.WithComponent("book"))}
	if a.cfg.SkipMalformed() {
		opts = append(opts, book.WithSkipMalformed())
	}

	b, err := book.OpenFormat(ctx, source.DefaultRegistry(), a.cfg.Book, a.cfg.Format, opts...)
	if err != nil {
		return nil, err
	}
	a.log.Debug().Str("book", a.cfg.Book).Int("invoices", len(b.Invoices())).Msg("book opened")
	return b, nil
}
