package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/roach88/cql2pg/internal/cql"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Lang    string // "en" | "de"

	// Logger is set by the root command before any command runs.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// ValidLanguages defines the languages error messages can be rendered in.
var ValidLanguages = []string{"en", "de"}

// NewRootCommand creates the root command. Invoked without a subcommand it
// translates one CQL query.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	tOpts := &translateOptions{}

	cmd := &cobra.Command{
		Use:   "cql2pg -t <table> [flags] <cql>",
		Short: "Translate CQL queries to PostgreSQL JSONB SQL",
		Long: `Translate a Contextual Query Language query into a PostgreSQL WHERE clause
over a JSONB column, with ORDER BY and the joins needed to search arrays.

Field kinds and indexes come from an optional schema file (JSON or YAML).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if !slices.Contains(ValidLanguages, opts.Lang) {
				return fmt.Errorf("invalid language %q: must be one of %v", opts.Lang, ValidLanguages)
			}
			opts.Logger = NewLogger(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(opts, tOpts, args[0], cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Lang, "lang", "en", "language of error messages (en|de)")

	bindTranslateFlags(cmd, tOpts)

	cmd.AddCommand(NewSchemaCommand(opts))

	return cmd
}

// formatter returns the message formatter for the selected language.
func (o *RootOptions) formatter() cql.Formatter {
	if o.Lang == "" || o.Lang == "en" {
		return cql.EnglishFormatter{}
	}
	return cql.NewLocalizedFormatter(language.Make(o.Lang))
}

// logger returns the configured logger, or a discarding one when a
// command runs without the root command.
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}
