package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/docroutes/internal/config"
	"github.com/vango-dev/docroutes/internal/errors"
	"github.com/vango-dev/docroutes/pkg/codec"
	"github.com/vango-dev/docroutes/pkg/router"
	"github.com/vango-dev/docroutes/pkg/routetable"
	"github.com/vango-dev/docroutes/pkg/source"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	c := &cli{}
	if err := c.rootCmd().Execute(); err != nil {
		c.reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// cli holds the state shared by all commands.
type cli struct {
	configFile string
	source     string
	format     string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *slog.Logger
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "docroutes",
		Short: "Inspect and serve documentation site route tables",
		Long: `docroutes loads the route table a documentation site generator writes
(.docusaurus/routes.js), validates it and resolves request paths against it
the way the site's client router does.

Tables can be read from local files, standard input or S3, converted between
routes.js, JSON, YAML and TOML, queried with JSONPath, and served over HTTP
with live reload.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (default: docroutes.yaml in the working directory or a parent)")
	flags.StringVarP(&c.source, "source", "s", "", "route table path, file:// or s3:// URI, or - for stdin")
	flags.StringVarP(&c.format, "format", "f", "", "input format: auto, js, json, yaml, toml")
	flags.StringVar(&c.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&c.logFormat, "log-format", "", "log format: text, json")

	root.AddCommand(
		validateCmd(c),
		resolveCmd(c),
		convertCmd(c),
		queryCmd(c),
		leavesCmd(c),
		statsCmd(c),
		serveCmd(c),
		versionCmd(),
	)

	return root
}

// init loads the configuration, applies flag overrides and builds the logger.
func (c *cli) init(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		// Flag paths are relative to the working directory, not the config.
		cfg.Source = c.source
		if isLocalFile(c.source) && !filepath.IsAbs(c.source) {
			if abs, err := filepath.Abs(c.source); err == nil {
				cfg.Source = abs
			}
		}
	}
	if flags.Changed("format") {
		cfg.Format = c.format
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = c.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = c.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = newLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(c.logger)
	return nil
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	level, _ := cfg.LogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (c *cli) sourceOptions() source.Options {
	maxSize, _ := c.cfg.MaxSizeBytes()
	return source.Options{
		MaxSize: maxSize,
		S3: source.S3Config{
			Region:       c.cfg.S3.Region,
			Endpoint:     c.cfg.S3.Endpoint,
			UsePathStyle: c.cfg.S3.UsePathStyle,
		},
	}
}

func (c *cli) inputFormat() codec.Format {
	format, _ := codec.ParseFormat(c.cfg.Format)
	return format
}

func (c *cli) validateOptions() routetable.ValidateOptions {
	return routetable.ValidateOptions{
		AllowMissingFallback: c.cfg.Validation.AllowMissingFallback,
		Sensitive:            c.cfg.Match.Sensitive,
	}
}

func (c *cli) matchOptions() []router.Option {
	return []router.Option{router.WithSensitive(c.cfg.Match.Sensitive)}
}

// loadTable fetches and decodes the configured source. Syntax errors carry
// the surrounding lines of the document.
func (c *cli) loadTable(ctx context.Context) (*routetable.Table, *source.Document, error) {
	uri := c.cfg.SourcePath()
	if uri == "" {
		return nil, nil, errors.New("E103").
			WithSuggestion("Pass --source or set source in docroutes.yaml")
	}

	table, doc, err := source.Load(ctx, uri, c.inputFormat(), c.sourceOptions())
	if err != nil {
		var syntaxErr *codec.SyntaxError
		if stderrors.As(err, &syntaxErr) && doc != nil {
			return nil, doc, errors.FromSyntax(syntaxErr, doc.Name, doc.Data)
		}
		return nil, doc, err
	}
	c.logger.Debug("route table loaded", "source", doc.Name, "bytes", doc.Size(), "version", doc.Version)
	return table, doc, nil
}

// loadValid loads the table and checks it against the structural rules.
func (c *cli) loadValid(ctx context.Context) (*routetable.Table, *source.Document, error) {
	table, doc, err := c.loadTable(ctx)
	if err != nil {
		return nil, doc, err
	}
	if err := routetable.Validate(table, c.validateOptions()); err != nil {
		return nil, doc, err
	}
	return table, doc, nil
}

// reportError prints the error a command failed with. With JSON logging it
// becomes a single log record so collectors see one entry per failure.
func (c *cli) reportError(w io.Writer, err error) {
	coded := errors.Classify(err)
	format := c.logFormat
	if c.cfg != nil {
		format = c.cfg.Log.Format
	}
	if format != "json" {
		fmt.Fprint(w, coded.Format())
		return
	}

	attrs := []slog.Attr{
		slog.String("code", coded.Code),
		slog.String("category", string(coded.Category)),
	}
	if coded.Detail != "" {
		attrs = append(attrs, slog.String("detail", coded.Detail))
	}
	if len(coded.Findings) > 0 {
		attrs = append(attrs, slog.Any("findings", coded.Findings))
	}
	if coded.Wrapped != nil {
		attrs = append(attrs, slog.String("cause", coded.Wrapped.Error()))
	}
	if coded.Suggestion != "" {
		attrs = append(attrs, slog.String("suggestion", coded.Suggestion))
	}
	logger := slog.New(slog.NewJSONHandler(w, nil))
	logger.LogAttrs(context.Background(), slog.LevelError, coded.FormatCompact(), attrs...)
}

// isLocalFile reports whether a source names a path on disk rather than
// standard input or a URI.
func isLocalFile(name string) bool {
	return name != "" && name != "-" && !strings.Contains(name, "://")
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
