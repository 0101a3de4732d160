// Command settings-decode decodes a calculator settings link and prints the
// resulting configuration, its decode report and optional query results.
//
// Usage:
//
//	settings-decode [flags] <link> [link...]
//	settings-decode --catalog game.yaml --query 'rate_unit == "h"' '#rate=h&items=screw:r:60'
//
// Several links are decoded concurrently and printed as a list in argument
// order.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	settings "github.com/goliatone/go-factory-settings"
	"github.com/goliatone/go-factory-settings/catalog"
)

type cliOptions struct {
	catalogPath string
	queries     []string
	rules       []string
	engine      string
	format      string
	verbose     bool
	strict      bool
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &cliOptions{}
	var logger *zap.Logger

	cmd := &cobra.Command{
		Use:   "settings-decode <link> [link...]",
		Short: "Decode calculator settings links",
		Long: `Decodes the settings fragment of a shareable calculator link against a
catalog and prints the configuration snapshot and decode report.

Without --catalog the built-in sample catalog is used.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			config.OutputPaths = []string{"stderr"}
			if opts.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), out, logger, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.catalogPath, "catalog", "", "catalog file (.yaml, .json or .jsonc)")
	flags.StringArrayVarP(&opts.queries, "query", "q", nil, "expression evaluated against the snapshot (repeatable)")
	flags.StringArrayVar(&opts.rules, "rule", nil, "rule expression checked after decoding (repeatable)")
	flags.StringVar(&opts.engine, "engine", "expr", "expression engine: expr, cel or js")
	flags.StringVarP(&opts.format, "format", "o", "yaml", "output format: yaml or json")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log every field step")
	flags.BoolVar(&opts.strict, "strict", false, "exit non-zero when the report has diagnostics")
	return cmd
}

type output struct {
	Link        string                `yaml:"link" json:"link"`
	Settings    map[string]any        `yaml:"settings" json:"settings"`
	PassID      string                `yaml:"pass_id" json:"pass_id"`
	Fields      []settings.FieldTrace `yaml:"fields" json:"fields"`
	Diagnostics []diagnostic          `yaml:"diagnostics,omitempty" json:"diagnostics,omitempty"`
	Queries     []queryResult         `yaml:"queries,omitempty" json:"queries,omitempty"`
}

type diagnostic struct {
	Field string `yaml:"field" json:"field"`
	Error string `yaml:"error" json:"error"`
}

type queryResult struct {
	Expr  string `yaml:"expr" json:"expr"`
	Value any    `yaml:"value,omitempty" json:"value,omitempty"`
	Error string `yaml:"error,omitempty" json:"error,omitempty"`
}

func run(ctx context.Context, out io.Writer, logger *zap.Logger, opts *cliOptions, links []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if !slices.Contains(settings.Engines, opts.engine) {
		return fmt.Errorf("unknown engine %q, want one of %v", opts.engine, settings.Engines)
	}
	cat, err := loadCatalog(opts.catalogPath)
	if err != nil {
		return err
	}

	zl := settings.NewZapLogger(logger)
	decodeOpts := []settings.Option{
		settings.WithDecodeLogger(zl),
		settings.WithEvaluatorLogger(zl),
		settings.WithEngine(opts.engine),
	}
	for i, expr := range opts.rules {
		decodeOpts = append(decodeOpts, settings.WithRules(settings.Rule{Name: fmt.Sprintf("rule-%d", i+1), Expr: expr}))
	}
	decoder := settings.NewDecoder(cat, decodeOpts...)

	results := make([]output, len(links))
	g, gctx := errgroup.WithContext(ctx)
	for i, link := range links {
		g.Go(func() error {
			result, err := decodeLink(gctx, decoder, opts.queries, link)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var doc any = results
	if len(results) == 1 {
		doc = results[0]
	}
	if err := write(out, opts.format, doc); err != nil {
		return err
	}
	if opts.strict {
		total := 0
		for _, result := range results {
			total += len(result.Diagnostics)
		}
		if total > 0 {
			return fmt.Errorf("%d diagnostics", total)
		}
	}
	return nil
}

func decodeLink(ctx context.Context, decoder *settings.Decoder, queries []string, link string) (output, error) {
	cfg, report, err := decoder.DecodeFragment(ctx, link)
	if err != nil {
		return output{}, fmt.Errorf("decode %q: %w", link, err)
	}
	result := output{
		Link:     link,
		Settings: cfg.Snapshot(),
		PassID:   report.PassID,
		Fields:   report.Fields,
	}
	for _, d := range report.Diagnostics {
		result.Diagnostics = append(result.Diagnostics, diagnostic{Field: d.Field, Error: d.Err.Error()})
	}
	for _, expr := range queries {
		value, err := decoder.Evaluate(cfg, expr)
		q := queryResult{Expr: expr, Value: value}
		if err != nil {
			q.Error = err.Error()
		}
		result.Queries = append(result.Queries, q)
	}
	return result, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Sample()
	}
	return catalog.LoadFile(path)
}

func write(out io.Writer, format string, result any) error {
	switch format {
	case "yaml", "":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
