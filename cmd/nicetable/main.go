// Command nicetable renders, exports and serves tables
// from JSON, CSV or XLSX data.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/domonda/go-nicetable"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type globalFlags struct {
	logLevel  string
	matchMode string
	locale    string
}

func newRootCmd() *cobra.Command {
	flags := new(globalFlags)
	rootCmd := &cobra.Command{
		Use:   "nicetable",
		Short: "Render, export and serve sortable, filterable tables",
		Long: `nicetable reads table data from JSON, CSV or XLSX files or URLs,
applies sorting and auto-filters and renders the result as HTML,
exports it as CSV or XLSX, or serves configured tables over HTTP.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flags.matchMode, "match-mode", "equal", "Filter match mode: equal or contains")
	rootCmd.PersistentFlags().StringVar(&flags.locale, "locale", "en", "BCP 47 locale for sorting")

	rootCmd.AddCommand(
		newRenderCmd(flags),
		newExportCmd(flags),
		newServeCmd(flags),
	)
	return rootCmd
}

// tableOptions returns the nicetable options of the global flags.
func (f *globalFlags) tableOptions() ([]nicetable.Option, error) {
	mode, err := nicetable.ParseMatchMode(f.matchMode)
	if err != nil {
		return nil, err
	}
	tag, err := language.Parse(f.locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", f.locale, err)
	}
	return []nicetable.Option{nicetable.WithMatchMode(mode), nicetable.WithLocale(tag)}, nil
}

// columnFlags make columns of sources without
// a schema like CSV or XLSX sortable or auto-filtered.
type columnFlags struct {
	sortable    []string
	autoFilters []string
}

func (f *columnFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.sortable, "sortable", nil, "Header keys of sortable columns, replaces the setting of the source")
	cmd.Flags().StringSliceVar(&f.autoFilters, "auto-filters", nil, "Header keys of auto-filtered columns, replaces the setting of the source")
}

// headerOptions returns a WithHeaders option
// with one header per key of both flags.
func (f *columnFlags) headerOptions() []nicetable.Option {
	var headers []nicetable.Header
	index := make(map[string]int)
	header := func(key string) *nicetable.Header {
		i, ok := index[key]
		if !ok {
			i = len(headers)
			index[key] = i
			headers = append(headers, nicetable.Header{Key: key})
		}
		return &headers[i]
	}
	for _, key := range f.sortable {
		header(key).Sortable = true
	}
	for _, key := range f.autoFilters {
		header(key).AutoFilters = true
	}
	if len(headers) == 0 {
		return nil
	}
	return []nicetable.Option{nicetable.WithHeaders(headers...)}
}

// newLogger builds a JSON logger for production
// or a console logger for development.
func newLogger(level string, development bool) (*zap.Logger, error) {
	atomicLevel, err := zap.ParseAtomicLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = atomicLevel
	cfg.DisableStacktrace = true
	return cfg.Build()
}
