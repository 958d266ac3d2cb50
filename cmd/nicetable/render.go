package main

import (
	"bytes"
	"fmt"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/domonda/go-nicetable/htmltable"
	"github.com/domonda/go-nicetable/internal/query"
	"github.com/domonda/go-nicetable/internal/source"
)

type renderFlags struct {
	columnFlags

	output     string
	caption    string
	tableClass string
	sort       string
	filters    []string
	bodyOnly   bool
}

func newRenderCmd(global *globalFlags) *cobra.Command {
	flags := new(renderFlags)
	cmd := &cobra.Command{
		Use:   "render <source>",
		Short: "Render a table as HTML",
		Long: `Render reads the table data from a file or URL and writes it as HTML table.
Sorting and filters are applied before rendering, for example:

  nicetable render books.json --sort title:asc --filter genre=SciFi --filter genre=Horror`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, global, flags, args[0])
		},
	}
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flags.caption, "caption", "", "Table caption")
	cmd.Flags().StringVar(&flags.tableClass, "table-class", "nice-table", "CSS class of the table element")
	cmd.Flags().StringVar(&flags.sort, "sort", "", "Sort column as key:asc or key:desc")
	cmd.Flags().StringArrayVar(&flags.filters, "filter", nil, "Selected filter value as key=value, repeatable, value ALL selects all")
	cmd.Flags().BoolVar(&flags.bodyOnly, "body-only", false, "Only render the <tbody> element")
	flags.register(cmd)
	return cmd
}

func runRender(cmd *cobra.Command, global *globalFlags, flags *renderFlags, location string) error {
	logger, err := newLogger(global.logLevel, false)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	opts, err := global.tableOptions()
	if err != nil {
		return err
	}
	opts = append(opts, flags.headerOptions()...)
	state, err := query.FromFlags(flags.sort, flags.filters)
	if err != nil {
		return err
	}
	table, err := source.Load(cmd.Context(), location, opts...)
	if err != nil {
		return err
	}
	if err := state.Apply(table); err != nil {
		return err
	}
	logger.Debug("table loaded",
		zap.String("source", location),
		zap.Int("rows", table.NumRows()),
		zap.Int("visible", len(table.VisibleRows())),
	)

	writer := state.Writer(htmltable.NewWriter().
		WithCaption(flags.caption).
		WithTableClass(flags.tableClass))

	var buf bytes.Buffer
	if flags.bodyOnly {
		err = writer.WriteBody(cmd.Context(), &buf, table)
	} else {
		err = writer.Write(cmd.Context(), &buf, table)
	}
	if err != nil {
		return err
	}
	return writeOutput(cmd, flags.output, &buf)
}

// writeOutput writes buf atomically to path
// or to the command's output if path is empty.
func writeOutput(cmd *cobra.Command, path string, buf *bytes.Buffer) error {
	if path == "" {
		_, err := buf.WriteTo(cmd.OutOrStdout())
		return err
	}
	if err := atomic.WriteFile(path, buf); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
