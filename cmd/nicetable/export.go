package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/domonda/go-nicetable"
	"github.com/domonda/go-nicetable/csvtable"
	"github.com/domonda/go-nicetable/exceltable"
	"github.com/domonda/go-nicetable/internal/query"
	"github.com/domonda/go-nicetable/internal/source"
)

type exportFlags struct {
	columnFlags

	output    string
	format    string
	separator string
	sheet     string
	sort      string
	filters   []string
	columns   []string
	offset    int
	limit     int
}

func newExportCmd(global *globalFlags) *cobra.Command {
	flags := new(exportFlags)
	cmd := &cobra.Command{
		Use:   "export <source>",
		Short: "Export the visible rows of a table as CSV or XLSX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, global, flags, args[0])
		},
	}
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flags.format, "format", "", "Export format: csv or xlsx (default: by output extension, else csv)")
	cmd.Flags().StringVar(&flags.separator, "separator", ",", "CSV field separator")
	cmd.Flags().StringVar(&flags.sheet, "sheet", "", "XLSX sheet name")
	cmd.Flags().StringVar(&flags.sort, "sort", "", "Sort column as key:asc or key:desc")
	cmd.Flags().StringArrayVar(&flags.filters, "filter", nil, "Selected filter value as key=value, repeatable")
	cmd.Flags().StringSliceVar(&flags.columns, "columns", nil, "Header keys of the exported columns (default: all)")
	cmd.Flags().IntVar(&flags.offset, "offset", 0, "Number of visible rows to skip")
	cmd.Flags().IntVar(&flags.limit, "limit", 0, "Maximum number of exported rows (default: all)")
	flags.register(cmd)
	return cmd
}

func exportFormat(format, output string) (string, error) {
	if format == "" {
		if strings.EqualFold(filepath.Ext(output), ".xlsx") {
			return "xlsx", nil
		}
		return "csv", nil
	}
	switch strings.ToLower(format) {
	case "csv":
		return "csv", nil
	case "xlsx":
		return "xlsx", nil
	}
	return "", fmt.Errorf("invalid format: %s (must be csv or xlsx)", format)
}

func runExport(cmd *cobra.Command, global *globalFlags, flags *exportFlags, location string) error {
	format, err := exportFormat(flags.format, flags.output)
	if err != nil {
		return err
	}
	if utf8.RuneCountInString(flags.separator) != 1 {
		return fmt.Errorf("invalid separator %q", flags.separator)
	}
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

	view := &nicetable.SubView{
		Source:    table.View(flags.sheet),
		RowOffset: flags.offset,
		RowLimit:  flags.limit,
	}
	if len(flags.columns) > 0 {
		view, err = nicetable.SelectColumns(table.View(flags.sheet), flags.columns...)
		if err != nil {
			return err
		}
		view.RowOffset = flags.offset
		view.RowLimit = flags.limit
	}

	var buf bytes.Buffer
	switch format {
	case "xlsx":
		err = exceltable.Write(&buf, view, flags.sheet)
	default:
		sep, _ := utf8.DecodeRuneInString(flags.separator)
		err = csvtable.Write(&buf, view, sep)
	}
	if err != nil {
		return err
	}
	return writeOutput(cmd, flags.output, &buf)
}
