// Package htmltable renders a nicetable.TableData as HTML table.
//
// The rendered table has a sort button for every sortable header
// and an auto-filter dialog with checkboxes for every header with
// auto-filters. Optionally the table is wrapped in a GET form,
// so that the controls submit the table state as query values:
//
//	sort=<key>:asc|desc
//	f.<key>=<value>   (repeated, value "ALL" for select all)
//
// Plain cell values may contain inline markup which is
// sanitized with a bluemonday policy before it is rendered.
//
// Example usage:
//
//	table, err := nicetable.Load(ctx, "books.json")
//	if err != nil {
//	    return err
//	}
//	err = htmltable.NewWriter().
//	    WithCaption("Book Reviews").
//	    WithTableClass("nice-table").
//	    Write(ctx, os.Stdout, table)
package htmltable

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/domonda/go-nicetable"
)

const (
	// SortParam is the query parameter for the sort state.
	SortParam = "sort"
	// FilterParamPrefix is prepended to a header key
	// to form the query parameter of its selected filter values.
	FilterParamPrefix = "f."
)

// SortValue returns the value of SortParam for
// sorting by key in the passed direction.
func SortValue(key string, ascending bool) string {
	if ascending {
		return key + ":asc"
	}
	return key + ":desc"
}

// Writer writes a nicetable.TableData as HTML.
//
// Writer is immutable after creation, all With* methods
// return a new Writer instance with the modified configuration.
type Writer struct {
	tableClass       string
	caption          string
	formAction       string
	sortKey          string
	sortAscending    bool
	columnFormatters map[string]CellFormatter
	policy           *bluemonday.Policy
	template         *template.Template
}

// NewWriter returns a Writer with the default TableTemplate,
// the bluemonday UGCPolicy for cell markup and no form.
func NewWriter() *Writer {
	return &Writer{
		columnFormatters: make(map[string]CellFormatter),
		policy:           bluemonday.UGCPolicy(),
		template:         TableTemplate,
	}
}

// Write writes the complete table including
// caption, header and body to dest.
func (w *Writer) Write(ctx context.Context, dest io.Writer, table *nicetable.TableData) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	templData, err := w.templateContext(ctx, table, true)
	if err != nil {
		return err
	}
	return w.template.Execute(dest, templData)
}

// WriteBody writes only the <tbody> of the table to dest.
// Used to re-render the rows after sorting or filtering.
func (w *Writer) WriteBody(ctx context.Context, dest io.Writer, table *nicetable.TableData) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	templData, err := w.templateContext(ctx, table, false)
	if err != nil {
		return err
	}
	return w.template.ExecuteTemplate(dest, "body", templData)
}

func (w *Writer) templateContext(ctx context.Context, table *nicetable.TableData, withHeaders bool) (*TemplateContext, error) {
	headers := table.Headers()
	templData := &TemplateContext{
		TableClass: w.tableClass,
		Caption:    w.caption,
		FormAction: w.formAction,
	}
	if w.sortKey != "" {
		templData.ActiveSort = SortValue(w.sortKey, w.sortAscending)
	}

	if withHeaders {
		templData.Headers = make([]HeaderContext, len(headers))
		for i := range headers {
			templData.Headers[i] = w.headerContext(&headers[i])
		}
	}

	for _, row := range table.ViewRows() {
		rowData := RowContext{
			ID:     row.ID,
			Hidden: row.Hidden,
			Cells:  make([]CellContext, len(headers)),
		}
		for col := range headers {
			key := headers[col].Key
			html, err := w.cellHTML(ctx, &row, key)
			if err != nil {
				return nil, fmt.Errorf("row %s column %q: %w", row.ID, key, err)
			}
			rowData.Cells[col] = CellContext{Key: key, HTML: html}
		}
		templData.Rows = append(templData.Rows, rowData)
	}
	return templData, nil
}

func (w *Writer) headerContext(h *nicetable.Header) HeaderContext {
	hc := HeaderContext{
		Key:         h.Key,
		Name:        h.DisplayName(),
		Sortable:    h.Sortable,
		NextSort:    SortValue(h.Key, true),
		AutoFilters: h.AutoFilters,
	}
	if h.Sortable && h.Key == w.sortKey {
		if w.sortAscending {
			hc.SortClass = "asc"
			hc.NextSort = SortValue(h.Key, false)
		} else {
			hc.SortClass = "desc"
		}
	}
	if h.AutoFilters {
		hc.FilterParam = FilterParamPrefix + h.Key
		hc.SelectAllState = nicetable.SelectionOf(h.AutoFilterValues).String()
		hc.SelectAllValue = nicetable.SelectAll
		hc.FilterValues = make([]FilterValueContext, len(h.AutoFilterValues))
		for i, v := range h.AutoFilterValues {
			hc.FilterValues[i] = FilterValueContext{
				Param:    hc.FilterParam,
				Value:    v.Value,
				Label:    v.Label(),
				Selected: v.Selected,
			}
		}
	}
	return hc
}

// cellHTML formats a cell using the column formatter
// of key if there is one, else the cell is sanitized
// and linked cells are rendered as anchor.
func (w *Writer) cellHTML(ctx context.Context, row *nicetable.Row, key string) (template.HTML, error) {
	if formatter, ok := w.columnFormatters[key]; ok {
		str, isRaw, err := formatter.FormatCell(ctx, row, key)
		if err != nil && !errors.Is(err, errors.ErrUnsupported) {
			return "", err
		}
		if err == nil {
			if !isRaw {
				str = template.HTMLEscapeString(str)
			}
			return template.HTML(str), nil //#nosec G203
		}
	}

	cell := row.Cell(key)
	if cell.HasLink() {
		var b strings.Builder
		b.WriteString(`<a href="`)
		b.WriteString(template.HTMLEscapeString(cell.Href))
		b.WriteString(`">`)
		b.WriteString(cell.Text)
		b.WriteString(`</a>`)
		return template.HTML(w.policy.Sanitize(b.String())), nil //#nosec G203
	}
	return template.HTML(w.policy.Sanitize(cell.Text)), nil //#nosec G203
}

func (w *Writer) clone() *Writer {
	c := new(Writer)
	*c = *w
	return c
}

// WithTableClass returns a new writer with the CSS class for the table element.
func (w *Writer) WithTableClass(tableClass string) *Writer {
	mod := w.clone()
	mod.tableClass = tableClass
	return mod
}

// WithCaption returns a new writer that renders
// the caption as heading above the table.
func (w *Writer) WithCaption(caption string) *Writer {
	mod := w.clone()
	mod.caption = caption
	return mod
}

// WithFormAction returns a new writer that wraps the table
// in a GET form submitting to action.
// The sort buttons and filter checkboxes then submit
// the table state as query values.
func (w *Writer) WithFormAction(action string) *Writer {
	mod := w.clone()
	mod.formAction = action
	return mod
}

// WithSort returns a new writer that marks the header with key
// as active sort column in the passed direction.
// Pass an empty key if the table is not sorted.
func (w *Writer) WithSort(key string, ascending bool) *Writer {
	mod := w.clone()
	mod.sortKey = key
	mod.sortAscending = ascending
	return mod
}

// WithPolicy returns a new writer that sanitizes
// cell markup with the passed policy.
func (w *Writer) WithPolicy(policy *bluemonday.Policy) *Writer {
	if policy == nil {
		panic("nil bluemonday.Policy")
	}
	mod := w.clone()
	mod.policy = policy
	return mod
}

// WithColumnFormatter returns a new writer with the formatter
// registered for the column with key.
// If nil is passed as formatter, any previously registered
// formatter for this column is removed.
func (w *Writer) WithColumnFormatter(key string, formatter CellFormatter) *Writer {
	mod := w.clone()
	mod.columnFormatters = make(map[string]CellFormatter, len(w.columnFormatters)+1)
	for k, f := range w.columnFormatters {
		mod.columnFormatters[k] = f
	}
	if formatter != nil {
		mod.columnFormatters[key] = formatter
	} else {
		delete(mod.columnFormatters, key)
	}
	return mod
}

// WithColumnFormatterFunc is a convenience wrapper
// around WithColumnFormatter for a function.
func (w *Writer) WithColumnFormatterFunc(key string, formatterFunc CellFormatterFunc) *Writer {
	if formatterFunc == nil {
		return w.WithColumnFormatter(key, nil)
	}
	return w.WithColumnFormatter(key, formatterFunc)
}

// WithTemplate returns a new writer using a custom template.
// The template must define a template named "body"
// and is executed with a *TemplateContext.
func (w *Writer) WithTemplate(tmpl *template.Template) *Writer {
	mod := w.clone()
	mod.template = tmpl
	return mod
}

// TableClass returns the CSS class configured for the table element.
func (w *Writer) TableClass() string {
	return w.tableClass
}
