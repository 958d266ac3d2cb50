package htmltable

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domonda/go-nicetable"
)

const booksJSON = `{
	"headers": [
		{"key": "title", "display": "Title", "sortable": true},
		{"key": "genre", "display": "Genre", "autoFilters": true},
		{"key": "notes"}
	],
	"data": [
		{"title": {"text": "Dune", "href": "/books/dune"}, "genre": "SciFi", "notes": "<b>classic</b>"},
		{"title": "Emma", "genre": "Romance", "notes": "<script>alert(1)</script>fine"},
		{"title": {"text": "Evil", "href": "javascript:alert(1)"}, "genre": "Horror", "notes": ""}
	]
}`

func newBooks(t *testing.T) *nicetable.TableData {
	t.Helper()
	n := 0
	table, err := nicetable.New([]byte(booksJSON), nicetable.WithIDGenerator(func() string {
		n++
		return "book" + strconv.Itoa(n)
	}))
	require.NoError(t, err)
	return table
}

func render(t *testing.T, w *Writer, table *nicetable.TableData) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, w.Write(context.Background(), &buf, table))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func TestWriter_Write_Header(t *testing.T) {
	doc := render(t, NewWriter().WithCaption("Book Reviews").WithTableClass("nice-table"), newBooks(t))

	assert.Equal(t, "nice-table", doc.Find("table").AttrOr("class", ""))
	assert.Equal(t, "Book Reviews", doc.Find("table > caption > h1").Text())
	assert.Equal(t, 0, doc.Find("form").Length())

	ths := doc.Find("thead th")
	require.Equal(t, 3, ths.Length())
	assert.Equal(t, "title", ths.Eq(0).AttrOr("data-key", ""))
	assert.Equal(t, "Title", ths.Eq(0).Find(".header-content > span").Text())
	assert.Equal(t, "notes", ths.Eq(2).Find(".header-content > span").Text())

	sortButtons := doc.Find("button.btn-sort-by")
	require.Equal(t, 1, sortButtons.Length())
	assert.Equal(t, "title:asc", sortButtons.AttrOr("value", ""))
	assert.Equal(t, SortParam, sortButtons.AttrOr("name", ""))

	dialog := doc.Find("dialog#auto-filter-genre")
	require.Equal(t, 1, dialog.Length())
	selectAll := dialog.Find("label.autofilter-select-all")
	assert.Equal(t, "none", selectAll.AttrOr("data-state", ""))
	assert.Equal(t, nicetable.SelectAll, selectAll.Find("input").AttrOr("value", ""))

	var values []string
	dialog.Find("label:not(.autofilter-select-all) input").Each(func(_ int, s *goquery.Selection) {
		assert.Equal(t, "f.genre", s.AttrOr("name", ""))
		values = append(values, s.AttrOr("value", ""))
	})
	assert.Equal(t, []string{"SciFi", "Romance", "Horror"}, values)
}

func TestWriter_Write_Body(t *testing.T) {
	doc := render(t, NewWriter(), newBooks(t))

	rows := doc.Find("tbody tr")
	require.Equal(t, 3, rows.Length())
	assert.Equal(t, "book1", rows.Eq(0).AttrOr("id", ""))

	cells := rows.Eq(0).Find("td")
	require.Equal(t, 3, cells.Length())
	assert.Equal(t, "title", cells.Eq(0).AttrOr("data-label", ""))
	link := cells.Eq(0).Find("a")
	assert.Equal(t, "/books/dune", link.AttrOr("href", ""))
	assert.Equal(t, "Dune", link.Text())
	assert.Equal(t, "classic", cells.Eq(2).Find("b").Text())

	// Script is removed by the sanitizer
	notes := rows.Eq(1).Find("td").Eq(2)
	assert.Equal(t, 0, notes.Find("script").Length())
	assert.Equal(t, "fine", strings.TrimSpace(notes.Text()))

	// Unsafe link target is removed
	evil := rows.Eq(2).Find("td").Eq(0)
	assert.Equal(t, 0, evil.Find("a[href]").Length())
	assert.Equal(t, "Evil", evil.Text())
}

func TestWriter_Write_SortAndFilterState(t *testing.T) {
	table := newBooks(t)
	require.NoError(t, table.SortByColumn("title", true))
	_, err := table.ToggleAutoFilter("genre", "SciFi")
	require.NoError(t, err)
	table.ApplyFilters()

	doc := render(t, NewWriter().WithSort("title", true).WithFormAction("/tables/books"), table)

	form := doc.Find("form.nice-table-form")
	require.Equal(t, 1, form.Length())
	assert.Equal(t, "/tables/books", form.AttrOr("action", ""))
	assert.Equal(t, "get", form.AttrOr("method", ""))
	assert.Equal(t, "title:asc", form.Find("input[type=hidden][name=sort]").AttrOr("value", ""))

	sortButton := doc.Find("button.btn-sort-by")
	assert.True(t, sortButton.HasClass("asc"))
	assert.Equal(t, "title:desc", sortButton.AttrOr("value", ""))

	assert.Equal(t, "some", doc.Find("label.autofilter-select-all").AttrOr("data-state", ""))
	checked := doc.Find("dialog input[checked]")
	require.Equal(t, 1, checked.Length())
	assert.Equal(t, "SciFi", checked.AttrOr("value", ""))

	// Sorted: Dune, Emma, Evil. Only Dune is visible.
	var ids, hidden []string
	doc.Find("tbody tr").Each(func(_ int, s *goquery.Selection) {
		ids = append(ids, s.AttrOr("id", ""))
		if _, ok := s.Attr("style"); ok {
			hidden = append(hidden, s.AttrOr("id", ""))
		}
	})
	assert.Equal(t, []string{"book1", "book2", "book3"}, ids)
	assert.Equal(t, []string{"book2", "book3"}, hidden)
}

func TestWriter_WriteBody(t *testing.T) {
	table := newBooks(t)
	require.NoError(t, table.SortByColumn("title", false))

	var buf bytes.Buffer
	require.NoError(t, NewWriter().WithCaption("ignored").WriteBody(context.Background(), &buf, table))
	html := buf.String()
	assert.True(t, strings.HasPrefix(html, "  <tbody>"), html)
	assert.NotContains(t, html, "<thead>")
	assert.NotContains(t, html, "ignored")
	assert.Less(t, strings.Index(html, `id="book3"`), strings.Index(html, `id="book1"`))
}

func TestWriter_WithColumnFormatter(t *testing.T) {
	w := NewWriter().
		WithColumnFormatter("genre", HTMLSpanClassCellFormatter("genre")).
		WithColumnFormatter("notes", PrintfCellFormatter("<%s>"))
	doc := render(t, w, newBooks(t))

	first := doc.Find("tbody tr").First().Find("td")
	assert.Equal(t, "SciFi", first.Eq(1).Find("span.genre").Text())
	assert.Equal(t, "<classic>", first.Eq(2).Text())

	// Removing the formatter restores default rendering
	doc = render(t, w.WithColumnFormatter("genre", nil), newBooks(t))
	assert.Equal(t, 0, doc.Find("span.genre").Length())
}

func TestWriter_WithColumnFormatterFunc(t *testing.T) {
	errFormat := errors.New("format failed")
	tests := []struct {
		name      string
		formatter CellFormatterFunc
		want      string
		wantErr   error
	}{
		{
			name: "escaped",
			formatter: func(ctx context.Context, row *nicetable.Row, key string) (string, bool, error) {
				return "<i>" + row.Cell(key).Text + "</i>", false, nil
			},
			want: "&lt;i&gt;SciFi&lt;/i&gt;",
		},
		{
			name: "raw",
			formatter: func(ctx context.Context, row *nicetable.Row, key string) (string, bool, error) {
				return "<i>" + row.Cell(key).Text + "</i>", true, nil
			},
			want: "<i>SciFi</i>",
		},
		{
			name: "unsupported uses default",
			formatter: func(ctx context.Context, row *nicetable.Row, key string) (string, bool, error) {
				return "", false, errors.ErrUnsupported
			},
			want: "SciFi",
		},
		{
			name: "nil removes formatter",
			want: "SciFi",
		},
		{
			name: "error",
			formatter: func(ctx context.Context, row *nicetable.Row, key string) (string, bool, error) {
				return "", false, errFormat
			},
			wantErr: errFormat,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter().
				WithColumnFormatter("genre", PrintfCellFormatter("[%s]")).
				WithColumnFormatterFunc("genre", tt.formatter)
			var buf bytes.Buffer
			err := w.WriteBody(context.Background(), &buf, newBooks(t))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, buf.String(), `<td data-label="genre">`+tt.want+`</td>`)
		})
	}
}

func TestWriter_WithPolicy(t *testing.T) {
	tests := []struct {
		name      string
		writer    *Writer
		wantBold  int
		wantLinks int
	}{
		{name: "default UGC policy", writer: NewWriter(), wantBold: 1, wantLinks: 1},
		{name: "strict policy", writer: NewWriter().WithPolicy(bluemonday.StrictPolicy()), wantBold: 0, wantLinks: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := render(t, tt.writer, newBooks(t))
			first := doc.Find("tbody tr").First().Find("td")
			assert.Equal(t, tt.wantBold, first.Eq(2).Find("b").Length())
			assert.Equal(t, "classic", first.Eq(2).Text())
			assert.Equal(t, tt.wantLinks, first.Eq(0).Find("a").Length())
			assert.Equal(t, "Dune", first.Eq(0).Text())
			assert.Equal(t, 0, doc.Find("tbody script").Length())
		})
	}

	assert.Panics(t, func() { NewWriter().WithPolicy(nil) })
}

func TestWriter_WithTemplate(t *testing.T) {
	tmpl := template.Must(template.New("custom").Parse(
		`{{define "body"}}<tbody>{{range .Rows}}<tr id="{{.ID}}"></tr>{{end}}</tbody>{{end}}` +
			`<table class="{{.TableClass}}">{{range .Headers}}<th>{{.Name}}</th>{{end}}{{template "body" .}}</table>`,
	))
	w := NewWriter().WithTableClass("custom").WithTemplate(tmpl)

	var buf bytes.Buffer
	require.NoError(t, w.Write(context.Background(), &buf, newBooks(t)))
	assert.Equal(t,
		`<table class="custom"><th>Title</th><th>Genre</th><th>notes</th>`+
			`<tbody><tr id="book1"></tr><tr id="book2"></tr><tr id="book3"></tr></tbody></table>`,
		buf.String(),
	)

	buf.Reset()
	require.NoError(t, w.WriteBody(context.Background(), &buf, newBooks(t)))
	assert.Equal(t, `<tbody><tr id="book1"></tr><tr id="book2"></tr><tr id="book3"></tr></tbody>`, buf.String())

	// The default template is not changed
	doc := render(t, NewWriter(), newBooks(t))
	assert.Equal(t, 3, doc.Find("thead th").Length())
}

func TestWriter_TableClass(t *testing.T) {
	base := NewWriter()
	tests := []struct {
		name   string
		writer *Writer
		want   string
	}{
		{name: "default", writer: base, want: ""},
		{name: "set", writer: base.WithTableClass("nice-table"), want: "nice-table"},
		{name: "replaced", writer: base.WithTableClass("a").WithTableClass("b"), want: "b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.writer.TableClass())
		})
	}
}

func TestWriter_Write_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewWriter().Write(ctx, &bytes.Buffer{}, newBooks(t))
	require.ErrorIs(t, err, context.Canceled)
}

func ExampleWriter() {
	table, err := nicetable.New([]byte(`[{"n": "2"}, {"n": "1"}]`), nicetable.WithIDGenerator(sequence()))
	if err != nil {
		panic(err)
	}
	_ = table.SortByColumn("n", true)

	NewWriter().WriteBody(context.Background(), os.Stdout, table)

	// Output:
	//   <tbody>
	//     <tr id="r2"><td data-label="n">1</td></tr>
	//     <tr id="r1"><td data-label="n">2</td></tr>
	//   </tbody>
}

func sequence() func() string {
	n := 0
	return func() string {
		n++
		return "r" + strconv.Itoa(n)
	}
}
