package htmltable

import "html/template"

// TableTemplate renders a complete table.
// It must define the template "body" that renders only the <tbody>
// so that the rows can be re-rendered without the header.
var TableTemplate = template.Must(template.New("table").Parse(tableTemplateText))

const tableTemplateText = `{{define "body"}}  <tbody>
{{- range .Rows}}
    <tr id="{{.ID}}"{{if .Hidden}} style="display: none"{{end}}>
{{- range .Cells}}<td data-label="{{.Key}}">{{.HTML}}</td>{{end -}}
</tr>
{{- end}}
  </tbody>
{{end -}}
{{if .FormAction}}<form class="nice-table-form" method="get" action="{{.FormAction}}">
{{end -}}
<table{{if .TableClass}} class="{{.TableClass}}"{{end}}>
{{- if .Caption}}
  <caption><h1>{{.Caption}}</h1></caption>
{{- end}}
  <thead>
    <tr>
{{- range .Headers}}
      <th scope="col" data-key="{{.Key}}">
        <div class="header-content">
          <span>{{.Name}}</span>
          <div class="header-actions">
{{- if .Sortable}}
            <button type="submit" class="btn-sort-by{{if .SortClass}} {{.SortClass}}{{end}}" name="sort" value="{{.NextSort}}" title="Sort by {{.Name}}"></button>
{{- end}}
{{- if .AutoFilters}}
            <button type="button" class="btn-auto-filters" data-dialog="auto-filter-{{.Key}}" title="Filter {{.Name}}"></button>
{{- end}}
          </div>
{{- if .AutoFilters}}
          <dialog id="auto-filter-{{.Key}}">
            <div class="modal-body">
              <label class="autofilter-select-all" data-state="{{.SelectAllState}}"><input type="checkbox" name="{{.FilterParam}}" value="{{.SelectAllValue}}"{{if eq .SelectAllState "all"}} checked{{end}}>Select All</label>
{{- range .FilterValues}}
              <label><input type="checkbox" name="{{.Param}}" value="{{.Value}}"{{if .Selected}} checked{{end}}>{{.Label}}</label>
{{- end}}
              <button type="submit" class="btn-apply-filters">Apply</button>
            </div>
          </dialog>
{{- end}}
        </div>
      </th>
{{- end}}
    </tr>
  </thead>
{{template "body" .}}</table>
{{- if .FormAction}}
{{- if .ActiveSort}}
<input type="hidden" name="sort" value="{{.ActiveSort}}">
{{- end}}
</form>
{{- end}}
`

// TemplateContext is the data passed to TableTemplate.
type TemplateContext struct {
	TableClass string
	Caption    string
	// FormAction is the URL of the GET form wrapping
	// the table, no form is rendered if empty.
	FormAction string
	// ActiveSort is the query value of the current sort
	// or empty if the table is not sorted.
	ActiveSort string
	Headers    []HeaderContext
	Rows       []RowContext
}

// HeaderContext is the template data of one header cell
// with its sort button and auto-filter dialog.
type HeaderContext struct {
	Key      string
	Name     string
	Sortable bool
	// SortClass is "asc" or "desc" for the active sort column
	SortClass string
	// NextSort is the sort query value for clicking the sort button
	NextSort       string
	AutoFilters    bool
	SelectAllState string
	SelectAllValue string
	FilterParam    string
	FilterValues   []FilterValueContext
}

// FilterValueContext is one checkbox of an auto-filter dialog.
type FilterValueContext struct {
	Param    string
	Value    string
	Label    string
	Selected bool
}

// RowContext is the template data of a table row,
// Hidden rows are rendered with display:none.
type RowContext struct {
	ID     string
	Hidden bool
	Cells  []CellContext
}

// CellContext holds the formatted and sanitized HTML of a cell.
type CellContext struct {
	Key  string
	HTML template.HTML
}
