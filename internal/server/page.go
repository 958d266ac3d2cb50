package server

import "html/template"

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
</head>
<body>
{{.Table}}
<script>
document.querySelectorAll(".btn-auto-filters").forEach(function (button) {
  button.addEventListener("click", function () {
    document.getElementById(button.dataset.dialog).showModal();
  });
});
// Keeps the select all checkbox of each filter dialog in the
// none, some or all state of its value checkboxes
document.querySelectorAll(".autofilter-select-all").forEach(function (label) {
  var selectAll = label.querySelector("input");
  var values = Array.from(label.parentElement.querySelectorAll("input[type=checkbox]")).filter(function (input) {
    return input !== selectAll;
  });
  function sync() {
    var checked = values.filter(function (input) { return input.checked; }).length;
    var state = checked === 0 ? "none" : checked === values.length ? "all" : "some";
    selectAll.checked = state === "all";
    selectAll.indeterminate = state === "some";
    label.dataset.state = state;
  }
  selectAll.addEventListener("change", function () {
    values.forEach(function (input) { input.checked = selectAll.checked; });
    sync();
  });
  values.forEach(function (input) { input.addEventListener("change", sync); });
  sync();
});
</script>
</body>
</html>
`))

type pageContext struct {
	Title string
	Table template.HTML
}
