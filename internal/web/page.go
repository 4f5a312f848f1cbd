package web

import "html/template"

// pageTemplate renders the widget. Sections are conditional in the same way
// as the controls they stand for: the error only when set, the list only
// when non-empty, Load More only while a cursor exists.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Star Wars Planet Search</title>
{{- if .Busy}}
<meta http-equiv="refresh" content="1">
{{- end}}
<style>
body { font-family: sans-serif; padding: 20px; }
.error { color: #b00020; }
li { margin-bottom: 8px; }
.secondary { color: #666; font-size: 0.9em; }
</style>
</head>
<body>
<h1>Star Wars Planet Search</h1>

<form method="post" action="/search">
<label for="planet">Enter a planet name</label>
<input id="planet" name="planet" type="text" value="{{.Query}}">
<button type="submit"{{if .Busy}} disabled{{end}}>Search</button>
</form>

{{- if .Busy}}
<p class="loading">Loading…</p>
{{- end}}

{{- with .ErrorMessage}}
<p class="error">{{.}}</p>
{{- end}}

{{- if .People}}
<h2>People from {{.Planet}}</h2>
<ul class="people">
{{- range .People}}
<li><span class="name">{{.Name}}</span><br><span class="secondary">Birth Year: {{.BirthYear}}</span></li>
{{- end}}
</ul>
{{- if .HasMore}}
<form method="post" action="/more">
<button type="submit"{{if .Busy}} disabled{{end}}>Load More</button>
</form>
{{- end}}
<form method="post" action="/reset">
<button type="submit" class="secondary"{{if .Busy}} disabled{{end}}>Clear</button>
</form>
{{- end}}
</body>
</html>
`))
