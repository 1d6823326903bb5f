package webui

import "html/template"

// pageData carries everything the index page renders
type pageData struct {
	DatabasePath string
	TopN         int
	FolderPath   string
	QueryPath    string
	BuildMessage string
	BuildError   string
	QueryError   string
	Matches      []matchRow
	HasResults   bool
}

type matchRow struct {
	Name  string
	Score string
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Song Similarity Finder</title>
<style>
  body { font-family: sans-serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; }
  fieldset { margin-bottom: 1.5rem; border: 1px solid #ccc; border-radius: 6px; }
  legend { font-weight: bold; }
  label { display: block; margin: 0.5rem 0 0.2rem; }
  input[type=text], input[type=number] { width: 100%; padding: 0.4rem; box-sizing: border-box; }
  button { margin-top: 0.8rem; padding: 0.5rem 1.2rem; }
  .error { color: #b00020; margin: 0.5rem 0; }
  .success { color: #1b5e20; margin: 0.5rem 0; }
  table { border-collapse: collapse; width: 100%; margin-top: 1rem; }
  th, td { text-align: left; padding: 0.4rem 0.6rem; border-bottom: 1px solid #ddd; }
  .muted { color: #666; font-size: 0.85rem; }
</style>
</head>
<body>
<h1>Song Similarity Finder</h1>
<p class="muted">Database: {{.DatabasePath}}</p>

<fieldset>
<legend>Build Database</legend>
<form method="post" action="/build">
  <label for="folder">Path to the folder containing songs:</label>
  <input type="text" id="folder" name="folder" value="{{.FolderPath}}">
  <button type="submit">Build Database</button>
</form>
{{if .BuildError}}<p class="error">{{.BuildError}}</p>{{end}}
{{if .BuildMessage}}<p class="success">{{.BuildMessage}}</p>{{end}}
</fieldset>

<fieldset>
<legend>Find Similar Songs</legend>
<form method="post" action="/query">
  <label for="query">Path to the query song:</label>
  <input type="text" id="query" name="query" value="{{.QueryPath}}">
  <label for="top_n">Number of similar songs to retrieve:</label>
  <input type="number" id="top_n" name="top_n" min="1" max="20" value="{{.TopN}}">
  <button type="submit">Find Similar Songs</button>
</form>
{{if .QueryError}}<p class="error">{{.QueryError}}</p>{{end}}
{{if .HasResults}}
<table>
<tr><th>Song</th><th>Similarity</th></tr>
{{range .Matches}}<tr><td>{{.Name}}</td><td>{{.Score}}</td></tr>{{end}}
</table>
{{end}}
</fieldset>
</body>
</html>
`))
