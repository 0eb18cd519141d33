package console

import "html/template"

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Klingel</title>
<style>
body { font-family: sans-serif; background: #f0f4f8; margin: 0 auto; max-width: 40em; padding: 1em; }
section { background: #fff; border-radius: 8px; padding: 1em; margin-bottom: 1em; }
button { background: #2e7d32; color: #fff; border: 0; border-radius: 6px; padding: .6em 1.2em; }
button.delete { background: #c62828; }
pre { white-space: pre-wrap; }
.open { color: #2e7d32; }
.closed { color: #c62828; }
</style>
</head>
<body>
<h1>Klingel</h1>

<section>
<form method="post" action="/open"><button type="submit">Open door</button></form>
<p>Opening hours:</p>
<pre>{{.Hours}}</pre>
{{if .Open}}<p class="open">Open now</p>{{else}}<p class="closed">Closed now</p>{{end}}
</section>

<section>
<h2>Access codes</h2>
<form method="post" action="/add_code">
<input name="name" placeholder="Name" required>
<input name="code" placeholder="Code" inputmode="numeric" pattern="[0-9]{4,8}" required>
<button type="submit">Add</button>
</form>
<table>
{{range .Codes}}<tr><td>{{.Name}}</td><td>{{.Code}}</td><td><form method="post" action="/del_code"><input type="hidden" name="code" value="{{.Code}}"><button class="delete" type="submit">Delete</button></form></td></tr>
{{else}}<tr><td>No codes</td></tr>
{{end}}</table>
</section>

<section>
<h2>Log</h2>
<pre>{{range .Lines}}{{.}}
{{end}}</pre>
<a href="/download">Download log</a>
</section>
{{if .Recent}}
<section>
<h2>Door openings</h2>
<ul>
{{range .Recent}}<li>{{.String}}</li>
{{end}}</ul>
</section>
{{end}}
</body>
</html>
`))
