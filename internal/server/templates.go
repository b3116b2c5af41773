package server

import (
	"html/template"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>DealFinder</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 860px; margin: 2rem auto; padding: 0 1rem; color: #1a1a2e; }
form { display: flex; gap: .5rem; margin-bottom: 1.5rem; }
input[name=msg] { flex: 1; padding: .6rem; font-size: 1rem; border: 1px solid #ccc; border-radius: 6px; }
button { padding: .6rem 1.2rem; font-size: 1rem; border: 0; border-radius: 6px; background: #2563eb; color: #fff; cursor: pointer; }
.card { border: 1px solid #e2e8f0; border-radius: 8px; padding: 1rem; margin-bottom: .75rem; }
.card h3 { margin: 0 0 .25rem; }
.price { font-size: 1.25rem; font-weight: 700; color: #16a34a; }
.source { color: #64748b; font-size: .85rem; }
.deal { color: #b45309; font-size: .9rem; }
.error { color: #b91c1c; }
.cost { margin-top: 1.5rem; color: #64748b; font-size: .85rem; }
</style>
</head>
<body>
<h1>DealFinder</h1>
<form method="post" action="/deals">
<input name="msg" placeholder="What are you looking for? e.g. best deals on wireless earbuds" value="{{.Query}}" required>
<button type="submit">Find deals</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{if .Searched}}{{if not .Products}}<p>No priced offers found. Try a more specific product name.</p>{{end}}{{end}}
{{range .Products}}
<div class="card">
<h3><a href="{{.URL}}" rel="nofollow noopener">{{.Name}}</a></h3>
<div class="price">{{.Price.Display}}</div>
{{if .Details}}<p>{{.Details}}</p>{{end}}
{{if .DealInfo}}<p class="deal">{{.DealInfo}}</p>{{end}}
<div class="source">{{.Source}}{{if not .InStock}} &middot; may be out of stock{{end}}</div>
</div>
{{end}}
{{if .Searched}}
<div class="cost">
Searched {{.Stats.SnippetResults}} snippet / {{.Stats.FullResults}} full extractions &middot;
estimated API cost ${{printf "%.3f" .Stats.Total}}
</div>
{{end}}
</body>
</html>
`))
