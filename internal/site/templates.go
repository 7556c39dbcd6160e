package site

import "html/template"

// The built-in theme is deliberately plain: a photo blog's pages are
// mostly pictures, and everything layout-related lives in these two
// templates plus a small shared shell.
const shellTmpl = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{block "title" .}}{{.Site.Title}}{{end}}</title>
<link rel="alternate" type="application/rss+xml" title="{{.Site.Title}}" href="{{.Site.BaseURL}}/feed.xml">
<style>
body{max-width:72rem;margin:0 auto;padding:1rem;font:16px/1.6 system-ui,sans-serif;color:#1a1a1a}
header a{color:inherit;text-decoration:none;font-weight:600}
img{max-width:100%;height:auto}
picture img{display:block;margin:1.5rem 0}
article h1{margin-bottom:.25rem}
time{color:#667085;font-size:.9rem}
ul.articles{list-style:none;padding:0}
ul.articles li{margin:2rem 0}
</style>
</head>
<body>
<header><a href="{{.Site.BaseURL}}/">{{.Site.Title}}</a></header>
<main>{{block "main" .}}{{end}}</main>
</body>
</html>`

const articleTmpl = `{{define "title"}}{{.Page.Title}} · {{.Site.Title}}{{end}}
{{define "main"}}
<article>
<h1>{{.Page.Title}}</h1>
<time datetime="{{.Page.Date.Format "2006-01-02"}}">{{.Page.Date.Format "January 2, 2006"}}</time>
{{.Page.Body}}
</article>
{{end}}`

const indexTmpl = `{{define "main"}}
<ul class="articles">
{{range .Page.Entries}}
<li>
<a href="{{.Href}}">
{{if .Thumb}}<img src="{{.Thumb}}" alt="{{.Title}}" loading="lazy">{{end}}
<h2>{{.Title}}</h2>
</a>
<time datetime="{{.Date.Format "2006-01-02"}}">{{.Date.Format "January 2, 2006"}}</time>
</li>
{{end}}
</ul>
{{end}}`

func mustParse(name, page string) *template.Template {
	t := template.Must(template.New(name).Parse(shellTmpl))
	return template.Must(t.Parse(page))
}

var (
	articlePage = mustParse("article", articleTmpl)
	indexPage   = mustParse("index", indexTmpl)
)
