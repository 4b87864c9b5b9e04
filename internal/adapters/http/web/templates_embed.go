package web

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(
	template.New("index.html").Funcs(template.FuncMap{
		"ts":  func(t time.Time) string { return t.Format(time.DateTime) },
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/index.html"),
)
