package handler

import (
	"embed"
	"html/template"
	"slices"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the HTML pages served by FormHandler.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"offered": func(list []string, s string) bool { return slices.Contains(list, s) },
		"inc":     func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.html")
}
