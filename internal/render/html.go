package render

import (
	_ "embed"
	"html/template"
	"io"

	"hrgraph/internal/app"
)

//go:embed page.html.tmpl
var pageTemplate string

var page = template.Must(template.New("page").Parse(pageTemplate))

type pageData struct {
	Title string
	Scene app.Scene
}

// WriteHTML writes a self-contained viewer page for scene.
func WriteHTML(w io.Writer, title string, scene app.Scene) error {
	if title == "" {
		title = "HR Network"
	}
	return page.Execute(w, pageData{Title: title, Scene: scene})
}
