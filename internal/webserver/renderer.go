package webserver

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/pedeai/pkg/money"
)

//go:embed templates/*.html
var templateFS embed.FS

type templateRenderer struct {
	templates *template.Template
}

func newTemplateRenderer() *templateRenderer {
	tmpl := template.Must(template.New("").
		Funcs(template.FuncMap{"money": money.FormatBRL}).
		ParseFS(templateFS, "templates/*.html"))
	return &templateRenderer{templates: tmpl}
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
