package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"
)

//go:embed templates/*.html
var templateFS embed.FS

// Pages are parsed once at startup; template.Must catches malformed
// templates at program start rather than per request.
var (
	setupTmpl  = template.Must(template.ParseFS(templateFS, "templates/setup.html"))
	viewerTmpl = template.Must(template.ParseFS(templateFS, "templates/viewer.html"))
)

// viewerData feeds the viewer page. Position is the 1-based scene number
// shown to the reader; Index stays 0-based for API URLs.
type viewerData struct {
	Hero     string
	Text     string
	Index    int
	Position int
	Total    int
	ImageSrc string
}

func renderHTML(w http.ResponseWriter, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=UTF-8")
	if err := tmpl.Execute(w, data); err != nil {
		log.Error().Err(err).Str("template", tmpl.Name()).Msg("Template render failed")
	}
}
