package handlers

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/http"
)

//go:embed web/index.html
var indexTmpl string

type pageData struct {
	Duration int
}

// Index serves the prompt form. The page is rendered once per process: the
// only dynamic value is the configured song duration.
func (a *App) Index(w http.ResponseWriter, r *http.Request) {
	a.indexOnce.Do(func() {
		tmpl := template.Must(template.New("index").Parse(indexTmpl))
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, pageData{Duration: a.SongDuration}); err != nil {
			a.Logger.Error().Err(err).Msg("render index page")
			return
		}
		a.indexHTML = buf.Bytes()
	})
	if len(a.indexHTML) == 0 {
		a.error(w, http.StatusInternalServerError, "page unavailable")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.indexHTML)
}
