package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"

	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Page is what every template receives.
type Page struct {
	Title   string
	Flashes []Flash
	Errors  []string
	Data    any
}

// Renderer executes the embedded page templates inside the shared layout.
type Renderer struct {
	pages  map[string]*template.Template
	logger zerolog.Logger
}

func NewRenderer(logger zerolog.Logger) (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		tmpl, err := template.New(path.Base(layoutFile)).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", file, err)
		}
		pages[path.Base(file)] = tmpl
	}

	return &Renderer{pages: pages, logger: logger}, nil
}

// Render writes page with status. Pending flash messages are attached and cleared.
func (rn *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, page Page) {
	tmpl, ok := rn.pages[name]
	if !ok {
		rn.logger.Error().Str("template", name).Msg("unknown template")
		RespondWithError(w, http.StatusInternalServerError, "TEMPLATE_MISSING", "An unexpected error occurred")
		return
	}

	page.Flashes = append(PopFlashes(w, r), page.Flashes...)

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, page); err != nil {
		rn.logger.Error().Err(err).Str("template", name).Msg("failed to render template")
		RespondWithError(w, http.StatusInternalServerError, "RENDER_FAILED", "An unexpected error occurred")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Error renders the standalone error page.
func (rn *Renderer) Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	rn.Render(w, r, status, "error.html", Page{
		Title:  http.StatusText(status),
		Errors: []string{message},
	})
}
