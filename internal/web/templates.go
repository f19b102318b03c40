package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"dogceo/browser/internal/domain"
	"dogceo/browser/internal/notify"

	log "github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	stateUnavailable = "unavailable"
	stateNotFound    = "not_found"
	stateNoSelection = "no_selection"
)

type pageData struct {
	Title   string
	Notices []notify.Notice
	State   string
	Query   string
	Random  string
	Groups  []domain.LetterGroup
	Gallery *domain.Gallery
}

func parsePages() (map[string]*template.Template, error) {
	funcs := template.FuncMap{"upper": strings.ToUpper}

	pages := make(map[string]*template.Template)
	for _, name := range []string{"home", "breeds", "pictures"} {
		tpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = tpl
	}
	return pages, nil
}

// render drains the session's pending notices into the page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	data.Notices = append(data.Notices, s.flash.Drain(sessionID(r))...)

	var buf bytes.Buffer
	if err := s.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Errorf("❌ Failed to render %s page: %v", page, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
