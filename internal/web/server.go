// Package web serves the breed index and pictures pages.
package web

import (
	"html/template"
	"net/http"

	"dogceo/browser/internal/metrics"
	"dogceo/browser/internal/notify"
	"dogceo/browser/internal/service"

	"github.com/gorilla/mux"
)

type Server struct {
	svc          *service.Service
	flash        *notify.FlashNotifier
	pages        map[string]*template.Template
	router       *mux.Router
	cookieSecure bool
}

// NewServer wires the routes. flash must be the notifier the client and the
// selection store report to, so their notices show up on the next page.
func NewServer(svc *service.Service, flash *notify.FlashNotifier, cookieSecure bool) (*Server, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	if flash == nil {
		flash = notify.NewFlashNotifier()
	}

	s := &Server{
		svc:          svc,
		flash:        flash,
		pages:        pages,
		router:       mux.NewRouter(),
		cookieSecure: cookieSecure,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router
	r.Use(metrics.InstrumentHandler)

	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	pages := r.NewRoute().Subrouter()
	pages.Use(s.sessionMiddleware)
	pages.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	pages.HandleFunc("/breeds", s.handleBreeds).Methods(http.MethodGet)
	pages.HandleFunc("/select", s.handleSelect).Methods(http.MethodPost)
	pages.HandleFunc("/pictures", s.handlePictures).Methods(http.MethodGet)
	pages.HandleFunc("/selection/clear", s.handleClearSelection).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.sessionMiddleware)
	api.HandleFunc("/breeds", s.handleAPIBreeds).Methods(http.MethodGet)
	api.HandleFunc("/breeds/{breed}/images", s.handleAPIBreedImages).Methods(http.MethodGet)
	api.HandleFunc("/breeds/{breed}/list", s.handleAPISubBreeds).Methods(http.MethodGet)
	api.HandleFunc("/random", s.handleAPIRandom).Methods(http.MethodGet)
	api.HandleFunc("/selection", s.handleAPISelection).Methods(http.MethodGet)
}

func (s *Server) Handler() http.Handler {
	return s.router
}
