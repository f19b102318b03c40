package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"dogceo/browser/internal/domain"
	"dogceo/browser/internal/service"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// statusFor maps flow errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrEmptyBreed):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, service.ErrNoSelection):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSelectionNotSaved):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAbsent):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	data := pageData{Title: "Dog breeds"}

	image, err := s.svc.RandomImage(r.Context(), sessionID(r))
	if err != nil {
		data.State = stateUnavailable
	}
	data.Random = image

	s.render(w, r, http.StatusOK, "home", data)
}

func (s *Server) handleBreeds(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, r, http.StatusOK)
}

func (s *Server) renderIndex(w http.ResponseWriter, r *http.Request, status int) {
	query := r.URL.Query().Get("q")
	data := pageData{Title: "Breed dictionary", Query: query}

	groups, err := s.svc.BuildIndex(r.Context(), sessionID(r), query)
	if err != nil {
		data.State = stateUnavailable
		if status == http.StatusOK {
			status = statusFor(err)
		}
	}
	data.Groups = groups

	s.render(w, r, status, "breeds", data)
}

// handleSelect stores the chosen breed and only then moves on to the pictures
// page. A failed save keeps the user on the index.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	breed := domain.BreedName(r.PostFormValue("breed"))
	if err := s.svc.SelectBreed(r.Context(), sessionID(r), breed); err != nil {
		log.Debugf("Selection of %q cancelled: %v", breed, err)
		s.renderIndex(w, r, statusFor(err))
		return
	}

	http.Redirect(w, r, "/pictures", http.StatusSeeOther)
}

func (s *Server) handlePictures(w http.ResponseWriter, r *http.Request) {
	data := pageData{Title: "Pictures"}
	status := http.StatusOK

	gallery, err := s.svc.LoadGallery(r.Context(), sessionID(r))
	if gallery == nil {
		gallery = &domain.Gallery{}
	}
	data.Gallery = gallery
	if gallery.Title != "" {
		data.Title = gallery.Title
	}

	switch {
	case err == nil:
	case errors.Is(err, service.ErrNoSelection):
		data.State = stateNoSelection
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNotFound):
		data.State = stateNotFound
		status = http.StatusNotFound
	default:
		data.State = stateUnavailable
		status = statusFor(err)
	}

	s.render(w, r, status, "pictures", data)
}

func (s *Server) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	s.svc.ClearSelection(r.Context(), sessionID(r))
	http.Redirect(w, r, "/breeds", http.StatusSeeOther)
}

// apiResponse mirrors the upstream envelope.
type apiResponse struct {
	Status  string `json:"status"`
	Message any    `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("Failed to encode response: %v", err)
	}
}

// writeResult answers a JSON API call. Notices raised by the call are drained
// so they neither pile up nor surface later on an unrelated page; the log
// channel already has them.
func (s *Server) writeResult(w http.ResponseWriter, r *http.Request, message any, err error) {
	s.flash.Drain(sessionID(r))

	if err != nil {
		writeJSON(w, statusFor(err), apiResponse{Status: "error", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Status: domain.EnvelopeStatusSuccess, Message: message})
}

func (s *Server) handleAPIBreeds(w http.ResponseWriter, r *http.Request) {
	groups, err := s.svc.BuildIndex(r.Context(), sessionID(r), r.URL.Query().Get("q"))
	s.writeResult(w, r, groups, err)
}

func (s *Server) handleAPIBreedImages(w http.ResponseWriter, r *http.Request) {
	breed := domain.BreedName(mux.Vars(r)["breed"])
	images, err := s.svc.BreedImages(r.Context(), sessionID(r), breed)
	s.writeResult(w, r, images, err)
}

func (s *Server) handleAPISubBreeds(w http.ResponseWriter, r *http.Request) {
	breed := domain.BreedName(mux.Vars(r)["breed"])
	subBreeds, err := s.svc.SubBreeds(r.Context(), sessionID(r), breed)
	s.writeResult(w, r, subBreeds, err)
}

func (s *Server) handleAPIRandom(w http.ResponseWriter, r *http.Request) {
	image, err := s.svc.RandomImage(r.Context(), sessionID(r))
	s.writeResult(w, r, image, err)
}

func (s *Server) handleAPISelection(w http.ResponseWriter, r *http.Request) {
	breed, ok := s.svc.SelectedBreed(r.Context(), sessionID(r))
	if !ok {
		s.writeResult(w, r, nil, service.ErrNoSelection)
		return
	}
	s.writeResult(w, r, domain.SelectionRecord{Breed: breed}, nil)
}
