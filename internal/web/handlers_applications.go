package web

import (
	"net/http"

	"github.com/JonMunkholm/stoplight/internal/core"
)

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := s.service.ListApplications(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeList(w, apps)
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	var a core.Application
	if err := decodeJSON(w, r, &a); err != nil {
		s.respondError(w, r, err)
		return
	}
	created, err := s.service.AddApplication(r.Context(), a)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "applicationId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	app, err := s.service.GetApplication(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "applicationId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var changes core.Application
	if err := decodeJSON(w, r, &changes); err != nil {
		s.respondError(w, r, err)
		return
	}
	updated, err := s.service.UpdateApplication(r.Context(), id, changes)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "applicationId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.service.DeleteApplication(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
