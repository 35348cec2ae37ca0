package web

import (
	"net/http"

	"github.com/JonMunkholm/stoplight/internal/core"
)

func (s *Server) handleListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := s.service.ListOrganizations(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeList(w, orgs)
}

func (s *Server) handleCreateOrganization(w http.ResponseWriter, r *http.Request) {
	var o core.Organization
	if err := decodeJSON(w, r, &o); err != nil {
		s.respondError(w, r, err)
		return
	}
	created, err := s.service.AddOrganization(r.Context(), o)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetOrganization(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "organizationId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	o, err := s.service.GetOrganization(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleUpdateOrganization(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "organizationId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var changes core.Organization
	if err := decodeJSON(w, r, &changes); err != nil {
		s.respondError(w, r, err)
		return
	}
	updated, err := s.service.UpdateOrganization(r.Context(), id, changes)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteOrganization(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "organizationId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.service.DeleteOrganization(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
