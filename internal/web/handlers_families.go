package web

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/stoplight/internal/core"
)

// personRequest is the head of family as sent by survey clients.
type personRequest struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Birthdate      string `json:"birthdate"` // YYYY-MM-DD
	CountryOfBirth string `json:"countryOfBirth"`
}

// resolveFamilyRequest asks for the family a new snapshot belongs to.
type resolveFamilyRequest struct {
	Person         personRequest    `json:"person"`
	OrganizationID *int64           `json:"organizationId"`
	EconomicData   *core.SurveyData `json:"economicData"`
}

func (p personRequest) toPerson() (core.Person, error) {
	birthdate, err := time.Parse(QueryDateLayout, strings.TrimSpace(p.Birthdate))
	if err != nil {
		return core.Person{}, fmt.Errorf("birthdate %q: invalid date: %w", p.Birthdate, core.ErrInvalidArgument)
	}
	return core.Person{
		ID:             p.ID,
		FirstName:      strings.TrimSpace(p.FirstName),
		LastName:       strings.TrimSpace(p.LastName),
		Birthdate:      birthdate,
		CountryOfBirth: strings.ToUpper(strings.TrimSpace(p.CountryOfBirth)),
	}, nil
}

// handleListFamilies lists every family for anonymous callers. Identified
// callers get the query filters, scoped to their application and organization.
func (s *Server) handleListFamilies(w http.ResponseWriter, r *http.Request) {
	user, identified := core.UserDetailsFromContext(r.Context())
	if !identified {
		families, err := s.service.ListFamilies(r.Context())
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		writeList(w, families)
		return
	}

	filter, err := parseFamilyFilter(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	families, err := s.service.ListFamiliesForUser(r.Context(), filter, user)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeList(w, families)
}

func (s *Server) handleCountFamilies(w http.ResponseWriter, r *http.Request) {
	var (
		count int64
		err   error
	)
	if user, ok := core.UserDetailsFromContext(r.Context()); ok {
		count, err = s.service.CountFamiliesForUser(r.Context(), user)
	} else {
		var filter core.FamilyFilter
		if filter, err = parseFamilyFilter(r); err == nil {
			count, err = s.service.CountFamilies(r.Context(), filter)
		}
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

func (s *Server) handleSearchFamilies(w http.ResponseWriter, r *http.Request) {
	user, err := requireUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	families, err := s.service.SearchFamiliesByUser(r.Context(), user, r.URL.Query().Get("q"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeList(w, families)
}

func (s *Server) handleResolveFamily(w http.ResponseWriter, r *http.Request) {
	user, err := requireUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req resolveFamilyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	person, err := req.Person.toPerson()
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	family, err := s.service.GetOrCreateFamily(r.Context(), user, core.NewFamily{
		Person:         person,
		OrganizationID: req.OrganizationID,
		EconomicData:   req.EconomicData,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, family)
}

func (s *Server) handleCreateFamily(w http.ResponseWriter, r *http.Request) {
	var f core.Family
	if err := decodeJSON(w, r, &f); err != nil {
		s.respondError(w, r, err)
		return
	}
	created, err := s.service.AddFamily(r.Context(), f)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetFamily(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "familyId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	f, err := s.service.GetFamily(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleUpdateFamily(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "familyId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	var changes core.Family
	if err := decodeJSON(w, r, &changes); err != nil {
		s.respondError(w, r, err)
		return
	}
	updated, err := s.service.UpdateFamily(r.Context(), id, changes)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteFamily(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "familyId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.service.DeleteFamily(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
