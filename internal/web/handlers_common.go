// Shared request parsing and response helpers.

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/stoplight/internal/core"
)

// QueryDateLayout is the layout of the dateFrom and dateTo parameters.
const QueryDateLayout = "2006-01-02"

// maxBodySize caps JSON request bodies (1MB).
const maxBodySize = 1 << 20

// parseIDParam parses a positive id from the URL path.
func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s %q must be a positive id: %w", name, raw, core.ErrInvalidArgument)
	}
	return id, nil
}

// parseOptionalID parses a positive id query parameter. Absent means nil.
func parseOptionalID(q url.Values, name string) (*int64, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%s %q must be a positive id: %w", name, raw, core.ErrInvalidArgument)
	}
	return &id, nil
}

// parseDate parses a YYYY-MM-DD query parameter in UTC. With endOfDay the
// result is the last microsecond of that day, so the bound is inclusive.
func parseDate(q url.Values, name string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(QueryDateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%s %q: invalid date: %w", name, raw, core.ErrInvalidArgument)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Microsecond)
	}
	return &t, nil
}

// parseSnapshotFilter reads the report filter from the query string.
func parseSnapshotFilter(r *http.Request) (core.SnapshotFilter, error) {
	q := r.URL.Query()
	var (
		f   core.SnapshotFilter
		err error
	)
	if f.ApplicationID, err = parseOptionalID(q, "applicationId"); err != nil {
		return f, err
	}
	if f.OrganizationID, err = parseOptionalID(q, "organizationId"); err != nil {
		return f, err
	}
	if f.SurveyID, err = parseOptionalID(q, "surveyId"); err != nil {
		return f, err
	}
	if f.FamilyID, err = parseOptionalID(q, "familyId"); err != nil {
		return f, err
	}
	if f.DateFrom, err = parseDate(q, "dateFrom", false); err != nil {
		return f, err
	}
	if f.DateTo, err = parseDate(q, "dateTo", true); err != nil {
		return f, err
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateTo.Before(*f.DateFrom) {
		return f, fmt.Errorf("dateTo is before dateFrom: %w", core.ErrInvalidFilter)
	}
	return f, nil
}

// parseFamilyFilter reads a family listing filter from the query string.
func parseFamilyFilter(r *http.Request) (core.FamilyFilter, error) {
	q := r.URL.Query()
	var (
		f   core.FamilyFilter
		err error
	)
	if f.ApplicationID, err = parseOptionalID(q, "applicationId"); err != nil {
		return f, err
	}
	if f.OrganizationID, err = parseOptionalID(q, "organizationId"); err != nil {
		return f, err
	}
	if f.DateFrom, err = parseDate(q, "dateFrom", false); err != nil {
		return f, err
	}
	if f.DateTo, err = parseDate(q, "dateTo", true); err != nil {
		return f, err
	}
	f.Name = strings.TrimSpace(q.Get("name"))
	if raw := q.Get("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return f, fmt.Errorf("active %q must be true or false: %w", raw, core.ErrInvalidArgument)
		}
		f.ActiveOnly = active
	}
	return f, nil
}

// decodeJSON decodes a bounded JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is empty: %w", core.ErrInvalidArgument)
		}
		return fmt.Errorf("decode request body: %v: %w", err, core.ErrInvalidArgument)
	}
	return nil
}

// writeJSON encodes v as JSON with the given status.
// Encoding errors are logged since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

// writeList writes items as JSON, or 204 No Content when there are none.
func writeList[T any](w http.ResponseWriter, items []T) {
	if len(items) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
