package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/stoplight/internal/core"
	"github.com/JonMunkholm/stoplight/internal/logging"
)

// Caller identity headers set by the gateway in front of the service.
const (
	HeaderUserID         = "X-User-Id"
	HeaderUserName       = "X-User-Name"
	HeaderApplicationID  = "X-Application-Id"
	HeaderOrganizationID = "X-Organization-Id"
)

// Identity attaches the caller described by the X-User-* headers to the
// request context as core.UserDetails, along with the client IP.
// Requests without X-User-Id are anonymous and pass through untouched.
// Malformed ids are rejected with 400.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := core.ContextWithIPAddress(r.Context(), r.RemoteAddr)

		if r.Header.Get(HeaderUserID) == "" {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		user, err := userFromHeaders(r.Header)
		if err != nil {
			logging.FromContext(ctx).Warn("identity: bad header", "error", err)
			rejectJSON(w, http.StatusBadRequest, err.Error(), "RES002")
			return
		}

		ctx = core.ContextWithUserDetails(ctx, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromHeaders(h http.Header) (core.UserDetails, error) {
	var user core.UserDetails

	id, err := headerID(h, HeaderUserID)
	if err != nil {
		return user, err
	}
	user.UserID = *id
	user.Username = strings.TrimSpace(h.Get(HeaderUserName))

	if user.ApplicationID, err = headerID(h, HeaderApplicationID); err != nil {
		return user, err
	}
	if user.OrganizationID, err = headerID(h, HeaderOrganizationID); err != nil {
		return user, err
	}
	return user, nil
}

// headerID parses a positive id header. Absent headers yield nil.
func headerID(h http.Header, name string) (*int64, error) {
	raw := strings.TrimSpace(h.Get(name))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, &headerError{name: name, value: raw}
	}
	return &id, nil
}

type headerError struct {
	name  string
	value string
}

func (e *headerError) Error() string {
	return "invalid argument: " + e.name + " must be a positive id, got " + strconv.Quote(e.value)
}
