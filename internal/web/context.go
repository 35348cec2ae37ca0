package web

import (
	"fmt"
	"net"
	"net/http"

	"github.com/JonMunkholm/stoplight/internal/core"
)

// requireUser returns the caller attached by middleware.Identity.
func requireUser(r *http.Request) (core.UserDetails, error) {
	user, ok := core.UserDetailsFromContext(r.Context())
	if !ok {
		return core.UserDetails{}, fmt.Errorf("X-User-Id header is required: %w", core.ErrInvalidArgument)
	}
	return user, nil
}

// clientIP strips the port from a RemoteAddr.
func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}
