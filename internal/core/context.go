package core

import "context"

type contextKey string

const (
	ctxKeyUserDetails contextKey = "user_details"
	ctxKeyIPAddress   contextKey = "client_ip"
)

// ContextWithUserDetails adds the calling user to context.
func ContextWithUserDetails(ctx context.Context, user UserDetails) context.Context {
	return context.WithValue(ctx, ctxKeyUserDetails, user)
}

// UserDetailsFromContext extracts the calling user from context.
// The second result is false when no user was attached.
func UserDetailsFromContext(ctx context.Context) (UserDetails, bool) {
	user, ok := ctx.Value(ctxKeyUserDetails).(UserDetails)
	return user, ok
}

// ContextWithIPAddress adds the client IP address to context for logging.
func ContextWithIPAddress(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, ctxKeyIPAddress, ip)
}

// GetIPAddressFromContext extracts the client IP address from context.
func GetIPAddressFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyIPAddress).(string); ok {
		return v
	}
	return ""
}
