package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is:
//   - Logged with full technical details and the request ID (server-side)
//   - Returned to clients as JSON with a user-friendly message and action
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err)
//  3. The status comes from the core sentinel the error wraps
//  4. The body comes from core.MapError

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/stoplight/internal/core"
	"github.com/JonMunkholm/stoplight/internal/logging"
)

// maxErrorMessage bounds messages echoed back to clients.
const maxErrorMessage = 200

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidFilter), errors.Is(err, core.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrTooManyReports):
		return http.StatusServiceUnavailable
	case core.MapError(err).Code == "DB001":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the technical error and writes a user-friendly JSON body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
		"ip", core.GetIPAddressFromContext(r.Context()),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "5")
	}
	respondErrorJSON(w, userMsg, status)
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// writeError writes a JSON error for failures raised by the web layer itself,
// such as rate limiting. message is matched against core.MapError for the code.
func writeError(w http.ResponseWriter, status int, message string) {
	msg := core.MapError(errors.New(message))
	msg.Message = sanitizeErrorMessage(message)
	respondErrorJSON(w, msg, status)
}

// sanitizeErrorMessage flattens message to a single bounded line.
func sanitizeErrorMessage(message string) string {
	message = strings.Join(strings.Fields(message), " ")
	if len(message) > maxErrorMessage {
		cut := maxErrorMessage
		for cut > 0 && !utf8.RuneStart(message[cut]) {
			cut--
		}
		message = message[:cut] + "..."
	}
	return message
}
