// Package core provides the business logic for family survey tracking and
// snapshot reporting.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key: A record with this code already exists
//	        Action: Use a different code or update the existing record
//	        Patterns: "duplicate key"
//
//	DB003 - Foreign key: Referenced record does not exist
//	        Action: Create the organization or application first
//	        Patterns: "violates foreign key"
//
//	DB004 - Connection refused: Unable to connect to database
//	        Action: Please try again in a few moments
//	        Patterns: "connection refused"
//
//	DB005 - Connection reset: Database connection was interrupted
//	        Action: Please try again
//	        Patterns: "connection reset"
//
//	DB006 - Timeout: Operation timed out
//	        Action: Narrow the date range or try again later
//	        Patterns: "timeout"
//
// # Report Errors (RPT001-RPT099)
//
//	RPT001 - Invalid filter: The report is missing a required filter
//	         Action: Provide a survey id for survey exports
//	         Patterns: "invalid filter"
//
//	RPT002 - Invalid date: A date filter could not be parsed
//	         Action: Use YYYY-MM-DD
//	         Patterns: "invalid date"
//
//	RPT003 - Busy: Too many reports are being built at once
//	         Action: Please try again in a few moments
//	         Patterns: "too many concurrent reports"
//
// # Resource Errors (RES001-RES099)
//
//	RES001 - Not found: The requested record does not exist
//	         Action: Check the id and try again
//	         Patterns: "not found"
//
//	RES002 - Invalid argument: An id or field value is not valid
//	         Action: Ids must be positive numbers
//	         Patterns: "invalid argument"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled: Request was cancelled
//	         Patterns: "context canceled"
//
//	REQ002 - Request timeout: Request timed out
//	         Patterns: "context deadline exceeded"
//
//	RATE001 - Rate limited: Too many requests
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check application logs for the
// original technical error when users report ERR000.
//
// Patterns are matched case-insensitively using strings.Contains. The first
// matching pattern wins, so more specific patterns come first.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Database Errors (DB001-DB006)
	// =========================================================================
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this code already exists",
			Action:  "Use a different code or update the existing record",
			Code:    "DB001",
		},
	},
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Create the organization or application first",
			Code:    "DB003",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Narrow the date range or try again later",
			Code:    "DB006",
		},
	},

	// =========================================================================
	// Report Errors (RPT001-RPT003)
	// =========================================================================
	{
		pattern: "invalid filter",
		msg: UserMessage{
			Message: "The report is missing a required filter",
			Action:  "Provide a survey id for survey exports",
			Code:    "RPT001",
		},
	},
	{
		pattern: "invalid date",
		msg: UserMessage{
			Message: "A date filter could not be parsed",
			Action:  "Use YYYY-MM-DD",
			Code:    "RPT002",
		},
	},
	{
		pattern: "too many concurrent reports",
		msg: UserMessage{
			Message: "The server is busy building other reports",
			Action:  "Please try again in a few moments",
			Code:    "RPT003",
		},
	},

	// =========================================================================
	// Resource Errors (RES001-RES002)
	// =========================================================================
	{
		pattern: "not found",
		msg: UserMessage{
			Message: "The requested record does not exist",
			Action:  "Check the id and try again",
			Code:    "RES001",
		},
	},
	{
		pattern: "invalid argument",
		msg: UserMessage{
			Message: "An id or field value is not valid",
			Action:  "Ids must be positive numbers",
			Code:    "RES002",
		},
	},

	// =========================================================================
	// Request Errors (REQ001-REQ002, RATE001)
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Narrow the date range or try again later",
			Code:    "REQ002",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It returns the first matching pattern, or ERR000 if none match.
//
// Example:
//
//	err := fmt.Errorf("survey 7: %w", ErrNotFound)
//	msg := MapError(err)
//	// msg.Code == "RES001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
