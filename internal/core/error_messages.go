// Package core provides the business logic for catalog imports and directory search.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key: A record with this value already exists
//	DB002 - Unique constraint: This value must be unique but already exists
//	DB003 - Foreign key: Referenced company or category does not exist
//	DB004 - Connection refused: Unable to connect to database
//	DB005 - Connection reset: Database connection was interrupted
//	DB006 - Timeout: Operation timed out
//	DB007 - Deadlock: Database was busy with conflicting operations
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Required field: Required field is empty
//	VAL002 - Invalid number: Invalid number format detected
//	VAL003 - Too long: A value exceeds the maximum length
//	VAL004 - Invalid format: A value has an invalid format (email, link)
//	VAL005 - Header mismatch: Spreadsheet columns do not match the template
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds maximum size limit
//	FILE002 - Unsupported format: Only .xlsx and .xls are accepted
//	FILE003 - Malformed: The spreadsheet could not be read
//	FILE004 - No file: No file was selected
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - No valid records: Every data row was rejected or the sheet is empty
//	IMP002 - Persistence failed: Nothing was saved
//	IMP003 - System busy: Too many imports in progress
//	IMP004 - Unknown kind: The import type is not configured
//	IMP005 - Invalid owner: The owner id is missing or not a UUID
//
// # Request Errors (UPL001-UPL099)
//
//	UPL001 - Request cancelled
//	UPL002 - Request timeout
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so database causes wrapped inside
// ErrPersistenceFailed report the more specific DB code.
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
// Patterns are matched using strings.Contains, so partial matches work.
// The first matching pattern wins, so order matters:
//   - More specific patterns should come before general ones
//   - Multiple patterns can map to the same error code
//
// To add a new error pattern:
//  1. Choose the appropriate category and code range
//  2. Add the pattern in the correct position (specific before general)
//  3. Update the package documentation at the top of this file
var errorPatterns = []errorPattern{
	// =========================================================================
	// Database Constraint Errors (DB001-DB003)
	// =========================================================================
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this value already exists",
			Action:  "Remove rows that were already imported and try again",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Check for duplicate CNPJ or email entries in your spreadsheet",
			Code:    "DB002",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "A duplicate value was found",
			Action:  "Review your data for duplicate key values",
			Code:    "DB002",
		},
	},
	{
		pattern: "foreign key",
		msg: UserMessage{
			Message: "Referenced company or category does not exist",
			Action:  "Check the owner and categoryId values",
			Code:    "DB003",
		},
	},

	// =========================================================================
	// Database Connection Errors (DB004-DB007)
	// =========================================================================
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
			Action:  "Try importing a smaller file or try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},

	// =========================================================================
	// Validation Errors (VAL001-VAL005)
	// =========================================================================
	{
		pattern: "required field",
		msg: UserMessage{
			Message: "Required field is empty",
			Action:  "Ensure all required columns have values",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid number",
		msg: UserMessage{
			Message: "Invalid number format detected",
			Action:  "Use plain decimal prices such as 49.90",
			Code:    "VAL002",
		},
	},
	{
		pattern: "value too long",
		msg: UserMessage{
			Message: "A value exceeds the maximum length",
			Action:  "Shorten the highlighted values",
			Code:    "VAL003",
		},
	},
	{
		pattern: "invalid format",
		msg: UserMessage{
			Message: "A value has an invalid format",
			Action:  "Check email addresses and links",
			Code:    "VAL004",
		},
	},
	{
		pattern: "header mismatch",
		msg: UserMessage{
			Message: "Spreadsheet columns do not match the template",
			Action:  "Download the template and keep its header row",
			Code:    "VAL005",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE004)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds maximum size limit",
			Action:  "Split the file into smaller spreadsheets",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unsupported file format",
		msg: UserMessage{
			Message: "Only .xlsx and .xls spreadsheets are supported",
			Action:  "Save the file as an Excel workbook",
			Code:    "FILE002",
		},
	},
	{
		pattern: "malformed spreadsheet",
		msg: UserMessage{
			Message: "The spreadsheet could not be read",
			Action:  "Re-save the file in Excel and try again",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a spreadsheet to import",
			Code:    "FILE004",
		},
	},

	// =========================================================================
	// Import Errors (IMP001-IMP005)
	// =========================================================================
	{
		pattern: "no valid records",
		msg: UserMessage{
			Message: "No valid rows were found in the spreadsheet",
			Action:  "Fix the rejected rows and import again",
			Code:    "IMP001",
		},
	},
	{
		pattern: "persistence failed",
		msg: UserMessage{
			Message: "The rows could not be saved",
			Action:  "Nothing was imported. Please try again",
			Code:    "IMP002",
		},
	},
	{
		pattern: "too many imports",
		msg: UserMessage{
			Message: "System is busy processing other imports",
			Action:  "Please wait a moment and try again",
			Code:    "IMP003",
		},
	},
	{
		pattern: "unknown entity kind",
		msg: UserMessage{
			Message: "Unknown import type",
			Action:  "Use one of the listed schemas",
			Code:    "IMP004",
		},
	},
	{
		pattern: "invalid owner id",
		msg: UserMessage{
			Message: "The selected company or category is not valid",
			Action:  "Pick an existing owner and try again",
			Code:    "IMP005",
		},
	},

	// =========================================================================
	// Request Errors (UPL001-UPL002)
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try importing a smaller file or check your connection",
			Code:    "UPL002",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
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
// This is the fallback for unexpected errors. Support staff should check
// application logs for the original technical error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	err := errors.New("duplicate key violation")
//	msg := MapError(err)
//	// msg.Code == "DB001"
//	// msg.Message == "A record with this value already exists"
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
//
// Example output: "A record with this value already exists (Code: DB001). Remove rows that were already imported and try again"
//
// This is the primary function for displaying errors to end users.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error matches a specific pattern (not the generic ERR000 fallback).
// Use this to decide whether to show the raw error or the mapped user message.
//
// Example:
//
//	if IsUserFacing(err) {
//	    showToUser(FormatUserError(err))
//	} else {
//	    log.Error(err) // Log technical error
//	    showToUser("An error occurred. Please try again.")
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// WrapWithUserMessage wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
// The returned UserError preserves the original technical error for logging via Unwrap(),
// while providing a clean user message via Error().
//
// Returns nil if err is nil.
//
// Example:
//
//	ue := NewUserError(dbErr)
//	log.Error(ue.Technical)          // Log original error
//	fmt.Println(ue.Error())           // Show "A record with this value already exists"
//	fmt.Println(ue.User.Code)         // Show "DB001"
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
