package roi

// errors.go defines the error taxonomy surfaced through the API.
//
// Client errors are sentinel values checked with errors.Is; backing
// store failures are wrapped in StoreError carrying the operation that
// failed. MapError converts either kind into the user-facing message,
// action hint and machine code the transport layer serializes.

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel client errors.
var (
	ErrUnauthorized     = errors.New("caller identity not resolved")
	ErrTemplateNotFound = errors.New("template not found")
	ErrTableNotFound    = errors.New("backing table not found")
	ErrInvalidColumn    = errors.New("column not found in template mapping")
	ErrReadOnly         = errors.New("column is computed and read only")
	ErrSelfRecord       = errors.New("organization record is managed in place")
	ErrNoOrganization   = errors.New("no organization context")
	ErrNoRecords        = errors.New("no records matched")
)

// Store operation names used in StoreError.
const (
	OpFetch  = "fetch"
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// StoreError wraps a backing-store failure with the operation that
// produced it, so the transport can map it to the right error code.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// Error codes echoed in API responses.
const (
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeNotFound      = "NOT_FOUND"
	CodeFetchError    = "FETCH_ERROR"
	CodeInsertFailed  = "INSERT_FAILED"
	CodeUpdateFailed  = "UPDATE_FAILED"
	CodeDeleteFailed  = "DELETE_FAILED"
	CodeNoOrg         = "NO_ORG"
	CodeNoTable       = "NO_TABLE"
	CodeInvalidColumn = "INVALID_COLUMN"
	CodeReadOnly      = "READ_ONLY"
	CodeNoRecords     = "NO_RECORDS"
	CodeInternalError = "INTERNAL_ERROR"
)

// UserMessage provides user-friendly error information with an
// actionable hint and a machine code for support reference.
type UserMessage struct {
	Message string
	Action  string
	Code    string
}

// sentinelMessages maps sentinel errors to their user messages.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrUnauthorized, UserMessage{
		Message: "You are not signed in",
		Action:  "Sign in and try again",
		Code:    CodeUnauthorized,
	}},
	{ErrTemplateNotFound, UserMessage{
		Message: "The requested report template does not exist",
		Action:  "Check the template identifier",
		Code:    CodeNotFound,
	}},
	{ErrTableNotFound, UserMessage{
		Message: "The backing table for this template is not configured",
		Action:  "Contact support with the template identifier",
		Code:    CodeNoTable,
	}},
	{ErrInvalidColumn, UserMessage{
		Message: "This column does not exist in the template",
		Action:  "Check the column code against the template definition",
		Code:    CodeInvalidColumn,
	}},
	{ErrReadOnly, UserMessage{
		Message: "This column is derived automatically and cannot be edited",
		Action:  "Edit the source fields instead",
		Code:    CodeReadOnly,
	}},
	{ErrSelfRecord, UserMessage{
		Message: "The organization record already exists and cannot be created",
		Action:  "Update the existing organization record instead",
		Code:    CodeReadOnly,
	}},
	{ErrNoOrganization, UserMessage{
		Message: "No organization is associated with your session",
		Action:  "Complete organization setup before managing register data",
		Code:    CodeNoOrg,
	}},
	{ErrNoRecords, UserMessage{
		Message: "No matching records were found",
		Action:  "Refresh the view; the record may have been deleted",
		Code:    CodeNoRecords,
	}},
}

// storeMessages maps StoreError operations to user messages.
var storeMessages = map[string]UserMessage{
	OpFetch: {
		Message: "Could not load register data",
		Action:  "Please try again in a few moments",
		Code:    CodeFetchError,
	},
	OpInsert: {
		Message: "The record could not be created",
		Action:  "Check the submitted values and try again",
		Code:    CodeInsertFailed,
	},
	OpUpdate: {
		Message: "The record could not be updated",
		Action:  "Check the submitted value and try again",
		Code:    CodeUpdateFailed,
	},
	OpDelete: {
		Message: "The record could not be deleted",
		Action:  "Please try again",
		Code:    CodeDeleteFailed,
	},
}

// errorPatterns maps technical error text (case-insensitive substring
// match, first match wins) to user messages for errors that arrive
// without a sentinel, e.g. raw driver errors.
var errorPatterns = []struct {
	pattern string
	msg     UserMessage
}{
	{"duplicate key", UserMessage{
		Message: "A record with this identifier already exists",
		Action:  "Check for duplicate entries",
		Code:    CodeInsertFailed,
	}},
	{"foreign key", UserMessage{
		Message: "A referenced record does not exist",
		Action:  "Create the related record first",
		Code:    CodeInsertFailed,
	}},
	{"connection refused", UserMessage{
		Message: "The data store is unreachable",
		Action:  "Please try again in a few moments",
		Code:    CodeFetchError,
	}},
	{"context deadline exceeded", UserMessage{
		Message: "The operation timed out",
		Action:  "Please try again",
		Code:    CodeFetchError,
	}},
}

// MapError converts any error into its user-facing message.
// Sentinels are checked first, then store operations, then raw text
// patterns; anything unmatched becomes INTERNAL_ERROR.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{Code: CodeInternalError, Message: "An unexpected error occurred"}
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.err) {
			return s.msg
		}
	}

	var se *StoreError
	if errors.As(err, &se) {
		if msg, ok := storeMessages[se.Op]; ok {
			return msg
		}
	}

	lower := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(lower, p.pattern) {
			return p.msg
		}
	}

	return UserMessage{
		Message: "An unexpected error occurred",
		Action:  "Please try again or contact support",
		Code:    CodeInternalError,
	}
}
