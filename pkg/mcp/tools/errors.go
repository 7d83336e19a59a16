package tools

import (
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/folio-engine/folio-engine/pkg/apperrors"
)

// ErrorResponse represents a structured error in tool results.
// Recoverable errors are returned as successful tool results so the
// client sees the details instead of a bare protocol failure.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// NewErrorResult creates a tool result containing a structured error.
// Use this for errors the caller can act on (bad arguments, unknown id).
// System failures such as a lost database connection still return Go errors.
func NewErrorResult(code, message string) *mcp.CallToolResult {
	return NewErrorResultWithDetails(code, message, nil)
}

// NewErrorResultWithDetails creates an error result with additional context.
func NewErrorResultWithDetails(code, message string, details any) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
		Details: details,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// InputErrorCode returns the result code for errors caused by caller input,
// or "" when err is a server failure.
func InputErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrBadRequest):
		return "invalid_input"
	case errors.Is(err, apperrors.ErrConflict):
		return "conflict"
	}
	return ""
}

// IsInputError reports whether err was caused by caller input rather than
// a server failure.
func IsInputError(err error) bool {
	return InputErrorCode(err) != ""
}

// resultForError converts input errors into error results and passes server
// failures through as Go errors.
func resultForError(err error) (*mcp.CallToolResult, error) {
	if code := InputErrorCode(err); code != "" {
		return NewErrorResult(code, err.Error()), nil
	}
	return nil, err
}
