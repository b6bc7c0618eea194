package errors

import (
	"fmt"
	"net/http"
	"time"

	"text-editor-server/internal/models"
)

// JSON-RPC Error Codes (as per JSON-RPC 2.0 Specification)
const (
	CodeParseError     = -32700 // Invalid JSON was received by the server.
	CodeInvalidRequest = -32600 // The JSON sent is not a valid Request object.
	CodeMethodNotFound = -32601 // The method does not exist / is not available.
	CodeInvalidParams  = -32602 // Invalid method parameter(s), including missing required arguments.
	CodeInternalError  = -32603 // Internal JSON-RPC error.
)

// Application Specific Error Codes. Every editor failure maps to exactly one
// of these; callers only rely on the code being non-zero.
const (
	// CodeInvalidPath indicates the raw path could not be resolved to a
	// canonical filesystem location.
	CodeInvalidPath = -32001

	// CodeNotFound indicates the target path, or the str_replace pattern,
	// does not exist.
	CodeNotFound = -32002

	// CodeAlreadyExists indicates create was pointed at an existing file.
	CodeAlreadyExists = -32003

	// CodeIsADirectory covers both a directory given to a non-view command
	// and a non-regular file given to a read.
	CodeIsADirectory = -32004

	// CodeInvalidRange indicates an out-of-bounds or malformed view_range.
	CodeInvalidRange = -32005

	// CodeInvalidLine indicates an out-of-bounds insert_line.
	CodeInvalidLine = -32006

	// CodeAmbiguousMatch indicates str_replace found more than one
	// occurrence of old_str.
	CodeAmbiguousMatch = -32007

	// CodeEmptyPattern indicates str_replace was given an empty old_str.
	CodeEmptyPattern = -32008

	// CodeIOFailure wraps an underlying read/write/mkdir system error.
	CodeIOFailure = -32009
)

// NewErrorDetail creates a new ErrorDetail.
func NewErrorDetail(code int, message string, data interface{}) *models.ErrorDetail {
	return &models.ErrorDetail{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// NewParseError creates an ErrorDetail for JSON parsing errors.
func NewParseError(details string) *models.ErrorDetail {
	return NewErrorDetail(CodeParseError, "Parse error", map[string]interface{}{"details": details})
}

// NewInvalidRequestError creates an ErrorDetail for invalid JSON-RPC Request objects.
func NewInvalidRequestError(details string) *models.ErrorDetail {
	return NewErrorDetail(CodeInvalidRequest, "Invalid Request", map[string]interface{}{"details": details})
}

// NewMethodNotFoundError creates an ErrorDetail when a JSON-RPC method is not found.
func NewMethodNotFoundError(methodName string) *models.ErrorDetail {
	return NewErrorDetail(CodeMethodNotFound, "Method not found", map[string]interface{}{"method": methodName})
}

// NewInvalidParamsError creates an ErrorDetail for invalid method parameters.
func NewInvalidParamsError(message string) *models.ErrorDetail {
	return NewErrorDetail(CodeInvalidParams, message, nil)
}

// NewMissingArgumentError reports a required field absent for the given command.
func NewMissingArgumentError(field, command string) *models.ErrorDetail {
	return NewErrorDetail(CodeInvalidParams,
		fmt.Sprintf("Parameter `%s` is required for command: %s", field, command),
		map[string]interface{}{"field": field, "command": command, "type": "missing_argument"})
}

// NewInternalError creates an ErrorDetail for unexpected server errors.
func NewInternalError(details string) *models.ErrorDetail {
	return NewErrorDetail(CodeInternalError, "Internal error", map[string]interface{}{"details": details})
}

// NewInvalidPathError reports an unresolvable or malformed path.
func NewInvalidPathError(path, details string) *models.ErrorDetail {
	return NewErrorDetail(CodeInvalidPath,
		fmt.Sprintf("Invalid path `%s`: %s", path, details),
		map[string]interface{}{"path": path, "type": "invalid_path"})
}

// NewPathNotFoundError reports a path that does not exist after all
// resolution fallbacks were tried.
func NewPathNotFoundError(path string) *models.ErrorDetail {
	return NewErrorDetail(CodeNotFound,
		fmt.Sprintf("The path %s does not exist. Please provide a valid path.", path),
		map[string]interface{}{"path": path, "type": "path_not_found"})
}

// NewPatternNotFoundError reports a str_replace old_str with zero occurrences.
func NewPatternNotFoundError(oldStr, path string) *models.ErrorDetail {
	return NewErrorDetail(CodeNotFound,
		fmt.Sprintf("No replacement was performed, old_str `%s` did not appear verbatim in %s.", oldStr, path),
		map[string]interface{}{"path": path, "type": "pattern_not_found"})
}

// NewAlreadyExistsError reports a create against an existing file.
func NewAlreadyExistsError(path string) *models.ErrorDetail {
	return NewErrorDetail(CodeAlreadyExists,
		fmt.Sprintf("File already exists at: %s. Cannot overwrite files using command `create`.", path),
		map[string]interface{}{"path": path, "type": "already_exists"})
}

// NewIsADirectoryError reports a directory target given to a command that
// only accepts files.
func NewIsADirectoryError(path, message string) *models.ErrorDetail {
	return NewErrorDetail(CodeIsADirectory, message,
		map[string]interface{}{"path": path, "type": "is_a_directory"})
}

// NewNotAFileError reports a path that exists but is not a regular file.
func NewNotAFileError(path string) *models.ErrorDetail {
	return NewErrorDetail(CodeIsADirectory,
		fmt.Sprintf("Path is not a file: %s", path),
		map[string]interface{}{"path": path, "type": "not_a_file"})
}

// NewInvalidRangeError reports an out-of-bounds or malformed view_range. The
// message names the offending bound and the valid range.
func NewInvalidRangeError(message string) *models.ErrorDetail {
	return NewErrorDetail(CodeInvalidRange, message, map[string]interface{}{"type": "invalid_range"})
}

// NewInvalidLineError reports an out-of-bounds insert_line.
func NewInvalidLineError(insertLine, maxLine int) *models.ErrorDetail {
	return NewErrorDetail(CodeInvalidLine,
		fmt.Sprintf("Invalid `insert_line` parameter: %d. It should be within the range of lines of the file: [0, %d]", insertLine, maxLine),
		map[string]interface{}{"insert_line": insertLine, "type": "invalid_line"})
}

// NewAmbiguousMatchError reports a str_replace old_str occurring more than
// once. Lines are 1-indexed.
func NewAmbiguousMatchError(oldStr string, lines []int) *models.ErrorDetail {
	return NewErrorDetail(CodeAmbiguousMatch,
		fmt.Sprintf("No replacement was performed. Multiple occurrences of old_str `%s` in lines %s. Please ensure it is unique", oldStr, formatLines(lines)),
		map[string]interface{}{"lines": lines, "type": "ambiguous_match"})
}

// NewEmptyPatternError reports an empty str_replace old_str.
func NewEmptyPatternError() *models.ErrorDetail {
	return NewErrorDetail(CodeEmptyPattern,
		"No replacement was performed, old_str cannot be empty.",
		map[string]interface{}{"type": "empty_pattern"})
}

// NewIOFailureError wraps an underlying system error from a read, write, or
// mkdir against the given path.
func NewIOFailureError(path, operation string, err error) *models.ErrorDetail {
	return NewErrorDetail(CodeIOFailure,
		fmt.Sprintf("Ran into %v while trying to %s %s", err, operation, path),
		map[string]interface{}{"path": path, "operation": operation, "type": "io_failure"})
}

func formatLines(lines []int) string {
	s := "["
	for i, n := range lines {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%d", n)
	}
	return s + "]"
}

// ToErrorResponse converts an ErrorDetail to an HTTP models.ErrorResponse.
func ToErrorResponse(errDetail *models.ErrorDetail) *models.ErrorResponse {
	if errDetail == nil {
		return nil
	}
	return &models.ErrorResponse{Error: *errDetail}
}

// ToJSONRPCError converts an ErrorDetail to a models.JSONRPCError, lifting
// known keys out of the Data map.
func ToJSONRPCError(errDetail *models.ErrorDetail) *models.JSONRPCError {
	if errDetail == nil {
		return nil
	}
	rpcErr := &models.JSONRPCError{
		Code:    errDetail.Code,
		Message: errDetail.Message,
	}
	if errDetail.Data != nil {
		data := &models.JSONRPCErrorData{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		if m, ok := errDetail.Data.(map[string]interface{}); ok {
			if v, ok := m["path"].(string); ok {
				data.Path = v
			}
			if v, ok := m["operation"].(string); ok {
				data.Operation = v
			}
			if v, ok := m["details"].(string); ok {
				data.Details = v
			}
		} else {
			data.Details = fmt.Sprintf("%v", errDetail.Data)
		}
		rpcErr.Data = data
	}
	return rpcErr
}

// MapErrorToHTTPStatus maps an internal error code to an HTTP status code.
func MapErrorToHTTPStatus(errorCode int) int {
	switch errorCode {
	case CodeParseError, CodeInvalidRequest, CodeInvalidParams:
		return http.StatusBadRequest
	case CodeMethodNotFound, CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeAmbiguousMatch:
		return http.StatusConflict
	case CodeInvalidPath, CodeInvalidRange, CodeInvalidLine, CodeEmptyPattern, CodeIsADirectory:
		return http.StatusUnprocessableEntity
	case CodeInternalError, CodeIOFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
