package posts

import (
	"fmt"
	"strings"
)

const (
	CodeMissingOrInvalidField = "VALIDATION_ERROR_MISSING_OR_INVALID_FIELD"
	CodeInvalidSort           = "VALIDATION_ERROR_INVALID_SORT"
	CodeInvalidSortDirection  = "VALIDATION_ERROR_INVALID_SORT_DIRECTION"
	CodeInvalidSortParams     = "VALIDATION_ERROR_INVALID_SORT_PARAMS"
	CodeInvalidPostID         = "VALIDATION_ERROR_INVALID_POST_ID"
	CodeMalformedBody         = "VALIDATION_ERROR_MALFORMED_BODY"
)

// ValidationError reports input that fails the schema's required-field
// or enumerated-value constraints. Details name the offending fields.
type ValidationError struct {
	Code    string
	Details []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Details, "; "))
}

// NotFoundError reports an operation targeting a nonexistent post id.
type NotFoundError struct {
	ID uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no records match the provided ID %d", e.ID)
}
