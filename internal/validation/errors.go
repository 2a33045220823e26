package validation

import (
	"errors"
	"fmt"
)

// Error codes carried by rejections
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeEventLimit       = "EVENT_LIMIT_REACHED"
	CodeDuplicateProduct = "PRODUCT_ALREADY_IN_EVENT"
)

// Error is a local, user-facing rejection. It never involves the backend.
type Error struct {
	Code    string
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func reject(field, format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

// AsError extracts a rejection from err
func AsError(err error) (*Error, bool) {
	var verr *Error
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
