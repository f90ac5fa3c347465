// Package apperr defines the error taxonomy shared by the repository, the
// record stores and the transport layers.
package apperr

import (
	"errors"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrCreateFailed = errors.New("create failed")
	ErrUpdateFailed = errors.New("update failed")
	ErrDeleteFailed = errors.New("delete failed")
	ErrListFailed   = errors.New("list failed")
	ErrTransport    = errors.New("record store unreachable")
	ErrInvalidInput = errors.New("invalid input")
)

// FieldError is a single field-level validation failure reported by a store.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationErrors collects the field errors of one failed operation.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Error()
	}
	return strings.Join(parts, "; ")
}

// Fields extracts field errors from err, if any were attached.
func Fields(err error) ValidationErrors {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v
	}
	return nil
}
