package services

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

// ValidationError is a caller mistake: a missing or malformed field.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "Missing required field: " + strings.Join(e.Fields, ", ")
}

func missing(fields ...string) error {
	if len(fields) > 1 {
		return &ValidationError{Fields: fields, Message: "Missing required fields: " + strings.Join(fields, ", ")}
	}
	return &ValidationError{Fields: fields}
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Fields: []string{field}, Message: fmt.Sprintf(format, args...)}
}

func notFound(what string) error {
	return errors.WithMessage(ErrNotFound, what)
}
