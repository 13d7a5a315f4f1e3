package order

import (
	"errors"
	"strings"
)

var (
	ErrInvalidPhone    = errors.New("invalid phone number format")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}
