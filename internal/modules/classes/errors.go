package classes

import "errors"

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("class not found")
	ErrForbidden    = errors.New("not allowed for this class")
	ErrInvalidState = errors.New("invalid class state transition")
)
