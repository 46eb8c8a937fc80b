package account

import "errors"

var (
	ErrNotFound = errors.New("member not found")
)
