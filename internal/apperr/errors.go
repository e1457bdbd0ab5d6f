package apperr

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrNotDirectory   = errors.New("not a directory")
	ErrDuplicateTitle = errors.New("duplicate note title")
)
