package recommendations

import "errors"

var (
	ErrNotFound     = errors.New("recommendations not found")
	ErrInvalidInput = errors.New("invalid input")
)
