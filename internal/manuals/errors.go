package manuals

import "errors"

var (
	ErrNotFound     = errors.New("manual not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyContent = errors.New("file content is empty")
)
