package branch

import "errors"

var (
	ErrNotFound   = errors.New("branch not found")
	ErrValidation = errors.New("invalid branch payload")
)
