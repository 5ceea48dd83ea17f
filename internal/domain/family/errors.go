package family

import "errors"

var (
	ErrNotFound       = errors.New("family not found")
	ErrMemberNotFound = errors.New("member not found")
	ErrValidation     = errors.New("invalid family payload")
)
