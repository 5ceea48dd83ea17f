package group

import "errors"

var (
	ErrNotFound       = errors.New("group not found")
	ErrMemberNotFound = errors.New("member not found")
	ErrAlreadyInGroup = errors.New("member already in group")
	ErrValidation     = errors.New("invalid group payload")
)
