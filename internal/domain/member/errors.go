package member

import "errors"

var (
	ErrNotFound   = errors.New("member not found")
	ErrValidation = errors.New("invalid member payload")
)
