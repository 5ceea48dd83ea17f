package church

import "errors"

var (
	ErrNotFound      = errors.New("church not found")
	ErrSlugTaken     = errors.New("slug taken")
	ErrInvalidStatus = errors.New("invalid status")
	ErrInvalidPlan   = errors.New("invalid plan")
	ErrValidation    = errors.New("invalid church payload")
)
