package pastor

import "errors"

var (
	ErrNotFound        = errors.New("pastor profile not found")
	ErrMemberNotFound  = errors.New("member not found")
	ErrBranchNotFound  = errors.New("branch not found")
	ErrAlreadyPastor   = errors.New("member is already a pastor")
	ErrEmailInUse      = errors.New("login email already in use for this church")
	ErrMemberImmutable = errors.New("member cannot be changed")
	ErrValidation      = errors.New("invalid pastor payload")
)
