package weapon

import "errors"

var (
	ErrInvalidVersion  = errors.New("invalid version")
	ErrInvalidCategory = errors.New("invalid category")
	ErrOutOfRange      = errors.New("weapon id field out of range")
)
