package registry

import "errors"

var (
	ErrCapacityExceeded = errors.New("required buffer capacity exceeds maximum")
	ErrUnknownRoot      = errors.New("unknown root key")
	ErrUnknownType      = errors.New("unknown value type")
	ErrInvalidPath      = errors.New("invalid key path")
)
