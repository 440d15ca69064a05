package engine

import "errors"

var (
	ErrInvalidTokenPair = errors.New("engine: invalid token pair")
	ErrInvalidUnitSize  = errors.New("engine: unit size must be positive")
	ErrInvalidDepth     = errors.New("engine: invalid depth")
)
