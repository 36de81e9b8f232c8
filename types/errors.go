package types

import "errors"

var (
	ErrTypeMismatch        = errors.New("cached value has a different result type")
	ErrComputePanic        = errors.New("compute panicked")
	ErrComputeAborted      = errors.New("compute exited without returning")
	ErrInvalidCapacity     = errors.New("max size must be positive")
	ErrInvalidSeenCapacity = errors.New("seen keys capacity must not be negative")
	ErrClosed              = errors.New("cache is closed")
)
