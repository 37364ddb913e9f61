package ecs

import "errors"

// Fatal faults are raised as panics whose value is an error wrapping one of
// these sentinels, so callers that recover can match them with errors.Is.
var (
	ErrNotRegistered           = errors.New("ecs: component type not registered")
	ErrEntitySpaceExhausted    = errors.New("ecs: entity space exhausted")
	ErrMutationDuringIteration = errors.New("ecs: collection mutated during iteration")
	ErrTypeKeyMismatch         = errors.New("ecs: type key resolved to a different collection type")
	ErrTooManyTypes            = errors.New("ecs: too many component types")
)
