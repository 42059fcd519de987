package statemachine

import "errors"

var (
	// ErrNoTransition indicates no transition is registered for the
	// current state and event combination.
	ErrNoTransition = errors.New("statemachine: no transition available")

	// ErrRejected indicates every candidate transition was blocked by its guard.
	ErrRejected = errors.New("statemachine: transition rejected by guard")
)
