// Package statemachine implements a small guarded finite state machine.
//
// States and events are plain strings; transitions carry an optional guard
// and an optional action executed before the state change:
//
//	m := statemachine.New("waiting")
//	m.AddTransition("waiting", "settled", "loaded", nil, nil)
//	m.AddTransition("settled", "waiting", "reload", nil, nil)
//
//	if err := m.Fire(ctx, "loaded"); err != nil { ... }
//
// The machine is safe for concurrent use.
package statemachine
