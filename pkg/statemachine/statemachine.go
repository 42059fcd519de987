package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// State identifies a state in the machine.
type State string

// Event identifies a trigger that may cause a transition.
type Event string

// Action executes side effects during a transition. Returning an error
// aborts the transition and leaves the machine in its current state.
type Action func(ctx context.Context, from, to State, event Event) error

// Guard evaluates whether a transition is allowed.
type Guard func(ctx context.Context, from State, event Event) bool

type transition struct {
	to     State
	guard  Guard
	action Action
}

// Machine is a thread-safe in-memory finite state machine.
// Transition lookups are O(1) via a nested [from][event] map.
type Machine struct {
	mu          sync.RWMutex
	initial     State
	current     State
	transitions map[State]map[Event][]transition
}

// New creates a machine positioned at the initial state.
func New(initial State) *Machine {
	return &Machine{
		initial:     initial,
		current:     initial,
		transitions: make(map[State]map[Event][]transition),
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// AddTransition registers a transition. Guard and action may be nil.
// Multiple transitions for the same from/event pair are tried in
// registration order; the first one whose guard passes wins.
func (m *Machine) AddTransition(from, to State, event Event, guard Guard, action Action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.transitions[from]; !ok {
		m.transitions[from] = make(map[Event][]transition)
	}
	m.transitions[from][event] = append(m.transitions[from][event], transition{to: to, guard: guard, action: action})
}

// Fire applies the event to the current state.
// Returns ErrNoTransition if the event is not valid for the current state,
// or ErrRejected if every candidate transition's guard refused it.
func (m *Machine) Fire(ctx context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	candidates, ok := m.transitions[m.current][event]
	if !ok || len(candidates) == 0 {
		return fmt.Errorf("%w: state %q, event %q", ErrNoTransition, m.current, event)
	}

	for _, t := range candidates {
		if t.guard != nil && !t.guard(ctx, m.current, event) {
			continue
		}
		if t.action != nil {
			if err := t.action(ctx, m.current, t.to, event); err != nil {
				return fmt.Errorf("transition action: %w", err)
			}
		}
		m.current = t.to
		return nil
	}

	return fmt.Errorf("%w: state %q, event %q", ErrRejected, m.current, event)
}

// CanFire reports whether the event would transition from the current state.
func (m *Machine) CanFire(ctx context.Context, event Event) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, t := range m.transitions[m.current][event] {
		if t.guard == nil || t.guard(ctx, m.current, event) {
			return true
		}
	}
	return false
}

// Reset returns the machine to its initial state.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}
