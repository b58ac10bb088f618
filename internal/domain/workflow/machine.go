package workflow

import (
	"context"
	"fmt"
)

// GuardFunc evaluates whether a transition should be allowed.
type GuardFunc func(ctx context.Context) bool

// transition is a candidate target state with an optional guard.
type transition struct {
	toState State
	guard   GuardFunc
}

// Builder accumulates per-state transition configuration and produces
// immutable Machine instances.
type Builder struct {
	configurations map[State]*StateConfig
}

// StateConfig configures the transitions permitted from one state.
type StateConfig struct {
	fromState   State
	transitions map[Trigger][]transition
}

// NewBuilder creates an empty state machine builder.
func NewBuilder() *Builder {
	return &Builder{configurations: make(map[State]*StateConfig)}
}

// Configure returns the configuration for the given state, creating it
// on first use. Panics on an invalid state: machine wiring is static
// and a bad state is a programming error, not a runtime condition.
func (b *Builder) Configure(state State) *StateConfig {
	if !state.IsValid() {
		panic(fmt.Sprintf("invalid state: %s", state))
	}
	config, ok := b.configurations[state]
	if !ok {
		config = &StateConfig{
			fromState:   state,
			transitions: make(map[Trigger][]transition),
		}
		b.configurations[state] = config
	}
	return config
}

// Permit allows a trigger to transition to the target state.
func (c *StateConfig) Permit(trigger Trigger, toState State) *StateConfig {
	return c.PermitIf(trigger, toState, nil)
}

// PermitIf allows a trigger to transition to the target state when the
// guard passes. Candidates for the same trigger are tried in the order
// they were permitted; the first one whose guard passes wins.
func (c *StateConfig) PermitIf(trigger Trigger, toState State, guard GuardFunc) *StateConfig {
	if !toState.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", toState))
	}
	c.transitions[trigger] = append(c.transitions[trigger], transition{toState: toState, guard: guard})
	return c
}

// Build creates a machine at the given initial state. The machine owns
// a copy of the configuration so the builder can be reused.
func (b *Builder) Build(initialState State) *Machine {
	if !initialState.IsValid() {
		panic(fmt.Sprintf("invalid initial state: %s", initialState))
	}

	configs := make(map[State]map[Trigger][]transition, len(b.configurations))
	for state, config := range b.configurations {
		ts := make(map[Trigger][]transition, len(config.transitions))
		for trigger, candidates := range config.transitions {
			ts[trigger] = append([]transition{}, candidates...)
		}
		configs[state] = ts
	}

	return &Machine{currentState: initialState, configurations: configs}
}

// Machine tracks the current status and validates transitions against
// the configured graph.
type Machine struct {
	currentState   State
	configurations map[State]map[Trigger][]transition
}

// State returns the current state.
func (m *Machine) State() State {
	return m.currentState
}

// CanFire returns true if at least one transition is configured for
// the trigger in the current state. Guards are not evaluated here.
func (m *Machine) CanFire(trigger Trigger) bool {
	return len(m.configurations[m.currentState][trigger]) > 0
}

// Fire executes the trigger, moving to the first permitted target
// whose guard passes.
func (m *Machine) Fire(ctx context.Context, trigger Trigger) error {
	candidates := m.configurations[m.currentState][trigger]
	if len(candidates) == 0 {
		return fmt.Errorf("%w: cannot fire trigger %s from state %s", ErrInvalidTransition, trigger, m.currentState)
	}

	for _, t := range candidates {
		if t.guard == nil || t.guard(ctx) {
			m.currentState = t.toState
			return nil
		}
	}

	return fmt.Errorf("%w: trigger %s from state %s", ErrGuardFailed, trigger, m.currentState)
}

// PermittedTriggers returns all triggers configured in the current state.
func (m *Machine) PermittedTriggers() []Trigger {
	transitions := m.configurations[m.currentState]
	triggers := make([]Trigger, 0, len(transitions))
	for trigger := range transitions {
		triggers = append(triggers, trigger)
	}
	return triggers
}
