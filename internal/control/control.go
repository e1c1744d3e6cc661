// Package control defines the uniform per-step hook contract that every
// system in Fuste's step composer implements: a single Tick method
// returning whether the run should continue or stop. Implementations are
// built by composition, structs holding structs, with InterruptHandler
// wrapping an inner Hook, TickHandler wrapping another, and so on.
package control

import "github.com/bassosimone/fuste/internal/machine"

// ControlFlow signals whether the driver loop should keep ticking.
type ControlFlow int

const (
	// Continue means the run should keep going.
	Continue ControlFlow = iota
	// Break means the run should stop: the guest exited, or a hook
	// reached an internal limit.
	Break
)

// Hook is the single method every composable system implements.
type Hook interface {
	Tick(m *machine.Machine) (ControlFlow, error)
}

// NoopSystem is a Hook that does nothing and always continues. Use it to
// fill a composer slot that a particular run has no system for.
type NoopSystem struct{}

// Tick implements Hook.
func (NoopSystem) Tick(*machine.Machine) (ControlFlow, error) {
	return Continue, nil
}
