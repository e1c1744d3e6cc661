package rv32i

import (
	"github.com/pkg/errors"

	"github.com/bassosimone/fuste/internal/control"
	"github.com/bassosimone/fuste/internal/ferrors"
	"github.com/bassosimone/fuste/internal/machine"
)

// Rv32iComputer is the step interpreter: on each tick it fetches the word
// at PC, executes it via Step, and returns Continue. It never returns Break
// itself; termination is always signaled by an interrupt that a higher
// system in the composer (see internal/systems) turns into a Break.
type Rv32iComputer struct{}

// Tick implements control.Hook.
func (Rv32iComputer) Tick(m *machine.Machine) (control.ControlFlow, error) {
	pc := m.Registers().PC()
	word, err := m.Memory().ReadWord(pc)
	if err != nil {
		return control.Break, errors.Wrap(err, "fetch")
	}
	if err := Step(word, pc, m); err != nil {
		if _, ok := err.(*ferrors.MemoryError); ok {
			return control.Break, errors.Wrap(err, "execute")
		}
		return control.Break, err
	}
	return control.Continue, nil
}
