package systems

import (
	"github.com/bassosimone/fuste/internal/control"
	"github.com/bassosimone/fuste/internal/ferrors"
	"github.com/bassosimone/fuste/internal/machine"
)

// ExitDispatcher services the Exit ecall (93).
type ExitDispatcher interface {
	Dispatch(m *machine.Machine) (control.ControlFlow, error)
}

// WriteDispatcher services the Write ecall (64).
type WriteDispatcher interface {
	Dispatch(m *machine.Machine) error
}

// ChannelOpDispatcher services either the OpenChannel (33) or CheckChannel
// (34) ecall.
type ChannelOpDispatcher interface {
	Dispatch(m *machine.Machine) error
}

// EcallDispatcher reads the ecall number from the shadow a7 register and
// routes to the matching sub-dispatcher, which reads its arguments from
// shadow a0..a5, performs its side effect, writes a result back, and
// commits the shadow. Any sub-dispatcher field left nil ignores its ecall.
type EcallDispatcher struct {
	Exit         ExitDispatcher
	Write        WriteDispatcher
	OpenChannel  ChannelOpDispatcher
	CheckChannel ChannelOpDispatcher

	// Observer, when non-nil, is invoked with the ecall number of every
	// serviced trap before it is routed. The metrics layer hangs its
	// per-number counter here without the dispatcher knowing about it.
	Observer func(number uint32)
}

// TickWithEcallInterrupt implements EcallHandler.
func (d *EcallDispatcher) TickWithEcallInterrupt(m *machine.Machine, _ ferrors.TrapInfo) (control.ControlFlow, error) {
	m.TrapRegisters()
	number := m.Csrs().Registers().Get(RegA7)
	if d.Observer != nil {
		d.Observer(number)
	}

	switch number {
	case EcallExit:
		if d.Exit == nil {
			return ignore(m)
		}
		return d.Exit.Dispatch(m)
	case EcallWrite:
		if d.Write == nil {
			return ignore(m)
		}
		return control.Continue, d.Write.Dispatch(m)
	case EcallOpenChannel:
		if d.OpenChannel == nil {
			return ignore(m)
		}
		return control.Continue, d.OpenChannel.Dispatch(m)
	case EcallCheckChannel:
		if d.CheckChannel == nil {
			return ignore(m)
		}
		return control.Continue, d.CheckChannel.Dispatch(m)
	default:
		return control.Break, &ferrors.SystemError{Message: "unrecognized ecall number"}
	}
}

// ignore services an ecall whose sub-dispatcher slot is empty: the shadow PC
// advances past the ECALL and commits with every argument register left
// untouched, so a guest that seeded a3 with the -1 sentinel observes the
// call was ignored rather than spinning on a re-trapping ECALL.
func ignore(m *machine.Machine) (control.ControlFlow, error) {
	m.Csrs().Registers().IncrementPC()
	m.CommitCsrs()
	return control.Continue, nil
}

// FatalEbreakHandler is the default EbreakHandler: it treats EBREAK as a
// fatal, propagated error.
type FatalEbreakHandler struct{}

// TickWithEbreakInterrupt implements EbreakHandler.
func (FatalEbreakHandler) TickWithEbreakInterrupt(_ *machine.Machine, info ferrors.TrapInfo) (control.ControlFlow, error) {
	return control.Break, &ferrors.EbreakInterrupt{Info: info}
}

// TerminatingEbreakHandler remaps EBREAK to a clean Break with no error,
// letting a guest stop a run without treating termination as failure.
type TerminatingEbreakHandler struct{}

// TickWithEbreakInterrupt implements EbreakHandler.
func (TerminatingEbreakHandler) TickWithEbreakInterrupt(_ *machine.Machine, _ ferrors.TrapInfo) (control.ControlFlow, error) {
	return control.Break, nil
}
