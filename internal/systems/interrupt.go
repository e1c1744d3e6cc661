package systems

import (
	"github.com/bassosimone/fuste/internal/control"
	"github.com/bassosimone/fuste/internal/ferrors"
	"github.com/bassosimone/fuste/internal/machine"
)

// EcallHandler services a trapped ECALL.
type EcallHandler interface {
	TickWithEcallInterrupt(m *machine.Machine, info ferrors.TrapInfo) (control.ControlFlow, error)
}

// EbreakHandler services a trapped EBREAK.
type EbreakHandler interface {
	TickWithEbreakInterrupt(m *machine.Machine, info ferrors.TrapInfo) (control.ControlFlow, error)
}

// InterruptHandler routes EcallInterrupt/EbreakInterrupt errors raised by
// Inner to the matching dispatcher; every other error propagates unchanged.
type InterruptHandler struct {
	Inner  control.Hook
	Ecall  EcallHandler
	Ebreak EbreakHandler
}

// Tick implements control.Hook.
func (h *InterruptHandler) Tick(m *machine.Machine) (control.ControlFlow, error) {
	cf, err := h.Inner.Tick(m)
	if err == nil {
		return cf, nil
	}
	switch trap := err.(type) {
	case *ferrors.EcallInterrupt:
		if h.Ecall == nil {
			return control.Break, &ferrors.SystemError{Message: "no ecall dispatcher installed"}
		}
		return h.Ecall.TickWithEcallInterrupt(m, trap.Info)
	case *ferrors.EbreakInterrupt:
		if h.Ebreak == nil {
			return control.Break, err
		}
		return h.Ebreak.TickWithEbreakInterrupt(m, trap.Info)
	default:
		return control.Break, err
	}
}
