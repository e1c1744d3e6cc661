package systems

import (
	"github.com/bassosimone/fuste/internal/control"
	"github.com/bassosimone/fuste/internal/machine"
)

// TickHandler enforces a hard upper bound on the number of steps a run may
// take, independent of whatever Inner decides: a guest that never ECALL
// Exits still terminates.
type TickHandler struct {
	Inner    control.Hook
	MaxTicks int

	count int
}

// Tick implements control.Hook.
func (h *TickHandler) Tick(m *machine.Machine) (control.ControlFlow, error) {
	if h.MaxTicks > 0 && h.count >= h.MaxTicks {
		return control.Break, nil
	}
	h.count++
	cf, err := h.Inner.Tick(m)
	if h.MaxTicks > 0 && h.count >= h.MaxTicks {
		return control.Break, err
	}
	return cf, err
}
