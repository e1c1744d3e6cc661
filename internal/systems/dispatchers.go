package systems

import (
	"io"

	"github.com/pkg/errors"

	"github.com/bassosimone/fuste/internal/channel"
	"github.com/bassosimone/fuste/internal/control"
	"github.com/bassosimone/fuste/internal/machine"
)

func readMemory(m *machine.Machine, addr, length uint32) ([]byte, error) {
	return m.Memory().ReadBytes(addr, length)
}

func writeMemory(m *machine.Machine, addr uint32, data []byte) error {
	return m.Memory().WriteBytes(addr, data)
}

// StdExitDispatcher services the Exit ecall: it records the guest-supplied
// status from a0 and stops the run.
type StdExitDispatcher struct {
	Status *ExitStatus
}

// Dispatch implements ExitDispatcher.
func (d *StdExitDispatcher) Dispatch(m *machine.Machine) (control.ControlFlow, error) {
	regs := m.Csrs().Registers()
	if d.Status != nil {
		*d.Status = ExitStatus(regs.Get(RegA0))
	}
	return control.Break, nil
}

// StdWriteDispatcher services the Write ecall: a0=fd (1=stdout), a1=buffer
// address, a2=length, a3=set to 0 on success.
type StdWriteDispatcher struct {
	Stdout io.Writer
}

// Dispatch implements WriteDispatcher.
func (d *StdWriteDispatcher) Dispatch(m *machine.Machine) error {
	regs := m.Csrs().Registers()
	fd := regs.Get(RegA0)
	addr := regs.Get(RegA1)
	length := regs.Get(RegA2)

	data, err := readMemory(m, addr, length)
	if err != nil {
		return errors.Wrap(err, "write ecall")
	}
	if fd == 1 && d.Stdout != nil {
		if _, err := d.Stdout.Write(data); err != nil {
			return errors.Wrap(err, "write ecall")
		}
	}
	regs.Set(RegA3, 0)
	regs.IncrementPC()
	m.CommitCsrs()
	return nil
}

// ChannelDispatcher wraps a channel.Registry for the OpenChannel/
// CheckChannel ecalls. Register it twice on EcallDispatcher (once as
// OpenChannel calling registry.Open, once as CheckChannel calling
// registry.Check) via the Op field.
type ChannelDispatcher struct {
	Registry *channel.Registry
	Op       func(r *channel.Registry, id channel.SystemID, readBuf, writeBuf []byte) (channel.Status, error)
}

// NewOpenChannelDispatcher builds the OpenChannel sub-dispatcher.
func NewOpenChannelDispatcher(r *channel.Registry) *ChannelDispatcher {
	return &ChannelDispatcher{Registry: r, Op: (*channel.Registry).Open}
}

// NewCheckChannelDispatcher builds the CheckChannel sub-dispatcher.
func NewCheckChannelDispatcher(r *channel.Registry) *ChannelDispatcher {
	return &ChannelDispatcher{Registry: r, Op: (*channel.Registry).Check}
}

// Dispatch implements ChannelOpDispatcher. Guest ABI: a0=system id,
// a1=buffer address, a2=buffer length, a3=the -1 sentinel going in. The
// same buffer carries the request in and the response out. Write-back:
// a3=status code, a4=number of response bytes, a5=system status. A guest
// that finds the sentinel still in a3 afterward knows the host ignored the
// call entirely.
func (d *ChannelDispatcher) Dispatch(m *machine.Machine) error {
	regs := m.Csrs().Registers()
	id := channel.SystemID(regs.Get(RegA0))
	bufAddr := regs.Get(RegA1)
	bufLen := regs.Get(RegA2)

	readBuf, err := readMemory(m, bufAddr, bufLen)
	if err != nil {
		return errors.Wrap(err, "channel ecall")
	}
	writeBuf := make([]byte, bufLen)

	status, err := d.Op(d.Registry, id, readBuf, writeBuf)
	if err != nil {
		status = channel.Status{Code: channel.StatusSystemError}
	}
	n := status.Size
	if n > bufLen {
		n = bufLen
	}
	if n > 0 {
		if err := writeMemory(m, bufAddr, writeBuf[:n]); err != nil {
			return errors.Wrap(err, "channel ecall")
		}
	}

	regs.Set(RegA3, uint32(status.Code.ToI32()))
	regs.Set(RegA4, status.Size)
	regs.Set(RegA5, uint32(status.SystemStatus))
	regs.IncrementPC()
	m.CommitCsrs()
	return nil
}
