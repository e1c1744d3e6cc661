package systems

import (
	"fmt"
	"io"
	"os"

	"github.com/bassosimone/fuste/internal/control"
	"github.com/bassosimone/fuste/internal/machine"
	"github.com/bassosimone/fuste/internal/ringlog"
	"github.com/bassosimone/fuste/internal/rv32i"
)

// LogFlags selects which trace lines LilBugSystem emits per step.
type LogFlags int

const (
	// LogNone disables all tracing; LilBugSystem only feeds the ring log.
	LogNone LogFlags = 0
	// LogRegisters traces x1..x31 before each step.
	LogRegisters LogFlags = 1 << 0
	// LogDecode traces the decoded instruction before each step.
	LogDecode LogFlags = 1 << 1
)

// LilBugSystem is the debug layer: before each step it decodes and records
// the instruction at PC into a ring log, optionally printing it live, and
// on termination dumps the retained trace.
type LilBugSystem struct {
	Inner    control.Hook
	LogFlags LogFlags
	Ring     *ringlog.Buffer

	// Out receives the live trace and the post-mortem dump; nil means
	// standard output. A rotating file writer goes here when the trace is
	// meant to outlive the run.
	Out io.Writer
}

func (s *LilBugSystem) out() io.Writer {
	if s.Out != nil {
		return s.Out
	}
	return os.Stdout
}

// Tick implements control.Hook.
func (s *LilBugSystem) Tick(m *machine.Machine) (control.ControlFlow, error) {
	pc := m.Registers().PC()
	word, memErr := m.Memory().ReadWord(pc)
	if memErr == nil {
		if instr, decodeErr := rv32i.Decode(word, pc); decodeErr == nil {
			line := fmt.Sprintf("%08x: %s", pc, instr.String())
			if s.Ring != nil {
				s.Ring.Append(line)
			}
			if s.LogFlags&LogDecode != 0 {
				fmt.Fprintln(s.out(), line)
			}
		}
	}
	if s.LogFlags&LogRegisters != 0 {
		s.printRegisters(m)
	}
	cf, err := s.Inner.Tick(m)
	if cf == control.Break && s.Ring != nil {
		for _, line := range s.Ring.Lines() {
			fmt.Fprintln(s.out(), line)
		}
	}
	return cf, err
}

func (s *LilBugSystem) printRegisters(m *machine.Machine) {
	w := s.out()
	for i := uint8(1); i < 32; i++ {
		fmt.Fprintf(w, "x%d=%08x ", i, m.Registers().Get(i))
	}
	fmt.Fprintln(w)
}
