package machine

// Machine is the memory layout against which every system (plugin) in the
// composer operates: a flat memory image, the live register file, and the
// CSRS shadow used to stage trap side effects.
type Machine struct {
	memory    *Memory
	registers *Registers
	csrs      *Csrs
}

// New creates a machine with a memory image of the given size, zeroed
// registers, and a zeroed CSRS shadow.
func New(memorySize uint32) *Machine {
	return &Machine{
		memory:    NewMemory(memorySize),
		registers: NewRegisters(),
		csrs:      NewCsrs(),
	}
}

func (m *Machine) Memory() *Memory       { return m.memory }
func (m *Machine) Registers() *Registers { return m.registers }
func (m *Machine) Csrs() *Csrs           { return m.csrs }

// TrapRegisters snapshots the live register file into the CSRS shadow. It
// must be called before a dispatcher reads trap arguments out of the shadow.
func (m *Machine) TrapRegisters() {
	m.csrs.SetRegisters(m.registers.Snapshot())
}

// CommitCsrs promotes the CSRS shadow's register file back into the live
// registers. Only after this call are a dispatcher's writes to the shadow
// observable to the rest of the interpreter.
func (m *Machine) CommitCsrs() {
	*m.registers = m.csrs.registers
}
