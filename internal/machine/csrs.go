package machine

// Csrs is a value-typed snapshot of the live register file plus two scalar
// trap fields (the faulting PC and the trap cause). It stands in for RISC-V's
// control/status registers in this single-hart design: a trap handler reads
// its arguments from the shadow, mutates the shadow, and then explicitly
// commits the shadow back into the live registers. These are not CSRs in
// the privileged-architecture sense; there are no privilege levels here,
// only the trap-staging role.
//
// hartIndex is always 0 in this single-hart implementation; the field is
// kept so the signer-store wire format stays stable if multi-hart support is
// ever added.
type Csrs struct {
	epc       uint32
	cause     uint32
	registers Registers
	hartIndex uint32
}

// NewCsrs returns a zeroed CSRS shadow.
func NewCsrs() *Csrs {
	return &Csrs{}
}

func (c *Csrs) EPC() uint32       { return c.epc }
func (c *Csrs) Cause() uint32     { return c.cause }
func (c *Csrs) HartIndex() uint32 { return c.hartIndex }

func (c *Csrs) SetEPC(value uint32)   { c.epc = value }
func (c *Csrs) SetCause(value uint32) { c.cause = value }

// Registers returns the shadow register file.
func (c *Csrs) Registers() *Registers {
	return &c.registers
}

// SetRegisters replaces the shadow register file wholesale.
func (c *Csrs) SetRegisters(r Registers) {
	c.registers = r
}
