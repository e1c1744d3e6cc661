package machine

// Registers holds the 32 general-purpose registers and the program counter.
//
// Writes to x0 land in the backing array, but Get(0) always returns 0, which
// is what RV32I requires every read of x0 to observe. Keeping the write
// observable lets low-level plugins inspect the raw array.
type Registers struct {
	gpr [32]uint32
	pc  uint32
}

// NewRegisters returns a zero-initialized register file.
func NewRegisters() *Registers {
	return &Registers{}
}

// Get returns the value of register i. Register 0 always reads as 0.
func (r *Registers) Get(i uint8) uint32 {
	if i == 0 {
		return 0
	}
	return r.gpr[i]
}

// Set writes value into register i, including i == 0.
func (r *Registers) Set(i uint8, value uint32) {
	r.gpr[i] = value
}

// PC returns the program counter.
func (r *Registers) PC() uint32 {
	return r.pc
}

// SetPC assigns the program counter.
func (r *Registers) SetPC(value uint32) {
	r.pc = value
}

// IncrementPC advances the program counter to the next instruction word.
func (r *Registers) IncrementPC() {
	r.pc += 4
}

// IncrementPCBy advances the program counter by a signed offset, as branches
// and jumps do.
func (r *Registers) IncrementPCBy(offset int32) {
	r.pc = uint32(int32(r.pc) + offset)
}

// Snapshot returns a value copy of the register file, used to seed the CSRS
// shadow on trap entry.
func (r *Registers) Snapshot() Registers {
	return *r
}
