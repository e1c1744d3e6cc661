package machine

import "testing"

func TestX0AlwaysReadsZero(t *testing.T) {
	r := NewRegisters()
	r.Set(0, 123)
	assert(t, r.Get(0) == 0, "x0 must read as 0 even after Set(0, ...)")
}

func TestPCAdvancement(t *testing.T) {
	r := NewRegisters()
	r.IncrementPC()
	assert(t, r.PC() == 4, "want pc=4 got %d", r.PC())
	r.IncrementPCBy(-4)
	assert(t, r.PC() == 0, "want pc=0 got %d", r.PC())
}

func TestCsrsTrapAndCommit(t *testing.T) {
	m := New(64)
	m.Registers().Set(5, 42)
	m.TrapRegisters()
	m.Csrs().Registers().Set(5, 99)
	assert(t, m.Registers().Get(5) == 42, "live register must be untouched before commit")
	m.CommitCsrs()
	assert(t, m.Registers().Get(5) == 99, "commit must promote the shadow write")
}
