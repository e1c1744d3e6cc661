package rv32i

import (
	"fmt"
	"testing"
)

func assert(t *testing.T, cond bool, format string, args ...any) {
	if !cond {
		t.Fatalf(fmt.Sprintf("%v %s", cond, format), args...)
	}
}

func TestUTypeRoundTrip(t *testing.T) {
	for _, imm := range []uint32{0, 0x1000, 0xFFFFF000, 0x80000000} {
		u := UType{Opcode: OpcodeLUI, Rd: 5, Imm: imm}
		got := UTypeFromWord(u.ToWord())
		assert(t, got == u, "UType round-trip mismatch: want %+v got %+v", u, got)
	}
}

func TestJTypeRoundTrip(t *testing.T) {
	for _, imm := range []int32{0, 4, -4, 1048574, -1048576} {
		j := JType{Opcode: OpcodeJAL, Rd: 1, Imm: imm}
		got := JTypeFromWord(j.ToWord())
		assert(t, got == j, "JType round-trip mismatch: want %+v got %+v", j, got)
	}
}

func TestITypeRoundTrip(t *testing.T) {
	for _, imm := range []int32{0, 1, -1, 2047, -2048} {
		i := IType{Opcode: OpcodeOpImm, Rd: 3, Funct3: funct3ADDI, Rs1: 4, Imm: imm}
		got := ITypeFromWord(i.ToWord())
		assert(t, got == i, "IType round-trip mismatch: want %+v got %+v", i, got)
	}
}

func TestSTypeRoundTrip(t *testing.T) {
	for _, imm := range []int32{0, 1, -1, 2047, -2048} {
		s := SType{Opcode: OpcodeStore, Funct3: funct3SW, Rs1: 4, Rs2: 5, Imm: imm}
		got := STypeFromWord(s.ToWord())
		assert(t, got == s, "SType round-trip mismatch: want %+v got %+v", s, got)
	}
}

func TestBTypeRoundTrip(t *testing.T) {
	for _, imm := range []int32{0, 4, -4, 4094, -4096} {
		b := BType{Opcode: OpcodeBranch, Funct3: funct3BEQ, Rs1: 4, Rs2: 5, Imm: imm}
		got := BTypeFromWord(b.ToWord())
		assert(t, got == b, "BType round-trip mismatch: want %+v got %+v", b, got)
	}
}

func TestRTypeRoundTrip(t *testing.T) {
	r := RType{Opcode: OpcodeOp, Rd: 1, Funct3: funct3ADDSUB, Rs1: 2, Rs2: 3, Funct7: funct7Base}
	got := RTypeFromWord(r.ToWord())
	assert(t, got == r, "RType round-trip mismatch: want %+v got %+v", r, got)
}
