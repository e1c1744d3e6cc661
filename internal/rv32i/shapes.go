package rv32i

// The six RV32I instruction shapes. Each type holds every field the wire
// encoding carries, including Opcode/Funct3/Funct7 where applicable, so
// that FromWord(ToWord(v)) == v holds for every legal field tuple without
// needing a separate struct type per instruction: members of a shape differ
// only in which Opcode/Funct3/Funct7 combination they carry, and that
// combination is itself a field here.

// UType: opcode[6:0], rd[11:7], imm[31:12].
type UType struct {
	Opcode Opcode
	Rd     uint8
	// Imm holds the immediate already shifted into bits 31..12, so
	// LUI/AUIPC's rd assignment is a plain "rd <- imm" with no further
	// shift.
	Imm uint32
}

func UTypeFromWord(word uint32) UType {
	return UType{
		Opcode: Opcode(word & 0x7F),
		Rd:     uint8((word >> 7) & 0x1F),
		Imm:    word & 0xFFFFF000,
	}
}

func (u UType) ToWord() uint32 {
	return (u.Imm & 0xFFFFF000) | uint32(u.Rd&0x1F)<<7 | uint32(u.Opcode&0x7F)
}

// JType: opcode[6:0], rd[11:7], imm (21-bit sign-extended, lsb=0).
type JType struct {
	Opcode Opcode
	Rd     uint8
	Imm    int32
}

func JTypeFromWord(word uint32) JType {
	bit20 := (word >> 31) & 1
	bits10_1 := (word >> 21) & 0x3FF
	bit11 := (word >> 20) & 1
	bits19_12 := (word >> 12) & 0xFF
	imm21 := (bit20 << 20) | (bits19_12 << 12) | (bit11 << 11) | (bits10_1 << 1)
	imm := int32(imm21<<11) >> 11
	return JType{
		Opcode: Opcode(word & 0x7F),
		Rd:     uint8((word >> 7) & 0x1F),
		Imm:    imm,
	}
}

func (j JType) ToWord() uint32 {
	imm21 := uint32(j.Imm) & 0x1FFFFF
	bit20 := (imm21 >> 20) & 1
	bits10_1 := (imm21 >> 1) & 0x3FF
	bit11 := (imm21 >> 11) & 1
	bits19_12 := (imm21 >> 12) & 0xFF
	return bit20<<31 | bits10_1<<21 | bit11<<20 | bits19_12<<12 | uint32(j.Rd&0x1F)<<7 | uint32(j.Opcode&0x7F)
}

// IType: opcode[6:0], rd[11:7], funct3[14:12], rs1[19:15], imm (12-bit
// sign-extended, [31:20]).
type IType struct {
	Opcode Opcode
	Rd     uint8
	Funct3 uint8
	Rs1    uint8
	Imm    int32
}

func ITypeFromWord(word uint32) IType {
	return IType{
		Opcode: Opcode(word & 0x7F),
		Rd:     uint8((word >> 7) & 0x1F),
		Funct3: uint8((word >> 12) & 0x7),
		Rs1:    uint8((word >> 15) & 0x1F),
		Imm:    int32(word) >> 20,
	}
}

func (i IType) ToWord() uint32 {
	imm12 := uint32(i.Imm) & 0xFFF
	return imm12<<20 | uint32(i.Rs1&0x1F)<<15 | uint32(i.Funct3&0x7)<<12 | uint32(i.Rd&0x1F)<<7 | uint32(i.Opcode&0x7F)
}

// SType: opcode[6:0], funct3[14:12], rs1[19:15], rs2[24:20], imm (12-bit
// split, sign-extended).
type SType struct {
	Opcode Opcode
	Funct3 uint8
	Rs1    uint8
	Rs2    uint8
	Imm    int32
}

func STypeFromWord(word uint32) SType {
	imm11_5 := (word >> 25) & 0x7F
	imm4_0 := (word >> 7) & 0x1F
	imm12 := (imm11_5 << 5) | imm4_0
	imm := int32(imm12<<20) >> 20
	return SType{
		Opcode: Opcode(word & 0x7F),
		Funct3: uint8((word >> 12) & 0x7),
		Rs1:    uint8((word >> 15) & 0x1F),
		Rs2:    uint8((word >> 20) & 0x1F),
		Imm:    imm,
	}
}

func (s SType) ToWord() uint32 {
	imm12 := uint32(s.Imm) & 0xFFF
	imm11_5 := imm12 >> 5
	imm4_0 := imm12 & 0x1F
	return imm11_5<<25 | uint32(s.Rs2&0x1F)<<20 | uint32(s.Rs1&0x1F)<<15 | uint32(s.Funct3&0x7)<<12 | imm4_0<<7 | uint32(s.Opcode&0x7F)
}

// BType: opcode[6:0], funct3[14:12], rs1[19:15], rs2[24:20], imm (13-bit
// branch offset, sign-extended, lsb=0).
type BType struct {
	Opcode Opcode
	Funct3 uint8
	Rs1    uint8
	Rs2    uint8
	Imm    int32
}

func BTypeFromWord(word uint32) BType {
	bit12 := (word >> 31) & 1
	bit11 := (word >> 7) & 1
	bits10_5 := (word >> 25) & 0x3F
	bits4_1 := (word >> 8) & 0xF
	imm13 := (bit12 << 12) | (bit11 << 11) | (bits10_5 << 5) | (bits4_1 << 1)
	imm := int32(imm13<<19) >> 19
	return BType{
		Opcode: Opcode(word & 0x7F),
		Funct3: uint8((word >> 12) & 0x7),
		Rs1:    uint8((word >> 15) & 0x1F),
		Rs2:    uint8((word >> 20) & 0x1F),
		Imm:    imm,
	}
}

func (b BType) ToWord() uint32 {
	imm13 := uint32(b.Imm) & 0x1FFF
	bit12 := (imm13 >> 12) & 1
	bit11 := (imm13 >> 11) & 1
	bits10_5 := (imm13 >> 5) & 0x3F
	bits4_1 := (imm13 >> 1) & 0xF
	return bit12<<31 | bits10_5<<25 | uint32(b.Rs2&0x1F)<<20 | uint32(b.Rs1&0x1F)<<15 | uint32(b.Funct3&0x7)<<12 | bits4_1<<8 | bit11<<7 | uint32(b.Opcode&0x7F)
}

// RType: opcode[6:0], rd[11:7], funct3[14:12], rs1[19:15], rs2[24:20],
// funct7[31:25].
type RType struct {
	Opcode Opcode
	Rd     uint8
	Funct3 uint8
	Rs1    uint8
	Rs2    uint8
	Funct7 uint8
}

func RTypeFromWord(word uint32) RType {
	return RType{
		Opcode: Opcode(word & 0x7F),
		Rd:     uint8((word >> 7) & 0x1F),
		Funct3: uint8((word >> 12) & 0x7),
		Rs1:    uint8((word >> 15) & 0x1F),
		Rs2:    uint8((word >> 20) & 0x1F),
		Funct7: uint8((word >> 25) & 0x7F),
	}
}

func (r RType) ToWord() uint32 {
	return uint32(r.Funct7&0x7F)<<25 | uint32(r.Rs2&0x1F)<<20 | uint32(r.Rs1&0x1F)<<15 | uint32(r.Funct3&0x7)<<12 | uint32(r.Rd&0x1F)<<7 | uint32(r.Opcode&0x7F)
}
