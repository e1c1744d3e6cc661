// Package rv32i implements the RV32I base integer instruction set: bit-exact
// decode/encode for all six instruction shapes, a decoded sum-type view for
// disassembly, and an inline execute path that mutates a machine.Machine
// directly without constructing an intermediate value.
package rv32i

// Opcode is the low 7 bits of every RV32I instruction word.
type Opcode uint32

const (
	OpcodeLUI      Opcode = 0x37
	OpcodeAUIPC    Opcode = 0x17
	OpcodeJAL      Opcode = 0x6F
	OpcodeJALR     Opcode = 0x67
	OpcodeBranch   Opcode = 0x63
	OpcodeLoad     Opcode = 0x03
	OpcodeStore    Opcode = 0x23
	OpcodeOpImm    Opcode = 0x13
	OpcodeOp       Opcode = 0x33
	OpcodeMiscMem  Opcode = 0x0F
	OpcodeSystem   Opcode = 0x73
)

// funct3 values, grouped by the opcode family that uses them.
const (
	funct3BEQ  = 0b000
	funct3BNE  = 0b001
	funct3BLT  = 0b100
	funct3BGE  = 0b101
	funct3BLTU = 0b110
	funct3BGEU = 0b111

	funct3LB  = 0b000
	funct3LH  = 0b001
	funct3LW  = 0b010
	funct3LBU = 0b100
	funct3LHU = 0b101

	funct3SB = 0b000
	funct3SH = 0b001
	funct3SW = 0b010

	funct3ADDI  = 0b000
	funct3SLLI  = 0b001
	funct3SLTI  = 0b010
	funct3SLTIU = 0b011
	funct3XORI  = 0b100
	funct3SRxI  = 0b101 // SRLI or SRAI, disambiguated by funct7
	funct3ORI   = 0b110
	funct3ANDI  = 0b111

	funct3ADDSUB = 0b000
	funct3SLL    = 0b001
	funct3SLT    = 0b010
	funct3SLTU   = 0b011
	funct3XOR    = 0b100
	funct3SRx    = 0b101 // SRL or SRA, disambiguated by funct7
	funct3OR     = 0b110
	funct3AND    = 0b111

	funct3ECALLBREAK = 0b000
)

const (
	funct7Base = 0b0000000
	funct7Alt  = 0b0100000 // SUB, SRA, SRAI
)

const (
	immECALL  = 0x000
	immEBREAK = 0x001
)
