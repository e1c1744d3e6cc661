package rv32i

import (
	"fmt"

	"github.com/bassosimone/fuste/internal/ferrors"
)

// Kind identifies one of the 40 RV32I base instructions (37 computational
// and control-transfer instructions plus FENCE, ECALL and EBREAK). It is the discriminant
// of the decoded sum-type Instruction value; Step (execute.go) never
// constructs one on its hot path.
type Kind int

const (
	KindLUI Kind = iota
	KindAUIPC
	KindJAL
	KindJALR
	KindBEQ
	KindBNE
	KindBLT
	KindBGE
	KindBLTU
	KindBGEU
	KindLB
	KindLH
	KindLW
	KindLBU
	KindLHU
	KindSB
	KindSH
	KindSW
	KindADDI
	KindSLTI
	KindSLTIU
	KindXORI
	KindORI
	KindANDI
	KindSLLI
	KindSRLI
	KindSRAI
	KindADD
	KindSUB
	KindSLL
	KindSLT
	KindSLTU
	KindXOR
	KindSRL
	KindSRA
	KindOR
	KindAND
	KindFENCE
	KindECALL
	KindEBREAK
)

var kindNames = map[Kind]string{
	KindLUI: "lui", KindAUIPC: "auipc", KindJAL: "jal", KindJALR: "jalr",
	KindBEQ: "beq", KindBNE: "bne", KindBLT: "blt", KindBGE: "bge", KindBLTU: "bltu", KindBGEU: "bgeu",
	KindLB: "lb", KindLH: "lh", KindLW: "lw", KindLBU: "lbu", KindLHU: "lhu",
	KindSB: "sb", KindSH: "sh", KindSW: "sw",
	KindADDI: "addi", KindSLTI: "slti", KindSLTIU: "sltiu", KindXORI: "xori", KindORI: "ori", KindANDI: "andi",
	KindSLLI: "slli", KindSRLI: "srli", KindSRAI: "srai",
	KindADD: "add", KindSUB: "sub", KindSLL: "sll", KindSLT: "slt", KindSLTU: "sltu",
	KindXOR: "xor", KindSRL: "srl", KindSRA: "sra", KindOR: "or", KindAND: "and",
	KindFENCE: "fence", KindECALL: "ecall", KindEBREAK: "ebreak",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Instruction is the decoded sum-type view of a word, used for disassembly
// and logging. Step (execute.go) performs the same opcode/funct3/funct7
// match inline against the machine instead of building one of these.
type Instruction struct {
	Kind Kind
	Rd   uint8
	Rs1  uint8
	Rs2  uint8
	Imm  int32
}

// String renders an instruction as a disassembly line: mnemonic followed by
// its operands.
func (ins Instruction) String() string {
	switch ins.Kind {
	case KindLUI, KindAUIPC:
		return fmt.Sprintf("%s x%d, 0x%x", ins.Kind, ins.Rd, uint32(ins.Imm))
	case KindJAL:
		return fmt.Sprintf("%s x%d, %d", ins.Kind, ins.Rd, ins.Imm)
	case KindJALR:
		return fmt.Sprintf("%s x%d, x%d, %d", ins.Kind, ins.Rd, ins.Rs1, ins.Imm)
	case KindBEQ, KindBNE, KindBLT, KindBGE, KindBLTU, KindBGEU:
		return fmt.Sprintf("%s x%d, x%d, %d", ins.Kind, ins.Rs1, ins.Rs2, ins.Imm)
	case KindLB, KindLH, KindLW, KindLBU, KindLHU:
		return fmt.Sprintf("%s x%d, %d(x%d)", ins.Kind, ins.Rd, ins.Imm, ins.Rs1)
	case KindSB, KindSH, KindSW:
		return fmt.Sprintf("%s x%d, %d(x%d)", ins.Kind, ins.Rs2, ins.Imm, ins.Rs1)
	case KindADD, KindSUB, KindSLL, KindSLT, KindSLTU, KindXOR, KindSRL, KindSRA, KindOR, KindAND:
		return fmt.Sprintf("%s x%d, x%d, x%d", ins.Kind, ins.Rd, ins.Rs1, ins.Rs2)
	case KindFENCE:
		return "fence"
	case KindECALL:
		return "ecall"
	case KindEBREAK:
		return "ebreak"
	default:
		return fmt.Sprintf("%s x%d, x%d, %d", ins.Kind, ins.Rd, ins.Rs1, ins.Imm)
	}
}

// Decode builds the decoded sum-type view of word. It is the debugging and
// disassembly entry point; Step does not call it.
func Decode(word uint32, address uint32) (Instruction, error) {
	opcode := Opcode(word & 0x7F)
	switch opcode {
	case OpcodeLUI:
		u := UTypeFromWord(word)
		return Instruction{Kind: KindLUI, Rd: u.Rd, Imm: int32(u.Imm)}, nil
	case OpcodeAUIPC:
		u := UTypeFromWord(word)
		return Instruction{Kind: KindAUIPC, Rd: u.Rd, Imm: int32(u.Imm)}, nil
	case OpcodeJAL:
		j := JTypeFromWord(word)
		return Instruction{Kind: KindJAL, Rd: j.Rd, Imm: j.Imm}, nil
	case OpcodeJALR:
		i := ITypeFromWord(word)
		if i.Funct3 != 0 {
			return Instruction{}, &ferrors.InvalidInstruction{Word: word, Address: address}
		}
		return Instruction{Kind: KindJALR, Rd: i.Rd, Rs1: i.Rs1, Imm: i.Imm}, nil
	case OpcodeBranch:
		b := BTypeFromWord(word)
		kind, ok := branchKind(b.Funct3)
		if !ok {
			return Instruction{}, &ferrors.InvalidInstruction{Word: word, Address: address}
		}
		return Instruction{Kind: kind, Rs1: b.Rs1, Rs2: b.Rs2, Imm: b.Imm}, nil
	case OpcodeLoad:
		i := ITypeFromWord(word)
		kind, ok := loadKind(i.Funct3)
		if !ok {
			return Instruction{}, &ferrors.InvalidInstruction{Word: word, Address: address}
		}
		return Instruction{Kind: kind, Rd: i.Rd, Rs1: i.Rs1, Imm: i.Imm}, nil
	case OpcodeStore:
		s := STypeFromWord(word)
		kind, ok := storeKind(s.Funct3)
		if !ok {
			return Instruction{}, &ferrors.InvalidInstruction{Word: word, Address: address}
		}
		return Instruction{Kind: kind, Rs1: s.Rs1, Rs2: s.Rs2, Imm: s.Imm}, nil
	case OpcodeOpImm:
		i := ITypeFromWord(word)
		kind, ok := opImmKind(i.Funct3, i.Imm)
		if !ok {
			return Instruction{}, &ferrors.InvalidInstruction{Word: word, Address: address}
		}
		imm := i.Imm
		if kind == KindSLLI || kind == KindSRLI || kind == KindSRAI {
			imm = int32(uint32(i.Imm) & 0x1F)
		}
		return Instruction{Kind: kind, Rd: i.Rd, Rs1: i.Rs1, Imm: imm}, nil
	case OpcodeOp:
		r := RTypeFromWord(word)
		kind, ok := opKind(r.Funct3, r.Funct7)
		if !ok {
			return Instruction{}, &ferrors.InvalidInstruction{Word: word, Address: address}
		}
		return Instruction{Kind: kind, Rd: r.Rd, Rs1: r.Rs1, Rs2: r.Rs2}, nil
	case OpcodeMiscMem:
		return Instruction{Kind: KindFENCE}, nil
	case OpcodeSystem:
		i := ITypeFromWord(word)
		switch uint32(i.Imm) & 0xFFF {
		case immECALL:
			return Instruction{Kind: KindECALL}, nil
		case immEBREAK:
			return Instruction{Kind: KindEBREAK}, nil
		default:
			return Instruction{}, &ferrors.InvalidInstruction{Word: word, Address: address}
		}
	default:
		return Instruction{}, &ferrors.InvalidInstruction{Word: word, Address: address}
	}
}

func branchKind(funct3 uint8) (Kind, bool) {
	switch funct3 {
	case funct3BEQ:
		return KindBEQ, true
	case funct3BNE:
		return KindBNE, true
	case funct3BLT:
		return KindBLT, true
	case funct3BGE:
		return KindBGE, true
	case funct3BLTU:
		return KindBLTU, true
	case funct3BGEU:
		return KindBGEU, true
	default:
		return 0, false
	}
}

func loadKind(funct3 uint8) (Kind, bool) {
	switch funct3 {
	case funct3LB:
		return KindLB, true
	case funct3LH:
		return KindLH, true
	case funct3LW:
		return KindLW, true
	case funct3LBU:
		return KindLBU, true
	case funct3LHU:
		return KindLHU, true
	default:
		return 0, false
	}
}

func storeKind(funct3 uint8) (Kind, bool) {
	switch funct3 {
	case funct3SB:
		return KindSB, true
	case funct3SH:
		return KindSH, true
	case funct3SW:
		return KindSW, true
	default:
		return 0, false
	}
}

func opImmKind(funct3 uint8, imm int32) (Kind, bool) {
	switch funct3 {
	case funct3ADDI:
		return KindADDI, true
	case funct3SLTI:
		return KindSLTI, true
	case funct3SLTIU:
		return KindSLTIU, true
	case funct3XORI:
		return KindXORI, true
	case funct3ORI:
		return KindORI, true
	case funct3ANDI:
		return KindANDI, true
	case funct3SLLI:
		if (uint32(imm)>>5)&0x7F != funct7Base {
			return 0, false
		}
		return KindSLLI, true
	case funct3SRxI:
		switch (uint32(imm) >> 5) & 0x7F {
		case funct7Base:
			return KindSRLI, true
		case funct7Alt:
			return KindSRAI, true
		default:
			return 0, false
		}
	default:
		return 0, false
	}
}

func opKind(funct3, funct7 uint8) (Kind, bool) {
	switch funct3 {
	case funct3ADDSUB:
		switch funct7 {
		case funct7Base:
			return KindADD, true
		case funct7Alt:
			return KindSUB, true
		default:
			return 0, false
		}
	case funct3SLL:
		if funct7 != funct7Base {
			return 0, false
		}
		return KindSLL, true
	case funct3SLT:
		if funct7 != funct7Base {
			return 0, false
		}
		return KindSLT, true
	case funct3SLTU:
		if funct7 != funct7Base {
			return 0, false
		}
		return KindSLTU, true
	case funct3XOR:
		if funct7 != funct7Base {
			return 0, false
		}
		return KindXOR, true
	case funct3SRx:
		switch funct7 {
		case funct7Base:
			return KindSRL, true
		case funct7Alt:
			return KindSRA, true
		default:
			return 0, false
		}
	case funct3OR:
		if funct7 != funct7Base {
			return 0, false
		}
		return KindOR, true
	case funct3AND:
		if funct7 != funct7Base {
			return 0, false
		}
		return KindAND, true
	default:
		return 0, false
	}
}
