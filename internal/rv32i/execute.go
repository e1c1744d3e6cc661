package rv32i

import (
	"github.com/bassosimone/fuste/internal/ferrors"
	"github.com/bassosimone/fuste/internal/machine"
)

// Step decodes and executes word in place against m, without constructing an
// Instruction value: this is the hot path the step interpreter (computer.go)
// calls on every tick. Decode (instr.go) exists alongside it for disassembly
// and logging.
func Step(word uint32, address uint32, m *machine.Machine) error {
	opcode := Opcode(word & 0x7F)
	regs := m.Registers()
	mem := m.Memory()

	switch opcode {
	case OpcodeLUI:
		u := UTypeFromWord(word)
		regs.Set(u.Rd, u.Imm)
		regs.IncrementPC()
		return nil

	case OpcodeAUIPC:
		u := UTypeFromWord(word)
		regs.Set(u.Rd, regs.PC()+u.Imm)
		regs.IncrementPC()
		return nil

	case OpcodeJAL:
		j := JTypeFromWord(word)
		link := regs.PC() + 4
		regs.Set(j.Rd, link)
		regs.IncrementPCBy(j.Imm)
		return nil

	case OpcodeJALR:
		i := ITypeFromWord(word)
		if i.Funct3 != 0 {
			return &ferrors.InvalidInstruction{Word: word, Address: address}
		}
		link := regs.PC() + 4
		target := (regs.Get(i.Rs1) + uint32(i.Imm)) &^ 1
		regs.Set(i.Rd, link)
		regs.SetPC(target)
		return nil

	case OpcodeBranch:
		b := BTypeFromWord(word)
		taken, err := evalBranch(b.Funct3, regs.Get(b.Rs1), regs.Get(b.Rs2))
		if err != nil {
			return &ferrors.InvalidInstruction{Word: word, Address: address}
		}
		if taken {
			regs.IncrementPCBy(b.Imm)
		} else {
			regs.IncrementPC()
		}
		return nil

	case OpcodeLoad:
		i := ITypeFromWord(word)
		addr := regs.Get(i.Rs1) + uint32(i.Imm)
		value, err := loadValue(mem, i.Funct3, addr)
		if err != nil {
			if _, ok := err.(*ferrors.MemoryError); ok {
				return err
			}
			return &ferrors.InvalidInstruction{Word: word, Address: address}
		}
		regs.Set(i.Rd, value)
		regs.IncrementPC()
		return nil

	case OpcodeStore:
		s := STypeFromWord(word)
		addr := regs.Get(s.Rs1) + uint32(s.Imm)
		if err := storeValue(mem, s.Funct3, addr, regs.Get(s.Rs2)); err != nil {
			if _, ok := err.(*ferrors.MemoryError); ok {
				return err
			}
			return &ferrors.InvalidInstruction{Word: word, Address: address}
		}
		regs.IncrementPC()
		return nil

	case OpcodeOpImm:
		i := ITypeFromWord(word)
		result, err := evalOpImm(i.Funct3, regs.Get(i.Rs1), i.Imm)
		if err != nil {
			return &ferrors.InvalidInstruction{Word: word, Address: address}
		}
		regs.Set(i.Rd, result)
		regs.IncrementPC()
		return nil

	case OpcodeOp:
		r := RTypeFromWord(word)
		result, err := evalOp(r.Funct3, r.Funct7, regs.Get(r.Rs1), regs.Get(r.Rs2))
		if err != nil {
			return &ferrors.InvalidInstruction{Word: word, Address: address}
		}
		regs.Set(r.Rd, result)
		regs.IncrementPC()
		return nil

	case OpcodeMiscMem:
		regs.IncrementPC()
		return nil

	case OpcodeSystem:
		i := ITypeFromWord(word)
		switch uint32(i.Imm) & 0xFFF {
		case immECALL:
			return &ferrors.EcallInterrupt{Info: ferrors.TrapInfo{Address: address, Word: word}}
		case immEBREAK:
			return &ferrors.EbreakInterrupt{Info: ferrors.TrapInfo{Address: address, Word: word}}
		default:
			return &ferrors.InvalidInstruction{Word: word, Address: address}
		}

	default:
		return &ferrors.InvalidInstruction{Word: word, Address: address}
	}
}

func evalBranch(funct3 uint8, rs1, rs2 uint32) (bool, error) {
	switch funct3 {
	case funct3BEQ:
		return rs1 == rs2, nil
	case funct3BNE:
		return rs1 != rs2, nil
	case funct3BLT:
		return int32(rs1) < int32(rs2), nil
	case funct3BGE:
		return int32(rs1) >= int32(rs2), nil
	case funct3BLTU:
		return rs1 < rs2, nil
	case funct3BGEU:
		return rs1 >= rs2, nil
	default:
		return false, errUnrecognized
	}
}

func loadValue(mem *machine.Memory, funct3 uint8, addr uint32) (uint32, error) {
	switch funct3 {
	case funct3LB:
		b, err := mem.ReadByte(addr)
		if err != nil {
			return 0, err
		}
		return uint32(int32(int8(b))), nil
	case funct3LBU:
		b, err := mem.ReadByte(addr)
		if err != nil {
			return 0, err
		}
		return uint32(b), nil
	case funct3LH:
		h, err := mem.ReadHalfword(addr)
		if err != nil {
			return 0, err
		}
		return uint32(int32(int16(h))), nil
	case funct3LHU:
		h, err := mem.ReadHalfword(addr)
		if err != nil {
			return 0, err
		}
		return uint32(h), nil
	case funct3LW:
		return mem.ReadWord(addr)
	default:
		return 0, errUnrecognized
	}
}

func storeValue(mem *machine.Memory, funct3 uint8, addr uint32, value uint32) error {
	switch funct3 {
	case funct3SB:
		return mem.WriteByte(addr, byte(value))
	case funct3SH:
		return mem.WriteHalfword(addr, uint16(value))
	case funct3SW:
		return mem.WriteWord(addr, value)
	default:
		return errUnrecognized
	}
}

func evalOpImm(funct3 uint8, rs1 uint32, imm int32) (uint32, error) {
	switch funct3 {
	case funct3ADDI:
		return rs1 + uint32(imm), nil
	case funct3SLTI:
		if int32(rs1) < imm {
			return 1, nil
		}
		return 0, nil
	case funct3SLTIU:
		if rs1 < uint32(imm) {
			return 1, nil
		}
		return 0, nil
	case funct3XORI:
		return rs1 ^ uint32(imm), nil
	case funct3ORI:
		return rs1 | uint32(imm), nil
	case funct3ANDI:
		return rs1 & uint32(imm), nil
	case funct3SLLI:
		if (uint32(imm)>>5)&0x7F != funct7Base {
			return 0, errUnrecognized
		}
		return rs1 << (uint32(imm) & 0x1F), nil
	case funct3SRxI:
		shamt := uint32(imm) & 0x1F
		switch (uint32(imm) >> 5) & 0x7F {
		case funct7Base:
			return rs1 >> shamt, nil
		case funct7Alt:
			return uint32(int32(rs1) >> shamt), nil
		default:
			return 0, errUnrecognized
		}
	default:
		return 0, errUnrecognized
	}
}

func evalOp(funct3, funct7 uint8, rs1, rs2 uint32) (uint32, error) {
	switch funct3 {
	case funct3ADDSUB:
		switch funct7 {
		case funct7Base:
			return rs1 + rs2, nil
		case funct7Alt:
			return rs1 - rs2, nil
		default:
			return 0, errUnrecognized
		}
	case funct3SLL:
		if funct7 != funct7Base {
			return 0, errUnrecognized
		}
		return rs1 << (rs2 & 0x1F), nil
	case funct3SLT:
		if funct7 != funct7Base {
			return 0, errUnrecognized
		}
		if int32(rs1) < int32(rs2) {
			return 1, nil
		}
		return 0, nil
	case funct3SLTU:
		if funct7 != funct7Base {
			return 0, errUnrecognized
		}
		if rs1 < rs2 {
			return 1, nil
		}
		return 0, nil
	case funct3XOR:
		if funct7 != funct7Base {
			return 0, errUnrecognized
		}
		return rs1 ^ rs2, nil
	case funct3SRx:
		switch funct7 {
		case funct7Base:
			return rs1 >> (rs2 & 0x1F), nil
		case funct7Alt:
			return uint32(int32(rs1) >> (rs2 & 0x1F)), nil
		default:
			return 0, errUnrecognized
		}
	case funct3OR:
		if funct7 != funct7Base {
			return 0, errUnrecognized
		}
		return rs1 | rs2, nil
	case funct3AND:
		if funct7 != funct7Base {
			return 0, errUnrecognized
		}
		return rs1 & rs2, nil
	default:
		return 0, errUnrecognized
	}
}

var errUnrecognized = &unrecognizedError{}

type unrecognizedError struct{}

func (*unrecognizedError) Error() string { return "unrecognized funct3/funct7 combination" }
