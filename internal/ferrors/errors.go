// Package ferrors defines the small error taxonomy shared by every layer of
// Fuste: memory, instruction decoding/execution, the step composer, and the
// channel/signer-store service. Each layer wraps the layer below it with
// github.com/pkg/errors rather than inventing a new unrelated error, so a
// single top-level "%+v" carries the full chain back to its root cause.
package ferrors

import "fmt"

// MemoryError reports an out-of-bounds memory access.
type MemoryError struct {
	Addr uint32
}

func (e *MemoryError) Error() string {
	return fmt.Sprintf("address out of bounds: 0x%08x", e.Addr)
}

// InvalidInstruction reports a word that does not decode to any known RV32I
// instruction.
type InvalidInstruction struct {
	Word    uint32
	Address uint32
}

func (e *InvalidInstruction) Error() string {
	return fmt.Sprintf("invalid instruction 0x%08x at address 0x%08x", e.Word, e.Address)
}

// TrapInfo carries the address and raw word of a synchronous trap.
type TrapInfo struct {
	Address uint32
	Word    uint32
}

// EcallInterrupt is raised by ECALL. It is not fatal: the interrupt handler
// routes it to the ecall dispatcher.
type EcallInterrupt struct {
	Info TrapInfo
}

func (e *EcallInterrupt) Error() string {
	return fmt.Sprintf("ecall interrupt at 0x%08x", e.Info.Address)
}

// EbreakInterrupt is raised by EBREAK. By default it is fatal to the run;
// a custom ebreak dispatcher may remap it to a clean Break.
type EbreakInterrupt struct {
	Info TrapInfo
}

func (e *EbreakInterrupt) Error() string {
	return fmt.Sprintf("ebreak interrupt at 0x%08x", e.Info.Address)
}

// SystemError reports a catastrophic failure inside a host-side
// sub-dispatcher, e.g. an ecall number with no registered handler.
type SystemError struct {
	Message string
}

func (e *SystemError) Error() string {
	return "system error: " + e.Message
}
