package elfload

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/bassosimone/fuste/internal/machine"
)

// buildMinimalElf hand-assembles the smallest possible 32-bit RISC-V ELF
// executable: one PT_LOAD segment carrying payload at paddr, no symbol
// table, so Load must fall back to the header's e_entry.
func buildMinimalElf(paddr uint32, payload []byte) []byte {
	const ehsize = 52
	const phentsize = 32

	var buf bytes.Buffer
	buf.Write([]byte{0x7f, 'E', 'L', 'F', 1, 1, 1, 0})
	buf.Write(make([]byte, 8)) // e_ident padding

	le := binary.LittleEndian
	put16 := func(v uint16) { var b [2]byte; le.PutUint16(b[:], v); buf.Write(b[:]) }
	put32 := func(v uint32) { var b [4]byte; le.PutUint32(b[:], v); buf.Write(b[:]) }

	put16(2)   // e_type = ET_EXEC
	put16(243) // e_machine = EM_RISCV
	put32(1)   // e_version
	put32(paddr)
	put32(ehsize) // e_phoff
	put32(0)      // e_shoff
	put32(0)      // e_flags
	put16(ehsize)
	put16(phentsize)
	put16(1) // e_phnum
	put16(0) // e_shentsize
	put16(0) // e_shnum
	put16(0) // e_shstrndx

	offset := uint32(ehsize + phentsize)
	put32(1) // p_type = PT_LOAD
	put32(offset)
	put32(paddr)
	put32(paddr)
	put32(uint32(len(payload)))
	put32(uint32(len(payload)))
	put32(5) // p_flags = R|X
	put32(4) // p_align

	buf.Write(payload)
	return buf.Bytes()
}

func TestLoadFallsBackToEntryHeader(t *testing.T) {
	payload := []byte{0xef, 0xbe, 0xad, 0xde}
	data := buildMinimalElf(0x1000, payload)

	mem := machine.NewMemory(1 << 16)
	entry, err := Load(bytes.NewReader(data), mem)
	if err != nil {
		t.Fatalf("load failed: %s", err)
	}
	if entry != 0x1000 {
		t.Fatalf("want entry=0x1000 got %#x", entry)
	}

	word, err := mem.ReadWord(0x1000)
	if err != nil {
		t.Fatalf("read failed: %s", err)
	}
	if word != 0xdeadbeef {
		t.Fatalf("want 0xdeadbeef got %#x", word)
	}
}
