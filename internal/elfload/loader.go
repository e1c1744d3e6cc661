// Package elfload loads a 32-bit RISC-V ELF executable's PT_LOAD segments
// into a machine.Memory image and locates its entry point.
package elfload

import (
	"debug/elf"
	"io"

	"github.com/pkg/errors"

	"github.com/bassosimone/fuste/internal/machine"
)

// ErrEntrypointNotFound is returned when the ELF file carries no symbol
// named "_start".
var ErrEntrypointNotFound = errors.New("elfload: _start symbol not found")

// Load reads an ELF executable from r, copies every PT_LOAD segment into
// mem at its physical address (zero-filling the gap between file size and
// memory size), and returns the guest entry point.
func Load(r io.ReaderAt, mem *machine.Memory) (uint32, error) {
	file, err := elf.NewFile(r)
	if err != nil {
		return 0, errors.Wrap(err, "elfload")
	}
	defer file.Close()

	if file.Class != elf.ELFCLASS32 || file.Machine != elf.EM_RISCV {
		return 0, errors.New("elfload: not a 32-bit RISC-V executable")
	}

	for _, prog := range file.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		if err := loadSegment(prog, mem); err != nil {
			return 0, errors.Wrap(err, "elfload")
		}
	}

	entry, err := resolveEntry(file)
	if err != nil {
		return 0, err
	}
	return entry, nil
}

func loadSegment(prog *elf.Prog, mem *machine.Memory) error {
	data := make([]byte, prog.Memsz)
	n, err := prog.ReadAt(data[:prog.Filesz], 0)
	if err != nil && err != io.EOF {
		return errors.Wrap(err, "read segment")
	}
	if uint64(n) != prog.Filesz {
		return errors.New("elfload: short segment read")
	}
	return mem.LoadSegment(uint32(prog.Paddr), data)
}

// resolveEntry returns the ELF header's e_entry. When a symbol table is
// present it must contain a "_start" symbol; when none is present, e_entry
// is used as long as it is non-zero.
func resolveEntry(file *elf.File) (uint32, error) {
	symbols, err := file.Symbols()
	if err != nil || len(symbols) == 0 {
		if file.Entry != 0 {
			return uint32(file.Entry), nil
		}
		return 0, ErrEntrypointNotFound
	}
	for _, sym := range symbols {
		if sym.Name == "_start" {
			return uint32(file.Entry), nil
		}
	}
	return 0, ErrEntrypointNotFound
}
