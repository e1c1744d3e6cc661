package rv32i

import (
	"errors"
	"testing"

	"github.com/bassosimone/fuste/internal/control"
	"github.com/bassosimone/fuste/internal/ferrors"
	"github.com/bassosimone/fuste/internal/machine"
)

func TestComputerTickReportsInvalidInstruction(t *testing.T) {
	m := machine.New(64)
	assert(t, m.Memory().WriteWord(0, 0xFFFFFFFF) == nil, "seed failed")

	_, err := Rv32iComputer{}.Tick(m)
	var invalid *ferrors.InvalidInstruction
	assert(t, errors.As(err, &invalid), "expected InvalidInstruction, got %T (%v)", err, err)
	assert(t, invalid.Word == 0xFFFFFFFF, "want word=0xFFFFFFFF got %#x", invalid.Word)
	assert(t, invalid.Address == 0, "want address=0 got %#x", invalid.Address)
}

func TestComputerTickReportsFetchOutOfBounds(t *testing.T) {
	m := machine.New(16)
	m.Registers().SetPC(64)

	cf, err := Rv32iComputer{}.Tick(m)
	assert(t, cf == control.Break, "expected Break on a fetch failure")
	var memErr *ferrors.MemoryError
	assert(t, errors.As(err, &memErr), "expected MemoryError, got %T (%v)", err, err)
	assert(t, memErr.Addr == 64, "want addr=64 got %d", memErr.Addr)
}

func TestComputerTickContinuesOnNormalInstruction(t *testing.T) {
	m := machine.New(64)
	assert(t, m.Memory().WriteWord(0, addi(1, 0, 7)) == nil, "seed failed")

	cf, err := Rv32iComputer{}.Tick(m)
	assert(t, err == nil, "unexpected error: %s", err)
	assert(t, cf == control.Continue, "expected Continue")
	assert(t, m.Registers().Get(1) == 7, "want x1=7 got %d", m.Registers().Get(1))
	assert(t, m.Registers().PC() == 4, "want pc=4 got %d", m.Registers().PC())
}
