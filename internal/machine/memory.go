package machine

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/bassosimone/fuste/internal/ferrors"
)

// Memory is a flat, bounds-checked byte array. The size is fixed at
// construction and never changes afterward.
type Memory struct {
	bytes []byte
}

// NewMemory allocates a zero-filled memory image of the given size in bytes.
func NewMemory(size uint32) *Memory {
	return &Memory{bytes: make([]byte, size)}
}

// Size returns the memory's fixed capacity in bytes.
func (m *Memory) Size() uint32 {
	return uint32(len(m.bytes))
}

func (m *Memory) boundsCheck(addr uint32, width uint32) error {
	if uint64(addr)+uint64(width) > uint64(len(m.bytes)) {
		return &ferrors.MemoryError{Addr: addr}
	}
	return nil
}

// ReadByte reads a single byte at addr.
func (m *Memory) ReadByte(addr uint32) (byte, error) {
	if err := m.boundsCheck(addr, 1); err != nil {
		return 0, err
	}
	return m.bytes[addr], nil
}

// WriteByte writes a single byte at addr.
func (m *Memory) WriteByte(addr uint32, value byte) error {
	if err := m.boundsCheck(addr, 1); err != nil {
		return err
	}
	m.bytes[addr] = value
	return nil
}

// ReadBytes returns a copy of length bytes starting at addr.
func (m *Memory) ReadBytes(addr uint32, length uint32) ([]byte, error) {
	if err := m.boundsCheck(addr, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, m.bytes[addr:addr+length])
	return out, nil
}

// WriteBytes writes data at addr. The bounds check runs before any byte is
// mutated, so a failure never leaves a partial write observable.
func (m *Memory) WriteBytes(addr uint32, data []byte) error {
	if err := m.boundsCheck(addr, uint32(len(data))); err != nil {
		return err
	}
	copy(m.bytes[addr:], data)
	return nil
}

// ReadHalfword reads a little-endian 16-bit value at addr.
func (m *Memory) ReadHalfword(addr uint32) (uint16, error) {
	if err := m.boundsCheck(addr, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(m.bytes[addr:]), nil
}

// WriteHalfword writes a little-endian 16-bit value at addr.
func (m *Memory) WriteHalfword(addr uint32, value uint16) error {
	if err := m.boundsCheck(addr, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(m.bytes[addr:], value)
	return nil
}

// ReadWord reads a little-endian 32-bit value at addr.
func (m *Memory) ReadWord(addr uint32) (uint32, error) {
	if err := m.boundsCheck(addr, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(m.bytes[addr:]), nil
}

// WriteWord writes a little-endian 32-bit value at addr.
func (m *Memory) WriteWord(addr uint32, value uint32) error {
	if err := m.boundsCheck(addr, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(m.bytes[addr:], value)
	return nil
}

// LoadSegment copies segment into memory starting at addr. The bounds check
// is performed up front so the load is atomic: either the whole segment
// lands or none of it does.
func (m *Memory) LoadSegment(addr uint32, segment []byte) error {
	if err := m.boundsCheck(addr, uint32(len(segment))); err != nil {
		return errors.Wrap(err, "load segment")
	}
	copy(m.bytes[addr:], segment)
	return nil
}
