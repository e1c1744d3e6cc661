package channel

import (
	"encoding/binary"
	"errors"
)

// ErrBufferTooSmall is returned by TryWriteToBuffer when buf cannot hold the
// value being serialized.
type ErrBufferTooSmall struct {
	Needed, Available int
}

func (e *ErrBufferTooSmall) Error() string {
	return "serialized buffer too small"
}

// ErrCouldNotDeserialize is returned by TryFromBytesWithRemainingBuffer when
// buf does not hold enough bytes for the value being read.
type ErrCouldNotDeserialize struct {
	Needed, Available int
}

func (e *ErrCouldNotDeserialize) Error() string {
	return "could not deserialize: buffer too short"
}

// ErrCouldNotSerialize is returned by SerialRequest when the request type's
// own TryWriteToBuffer failed.
type ErrCouldNotSerialize struct {
	Cause error
}

func (e *ErrCouldNotSerialize) Error() string {
	return "could not serialize: " + e.Cause.Error()
}

func (e *ErrCouldNotSerialize) Unwrap() error { return e.Cause }

// ErrSerializedBufferMismatch is returned when a serializer reports having
// written more bytes than the buffer it was handed could hold.
type ErrSerializedBufferMismatch struct {
	Reported, Capacity int
}

func (e *ErrSerializedBufferMismatch) Error() string {
	return "serialized buffer mismatch"
}

// ErrSchemeMismatch is returned by typed channel clients when the host's
// advertised wire geometry does not match the one the caller compiled
// against.
type ErrSchemeMismatch struct {
	Want, Got [2]uint32
}

func (e *ErrSchemeMismatch) Error() string {
	return "channel scheme mismatch"
}

// ErrNotImplemented is returned by channel helpers when the host answered
// Ignored: the system id is recognized but this host does not service it.
type ErrNotImplemented struct {
	ID SystemID
}

func (e *ErrNotImplemented) Error() string {
	return "channel system not implemented by this host"
}

// Serializable is implemented by every type that participates in channel
// messages. All multi-byte integers are little-endian; fixed-width types
// write exactly N bytes; composites serialize field-by-field in declaration
// order, propagating the remaining-buffer slice.
type Serializable interface {
	TryWriteToBuffer(buf []byte) (int, error)
}

// WriteUint32 writes a little-endian uint32 and returns the unused tail of
// buf for the next field's write.
func WriteUint32(buf []byte, v uint32) ([]byte, error) {
	if len(buf) < 4 {
		return nil, &ErrBufferTooSmall{Needed: 4, Available: len(buf)}
	}
	binary.LittleEndian.PutUint32(buf, v)
	return buf[4:], nil
}

// ReadUint32 reads a little-endian uint32 and returns the value plus the
// remaining buffer.
func ReadUint32(buf []byte) (uint32, []byte, error) {
	if len(buf) < 4 {
		return 0, nil, &ErrCouldNotDeserialize{Needed: 4, Available: len(buf)}
	}
	return binary.LittleEndian.Uint32(buf), buf[4:], nil
}

// WriteFixedBytes writes exactly len(value) bytes of value into buf,
// zero-padding buf's slot up to width bytes if value is shorter, and returns
// the tail of buf after the width-byte slot.
func WriteFixedBytes(buf []byte, value []byte, width int) ([]byte, error) {
	if len(buf) < width {
		return nil, &ErrBufferTooSmall{Needed: width, Available: len(buf)}
	}
	if len(value) > width {
		return nil, &ErrBufferTooSmall{Needed: len(value), Available: width}
	}
	n := copy(buf, value)
	for i := n; i < width; i++ {
		buf[i] = 0
	}
	return buf[width:], nil
}

// ReadFixedBytes reads exactly width bytes from buf and returns a copy of
// them plus the remaining buffer.
func ReadFixedBytes(buf []byte, width int) ([]byte, []byte, error) {
	if len(buf) < width {
		return nil, nil, &ErrCouldNotDeserialize{Needed: width, Available: len(buf)}
	}
	out := make([]byte, width)
	copy(out, buf[:width])
	return out, buf[width:], nil
}

// Uint32 is the fixed-width wire form of a 32-bit value: exactly four
// little-endian bytes.
type Uint32 uint32

// TryWriteToBuffer implements Serializable.
func (v Uint32) TryWriteToBuffer(buf []byte) (int, error) {
	if _, err := WriteUint32(buf, uint32(v)); err != nil {
		return 0, err
	}
	return 4, nil
}

// TryUint32FromBytesWithRemainingBuffer reads a wire Uint32.
func TryUint32FromBytesWithRemainingBuffer(buf []byte) ([]byte, Uint32, error) {
	value, rest, err := ReadUint32(buf)
	if err != nil {
		return nil, 0, err
	}
	return rest, Uint32(value), nil
}

// SerialRequest serializes request into a scratch buffer of bufLen bytes,
// performs the blocking channel round-trip against r, and returns the
// response bytes the host wrote, for the caller's deserializer to consume.
func SerialRequest(r *Registry, id SystemID, request Serializable, bufLen int) ([]byte, error) {
	readBuf := make([]byte, bufLen)
	n, err := request.TryWriteToBuffer(readBuf)
	if err != nil {
		return nil, &ErrCouldNotSerialize{Cause: err}
	}
	if n > len(readBuf) {
		return nil, &ErrSerializedBufferMismatch{Reported: n, Capacity: len(readBuf)}
	}
	writeBuf := make([]byte, bufLen)
	status, err := BlockOnChannel(r, id, readBuf[:n], writeBuf)
	if err != nil {
		var cherr *ChannelError
		if errors.As(err, &cherr) && cherr.Code == StatusIgnored {
			return nil, &ErrNotImplemented{ID: id}
		}
		return nil, err
	}
	size := int(status.Size)
	if size > len(writeBuf) {
		size = len(writeBuf)
	}
	return writeBuf[:size], nil
}
