package channel

import "testing"

func TestUint32RoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	rest, err := WriteUint32(buf, 0x01020304)
	assert(t, err == nil, "write failed: %s", err)
	assert(t, len(rest) == 0, "expected no remaining buffer")
	got, rest, err := ReadUint32(buf)
	assert(t, err == nil, "read failed: %s", err)
	assert(t, got == 0x01020304, "want 0x01020304 got %#x", got)
	assert(t, len(rest) == 0, "expected no remaining buffer")
}

func TestFixedBytesZeroPads(t *testing.T) {
	buf := make([]byte, 8)
	rest, err := WriteFixedBytes(buf, []byte{1, 2, 3}, 8)
	assert(t, err == nil, "write failed: %s", err)
	assert(t, len(rest) == 0, "expected no remaining buffer")
	assert(t, buf[3] == 0 && buf[7] == 0, "expected zero padding past the value")

	value, rest, err := ReadFixedBytes(buf, 8)
	assert(t, err == nil, "read failed: %s", err)
	assert(t, len(rest) == 0, "expected no remaining buffer")
	assert(t, value[0] == 1 && value[2] == 3 && value[3] == 0, "want [1 2 3 0 ...] got %v", value)
}

func TestFixedBytesRejectsOversizedValue(t *testing.T) {
	buf := make([]byte, 4)
	_, err := WriteFixedBytes(buf, []byte{1, 2, 3, 4, 5}, 4)
	assert(t, err != nil, "expected an oversized value to be rejected")
}

func TestWireUint32RoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	n, err := Uint32(0xCAFEBABE).TryWriteToBuffer(buf)
	assert(t, err == nil && n == 4, "serialize failed: n=%d err=%s", n, err)
	rest, got, err := TryUint32FromBytesWithRemainingBuffer(buf)
	assert(t, err == nil, "parse failed: %s", err)
	assert(t, len(rest) == 0, "expected no remaining buffer")
	assert(t, got == 0xCAFEBABE, "want 0xCAFEBABE got %#x", uint32(got))
}

// ignoringHandler answers every Open with Ignored, the signal for a
// recognized-but-unimplemented system.
type ignoringHandler struct{}

func (ignoringHandler) Open(readBuf, writeBuf []byte) (Status, error) {
	return Status{Code: StatusIgnored}, nil
}

func (ignoringHandler) Check(readBuf, writeBuf []byte) (Status, error) {
	return Status{Code: StatusIgnored}, nil
}

func TestSerialRequestMapsIgnoredToNotImplemented(t *testing.T) {
	r := NewRegistry()
	r.Register(SystemIDStdout, ignoringHandler{})
	_, err := SerialRequest(r, SystemIDStdout, Uint32(1), 8)
	_, ok := err.(*ErrNotImplemented)
	assert(t, ok, "expected ErrNotImplemented, got %T (%v)", err, err)
}

func TestSerialRequestRoundTrip(t *testing.T) {
	r := NewRegistry()
	r.Register(SystemIDStdout, alwaysSuccess{})
	data, err := SerialRequest(r, SystemIDStdout, Uint32(1), 8)
	assert(t, err == nil, "request failed: %s", err)
	assert(t, string(data) == "hi", "want %q got %q", "hi", data)
}
