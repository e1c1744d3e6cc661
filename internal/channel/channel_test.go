package channel

import "testing"

// holdThenSucceed is a test handler that reports Holding on Open and on the
// first Check, then completes on the second Check, exercising
// BlockOnChannel's busy-poll loop.
type holdThenSucceed struct {
	checks int
}

func (h *holdThenSucceed) Open(readBuf, writeBuf []byte) (Status, error) {
	return Status{Code: StatusHolding}, nil
}

func (h *holdThenSucceed) Check(readBuf, writeBuf []byte) (Status, error) {
	h.checks++
	if h.checks < 2 {
		return Status{Code: StatusHolding}, nil
	}
	n := copy(writeBuf, []byte("ok"))
	return Status{Code: StatusSuccess, Size: uint32(n)}, nil
}

type alwaysSuccess struct{}

func (alwaysSuccess) Open(readBuf, writeBuf []byte) (Status, error) {
	n := copy(writeBuf, []byte("hi"))
	return Status{Code: StatusSuccess, Size: uint32(n)}, nil
}

func (alwaysSuccess) Check(readBuf, writeBuf []byte) (Status, error) {
	return Status{Code: StatusSuccess}, nil
}

func TestCheckOnUnopenedSystemIsInvalid(t *testing.T) {
	r := NewRegistry()
	r.Register(SystemIDStdout, alwaysSuccess{})
	status, err := r.Check(SystemIDStdout, nil, nil)
	assert(t, err == nil, "unexpected error: %s", err)
	assert(t, status.Code == StatusInvalidSystem, "want InvalidSystem got %d", status.Code)
}

func TestCheckOnUnrecognizedSystemIsInvalid(t *testing.T) {
	r := NewRegistry()
	status, err := r.Check(SystemIDStdout, nil, nil)
	assert(t, err == nil, "unexpected error: %s", err)
	assert(t, status.Code == StatusInvalidSystem, "want InvalidSystem got %d", status.Code)
}

func TestOpenThenCheckSucceeds(t *testing.T) {
	r := NewRegistry()
	r.Register(SystemIDStdout, alwaysSuccess{})
	_, err := r.Open(SystemIDStdout, nil, nil)
	assert(t, err == nil, "open failed: %s", err)
	status, err := r.Check(SystemIDStdout, nil, nil)
	assert(t, err == nil, "check failed: %s", err)
	assert(t, status.Code == StatusSuccess, "want Success got %d", status.Code)
}

func TestBlockOnChannelPolls(t *testing.T) {
	r := NewRegistry()
	r.Register(SystemIDStdout, &holdThenSucceed{})
	writeBuf := make([]byte, 2)
	status, err := BlockOnChannel(r, SystemIDStdout, nil, writeBuf)
	assert(t, err == nil, "unexpected error: %s", err)
	assert(t, status.Code == StatusSuccess, "want Success got %d", status.Code)
}

// yieldHoldStream scripts the streaming scenario: Holding on Open, then
// Yielded with [1,2,3], then Success with [4] on two successive Checks.
type yieldHoldStream struct {
	checks int
}

func (s *yieldHoldStream) Open(readBuf, writeBuf []byte) (Status, error) {
	return Status{Code: StatusHolding}, nil
}

func (s *yieldHoldStream) Check(readBuf, writeBuf []byte) (Status, error) {
	s.checks++
	switch s.checks {
	case 1:
		n := copy(writeBuf, []byte{1, 2, 3})
		return Status{Code: StatusYielded, Size: uint32(n)}, nil
	default:
		n := copy(writeBuf, []byte{4})
		return Status{Code: StatusSuccess, Size: uint32(n)}, nil
	}
}

func TestStreamRequestChunkSequence(t *testing.T) {
	r := NewRegistry()
	r.Register(SystemIDStdout, &yieldHoldStream{})
	writeBuf := make([]byte, 4)
	var chunks [][]byte
	err := BlockOnChannelStreamRequest(r, SystemIDStdout, nil, writeBuf, func(chunk []byte) {
		out := make([]byte, len(chunk))
		copy(out, chunk)
		chunks = append(chunks, out)
	})
	assert(t, err == nil, "unexpected error: %s", err)
	assert(t, len(chunks) == 2, "want exactly 2 chunks (Holding must not invoke the callback), got %d", len(chunks))
	assert(t, string(chunks[0]) == string([]byte{1, 2, 3}), "want first chunk [1 2 3] got %v", chunks[0])
	assert(t, string(chunks[1]) == string([]byte{4}), "want second chunk [4] got %v", chunks[1])
}

func TestBlockOnChannelStreamRequestInvokesCallback(t *testing.T) {
	r := NewRegistry()
	r.Register(SystemIDStdout, &holdThenSucceed{})
	writeBuf := make([]byte, 2)
	var chunks int
	err := BlockOnChannelStreamRequest(r, SystemIDStdout, nil, writeBuf, func(chunk []byte) {
		chunks++
	})
	assert(t, err == nil, "unexpected error: %s", err)
	assert(t, chunks >= 1, "expected at least one non-Holding callback invocation")
}
