package signerstore

import "github.com/bassosimone/fuste/internal/channel"

// Op selects whether a SignerStore message overwrites or retrieves.
type Op uint8

const (
	OpStore Op = iota
	OpLoad
)

// Message is the wire shape of a SignerStore request: a signer index, a
// fixed-width type name slot, and, only for OpStore, a fixed-width value
// payload.
type Message struct {
	SignerIndex     *Index
	TypeNameBytes   []byte
	ValueBytes      []byte
	Op              Op
	TypeNameWidth   int
	ValueWidth      int
}

// TryWriteToBuffer serializes the message: signer index, then
// TypeNameWidth bytes of the (zero-padded) type name, then, only when
// Op == OpStore, ValueWidth bytes of payload.
func (m *Message) TryWriteToBuffer(buf []byte) (int, error) {
	if len(m.TypeNameBytes) > m.TypeNameWidth {
		return 0, &channel.ErrBufferTooSmall{Needed: len(m.TypeNameBytes), Available: m.TypeNameWidth}
	}
	start := buf
	n, err := m.SignerIndex.TryWriteToBuffer(buf)
	if err != nil {
		return 0, err
	}
	cursor := buf[n:]
	cursor, err = channel.WriteFixedBytes(cursor, m.TypeNameBytes, m.TypeNameWidth)
	if err != nil {
		return 0, err
	}
	if m.Op == OpStore {
		cursor, err = channel.WriteFixedBytes(cursor, m.ValueBytes, m.ValueWidth)
		if err != nil {
			return 0, err
		}
	}
	return len(start) - len(cursor), nil
}

// TryMessageFromBytesWithRemainingBuffer deserializes a Message previously
// written by TryWriteToBuffer. op must be supplied by the caller; the
// request frame carries it ahead of the message body.
func TryMessageFromBytesWithRemainingBuffer(buf []byte, capacity, addressLen, pubKeyLen, typeNameWidth, valueWidth int, op Op) ([]byte, *Message, error) {
	cursor, idx, err := TryIndexFromBytesWithRemainingBuffer(buf, capacity, addressLen, pubKeyLen)
	if err != nil {
		return nil, nil, err
	}
	var typeName []byte
	typeName, cursor, err = channel.ReadFixedBytes(cursor, typeNameWidth)
	if err != nil {
		return nil, nil, err
	}
	msg := &Message{
		SignerIndex:   idx,
		TypeNameBytes: typeName,
		Op:            op,
		TypeNameWidth: typeNameWidth,
		ValueWidth:    valueWidth,
	}
	if op == OpStore {
		var value []byte
		value, cursor, err = channel.ReadFixedBytes(cursor, valueWidth)
		if err != nil {
			return nil, nil, err
		}
		msg.ValueBytes = value
	}
	return cursor, msg, nil
}
