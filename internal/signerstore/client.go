package signerstore

import (
	"reflect"

	"github.com/bassosimone/fuste/internal/channel"
)

// Client is the caller-facing convenience side of the signer store: it
// frames wire Messages, runs them through a channel.Registry round-trip,
// and hands the response bytes back to typed deserializers.
type Client struct {
	Registry *channel.Registry
	SystemID channel.SystemID

	Capacity      int
	AddressLen    int
	PubKeyLen     int
	TypeNameWidth int
	ValueWidth    int
}

// NewClient builds a Client speaking the given wire geometry over r; it must
// match the geometry the Service registered under id was built with.
func NewClient(r *channel.Registry, id channel.SystemID, capacity, addressLen, pubKeyLen, typeNameWidth, valueWidth int) *Client {
	return &Client{
		Registry:      r,
		SystemID:      id,
		Capacity:      capacity,
		AddressLen:    addressLen,
		PubKeyLen:     pubKeyLen,
		TypeNameWidth: typeNameWidth,
		ValueWidth:    valueWidth,
	}
}

func (c *Client) bufLen() int {
	return 1 + c.Capacity*(c.AddressLen+c.PubKeyLen+4) + c.TypeNameWidth + c.ValueWidth
}

// framedMessage prefixes the wire Message with its one-byte op selector, the
// framing Service.handle expects at the head of every request buffer.
type framedMessage struct {
	msg *Message
}

// TryWriteToBuffer implements channel.Serializable.
func (f framedMessage) TryWriteToBuffer(buf []byte) (int, error) {
	if len(buf) < 1 {
		return 0, &channel.ErrBufferTooSmall{Needed: 1, Available: 0}
	}
	buf[0] = byte(f.msg.Op)
	n, err := f.msg.TryWriteToBuffer(buf[1:])
	if err != nil {
		return 0, err
	}
	return n + 1, nil
}

func (c *Client) request(idx *Index, typeName string, op Op, value []byte) ([]byte, error) {
	msg := &Message{
		SignerIndex:   idx,
		TypeNameBytes: []byte(typeName),
		ValueBytes:    value,
		Op:            op,
		TypeNameWidth: c.TypeNameWidth,
		ValueWidth:    c.ValueWidth,
	}
	return channel.SerialRequest(c.Registry, c.SystemID, framedMessage{msg}, c.bufLen())
}

// StoreBytes issues a STORE of value (zero-padded to the value width) under
// (idx, typeName).
func (c *Client) StoreBytes(idx *Index, typeName string, value []byte) error {
	_, err := c.request(idx, typeName, OpStore, value)
	return err
}

// LoadBytes issues a LOAD of the entry under (idx, typeName) and returns the
// value bytes the host wrote.
func (c *Client) LoadBytes(idx *Index, typeName string) ([]byte, error) {
	return c.request(idx, typeName, OpLoad, nil)
}

// TypeNameOf derives the conventional type name for T. Go has no compile-time
// type_name intrinsic; callers that need a specific wire name (say "u32" for
// cross-language compatibility) pass it explicitly instead.
func TypeNameOf[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

// Store serializes value into the store's fixed-width value slot and issues
// the STORE round-trip under typeName.
func Store[T channel.Serializable](c *Client, idx *Index, typeName string, value T) error {
	buf := make([]byte, c.ValueWidth)
	if _, err := value.TryWriteToBuffer(buf); err != nil {
		return &channel.ErrCouldNotSerialize{Cause: err}
	}
	return c.StoreBytes(idx, typeName, buf)
}

// Load issues the LOAD round-trip under typeName and deserializes the
// returned bytes through parse, the caller-supplied
// try-from-bytes-with-remaining-buffer function for T.
func Load[T any](c *Client, idx *Index, typeName string, parse func([]byte) ([]byte, T, error)) (T, error) {
	var zero T
	data, err := c.LoadBytes(idx, typeName)
	if err != nil {
		return zero, err
	}
	_, value, err := parse(data)
	if err != nil {
		return zero, err
	}
	return value, nil
}
