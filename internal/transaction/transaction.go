// Package transaction implements the two transaction-metadata channel
// services: the transaction-id service, which hands the guest the identity
// of the transaction it is executing under, and the transaction-scheme
// service, which advertises the wire geometry (address and public-key
// widths) the host's signer stores are keyed with. Both are synchronous
// single-round-trip services; neither ever yields or holds.
package transaction

import (
	"github.com/bassosimone/fuste/internal/channel"
)

// DefaultIDBytes is the width of a transaction id on the wire.
const DefaultIDBytes = 32

// IDService implements channel.Handler for channel.SystemIDTransactionID:
// it answers every request with the transaction id it was constructed with.
// The request payload is ignored; the wire convention sends an all-zero id
// as the request placeholder.
type IDService struct {
	id []byte
}

// NewIDService builds an IDService answering with id.
func NewIDService(id []byte) *IDService {
	out := make([]byte, len(id))
	copy(out, id)
	return &IDService{id: out}
}

// Open implements channel.Handler.
func (s *IDService) Open(readBuf, writeBuf []byte) (channel.Status, error) {
	return s.answer(writeBuf)
}

// Check implements channel.Handler.
func (s *IDService) Check(readBuf, writeBuf []byte) (channel.Status, error) {
	return s.answer(writeBuf)
}

func (s *IDService) answer(writeBuf []byte) (channel.Status, error) {
	if len(writeBuf) < len(s.id) {
		return channel.Status{Code: channel.StatusFailure}, nil
	}
	n := copy(writeBuf, s.id)
	return channel.Status{Code: channel.StatusSuccess, Size: uint32(n)}, nil
}

// RequestID performs the transaction-id round-trip: it sends the all-zero
// placeholder and returns the idLen bytes the host answered with.
func RequestID(r *channel.Registry, idLen int) ([]byte, error) {
	placeholder := zeroBytes(idLen)
	data, err := channel.SerialRequest(r, channel.SystemIDTransactionID, placeholder, idLen)
	if err != nil {
		return nil, err
	}
	if len(data) < idLen {
		return nil, &channel.ErrCouldNotDeserialize{Needed: idLen, Available: len(data)}
	}
	return data[:idLen], nil
}

// zeroBytes is the all-zero fixed-width request placeholder.
type zeroBytes int

// TryWriteToBuffer implements channel.Serializable.
func (z zeroBytes) TryWriteToBuffer(buf []byte) (int, error) {
	if len(buf) < int(z) {
		return 0, &channel.ErrBufferTooSmall{Needed: int(z), Available: len(buf)}
	}
	for i := 0; i < int(z); i++ {
		buf[i] = 0
	}
	return int(z), nil
}

// Scheme is the wire geometry a transaction-based host is running: the byte
// widths of signer addresses and public keys. Two harts can only exchange
// signer-store entries when their schemes agree.
type Scheme struct {
	AddressLen uint32
	PubKeyLen  uint32
}

// TryWriteToBuffer implements channel.Serializable: two little-endian
// uint32s, address width first.
func (s Scheme) TryWriteToBuffer(buf []byte) (int, error) {
	cursor, err := channel.WriteUint32(buf, s.AddressLen)
	if err != nil {
		return 0, err
	}
	if _, err := channel.WriteUint32(cursor, s.PubKeyLen); err != nil {
		return 0, err
	}
	return 8, nil
}

// TrySchemeFromBytesWithRemainingBuffer reads a wire Scheme.
func TrySchemeFromBytesWithRemainingBuffer(buf []byte) ([]byte, Scheme, error) {
	addressLen, cursor, err := channel.ReadUint32(buf)
	if err != nil {
		return nil, Scheme{}, err
	}
	pubKeyLen, cursor, err := channel.ReadUint32(cursor)
	if err != nil {
		return nil, Scheme{}, err
	}
	return cursor, Scheme{AddressLen: addressLen, PubKeyLen: pubKeyLen}, nil
}

// SchemeService implements channel.Handler for
// channel.SystemIDTransactionScheme: it answers every request with the
// host's scheme.
type SchemeService struct {
	scheme Scheme
}

// NewSchemeService builds a SchemeService advertising scheme.
func NewSchemeService(scheme Scheme) *SchemeService {
	return &SchemeService{scheme: scheme}
}

// Open implements channel.Handler.
func (s *SchemeService) Open(readBuf, writeBuf []byte) (channel.Status, error) {
	return s.answer(writeBuf)
}

// Check implements channel.Handler.
func (s *SchemeService) Check(readBuf, writeBuf []byte) (channel.Status, error) {
	return s.answer(writeBuf)
}

func (s *SchemeService) answer(writeBuf []byte) (channel.Status, error) {
	n, err := s.scheme.TryWriteToBuffer(writeBuf)
	if err != nil {
		return channel.Status{Code: channel.StatusFailure}, nil
	}
	return channel.Status{Code: channel.StatusSuccess, Size: uint32(n)}, nil
}

// RequestScheme fetches the host's scheme and verifies it matches want,
// failing with ErrSchemeMismatch when the caller compiled against a
// different geometry than the host is running.
func RequestScheme(r *channel.Registry, want Scheme) (Scheme, error) {
	data, err := channel.SerialRequest(r, channel.SystemIDTransactionScheme, want, 8)
	if err != nil {
		return Scheme{}, err
	}
	_, got, err := TrySchemeFromBytesWithRemainingBuffer(data)
	if err != nil {
		return Scheme{}, err
	}
	if got != want {
		return got, &channel.ErrSchemeMismatch{
			Want: [2]uint32{want.AddressLen, want.PubKeyLen},
			Got:  [2]uint32{got.AddressLen, got.PubKeyLen},
		}
	}
	return got, nil
}
