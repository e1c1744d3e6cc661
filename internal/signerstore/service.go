package signerstore

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/bassosimone/fuste/internal/channel"
)

// Default wire sizes. Wire constants: a guest compiled against different
// widths cannot talk to this store.
const (
	DefaultTypeNameBytes = 128
	DefaultValueBytes    = 16384
)

type entryRecord struct {
	value  []byte
	exists bool
}

// Service is the host-side signer-scoped key/value store. Entries are keyed
// by a blake2b-256 digest of (hart index, sorted signer addresses, type
// name) rather than the raw K-slot array: the key must not depend on slot
// order or capacity, only on which signers are present. The fixed-K array
// representation exists on the wire only (signer.go).
type Service struct {
	hartIndex     uint32
	capacity      int
	addressLen    int
	pubKeyLen     int
	typeNameWidth int
	valueWidth    int
	authenticated map[string]bool
	entries       map[[32]byte]entryRecord
}

// NewService constructs a store for a single hart with the given wire
// geometry.
func NewService(hartIndex uint32, capacity, addressLen, pubKeyLen, typeNameWidth, valueWidth int) *Service {
	return &Service{
		hartIndex:     hartIndex,
		capacity:      capacity,
		addressLen:    addressLen,
		pubKeyLen:     pubKeyLen,
		typeNameWidth: typeNameWidth,
		valueWidth:    valueWidth,
		authenticated: make(map[string]bool),
		entries:       make(map[[32]byte]entryRecord),
	}
}

// Authenticate marks address as authenticated. How a deployment establishes
// this set is up to the embedding host; the tests call this directly, and
// the CLI authenticates no signer.
func (s *Service) Authenticate(address []byte) {
	s.authenticated[string(address)] = true
}

func (s *Service) allAuthenticated(idx *Index) bool {
	for _, signer := range idx.Slots {
		if signer == nil {
			continue
		}
		if !s.authenticated[string(signer.Address)] {
			return false
		}
	}
	return true
}

func (s *Service) key(idx *Index, typeName []byte) [32]byte {
	h, _ := blake2b.New256(nil)
	var hartBytes [4]byte
	binary.LittleEndian.PutUint32(hartBytes[:], s.hartIndex)
	h.Write(hartBytes[:])
	for _, addr := range idx.SortedAddresses() {
		h.Write(addr)
	}
	h.Write(typeName)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Store performs a STORE directly (used by the wire handler once it has
// parsed a request, and by tests); it bypasses the wire framing entirely.
func (s *Service) Store(idx *Index, typeName string, value []byte) (bool, error) {
	if !s.allAuthenticated(idx) {
		return false, nil
	}
	padded := make([]byte, s.valueWidth)
	copy(padded, value)
	s.entries[s.key(idx, []byte(typeName))] = entryRecord{value: padded, exists: true}
	return true, nil
}

// Load performs a LOAD directly; exists reports whether the entry was ever
// stored, so an explicitly stored all-zero value is distinguishable from a
// never-stored one.
func (s *Service) Load(idx *Index, typeName string) (value []byte, exists bool, authenticated bool) {
	if !s.allAuthenticated(idx) {
		return nil, false, false
	}
	rec, ok := s.entries[s.key(idx, []byte(typeName))]
	if !ok {
		return make([]byte, s.valueWidth), false, true
	}
	return rec.value, rec.exists, true
}

// Open implements channel.Handler by parsing a wire Message out of readBuf
// and performing the STORE/LOAD synchronously; this service never yields or
// holds, so Open and Check behave identically.
func (s *Service) Open(readBuf, writeBuf []byte) (channel.Status, error) {
	return s.handle(readBuf, writeBuf)
}

// Check implements channel.Handler.
func (s *Service) Check(readBuf, writeBuf []byte) (channel.Status, error) {
	return s.handle(readBuf, writeBuf)
}

func (s *Service) handle(readBuf, writeBuf []byte) (channel.Status, error) {
	op := Op(OpLoad)
	if len(readBuf) > 0 {
		op = Op(readBuf[0])
	}
	body := readBuf
	if len(readBuf) > 0 {
		body = readBuf[1:]
	}
	_, msg, err := TryMessageFromBytesWithRemainingBuffer(body, s.capacity, s.addressLen, s.pubKeyLen, s.typeNameWidth, s.valueWidth, op)
	if err != nil {
		return channel.Status{Code: channel.StatusFailure}, nil
	}
	typeName := trimTrailingZeros(msg.TypeNameBytes)
	switch op {
	case OpStore:
		ok, _ := s.Store(msg.SignerIndex, string(typeName), msg.ValueBytes)
		if !ok {
			return channel.Status{Code: channel.StatusFailure}, nil
		}
		return channel.Status{Code: channel.StatusSuccess}, nil
	case OpLoad:
		value, _, authenticated := s.Load(msg.SignerIndex, string(typeName))
		if !authenticated {
			return channel.Status{Code: channel.StatusFailure}, nil
		}
		n := copy(writeBuf, value)
		return channel.Status{Code: channel.StatusSuccess, Size: uint32(n)}, nil
	default:
		return channel.Status{Code: channel.StatusFailure}, nil
	}
}

func trimTrailingZeros(b []byte) []byte {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	return b[:n]
}
