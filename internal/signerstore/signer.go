// Package signerstore implements the signer index wire type and the typed
// signer-scoped key/value store service behind the 0x516d channel system.
package signerstore

import (
	"sort"

	"github.com/bassosimone/fuste/internal/channel"
)

// HartSelf is the canonical signer-index slot marking a hart's own signer.
const HartSelf = 0

// Signer is one entry of a signer index: an address, a public key, and the
// system-buffer address identifying it within the hart's signer-buffer
// region when it is a user signer rather than the hart itself.
type Signer struct {
	Address             []byte
	PubKey              []byte
	SystemBufferAddress uint32
}

func isAllZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

// Index is a fixed-capacity, ordered K-slot signer index. A nil slot
// serializes as all zeros, and all-zero slots deserialize back to nil.
type Index struct {
	AddressLen int
	PubKeyLen  int
	Slots      []*Signer
}

// NewIndex returns an empty index of the given capacity and field widths.
func NewIndex(capacity, addressLen, pubKeyLen int) *Index {
	return &Index{AddressLen: addressLen, PubKeyLen: pubKeyLen, Slots: make([]*Signer, capacity)}
}

// TryWriteToBuffer writes all K slots, zero-filling empty ones.
func (idx *Index) TryWriteToBuffer(buf []byte) (int, error) {
	slotWidth := idx.AddressLen + idx.PubKeyLen + 4
	total := slotWidth * len(idx.Slots)
	if len(buf) < total {
		return 0, &channel.ErrBufferTooSmall{Needed: total, Available: len(buf)}
	}
	cursor := buf
	for _, s := range idx.Slots {
		var addr, pub []byte
		var sysAddr uint32
		if s != nil {
			addr, pub, sysAddr = s.Address, s.PubKey, s.SystemBufferAddress
		}
		var err error
		cursor, err = channel.WriteFixedBytes(cursor, addr, idx.AddressLen)
		if err != nil {
			return 0, err
		}
		cursor, err = channel.WriteFixedBytes(cursor, pub, idx.PubKeyLen)
		if err != nil {
			return 0, err
		}
		cursor, err = channel.WriteUint32(cursor, sysAddr)
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}

// TryIndexFromBytesWithRemainingBuffer reads K slots, normalizing all-zero slots
// to nil.
func TryIndexFromBytesWithRemainingBuffer(buf []byte, capacity, addressLen, pubKeyLen int) ([]byte, *Index, error) {
	idx := NewIndex(capacity, addressLen, pubKeyLen)
	cursor := buf
	for i := 0; i < capacity; i++ {
		var addr, pub []byte
		var sysAddrBytes uint32
		var err error
		addr, cursor, err = channel.ReadFixedBytes(cursor, addressLen)
		if err != nil {
			return nil, nil, err
		}
		pub, cursor, err = channel.ReadFixedBytes(cursor, pubKeyLen)
		if err != nil {
			return nil, nil, err
		}
		sysAddrBytes, cursor, err = channel.ReadUint32(cursor)
		if err != nil {
			return nil, nil, err
		}
		if isAllZero(addr) && isAllZero(pub) && sysAddrBytes == 0 {
			idx.Slots[i] = nil
			continue
		}
		idx.Slots[i] = &Signer{Address: addr, PubKey: pub, SystemBufferAddress: sysAddrBytes}
	}
	return cursor, idx, nil
}

// SortedAddresses returns the non-nil slots' addresses in lexicographic
// order, the representation the backing store's key is built from: two
// indexes naming the same signers in different slot orders must key the
// same entry.
func (idx *Index) SortedAddresses() [][]byte {
	var addrs [][]byte
	for _, s := range idx.Slots {
		if s != nil {
			addrs = append(addrs, s.Address)
		}
	}
	sort.Slice(addrs, func(i, j int) bool { return string(addrs[i]) < string(addrs[j]) })
	return addrs
}
