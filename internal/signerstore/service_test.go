package signerstore

import (
	"fmt"
	"testing"
)

func assert(t *testing.T, cond bool, format string, args ...any) {
	if !cond {
		t.Fatalf(fmt.Sprintf("%v %s", cond, format), args...)
	}
}

func newTestIndex(addr byte) *Index {
	idx := NewIndex(2, 4, 4)
	idx.Slots[0] = &Signer{Address: []byte{addr, addr, addr, addr}, PubKey: []byte{1, 1, 1, 1}}
	return idx
}

func TestStoreThenLoadRoundTrip(t *testing.T) {
	svc := NewService(HartSelf, 2, 4, 4, DefaultTypeNameBytes, DefaultValueBytes)
	idx := newTestIndex(0xAA)
	svc.Authenticate(idx.Slots[0].Address)

	ok, err := svc.Store(idx, "balance", []byte{1, 2, 3})
	assert(t, err == nil && ok, "store failed: ok=%v err=%s", ok, err)

	value, exists, authenticated := svc.Load(idx, "balance")
	assert(t, authenticated, "expected load to be authenticated")
	assert(t, exists, "expected the entry to exist")
	assert(t, value[0] == 1 && value[1] == 2 && value[2] == 3, "want [1 2 3 ...] got %v", value[:3])
}

func TestUnauthenticatedStoreFails(t *testing.T) {
	svc := NewService(HartSelf, 2, 4, 4, DefaultTypeNameBytes, DefaultValueBytes)
	idx := newTestIndex(0xBB)
	ok, err := svc.Store(idx, "balance", []byte{1})
	assert(t, err == nil, "unexpected error: %s", err)
	assert(t, !ok, "expected store to fail without authentication")
}

func TestNeverStoredEntryIsDistinctFromAllZero(t *testing.T) {
	svc := NewService(HartSelf, 2, 4, 4, DefaultTypeNameBytes, DefaultValueBytes)
	idx := newTestIndex(0xCC)
	svc.Authenticate(idx.Slots[0].Address)

	_, exists, _ := svc.Load(idx, "never-stored")
	assert(t, !exists, "expected a never-stored entry to report exists=false")

	ok, err := svc.Store(idx, "zeroed", make([]byte, DefaultValueBytes))
	assert(t, err == nil && ok, "store failed: ok=%v err=%s", ok, err)
	value, exists, _ := svc.Load(idx, "zeroed")
	assert(t, exists, "expected an explicitly zero-valued store to report exists=true")
	for _, b := range value {
		assert(t, b == 0, "expected an all-zero stored value")
	}
}

func TestDistinctSignerSetsAreIsolated(t *testing.T) {
	svc := NewService(HartSelf, 2, 4, 4, DefaultTypeNameBytes, DefaultValueBytes)
	idxA := newTestIndex(0x01)
	idxB := newTestIndex(0x02)
	svc.Authenticate(idxA.Slots[0].Address)
	svc.Authenticate(idxB.Slots[0].Address)

	_, err := svc.Store(idxA, "k", []byte{9})
	assert(t, err == nil, "store failed: %s", err)

	_, exists, _ := svc.Load(idxB, "k")
	assert(t, !exists, "expected a different signer set to see a distinct backing-store key")
}

func TestDistinctTypeNamesAreIsolated(t *testing.T) {
	svc := NewService(HartSelf, 2, 4, 4, DefaultTypeNameBytes, DefaultValueBytes)
	idx := newTestIndex(0x44)
	svc.Authenticate(idx.Slots[0].Address)

	_, err := svc.Store(idx, "alpha", []byte{1})
	assert(t, err == nil, "store failed: %s", err)

	_, exists, _ := svc.Load(idx, "beta")
	assert(t, !exists, "expected a different type name to address a distinct entry")
}

func TestIndexWireRoundTrip(t *testing.T) {
	idx := newTestIndex(0x42)
	buf := make([]byte, 2*(4+4+4))
	n, err := idx.TryWriteToBuffer(buf)
	assert(t, err == nil, "write failed: %s", err)
	assert(t, n == len(buf), "want %d bytes written got %d", len(buf), n)

	_, got, err := TryIndexFromBytesWithRemainingBuffer(buf, 2, 4, 4)
	assert(t, err == nil, "parse failed: %s", err)
	assert(t, got.Slots[0] != nil, "expected slot 0 to be populated")
	assert(t, got.Slots[1] == nil, "expected slot 1 (all-zero) to be nil")
}
