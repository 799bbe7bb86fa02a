package registry

import (
	"errors"
	"testing"
)

func TestBuffersReset(t *testing.T) {
	b := newBuffers(DefaultOptions())
	b.reset()
	if len(b.name) != DefaultNameCapacity || len(b.data) != DefaultValueCapacity {
		t.Fatalf("sizes: %d/%d", len(b.name), len(b.data))
	}

	b.name[0], b.data[0] = 'x', 0xff
	b.reset()
	if b.name[0] != 0 || b.data[0] != 0 {
		t.Fatal("reset must zero-fill")
	}
}

func TestBuffersGrow(t *testing.T) {
	b := newBuffers(DefaultOptions())
	b.reset()
	if err := b.grow(Fetch{Status: MoreData, NameLen: 5000, DataLen: 9000}); err != nil {
		t.Fatal(err)
	}
	if len(b.name) != 5001 || len(b.data) != 9001 {
		t.Fatalf("sizes: %d/%d", len(b.name), len(b.data))
	}

	b.reset()
	if len(b.name) != DefaultNameCapacity || len(b.data) != DefaultValueCapacity {
		t.Fatalf("reset after grow: %d/%d", len(b.name), len(b.data))
	}
}

func TestBuffersGrowLeavesLargeEnoughBuffer(t *testing.T) {
	b := newBuffers(DefaultOptions())
	b.reset()
	b.name[7] = 'k'
	if err := b.grow(Fetch{Status: MoreData, NameLen: 100, DataLen: 8192}); err != nil {
		t.Fatal(err)
	}
	if len(b.name) != DefaultNameCapacity || b.name[7] != 'k' {
		t.Fatal("name buffer should be untouched")
	}
	if len(b.data) != 8193 {
		t.Fatalf("data: %d", len(b.data))
	}
}

func TestBuffersGrowCeiling(t *testing.T) {
	b := newBuffers(Options{InitialNameCapacity: 8, InitialValueCapacity: 8, MaxCapacity: 64})
	b.reset()
	if err := b.grow(Fetch{NameLen: 64, DataLen: 10}); err != nil {
		t.Fatalf("at the ceiling: %v", err)
	}
	if err := b.grow(Fetch{NameLen: 65, DataLen: 10}); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("above the ceiling: got %v", err)
	}
}

func TestBuffersGrowStalled(t *testing.T) {
	b := newBuffers(DefaultOptions())
	b.reset()
	if err := b.grow(Fetch{NameLen: DefaultNameCapacity, DataLen: 1}); !errors.Is(err, errStalled) {
		t.Fatalf("got %v, want errStalled", err)
	}
}
