package registry

import (
	"errors"
	"fmt"
)

// Default starting capacities. Names are counted in UTF-16 units, values
// in bytes.
const (
	DefaultNameCapacity  = 2048
	DefaultValueCapacity = 4096
)

var errStalled = errors.New("store asked for more data without a larger requirement")

// buffers is the per-index scratch space handed to Key.FetchValue. The
// length of each slice is the capacity offered to the store.
type buffers struct {
	name []uint16
	data []byte

	initName uint32
	initData uint32
	max      uint32
}

func newBuffers(o Options) *buffers {
	return &buffers{
		initName: o.InitialNameCapacity,
		initData: o.InitialValueCapacity,
		max:      o.MaxCapacity,
	}
}

// reset returns both buffers to their initial capacities, zero-filled.
func (b *buffers) reset() {
	b.name = resize(b.name, b.initName)
	b.data = resize(b.data, b.initData)
}

// grow takes the required capacities from a MoreData result and reallocates
// each buffer that is now too small to required+1. A buffer that already
// fits is left alone. A result that asks for nothing larger than what was
// offered returns errStalled.
func (b *buffers) grow(f Fetch) error {
	needName, needData := f.NameLen, f.DataLen
	if b.max > 0 && (needName > b.max || needData > b.max) {
		return fmt.Errorf("%w: name %d, value %d, limit %d",
			ErrCapacityExceeded, needName, needData, b.max)
	}

	grew := false
	if needName > uint32(len(b.name)) {
		b.name = make([]uint16, needName+1)
		grew = true
	}
	if needData > uint32(len(b.data)) {
		b.data = make([]byte, needData+1)
		grew = true
	}
	if !grew {
		return errStalled
	}
	return nil
}

func resize[T any](s []T, n uint32) []T {
	if uint32(cap(s)) < n {
		return make([]T, n)
	}
	s = s[:n]
	clear(s)
	return s
}
