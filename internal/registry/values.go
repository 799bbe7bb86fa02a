package registry

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// Entry is one value of a key.
type Entry struct {
	Name  string
	Value Value
}

// Values maps value names to values and remembers insertion order.
type Values struct {
	names []string
	byKey map[string]Value
}

func NewValues() *Values {
	return &Values{byKey: make(map[string]Value)}
}

func (vs *Values) Len() int {
	return len(vs.names)
}

func (vs *Values) Get(name string) (Value, bool) {
	v, ok := vs.byKey[name]
	return v, ok
}

// Set stores v under name. An existing name keeps its position.
func (vs *Values) Set(name string, v Value) {
	if _, ok := vs.byKey[name]; !ok {
		vs.names = append(vs.names, name)
	}
	vs.byKey[name] = v
}

// Names returns the names in insertion order.
func (vs *Values) Names() []string {
	out := make([]string, len(vs.names))
	copy(out, vs.names)
	return out
}

func (vs *Values) Entries() []Entry {
	out := make([]Entry, 0, len(vs.names))
	for _, n := range vs.names {
		out = append(out, Entry{Name: n, Value: vs.byKey[n]})
	}
	return out
}

// Each calls fn in insertion order until it returns Stop.
func (vs *Values) Each(fn Func) {
	for _, n := range vs.names {
		if fn(n, vs.byKey[n]) == Stop {
			return
		}
	}
}

// Equal compares names, order and values.
func (vs *Values) Equal(o *Values) bool {
	if vs.Len() != o.Len() {
		return false
	}
	for i, n := range vs.names {
		if o.names[i] != n || !vs.byKey[n].Equal(o.byKey[n]) {
			return false
		}
	}
	return true
}

// Digest hashes the mapping with BLAKE2b-256. Each entry contributes its
// length-prefixed name, type tag and encoded payload, in insertion order.
func (vs *Values) Digest() [blake2b.Size256]byte {
	h, _ := blake2b.New256(nil)
	var scratch []byte
	for _, n := range vs.names {
		v := vs.byKey[n]
		payload := v.Encode()
		scratch = binary.AppendUvarint(scratch[:0], uint64(len(n)))
		scratch = append(scratch, n...)
		scratch = binary.BigEndian.AppendUint32(scratch, uint32(v.Type))
		scratch = binary.AppendUvarint(scratch, uint64(len(payload)))
		scratch = append(scratch, payload...)
		h.Write(scratch)
	}
	var sum [blake2b.Size256]byte
	copy(sum[:], h.Sum(nil))
	return sum
}
