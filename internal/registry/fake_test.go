package registry

import (
	"errors"
	"unicode/utf16"
)

var (
	errDenied   = errors.New("access denied")
	errVanished = errors.New("no more items")
)

type fakeEntry struct {
	name  string
	value Value
}

type fakeAttempt struct {
	index    uint32
	nameCap  int
	valueCap int
}

// fakeKey is a scripted Key. Entries answer FetchValue the way a real
// store would; failIndex and tooSmall inject failures per index.
type fakeKey struct {
	entries  []fakeEntry
	countErr error
	// failIndex makes FetchValue fail for the listed indices.
	failIndex map[uint32]error
	// tooSmall forces a MoreData answer with the given requirements the
	// first time each listed index is fetched.
	tooSmall map[uint32][2]uint32
	// grow makes every MoreData answer ask for one more unit than offered.
	grow bool

	attempts []fakeAttempt
	closed   bool
}

func (k *fakeKey) ValueCount() (uint32, error) {
	if k.countErr != nil {
		return 0, k.countErr
	}
	return uint32(len(k.entries)), nil
}

func (k *fakeKey) FetchValue(index uint32, name []uint16, data []byte) Fetch {
	k.attempts = append(k.attempts, fakeAttempt{index: index, nameCap: len(name), valueCap: len(data)})

	if err, ok := k.failIndex[index]; ok {
		return Fetch{Status: Failure, Err: err}
	}
	if req, ok := k.tooSmall[index]; ok {
		delete(k.tooSmall, index)
		return Fetch{Status: MoreData, NameLen: req[0], DataLen: req[1]}
	}
	if k.grow {
		return Fetch{Status: MoreData, NameLen: uint32(len(name)) + 1, DataLen: uint32(len(data))}
	}
	if int(index) >= len(k.entries) {
		return Fetch{Status: Failure, Err: errVanished}
	}

	e := k.entries[index]
	units := utf16.Encode([]rune(e.name))
	payload := e.value.Encode()
	if len(units) > len(name) || len(payload) > len(data) {
		return Fetch{Status: MoreData, NameLen: uint32(len(units)), DataLen: uint32(len(payload))}
	}
	copy(name, units)
	copy(data, payload)
	return Fetch{
		Status:  Success,
		NameLen: uint32(len(units)),
		DataLen: uint32(len(payload)),
		Type:    e.value.Type,
	}
}

func (k *fakeKey) Close() error {
	k.closed = true
	return nil
}

type fakeResolver struct {
	keys map[string]*fakeKey
}

func (r *fakeResolver) OpenKey(root Root, path string) (Key, error) {
	k, ok := r.keys[root.Short()+`\`+path]
	if !ok {
		return nil, errDenied
	}
	return k, nil
}

func numbered(n int) []fakeEntry {
	out := make([]fakeEntry, n)
	for i := range out {
		out[i] = fakeEntry{name: string(rune('a' + i)), value: DWordValue(uint32(i))}
	}
	return out
}
