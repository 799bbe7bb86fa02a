package registry

import (
	"errors"
	"unicode/utf16"

	"hivescan/internal/logging"
)

var logger = logging.For("registry")

var errFetchFailed = errors.New("fetch failed")

// Outcome is returned by a Func to continue or end an enumeration.
type Outcome int

const (
	Continue Outcome = iota
	Stop
)

// Func receives each value in ascending index order.
type Func func(name string, v Value) Outcome

// Enumerator walks the values of a key, regrowing its buffers whenever
// the store reports they are too small. It holds no state between calls
// and may be shared, but a single call is strictly sequential.
type Enumerator struct {
	opts Options
}

// New returns an Enumerator with DefaultOptions modified by opts.
func New(opts ...Option) *Enumerator {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return NewWithOptions(o)
}

// NewWithOptions returns an Enumerator using o as given, except that zero
// initial capacities fall back to the defaults.
func NewWithOptions(o Options) *Enumerator {
	if o.InitialNameCapacity == 0 {
		o.InitialNameCapacity = DefaultNameCapacity
	}
	if o.InitialValueCapacity == 0 {
		o.InitialValueCapacity = DefaultValueCapacity
	}
	return &Enumerator{opts: o}
}

// Options returns a copy of the enumerator's options.
func (e *Enumerator) Options() Options {
	return e.opts
}

// Enumerate calls fn for every value under k, in index order, until fn
// returns Stop. It returns false only if the value count could not be
// queried, in which case fn is never called. Indices that cannot be read
// (for instance because the value was deleted concurrently) are skipped;
// they are reported through Options.OnSkip and nowhere else.
//
// MoreData answers are retried on the same index with grown buffers and
// no retry limit. An index is also skipped when the store answers MoreData
// without requiring more than the buffers already hold (errStalled), or
// when a requirement exceeds Options.MaxCapacity (ErrCapacityExceeded).
func (e *Enumerator) Enumerate(k Key, fn Func) bool {
	count, err := k.ValueCount()
	if err != nil {
		logger.Debug("value count query failed", "err", err)
		return false
	}

	buf := newBuffers(e.opts)
	for index := uint32(0); index < count; index++ {
		buf.reset()
		f, err := e.fetch(k, index, buf)
		if err != nil {
			e.skip(index, err)
			continue
		}

		value := Decode(buf.data, f.DataLen, f.Type)
		name := string(utf16.Decode(buf.name[:min(f.NameLen, uint32(len(buf.name)))]))
		if fn(name, value) == Stop {
			break
		}
	}
	return true
}

// fetch retries index until the store either succeeds or fails with
// something other than MoreData. Each retry follows a strictly larger
// requirement, so the loop cannot spin on a fixed size.
func (e *Enumerator) fetch(k Key, index uint32, buf *buffers) (Fetch, error) {
	for {
		f := k.FetchValue(index, buf.name, buf.data)
		switch f.Status {
		case Success:
			return f, nil
		case MoreData:
			if err := buf.grow(f); err != nil {
				return f, err
			}
		default:
			if f.Err == nil {
				return f, errFetchFailed
			}
			return f, f.Err
		}
	}
}

func (e *Enumerator) skip(index uint32, err error) {
	logger.Debug("skipping value", "index", index, "err", err)
	if e.opts.OnSkip != nil {
		e.opts.OnSkip(Skip{Index: index, Err: err})
	}
}

// EnumeratePath opens root\path through r and enumerates it. A key that
// cannot be opened counts as a failed count query.
func (e *Enumerator) EnumeratePath(r Resolver, root Root, path string, fn Func) bool {
	k, err := r.OpenKey(root, path)
	if err != nil {
		logger.Debug("open key failed", "root", root.Short(), "path", path, "err", err)
		return false
	}
	defer k.Close()
	return e.Enumerate(k, fn)
}

// Collect gathers every value under k into an insertion-ordered mapping.
// A key that cannot be queried yields an empty mapping, the same as a key
// without values.
func (e *Enumerator) Collect(k Key) *Values {
	vals := NewValues()
	e.Enumerate(k, e.collector(vals))
	return vals
}

// CollectPath is Collect for root\path.
func (e *Enumerator) CollectPath(r Resolver, root Root, path string) *Values {
	vals := NewValues()
	e.EnumeratePath(r, root, path, e.collector(vals))
	return vals
}

func (e *Enumerator) collector(vals *Values) Func {
	return func(name string, v Value) Outcome {
		if e.opts.Duplicates == KeepFirst {
			if _, ok := vals.Get(name); ok {
				return Continue
			}
		}
		vals.Set(name, v)
		return Continue
	}
}

var defaultEnumerator = New()

// Enumerate uses an Enumerator with default options.
func Enumerate(k Key, fn Func) bool {
	return defaultEnumerator.Enumerate(k, fn)
}

func EnumeratePath(r Resolver, root Root, path string, fn Func) bool {
	return defaultEnumerator.EnumeratePath(r, root, path, fn)
}

func Collect(k Key) *Values {
	return defaultEnumerator.Collect(k)
}

func CollectPath(r Resolver, root Root, path string) *Values {
	return defaultEnumerator.CollectPath(r, root, path)
}
