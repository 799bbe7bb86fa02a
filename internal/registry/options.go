package registry

// DuplicatePolicy decides what Collect does when a key yields the same
// value name twice, which only happens when the key is mutated mid-scan.
type DuplicatePolicy int

const (
	OverwriteLast DuplicatePolicy = iota
	KeepFirst
)

func (p DuplicatePolicy) String() string {
	if p == KeepFirst {
		return "keep-first"
	}
	return "overwrite"
}

// Skip describes an index that was abandoned during enumeration.
type Skip struct {
	Index uint32
	Err   error
}

// Options tunes an Enumerator.
type Options struct {
	InitialNameCapacity  uint32
	InitialValueCapacity uint32
	// MaxCapacity caps either buffer. Zero means no cap.
	MaxCapacity uint32
	Duplicates  DuplicatePolicy
	// OnSkip, if set, is called for every abandoned index.
	OnSkip func(Skip)
}

// DefaultOptions returns the options used by the package-level functions.
func DefaultOptions() Options {
	return Options{
		InitialNameCapacity:  DefaultNameCapacity,
		InitialValueCapacity: DefaultValueCapacity,
	}
}

type Option func(*Options)

// WithInitialCapacity sets the starting name (UTF-16 units) and value
// (bytes) capacities. Zero keeps the default; stores tend to reject empty
// buffers.
func WithInitialCapacity(name, value uint32) Option {
	return func(o *Options) {
		if name > 0 {
			o.InitialNameCapacity = name
		}
		if value > 0 {
			o.InitialValueCapacity = value
		}
	}
}

func WithMaxCapacity(n uint32) Option {
	return func(o *Options) { o.MaxCapacity = n }
}

func WithDuplicates(p DuplicatePolicy) Option {
	return func(o *Options) { o.Duplicates = p }
}

func WithSkipHandler(fn func(Skip)) Option {
	return func(o *Options) { o.OnSkip = fn }
}
