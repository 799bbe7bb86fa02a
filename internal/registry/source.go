package registry

// Status classifies the outcome of one indexed fetch attempt.
type Status int

const (
	// Success means the entry was written into the supplied buffers.
	Success Status = iota
	// MoreData means at least one buffer was too small. The Fetch carries
	// the capacities the store needs; nothing useful was written.
	MoreData
	// Failure is any other outcome, e.g. the index no longer exists.
	Failure
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case MoreData:
		return "more-data"
	default:
		return "failure"
	}
}

// Fetch is the result of Key.FetchValue.
//
// On Success NameLen is the number of UTF-16 units written (no terminator)
// and DataLen the number of payload bytes. On MoreData both hold required
// capacities. Err explains a Failure and is nil otherwise.
type Fetch struct {
	Status  Status
	NameLen uint32
	DataLen uint32
	Type    Type
	Err     error
}

// Key is an open node of the store. Implementations are not required to
// offer any isolation between ValueCount and FetchValue.
type Key interface {
	// ValueCount returns the number of values under the key right now.
	ValueCount() (uint32, error)
	// FetchValue reads the value at index into name and data. len(name)
	// and len(data) are the capacities offered to the store.
	FetchValue(index uint32, name []uint16, data []byte) Fetch
	Close() error
}

// Resolver opens keys by root and subkey path.
type Resolver interface {
	OpenKey(root Root, path string) (Key, error)
}
