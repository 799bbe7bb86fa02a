package store

import "errors"

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrNoMoreItems = errors.New("no more items")
	ErrInvalidPath = errors.New("invalid path")
)

// Store is a tree of keys, each holding named opaque records. A path is
// the list of segments from the top of the tree; the empty path is the top
// itself, which holds no records. Every method is its own transaction, so
// a Count followed by At may observe different states.
type Store interface {
	CreateKey(path []string) error
	DeleteKey(path []string) error
	Put(path []string, name, record []byte) error
	Remove(path []string, name []byte) error
	Count(path []string) (int, error)
	At(path []string, index int) (name, record []byte, err error)
	ForEach(path []string, fn func(name, record []byte) error) error
	Meta(key []byte) ([]byte, error)
	SetMeta(key, value []byte) error
	Close() error
}
