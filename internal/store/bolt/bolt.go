package bolt

import (
	"bytes"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"hivescan/internal/store"
)

// metaBucket sits beside the key tree. Key segments may not start with a
// control byte, so it cannot collide with one.
var metaBucket = []byte("\x00meta")

// Store implements store.Store using bbolt. Keys are nested buckets and
// records are the plain pairs inside them.
type Store struct {
	db *bolt.DB
}

// Open creates or opens a bbolt database at the given path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening bolt db: %w", err)
	}
	return &Store{db: db}, nil
}

func validate(path []string) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: empty", store.ErrInvalidPath)
	}
	for _, seg := range path {
		if seg == "" || seg[0] < 0x20 {
			return fmt.Errorf("%w: bad segment %q", store.ErrInvalidPath, seg)
		}
	}
	return nil
}

// lookup walks path from the top of tx, returning nil if any segment is
// missing.
func lookup(tx *bolt.Tx, path []string) *bolt.Bucket {
	b := tx.Bucket([]byte(path[0]))
	for _, seg := range path[1:] {
		if b == nil {
			return nil
		}
		b = b.Bucket([]byte(seg))
	}
	return b
}

func (s *Store) CreateKey(path []string) error {
	if err := validate(path); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(path[0]))
		if err != nil {
			return fmt.Errorf("creating bucket: %w", err)
		}
		for _, seg := range path[1:] {
			if b, err = b.CreateBucketIfNotExists([]byte(seg)); err != nil {
				return fmt.Errorf("creating bucket: %w", err)
			}
		}
		return nil
	})
}

func (s *Store) DeleteKey(path []string) error {
	if err := validate(path); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if len(path) == 1 {
			if tx.Bucket([]byte(path[0])) == nil {
				return store.ErrKeyNotFound
			}
			return tx.DeleteBucket([]byte(path[0]))
		}
		parent := lookup(tx, path[:len(path)-1])
		if parent == nil || parent.Bucket([]byte(path[len(path)-1])) == nil {
			return store.ErrKeyNotFound
		}
		return parent.DeleteBucket([]byte(path[len(path)-1]))
	})
}

func (s *Store) Put(path []string, name, record []byte) error {
	if err := validate(path); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := lookup(tx, path)
		if b == nil {
			return store.ErrKeyNotFound
		}
		if b.Bucket(name) != nil {
			return fmt.Errorf("%w: %q names a subkey", store.ErrInvalidPath, name)
		}
		return b.Put(name, record)
	})
}

func (s *Store) Remove(path []string, name []byte) error {
	if err := validate(path); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := lookup(tx, path)
		if b == nil {
			return store.ErrKeyNotFound
		}
		if b.Bucket(name) != nil {
			return nil
		}
		return b.Delete(name)
	})
}

func (s *Store) Count(path []string) (int, error) {
	if err := validate(path); err != nil {
		return 0, err
	}
	n := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		b := lookup(tx, path)
		if b == nil {
			return store.ErrKeyNotFound
		}
		return b.ForEach(func(_, v []byte) error {
			if v != nil {
				n++
			}
			return nil
		})
	})
	return n, err
}

// At returns the index-th record of path in byte order of names, skipping
// subkeys.
func (s *Store) At(path []string, index int) ([]byte, []byte, error) {
	if err := validate(path); err != nil {
		return nil, nil, err
	}
	var name, record []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := lookup(tx, path)
		if b == nil {
			return store.ErrKeyNotFound
		}
		i := 0
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if v == nil {
				continue
			}
			if i == index {
				name = bytes.Clone(k)
				record = bytes.Clone(v)
				return nil
			}
			i++
		}
		return store.ErrNoMoreItems
	})
	return name, record, err
}

func (s *Store) ForEach(path []string, fn func(name, record []byte) error) error {
	if err := validate(path); err != nil {
		return err
	}
	return s.db.View(func(tx *bolt.Tx) error {
		b := lookup(tx, path)
		if b == nil {
			return store.ErrKeyNotFound
		}
		return b.ForEach(func(k, v []byte) error {
			if v == nil {
				return nil
			}
			return fn(k, v)
		})
	})
}

func (s *Store) Meta(key []byte) ([]byte, error) {
	var val []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(metaBucket)
		if b == nil {
			return nil
		}
		val = bytes.Clone(b.Get(key))
		return nil
	})
	return val, err
}

func (s *Store) SetMeta(key, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(metaBucket)
		if err != nil {
			return fmt.Errorf("creating bucket: %w", err)
		}
		return b.Put(key, value)
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}
