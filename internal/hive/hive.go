package hive

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/google/uuid"

	"hivescan/internal/logging"
	"hivescan/internal/registry"
	"hivescan/internal/store"
)

var logger = logging.For("hive")

var (
	ErrKeyNotFound = store.ErrKeyNotFound
	ErrNoMoreItems = store.ErrNoMoreItems
	ErrRootKey     = errors.New("root keys cannot be deleted")
)

var metaID = []byte("id")

var allRoots = []registry.Root{
	registry.ClassesRoot,
	registry.CurrentUser,
	registry.LocalMachine,
	registry.Users,
	registry.CurrentConfig,
}

// Hive is an emulated registry kept in a store.Store. Key and value names
// are case-insensitive; values keep the spelling they were written with.
type Hive struct {
	st store.Store
	id uuid.UUID
}

// Open prepares st for use as a hive, stamping it with a fresh id on first
// use and making sure every root key exists.
func Open(st store.Store) (*Hive, error) {
	raw, err := st.Meta(metaID)
	if err != nil {
		return nil, fmt.Errorf("reading hive id: %w", err)
	}

	var id uuid.UUID
	if raw == nil {
		id = uuid.New()
		if err := st.SetMeta(metaID, []byte(id.String())); err != nil {
			return nil, fmt.Errorf("writing hive id: %w", err)
		}
		logger.Info("initialized hive", "id", id)
	} else if id, err = uuid.ParseBytes(raw); err != nil {
		return nil, fmt.Errorf("parsing hive id: %w", err)
	}

	for _, r := range allRoots {
		if err := st.CreateKey([]string{r.Short()}); err != nil {
			return nil, fmt.Errorf("creating root %s: %w", r.Short(), err)
		}
	}
	return &Hive{st: st, id: id}, nil
}

func (h *Hive) ID() uuid.UUID {
	return h.id
}

// keyPath maps root\path onto store segments.
func keyPath(root registry.Root, path string) ([]string, error) {
	if root < registry.ClassesRoot || root > registry.CurrentConfig {
		return nil, fmt.Errorf("%w: %d", registry.ErrUnknownRoot, root)
	}
	segs := []string{root.Short()}
	for _, s := range registry.SplitPath(path) {
		if s == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", registry.ErrInvalidPath, path)
		}
		segs = append(segs, strings.ToLower(s))
	}
	return segs, nil
}

// valueKey prefixes value names with a control byte so they never clash
// with subkey buckets (which cannot start with one) and so the unnamed
// default value still has a non-empty store key.
func valueKey(name string) []byte {
	return append([]byte{0x01}, strings.ToLower(name)...)
}

// OpenKey implements registry.Resolver.
func (h *Hive) OpenKey(root registry.Root, path string) (registry.Key, error) {
	segs, err := keyPath(root, path)
	if err != nil {
		return nil, err
	}
	if _, err := h.st.Count(segs); err != nil {
		return nil, fmt.Errorf("opening %s\\%s: %w", root.Short(), path, err)
	}
	return &key{st: h.st, path: segs}, nil
}

// CreateKey creates root\path and any missing parents.
func (h *Hive) CreateKey(root registry.Root, path string) error {
	segs, err := keyPath(root, path)
	if err != nil {
		return err
	}
	return h.st.CreateKey(segs)
}

// DeleteKey removes root\path with everything beneath it.
func (h *Hive) DeleteKey(root registry.Root, path string) error {
	segs, err := keyPath(root, path)
	if err != nil {
		return err
	}
	if len(segs) == 1 {
		return ErrRootKey
	}
	return h.st.DeleteKey(segs)
}

// SetValue writes v under name, replacing any value whose name differs
// only in case.
func (h *Hive) SetValue(root registry.Root, path, name string, v registry.Value) error {
	return h.SetRaw(root, path, name, v.Type, v.Encode())
}

// SetRaw writes an undecoded payload.
func (h *Hive) SetRaw(root registry.Root, path, name string, t registry.Type, data []byte) error {
	segs, err := keyPath(root, path)
	if err != nil {
		return err
	}
	rec := record{name: name, typ: t, data: data}
	return h.st.Put(segs, valueKey(name), rec.marshal())
}

func (h *Hive) DeleteValue(root registry.Root, path, name string) error {
	segs, err := keyPath(root, path)
	if err != nil {
		return err
	}
	return h.st.Remove(segs, valueKey(name))
}

// key is an open hive key. It holds only the path, so it observes every
// change made after it was opened.
type key struct {
	st   store.Store
	path []string
}

func (k *key) ValueCount() (uint32, error) {
	n, err := k.st.Count(k.path)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}

// FetchValue copies the index-th value into name and data. If either is
// too small it reports MoreData with the capacities needed: the name
// capacity includes a terminating NUL.
func (k *key) FetchValue(index uint32, name []uint16, data []byte) registry.Fetch {
	_, raw, err := k.st.At(k.path, int(index))
	if err != nil {
		return registry.Fetch{Status: registry.Failure, Err: err}
	}
	rec, err := unmarshalRecord(raw)
	if err != nil {
		return registry.Fetch{Status: registry.Failure, Err: err}
	}

	units := utf16.Encode([]rune(rec.name))
	if len(units)+1 > len(name) || len(rec.data) > len(data) {
		return registry.Fetch{
			Status:  registry.MoreData,
			NameLen: uint32(len(units) + 1),
			DataLen: uint32(len(rec.data)),
		}
	}

	copy(name, units)
	name[len(units)] = 0
	copy(data, rec.data)
	return registry.Fetch{
		Status:  registry.Success,
		NameLen: uint32(len(units)),
		DataLen: uint32(len(rec.data)),
		Type:    rec.typ,
	}
}

func (k *key) Close() error {
	return nil
}
