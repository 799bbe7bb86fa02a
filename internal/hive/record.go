package hive

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"hivescan/internal/registry"
)

// Record field numbers.
const (
	fieldName protowire.Number = 1
	fieldType protowire.Number = 2
	fieldData protowire.Number = 3
)

var ErrCorruptRecord = errors.New("corrupt value record")

// record is a stored value: the name as written (lookups fold case), the
// type tag and the raw payload.
type record struct {
	name string
	typ  registry.Type
	data []byte
}

func (r record) marshal() []byte {
	b := make([]byte, 0, len(r.name)+len(r.data)+16)
	b = protowire.AppendTag(b, fieldName, protowire.BytesType)
	b = protowire.AppendString(b, r.name)
	b = protowire.AppendTag(b, fieldType, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(r.typ))
	b = protowire.AppendTag(b, fieldData, protowire.BytesType)
	b = protowire.AppendBytes(b, r.data)
	return b
}

// unmarshalRecord skips unknown fields so newer writers stay readable.
func unmarshalRecord(b []byte) (record, error) {
	var r record
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return r, fmt.Errorf("%w: %v", ErrCorruptRecord, protowire.ParseError(n))
		}
		b = b[n:]

		switch {
		case num == fieldName && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			r.name = string(v)
		case num == fieldType && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			if v > 0xFFFFFFFF {
				return r, fmt.Errorf("%w: type tag %d out of range", ErrCorruptRecord, v)
			}
			r.typ = registry.Type(v)
		case num == fieldData && typ == protowire.BytesType:
			var v []byte
			v, n = protowire.ConsumeBytes(b)
			r.data = append([]byte(nil), v...)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return r, fmt.Errorf("%w: %v", ErrCorruptRecord, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return r, nil
}
