package registry

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Type is the tag the store reports alongside a raw value payload.
type Type uint32

const (
	NONE                       Type = 0
	SZ                         Type = 1
	EXPAND_SZ                  Type = 2
	BINARY                     Type = 3
	DWORD                      Type = 4
	DWORD_BIG_ENDIAN           Type = 5
	LINK                       Type = 6
	MULTI_SZ                   Type = 7
	RESOURCE_LIST              Type = 8
	FULL_RESOURCE_DESCRIPTOR   Type = 9
	RESOURCE_REQUIREMENTS_LIST Type = 10
	QWORD                      Type = 11
)

var typeNames = map[Type]string{
	NONE:                       "REG_NONE",
	SZ:                         "REG_SZ",
	EXPAND_SZ:                  "REG_EXPAND_SZ",
	BINARY:                     "REG_BINARY",
	DWORD:                      "REG_DWORD",
	DWORD_BIG_ENDIAN:           "REG_DWORD_BIG_ENDIAN",
	LINK:                       "REG_LINK",
	MULTI_SZ:                   "REG_MULTI_SZ",
	RESOURCE_LIST:              "REG_RESOURCE_LIST",
	FULL_RESOURCE_DESCRIPTOR:   "REG_FULL_RESOURCE_DESCRIPTOR",
	RESOURCE_REQUIREMENTS_LIST: "REG_RESOURCE_REQUIREMENTS_LIST",
	QWORD:                      "REG_QWORD",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "REG_0x" + strconv.FormatUint(uint64(t), 16)
}

// ParseType accepts "REG_SZ", "sz", "dword" and so on, or a bare number.
func ParseType(s string) (Type, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(name, "REG_") {
		name = "REG_" + name
	}
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	if n, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32); err == nil {
		return Type(n), nil
	}
	return NONE, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Value is a decoded registry value. Which field carries the payload
// depends on Type:
//
//	SZ, EXPAND_SZ, LINK      String
//	MULTI_SZ                 Strings
//	DWORD, DWORD_BIG_ENDIAN  Integer (low 32 bits)
//	QWORD                    Integer
//	anything else            Bytes
type Value struct {
	Type    Type
	String  string
	Strings []string
	Integer uint64
	Bytes   []byte
}

func StringValue(s string) Value         { return Value{Type: SZ, String: s} }
func ExpandStringValue(s string) Value   { return Value{Type: EXPAND_SZ, String: s} }
func MultiStringValue(s ...string) Value { return Value{Type: MULTI_SZ, Strings: s} }
func DWordValue(n uint32) Value          { return Value{Type: DWORD, Integer: uint64(n)} }
func QWordValue(n uint64) Value          { return Value{Type: QWORD, Integer: n} }
func BinaryValue(b []byte) Value         { return Value{Type: BINARY, Bytes: b} }

// Equal reports whether v and o carry the same type and payload.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch kindOf(v.Type) {
	case kindString:
		return v.String == o.String
	case kindMulti:
		return slices.Equal(v.Strings, o.Strings)
	case kindInteger:
		return v.Integer == o.Integer
	default:
		return bytes.Equal(v.Bytes, o.Bytes)
	}
}

// Display renders the payload for humans.
func (v Value) Display() string {
	switch kindOf(v.Type) {
	case kindString:
		return v.String
	case kindMulti:
		return strings.Join(v.Strings, `\0`)
	case kindInteger:
		if v.Type == QWORD {
			return fmt.Sprintf("0x%016x (%d)", v.Integer, v.Integer)
		}
		return fmt.Sprintf("0x%08x (%d)", v.Integer, v.Integer)
	default:
		return fmt.Sprintf("%x", v.Bytes)
	}
}

// Encode produces the raw payload the store would hold for v.
func (v Value) Encode() []byte {
	switch kindOf(v.Type) {
	case kindString:
		return encodeUTF16(v.String + "\x00")
	case kindMulti:
		var sb strings.Builder
		for _, s := range v.Strings {
			sb.WriteString(s)
			sb.WriteByte(0)
		}
		sb.WriteByte(0)
		return encodeUTF16(sb.String())
	case kindInteger:
		switch v.Type {
		case DWORD_BIG_ENDIAN:
			return binary.BigEndian.AppendUint32(nil, uint32(v.Integer))
		case QWORD:
			return binary.LittleEndian.AppendUint64(nil, v.Integer)
		default:
			return binary.LittleEndian.AppendUint32(nil, uint32(v.Integer))
		}
	default:
		return bytes.Clone(v.Bytes)
	}
}

// Decode interprets length bytes of raw according to t. It never fails:
// unrecognized tags come back as an opaque byte copy.
func Decode(raw []byte, length uint32, t Type) Value {
	if int(length) < len(raw) {
		raw = raw[:length]
	}
	v := Value{Type: t}
	switch kindOf(t) {
	case kindString:
		v.String, _, _ = strings.Cut(decodeUTF16(raw), "\x00")
	case kindMulti:
		v.Strings = splitMulti(decodeUTF16(raw))
	case kindInteger:
		switch t {
		case DWORD_BIG_ENDIAN:
			var b [4]byte
			copy(b[4-min(4, len(raw)):], raw)
			v.Integer = uint64(binary.BigEndian.Uint32(b[:]))
		case QWORD:
			var b [8]byte
			copy(b[:], raw)
			v.Integer = binary.LittleEndian.Uint64(b[:])
		default:
			var b [4]byte
			copy(b[:], raw)
			v.Integer = uint64(binary.LittleEndian.Uint32(b[:]))
		}
	default:
		v.Bytes = bytes.Clone(raw)
		if v.Bytes == nil {
			v.Bytes = []byte{}
		}
	}
	return v
}

type kind int

const (
	kindBytes kind = iota
	kindString
	kindMulti
	kindInteger
)

func kindOf(t Type) kind {
	switch t {
	case SZ, EXPAND_SZ, LINK:
		return kindString
	case MULTI_SZ:
		return kindMulti
	case DWORD, DWORD_BIG_ENDIAN, QWORD:
		return kindInteger
	default:
		return kindBytes
	}
}

// splitMulti stops at the first empty string, which terminates the list.
func splitMulti(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, "\x00") {
		if part == "" {
			break
		}
		out = append(out, part)
	}
	return out
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

func decodeUTF16(b []byte) string {
	if len(b)%2 == 1 {
		b = b[:len(b)-1]
	}
	out, err := utf16le.NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(out)
}

func encodeUTF16(s string) []byte {
	out, err := utf16le.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil
	}
	return out
}
