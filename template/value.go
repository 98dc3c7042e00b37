package template

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
)

// ValueKind tags the representation held by a Value.
type ValueKind int

const (
	KindBytes ValueKind = iota + 1
	KindInt
	KindBool
)

// String returns the tag name.
func (k ValueKind) String() string {
	switch k {
	case KindBytes:
		return "bytes"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	default:
		return "invalid"
	}
}

// Value is a tagged unlocking-script parameter. The zero Value is invalid.
type Value struct {
	kind ValueKind
	b    []byte
	n    int64
	t    bool
}

// Bytes wraps raw bytes: signatures, keys, hashes and bin data.
func Bytes(b []byte) Value { return Value{kind: KindBytes, b: bytes.Clone(b)} }

// Int wraps a script number.
func Int(n int64) Value { return Value{kind: KindInt, n: n} }

// Bool wraps a boolean.
func Bool(v bool) Value { return Value{kind: KindBool, t: v} }

// Kind returns the value's tag.
func (v Value) Kind() ValueKind { return v.kind }

// AsBytes returns a copy of the byte payload, or nil for other kinds.
func (v Value) AsBytes() []byte { return bytes.Clone(v.b) }

// AsInt returns the integer payload.
func (v Value) AsInt() int64 { return v.n }

// AsBool returns the boolean payload.
func (v Value) AsBool() bool { return v.t }

// String renders the value for logs and errors.
func (v Value) String() string {
	switch v.kind {
	case KindBytes:
		return hex.EncodeToString(v.b)
	case KindInt:
		return strconv.FormatInt(v.n, 10)
	case KindBool:
		return strconv.FormatBool(v.t)
	default:
		return fmt.Sprintf("Value(%d)", int(v.kind))
	}
}

// Params maps slot names to values.
type Params map[string]Value
