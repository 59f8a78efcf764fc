// Package bencode implements a bidirectional codec for the BitTorrent
// data-interchange format: signed integers, raw byte strings, lists,
// and dictionaries with sorted keys. Decoding and re-encoding a
// canonically encoded input reproduces it byte-for-byte; the info-hash
// itself is taken over the info dictionary's raw input bytes (see
// RawValueForKey), not over a re-encoding.
package bencode

// Kind discriminates the four bencode value shapes.
type Kind int

const (
	// Integer is a signed 64-bit bencode integer.
	Integer Kind = iota
	// ByteString is an arbitrary, not-necessarily-UTF-8 byte sequence.
	ByteString
	// List is an ordered sequence of values.
	List
	// Dict is a mapping from raw byte-string keys to values.
	Dict
)

// Value is a tagged union of the four bencode shapes. Only the field
// matching Kind is meaningful; the others are left at their zero
// value. Bencode strings are modeled as raw bytes, not text — the
// info dictionary's "pieces" field and the tracker's compact "peers"
// field are binary, and treating them as UTF-8 would silently corrupt
// them.
type Value struct {
	Kind Kind

	Int   int64
	Bytes []byte
	List  []*Value
	Dict  map[string]*Value

	// DictOrder preserves the order keys were encountered on decode,
	// so round-tripping a non-canonically-ordered input for display
	// purposes doesn't require re-sorting first. Encoding always
	// ignores this and sorts by raw key bytes.
	DictOrder []string
}

// Str returns the ByteString value as text. It does not validate that
// the bytes are valid UTF-8; callers working with fields that must be
// text (announce URLs, names on UTF-8 filesystems) should treat
// invalid UTF-8 as malformed input themselves.
func (v *Value) Str() string {
	if v == nil {
		return ""
	}
	return string(v.Bytes)
}

// NewInt constructs an Integer value.
func NewInt(n int64) *Value { return &Value{Kind: Integer, Int: n} }

// NewBytes constructs a ByteString value from raw bytes.
func NewBytes(b []byte) *Value { return &Value{Kind: ByteString, Bytes: b} }

// NewString constructs a ByteString value from text.
func NewString(s string) *Value { return &Value{Kind: ByteString, Bytes: []byte(s)} }

// NewList constructs a List value.
func NewList(items ...*Value) *Value { return &Value{Kind: List, List: items} }

// NewDict constructs an empty Dict value.
func NewDict() *Value { return &Value{Kind: Dict, Dict: map[string]*Value{}} }

// Set inserts key/val into a Dict value, recording insertion order.
func (v *Value) Set(key string, val *Value) {
	if _, exists := v.Dict[key]; !exists {
		v.DictOrder = append(v.DictOrder, key)
	}
	v.Dict[key] = val
}
