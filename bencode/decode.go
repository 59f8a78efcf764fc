package bencode

import (
	"torrentcore/cursor"
)

const (
	dictPrefix  = 'd'
	listPrefix  = 'l'
	intPrefix   = 'i'
	terminator  = 'e'
	strDelim    = ':'
	minus       = '-'
	zero        = '0'
	nine        = '9'
)

// Decode parses a single bencode value from the start of data and
// returns it along with the number of bytes consumed. Trailing bytes
// past the value are not an error — callers that require the whole
// buffer to be exactly one value should compare the returned count to
// len(data) themselves.
func Decode(data []byte) (*Value, int, error) {
	cur := cursor.New(data)
	v, err := decodeValue(cur)
	if err != nil {
		return nil, cur.Position(), err
	}
	return v, cur.Position(), nil
}

func decodeValue(cur *cursor.Cursor) (*Value, error) {
	b, ok := cur.Peek()
	if !ok {
		return nil, newErr(ErrUnexpectedEOF, cur.Position(), "expected value")
	}
	switch {
	case b == dictPrefix:
		return decodeDict(cur)
	case b == listPrefix:
		return decodeList(cur)
	case b == intPrefix:
		return decodeInt(cur)
	case b >= zero && b <= nine:
		return decodeString(cur)
	default:
		return nil, newErr(ErrInvalidPrefix, cur.Position(), string(b))
	}
}

func decodeDict(cur *cursor.Cursor) (*Value, error) {
	cur.Advance(1) // 'd'
	v := NewDict()
	seen := map[string]bool{}
	for {
		b, ok := cur.Peek()
		if !ok {
			return nil, newErr(ErrUnexpectedEOF, cur.Position(), "unterminated dict")
		}
		if b == terminator {
			cur.Advance(1)
			return v, nil
		}
		keyVal, err := decodeString(cur)
		if err != nil {
			return nil, err
		}
		key := keyVal.Str()
		// Ordering is not enforced on decode, only on encode; a
		// repeated key is malformed either way.
		if seen[key] {
			return nil, newErr(ErrDuplicateKey, cur.Position(), key)
		}
		seen[key] = true

		val, err := decodeValue(cur)
		if err != nil {
			return nil, err
		}
		v.Set(key, val)
	}
}

func decodeList(cur *cursor.Cursor) (*Value, error) {
	cur.Advance(1) // 'l'
	v := &Value{Kind: List}
	for {
		b, ok := cur.Peek()
		if !ok {
			return nil, newErr(ErrUnexpectedEOF, cur.Position(), "unterminated list")
		}
		if b == terminator {
			cur.Advance(1)
			return v, nil
		}
		item, err := decodeValue(cur)
		if err != nil {
			return nil, err
		}
		v.List = append(v.List, item)
	}
}

func decodeInt(cur *cursor.Cursor) (*Value, error) {
	cur.Advance(1) // 'i'
	n, err := readDecimal(cur, true)
	if err != nil {
		return nil, err
	}
	b, ok := cur.Next()
	if !ok {
		return nil, newErr(ErrUnexpectedEOF, cur.Position(), "unterminated integer")
	}
	if b != terminator {
		return nil, newErr(ErrInvalidInteger, cur.Position(), "missing terminating 'e'")
	}
	return NewInt(n), nil
}

func decodeString(cur *cursor.Cursor) (*Value, error) {
	n, err := readDecimal(cur, false)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, newErr(ErrMissingColon, cur.Position(), "negative string length")
	}
	b, ok := cur.Next()
	if !ok {
		return nil, newErr(ErrUnexpectedEOF, cur.Position(), "expected colon")
	}
	if b != strDelim {
		return nil, newErr(ErrMissingColon, cur.Position(), string(b))
	}
	buf := make([]byte, n)
	for i := int64(0); i < n; i++ {
		c, ok := cur.Next()
		if !ok {
			return nil, newErr(ErrUnexpectedEOF, cur.Position(), "truncated string payload")
		}
		buf[i] = c
	}
	return NewBytes(buf), nil
}

// readDecimal reads a run of ASCII digits, optionally signed when
// allowSign is true (used for 'i'-prefixed integers; string length
// prefixes are never signed). It rejects leading zeros (except the
// literal "0"), a lone sign with no digits, and "-0".
func readDecimal(cur *cursor.Cursor, allowSign bool) (int64, error) {
	start := cur.Position()
	neg := false
	if allowSign {
		if b, ok := cur.Peek(); ok && b == minus {
			neg = true
			cur.Advance(1)
		}
	}

	firstDigitPos := cur.Position()
	b, ok := cur.Next()
	if !ok {
		return 0, newErr(ErrUnexpectedEOF, cur.Position(), "expected digit")
	}
	if b < zero || b > nine {
		return 0, newErr(ErrInvalidInteger, start, "no digits")
	}

	digits := []byte{b}
	for {
		b, ok := cur.Peek()
		if !ok || b < zero || b > nine {
			break
		}
		digits = append(digits, b)
		cur.Advance(1)
	}

	if len(digits) > 1 && digits[0] == zero {
		return 0, newErr(ErrInvalidInteger, firstDigitPos, "leading zero")
	}
	if neg && digits[0] == zero {
		return 0, newErr(ErrInvalidInteger, start, "negative zero")
	}

	var n int64
	for _, d := range digits {
		n = n*10 + int64(d-zero)
	}
	if neg {
		n = -n
	}
	return n, nil
}

// RawValueForKey scans a top-level bencode dict in data and returns
// the exact raw bytes spanning key's value, as it appeared in the
// input — not a re-encoding. This is the byte-range-capture strategy:
// it lets the metainfo package compute a correct info-hash without
// requiring the decoder to preserve every unknown key verbatim. found
// is false if the dict has no such key; data that does not start with
// a dict, or is malformed before key is reached, yields an error.
func RawValueForKey(data []byte, key string) (raw []byte, found bool, err error) {
	cur := cursor.New(data)
	b, ok := cur.Peek()
	if !ok {
		return nil, false, newErr(ErrUnexpectedEOF, 0, "empty input")
	}
	if b != dictPrefix {
		return nil, false, newErr(ErrInvalidPrefix, 0, "expected top-level dict")
	}
	cur.Advance(1)

	for {
		b, ok := cur.Peek()
		if !ok {
			return nil, false, newErr(ErrUnexpectedEOF, cur.Position(), "unterminated dict")
		}
		if b == terminator {
			return nil, false, nil
		}
		keyVal, err := decodeString(cur)
		if err != nil {
			return nil, false, err
		}
		valStart := cur.Position()
		if _, err := decodeValue(cur); err != nil {
			return nil, false, err
		}
		valEnd := cur.Position()
		if keyVal.Str() == key {
			return cur.Slice(valStart, valEnd), true, nil
		}
	}
}
