package bencode

import (
	"io"
	"sort"
	"strconv"
)

// Encode writes the canonical bencode serialization of v to w and
// returns the number of bytes written. Encoding a well-formed Value
// never fails except on a write error from w; dict keys are always
// emitted in ascending byte-lexicographic order regardless of
// DictOrder, which is what makes the info-hash comparable across
// encoders.
func Encode(w io.Writer, v *Value) (int, error) {
	switch v.Kind {
	case Integer:
		return encodeInt(w, v.Int)
	case ByteString:
		return encodeBytes(w, v.Bytes)
	case List:
		return encodeList(w, v.List)
	case Dict:
		return encodeDict(w, v.Dict)
	default:
		return 0, newErr(ErrInvalidPrefix, 0, "unknown value kind")
	}
}

// Marshal returns the canonical bencode encoding of v as a byte slice.
func Marshal(v *Value) ([]byte, error) {
	var buf countingBuffer
	if _, err := Encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.b, nil
}

type countingBuffer struct{ b []byte }

func (c *countingBuffer) Write(p []byte) (int, error) {
	c.b = append(c.b, p...)
	return len(p), nil
}

func encodeInt(w io.Writer, n int64) (int, error) {
	s := "i" + strconv.FormatInt(n, 10) + "e"
	return io.WriteString(w, s)
}

func encodeBytes(w io.Writer, b []byte) (int, error) {
	prefix := strconv.Itoa(len(b)) + ":"
	n1, err := io.WriteString(w, prefix)
	if err != nil {
		return n1, err
	}
	n2, err := w.Write(b)
	return n1 + n2, err
}

func encodeList(w io.Writer, list []*Value) (int, error) {
	total := 0
	n, err := io.WriteString(w, "l")
	total += n
	if err != nil {
		return total, err
	}
	for _, item := range list {
		n, err := Encode(w, item)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err = io.WriteString(w, "e")
	total += n
	return total, err
}

func encodeDict(w io.Writer, dict map[string]*Value) (int, error) {
	keys := make([]string, 0, len(dict))
	for k := range dict {
		keys = append(keys, k)
	}
	sort.Strings(keys) // raw byte-lexicographic order, matches ASCII key comparison

	total := 0
	n, err := io.WriteString(w, "d")
	total += n
	if err != nil {
		return total, err
	}
	for _, k := range keys {
		n, err := encodeBytes(w, []byte(k))
		total += n
		if err != nil {
			return total, err
		}
		n, err = Encode(w, dict[k])
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err = io.WriteString(w, "e")
	total += n
	return total, err
}
