// Package cursor implements a forward-biased reader over an immutable
// byte slice, with pushback. It backs the bencode decoder, which peeks
// a byte to decide how to parse a value and to find the end of a
// decimal run; the decoder itself never pushes back.
package cursor

// Cursor is a single-consumer view over a borrowed byte slice. It
// performs no allocation and is not safe for concurrent use.
type Cursor struct {
	data []byte
	pos  int
}

// New returns a Cursor positioned at the start of data. The slice is
// borrowed, not copied; callers must not mutate it while the cursor is
// in use.
func New(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Peek returns the byte at the current position without advancing. It
// returns false at end of input.
func (c *Cursor) Peek() (byte, bool) {
	if c.pos >= len(c.data) {
		return 0, false
	}
	return c.data[c.pos], true
}

// Next returns the byte at the current position and advances by one.
// It returns false at end of input.
func (c *Cursor) Next() (byte, bool) {
	b, ok := c.Peek()
	if !ok {
		return 0, false
	}
	c.pos++
	return b, true
}

// PushBack moves the position back by n bytes, saturating at 0.
func (c *Cursor) PushBack(n int) {
	c.pos -= n
	if c.pos < 0 {
		c.pos = 0
	}
}

// Advance moves the position forward by n bytes, saturating at the
// length of the underlying slice.
func (c *Cursor) Advance(n int) {
	c.pos += n
	if c.pos > len(c.data) {
		c.pos = len(c.data)
	}
}

// Position returns the current offset into the underlying slice.
func (c *Cursor) Position() int {
	return c.pos
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Slice returns the raw bytes between from and to, both absolute
// offsets into the underlying slice. It is used to capture the exact
// span a value occupied in the input, which the metainfo package
// needs to hash the info dictionary byte-for-byte.
func (c *Cursor) Slice(from, to int) []byte {
	return c.data[from:to]
}
