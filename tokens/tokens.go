// Package tokens packs token values into the byte batches carried by
// packets between processes, and reads them back on delivery.
//
// The encoding is a flat sequence of protobuf wire primitives: signed
// integers are zig-zag varints, strings and byte slices are length
// prefixed. A batch carries no schema; the receiving net reads fields in
// the same order the sender wrote them.
package tokens

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrTruncated is returned when a Reader runs out of bytes or meets a
// malformed field.
var ErrTruncated = errors.New("tokens: truncated batch")

// Writer accumulates one batch of serialized tokens.
type Writer struct {
	buf    []byte
	tokens int
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// PutInt appends a signed integer field.
func (w *Writer) PutInt(v int64) {
	w.buf = protowire.AppendVarint(w.buf, protowire.EncodeZigZag(v))
}

// PutUint appends an unsigned integer field.
func (w *Writer) PutUint(v uint64) {
	w.buf = protowire.AppendVarint(w.buf, v)
}

// PutString appends a length-prefixed string field.
func (w *Writer) PutString(s string) {
	w.buf = protowire.AppendString(w.buf, s)
}

// PutBytes appends a length-prefixed byte field.
func (w *Writer) PutBytes(b []byte) {
	w.buf = protowire.AppendBytes(w.buf, b)
}

// EndToken marks the end of one token. A token may span several fields;
// Len reports how many tokens were closed.
func (w *Writer) EndToken() {
	w.tokens++
}

// PutInts writes each value as its own single-field token.
func (w *Writer) PutInts(vs ...int64) {
	for _, v := range vs {
		w.PutInt(v)
		w.EndToken()
	}
}

// Bytes returns the encoded batch. The slice aliases the writer's buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of tokens closed with EndToken.
func (w *Writer) Len() int {
	return w.tokens
}

// Reset empties the writer, keeping its buffer.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.tokens = 0
}

// Reader decodes fields from a batch in write order.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a Reader over b. The reader never modifies b.
func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// Int reads a signed integer field.
func (r *Reader) Int() (int64, error) {
	v, err := r.Uint()
	if err != nil {
		return 0, err
	}
	return protowire.DecodeZigZag(v), nil
}

// Uint reads an unsigned integer field.
func (r *Reader) Uint() (uint64, error) {
	v, n := protowire.ConsumeVarint(r.buf[r.off:])
	if n < 0 {
		return 0, r.fail(n)
	}
	r.off += n
	return v, nil
}

// String reads a length-prefixed string field.
func (r *Reader) String() (string, error) {
	b, err := r.Bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Bytes reads a length-prefixed byte field. The result aliases the
// batch and must not be modified.
func (r *Reader) Bytes() ([]byte, error) {
	v, n := protowire.ConsumeBytes(r.buf[r.off:])
	if n < 0 {
		return nil, r.fail(n)
	}
	r.off += n
	return v, nil
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

func (r *Reader) fail(n int) error {
	return fmt.Errorf("%w at offset %d: %v", ErrTruncated, r.off, protowire.ParseError(n))
}
