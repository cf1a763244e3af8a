package io

import "bytes"

// BufBinWriter is a BinWriter that writes into an in-memory buffer, with
// convenience accessors for the accumulated bytes. It is the usual way
// to serialize a single Serializable value to a []byte.
type BufBinWriter struct {
	*BinWriter
	buf *bytes.Buffer
}

// NewBufBinWriter creates a BufBinWriter ready to accumulate output.
func NewBufBinWriter() *BufBinWriter {
	b := new(bytes.Buffer)
	return &BufBinWriter{
		BinWriter: NewBinWriterFromIO(b),
		buf:       b,
	}
}

// Len returns the number of bytes written so far.
func (w *BufBinWriter) Len() int {
	return w.buf.Len()
}

// Bytes returns the accumulated bytes. If an error was recorded at any
// point, Bytes returns nil instead, so callers can't accidentally ship a
// partially-written encoding.
func (w *BufBinWriter) Bytes() []byte {
	if w.Err != nil {
		return nil
	}
	b := w.buf.Bytes()
	res := make([]byte, len(b))
	copy(res, b)
	return res
}

// Reset clears the buffer and any recorded error, allowing the writer to
// be reused.
func (w *BufBinWriter) Reset() {
	w.Err = nil
	w.buf.Reset()
}

// ToBytes is a one-shot helper: it encodes s into a fresh BufBinWriter
// and returns the result, or an error if encoding failed.
func ToBytes(s Serializable) ([]byte, error) {
	w := NewBufBinWriter()
	s.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// FromBytes is a one-shot helper: it decodes b into s, returning any
// error encountered.
func FromBytes(b []byte, s Serializable) error {
	r := NewBinReaderFromBuf(b)
	s.DecodeBinary(r)
	return r.Err
}
