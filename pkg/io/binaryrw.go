// Package io provides neo-go-sdk's binary codec: little-endian fixed-width
// integers, canonical variable-length integers and byte strings, and the
// Serializable plumbing used by every wire type in the SDK.
package io

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// MaxArraySize is the default cap on the number of elements ReadArray
// will accept, guarding decoders against adversarial length prefixes.
const MaxArraySize = 0x1000000

// Errors returned by the codec. ErrMalformedInput covers a non-canonical
// var_int or any other input that is syntactically wrong; ErrTruncated
// covers a read past the end of the buffer.
var (
	ErrMalformedInput = errors.New("malformed input")
	ErrTruncated      = errors.New("truncated input")
	ErrArrayTooBig    = errors.New("array is too big")
)

// BinReader reads fixed- and variable-width values from an underlying
// io.Reader. Every Read* method is sticky: once Err is non-nil, all
// further reads are no-ops that return the zero value, so callers can
// chain a sequence of reads and check Err exactly once at the end.
type BinReader struct {
	r   io.Reader
	Err error
}

// NewBinReaderFromIO creates a BinReader reading from an arbitrary
// io.Reader.
func NewBinReaderFromIO(ior io.Reader) *BinReader {
	return &BinReader{r: ior}
}

// NewBinReaderFromBuf creates a BinReader over an in-memory byte slice.
func NewBinReaderFromBuf(b []byte) *BinReader {
	return NewBinReaderFromIO(bytes.NewReader(b))
}

// Error returns the sticky error, if any.
func (r *BinReader) Error() error { return r.Err }

func (r *BinReader) fail(err error) {
	if r.Err == nil {
		r.Err = err
	}
}

func (r *BinReader) readN(n int) []byte {
	if r.Err != nil {
		return nil
	}
	buf := make([]byte, n)
	if n == 0 {
		return buf
	}
	_, err := io.ReadFull(r.r, buf)
	if err != nil {
		r.fail(ErrTruncated)
		return nil
	}
	return buf
}

// ReadB reads a single byte.
func (r *BinReader) ReadB() byte {
	b := r.readN(1)
	if r.Err != nil {
		return 0
	}
	return b[0]
}

// ReadBool reads a single byte as a boolean (nonzero is true).
func (r *BinReader) ReadBool() bool {
	return r.ReadB() != 0
}

// ReadU16LE reads a little-endian uint16.
func (r *BinReader) ReadU16LE() uint16 {
	b := r.readN(2)
	if r.Err != nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// ReadU16BE reads a big-endian uint16.
func (r *BinReader) ReadU16BE() uint16 {
	b := r.readN(2)
	if r.Err != nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

// ReadU32LE reads a little-endian uint32.
func (r *BinReader) ReadU32LE() uint32 {
	b := r.readN(4)
	if r.Err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// ReadU64LE reads a little-endian uint64.
func (r *BinReader) ReadU64LE() uint64 {
	b := r.readN(8)
	if r.Err != nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// ReadI64LE reads a little-endian int64.
func (r *BinReader) ReadI64LE() int64 {
	return int64(r.ReadU64LE())
}

// ReadBytes reads exactly len(buf) bytes into buf.
func (r *BinReader) ReadBytes(buf []byte) {
	if r.Err != nil || len(buf) == 0 {
		return
	}
	_, err := io.ReadFull(r.r, buf)
	if err != nil {
		r.fail(ErrTruncated)
	}
}

// ReadVarUint reads a canonical variable-length unsigned integer per
// spec.md §4.1: n<0xFD is a single byte, 0xFD+u16, 0xFE+u32, or 0xFF+u64.
// A non-canonical (over-long) encoding is rejected with ErrMalformedInput.
func (r *BinReader) ReadVarUint() uint64 {
	b := r.ReadB()
	if r.Err != nil {
		return 0
	}
	switch b {
	case 0xfd:
		v := uint64(r.ReadU16LE())
		if r.Err == nil && v < 0xfd {
			r.fail(ErrMalformedInput)
			return 0
		}
		return v
	case 0xfe:
		v := uint64(r.ReadU32LE())
		if r.Err == nil && v <= 0xffff {
			r.fail(ErrMalformedInput)
			return 0
		}
		return v
	case 0xff:
		v := r.ReadU64LE()
		if r.Err == nil && v <= 0xffffffff {
			r.fail(ErrMalformedInput)
			return 0
		}
		return v
	default:
		return uint64(b)
	}
}

// ReadVarBytes reads a var_int length prefix followed by that many
// bytes. An optional maxSize caps the accepted length.
func (r *BinReader) ReadVarBytes(maxSize ...int) []byte {
	n := r.ReadVarUint()
	if r.Err != nil {
		return []byte{}
	}
	max := uint64(MaxArraySize)
	if len(maxSize) > 0 {
		max = uint64(maxSize[0])
	}
	if n > max {
		r.fail(ErrMalformedInput)
		return []byte{}
	}
	b := r.readN(int(n))
	if r.Err != nil {
		return []byte{}
	}
	return b
}

// ReadString reads a var_bytes-framed UTF-8 string.
func (r *BinReader) ReadString(maxSize ...int) string {
	return string(r.ReadVarBytes(maxSize...))
}

// BinWriter writes fixed- and variable-width values to an underlying
// io.Writer. Every Write* method is sticky in the same way BinReader's
// Read* methods are: once an error has been recorded, further writes are
// no-ops.
type BinWriter struct {
	w   io.Writer
	Err error
}

// NewBinWriterFromIO creates a BinWriter writing to an arbitrary io.Writer.
func NewBinWriterFromIO(iow io.Writer) *BinWriter {
	return &BinWriter{w: iow}
}

// Error returns the sticky error, if any.
func (w *BinWriter) Error() error { return w.Err }

// SetError injects an error, useful for tests and for short-circuiting
// a writer that has observed an invariant violation upstream.
func (w *BinWriter) SetError(err error) {
	if w.Err == nil {
		w.Err = err
	}
}

func (w *BinWriter) writeN(b []byte) {
	if w.Err != nil {
		return
	}
	_, err := w.w.Write(b)
	if err != nil {
		w.Err = err
	}
}

// WriteB writes a single byte.
func (w *BinWriter) WriteB(b byte) {
	w.writeN([]byte{b})
}

// WriteBool writes a single byte, 1 for true and 0 for false.
func (w *BinWriter) WriteBool(b bool) {
	if b {
		w.WriteB(1)
	} else {
		w.WriteB(0)
	}
}

// WriteU16LE writes a little-endian uint16.
func (w *BinWriter) WriteU16LE(u16 uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], u16)
	w.writeN(b[:])
}

// WriteU16BE writes a big-endian uint16.
func (w *BinWriter) WriteU16BE(u16 uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], u16)
	w.writeN(b[:])
}

// WriteU32LE writes a little-endian uint32.
func (w *BinWriter) WriteU32LE(u32 uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], u32)
	w.writeN(b[:])
}

// WriteU64LE writes a little-endian uint64.
func (w *BinWriter) WriteU64LE(u64 uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], u64)
	w.writeN(b[:])
}

// WriteI64LE writes a little-endian int64.
func (w *BinWriter) WriteI64LE(i64 int64) {
	w.WriteU64LE(uint64(i64))
}

// WriteBytes writes b verbatim, with no length prefix.
func (w *BinWriter) WriteBytes(b []byte) {
	w.writeN(b)
}

// WriteVarUint writes n using the canonical shortest-form encoding from
// spec.md §4.1.
func (w *BinWriter) WriteVarUint(n uint64) {
	switch {
	case n < 0xfd:
		w.WriteB(byte(n))
	case n <= 0xffff:
		w.WriteB(0xfd)
		w.WriteU16LE(uint16(n))
	case n <= 0xffffffff:
		w.WriteB(0xfe)
		w.WriteU32LE(uint32(n))
	default:
		w.WriteB(0xff)
		w.WriteU64LE(n)
	}
}

// WriteVarBytes writes a var_int length prefix followed by b.
func (w *BinWriter) WriteVarBytes(b []byte) {
	w.WriteVarUint(uint64(len(b)))
	w.WriteBytes(b)
}

// WriteString writes s as var_bytes-framed UTF-8.
func (w *BinWriter) WriteString(s string) {
	w.WriteVarBytes([]byte(s))
}

