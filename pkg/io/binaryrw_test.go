package io

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadWriteFixedWidth(t *testing.T) {
	w := NewBufBinWriter()
	w.WriteB(0xab)
	w.WriteBool(true)
	w.WriteBool(false)
	w.WriteU16LE(0x1234)
	w.WriteU16BE(0x1234)
	w.WriteU32LE(0xdeadbeef)
	w.WriteU64LE(0x0102030405060708)
	w.WriteI64LE(-1)
	require.NoError(t, w.Err)

	r := NewBinReaderFromBuf(w.Bytes())
	require.Equal(t, byte(0xab), r.ReadB())
	require.Equal(t, true, r.ReadBool())
	require.Equal(t, false, r.ReadBool())
	require.Equal(t, uint16(0x1234), r.ReadU16LE())
	require.Equal(t, uint16(0x1234), r.ReadU16BE())
	require.Equal(t, uint32(0xdeadbeef), r.ReadU32LE())
	require.Equal(t, uint64(0x0102030405060708), r.ReadU64LE())
	require.Equal(t, int64(-1), r.ReadI64LE())
	require.NoError(t, r.Err)
}

func TestReadBytes(t *testing.T) {
	w := NewBufBinWriter()
	w.WriteBytes([]byte("hello"))
	r := NewBinReaderFromBuf(w.Bytes())
	buf := make([]byte, 5)
	r.ReadBytes(buf)
	require.NoError(t, r.Err)
	require.Equal(t, []byte("hello"), buf)
}

func TestReadBytesTruncated(t *testing.T) {
	r := NewBinReaderFromBuf([]byte{1, 2})
	buf := make([]byte, 5)
	r.ReadBytes(buf)
	require.ErrorIs(t, r.Err, ErrTruncated)
}

func TestVarUintRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 0xfc, 0xfd, 0xffff, 0x10000, 0xffffffff, 0x100000000, ^uint64(0)}
	for _, n := range cases {
		w := NewBufBinWriter()
		w.WriteVarUint(n)
		require.NoError(t, w.Err)
		r := NewBinReaderFromBuf(w.Bytes())
		require.Equal(t, n, r.ReadVarUint())
		require.NoError(t, r.Err)
	}
}

func TestVarUintNonCanonical(t *testing.T) {
	// 0xfd prefix followed by a u16 value that fits in one byte (<0xfd)
	// is a non-canonical, over-long encoding and must be rejected.
	r := NewBinReaderFromBuf([]byte{0xfd, 0x01, 0x00})
	r.ReadVarUint()
	require.ErrorIs(t, r.Err, ErrMalformedInput)
}

func TestVarUintNonCanonical32(t *testing.T) {
	r := NewBinReaderFromBuf([]byte{0xfe, 0xff, 0xff, 0x00, 0x00})
	r.ReadVarUint()
	require.ErrorIs(t, r.Err, ErrMalformedInput)
}

func TestVarUintNonCanonical64(t *testing.T) {
	r := NewBinReaderFromBuf([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00})
	r.ReadVarUint()
	require.ErrorIs(t, r.Err, ErrMalformedInput)
}

func TestVarBytesRoundTrip(t *testing.T) {
	w := NewBufBinWriter()
	w.WriteVarBytes([]byte("neo n3"))
	r := NewBinReaderFromBuf(w.Bytes())
	require.Equal(t, []byte("neo n3"), r.ReadVarBytes())
	require.NoError(t, r.Err)
}

func TestVarBytesExceedsMaxSize(t *testing.T) {
	w := NewBufBinWriter()
	w.WriteVarBytes(make([]byte, 10))
	r := NewBinReaderFromBuf(w.Bytes())
	r.ReadVarBytes(5)
	require.ErrorIs(t, r.Err, ErrMalformedInput)
}

func TestStringRoundTrip(t *testing.T) {
	w := NewBufBinWriter()
	w.WriteString("neo-go-sdk")
	r := NewBinReaderFromBuf(w.Bytes())
	require.Equal(t, "neo-go-sdk", r.ReadString())
	require.NoError(t, r.Err)
}

func TestStickyReaderError(t *testing.T) {
	r := NewBinReaderFromBuf([]byte{})
	r.ReadB()
	require.Error(t, r.Err)
	// Further reads are no-ops once an error is recorded, not panics.
	require.Equal(t, uint16(0), r.ReadU16LE())
	require.Equal(t, uint64(0), r.ReadVarUint())
}

func TestStickyWriterError(t *testing.T) {
	w := NewBufBinWriter()
	sentinel := ErrTruncated
	w.SetError(sentinel)
	w.WriteB(1)
	require.Equal(t, sentinel, w.Err)
	// SetError does not overwrite an already-recorded error.
	w.SetError(ErrMalformedInput)
	require.Equal(t, sentinel, w.Err)
}

type fixedRecord struct {
	A uint32
	B byte
}

func (f *fixedRecord) EncodeBinary(w *BinWriter) {
	w.WriteU32LE(f.A)
	w.WriteB(f.B)
}

func (f *fixedRecord) DecodeBinary(r *BinReader) {
	f.A = r.ReadU32LE()
	f.B = r.ReadB()
}

func TestWriteReadArray(t *testing.T) {
	records := []*fixedRecord{{A: 1, B: 2}, {A: 3, B: 4}, {A: 5, B: 6}}
	w := NewBufBinWriter()
	WriteArray(w.BinWriter, records)
	require.NoError(t, w.Err)

	r := NewBinReaderFromBuf(w.Bytes())
	decoded := ReadArray(r, func() *fixedRecord { return new(fixedRecord) })
	require.NoError(t, r.Err)
	require.Equal(t, records, decoded)
}

func TestReadArrayTooBig(t *testing.T) {
	w := NewBufBinWriter()
	w.WriteVarUint(10)
	r := NewBinReaderFromBuf(w.Bytes())
	ReadArray(r, func() *fixedRecord { return new(fixedRecord) }, 5)
	require.ErrorIs(t, r.Err, ErrArrayTooBig)
}

func TestToFromBytes(t *testing.T) {
	rec := &fixedRecord{A: 42, B: 7}
	b, err := ToBytes(rec)
	require.NoError(t, err)

	decoded := new(fixedRecord)
	require.NoError(t, FromBytes(b, decoded))
	require.Equal(t, rec, decoded)
}
