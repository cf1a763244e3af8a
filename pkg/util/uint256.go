package util

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/nspcc-dev/neo-go-sdk/pkg/io"
)

// Uint256Size is the length in bytes of a Uint256.
const Uint256Size = 32

// Uint256 is a 32-byte hash (a TxId or BlockHash), stored in wire
// (little-endian byte) order. See Uint160 for the display/wire
// convention this mirrors.
type Uint256 [Uint256Size]byte

// Uint256DecodeBytesBE decodes a Uint256 from big-endian (display-order) bytes.
func Uint256DecodeBytesBE(b []byte) (u Uint256, err error) {
	if len(b) != Uint256Size {
		return u, fmt.Errorf("expected %d bytes, got %d: %w", Uint256Size, len(b), errInvalidSize)
	}
	for i := 0; i < Uint256Size; i++ {
		u[i] = b[Uint256Size-1-i]
	}
	return u, nil
}

// Uint256DecodeBytes decodes a Uint256 from wire-order (little-endian) bytes.
func Uint256DecodeBytes(b []byte) (u Uint256, err error) {
	if len(b) != Uint256Size {
		return u, fmt.Errorf("expected %d bytes, got %d: %w", Uint256Size, len(b), errInvalidSize)
	}
	copy(u[:], b)
	return u, nil
}

// Uint256DecodeString decodes a Uint256 from its hex string form,
// following the same "0x" = big-endian display, bare = wire order rule
// as Uint160DecodeString.
func Uint256DecodeString(s string) (u Uint256, err error) {
	be := false
	if len(s) >= 2 && s[0:2] == "0x" {
		s = s[2:]
		be = true
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, fmt.Errorf("%w: %v", errInvalidSize, err)
	}
	if be {
		return Uint256DecodeBytesBE(b)
	}
	return Uint256DecodeBytes(b)
}

// BytesBE returns the big-endian (display-order) byte representation.
func (u Uint256) BytesBE() []byte {
	b := make([]byte, Uint256Size)
	for i := 0; i < Uint256Size; i++ {
		b[i] = u[Uint256Size-1-i]
	}
	return b
}

// BytesLE returns the little-endian (wire-order) byte representation.
func (u Uint256) BytesLE() []byte {
	b := make([]byte, Uint256Size)
	copy(b, u[:])
	return b
}

// String returns the wire-order lowercase hex form, no "0x" prefix.
func (u Uint256) String() string {
	return hex.EncodeToString(u.BytesLE())
}

// StringBE returns the "0x"-prefixed big-endian display form used for
// TxId/BlockHash per spec.md §3.
func (u Uint256) StringBE() string {
	return "0x" + hex.EncodeToString(u.BytesBE())
}

// Equals reports whether u and o have the same bytes.
func (u Uint256) Equals(o Uint256) bool {
	return u == o
}

// Less provides a lexicographic-on-wire-bytes ordering.
func (u Uint256) Less(o Uint256) bool {
	return bytes.Compare(u[:], o[:]) < 0
}

// MarshalJSON renders the "0x"-prefixed big-endian display form.
func (u Uint256) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.StringBE())
}

// UnmarshalJSON accepts either display or wire-order hex.
func (u *Uint256) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := Uint256DecodeString(s)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// EncodeBinary writes the 32 wire-order bytes with no length prefix.
func (u Uint256) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(u[:])
}

// DecodeBinary reads 32 raw bytes in wire order.
func (u *Uint256) DecodeBinary(r *io.BinReader) {
	r.ReadBytes(u[:])
}
