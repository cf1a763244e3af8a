// Package util holds the small fixed-size value types shared across the
// codec, crypto and transaction layers: 160-bit script hashes, 256-bit
// block/transaction IDs, and the 8-decimal Fixed8 GAS amount.
package util

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go-sdk/pkg/io"
)

// Uint160Size is the length in bytes of a Uint160.
const Uint160Size = 20

// Uint160 is a 20-byte script hash, stored in wire (little-endian byte)
// order per spec.md §3: Uint160{b0, b1, ..., b19} is the exact byte
// sequence that appears on the wire. String renders it as little-endian
// hex (the wire/"40-char lowercase" form); StringBE/DecodeString render
// and parse the big-endian "0x"-prefixed display form.
type Uint160 [Uint160Size]byte

// Uint160DecodeBytesBE decodes a Uint160 from a big-endian byte slice
// (the byte order a human reads a displayed hash in), reversing it into
// wire order.
func Uint160DecodeBytesBE(b []byte) (u Uint160, err error) {
	if len(b) != Uint160Size {
		return u, fmt.Errorf("expected %d bytes, got %d: %w", Uint160Size, len(b), errInvalidSize)
	}
	for i := 0; i < Uint160Size; i++ {
		u[i] = b[Uint160Size-1-i]
	}
	return u, nil
}

// Uint160DecodeBytes decodes a Uint160 from bytes already in wire
// (little-endian) order, with no reversal.
func Uint160DecodeBytes(b []byte) (u Uint160, err error) {
	if len(b) != Uint160Size {
		return u, fmt.Errorf("expected %d bytes, got %d: %w", Uint160Size, len(b), errInvalidSize)
	}
	copy(u[:], b)
	return u, nil
}

// Uint160DecodeString decodes a Uint160 from its hex string form. A
// leading "0x" is accepted and treated as selecting the big-endian
// display encoding; a bare hex string is treated as already in wire
// (little-endian) order, matching the teacher's DecodeString and the
// JSON UnmarshalJSON leniency.
func Uint160DecodeString(s string) (u Uint160, err error) {
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
		return Uint160DecodeBytesBE(b)
	}
	return Uint160DecodeBytes(b)
}

var errInvalidSize = errors.New("invalid Uint160 size")

// BytesBE returns the big-endian (display-order) byte representation.
func (u Uint160) BytesBE() []byte {
	b := make([]byte, Uint160Size)
	for i := 0; i < Uint160Size; i++ {
		b[i] = u[Uint160Size-1-i]
	}
	return b
}

// BytesLE returns the little-endian (wire-order) byte representation.
func (u Uint160) BytesLE() []byte {
	b := make([]byte, Uint160Size)
	copy(b, u[:])
	return b
}

// String returns the wire-order (little-endian) lowercase hex form with
// no "0x" prefix, per spec.md §3(a).
func (u Uint160) String() string {
	return hex.EncodeToString(u.BytesLE())
}

// StringBE returns the "0x"-prefixed big-endian display form, per
// spec.md §3(b).
func (u Uint160) StringBE() string {
	return "0x" + hex.EncodeToString(u.BytesBE())
}

// Equals reports whether u and o have the same bytes.
func (u Uint160) Equals(o Uint160) bool {
	return u == o
}

// Less provides the lexicographic-on-wire-bytes ordering used when a
// canonical ordering of script hashes is needed (e.g. deduplicating
// allowed-contract lists).
func (u Uint160) Less(o Uint160) bool {
	return bytes.Compare(u[:], o[:]) < 0
}

// MarshalJSON renders the big-endian "0x"-prefixed display form, the
// form every Neo N3 RPC method uses for Uint160 parameters and results.
func (u Uint160) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.StringBE())
}

// UnmarshalJSON accepts either the "0x"-prefixed big-endian form or a
// bare little-endian hex string.
func (u *Uint160) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := Uint160DecodeString(s)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// EncodeBinary writes the 20 wire-order bytes with no length prefix,
// the write_fixed_bytes(b, 20) form from spec.md §4.1.
func (u Uint160) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(u[:])
}

// DecodeBinary reads 20 raw bytes in wire order.
func (u *Uint160) DecodeBinary(r *io.BinReader) {
	r.ReadBytes(u[:])
}
