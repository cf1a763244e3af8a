// Package base58 implements Base58 and Base58Check encoding atop
// mr-tron/base58, the same alphabet codec the teacher depends on for
// addresses, WIF and NEP-2.
package base58

import (
	"crypto/sha256"
	"errors"

	"github.com/mr-tron/base58"
)

// ErrInvalidChecksum is returned by CheckDecode when the trailing 4-byte
// checksum does not match sha256(sha256(payload)).
var ErrInvalidChecksum = errors.New("base58: invalid checksum")

// ErrTooShort is returned by CheckDecode when the decoded data is
// shorter than the 4-byte checksum it is supposed to carry.
var ErrTooShort = errors.New("base58: decoded data too short to hold a checksum")

// Encode encodes b as plain Base58, no checksum.
func Encode(b []byte) string {
	return base58.Encode(b)
}

// Decode decodes a plain Base58 string, no checksum.
func Decode(s string) ([]byte, error) {
	return base58.Decode(s)
}

// CheckEncode appends the first 4 bytes of sha256(sha256(data)) to data
// and Base58-encodes the result, per spec.md §3's Base58Check.
func CheckEncode(data []byte) string {
	return Encode(append(append([]byte{}, data...), checksum(data)...))
}

// CheckDecode reverses CheckEncode, verifying the checksum. A checksum
// mismatch is a hard error (spec.md §3).
func CheckDecode(s string) ([]byte, error) {
	b, err := Decode(s)
	if err != nil {
		return nil, err
	}
	if len(b) < 4 {
		return nil, ErrTooShort
	}
	data, csum := b[:len(b)-4], b[len(b)-4:]
	want := checksum(data)
	for i := range want {
		if want[i] != csum[i] {
			return nil, ErrInvalidChecksum
		}
	}
	return data, nil
}

func checksum(data []byte) []byte {
	s1 := sha256.Sum256(data)
	s2 := sha256.Sum256(s1[:])
	out := make([]byte, 4)
	copy(out, s2[:4])
	return out
}
