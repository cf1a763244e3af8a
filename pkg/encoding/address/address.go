// Package address converts between Neo N3 Base58Check addresses and
// ScriptHashes (util.Uint160), per spec.md §3's address/ScriptHash
// duality.
package address

import (
	"errors"

	"github.com/nspcc-dev/neo-go-sdk/pkg/encoding/base58"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// Prefix is the Neo N3 mainnet/testnet address version byte. The
// original Neo2 prefix was 0x17; N3 moved to 0x35.
const Prefix byte = 0x35

// ErrInvalidVersion is returned by StringToUint160 when the decoded
// address carries a version byte other than Prefix.
var ErrInvalidVersion = errors.New("address: invalid version byte")

// Uint160ToString encodes a ScriptHash as a Base58Check address: the
// version byte followed by the 20 BE bytes of the hash, checksummed.
func Uint160ToString(u util.Uint160) string {
	b := make([]byte, 0, 21)
	b = append(b, Prefix)
	b = append(b, u.BytesBE()...)
	return base58.CheckEncode(b)
}

// StringToUint160 decodes a Base58Check address back into its
// ScriptHash, verifying the version byte and the embedded checksum.
func StringToUint160(s string) (util.Uint160, error) {
	b, err := base58.CheckDecode(s)
	if err != nil {
		return util.Uint160{}, err
	}
	if len(b) != 1+util.Uint160Size {
		return util.Uint160{}, errors.New("address: wrong decoded length")
	}
	if b[0] != Prefix {
		return util.Uint160{}, ErrInvalidVersion
	}
	return util.Uint160DecodeBytesBE(b[1:])
}
