// Package hash implements the hashing chains used throughout the SDK:
// SHA-256, RIPEMD-160, their composition into the Neo "hash160" and
// "hash256" functions, and the NEP-2/address checksum.
package hash

import (
	"crypto/sha256"

	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // RIPEMD-160 is load-bearing for Neo script hashes, not a choice we get to make.
)

// Sha256 returns the SHA-256 digest of b as a Uint256.
func Sha256(b []byte) util.Uint256 {
	h := sha256.Sum256(b)
	u, _ := util.Uint256DecodeBytes(h[:])
	return u
}

// RipeMD160 returns the RIPEMD-160 digest of b as a Uint160.
func RipeMD160(b []byte) util.Uint160 {
	h := ripemd160.New()
	h.Write(b)
	sum := h.Sum(nil)
	u, _ := util.Uint160DecodeBytes(sum)
	return u
}

// Sha256RipeMD160 computes ripemd160(sha256(b)), the chain spec.md §3
// uses (reversed) to turn a verification script into a ScriptHash.
func Sha256RipeMD160(b []byte) util.Uint160 {
	s := sha256.Sum256(b)
	return RipeMD160(s[:])
}

// Hash256 computes sha256(sha256(b)), used for the transaction signing
// digest and the Base58Check/NEF checksums.
func Hash256(b []byte) util.Uint256 {
	s1 := sha256.Sum256(b)
	s2 := sha256.Sum256(s1[:])
	u, _ := util.Uint256DecodeBytes(s2[:])
	return u
}

// Hash160 is an alias for Sha256RipeMD160, the script-hash chain from a
// contract's script.
func Hash160(b []byte) util.Uint160 {
	return Sha256RipeMD160(b)
}

// Checksum returns the first 4 bytes of the raw sha256(sha256(b))
// digest, the checksum appended by Base58Check and by the NEF file
// format.
func Checksum(b []byte) []byte {
	s1 := sha256.Sum256(b)
	s2 := sha256.Sum256(s1[:])
	out := make([]byte, 4)
	copy(out, s2[:4])
	return out
}
