package keys

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go-sdk/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go-sdk/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go-sdk/pkg/io"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
	"github.com/nspcc-dev/neo-go-sdk/pkg/vm/emit"
)

// PublicKey is a point on the curve a PrivateKey was generated over,
// the compressed form of which is the public identity used throughout
// the protocol (verification scripts, Signer.Account, NEP-17 transfer
// arguments).
type PublicKey ecdsa.PublicKey

// ErrInvalidKey is returned when a byte string or string does not
// decode to a valid point on the curve.
var ErrInvalidKey = errors.New("keys: invalid public key")

// NewPublicKeyFromBytes decodes a compressed (33-byte) or uncompressed
// (65-byte) SEC1 point, or the single 0x00 byte encoding curve
// infinity.
func NewPublicKeyFromBytes(b []byte, curve elliptic.Curve) (*PublicKey, error) {
	pub := new(PublicKey)
	if err := pub.decodeBytes(b, curve); err != nil {
		return nil, err
	}
	return pub, nil
}

// NewPublicKeyFromString decodes a hex-encoded compressed point, the
// form the protocol uses on the wire (Signer.Account derivation input,
// witness_rule Group conditions, contract manifest ABI parameters).
func NewPublicKeyFromString(s string) (*PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return NewPublicKeyFromBytes(b, secp256r1())
}

func (p *PublicKey) decodeBytes(b []byte, curve elliptic.Curve) error {
	switch len(b) {
	case 1:
		if b[0] != 0x00 {
			return ErrInvalidKey
		}
		p.Curve = curve
		p.X, p.Y = new(big.Int), new(big.Int)
		return nil
	case 33:
		if b[0] != 0x02 && b[0] != 0x03 {
			return ErrInvalidKey
		}
		x := new(big.Int).SetBytes(b[1:])
		y := decompressY(curve, x, b[0] == 0x03)
		if y == nil {
			return ErrInvalidKey
		}
		p.Curve, p.X, p.Y = curve, x, y
		return nil
	case 65:
		if b[0] != 0x04 {
			return ErrInvalidKey
		}
		p.Curve = curve
		p.X = new(big.Int).SetBytes(b[1:33])
		p.Y = new(big.Int).SetBytes(b[33:])
		return nil
	default:
		return ErrInvalidKey
	}
}

// decompressY recovers Y from X and the parity bit for curves of the
// short Weierstrass form y^2 = x^3 + ax + b, a = -3 for both secp256r1
// and secp256k1.
func decompressY(curve elliptic.Curve, x *big.Int, odd bool) *big.Int {
	params := curve.Params()
	p := params.P
	ySq := new(big.Int).Exp(x, big.NewInt(3), p)
	threeX := new(big.Int).Mul(x, big.NewInt(3))
	ySq.Sub(ySq, threeX)
	ySq.Add(ySq, params.B)
	ySq.Mod(ySq, p)
	y := new(big.Int).ModSqrt(ySq, p)
	if y == nil {
		return nil
	}
	if y.Bit(0) != boolToUint(odd) {
		y.Sub(p, y)
	}
	if !curve.IsOnCurve(x, y) {
		return nil
	}
	return y
}

func boolToUint(b bool) uint {
	if b {
		return 1
	}
	return 0
}

// IsInfinity reports whether p is the point at infinity, the
// placeholder PublicKey some manifest/witness encodings allow.
func (p *PublicKey) IsInfinity() bool {
	return p.X == nil || (p.X.Sign() == 0 && p.Y.Sign() == 0)
}

// Equal reports whether p and other encode the same curve point.
func (p *PublicKey) Equal(other *PublicKey) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.IsInfinity() || other.IsInfinity() {
		return p.IsInfinity() == other.IsInfinity()
	}
	return p.X.Cmp(other.X) == 0 && p.Y.Cmp(other.Y) == 0
}

// Bytes returns the compressed SEC1 encoding: a single 0x00 for
// infinity, else 0x02/0x03 prefix plus the 32-byte X coordinate.
func (p *PublicKey) Bytes() []byte {
	if p.IsInfinity() {
		return []byte{0x00}
	}
	b := make([]byte, 33)
	if p.Y.Bit(0) == 0 {
		b[0] = 0x02
	} else {
		b[0] = 0x03
	}
	xb := p.X.Bytes()
	copy(b[33-len(xb):], xb)
	return b
}

// String returns the hex form of Bytes.
func (p *PublicKey) String() string {
	return hex.EncodeToString(p.Bytes())
}

// Address derives the Base58Check address of the single-signature
// verification script this key produces, per spec.md §3.
func (p *PublicKey) Address() string {
	return address.Uint160ToString(p.ScriptHash())
}

// ScriptHash computes hash160 of this key's single-signature
// verification script (PUSHDATA<key> SYSCALL System.Crypto.CheckSig).
func (p *PublicKey) ScriptHash() util.Uint160 {
	return hash.Hash160(p.verificationScript())
}

func (p *PublicKey) verificationScript() []byte {
	buf := new(bytes.Buffer)
	bw := io.NewBinWriterFromIO(buf)
	emit.Bytes(bw, p.Bytes())
	emit.Syscall(bw, "System.Crypto.CheckSig")
	return buf.Bytes()
}

// VerificationScript returns the single-signature verification script
// this key produces, the bytes a wallet Account stores as its
// Contract.Script.
func (p *PublicKey) VerificationScript() []byte {
	return p.verificationScript()
}

// Verify reports whether signature is a valid 64-byte (r||s) ECDSA
// signature by p over msgHash.
func (p *PublicKey) Verify(signature []byte, msgHash []byte) bool {
	if p.X == nil || len(signature) != 64 {
		return false
	}
	r := new(big.Int).SetBytes(signature[:32])
	s := new(big.Int).SetBytes(signature[32:])
	pub := ecdsa.PublicKey(*p)
	return ecdsa.Verify(&pub, msgHash, r, s)
}

// EncodeBinary writes the compressed SEC1 form.
func (p PublicKey) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(p.Bytes())
}

// DecodeBinary reads a compressed, infinity, or uncompressed point,
// mirroring Bytes' variable-length encoding.
func (p *PublicKey) DecodeBinary(r *io.BinReader) {
	prefix := r.ReadB()
	if r.Err != nil {
		return
	}
	var rest []byte
	switch prefix {
	case 0x00:
		rest = nil
	case 0x02, 0x03:
		rest = make([]byte, 32)
		r.ReadBytes(rest)
	case 0x04:
		rest = make([]byte, 64)
		r.ReadBytes(rest)
	default:
		r.Err = ErrInvalidKey
		return
	}
	if r.Err != nil {
		return
	}
	if err := p.decodeBytes(append([]byte{prefix}, rest...), secp256r1()); err != nil {
		r.Err = err
	}
}

// MarshalJSON renders the hex compressed form, quoted.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON parses the hex compressed form.
func (p *PublicKey) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	decoded, err := NewPublicKeyFromString(s)
	if err != nil {
		return err
	}
	*p = *decoded
	return nil
}
