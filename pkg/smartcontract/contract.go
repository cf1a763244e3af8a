package smartcontract

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go-sdk/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go-sdk/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go-sdk/pkg/io"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
	"github.com/nspcc-dev/neo-go-sdk/pkg/vm/emit"
	"github.com/nspcc-dev/neo-go-sdk/pkg/vm/opcode"
)

// ErrInvalidSignatureCount is returned by CreateMultiSigRedeemScript
// when m is out of the valid [1,len(pubs)] range, or len(pubs) exceeds
// the protocol's 1024-key multisig cap.
var ErrInvalidSignatureCount = errors.New("smartcontract: invalid multisig signature count")

// CreateSignatureRedeemScript builds the standard single-signature
// verification script for pub: PUSHDATA<pub> SYSCALL CheckSig, per
// spec.md §4.3.
func CreateSignatureRedeemScript(pub *keys.PublicKey) ([]byte, error) {
	buf := new(bytes.Buffer)
	w := io.NewBinWriterFromIO(buf)
	emit.Bytes(w, pub.Bytes())
	emit.Syscall(w, "System.Crypto.CheckSig")
	if w.Err != nil {
		return nil, w.Err
	}
	return buf.Bytes(), nil
}

// CreateMultiSigRedeemScript builds the standard m-of-n verification
// script: PUSH<m> PUSHDATA<pub1>...PUSHDATA<pubn> PUSH<n> SYSCALL
// CheckMultisig, with pubs sorted in their canonical (ascending byte)
// order first, per spec.md §4.3.
func CreateMultiSigRedeemScript(m int, pubs []*keys.PublicKey) ([]byte, error) {
	n := len(pubs)
	if m <= 0 || m > n || n == 0 || n > 1024 {
		return nil, fmt.Errorf("%w: m=%d n=%d", ErrInvalidSignatureCount, m, n)
	}
	sorted := make([]*keys.PublicKey, n)
	copy(sorted, pubs)
	sortPublicKeys(sorted)

	buf := new(bytes.Buffer)
	w := io.NewBinWriterFromIO(buf)
	emit.Int(w, big.NewInt(int64(m)))
	for _, pub := range sorted {
		emit.Bytes(w, pub.Bytes())
	}
	emit.Int(w, big.NewInt(int64(n)))
	emit.Syscall(w, "System.Crypto.CheckMultisig")
	if w.Err != nil {
		return nil, w.Err
	}
	return buf.Bytes(), nil
}

func sortPublicKeys(pubs []*keys.PublicKey) {
	for i := 1; i < len(pubs); i++ {
		for j := i; j > 0 && bytes.Compare(pubs[j-1].Bytes(), pubs[j].Bytes()) > 0; j-- {
			pubs[j-1], pubs[j] = pubs[j], pubs[j-1]
		}
	}
}

// ScriptHash computes the hash160 ScriptHash of an arbitrary script.
func ScriptHash(script []byte) util.Uint160 {
	return hash.Hash160(script)
}

// IsSignatureContract reports whether script matches the standard
// single-signature template byte-for-byte except for the embedded key,
// used to classify a witness's verification script.
func IsSignatureContract(script []byte) bool {
	if len(script) != 35+2+5 {
		return false
	}
	return script[0] == byte(opcode.PUSHDATA1) && script[1] == 33 &&
		script[35] == byte(opcode.SYSCALL)
}

// IsMultiSigContract reports whether script has the shape of the
// standard multisig template (PUSH<m> PUSHDATA33* PUSH<n> SYSCALL),
// without fully parsing it.
func IsMultiSigContract(script []byte) bool {
	if len(script) < 42 {
		return false
	}
	if !isPushIntOp(script[0]) {
		return false
	}
	return script[len(script)-5] == byte(opcode.SYSCALL)
}

func isPushIntOp(b byte) bool {
	return (b >= byte(opcode.PUSH0) && b <= byte(opcode.PUSH16)) || b == byte(opcode.PUSHM1) ||
		b == byte(opcode.PUSHINT8) || b == byte(opcode.PUSHINT16) || b == byte(opcode.PUSHINT32)
}
