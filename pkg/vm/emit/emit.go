// Package emit provides low-level helpers that append Neo VM
// instructions to a pkg/io.BinWriter, the building blocks
// smartcontract.Builder composes into full scripts.
package emit

import (
	"encoding/binary"
	"math/big"

	"github.com/nspcc-dev/neo-go-sdk/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go-sdk/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-go-sdk/pkg/io"
	"github.com/nspcc-dev/neo-go-sdk/pkg/vm/opcode"
)

// Opcode appends a single opcode with no operand.
func Opcode(w *io.BinWriter, op opcode.Opcode) {
	w.WriteB(byte(op))
}

// Instruction appends an opcode followed by a raw operand.
func Instruction(w *io.BinWriter, op opcode.Opcode, operand []byte) {
	w.WriteB(byte(op))
	w.WriteBytes(operand)
}

// Bytes emits the shortest PUSHDATA1/2/4 form that carries b, per
// spec.md §4.3's push_data rule.
func Bytes(w *io.BinWriter, b []byte) {
	n := len(b)
	switch {
	case n < 0x100:
		Instruction(w, opcode.PUSHDATA1, []byte{byte(n)})
	case n < 0x10000:
		lenb := make([]byte, 2)
		binary.LittleEndian.PutUint16(lenb, uint16(n))
		Instruction(w, opcode.PUSHDATA2, lenb)
	default:
		lenb := make([]byte, 4)
		binary.LittleEndian.PutUint32(lenb, uint32(n))
		Instruction(w, opcode.PUSHDATA4, lenb)
	}
	w.WriteBytes(b)
}

// String emits s as UTF-8 push_data.
func String(w *io.BinWriter, s string) {
	Bytes(w, []byte(s))
}

// Int emits n with the smallest encoding that represents it: a single
// PUSHM1/PUSH0..PUSH16 opcode for n in [-1,16], otherwise the matching
// PUSHINT8/16/32/64/128/256 opcode followed by bigint.ToBytes(n)
// zero-padded up to that opcode's fixed size, per spec.md §4.3.
func Int(w *io.BinWriter, n *big.Int) {
	if n.IsInt64() {
		v := n.Int64()
		if v == -1 {
			Opcode(w, opcode.PUSHM1)
			return
		}
		if v >= 0 && v <= 16 {
			Opcode(w, opcode.Opcode(byte(opcode.PUSH0)+byte(v)))
			return
		}
	}
	nbytes := bigint.Sizeof(n)
	sz := bigint.PushIntSize(nbytes)
	b := bigint.ToBytes(n)
	padded := make([]byte, sz)
	copy(padded, b)
	if n.Sign() < 0 {
		for i := len(b); i < sz; i++ {
			padded[i] = 0xff
		}
	}
	op := pushIntOpcodeForSize(sz)
	Instruction(w, op, padded)
}

func pushIntOpcodeForSize(sz int) opcode.Opcode {
	switch sz {
	case 1:
		return opcode.PUSHINT8
	case 2:
		return opcode.PUSHINT16
	case 4:
		return opcode.PUSHINT32
	case 8:
		return opcode.PUSHINT64
	case 16:
		return opcode.PUSHINT128
	default:
		return opcode.PUSHINT256
	}
}

// Bool emits PUSH1/PUSH0 for true/false.
func Bool(w *io.BinWriter, b bool) {
	if b {
		Opcode(w, opcode.PUSH1)
	} else {
		Opcode(w, opcode.PUSH0)
	}
}

// Syscall emits a SYSCALL instruction for the named interop service,
// hashing name to its 4-byte little-endian interop ID the same way the
// protocol's InteropNameToID does.
func Syscall(w *io.BinWriter, name string) {
	id := binary.LittleEndian.Uint32(hash.Sha256([]byte(name)).BytesBE()[:4])
	idb := make([]byte, 4)
	binary.LittleEndian.PutUint32(idb, id)
	Instruction(w, opcode.SYSCALL, idb)
}

// Call emits a 3-byte relative CALL (offset must fit a signed byte for
// the Short form spec.md's Builder uses internally; larger offsets are
// not produced by this SDK's straight-line scripts).
func Call(w *io.BinWriter, offset int8) {
	Instruction(w, opcode.CALL, []byte{byte(offset)})
}

// Array emits n (0..16) PUSHed items followed by PACK, building a Neo
// VM array from the top n stack items in source order.
func Array(w *io.BinWriter, n int) {
	Int(w, big.NewInt(int64(n)))
	Opcode(w, opcode.PACK)
}
