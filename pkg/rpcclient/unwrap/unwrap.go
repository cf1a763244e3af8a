// Package unwrap turns the generic stack of a result.Invoke into the
// concrete Go value a contract binding's caller actually wants,
// checking the invocation's VM state and stack shape along the way so
// every binding method doesn't have to repeat that boilerplate.
package unwrap

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go-sdk/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go-sdk/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
	"github.com/nspcc-dev/neo-go-sdk/pkg/vm/stackitem"
)

// ErrNoSessionID is returned when a stack item carries a session
// iterator but the invocation result (or the call site) didn't come
// with a session ID to traverse it with.
var ErrNoSessionID = errors.New("unwrap: no session ID")

// one returns the invocation's sole stack item, failing on a
// propagated error, a FAULT state, or any stack shape but exactly one
// item.
func one(r *result.Invoke, err error) (stackitem.Item, error) {
	return Item(r, err)
}

// Item returns the invocation's sole stack item, failing on a
// propagated error, a FAULT state, or any stack shape but exactly one
// item. It's the building block every other conversion in this
// package is written on top of, exported for binding methods (such as
// a contract's `getAccountState`) whose return shape varies with the
// item's own dynamic type and so can't be funneled through one of the
// fixed-shape helpers below.
func Item(r *result.Invoke, err error) (stackitem.Item, error) {
	if err != nil {
		return nil, err
	}
	if r.State != "HALT" {
		return nil, fmt.Errorf("unwrap: invocation faulted: %s", r.FaultException)
	}
	if len(r.Stack) != 1 {
		return nil, fmt.Errorf("unwrap: expected 1 stack item, got %d", len(r.Stack))
	}
	return r.Stack[0], nil
}

// BigInt unwraps an Integer result.
func BigInt(r *result.Invoke, err error) (*big.Int, error) {
	it, err := one(r, err)
	if err != nil {
		return nil, err
	}
	return stackitem.ToBigInteger(it)
}

// Bool unwraps a Boolean result.
func Bool(r *result.Invoke, err error) (bool, error) {
	it, err := one(r, err)
	if err != nil {
		return false, err
	}
	return stackitem.ToBool(it)
}

// Nothing checks that the invocation succeeded and returned no value,
// the shape of a void contract method.
func Nothing(r *result.Invoke, err error) error {
	if err != nil {
		return err
	}
	if r.State != "HALT" {
		return fmt.Errorf("unwrap: invocation faulted: %s", r.FaultException)
	}
	if len(r.Stack) != 0 {
		return fmt.Errorf("unwrap: expected empty stack, got %d items", len(r.Stack))
	}
	return nil
}

// Int64 unwraps an Integer result that fits in an int64.
func Int64(r *result.Invoke, err error) (int64, error) {
	bi, err := BigInt(r, err)
	if err != nil {
		return 0, err
	}
	if !bi.IsInt64() {
		return 0, fmt.Errorf("unwrap: %s overflows int64", bi)
	}
	return bi.Int64(), nil
}

// LimitedInt64 unwraps an Integer result that fits in an int64 and
// additionally falls within [min, max], the shape of an enum-like or
// otherwise bounded contract return value.
func LimitedInt64(r *result.Invoke, err error, min, max int64) (int64, error) {
	i, err := Int64(r, err)
	if err != nil {
		return 0, err
	}
	if i < min || i > max {
		return 0, fmt.Errorf("unwrap: %d outside of [%d, %d]", i, min, max)
	}
	return i, nil
}

func itemBytes(it stackitem.Item) ([]byte, error) {
	b, err := stackitem.ToBytes(it)
	if err != nil {
		return nil, fmt.Errorf("unwrap: %w", err)
	}
	return b, nil
}

// Bytes unwraps a ByteString/Buffer result.
func Bytes(r *result.Invoke, err error) ([]byte, error) {
	it, err := one(r, err)
	if err != nil {
		return nil, err
	}
	return itemBytes(it)
}

// UTF8String unwraps a ByteString/Buffer result as a UTF-8 string.
func UTF8String(r *result.Invoke, err error) (string, error) {
	b, err := Bytes(r, err)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errors.New("unwrap: invalid UTF-8 string")
	}
	return string(b), nil
}

// PrintableASCIIString unwraps a ByteString/Buffer result as a string
// containing only printable ASCII, the shape NEP-17/NEP-11 symbol and
// name fields are expected to have.
func PrintableASCIIString(r *result.Invoke, err error) (string, error) {
	s, err := UTF8String(r, err)
	if err != nil {
		return "", err
	}
	for _, c := range s {
		if c < 0x20 || c > 0x7e {
			return "", fmt.Errorf("unwrap: non-printable-ASCII string %q", s)
		}
	}
	return s, nil
}

// Uint160 unwraps a ByteString result as a 20-byte script hash.
func Uint160(r *result.Invoke, err error) (util.Uint160, error) {
	it, err := one(r, err)
	if err != nil {
		return util.Uint160{}, err
	}
	return stackitem.ToUint160(it)
}

// Uint256 unwraps a ByteString result as a 32-byte hash.
func Uint256(r *result.Invoke, err error) (util.Uint256, error) {
	it, err := one(r, err)
	if err != nil {
		return util.Uint256{}, err
	}
	return stackitem.ToUint256(it)
}

// PublicKey unwraps a ByteString result as a secp256r1 public key.
func PublicKey(r *result.Invoke, err error) (*keys.PublicKey, error) {
	b, err := Bytes(r, err)
	if err != nil {
		return nil, err
	}
	return keys.NewPublicKeyFromBytes(b, keys.Secp256r1())
}

// SessionIterator unwraps a sole Interop result carrying a session
// iterator, returning the invocation's session ID alongside it. It
// fails if the stack item isn't an iterator or the invocation has no
// session to traverse it with.
func SessionIterator(r *result.Invoke, err error) (uuid.UUID, result.Iterator, error) {
	it, err := one(r, err)
	if err != nil {
		return uuid.Nil, result.Iterator{}, err
	}
	return sessionIteratorFrom(r.Session, it)
}

func sessionIteratorFrom(session uuid.UUID, it stackitem.Item) (uuid.UUID, result.Iterator, error) {
	interop, ok := it.(stackitem.Interop)
	if !ok {
		return uuid.Nil, result.Iterator{}, fmt.Errorf("unwrap: expected Interop, got %s", it.Type())
	}
	iter, ok := interop.Value.(result.Iterator)
	if !ok {
		return uuid.Nil, result.Iterator{}, errors.New("unwrap: interop doesn't carry an iterator")
	}
	if iter.ID == nil || session == uuid.Nil {
		return uuid.Nil, result.Iterator{}, ErrNoSessionID
	}
	return session, iter, nil
}

// ArrayAndSessionIterator unwraps a result whose stack is either a
// sole Array (no session was requested, so the iterator was already
// expanded into it) or an Array followed by a session Interop (the
// shape produced alongside a non-expanded iterator return value when a
// session is active).
func ArrayAndSessionIterator(r *result.Invoke, err error) ([]stackitem.Item, uuid.UUID, result.Iterator, error) {
	if err != nil {
		return nil, uuid.Nil, result.Iterator{}, err
	}
	if r.State != "HALT" {
		return nil, uuid.Nil, result.Iterator{}, fmt.Errorf("unwrap: invocation faulted: %s", r.FaultException)
	}
	switch len(r.Stack) {
	case 1:
		arr, err := stackitem.ToArray(r.Stack[0])
		if err != nil {
			return nil, uuid.Nil, result.Iterator{}, err
		}
		return arr, uuid.Nil, result.Iterator{}, nil
	case 2:
		arr, err := stackitem.ToArray(r.Stack[0])
		if err != nil {
			return nil, uuid.Nil, result.Iterator{}, err
		}
		session, iter, err := sessionIteratorFrom(r.Session, r.Stack[1])
		if err != nil {
			return nil, uuid.Nil, result.Iterator{}, err
		}
		return arr, session, iter, nil
	default:
		return nil, uuid.Nil, result.Iterator{}, fmt.Errorf("unwrap: expected 1 or 2 stack items, got %d", len(r.Stack))
	}
}

// Array unwraps an Array/Struct result as a plain item slice.
func Array(r *result.Invoke, err error) ([]stackitem.Item, error) {
	it, err := one(r, err)
	if err != nil {
		return nil, err
	}
	return stackitem.ToArray(it)
}

// ArrayOfBools unwraps an Array of Boolean items.
func ArrayOfBools(r *result.Invoke, err error) ([]bool, error) {
	arr, err := Array(r, err)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(arr))
	for i, it := range arr {
		b, err := stackitem.ToBool(it)
		if err != nil {
			return nil, fmt.Errorf("unwrap: element %d: %w", i, err)
		}
		out[i] = b
	}
	return out, nil
}

// ArrayOfBigInts unwraps an Array of Integer items.
func ArrayOfBigInts(r *result.Invoke, err error) ([]*big.Int, error) {
	arr, err := Array(r, err)
	if err != nil {
		return nil, err
	}
	out := make([]*big.Int, len(arr))
	for i, it := range arr {
		bi, err := stackitem.ToBigInteger(it)
		if err != nil {
			return nil, fmt.Errorf("unwrap: element %d: %w", i, err)
		}
		out[i] = bi
	}
	return out, nil
}

// ArrayOfBytes unwraps an Array of ByteString/Buffer items.
func ArrayOfBytes(r *result.Invoke, err error) ([][]byte, error) {
	arr, err := Array(r, err)
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(arr))
	for i, it := range arr {
		b, err := itemBytes(it)
		if err != nil {
			return nil, fmt.Errorf("unwrap: element %d: %w", i, err)
		}
		out[i] = b
	}
	return out, nil
}

// ArrayOfUTF8Strings unwraps an Array of ByteString/Buffer items as
// UTF-8 strings.
func ArrayOfUTF8Strings(r *result.Invoke, err error) ([]string, error) {
	arr, err := Array(r, err)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(arr))
	for i, it := range arr {
		b, err := itemBytes(it)
		if err != nil {
			return nil, fmt.Errorf("unwrap: element %d: %w", i, err)
		}
		if !utf8.Valid(b) {
			return nil, fmt.Errorf("unwrap: element %d: invalid UTF-8 string", i)
		}
		out[i] = string(b)
	}
	return out, nil
}

// ArrayOfUint160 unwraps an Array of 20-byte script hashes.
func ArrayOfUint160(r *result.Invoke, err error) ([]util.Uint160, error) {
	arr, err := Array(r, err)
	if err != nil {
		return nil, err
	}
	out := make([]util.Uint160, len(arr))
	for i, it := range arr {
		u, err := stackitem.ToUint160(it)
		if err != nil {
			return nil, fmt.Errorf("unwrap: element %d: %w", i, err)
		}
		out[i] = u
	}
	return out, nil
}

// ArrayOfUint256 unwraps an Array of 32-byte hashes.
func ArrayOfUint256(r *result.Invoke, err error) ([]util.Uint256, error) {
	arr, err := Array(r, err)
	if err != nil {
		return nil, err
	}
	out := make([]util.Uint256, len(arr))
	for i, it := range arr {
		u, err := stackitem.ToUint256(it)
		if err != nil {
			return nil, fmt.Errorf("unwrap: element %d: %w", i, err)
		}
		out[i] = u
	}
	return out, nil
}

// ArrayOfPublicKeys unwraps an Array of secp256r1 public keys.
func ArrayOfPublicKeys(r *result.Invoke, err error) ([]*keys.PublicKey, error) {
	arr, err := Array(r, err)
	if err != nil {
		return nil, err
	}
	out := make([]*keys.PublicKey, len(arr))
	for i, it := range arr {
		b, err := itemBytes(it)
		if err != nil {
			return nil, fmt.Errorf("unwrap: element %d: %w", i, err)
		}
		pk, err := keys.NewPublicKeyFromBytes(b, keys.Secp256r1())
		if err != nil {
			return nil, fmt.Errorf("unwrap: element %d: %w", i, err)
		}
		out[i] = pk
	}
	return out, nil
}

// Map unwraps a Map result.
func Map(r *result.Invoke, err error) (*stackitem.Map, error) {
	it, err := one(r, err)
	if err != nil {
		return nil, err
	}
	m, ok := it.(*stackitem.Map)
	if !ok {
		return nil, fmt.Errorf("unwrap: expected Map, got %s", it.Type())
	}
	return m, nil
}
