package smartcontract

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go-sdk/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go-sdk/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// Parameter is a single tagged argument or return value exchanged with
// a contract invocation: the type tag selects how Value is encoded on
// the RPC wire (base64 for ByteArray/Signature, decimal string for
// Integer, etc.) per spec.md §6.
type Parameter struct {
	Type  ParamType   `json:"type"`
	Value interface{} `json:"value,omitempty"`
}

// NewParameter builds a Parameter pairing an explicit type with value.
func NewParameter(t ParamType, v interface{}) Parameter {
	return Parameter{Type: t, Value: v}
}

// BoolParam builds a BoolType Parameter.
func BoolParam(v bool) Parameter { return NewParameter(BoolType, v) }

// IntParam builds an IntegerType Parameter from an int64.
func IntParam(v int64) Parameter { return NewParameter(IntegerType, big.NewInt(v)) }

// BigIntParam builds an IntegerType Parameter from an arbitrary-precision value.
func BigIntParam(v *big.Int) Parameter { return NewParameter(IntegerType, v) }

// StringParam builds a StringType Parameter.
func StringParam(v string) Parameter { return NewParameter(StringType, v) }

// BytesParam builds a ByteArrayType Parameter.
func BytesParam(v []byte) Parameter { return NewParameter(ByteArrayType, v) }

// Hash160Param builds a Hash160Type Parameter.
func Hash160Param(v util.Uint160) Parameter { return NewParameter(Hash160Type, v) }

// Hash256Param builds a Hash256Type Parameter.
func Hash256Param(v util.Uint256) Parameter { return NewParameter(Hash256Type, v) }

// PublicKeyParam builds a PublicKeyType Parameter.
func PublicKeyParam(v *keys.PublicKey) Parameter { return NewParameter(PublicKeyType, v) }

// ArrayParam builds an ArrayType Parameter from a slice of Parameters.
func ArrayParam(v []Parameter) Parameter { return NewParameter(ArrayType, v) }

// rawParameter mirrors Parameter but with Value left as json.RawMessage
// so unmarshaling can dispatch on Type first.
type rawParameter struct {
	Type  ParamType       `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON renders Value in the wire encoding its Type dictates.
func (p Parameter) MarshalJSON() ([]byte, error) {
	raw := rawParameter{Type: p.Type}
	var (
		v   interface{}
		err error
	)
	switch p.Type {
	case ByteArrayType, SignatureType:
		b, ok := p.Value.([]byte)
		if !ok {
			return nil, fmt.Errorf("smartcontract: %s value must be []byte", p.Type)
		}
		v = base64.StdEncoding.EncodeToString(b)
	case PublicKeyType:
		pk, ok := p.Value.(*keys.PublicKey)
		if !ok {
			return nil, fmt.Errorf("smartcontract: %s value must be *keys.PublicKey", p.Type)
		}
		v = hex.EncodeToString(pk.Bytes())
	case Hash160Type:
		h, ok := p.Value.(util.Uint160)
		if !ok {
			return nil, fmt.Errorf("smartcontract: %s value must be util.Uint160", p.Type)
		}
		v = h.StringBE()
	case Hash256Type:
		h, ok := p.Value.(util.Uint256)
		if !ok {
			return nil, fmt.Errorf("smartcontract: %s value must be util.Uint256", p.Type)
		}
		v = h.StringBE()
	case IntegerType:
		n, ok := p.Value.(*big.Int)
		if !ok {
			return nil, fmt.Errorf("smartcontract: %s value must be *big.Int", p.Type)
		}
		v = n.String()
	case BoolType, StringType:
		v = p.Value
	case ArrayType:
		v = p.Value
	case AnyType, VoidType:
		v = nil
	default:
		v = p.Value
	}
	if v != nil {
		raw.Value, err = json.Marshal(v)
		if err != nil {
			return nil, err
		}
	}
	return json.Marshal(raw)
}

// ErrInvalidParameter signals a Parameter whose Value doesn't decode
// according to its declared Type.
var ErrInvalidParameter = errors.New("smartcontract: invalid parameter")

// UnmarshalJSON parses Value according to the decoded Type.
func (p *Parameter) UnmarshalJSON(data []byte) error {
	var raw rawParameter
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Type = raw.Type
	if len(raw.Value) == 0 {
		p.Value = nil
		return nil
	}
	switch raw.Type {
	case ByteArrayType, SignatureType:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return err
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
		}
		p.Value = b
	case PublicKeyType:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return err
		}
		pk, err := keys.NewPublicKeyFromString(s)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
		}
		p.Value = pk
	case Hash160Type:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return err
		}
		h, err := util.Uint160DecodeString(s)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
		}
		p.Value = h
	case Hash256Type:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return err
		}
		h, err := util.Uint256DecodeString(s)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
		}
		p.Value = h
	case IntegerType:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			var n int64
			if err2 := json.Unmarshal(raw.Value, &n); err2 != nil {
				return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
			}
			p.Value = big.NewInt(n)
			return nil
		}
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return fmt.Errorf("%w: not a decimal integer: %q", ErrInvalidParameter, s)
		}
		p.Value = n
	case BoolType:
		var b bool
		if err := json.Unmarshal(raw.Value, &b); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
		}
		p.Value = b
	case StringType:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
		}
		p.Value = s
	case ArrayType:
		var arr []Parameter
		if err := json.Unmarshal(raw.Value, &arr); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
		}
		p.Value = arr
	default:
		p.Value = raw.Value
	}
	return nil
}

// ToStackItemBytes returns the raw byte payload of Integer/ByteArray/
// Hash/PublicKey/Signature parameters, the form emit.Bytes/emit.Int
// need to push the value onto the VM stack.
func (p Parameter) ToStackItemBytes() ([]byte, error) {
	switch p.Type {
	case ByteArrayType, SignatureType:
		b, ok := p.Value.([]byte)
		if !ok {
			return nil, fmt.Errorf("%w: expected []byte", ErrInvalidParameter)
		}
		return b, nil
	case Hash160Type:
		h, ok := p.Value.(util.Uint160)
		if !ok {
			return nil, fmt.Errorf("%w: expected util.Uint160", ErrInvalidParameter)
		}
		return h.BytesLE(), nil
	case Hash256Type:
		h, ok := p.Value.(util.Uint256)
		if !ok {
			return nil, fmt.Errorf("%w: expected util.Uint256", ErrInvalidParameter)
		}
		return h.BytesLE(), nil
	case PublicKeyType:
		pk, ok := p.Value.(*keys.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: expected *keys.PublicKey", ErrInvalidParameter)
		}
		return pk.Bytes(), nil
	case IntegerType:
		n, ok := p.Value.(*big.Int)
		if !ok {
			return nil, fmt.Errorf("%w: expected *big.Int", ErrInvalidParameter)
		}
		return bigint.ToBytes(n), nil
	default:
		return nil, fmt.Errorf("%w: %s has no byte representation", ErrInvalidParameter, p.Type)
	}
}
