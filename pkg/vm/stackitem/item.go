// Package stackitem defines the JSON representation of Neo VM stack
// items as they travel over the RPC wire in invoke* results. The SDK
// never executes VM bytecode itself, so only the (de)serialization
// surface a client needs to read invocation output is implemented.
package stackitem

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// Type is the VM stack item type tag, as rendered in the "type" field
// of the JSON wire form.
type Type string

// The full set of Neo VM stack item type tags.
const (
	AnyT        Type = "Any"
	PointerT    Type = "Pointer"
	BooleanT    Type = "Boolean"
	IntegerT    Type = "Integer"
	ByteStringT Type = "ByteString"
	BufferT     Type = "Buffer"
	ArrayT      Type = "Array"
	StructT     Type = "Struct"
	MapT        Type = "Map"
	InteropT    Type = "InteropInterface"
)

// ErrUnknownType is returned when decoding an item with an unrecognized
// type tag.
var ErrUnknownType = errors.New("stackitem: unknown type")

// ErrTooDeep is returned when an Array/Struct/Map value nests past
// MaxUnmarshalDepth.
var ErrTooDeep = errors.New("stackitem: nested too deep")

// MaxUnmarshalDepth bounds how many Array/Struct/Map levels
// UnmarshalJSON will recurse into an invoke* result, guarding against
// a malicious or buggy RPC node driving unbounded recursion.
const MaxUnmarshalDepth = 64

// Item is any decoded VM stack item.
type Item interface {
	Type() Type
}

// Convertible is a Go value with a canonical VM stack item encoding,
// implemented by the contract binding types (e.g. nns.RecordState)
// whose fields round-trip through a contract call's parameters and
// return values.
type Convertible interface {
	ToStackItem() (Item, error)
	FromStackItem(Item) error
}

// Null is the VM's "Any"-typed nil value.
type Null struct{}

// Type implements Item.
func (Null) Type() Type { return AnyT }

// Bool wraps a VM boolean.
type Bool bool

// Type implements Item.
func (Bool) Type() Type { return BooleanT }

// NewBool constructs a Bool item.
func NewBool(b bool) Bool { return Bool(b) }

// BigInteger wraps a VM integer, Neo's arbitrary-precision numeric type.
type BigInteger struct{ Value *big.Int }

// Type implements Item.
func (BigInteger) Type() Type { return IntegerT }

// NewBigInteger constructs an Integer item.
func NewBigInteger(v *big.Int) BigInteger { return BigInteger{Value: v} }

// ByteString wraps an immutable VM byte string (addresses, script
// hashes, and most NEP-17/NEP-11 token data arrive as this type).
type ByteString []byte

// Type implements Item.
func (ByteString) Type() Type { return ByteStringT }

// NewByteString constructs a ByteString item.
func NewByteString(b []byte) ByteString { return ByteString(b) }

// Buffer wraps a mutable VM byte buffer.
type Buffer []byte

// Type implements Item.
func (Buffer) Type() Type { return BufferT }

// Array is an ordered, mutable VM item collection.
type Array struct{ Value []Item }

// Type implements Item.
func (Array) Type() Type { return ArrayT }

// NewArray constructs an Array item.
func NewArray(items []Item) *Array { return &Array{Value: items} }

// Struct is a VM collection compared by structural equality rather
// than by reference; it shares Array's wire shape.
type Struct struct{ Value []Item }

// Type implements Item.
func (Struct) Type() Type { return StructT }

// NewStruct constructs a Struct item.
func NewStruct(items []Item) *Struct { return &Struct{Value: items} }

// MapElement is one key/value pair of a Map item.
type MapElement struct {
	Key   Item
	Value Item
}

// Map is an ordered association of VM items to VM items.
type Map struct{ Value []MapElement }

// Type implements Item.
func (Map) Type() Type { return MapT }

// NewMap constructs an empty Map item.
func NewMap() *Map { return &Map{} }

// NewMapWithValue constructs a Map item from a pre-built element list.
func NewMapWithValue(elems []MapElement) *Map { return &Map{Value: elems} }

// Add appends a key/value pair, preserving insertion order the way the
// VM's Map iterates.
func (m *Map) Add(k, v Item) { m.Value = append(m.Value, MapElement{k, v}) }

// Len returns the number of key/value pairs in the map.
func (m *Map) Len() int { return len(m.Value) }

// Index returns the position of key in the map's element list, or -1
// if it isn't present.
func (m *Map) Index(key Item) int {
	for i, e := range m.Value {
		if Equals(e.Key, key) {
			return i
		}
	}
	return -1
}

// Equals reports whether two items carry the same VM-comparable value.
// Array, Struct, and Map aren't VM-comparable by value and always
// compare unequal here, matching how the VM itself treats them as map
// keys (it rejects them outright; the SDK just never matches them).
func Equals(a, b Item) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}
	switch av := a.(type) {
	case Null:
		return true
	case Bool:
		return av == b.(Bool)
	case BigInteger:
		bv := b.(BigInteger)
		return av.Value.Cmp(bv.Value) == 0
	case ByteString:
		return bytes.Equal(av, b.(ByteString))
	case Buffer:
		return bytes.Equal(av, b.(Buffer))
	case Pointer:
		return av == b.(Pointer)
	default:
		return false
	}
}

// Interop wraps an opaque VM interop handle. Value is usually a plain
// string ID for interop types the SDK doesn't otherwise decode, but
// the RPC client layer also uses it to carry an already-parsed
// session iterator (see result.Iterator) since that's the one interop
// payload a client actually needs to act on.
type Interop struct{ Value interface{} }

// Type implements Item.
func (Interop) Type() Type { return InteropT }

// NewInterop constructs an Interop item wrapping an arbitrary value.
func NewInterop(v interface{}) Interop { return Interop{Value: v} }

// Pointer wraps a VM code pointer; the SDK never executes a script so
// only the instruction position is preserved.
type Pointer struct{ Position int }

// Type implements Item.
func (Pointer) Type() Type { return PointerT }

type itemJSON struct {
	Type  Type            `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON renders the item in the RPC wire shape:
// {"type": "...", "value": ...}.
func MarshalJSON(it Item) ([]byte, error) {
	if it == nil {
		it = Null{}
	}
	switch v := it.(type) {
	case Null:
		return json.Marshal(itemJSON{Type: AnyT})
	case Bool:
		val, err := json.Marshal(bool(v))
		if err != nil {
			return nil, err
		}
		return json.Marshal(itemJSON{Type: BooleanT, Value: val})
	case BigInteger:
		val, err := json.Marshal(v.Value.String())
		if err != nil {
			return nil, err
		}
		return json.Marshal(itemJSON{Type: IntegerT, Value: val})
	case ByteString:
		val, err := json.Marshal(base64.StdEncoding.EncodeToString(v))
		if err != nil {
			return nil, err
		}
		return json.Marshal(itemJSON{Type: ByteStringT, Value: val})
	case Buffer:
		val, err := json.Marshal(base64.StdEncoding.EncodeToString(v))
		if err != nil {
			return nil, err
		}
		return json.Marshal(itemJSON{Type: BufferT, Value: val})
	case *Array:
		return marshalItems(ArrayT, v.Value)
	case *Struct:
		return marshalItems(StructT, v.Value)
	case *Map:
		elems := make([]map[string]json.RawMessage, len(v.Value))
		for i, e := range v.Value {
			k, err := MarshalJSON(e.Key)
			if err != nil {
				return nil, err
			}
			val, err := MarshalJSON(e.Value)
			if err != nil {
				return nil, err
			}
			elems[i] = map[string]json.RawMessage{"key": k, "value": val}
		}
		raw, err := json.Marshal(elems)
		if err != nil {
			return nil, err
		}
		return json.Marshal(itemJSON{Type: MapT, Value: raw})
	case Interop:
		val, err := json.Marshal(v.Value)
		if err != nil {
			return nil, err
		}
		return json.Marshal(itemJSON{Type: InteropT, Value: val})
	case Pointer:
		val, err := json.Marshal(v.Position)
		if err != nil {
			return nil, err
		}
		return json.Marshal(itemJSON{Type: PointerT, Value: val})
	default:
		return nil, fmt.Errorf("stackitem: %w: %T", ErrUnknownType, it)
	}
}

func marshalItems(t Type, items []Item) ([]byte, error) {
	raws := make([]json.RawMessage, len(items))
	for i, it := range items {
		raw, err := MarshalJSON(it)
		if err != nil {
			return nil, err
		}
		raws[i] = raw
	}
	val, err := json.Marshal(raws)
	if err != nil {
		return nil, err
	}
	return json.Marshal(itemJSON{Type: t, Value: val})
}

// UnmarshalJSON parses a single wire-shaped item.
func UnmarshalJSON(data []byte) (Item, error) {
	return unmarshalJSON(data, 0)
}

func unmarshalJSON(data []byte, depth int) (Item, error) {
	if depth > MaxUnmarshalDepth {
		return nil, ErrTooDeep
	}
	var raw itemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	switch raw.Type {
	case AnyT:
		return Null{}, nil
	case BooleanT:
		var b bool
		if err := json.Unmarshal(raw.Value, &b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case IntegerT:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return nil, err
		}
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("stackitem: invalid integer %q", s)
		}
		return BigInteger{Value: n}, nil
	case ByteStringT, BufferT:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return nil, err
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, err
		}
		if raw.Type == ByteStringT {
			return ByteString(b), nil
		}
		return Buffer(b), nil
	case ArrayT, StructT:
		var raws []json.RawMessage
		if err := json.Unmarshal(raw.Value, &raws); err != nil {
			return nil, err
		}
		items := make([]Item, len(raws))
		for i, r := range raws {
			it, err := unmarshalJSON(r, depth+1)
			if err != nil {
				return nil, err
			}
			items[i] = it
		}
		if raw.Type == ArrayT {
			return &Array{Value: items}, nil
		}
		return &Struct{Value: items}, nil
	case MapT:
		var elems []map[string]json.RawMessage
		if err := json.Unmarshal(raw.Value, &elems); err != nil {
			return nil, err
		}
		m := &Map{}
		for _, e := range elems {
			k, err := unmarshalJSON(e["key"], depth+1)
			if err != nil {
				return nil, err
			}
			v, err := unmarshalJSON(e["value"], depth+1)
			if err != nil {
				return nil, err
			}
			m.Add(k, v)
		}
		return m, nil
	case InteropT:
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return nil, err
		}
		return Interop{Value: s}, nil
	case PointerT:
		var p int
		if err := json.Unmarshal(raw.Value, &p); err != nil {
			return nil, err
		}
		return Pointer{Position: p}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, raw.Type)
	}
}

// Make converts a plain Go value into the matching Item, for callers
// (chiefly tests) that would rather not reach for each item type's own
// constructor. It panics on a type it doesn't know how to convert,
// since that only ever signals a programming error at a call site
// under the SDK's control.
func Make(v interface{}) Item {
	switch val := v.(type) {
	case nil:
		return Null{}
	case Item:
		return val
	case bool:
		return NewBool(val)
	case int:
		return NewBigInteger(big.NewInt(int64(val)))
	case int8:
		return NewBigInteger(big.NewInt(int64(val)))
	case int16:
		return NewBigInteger(big.NewInt(int64(val)))
	case int32:
		return NewBigInteger(big.NewInt(int64(val)))
	case int64:
		return NewBigInteger(big.NewInt(val))
	case uint8:
		return NewBigInteger(big.NewInt(int64(val)))
	case uint16:
		return NewBigInteger(big.NewInt(int64(val)))
	case uint32:
		return NewBigInteger(big.NewInt(int64(val)))
	case uint64:
		return NewBigInteger(new(big.Int).SetUint64(val))
	case *big.Int:
		return NewBigInteger(val)
	case []byte:
		return NewByteString(val)
	case string:
		return NewByteString([]byte(val))
	case util.Uint160:
		return NewByteString(val.BytesLE())
	case util.Uint256:
		return NewByteString(val.BytesLE())
	case []Item:
		return NewArray(val)
	default:
		panic(fmt.Sprintf("stackitem: Make: unsupported type %T", v))
	}
}

// ToUint160 extracts a 20-byte ScriptHash from a ByteString item, the
// common case for addresses returned by contract reads.
func ToUint160(it Item) (util.Uint160, error) {
	bs, ok := it.(ByteString)
	if !ok {
		return util.Uint160{}, fmt.Errorf("stackitem: expected ByteString, got %s", it.Type())
	}
	return util.Uint160DecodeBytes(bs)
}

// ToUint256 extracts a 32-byte hash from a ByteString item, the common
// case for transaction/block IDs returned by contract reads.
func ToUint256(it Item) (util.Uint256, error) {
	bs, ok := it.(ByteString)
	if !ok {
		return util.Uint256{}, fmt.Errorf("stackitem: expected ByteString, got %s", it.Type())
	}
	return util.Uint256DecodeBytes(bs)
}

// ToBigInteger extracts the *big.Int value of an Integer item.
func ToBigInteger(it Item) (*big.Int, error) {
	bi, ok := it.(BigInteger)
	if !ok {
		return nil, fmt.Errorf("stackitem: expected Integer, got %s", it.Type())
	}
	return bi.Value, nil
}

// ToBytes extracts the raw byte content of a ByteString or Buffer
// item.
func ToBytes(it Item) ([]byte, error) {
	switch v := it.(type) {
	case ByteString:
		return []byte(v), nil
	case Buffer:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("stackitem: expected ByteString/Buffer, got %s", it.Type())
	}
}

// ToString extracts the UTF-8 string content of a ByteString item.
func ToString(it Item) (string, error) {
	bs, ok := it.(ByteString)
	if !ok {
		return "", fmt.Errorf("stackitem: expected ByteString, got %s", it.Type())
	}
	return string(bs), nil
}

// ToBool extracts a Boolean item's value.
func ToBool(it Item) (bool, error) {
	b, ok := it.(Bool)
	if !ok {
		return false, fmt.Errorf("stackitem: expected Boolean, got %s", it.Type())
	}
	return bool(b), nil
}

// ToArray extracts the element slice of an Array or Struct item.
func ToArray(it Item) ([]Item, error) {
	switch v := it.(type) {
	case *Array:
		return v.Value, nil
	case *Struct:
		return v.Value, nil
	default:
		return nil, fmt.Errorf("stackitem: expected Array, got %s", it.Type())
	}
}

// item is a package-private alias used by Items' JSON helpers below.
type item struct{ Item }

// MarshalJSON implements json.Marshaler for a single Item wrapped for
// use inside a struct field (the Invoke/NEP17 result types embed raw
// Item slices directly and call MarshalJSON/UnmarshalJSON explicitly,
// but this wrapper lets Item also be used as an ordinary struct field
// when convenient).
func (i item) MarshalJSON() ([]byte, error) { return MarshalJSON(i.Item) }
