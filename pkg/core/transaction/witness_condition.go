package transaction

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go-sdk/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go-sdk/pkg/io"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// ConditionType is the wire tag of a WitnessCondition variant.
type ConditionType byte

// The protocol's WitnessCondition type tags.
const (
	ConditionBooleanType         ConditionType = 0x00
	ConditionNotType             ConditionType = 0x01
	ConditionAndType             ConditionType = 0x02
	ConditionOrType              ConditionType = 0x03
	ConditionScriptHashType      ConditionType = 0x18
	ConditionGroupType           ConditionType = 0x19
	ConditionCalledByEntryType   ConditionType = 0x20
	ConditionCalledByContractType ConditionType = 0x28
	ConditionCalledByGroupType   ConditionType = 0x29
)

// MaxConditionNestingDepth bounds how many levels of And/Or a
// WitnessCondition tree may nest, per spec.md §4.5's Open Question
// resolution: a top-level And/Or may hold leaves or one more level of
// And/Or, never deeper.
const MaxConditionNestingDepth = 2

// MaxSubItems bounds the number of children an And/Or condition may
// carry, matching the protocol's own MaxSubitems limit.
const MaxSubItems = 16

// ErrConditionTooDeep is returned when decoding an And/Or condition
// nested beyond MaxConditionNestingDepth.
var ErrConditionTooDeep = errors.New("transaction: witness condition nested too deep")

// WitnessCondition is the sum type backing a WitnessRule's Condition
// field. Each concrete type below implements it.
type WitnessCondition interface {
	Type() ConditionType
	EncodeBinary(w *io.BinWriter)
	DecodeBinary(r *io.BinReader, depth int)
	json.Marshaler
}

// ConditionCalledByEntry matches when the currently executing script
// is the entry script of the transaction.
type ConditionCalledByEntry struct{}

func (ConditionCalledByEntry) Type() ConditionType { return ConditionCalledByEntryType }
func (ConditionCalledByEntry) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(ConditionCalledByEntryType))
}
func (c *ConditionCalledByEntry) DecodeBinary(r *io.BinReader, depth int) {}
func (ConditionCalledByEntry) MarshalJSON() ([]byte, error) {
	return []byte(`{"type":"CalledByEntry"}`), nil
}

// ConditionScriptHash matches when the calling script hash equals Hash.
type ConditionScriptHash struct {
	Hash util.Uint160
}

func (*ConditionScriptHash) Type() ConditionType { return ConditionScriptHashType }
func (c *ConditionScriptHash) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(ConditionScriptHashType))
	c.Hash.EncodeBinary(w)
}
func (c *ConditionScriptHash) DecodeBinary(r *io.BinReader, depth int) {
	c.Hash.DecodeBinary(r)
}
func (c *ConditionScriptHash) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Hash string `json:"hash"`
	}{"ScriptHash", c.Hash.StringBE()})
}

// ConditionGroup matches when the executing contract belongs to
// the public key Group.
type ConditionGroup struct {
	Group *keys.PublicKey
}

func (*ConditionGroup) Type() ConditionType { return ConditionGroupType }
func (c *ConditionGroup) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(ConditionGroupType))
	w.WriteBytes(c.Group.Bytes())
}
func (c *ConditionGroup) DecodeBinary(r *io.BinReader, depth int) {
	b := make([]byte, 33)
	r.ReadBytes(b)
	if r.Err != nil {
		return
	}
	pk, err := keys.NewPublicKeyFromBytes(b, keys.Secp256r1())
	if err != nil {
		r.Err = err
		return
	}
	c.Group = pk
}
func (c *ConditionGroup) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Group string `json:"group"`
	}{"Group", c.Group.String()})
}

// ConditionCalledByContract matches when the calling script hash
// equals Hash (a narrower alias of ConditionScriptHash used by the
// "called by" condition family).
type ConditionCalledByContract struct {
	Hash util.Uint160
}

func (*ConditionCalledByContract) Type() ConditionType { return ConditionCalledByContractType }
func (c *ConditionCalledByContract) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(ConditionCalledByContractType))
	c.Hash.EncodeBinary(w)
}
func (c *ConditionCalledByContract) DecodeBinary(r *io.BinReader, depth int) {
	c.Hash.DecodeBinary(r)
}
func (c *ConditionCalledByContract) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Hash string `json:"hash"`
	}{"CalledByContract", c.Hash.StringBE()})
}

// ConditionCalledByGroup matches when the calling contract belongs to
// the public key Group.
type ConditionCalledByGroup struct {
	Group *keys.PublicKey
}

func (*ConditionCalledByGroup) Type() ConditionType { return ConditionCalledByGroupType }
func (c *ConditionCalledByGroup) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(ConditionCalledByGroupType))
	w.WriteBytes(c.Group.Bytes())
}
func (c *ConditionCalledByGroup) DecodeBinary(r *io.BinReader, depth int) {
	b := make([]byte, 33)
	r.ReadBytes(b)
	if r.Err != nil {
		return
	}
	pk, err := keys.NewPublicKeyFromBytes(b, keys.Secp256r1())
	if err != nil {
		r.Err = err
		return
	}
	c.Group = pk
}
func (c *ConditionCalledByGroup) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Group string `json:"group"`
	}{"CalledByGroup", c.Group.String()})
}

// ConditionBoolean is an always-true or always-false leaf, mostly
// useful as a building block inside And/Or/Not.
type ConditionBoolean struct {
	Value bool
}

func (*ConditionBoolean) Type() ConditionType { return ConditionBooleanType }
func (c *ConditionBoolean) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(ConditionBooleanType))
	w.WriteBool(c.Value)
}
func (c *ConditionBoolean) DecodeBinary(r *io.BinReader, depth int) {
	c.Value = r.ReadBool()
}
func (c *ConditionBoolean) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Value bool   `json:"expression"`
	}{"Boolean", c.Value})
}

// ConditionNot negates Condition.
type ConditionNot struct {
	Condition WitnessCondition
}

func (*ConditionNot) Type() ConditionType { return ConditionNotType }
func (c *ConditionNot) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(ConditionNotType))
	c.Condition.EncodeBinary(w)
}
func (c *ConditionNot) DecodeBinary(r *io.BinReader, depth int) {
	cond, err := decodeCondition(r, depth+1)
	if err != nil {
		r.Err = err
		return
	}
	c.Condition = cond
}
func (c *ConditionNot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string          `json:"type"`
		Expression WitnessCondition `json:"expression"`
	}{"Not", c.Condition})
}

// ConditionAnd requires every sub-condition to match.
type ConditionAnd struct {
	Conditions []WitnessCondition
}

func (*ConditionAnd) Type() ConditionType { return ConditionAndType }
func (c *ConditionAnd) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(ConditionAndType))
	w.WriteVarUint(uint64(len(c.Conditions)))
	for _, sub := range c.Conditions {
		sub.EncodeBinary(w)
	}
}
func (c *ConditionAnd) DecodeBinary(r *io.BinReader, depth int) {
	c.Conditions = decodeConditionList(r, depth)
}
func (c *ConditionAnd) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string             `json:"type"`
		Expressions []WitnessCondition `json:"expressions"`
	}{"And", c.Conditions})
}

// ConditionOr requires at least one sub-condition to match.
type ConditionOr struct {
	Conditions []WitnessCondition
}

func (*ConditionOr) Type() ConditionType { return ConditionOrType }
func (c *ConditionOr) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(ConditionOrType))
	w.WriteVarUint(uint64(len(c.Conditions)))
	for _, sub := range c.Conditions {
		sub.EncodeBinary(w)
	}
}
func (c *ConditionOr) DecodeBinary(r *io.BinReader, depth int) {
	c.Conditions = decodeConditionList(r, depth)
}
func (c *ConditionOr) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string             `json:"type"`
		Expressions []WitnessCondition `json:"expressions"`
	}{"Or", c.Conditions})
}

// ErrUnknownConditionType is returned by UnmarshalWitnessCondition for
// a "type" string outside the protocol's named condition set.
var ErrUnknownConditionType = errors.New("transaction: unknown witness condition type")

// UnmarshalWitnessCondition parses data into a concrete
// WitnessCondition implementation, dispatching on its "type" field.
func UnmarshalWitnessCondition(data []byte) (WitnessCondition, error) {
	return unmarshalWitnessCondition(data, 0)
}

func unmarshalWitnessCondition(data []byte, depth int) (WitnessCondition, error) {
	if depth > MaxConditionNestingDepth {
		return nil, ErrConditionTooDeep
	}
	var raw struct {
		Type        string            `json:"type"`
		Hash        string            `json:"hash"`
		Group       string            `json:"group"`
		Expression  json.RawMessage   `json:"expression"`
		Expressions []json.RawMessage `json:"expressions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	switch raw.Type {
	case "CalledByEntry":
		return &ConditionCalledByEntry{}, nil
	case "ScriptHash":
		h, err := util.Uint160DecodeString(raw.Hash)
		if err != nil {
			return nil, err
		}
		return &ConditionScriptHash{Hash: h}, nil
	case "CalledByContract":
		h, err := util.Uint160DecodeString(raw.Hash)
		if err != nil {
			return nil, err
		}
		return &ConditionCalledByContract{Hash: h}, nil
	case "Group":
		pk, err := keys.NewPublicKeyFromString(raw.Group)
		if err != nil {
			return nil, err
		}
		return &ConditionGroup{Group: pk}, nil
	case "CalledByGroup":
		pk, err := keys.NewPublicKeyFromString(raw.Group)
		if err != nil {
			return nil, err
		}
		return &ConditionCalledByGroup{Group: pk}, nil
	case "Boolean":
		var v bool
		if err := json.Unmarshal(raw.Expression, &v); err != nil {
			return nil, err
		}
		return &ConditionBoolean{Value: v}, nil
	case "Not":
		sub, err := unmarshalWitnessCondition(raw.Expression, depth+1)
		if err != nil {
			return nil, err
		}
		return &ConditionNot{Condition: sub}, nil
	case "And", "Or":
		if len(raw.Expressions) > MaxSubItems {
			return nil, fmt.Errorf("%w: exceeds MaxSubItems", ErrConditionTooDeep)
		}
		subs := make([]WitnessCondition, len(raw.Expressions))
		for i, e := range raw.Expressions {
			sub, err := unmarshalWitnessCondition(e, depth+1)
			if err != nil {
				return nil, err
			}
			subs[i] = sub
		}
		if raw.Type == "And" {
			return &ConditionAnd{Conditions: subs}, nil
		}
		return &ConditionOr{Conditions: subs}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownConditionType, raw.Type)
	}
}

func decodeConditionList(r *io.BinReader, depth int) []WitnessCondition {
	n := r.ReadVarUint()
	if r.Err != nil {
		return nil
	}
	if n > MaxSubItems {
		r.Err = fmt.Errorf("%w: %d sub-conditions exceeds MaxSubItems", ErrConditionTooDeep, n)
		return nil
	}
	out := make([]WitnessCondition, 0, n)
	for i := uint64(0); i < n; i++ {
		cond, err := decodeCondition(r, depth+1)
		if err != nil {
			r.Err = err
			return nil
		}
		out = append(out, cond)
	}
	return out
}

// decodeCondition reads a single WitnessCondition, tracking nesting
// depth so And/Or cannot recurse past MaxConditionNestingDepth.
func decodeCondition(r *io.BinReader, depth int) (WitnessCondition, error) {
	if depth > MaxConditionNestingDepth {
		return nil, ErrConditionTooDeep
	}
	t := r.ReadB()
	if r.Err != nil {
		return nil, r.Err
	}
	var cond WitnessCondition
	switch ConditionType(t) {
	case ConditionBooleanType:
		cond = &ConditionBoolean{}
	case ConditionNotType:
		cond = &ConditionNot{}
	case ConditionAndType:
		cond = &ConditionAnd{}
	case ConditionOrType:
		cond = &ConditionOr{}
	case ConditionScriptHashType:
		cond = &ConditionScriptHash{}
	case ConditionGroupType:
		cond = &ConditionGroup{}
	case ConditionCalledByEntryType:
		cond = &ConditionCalledByEntry{}
	case ConditionCalledByContractType:
		cond = &ConditionCalledByContract{}
	case ConditionCalledByGroupType:
		cond = &ConditionCalledByGroup{}
	default:
		return nil, fmt.Errorf("transaction: unknown witness condition type 0x%02x", t)
	}
	cond.DecodeBinary(r, depth)
	if r.Err != nil {
		return nil, r.Err
	}
	return cond, nil
}
