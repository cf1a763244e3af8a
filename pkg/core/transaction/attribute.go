package transaction

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go-sdk/pkg/io"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// AttrType is the wire tag of a transaction Attribute.
type AttrType byte

// The protocol's defined attribute type tags, plus the
// ReservedLowerBound/UpperBound range third parties may use for
// experimental attributes.
const (
	HighPriority       AttrType = 0x01
	OracleResponseT    AttrType = 0x11
	NotValidBeforeT    AttrType = 0x20
	ConflictsT         AttrType = 0x21
	NotaryAssistedT    AttrType = 0x22
	ReservedLowerBound AttrType = 0xe0
	ReservedUpperBound AttrType = 0xff
)

// ErrInvalidAttribute signals a malformed attribute or one whose type
// tag is not reserved/defined.
var ErrInvalidAttribute = errors.New("transaction: invalid attribute")

// AttrValue is the payload behind an Attribute's Type tag.
type AttrValue interface {
	AttrType() AttrType
	EncodeBinary(w *io.BinWriter)
	DecodeBinary(r *io.BinReader)
}

// Attribute is a single transaction attribute: a type tag plus its
// typed Value (nil for the zero-payload HighPriority).
type Attribute struct {
	Type  AttrType
	Value AttrValue
}

// EncodeBinary writes the type byte followed by Value's own encoding,
// if any.
func (a Attribute) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(a.Type))
	if a.Value != nil {
		a.Value.EncodeBinary(w)
	}
}

// DecodeBinary reads the type byte and dispatches to the matching
// AttrValue decoder; HighPriority carries no payload, and any type in
// the Reserved range decodes as an opaque Reserved blob.
func (a *Attribute) DecodeBinary(r *io.BinReader) {
	t := r.ReadB()
	if r.Err != nil {
		return
	}
	a.Type = AttrType(t)
	switch a.Type {
	case HighPriority:
		a.Value = nil
	case OracleResponseT:
		v := new(OracleResponse)
		v.DecodeBinary(r)
		a.Value = v
	case NotValidBeforeT:
		v := new(NotValidBefore)
		v.DecodeBinary(r)
		a.Value = v
	case ConflictsT:
		v := new(Conflicts)
		v.DecodeBinary(r)
		a.Value = v
	case NotaryAssistedT:
		v := new(NotaryAssisted)
		v.DecodeBinary(r)
		a.Value = v
	default:
		if a.Type < ReservedLowerBound {
			r.Err = fmt.Errorf("%w: unknown type 0x%02x", ErrInvalidAttribute, t)
			return
		}
		v := new(Reserved)
		v.DecodeBinary(r)
		a.Value = v
	}
}

// MarshalJSON renders the attribute flattened: {"type": "...", <value fields>...}.
func (a Attribute) MarshalJSON() ([]byte, error) {
	typeName := attrTypeName(a.Type)
	head, err := json.Marshal(map[string]interface{}{"type": typeName})
	if err != nil {
		return nil, err
	}
	if a.Value == nil {
		return head, nil
	}
	valueJSON, err := json.Marshal(a.Value)
	if err != nil {
		return nil, err
	}
	return mergeJSONObjects(head, valueJSON)
}

// UnmarshalJSON parses the attribute's "type" field then dispatches
// the remaining fields to the matching AttrValue.
func (a *Attribute) UnmarshalJSON(data []byte) error {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	t, err := attrTypeFromName(head.Type)
	if err != nil {
		return err
	}
	a.Type = t
	switch t {
	case HighPriority:
		a.Value = nil
		return nil
	case OracleResponseT:
		v := new(OracleResponse)
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		a.Value = v
	case NotValidBeforeT:
		v := new(NotValidBefore)
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		a.Value = v
	case ConflictsT:
		v := new(Conflicts)
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		a.Value = v
	case NotaryAssistedT:
		v := new(NotaryAssisted)
		if err := json.Unmarshal(data, v); err != nil {
			return err
		}
		a.Value = v
	default:
		return fmt.Errorf("%w: unsupported JSON attribute type %q", ErrInvalidAttribute, head.Type)
	}
	return nil
}

func attrTypeName(t AttrType) string {
	switch t {
	case HighPriority:
		return "HighPriority"
	case OracleResponseT:
		return "OracleResponse"
	case NotValidBeforeT:
		return "NotValidBefore"
	case ConflictsT:
		return "Conflicts"
	case NotaryAssistedT:
		return "NotaryAssisted"
	default:
		return "Reserved"
	}
}

func attrTypeFromName(s string) (AttrType, error) {
	switch s {
	case "HighPriority":
		return HighPriority, nil
	case "OracleResponse":
		return OracleResponseT, nil
	case "NotValidBefore":
		return NotValidBeforeT, nil
	case "Conflicts":
		return ConflictsT, nil
	case "NotaryAssisted":
		return NotaryAssistedT, nil
	default:
		return 0, fmt.Errorf("%w: unknown attribute type name %q", ErrInvalidAttribute, s)
	}
}

func mergeJSONObjects(a, b []byte) ([]byte, error) {
	var ma, mb map[string]json.RawMessage
	if err := json.Unmarshal(a, &ma); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &mb); err != nil {
		return nil, err
	}
	for k, v := range mb {
		ma[k] = v
	}
	return json.Marshal(ma)
}

// OracleResponseCode is the status an oracle service reports for a
// OracleRequest it answered.
type OracleResponseCode byte

// The protocol's defined oracle response codes.
const (
	Success              OracleResponseCode = 0x00
	ProtocolNotSupported OracleResponseCode = 0x10
	ConsensusUnreachable OracleResponseCode = 0x12
	NotFound             OracleResponseCode = 0x14
	Timeout              OracleResponseCode = 0x16
	Forbidden            OracleResponseCode = 0x18
	ResponseTooLarge     OracleResponseCode = 0x1a
	InsufficientFunds    OracleResponseCode = 0x1c
	ContentTypeNotSupported OracleResponseCode = 0x1f
	Error                OracleResponseCode = 0xff
)

// OracleResponse answers an OracleRequest transaction by its ID.
type OracleResponse struct {
	ID     uint64
	Code   OracleResponseCode
	Result []byte
}

// AttrType implements AttrValue.
func (*OracleResponse) AttrType() AttrType { return OracleResponseT }

// EncodeBinary writes the 8-byte LE ID, the 1-byte code, and var_bytes result.
func (o *OracleResponse) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(o.ID)
	w.WriteB(byte(o.Code))
	w.WriteVarBytes(o.Result)
}

// DecodeBinary is the inverse of EncodeBinary.
func (o *OracleResponse) DecodeBinary(r *io.BinReader) {
	o.ID = r.ReadU64LE()
	if r.Err != nil {
		return
	}
	o.Code = OracleResponseCode(r.ReadB())
	if r.Err != nil {
		return
	}
	o.Result = r.ReadVarBytes()
}

// MarshalJSON renders {"id":..., "code":"...", "result":"<base64>"}.
func (o OracleResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID     uint64 `json:"id"`
		Code   string `json:"code"`
		Result string `json:"result"`
	}{o.ID, oracleCodeName(o.Code), base64.StdEncoding.EncodeToString(o.Result)})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (o *OracleResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID     uint64 `json:"id"`
		Code   string `json:"code"`
		Result string `json:"result"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	code, err := oracleCodeFromName(raw.Code)
	if err != nil {
		return err
	}
	result, err := base64.StdEncoding.DecodeString(raw.Result)
	if err != nil {
		return err
	}
	o.ID = raw.ID
	o.Code = code
	o.Result = result
	return nil
}

func oracleCodeName(c OracleResponseCode) string {
	switch c {
	case Success:
		return "Success"
	case ProtocolNotSupported:
		return "ProtocolNotSupported"
	case ConsensusUnreachable:
		return "ConsensusUnreachable"
	case NotFound:
		return "NotFound"
	case Timeout:
		return "Timeout"
	case Forbidden:
		return "Forbidden"
	case ResponseTooLarge:
		return "ResponseTooLarge"
	case InsufficientFunds:
		return "InsufficientFunds"
	case ContentTypeNotSupported:
		return "ContentTypeNotSupported"
	default:
		return "Error"
	}
}

func oracleCodeFromName(s string) (OracleResponseCode, error) {
	switch s {
	case "Success":
		return Success, nil
	case "ProtocolNotSupported":
		return ProtocolNotSupported, nil
	case "ConsensusUnreachable":
		return ConsensusUnreachable, nil
	case "NotFound":
		return NotFound, nil
	case "Timeout":
		return Timeout, nil
	case "Forbidden":
		return Forbidden, nil
	case "ResponseTooLarge":
		return ResponseTooLarge, nil
	case "InsufficientFunds":
		return InsufficientFunds, nil
	case "ContentTypeNotSupported":
		return ContentTypeNotSupported, nil
	case "Error":
		return Error, nil
	default:
		return 0, fmt.Errorf("%w: unknown oracle response code %q", ErrInvalidAttribute, s)
	}
}

// NotValidBefore rejects the transaction if included in a block below Height.
type NotValidBefore struct {
	Height uint32
}

// AttrType implements AttrValue.
func (*NotValidBefore) AttrType() AttrType { return NotValidBeforeT }

// EncodeBinary writes Height as a 4-byte LE uint32.
func (n *NotValidBefore) EncodeBinary(w *io.BinWriter) { w.WriteU32LE(n.Height) }

// DecodeBinary is the inverse of EncodeBinary.
func (n *NotValidBefore) DecodeBinary(r *io.BinReader) { n.Height = r.ReadU32LE() }

// MarshalJSON renders {"height": N}.
func (n NotValidBefore) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Height uint32 `json:"height"`
	}{n.Height})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (n *NotValidBefore) UnmarshalJSON(data []byte) error {
	var raw struct {
		Height uint32 `json:"height"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.Height = raw.Height
	return nil
}

// Conflicts declares that this transaction intentionally invalidates
// another pending transaction with the given Hash.
type Conflicts struct {
	Hash util.Uint256
}

// AttrType implements AttrValue.
func (*Conflicts) AttrType() AttrType { return ConflictsT }

// EncodeBinary writes the 32 raw hash bytes.
func (c *Conflicts) EncodeBinary(w *io.BinWriter) { c.Hash.EncodeBinary(w) }

// DecodeBinary is the inverse of EncodeBinary.
func (c *Conflicts) DecodeBinary(r *io.BinReader) { c.Hash.DecodeBinary(r) }

// MarshalJSON renders {"hash": "0x..."}.
func (c Conflicts) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Hash string `json:"hash"`
	}{c.Hash.StringBE()})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (c *Conflicts) UnmarshalJSON(data []byte) error {
	var raw struct {
		Hash string `json:"hash"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	h, err := util.Uint256DecodeString(raw.Hash)
	if err != nil {
		return err
	}
	c.Hash = h
	return nil
}

// NotaryAssisted records how many extra signatures (Notary included) a
// notary-assisted transaction needs.
type NotaryAssisted struct {
	NKeys byte
}

// AttrType implements AttrValue.
func (*NotaryAssisted) AttrType() AttrType { return NotaryAssistedT }

// EncodeBinary writes the single NKeys byte.
func (n *NotaryAssisted) EncodeBinary(w *io.BinWriter) { w.WriteB(n.NKeys) }

// DecodeBinary is the inverse of EncodeBinary.
func (n *NotaryAssisted) DecodeBinary(r *io.BinReader) { n.NKeys = r.ReadB() }

// MarshalJSON renders {"nkeys": N}.
func (n NotaryAssisted) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		NKeys byte `json:"nkeys"`
	}{n.NKeys})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (n *NotaryAssisted) UnmarshalJSON(data []byte) error {
	var raw struct {
		NKeys byte `json:"nkeys"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.NKeys = raw.NKeys
	return nil
}

// Reserved is an opaque payload for attribute types in the
// [ReservedLowerBound, ReservedUpperBound] range this SDK does not
// otherwise understand: it round-trips the raw bytes without
// interpreting them.
type Reserved struct {
	Value []byte
}

// AttrType implements AttrValue with the zero value; callers read
// Attribute.Type directly for the real reserved tag.
func (*Reserved) AttrType() AttrType { return ReservedLowerBound }

// EncodeBinary writes Value as var_bytes.
func (r *Reserved) EncodeBinary(w *io.BinWriter) { w.WriteVarBytes(r.Value) }

// DecodeBinary is the inverse of EncodeBinary.
func (r *Reserved) DecodeBinary(br *io.BinReader) { r.Value = br.ReadVarBytes() }
