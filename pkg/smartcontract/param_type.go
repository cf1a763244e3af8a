package smartcontract

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nspcc-dev/neo-go-sdk/pkg/encoding/address"
)

// ParamType identifies the type tag of a ContractParameter, matching
// the protocol's ContractParameterType enum byte values exactly (so it
// doubles as the NEF/manifest wire encoding).
type ParamType byte

// The full ContractParameterType set.
const (
	AnyType              ParamType = 0x00
	BoolType             ParamType = 0x10
	IntegerType          ParamType = 0x11
	ByteArrayType        ParamType = 0x12
	StringType           ParamType = 0x13
	Hash160Type          ParamType = 0x14
	Hash256Type          ParamType = 0x15
	PublicKeyType        ParamType = 0x16
	SignatureType        ParamType = 0x17
	ArrayType            ParamType = 0x20
	MapType              ParamType = 0x22
	InteropInterfaceType ParamType = 0x30
	VoidType             ParamType = 0xff
	UnknownType          ParamType = 0xff // alias: the protocol reuses Void's byte for "unspecified"
)

var typeNames = map[ParamType]string{
	AnyType:              "Any",
	BoolType:             "Boolean",
	IntegerType:          "Integer",
	ByteArrayType:        "ByteArray",
	StringType:           "String",
	Hash160Type:          "Hash160",
	Hash256Type:          "Hash256",
	PublicKeyType:        "PublicKey",
	SignatureType:        "Signature",
	ArrayType:            "Array",
	MapType:              "Map",
	InteropInterfaceType: "InteropInterface",
	VoidType:             "Void",
}

// String renders the canonical manifest ABI name for t.
func (t ParamType) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "Unknown"
}

// ErrInvalidParamType is returned by ParseParamType for unrecognized names.
var ErrInvalidParamType = errors.New("smartcontract: invalid parameter type")

// ParseParamType parses the CLI/config-friendly lowercase spelling of a
// ParamType (e.g. "hash160", "bytes", "int"), case-insensitively.
func ParseParamType(s string) (ParamType, error) {
	switch strings.ToLower(s) {
	case "signature":
		return SignatureType, nil
	case "bool", "boolean":
		return BoolType, nil
	case "int", "integer":
		return IntegerType, nil
	case "hash160":
		return Hash160Type, nil
	case "hash256":
		return Hash256Type, nil
	case "bytes", "bytearray":
		return ByteArrayType, nil
	case "key", "publickey":
		return PublicKeyType, nil
	case "string":
		return StringType, nil
	case "array":
		return ArrayType, nil
	case "map":
		return MapType, nil
	case "interopinterface":
		return InteropInterfaceType, nil
	case "void":
		return VoidType, nil
	case "any":
		return AnyType, nil
	default:
		return UnknownType, fmt.Errorf("%w: %q", ErrInvalidParamType, s)
	}
}

// ConvertToParamType validates that n is one of the protocol's defined
// ContractParameterType byte values and returns it as a ParamType.
func ConvertToParamType(n int) (ParamType, error) {
	switch ParamType(n) {
	case AnyType, BoolType, IntegerType, ByteArrayType, StringType,
		Hash160Type, Hash256Type, PublicKeyType, SignatureType,
		ArrayType, MapType, InteropInterfaceType, VoidType:
		return ParamType(n), nil
	default:
		return UnknownType, fmt.Errorf("%w: %d", ErrInvalidParamType, n)
	}
}

// inferParamType guesses a CLI-supplied argument's ParamType from its
// textual shape: an address or bare 20-byte hex is Hash160, 32-byte hex
// is Hash256, 33-byte hex is a compressed PublicKey, 64-byte hex is a
// Signature, any other valid hex is ByteArray, "true"/"false" is Bool,
// a parseable integer is Integer, anything else is String.
func inferParamType(s string) ParamType {
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntegerType
	}
	if s == "true" || s == "false" {
		return BoolType
	}
	if _, err := address.StringToUint160(s); err == nil {
		return Hash160Type
	}
	if b, err := hex.DecodeString(s); err == nil {
		switch len(b) {
		case 20:
			return Hash160Type
		case 32:
			return Hash256Type
		case 33:
			return PublicKeyType
		case 64:
			return SignatureType
		default:
			return ByteArrayType
		}
	}
	return StringType
}
