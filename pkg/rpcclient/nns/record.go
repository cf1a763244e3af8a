// Package nns provides a binding for the Neo Name Service contract: a
// deployed (not native) NEP-11 contract mapping domain names to
// records and, as an NFT, to owning accounts. Unlike the native
// contracts in gas/neo/management, its script hash varies by
// deployment and is always supplied by the caller.
package nns

import (
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go-sdk/pkg/vm/stackitem"
)

// RecordType is a domain name service record type, as defined in
// RFC 1035/RFC 3596.
type RecordType byte

// The record types the NNS contract recognizes.
const (
	// A represents an address record type.
	A RecordType = 1
	// CNAME represents a canonical name record type.
	CNAME RecordType = 5
	// SOA represents a start-of-authority record type.
	SOA RecordType = 6
	// TXT represents a text record type.
	TXT RecordType = 16
	// AAAA represents an IPv6 address record type.
	AAAA RecordType = 28
)

// RecordState is one name/type/data record a domain carries, the
// shape `getAllRecords` enumerates and `getRecord`/`resolve` report a
// single field of.
type RecordState struct {
	Name string
	Type RecordType
	Data string
}

// ToStackItem converts r to the 3-field Struct the contract expects.
func (r RecordState) ToStackItem() (stackitem.Item, error) {
	return stackitem.NewStruct([]stackitem.Item{
		stackitem.NewByteString([]byte(r.Name)),
		stackitem.NewBigInteger(big.NewInt(int64(r.Type))),
		stackitem.NewByteString([]byte(r.Data)),
	}), nil
}

// FromStackItem decodes r from a 3-field Array/Struct: name, type
// (bounded to a byte-sized RecordType), and data.
func (r *RecordState) FromStackItem(item stackitem.Item) error {
	arr, err := stackitem.ToArray(item)
	if err != nil {
		return fmt.Errorf("nns: record: %w", err)
	}
	if len(arr) != 3 {
		return fmt.Errorf("nns: record: expected 3 fields, got %d", len(arr))
	}
	name, err := stackitem.ToBytes(arr[0])
	if err != nil {
		return fmt.Errorf("nns: record name: %w", err)
	}
	typ, err := stackitem.ToBigInteger(arr[1])
	if err != nil {
		return fmt.Errorf("nns: record type: %w", err)
	}
	if !typ.IsInt64() || typ.Int64() < 0 || typ.Int64() > 255 {
		return fmt.Errorf("nns: record type %s out of range", typ)
	}
	data, err := stackitem.ToBytes(arr[2])
	if err != nil {
		return fmt.Errorf("nns: record data: %w", err)
	}
	r.Name = string(name)
	r.Type = RecordType(typ.Int64())
	r.Data = string(data)
	return nil
}
