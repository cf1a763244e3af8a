// Package block holds the client-side Header/Block shapes the RPC
// layer decodes getblock/block_added replies into; it has no
// storage/consensus logic of its own.
package block

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/nspcc-dev/neo-go-sdk/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go-sdk/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go-sdk/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go-sdk/pkg/io"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// VersionInitial is the only block version Neo N3 currently defines.
const VersionInitial uint32 = 0

// Header holds a block's fields other than its transaction list.
type Header struct {
	Version       uint32
	PrevHash      util.Uint256
	MerkleRoot    util.Uint256
	Timestamp     uint64
	Nonce         uint64
	Index         uint32
	PrimaryIndex  byte
	NextConsensus util.Uint160
	Script        transaction.Witness

	// StateRootEnabled mirrors the NeoGo-specific extension some nodes
	// run with; when true PrevStateRoot is part of the hashable fields,
	// when false it's always zero and omitted from both wire formats.
	StateRootEnabled bool
	PrevStateRoot    util.Uint256

	hash      util.Uint256
	hashValid bool
}

// Hash returns the SHA256 of the header's hashable fields, caching the
// result after the first call.
func (h *Header) Hash() util.Uint256 {
	if !h.hashValid {
		buf := io.NewBufBinWriter()
		h.encodeHashableFields(buf.BinWriter)
		h.hash = hash.Sha256(buf.Bytes())
		h.hashValid = true
	}
	return h.hash
}

func (h *Header) encodeHashableFields(bw *io.BinWriter) {
	bw.WriteU32LE(h.Version)
	bw.WriteBytes(h.PrevHash[:])
	bw.WriteBytes(h.MerkleRoot[:])
	bw.WriteU64LE(h.Timestamp)
	bw.WriteU64LE(h.Nonce)
	bw.WriteU32LE(h.Index)
	bw.WriteB(h.PrimaryIndex)
	bw.WriteBytes(h.NextConsensus[:])
	if h.StateRootEnabled {
		bw.WriteBytes(h.PrevStateRoot[:])
	}
}

func (h *Header) decodeHashableFields(br *io.BinReader) {
	h.Version = br.ReadU32LE()
	br.ReadBytes(h.PrevHash[:])
	br.ReadBytes(h.MerkleRoot[:])
	h.Timestamp = br.ReadU64LE()
	h.Nonce = br.ReadU64LE()
	h.Index = br.ReadU32LE()
	h.PrimaryIndex = br.ReadB()
	br.ReadBytes(h.NextConsensus[:])
	if h.StateRootEnabled {
		br.ReadBytes(h.PrevStateRoot[:])
	}
	if br.Err == nil {
		h.hashValid = false
		h.Hash()
	}
}

// EncodeBinary writes the header's hashable fields followed by its
// single witness.
func (h *Header) EncodeBinary(bw *io.BinWriter) {
	h.encodeHashableFields(bw)
	bw.WriteVarUint(1)
	h.Script.EncodeBinary(bw)
}

// DecodeBinary reads a Header as produced by EncodeBinary.
func (h *Header) DecodeBinary(br *io.BinReader) {
	h.decodeHashableFields(br)
	if br.Err != nil {
		return
	}
	n := br.ReadVarUint()
	if br.Err != nil {
		return
	}
	if n != 1 {
		br.Err = errors.New("block: wrong witness count")
		return
	}
	h.Script.DecodeBinary(br)
}

type headerJSON struct {
	Hash          util.Uint256          `json:"hash"`
	Version       uint32                `json:"version"`
	PrevHash      util.Uint256          `json:"previousblockhash"`
	MerkleRoot    util.Uint256          `json:"merkleroot"`
	Timestamp     uint64                `json:"time"`
	Nonce         string                `json:"nonce"`
	Index         uint32                `json:"index"`
	NextConsensus string                `json:"nextconsensus"`
	PrimaryIndex  byte                  `json:"primary"`
	PrevStateRoot *util.Uint256         `json:"previousstateroot,omitempty"`
	Witnesses     []transaction.Witness `json:"witnesses"`
}

// MarshalJSON renders the header in its RPC wire shape.
func (h Header) MarshalJSON() ([]byte, error) {
	aux := headerJSON{
		Hash:          h.Hash(),
		Version:       h.Version,
		PrevHash:      h.PrevHash,
		MerkleRoot:    h.MerkleRoot,
		Timestamp:     h.Timestamp,
		Nonce:         fmt.Sprintf("%016X", h.Nonce),
		Index:         h.Index,
		PrimaryIndex:  h.PrimaryIndex,
		NextConsensus: address.Uint160ToString(h.NextConsensus),
		Witnesses:     []transaction.Witness{h.Script},
	}
	if h.StateRootEnabled {
		aux.PrevStateRoot = &h.PrevStateRoot
	}
	return json.Marshal(aux)
}

// UnmarshalJSON is the inverse of MarshalJSON, verifying the decoded
// hash matches the one recomputed from the other fields.
func (h *Header) UnmarshalJSON(data []byte) error {
	var aux headerJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	var nonce uint64
	if len(aux.Nonce) != 0 {
		n, err := strconv.ParseUint(aux.Nonce, 16, 64)
		if err != nil {
			return err
		}
		nonce = n
	}
	nextC, err := address.StringToUint160(aux.NextConsensus)
	if err != nil {
		return err
	}
	if len(aux.Witnesses) != 1 {
		return errors.New("block: wrong number of witnesses")
	}
	h.Version = aux.Version
	h.PrevHash = aux.PrevHash
	h.MerkleRoot = aux.MerkleRoot
	h.Timestamp = aux.Timestamp
	h.Nonce = nonce
	h.Index = aux.Index
	h.PrimaryIndex = aux.PrimaryIndex
	h.NextConsensus = nextC
	h.Script = aux.Witnesses[0]
	h.hashValid = false
	if h.StateRootEnabled {
		if aux.PrevStateRoot == nil {
			return errors.New("block: 'previousstateroot' is empty")
		}
		h.PrevStateRoot = *aux.PrevStateRoot
	}
	if !aux.Hash.Equals(h.Hash()) {
		return errors.New("block: json 'hash' doesn't match header hash")
	}
	return nil
}
