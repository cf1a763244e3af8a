package result

import (
	"encoding/json"

	"github.com/nspcc-dev/neo-go-sdk/pkg/core/block"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// Block is the getblock RPC result: a full block plus the two fields
// only make sense in the context of a reply (how many blocks confirm
// it, and what comes next).
type Block struct {
	block.Block
	Confirmations uint32
	NextBlockHash *util.Uint256
}

type blockAux struct {
	Confirmations uint32        `json:"confirmations"`
	NextBlockHash *util.Uint256 `json:"nextblockhash,omitempty"`
}

// MarshalJSON stitches the embedded Block's fields together with
// Confirmations/NextBlockHash, matching the RPC wire shape.
func (b Block) MarshalJSON() ([]byte, error) {
	blockBytes, err := json.Marshal(b.Block)
	if err != nil {
		return nil, err
	}
	auxBytes, err := json.Marshal(blockAux{b.Confirmations, b.NextBlockHash})
	if err != nil {
		return nil, err
	}
	if blockBytes[len(blockBytes)-1] != '}' || auxBytes[0] != '{' {
		return nil, json.Marshal(nil)
	}
	blockBytes[len(blockBytes)-1] = ','
	blockBytes = append(blockBytes, auxBytes[1:]...)
	return blockBytes, nil
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (b *Block) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &b.Block); err != nil {
		return err
	}
	var aux blockAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	b.Confirmations = aux.Confirmations
	b.NextBlockHash = aux.NextBlockHash
	return nil
}

// Header is the getblockheader RPC result, the Block shape without a
// transaction list.
type Header struct {
	block.Header
	Confirmations uint32
	NextBlockHash *util.Uint256
}

// MarshalJSON stitches the embedded Header's fields together with
// Confirmations/NextBlockHash.
func (h Header) MarshalJSON() ([]byte, error) {
	headerBytes, err := json.Marshal(h.Header)
	if err != nil {
		return nil, err
	}
	auxBytes, err := json.Marshal(blockAux{h.Confirmations, h.NextBlockHash})
	if err != nil {
		return nil, err
	}
	if headerBytes[len(headerBytes)-1] != '}' || auxBytes[0] != '{' {
		return nil, json.Marshal(nil)
	}
	headerBytes[len(headerBytes)-1] = ','
	headerBytes = append(headerBytes, auxBytes[1:]...)
	return headerBytes, nil
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (h *Header) UnmarshalJSON(data []byte) error {
	if err := json.Unmarshal(data, &h.Header); err != nil {
		return err
	}
	var aux blockAux
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	h.Confirmations = aux.Confirmations
	h.NextBlockHash = aux.NextBlockHash
	return nil
}
