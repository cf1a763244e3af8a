package block

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/nspcc-dev/neo-go-sdk/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go-sdk/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go-sdk/pkg/io"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// MaxTransactionsPerBlock is the protocol's cap on a block's content
// count.
const MaxTransactionsPerBlock = math.MaxUint16

// ErrMaxContentsPerBlock is returned when decoding a block whose
// declared transaction count exceeds MaxTransactionsPerBlock.
var ErrMaxContentsPerBlock = errors.New("block: too many transactions")

// Block is a full Neo N3 block: its Header plus the transactions it
// carries.
type Block struct {
	Header
	Transactions []*transaction.Transaction
}

// ComputeMerkleRoot recomputes the block's merkle root from its
// current transaction list.
func (b *Block) ComputeMerkleRoot() util.Uint256 {
	hashes := make([]util.Uint256, len(b.Transactions))
	for i, tx := range b.Transactions {
		hashes[i] = tx.Hash()
	}
	return hash.CalcMerkleRoot(hashes)
}

// EncodeBinary writes the header followed by the full transaction
// list.
func (b *Block) EncodeBinary(bw *io.BinWriter) {
	b.Header.EncodeBinary(bw)
	bw.WriteVarUint(uint64(len(b.Transactions)))
	for _, tx := range b.Transactions {
		tx.EncodeBinary(bw)
	}
}

// DecodeBinary reads a Block as produced by EncodeBinary.
func (b *Block) DecodeBinary(br *io.BinReader) {
	b.Header.DecodeBinary(br)
	if br.Err != nil {
		return
	}
	n := br.ReadVarUint()
	if br.Err != nil {
		return
	}
	if n > MaxTransactionsPerBlock {
		br.Err = ErrMaxContentsPerBlock
		return
	}
	txs := make([]*transaction.Transaction, n)
	for i := range txs {
		tx := &transaction.Transaction{}
		tx.DecodeBinary(br)
		if br.Err != nil {
			return
		}
		txs[i] = tx
	}
	b.Transactions = txs
}

type auxBlockOut struct {
	Transactions []*transaction.Transaction `json:"tx"`
}

type auxBlockIn struct {
	Transactions []json.RawMessage `json:"tx"`
}

// MarshalJSON stitches the Header's own JSON fields together with the
// transaction list, matching the RPC wire shape (a flat object, not a
// nested "header" key).
func (b Block) MarshalJSON() ([]byte, error) {
	auxb, err := json.Marshal(auxBlockOut{Transactions: b.Transactions})
	if err != nil {
		return nil, err
	}
	headerBytes, err := json.Marshal(b.Header)
	if err != nil {
		return nil, err
	}
	if headerBytes[len(headerBytes)-1] != '}' || auxb[0] != '{' {
		return nil, errors.New("block: can't merge internal JSON objects")
	}
	headerBytes[len(headerBytes)-1] = ','
	headerBytes = append(headerBytes, auxb[1:]...)
	return headerBytes, nil
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (b *Block) UnmarshalJSON(data []byte) error {
	var auxb auxBlockIn
	if err := json.Unmarshal(data, &auxb); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &b.Header); err != nil {
		return err
	}
	if len(auxb.Transactions) == 0 {
		return nil
	}
	b.Transactions = make([]*transaction.Transaction, 0, len(auxb.Transactions))
	for _, raw := range auxb.Transactions {
		tx := &transaction.Transaction{}
		if err := tx.UnmarshalJSON(raw); err != nil {
			return err
		}
		b.Transactions = append(b.Transactions, tx)
	}
	return nil
}
