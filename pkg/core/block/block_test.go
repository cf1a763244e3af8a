package block

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nspcc-dev/neo-go-sdk/internal/testserdes"
	"github.com/nspcc-dev/neo-go-sdk/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

func newTestBlock(t *testing.T) *Block {
	tx := transaction.New([]byte{0x01}, 0, 0, 100)
	tx.Signers = []transaction.Signer{{Account: util.Uint160{1}, Scopes: transaction.CalledByEntry}}
	tx.Witnesses = []transaction.Witness{{}}

	b := &Block{
		Header:       *newTestHeader(),
		Transactions: []*transaction.Transaction{tx},
	}
	b.MerkleRoot = b.ComputeMerkleRoot()
	return b
}

func TestBlockEncodeDecodeBinary(t *testing.T) {
	b := newTestBlock(t)
	actual := &Block{}
	testserdes.EncodeDecodeBinary(t, b, actual)
}

func TestBlockEncodeDecodeBinaryNoTransactions(t *testing.T) {
	b := &Block{Header: *newTestHeader()}
	actual := &Block{}
	testserdes.EncodeDecodeBinary(t, b, actual)
	require.Empty(t, actual.Transactions)
}

func TestBlockComputeMerkleRoot(t *testing.T) {
	b := newTestBlock(t)
	require.Equal(t, b.MerkleRoot, b.ComputeMerkleRoot())
}

func TestBlockDecodeTooManyTransactions(t *testing.T) {
	b := newTestBlock(t)
	data, err := testserdes.EncodeBinary(b)
	require.NoError(t, err)

	// The var_uint transaction count immediately follows the header's
	// encoded bytes (hashable fields + 1-byte witness count + witness).
	h := newTestHeader()
	headerLen := len(mustEncode(t, h))
	require.Equal(t, byte(1), data[headerLen])
	data[headerLen] = 0xfe // switch to the 4-byte var_uint form
	data[headerLen+1] = 0xff
	data[headerLen+2] = 0xff
	data[headerLen+3] = 0xff
	data[headerLen+4] = 0xff

	decoded := &Block{}
	err = testserdes.DecodeBinary(data, decoded)
	require.ErrorIs(t, err, ErrMaxContentsPerBlock)
}

func TestBlockMarshalJSONRoundTrip(t *testing.T) {
	b := newTestBlock(t)
	data, err := b.MarshalJSON()
	require.NoError(t, err)

	var decoded Block
	require.NoError(t, decoded.UnmarshalJSON(data))
	require.Equal(t, b.Hash(), decoded.Hash())
	require.Len(t, decoded.Transactions, len(b.Transactions))
	require.Equal(t, b.Transactions[0].Hash(), decoded.Transactions[0].Hash())
}

func TestBlockMarshalJSONNoTransactions(t *testing.T) {
	b := &Block{Header: *newTestHeader()}
	data, err := b.MarshalJSON()
	require.NoError(t, err)

	var decoded Block
	require.NoError(t, decoded.UnmarshalJSON(data))
	require.Empty(t, decoded.Transactions)
}

func mustEncode(t *testing.T, h *Header) []byte {
	t.Helper()
	data, err := testserdes.EncodeBinary(h)
	require.NoError(t, err)
	return data
}
