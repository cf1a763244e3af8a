package transaction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

func newTestTransaction() *Transaction {
	tx := New([]byte{0x01, 0x02, 0x03}, 1000000, 2000000, 12345)
	tx.Signers = []Signer{{Account: util.Uint160{1, 2, 3}, Scopes: CalledByEntry}}
	tx.Witnesses = []Witness{{InvocationScript: []byte{4, 5}, VerificationScript: []byte{6, 7}}}
	return tx
}

func TestTransactionEncodeDecodeBinaryRoundTrip(t *testing.T) {
	tx := newTestTransaction()
	data, err := tx.Bytes()
	require.NoError(t, err)

	decoded, err := NewTransactionFromBytes(data)
	require.NoError(t, err)
	require.Equal(t, tx.Version, decoded.Version)
	require.Equal(t, tx.Nonce, decoded.Nonce)
	require.Equal(t, tx.SystemFee, decoded.SystemFee)
	require.Equal(t, tx.NetworkFee, decoded.NetworkFee)
	require.Equal(t, tx.ValidUntilBlock, decoded.ValidUntilBlock)
	require.Equal(t, tx.Signers, decoded.Signers)
	require.Equal(t, tx.Script, decoded.Script)
	require.Equal(t, tx.Witnesses, decoded.Witnesses)
	require.Equal(t, tx.Hash(), decoded.Hash())
}

func TestTransactionHashIsCachedAndStable(t *testing.T) {
	tx := newTestTransaction()
	h1 := tx.Hash()
	h2 := tx.Hash()
	require.Equal(t, h1, h2)

	data, err := tx.Bytes()
	require.NoError(t, err)
	decoded, err := NewTransactionFromBytes(data)
	require.NoError(t, err)
	require.Equal(t, h1, decoded.Hash())
}

func TestTransactionHashChangesWithFields(t *testing.T) {
	tx1 := newTestTransaction()
	tx2 := newTestTransaction()
	tx2.Nonce = tx1.Nonce + 1
	require.NotEqual(t, tx1.Hash(), tx2.Hash())
}

func TestTransactionGetSignedHashBindsNetwork(t *testing.T) {
	tx := newTestTransaction()
	h1 := tx.GetSignedHash(0x334f454e)
	h2 := tx.GetSignedHash(0x4e454f33)
	require.NotEqual(t, h1, h2)
}

func TestTransactionSenderWithNoSigners(t *testing.T) {
	tx := New([]byte{1}, 0, 0, 0)
	require.Equal(t, util.Uint160{}, tx.Sender())
}

func TestTransactionSenderIsFirstSigner(t *testing.T) {
	tx := newTestTransaction()
	require.Equal(t, util.Uint160{1, 2, 3}, tx.Sender())
}

func TestTransactionHasSignerAndAttribute(t *testing.T) {
	tx := newTestTransaction()
	require.True(t, tx.HasSigner(util.Uint160{1, 2, 3}))
	require.False(t, tx.HasSigner(util.Uint160{9, 9, 9}))

	require.False(t, tx.HasAttribute(HighPriority))
	tx.Attributes = []Attribute{{Type: HighPriority}}
	require.True(t, tx.HasAttribute(HighPriority))
	require.Empty(t, tx.GetAttributes(ConflictsT))
	require.Len(t, tx.GetAttributes(HighPriority), 1)
}

func TestTransactionDecodeEmptyScript(t *testing.T) {
	// Bytes()/EncodeBinary don't themselves reject an empty script; the
	// check lives in DecodeBinary, so round-tripping one is how it's hit.
	tx := newTestTransaction()
	tx.Script = []byte{}
	data, err := tx.Bytes()
	require.NoError(t, err)

	_, err = NewTransactionFromBytes(data)
	require.ErrorIs(t, err, ErrEmptyScript)
}

func TestTransactionDecodeInvalidVersion(t *testing.T) {
	tx := newTestTransaction()
	data, err := tx.Bytes()
	require.NoError(t, err)
	data[0] = 1 // only version 0 is defined

	_, err = NewTransactionFromBytes(data)
	require.ErrorIs(t, err, ErrInvalidVersion)
}

func TestTransactionTooManyAttributes(t *testing.T) {
	tx := newTestTransaction()
	tx.Attributes = make([]Attribute, MaxAttributes)
	for i := range tx.Attributes {
		tx.Attributes[i] = Attribute{Type: HighPriority}
	}
	data, err := tx.Bytes()
	require.NoError(t, err)

	_, err = NewTransactionFromBytes(data)
	require.ErrorIs(t, err, ErrTooManyAttributes)
}

func TestTransactionSizeMatchesBytesLength(t *testing.T) {
	tx := newTestTransaction()
	data, err := tx.Bytes()
	require.NoError(t, err)
	require.Equal(t, len(data), tx.Size())
}

func TestTransactionMarshalJSONRoundTrip(t *testing.T) {
	tx := newTestTransaction()
	b, err := tx.MarshalJSON()
	require.NoError(t, err)

	var decoded Transaction
	require.NoError(t, decoded.UnmarshalJSON(b))
	require.Equal(t, tx.Version, decoded.Version)
	require.Equal(t, tx.Nonce, decoded.Nonce)
	require.Equal(t, tx.SystemFee, decoded.SystemFee)
	require.Equal(t, tx.NetworkFee, decoded.NetworkFee)
	require.Equal(t, tx.ValidUntilBlock, decoded.ValidUntilBlock)
	require.Equal(t, tx.Script, decoded.Script)
	require.Equal(t, tx.Hash(), decoded.Hash())
}

func TestTransactionGetSignedPartExcludesWitnesses(t *testing.T) {
	tx := newTestTransaction()
	part1 := tx.GetSignedPart()
	tx.Witnesses = append(tx.Witnesses, Witness{InvocationScript: []byte{0xff}})
	part2 := tx.GetSignedPart()
	require.Equal(t, part1, part2)
}
