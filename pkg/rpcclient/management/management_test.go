package management

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go-sdk/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go-sdk/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go-sdk/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go-sdk/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
	"github.com/nspcc-dev/neo-go-sdk/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

type testAct struct {
	err error
	res *result.Invoke
	tx  *transaction.Transaction
	txh util.Uint256
	vub uint32
}

func (t *testAct) Call(contract util.Uint160, operation string, params ...interface{}) (*result.Invoke, error) {
	return t.res, t.err
}
func (t *testAct) MakeRun(script []byte) (*transaction.Transaction, error) {
	return t.tx, t.err
}
func (t *testAct) MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error) {
	return t.tx, t.err
}
func (t *testAct) SendRun(script []byte) (util.Uint256, uint32, error) {
	return t.txh, t.vub, t.err
}

func TestReader(t *testing.T) {
	ta := new(testAct)
	man := NewReader(ta)

	ta.err = errors.New("boom")
	_, _, err := man.GetContractIDHash(util.Uint160{1, 2, 3})
	require.Error(t, err)
	_, _, err = man.GetContractIDHashByID(1)
	require.Error(t, err)
	_, err = man.GetMinimumDeploymentFee()
	require.Error(t, err)
	_, err = man.HasMethod(util.Uint160{1, 2, 3}, "method", 0)
	require.Error(t, err)

	ta.err = nil
	ta.res = &result.Invoke{
		State: "HALT",
		Stack: []stackitem.Item{stackitem.NewBigInteger(big.NewInt(42))},
	}
	_, _, err = man.GetContractIDHash(util.Uint160{1, 2, 3})
	require.Error(t, err)
	fee, err := man.GetMinimumDeploymentFee()
	require.NoError(t, err)
	require.Equal(t, big.NewInt(42), fee)
	hm, err := man.HasMethod(util.Uint160{1, 2, 3}, "method", 0)
	require.NoError(t, err)
	require.True(t, hm)

	ta.res = &result.Invoke{
		State: "HALT",
		Stack: []stackitem.Item{
			stackitem.NewArray([]stackitem.Item{
				stackitem.NewBigInteger(big.NewInt(1)),
				stackitem.NewBigInteger(big.NewInt(0)),
				stackitem.NewByteString(util.Uint160{1, 2, 3}.BytesBE()),
			}),
		},
	}
	id, h, err := man.GetContractIDHash(util.Uint160{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, int32(1), id)
	require.Equal(t, util.Uint160{1, 2, 3}, h)
	id2, h2, err := man.GetContractIDHashByID(1)
	require.NoError(t, err)
	require.Equal(t, id, id2)
	require.Equal(t, h, h2)
}

func TestGetContractHashes(t *testing.T) {
	ta := &testAct{}
	man := NewReader(ta)

	ta.err = errors.New("boom")
	_, err := man.GetContractHashes()
	require.Error(t, err)

	ta.err = nil
	iid := uuid.New()
	ta.res = &result.Invoke{
		State: "HALT",
		Stack: []stackitem.Item{stackitem.NewInterop(result.Iterator{ID: &iid})},
	}
	iter, err := man.GetContractHashes()
	require.NoError(t, err)
	_, err = iter.Next(1)
	require.Error(t, err)
	require.Error(t, iter.Terminate())

	ta.res = &result.Invoke{
		State: "HALT",
		Stack: []stackitem.Item{
			stackitem.NewInterop(result.Iterator{
				Values: []stackitem.Item{stackitem.NewStruct([]stackitem.Item{
					stackitem.NewByteString([]byte{0, 0, 0, 1}),
					stackitem.NewByteString(util.Uint160{1, 2, 3}.BytesBE()),
				})},
			}),
		},
	}
	iter, err = man.GetContractHashes()
	require.NoError(t, err)
	vals, err := iter.Next(10)
	require.NoError(t, err)
	require.Equal(t, 1, len(vals))
	require.Equal(t, IDHash{ID: 1, Hash: util.Uint160{1, 2, 3}}, vals[0])
	require.NoError(t, iter.Terminate())

	ta.res = &result.Invoke{
		State: "HALT",
		Stack: []stackitem.Item{
			stackitem.NewInterop(result.Iterator{
				Values: []stackitem.Item{stackitem.NewStruct([]stackitem.Item{
					stackitem.NewByteString([]byte{0, 0, 0, 1}),
					stackitem.NewByteString(util.Uint160{1, 2, 3}.BytesBE()),
				})},
			}),
		},
	}
	expanded, err := man.GetContractHashesExpanded(5)
	require.NoError(t, err)
	require.Equal(t, 1, len(expanded))
	require.Equal(t, IDHash{ID: 1, Hash: util.Uint160{1, 2, 3}}, expanded[0])
}

func TestSetMinimumDeploymentFee(t *testing.T) {
	ta := new(testAct)
	man := New(ta)

	ta.err = errors.New("boom")
	_, _, err := man.SetMinimumDeploymentFee(big.NewInt(42))
	require.Error(t, err)

	for _, m := range []func(*big.Int) (*transaction.Transaction, error){
		man.SetMinimumDeploymentFeeTransaction,
		man.SetMinimumDeploymentFeeUnsigned,
	} {
		_, err = m(big.NewInt(100))
		require.Error(t, err)
	}

	ta.err = nil
	ta.txh = util.Uint256{1, 2, 3}
	ta.vub = 42
	h, vub, err := man.SetMinimumDeploymentFee(big.NewInt(42))
	require.NoError(t, err)
	require.Equal(t, ta.txh, h)
	require.Equal(t, ta.vub, vub)

	ta.tx = &transaction.Transaction{Nonce: 100500, ValidUntilBlock: 42}
	for _, m := range []func(*big.Int) (*transaction.Transaction, error){
		man.SetMinimumDeploymentFeeTransaction,
		man.SetMinimumDeploymentFeeUnsigned,
	} {
		tx, err := m(big.NewInt(100))
		require.NoError(t, err)
		require.Equal(t, ta.tx, tx)
	}
}

func TestDeploy(t *testing.T) {
	ta := new(testAct)
	man := New(ta)
	nefFile, err := nef.NewFile([]byte{1, 2, 3})
	require.NoError(t, err)
	manif := manifest.DefaultManifest("stack item")

	ta.err = errors.New("boom")
	_, _, err = man.Deploy(nefFile, manif, nil)
	require.Error(t, err)

	for _, m := range []func(exe *nef.File, manif *manifest.Manifest, data interface{}) (*transaction.Transaction, error){
		man.DeployTransaction,
		man.DeployUnsigned,
	} {
		_, err = m(nefFile, manif, nil)
		require.Error(t, err)
	}

	ta.err = nil
	ta.txh = util.Uint256{1, 2, 3}
	ta.vub = 42
	h, vub, err := man.Deploy(nefFile, manif, nil)
	require.NoError(t, err)
	require.Equal(t, ta.txh, h)
	require.Equal(t, ta.vub, vub)

	ta.tx = &transaction.Transaction{Nonce: 100500, ValidUntilBlock: 42}
	for _, m := range []func(exe *nef.File, manif *manifest.Manifest, data interface{}) (*transaction.Transaction, error){
		man.DeployTransaction,
		man.DeployUnsigned,
	} {
		tx, err := m(nefFile, manif, nil)
		require.NoError(t, err)
		require.Equal(t, ta.tx, tx)

		_, err = m(nefFile, manif, stackitem.NewInterop(nil))
		require.Error(t, err)
	}

	_, _, err = man.Deploy(nefFile, manif, stackitem.NewInterop(nil))
	require.Error(t, err)

	_, _, err = man.Deploy(nefFile, manif, 100500)
	require.NoError(t, err)
}

func TestItemsToIDHashesErrors(t *testing.T) {
	for name, input := range map[string][]stackitem.Item{
		"not a struct": {stackitem.NewBigInteger(big.NewInt(1))},
		"wrong length": {stackitem.NewStruct([]stackitem.Item{})},
		"lengthy id": {stackitem.NewStruct([]stackitem.Item{
			stackitem.NewByteString(util.Uint160{1, 2, 3}.BytesBE()),
			stackitem.NewByteString(util.Uint160{1, 2, 3}.BytesBE()),
		})},
		"not a good u160 hash": {stackitem.NewStruct([]stackitem.Item{
			stackitem.NewByteString([]byte{0, 0, 0, 1}),
			stackitem.NewByteString(util.Uint256{1, 2, 3}.BytesBE()),
		})},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := itemsToIDHashes(input)
			require.Error(t, err)
		})
	}
}
