package actor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nspcc-dev/neo-go-sdk/pkg/core/state"
	"github.com/nspcc-dev/neo-go-sdk/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go-sdk/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go-sdk/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go-sdk/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
	"github.com/nspcc-dev/neo-go-sdk/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go-sdk/pkg/wallet"
)

type fakeActorClient struct {
	ctx context.Context

	invokeScript         func([]byte, []transaction.Signer) (*result.Invoke, error)
	invokeFunction       func(util.Uint160, string, []smartcontract.Parameter, []transaction.Signer) (*result.Invoke, error)
	invokeContractVerify func(util.Uint160, []smartcontract.Parameter, []transaction.Signer, ...transaction.Witness) (*result.Invoke, error)

	calculateNetworkFee func(*transaction.Transaction) (int64, error)
	getBlockCount       func() (uint32, error)
	getVersion          func() (*result.Version, error)
	sendRawTransaction  func(*transaction.Transaction) (util.Uint256, error)
	getApplicationLog   func(util.Uint256, *trigger.Type) (*result.ApplicationLog, error)
}

func (f *fakeActorClient) InvokeScript(script []byte, signers []transaction.Signer) (*result.Invoke, error) {
	return f.invokeScript(script, signers)
}

func (f *fakeActorClient) InvokeFunction(contract util.Uint160, op string, params []smartcontract.Parameter, signers []transaction.Signer) (*result.Invoke, error) {
	return f.invokeFunction(contract, op, params, signers)
}

func (f *fakeActorClient) InvokeContractVerify(contract util.Uint160, params []smartcontract.Parameter, signers []transaction.Signer, witnesses ...transaction.Witness) (*result.Invoke, error) {
	return f.invokeContractVerify(contract, params, signers, witnesses...)
}

func (f *fakeActorClient) CalculateNetworkFee(tx *transaction.Transaction) (int64, error) {
	return f.calculateNetworkFee(tx)
}

func (f *fakeActorClient) GetBlockCount() (uint32, error) {
	return f.getBlockCount()
}

func (f *fakeActorClient) GetVersion() (*result.Version, error) {
	return f.getVersion()
}

func (f *fakeActorClient) SendRawTransaction(tx *transaction.Transaction) (util.Uint256, error) {
	return f.sendRawTransaction(tx)
}

func (f *fakeActorClient) GetApplicationLog(h util.Uint256, trig *trigger.Type) (*result.ApplicationLog, error) {
	return f.getApplicationLog(h, trig)
}

func (f *fakeActorClient) Context() context.Context {
	if f.ctx == nil {
		return context.Background()
	}
	return f.ctx
}

func newFakeActorClient() *fakeActorClient {
	return &fakeActorClient{
		invokeScript: func(script []byte, signers []transaction.Signer) (*result.Invoke, error) {
			return &result.Invoke{State: "HALT", GasConsumed: 100}, nil
		},
		calculateNetworkFee: func(tx *transaction.Transaction) (int64, error) { return 50, nil },
		getBlockCount:       func() (uint32, error) { return 1000, nil },
		getVersion:          func() (*result.Version, error) { return &result.Version{Protocol: result.Protocol{Network: 860833102}}, nil },
		sendRawTransaction:  func(tx *transaction.Transaction) (util.Uint256, error) { return tx.Hash(), nil },
		getApplicationLog: func(h util.Uint256, trig *trigger.Type) (*result.ApplicationLog, error) {
			return nil, errNotFound
		},
	}
}

var errNotFound = assertError("not found")

type assertError string

func (e assertError) Error() string { return string(e) }

func newTestAccount(t *testing.T) *wallet.Account {
	t.Helper()
	acc, err := wallet.NewAccount()
	require.NoError(t, err)
	return acc
}

func TestNewSimple(t *testing.T) {
	client := newFakeActorClient()
	acc := newTestAccount(t)
	a, err := NewSimple(client, acc)
	require.NoError(t, err)
	require.Equal(t, acc.ScriptHash(), a.Sender())
	require.EqualValues(t, 860833102, a.GetNetwork())
}

func TestNewTunedRejectsEmptySigners(t *testing.T) {
	client := newFakeActorClient()
	_, err := New(client, nil)
	require.Error(t, err)
}

func TestNewTunedRejectsNilContract(t *testing.T) {
	client := newFakeActorClient()
	acc := &wallet.Account{}
	_, err := New(client, []SignerAccount{{Signer: transaction.Signer{}, Account: acc}})
	require.Error(t, err)
}

func TestNewTunedRejectsScriptHashMismatch(t *testing.T) {
	client := newFakeActorClient()
	acc := newTestAccount(t)
	_, err := New(client, []SignerAccount{{
		Signer:  transaction.Signer{Account: util.Uint160{1, 2, 3}},
		Account: acc,
	}})
	require.Error(t, err)
}

func TestNewTunedPropagatesGetVersionError(t *testing.T) {
	client := newFakeActorClient()
	client.getVersion = func() (*result.Version, error) { return nil, assertError("boom") }
	acc := newTestAccount(t)
	_, err := NewSimple(client, acc)
	require.Error(t, err)
}

func TestActorSignAndSend(t *testing.T) {
	client := newFakeActorClient()
	acc := newTestAccount(t)
	a, err := NewSimple(client, acc)
	require.NoError(t, err)

	tx := transaction.New([]byte{0x01}, 0, 0, 1100)
	tx.Signers = []transaction.Signer{{Account: acc.ScriptHash(), Scopes: transaction.CalledByEntry}}

	h, vub, err := a.SignAndSend(tx)
	require.NoError(t, err)
	require.EqualValues(t, 1100, vub)
	require.Equal(t, tx.Hash(), h)
	require.Len(t, tx.Witnesses, 1)
	require.NotEmpty(t, tx.Witnesses[0].InvocationScript)
	require.Equal(t, acc.Contract.Script, tx.Witnesses[0].VerificationScript)
}

func TestActorSignFailsWithoutPrivateKey(t *testing.T) {
	client := newFakeActorClient()
	acc := newTestAccount(t)
	a, err := NewSimple(client, acc)
	require.NoError(t, err)

	locked := &wallet.Account{Address: acc.Address, Contract: acc.Contract}
	a.signers[0].Account = locked

	tx := transaction.New([]byte{0x01}, 0, 0, 1100)
	err = a.Sign(tx)
	require.Error(t, err)
}

func TestActorSendWrapsError(t *testing.T) {
	client := newFakeActorClient()
	client.sendRawTransaction = func(tx *transaction.Transaction) (util.Uint256, error) { return util.Uint256{}, assertError("rejected") }
	acc := newTestAccount(t)
	a, err := NewSimple(client, acc)
	require.NoError(t, err)

	tx := transaction.New([]byte{0x01}, 0, 0, 1100)
	_, _, err = a.Send(tx)
	require.Error(t, err)
}

func TestActorMakeUnsignedUncheckedRun(t *testing.T) {
	client := newFakeActorClient()
	acc := newTestAccount(t)
	a, err := NewSimple(client, acc)
	require.NoError(t, err)

	tx, err := a.MakeUnsignedUncheckedRun([]byte{0x01}, 123, nil)
	require.NoError(t, err)
	require.EqualValues(t, 123, tx.SystemFee)
	require.EqualValues(t, 50, tx.NetworkFee)
	require.Equal(t, acc.ScriptHash(), tx.Signers[0].Account)
}

func TestActorMakeUnsignedUncheckedRunRejectsEmptyScript(t *testing.T) {
	client := newFakeActorClient()
	acc := newTestAccount(t)
	a, err := NewSimple(client, acc)
	require.NoError(t, err)

	_, err = a.MakeUnsignedUncheckedRun(nil, 0, nil)
	require.Error(t, err)
}

func TestActorMakeUnsignedRunRejectsFaultedInvocation(t *testing.T) {
	client := newFakeActorClient()
	client.invokeScript = func(script []byte, signers []transaction.Signer) (*result.Invoke, error) {
		return &result.Invoke{State: "FAULT", FaultException: "out of gas"}, nil
	}
	acc := newTestAccount(t)
	a, err := NewSimple(client, acc)
	require.NoError(t, err)

	_, err = a.MakeUnsignedRun([]byte{0x01}, nil)
	require.Error(t, err)
}

func TestActorMakeRunUsesInvocationGas(t *testing.T) {
	client := newFakeActorClient()
	client.invokeScript = func(script []byte, signers []transaction.Signer) (*result.Invoke, error) {
		return &result.Invoke{State: "HALT", GasConsumed: 7654321}, nil
	}
	acc := newTestAccount(t)
	a, err := NewSimple(client, acc)
	require.NoError(t, err)

	tx, err := a.MakeRun([]byte{0x01})
	require.NoError(t, err)
	require.EqualValues(t, 7654321, tx.SystemFee)
	require.NotEmpty(t, tx.Witnesses[0].InvocationScript)
}

func TestActorMakeCallBuildsInvocationScript(t *testing.T) {
	client := newFakeActorClient()
	var gotScript []byte
	client.invokeScript = func(script []byte, signers []transaction.Signer) (*result.Invoke, error) {
		gotScript = script
		return &result.Invoke{State: "HALT", GasConsumed: 10}, nil
	}
	acc := newTestAccount(t)
	a, err := NewSimple(client, acc)
	require.NoError(t, err)

	tx, err := a.MakeCall(util.Uint160{1, 2, 3}, "transfer", acc.ScriptHash(), util.Uint160{4}, int64(1), nil)
	require.NoError(t, err)
	require.NotEmpty(t, gotScript)
	require.Equal(t, gotScript, tx.Script)
}

func TestActorSendCall(t *testing.T) {
	client := newFakeActorClient()
	client.invokeScript = func(script []byte, signers []transaction.Signer) (*result.Invoke, error) {
		return &result.Invoke{State: "HALT", GasConsumed: 10}, nil
	}
	acc := newTestAccount(t)
	a, err := NewSimple(client, acc)
	require.NoError(t, err)

	h, vub, err := a.SendCall(util.Uint160{1}, "symbol")
	require.NoError(t, err)
	require.NotZero(t, vub)
	require.NotEqual(t, util.Uint256{}, h)
}

func TestActorWaitSuccess(t *testing.T) {
	client := newFakeActorClient()
	container := util.Uint256{1, 2, 3}
	client.getApplicationLog = func(h util.Uint256, trig *trigger.Type) (*result.ApplicationLog, error) {
		return &result.ApplicationLog{
			Container:  h,
			Executions: []state.Execution{{VMState: vmstate.Halt}},
		}, nil
	}
	acc := newTestAccount(t)
	a, err := NewSimple(client, acc)
	require.NoError(t, err)

	aer, err := a.WaitSuccess(container, 1100, nil)
	require.NoError(t, err)
	require.Equal(t, container, aer.Container)
}

func TestActorWaitSuccessRejectsFault(t *testing.T) {
	client := newFakeActorClient()
	client.getApplicationLog = func(h util.Uint256, trig *trigger.Type) (*result.ApplicationLog, error) {
		return &result.ApplicationLog{
			Container:  h,
			Executions: []state.Execution{{VMState: vmstate.Fault, FaultException: "boom"}},
		}, nil
	}
	acc := newTestAccount(t)
	a, err := NewSimple(client, acc)
	require.NoError(t, err)

	_, err = a.WaitSuccess(util.Uint256{1}, 1100, nil)
	require.ErrorIs(t, err, ErrExecFailed)
}

func TestActorWaitPropagatesSendErr(t *testing.T) {
	client := newFakeActorClient()
	acc := newTestAccount(t)
	a, err := NewSimple(client, acc)
	require.NoError(t, err)

	_, err = a.Wait(util.Uint256{1}, 1100, assertError("send failed"))
	require.Error(t, err)
}

func TestActorCalculateValidUntilBlockUsesValidatorsHistory(t *testing.T) {
	client := newFakeActorClient()
	client.getVersion = func() (*result.Version, error) {
		return &result.Version{Protocol: result.Protocol{
			Network:           860833102,
			ValidatorsCount:   7,
			ValidatorsHistory: map[uint32]uint32{0: 4, 500: 7},
		}}, nil
	}
	client.getBlockCount = func() (uint32, error) { return 600, nil }
	acc := newTestAccount(t)
	a, err := NewSimple(client, acc)
	require.NoError(t, err)

	vub, err := a.CalculateValidUntilBlock()
	require.NoError(t, err)
	require.EqualValues(t, 600+7+defaultValidUntilBlockIncrement, vub)
}
