// Package neo provides a binding for the native NEO contract: the
// governance token, candidate registration, committee voting, and the
// network economic parameters it controls.
package neo

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go-sdk/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go-sdk/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go-sdk/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go-sdk/pkg/rpcclient/nep17"
	"github.com/nspcc-dev/neo-go-sdk/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go-sdk/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
	"github.com/nspcc-dev/neo-go-sdk/pkg/vm/stackitem"
)

// Hash is the NEO native contract's script hash, fixed by consensus
// and identical on every Neo N3 network.
var Hash = mustHash("0xef4073a0f2b305a38ec4050e4d3d28bc40ea63f5")

func mustHash(s string) util.Uint160 {
	h, err := util.Uint160DecodeString(s)
	if err != nil {
		panic(err)
	}
	return h
}

// AccountState is the per-account state the `getAccountState` method
// returns: NEO balance, the height at which it was last updated, and
// (when the account voted) the candidate voted for.
type AccountState struct {
	Balance        *big.Int
	BalanceHeight  uint32
	VoteTo         *keys.PublicKey
	LastGasPerVote *big.Int
}

// Reader is the read-only NEO contract binding.
type Reader struct {
	nep17.Reader
	invoker nep17.Invokable
}

// NewReader builds a read-only NEO binding.
func NewReader(invoker nep17.Invokable) *Reader {
	return &Reader{*nep17.NewReader(invoker, Hash), invoker}
}

// Actor is the subset of actor.Actor a write-capable NEO binding
// needs: everything Reader needs, plus building/sending invocations.
type Actor interface {
	nep17.ActorInvokable
}

// Contract is the read/write NEO contract binding.
type Contract struct {
	Reader
	actor Actor
}

// New builds a read/write NEO binding.
func New(actor Actor) *Contract {
	return &Contract{Reader{*nep17.NewReader(actor, Hash), actor}, actor}
}

// GetAccountState calls `getAccountState` for account. It returns nil
// (not an error) when the account has never held NEO.
func (c *Reader) GetAccountState(account util.Uint160) (*AccountState, error) {
	item, err := unwrap.Item(c.invoker.Call(Hash, "getAccountState", account))
	if err != nil {
		return nil, err
	}
	if _, ok := item.(stackitem.Null); ok {
		return nil, nil
	}
	arr, ok := item.(*stackitem.Array)
	if !ok || len(arr.Value) < 2 {
		return nil, errors.New("neo: malformed account state")
	}
	bal, err := stackitem.ToBigInteger(arr.Value[0])
	if err != nil {
		return nil, fmt.Errorf("neo: account state balance: %w", err)
	}
	height, err := stackitem.ToBigInteger(arr.Value[1])
	if err != nil {
		return nil, fmt.Errorf("neo: account state height: %w", err)
	}
	st := &AccountState{Balance: bal, BalanceHeight: uint32(height.Int64())}
	if len(arr.Value) > 2 {
		if pkBytes, err := stackitem.ToBytes(arr.Value[2]); err == nil && len(pkBytes) > 0 {
			pk, err := keys.NewPublicKeyFromBytes(pkBytes, keys.Secp256r1())
			if err != nil {
				return nil, fmt.Errorf("neo: account state vote target: %w", err)
			}
			st.VoteTo = pk
		}
	}
	if len(arr.Value) > 3 {
		if gpv, err := stackitem.ToBigInteger(arr.Value[3]); err == nil {
			st.LastGasPerVote = gpv
		}
	}
	return st, nil
}

// GetCommittee calls `getCommittee`.
func (c *Reader) GetCommittee() (keys.PublicKeys, error) {
	pks, err := unwrap.ArrayOfPublicKeys(c.invoker.Call(Hash, "getCommittee"))
	return pks, err
}

// GetNextBlockValidators calls `getNextBlockValidators`.
func (c *Reader) GetNextBlockValidators() (keys.PublicKeys, error) {
	pks, err := unwrap.ArrayOfPublicKeys(c.invoker.Call(Hash, "getNextBlockValidators"))
	return pks, err
}

// GetGasPerBlock calls `getGasPerBlock`.
func (c *Reader) GetGasPerBlock() (int64, error) {
	return unwrap.Int64(c.invoker.Call(Hash, "getGasPerBlock"))
}

// GetRegisterPrice calls `getRegisterPrice`.
func (c *Reader) GetRegisterPrice() (int64, error) {
	return unwrap.Int64(c.invoker.Call(Hash, "getRegisterPrice"))
}

// UnclaimedGas calls `unclaimedGas` for account as of endBlock.
func (c *Reader) UnclaimedGas(account util.Uint160, endBlock uint32) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(Hash, "unclaimedGas", account, int64(endBlock)))
}

// GetCandidates calls `getCandidates`, which returns its result as a
// plain inline array (not an iterator) capped by the node's own
// result-size limit.
func (c *Reader) GetCandidates() ([]result.Validator, error) {
	arr, err := unwrap.Array(c.invoker.Call(Hash, "getCandidates"))
	if err != nil {
		return nil, err
	}
	out := make([]result.Validator, len(arr))
	for i, it := range arr {
		pair, ok := it.(*stackitem.Array)
		if !ok || len(pair.Value) != 2 {
			return nil, fmt.Errorf("neo: malformed candidate entry %d", i)
		}
		pkBytes, err := stackitem.ToBytes(pair.Value[0])
		if err != nil {
			return nil, fmt.Errorf("neo: candidate public key: %w", err)
		}
		pk, err := keys.NewPublicKeyFromBytes(pkBytes, keys.Secp256r1())
		if err != nil {
			return nil, fmt.Errorf("neo: candidate public key: %w", err)
		}
		votes, err := stackitem.ToBigInteger(pair.Value[1])
		if err != nil {
			return nil, fmt.Errorf("neo: candidate votes: %w", err)
		}
		out[i] = result.Validator{PublicKey: pk, Votes: votes.Int64()}
	}
	return out, nil
}

// CandidateIterator pages through a `getAllCandidates` result. When the
// node answered with an inline value array (no server-side session),
// Next simply slices it and Terminate is a no-op; there is currently
// no session-traversal transport (no TraverseIterator/TerminateSession
// client method), so a genuine session-backed iterator reports that
// explicitly rather than silently returning nothing.
type CandidateIterator struct {
	values    []stackitem.Item
	sessional bool
}

// Next returns up to num decoded candidates from the iterator.
func (it *CandidateIterator) Next(num int) ([]result.Validator, error) {
	if it.sessional {
		return nil, errors.New("neo: session-backed iterator traversal is not supported by this client")
	}
	if num > len(it.values) {
		num = len(it.values)
	}
	batch := it.values[:num]
	it.values = it.values[num:]
	out := make([]result.Validator, len(batch))
	for i, item := range batch {
		pair, ok := item.(*stackitem.Array)
		if !ok || len(pair.Value) != 2 {
			return nil, fmt.Errorf("neo: malformed candidate entry %d", i)
		}
		pkBytes, err := stackitem.ToBytes(pair.Value[0])
		if err != nil {
			return nil, fmt.Errorf("neo: candidate public key: %w", err)
		}
		pk, err := keys.NewPublicKeyFromBytes(pkBytes, keys.Secp256r1())
		if err != nil {
			return nil, fmt.Errorf("neo: candidate public key: %w", err)
		}
		votes, err := stackitem.ToBigInteger(pair.Value[1])
		if err != nil {
			return nil, fmt.Errorf("neo: candidate votes: %w", err)
		}
		out[i] = result.Validator{PublicKey: pk, Votes: votes.Int64()}
	}
	return out, nil
}

// Terminate releases the iterator's server-side session, if any.
func (it *CandidateIterator) Terminate() error {
	if it.sessional {
		return errors.New("neo: session-backed iterator traversal is not supported by this client")
	}
	return nil
}

// GetAllCandidates calls `getAllCandidates`, which returns its result
// as an Iterator interop item.
func (c *Reader) GetAllCandidates() (*CandidateIterator, error) {
	item, err := unwrap.Item(c.invoker.Call(Hash, "getAllCandidates"))
	if err != nil {
		return nil, err
	}
	interop, ok := item.(stackitem.Interop)
	if !ok {
		return nil, fmt.Errorf("neo: expected Interop, got %s", item.Type())
	}
	iter, ok := interop.Value.(result.Iterator)
	if !ok {
		return nil, errors.New("neo: interop doesn't carry an iterator")
	}
	if iter.ID != nil && len(iter.Values) == 0 {
		return &CandidateIterator{sessional: true}, nil
	}
	return &CandidateIterator{values: iter.Values}, nil
}

func (c *Contract) call(method string, args ...interface{}) (util.Uint256, uint32, error) {
	script, err := callScript(method, args...)
	if err != nil {
		return util.Uint256{}, 0, err
	}
	return c.actor.SendRun(script)
}

func (c *Contract) callTransaction(method string, args ...interface{}) (*transaction.Transaction, error) {
	script, err := callScript(method, args...)
	if err != nil {
		return nil, err
	}
	return c.actor.MakeRun(script)
}

func (c *Contract) callUnsigned(method string, args ...interface{}) (*transaction.Transaction, error) {
	script, err := callScript(method, args...)
	if err != nil {
		return nil, err
	}
	return c.actor.MakeUnsignedRun(script, nil)
}

func callScript(method string, args ...interface{}) ([]byte, error) {
	params, err := smartcontract.NewParametersFromValues(args...)
	if err != nil {
		return nil, err
	}
	b := smartcontract.NewBuilder()
	iargs := make([]interface{}, len(params))
	for i, p := range params {
		iargs[i] = p
	}
	b.InvokeMethod(Hash, method, iargs...)
	return b.Script()
}

// SetGasPerBlock broadcasts a `setGasPerBlock` committee call.
func (c *Contract) SetGasPerBlock(gas int64) (util.Uint256, uint32, error) {
	return c.call("setGasPerBlock", gas)
}

// SetGasPerBlockTransaction signs and returns, without broadcasting, a
// `setGasPerBlock` transaction.
func (c *Contract) SetGasPerBlockTransaction(gas int64) (*transaction.Transaction, error) {
	return c.callTransaction("setGasPerBlock", gas)
}

// SetGasPerBlockUnsigned builds, without signing, a `setGasPerBlock`
// transaction.
func (c *Contract) SetGasPerBlockUnsigned(gas int64) (*transaction.Transaction, error) {
	return c.callUnsigned("setGasPerBlock", gas)
}

// SetRegisterPrice broadcasts a `setRegisterPrice` committee call.
func (c *Contract) SetRegisterPrice(price int64) (util.Uint256, uint32, error) {
	return c.call("setRegisterPrice", price)
}

// SetRegisterPriceTransaction signs and returns, without broadcasting,
// a `setRegisterPrice` transaction.
func (c *Contract) SetRegisterPriceTransaction(price int64) (*transaction.Transaction, error) {
	return c.callTransaction("setRegisterPrice", price)
}

// SetRegisterPriceUnsigned builds, without signing, a
// `setRegisterPrice` transaction.
func (c *Contract) SetRegisterPriceUnsigned(price int64) (*transaction.Transaction, error) {
	return c.callUnsigned("setRegisterPrice", price)
}

// Vote broadcasts a `vote` call casting account's vote for candidate
// (pass nil to withdraw a vote).
func (c *Contract) Vote(account util.Uint160, candidate *keys.PublicKey) (util.Uint256, uint32, error) {
	return c.call("vote", account, votedCandidate(candidate))
}

// VoteTransaction signs and returns, without broadcasting, a `vote`
// transaction.
func (c *Contract) VoteTransaction(account util.Uint160, candidate *keys.PublicKey) (*transaction.Transaction, error) {
	return c.callTransaction("vote", account, votedCandidate(candidate))
}

// VoteUnsigned builds, without signing, a `vote` transaction.
func (c *Contract) VoteUnsigned(account util.Uint160, candidate *keys.PublicKey) (*transaction.Transaction, error) {
	return c.callUnsigned("vote", account, votedCandidate(candidate))
}

func votedCandidate(candidate *keys.PublicKey) interface{} {
	if candidate == nil {
		return nil
	}
	return candidate
}

// RegisterCandidate broadcasts a `registerCandidate` call for pub.
func (c *Contract) RegisterCandidate(pub *keys.PublicKey) (util.Uint256, uint32, error) {
	return c.call("registerCandidate", pub)
}

// RegisterCandidateTransaction signs and returns, without
// broadcasting, a `registerCandidate` transaction.
func (c *Contract) RegisterCandidateTransaction(pub *keys.PublicKey) (*transaction.Transaction, error) {
	return c.callTransaction("registerCandidate", pub)
}

// RegisterCandidateUnsigned builds, without signing, a
// `registerCandidate` transaction.
func (c *Contract) RegisterCandidateUnsigned(pub *keys.PublicKey) (*transaction.Transaction, error) {
	return c.callUnsigned("registerCandidate", pub)
}

// UnregisterCandidate broadcasts an `unregisterCandidate` call for
// pub.
func (c *Contract) UnregisterCandidate(pub *keys.PublicKey) (util.Uint256, uint32, error) {
	return c.call("unregisterCandidate", pub)
}

// UnregisterCandidateTransaction signs and returns, without
// broadcasting, an `unregisterCandidate` transaction.
func (c *Contract) UnregisterCandidateTransaction(pub *keys.PublicKey) (*transaction.Transaction, error) {
	return c.callTransaction("unregisterCandidate", pub)
}

// UnregisterCandidateUnsigned builds, without signing, an
// `unregisterCandidate` transaction.
func (c *Contract) UnregisterCandidateUnsigned(pub *keys.PublicKey) (*transaction.Transaction, error) {
	return c.callUnsigned("unregisterCandidate", pub)
}
