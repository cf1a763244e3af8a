// Package management provides a binding for the native
// ContractManagement contract: contract deployment, update, removal,
// and on-chain contract enumeration/lookup.
package management

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go-sdk/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go-sdk/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go-sdk/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go-sdk/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go-sdk/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go-sdk/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
	"github.com/nspcc-dev/neo-go-sdk/pkg/vm/stackitem"
)

// Hash is the ContractManagement native contract's script hash, fixed
// by consensus and identical on every Neo N3 network.
var Hash = mustHash("0xfffdc93764dbaddd97c48f252a53ea4643faa3fd")

func mustHash(s string) util.Uint160 {
	h, err := util.Uint160DecodeString(s)
	if err != nil {
		panic(err)
	}
	return h
}

// IDHash pairs a contract's ID with its script hash, the shape
// `getContractHashes` enumerates.
type IDHash struct {
	ID   int32
	Hash util.Uint160
}

// Invokable is the subset of Invoker a Reader needs.
type Invokable interface {
	Call(contract util.Uint160, operation string, params ...interface{}) (*result.Invoke, error)
}

// Reader is the read-only ContractManagement binding.
type Reader struct {
	invoker Invokable
}

// NewReader builds a Reader.
func NewReader(invoker Invokable) *Reader {
	return &Reader{invoker}
}

// GetMinimumDeploymentFee calls `getMinimumDeploymentFee`.
func (c *Reader) GetMinimumDeploymentFee() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(Hash, "getMinimumDeploymentFee"))
}

// HasMethod calls `hasMethod`, reporting whether contract has a method
// named name taking paramCount parameters.
func (c *Reader) HasMethod(contract util.Uint160, name string, paramCount int) (bool, error) {
	return unwrap.Bool(c.invoker.Call(Hash, "hasMethod", contract, name, int64(paramCount)))
}

func contractIDHash(it stackitem.Item) (int32, util.Uint160, error) {
	arr, ok := it.(*stackitem.Array)
	if !ok || len(arr.Value) < 3 {
		return 0, util.Uint160{}, errors.New("management: malformed contract state")
	}
	id, err := stackitem.ToBigInteger(arr.Value[0])
	if err != nil {
		return 0, util.Uint160{}, fmt.Errorf("management: contract id: %w", err)
	}
	hashBytes, err := stackitem.ToBytes(arr.Value[2])
	if err != nil {
		return 0, util.Uint160{}, fmt.Errorf("management: contract hash: %w", err)
	}
	h, err := util.Uint160DecodeBytesBE(hashBytes)
	if err != nil {
		return 0, util.Uint160{}, fmt.Errorf("management: contract hash: %w", err)
	}
	return int32(id.Int64()), h, nil
}

// GetContractIDHash calls `getContract`, returning only the ID and
// hash of the contract at hash without decoding its NEF/manifest.
func (c *Reader) GetContractIDHash(hash util.Uint160) (int32, util.Uint160, error) {
	item, err := unwrap.Item(c.invoker.Call(Hash, "getContract", hash))
	if err != nil {
		return 0, util.Uint160{}, err
	}
	return contractIDHash(item)
}

// GetContractIDHashByID calls `getContractById`, returning only the ID
// and hash of the contract with the given id.
func (c *Reader) GetContractIDHashByID(id int32) (int32, util.Uint160, error) {
	item, err := unwrap.Item(c.invoker.Call(Hash, "getContractById", int64(id)))
	if err != nil {
		return 0, util.Uint160{}, err
	}
	return contractIDHash(item)
}

func itemsToIDHashes(items []stackitem.Item) ([]IDHash, error) {
	out := make([]IDHash, len(items))
	for i, it := range items {
		strct, ok := it.(*stackitem.Struct)
		if !ok {
			arr, isArr := it.(*stackitem.Array)
			if !isArr {
				return nil, fmt.Errorf("management: entry %d: expected Struct, got %s", i, it.Type())
			}
			strct = stackitem.NewStruct(arr.Value)
		}
		if len(strct.Value) != 2 {
			return nil, fmt.Errorf("management: entry %d: expected 2 fields, got %d", i, len(strct.Value))
		}
		idBytes, err := stackitem.ToBytes(strct.Value[0])
		if err != nil || len(idBytes) > 4 {
			return nil, fmt.Errorf("management: entry %d: malformed id", i)
		}
		var id int32
		for j := len(idBytes) - 1; j >= 0; j-- {
			id = id<<8 | int32(idBytes[j])
		}
		hashBytes, err := stackitem.ToBytes(strct.Value[1])
		if err != nil {
			return nil, fmt.Errorf("management: entry %d: malformed hash: %w", i, err)
		}
		h, err := util.Uint160DecodeBytesBE(hashBytes)
		if err != nil {
			return nil, fmt.Errorf("management: entry %d: malformed hash: %w", i, err)
		}
		out[i] = IDHash{ID: id, Hash: h}
	}
	return out, nil
}

// ContractHashesIterator pages through a `getContractHashes` result.
// Like neo.CandidateIterator, a genuine session-backed iterator
// reports an explicit error rather than pretending to return nothing,
// since this client has no TraverseIterator/TerminateSession
// transport.
type ContractHashesIterator struct {
	values    []stackitem.Item
	sessional bool
}

// Next returns up to num decoded entries from the iterator.
func (it *ContractHashesIterator) Next(num int) ([]IDHash, error) {
	if it.sessional {
		return nil, errors.New("management: session-backed iterator traversal is not supported by this client")
	}
	if num > len(it.values) {
		num = len(it.values)
	}
	batch := it.values[:num]
	it.values = it.values[num:]
	return itemsToIDHashes(batch)
}

// Terminate releases the iterator's server-side session, if any.
func (it *ContractHashesIterator) Terminate() error {
	if it.sessional {
		return errors.New("management: session-backed iterator traversal is not supported by this client")
	}
	return nil
}

// GetContractHashes calls `getContractHashes`.
func (c *Reader) GetContractHashes() (*ContractHashesIterator, error) {
	item, err := unwrap.Item(c.invoker.Call(Hash, "getContractHashes"))
	if err != nil {
		return nil, err
	}
	interop, ok := item.(stackitem.Interop)
	if !ok {
		return nil, fmt.Errorf("management: expected Interop, got %s", item.Type())
	}
	iter, ok := interop.Value.(result.Iterator)
	if !ok {
		return nil, errors.New("management: interop doesn't carry an iterator")
	}
	if iter.ID != nil && len(iter.Values) == 0 {
		return &ContractHashesIterator{sessional: true}, nil
	}
	return &ContractHashesIterator{values: iter.Values}, nil
}

// GetContractHashesExpanded calls `getContractHashes` and immediately
// drains up to maxItems entries from the result, for callers that
// don't need (or can't use) paged iteration.
func (c *Reader) GetContractHashesExpanded(maxItems int) ([]IDHash, error) {
	iter, err := c.GetContractHashes()
	if err != nil {
		return nil, err
	}
	return iter.Next(maxItems)
}

// ActorInvokable is the subset of Actor a Contract needs.
type ActorInvokable interface {
	Invokable
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// Contract is the read/write ContractManagement binding.
type Contract struct {
	Reader
	actor ActorInvokable
}

// New builds a read/write ContractManagement binding.
func New(actor ActorInvokable) *Contract {
	return &Contract{Reader{actor}, actor}
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

// SetMinimumDeploymentFee broadcasts a `setMinimumDeploymentFee`
// committee call.
func (c *Contract) SetMinimumDeploymentFee(value *big.Int) (util.Uint256, uint32, error) {
	script, err := callScript("setMinimumDeploymentFee", value)
	if err != nil {
		return util.Uint256{}, 0, err
	}
	return c.actor.SendRun(script)
}

// SetMinimumDeploymentFeeTransaction signs and returns, without
// broadcasting, a `setMinimumDeploymentFee` transaction.
func (c *Contract) SetMinimumDeploymentFeeTransaction(value *big.Int) (*transaction.Transaction, error) {
	script, err := callScript("setMinimumDeploymentFee", value)
	if err != nil {
		return nil, err
	}
	return c.actor.MakeRun(script)
}

// SetMinimumDeploymentFeeUnsigned builds, without signing, a
// `setMinimumDeploymentFee` transaction.
func (c *Contract) SetMinimumDeploymentFeeUnsigned(value *big.Int) (*transaction.Transaction, error) {
	script, err := callScript("setMinimumDeploymentFee", value)
	if err != nil {
		return nil, err
	}
	return c.actor.MakeUnsignedRun(script, nil)
}

func deployScript(exe *nef.File, manif *manifest.Manifest, data interface{}) ([]byte, error) {
	nefBytes, err := exe.Bytes()
	if err != nil {
		return nil, fmt.Errorf("management: nef: %w", err)
	}
	manifBytes, err := json.Marshal(manif)
	if err != nil {
		return nil, fmt.Errorf("management: manifest: %w", err)
	}
	dataParam, err := smartcontract.NewParameterFromValue(data)
	if err != nil {
		return nil, fmt.Errorf("management: deploy data: %w", err)
	}
	b := smartcontract.NewBuilder()
	b.InvokeMethod(Hash, "deploy", nefBytes, manifBytes, dataParam)
	return b.Script()
}

// Deploy broadcasts a `deploy` call installing exe/manif, carrying the
// optional onNEP11Payment/onNEP17Payment-style data argument forward
// to `_deploy`.
func (c *Contract) Deploy(exe *nef.File, manif *manifest.Manifest, data interface{}) (util.Uint256, uint32, error) {
	script, err := deployScript(exe, manif, data)
	if err != nil {
		return util.Uint256{}, 0, err
	}
	return c.actor.SendRun(script)
}

// DeployTransaction signs and returns, without broadcasting, a
// `deploy` transaction.
func (c *Contract) DeployTransaction(exe *nef.File, manif *manifest.Manifest, data interface{}) (*transaction.Transaction, error) {
	script, err := deployScript(exe, manif, data)
	if err != nil {
		return nil, err
	}
	return c.actor.MakeRun(script)
}

// DeployUnsigned builds, without signing, a `deploy` transaction.
func (c *Contract) DeployUnsigned(exe *nef.File, manif *manifest.Manifest, data interface{}) (*transaction.Transaction, error) {
	script, err := deployScript(exe, manif, data)
	if err != nil {
		return nil, err
	}
	return c.actor.MakeUnsignedRun(script, nil)
}
