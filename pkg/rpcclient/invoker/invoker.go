// Package invoker provides a thin wrapper that pairs an RPC
// invocation transport with a fixed signer list, so repeated preflight
// calls against the same contract don't need to re-specify who is
// "invoking" each time.
package invoker

import (
	"fmt"

	"github.com/nspcc-dev/neo-go-sdk/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go-sdk/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go-sdk/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// RPCInvoke is the current-height subset of rpcclient.Client that
// Invoker needs.
type RPCInvoke interface {
	InvokeContractVerify(contract util.Uint160, params []smartcontract.Parameter, signers []transaction.Signer, witnesses ...transaction.Witness) (*result.Invoke, error)
	InvokeFunction(contract util.Uint160, operation string, params []smartcontract.Parameter, signers []transaction.Signer) (*result.Invoke, error)
	InvokeScript(script []byte, signers []transaction.Signer) (*result.Invoke, error)
}

// RPCInvokeHistoric is the historic-invocation subset of
// rpcclient.Client: the same three calls, each pinned to a past block,
// height, or state root rather than the chain's current head.
type RPCInvokeHistoric interface {
	InvokeContractVerifyAtBlock(block util.Uint256, contract util.Uint160, params []smartcontract.Parameter, signers []transaction.Signer, witnesses ...transaction.Witness) (*result.Invoke, error)
	InvokeContractVerifyAtHeight(height uint32, contract util.Uint160, params []smartcontract.Parameter, signers []transaction.Signer, witnesses ...transaction.Witness) (*result.Invoke, error)
	InvokeContractVerifyWithState(root util.Uint256, contract util.Uint160, params []smartcontract.Parameter, signers []transaction.Signer, witnesses ...transaction.Witness) (*result.Invoke, error)
	InvokeFunctionAtBlock(block util.Uint256, contract util.Uint160, operation string, params []smartcontract.Parameter, signers []transaction.Signer) (*result.Invoke, error)
	InvokeFunctionAtHeight(height uint32, contract util.Uint160, operation string, params []smartcontract.Parameter, signers []transaction.Signer) (*result.Invoke, error)
	InvokeFunctionWithState(root util.Uint256, contract util.Uint160, operation string, params []smartcontract.Parameter, signers []transaction.Signer) (*result.Invoke, error)
	InvokeScriptAtBlock(block util.Uint256, script []byte, signers []transaction.Signer) (*result.Invoke, error)
	InvokeScriptAtHeight(height uint32, script []byte, signers []transaction.Signer) (*result.Invoke, error)
	InvokeScriptWithState(root util.Uint256, script []byte, signers []transaction.Signer) (*result.Invoke, error)
}

// Invoker performs preflight (non-broadcasting) invocations against a
// fixed signer set, the basis Actor builds transaction construction
// on top of.
type Invoker struct {
	client  RPCInvoke
	signers []transaction.Signer
}

// New builds an Invoker against the chain's current head.
func New(client RPCInvoke, signers []transaction.Signer) *Invoker {
	return &Invoker{client: client, signers: signers}
}

// NewHistoricAtBlock builds an Invoker pinned to a specific block hash.
func NewHistoricAtBlock(block util.Uint256, client RPCInvokeHistoric, signers []transaction.Signer) *Invoker {
	return &Invoker{client: &historicConverter{client: client, block: &block}, signers: signers}
}

// NewHistoricAtHeight builds an Invoker pinned to a specific height.
func NewHistoricAtHeight(height uint32, client RPCInvokeHistoric, signers []transaction.Signer) *Invoker {
	return &Invoker{client: &historicConverter{client: client, height: &height}, signers: signers}
}

// NewHistoricWithState builds an Invoker pinned to a specific state
// root.
func NewHistoricWithState(root util.Uint256, client RPCInvokeHistoric, signers []transaction.Signer) *Invoker {
	return &Invoker{client: &historicConverter{client: client, root: &root}, signers: signers}
}

// historicConverter adapts an RPCInvokeHistoric into an RPCInvoke
// pinned to whichever one of block/height/root was set at
// construction time.
type historicConverter struct {
	client RPCInvokeHistoric
	block  *util.Uint256
	height *uint32
	root   *util.Uint256
}

func (h *historicConverter) InvokeScript(script []byte, signers []transaction.Signer) (*result.Invoke, error) {
	switch {
	case h.block != nil:
		return h.client.InvokeScriptAtBlock(*h.block, script, signers)
	case h.height != nil:
		return h.client.InvokeScriptAtHeight(*h.height, script, signers)
	case h.root != nil:
		return h.client.InvokeScriptWithState(*h.root, script, signers)
	default:
		panic("invoker: uninitialized historicConverter")
	}
}

func (h *historicConverter) InvokeFunction(contract util.Uint160, operation string, params []smartcontract.Parameter, signers []transaction.Signer) (*result.Invoke, error) {
	switch {
	case h.block != nil:
		return h.client.InvokeFunctionAtBlock(*h.block, contract, operation, params, signers)
	case h.height != nil:
		return h.client.InvokeFunctionAtHeight(*h.height, contract, operation, params, signers)
	case h.root != nil:
		return h.client.InvokeFunctionWithState(*h.root, contract, operation, params, signers)
	default:
		panic("invoker: uninitialized historicConverter")
	}
}

func (h *historicConverter) InvokeContractVerify(contract util.Uint160, params []smartcontract.Parameter, signers []transaction.Signer, witnesses ...transaction.Witness) (*result.Invoke, error) {
	switch {
	case h.block != nil:
		return h.client.InvokeContractVerifyAtBlock(*h.block, contract, params, signers, witnesses...)
	case h.height != nil:
		return h.client.InvokeContractVerifyAtHeight(*h.height, contract, params, signers, witnesses...)
	case h.root != nil:
		return h.client.InvokeContractVerifyWithState(*h.root, contract, params, signers, witnesses...)
	default:
		panic("invoker: uninitialized historicConverter")
	}
}

// Call invokes operation on contract with params converted from plain
// Go values.
func (v *Invoker) Call(contract util.Uint160, operation string, params ...interface{}) (*result.Invoke, error) {
	ps, err := smartcontract.NewParametersFromValues(params...)
	if err != nil {
		return nil, err
	}
	return v.client.InvokeFunction(contract, operation, ps, v.signers)
}

// CallAndExpandIterator invokes method on contract and arranges for
// the result's iterator (if any) to be traversable up to maxItems
// items via the session mechanism.
func (v *Invoker) CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...interface{}) (*result.Invoke, error) {
	script, err := smartcontract.CreateCallAndUnwrapIteratorScript(contract, method, maxItems, params...)
	if err != nil {
		return nil, fmt.Errorf("invoker: iterator call script: %w", err)
	}
	return v.Run(script)
}

// Verify invokes contract's verify() entry point under the given
// witnesses, the preflight check Actor runs before broadcasting a
// transaction carrying that contract as a non-sender Signer.
func (v *Invoker) Verify(contract util.Uint160, witnesses []transaction.Witness, params ...interface{}) (*result.Invoke, error) {
	ps, err := smartcontract.NewParametersFromValues(params...)
	if err != nil {
		return nil, err
	}
	return v.client.InvokeContractVerify(contract, ps, v.signers, witnesses...)
}

// Run invokes an arbitrary script under the Invoker's fixed signers.
func (v *Invoker) Run(script []byte) (*result.Invoke, error) {
	return v.client.InvokeScript(script, v.signers)
}

// Signers returns the fixed signer list this Invoker was built with.
func (v *Invoker) Signers() []transaction.Signer { return v.signers }
