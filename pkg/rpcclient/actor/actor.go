// Package actor provides the fluent transaction-building layer the
// SDK builds on top of pkg/rpcclient/invoker: it turns a test
// invocation into a signed, sendable transaction in one call, handling
// fee calculation, ValidUntilBlock, and witness construction for a
// fixed signer set.
package actor

import (
	"bytes"
	"context"
	"fmt"

	"github.com/nspcc-dev/neo-go-sdk/pkg/core/state"
	"github.com/nspcc-dev/neo-go-sdk/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go-sdk/pkg/io"
	"github.com/nspcc-dev/neo-go-sdk/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go-sdk/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go-sdk/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
	"github.com/nspcc-dev/neo-go-sdk/pkg/vm/emit"
	"github.com/nspcc-dev/neo-go-sdk/pkg/wallet"
)

// RPCActor is the subset of rpcclient.Client (or a push-capable
// client like wsclient.WSClient) Actor needs: everything Invoker needs
// to run test invocations, plus the calls needed to turn one into a
// broadcast transaction and wait for it to land.
type RPCActor interface {
	invoker.RPCInvoke
	CalculateNetworkFee(tx *transaction.Transaction) (int64, error)
	GetBlockCount() (uint32, error)
	GetVersion() (*result.Version, error)
	SendRawTransaction(tx *transaction.Transaction) (util.Uint256, error)
	GetApplicationLog(hash util.Uint256, trig *trigger.Type) (*result.ApplicationLog, error)
	Context() context.Context
}

// SignerAccount pairs a transaction Signer with the wallet Account
// that signs on its behalf; they are kept separate because a
// multisig/committee Signer's witness can be built from a wallet
// Account holding only one of several keys.
type SignerAccount struct {
	Signer  transaction.Signer
	Account *wallet.Account
}

// Actor performs test invocations (via the embedded Invoker) and turns
// the resulting scripts into signed, submitted transactions.
type Actor struct {
	*invoker.Invoker

	client    RPCActor
	txSigners []transaction.Signer
	signers   []SignerAccount
	opts      Options
	waiter    Waiter
	version   *result.Version
}

// New builds an Actor signing with every given SignerAccount; the
// first entry's account is the transaction sender.
func New(client RPCActor, signers []SignerAccount) (*Actor, error) {
	return NewTuned(client, signers, NewDefaultOptions())
}

// NewSimple builds a single-signer Actor with CalledByEntry scope,
// the common case of "one account pays and authorizes everything".
func NewSimple(client RPCActor, acc *wallet.Account) (*Actor, error) {
	return New(client, []SignerAccount{{
		Signer:  transaction.Signer{Account: acc.ScriptHash(), Scopes: transaction.CalledByEntry},
		Account: acc,
	}})
}

// NewTuned is New with explicit Options.
func NewTuned(client RPCActor, signers []SignerAccount, opts Options) (*Actor, error) {
	if len(signers) == 0 {
		return nil, fmt.Errorf("actor: at least one signer is required")
	}
	txSigners := make([]transaction.Signer, len(signers))
	for i, sa := range signers {
		if sa.Account == nil || sa.Account.Contract == nil {
			return nil, fmt.Errorf("actor: signer %d has no usable contract", i)
		}
		if sa.Account.ScriptHash() != sa.Signer.Account {
			return nil, fmt.Errorf("actor: signer %d account hash mismatch", i)
		}
		txSigners[i] = sa.Signer
	}
	ver, err := client.GetVersion()
	if err != nil {
		return nil, fmt.Errorf("actor: get version: %w", err)
	}
	if opts.CheckerModifier == nil {
		opts.CheckerModifier = DefaultCheckerModifier
	}
	inv := invoker.New(client, txSigners)
	return &Actor{
		Invoker:   inv,
		client:    client,
		txSigners: txSigners,
		signers:   signers,
		opts:      opts,
		waiter:    newWaiter(client, ver),
		version:   ver,
	}, nil
}

// Sender returns the script hash of the first signer, the account
// that pays network/system fees.
func (a *Actor) Sender() util.Uint160 {
	return a.txSigners[0].Account
}

// GetNetwork returns the network magic cached at construction time.
func (a *Actor) GetNetwork() uint32 {
	return a.version.Protocol.Network
}

// GetVersion returns the getversion response cached at construction
// time.
func (a *Actor) GetVersion() result.Version {
	return *a.version
}

// CalculateNetworkFee wraps the client's calculatenetworkfee call.
func (a *Actor) CalculateNetworkFee(tx *transaction.Transaction) (int64, error) {
	return a.client.CalculateNetworkFee(tx)
}

// GetBlockCount wraps the client's getblockcount call.
func (a *Actor) GetBlockCount() (uint32, error) {
	return a.client.GetBlockCount()
}

// Context returns the client's context.
func (a *Actor) Context() context.Context {
	return a.client.Context()
}

// Sign signs tx with every signer account that currently holds a
// private key, filling in tx.Scripts. Multisig witnesses are left
// incomplete (their InvocationScript nil) if not enough keys are
// available; the caller can still send an incomplete transaction to a
// signature-collection workflow.
func (a *Actor) Sign(tx *transaction.Transaction) error {
	network := a.GetNetwork()
	if len(tx.Witnesses) != len(a.signers) {
		tx.Witnesses = make([]transaction.Witness, len(a.signers))
	}
	for i, sa := range a.signers {
		if !sa.Account.CanSign() {
			return fmt.Errorf("actor: signer %d (%s) has no usable private key", i, sa.Account.Address)
		}
		sig := sa.Account.SignHashable(network, tx)
		buf := new(bytes.Buffer)
		emit.Bytes(io.NewBinWriterFromIO(buf), sig)
		tx.Witnesses[i] = transaction.Witness{
			InvocationScript:   buf.Bytes(),
			VerificationScript: sa.Account.Contract.Script,
		}
	}
	return nil
}

// SignAndSend signs tx and submits it, returning its hash and the
// ValidUntilBlock it carries.
func (a *Actor) SignAndSend(tx *transaction.Transaction) (util.Uint256, uint32, error) {
	if err := a.Sign(tx); err != nil {
		return util.Uint256{}, 0, err
	}
	return a.Send(tx)
}

// Send submits an already-signed transaction.
func (a *Actor) Send(tx *transaction.Transaction) (util.Uint256, uint32, error) {
	h, err := a.client.SendRawTransaction(tx)
	if err != nil {
		return util.Uint256{}, 0, fmt.Errorf("actor: send: %w", err)
	}
	return h, tx.ValidUntilBlock, nil
}

// Wait blocks until the transaction with hash h is accepted (appears
// in an application log) or its ValidUntilBlock passes, whichever
// comes first.
func (a *Actor) Wait(h util.Uint256, vub uint32, sendErr error) (*state.AppExecResult, error) {
	return a.waiter.Wait(h, vub, sendErr)
}

// WaitSuccess is Wait, additionally rejecting any execution that did
// not end in HALT.
func (a *Actor) WaitSuccess(h util.Uint256, vub uint32, sendErr error) (*state.AppExecResult, error) {
	aer, err := a.Wait(h, vub, sendErr)
	if err != nil {
		return nil, err
	}
	if aer.VMState.String() != "HALT" {
		return nil, fmt.Errorf("%w: %s", ErrExecFailed, aer.FaultException)
	}
	return aer, nil
}
