// Package nep17 provides a binding for the NEP-17 fungible token
// standard, layering transfer construction over the read-only surface
// pkg/rpcclient/neptoken already covers.
package nep17

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go-sdk/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go-sdk/pkg/rpcclient/neptoken"
	"github.com/nspcc-dev/neo-go-sdk/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// Invokable is the subset of Invoker a Reader needs.
type Invokable = neptoken.Invokable

// ActorInvokable is the subset of Actor a Token needs to build and
// optionally send transfer transactions.
type ActorInvokable interface {
	Invokable
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// Reader is the read-only NEP-17 binding: neptoken.Base plus nothing
// else, since balanceOf/decimals/symbol/totalSupply are the entire
// NEP-17 read surface.
type Reader struct {
	neptoken.Base
}

// NewReader builds a Reader bound to contract.
func NewReader(invoker Invokable, hash util.Uint160) *Reader {
	return &Reader{neptoken.New(invoker, hash)}
}

// Token is the read/write NEP-17 binding.
type Token struct {
	Reader
	actor ActorInvokable
	hash  util.Uint160
}

// New builds a Token bound to contract.
func New(actor ActorInvokable, hash util.Uint160) *Token {
	return &Token{Reader{neptoken.New(actor, hash)}, actor, hash}
}

// TransferParameters is one leg of a MultiTransfer call: From sends
// Amount to To, carrying the (optional) onNEP17Payment data payload.
type TransferParameters struct {
	From   util.Uint160
	To     util.Uint160
	Amount *big.Int
	Data   interface{}
}

func (t *Token) transferScript(ps []TransferParameters) ([]byte, error) {
	if len(ps) == 0 {
		return nil, errors.New("nep17: empty transfer parameter list")
	}
	b := smartcontract.NewBuilder()
	for _, p := range ps {
		data, err := smartcontract.NewParameterFromValue(p.Data)
		if err != nil {
			return nil, fmt.Errorf("nep17: transfer data: %w", err)
		}
		b.InvokeMethod(t.hash, "transfer", p.From, p.To, p.Amount, data)
	}
	return b.Script()
}

// Transfer moves amount from `from` to `to`, carrying the optional
// onNEP17Payment data argument, and broadcasts the resulting
// transaction.
func (t *Token) Transfer(from util.Uint160, to util.Uint160, amount *big.Int, data interface{}) (util.Uint256, uint32, error) {
	return t.MultiTransfer([]TransferParameters{{from, to, amount, data}})
}

// MultiTransfer builds a single script invoking `transfer` once per
// entry in ps and broadcasts it, so a batch of transfers either all
// land in the same block or none do.
func (t *Token) MultiTransfer(ps []TransferParameters) (util.Uint256, uint32, error) {
	script, err := t.transferScript(ps)
	if err != nil {
		return util.Uint256{}, 0, err
	}
	return t.actor.SendRun(script)
}

// TransferTransaction is Transfer's counterpart that signs and returns
// the transaction without broadcasting it.
func (t *Token) TransferTransaction(from util.Uint160, to util.Uint160, amount *big.Int, data interface{}) (*transaction.Transaction, error) {
	return t.MultiTransferTransaction([]TransferParameters{{from, to, amount, data}})
}

// MultiTransferTransaction is MultiTransfer's counterpart that signs
// and returns the transaction without broadcasting it.
func (t *Token) MultiTransferTransaction(ps []TransferParameters) (*transaction.Transaction, error) {
	script, err := t.transferScript(ps)
	if err != nil {
		return nil, err
	}
	return t.actor.MakeRun(script)
}

// TransferUnsigned is Transfer's counterpart that builds the
// transaction without signing or broadcasting it.
func (t *Token) TransferUnsigned(from util.Uint160, to util.Uint160, amount *big.Int, data interface{}) (*transaction.Transaction, error) {
	return t.MultiTransferUnsigned([]TransferParameters{{from, to, amount, data}})
}

// MultiTransferUnsigned is MultiTransfer's counterpart that builds the
// transaction without signing or broadcasting it.
func (t *Token) MultiTransferUnsigned(ps []TransferParameters) (*transaction.Transaction, error) {
	script, err := t.transferScript(ps)
	if err != nil {
		return nil, err
	}
	return t.actor.MakeUnsignedRun(script, nil)
}
