package actor

import (
	"fmt"
	"math/rand"

	"github.com/nspcc-dev/neo-go-sdk/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go-sdk/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go-sdk/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

func randomNonce() uint32 {
	return rand.Uint32()
}

// defaultValidUntilBlockIncrement is used when the connected node's
// protocol doesn't otherwise bound it.
const defaultValidUntilBlockIncrement = 1

// CalculateValidUntilBlock returns the current height plus the number
// of validators active at that height plus one, the standard
// ValidUntilBlock a transaction should carry to stay valid for one
// full committee round.
func (a *Actor) CalculateValidUntilBlock() (uint32, error) {
	height, err := a.client.GetBlockCount()
	if err != nil {
		return 0, fmt.Errorf("actor: get block count: %w", err)
	}
	return height + a.validatorsCountAt(height) + defaultValidUntilBlockIncrement, nil
}

// validatorsCountAt looks up the validator count active at height
// from the cached Version's ValidatorsHistory, picking the entry with
// the greatest key not exceeding height; it falls back to
// Protocol.ValidatorsCount when no history was supplied.
func (a *Actor) validatorsCountAt(height uint32) uint32 {
	hist := a.version.Protocol.ValidatorsHistory
	if len(hist) == 0 {
		return uint32(a.version.Protocol.ValidatorsCount)
	}
	var (
		best    uint32
		bestSet bool
	)
	for from, count := range hist {
		if from <= height && (!bestSet || from > best) {
			best = count
			bestSet = true
		}
	}
	if !bestSet {
		return uint32(a.version.Protocol.ValidatorsCount)
	}
	return best
}

// MakeUnsignedUncheckedRun builds an unsigned transaction running
// script, with the given system fee and no preflight invocation: the
// caller already knows (or doesn't care) how much GAS the script
// burns. The network fee, ValidUntilBlock, and a fresh nonce are
// filled in; Options.Modifier then Options.Attributes are applied
// before Options.Modifier runs.
func (a *Actor) MakeUnsignedUncheckedRun(script []byte, sysFee int64, attrs []transaction.Attribute) (*transaction.Transaction, error) {
	if len(script) == 0 {
		return nil, fmt.Errorf("actor: empty script")
	}
	if sysFee < 0 {
		return nil, fmt.Errorf("actor: negative system fee")
	}
	vub, err := a.CalculateValidUntilBlock()
	if err != nil {
		return nil, err
	}
	tx := transaction.New(script, sysFee, 0, vub)
	tx.Nonce = randomNonce()
	tx.Signers = a.txSigners
	tx.Attributes = append(tx.Attributes, a.opts.Attributes...)
	tx.Attributes = append(tx.Attributes, attrs...)

	netFee, err := a.client.CalculateNetworkFee(tx)
	if err != nil {
		return nil, fmt.Errorf("actor: calculate network fee: %w", err)
	}
	tx.NetworkFee = netFee

	if a.opts.Modifier != nil {
		if err := a.opts.Modifier(tx); err != nil {
			return nil, fmt.Errorf("actor: modifier: %w", err)
		}
	}
	return tx, nil
}

// MakeUnsignedRun preflights script via a test invocation, checks its
// result with Options.CheckerModifier, and builds an unsigned
// transaction whose system fee is the invocation's GasConsumed.
func (a *Actor) MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error) {
	return a.MakeUnsignedTunedRun(script, attrs, nil)
}

// MakeUnsignedTunedRun is MakeUnsignedRun with a per-call override of
// Options.CheckerModifier (nil keeps the Actor-wide one).
func (a *Actor) MakeUnsignedTunedRun(script []byte, attrs []transaction.Attribute, checker func(*result.Invoke, *transaction.Transaction) error) (*transaction.Transaction, error) {
	r, err := a.Run(script)
	if err != nil {
		return nil, fmt.Errorf("actor: test invocation: %w", err)
	}
	tx, err := a.MakeUnsignedUncheckedRun(script, r.GasConsumed, attrs)
	if err != nil {
		return nil, err
	}
	if checker == nil {
		checker = a.opts.CheckerModifier
	}
	if err := checker(r, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// MakeUncheckedRun is MakeUnsignedUncheckedRun followed by Sign; hook
// (if non-nil) runs on the unsigned transaction right before signing,
// letting a caller adjust ValidUntilBlock or similar before witnesses
// are computed.
func (a *Actor) MakeUncheckedRun(script []byte, sysFee int64, attrs []transaction.Attribute, hook func(*transaction.Transaction) error) (*transaction.Transaction, error) {
	tx, err := a.MakeUnsignedUncheckedRun(script, sysFee, attrs)
	if err != nil {
		return nil, err
	}
	if hook != nil {
		if err := hook(tx); err != nil {
			return nil, fmt.Errorf("actor: hook: %w", err)
		}
	}
	if err := a.Sign(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// MakeTunedRun preflights script, applies checker (nil uses
// Options.CheckerModifier), and signs the result.
func (a *Actor) MakeTunedRun(script []byte, attrs []transaction.Attribute, checker func(*result.Invoke, *transaction.Transaction) error) (*transaction.Transaction, error) {
	tx, err := a.MakeUnsignedTunedRun(script, attrs, checker)
	if err != nil {
		return nil, err
	}
	if err := a.Sign(tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// MakeRun is MakeTunedRun with default attributes and checker.
func (a *Actor) MakeRun(script []byte) (*transaction.Transaction, error) {
	return a.MakeTunedRun(script, nil, nil)
}

// MakeTunedCall builds an invocation script calling method on
// contract with params, then runs MakeTunedRun over it.
func (a *Actor) MakeTunedCall(contract util.Uint160, method string, attrs []transaction.Attribute, checker func(*result.Invoke, *transaction.Transaction) error, params ...interface{}) (*transaction.Transaction, error) {
	script, err := callScript(contract, method, params...)
	if err != nil {
		return nil, err
	}
	return a.MakeTunedRun(script, attrs, checker)
}

// MakeCall is MakeTunedCall with default attributes and checker.
func (a *Actor) MakeCall(contract util.Uint160, method string, params ...interface{}) (*transaction.Transaction, error) {
	return a.MakeTunedCall(contract, method, nil, nil, params...)
}

func callScript(contract util.Uint160, method string, params ...interface{}) ([]byte, error) {
	args, err := smartcontract.NewParametersFromValues(params...)
	if err != nil {
		return nil, err
	}
	b := smartcontract.NewBuilder()
	b.InvokeMethod(contract, method, toArgsIface(args)...)
	return b.Script()
}

func toArgsIface(ps []smartcontract.Parameter) []interface{} {
	out := make([]interface{}, len(ps))
	for i, p := range ps {
		out[i] = p
	}
	return out
}

// SendUncheckedRun is MakeUncheckedRun followed by SignAndSend.
func (a *Actor) SendUncheckedRun(script []byte, sysFee int64, attrs []transaction.Attribute, hook func(*transaction.Transaction) error) (util.Uint256, uint32, error) {
	tx, err := a.MakeUncheckedRun(script, sysFee, attrs, hook)
	if err != nil {
		return util.Uint256{}, 0, err
	}
	return a.Send(tx)
}

// SendTunedRun is MakeTunedRun followed by SignAndSend.
func (a *Actor) SendTunedRun(script []byte, attrs []transaction.Attribute, checker func(*result.Invoke, *transaction.Transaction) error) (util.Uint256, uint32, error) {
	tx, err := a.MakeTunedRun(script, attrs, checker)
	if err != nil {
		return util.Uint256{}, 0, err
	}
	return a.Send(tx)
}

// SendRun is SendTunedRun with default attributes and checker.
func (a *Actor) SendRun(script []byte) (util.Uint256, uint32, error) {
	return a.SendTunedRun(script, nil, nil)
}

// SendTunedCall is MakeTunedCall followed by SignAndSend.
func (a *Actor) SendTunedCall(contract util.Uint160, method string, attrs []transaction.Attribute, checker func(*result.Invoke, *transaction.Transaction) error, params ...interface{}) (util.Uint256, uint32, error) {
	tx, err := a.MakeTunedCall(contract, method, attrs, checker, params...)
	if err != nil {
		return util.Uint256{}, 0, err
	}
	return a.Send(tx)
}

// SendCall is MakeCall followed by SignAndSend.
func (a *Actor) SendCall(contract util.Uint160, method string, params ...interface{}) (util.Uint256, uint32, error) {
	tx, err := a.MakeCall(contract, method, params...)
	if err != nil {
		return util.Uint256{}, 0, err
	}
	return a.Send(tx)
}
