// Package neptoken implements the read-only NEP-17/NEP-11 common
// surface (decimals, symbol, total supply, balance) that both token
// standards share, so pkg/rpcclient/nep17 and a future NEP-11 binding
// can embed one Base instead of duplicating these four calls.
package neptoken

import (
	"fmt"
	"math"
	"math/big"

	"github.com/nspcc-dev/neo-go-sdk/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go-sdk/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// Invokable is the subset of Invoker a Base needs: a single preflight
// call against a fixed contract.
type Invokable interface {
	Call(contract util.Uint160, operation string, params ...interface{}) (*result.Invoke, error)
}

// Base is the read-only NEP-17/NEP-11 surface common to both
// standards.
type Base struct {
	invoker Invokable
	hash    util.Uint160
}

// New builds a Base bound to contract.
func New(invoker Invokable, hash util.Uint160) Base {
	return Base{invoker: invoker, hash: hash}
}

// Decimals calls the `decimals` method, which every NEP-17 token and
// every divisible NEP-11 token implements.
func (t Base) Decimals() (int, error) {
	i, err := unwrap.LimitedInt64(t.invoker.Call(t.hash, "decimals"), 0, math.MaxUint8)
	if err != nil {
		return 0, fmt.Errorf("neptoken: decimals: %w", err)
	}
	return int(i), nil
}

// Symbol calls the `symbol` method.
func (t Base) Symbol() (string, error) {
	s, err := unwrap.PrintableASCIIString(t.invoker.Call(t.hash, "symbol"))
	if err != nil {
		return "", fmt.Errorf("neptoken: symbol: %w", err)
	}
	return s, nil
}

// TotalSupply calls the `totalSupply` method.
func (t Base) TotalSupply() (*big.Int, error) {
	i, err := unwrap.BigInt(t.invoker.Call(t.hash, "totalSupply"))
	if err != nil {
		return nil, fmt.Errorf("neptoken: totalSupply: %w", err)
	}
	return i, nil
}

// BalanceOf calls the `balanceOf` method for the given account.
func (t Base) BalanceOf(account util.Uint160) (*big.Int, error) {
	i, err := unwrap.BigInt(t.invoker.Call(t.hash, "balanceOf", account))
	if err != nil {
		return nil, fmt.Errorf("neptoken: balanceOf: %w", err)
	}
	return i, nil
}
