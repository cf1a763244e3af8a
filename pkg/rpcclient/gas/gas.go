// Package gas provides a binding for the native GAS contract, the
// network's utility token used to pay system and network fees.
package gas

import (
	"github.com/nspcc-dev/neo-go-sdk/pkg/rpcclient/nep17"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// Hash is the GAS native contract's script hash, fixed by consensus
// and identical on every Neo N3 network.
var Hash = mustHash("0xd2a4cff31913016155e38e474a2c06d08be276cf")

func mustHash(s string) util.Uint160 {
	h, err := util.Uint160DecodeString(s)
	if err != nil {
		panic(err)
	}
	return h
}

// NewReader builds a read-only GAS token binding.
func NewReader(invoker nep17.Invokable) *nep17.Reader {
	return nep17.NewReader(invoker, Hash)
}

// New builds a read/write GAS token binding.
func New(actor nep17.ActorInvokable) *nep17.Token {
	return nep17.New(actor, Hash)
}
