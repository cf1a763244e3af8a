// Package wallet implements the NEP-6 wallet file format: a JSON
// document holding a set of Accounts, each carrying an (optionally
// NEP-2 encrypted) private key and the verification Contract it signs
// transactions under.
package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	ojson "github.com/nspcc-dev/go-ordered-json"
)

// Version is the NEP-6 schema version this package reads/writes.
const Version = "3.0"

// Scrypt is the NEP-6 `scrypt` parameter block recorded alongside the
// wallet so any NEP-2 key in it can be decrypted with the same cost
// parameters it was encrypted under.
type Scrypt struct {
	N int `json:"n"`
	R int `json:"r"`
	P int `json:"p"`
}

// DefaultScrypt is NEP-2's standard cost parameters.
var DefaultScrypt = Scrypt{N: 16384, R: 8, P: 8}

// Wallet is an in-memory NEP-6 wallet.
type Wallet struct {
	Name     string
	Version  string
	Accounts []*Account
	Scrypt   Scrypt
	Extra    ojson.OrderedObject

	path string
}

type walletJSON struct {
	Name     string              `json:"name"`
	Version  string              `json:"version"`
	Accounts []*Account          `json:"accounts"`
	Scrypt   Scrypt              `json:"scrypt"`
	Extra    ojson.OrderedObject `json:"extra"`
}

// New creates an empty wallet not yet associated with a file on disk.
func New(name string) *Wallet {
	return &Wallet{Name: name, Version: Version, Scrypt: DefaultScrypt}
}

// NewWalletFromFile reads and parses a NEP-6 wallet file at path.
func NewWalletFromFile(path string) (*Wallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wallet: read %s: %w", path, err)
	}
	var raw walletJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("wallet: parse %s: %w", path, err)
	}
	return &Wallet{
		Name:     raw.Name,
		Version:  raw.Version,
		Scrypt:   raw.Scrypt,
		Extra:    raw.Extra,
		Accounts: raw.Accounts,
		path:     path,
	}, nil
}

// Save writes the wallet back to the file it was loaded from (or
// created with SaveAs).
func (w *Wallet) Save() error {
	if w.path == "" {
		return errors.New("wallet: no path associated, use SaveAs")
	}
	return w.SaveAs(w.path)
}

// SaveAs writes the wallet to path, remembering it for a later Save.
func (w *Wallet) SaveAs(path string) error {
	data, err := w.MarshalJSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("wallet: write %s: %w", path, err)
	}
	w.path = path
	return nil
}

// MarshalJSON renders the wallet in its NEP-6 wire shape.
func (w *Wallet) MarshalJSON() ([]byte, error) {
	accs := w.Accounts
	if accs == nil {
		accs = []*Account{}
	}
	return json.MarshalIndent(walletJSON{
		Name:     w.Name,
		Version:  w.Version,
		Accounts: accs,
		Scrypt:   w.Scrypt,
		Extra:    w.Extra,
	}, "", "\t")
}

// Close zeroes out every account's decrypted private key, the wallet's
// counterpart to keys.PrivateKey.Destroy for a whole file's worth of
// accounts.
func (w *Wallet) Close() {
	for _, acc := range w.Accounts {
		if acc.privateKey != nil {
			acc.privateKey.Destroy()
			acc.privateKey = nil
		}
	}
}

// AddAccount appends acc to the wallet.
func (w *Wallet) AddAccount(acc *Account) {
	w.Accounts = append(w.Accounts, acc)
}

// RemoveAccount drops the account with the given address, if present.
func (w *Wallet) RemoveAccount(address string) error {
	for i, acc := range w.Accounts {
		if acc.Address == address {
			w.Accounts = append(w.Accounts[:i], w.Accounts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("wallet: no account for address %s", address)
}

// GetAccount returns the account with the given address, if present.
func (w *Wallet) GetAccount(address string) *Account {
	for _, acc := range w.Accounts {
		if acc.Address == address {
			return acc
		}
	}
	return nil
}

// DefaultAccount returns the account marked as default, or the first
// account if none is.
func (w *Wallet) DefaultAccount() *Account {
	for _, acc := range w.Accounts {
		if acc.Default {
			return acc
		}
	}
	if len(w.Accounts) > 0 {
		return w.Accounts[0]
	}
	return nil
}
