package wallet

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go-sdk/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go-sdk/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go-sdk/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go-sdk/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go-sdk/pkg/smartcontract"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// Contract is the NEP-6 `contract` object: the verification script an
// account signs under, plus the named parameters a caller fills in
// when building a Witness.InvocationScript for it.
type Contract struct {
	Script     []byte
	Parameters []ContractParameter
	Deployed   bool
}

// ContractParameter names one parameter of Contract.Script's
// verification entry point (almost always a single "signature" for a
// standard account, or several for a multisig one).
type ContractParameter struct {
	Name string
	Type smartcontract.ParamType
}

// ScriptHash is the account hash this contract verifies, hash160 of
// its verification script.
func (c *Contract) ScriptHash() util.Uint160 {
	return hash.Hash160(c.Script)
}

type contractJSON struct {
	Script     string              `json:"script"`
	Parameters []ContractParameter `json:"parameters"`
	Deployed   bool                `json:"deployed"`
}

type contractParameterJSON struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// MarshalJSON renders the contract in its NEP-6 wire shape.
func (c Contract) MarshalJSON() ([]byte, error) {
	params := c.Parameters
	if params == nil {
		params = []ContractParameter{}
	}
	return json.Marshal(contractJSON{
		Script:     hex.EncodeToString(c.Script),
		Parameters: params,
		Deployed:   c.Deployed,
	})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (c *Contract) UnmarshalJSON(data []byte) error {
	var raw contractJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	script, err := hex.DecodeString(raw.Script)
	if err != nil {
		return fmt.Errorf("wallet: invalid contract script: %w", err)
	}
	c.Script = script
	c.Parameters = raw.Parameters
	c.Deployed = raw.Deployed
	return nil
}

// MarshalJSON renders a single named parameter.
func (p ContractParameter) MarshalJSON() ([]byte, error) {
	return json.Marshal(contractParameterJSON{Name: p.Name, Type: p.Type.String()})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (p *ContractParameter) UnmarshalJSON(data []byte) error {
	var raw contractParameterJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t, err := smartcontract.ParseParamType(raw.Type)
	if err != nil {
		return err
	}
	p.Name = raw.Name
	p.Type = t
	return nil
}

// Account is a single NEP-6 wallet entry: an address, its encrypted
// key, and the verification contract it signs under. The private key
// is held decrypted only in memory and only after Decrypt succeeds.
type Account struct {
	Address      string
	EncryptedWIF string
	Label        string
	Contract     *Contract
	Locked       bool
	Default      bool

	privateKey *keys.PrivateKey
}

// NewAccount creates a brand new single-signature account from a fresh
// random key, left unencrypted (callers wanting encryption-at-rest
// should follow up with Encrypt).
func NewAccount() (*Account, error) {
	priv, err := keys.NewPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("wallet: new account: %w", err)
	}
	return accountFromPrivateKey(priv), nil
}

// NewAccountFromWIF builds an account from a WIF-encoded private key.
func NewAccountFromWIF(wif string) (*Account, error) {
	priv, err := keys.NewPrivateKeyFromWIF(wif)
	if err != nil {
		return nil, fmt.Errorf("wallet: account from wif: %w", err)
	}
	return accountFromPrivateKey(priv), nil
}

// NewAccountFromEncryptedWIF decrypts a NEP-2 payload and builds the
// resulting account, leaving the private key cached for immediate use.
func NewAccountFromEncryptedWIF(nep2, passphrase string) (*Account, error) {
	wif, err := keys.NEP2Decrypt(nep2, passphrase)
	if err != nil {
		return nil, fmt.Errorf("wallet: decrypt: %w", err)
	}
	acc, err := NewAccountFromWIF(wif)
	if err != nil {
		return nil, err
	}
	acc.EncryptedWIF = nep2
	return acc, nil
}

func accountFromPrivateKey(priv *keys.PrivateKey) *Account {
	pub := priv.PublicKey()
	return &Account{
		Address: pub.Address(),
		Contract: &Contract{
			Script:     pub.VerificationScript(),
			Parameters: []ContractParameter{{Name: "signature", Type: smartcontract.SignatureType}},
		},
		privateKey: priv,
	}
}

// Encrypt NEP-2-encrypts the account's private key under passphrase
// and stores the result in EncryptedWIF, the form a Wallet persists to
// disk.
func (a *Account) Encrypt(passphrase string) error {
	if a.privateKey == nil {
		return errors.New("wallet: account has no private key to encrypt")
	}
	enc, err := keys.NEP2Encrypt(a.privateKey, passphrase)
	if err != nil {
		return err
	}
	a.EncryptedWIF = enc
	return nil
}

// Decrypt NEP-2-decrypts EncryptedWIF under passphrase and caches the
// resulting private key for signing.
func (a *Account) Decrypt(passphrase string) error {
	if a.EncryptedWIF == "" {
		return errors.New("wallet: account has no encrypted key")
	}
	wif, err := keys.NEP2Decrypt(a.EncryptedWIF, passphrase)
	if err != nil {
		return fmt.Errorf("wallet: decrypt: %w", err)
	}
	priv, err := keys.NewPrivateKeyFromWIF(wif)
	if err != nil {
		return err
	}
	a.privateKey = priv
	return nil
}

// PrivateKey returns the cached private key, or nil if the account has
// not been decrypted (or was never given one).
func (a *Account) PrivateKey() *keys.PrivateKey {
	return a.privateKey
}

// ScriptHash returns the account's script hash, derived from its
// Contract's verification script.
func (a *Account) ScriptHash() util.Uint160 {
	if a.Contract != nil {
		return a.Contract.ScriptHash()
	}
	h, _ := address.StringToUint160(a.Address)
	return h
}

// SignHashable signs an item (a Transaction, or anything else exposing
// a signable hash) with the account's cached private key. It returns
// nil if the account is locked (Decrypt was never called).
func (a *Account) SignHashable(network uint32, item transaction.Hashable) []byte {
	if a.privateKey == nil {
		return nil
	}
	digest := item.GetSignedHash(network)
	return a.privateKey.SignHash(digest)
}

// PublicKey returns the account's public key, derived from its cached
// private key if decrypted, or nil otherwise.
func (a *Account) PublicKey() *keys.PublicKey {
	if a.privateKey == nil {
		return nil
	}
	return a.privateKey.PublicKey()
}

// CanSign reports whether the account currently holds a usable private
// key.
func (a *Account) CanSign() bool {
	return a.privateKey != nil
}

type accountJSON struct {
	Address   string    `json:"address"`
	Key       string    `json:"key,omitempty"`
	Label     *string   `json:"label"`
	Contract  *Contract `json:"contract"`
	Lock      bool      `json:"lock"`
	IsDefault bool      `json:"isDefault"`
}

// MarshalJSON renders the account in its NEP-6 wire shape.
func (a Account) MarshalJSON() ([]byte, error) {
	raw := accountJSON{
		Address:   a.Address,
		Key:       a.EncryptedWIF,
		Contract:  a.Contract,
		Lock:      a.Locked,
		IsDefault: a.Default,
	}
	if a.Label != "" {
		raw.Label = &a.Label
	}
	return json.Marshal(raw)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (a *Account) UnmarshalJSON(data []byte) error {
	var raw accountJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Address = raw.Address
	a.EncryptedWIF = raw.Key
	a.Contract = raw.Contract
	a.Locked = raw.Lock
	a.Default = raw.IsDefault
	if raw.Label != nil {
		a.Label = *raw.Label
	}
	return nil
}
