package transaction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nspcc-dev/neo-go-sdk/internal/keytestcases"
	"github.com/nspcc-dev/neo-go-sdk/internal/testserdes"
	"github.com/nspcc-dev/neo-go-sdk/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

func TestSignerEncodeDecodeBinaryCalledByEntry(t *testing.T) {
	s := &Signer{Account: util.Uint160{1, 2, 3}, Scopes: CalledByEntry}
	actual := &Signer{}
	testserdes.EncodeDecodeBinary(t, s, actual)
}

func TestSignerEncodeDecodeBinaryCustomContracts(t *testing.T) {
	s := &Signer{
		Account:          util.Uint160{1, 2, 3},
		Scopes:           CustomContracts,
		AllowedContracts: []util.Uint160{{4, 5, 6}, {7, 8, 9}},
	}
	actual := &Signer{}
	testserdes.EncodeDecodeBinary(t, s, actual)
}

func TestSignerEncodeDecodeBinaryCustomGroups(t *testing.T) {
	priv, err := keys.NewPrivateKeyFromHex(keytestcases.Arr[0].PrivateKey)
	require.NoError(t, err)

	s := &Signer{
		Account:       util.Uint160{1},
		Scopes:        CustomGroups,
		AllowedGroups: []*keys.PublicKey{priv.PublicKey()},
	}
	actual := &Signer{}
	testserdes.EncodeDecodeBinary(t, s, actual)
}

func TestSignerEncodeDecodeBinaryRules(t *testing.T) {
	s := &Signer{
		Account: util.Uint160{1},
		Scopes:  Rules,
		Rules: []WitnessRule{
			{Action: WitnessAllow, Condition: &ConditionCalledByEntry{}},
			{Action: WitnessDeny, Condition: &ConditionBoolean{Value: false}},
		},
	}
	actual := &Signer{}
	testserdes.EncodeDecodeBinary(t, s, actual)
}

func TestSignerDecodeOnlyReadsScopeImpliedLists(t *testing.T) {
	// A Signer with only CalledByEntry carries no sub-lists on the wire,
	// so an AllowedContracts slice set in Go is silently dropped by a
	// round trip (the scope bit is the only thing that gets encoded).
	s := &Signer{
		Account:          util.Uint160{1},
		Scopes:           CalledByEntry,
		AllowedContracts: []util.Uint160{{2}},
	}
	data, err := testserdes.EncodeBinary(s)
	require.NoError(t, err)

	decoded := &Signer{}
	require.NoError(t, testserdes.DecodeBinary(data, decoded))
	require.Nil(t, decoded.AllowedContracts)
}

func TestSignerTooManyAllowedContracts(t *testing.T) {
	contracts := make([]util.Uint160, 17)
	s := &Signer{Account: util.Uint160{1}, Scopes: CustomContracts, AllowedContracts: contracts}
	data, err := testserdes.EncodeBinary(s)
	require.NoError(t, err)

	decoded := &Signer{}
	err = testserdes.DecodeBinary(data, decoded)
	require.ErrorIs(t, err, ErrTooManySubItems)
}

func TestSignerMarshalJSON(t *testing.T) {
	s := Signer{Account: util.Uint160{1, 2, 3}, Scopes: CalledByEntry}
	b, err := s.MarshalJSON()
	require.NoError(t, err)

	var decoded Signer
	require.NoError(t, decoded.UnmarshalJSON(b))
	require.Equal(t, s, decoded)
}
