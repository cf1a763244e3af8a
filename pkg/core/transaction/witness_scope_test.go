package transaction

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopesFromByte(t *testing.T) {
	cases := []struct {
		b       byte
		want    WitnessScope
		wantErr bool
	}{
		{0x00, None, false},
		{0x01, CalledByEntry, false},
		{0x10, CustomContracts, false},
		{0x11, CalledByEntry | CustomContracts, false},
		{0x80, Global, false},
		{0x81, 0, true}, // Global combined with anything else
		{0x08, 0, true}, // undefined bit
	}
	for _, c := range cases {
		got, err := ScopesFromByte(c.b)
		if c.wantErr {
			require.ErrorIs(t, err, ErrInvalidScope)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, c.want, got)
	}
}

func TestWitnessScopeString(t *testing.T) {
	require.Equal(t, "None", None.String())
	require.Equal(t, "CalledByEntry", CalledByEntry.String())
	require.Equal(t, "Global", Global.String())
	require.Equal(t, "CalledByEntry, CustomContracts", (CalledByEntry | CustomContracts).String())
}

func TestScopesFromString(t *testing.T) {
	s, err := ScopesFromString("CalledByEntry,CustomContracts")
	require.NoError(t, err)
	require.Equal(t, CalledByEntry|CustomContracts, s)

	_, err = ScopesFromString("Global,CalledByEntry")
	require.ErrorIs(t, err, ErrInvalidScope)

	_, err = ScopesFromString("NotAScope")
	require.ErrorIs(t, err, ErrInvalidScope)

	_, err = ScopesFromString("")
	require.ErrorIs(t, err, ErrInvalidScope)

	s, err = ScopesFromString("Global")
	require.NoError(t, err)
	require.Equal(t, Global, s)
}

func TestWitnessScopeJSON(t *testing.T) {
	s := CalledByEntry | CustomContracts
	b, err := json.Marshal(s)
	require.NoError(t, err)
	require.Equal(t, `"CalledByEntry, CustomContracts"`, string(b))

	var decoded WitnessScope
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, s, decoded)
}

func TestWitnessScopeHas(t *testing.T) {
	s := CalledByEntry | CustomContracts
	require.True(t, s.Has(CalledByEntry))
	require.True(t, s.Has(CustomContracts))
	require.False(t, s.Has(Global))
	require.False(t, s.Has(Rules))
}
