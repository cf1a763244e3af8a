package transaction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nspcc-dev/neo-go-sdk/internal/testserdes"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

func TestAttributeEncodeDecodeBinaryHighPriority(t *testing.T) {
	a := &Attribute{Type: HighPriority}
	actual := &Attribute{}
	testserdes.EncodeDecodeBinary(t, a, actual)
}

func TestAttributeEncodeDecodeBinaryOracleResponse(t *testing.T) {
	a := &Attribute{Type: OracleResponseT, Value: &OracleResponse{
		ID: 42, Code: Success, Result: []byte("answer"),
	}}
	actual := &Attribute{}
	testserdes.EncodeDecodeBinary(t, a, actual)
}

func TestAttributeEncodeDecodeBinaryNotValidBefore(t *testing.T) {
	a := &Attribute{Type: NotValidBeforeT, Value: &NotValidBefore{Height: 12345}}
	actual := &Attribute{}
	testserdes.EncodeDecodeBinary(t, a, actual)
}

func TestAttributeEncodeDecodeBinaryConflicts(t *testing.T) {
	a := &Attribute{Type: ConflictsT, Value: &Conflicts{Hash: util.Uint256{1, 2, 3}}}
	actual := &Attribute{}
	testserdes.EncodeDecodeBinary(t, a, actual)
}

func TestAttributeEncodeDecodeBinaryNotaryAssisted(t *testing.T) {
	a := &Attribute{Type: NotaryAssistedT, Value: &NotaryAssisted{NKeys: 3}}
	actual := &Attribute{}
	testserdes.EncodeDecodeBinary(t, a, actual)
}

func TestAttributeEncodeDecodeBinaryReserved(t *testing.T) {
	a := &Attribute{Type: ReservedLowerBound, Value: &Reserved{Value: []byte{0xde, 0xad}}}
	actual := &Attribute{}
	testserdes.EncodeDecodeBinary(t, a, actual)
}

func TestAttributeDecodeUnknownType(t *testing.T) {
	data, err := testserdes.EncodeBinary(&Attribute{Type: HighPriority})
	require.NoError(t, err)
	data[0] = 0x05 // not HighPriority, not reserved, not any defined tag

	decoded := &Attribute{}
	err = testserdes.DecodeBinary(data, decoded)
	require.ErrorIs(t, err, ErrInvalidAttribute)
}

func TestAttributeMarshalJSONHighPriority(t *testing.T) {
	a := Attribute{Type: HighPriority}
	b, err := a.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"HighPriority"}`, string(b))

	var decoded Attribute
	require.NoError(t, decoded.UnmarshalJSON(b))
	require.Equal(t, a, decoded)
}

func TestAttributeMarshalJSONOracleResponse(t *testing.T) {
	a := Attribute{Type: OracleResponseT, Value: &OracleResponse{
		ID: 7, Code: NotFound, Result: []byte("x"),
	}}
	b, err := a.MarshalJSON()
	require.NoError(t, err)

	var decoded Attribute
	require.NoError(t, decoded.UnmarshalJSON(b))
	require.Equal(t, a, decoded)
}

func TestAttributeUnmarshalJSONUnknownType(t *testing.T) {
	var a Attribute
	err := a.UnmarshalJSON([]byte(`{"type":"NotAnAttribute"}`))
	require.ErrorIs(t, err, ErrInvalidAttribute)
}

func TestOracleResponseCodeRoundTrip(t *testing.T) {
	codes := []OracleResponseCode{
		Success, ProtocolNotSupported, ConsensusUnreachable, NotFound,
		Timeout, Forbidden, ResponseTooLarge, InsufficientFunds,
		ContentTypeNotSupported, Error,
	}
	for _, c := range codes {
		a := Attribute{Type: OracleResponseT, Value: &OracleResponse{ID: 1, Code: c}}
		b, err := a.MarshalJSON()
		require.NoError(t, err)
		var decoded Attribute
		require.NoError(t, decoded.UnmarshalJSON(b))
		require.Equal(t, c, decoded.Value.(*OracleResponse).Code)
	}
}
