package unwrap

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go-sdk/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go-sdk/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
	"github.com/nspcc-dev/neo-go-sdk/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func anInt(v int64) stackitem.Item { return stackitem.NewBigInteger(big.NewInt(v)) }

func TestCommonFailureModes(t *testing.T) {
	funcs := []func(r *result.Invoke, err error) (any, error){
		func(r *result.Invoke, err error) (any, error) { return BigInt(r, err) },
		func(r *result.Invoke, err error) (any, error) { return Bool(r, err) },
		func(r *result.Invoke, err error) (any, error) { return Int64(r, err) },
		func(r *result.Invoke, err error) (any, error) { return LimitedInt64(r, err, 0, 1) },
		func(r *result.Invoke, err error) (any, error) { return Bytes(r, err) },
		func(r *result.Invoke, err error) (any, error) { return UTF8String(r, err) },
		func(r *result.Invoke, err error) (any, error) { return PrintableASCIIString(r, err) },
		func(r *result.Invoke, err error) (any, error) { return Uint160(r, err) },
		func(r *result.Invoke, err error) (any, error) { return Uint256(r, err) },
		func(r *result.Invoke, err error) (any, error) { return PublicKey(r, err) },
		func(r *result.Invoke, err error) (any, error) {
			_, _, err = SessionIterator(r, err)
			return nil, err
		},
		func(r *result.Invoke, err error) (any, error) {
			_, _, _, err = ArrayAndSessionIterator(r, err)
			return nil, err
		},
		func(r *result.Invoke, err error) (any, error) { return Array(r, err) },
		func(r *result.Invoke, err error) (any, error) { return ArrayOfBools(r, err) },
		func(r *result.Invoke, err error) (any, error) { return ArrayOfBigInts(r, err) },
		func(r *result.Invoke, err error) (any, error) { return ArrayOfBytes(r, err) },
		func(r *result.Invoke, err error) (any, error) { return ArrayOfUTF8Strings(r, err) },
		func(r *result.Invoke, err error) (any, error) { return ArrayOfUint160(r, err) },
		func(r *result.Invoke, err error) (any, error) { return ArrayOfUint256(r, err) },
		func(r *result.Invoke, err error) (any, error) { return ArrayOfPublicKeys(r, err) },
		func(r *result.Invoke, err error) (any, error) { return Map(r, err) },
	}

	t.Run("error on input", func(t *testing.T) {
		for _, f := range funcs {
			_, err := f(&result.Invoke{State: "HALT", Stack: []stackitem.Item{anInt(42)}}, errors.New("some"))
			require.Error(t, err)
		}
	})
	t.Run("FAULT state", func(t *testing.T) {
		for _, f := range funcs {
			_, err := f(&result.Invoke{State: "FAULT", Stack: []stackitem.Item{anInt(42)}}, nil)
			require.Error(t, err)
		}
	})
	t.Run("empty stack", func(t *testing.T) {
		for _, f := range funcs {
			_, err := f(&result.Invoke{State: "HALT"}, nil)
			require.Error(t, err)
		}
	})
	t.Run("too many stack items", func(t *testing.T) {
		for _, f := range funcs {
			_, err := f(&result.Invoke{State: "HALT", Stack: []stackitem.Item{anInt(42), anInt(42)}}, nil)
			require.Error(t, err)
		}
	})
}

func TestBigInt(t *testing.T) {
	_, err := BigInt(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewArray(nil)}}, nil)
	require.Error(t, err)

	i, err := BigInt(&result.Invoke{State: "HALT", Stack: []stackitem.Item{anInt(42)}}, nil)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(42), i)
}

func TestBool(t *testing.T) {
	_, err := Bool(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewByteString([]byte{1})}}, nil)
	require.Error(t, err)

	b, err := Bool(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewBool(true)}}, nil)
	require.NoError(t, err)
	require.True(t, b)
}

func TestNothing(t *testing.T) {
	require.Error(t, Nothing(&result.Invoke{State: "HALT", Stack: []stackitem.Item{}}, errors.New("some")))
	require.Error(t, Nothing(&result.Invoke{State: "HALT", Stack: []stackitem.Item{anInt(42)}}, nil))
	require.Error(t, Nothing(&result.Invoke{State: "FAULT", Stack: []stackitem.Item{}}, nil))
	require.NoError(t, Nothing(&result.Invoke{State: "HALT", Stack: []stackitem.Item{}}, nil))
}

func TestInt64(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 64)
	_, err := Int64(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewBigInteger(huge)}}, nil)
	require.Error(t, err)

	i, err := Int64(&result.Invoke{State: "HALT", Stack: []stackitem.Item{anInt(42)}}, nil)
	require.NoError(t, err)
	require.Equal(t, int64(42), i)
}

func TestLimitedInt64(t *testing.T) {
	_, err := LimitedInt64(&result.Invoke{State: "HALT", Stack: []stackitem.Item{anInt(42)}}, nil, 128, 256)
	require.Error(t, err)

	i, err := LimitedInt64(&result.Invoke{State: "HALT", Stack: []stackitem.Item{anInt(42)}}, nil, 0, 128)
	require.NoError(t, err)
	require.Equal(t, int64(42), i)
}

func TestBytes(t *testing.T) {
	_, err := Bytes(&result.Invoke{State: "HALT", Stack: []stackitem.Item{anInt(42)}}, nil)
	require.Error(t, err)

	b, err := Bytes(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewByteString([]byte{1, 2, 3})}}, nil)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, b)
}

func TestUTF8String(t *testing.T) {
	_, err := UTF8String(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewByteString([]byte{0xff})}}, nil)
	require.Error(t, err)

	s, err := UTF8String(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewByteString([]byte("value"))}}, nil)
	require.NoError(t, err)
	require.Equal(t, "value", s)
}

func TestPrintableASCIIString(t *testing.T) {
	_, err := PrintableASCIIString(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewByteString([]byte("\n\r"))}}, nil)
	require.Error(t, err)

	s, err := PrintableASCIIString(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewByteString([]byte("value"))}}, nil)
	require.NoError(t, err)
	require.Equal(t, "value", s)
}

func TestUint160(t *testing.T) {
	_, err := Uint160(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewByteString(util.Uint256{1, 2, 3}[:])}}, nil)
	require.Error(t, err)

	want := util.Uint160{1, 2, 3}
	u, err := Uint160(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewByteString(want[:])}}, nil)
	require.NoError(t, err)
	require.Equal(t, want, u)
}

func TestUint256(t *testing.T) {
	want := util.Uint256{1, 2, 3}
	u, err := Uint256(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewByteString(want[:])}}, nil)
	require.NoError(t, err)
	require.Equal(t, want, u)
}

func TestPublicKey(t *testing.T) {
	k, err := keys.NewPrivateKey()
	require.NoError(t, err)

	_, err = PublicKey(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewByteString(util.Uint160{1, 2, 3}[:])}}, nil)
	require.Error(t, err)

	pk, err := PublicKey(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewByteString(k.PublicKey().Bytes())}}, nil)
	require.NoError(t, err)
	require.Equal(t, k.PublicKey(), pk)
}

func TestSessionIterator(t *testing.T) {
	_, _, err := SessionIterator(&result.Invoke{State: "HALT", Stack: []stackitem.Item{anInt(42)}}, nil)
	require.Error(t, err)

	_, _, err = SessionIterator(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewInterop(42)}}, nil)
	require.Error(t, err)

	iid := uuid.New()
	iter := result.Iterator{ID: &iid}
	_, _, err = SessionIterator(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewInterop(iter)}}, nil)
	require.ErrorIs(t, err, ErrNoSessionID)

	sid := uuid.New()
	rs, ri, err := SessionIterator(&result.Invoke{Session: sid, State: "HALT", Stack: []stackitem.Item{stackitem.NewInterop(iter)}}, nil)
	require.NoError(t, err)
	require.Equal(t, sid, rs)
	require.Equal(t, iter, ri)
}

func TestArrayAndSessionIterator(t *testing.T) {
	_, _, _, err := ArrayAndSessionIterator(&result.Invoke{State: "HALT", Stack: []stackitem.Item{anInt(42)}}, nil)
	require.Error(t, err)

	arr := stackitem.NewArray([]stackitem.Item{anInt(42)})
	ra, rs, ri, err := ArrayAndSessionIterator(&result.Invoke{State: "HALT", Stack: []stackitem.Item{arr}}, nil)
	require.NoError(t, err)
	require.Equal(t, arr.Value, ra)
	require.Equal(t, uuid.Nil, rs)
	require.Empty(t, ri)

	_, _, _, err = ArrayAndSessionIterator(&result.Invoke{State: "HALT", Stack: []stackitem.Item{arr, stackitem.NewInterop(42)}}, nil)
	require.Error(t, err)

	iid := uuid.New()
	iter := result.Iterator{ID: &iid}
	_, _, _, err = ArrayAndSessionIterator(&result.Invoke{State: "HALT", Stack: []stackitem.Item{arr, stackitem.NewInterop(iter)}}, nil)
	require.ErrorIs(t, err, ErrNoSessionID)

	sid := uuid.New()
	ra2, rs2, ri2, err := ArrayAndSessionIterator(&result.Invoke{Session: sid, State: "HALT", Stack: []stackitem.Item{arr, stackitem.NewInterop(iter)}}, nil)
	require.NoError(t, err)
	require.Equal(t, arr.Value, ra2)
	require.Equal(t, sid, rs2)
	require.Equal(t, iter, ri2)

	_, _, _, err = ArrayAndSessionIterator(&result.Invoke{Session: sid, State: "HALT", Stack: []stackitem.Item{arr, stackitem.NewInterop(iter), anInt(42)}}, nil)
	require.Error(t, err)
}

func TestArray(t *testing.T) {
	_, err := Array(&result.Invoke{State: "HALT", Stack: []stackitem.Item{anInt(42)}}, nil)
	require.Error(t, err)

	a, err := Array(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewArray([]stackitem.Item{anInt(42)})}}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, len(a))
	require.Equal(t, anInt(42), a[0])
}

func TestArrayOfBools(t *testing.T) {
	_, err := ArrayOfBools(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewArray([]stackitem.Item{stackitem.NewByteString([]byte("x"))})}}, nil)
	require.Error(t, err)

	a, err := ArrayOfBools(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewArray([]stackitem.Item{stackitem.NewBool(true)})}}, nil)
	require.NoError(t, err)
	require.Equal(t, []bool{true}, a)
}

func TestArrayOfBigInts(t *testing.T) {
	a, err := ArrayOfBigInts(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewArray([]stackitem.Item{anInt(42)})}}, nil)
	require.NoError(t, err)
	require.Equal(t, []*big.Int{big.NewInt(42)}, a)
}

func TestArrayOfBytes(t *testing.T) {
	a, err := ArrayOfBytes(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewArray([]stackitem.Item{stackitem.NewByteString([]byte("some"))})}}, nil)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("some")}, a)
}

func TestArrayOfUTF8Strings(t *testing.T) {
	a, err := ArrayOfUTF8Strings(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewArray([]stackitem.Item{stackitem.NewByteString([]byte("some"))})}}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"some"}, a)
}

func TestArrayOfUint160(t *testing.T) {
	u160 := util.Uint160{1, 2, 3}
	uints, err := ArrayOfUint160(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewArray([]stackitem.Item{stackitem.NewByteString(u160[:])})}}, nil)
	require.NoError(t, err)
	require.Equal(t, []util.Uint160{u160}, uints)
}

func TestArrayOfUint256(t *testing.T) {
	u256 := util.Uint256{1, 2, 3}
	uints, err := ArrayOfUint256(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewArray([]stackitem.Item{stackitem.NewByteString(u256[:])})}}, nil)
	require.NoError(t, err)
	require.Equal(t, []util.Uint256{u256}, uints)
}

func TestArrayOfPublicKeys(t *testing.T) {
	k, err := keys.NewPrivateKey()
	require.NoError(t, err)

	pks, err := ArrayOfPublicKeys(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewArray([]stackitem.Item{stackitem.NewByteString(k.PublicKey().Bytes())})}}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, len(pks))
	require.Equal(t, k.PublicKey(), pks[0])
}

func TestMap(t *testing.T) {
	_, err := Map(&result.Invoke{State: "HALT", Stack: []stackitem.Item{anInt(42)}}, nil)
	require.Error(t, err)

	m, err := Map(&result.Invoke{State: "HALT", Stack: []stackitem.Item{stackitem.NewMapWithValue([]stackitem.MapElement{{Key: anInt(42), Value: stackitem.NewByteString([]byte("string"))}})}}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, m.Len())
	require.Equal(t, 0, m.Index(anInt(42)))
}
