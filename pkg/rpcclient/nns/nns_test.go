package nns

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go-sdk/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go-sdk/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
	"github.com/nspcc-dev/neo-go-sdk/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

type testAct struct {
	err error
	res *result.Invoke
	tx  *transaction.Transaction
	txh util.Uint256
	vub uint32
}

func (t *testAct) Call(contract util.Uint160, operation string, params ...interface{}) (*result.Invoke, error) {
	return t.res, t.err
}
func (t *testAct) MakeRun(script []byte) (*transaction.Transaction, error) {
	return t.tx, t.err
}
func (t *testAct) MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error) {
	return t.tx, t.err
}
func (t *testAct) SendRun(script []byte) (util.Uint256, uint32, error) {
	return t.txh, t.vub, t.err
}

func TestSimpleGetters(t *testing.T) {
	ta := &testAct{}
	nns := NewReader(ta, util.Uint160{1, 2, 3})

	ta.err = errors.New("boom")
	_, err := nns.GetPrice(uint8(A))
	require.Error(t, err)
	_, err = nns.IsAvailable("nspcc.neo")
	require.Error(t, err)
	_, err = nns.Resolve("nspcc.neo", A)
	require.Error(t, err)
	_, err = nns.GetRecord("nspcc.neo", A)
	require.Error(t, err)
	_, err = nns.OwnerOf("nspcc.neo")
	require.Error(t, err)

	ta.err = nil
	ta.res = &result.Invoke{
		State: "HALT",
		Stack: []stackitem.Item{stackitem.Make(100500)},
	}
	price, err := nns.GetPrice(uint8(A))
	require.NoError(t, err)
	require.Equal(t, big.NewInt(100500), price)

	ta.res = &result.Invoke{
		State: "HALT",
		Stack: []stackitem.Item{stackitem.Make(true)},
	}
	ava, err := nns.IsAvailable("nspcc.neo")
	require.NoError(t, err)
	require.True(t, ava)

	ta.res = &result.Invoke{
		State: "HALT",
		Stack: []stackitem.Item{stackitem.Make("some text")},
	}
	txt, err := nns.Resolve("nspcc.neo", TXT)
	require.NoError(t, err)
	require.Equal(t, "some text", txt)

	rec, err := nns.GetRecord("nspcc.neo", TXT)
	require.NoError(t, err)
	require.Equal(t, "some text", rec)

	ta.res = &result.Invoke{
		State: "HALT",
		Stack: []stackitem.Item{stackitem.Make(util.Uint160{9, 9, 9})},
	}
	owner, err := nns.OwnerOf("nspcc.neo")
	require.NoError(t, err)
	require.Equal(t, util.Uint160{9, 9, 9}, owner)
}

func recordItem(name string, typ RecordType, data string) stackitem.Item {
	return stackitem.Make([]stackitem.Item{
		stackitem.Make(name),
		stackitem.Make(int64(typ)),
		stackitem.Make(data),
	})
}

func TestGetAllRecords(t *testing.T) {
	ta := &testAct{}
	nns := NewReader(ta, util.Uint160{1, 2, 3})

	ta.err = errors.New("boom")
	_, err := nns.GetAllRecords("nspcc.neo")
	require.Error(t, err)

	ta.err = nil
	iid := uuid.New()
	ta.res = &result.Invoke{
		State: "HALT",
		Stack: []stackitem.Item{stackitem.NewInterop(result.Iterator{ID: &iid})},
	}
	iter, err := nns.GetAllRecords("nspcc.neo")
	require.NoError(t, err)
	_, err = iter.Next(1)
	require.Error(t, err)
	require.Error(t, iter.Terminate())

	ta.res = &result.Invoke{
		State: "HALT",
		Stack: []stackitem.Item{
			stackitem.NewInterop(result.Iterator{
				Values: []stackitem.Item{recordItem("n3", TXT, "cool")},
			}),
		},
	}
	iter, err = nns.GetAllRecords("nspcc.neo")
	require.NoError(t, err)
	vals, err := iter.Next(10)
	require.NoError(t, err)
	require.Equal(t, 1, len(vals))
	require.Equal(t, RecordState{Name: "n3", Type: TXT, Data: "cool"}, vals[0])
	require.NoError(t, iter.Terminate())

	ta.err = errors.New("boom")
	_, err = nns.GetAllRecordsExpanded("nspcc.neo", 5)
	require.Error(t, err)

	ta.err = nil
	ta.res = &result.Invoke{
		State: "HALT",
		Stack: []stackitem.Item{
			stackitem.NewInterop(result.Iterator{
				Values: []stackitem.Item{recordItem("n3", TXT, "cool")},
			}),
		},
	}
	expanded, err := nns.GetAllRecordsExpanded("nspcc.neo", 5)
	require.NoError(t, err)
	require.Equal(t, 1, len(expanded))
	require.Equal(t, RecordState{Name: "n3", Type: TXT, Data: "cool"}, expanded[0])
}

func TestRoots(t *testing.T) {
	ta := &testAct{}
	nns := NewReader(ta, util.Uint160{1, 2, 3})

	ta.err = errors.New("boom")
	_, err := nns.Roots()
	require.Error(t, err)

	ta.err = nil
	iid := uuid.New()
	ta.res = &result.Invoke{
		State: "HALT",
		Stack: []stackitem.Item{stackitem.NewInterop(result.Iterator{ID: &iid})},
	}
	iter, err := nns.Roots()
	require.NoError(t, err)
	_, err = iter.Next(1)
	require.Error(t, err)
	require.Error(t, iter.Terminate())

	ta.res = &result.Invoke{
		State: "HALT",
		Stack: []stackitem.Item{
			stackitem.NewInterop(result.Iterator{
				Values: []stackitem.Item{stackitem.Make("n3"), stackitem.Make("com")},
			}),
		},
	}
	iter, err = nns.Roots()
	require.NoError(t, err)
	vals, err := iter.Next(10)
	require.NoError(t, err)
	require.Equal(t, []string{"n3", "com"}, vals)
	require.NoError(t, iter.Terminate())

	ta.res = &result.Invoke{
		State: "HALT",
		Stack: []stackitem.Item{
			stackitem.NewInterop(result.Iterator{
				Values: []stackitem.Item{stackitem.Make("root1"), stackitem.Make("root2")},
			}),
		},
	}
	roots, err := nns.RootsExpanded(10)
	require.NoError(t, err)
	require.Equal(t, []string{"root1", "root2"}, roots)
}

func TestUpdate(t *testing.T) {
	ta := &testAct{}
	nns := New(ta, util.Uint160{1, 2, 3})

	nef := []byte{0x01, 0x02, 0x03}
	manifest := "manifest data"

	ta.err = errors.New("test error")
	_, _, err := nns.Update(nef, manifest)
	require.Error(t, err)

	ta.err = nil
	ta.txh = util.Uint256{0x04, 0x05, 0x06}
	txh, vub, err := nns.Update(nef, manifest)
	require.NoError(t, err)
	require.Equal(t, ta.txh, txh)
	require.Equal(t, ta.vub, vub)

	for _, fun := range []func(nef []byte, manifest string) (*transaction.Transaction, error){
		nns.UpdateTransaction,
		nns.UpdateUnsigned,
	} {
		ta.err = errors.New("")
		_, err := fun(nil, "")
		require.Error(t, err)

		ta.err = nil
		ta.tx = &transaction.Transaction{Nonce: 100500, ValidUntilBlock: 42}
		tx, err := fun(nil, "")
		require.NoError(t, err)
		require.Equal(t, ta.tx, tx)
	}
}

func TestAddRoot(t *testing.T) {
	ta := &testAct{}
	nns := New(ta, util.Uint160{1, 2, 3})

	root := "example.root"
	ta.err = errors.New("test error")
	_, _, err := nns.AddRoot(root)
	require.Error(t, err)

	ta.err = nil
	ta.txh = util.Uint256{0x07, 0x08, 0x09}
	txh, vub, err := nns.AddRoot(root)
	require.NoError(t, err)
	require.Equal(t, ta.txh, txh)
	require.Equal(t, ta.vub, vub)

	ta.tx = &transaction.Transaction{Nonce: 100500, ValidUntilBlock: 42}
	tx, err := nns.AddRootTransaction(root)
	require.NoError(t, err)
	require.Equal(t, ta.tx, tx)
	tx, err = nns.AddRootUnsigned(root)
	require.NoError(t, err)
	require.Equal(t, ta.tx, tx)
}

func TestSetPrice(t *testing.T) {
	ta := &testAct{}
	nns := New(ta, util.Uint160{1, 2, 3})

	priceList := []int64{100, 200}
	ta.err = errors.New("test error")
	_, _, err := nns.SetPrice(priceList)
	require.Error(t, err)

	ta.err = nil
	ta.txh = util.Uint256{0x0A, 0x0B, 0x0C}
	ta.vub = 42
	txh, vub, err := nns.SetPrice(priceList)
	require.NoError(t, err)
	require.Equal(t, ta.txh, txh)
	require.Equal(t, ta.vub, vub)
}

func TestRegister(t *testing.T) {
	ta := &testAct{}
	nns := New(ta, util.Uint160{1, 2, 3})

	name := "example.neo"
	owner := util.Uint160{0x0D, 0x0E, 0x0F}

	ta.err = errors.New("test error")
	txh, vub, err := nns.Register(name, owner)
	require.Error(t, err)
	require.Equal(t, util.Uint256{}, txh)
	require.Equal(t, uint32(0), vub)

	ta.err = nil
	ta.txh = util.Uint256{0x10, 0x11, 0x12}
	txh, vub, err = nns.Register(name, owner)
	require.NoError(t, err)
	require.Equal(t, ta.txh, txh)
	require.Equal(t, ta.vub, vub)
}

func TestRenew(t *testing.T) {
	ta := &testAct{}
	nns := New(ta, util.Uint160{1, 2, 3})

	name := "example.neo"

	ta.err = errors.New("test error")
	_, _, err := nns.Renew(name)
	require.Error(t, err)

	ta.err = nil
	ta.txh = util.Uint256{0x13, 0x14, 0x15}
	txh, vub, err := nns.Renew(name)
	require.NoError(t, err)
	require.Equal(t, ta.txh, txh)
	require.Equal(t, ta.vub, vub)

	txh, vub, err = nns.Renew2(name, 3)
	require.NoError(t, err)
	require.Equal(t, ta.txh, txh)
	require.Equal(t, ta.vub, vub)
}

func TestSetRecordAndDelete(t *testing.T) {
	ta := &testAct{}
	c := New(ta, util.Uint160{1, 2, 3})

	name := "example.neo"

	ta.err = errors.New("test error")
	_, _, err := c.SetRecord(name, A, "1.2.3.4")
	require.Error(t, err)
	_, _, err = c.DeleteRecord(name, A)
	require.Error(t, err)

	ta.err = nil
	ta.txh = util.Uint256{0x13, 0x14, 0x15}
	ta.vub = 42
	txh, vub, err := c.SetRecord(name, A, "1.2.3.4")
	require.NoError(t, err)
	require.Equal(t, ta.txh, txh)
	require.Equal(t, ta.vub, vub)

	txh, vub, err = c.DeleteRecord(name, A)
	require.NoError(t, err)
	require.Equal(t, ta.txh, txh)
	require.Equal(t, ta.vub, vub)

	tx := &transaction.Transaction{Nonce: 100500, ValidUntilBlock: 42}
	ta.tx = tx
	for _, fun := range []func(string, RecordType, string) (*transaction.Transaction, error){
		c.SetRecordTransaction,
		c.SetRecordUnsigned,
	} {
		got, err := fun(name, A, "1.2.3.4")
		require.NoError(t, err)
		require.Equal(t, tx, got)
	}
}

func TestSetAdmin(t *testing.T) {
	ta := &testAct{}
	c := New(ta, util.Uint160{1, 2, 3})

	name := "example.neo"
	admin := util.Uint160{4, 5, 6}

	ta.err = errors.New("test error")
	_, _, err := c.SetAdmin(name, admin)
	require.Error(t, err)

	ta.err = nil
	ta.txh = util.Uint256{0x13, 0x14, 0x15}
	ta.vub = 42
	txh, vub, err := c.SetAdmin(name, admin)
	require.NoError(t, err)
	require.Equal(t, ta.txh, txh)
	require.Equal(t, ta.vub, vub)
}

func TestTransfer(t *testing.T) {
	ta := &testAct{}
	c := New(ta, util.Uint160{1, 2, 3})

	to := util.Uint160{1, 1, 1}
	name := "example.neo"

	ta.err = errors.New("test error")
	_, _, err := c.Transfer(to, name, nil)
	require.Error(t, err)

	ta.err = nil
	ta.txh = util.Uint256{0x20, 0x21, 0x22}
	ta.vub = 7
	txh, vub, err := c.Transfer(to, name, nil)
	require.NoError(t, err)
	require.Equal(t, ta.txh, txh)
	require.Equal(t, ta.vub, vub)

	_, err = c.TransferTransaction(to, name, stackitem.NewInterop(nil))
	require.Error(t, err)
}
