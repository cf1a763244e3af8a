package smartcontract

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go-sdk/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go-sdk/pkg/io"
	"github.com/nspcc-dev/neo-go-sdk/pkg/smartcontract/callflag"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
	"github.com/nspcc-dev/neo-go-sdk/pkg/vm/emit"
	"github.com/nspcc-dev/neo-go-sdk/pkg/vm/opcode"
)

// Builder accumulates Neo VM instructions into an invocation script,
// the low-level counterpart to actor.Transfer's higher-level
// TransactionBuilder (spec.md §4.4 builds on top of this).
type Builder struct {
	buf *bytes.Buffer
	bw  *io.BinWriter
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	buf := new(bytes.Buffer)
	return &Builder{buf: buf, bw: io.NewBinWriterFromIO(buf)}
}

// Len returns the number of bytes emitted so far.
func (b *Builder) Len() int {
	return b.buf.Len()
}

// Reset discards everything emitted so far.
func (b *Builder) Reset() {
	b.buf.Reset()
}

// Script returns the accumulated script bytes.
func (b *Builder) Script() ([]byte, error) {
	if b.bw.Err != nil {
		return nil, b.bw.Err
	}
	out := make([]byte, b.buf.Len())
	copy(out, b.buf.Bytes())
	return out, nil
}

// InvokeMethod appends a System.Contract.Call of method on contract
// with args pushed as its parameter array, using callflag.All.
func (b *Builder) InvokeMethod(contract util.Uint160, method string, args ...interface{}) {
	b.InvokeMethodWithFlags(contract, method, callflag.All, args...)
}

// InvokeMethodWithFlags is InvokeMethod with an explicit CallFlag.
func (b *Builder) InvokeMethodWithFlags(contract util.Uint160, method string, flags callflag.CallFlag, args ...interface{}) {
	b.emitArgsArray(args)
	emit.Int(b.bw, big.NewInt(int64(flags)))
	emit.String(b.bw, method)
	emit.Bytes(b.bw, contract.BytesLE())
	emit.Syscall(b.bw, "System.Contract.Call")
}

// emitArgsArray pushes args and packs them into a VM array, using the
// single-opcode NEWARRAY0 form for the empty case rather than PUSH0+PACK.
func (b *Builder) emitArgsArray(args []interface{}) {
	if len(args) == 0 {
		emit.Opcode(b.bw, opcode.NEWARRAY0)
		return
	}
	for i := len(args) - 1; i >= 0; i-- {
		b.emitArg(args[i])
	}
	emit.Array(b.bw, len(args))
}

// emitArg pushes a single Go-native argument value, dispatching on its
// dynamic type the same way the CLI's implicit parameter inference
// does (spec.md §4.3).
func (b *Builder) emitArg(arg interface{}) {
	switch v := arg.(type) {
	case nil:
		emit.Opcode(b.bw, opcode.PUSHNULL)
	case bool:
		emit.Bool(b.bw, v)
	case int:
		emit.Int(b.bw, big.NewInt(int64(v)))
	case int64:
		emit.Int(b.bw, big.NewInt(v))
	case *big.Int:
		emit.Int(b.bw, v)
	case []byte:
		emit.Bytes(b.bw, v)
	case string:
		emit.String(b.bw, v)
	case util.Uint160:
		emit.Bytes(b.bw, v.BytesLE())
	case util.Uint256:
		emit.Bytes(b.bw, v.BytesLE())
	case *keys.PublicKey:
		emit.Bytes(b.bw, v.Bytes())
	case Parameter:
		b.emitParameter(v)
	case []interface{}:
		for i := len(v) - 1; i >= 0; i-- {
			b.emitArg(v[i])
		}
		emit.Array(b.bw, len(v))
	default:
		b.bw.Err = fmt.Errorf("smartcontract: unsupported argument type %T", arg)
	}
}

func (b *Builder) emitParameter(p Parameter) {
	if p.Type == ArrayType {
		arr, ok := p.Value.([]Parameter)
		if !ok {
			b.bw.Err = fmt.Errorf("%w: array value must be []Parameter", ErrInvalidParameter)
			return
		}
		for i := len(arr) - 1; i >= 0; i-- {
			b.emitParameter(arr[i])
		}
		emit.Array(b.bw, len(arr))
		return
	}
	if p.Type == BoolType {
		bv, _ := p.Value.(bool)
		emit.Bool(b.bw, bv)
		return
	}
	if p.Type == StringType {
		sv, _ := p.Value.(string)
		emit.String(b.bw, sv)
		return
	}
	raw, err := p.ToStackItemBytes()
	if err != nil {
		b.bw.Err = err
		return
	}
	if p.Type == IntegerType {
		n, _ := p.Value.(*big.Int)
		emit.Int(b.bw, n)
		return
	}
	emit.Bytes(b.bw, raw)
}
