// Package nef implements the NEF (Neo Executable Format) container a
// compiled contract's script, method tokens, and checksum travel in.
package nef

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go-sdk/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go-sdk/pkg/io"
	"github.com/nspcc-dev/neo-go-sdk/pkg/smartcontract/callflag"
	"github.com/nspcc-dev/neo-go-sdk/pkg/util"
)

// Magic is the 4-byte value every valid NEF file's Header starts with.
const Magic uint32 = 0x3346454e // "NEF3" little-endian

// Protocol-defined size caps.
const (
	MaxScriptLength   = 512 * 1024
	MaxCompilerLength = 64
	MaxMethodTokens   = 128
	compilerFieldSize = 64
)

var (
	errInvalidMagic    = errors.New("nef: invalid magic")
	errInvalidChecksum = errors.New("nef: invalid checksum")
	errInvalidReserved = errors.New("nef: reserved bytes must be zero")
	errInvalidScript   = errors.New("nef: invalid script length")
	errTooManyTokens   = errors.New("nef: too many method tokens")
	errCompilerTooLong = errors.New("nef: compiler field too long")
	errReservedMethod  = errors.New("nef: method name is reserved")
)

// MethodToken describes one external contract method a NEF's script
// calls by index instead of by re-resolving the hash/method/flags at
// every call site.
type MethodToken struct {
	Hash       util.Uint160
	Method     string
	ParamCount uint16
	HasReturn  bool
	CallFlag   callflag.CallFlag
}

// EncodeBinary writes the token's fixed-layout fields.
func (t MethodToken) EncodeBinary(w *io.BinWriter) {
	t.Hash.EncodeBinary(w)
	w.WriteString(t.Method)
	w.WriteU16LE(t.ParamCount)
	w.WriteBool(t.HasReturn)
	w.WriteB(byte(t.CallFlag))
}

// DecodeBinary reads a token and rejects a method name starting with
// "_", the protocol's reserved-name prefix for internal methods.
func (t *MethodToken) DecodeBinary(r *io.BinReader) {
	t.Hash.DecodeBinary(r)
	t.Method = r.ReadString()
	if r.Err != nil {
		return
	}
	if strings.HasPrefix(t.Method, "_") {
		r.Err = fmt.Errorf("%w: %q", errReservedMethod, t.Method)
		return
	}
	t.ParamCount = r.ReadU16LE()
	t.HasReturn = r.ReadBool()
	t.CallFlag = callflag.CallFlag(r.ReadB())
}

type methodTokenJSON struct {
	Hash       util.Uint160      `json:"hash"`
	Method     string            `json:"method"`
	ParamCount uint16            `json:"paramcount"`
	HasReturn  bool              `json:"hasreturnvalue"`
	CallFlag   callflag.CallFlag `json:"callflags"`
}

// MarshalJSON renders CallFlag as its raw numeric byte, matching the
// RPC wire shape (not the human-readable flag-name string).
func (t MethodToken) MarshalJSON() ([]byte, error) {
	return json.Marshal(methodTokenJSON{t.Hash, t.Method, t.ParamCount, t.HasReturn, t.CallFlag})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (t *MethodToken) UnmarshalJSON(data []byte) error {
	var raw methodTokenJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.Hash = raw.Hash
	t.Method = raw.Method
	t.ParamCount = raw.ParamCount
	t.HasReturn = raw.HasReturn
	t.CallFlag = raw.CallFlag
	return nil
}

// Header is the fixed-layout prefix of a NEF File: magic and the
// compiler name, null-padded to a fixed width.
type Header struct {
	Magic    uint32
	Compiler string
}

// EncodeBinary writes Magic and Compiler null-padded to
// compilerFieldSize bytes.
func (h Header) EncodeBinary(w *io.BinWriter) {
	w.WriteU32LE(h.Magic)
	buf := make([]byte, compilerFieldSize)
	copy(buf, h.Compiler)
	w.WriteBytes(buf)
}

// DecodeBinary reads Magic and the null-padded Compiler field,
// rejecting a bad Magic and a Compiler value that overflows the field
// once padding is trimmed.
func (h *Header) DecodeBinary(r *io.BinReader) {
	h.Magic = r.ReadU32LE()
	if r.Err != nil {
		return
	}
	if h.Magic != Magic {
		r.Err = errInvalidMagic
		return
	}
	buf := make([]byte, compilerFieldSize)
	r.ReadBytes(buf)
	if r.Err != nil {
		return
	}
	i := bytes.IndexByte(buf, 0)
	if i == -1 {
		i = len(buf)
	}
	if i > MaxCompilerLength {
		r.Err = errCompilerTooLong
		return
	}
	h.Compiler = string(buf[:i])
}

// File is the full NEF container: header, method tokens, the
// contract's script, and a checksum over everything before it.
type File struct {
	Header   Header
	Tokens   []MethodToken
	Script   []byte
	Checksum uint32
}

// CalculateChecksum computes the standard NEF checksum: the first 4
// bytes (as a little-endian uint32) of hash.Checksum over every field
// preceding the Checksum field itself.
func (f *File) CalculateChecksum() uint32 {
	buf := new(bytes.Buffer)
	w := io.NewBinWriterFromIO(buf)
	f.encodeWithoutChecksum(w)
	sum := hash.Checksum(buf.Bytes())
	return binary.LittleEndian.Uint32(sum)
}

func (f *File) encodeWithoutChecksum(w *io.BinWriter) {
	f.Header.EncodeBinary(w)
	w.WriteB(0) // reserved byte, must be zero
	w.WriteVarUint(uint64(len(f.Tokens)))
	for _, t := range f.Tokens {
		t.EncodeBinary(w)
	}
	w.WriteU16LE(0) // reserved bytes after tokens, must be zero
	w.WriteVarBytes(f.Script)
}

// EncodeBinary writes the full File, including its trailing checksum.
func (f *File) EncodeBinary(w *io.BinWriter) {
	f.encodeWithoutChecksum(w)
	w.WriteU32LE(f.Checksum)
}

// DecodeBinary reads a File and validates its Magic, reserved bytes,
// script length, token-method names, token count, and checksum.
func (f *File) DecodeBinary(r *io.BinReader) {
	f.Header.DecodeBinary(r)
	if r.Err != nil {
		return
	}
	reserved := r.ReadB()
	if r.Err != nil {
		return
	}
	if reserved != 0 {
		r.Err = errInvalidReserved
		return
	}

	n := r.ReadVarUint()
	if r.Err != nil {
		return
	}
	if n > MaxMethodTokens {
		r.Err = errTooManyTokens
		return
	}
	f.Tokens = make([]MethodToken, n)
	for i := range f.Tokens {
		f.Tokens[i].DecodeBinary(r)
		if r.Err != nil {
			return
		}
	}

	reservedAfterTokens := r.ReadU16LE()
	if r.Err != nil {
		return
	}
	if reservedAfterTokens != 0 {
		r.Err = errInvalidReserved
		return
	}

	f.Script = r.ReadVarBytes(MaxScriptLength)
	if r.Err != nil {
		return
	}
	if len(f.Script) == 0 || len(f.Script) > MaxScriptLength {
		r.Err = errInvalidScript
		return
	}

	f.Checksum = r.ReadU32LE()
	if r.Err != nil {
		return
	}
	if f.Checksum != f.CalculateChecksum() {
		r.Err = errInvalidChecksum
	}
}

// Bytes serializes f to its wire form.
func (f *File) Bytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	w := io.NewBinWriterFromIO(buf)
	f.EncodeBinary(w)
	if w.Err != nil {
		return nil, w.Err
	}
	return buf.Bytes(), nil
}

// NewFile builds a File wrapping script, stamping it with this
// package's Magic and computing its checksum.
func NewFile(script []byte) (*File, error) {
	if len(script) == 0 || len(script) > MaxScriptLength {
		return nil, errInvalidScript
	}
	f := &File{
		Header: Header{Magic: Magic, Compiler: "neo-go-sdk"},
		Script: script,
	}
	f.Checksum = f.CalculateChecksum()
	return f, nil
}

// FileFromBytes decodes a File from its wire form.
func FileFromBytes(b []byte) (File, error) {
	r := io.NewBinReaderFromBuf(b)
	f := File{}
	f.DecodeBinary(r)
	if r.Err != nil {
		return File{}, r.Err
	}
	return f, nil
}

type fileJSON struct {
	Magic    uint32        `json:"magic"`
	Compiler string        `json:"compiler"`
	Tokens   []MethodToken `json:"tokens"`
	Script   []byte        `json:"script"`
	Checksum uint32        `json:"checksum"`
}

// MarshalJSON renders the File in the RPC "getcontractstate"-adjacent
// NEF JSON shape, base64-encoding Script via the []byte json default.
func (f File) MarshalJSON() ([]byte, error) {
	tokens := f.Tokens
	if tokens == nil {
		tokens = []MethodToken{}
	}
	return json.Marshal(fileJSON{f.Header.Magic, f.Header.Compiler, tokens, f.Script, f.Checksum})
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (f *File) UnmarshalJSON(data []byte) error {
	var raw fileJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.Header = Header{Magic: raw.Magic, Compiler: raw.Compiler}
	f.Tokens = raw.Tokens
	f.Script = raw.Script
	f.Checksum = raw.Checksum
	return nil
}
