// Package opcode defines the Neo N3 VM instruction set, the subset of
// it ScriptBuilder and the verification-script templates in spec.md
// §4.3 emit.
package opcode

// Opcode is a single Neo VM instruction byte.
type Opcode byte

// Neo N3 VM opcodes, grouped as in the protocol's own opcode table.
// Only the subset ScriptBuilder/emit actually use is named; the
// numeric gaps belong to opcodes this SDK never emits (the full
// interpreter is out of scope, per spec.md's Non-goals).
const (
	PUSHINT8   Opcode = 0x00
	PUSHINT16  Opcode = 0x01
	PUSHINT32  Opcode = 0x02
	PUSHINT64  Opcode = 0x03
	PUSHINT128 Opcode = 0x04
	PUSHINT256 Opcode = 0x05

	PUSHA    Opcode = 0x0A
	PUSHNULL Opcode = 0x0B

	PUSHDATA1 Opcode = 0x0C
	PUSHDATA2 Opcode = 0x0D
	PUSHDATA4 Opcode = 0x0E

	PUSHM1 Opcode = 0x0F

	PUSH0  Opcode = 0x10
	PUSH1  Opcode = 0x11
	PUSH2  Opcode = 0x12
	PUSH3  Opcode = 0x13
	PUSH4  Opcode = 0x14
	PUSH5  Opcode = 0x15
	PUSH6  Opcode = 0x16
	PUSH7  Opcode = 0x17
	PUSH8  Opcode = 0x18
	PUSH9  Opcode = 0x19
	PUSH10 Opcode = 0x1A
	PUSH11 Opcode = 0x1B
	PUSH12 Opcode = 0x1C
	PUSH13 Opcode = 0x1D
	PUSH14 Opcode = 0x1E
	PUSH15 Opcode = 0x1F
	PUSH16 Opcode = 0x20

	NOP    Opcode = 0x21
	JMP    Opcode = 0x22
	JMPIF  Opcode = 0x24
	JMPIFNOT Opcode = 0x26

	CALL     Opcode = 0x34
	CALLA    Opcode = 0x35
	CALLT    Opcode = 0x36
	ABORT    Opcode = 0x37
	ASSERT   Opcode = 0x38
	THROW    Opcode = 0x3A
	RET      Opcode = 0x40
	SYSCALL  Opcode = 0x41

	DEPTH   Opcode = 0x43
	DROP    Opcode = 0x45
	NIP     Opcode = 0x46
	DUP     Opcode = 0x4A
	SWAP    Opcode = 0x50

	NEWARRAY0 Opcode = 0xC2
	NEWARRAY  Opcode = 0xC3
	PACK      Opcode = 0xC0
	PACKMAP   Opcode = 0xBE
	PACKSTRUCT Opcode = 0xBF
	UNPACK    Opcode = 0xC1
)
