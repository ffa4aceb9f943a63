// Copyright © 2019 mg
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package decoder turns a stream of 8080 opcode bytes into fully parsed
// Instruction values. It never touches a running CPU: reading is pure and
// side-effect free, so it also doubles as the engine behind a disassembler.
package decoder

import "fmt"

// Register is an 8080 single-byte register operand. M is not a real
// register: it stands for "memory indirect through HL" and is only legal
// as a MOV/arithmetic operand, resolved by the cpu package at the point
// of use.
type Register uint8

const (
	A Register = iota
	F
	B
	C
	D
	E
	H
	L
	M
)

func (r Register) String() string {
	switch r {
	case A:
		return "A"
	case F:
		return "F"
	case B:
		return "B"
	case C:
		return "C"
	case D:
		return "D"
	case E:
		return "E"
	case H:
		return "H"
	case L:
		return "L"
	case M:
		return "M"
	default:
		return fmt.Sprintf("Register(%d)", uint8(r))
	}
}

// RegisterPair names a 16-bit register pairing. SP is handled specially at
// every call site: it aliases the stack pointer and never splits into two
// 8-bit registers.
type RegisterPair uint8

const (
	PSW RegisterPair = iota
	BC
	DE
	HL
	SP
)

// Split returns the (high, low) registers making up a pair. Panics for SP,
// which has no 8-bit halves.
func (rp RegisterPair) Split() (hi, lo Register) {
	switch rp {
	case PSW:
		return A, F
	case BC:
		return B, C
	case DE:
		return D, E
	case HL:
		return H, L
	default:
		panic("RegisterPair.Split: SP has no 8-bit halves")
	}
}

// Op tags the mnemonic of a decoded Instruction. The operand fields that
// are meaningful for a given Op are documented next to each constant.
type Op uint8

const (
	Nop Op = iota
	Mov           // Dst, Src
	Mvi           // Dst, Imm8
	Lxi           // RP, Addr
	Lda           // Addr
	Sta           // Addr
	Ldax          // RP (B or D)
	Stax          // RP (B or D)
	Lhld          // Addr
	Shld          // Addr
	Xchg
	Xthl
	Sphl
	Add  // Src
	Adc  // Src
	Adi  // Imm8
	Aci  // Imm8
	Sub  // Src
	Sbb  // Src
	Sui  // Imm8
	Sbi  // Imm8
	Inr  // Dst
	Dcr  // Dst
	Inx  // RP
	Dcx  // RP
	Dad  // RP
	Daa
	Ana // Src
	Ani // Imm8
	Ora // Src
	Ori // Imm8
	Xra // Src
	Xri // Imm8
	Cmp // Src
	Cpi // Imm8
	Rlc
	Rrc
	Ral
	Rar
	Jmp // Addr
	Jnz // Addr
	Jz  // Addr
	Jnc // Addr
	Jc  // Addr
	Jpo // Addr
	Jpe // Addr
	Jp  // Addr
	Jm  // Addr
	Call // Addr
	Cnz  // Addr
	Cz   // Addr
	Cnc  // Addr
	Cc   // Addr
	Cpo  // Addr
	Cpe  // Addr
	Cp   // Addr
	Cm   // Addr
	Ret
	Rnz
	Rz
	Rnc
	Rc
	Rpo
	Rpe
	Rp
	Rm
	Rst // RstNum
	Pchl
	Push // RP
	Pop  // RP
	In   // Imm8 (port)
	Out  // Imm8 (port)
	Nopcode // fallback of the one/two-operand decode helpers; ReadAt decodes unassigned bytes as Nop; behaves as Nop
	Hlt
	Ei
	Di
	Cma
	Stc
	Cmc
)

// Instruction is a fully decoded 8080 instruction: a mnemonic tag plus
// whichever operand fields that mnemonic uses. Unused fields are zero.
type Instruction struct {
	Op     Op
	Dst    Register
	Src    Register
	RP     RegisterPair
	Imm8   uint8
	Addr   uint16
	RstNum uint8
}

// EndOfDataError reports that ReadAt was asked to decode past the end of
// the supplied byte slice.
type EndOfDataError struct {
	PC int
}

func (e EndOfDataError) Error() string {
	return fmt.Sprintf("decoder: no opcode byte available at offset %#04x", e.PC)
}

// MalformedInstructionError reports that an opcode's operand bytes ran off
// the end of the supplied byte slice.
type MalformedInstructionError struct {
	Op uint8
	PC int
}

func (e MalformedInstructionError) Error() string {
	return fmt.Sprintf("decoder: opcode %#02x at %#04x is missing its operand bytes", e.Op, e.PC)
}

// ReadAt decodes a single instruction starting at pc within data. It never
// mutates data and never advances any cursor itself; callers step pc by
// the returned Instruction's Size().
func ReadAt(data []byte, pc uint16) (Instruction, error) {
	p := int(pc)
	if p >= len(data) {
		return Instruction{}, EndOfDataError{PC: p}
	}
	op := data[p]
	argSize := opArgSize[op]
	switch argSize {
	case 1:
		return noArgInstruction(op), nil
	case 2:
		if p+1 >= len(data) {
			return Instruction{}, MalformedInstructionError{Op: op, PC: p}
		}
		return oneArgInstruction(op, data[p+1]), nil
	case 3:
		if p+2 >= len(data) {
			return Instruction{}, MalformedInstructionError{Op: op, PC: p}
		}
		return twoArgInstruction(op, data[p+1], data[p+2]), nil
	default:
		return Instruction{}, MalformedInstructionError{Op: op, PC: p}
	}
}

// Size returns the instruction's encoded length in bytes: 1, 2, or 3.
func (i Instruction) Size() uint16 {
	switch i.Op {
	case Lxi, Shld, Lhld, Sta, Lda,
		Jmp, Jnz, Jz, Jnc, Jc, Jpo, Jpe, Jp, Jm,
		Call, Cnz, Cz, Cnc, Cc, Cpo, Cpe, Cp, Cm:
		return 3
	case Mvi, Adi, Aci, Out, Sui, In, Sbi, Ani, Xri, Ori, Cpi:
		return 2
	default:
		return 1
	}
}

// Cycles returns the instruction's base cycle cost (Intel's published
// table). Conditional CALL/RET that take the branch add +5 on top of this
// at the execute layer; the "not taken" cost here is already the short one.
func (i Instruction) Cycles() uint8 {
	switch i.Op {
	case Xthl:
		return 18
	case Call:
		return 17
	case Shld, Lhld:
		return 16
	case Sta, Lda:
		return 13
	case Cc, Cnc, Cz, Cnz, Cp, Cm, Cpe, Cpo, Rst, Push:
		return 11
	case Dad, Pop, In, Out, Lxi, Ret,
		Jmp, Jc, Jnc, Jz, Jnz, Jp, Jm, Jpe, Jpo:
		return 10
	case Inr:
		if i.Dst == M {
			return 10
		}
		return 5
	case Dcr:
		if i.Dst == M {
			return 10
		}
		return 5
	case Mvi:
		if i.Dst == M {
			return 10
		}
		return 7
	case Hlt, Ldax, Stax:
		return 7
	case Add:
		if i.Src == M {
			return 7
		}
		return 4
	case Adc:
		if i.Src == M {
			return 7
		}
		return 4
	case Sub:
		if i.Src == M {
			return 7
		}
		return 4
	case Sbb:
		if i.Src == M {
			return 7
		}
		return 4
	case Xra:
		if i.Src == M {
			return 7
		}
		return 4
	case Ora:
		if i.Src == M {
			return 7
		}
		return 4
	case Cmp:
		if i.Src == M {
			return 7
		}
		return 4
	case Adi, Aci, Sui, Sbi, Ani, Xri, Ori, Cpi:
		return 7
	case Mov:
		if i.Dst == M || i.Src == M {
			return 7
		}
		return 5
	case Pchl, Sphl, Rc, Rnc, Rz, Rnz, Rp, Rm, Rpe, Rpo, Dcx, Inx:
		return 5
	case Ana:
		if i.Src == M {
			return 7
		}
		return 4
	case Nop, Nopcode, Cma, Stc, Cmc, Daa, Ei, Di, Rlc, Rrc, Ral, Rar, Xchg:
		return 4
	default:
		return 4
	}
}
