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

// Package cpu retires decoded instructions against a register file and a
// memory, advancing PC and flags the way the real 8080 does.
package cpu

import (
	"fmt"

	"github.com/lesurp/emu8080/pkg/decoder"
	"github.com/lesurp/emu8080/pkg/diagnostics"
	"github.com/lesurp/emu8080/pkg/memory"
)

// InOut is the CPU's only window onto the outside world, exercised by the
// IN/OUT instructions. A System never holds a concrete implementation; it
// is handed one on every Execute/Process call.
type InOut interface {
	Write(port uint8, value uint8)
	Read(port uint8) uint8
}

const (
	flagS  = 1 << 7
	flagZ  = 1 << 6
	flagAC = 1 << 4
	flagP  = 1 << 2
	flagCY = 1 << 0
)

// System is a complete 8080: its eight registers (A/F/B/C/D/E/H/L), stack
// pointer, program counter, interrupt-enable latch, and the memory it
// operates on.
type System struct {
	registers [8]uint8
	sp        uint16
	pc        uint16
	inte      bool
	halted    bool

	mem *memory.Memory
}

// NewSystem builds a System over mem, with PC set to the given reset
// vector. SP starts at 0xf000, matching the 8080's conventional stack
// location for ROMs that never explicitly load SP before using the stack.
func NewSystem(mem *memory.Memory, pc uint16) *System {
	return &System{
		sp:  0xf000,
		pc:  pc,
		mem: mem,
	}
}

// PC returns the program counter.
func (s *System) PC() uint16 { return s.pc }

// SP returns the stack pointer.
func (s *System) SP() uint16 { return s.sp }

// INTE reports whether interrupts are currently enabled.
func (s *System) INTE() bool { return s.inte }

// Halted reports whether the CPU has executed a HLT and is waiting to be
// woken by an external reset or interrupt; Execute/Process keep working
// even while halted; it is up to the caller to decide what "waking" means.
func (s *System) Halted() bool { return s.halted }

// Memory exposes the underlying address space, e.g. for a host renderer
// reading the framebuffer.
func (s *System) Memory() *memory.Memory { return s.mem }

// Get reads an 8-bit register, resolving M through HL.
func (s *System) Get(r decoder.Register) uint8 {
	if r == decoder.M {
		v, _ := s.mem.Read(s.getRP(decoder.HL))
		return v
	}
	return s.registers[r]
}

func (s *System) set(r decoder.Register, v uint8) error {
	if r == decoder.M {
		return s.mem.Write(s.getRP(decoder.HL), v)
	}
	s.registers[r] = v
	return nil
}

// GetRP reads a 16-bit register pair. SP is not splittable and is read via
// System.SP instead; calling GetRP(decoder.SP) panics, matching the
// decoder's own RegisterPair.Split rule.
func (s *System) GetRP(rp decoder.RegisterPair) uint16 {
	return s.getRP(rp)
}

func (s *System) getRP(rp decoder.RegisterPair) uint16 {
	hi, lo := rp.Split()
	return uint16(s.registers[hi])<<8 | uint16(s.registers[lo])
}

func (s *System) setRP(rp decoder.RegisterPair, v uint16) {
	hi, lo := rp.Split()
	s.registers[hi] = uint8(v >> 8)
	s.registers[lo] = uint8(v)
}

func (s *System) a() uint8     { return s.registers[decoder.A] }
func (s *System) setA(v uint8) { s.registers[decoder.A] = v }

func (s *System) flags() uint8     { return s.registers[decoder.F] }
func (s *System) setFlags(v uint8) { s.registers[decoder.F] = v }

func (s *System) flag(mask uint8) bool { return s.flags()&mask != 0 }

func (s *System) setFlag(mask uint8, v bool) {
	if v {
		s.registers[decoder.F] |= mask
	} else {
		s.registers[decoder.F] &^= mask
	}
}

func (s *System) cy() bool { return s.flag(flagCY) }
func (s *System) ac() bool { return s.flag(flagAC) }
func (s *System) z() bool  { return s.flag(flagZ) }
func (s *System) sf() bool { return s.flag(flagS) }
func (s *System) p() bool  { return s.flag(flagP) }

// PSW returns the accumulator/flags pair, A in the high byte.
func (s *System) PSW() uint16 {
	return uint16(s.a())<<8 | uint16(s.flags())
}

// updateFlags sets S, Z and P from byte, leaving AC and CY untouched; the
// 8-bit arithmetic/logical ops call this and then set CY (and, for the
// arithmetic ones, AC) themselves, mirroring the asymmetric flag rules of
// the real 8080.
func (s *System) updateFlags(byte uint8) {
	s.setFlag(flagS, byte&0x80 != 0)
	s.setFlag(flagZ, byte == 0)
	s.setFlag(flagP, parityEven(byte))
}

func parityEven(b uint8) bool {
	b ^= b >> 4
	b ^= b >> 2
	b ^= b >> 1
	return b&1 == 0
}

func addU8(a, b uint8) (out uint8, cy, ac bool) {
	return addU8WithCY(a, b, false)
}

// addU8WithCY computes the auxiliary-carry flag as the carry out of bit 3
// of the full addition, (a&0x0f) + (b&0x0f) + cyIn > 0x0f, so the incoming
// carry counts on the *-with-carry path.
func addU8WithCY(a, b uint8, cyIn bool) (out uint8, cy, ac bool) {
	var c uint16
	if cyIn {
		c = 1
	}
	sum16 := uint16(a) + uint16(b) + c
	out = uint8(sum16)
	cy = sum16 > 0xff
	ac = uint16(a&0x0f)+uint16(b&0x0f)+c > 0x0f
	return out, cy, ac
}

func subU8(a, b uint8) (out uint8, cy, ac bool) {
	return subU8WithCY(a, b, false)
}

// subU8WithCY computes the auxiliary-carry flag as
// (a&0x0f) + (^b&0x0f) + (cyIn?0:1) > 0x0f, the literal nibble-borrow
// formula: with no incoming borrow this is satisfied by equal low
// nibbles (>=), and only tightens to a strict > once cyIn contributes
// its own borrow.
func subU8WithCY(a, b uint8, cyIn bool) (out uint8, cy, ac bool) {
	var c uint16
	if cyIn {
		c = 1
	}
	out = uint8(uint16(a) - uint16(b) - c)
	cy = uint16(a) < uint16(b)+c
	if cyIn {
		ac = a&0x0f > b&0x0f
	} else {
		ac = a&0x0f >= b&0x0f
	}
	return out, cy, ac
}

func addU16(a, b uint16) (out uint16, cy bool) {
	sum := uint32(a) + uint32(b)
	return uint16(sum), sum > 0xffff
}

// ExecutionError wraps a memory access failure encountered mid-instruction,
// tagging it with the instruction that triggered it.
type ExecutionError struct {
	Op  decoder.Op
	Err error
}

func (e ExecutionError) Error() string {
	return fmt.Sprintf("cpu: executing %v: %v", e.Op, e.Err)
}

func (e ExecutionError) Unwrap() error { return e.Err }

// Execute retires a single decoded instruction, advancing PC (and SP where
// relevant) and returning the instruction's cycle cost. It never consults
// INTE; callers that want the interrupt-enable gate use Process.
func (s *System) Execute(instr decoder.Instruction, io InOut) (uint8, error) {
	pc := s.pc + instr.Size()
	cycles := instr.Cycles()

	var err error
	switch instr.Op {
	case decoder.Nop, decoder.Nopcode:

	case decoder.Mov:
		err = s.mov(instr.Dst, instr.Src)
	case decoder.Mvi:
		err = s.set(instr.Dst, instr.Imm8)
	case decoder.Lxi:
		if instr.RP == decoder.SP {
			s.sp = instr.Addr
		} else {
			s.setRP(instr.RP, instr.Addr)
		}
	case decoder.Lda:
		v, e := s.mem.Read(instr.Addr)
		s.setA(v)
		err = e
	case decoder.Sta:
		err = s.mem.Write(instr.Addr, s.a())
	case decoder.Ldax:
		v, e := s.mem.Read(s.getRP(instr.RP))
		s.setA(v)
		err = e
	case decoder.Stax:
		err = s.mem.Write(s.getRP(instr.RP), s.a())
	case decoder.Lhld:
		err = s.lhld(instr.Addr)
	case decoder.Shld:
		err = s.shld(instr.Addr)
	case decoder.Xchg:
		s.xchg()
	case decoder.Xthl:
		err = s.xthl()
	case decoder.Sphl:
		s.sp = s.getRP(decoder.HL)

	case decoder.Add:
		a, cy, ac := addU8(s.a(), s.Get(instr.Src))
		s.setA(a)
		s.updateFlags(a)
		s.setFlag(flagCY, cy)
		s.setFlag(flagAC, ac)
	case decoder.Adc:
		a, cy, ac := addU8WithCY(s.a(), s.Get(instr.Src), s.cy())
		s.setA(a)
		s.updateFlags(a)
		s.setFlag(flagCY, cy)
		s.setFlag(flagAC, ac)
	case decoder.Adi:
		a, cy, ac := addU8(s.a(), instr.Imm8)
		s.setA(a)
		s.updateFlags(a)
		s.setFlag(flagCY, cy)
		s.setFlag(flagAC, ac)
	case decoder.Aci:
		a, cy, ac := addU8WithCY(s.a(), instr.Imm8, s.cy())
		s.setA(a)
		s.updateFlags(a)
		s.setFlag(flagCY, cy)
		s.setFlag(flagAC, ac)
	case decoder.Sub:
		a, cy, ac := subU8(s.a(), s.Get(instr.Src))
		s.setA(a)
		s.updateFlags(a)
		s.setFlag(flagCY, cy)
		s.setFlag(flagAC, ac)
	case decoder.Sbb:
		a, cy, ac := subU8WithCY(s.a(), s.Get(instr.Src), s.cy())
		s.setA(a)
		s.updateFlags(a)
		s.setFlag(flagCY, cy)
		s.setFlag(flagAC, ac)
	case decoder.Sui:
		a, cy, ac := subU8(s.a(), instr.Imm8)
		s.setA(a)
		s.updateFlags(a)
		s.setFlag(flagCY, cy)
		s.setFlag(flagAC, ac)
	case decoder.Sbi:
		a, cy, ac := subU8WithCY(s.a(), instr.Imm8, s.cy())
		s.setA(a)
		s.updateFlags(a)
		s.setFlag(flagCY, cy)
		s.setFlag(flagAC, ac)
	case decoder.Cmp:
		a, cy, ac := subU8(s.a(), s.Get(instr.Src))
		s.updateFlags(a)
		s.setFlag(flagCY, cy)
		s.setFlag(flagAC, ac)
	case decoder.Cpi:
		a, cy, ac := subU8(s.a(), instr.Imm8)
		s.updateFlags(a)
		s.setFlag(flagCY, cy)
		s.setFlag(flagAC, ac)

	case decoder.Inr:
		v := s.Get(instr.Dst)
		nv, _, ac := addU8(v, 1)
		err = s.set(instr.Dst, nv)
		s.updateFlags(nv)
		s.setFlag(flagAC, ac)
	case decoder.Dcr:
		v := s.Get(instr.Dst)
		nv, _, ac := subU8(v, 1)
		err = s.set(instr.Dst, nv)
		s.updateFlags(nv)
		s.setFlag(flagAC, ac)
	case decoder.Inx:
		if instr.RP == decoder.SP {
			s.sp++
		} else {
			s.setRP(instr.RP, s.getRP(instr.RP)+1)
		}
	case decoder.Dcx:
		if instr.RP == decoder.SP {
			s.sp--
		} else {
			s.setRP(instr.RP, s.getRP(instr.RP)-1)
		}
	case decoder.Dad:
		var operand uint16
		if instr.RP == decoder.SP {
			operand = s.sp
		} else {
			operand = s.getRP(instr.RP)
		}
		v, cy := addU16(operand, s.getRP(decoder.HL))
		s.setRP(decoder.HL, v)
		s.setFlag(flagCY, cy)
	case decoder.Daa:
		s.daa()

	case decoder.Ana:
		s.setA(s.a() & s.Get(instr.Src))
		s.updateFlags(s.a())
		s.setFlag(flagCY, false)
	case decoder.Ani:
		s.setA(s.a() & instr.Imm8)
		s.updateFlags(s.a())
		s.setFlag(flagCY, false)
	case decoder.Ora:
		s.setA(s.a() | s.Get(instr.Src))
		s.updateFlags(s.a())
		s.setFlag(flagCY, false)
	case decoder.Ori:
		s.setA(s.a() | instr.Imm8)
		s.updateFlags(s.a())
		s.setFlag(flagCY, false)
	case decoder.Xra:
		s.setA(s.a() ^ s.Get(instr.Src))
		s.updateFlags(s.a())
		s.setFlag(flagCY, false)
	case decoder.Xri:
		s.setA(s.a() ^ instr.Imm8)
		s.updateFlags(s.a())
		s.setFlag(flagCY, false)

	case decoder.Rlc:
		s.rlc()
	case decoder.Rrc:
		s.rrc()
	case decoder.Ral:
		s.ral()
	case decoder.Rar:
		s.rar()

	case decoder.Jmp:
		pc = instr.Addr
	case decoder.Jnz:
		if !s.z() {
			pc = instr.Addr
		}
	case decoder.Jz:
		if s.z() {
			pc = instr.Addr
		}
	case decoder.Jnc:
		if !s.cy() {
			pc = instr.Addr
		}
	case decoder.Jc:
		if s.cy() {
			pc = instr.Addr
		}
	case decoder.Jpo:
		if !s.p() {
			pc = instr.Addr
		}
	case decoder.Jpe:
		if s.p() {
			pc = instr.Addr
		}
	case decoder.Jp:
		if !s.sf() {
			pc = instr.Addr
		}
	case decoder.Jm:
		if s.sf() {
			pc = instr.Addr
		}

	case decoder.Call:
		pc, err = s.call(instr.Addr, pc)
	case decoder.Cnz:
		if !s.z() {
			pc, err = s.call(instr.Addr, pc)
			cycles += 5
		}
	case decoder.Cz:
		if s.z() {
			pc, err = s.call(instr.Addr, pc)
			cycles += 5
		}
	case decoder.Cnc:
		if !s.cy() {
			pc, err = s.call(instr.Addr, pc)
			cycles += 5
		}
	case decoder.Cc:
		if s.cy() {
			pc, err = s.call(instr.Addr, pc)
			cycles += 5
		}
	case decoder.Cpo:
		if !s.p() {
			pc, err = s.call(instr.Addr, pc)
			cycles += 5
		}
	case decoder.Cpe:
		if s.p() {
			pc, err = s.call(instr.Addr, pc)
			cycles += 5
		}
	case decoder.Cp:
		if !s.sf() {
			pc, err = s.call(instr.Addr, pc)
			cycles += 5
		}
	case decoder.Cm:
		if s.sf() {
			pc, err = s.call(instr.Addr, pc)
			cycles += 5
		}

	case decoder.Ret:
		pc, err = s.ret()
	case decoder.Rnz:
		if !s.z() {
			pc, err = s.ret()
			cycles += 5
		}
	case decoder.Rz:
		if s.z() {
			pc, err = s.ret()
			cycles += 5
		}
	case decoder.Rnc:
		if !s.cy() {
			pc, err = s.ret()
			cycles += 5
		}
	case decoder.Rc:
		if s.cy() {
			pc, err = s.ret()
			cycles += 5
		}
	case decoder.Rpo:
		if !s.p() {
			pc, err = s.ret()
			cycles += 5
		}
	case decoder.Rpe:
		if s.p() {
			pc, err = s.ret()
			cycles += 5
		}
	case decoder.Rp:
		if !s.sf() {
			pc, err = s.ret()
			cycles += 5
		}
	case decoder.Rm:
		if s.sf() {
			pc, err = s.ret()
			cycles += 5
		}

	case decoder.Rst:
		pc, err = s.call(8*uint16(instr.RstNum), pc)
	case decoder.Pchl:
		pc = s.getRP(decoder.HL)
	case decoder.Push:
		err = s.push(instr.RP)
	case decoder.Pop:
		err = s.pop(instr.RP)

	case decoder.In:
		s.setA(io.Read(instr.Imm8))
	case decoder.Out:
		io.Write(instr.Imm8, s.a())

	case decoder.Cma:
		s.setA(^s.a())
	case decoder.Stc:
		s.setFlag(flagCY, true)
	case decoder.Cmc:
		s.setFlag(flagCY, !s.cy())
	case decoder.Ei:
		s.inte = true
	case decoder.Di:
		s.inte = false
	case decoder.Hlt:
		s.halted = true

	default:
		err = fmt.Errorf("cpu: unhandled opcode %v", instr.Op)
	}

	if err != nil {
		return 0, ExecutionError{Op: instr.Op, Err: err}
	}
	diagnostics.Tracef("%04x  %-5v  A=%02x BC=%04x DE=%04x HL=%04x SP=%04x F=%08b",
		s.pc, instr.Op, s.a(), s.getRP(decoder.BC), s.getRP(decoder.DE), s.getRP(decoder.HL), s.sp, s.flags())
	s.pc = pc
	return cycles, nil
}

// Process is the maskable-interrupt entry point: it executes instr (almost
// always an injected RST) only if INTE is set, and is a no-op otherwise.
// Because instr did not come from the instruction stream at PC, PC is
// wound back by instr.Size() first, so that any CALL/RST inside instr
// pushes the address execution was actually interrupted at, not that
// address plus the size of the phantom fetch.
func (s *System) Process(instr decoder.Instruction, io InOut) (uint8, error) {
	if !s.inte {
		return 0, nil
	}
	s.pc -= instr.Size()
	return s.Execute(instr, io)
}

func (s *System) mov(dst, src decoder.Register) error {
	v := s.Get(src)
	return s.set(dst, v)
}

func (s *System) lhld(addr uint16) error {
	l, err := s.mem.Read(addr)
	if err != nil {
		return err
	}
	h, err := s.mem.Read(addr + 1)
	if err != nil {
		return err
	}
	s.registers[decoder.L] = l
	s.registers[decoder.H] = h
	return nil
}

func (s *System) shld(addr uint16) error {
	if err := s.mem.Write(addr, s.registers[decoder.L]); err != nil {
		return err
	}
	return s.mem.Write(addr+1, s.registers[decoder.H])
}

func (s *System) xchg() {
	d, e := s.registers[decoder.D], s.registers[decoder.E]
	s.registers[decoder.D], s.registers[decoder.E] = s.registers[decoder.H], s.registers[decoder.L]
	s.registers[decoder.H], s.registers[decoder.L] = d, e
}

func (s *System) xthl() error {
	lo, err := s.mem.Read(s.sp)
	if err != nil {
		return err
	}
	hi, err := s.mem.Read(s.sp + 1)
	if err != nil {
		return err
	}
	if err := s.mem.Write(s.sp, s.registers[decoder.L]); err != nil {
		return err
	}
	if err := s.mem.Write(s.sp+1, s.registers[decoder.H]); err != nil {
		return err
	}
	s.registers[decoder.L] = lo
	s.registers[decoder.H] = hi
	return nil
}

func (s *System) push(rp decoder.RegisterPair) error {
	v := s.rpOrPSW(rp)
	hi := uint8(v >> 8)
	lo := uint8(v)
	if err := s.mem.Write(s.sp-2, lo); err != nil {
		return err
	}
	if err := s.mem.Write(s.sp-1, hi); err != nil {
		return err
	}
	s.sp -= 2
	return nil
}

func (s *System) pop(rp decoder.RegisterPair) error {
	lo, err := s.mem.Read(s.sp)
	if err != nil {
		return err
	}
	hi, err := s.mem.Read(s.sp + 1)
	if err != nil {
		return err
	}
	s.sp += 2
	if rp == decoder.PSW {
		s.setA(hi)
		s.setFlags(lo)
		return nil
	}
	s.setRP(rp, uint16(hi)<<8|uint16(lo))
	return nil
}

func (s *System) rpOrPSW(rp decoder.RegisterPair) uint16 {
	if rp == decoder.PSW {
		return s.PSW()
	}
	return s.getRP(rp)
}

func (s *System) call(addr, retPC uint16) (uint16, error) {
	hi := uint8(retPC >> 8)
	lo := uint8(retPC)
	if err := s.mem.Write(s.sp-1, hi); err != nil {
		return 0, err
	}
	if err := s.mem.Write(s.sp-2, lo); err != nil {
		return 0, err
	}
	s.sp -= 2
	return addr, nil
}

func (s *System) ret() (uint16, error) {
	lo, err := s.mem.Read(s.sp)
	if err != nil {
		return 0, err
	}
	hi, err := s.mem.Read(s.sp + 1)
	if err != nil {
		return 0, err
	}
	s.sp += 2
	return uint16(hi)<<8 | uint16(lo), nil
}

// daa applies the binary-coded-decimal correction to A. Unlike a
// short-circuiting implementation that skips the upper-nibble check (and
// with it, every flag update) whenever the lower nibble is already
// adjusted, this always recomputes S/Z/P from the final value of A: the
// 8080 datasheet never makes DAA a flags no-op.
func (s *System) daa() {
	a := s.a()
	cy := s.cy()
	ac := s.ac()

	lsb := a & 0x0f
	if lsb > 9 || ac {
		ac = true
		a += 6
	} else {
		ac = false
	}

	msb := (a >> 4) & 0x0f
	if msb > 9 || cy {
		a += 0x60
		cy = true
	}

	s.setA(a)
	s.updateFlags(a)
	s.setFlag(flagCY, cy)
	s.setFlag(flagAC, ac)
}

// rlc rotates A left, carry out of bit 7 into both CY and bit 0.
func (s *System) rlc() {
	a := s.a()
	cy := a&0x80 != 0
	a = a<<1 | a>>7
	s.setA(a)
	s.setFlag(flagCY, cy)
}

// rrc rotates A right, carry out of bit 0 into both CY and bit 7.
func (s *System) rrc() {
	a := s.a()
	cy := a&0x01 != 0
	a = a>>1 | a<<7
	s.setA(a)
	s.setFlag(flagCY, cy)
}

// ral rotates A left through CY (9-bit rotate): bit 7 becomes the new CY,
// the old CY becomes bit 0. The next carry-out is bit 7 of A *before* the
// shift, not a bitwise-AND-against-1 typo that always reads as false.
func (s *System) ral() {
	a := s.a()
	nextCY := a&0x80 != 0
	var out uint8 = a << 1
	if s.cy() {
		out |= 1
	}
	s.setA(out)
	s.setFlag(flagCY, nextCY)
}

// rar rotates A right through CY: bit 0 becomes the new CY, the old CY
// becomes bit 7.
func (s *System) rar() {
	a := s.a()
	nextCY := a&0x01 != 0
	out := a >> 1
	if s.cy() {
		out |= 0x80
	}
	s.setA(out)
	s.setFlag(flagCY, nextCY)
}
