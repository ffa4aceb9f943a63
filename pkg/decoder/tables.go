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

package decoder

// opArgSize maps every possible opcode byte to its total instruction length
// (1, 2, or 3 bytes including the opcode itself). Bytes with no assigned
// 8080 mnemonic default to 1, matching the no-arg table's NOP fallback.
var opArgSize = [256]uint8{
	0x00: 1, 0x01: 3, 0x02: 1, 0x03: 1, 0x04: 1, 0x05: 1, 0x06: 2, 0x07: 1,
	0x08: 1, 0x09: 1, 0x0a: 1, 0x0b: 1, 0x0c: 1, 0x0d: 1, 0x0e: 2, 0x0f: 1,
	0x10: 1, 0x11: 3, 0x12: 1, 0x13: 1, 0x14: 1, 0x15: 1, 0x16: 2, 0x17: 1,
	0x18: 1, 0x19: 1, 0x1a: 1, 0x1b: 1, 0x1c: 1, 0x1d: 1, 0x1e: 2, 0x1f: 1,
	0x20: 1, 0x21: 3, 0x22: 3, 0x23: 1, 0x24: 1, 0x25: 1, 0x26: 2, 0x27: 1,
	0x28: 1, 0x29: 1, 0x2a: 3, 0x2b: 1, 0x2c: 1, 0x2d: 1, 0x2e: 2, 0x2f: 1,
	0x30: 1, 0x31: 3, 0x32: 3, 0x33: 1, 0x34: 1, 0x35: 1, 0x36: 2, 0x37: 1,
	0x38: 1, 0x39: 1, 0x3a: 3, 0x3b: 1, 0x3c: 1, 0x3d: 1, 0x3e: 2, 0x3f: 1,
	0x40: 1, 0x41: 1, 0x42: 1, 0x43: 1, 0x44: 1, 0x45: 1, 0x46: 1, 0x47: 1,
	0x48: 1, 0x49: 1, 0x4a: 1, 0x4b: 1, 0x4c: 1, 0x4d: 1, 0x4e: 1, 0x4f: 1,
	0x50: 1, 0x51: 1, 0x52: 1, 0x53: 1, 0x54: 1, 0x55: 1, 0x56: 1, 0x57: 1,
	0x58: 1, 0x59: 1, 0x5a: 1, 0x5b: 1, 0x5c: 1, 0x5d: 1, 0x5e: 1, 0x5f: 1,
	0x60: 1, 0x61: 1, 0x62: 1, 0x63: 1, 0x64: 1, 0x65: 1, 0x66: 1, 0x67: 1,
	0x68: 1, 0x69: 1, 0x6a: 1, 0x6b: 1, 0x6c: 1, 0x6d: 1, 0x6e: 1, 0x6f: 1,
	0x70: 1, 0x71: 1, 0x72: 1, 0x73: 1, 0x74: 1, 0x75: 1, 0x76: 1, 0x77: 1,
	0x78: 1, 0x79: 1, 0x7a: 1, 0x7b: 1, 0x7c: 1, 0x7d: 1, 0x7e: 1, 0x7f: 1,
	0x80: 1, 0x81: 1, 0x82: 1, 0x83: 1, 0x84: 1, 0x85: 1, 0x86: 1, 0x87: 1,
	0x88: 1, 0x89: 1, 0x8a: 1, 0x8b: 1, 0x8c: 1, 0x8d: 1, 0x8e: 1, 0x8f: 1,
	0x90: 1, 0x91: 1, 0x92: 1, 0x93: 1, 0x94: 1, 0x95: 1, 0x96: 1, 0x97: 1,
	0x98: 1, 0x99: 1, 0x9a: 1, 0x9b: 1, 0x9c: 1, 0x9d: 1, 0x9e: 1, 0x9f: 1,
	0xa0: 1, 0xa1: 1, 0xa2: 1, 0xa3: 1, 0xa4: 1, 0xa5: 1, 0xa6: 1, 0xa7: 1,
	0xa8: 1, 0xa9: 1, 0xaa: 1, 0xab: 1, 0xac: 1, 0xad: 1, 0xae: 1, 0xaf: 1,
	0xb0: 1, 0xb1: 1, 0xb2: 1, 0xb3: 1, 0xb4: 1, 0xb5: 1, 0xb6: 1, 0xb7: 1,
	0xb8: 1, 0xb9: 1, 0xba: 1, 0xbb: 1, 0xbc: 1, 0xbd: 1, 0xbe: 1, 0xbf: 1,
	0xc0: 1, 0xc1: 1, 0xc2: 3, 0xc3: 3, 0xc4: 3, 0xc5: 1, 0xc6: 2, 0xc7: 1,
	0xc8: 1, 0xc9: 1, 0xca: 3, 0xcb: 1, 0xcc: 3, 0xcd: 3, 0xce: 2, 0xcf: 1,
	0xd0: 1, 0xd1: 1, 0xd2: 3, 0xd3: 2, 0xd4: 3, 0xd5: 1, 0xd6: 2, 0xd7: 1,
	0xd8: 1, 0xd9: 1, 0xda: 3, 0xdb: 2, 0xdc: 3, 0xdd: 1, 0xde: 2, 0xdf: 1,
	0xe0: 1, 0xe1: 1, 0xe2: 3, 0xe3: 1, 0xe4: 3, 0xe5: 1, 0xe6: 2, 0xe7: 1,
	0xe8: 1, 0xe9: 1, 0xea: 3, 0xeb: 1, 0xec: 3, 0xed: 1, 0xee: 2, 0xef: 1,
	0xf0: 1, 0xf1: 1, 0xf2: 3, 0xf3: 1, 0xf4: 3, 0xf5: 1, 0xf6: 2, 0xf7: 1,
	0xf8: 1, 0xf9: 1, 0xfa: 3, 0xfb: 1, 0xfc: 3, 0xfd: 1, 0xfe: 2, 0xff: 1,
}

// twoArgInstruction decodes a 3-byte opcode (one with a 16-bit address
// immediate, low byte first).
func twoArgInstruction(op, arg1, arg2 uint8) Instruction {
	addr := uint16(arg2)<<8 | uint16(arg1)
	switch op {
	case 0x01:
		return Instruction{Op: Lxi, RP: BC, Addr: addr}
	case 0x11:
		return Instruction{Op: Lxi, RP: DE, Addr: addr}
	case 0x21:
		return Instruction{Op: Lxi, RP: HL, Addr: addr}
	case 0x22:
		return Instruction{Op: Shld, Addr: addr}
	case 0x2a:
		return Instruction{Op: Lhld, Addr: addr}
	case 0x31:
		return Instruction{Op: Lxi, RP: SP, Addr: addr}
	case 0x32:
		return Instruction{Op: Sta, Addr: addr}
	case 0x3a:
		return Instruction{Op: Lda, Addr: addr}
	case 0xc2:
		return Instruction{Op: Jnz, Addr: addr}
	case 0xc3:
		return Instruction{Op: Jmp, Addr: addr}
	case 0xc4:
		return Instruction{Op: Cnz, Addr: addr}
	case 0xca:
		return Instruction{Op: Jz, Addr: addr}
	case 0xcc:
		return Instruction{Op: Cz, Addr: addr}
	case 0xcd:
		return Instruction{Op: Call, Addr: addr}
	case 0xd2:
		return Instruction{Op: Jnc, Addr: addr}
	case 0xd4:
		return Instruction{Op: Cnc, Addr: addr}
	case 0xda:
		return Instruction{Op: Jc, Addr: addr}
	case 0xdc:
		return Instruction{Op: Cc, Addr: addr}
	case 0xe2:
		return Instruction{Op: Jpo, Addr: addr}
	case 0xe4:
		return Instruction{Op: Cpo, Addr: addr}
	case 0xea:
		return Instruction{Op: Jpe, Addr: addr}
	case 0xec:
		return Instruction{Op: Cpe, Addr: addr}
	case 0xf2:
		return Instruction{Op: Jp, Addr: addr}
	case 0xf4:
		return Instruction{Op: Cp, Addr: addr}
	case 0xfa:
		return Instruction{Op: Jm, Addr: addr}
	case 0xfc:
		return Instruction{Op: Cm, Addr: addr}
	default:
		return Instruction{Op: Nopcode}
	}
}

// oneArgInstruction decodes a 2-byte opcode (one with an 8-bit immediate).
func oneArgInstruction(op, arg uint8) Instruction {
	switch op {
	case 0x06:
		return Instruction{Op: Mvi, Dst: B, Imm8: arg}
	case 0x0e:
		return Instruction{Op: Mvi, Dst: C, Imm8: arg}
	case 0x16:
		return Instruction{Op: Mvi, Dst: D, Imm8: arg}
	case 0x1e:
		return Instruction{Op: Mvi, Dst: E, Imm8: arg}
	case 0x26:
		return Instruction{Op: Mvi, Dst: H, Imm8: arg}
	case 0x2e:
		return Instruction{Op: Mvi, Dst: L, Imm8: arg}
	case 0x36:
		return Instruction{Op: Mvi, Dst: M, Imm8: arg}
	case 0x3e:
		return Instruction{Op: Mvi, Dst: A, Imm8: arg}
	case 0xc6:
		return Instruction{Op: Adi, Imm8: arg}
	case 0xce:
		return Instruction{Op: Aci, Imm8: arg}
	case 0xd3:
		return Instruction{Op: Out, Imm8: arg}
	case 0xd6:
		return Instruction{Op: Sui, Imm8: arg}
	case 0xdb:
		return Instruction{Op: In, Imm8: arg}
	case 0xde:
		return Instruction{Op: Sbi, Imm8: arg}
	case 0xe6:
		return Instruction{Op: Ani, Imm8: arg}
	case 0xee:
		return Instruction{Op: Xri, Imm8: arg}
	case 0xf6:
		return Instruction{Op: Ori, Imm8: arg}
	case 0xfe:
		return Instruction{Op: Cpi, Imm8: arg}
	default:
		return Instruction{Op: Nopcode}
	}
}

// noArgInstruction decodes a 1-byte opcode. Bytes with no assigned 8080
// mnemonic decode as Nop, matching the 8080's actual undocumented behavior
// for its few unused slots (0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38 and a
// handful of others are simple duplicates or unused entirely).
func noArgInstruction(op uint8) Instruction {
	switch op {
	case 0x00:
		return Instruction{Op: Nop}
	case 0x02:
		return Instruction{Op: Stax, RP: BC}
	case 0x03:
		return Instruction{Op: Inx, RP: BC}
	case 0x04:
		return Instruction{Op: Inr, Dst: B}
	case 0x05:
		return Instruction{Op: Dcr, Dst: B}
	case 0x07:
		return Instruction{Op: Rlc}
	case 0x09:
		return Instruction{Op: Dad, RP: BC}
	case 0x0a:
		return Instruction{Op: Ldax, RP: BC}
	case 0x0b:
		return Instruction{Op: Dcx, RP: BC}
	case 0x0c:
		return Instruction{Op: Inr, Dst: C}
	case 0x0d:
		return Instruction{Op: Dcr, Dst: C}
	case 0x0f:
		return Instruction{Op: Rrc}
	case 0x12:
		return Instruction{Op: Stax, RP: DE}
	case 0x13:
		return Instruction{Op: Inx, RP: DE}
	case 0x14:
		return Instruction{Op: Inr, Dst: D}
	case 0x15:
		return Instruction{Op: Dcr, Dst: D}
	case 0x17:
		return Instruction{Op: Ral}
	case 0x19:
		return Instruction{Op: Dad, RP: DE}
	case 0x1a:
		return Instruction{Op: Ldax, RP: DE}
	case 0x1b:
		return Instruction{Op: Dcx, RP: DE}
	case 0x1c:
		return Instruction{Op: Inr, Dst: E}
	case 0x1d:
		return Instruction{Op: Dcr, Dst: E}
	case 0x1f:
		return Instruction{Op: Rar}
	case 0x23:
		return Instruction{Op: Inx, RP: HL}
	case 0x24:
		return Instruction{Op: Inr, Dst: H}
	case 0x25:
		return Instruction{Op: Dcr, Dst: H}
	case 0x27:
		return Instruction{Op: Daa}
	case 0x29:
		return Instruction{Op: Dad, RP: HL}
	case 0x2b:
		return Instruction{Op: Dcx, RP: HL}
	case 0x2c:
		return Instruction{Op: Inr, Dst: L}
	case 0x2d:
		return Instruction{Op: Dcr, Dst: L}
	case 0x2f:
		return Instruction{Op: Cma}
	case 0x33:
		return Instruction{Op: Inx, RP: SP}
	case 0x34:
		return Instruction{Op: Inr, Dst: M}
	case 0x35:
		return Instruction{Op: Dcr, Dst: M}
	case 0x37:
		return Instruction{Op: Stc}
	case 0x39:
		return Instruction{Op: Dad, RP: SP}
	case 0x3b:
		return Instruction{Op: Dcx, RP: SP}
	case 0x3c:
		return Instruction{Op: Inr, Dst: A}
	case 0x3d:
		return Instruction{Op: Dcr, Dst: A}
	case 0x3f:
		return Instruction{Op: Cmc}
	case 0x76:
		return Instruction{Op: Hlt}
	case 0xc0:
		return Instruction{Op: Rnz}
	case 0xc1:
		return Instruction{Op: Pop, RP: BC}
	case 0xc5:
		return Instruction{Op: Push, RP: BC}
	case 0xc7:
		return Instruction{Op: Rst, RstNum: 0}
	case 0xc8:
		return Instruction{Op: Rz}
	case 0xc9:
		return Instruction{Op: Ret}
	case 0xcf:
		return Instruction{Op: Rst, RstNum: 1}
	case 0xd0:
		return Instruction{Op: Rnc}
	case 0xd1:
		return Instruction{Op: Pop, RP: DE}
	case 0xd5:
		return Instruction{Op: Push, RP: DE}
	case 0xd7:
		return Instruction{Op: Rst, RstNum: 2}
	case 0xd8:
		return Instruction{Op: Rc}
	case 0xdf:
		return Instruction{Op: Rst, RstNum: 3}
	case 0xe0:
		return Instruction{Op: Rpo}
	case 0xe1:
		return Instruction{Op: Pop, RP: HL}
	case 0xe3:
		return Instruction{Op: Xthl}
	case 0xe5:
		return Instruction{Op: Push, RP: HL}
	case 0xe7:
		return Instruction{Op: Rst, RstNum: 4}
	case 0xe8:
		return Instruction{Op: Rpe}
	case 0xe9:
		return Instruction{Op: Pchl}
	case 0xeb:
		return Instruction{Op: Xchg}
	case 0xef:
		return Instruction{Op: Rst, RstNum: 5}
	case 0xf0:
		return Instruction{Op: Rp}
	case 0xf1:
		return Instruction{Op: Pop, RP: PSW}
	case 0xf3:
		return Instruction{Op: Di}
	case 0xf5:
		return Instruction{Op: Push, RP: PSW}
	case 0xf7:
		return Instruction{Op: Rst, RstNum: 6}
	case 0xf8:
		return Instruction{Op: Rm}
	case 0xf9:
		return Instruction{Op: Sphl}
	case 0xfb:
		return Instruction{Op: Ei}
	case 0xff:
		return Instruction{Op: Rst, RstNum: 7}
	default:
		if op >= 0x40 && op <= 0x7f {
			return movInstruction(op)
		}
		if op >= 0x80 && op <= 0xbf {
			return aluInstruction(op)
		}
		return Instruction{Op: Nop}
	}
}

var movSrcOrder = [8]Register{B, C, D, E, H, L, M, A}

// movInstruction decodes the 0x40-0x7f MOV block, which is laid out as a
// regular dst*8+src grid (with 0x76, MOV M,M, replaced by HLT).
func movInstruction(op uint8) Instruction {
	idx := op - 0x40
	dst := movSrcOrder[idx/8]
	src := movSrcOrder[idx%8]
	return Instruction{Op: Mov, Dst: dst, Src: src}
}

// aluInstruction decodes the 0x80-0xbf 8-register-ALU block, which is
// laid out as eight opcodes per mnemonic, one per source register.
func aluInstruction(op uint8) Instruction {
	src := movSrcOrder[op%8]
	switch (op - 0x80) / 8 {
	case 0:
		return Instruction{Op: Add, Src: src}
	case 1:
		return Instruction{Op: Adc, Src: src}
	case 2:
		return Instruction{Op: Sub, Src: src}
	case 3:
		return Instruction{Op: Sbb, Src: src}
	case 4:
		return Instruction{Op: Ana, Src: src}
	case 5:
		return Instruction{Op: Xra, Src: src}
	case 6:
		return Instruction{Op: Ora, Src: src}
	default:
		return Instruction{Op: Cmp, Src: src}
	}
}
