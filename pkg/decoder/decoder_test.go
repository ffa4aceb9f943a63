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

import "testing"

func TestReadAt_NoArg(t *testing.T) {
	data := []byte{0x00, 0x76, 0xe3}
	i, err := ReadAt(data, 0)
	if err != nil {
		t.Fatalf("ReadAt() error = %v", err)
	}
	if i.Op != Nop {
		t.Errorf("ReadAt(0) = %v, want Nop", i.Op)
	}

	i, err = ReadAt(data, 1)
	if err != nil {
		t.Fatalf("ReadAt() error = %v", err)
	}
	if i.Op != Hlt {
		t.Errorf("ReadAt(1) = %v, want Hlt", i.Op)
	}

	i, err = ReadAt(data, 2)
	if err != nil {
		t.Fatalf("ReadAt() error = %v", err)
	}
	if i.Op != Xthl {
		t.Errorf("ReadAt(2) = %v, want Xthl", i.Op)
	}
}

func TestReadAt_OneArg(t *testing.T) {
	data := []byte{0x3e, 0x42}
	i, err := ReadAt(data, 0)
	if err != nil {
		t.Fatalf("ReadAt() error = %v", err)
	}
	if i.Op != Mvi || i.Dst != A || i.Imm8 != 0x42 {
		t.Errorf("ReadAt() = %+v, want Mvi A, 0x42", i)
	}
}

func TestReadAt_TwoArg(t *testing.T) {
	data := []byte{0xc3, 0x34, 0x12}
	i, err := ReadAt(data, 0)
	if err != nil {
		t.Fatalf("ReadAt() error = %v", err)
	}
	if i.Op != Jmp || i.Addr != 0x1234 {
		t.Errorf("ReadAt() = %+v, want Jmp 0x1234", i)
	}
}

func TestReadAt_EndOfData(t *testing.T) {
	data := []byte{}
	_, err := ReadAt(data, 0)
	if _, ok := err.(EndOfDataError); !ok {
		t.Errorf("ReadAt() error = %v (%T), want EndOfDataError", err, err)
	}
}

func TestReadAt_MalformedInstruction(t *testing.T) {
	data := []byte{0xc3, 0x34}
	_, err := ReadAt(data, 0)
	if _, ok := err.(MalformedInstructionError); !ok {
		t.Errorf("ReadAt() error = %v (%T), want MalformedInstructionError", err, err)
	}
}

func TestMovBlock(t *testing.T) {
	cases := []struct {
		op       uint8
		dst, src Register
	}{
		{0x40, B, B},
		{0x47, B, A},
		{0x7e, A, M},
		{0x7f, A, A},
		{0x70, M, B},
	}
	for _, c := range cases {
		i, err := ReadAt([]byte{c.op}, 0)
		if err != nil {
			t.Fatalf("ReadAt(%#02x) error = %v", c.op, err)
		}
		if i.Op != Mov || i.Dst != c.dst || i.Src != c.src {
			t.Errorf("ReadAt(%#02x) = %+v, want Mov %v,%v", c.op, i, c.dst, c.src)
		}
	}
}

func TestHltIsNotMovMM(t *testing.T) {
	i, err := ReadAt([]byte{0x76}, 0)
	if err != nil {
		t.Fatalf("ReadAt() error = %v", err)
	}
	if i.Op != Hlt {
		t.Errorf("ReadAt(0x76) = %v, want Hlt (not Mov M,M)", i.Op)
	}
}

func TestAluBlock(t *testing.T) {
	cases := []struct {
		op     uint8
		wantOp Op
		src    Register
	}{
		{0x80, Add, B},
		{0x8f, Adc, A},
		{0x97, Sub, A},
		{0x9e, Sbb, M},
		{0xa7, Ana, A},
		{0xaf, Xra, A},
		{0xb6, Ora, M},
		{0xbf, Cmp, A},
	}
	for _, c := range cases {
		i, err := ReadAt([]byte{c.op}, 0)
		if err != nil {
			t.Fatalf("ReadAt(%#02x) error = %v", c.op, err)
		}
		if i.Op != c.wantOp || i.Src != c.src {
			t.Errorf("ReadAt(%#02x) = %+v, want %v %v", c.op, i, c.wantOp, c.src)
		}
	}
}

func TestRstOperands(t *testing.T) {
	for n, op := range []uint8{0xc7, 0xcf, 0xd7, 0xdf, 0xe7, 0xef, 0xf7, 0xff} {
		i, err := ReadAt([]byte{op}, 0)
		if err != nil {
			t.Fatalf("ReadAt(%#02x) error = %v", op, err)
		}
		if i.Op != Rst || int(i.RstNum) != n {
			t.Errorf("ReadAt(%#02x) = %+v, want Rst %d", op, i, n)
		}
	}
}

func TestUnassignedOpcodeDecodesAsNop(t *testing.T) {
	i, err := ReadAt([]byte{0x08}, 0)
	if err != nil {
		t.Fatalf("ReadAt() error = %v", err)
	}
	if i.Op != Nop {
		t.Errorf("ReadAt(0x08) = %v, want Nop", i.Op)
	}
}

func TestSizeAndCycles(t *testing.T) {
	jmp := Instruction{Op: Jmp, Addr: 0x1234}
	if jmp.Size() != 3 {
		t.Errorf("Jmp.Size() = %d, want 3", jmp.Size())
	}
	if jmp.Cycles() != 10 {
		t.Errorf("Jmp.Cycles() = %d, want 10", jmp.Cycles())
	}

	mviM := Instruction{Op: Mvi, Dst: M, Imm8: 5}
	if mviM.Size() != 2 {
		t.Errorf("Mvi.Size() = %d, want 2", mviM.Size())
	}
	if mviM.Cycles() != 10 {
		t.Errorf("Mvi(M).Cycles() = %d, want 10", mviM.Cycles())
	}

	mviB := Instruction{Op: Mvi, Dst: B, Imm8: 5}
	if mviB.Cycles() != 7 {
		t.Errorf("Mvi(B).Cycles() = %d, want 7", mviB.Cycles())
	}

	nop := Instruction{Op: Nop}
	if nop.Size() != 1 {
		t.Errorf("Nop.Size() = %d, want 1", nop.Size())
	}

	anaM := Instruction{Op: Ana, Src: M}
	if anaM.Cycles() != 7 {
		t.Errorf("Ana(M).Cycles() = %d, want 7", anaM.Cycles())
	}
	anaB := Instruction{Op: Ana, Src: B}
	if anaB.Cycles() != 4 {
		t.Errorf("Ana(B).Cycles() = %d, want 4", anaB.Cycles())
	}
}
