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

package memory

import "testing"

func TestRomBoundaries(t *testing.T) {
	m := New(100, false)
	if err := m.RegisterROM(make([]byte, 10), 50); err != nil {
		t.Fatalf("RegisterROM() error = %v", err)
	}
	if err := m.RegisterROM(make([]byte, 20), 60); err != nil {
		t.Fatalf("RegisterROM() error = %v", err)
	}

	for _, addr := range []uint16{0, 49} {
		if err := m.Write(addr, 1); err != nil {
			t.Errorf("Write(%#x) error = %v, want nil", addr, err)
		}
	}

	for _, addr := range []uint16{50, 59, 60, 79} {
		err := m.Write(addr, 1)
		if _, ok := err.(ReadOnlyWriteError); !ok {
			t.Errorf("Write(%#x) error = %v (%T), want ReadOnlyWriteError", addr, err, err)
		}
	}

	for _, addr := range []uint16{80, 99} {
		if err := m.Write(addr, 1); err != nil {
			t.Errorf("Write(%#x) error = %v, want nil", addr, err)
		}
	}

	if _, err := m.Read(100); err == nil {
		t.Errorf("Read(100) error = nil, want OutOfBoundsError")
	} else if _, ok := err.(OutOfBoundsError); !ok {
		t.Errorf("Read(100) error = %v (%T), want OutOfBoundsError", err, err)
	}
}

func TestRomOverlap(t *testing.T) {
	m := New(100, false)
	if err := m.RegisterROM(make([]byte, 10), 50); err != nil {
		t.Fatalf("RegisterROM() error = %v", err)
	}
	err := m.RegisterROM(make([]byte, 20), 55)
	overlap, ok := err.(OverlappingROMError)
	if !ok {
		t.Fatalf("RegisterROM() error = %v (%T), want OverlappingROMError", err, err)
	}
	if overlap.PrevStart != 50 || overlap.PrevLen != 10 || overlap.Start != 55 || overlap.Len != 20 {
		t.Errorf("RegisterROM() error = %+v, want {50,10,55,20}", overlap)
	}
}

func TestRegisterROMTooLong(t *testing.T) {
	m := New(100, false)
	err := m.RegisterROM(make([]byte, 20), 90)
	if _, ok := err.(TooLongROMError); !ok {
		t.Errorf("RegisterROM() error = %v (%T), want TooLongROMError", err, err)
	}
}

func TestAllowROMWrite(t *testing.T) {
	m := New(100, true)
	if err := m.RegisterROM(make([]byte, 10), 0); err != nil {
		t.Fatalf("RegisterROM() error = %v", err)
	}
	if err := m.Write(5, 0x42); err != nil {
		t.Errorf("Write() error = %v, want nil (allowROMWrite set)", err)
	}
	v, err := m.Read(5)
	if err != nil || v != 0x42 {
		t.Errorf("Read(5) = %v, %v, want 0x42, nil", v, err)
	}
}

func TestSliceFrom(t *testing.T) {
	m := New(0x4000, false)
	s := m.SliceFrom(0x2400)
	if len(s) != 0x4000-0x2400 {
		t.Errorf("len(SliceFrom(0x2400)) = %d, want %d", len(s), 0x4000-0x2400)
	}
	s[0] = 0xff
	v, _ := m.Read(0x2400)
	if v != 0xff {
		t.Errorf("SliceFrom() does not alias the backing buffer")
	}
}
