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

// Package memory is the flat address space the 8080 core reads and writes
// through. It knows nothing about instructions: it only tracks which byte
// ranges are ROM and refuses writes into them unless told otherwise.
package memory

import "fmt"

type romRange struct {
	start, length int
}

func (r romRange) end() int { return r.start + r.length }

// Memory is a contiguous byte buffer with an ordered set of disjoint ROM
// ranges. Writes into a ROM range are rejected unless allowROMWrite was set
// at construction time (used by diagnostic ROMs that patch themselves).
type Memory struct {
	buf           []byte
	roms          []romRange
	allowROMWrite bool
}

// New allocates a Memory of the given size. allowROMWrite, when true,
// disables write protection for registered ROM ranges — used to run
// diagnostic ROMs that rely on being able to patch themselves in place.
func New(size int, allowROMWrite bool) *Memory {
	return &Memory{
		buf:           make([]byte, size),
		allowROMWrite: allowROMWrite,
	}
}

// OutOfBoundsError reports an address outside the memory's allocated size.
type OutOfBoundsError struct {
	Addr int
	Size int
}

func (e OutOfBoundsError) Error() string {
	return fmt.Sprintf("memory: address %#04x out of bounds (size %#04x)", e.Addr, e.Size)
}

// ReadOnlyWriteError reports a write attempt into a registered ROM range
// while write protection is in effect.
type ReadOnlyWriteError struct {
	Addr uint16
}

func (e ReadOnlyWriteError) Error() string {
	return fmt.Sprintf("memory: write to read-only address %#04x", e.Addr)
}

// OverlappingROMError reports that a newly registered ROM range overlaps
// one already registered.
type OverlappingROMError struct {
	PrevStart, PrevLen int
	Start, Len         int
}

func (e OverlappingROMError) Error() string {
	return fmt.Sprintf("memory: ROM range [%#04x,%#04x) overlaps existing range [%#04x,%#04x)",
		e.Start, e.Start+e.Len, e.PrevStart, e.PrevStart+e.PrevLen)
}

// TooLongROMError reports that a ROM image does not fit in the memory
// buffer starting at the requested offset.
type TooLongROMError struct {
	Start, Len, Size int
}

func (e TooLongROMError) Error() string {
	return fmt.Sprintf("memory: ROM of length %#04x at offset %#04x does not fit in %#04x bytes",
		e.Len, e.Start, e.Size)
}

// RegisterROM copies rom into the buffer at offset and marks [offset,
// offset+len(rom)) as a write-protected range (unless allowROMWrite was
// set). ROM ranges must be registered in non-overlapping order; overlap
// against any previously registered range is rejected.
func (m *Memory) RegisterROM(rom []byte, offset int) error {
	length := len(rom)
	if offset < 0 || offset+length > len(m.buf) {
		return TooLongROMError{Start: offset, Len: length, Size: len(m.buf)}
	}
	newRange := romRange{start: offset, length: length}
	for _, r := range m.roms {
		if newRange.end() > r.start && r.end() > newRange.start {
			return OverlappingROMError{
				PrevStart: r.start, PrevLen: r.length,
				Start: offset, Len: length,
			}
		}
	}
	copy(m.buf[offset:offset+length], rom)
	m.roms = append(m.roms, newRange)
	return nil
}

// Read returns the byte at addr.
func (m *Memory) Read(addr uint16) (uint8, error) {
	if int(addr) >= len(m.buf) {
		return 0, OutOfBoundsError{Addr: int(addr), Size: len(m.buf)}
	}
	return m.buf[addr], nil
}

// Write stores v at addr, rejecting the write if addr falls within a
// registered ROM range and write protection is in effect.
func (m *Memory) Write(addr uint16, v uint8) error {
	if int(addr) >= len(m.buf) {
		return OutOfBoundsError{Addr: int(addr), Size: len(m.buf)}
	}
	if !m.allowROMWrite && m.isROM(addr) {
		return ReadOnlyWriteError{Addr: addr}
	}
	m.buf[addr] = v
	return nil
}

func (m *Memory) isROM(addr uint16) bool {
	a := int(addr)
	for _, r := range m.roms {
		if a >= r.start && a < r.end() {
			return true
		}
	}
	return false
}

// SliceFrom returns a direct slice of the buffer starting at addr, running
// to the end of memory. Used to hand the Space Invaders framebuffer
// (0x2400, 7168 bytes) to a renderer without a byte-by-byte copy.
func (m *Memory) SliceFrom(addr uint16) []byte {
	if int(addr) >= len(m.buf) {
		return nil
	}
	return m.buf[addr:]
}

// Size returns the total addressable size of the buffer.
func (m *Memory) Size() int {
	return len(m.buf)
}
