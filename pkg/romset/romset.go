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

// Package romset loads 8080 ROM images from disk. Unlike an iNES
// cartridge, an 8080 ROM carries no header of its own: it is either one
// monolithic image or, for Space Invaders, four fixed 2KB pages that are
// simply concatenated in address order.
package romset

import (
	"io"
	"io/ioutil"

	"github.com/btcsuite/goleveldb/leveldb/errors"
)

// Space Invaders ships its program ROM as four 2KB chips, h/g/f/e, mapped
// back-to-back starting at 0x0000.
const spaceInvadersPageSize = 0x800

var (
	// ErrNilReader is returned by Load/LoadSpaceInvadersSet when handed a
	// nil io.Reader.
	ErrNilReader = errors.New("romset: nil reader")
	// ErrShortPage is returned when a Space Invaders ROM page reads
	// short of the expected 2KB.
	ErrShortPage = errors.New("romset: ROM page is not 2KB")
)

// Load reads r to completion and returns its contents as a ROM image
// suitable for memory.Memory.RegisterROM.
func Load(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, ErrNilReader
	}
	return ioutil.ReadAll(r)
}

// LoadSpaceInvadersSet reads the four classic Space Invaders ROM pages (h,
// g, f, e, each exactly 2KB) and concatenates them in PCB wiring order
// (h first, at 0x0000) into one 8KB image.
func LoadSpaceInvadersSet(h, g, f, e io.Reader) ([]byte, error) {
	out := make([]byte, 0, 4*spaceInvadersPageSize)
	for _, r := range []io.Reader{h, g, f, e} {
		if r == nil {
			return nil, ErrNilReader
		}
		page := make([]byte, spaceInvadersPageSize)
		n, err := io.ReadFull(r, page)
		if err == io.EOF || err == io.ErrUnexpectedEOF || n != spaceInvadersPageSize {
			return nil, ErrShortPage
		}
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
	}
	return out, nil
}
