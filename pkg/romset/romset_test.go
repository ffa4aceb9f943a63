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

package romset

import (
	"bytes"
	"testing"
)

func TestLoad(t *testing.T) {
	want := []byte{1, 2, 3, 4}
	got, err := Load(bytes.NewReader(want))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Load() = %v, want %v", got, want)
	}
}

func TestLoadNilReader(t *testing.T) {
	if _, err := Load(nil); err != ErrNilReader {
		t.Errorf("Load(nil) error = %v, want ErrNilReader", err)
	}
}

func TestLoadSpaceInvadersSet(t *testing.T) {
	page := func(fill byte) *bytes.Reader {
		return bytes.NewReader(bytes.Repeat([]byte{fill}, spaceInvadersPageSize))
	}

	got, err := LoadSpaceInvadersSet(page(0x11), page(0x22), page(0x33), page(0x44))
	if err != nil {
		t.Fatalf("LoadSpaceInvadersSet() error = %v", err)
	}
	if len(got) != 4*spaceInvadersPageSize {
		t.Fatalf("len(LoadSpaceInvadersSet()) = %d, want %d", len(got), 4*spaceInvadersPageSize)
	}
	if got[0] != 0x11 || got[spaceInvadersPageSize] != 0x22 ||
		got[2*spaceInvadersPageSize] != 0x33 || got[3*spaceInvadersPageSize] != 0x44 {
		t.Errorf("LoadSpaceInvadersSet() did not concatenate pages h,g,f,e in order")
	}
}

func TestLoadSpaceInvadersSetShortPage(t *testing.T) {
	page := func(fill byte) *bytes.Reader {
		return bytes.NewReader(bytes.Repeat([]byte{fill}, spaceInvadersPageSize))
	}
	short := bytes.NewReader([]byte{0x01, 0x02})

	if _, err := LoadSpaceInvadersSet(short, page(0x22), page(0x33), page(0x44)); err == nil {
		t.Errorf("LoadSpaceInvadersSet() error = nil, want an error for a short page")
	}
}

func TestLoadSpaceInvadersSetNilReader(t *testing.T) {
	page := func(fill byte) *bytes.Reader {
		return bytes.NewReader(bytes.Repeat([]byte{fill}, spaceInvadersPageSize))
	}
	if _, err := LoadSpaceInvadersSet(nil, page(0x22), page(0x33), page(0x44)); err != ErrNilReader {
		t.Errorf("LoadSpaceInvadersSet() error = %v, want ErrNilReader", err)
	}
}
