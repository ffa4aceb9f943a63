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

// Package ioport provides generic cpu.InOut implementations. Peripheral
// business logic (e.g. the Space Invaders shift register/input matrix)
// lives outside this package; it only wires latches and guards them.
package ioport

import "sync"

// DummyIO panics on Read, the same way the original reference
// implementation's dummy collaborator does: it exists to catch a test or
// harness that executes IN without wiring a real port behind it. Write is
// a silent no-op.
type DummyIO struct{}

// Write discards the value.
func (DummyIO) Write(uint8, uint8) {}

// Read always panics.
func (DummyIO) Read(port uint8) uint8 {
	panic("ioport: DummyIO.Read called, no port is wired")
}

// LatchedIO is 256 mutex-guarded byte latches: OUT stores a value, IN
// returns whatever was last stored (0 if never written). It is safe to
// share between the CPU goroutine and a host thread driving input, the
// way the original's Mutex<[u8; 8]> port array is.
type LatchedIO struct {
	mu    sync.Mutex
	ports [256]uint8
}

// NewLatchedIO returns a LatchedIO with every port cleared to 0.
func NewLatchedIO() *LatchedIO {
	return &LatchedIO{}
}

// Write stores value at port.
func (l *LatchedIO) Write(port uint8, value uint8) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ports[port] = value
}

// Read returns the last value written to port.
func (l *LatchedIO) Read(port uint8) uint8 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ports[port]
}

// Set is for host-side callers (an input thread, a test) that need to
// drive a port's value directly, bypassing OUT.
func (l *LatchedIO) Set(port uint8, value uint8) {
	l.Write(port, value)
}
