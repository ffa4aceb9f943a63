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

// Package diagnostics is the injectable trace sink for the cpu package. It
// costs nothing when disabled: Tracef checks traceEnable before ever
// touching logger or formatting a string.
package diagnostics

import "fmt"

// Logger receives one line per traced event. Implementations decide where
// that line goes (stdout, a ring buffer for a TUI, /dev/null).
type Logger interface {
	Log(msg string)
}

type defaultLogger struct{}

func (l *defaultLogger) Log(msg string) {}

var (
	defaultLoggerImpl      = &defaultLogger{}
	logger            Logger = defaultLoggerImpl

	traceEnable = false
)

// SetLogger installs impl as the trace sink. Passing nil restores the
// no-op default.
func SetLogger(impl Logger) {
	if impl == nil {
		logger = defaultLoggerImpl
	} else {
		logger = impl
	}
}

// SetTraceEnabled turns instruction tracing on or off.
func SetTraceEnabled(enable bool) {
	traceEnable = enable
}

// TraceEnabled reports whether tracing is currently on.
func TraceEnabled() bool {
	return traceEnable
}

// Tracef formats and logs msg only if tracing is enabled, so callers on
// the hot execute path can call it unconditionally without paying for
// fmt.Sprintf when nobody is listening.
func Tracef(format string, args ...interface{}) {
	if !traceEnable {
		return
	}
	logger.Log(fmt.Sprintf(format, args...))
}
