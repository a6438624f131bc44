/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package logsink narrows the module's structured logger down to the
// small capability the reactor components that log depend on, so that
// acceptor/connection/server take an interface instead of a concrete
// logrus-backed type. NewDefault wires the structured
// logger straight through.
package logsink

import (
	"context"

	"github.com/nabbar/reactor/logger"
)

// Fields carries structured key/value context attached to a log line.
type Fields map[string]interface{}

// Sink is the logging capability consumed by the reactor core. The
// trailing args carry optional causes: every error among them is
// attached to the record, anything else is added as a detail field.
type Sink interface {
	Debugf(message string, fields Fields, args ...interface{})
	Infof(message string, fields Fields, args ...interface{})
	Warnf(message string, fields Fields, args ...interface{})
	Errorf(message string, fields Fields, args ...interface{})
	Fatalf(message string, fields Fields, args ...interface{})
}

// Discard is a Sink that drops every message; useful in tests that do
// not want logging noise.
var Discard Sink = discard{}

type discard struct{}

func (discard) Debugf(string, Fields, ...interface{}) {}
func (discard) Infof(string, Fields, ...interface{})  {}
func (discard) Warnf(string, Fields, ...interface{})  {}
func (discard) Errorf(string, Fields, ...interface{}) {}
func (discard) Fatalf(string, Fields, ...interface{}) {}

// NewDefault returns a Sink backed by the structured logger at the
// given level, writing to colorized stdout.
func NewDefault(ctx context.Context, lvl logger.Level) Sink {
	l := logger.New(ctx)
	l.SetLevel(lvl)
	return NewLogger(l)
}

// NewLogger wraps an already configured Logger behind the Sink
// capability.
func NewLogger(l logger.Logger) Sink {
	return &lgrSink{l: l}
}
