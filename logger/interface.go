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

// Package logger is the module's structured logger: a thin, leveled
// surface over logrus writing colorized records to stdout and
// optionally duplicating them into a file. The reactor core never uses
// it directly — it consumes the narrower logsink.Sink capability, which
// this package's Logger backs.
package logger

import (
	"context"
	"io"

	"github.com/nabbar/reactor/errors"
)

// Logger is a leveled, structured logger. Implementations are safe for
// concurrent use; configuration calls (SetLevel, SetOptions, SetFields)
// may race with logging calls and take effect on the next record.
type Logger interface {
	io.Closer

	// SetLevel changes the minimum severity that is written out.
	SetLevel(lvl Level)

	// GetLevel returns the current minimum severity.
	GetLevel() Level

	// SetFields replaces the base field set merged into every record.
	SetFields(f Fields)

	// GetFields returns the current base field set.
	GetFields() Fields

	// SetOptions validates opt and reconfigures the outputs. A nil opt
	// restores the defaults (colorized stdout, no file).
	SetOptions(opt *Options) errors.Error

	// LogDetails writes one record: the base fields merged with f,
	// every non-nil err attached under an error field, at lvl.
	LogDetails(lvl Level, message string, f Fields, err ...error)

	// Debug, Info, Warning and Error are LogDetails at a fixed level.
	Debug(message string, f Fields, err ...error)
	Info(message string, f Fields, err ...error)
	Warning(message string, f Fields, err ...error)
	Error(message string, f Fields, err ...error)

	// Fatal writes the record then exits the process. Reserved for the
	// configuration-fatal conditions of the error model.
	Fatal(message string, f Fields, err ...error)
}

// New returns a Logger bound to ctx, writing to colorized stdout at
// InfoLevel. Once ctx is cancelled the logger drops every record, so a
// component tree torn down by context does not keep logging behind its
// owner's back.
func New(ctx context.Context) Logger {
	if ctx == nil {
		ctx = context.Background()
	}

	l := &lgr{
		x: ctx,
	}
	l.lvl.Store(uint32(InfoLevel))
	l.rebuild(nil)

	return l
}
