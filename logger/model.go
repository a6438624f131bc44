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

package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"

	"github.com/nabbar/reactor/errors"
)

type lgr struct {
	x context.Context

	m   sync.RWMutex
	l   *logrus.Logger
	f   Fields
	o   Options
	hf  *os.File
	lvl atomic.Uint32
}

func defaultFormatter(opt Options) logrus.Formatter {
	return &logrus.TextFormatter{
		ForceColors:            !opt.DisableColor,
		DisableColors:          opt.DisableColor,
		ForceQuote:             true,
		DisableTimestamp:       opt.DisableTimestamp,
		FullTimestamp:          true,
		TimestampFormat:        time.RFC3339,
		DisableLevelTruncation: true,
		PadLevelText:           true,
		QuoteEmptyFields:       true,
	}
}

// rebuild reconstructs the logrus instance and its outputs for opt,
// closing any log file the previous configuration held open. A nil opt
// means the defaults.
func (o *lgr) rebuild(opt *Options) errors.Error {
	var cfg Options
	if opt != nil {
		cfg = *opt
	}

	var out []io.Writer
	if !cfg.DisableStandard {
		if cfg.DisableColor {
			out = append(out, colorable.NewNonColorable(os.Stdout))
		} else {
			out = append(out, colorable.NewColorableStdout())
		}
	}

	var hf *os.File
	if cfg.LogFilePath != "" {
		flags := os.O_WRONLY | os.O_APPEND
		if cfg.LogFileCreate {
			flags |= os.O_CREATE
		}

		f, err := os.OpenFile(cfg.LogFilePath, flags, 0644)
		if err != nil {
			return ErrorFileOpen.Error(err)
		}
		hf = f
		out = append(out, f)
	}

	l := logrus.New()
	l.SetFormatter(defaultFormatter(cfg))
	// level filtering happens in LogDetails; logrus itself passes everything
	l.SetLevel(logrus.DebugLevel)

	if len(out) == 0 {
		l.SetOutput(io.Discard)
	} else if len(out) == 1 {
		l.SetOutput(out[0])
	} else {
		l.SetOutput(io.MultiWriter(out...))
	}

	o.m.Lock()
	defer o.m.Unlock()

	if o.hf != nil {
		_ = o.hf.Close()
	}
	o.hf = hf
	o.l = l
	o.o = cfg

	return nil
}

func (o *lgr) SetOptions(opt *Options) errors.Error {
	if opt != nil {
		if err := opt.Validate(); err != nil {
			return err
		}
	}
	return o.rebuild(opt)
}

func (o *lgr) SetLevel(lvl Level) {
	o.lvl.Store(uint32(lvl))
}

func (o *lgr) GetLevel() Level {
	return Level(o.lvl.Load())
}

func (o *lgr) SetFields(f Fields) {
	o.m.Lock()
	defer o.m.Unlock()
	o.f = f.Clone()
}

func (o *lgr) GetFields() Fields {
	o.m.RLock()
	defer o.m.RUnlock()
	return o.f.Clone()
}

func (o *lgr) Close() error {
	o.m.Lock()
	defer o.m.Unlock()

	if o.hf != nil {
		err := o.hf.Close()
		o.hf = nil
		return err
	}
	return nil
}

func (o *lgr) LogDetails(lvl Level, message string, f Fields, err ...error) {
	min := o.GetLevel()
	if lvl == NilLevel || min == NilLevel || lvl > min {
		return
	}
	if o.x.Err() != nil {
		return
	}

	o.m.RLock()
	log := o.l
	base := o.f
	trace := o.o.EnableTrace
	o.m.RUnlock()

	fields := base.Merge(f)

	var errs []string
	for _, e := range err {
		if e != nil {
			errs = append(errs, e.Error())
		}
	}
	if len(errs) == 1 {
		fields = fields.Add("error", errs[0])
	} else if len(errs) > 1 {
		fields = fields.Add("error", errs)
	}

	if trace {
		if _, file, line, ok := runtime.Caller(2); ok {
			fields = fields.Add("caller", fmt.Sprintf("%s:%d", file, line))
		}
	}

	ent := log.WithFields(fields.Logrus())

	switch lvl {
	case PanicLevel:
		ent.Panic(message)
	case FatalLevel:
		ent.Fatal(message)
	case ErrorLevel:
		ent.Error(message)
	case WarnLevel:
		ent.Warn(message)
	case InfoLevel:
		ent.Info(message)
	case DebugLevel:
		ent.Debug(message)
	}
}

func (o *lgr) Debug(message string, f Fields, err ...error) {
	o.LogDetails(DebugLevel, message, f, err...)
}

func (o *lgr) Info(message string, f Fields, err ...error) {
	o.LogDetails(InfoLevel, message, f, err...)
}

func (o *lgr) Warning(message string, f Fields, err ...error) {
	o.LogDetails(WarnLevel, message, f, err...)
}

func (o *lgr) Error(message string, f Fields, err ...error) {
	o.LogDetails(ErrorLevel, message, f, err...)
}

func (o *lgr) Fatal(message string, f Fields, err ...error) {
	o.LogDetails(FatalLevel, message, f, err...)
}
