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

package logsink

import "github.com/nabbar/reactor/logger"

type lgrSink struct {
	l logger.Logger
}

// split separates the trailing args of a Sink call into error causes
// and loggable details.
func split(fields Fields, args []interface{}) (logger.Fields, []error) {
	f := make(logger.Fields, len(fields)+1)
	for k, v := range fields {
		f[k] = v
	}

	var errs []error
	var details []interface{}
	for _, a := range args {
		if a == nil {
			continue
		}
		if e, ok := a.(error); ok {
			errs = append(errs, e)
		} else {
			details = append(details, a)
		}
	}

	if len(details) == 1 {
		f["detail"] = details[0]
	} else if len(details) > 1 {
		f["detail"] = details
	}

	return f, errs
}

func (s *lgrSink) Debugf(message string, fields Fields, args ...interface{}) {
	f, errs := split(fields, args)
	s.l.LogDetails(logger.DebugLevel, message, f, errs...)
}

func (s *lgrSink) Infof(message string, fields Fields, args ...interface{}) {
	f, errs := split(fields, args)
	s.l.LogDetails(logger.InfoLevel, message, f, errs...)
}

func (s *lgrSink) Warnf(message string, fields Fields, args ...interface{}) {
	f, errs := split(fields, args)
	s.l.LogDetails(logger.WarnLevel, message, f, errs...)
}

func (s *lgrSink) Errorf(message string, fields Fields, args ...interface{}) {
	f, errs := split(fields, args)
	s.l.LogDetails(logger.ErrorLevel, message, f, errs...)
}

func (s *lgrSink) Fatalf(message string, fields Fields, args ...interface{}) {
	f, errs := split(fields, args)
	s.l.LogDetails(logger.FatalLevel, message, f, errs...)
}
