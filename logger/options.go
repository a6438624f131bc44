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
	"fmt"

	libval "github.com/go-playground/validator/v10"

	"github.com/nabbar/reactor/errors"
)

// Options configures a Logger's outputs.
type Options struct {
	// DisableStandard drops the stdout output entirely; useful when
	// only a log file is wanted.
	DisableStandard bool `json:"disableStandard" yaml:"disableStandard" toml:"disableStandard" mapstructure:"disableStandard"`

	// DisableColor strips ANSI colors from the stdout output, e.g.
	// when stdout is piped into another collector.
	DisableColor bool `json:"disableColor" yaml:"disableColor" toml:"disableColor" mapstructure:"disableColor"`

	// DisableTimestamp drops the timestamp from each record; useful
	// under a supervisor that stamps lines itself.
	DisableTimestamp bool `json:"disableTimestamp" yaml:"disableTimestamp" toml:"disableTimestamp" mapstructure:"disableTimestamp"`

	// EnableTrace adds the caller file and line to each record.
	EnableTrace bool `json:"enableTrace" yaml:"enableTrace" toml:"enableTrace" mapstructure:"enableTrace"`

	// LogFilePath, when set, duplicates every record into the file at
	// this path, appending.
	LogFilePath string `json:"logFilePath,omitempty" yaml:"logFilePath,omitempty" toml:"logFilePath,omitempty" mapstructure:"logFilePath,omitempty" validate:"omitempty,filepath"`

	// LogFileCreate creates the log file if it does not exist; without
	// it SetOptions fails on a missing file.
	LogFileCreate bool `json:"logFileCreate,omitempty" yaml:"logFileCreate,omitempty" toml:"logFileCreate,omitempty" mapstructure:"logFileCreate,omitempty"`
}

// Validate runs struct-tag validation the same way the server
// configuration does.
func (o Options) Validate() errors.Error {
	err := ErrorValidatorError.Error(nil)

	if er := libval.New().Struct(o); er != nil {
		if e, ok := er.(*libval.InvalidValidationError); ok {
			err.Add(e)
		}
		if ve, ok := er.(libval.ValidationErrors); ok {
			for _, e := range ve {
				err.Add(fmt.Errorf("options field '%s' is not validated by constraint '%s'", e.Namespace(), e.ActualTag()))
			}
		}
	}

	if !err.HasParent() {
		return nil
	}
	return err
}
