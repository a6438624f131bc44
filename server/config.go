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

package server

import (
	"fmt"

	libval "github.com/go-playground/validator/v10"

	"github.com/nabbar/reactor/errors"
	"github.com/nabbar/reactor/rsocket"
)

// Config describes one TcpServer: the address it listens on, its
// worker-pool size, and the per-connection backpressure threshold new
// connections are configured with.
type Config struct {
	// Name prefixes every connection name and every spawned worker
	// loop's name, the way muduo's TcpServer constructor takes a name
	// argument threaded through to EventLoopThreadPool.
	Name string `json:"name" yaml:"name" toml:"name" mapstructure:"name" validate:"required"`

	// ListenAddress is a "host:port" pair parsed with rsocket.NewAddress.
	ListenAddress string `json:"listenAddress" yaml:"listenAddress" toml:"listenAddress" mapstructure:"listenAddress" validate:"required"`

	// ReusePort sets SO_REUSEPORT on the listening socket, letting
	// multiple processes share the port for kernel-level load balancing.
	ReusePort bool `json:"reusePort" yaml:"reusePort" toml:"reusePort" mapstructure:"reusePort"`

	// NumThreads is the worker pool size. Zero keeps every connection on
	// the server's own loop (the single-threaded model).
	NumThreads int `json:"numThreads" yaml:"numThreads" toml:"numThreads" mapstructure:"numThreads" validate:"gte=0"`

	// HighWaterMark is the per-connection output-buffer threshold, in
	// bytes, that triggers HighWaterMarkCallback. Zero falls back to the
	// connection package's default of 64 MiB.
	HighWaterMark int `json:"highWaterMark" yaml:"highWaterMark" toml:"highWaterMark" mapstructure:"highWaterMark" validate:"gte=0"`
}

// Validate runs struct-tag validation and then confirms ListenAddress
// actually parses, layering a domain-specific check on top of
// go-playground/validator.
func (c Config) Validate() errors.Error {
	err := ErrorConfigValidator.Error(nil)

	if er := libval.New().Struct(c); er != nil {
		if e, ok := er.(*libval.InvalidValidationError); ok {
			err.Add(e)
		}
		if ve, ok := er.(libval.ValidationErrors); ok {
			for _, e := range ve {
				err.Add(fmt.Errorf("config field '%s' is not validated by constraint '%s'", e.Namespace(), e.ActualTag()))
			}
		}
	}

	if _, e := rsocket.NewAddress(c.ListenAddress); e != nil {
		err.Add(ErrorConfigInvalidAddress.Error(e))
	}

	if !err.HasParent() {
		return nil
	}
	return err
}
