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

package pool

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nabbar/reactor/eventloop"
	"github.com/nabbar/reactor/hashring"
	"github.com/nabbar/reactor/timestamp"
)

// hashRingReplicas matches the original ConsistenHash's virtual-node
// factor, giving each worker enough ring points for a reasonably even
// key distribution at pool sizes in the tens of loops.
const hashRingReplicas = 160

// Pool fans connection keys out across a fixed set of worker
// EventLoops by consistent hash, falling back to the base loop when
// configured with zero workers (the single-threaded model).
type Pool struct {
	baseLoop *eventloop.EventLoop
	clock    timestamp.Clock
	name     string

	numThreads int
	threads    []*EventLoopThread
	loops      []*eventloop.EventLoop
	byName     map[string]*eventloop.EventLoop

	ring *hashring.Ring

	started bool
	metrics *metrics
}

// New returns a Pool bound to baseLoop. numThreads workers are spawned
// by Start; numThreads == 0 keeps every connection on baseLoop.
func New(baseLoop *eventloop.EventLoop, name string, numThreads int, reg prometheus.Registerer) *Pool {
	return &Pool{
		baseLoop:   baseLoop,
		clock:      baseLoop.Clock(),
		name:       name,
		numThreads: numThreads,
		byName:     make(map[string]*eventloop.EventLoop),
		ring:       hashring.New(hashRingReplicas, nil),
		metrics:    newMetrics("reactor", "pool", reg),
	}
}

// Start spawns numThreads worker loops, running cb on each worker's own
// goroutine right after its EventLoop is constructed. With numThreads ==
// 0 it runs cb on baseLoop directly instead, matching muduo's
// single-threaded fallback.
func (p *Pool) Start(cb ThreadInitCallback) error {
	p.started = true

	for i := 0; i < p.numThreads; i++ {
		workerName := fmt.Sprintf("%s%d", p.name, i)

		start := time.Now()
		th := newEventLoopThread(p.clock, cb)
		loop, err := th.startLoop()
		if err != nil {
			return err
		}
		p.metrics.loopStartSec.Observe(time.Since(start).Seconds())

		p.threads = append(p.threads, th)
		p.loops = append(p.loops, loop)
		p.byName[workerName] = loop
		p.ring.AddNode(workerName)
	}

	p.metrics.workerLoops.Set(float64(len(p.loops)))

	if p.numThreads == 0 && cb != nil {
		cb(p.baseLoop)
	}

	return nil
}

// GetNextLoop picks the worker loop key consistently hashes to. With no
// workers configured it always returns the base loop.
func (p *Pool) GetNextLoop(key string) *eventloop.EventLoop {
	if p.numThreads == 0 {
		return p.baseLoop
	}

	node, err := p.ring.GetNode(key)
	if err != nil {
		return p.baseLoop
	}

	loop := p.byName[node]
	p.metrics.assignments.WithLabelValues(node).Inc()
	return loop
}

// GetAllLoops returns every worker loop, or just the base loop if the
// pool was never started with any workers.
func (p *Pool) GetAllLoops() []*eventloop.EventLoop {
	if len(p.loops) == 0 {
		return []*eventloop.EventLoop{p.baseLoop}
	}
	out := make([]*eventloop.EventLoop, len(p.loops))
	copy(out, p.loops)
	return out
}

// Started reports whether Start has been called.
func (p *Pool) Started() bool { return p.started }

// Name returns the pool's configured name prefix.
func (p *Pool) Name() string { return p.name }

// Stop asks every worker loop to quit and waits for its goroutine to
// exit Loop(). The base loop is not touched — its owner stops it.
func (p *Pool) Stop() {
	for _, th := range p.threads {
		th.stop()
	}
	p.metrics.workerLoops.Set(0)
}
