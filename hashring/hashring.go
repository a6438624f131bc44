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

// Package hashring implements a consistent-hash ring with virtual replica
// nodes, used by an EventLoopThreadPool to pin a connection key to the same
// worker loop across the pool's lifetime, minimizing reassignment when a
// loop is added or removed.
package hashring

import (
	"sort"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// HashFunc computes the ring position for an arbitrary key string.
type HashFunc func(key string) uint64

func defaultHashFunc(key string) uint64 {
	return xxhash.Sum64String(key)
}

// Ring is a consistent-hash ring over string node names. It is safe for
// concurrent use.
type Ring struct {
	mu          sync.RWMutex
	numReplicas int
	hashFunc    HashFunc
	ring        map[uint64]string
	sorted      []uint64
}

// ErrEmptyRing is returned by GetNode when no node has been added yet.
type ErrEmptyRing struct{}

func (ErrEmptyRing) Error() string { return "hash ring is empty" }

// New returns a Ring with numReplicas virtual nodes per physical node. A
// nil hashFunc defaults to xxhash.
func New(numReplicas int, hashFunc HashFunc) *Ring {
	if hashFunc == nil {
		hashFunc = defaultHashFunc
	}
	return &Ring{
		numReplicas: numReplicas,
		hashFunc:    hashFunc,
		ring:        make(map[uint64]string),
	}
}

// AddNode maps numReplicas virtual points for node onto the ring.
func (r *Ring) AddNode(node string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; i < r.numReplicas; i++ {
		h := r.hashFunc(node + "_" + strconv.Itoa(i))
		r.ring[h] = node
		r.sorted = append(r.sorted, h)
	}
	sort.Slice(r.sorted, func(i, j int) bool { return r.sorted[i] < r.sorted[j] })
}

// RemoveNode unmaps node's virtual points from the ring.
func (r *Ring) RemoveNode(node string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; i < r.numReplicas; i++ {
		h := r.hashFunc(node + "_" + strconv.Itoa(i))
		delete(r.ring, h)

		for idx, v := range r.sorted {
			if v == h {
				r.sorted = append(r.sorted[:idx], r.sorted[idx+1:]...)
				break
			}
		}
	}
}

// GetNode returns the node owning key: the first virtual point strictly
// greater than key's hash, wrapping around to the ring's first point. Returns
// ErrEmptyRing if no node has been added.
func (r *Ring) GetNode(key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.sorted) == 0 {
		return "", ErrEmptyRing{}
	}

	h := r.hashFunc(key)
	idx := sort.Search(len(r.sorted), func(i int) bool { return r.sorted[i] > h })

	if idx == len(r.sorted) {
		return r.ring[r.sorted[0]], nil
	}
	return r.ring[r.sorted[idx]], nil
}

// Len returns the number of virtual points currently on the ring.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sorted)
}
