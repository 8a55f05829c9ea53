// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package relic

import "sync"

// contextPool recycles *NewContext values across requests. Adapters on
// the hot path should prefer AcquireContext/ReleaseContext over
// NewRequestContext/Dispose to avoid an allocation per request.
var contextPool = sync.Pool{
	New: func() any { return &NewContext{} },
}

// AcquireContext takes a *NewContext from the pool (allocating one if
// the pool is empty), minting a fresh token and property store for
// req.
func AcquireContext(req *Request) *NewContext {
	c, ok := contextPool.Get().(*NewContext)
	if !ok {
		// Only reachable if something outside this package put a
		// mismatched type into contextPool, which nothing in this
		// package's API allows.
		panic("relic: pool corruption - contextPool returned non-*NewContext value")
	}
	c.tok = new(token)
	c.req = req
	c.props = newPropertyStore()
	return c
}

// ReleaseContext disposes c's property store and returns c to the pool.
// Callers must not touch c, or anything derived from it, afterward.
func ReleaseContext(c *NewContext) {
	if c == nil {
		return
	}
	Dispose(c)
	c.tok = nil
	c.req = nil
	c.props = nil
	contextPool.Put(c)
}
