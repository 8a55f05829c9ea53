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

package pathtrie

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// NormalizedPath is the canonical representation of a URL path: leading
// "/", no trailing "/" (except the root path itself), empty segments
// collapsed, "." dropped, and ".." popping the previous segment (a ".."
// at the root is silently discarded). Equality and hashing are defined
// structurally over the segment sequence, not the rendered string.
type NormalizedPath struct {
	segments []string
}

// Normalize parses a raw path into its canonical form. It never
// consults the interning cache; use Interner.Normalize for that.
func Normalize(raw string) NormalizedPath {
	parts := strings.Split(raw, "/")
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		switch p {
		case "", ".":
			continue
		case "..":
			if len(segs) > 0 {
				segs = segs[:len(segs)-1]
			}
		default:
			segs = append(segs, p)
		}
	}
	return NormalizedPath{segments: segs}
}

// FromSegments builds a NormalizedPath directly from an already-split,
// already-normalized segment slice. The slice is copied defensively.
func FromSegments(segments []string) NormalizedPath {
	cp := make([]string, len(segments))
	copy(cp, segments)
	return NormalizedPath{segments: cp}
}

// Segments returns the ordered, non-empty segment list. The returned
// slice must not be mutated by the caller.
func (p NormalizedPath) Segments() []string { return p.segments }

// Len reports the number of segments.
func (p NormalizedPath) Len() int { return len(p.segments) }

// SubPath returns the slice of segments in [start, end) as a new
// NormalizedPath. A negative or omitted end means "to the end".
func (p NormalizedPath) SubPath(start, end int) NormalizedPath {
	if end < 0 || end > len(p.segments) {
		end = len(p.segments)
	}
	if start < 0 {
		start = 0
	}
	if start > end {
		start = end
	}
	return FromSegments(p.segments[start:end])
}

// Equal reports whether two normalized paths have the same segment
// sequence.
func (p NormalizedPath) Equal(other NormalizedPath) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i, s := range p.segments {
		if s != other.segments[i] {
			return false
		}
	}
	return true
}

// Hash derives a stable hash from the segment sequence, suitable for
// use as a map key alongside String when exact structural identity
// isn't required.
func (p NormalizedPath) Hash() uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211
	h := uint64(offset64)
	for _, s := range p.segments {
		for i := 0; i < len(s); i++ {
			h ^= uint64(s[i])
			h *= prime64
		}
		h ^= '/'
		h *= prime64
	}
	return h
}

// String renders the canonical form, always beginning with "/".
func (p NormalizedPath) String() string {
	if len(p.segments) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, s := range p.segments {
		b.WriteByte('/')
		b.WriteString(s)
	}
	return b.String()
}

// IsRoot reports whether the path has no segments.
func (p NormalizedPath) IsRoot() bool { return len(p.segments) == 0 }

// Interner memoizes Normalize results behind an LRU so that repeated
// requests for the same raw path usually observe a shared
// representation. Interning is a performance optimization only:
// equality remains structural and never depends on having gone through
// an Interner. The default capacity mirrors the teacher's bloom-filter
// / cache sizing convention of picking a modest fixed default; other
// capacities are chosen by passing them to NewInterner.
type Interner struct {
	cache *lru.Cache[string, NormalizedPath]
}

// DefaultInternerCapacity is the capacity of the process-global
// interner behind NormalizeInterned.
const DefaultInternerCapacity = 4096

// NewInterner creates an Interner with the given capacity. A capacity
// of zero or less disables caching (every call re-parses).
func NewInterner(capacity int) *Interner {
	if capacity <= 0 {
		return &Interner{}
	}
	c, err := lru.New[string, NormalizedPath](capacity)
	if err != nil {
		// Only returned by golang-lru when capacity <= 0, already guarded above.
		return &Interner{}
	}
	return &Interner{cache: c}
}

// Normalize returns the canonical form of raw, consulting and
// populating the interning cache.
func (n *Interner) Normalize(raw string) NormalizedPath {
	if n == nil || n.cache == nil {
		return Normalize(raw)
	}
	if cached, ok := n.cache.Get(raw); ok {
		return cached
	}
	np := Normalize(raw)
	n.cache.Add(raw, np)
	return np
}

// Len reports the number of entries currently cached.
func (n *Interner) Len() int {
	if n == nil || n.cache == nil {
		return 0
	}
	return n.cache.Len()
}

var globalInterner = NewInterner(DefaultInternerCapacity)

// NormalizeInterned normalizes raw using the process-global interner.
// The global interner is shared by every caller in the process (relic's
// RouteWith always uses it); a separate per-worker Interner can be
// built with NewInterner.
func NormalizeInterned(raw string) NormalizedPath {
	return globalInterner.Normalize(raw)
}
