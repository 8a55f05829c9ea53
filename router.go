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

import (
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/relic-http/relic/pathtrie"
)

// methodSlots is the fixed-size array of values stored at each trie
// node, one slot per Method, mirroring the teacher's approach of
// indexing a small fixed array by a method enum rather than keying a
// second map per node.
type methodSlots[T any] [methodCount]*T

// LookupKind discriminates a Router lookup outcome.
type LookupKind int

const (
	MatchResult LookupKind = iota
	PathMissResult
	MethodMissResult
)

// LookupResult is the sum-typed outcome of Router.Lookup.
type LookupResult[T any] struct {
	Kind           LookupKind
	Value          T
	Parameters     map[string]string
	Matched        pathtrie.NormalizedPath
	Remaining      pathtrie.NormalizedPath
	AllowedMethods []Method
}

// Router layers a (Method, path) keyed map over a PathTrie. Route
// registration is recorded as a list of replayable steps so that
// Reconfigure can rebuild a fresh trie from scratch and swap it in
// atomically, without disturbing in-flight requests still holding a
// reference to the previous snapshot (copy-on-write, grounded on the
// teacher's atomicRouteTree in router.go).
type Router[T any] struct {
	treeRef atomic.Pointer[pathtrie.PathTrie[methodSlots[T]]]

	mu    sync.Mutex
	steps []func(*pathtrie.PathTrie[methodSlots[T]]) error

	namedMu sync.RWMutex
	named   map[string]string

	logger         *slog.Logger
	timeouts       serverTimeouts
	h2c            bool
	virtualHosting bool
	recorder       ObservabilityRecorder
}

// NewRouter constructs an empty Router.
func NewRouter[T any](opts ...RouterOption[T]) (*Router[T], error) {
	r := &Router[T]{named: make(map[string]string)}
	r.treeRef.Store(pathtrie.New[methodSlots[T]]())
	cfg := routerConfig{logger: slog.Default(), serverTimeouts: defaultServerTimeouts(), recorder: noopRecorder{}}
	for _, opt := range opts {
		if err := opt.apply(r, &cfg); err != nil {
			return nil, err
		}
	}
	r.logger = cfg.logger
	r.timeouts = cfg.serverTimeouts
	r.h2c = cfg.enableH2C
	r.virtualHosting = cfg.virtualHosting
	r.recorder = cfg.recorder
	return r, nil
}

// MustNewRouter is NewRouter but panics on error, for call sites that
// only ever pass statically-valid options.
func MustNewRouter[T any](opts ...RouterOption[T]) *Router[T] {
	r, err := NewRouter[T](opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Router[T]) currentTrie() *pathtrie.PathTrie[methodSlots[T]] {
	return r.treeRef.Load()
}

// record applies step to the live trie immediately and, on success,
// appends it to the replay log used by Reconfigure.
func (r *Router[T]) record(step func(*pathtrie.PathTrie[methodSlots[T]]) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := step(r.currentTrie()); err != nil {
		return err
	}
	r.steps = append(r.steps, step)
	return nil
}

// Reconfigure rebuilds a fresh trie by replaying every recorded
// configuration step, then atomically swaps it into serving position.
// Requests already in flight keep using the trie snapshot they loaded
// at the start of their lookup.
func (r *Router[T]) Reconfigure() error {
	r.mu.Lock()
	steps := make([]func(*pathtrie.PathTrie[methodSlots[T]]) error, len(r.steps))
	copy(steps, r.steps)
	r.mu.Unlock()

	fresh := pathtrie.New[methodSlots[T]]()
	for _, step := range steps {
		if err := step(fresh); err != nil {
			return err
		}
	}
	r.treeRef.Store(fresh)
	return nil
}

// Add registers value for (method, pattern), failing if that method is
// already registered at this exact pattern.
func (r *Router[T]) Add(method Method, pattern string, value T) error {
	step := func(tr *pathtrie.PathTrie[methodSlots[T]]) error {
		var slotErr error
		_, err := tr.AddOrUpdateInPlace(pattern, func(old methodSlots[T], existed bool) methodSlots[T] {
			if !existed {
				old = methodSlots[T]{}
			}
			if old[method] != nil {
				slotErr = ErrMethodAlreadyRegistered
				return old
			}
			v := value
			old[method] = &v
			return old
		})
		if err != nil {
			return err
		}
		return slotErr
	}
	return r.record(step)
}

// AnyOf registers value for every method in methods at pattern.
func (r *Router[T]) AnyOf(methods []Method, pattern string, value T) error {
	for _, m := range methods {
		if err := r.Add(m, pattern, value); err != nil {
			return err
		}
	}
	return nil
}

var allMethods = []Method{GET, HEAD, POST, PUT, DELETE, PATCH, OPTIONS, TRACE, CONNECT}

// Any registers value for every HTTP method at pattern.
func (r *Router[T]) Any(pattern string, value T) error {
	return r.AnyOf(allMethods, pattern, value)
}

func (r *Router[T]) Get(pattern string, value T) error     { return r.Add(GET, pattern, value) }
func (r *Router[T]) Head(pattern string, value T) error    { return r.Add(HEAD, pattern, value) }
func (r *Router[T]) Post(pattern string, value T) error    { return r.Add(POST, pattern, value) }
func (r *Router[T]) Put(pattern string, value T) error     { return r.Add(PUT, pattern, value) }
func (r *Router[T]) Delete(pattern string, value T) error  { return r.Add(DELETE, pattern, value) }
func (r *Router[T]) Patch(pattern string, value T) error   { return r.Add(PATCH, pattern, value) }
func (r *Router[T]) Options(pattern string, value T) error { return r.Add(OPTIONS, pattern, value) }
func (r *Router[T]) Trace(pattern string, value T) error   { return r.Add(TRACE, pattern, value) }
func (r *Router[T]) Connect(pattern string, value T) error { return r.Add(CONNECT, pattern, value) }

// Use installs wrap at pattern's node; it is applied, composed from
// root to leaf, to every method slot reachable under that node on
// every subsequent lookup. This is the mechanism that gives middleware
// its hierarchical, trie-depth-ordered wrapping semantics (§4.5).
func (r *Router[T]) Use(pattern string, wrap func(T) T) error {
	step := func(tr *pathtrie.PathTrie[methodSlots[T]]) error {
		return tr.Use(pattern, func(slots methodSlots[T]) methodSlots[T] {
			for i, s := range slots {
				if s != nil {
					v := wrap(*s)
					slots[i] = &v
				}
			}
			return slots
		})
	}
	return r.record(step)
}

// Attach grafts sub's current route tree onto this router at pattern,
// preserving sub's per-method registrations.
func (r *Router[T]) Attach(pattern string, sub *Router[T]) error {
	step := func(tr *pathtrie.PathTrie[methodSlots[T]]) error {
		return tr.Attach(pattern, sub.currentTrie(), false)
	}
	return r.record(step)
}

// Lookup resolves (method, path) to a Match, MethodMiss, or PathMiss.
func (r *Router[T]) Lookup(method Method, path pathtrie.NormalizedPath) LookupResult[T] {
	m, ok := r.currentTrie().Lookup(path)
	if !ok {
		return LookupResult[T]{Kind: PathMissResult}
	}
	if slot := m.Value[method]; slot != nil {
		return LookupResult[T]{
			Kind:       MatchResult,
			Value:      *slot,
			Parameters: m.Parameters,
			Matched:    m.Matched,
			Remaining:  m.Remaining,
		}
	}
	var allowed []Method
	for i, s := range m.Value {
		if s != nil {
			allowed = append(allowed, Method(i))
		}
	}
	return LookupResult[T]{Kind: MethodMissResult, AllowedMethods: allowed}
}

// Group creates a new, empty sub-router attached at prefix and returns
// a handle for registering routes and middleware scoped to it.
func (r *Router[T]) Group(prefix string) (*Group[T], error) {
	sub, err := NewRouter[T]()
	if err != nil {
		return nil, err
	}
	if err := r.Attach(prefix, sub); err != nil {
		return nil, err
	}
	return &Group[T]{router: sub, prefix: prefix}, nil
}

// Group is a named handle onto a sub-router attached within a parent
// Router, scoping further registrations under its prefix.
type Group[T any] struct {
	router *Router[T]
	prefix string
}

func (g *Group[T]) Add(method Method, pattern string, value T) error {
	return g.router.Add(method, pattern, value)
}
func (g *Group[T]) Get(pattern string, value T) error    { return g.router.Get(pattern, value) }
func (g *Group[T]) Post(pattern string, value T) error   { return g.router.Post(pattern, value) }
func (g *Group[T]) Put(pattern string, value T) error    { return g.router.Put(pattern, value) }
func (g *Group[T]) Delete(pattern string, value T) error { return g.router.Delete(pattern, value) }
func (g *Group[T]) Patch(pattern string, value T) error  { return g.router.Patch(pattern, value) }
func (g *Group[T]) Use(pattern string, wrap func(T) T) error {
	return g.router.Use(pattern, wrap)
}
func (g *Group[T]) Group(prefix string) (*Group[T], error) { return g.router.Group(prefix) }

// Name records pattern under name for later URLFor rendering.
func (r *Router[T]) Name(pattern, name string) error {
	r.namedMu.Lock()
	defer r.namedMu.Unlock()
	if _, exists := r.named[name]; exists {
		return ErrRouteNameTaken
	}
	r.named[name] = pattern
	return nil
}

// URLFor renders the URL for a named route, substituting params into
// its Param segments. Wildcard/Tail segments are not renderable and
// are left as-is; callers that need them should build the path by
// hand instead.
func (r *Router[T]) URLFor(name string, params map[string]string) (string, error) {
	r.namedMu.RLock()
	pattern, ok := r.named[name]
	r.namedMu.RUnlock()
	if !ok {
		return "", ErrRouteNameNotFound
	}
	segs := strings.Split(pattern, "/")
	for i, s := range segs {
		if strings.HasPrefix(s, ":") {
			key := s[1:]
			v, ok := params[key]
			if !ok {
				return "", ErrMissingURLParameter
			}
			segs[i] = v
		}
	}
	return strings.Join(segs, "/"), nil
}

// Logger returns the router's configured logger.
func (r *Router[T]) Logger() *slog.Logger { return r.logger }
