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
	"strings"

	"github.com/relic-http/relic/pathtrie"
)

// Handler processes a request to completion. Its return type,
// HandledContext, statically guarantees every code path calls Respond,
// Hijack, or Connect: there is no way to write a Handler that silently
// drops a request.
type Handler func(*NewContext) HandledContext

// Middleware wraps a Handler to produce another Handler. Router.Use
// installs a Middleware at a trie node; composition order follows the
// trie depth (outermost middleware is the one installed closest to
// the root), matching the parent-wraps-child rule used for PathTrie's
// own value-transform composition.
type Middleware func(Handler) Handler

// Pipeline is an ordered, immutable chain of Middleware. Appending
// returns a new Pipeline rather than mutating the receiver, consistent
// with the rest of the library's copy-on-write posture.
type Pipeline struct {
	mws []Middleware
}

// NewPipeline builds a Pipeline from mws, applied outermost-first.
func NewPipeline(mws ...Middleware) Pipeline {
	cp := make([]Middleware, len(mws))
	copy(cp, mws)
	return Pipeline{mws: cp}
}

// Append returns a new Pipeline with mws appended after the receiver's
// existing chain.
func (p Pipeline) Append(mws ...Middleware) Pipeline {
	cp := make([]Middleware, len(p.mws)+len(mws))
	copy(cp, p.mws)
	copy(cp[len(p.mws):], mws)
	return Pipeline{mws: cp}
}

// Then wraps final with every middleware in the pipeline, outermost
// first, and returns the composed Handler.
func (p Pipeline) Then(final Handler) Handler {
	h := final
	for i := len(p.mws) - 1; i >= 0; i-- {
		h = p.mws[i](h)
	}
	return h
}

// Responder is a simpler handler shape for code that only ever
// produces a response and never hijacks or upgrades a connection.
type Responder func(*Request) Response

// AdaptResponder lifts a Responder into a Handler.
func AdaptResponder(fn Responder) Handler {
	return func(c *NewContext) HandledContext {
		return c.Respond(fn(c.Request()))
	}
}

// Params is the context property carrying the path parameters bound
// by the route that matched the current request.
var Params = NewContextProperty[map[string]string]("relic.params")

// AllowedMethods is the context property carrying the method list a
// MethodMiss response was built from, available to middleware that
// wants to customize the 405 body.
var AllowedMethods = NewContextProperty[[]Method]("relic.allowed-methods")

// RoutePattern is the context property carrying the normalized prefix
// of the request path that the matched route consumed, with actual
// parameter values in place (a request for /users/42 matched by
// /users/:id yields "/users/42", not the pattern); any tail remainder
// is excluded. It is low-cardinality only for routes without dynamic
// segments.
var RoutePattern = NewContextProperty[string]("relic.route-pattern")

// RouteWith builds a Handler that dispatches through router: on a
// Match, it binds path parameters into the context and invokes the
// matched Handler; on a MethodMiss, it responds 405 with Allow; on a
// PathMiss, it falls through to notFound. This is the usual way to
// turn a configured *Router[Handler] into something an adapter (such
// as nethttp.Adapter) can actually serve.
func RouteWith(router *Router[Handler], notFound Handler) Handler {
	return func(c *NewContext) HandledContext {
		req := c.Request()
		routingPath := req.URL.Path
		if router.VirtualHostingEnabled() {
			routingPath = "/" + strings.ToLower(req.ConnectionInfo.Host) + routingPath
		}
		path := pathtrie.NormalizeInterned(routingPath)
		result := router.Lookup(req.Method, path)
		switch result.Kind {
		case MatchResult:
			Params.Set(c, result.Parameters)
			RoutePattern.Set(c, result.Matched.String())
			remainingU := *req.URL
			remainingU.Path = result.Remaining.String()
			next := c.WithRequest(req.WithURL(&remainingU))
			return result.Value(next)
		case MethodMissResult:
			AllowedMethods.Set(c, result.AllowedMethods)
			return c.Respond(MethodNotAllowed(result.AllowedMethods))
		default:
			return notFound(c)
		}
	}
}
