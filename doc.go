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

// Package relic is a transport-independent HTTP server core: a
// generic prefix-tree router (package pathtrie), an immutable
// request/response model, and a closed-sum-type RequestContext that
// statically forces every Handler to either respond, hijack the
// connection, or upgrade it to a websocket.
//
// # Subsystems
//
//   - pathtrie: the generic routing trie, with literal, param (:name),
//     wildcard (*), and tail (**) segments, matched with strict
//     precedence and full backtracking.
//   - Router[T]/Group[T] (this package): a (method, path) keyed layer
//     over a PathTrie, supporting hierarchical middleware composition,
//     named routes, and copy-on-write hot reconfiguration.
//   - RequestContext (this package): the NewContext -> {ResponseContext,
//     HijackContext, ConnectContext} state machine every request flows
//     through.
//   - static: StaticHandler, serving a filesystem with conditional
//     requests, byte ranges, content sniffing, and cache-busted URLs.
//   - nethttp: the net/http (and h2c) adapter that drives the core
//     against a real listener.
//
// The core package never imports net/http for its request model: an
// Adapter translates a concrete transport into a Request and turns a
// Response back into wire bytes, so the routing and middleware layers
// stay transport-agnostic.
package relic
