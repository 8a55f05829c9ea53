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

// Package pathtrie implements a generic prefix tree over normalized URL
// paths. It matches literal, named-parameter (":name"), single-segment
// wildcard ("*"), and tail-wildcard ("**") patterns against a requested
// path with deterministic precedence (literal, then Param, then
// Wildcard, then Tail) and backtracking when a deeper match fails.
//
// PathTrie also doubles as the value-mapping mechanism used by
// hierarchical middleware composition: a map function installed at a
// node with Use is applied, on every lookup that passes through that
// node, from root to leaf (parent wraps child).
package pathtrie
