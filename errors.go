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

import "errors"

// Static errors for better error handling and testing.
// These errors should be wrapped with fmt.Errorf and %w when context is needed.
var (
	// Context/state-machine errors. These are programmer errors per the
	// RequestContext transition rules (§4.4): they fail eagerly rather
	// than propagating as responses.
	ErrAlreadyTerminal   = errors.New("relic: context is already in a terminal state")
	ErrInvalidTransition = errors.New("relic: invalid request-context transition")

	// Body errors.
	ErrBodyAlreadyConsumed = errors.New("relic: request body already consumed")
	ErrBodyTooLarge        = errors.New("relic: request body exceeds the configured maximum length")

	// Router configuration errors.
	ErrBloomFilterSizeZero       = errors.New("relic: bloom filter size must be non-zero")
	ErrBloomHashFunctionsInvalid = errors.New("relic: bloom hash functions must be positive")
	ErrNilLogger                 = errors.New("relic: logger must not be nil")

	// Route registration errors.
	ErrMethodAlreadyRegistered = errors.New("relic: method already registered for this pattern")
	ErrUnknownMethod           = errors.New("relic: unknown HTTP method")
	ErrRouteNameTaken          = errors.New("relic: route name already registered")
	ErrRouteNameNotFound       = errors.New("relic: no route registered under this name")
	ErrMissingURLParameter     = errors.New("relic: missing parameter required to render this route's URL")

	// Adapter/hijack errors.
	ErrResponseWriterNotHijacker = errors.New("relic: response writer does not support hijacking")

	// Response construction errors.
	ErrResponseSealed = errors.New("relic: response headers are sealed and cannot be mutated")
)
