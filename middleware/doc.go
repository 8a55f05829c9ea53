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

/*
Package middleware provides production-ready relic.Middleware values:
Recovery, Logger, RequestID, Timeout, Compression, and CORS.

Each constructor follows the same functional-options shape as the core
router package and returns a relic.Middleware, so it composes with
Pipeline or Router.Use:

	r := relic.MustNewRouter[relic.Handler]()
	r.Use("/", func(h relic.Handler) relic.Handler {
	    return middleware.Recovery()(middleware.RequestID()(middleware.Logger()(h)))
	})

or, more idiomatically, through a Pipeline:

	pipeline := relic.NewPipeline(
	    middleware.Recovery(),
	    middleware.RequestID(),
	    middleware.Logger(),
	    middleware.CORS(middleware.WithAllowedOrigins([]string{"https://example.com"})),
	)
	handler := pipeline.Then(appHandler)

# Recommended ordering

 1. Recovery    - catch panics from everything downstream
 2. RequestID   - mint an ID early so every later log line can carry it
 3. Logger      - measure latency across the full downstream chain
 4. CORS        - answer preflights and annotate cross-origin responses
 5. Timeout     - bound how long the remaining chain may run
 6. Compression - compress whatever the handler ultimately produces

# Context values

RequestID and Timeout publish values through relic.ContextProperty
rather than net/http's request context, since relic.Request carries no
context.Context of its own. Use GetRequestID and DeadlineFrom to read
them back.
*/
package middleware
