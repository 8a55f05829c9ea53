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

package middleware

import (
	"github.com/google/uuid"

	relic "github.com/relic-http/relic"
)

// RequestIDOption defines functional options for RequestID middleware configuration.
type RequestIDOption func(*requestIDConfig)

// requestIDConfig holds the configuration for the RequestID middleware.
type requestIDConfig struct {
	headerName    string
	generator     func() string
	allowClientID bool
}

func defaultRequestIDConfig() *requestIDConfig {
	return &requestIDConfig{
		headerName:    "X-Request-ID",
		generator:     generateUUID,
		allowClientID: true,
	}
}

func generateUUID() string {
	return uuid.New().String()
}

// WithRequestIDHeader sets the header name for the request ID.
// Default: "X-Request-ID".
func WithRequestIDHeader(headerName string) RequestIDOption {
	return func(cfg *requestIDConfig) { cfg.headerName = headerName }
}

// WithRequestIDGenerator sets a custom function to generate request IDs.
//
// Example with UUID:
//
//	import "github.com/google/uuid"
//
//	middleware.RequestID(middleware.WithRequestIDGenerator(func() string {
//	    return uuid.New().String()
//	}))
func WithRequestIDGenerator(generator func() string) RequestIDOption {
	return func(cfg *requestIDConfig) { cfg.generator = generator }
}

// WithAllowClientID controls whether to accept a request ID the client
// supplied in the configured header. Default: true.
func WithAllowClientID(allow bool) RequestIDOption {
	return func(cfg *requestIDConfig) { cfg.allowClientID = allow }
}

// RequestID returns a middleware that assigns a unique ID to every
// request, stores it as a context property for Logger and handlers to
// read, and echoes it back in the response header.
func RequestID(opts ...RequestIDOption) relic.Middleware {
	cfg := defaultRequestIDConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next relic.Handler) relic.Handler {
		return func(c *relic.NewContext) relic.HandledContext {
			var requestID string
			if cfg.allowClientID {
				requestID = c.Request().Headers.Get(cfg.headerName)
			}
			if requestID == "" {
				requestID = cfg.generator()
			}
			RequestIDProperty.Set(c, requestID)

			hc := next(c)
			rc, ok := hc.(*relic.ResponseContext)
			if !ok {
				return hc
			}
			return rc.Transform(func(r relic.Response) relic.Response {
				return r.WithHeader(cfg.headerName, requestID)
			})
		}
	}
}

// GetRequestID retrieves the request ID RequestID assigned to c's
// request, or "" if the middleware was never installed.
func GetRequestID(c relic.RequestContext) string {
	id, _ := RequestIDProperty.Get(c)
	return id
}
