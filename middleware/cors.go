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
	"net/http"
	"strconv"
	"strings"

	relic "github.com/relic-http/relic"
)

// CORSOption defines functional options for CORS middleware configuration.
type CORSOption func(*corsConfig)

// corsConfig holds the configuration for the CORS middleware.
type corsConfig struct {
	allowedOrigins   []string
	allowedMethods   []string
	allowedHeaders   []string
	exposedHeaders   []string
	allowCredentials bool
	maxAge           int
	allowAllOrigins  bool
	allowOriginFunc  func(origin string) bool
}

// defaultCORSConfig returns a restrictive default: no origins allowed
// until the caller opts in with WithAllowedOrigins or WithAllowAllOrigins.
func defaultCORSConfig() *corsConfig {
	return &corsConfig{
		allowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		allowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		maxAge:         3600,
	}
}

// WithAllowedOrigins sets the list of allowed origins.
func WithAllowedOrigins(origins []string) CORSOption {
	return func(cfg *corsConfig) {
		cfg.allowedOrigins = origins
		cfg.allowAllOrigins = false
	}
}

// WithAllowAllOrigins allows all origins (Access-Control-Allow-Origin: *).
// Only use this for public APIs.
func WithAllowAllOrigins(allow bool) CORSOption {
	return func(cfg *corsConfig) { cfg.allowAllOrigins = allow }
}

// WithAllowedMethods sets the list of allowed HTTP methods advertised
// in a preflight response.
func WithAllowedMethods(methods []string) CORSOption {
	return func(cfg *corsConfig) { cfg.allowedMethods = methods }
}

// WithAllowedHeaders sets the list of allowed request headers
// advertised in a preflight response.
func WithAllowedHeaders(headers []string) CORSOption {
	return func(cfg *corsConfig) { cfg.allowedHeaders = headers }
}

// WithExposedHeaders sets the list of headers exposed to client-side
// JavaScript on the actual (non-preflight) response.
func WithExposedHeaders(headers []string) CORSOption {
	return func(cfg *corsConfig) { cfg.exposedHeaders = headers }
}

// WithAllowCredentials enables credentials (cookies, Authorization,
// TLS client certs). When true, the allowed origin can never be "*".
func WithAllowCredentials(allow bool) CORSOption {
	return func(cfg *corsConfig) { cfg.allowCredentials = allow }
}

// WithMaxAge sets the preflight cache lifetime, in seconds.
func WithMaxAge(seconds int) CORSOption {
	return func(cfg *corsConfig) { cfg.maxAge = seconds }
}

// WithAllowOriginFunc sets a custom predicate for validating an
// Origin dynamically instead of against a static list.
func WithAllowOriginFunc(fn func(origin string) bool) CORSOption {
	return func(cfg *corsConfig) { cfg.allowOriginFunc = fn }
}

// CORS returns a middleware handling Cross-Origin Resource Sharing: it
// answers preflight OPTIONS requests directly with 204 and annotates
// actual responses with the Access-Control-* headers.
func CORS(opts ...CORSOption) relic.Middleware {
	cfg := defaultCORSConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	allowedMethodsHeader := strings.Join(cfg.allowedMethods, ", ")
	allowedHeadersHeader := strings.Join(cfg.allowedHeaders, ", ")
	exposedHeadersHeader := strings.Join(cfg.exposedHeaders, ", ")
	maxAgeHeader := strconv.Itoa(cfg.maxAge)

	resolveOrigin := func(origin string) string {
		switch {
		case cfg.allowAllOrigins:
			return "*"
		case cfg.allowOriginFunc != nil:
			if cfg.allowOriginFunc(origin) {
				return origin
			}
		default:
			for _, allowed := range cfg.allowedOrigins {
				if origin == allowed {
					return origin
				}
			}
		}
		return ""
	}

	return func(next relic.Handler) relic.Handler {
		return func(c *relic.NewContext) relic.HandledContext {
			req := c.Request()
			origin := req.Headers.Get("Origin")
			if origin == "" {
				return next(c)
			}

			allowedOrigin := resolveOrigin(origin)
			if allowedOrigin == "" {
				return next(c)
			}

			if req.Method == relic.OPTIONS {
				h := relic.NewHeaders()
				setOriginHeaders(&h, cfg, allowedOrigin, origin)
				h.Set("Access-Control-Allow-Methods", allowedMethodsHeader)
				h.Set("Access-Control-Allow-Headers", allowedHeadersHeader)
				h.Set("Access-Control-Max-Age", maxAgeHeader)
				return c.Respond(relic.Response{StatusCode: http.StatusNoContent, Headers: h})
			}

			hc := next(c)
			rc, ok := hc.(*relic.ResponseContext)
			if !ok {
				return hc
			}
			return rc.Transform(func(r relic.Response) relic.Response {
				h := r.Headers.Clone()
				setOriginHeaders(&h, cfg, allowedOrigin, origin)
				if exposedHeadersHeader != "" {
					h.Set("Access-Control-Expose-Headers", exposedHeadersHeader)
				}
				return relic.Response{StatusCode: r.StatusCode, Headers: h, Body: r.Body}
			})
		}
	}
}

func setOriginHeaders(h *relic.Headers, cfg *corsConfig, allowedOrigin, requestOrigin string) {
	h.Set("Access-Control-Allow-Origin", allowedOrigin)
	if cfg.allowCredentials {
		if allowedOrigin == "*" {
			h.Set("Access-Control-Allow-Origin", requestOrigin)
		}
		h.Set("Access-Control-Allow-Credentials", "true")
	}
}
