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
	"context"
	"time"

	relic "github.com/relic-http/relic"
)

// TimeoutOption defines functional options for Timeout middleware configuration.
type TimeoutOption func(*timeoutConfig)

// timeoutConfig holds the configuration for the Timeout middleware.
type timeoutConfig struct {
	timeout      time.Duration
	errorHandler func(c *relic.NewContext) relic.HandledContext
	skipPaths    map[string]bool
}

func defaultTimeoutConfig(timeout time.Duration) *timeoutConfig {
	return &timeoutConfig{
		timeout:      timeout,
		errorHandler: defaultTimeoutHandler,
		skipPaths:    make(map[string]bool),
	}
}

func defaultTimeoutHandler(c *relic.NewContext) relic.HandledContext {
	return c.Respond(relic.BadRequest("Request Timeout").WithStatus(408))
}

// WithTimeoutHandler sets a custom handler invoked when a request
// exceeds the timeout.
func WithTimeoutHandler(handler func(c *relic.NewContext) relic.HandledContext) TimeoutOption {
	return func(cfg *timeoutConfig) { cfg.errorHandler = handler }
}

// WithTimeoutSkipPaths sets paths that should not have a timeout
// applied, useful for long-running endpoints like streaming or webhooks.
func WithTimeoutSkipPaths(paths []string) TimeoutOption {
	return func(cfg *timeoutConfig) {
		for _, path := range paths {
			cfg.skipPaths[path] = true
		}
	}
}

// Timeout returns a middleware that bounds how long the downstream
// handler may run. It derives a context.Context with a deadline,
// publishes it via DeadlineProperty for handlers that perform
// cancellable I/O, and runs the handler chain in its own goroutine so a
// timeout can still produce a response even if the handler never
// observes the deadline.
//
// Important: a handler that ignores DeadlineProperty keeps running
// after Timeout responds; this is a limitation of bounding arbitrary
// Go code with a context rather than a true preemption mechanism.
func Timeout(timeout time.Duration, opts ...TimeoutOption) relic.Middleware {
	cfg := defaultTimeoutConfig(timeout)
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next relic.Handler) relic.Handler {
		return func(c *relic.NewContext) relic.HandledContext {
			if cfg.skipPaths[c.Request().URL.Path] {
				return next(c)
			}

			ctx, cancel := context.WithTimeout(context.Background(), cfg.timeout)
			defer cancel()
			DeadlineProperty.Set(c, ctx)

			done := make(chan relic.HandledContext, 1)
			go func() { done <- next(c) }()

			select {
			case hc := <-done:
				return hc
			case <-ctx.Done():
				return cfg.errorHandler(c)
			}
		}
	}
}

// DeadlineFrom returns the context.Context Timeout derived for c's
// request, if Timeout was installed upstream.
func DeadlineFrom(c relic.RequestContext) (context.Context, bool) {
	return DeadlineProperty.Get(c)
}
