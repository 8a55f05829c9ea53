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
	"log"
	"runtime/debug"

	relic "github.com/relic-http/relic"
)

// RecoveryOption defines functional options for Recovery middleware configuration.
type RecoveryOption func(*recoveryConfig)

// recoveryConfig holds the configuration for the Recovery middleware.
type recoveryConfig struct {
	// stackTrace enables/disables printing stack traces on panic
	stackTrace bool

	// stackSize sets the maximum size of the stack trace in bytes
	stackSize int

	// logger is the custom logger function for panic messages
	logger func(c *relic.NewContext, err any, stack []byte)

	// handler builds the response sent back after a recovered panic
	handler func(c *relic.NewContext, err any) relic.HandledContext
}

// defaultRecoveryConfig returns the default configuration for Recovery middleware.
func defaultRecoveryConfig() *recoveryConfig {
	return &recoveryConfig{
		stackTrace: true,
		stackSize:  4 << 10, // 4KB
		logger:     defaultRecoveryLogger,
		handler:    defaultRecoveryHandler,
	}
}

// defaultRecoveryLogger logs panic information with stack trace.
func defaultRecoveryLogger(c *relic.NewContext, err any, stack []byte) {
	log.Printf("[Recovery] panic recovered:\n%v\n%s", err, stack)
}

// defaultRecoveryHandler sends a 500 Internal Server Error response.
func defaultRecoveryHandler(c *relic.NewContext, err any) relic.HandledContext {
	return c.Respond(relic.InternalServerError())
}

// WithStackTrace enables or disables stack trace printing.
// Default: true
func WithStackTrace(enabled bool) RecoveryOption {
	return func(cfg *recoveryConfig) {
		cfg.stackTrace = enabled
	}
}

// WithStackSize sets the maximum size of the stack trace buffer in bytes.
// Default: 4KB (4 << 10)
func WithStackSize(size int) RecoveryOption {
	return func(cfg *recoveryConfig) {
		cfg.stackSize = size
	}
}

// WithRecoveryLogger sets a custom logger function for panic messages.
func WithRecoveryLogger(logger func(c *relic.NewContext, err any, stack []byte)) RecoveryOption {
	return func(cfg *recoveryConfig) {
		cfg.logger = logger
	}
}

// WithRecoveryHandler sets a custom handler that builds the response
// sent after a recovered panic.
func WithRecoveryHandler(handler func(c *relic.NewContext, err any) relic.HandledContext) RecoveryOption {
	return func(cfg *recoveryConfig) {
		cfg.handler = handler
	}
}

// Recovery returns a middleware that recovers from panics in request
// handlers. It logs the panic, optionally with a stack trace, and
// produces a 500 response instead of letting the panic reach the
// adapter.
//
// This middleware should typically be installed first (or early) so it
// can catch panics from every other middleware downstream of it.
func Recovery(opts ...RecoveryOption) relic.Middleware {
	cfg := defaultRecoveryConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next relic.Handler) relic.Handler {
		return func(c *relic.NewContext) (hc relic.HandledContext) {
			defer func() {
				if err := recover(); err != nil {
					var stack []byte
					if cfg.stackTrace {
						full := debug.Stack()
						if len(full) > cfg.stackSize {
							stack = full[:cfg.stackSize]
						} else {
							stack = full
						}
					}
					if cfg.logger != nil {
						cfg.logger(c, err, stack)
					}
					hc = cfg.handler(c, err)
				}
			}()
			return next(c)
		}
	}
}
