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
	"time"
)

// routerConfig accumulates the result of applying RouterOptions before
// a Router is constructed. It is intentionally unexported: callers only
// ever see it through the With* option constructors below.
type routerConfig struct {
	logger         *slog.Logger
	serverTimeouts serverTimeouts
	enableH2C      bool
	virtualHosting bool
	recorder       ObservabilityRecorder
}

type serverTimeouts struct {
	readHeader time.Duration
	read       time.Duration
	write      time.Duration
	idle       time.Duration
}

func defaultServerTimeouts() serverTimeouts {
	return serverTimeouts{
		readHeader: 5 * time.Second,
		read:       15 * time.Second,
		write:      30 * time.Second,
		idle:       60 * time.Second,
	}
}

// RouterOption configures a Router at construction time.
type RouterOption[T any] interface {
	apply(*Router[T], *routerConfig) error
}

type routerOptionFunc[T any] func(*Router[T], *routerConfig) error

func (f routerOptionFunc[T]) apply(r *Router[T], cfg *routerConfig) error { return f(r, cfg) }

// WithLogger sets the structured logger reported by Router.Logger.
// Neither the nethttp adapter nor the middleware package reads it.
func WithLogger[T any](logger *slog.Logger) RouterOption[T] {
	return routerOptionFunc[T](func(_ *Router[T], cfg *routerConfig) error {
		if logger == nil {
			return ErrNilLogger
		}
		cfg.logger = logger
		return nil
	})
}

// WithObservabilityRecorder installs a metrics/tracing collector. When
// not set, a no-op recorder is used and the router carries zero
// observability overhead.
func WithObservabilityRecorder[T any](recorder ObservabilityRecorder) RouterOption[T] {
	return routerOptionFunc[T](func(_ *Router[T], cfg *routerConfig) error {
		cfg.recorder = recorder
		return nil
	})
}

// WithH2C records whether HTTP/2 cleartext support is wanted, reported
// by Router.H2CEnabled. nethttp.Server does not read it; h2c there is
// enabled with its own nethttp.WithH2C option.
//
// Only use in development, or behind a trusted TLS-terminating proxy:
// enabling this on a public-facing listener without TLS accepts
// HTTP/2 connections with no transport security.
func WithH2C[T any](enable bool) RouterOption[T] {
	return routerOptionFunc[T](func(_ *Router[T], cfg *routerConfig) error {
		cfg.enableH2C = enable
		return nil
	})
}

// WithVirtualHosting enables host-based routing: the lowercased Host
// header is treated as an additional leading path segment, so the
// effective routing key becomes "<lowercased-host>/<path>" rather than
// just "<path>". Register per-host routes under that same shape, e.g.
// r.Get("/api.example.com/widgets", ...) to match only requests for
// the api.example.com host.
func WithVirtualHosting[T any](enable bool) RouterOption[T] {
	return routerOptionFunc[T](func(_ *Router[T], cfg *routerConfig) error {
		cfg.virtualHosting = enable
		return nil
	})
}

// WithServerTimeouts records server timeouts, reported by
// Router.ServerTimeouts. Zero arguments keep their default (see
// defaultServerTimeouts). nethttp.Server does not read them; it takes
// its own nethttp.WithTimeouts option.
func WithServerTimeouts[T any](readHeader, read, write, idle time.Duration) RouterOption[T] {
	return routerOptionFunc[T](func(_ *Router[T], cfg *routerConfig) error {
		if readHeader != 0 {
			cfg.serverTimeouts.readHeader = readHeader
		}
		if read != 0 {
			cfg.serverTimeouts.read = read
		}
		if write != 0 {
			cfg.serverTimeouts.write = write
		}
		if idle != 0 {
			cfg.serverTimeouts.idle = idle
		}
		return nil
	})
}

// ServerTimeouts returns the timeouts an adapter should apply when
// serving this router.
func (r *Router[T]) ServerTimeouts() (readHeader, read, write, idle time.Duration) {
	t := r.timeouts
	return t.readHeader, t.read, t.write, t.idle
}

// H2CEnabled reports whether cleartext HTTP/2 was requested.
func (r *Router[T]) H2CEnabled() bool { return r.h2c }

// VirtualHostingEnabled reports whether this router routes on
// "<lowercased-host>/<path>" rather than plain "<path>".
func (r *Router[T]) VirtualHostingEnabled() bool { return r.virtualHosting }

// Recorder returns the router's configured ObservabilityRecorder.
func (r *Router[T]) Recorder() ObservabilityRecorder { return r.recorder }
