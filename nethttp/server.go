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

package nethttp

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Server wraps an Adapter with an http.Server, applying the timeouts
// and h2c setting given through its own ServerOptions (WithTimeouts,
// WithH2C).
type Server struct {
	adapter http.Handler
	h2c     bool
	timeouts
	mu  sync.Mutex
	srv *http.Server
}

type timeouts struct {
	readHeader, read, write, idle time.Duration
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithTimeouts sets the listener's read/write/idle timeouts. Omitting
// this option uses conservative defaults sized to resist slowloris-style
// resource exhaustion.
func WithTimeouts(readHeader, read, write, idle time.Duration) ServerOption {
	return func(s *Server) { s.timeouts = timeouts{readHeader, read, write, idle} }
}

// WithH2C enables cleartext HTTP/2. Only safe behind a trusted,
// TLS-terminating proxy or in local development.
func WithH2C(enable bool) ServerOption {
	return func(s *Server) { s.h2c = enable }
}

// NewServer builds a Server that serves every request through adapter.
func NewServer(adapter http.Handler, opts ...ServerOption) *Server {
	s := &Server{
		adapter:  adapter,
		timeouts: timeouts{readHeader: 5 * time.Second, read: 15 * time.Second, write: 30 * time.Second, idle: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) buildHandler() http.Handler {
	h := s.adapter
	if s.h2c {
		h = h2c.NewHandler(h, &http2.Server{})
	}
	return h
}

// Serve starts a cleartext HTTP listener at addr and blocks until it
// exits.
func (s *Server) Serve(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.buildHandler(),
		ReadHeaderTimeout: s.timeouts.readHeader,
		ReadTimeout:       s.timeouts.read,
		WriteTimeout:      s.timeouts.write,
		IdleTimeout:       s.timeouts.idle,
	}
	s.mu.Lock()
	s.srv = srv
	s.mu.Unlock()
	return srv.ListenAndServe()
}

// ServeTLS starts a TLS listener at addr; HTTP/2 is negotiated via ALPN
// automatically.
func (s *Server) ServeTLS(addr, certFile, keyFile string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.adapter,
		ReadHeaderTimeout: s.timeouts.readHeader,
		ReadTimeout:       s.timeouts.read,
		WriteTimeout:      s.timeouts.write,
		IdleTimeout:       s.timeouts.idle,
	}
	s.mu.Lock()
	s.srv = srv
	s.mu.Unlock()
	return srv.ListenAndServeTLS(certFile, keyFile)
}

// Shutdown gracefully stops the running listener, if any.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
