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

// Package nethttp bridges relic's transport-independent core to a real
// net/http listener, including cleartext HTTP/2 (h2c) support.
package nethttp

import (
	"bufio"
	"io"
	"net"
	"net/http"
	"time"

	relic "github.com/relic-http/relic"
)

// Adapter implements http.Handler by translating each incoming request
// into a relic.Request, driving it through handler, and serializing
// whatever HandledContext comes back onto the wire.
type Adapter struct {
	handler relic.Handler
	router  recorderSource
}

// recorderSource is satisfied by *relic.Router[relic.Handler]; kept as
// an interface so Adapter doesn't need to know the router's value type.
type recorderSource interface {
	Recorder() relic.ObservabilityRecorder
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithRecorderSource installs router as the source of the
// ObservabilityRecorder every request is reported through.
func WithRecorderSource(router recorderSource) Option {
	return func(a *Adapter) { a.router = router }
}

// NewAdapter builds an Adapter that serves every request through
// handler (typically Router.Reconfigure's target wrapped by RouteWith,
// or any relic.Handler).
func NewAdapter(handler relic.Handler, opts ...Option) *Adapter {
	a := &Adapter{handler: handler}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ServeHTTP implements http.Handler.
func (a *Adapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := a.translateRequest(r)

	var recorder relic.ObservabilityRecorder = relic.NoopRecorder()
	if a.router != nil {
		if rec := a.router.Recorder(); rec != nil {
			recorder = rec
		}
	}
	start := time.Now()
	obsState := recorder.OnRequestStart(req)

	c := relic.AcquireContext(req)
	defer relic.ReleaseContext(c)

	handled := a.handler(c)
	routePattern := routePatternOf(handled)

	switch hc := handled.(type) {
	case *relic.ResponseContext:
		resp := hc.Response()
		writeResponse(w, resp)
		recorder.OnRequestEnd(obsState, resp, routePattern, time.Since(start))
	case *relic.HijackContext:
		conn, rw, err := hijack(w)
		if err != nil {
			writeResponse(w, relic.InternalServerError())
			return
		}
		hc.Callback(&hijackedConn{Conn: conn, rw: rw})
	case *relic.ConnectContext:
		// The core never implements the websocket handshake itself;
		// an application wires its own upgrader and calls Connect.
		// Reaching this adapter without that wiring is a caller error.
		writeResponse(w, relic.InternalServerError())
	}
}

func routePatternOf(c relic.RequestContext) string {
	if pattern, ok := relic.RoutePattern.Get(c); ok {
		return pattern
	}
	return "_unmatched"
}

func (a *Adapter) translateRequest(r *http.Request) *relic.Request {
	method, ok := relic.ParseMethod(r.Method)
	if !ok {
		method = relic.GET
	}

	headers := relic.NewHeaders()
	for name, values := range r.Header {
		for _, v := range values {
			headers.Add(name, v)
		}
	}

	contentLength := r.ContentLength
	var bodyType *relic.BodyType
	if ct := r.Header.Get("Content-Type"); ct != "" {
		bodyType = &relic.BodyType{MIMEType: ct, Encoding: r.Header.Get("Content-Encoding")}
	}

	body := relic.NewBody(r.Body, contentLength, bodyType)

	return &relic.Request{
		Method:        method,
		RequestedURI:  r.URL,
		URL:           r.URL,
		ProtocolMajor: r.ProtoMajor,
		ProtocolMinor: r.ProtoMinor,
		Headers:       headers,
		Body:          body,
		ConnectionInfo: relic.ConnectionInfo{
			RemoteAddr: r.RemoteAddr,
			Host:       r.Host,
			TLS:        r.TLS != nil,
		},
	}
}

func writeResponse(w http.ResponseWriter, resp relic.Response) {
	header := w.Header()
	contentLengthKnown := resp.Headers.Has("Content-Length")
	for _, name := range resp.Headers.Names() {
		for _, v := range resp.Headers.Values(name) {
			header.Add(name, v)
		}
	}
	if usesChunked := !contentLengthKnown && resp.Body != nil; usesChunked {
		header.Del("Content-Length")
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if resp.Body != nil {
		_, _ = io.Copy(w, resp.Body)
	}
}

func hijack(w http.ResponseWriter) (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		return nil, nil, relic.ErrResponseWriterNotHijacker
	}
	return hj.Hijack()
}

type hijackedConn struct {
	net.Conn
	rw *bufio.ReadWriter
}

func (h *hijackedConn) Read(p []byte) (int, error) {
	if h.rw != nil && h.rw.Reader.Buffered() > 0 {
		return h.rw.Read(p)
	}
	return h.Conn.Read(p)
}
