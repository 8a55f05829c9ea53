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
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"

	relic "github.com/relic-http/relic"
)

// CompressionOption defines functional options for Compression middleware configuration.
type CompressionOption func(*compressionConfig)

// compressionConfig holds the configuration for the Compression middleware.
type compressionConfig struct {
	level               int
	excludePaths        map[string]bool
	excludeExtensions   map[string]bool
	excludeContentTypes map[string]bool
}

func defaultCompressionConfig() *compressionConfig {
	return &compressionConfig{
		level:               gzip.DefaultCompression,
		excludePaths:        make(map[string]bool),
		excludeExtensions:   make(map[string]bool),
		excludeContentTypes: make(map[string]bool),
	}
}

// WithCompressionLevel sets the gzip compression level: 0 (none) to 9
// (best). Default: gzip.DefaultCompression.
func WithCompressionLevel(level int) CompressionOption {
	return func(cfg *compressionConfig) { cfg.level = level }
}

// WithExcludePaths sets paths whose responses are never compressed.
func WithExcludePaths(paths []string) CompressionOption {
	return func(cfg *compressionConfig) {
		for _, path := range paths {
			cfg.excludePaths[path] = true
		}
	}
}

// WithExcludeExtensions sets file extensions that should not be
// compressed. Already-compressed formats don't benefit from it.
func WithExcludeExtensions(extensions []string) CompressionOption {
	return func(cfg *compressionConfig) {
		for _, ext := range extensions {
			cfg.excludeExtensions[ext] = true
		}
	}
}

// WithExcludeContentTypes sets content types that should not be
// compressed.
func WithExcludeContentTypes(contentTypes []string) CompressionOption {
	return func(cfg *compressionConfig) {
		for _, ct := range contentTypes {
			cfg.excludeContentTypes[ct] = true
		}
	}
}

// Compression returns a middleware that gzip-compresses response
// bodies for clients advertising gzip support in Accept-Encoding. The
// response model is a pull-based io.Reader rather than a push-based
// writer, so compression is applied by piping the original body
// through a gzip.Writer on an io.Pipe rather than wrapping the
// transport's ResponseWriter.
func Compression(opts ...CompressionOption) relic.Middleware {
	cfg := defaultCompressionConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next relic.Handler) relic.Handler {
		return func(c *relic.NewContext) relic.HandledContext {
			req := c.Request()
			hc := next(c)

			if cfg.excludePaths[req.URL.Path] {
				return hc
			}
			for ext := range cfg.excludeExtensions {
				if strings.HasSuffix(req.URL.Path, ext) {
					return hc
				}
			}
			if !strings.Contains(req.Headers.Get("Accept-Encoding"), "gzip") {
				return hc
			}

			rc, ok := hc.(*relic.ResponseContext)
			if !ok {
				return hc
			}
			resp := rc.Response()
			if resp.Body == nil {
				return hc
			}
			for excluded := range cfg.excludeContentTypes {
				if strings.Contains(resp.Headers.Get("Content-Type"), excluded) {
					return hc
				}
			}

			return rc.Transform(func(r relic.Response) relic.Response {
				h := r.Headers.Clone()
				h.Del("Content-Length")
				h.Set("Content-Encoding", "gzip")
				return relic.Response{StatusCode: r.StatusCode, Headers: h, Body: gzipPipe(r.Body, cfg.level)}
			})
		}
	}
}

// gzipPipe compresses src on the fly, returning a reader of the
// compressed bytes. The copy runs in its own goroutine feeding an
// io.Pipe so the adapter can stream the result without buffering the
// whole body in memory.
func gzipPipe(src io.Reader, level int) io.Reader {
	pr, pw := io.Pipe()
	go func() {
		gz, err := gzip.NewWriterLevel(pw, level)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		_, err = io.Copy(gz, src)
		if cerr := gz.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()
	return pr
}
