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

package static

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path"
	"strconv"
	"strings"
	"time"

	relic "github.com/relic-http/relic"
)

// Handler serves files out of an fs.FS, handling conditional requests,
// byte ranges, content sniffing, and fingerprinted cache-busted URLs.
// It never delegates to net/http's own file server: every behavior is
// implemented against relic's Request/Response model directly so it
// composes with the rest of the request pipeline (middleware, the
// RequestContext state machine) like any other Handler.
type Handler struct {
	fsys        fs.FS
	cache       *InfoCache
	buster      *CacheBuster
	maxAge      time.Duration
	immutable   bool
	cacheBusted bool
}

// Option configures a Handler.
type Option func(*Handler)

// WithMaxAge sets the Cache-Control max-age advertised for served
// files. Default is zero, which sends Cache-Control: no-cache so
// clients revalidate with the ETag and Last-Modified validators.
func WithMaxAge(d time.Duration) Option {
	return func(h *Handler) { h.maxAge = d }
}

// WithImmutable marks served responses Cache-Control: immutable,
// appropriate only when paired with cache-busted URLs.
func WithImmutable() Option {
	return func(h *Handler) { h.immutable = true }
}

// WithCacheBusting enables fingerprinted URL resolution: a request for
// "/app@<digest>.js" is served from "/app.js" only if digest matches
// that file's current content.
func WithCacheBusting() Option {
	return func(h *Handler) { h.cacheBusted = true }
}

// NewHandler builds a Handler serving fsys, with an InfoCache of
// DefaultCacheCapacity unless overridden by a future option.
func NewHandler(fsys fs.FS, opts ...Option) *Handler {
	cache := NewInfoCache(DefaultCacheCapacity)
	h := &Handler{fsys: fsys, cache: cache, buster: NewCacheBuster(fsys, cache)}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Serve implements relic.Responder.
func (h *Handler) Serve(req *relic.Request) relic.Response {
	if req.Method != relic.GET && req.Method != relic.HEAD {
		return relic.MethodNotAllowed([]relic.Method{relic.GET, relic.HEAD})
	}

	requestPath := req.URL.Path
	fsPath := strings.TrimPrefix(requestPath, "/")

	if h.cacheBusted {
		if resolved, ok := h.buster.Resolve(requestPath); ok {
			fsPath = strings.TrimPrefix(resolved, "/")
		}
	}
	fsPath = path.Clean(fsPath)
	if fsPath == "." || fsPath == "" {
		return relic.NotFound("")
	}

	entry, err := h.cache.Stat(h.fsys, fsPath)
	if err != nil {
		return relic.NotFound("")
	}

	headers := relic.NewHeaders()
	headers.Set("Content-Type", entry.contentType)
	headers.Set("ETag", entry.etag.String())
	headers.Set("Last-Modified", entry.modTime.UTC().Format(http.TimeFormat))
	headers.Set("Accept-Ranges", "bytes")
	headers.Set("Cache-Control", h.cacheControl())

	if resp, done := h.checkConditional(req, entry, headers); done {
		return resp
	}

	if req.Method == relic.HEAD {
		headers.Set("Content-Length", strconv.FormatInt(entry.size, 10))
		return relic.Response{StatusCode: http.StatusOK, Headers: headers}
	}

	f, err := h.fsys.Open(fsPath)
	if err != nil {
		return relic.NotFound("")
	}

	if rangeHeader := req.Headers.Get("Range"); rangeHeader != "" && rangeIsUsable(req, entry) {
		if resp, handled := h.serveRange(f, rangeHeader, entry, headers); handled {
			return resp
		}
	}

	headers.Set("Content-Length", strconv.FormatInt(entry.size, 10))
	return relic.Response{StatusCode: http.StatusOK, Headers: headers, Body: f}
}

func (h *Handler) cacheControl() string {
	var parts []string
	if h.maxAge > 0 {
		parts = append(parts, "max-age="+strconv.Itoa(int(h.maxAge.Seconds())))
	} else {
		parts = append(parts, "no-cache")
	}
	if h.immutable {
		parts = append(parts, "immutable")
	}
	return strings.Join(parts, ", ")
}

// checkConditional implements the If-None-Match / If-Modified-Since
// rules for safe methods: a match short-circuits with a bodyless 304
// carrying the same validators, per §6.
func (h *Handler) checkConditional(req *relic.Request, entry fileEntry, headers relic.Headers) (relic.Response, bool) {
	if inm := req.Headers.Get("If-None-Match"); inm != "" {
		if etagMatchesAny(inm, entry.etag) {
			return relic.NotModified(headers), true
		}
		return relic.Response{}, false
	}
	if ims := req.Headers.Get("If-Modified-Since"); ims != "" {
		if t, err := http.ParseTime(ims); err == nil && !entry.modTime.Truncate(time.Second).After(t) {
			return relic.NotModified(headers), true
		}
	}
	return relic.Response{}, false
}

func etagMatchesAny(header string, tag ETag) bool {
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		part = strings.TrimPrefix(part, "W/")
		part = strings.Trim(part, `"`)
		if part == "*" || part == string(tag) {
			return true
		}
	}
	return false
}

// rangeIsUsable implements the If-Range precondition from §4.6 step 7:
// a Range header is only honored if If-Range is absent, or present and
// it validates against the resource's current state. A mismatch means
// the client's cached representation is stale, so the Range is ignored
// and the full, current body is served instead — serving a byte slice
// of the new content mislabeled as a continuation of the old one would
// corrupt whatever the client is resuming.
func rangeIsUsable(req *relic.Request, entry fileEntry) bool {
	ifRange := req.Headers.Get("If-Range")
	if ifRange == "" {
		return true
	}
	return ifRangeMatches(ifRange, entry)
}

// ifRangeMatches reports whether value (an ETag or an HTTP-date) names
// entry's current validator. If-Range requires a strong comparison, so
// a weak ETag (W/ prefix) never matches per RFC 7233 §3.2.
func ifRangeMatches(value string, entry fileEntry) bool {
	if strings.HasPrefix(value, "W/") {
		return false
	}
	if value == entry.etag.String() {
		return true
	}
	if t, err := http.ParseTime(value); err == nil {
		return entry.modTime.Truncate(time.Second).Equal(t)
	}
	return false
}

// serveRange serves a 206 response for a satisfiable Range header: a
// single range produces a plain partial-content body, and two or more
// produce a multipart/byteranges body per §6.
func (h *Handler) serveRange(f fs.File, rangeHeader string, entry fileEntry, headers relic.Headers) (relic.Response, bool) {
	ranges, ok := parseRanges(rangeHeader, entry.size)
	if !ok {
		headers.Set("Content-Range", "bytes */"+strconv.FormatInt(entry.size, 10))
		return relic.Response{StatusCode: http.StatusRequestedRangeNotSatisfiable, Headers: headers}, true
	}

	seeker, ok := f.(io.Seeker)
	if !ok {
		return relic.Response{}, false
	}

	if len(ranges) == 1 {
		r := ranges[0]
		if _, err := seeker.Seek(r.start, io.SeekStart); err != nil {
			return relic.Response{}, false
		}
		headers.Set("Content-Range", r.contentRange(entry.size))
		headers.Set("Content-Length", strconv.FormatInt(r.length(), 10))
		return relic.Response{
			StatusCode: http.StatusPartialContent,
			Headers:    headers,
			Body:       io.LimitReader(f, r.length()),
		}, true
	}

	return h.serveMultipartRange(f, seeker, ranges, entry, headers)
}

// serveMultipartRange serves a 206 whose body is a multipart/byteranges
// document, one part per range, each part carrying its own Content-Type
// and Content-Range. The parts are assembled into a buffer up front so
// the total Content-Length is known before the response is returned,
// matching the no-chunked-transfer rule for this content type in §4.8.
func (h *Handler) serveMultipartRange(f fs.File, seeker io.Seeker, ranges []byteRange, entry fileEntry, headers relic.Headers) (relic.Response, bool) {
	boundary, err := newMultipartBoundary()
	if err != nil {
		return relic.Response{}, false
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.SetBoundary(boundary); err != nil {
		return relic.Response{}, false
	}

	for _, r := range ranges {
		partHeader := textproto.MIMEHeader{}
		if entry.contentType != "" {
			partHeader.Set("Content-Type", entry.contentType)
		}
		partHeader.Set("Content-Range", r.contentRange(entry.size))

		part, err := mw.CreatePart(partHeader)
		if err != nil {
			return relic.Response{}, false
		}
		if _, err := seeker.Seek(r.start, io.SeekStart); err != nil {
			return relic.Response{}, false
		}
		if _, err := io.Copy(part, io.LimitReader(f, r.length())); err != nil {
			return relic.Response{}, false
		}
	}
	if err := mw.Close(); err != nil {
		return relic.Response{}, false
	}

	headers.Set("Content-Type", "multipart/byteranges; boundary="+boundary)
	headers.Set("Content-Length", strconv.Itoa(buf.Len()))
	return relic.Response{
		StatusCode: http.StatusPartialContent,
		Headers:    headers,
		Body:       bytes.NewReader(buf.Bytes()),
	}, true
}

func newMultipartBoundary() (string, error) {
	var raw [16]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw[:]), nil
}
