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
	"bytes"
	"io"
	"net/http"
)

// Response is an immutable record: status code, headers, and body.
// Transformations (e.g. downstream middleware rewriting a header)
// produce a new Response value; the underlying body bytes are shared,
// not copied, so wrapping a Response is cheap.
type Response struct {
	StatusCode int
	Headers    Headers
	Body       io.Reader
}

// WithHeader returns a copy of r with name set to value. This is the
// usual way middleware "transforms" a ResponseContext into another
// ResponseContext without mutating the original.
func (r Response) WithHeader(name, value string) Response {
	h := r.Headers.Clone()
	h.Set(name, value)
	r.Headers = h
	return r
}

// WithStatus returns a copy of r with a different status code.
func (r Response) WithStatus(code int) Response {
	r.StatusCode = code
	return r
}

// WithBody returns a copy of r with a different body.
func (r Response) WithBody(body io.Reader) Response {
	r.Body = body
	return r
}

func textResponse(code int, text string) Response {
	h := NewHeaders()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	return Response{StatusCode: code, Headers: h, Body: bytes.NewReader([]byte(text))}
}

// ok builds a 200 response with the given body and content type.
func ok(body io.Reader, contentType string) Response {
	h := NewHeaders()
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return Response{StatusCode: http.StatusOK, Headers: h, Body: body}
}

// OK is the 200 response constructor.
func OK(body io.Reader, contentType string) Response { return ok(body, contentType) }

// BadRequest is the 400 response constructor.
func BadRequest(detail string) Response {
	if detail == "" {
		detail = "Bad Request"
	}
	return textResponse(http.StatusBadRequest, detail)
}

// Unauthorized is the 401 response constructor.
func Unauthorized(detail string) Response {
	if detail == "" {
		detail = "Unauthorized"
	}
	return textResponse(http.StatusUnauthorized, detail)
}

// NotFound is the 404 response constructor.
func NotFound(detail string) Response {
	if detail == "" {
		detail = "Not Found"
	}
	return textResponse(http.StatusNotFound, detail)
}

// NotModified is the 304 response constructor. Per §6, 304 responses
// must never carry a body.
func NotModified(headers Headers) Response {
	return Response{StatusCode: http.StatusNotModified, Headers: headers, Body: nil}
}

// Found is the 302 redirect constructor.
func Found(location string) Response {
	h := NewHeaders()
	h.Set("Location", location)
	return Response{StatusCode: http.StatusFound, Headers: h, Body: nil}
}

// InternalServerError is the 500 response constructor. Per §7, its body
// is generic and must never leak internals.
func InternalServerError() Response {
	return textResponse(http.StatusInternalServerError, "Internal Server Error")
}

// MethodNotAllowed builds a 405 response whose Allow header lists the
// given methods, per §4.3/§6 ("405 responses must include Allow").
func MethodNotAllowed(allowed []Method) Response {
	r := textResponse(http.StatusMethodNotAllowed, "Method Not Allowed")
	r.Headers.Set("Allow", joinMethods(allowed))
	return r
}

func joinMethods(methods []Method) string {
	var b bytes.Buffer
	for i, m := range methods {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(m.String())
	}
	return b.String()
}

// usesChunkedTransfer applies the wire-header rule from spec.md §4.8:
// 1xx, 204, 304, and multipart/byteranges responses must never be
// chunked; an explicit "Transfer-Encoding: identity" is never upgraded;
// otherwise, an unknown content length implies chunked encoding.
func usesChunkedTransfer(statusCode int, contentType string, explicitTransferEncoding string, contentLengthKnown bool) bool {
	if statusCode < 200 || statusCode == http.StatusNoContent || statusCode == http.StatusNotModified {
		return false
	}
	if isMultipartByteranges(contentType) {
		return false
	}
	if explicitTransferEncoding == "identity" {
		return false
	}
	return !contentLengthKnown
}

func isMultipartByteranges(contentType string) bool {
	const prefix = "multipart/byteranges"
	if len(contentType) < len(prefix) {
		return false
	}
	return contentType[:len(prefix)] == prefix
}
