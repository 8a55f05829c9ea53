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
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	relic "github.com/relic-http/relic"
	"github.com/relic-http/relic/pathtrie"
)

func TestAdapterServesResponseContext(t *testing.T) {
	handler := func(c *relic.NewContext) relic.HandledContext {
		return c.Respond(relic.OK(strings.NewReader("hello"), "text/plain"))
	}
	a := NewAdapter(handler)

	req := httptest.NewRequest("GET", "/widgets", nil)
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
}

func TestAdapterTranslatesMethodAndHeaders(t *testing.T) {
	var seenMethod relic.Method
	var seenHeader string
	handler := func(c *relic.NewContext) relic.HandledContext {
		seenMethod = c.Request().Method
		seenHeader = c.Request().Headers.Get("X-Custom")
		return c.Respond(relic.OK(nil, ""))
	}
	a := NewAdapter(handler)

	req := httptest.NewRequest("POST", "/items", nil)
	req.Header.Set("X-Custom", "abc")
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)

	assert.Equal(t, relic.POST, seenMethod)
	assert.Equal(t, "abc", seenHeader)
}

func TestAdapterVirtualHostingRoutesOnLowercasedHost(t *testing.T) {
	r := relic.MustNewRouter[relic.Handler](relic.WithVirtualHosting[relic.Handler](true))
	require.NoError(t, r.Get("/tenant-a.example.com/widgets", func(c *relic.NewContext) relic.HandledContext {
		return c.Respond(relic.OK(strings.NewReader("tenant-a"), "text/plain"))
	}))
	notFound := func(c *relic.NewContext) relic.HandledContext { return c.Respond(relic.NotFound("")) }
	a := NewAdapter(relic.RouteWith(r, notFound))

	req := httptest.NewRequest("GET", "/widgets", nil)
	req.Host = "Tenant-A.Example.com"
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "tenant-a", rec.Body.String())
}

func TestAdapterUnmatchedRoutePatternDefaultsToUnmatched(t *testing.T) {
	var captured, fallback string
	handler := func(c *relic.NewContext) relic.HandledContext {
		pattern, ok := relic.RoutePattern.Get(c)
		if ok {
			captured = pattern
		}
		fallback = routePatternOf(c)
		return c.Respond(relic.NotFound(""))
	}
	a := NewAdapter(handler)

	req := httptest.NewRequest("GET", "/nowhere", nil)
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)

	assert.Equal(t, 404, rec.Code)
	assert.Empty(t, captured)
	assert.Equal(t, "_unmatched", fallback)
}

func TestAdapterRecorderSourceInvokedWhenConfigured(t *testing.T) {
	r := relic.MustNewRouter[relic.Handler]()
	require.NoError(t, r.Get("/ping", func(c *relic.NewContext) relic.HandledContext {
		return c.Respond(relic.OK(nil, ""))
	}))

	a := NewAdapter(func(c *relic.NewContext) relic.HandledContext {
		res := r.Lookup(c.Request().Method, pathtrie.Normalize(c.Request().URL.Path))
		if res.Kind != relic.MatchResult {
			return c.Respond(relic.NotFound(""))
		}
		return res.Value(c)
	}, WithRecorderSource(r))

	req := httptest.NewRequest("GET", "/ping", nil)
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
}
