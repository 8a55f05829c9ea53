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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	relic "github.com/relic-http/relic"
)

func TestRequestIDGeneratesWhenAbsent(t *testing.T) {
	var seen string
	next := func(c *relic.NewContext) relic.HandledContext {
		seen = GetRequestID(c)
		return c.Respond(relic.OK(nil, ""))
	}
	h := RequestID()(next)

	hc := h(newCtx(relic.GET, "/"))
	assert.NotEmpty(t, seen)

	rc, ok := hc.(*relic.ResponseContext)
	require.True(t, ok)
	assert.Equal(t, seen, rc.Response().Headers.Get("X-Request-ID"))
}

func TestRequestIDAcceptsClientSuppliedHeaderByDefault(t *testing.T) {
	var seen string
	next := func(c *relic.NewContext) relic.HandledContext {
		seen = GetRequestID(c)
		return c.Respond(relic.OK(nil, ""))
	}
	h := RequestID()(next)

	c := newCtx(relic.GET, "/")
	c.Request().Headers.Set("X-Request-ID", "client-supplied")
	h(c)

	assert.Equal(t, "client-supplied", seen)
}

func TestRequestIDRejectsClientHeaderWhenDisallowed(t *testing.T) {
	var seen string
	next := func(c *relic.NewContext) relic.HandledContext {
		seen = GetRequestID(c)
		return c.Respond(relic.OK(nil, ""))
	}
	h := RequestID(WithAllowClientID(false))(next)

	c := newCtx(relic.GET, "/")
	c.Request().Headers.Set("X-Request-ID", "client-supplied")
	h(c)

	assert.NotEqual(t, "client-supplied", seen)
}

func TestRequestIDCustomGeneratorAndHeader(t *testing.T) {
	next := func(c *relic.NewContext) relic.HandledContext { return c.Respond(relic.OK(nil, "")) }
	h := RequestID(
		WithRequestIDHeader("X-Trace-ID"),
		WithRequestIDGenerator(func() string { return "fixed-id" }),
	)(next)

	hc := h(newCtx(relic.GET, "/"))
	rc, ok := hc.(*relic.ResponseContext)
	require.True(t, ok)
	assert.Equal(t, "fixed-id", rc.Response().Headers.Get("X-Trace-ID"))
}

func TestGetRequestIDWithoutMiddlewareReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", GetRequestID(newCtx(relic.GET, "/")))
}
