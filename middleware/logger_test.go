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
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	relic "github.com/relic-http/relic"
)

func TestLoggerWritesOneLinePerRequest(t *testing.T) {
	var buf bytes.Buffer
	next := func(c *relic.NewContext) relic.HandledContext { return c.Respond(relic.OK(nil, "")) }
	h := Logger(WithLoggerOutput(&buf))(next)

	h(newCtx(relic.GET, "/widgets"))

	out := buf.String()
	assert.Contains(t, out, "GET")
	assert.Contains(t, out, "/widgets")
	assert.Contains(t, out, "200")
}

func TestLoggerSkipsConfiguredPaths(t *testing.T) {
	var buf bytes.Buffer
	next := func(c *relic.NewContext) relic.HandledContext { return c.Respond(relic.OK(nil, "")) }
	h := Logger(WithLoggerOutput(&buf), WithSkipPaths([]string{"/healthz"}))(next)

	h(newCtx(relic.GET, "/healthz"))
	assert.Empty(t, buf.String())
}

func TestLoggerIncludesRequestIDWhenPresent(t *testing.T) {
	var buf bytes.Buffer
	next := func(c *relic.NewContext) relic.HandledContext {
		RequestIDProperty.Set(c, "req-123")
		return c.Respond(relic.OK(nil, ""))
	}
	h := Logger(WithLoggerOutput(&buf))(next)

	h(newCtx(relic.GET, "/"))
	assert.Contains(t, buf.String(), "req-123")
}

func TestLoggerCustomFormatterIsUsed(t *testing.T) {
	var buf bytes.Buffer
	next := func(c *relic.NewContext) relic.HandledContext { return c.Respond(relic.OK(nil, "")) }
	h := Logger(WithLoggerOutput(&buf), WithLogFormatter(func(p LogFormatterParams) string {
		return "CUSTOM:" + p.Method + ":" + p.Path
	}))(next)

	h(newCtx(relic.GET, "/ping"))
	require.True(t, strings.Contains(buf.String(), "CUSTOM:GET:/ping"))
}

func TestLoggerColoredFormatterAppliedWhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	next := func(c *relic.NewContext) relic.HandledContext { return c.Respond(relic.OK(nil, "")) }
	h := Logger(WithLoggerOutput(&buf), WithColors(true))(next)

	h(newCtx(relic.GET, "/ping"))
	assert.Contains(t, buf.String(), "\033[")
}
