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
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"time"

	relic "github.com/relic-http/relic"
)

// LoggerOption defines functional options for Logger middleware configuration.
type LoggerOption func(*loggerConfig)

// loggerConfig holds the configuration for the Logger middleware.
type loggerConfig struct {
	output       io.Writer
	skipPaths    map[string]bool
	formatter    func(params LogFormatterParams) string
	enableColors bool
}

// LogFormatterParams holds the parameters for custom log formatting.
type LogFormatterParams struct {
	TimeStamp  time.Time
	StatusCode int
	Latency    time.Duration
	ClientIP   string
	Method     string
	Path       string
	RequestID  string
}

func defaultLoggerConfig() *loggerConfig {
	return &loggerConfig{
		output:    os.Stdout,
		skipPaths: make(map[string]bool),
		formatter: defaultLogFormatter,
	}
}

func defaultLogFormatter(params LogFormatterParams) string {
	if params.RequestID != "" {
		return fmt.Sprintf("[%s] %s %s %d %v %s | %s",
			params.TimeStamp.Format("2006/01/02 15:04:05"),
			params.Method, params.Path, params.StatusCode, params.Latency, params.ClientIP, params.RequestID)
	}
	return fmt.Sprintf("[%s] %s %s %d %v %s",
		params.TimeStamp.Format("2006/01/02 15:04:05"),
		params.Method, params.Path, params.StatusCode, params.Latency, params.ClientIP)
}

func coloredLogFormatter(params LogFormatterParams) string {
	var statusColor string
	switch {
	case params.StatusCode >= 200 && params.StatusCode < 300:
		statusColor = "\033[32m"
	case params.StatusCode >= 300 && params.StatusCode < 400:
		statusColor = "\033[36m"
	case params.StatusCode >= 400 && params.StatusCode < 500:
		statusColor = "\033[33m"
	default:
		statusColor = "\033[31m"
	}
	reset := "\033[0m"

	if params.RequestID != "" {
		return fmt.Sprintf("[%s] %s %s %s%d%s %v %s | %s",
			params.TimeStamp.Format("2006/01/02 15:04:05"),
			params.Method, params.Path, statusColor, params.StatusCode, reset, params.Latency, params.ClientIP, params.RequestID)
	}
	return fmt.Sprintf("[%s] %s %s %s%d%s %v %s",
		params.TimeStamp.Format("2006/01/02 15:04:05"),
		params.Method, params.Path, statusColor, params.StatusCode, reset, params.Latency, params.ClientIP)
}

// WithLoggerOutput sets the output writer for logs. Default: os.Stdout.
func WithLoggerOutput(output io.Writer) LoggerOption {
	return func(cfg *loggerConfig) { cfg.output = output }
}

// WithSkipPaths sets paths that should not be logged, useful for
// health check endpoints that create log noise.
func WithSkipPaths(paths []string) LoggerOption {
	return func(cfg *loggerConfig) {
		for _, path := range paths {
			cfg.skipPaths[path] = true
		}
	}
}

// WithLogFormatter sets a custom log formatter function.
func WithLogFormatter(formatter func(LogFormatterParams) string) LoggerOption {
	return func(cfg *loggerConfig) { cfg.formatter = formatter }
}

// WithColors enables colored output for terminal logging, based on
// HTTP status code ranges. Default: false.
func WithColors(enabled bool) LoggerOption {
	return func(cfg *loggerConfig) {
		cfg.enableColors = enabled
		if enabled {
			cfg.formatter = coloredLogFormatter
		}
	}
}

// Logger returns a middleware that logs one line per request: method,
// path, status code, latency, and client IP. It should be installed
// early so its latency measurement covers every downstream middleware.
func Logger(opts ...LoggerOption) relic.Middleware {
	cfg := defaultLoggerConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	out := log.New(cfg.output, "", 0)

	return func(next relic.Handler) relic.Handler {
		return func(c *relic.NewContext) relic.HandledContext {
			req := c.Request()
			path := req.URL.Path
			if cfg.skipPaths[path] {
				return next(c)
			}

			start := time.Now()
			method := req.Method.String()
			clientIP := requestClientIP(req)
			raw := req.URL.RawQuery

			hc := next(c)
			latency := time.Since(start)

			statusCode := 0
			if rc, ok := hc.(*relic.ResponseContext); ok {
				statusCode = rc.Response().StatusCode
			}

			fullPath := path
			if raw != "" {
				fullPath = path + "?" + raw
			}

			requestID, _ := RequestIDProperty.Get(hc)

			out.Println(cfg.formatter(LogFormatterParams{
				TimeStamp:  time.Now(),
				StatusCode: statusCode,
				Latency:    latency,
				ClientIP:   clientIP,
				Method:     method,
				Path:       fullPath,
				RequestID:  requestID,
			}))
			return hc
		}
	}
}

func requestClientIP(req *relic.Request) string {
	if xff := req.Headers.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	host, _, err := net.SplitHostPort(req.ConnectionInfo.RemoteAddr)
	if err != nil {
		return req.ConnectionInfo.RemoteAddr
	}
	return host
}
