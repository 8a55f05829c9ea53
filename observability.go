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
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ObservabilityRecorder is the boundary between the core request
// lifecycle and metrics/tracing/access-log collection. nethttp.Adapter
// calls OnRequestStart before dispatch and OnRequestEnd once a
// HandledContext has been produced; implementations are free to
// return nil state to exclude a request (e.g. a health-check path)
// from further accounting.
type ObservabilityRecorder interface {
	OnRequestStart(req *Request) any
	OnRequestEnd(state any, resp Response, routePattern string, duration time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) OnRequestStart(*Request) any { return nil }
func (noopRecorder) OnRequestEnd(any, Response, string, time.Duration) {}

// NoopRecorder returns the zero-overhead recorder used when no
// observability collaborator is configured.
func NoopRecorder() ObservabilityRecorder { return noopRecorder{} }

type otelState struct {
	span trace.Span
}

// otelRecorder is the default non-trivial ObservabilityRecorder,
// recording one span per request and two metric instruments (request
// count and duration) via the OpenTelemetry SDK.
type otelRecorder struct {
	tracer       trace.Tracer
	requestCount metric.Int64Counter
	duration     metric.Float64Histogram
}

// NewOTelRecorder builds an ObservabilityRecorder backed by tracer and
// meter.
func NewOTelRecorder(tracer trace.Tracer, meter metric.Meter) (ObservabilityRecorder, error) {
	count, err := meter.Int64Counter("relic.requests",
		metric.WithDescription("Total requests handled"))
	if err != nil {
		return nil, err
	}
	hist, err := meter.Float64Histogram("relic.request.duration",
		metric.WithDescription("Request handling duration"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	return &otelRecorder{tracer: tracer, requestCount: count, duration: hist}, nil
}

func (o *otelRecorder) OnRequestStart(req *Request) any {
	name := req.Method.String()
	if req.URL != nil {
		name += " " + req.URL.Path
	}
	_, span := o.tracer.Start(context.Background(), name)
	return &otelState{span: span}
}

func (o *otelRecorder) OnRequestEnd(state any, resp Response, routePattern string, duration time.Duration) {
	st, ok := state.(*otelState)
	if !ok || st == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.Int("http.status_code", resp.StatusCode),
		attribute.String("http.route", routePattern),
	}
	st.span.SetAttributes(attrs...)
	st.span.End()

	ctx := context.Background()
	o.requestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	o.duration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}
