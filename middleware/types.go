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
	"context"

	relic "github.com/relic-http/relic"
)

// RequestIDProperty carries the per-request ID minted by RequestID
// across every middleware and handler downstream of it, including
// Logger, without threading it through function signatures.
var RequestIDProperty = relic.NewContextProperty[string]("middleware.request_id")

// DeadlineProperty carries the context.Context Timeout derives for the
// current request, so a handler that spawns its own I/O can observe
// the same deadline the middleware is enforcing.
var DeadlineProperty = relic.NewContextProperty[context.Context]("middleware.timeout_ctx")
