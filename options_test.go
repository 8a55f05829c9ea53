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
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLoggerRejectsNil(t *testing.T) {
	_, err := NewRouter[int](WithLogger[int](nil))
	assert.ErrorIs(t, err, ErrNilLogger)
}

func TestWithLoggerAppliesLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	r, err := NewRouter[int](WithLogger[int](logger))
	require.NoError(t, err)
	assert.Same(t, logger, r.Logger())
}

func TestWithObservabilityRecorderApplies(t *testing.T) {
	rec := NoopRecorder()
	r, err := NewRouter[int](WithObservabilityRecorder[int](rec))
	require.NoError(t, err)
	assert.Equal(t, rec, r.Recorder())
}

func TestWithH2CDefaultsFalse(t *testing.T) {
	r := MustNewRouter[int]()
	assert.False(t, r.H2CEnabled())

	r2, err := NewRouter[int](WithH2C[int](true))
	require.NoError(t, err)
	assert.True(t, r2.H2CEnabled())
}

func TestWithVirtualHostingDefaultsFalse(t *testing.T) {
	r := MustNewRouter[int]()
	assert.False(t, r.VirtualHostingEnabled())

	r2, err := NewRouter[int](WithVirtualHosting[int](true))
	require.NoError(t, err)
	assert.True(t, r2.VirtualHostingEnabled())
}

func TestWithServerTimeoutsOverridesDefaults(t *testing.T) {
	r, err := NewRouter[int](WithServerTimeouts[int](1*time.Second, 2*time.Second, 3*time.Second, 4*time.Second))
	require.NoError(t, err)

	readHeader, read, write, idle := r.ServerTimeouts()
	assert.Equal(t, 1*time.Second, readHeader)
	assert.Equal(t, 2*time.Second, read)
	assert.Equal(t, 3*time.Second, write)
	assert.Equal(t, 4*time.Second, idle)
}

func TestDefaultServerTimeoutsAppliedWithoutOption(t *testing.T) {
	r := MustNewRouter[int]()
	readHeader, read, write, idle := r.ServerTimeouts()
	assert.Equal(t, 5*time.Second, readHeader)
	assert.Equal(t, 15*time.Second, read)
	assert.Equal(t, 30*time.Second, write)
	assert.Equal(t, 60*time.Second, idle)
}
