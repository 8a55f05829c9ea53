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
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"app.js":    {Data: []byte("console.log('hi')")},
		"index.txt": {Data: []byte("hello world")},
	}
}

func TestInfoCacheStatComputesETagOnce(t *testing.T) {
	fsys := testFS()
	cache := NewInfoCache(0)

	entry, err := cache.Stat(fsys, "index.txt")
	require.NoError(t, err)
	assert.NotEmpty(t, entry.etag)
	assert.Equal(t, int64(len("hello world")), entry.size)
	assert.Equal(t, 1, cache.Len())

	cached, err := cache.Stat(fsys, "index.txt")
	require.NoError(t, err)
	assert.Equal(t, entry.etag, cached.etag)
}

func TestInfoCacheStatRecomputesOnChange(t *testing.T) {
	fsys := testFS()
	cache := NewInfoCache(0)

	first, err := cache.Stat(fsys, "index.txt")
	require.NoError(t, err)

	fsys["index.txt"] = &fstest.MapFile{Data: []byte("a completely different body")}
	second, err := cache.Stat(fsys, "index.txt")
	require.NoError(t, err)

	assert.NotEqual(t, first.etag, second.etag)
}

func TestInfoCachePurgeForcesRecompute(t *testing.T) {
	fsys := testFS()
	cache := NewInfoCache(0)

	_, err := cache.Stat(fsys, "index.txt")
	require.NoError(t, err)
	cache.Purge("index.txt")
	assert.Equal(t, 0, cache.Len())
}

func TestCacheBusterFingerprintAndResolveRoundtrip(t *testing.T) {
	fsys := testFS()
	cache := NewInfoCache(0)
	buster := NewCacheBuster(fsys, cache)

	fingerprinted, err := buster.Fingerprint("/app.js")
	require.NoError(t, err)
	assert.Regexp(t, `^/app@[0-9a-f]{12}\.js$`, fingerprinted)

	resolved, ok := buster.Resolve(fingerprinted)
	require.True(t, ok)
	assert.Equal(t, "/app.js", resolved)
}

func TestCacheBusterResolveRejectsStaleFingerprint(t *testing.T) {
	fsys := testFS()
	cache := NewInfoCache(0)
	buster := NewCacheBuster(fsys, cache)

	stale := "/app@000000000000.js"
	_, ok := buster.Resolve(stale)
	assert.False(t, ok)
}

func TestCacheBusterResolveRejectsPathWithoutDigest(t *testing.T) {
	fsys := testFS()
	cache := NewInfoCache(0)
	buster := NewCacheBuster(fsys, cache)

	_, ok := buster.Resolve("/app.js")
	assert.False(t, ok)
}

func TestETagStringQuotesNonEmptyValue(t *testing.T) {
	assert.Equal(t, `"abc123"`, ETag("abc123").String())
	assert.Equal(t, "", ETag("").String())
}
