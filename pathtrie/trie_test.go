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

package pathtrie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiteralPrecedenceOverParam(t *testing.T) {
	tr := New[int]()
	require.NoError(t, tr.Add("/users/:id", 1))
	require.NoError(t, tr.Add("/users/me", 2))

	m, ok := tr.Lookup(Normalize("/users/me"))
	require.True(t, ok)
	assert.Equal(t, 2, m.Value)
	assert.Empty(t, m.Parameters)

	m, ok = tr.Lookup(Normalize("/users/123"))
	require.True(t, ok)
	assert.Equal(t, 1, m.Value)
	assert.Equal(t, "123", m.Parameters["id"])
}

func TestTailWithBacktrack(t *testing.T) {
	tr := New[int]()
	require.NoError(t, tr.Add("/files/**", 1))
	require.NoError(t, tr.Add("/files/special/report", 2))

	m, ok := tr.Lookup(Normalize("/files/special/report"))
	require.True(t, ok)
	assert.Equal(t, 2, m.Value)
	assert.Equal(t, "/files/special/report", m.Matched.String())
	assert.Equal(t, "/", m.Remaining.String())

	m, ok = tr.Lookup(Normalize("/files/special/other"))
	require.True(t, ok)
	assert.Equal(t, 1, m.Value)
	assert.Equal(t, "/files", m.Matched.String())
	assert.Equal(t, "/special/other", m.Remaining.String())
}

func TestNestedAttachWithParams(t *testing.T) {
	parent := New[int]()
	sub := New[int]()
	require.NoError(t, sub.Add("/details/:did", 42))

	require.NoError(t, parent.Attach("/resource/:rid", sub, false))

	m, ok := parent.Lookup(Normalize("/resource/abc/details/xyz"))
	require.True(t, ok)
	assert.Equal(t, 42, m.Value)
	assert.Equal(t, "abc", m.Parameters["rid"])
	assert.Equal(t, "xyz", m.Parameters["did"])
}

func TestAttachConsumeLeaf(t *testing.T) {
	parent := New[int]()
	leaf := New[int]()
	require.NoError(t, leaf.Add("/", 7))

	require.NoError(t, parent.Attach("/frozen", leaf, true))
	m, ok := parent.Lookup(Normalize("/frozen"))
	require.True(t, ok)
	assert.Equal(t, 7, m.Value)
}

func TestAttachConsumeRejectsNonLeaf(t *testing.T) {
	parent := New[int]()
	sub := New[int]()
	require.NoError(t, sub.Add("/a", 1))
	require.NoError(t, sub.Add("/a/b", 2))

	err := parent.Attach("/x", sub, true)
	assert.ErrorIs(t, err, ErrConsumeNotLeaf)
}

func TestAttachRejectsLiteralClash(t *testing.T) {
	parent := New[int]()
	require.NoError(t, parent.Add("/x/a", 1))
	sub := New[int]()
	require.NoError(t, sub.Add("/a", 2))

	err := parent.Attach("/x", sub, false)
	assert.ErrorIs(t, err, ErrAttachLiteralClash)
}

func TestConflictingDynamicSegments(t *testing.T) {
	tr := New[int]()
	require.NoError(t, tr.Add("/a/:id", 1))
	err := tr.Add("/a/:other", 2)
	assert.ErrorIs(t, err, ErrConflictingDynamic)

	err = tr.Add("/a/*", 3)
	assert.ErrorIs(t, err, ErrConflictingDynamic)
}

func TestDuplicateRegistrationFails(t *testing.T) {
	tr := New[int]()
	require.NoError(t, tr.Add("/a/b", 1))
	err := tr.Add("/a/b", 2)
	assert.ErrorIs(t, err, ErrDuplicateValue)
}

func TestTailMustBeLast(t *testing.T) {
	tr := New[int]()
	err := tr.Add("/a/**/b", 1)
	assert.ErrorIs(t, err, ErrTailNotLast)
}

func TestEmptyParamNameFails(t *testing.T) {
	tr := New[int]()
	err := tr.Add("/a/:", 1)
	assert.ErrorIs(t, err, ErrEmptyParamName)
}

func TestUpdateRequiresExistingValue(t *testing.T) {
	tr := New[int]()
	err := tr.Update("/a/b", 1)
	assert.ErrorIs(t, err, ErrNoValue)

	require.NoError(t, tr.Add("/a/b", 1))
	require.NoError(t, tr.Update("/a/b", 2))
	m, ok := tr.Lookup(Normalize("/a/b"))
	require.True(t, ok)
	assert.Equal(t, 2, m.Value)
}

func TestAddOrUpdate(t *testing.T) {
	tr := New[int]()
	created, err := tr.AddOrUpdate("/a", 1)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = tr.AddOrUpdate("/a", 2)
	require.NoError(t, err)
	assert.False(t, created)

	m, _ := tr.Lookup(Normalize("/a"))
	assert.Equal(t, 2, m.Value)
}

func TestAddOrUpdateInPlace(t *testing.T) {
	tr := New[int]()
	v, err := tr.AddOrUpdateInPlace("/a", func(old int, existed bool) int {
		assert.False(t, existed)
		return old + 1
	})
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = tr.AddOrUpdateInPlace("/a", func(old int, existed bool) int {
		assert.True(t, existed)
		return old + 10
	})
	require.NoError(t, err)
	assert.Equal(t, 11, v)
}

func TestRemove(t *testing.T) {
	tr := New[int]()
	require.NoError(t, tr.Add("/a/b", 5))
	v, ok := tr.Remove("/a/b")
	require.True(t, ok)
	assert.Equal(t, 5, v)

	_, ok = tr.Lookup(Normalize("/a/b"))
	assert.False(t, ok)

	_, ok = tr.Remove("/a/b")
	assert.False(t, ok)
}

func TestUseComposesParentOuterChildInner(t *testing.T) {
	tr := New[string]()
	require.NoError(t, tr.Add("/api/users", "handler"))
	require.NoError(t, tr.Use("/", func(s string) string { return "root(" + s + ")" }))
	require.NoError(t, tr.Use("/api", func(s string) string { return "api(" + s + ")" }))

	m, ok := tr.Lookup(Normalize("/api/users"))
	require.True(t, ok)
	assert.Equal(t, "root(api(handler))", m.Value)
}

func TestUseSameNodeInsertionOrder(t *testing.T) {
	tr := New[string]()
	require.NoError(t, tr.Add("/a", "h"))
	require.NoError(t, tr.Use("/a", func(s string) string { return "first(" + s + ")" }))
	require.NoError(t, tr.Use("/a", func(s string) string { return "second(" + s + ")" }))

	m, ok := tr.Lookup(Normalize("/a"))
	require.True(t, ok)
	assert.Equal(t, "first(second(h))", m.Value)
}

func TestWildcardMatchesSingleSegment(t *testing.T) {
	tr := New[int]()
	require.NoError(t, tr.Add("/a/*/c", 1))

	m, ok := tr.Lookup(Normalize("/a/b/c"))
	require.True(t, ok)
	assert.Equal(t, 1, m.Value)

	_, ok = tr.Lookup(Normalize("/a/b/x/c"))
	assert.False(t, ok)
}

func TestExactPathValuePreferredOverTailValue(t *testing.T) {
	tr := New[int]()
	require.NoError(t, tr.Add("/files", 1))
	require.NoError(t, tr.Add("/files/**", 2))

	m, ok := tr.Lookup(Normalize("/files"))
	require.True(t, ok)
	assert.Equal(t, 1, m.Value)
}

func TestPathsEnumeration(t *testing.T) {
	tr := New[int]()
	require.NoError(t, tr.Add("/b", 1))
	require.NoError(t, tr.Add("/a", 2))
	require.NoError(t, tr.Add("/a/:id", 3))
	require.NoError(t, tr.Add("/b/*", 4))

	entries := tr.Paths()
	var patterns []string
	for _, e := range entries {
		patterns = append(patterns, e.Pattern)
	}
	assert.Contains(t, patterns, "/a")
	assert.Contains(t, patterns, "/b")
	assert.Contains(t, patterns, "/a/:id")
	// literal siblings are visited alphabetically, so "/a" comes before "/b"
	assert.Less(t, indexOf(patterns, "/a"), indexOf(patterns, "/b"))
}

func indexOf(xs []string, target string) int {
	for i, x := range xs {
		if x == target {
			return i
		}
	}
	return -1
}

func TestLookupManyLiteralsUsesBloomPath(t *testing.T) {
	tr := New[int]()
	for i := 0; i < 50; i++ {
		require.NoError(t, tr.Add("/route"+string(rune('a'+i%26))+string(rune('0'+i/26)), i))
	}
	m, ok := tr.Lookup(Normalize("/routea0"))
	require.True(t, ok)
	assert.Equal(t, 0, m.Value)

	_, ok = tr.Lookup(Normalize("/does-not-exist"))
	assert.False(t, ok)
}
