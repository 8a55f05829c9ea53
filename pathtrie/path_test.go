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

func TestNormalizeBasic(t *testing.T) {
	cases := map[string]string{
		"/a/b/c":       "/a/b/c",
		"/a//b":        "/a/b",
		"/a/./b":       "/a/b",
		"/a/b/../c":    "/a/c",
		"/a/../../b":   "/b",
		"":             "/",
		"/":            "/",
		"a/b":          "/a/b",
		"/a/b/":        "/a/b",
		"/../a":        "/a",
		"/a/b/./../c/": "/a/c",
	}
	for in, want := range cases {
		got := Normalize(in).String()
		assert.Equalf(t, want, got, "Normalize(%q)", in)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"/a/b/c", "/a//b/../c/./d", "", "/", "/x/y/z/../../w"}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once.String())
		assert.True(t, once.Equal(twice), "Normalize not idempotent for %q", in)
		assert.Equal(t, "/", once.String()[:1])
	}
}

func TestNormalizeEquality(t *testing.T) {
	a := Normalize("/a/b/../b")
	b := Normalize("/a/b")
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Hash(), b.Hash())
}

func TestInternerReusesCanonicalForm(t *testing.T) {
	in := NewInterner(8)
	p1 := in.Normalize("/a/b")
	p2 := in.Normalize("/a/b")
	assert.True(t, p1.Equal(p2))
	require.Equal(t, 1, in.Len())
}

func TestInternerEviction(t *testing.T) {
	in := NewInterner(2)
	in.Normalize("/a")
	in.Normalize("/b")
	in.Normalize("/c") // evicts "/a"
	assert.LessOrEqual(t, in.Len(), 2)
	// Semantics must survive eviction: re-normalizing still works.
	assert.Equal(t, "/a", in.Normalize("/a").String())
}

func TestSubPath(t *testing.T) {
	p := Normalize("/a/b/c/d")
	assert.Equal(t, "/b/c", p.SubPath(1, 3).String())
	assert.Equal(t, "/c/d", p.SubPath(2, -1).String())
}
