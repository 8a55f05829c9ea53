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
	"crypto/sha1"
	"encoding/hex"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ETag is a hex-encoded SHA-1 digest of a file's contents, per the
// strong-validator convention this package uses throughout.
type ETag string

// String renders tag in its quoted wire form.
func (tag ETag) String() string {
	if tag == "" {
		return ""
	}
	return `"` + string(tag) + `"`
}

func computeETag(r io.Reader) (ETag, error) {
	h := sha1.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return ETag(hex.EncodeToString(h.Sum(nil))), nil
}

// fileEntry is the cached metadata for one filesystem path.
type fileEntry struct {
	etag        ETag
	modTime     time.Time
	size        int64
	contentType string
}

// stale reports whether info disagrees with the cached entry's size or
// modification time, meaning the file changed since it was cached.
func (e fileEntry) stale(info fs.FileInfo) bool {
	return e.size != info.Size() || !e.modTime.Equal(info.ModTime())
}

// DefaultCacheCapacity bounds how many file entries InfoCache keeps
// resident before evicting the least recently used.
const DefaultCacheCapacity = 2048

// InfoCache memoizes file metadata (ETag, content type, size,
// modification time) keyed by filesystem path, re-reading a file only
// when its size or mtime has changed since it was last cached.
type InfoCache struct {
	cache *lru.Cache[string, fileEntry]
}

// NewInfoCache builds an InfoCache with the given capacity. A
// non-positive capacity falls back to DefaultCacheCapacity.
func NewInfoCache(capacity int) *InfoCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	c, _ := lru.New[string, fileEntry](capacity)
	return &InfoCache{cache: c}
}

// Stat returns the cached (or freshly computed) metadata for the file
// at fsPath, opened through fsys.
func (c *InfoCache) Stat(fsys fs.FS, fsPath string) (fileEntry, error) {
	info, err := fs.Stat(fsys, fsPath)
	if err != nil {
		return fileEntry{}, err
	}
	if cached, ok := c.cache.Get(fsPath); ok && !cached.stale(info) {
		return cached, nil
	}

	f, err := fsys.Open(fsPath)
	if err != nil {
		return fileEntry{}, err
	}
	defer f.Close()

	tag, err := computeETag(f)
	if err != nil {
		return fileEntry{}, err
	}

	entry := fileEntry{
		etag:        tag,
		modTime:     info.ModTime(),
		size:        info.Size(),
		contentType: sniffContentType(fsys, fsPath, info),
	}
	c.cache.Add(fsPath, entry)
	return entry, nil
}

// Len reports how many entries are currently cached.
func (c *InfoCache) Len() int { return c.cache.Len() }

// Purge evicts fsPath's cached entry, forcing the next Stat to recompute it.
func (c *InfoCache) Purge(fsPath string) { c.cache.Remove(fsPath) }

func sniffContentType(fsys fs.FS, fsPath string, info fs.FileInfo) string {
	if ext := path.Ext(fsPath); ext != "" {
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
	}
	f, err := fsys.Open(fsPath)
	if err != nil {
		return "application/octet-stream"
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, _ := io.ReadFull(f, buf)
	return http.DetectContentType(buf[:n])
}

// fingerprintSeparator is the character joining a file's base name to
// its content digest in a cache-busted URL, per §6's
// "/<path>/<base>@<hex-hash><ext>" format. Unlike ".", it can't be
// confused with a multi-dot filename such as "app.min.js".
const fingerprintSeparator = '@'

// CacheBuster computes and validates fingerprinted asset URLs of the
// form "name@<etag12>.ext", so a far-future Cache-Control can be set
// safely: any content change produces a new URL.
type CacheBuster struct {
	cache *InfoCache
	fsys  fs.FS
}

// NewCacheBuster builds a CacheBuster reading through fsys, sharing
// cache's memoized file metadata.
func NewCacheBuster(fsys fs.FS, cache *InfoCache) *CacheBuster {
	return &CacheBuster{cache: cache, fsys: fsys}
}

// Fingerprint returns the cache-busted URL path for fsPath, e.g.
// "/app.js" -> "/app@3f29ab11cd44.js".
func (b *CacheBuster) Fingerprint(fsPath string) (string, error) {
	entry, err := b.cache.Stat(b.fsys, strings.TrimPrefix(fsPath, "/"))
	if err != nil {
		return "", err
	}
	ext := path.Ext(fsPath)
	base := strings.TrimSuffix(fsPath, ext)
	digest := string(entry.etag)
	if len(digest) > 12 {
		digest = digest[:12]
	}
	return base + string(fingerprintSeparator) + digest + ext, nil
}

// Resolve strips a fingerprint segment from requestPath and reports
// the underlying filesystem path, only if the embedded digest matches
// the file's current content — a stale fingerprint is treated as a
// miss so callers fall through to a 404 rather than serving superseded
// content under an old URL.
func (b *CacheBuster) Resolve(requestPath string) (fsPath string, ok bool) {
	ext := path.Ext(requestPath)
	withoutExt := strings.TrimSuffix(requestPath, ext)
	base, digest := splitLast(withoutExt, fingerprintSeparator)
	if digest == "" {
		return "", false
	}
	candidate := base + ext
	entry, err := b.cache.Stat(b.fsys, strings.TrimPrefix(candidate, "/"))
	if err != nil {
		return "", false
	}
	if !strings.HasPrefix(string(entry.etag), digest) {
		return "", false
	}
	return candidate, true
}

func splitLast(s string, sep byte) (before, after string) {
	idx := strings.LastIndexByte(s, sep)
	if idx < 0 {
		return s, ""
	}
	return s[:idx], s[idx+1:]
}
