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
	"fmt"
	"strconv"
	"strings"
)

// byteRange is one inclusive [start, end] span within a Range header.
type byteRange struct {
	start, end int64 // both inclusive, both resolved against size
}

func (r byteRange) length() int64 { return r.end - r.start + 1 }

func (r byteRange) contentRange(size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.start, r.end, size)
}

// parseRanges parses a Range header value (e.g. "bytes=0-499,600-") for
// a resource of the given size. An unsatisfiable range (start beyond
// size) is dropped; if every range turns out unsatisfiable, ok is
// false and the caller should respond 416.
func parseRanges(header string, size int64) (ranges []byteRange, ok bool) {
	const prefix = "bytes="
	if !strings.HasPrefix(header, prefix) || size <= 0 {
		return nil, false
	}
	specs := strings.Split(header[len(prefix):], ",")
	for _, spec := range specs {
		spec = strings.TrimSpace(spec)
		dash := strings.IndexByte(spec, '-')
		if dash < 0 {
			continue
		}
		startStr, endStr := spec[:dash], spec[dash+1:]

		var r byteRange
		switch {
		case startStr == "" && endStr == "":
			continue
		case startStr == "":
			// suffix range: last N bytes
			n, err := strconv.ParseInt(endStr, 10, 64)
			if err != nil || n <= 0 {
				continue
			}
			if n > size {
				n = size
			}
			r = byteRange{start: size - n, end: size - 1}
		case endStr == "":
			start, err := strconv.ParseInt(startStr, 10, 64)
			if err != nil || start >= size {
				continue
			}
			r = byteRange{start: start, end: size - 1}
		default:
			start, err1 := strconv.ParseInt(startStr, 10, 64)
			end, err2 := strconv.ParseInt(endStr, 10, 64)
			if err1 != nil || err2 != nil || start > end || start >= size {
				continue
			}
			if end >= size {
				end = size - 1
			}
			r = byteRange{start: start, end: end}
		}
		ranges = append(ranges, r)
	}
	if len(ranges) == 0 {
		return nil, false
	}
	return ranges, true
}
