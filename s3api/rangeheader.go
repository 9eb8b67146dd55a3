// Copyright 2026 fadlee
// This file is licensed under the Apache License, Version 2.0
// (the "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package s3api

import (
	"strconv"
	"strings"
)

// byteRange is an inclusive [start, end] byte range resolved against a
// known object size.
type byteRange struct {
	start, end int64
}

// parseRange parses the Range header grammar: "bytes=N-", "bytes=N-M",
// "bytes=-N" (suffix). Any other syntax is ignored (full body, 200),
// signaled by ok=false with satisfiable=true. satisfiable=false means the
// syntax parsed but the numeric combination is out of bounds (416).
func parseRange(header string, size int64) (r byteRange, ok bool, satisfiable bool) {
	const prefix = "bytes="
	if !strings.HasPrefix(header, prefix) {
		return byteRange{}, false, true
	}
	spec := strings.TrimPrefix(header, prefix)
	if strings.Contains(spec, ",") {
		// Multiple ranges aren't supported; treat as unparseable (full body).
		return byteRange{}, false, true
	}

	dash := strings.IndexByte(spec, '-')
	if dash < 0 {
		return byteRange{}, false, true
	}
	startStr, endStr := spec[:dash], spec[dash+1:]

	switch {
	case startStr == "" && endStr != "":
		// Suffix range: last N bytes.
		n, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || n < 0 {
			return byteRange{}, false, true
		}
		if n == 0 || size == 0 {
			return byteRange{}, true, false
		}
		start := size - n
		if start < 0 {
			start = 0
		}
		return byteRange{start: start, end: size - 1}, true, true

	case startStr != "":
		start, err := strconv.ParseInt(startStr, 10, 64)
		if err != nil || start < 0 {
			return byteRange{}, false, true
		}
		if start >= size {
			return byteRange{}, true, false
		}
		end := size - 1
		if endStr != "" {
			e, err := strconv.ParseInt(endStr, 10, 64)
			if err != nil {
				return byteRange{}, false, true
			}
			if e < start {
				// Syntactically valid but start > end: an invalid numeric
				// combination (416), not unparseable syntax (200).
				return byteRange{}, true, false
			}
			if e < end {
				end = e
			}
		}
		return byteRange{start: start, end: end}, true, true

	default:
		return byteRange{}, false, true
	}
}
