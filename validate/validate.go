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

// Package validate implements the syntactic bucket-name, object-key, and
// part-number checks this gateway applies to every request. These are
// pure string/regex checks, written directly against stdlib regexp/net,
// the tool AWS's own validation rules are always expressed with.
package validate

import (
	"net"
	"regexp"
	"strings"
)

var bucketNameRE = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]*[a-z0-9]$`)

// BucketName reports whether name is a syntactically valid S3 bucket
// name.
func BucketName(name string) bool {
	if len(name) < 3 || len(name) > 63 {
		return false
	}
	if !bucketNameRE.MatchString(name) {
		return false
	}
	if strings.Contains(name, "..") || strings.Contains(name, ".-") || strings.Contains(name, "-.") {
		return false
	}
	if net.ParseIP(name) != nil {
		return false
	}
	return true
}

// ObjectKey reports whether key is a syntactically valid object key.
// The empty key is valid (bucket-level operations).
func ObjectKey(key string) bool {
	if strings.ContainsRune(key, 0) {
		return false
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "." || seg == ".." {
			return false
		}
	}
	return true
}

var partNumberRE = regexp.MustCompile(`^[1-9][0-9]*$`)

// PartNumber reports whether s is a valid multipart part number: a
// positive decimal integer with no sign or leading zero/plus.
func PartNumber(s string) bool {
	return partNumberRE.MatchString(s)
}
