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

package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucketName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"valid", "my-bucket.1", true},
		{"too short", "ab", false},
		{"too long", string(make([]byte, 64)), false},
		{"uppercase", "MyBucket", false},
		{"leading dash", "-bucket", false},
		{"trailing dot", "bucket.", false},
		{"double dot", "my..bucket", false},
		{"dot dash", "my.-bucket", false},
		{"dash dot", "my-.bucket", false},
		{"ip address", "192.168.1.1", false},
		{"minimal valid", "abc", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BucketName(tt.in))
		})
	}
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"empty is valid", "", true},
		{"simple", "a/b/c", true},
		{"dot segment", "a/./b", false},
		{"dotdot segment", "a/../b", false},
		{"nul byte", "a\x00b", false},
		{"bare dot", ".", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectKey(tt.in))
		})
	}
}

func TestPartNumber(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"valid", "1", true},
		{"valid multi-digit", "10000", true},
		{"zero", "0", false},
		{"negative", "-1", false},
		{"leading zero", "01", false},
		{"leading plus", "+1", false},
		{"empty", "", false},
		{"non-numeric", "abc", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PartNumber(tt.in))
		})
	}
}
