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

package reqctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext_Header(t *testing.T) {
	c := &Context{Headers: map[string][]string{"x-amz-date": {"20260806T000000Z"}}}
	assert.Equal(t, "20260806T000000Z", c.Header("X-Amz-Date"))
	assert.Equal(t, "", c.Header("Missing"))
}

func TestContext_QueryHas(t *testing.T) {
	c := &Context{Query: map[string][]string{"uploads": {""}}}
	assert.True(t, c.QueryHas("uploads"))
	assert.False(t, c.QueryHas("delete"))
}

func TestSplitHostPort(t *testing.T) {
	tests := []struct {
		name     string
		addr     string
		wantHost string
		wantPort string
	}{
		{"host and port", "127.0.0.1:9000", "127.0.0.1", "9000"},
		{"no port", "localhost", "localhost", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, port := splitHostPort(tt.addr)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantPort, port)
		})
	}
}
