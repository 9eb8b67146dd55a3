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

package auditlog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_Request(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.Request("req-1", "GET", "bucket", "key", 200)

	out := buf.String()
	assert.Contains(t, out, "req-1")
	assert.Contains(t, out, "GET")
	assert.Contains(t, out, "bucket")
	assert.Contains(t, out, "key")
	assert.Contains(t, out, "200")
}

func TestLogger_SignatureMismatch(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.SignatureMismatch("req-2", []string{"example.com", "example.com:80"}, "no candidate matched")

	out := buf.String()
	assert.Contains(t, out, "req-2")
	assert.Contains(t, out, "no candidate matched")
	assert.Contains(t, out, "example.com")
}

func TestLogger_NilReceiverIsNoOp(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Request("req-3", "GET", "bucket", "key", 200)
		l.SignatureMismatch("req-3", nil, "reason")
	})
}

func TestNewRequestID_IsUnique(t *testing.T) {
	a := NewRequestID()
	b := NewRequestID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}
