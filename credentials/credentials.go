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

// Package credentials holds the process-wide, immutable accessKeyId ->
// secretKey map, loaded once at startup by the config package.
package credentials

// Table implements sigv4.CredentialLookup over a static map.
type Table struct {
	byAccessKey map[string]string
}

// NewTable builds an immutable lookup table from a loaded credentials map.
// The input is copied; mutating it afterward has no effect on the table.
func NewTable(m map[string]string) *Table {
	t := &Table{byAccessKey: make(map[string]string, len(m))}
	for k, v := range m {
		t.byAccessKey[k] = v
	}
	return t
}

// Lookup resolves accessKeyID to its secret key.
func (t *Table) Lookup(accessKeyID string) (string, bool) {
	if t == nil {
		return "", false
	}
	secret, ok := t.byAccessKey[accessKeyID]
	return secret, ok
}

// Len reports the number of entries in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byAccessKey)
}
