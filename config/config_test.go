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

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCredentials(t *testing.T) {
	m := ParseCredentials("AKID1:secret1, AKID2:secret2,malformed")
	require.Len(t, m, 2)
	assert.Equal(t, "secret1", m["AKID1"])
	assert.Equal(t, "secret2", m["AKID2"])
}

func TestParseAllowedAccessKeys(t *testing.T) {
	m := ParseAllowedAccessKeys("AKID1, AKID2")
	require.Len(t, m, 2)
	_, ok := m["AKID1"]
	assert.True(t, ok)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "credentials present",
			cfg:     Config{Credentials: map[string]string{"a": "b"}},
			wantErr: false,
		},
		{
			name: "legacy mode with allow-list",
			cfg: Config{
				AllowLegacyAccessKeyOnly: true,
				AllowedAccessKeys:        map[string]struct{}{"a": {}},
			},
			wantErr: false,
		},
		{
			name:    "nothing configured",
			cfg:     Config{},
			wantErr: true,
		},
		{
			name: "legacy mode without allow-list",
			cfg: Config{
				AllowLegacyAccessKeyOnly: true,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
