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

package s3err

import (
	"encoding/xml"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAPIError(t *testing.T) {
	err := GetAPIError(ErrNoSuchKey)
	assert.Equal(t, "NoSuchKey", err.Code)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatusCode)
}

func TestAPIError_Error(t *testing.T) {
	err := GetAPIError(ErrAccessDenied)
	assert.Equal(t, "AccessDenied: Access Denied", err.Error())
}

func TestEncodeError(t *testing.T) {
	body := EncodeError(GetAPIError(ErrNoSuchKey), "/bucket/key")

	var decoded ErrorResponse
	require.NoError(t, xml.Unmarshal(body, &decoded))
	assert.Equal(t, "NoSuchKey", decoded.Code)
	assert.Equal(t, "/bucket/key", decoded.Resource)
}

func TestEncodeError_DefaultsResourceToRoot(t *testing.T) {
	body := EncodeError(GetAPIError(ErrInternalError), "")

	var decoded ErrorResponse
	assert.NoError(t, xml.Unmarshal(body, &decoded))
	assert.Equal(t, "/", decoded.Resource)
}
