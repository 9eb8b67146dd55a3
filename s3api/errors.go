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
	"errors"

	"github.com/fadlee/mini-s3/s3err"
	"github.com/fadlee/mini-s3/storage"
)

// mapStorageError maps the Storage Engine's typed failures to an API
// error: NotFound means NoSuchKey under a plain object operation but
// NoSuchUpload under a multipart one; InvalidPart and everything else map
// context-independently.
func mapStorageError(err error, multipartContext bool) s3err.APIError {
	var se *storage.Error
	if errors.As(err, &se) {
		switch se.Kind {
		case storage.KindNotFound:
			if multipartContext {
				return s3err.GetAPIError(s3err.ErrNoSuchUpload)
			}
			return s3err.GetAPIError(s3err.ErrNoSuchKey)
		case storage.KindInvalidPart:
			return s3err.GetAPIError(s3err.ErrInvalidPart)
		}
	}
	return s3err.GetAPIError(s3err.ErrInternalError)
}
