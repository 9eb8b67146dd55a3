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
	"net/http"

	"github.com/fadlee/mini-s3/reqctx"
	"github.com/fadlee/mini-s3/s3response"
)

func (d *Dispatcher) listObjects(ctx *reqctx.Context, bucket, resource string) *Response {
	prefix := ctx.Query.Get("prefix")
	objects, err := d.Storage.ListObjects(bucket, prefix)
	if err != nil {
		return errorResponse(mapStorageError(err, false), resource)
	}

	contents := make([]s3response.Contents, len(objects))
	for i, o := range objects {
		contents[i] = s3response.Contents{
			Key:          o.Key,
			LastModified: s3response.FormatTimestamp(o.ModTime),
			Size:         o.Size,
			StorageClass: "STANDARD",
		}
	}
	return xmlResponse(http.StatusOK, s3response.EncodeListBucketResult(bucket, prefix, contents))
}
