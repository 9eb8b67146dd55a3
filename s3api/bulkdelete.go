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
	"encoding/xml"
	"io"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/fadlee/mini-s3/reqctx"
	"github.com/fadlee/mini-s3/s3err"
	"github.com/fadlee/mini-s3/s3response"
	"github.com/fadlee/mini-s3/validate"
)

func decodeXML(body io.Reader, v any) error {
	return xml.NewDecoder(body).Decode(v)
}

// bulkDelete validates each key, deletes the valid ones (absent-is-success),
// and reports an <Error> entry for the rest. Deletes fan out with a
// bounded errgroup rather than an unbounded goroutine per object.
func (d *Dispatcher) bulkDelete(ctx *reqctx.Context, body io.Reader, bucket, resource string) *Response {
	var req s3response.Delete
	if err := decodeXML(body, &req); err != nil {
		return errorResponse(s3err.GetAPIError(s3err.ErrMalformedXML), resource)
	}

	var mu sync.Mutex
	var deleted []s3response.Deleted
	var errs []s3response.DeleteError

	g := new(errgroup.Group)
	g.SetLimit(16)

	for _, obj := range req.Objects {
		key := obj.Key
		if !validate.ObjectKey(key) {
			mu.Lock()
			errs = append(errs, s3response.DeleteError{Key: key, Code: "InvalidObjectKey", Message: "The specified object key is not valid."})
			mu.Unlock()
			continue
		}
		g.Go(func() error {
			if err := d.Storage.DeleteObject(bucket, key); err != nil {
				d.Metrics.Send(err, "DeleteObject", 0, 0)
				mu.Lock()
				errs = append(errs, s3response.DeleteError{Key: key, Code: "InternalError", Message: "We encountered an internal error. Please try again."})
				mu.Unlock()
				return nil
			}
			d.notify("DeleteObject", bucket, key, 0, 0)
			mu.Lock()
			deleted = append(deleted, s3response.Deleted{Key: key})
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	d.Metrics.Send(nil, "DeleteObjects", 0, int64(len(deleted)))
	return xmlResponse(http.StatusOK, s3response.EncodeDeleteResult(req.Quiet, deleted, errs))
}
