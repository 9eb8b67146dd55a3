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
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/fadlee/mini-s3/reqctx"
	"github.com/fadlee/mini-s3/s3err"
)

func (d *Dispatcher) putObject(ctx *reqctx.Context, body io.Reader, bucket, key, resource string) *Response {
	size, err := d.Storage.PutObject(bucket, key, body)
	if err != nil {
		d.Metrics.Send(err, "PutObject", 0, 0)
		return errorResponse(mapStorageError(err, false), resource)
	}
	d.notify("PutObject", bucket, key, size, 0)
	return emptyResponse(http.StatusOK)
}

// getObject handles GetObject, including optional Range handling and
// chunked streaming (never buffering the whole object).
func (d *Dispatcher) getObject(ctx *reqctx.Context, bucket, key, resource string) *Response {
	f, info, err := d.Storage.GetObject(bucket, key)
	if err != nil {
		d.Metrics.Send(err, "GetObject", 0, 0)
		return errorResponse(mapStorageError(err, false), resource)
	}
	d.Metrics.Send(nil, "GetObject", info.Size, 0)

	headers := map[string]string{
		"Content-Type":        "application/octet-stream",
		"Accept-Ranges":       "bytes",
		"Content-Disposition": `attachment; filename="` + path.Base(key) + `"`,
	}

	rangeHdr := ctx.Header("Range")
	if rangeHdr == "" {
		headers["Content-Length"] = strconv.FormatInt(info.Size, 10)
		return &Response{Status: http.StatusOK, Headers: headers, Stream: f, StreamSize: info.Size}
	}

	r, parsed, satisfiable := parseRange(rangeHdr, info.Size)
	if !parsed {
		// Unrecognized syntax: ignore, return full body.
		headers["Content-Length"] = strconv.FormatInt(info.Size, 10)
		return &Response{Status: http.StatusOK, Headers: headers, Stream: f, StreamSize: info.Size}
	}
	if !satisfiable {
		f.Close()
		headers["Content-Range"] = "bytes */" + strconv.FormatInt(info.Size, 10)
		return &Response{Status: http.StatusRequestedRangeNotSatisfiable, Headers: headers}
	}

	if _, err := f.Seek(r.start, io.SeekStart); err != nil {
		f.Close()
		return errorResponse(s3err.GetAPIError(s3err.ErrInternalError), resource)
	}
	length := r.end - r.start + 1
	headers["Content-Range"] = "bytes " + strconv.FormatInt(r.start, 10) + "-" + strconv.FormatInt(r.end, 10) + "/" + strconv.FormatInt(info.Size, 10)
	headers["Content-Length"] = strconv.FormatInt(length, 10)
	return &Response{
		Status:     http.StatusPartialContent,
		Headers:    headers,
		Stream:     &limitedReadCloser{r: io.LimitReader(f, length), c: f},
		StreamSize: length,
	}
}

func (d *Dispatcher) headObject(bucket, key, resource string) *Response {
	info, err := d.Storage.HeadObject(bucket, key)
	if err != nil {
		return errorResponse(mapStorageError(err, false), resource)
	}
	return &Response{
		Status: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":   "application/octet-stream",
			"Accept-Ranges":  "bytes",
			"Content-Length": strconv.FormatInt(info.Size, 10),
		},
	}
}

func (d *Dispatcher) deleteObject(bucket, key, resource string) *Response {
	if err := d.Storage.DeleteObject(bucket, key); err != nil {
		d.Metrics.Send(err, "DeleteObject", 0, 0)
		return errorResponse(mapStorageError(err, false), resource)
	}
	d.notify("DeleteObject", bucket, key, 0, 0)
	return emptyResponse(http.StatusNoContent)
}

// limitedReadCloser pairs an io.LimitReader view over an open file with
// that file's Close, so the streaming response layer can close exactly
// the underlying *os.File once the ranged read completes or the client
// disconnects.
type limitedReadCloser struct {
	r io.Reader
	c io.Closer
}

func (l *limitedReadCloser) Read(p []byte) (int, error) { return l.r.Read(p) }
func (l *limitedReadCloser) Close() error               { return l.c.Close() }
