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
	"net/url"
	"strconv"
	"strings"

	"github.com/fadlee/mini-s3/auditlog"
	"github.com/fadlee/mini-s3/metrics"
	"github.com/fadlee/mini-s3/reqctx"
	"github.com/fadlee/mini-s3/s3err"
	"github.com/fadlee/mini-s3/sigv4"
	"github.com/fadlee/mini-s3/storage"
	"github.com/fadlee/mini-s3/validate"
)

// Dispatcher owns the routing table and wires the Authenticator and
// Storage Engine together for every request.
type Dispatcher struct {
	Storage        *storage.Engine
	Auth           *sigv4.Authenticator
	MaxRequestSize int64

	// OnEvent, if non-nil, is invoked best-effort after a mutating
	// operation commits successfully (PutObject, CompleteMultipart,
	// DeleteObject/BulkDelete). Never allowed to affect the response.
	OnEvent func(action, bucket, key string)

	// Metrics, if non-nil, records a Send call for PutObject, GetObject,
	// DeleteObject, DeleteObjects (BulkDelete), and
	// CompleteMultipartUpload; the other actions send no metrics. A nil
	// Metrics is a valid no-op receiver (see metrics.Manager.Send).
	Metrics *metrics.Manager

	// Logger, if non-nil, writes one structured line per request.
	Logger *auditlog.Logger
}

// Handle is the single entry point: every error path, including ones the
// Authenticator and Storage Engine raise, is converted here into a
// Response. Nothing above this layer ever sees a Go error.
func (d *Dispatcher) Handle(ctx *reqctx.Context, body io.Reader) *Response {
	requestID := auditlog.NewRequestID()
	resp := d.route(ctx, body)
	resp.setHeader("x-amz-request-id", requestID)
	d.Logger.Request(requestID, ctx.Method, resp.bucket, resp.key, resp.Status)
	return resp
}

func (d *Dispatcher) route(ctx *reqctx.Context, body io.Reader) *Response {
	bucket, key, err := extractBucketKey(ctx.Path)
	if err != nil {
		return errorResponse(s3err.GetAPIError(s3err.ErrInvalidObjectKey), "/")
	}
	resource := "/" + bucket
	if key != "" {
		resource += "/" + key
	}

	if bucket == "" {
		return errorResponse(s3err.GetAPIError(s3err.ErrInvalidBucketName), resource).withScope(bucket, key)
	}
	if !validate.BucketName(bucket) {
		return errorResponse(s3err.GetAPIError(s3err.ErrInvalidBucketName), resource).withScope(bucket, key)
	}
	if !validate.ObjectKey(key) {
		return errorResponse(s3err.GetAPIError(s3err.ErrInvalidObjectKey), resource).withScope(bucket, key)
	}

	if cl := ctx.Header("Content-Length"); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil && d.MaxRequestSize > 0 && n > d.MaxRequestSize {
			return errorResponse(s3err.GetAPIError(s3err.ErrEntityTooLarge), resource).withScope(bucket, key)
		}
	}

	if _, err := d.Auth.Authenticate(ctx); err != nil {
		apiErr, ok := err.(s3err.APIError)
		if !ok {
			apiErr = s3err.GetAPIError(s3err.ErrAccessDenied)
		}
		return errorResponse(apiErr, resource).withScope(bucket, key)
	}

	hasUploadID := ctx.QueryHas("uploadId")
	hasPartNumber := ctx.QueryHas("partNumber")
	hasUploads := ctx.QueryHas("uploads")
	hasDelete := ctx.QueryHas("delete")
	keyEmpty := key == ""

	resp := d.dispatch(ctx, body, bucket, key, resource, hasUploadID, hasPartNumber, hasUploads, hasDelete, keyEmpty)
	return resp.withScope(bucket, key)
}

func (d *Dispatcher) dispatch(ctx *reqctx.Context, body io.Reader, bucket, key, resource string, hasUploadID, hasPartNumber, hasUploads, hasDelete, keyEmpty bool) *Response {
	switch ctx.Method {
	case "PUT":
		if hasUploadID && hasPartNumber {
			return d.uploadPart(ctx, body, bucket, key, resource)
		}
		return d.putObject(ctx, body, bucket, key, resource)

	case "POST":
		switch {
		case hasDelete:
			return d.bulkDelete(ctx, body, bucket, resource)
		case hasUploads:
			return d.initiateMultipart(bucket, key, resource)
		case hasUploadID:
			return d.completeMultipart(ctx, body, bucket, key, resource)
		default:
			return errorResponse(s3err.GetAPIError(s3err.ErrInvalidRequest), resource)
		}

	case "GET":
		if keyEmpty {
			return d.listObjects(ctx, bucket, resource)
		}
		return d.getObject(ctx, bucket, key, resource)

	case "HEAD":
		if keyEmpty {
			return errorResponse(s3err.GetAPIError(s3err.ErrInvalidRequest), resource)
		}
		return d.headObject(bucket, key, resource)

	case "DELETE":
		if hasUploadID {
			return d.abortMultipart(ctx, bucket, key, resource)
		}
		return d.deleteObject(bucket, key, resource)

	default:
		return errorResponse(s3err.GetAPIError(s3err.ErrMethodNotAllowed), resource)
	}
}

// notify records a successful mutating operation to the metrics counters
// and the event-notification sink. Both tolerate a nil receiver/field, so
// callers don't need to guard on whether either is configured.
func (d *Dispatcher) notify(action, bucket, key string, objSize, objCount int64) {
	d.Metrics.Send(nil, action, objSize, objCount)
	if d.OnEvent != nil {
		d.OnEvent(action, bucket, key)
	}
}

// extractBucketKey trims the leading "/", splits on "/", and URL-decodes
// each segment.
func extractBucketKey(path string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return "", "", nil
	}
	segments := strings.Split(trimmed, "/")
	for i, seg := range segments {
		decoded, derr := url.PathUnescape(seg)
		if derr != nil {
			return "", "", derr
		}
		segments[i] = decoded
	}
	bucket = segments[0]
	if len(segments) > 1 {
		key = strings.Join(segments[1:], "/")
	}
	return bucket, key, nil
}
