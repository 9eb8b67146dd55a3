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

// Package s3api implements the S3 request dispatcher: it wires the
// Request Context, Validators, SigV4 Authenticator, Storage Engine, and
// XML Encoder into one routing table over (method, queryFlags, keyEmpty),
// using a single catch-all handler rather than per-resource fiber routes.
package s3api

import (
	"io"

	"github.com/fadlee/mini-s3/s3err"
)

// Response is the single shape every dispatch path produces; at most one
// of Body or Stream is set (neither, for empty-bodied responses). The HTTP layer (server.go) is the only place
// that writes a Response to the wire, so handlers return a typed
// response up the call chain to one emission point rather than writing
// to the wire inline.
type Response struct {
	Status  int
	Headers map[string]string

	Body []byte

	Stream     io.ReadCloser
	StreamSize int64

	// bucket/key are filled in by route() after a handler returns, for
	// the audit log line. Handlers themselves don't need to know about
	// logging, so they never set these directly.
	bucket, key string
}

func (r *Response) setHeader(name, value string) {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[name] = value
}

func (r *Response) withScope(bucket, key string) *Response {
	r.bucket, r.key = bucket, key
	return r
}

func xmlResponse(status int, body []byte) *Response {
	return &Response{
		Status:  status,
		Headers: map[string]string{"Content-Type": "application/xml"},
		Body:    body,
	}
}

func errorResponse(apiErr s3err.APIError, resource string) *Response {
	return xmlResponse(apiErr.HTTPStatusCode, s3err.EncodeError(apiErr, resource))
}

func emptyResponse(status int) *Response {
	return &Response{Status: status, Headers: map[string]string{}}
}
