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
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadlee/mini-s3/reqctx"
	"github.com/fadlee/mini-s3/sigv4"
	"github.com/fadlee/mini-s3/storage"
)

const testAccessKeyID = "AKIDEXAMPLE"

func newTestDispatcher(t *testing.T) *Dispatcher {
	return &Dispatcher{
		Storage: storage.New(t.TempDir()),
		Auth: &sigv4.Authenticator{
			AllowLegacyAccessKeyOnly: true,
			AllowedAccessKeys:        map[string]struct{}{testAccessKeyID: {}},
		},
	}
}

func newCtx(method, path string, query url.Values) *reqctx.Context {
	if query == nil {
		query = url.Values{}
	}
	return &reqctx.Context{
		Method: method,
		Path:   path,
		Query:  query,
		Headers: map[string][]string{
			"authorization": {"AWS " + testAccessKeyID + ":sig"},
		},
	}
}

func TestDispatcher_PutGetHeadDeleteObject(t *testing.T) {
	d := newTestDispatcher(t)

	put := d.Handle(newCtx("PUT", "/bucket/key", nil), strings.NewReader("hello"))
	assert.Equal(t, http.StatusOK, put.Status)

	get := d.Handle(newCtx("GET", "/bucket/key", nil), nil)
	require.Equal(t, http.StatusOK, get.Status)
	require.NotNil(t, get.Stream)
	body, err := io.ReadAll(get.Stream)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, "5", get.Headers["Content-Length"])

	head := d.Handle(newCtx("HEAD", "/bucket/key", nil), nil)
	assert.Equal(t, http.StatusOK, head.Status)
	assert.Equal(t, "5", head.Headers["Content-Length"])

	del := d.Handle(newCtx("DELETE", "/bucket/key", nil), nil)
	assert.Equal(t, http.StatusNoContent, del.Status)

	getAfter := d.Handle(newCtx("GET", "/bucket/key", nil), nil)
	assert.Equal(t, http.StatusNotFound, getAfter.Status)
}

func TestDispatcher_GetObject_Range(t *testing.T) {
	d := newTestDispatcher(t)
	d.Handle(newCtx("PUT", "/bucket/key", nil), strings.NewReader("0123456789"))

	ctx := newCtx("GET", "/bucket/key", nil)
	ctx.Headers["range"] = []string{"bytes=2-4"}
	resp := d.Handle(ctx, nil)

	require.Equal(t, http.StatusPartialContent, resp.Status)
	body, err := io.ReadAll(resp.Stream)
	require.NoError(t, err)
	assert.Equal(t, "234", string(body))
	assert.Equal(t, "bytes 2-4/10", resp.Headers["Content-Range"])
}

func TestDispatcher_GetObject_RangeNotSatisfiable(t *testing.T) {
	d := newTestDispatcher(t)
	d.Handle(newCtx("PUT", "/bucket/key", nil), strings.NewReader("0123456789"))

	ctx := newCtx("GET", "/bucket/key", nil)
	ctx.Headers["range"] = []string{"bytes=100-200"}
	resp := d.Handle(ctx, nil)

	assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, resp.Status)
}

func TestDispatcher_ListObjects(t *testing.T) {
	d := newTestDispatcher(t)
	d.Handle(newCtx("PUT", "/bucket/a", nil), strings.NewReader("x"))
	d.Handle(newCtx("PUT", "/bucket/b", nil), strings.NewReader("y"))

	resp := d.Handle(newCtx("GET", "/bucket", nil), nil)
	require.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, string(resp.Body), "<Key>a</Key>")
	assert.Contains(t, string(resp.Body), "<Key>b</Key>")
}

func TestDispatcher_MultipartLifecycle(t *testing.T) {
	d := newTestDispatcher(t)

	initResp := d.Handle(newCtx("POST", "/bucket/key", url.Values{"uploads": {""}}), nil)
	require.Equal(t, http.StatusOK, initResp.Status)
	uploadID := extractUploadID(t, initResp.Body)
	require.NotEmpty(t, uploadID)

	uploadResp := d.Handle(newCtx("PUT", "/bucket/key", url.Values{
		"uploadId":   {uploadID},
		"partNumber": {"1"},
	}), strings.NewReader("part-one"))
	require.Equal(t, http.StatusOK, uploadResp.Status)
	assert.NotEmpty(t, uploadResp.Headers["ETag"])

	completeBody := `<CompleteMultipartUpload><Part><PartNumber>1</PartNumber></Part></CompleteMultipartUpload>`
	completeResp := d.Handle(newCtx("POST", "/bucket/key", url.Values{"uploadId": {uploadID}}), strings.NewReader(completeBody))
	require.Equal(t, http.StatusOK, completeResp.Status)

	getResp := d.Handle(newCtx("GET", "/bucket/key", nil), nil)
	require.Equal(t, http.StatusOK, getResp.Status)
	body, _ := io.ReadAll(getResp.Stream)
	assert.Equal(t, "part-one", string(body))
}

func TestDispatcher_AbortMultipart(t *testing.T) {
	d := newTestDispatcher(t)
	initResp := d.Handle(newCtx("POST", "/bucket/key", url.Values{"uploads": {""}}), nil)
	uploadID := extractUploadID(t, initResp.Body)

	abortResp := d.Handle(newCtx("DELETE", "/bucket/key", url.Values{"uploadId": {uploadID}}), nil)
	assert.Equal(t, http.StatusNoContent, abortResp.Status)

	abortAgain := d.Handle(newCtx("DELETE", "/bucket/key", url.Values{"uploadId": {uploadID}}), nil)
	assert.Equal(t, http.StatusNotFound, abortAgain.Status)
}

func TestDispatcher_BulkDelete(t *testing.T) {
	d := newTestDispatcher(t)
	d.Handle(newCtx("PUT", "/bucket/a", nil), strings.NewReader("x"))

	body := `<Delete><Object><Key>a</Key></Object><Object><Key>..</Key></Object></Delete>`
	resp := d.Handle(newCtx("POST", "/bucket", url.Values{"delete": {""}}), strings.NewReader(body))

	require.Equalf(t, http.StatusOK, resp.Status, "unexpected response: %s", spew.Sdump(resp))
	out := string(resp.Body)
	assert.Contains(t, out, "<Key>a</Key>")
	assert.Contains(t, out, "InvalidObjectKey")
}

func TestDispatcher_InvalidBucketName(t *testing.T) {
	d := newTestDispatcher(t)
	resp := d.Handle(newCtx("GET", "/A", nil), nil)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Contains(t, string(resp.Body), "InvalidBucketName")
}

func TestDispatcher_InvalidObjectKey(t *testing.T) {
	d := newTestDispatcher(t)
	resp := d.Handle(newCtx("GET", "/bucket/../etc", nil), nil)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.Contains(t, string(resp.Body), "InvalidObjectKey")
}

func TestDispatcher_MethodNotAllowed(t *testing.T) {
	d := newTestDispatcher(t)
	resp := d.Handle(newCtx("PATCH", "/bucket/key", nil), nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Status)
}

func TestDispatcher_HeadBucket_Rejected(t *testing.T) {
	d := newTestDispatcher(t)
	resp := d.Handle(newCtx("HEAD", "/bucket", nil), nil)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestDispatcher_EntityTooLarge(t *testing.T) {
	d := newTestDispatcher(t)
	d.MaxRequestSize = 4

	ctx := newCtx("PUT", "/bucket/key", nil)
	ctx.Headers["content-length"] = []string{"100"}
	resp := d.Handle(ctx, strings.NewReader("x"))
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Status)
}

func TestDispatcher_Unauthenticated(t *testing.T) {
	d := newTestDispatcher(t)
	ctx := newCtx("GET", "/bucket/key", nil)
	ctx.Headers["authorization"] = []string{"AWS unknown-key:sig"}

	resp := d.Handle(ctx, nil)
	assert.Equal(t, http.StatusForbidden, resp.Status)
}

func TestDispatcher_SetsRequestIDHeader(t *testing.T) {
	d := newTestDispatcher(t)
	resp := d.Handle(newCtx("GET", "/bucket/key", nil), nil)
	assert.NotEmpty(t, resp.Headers["x-amz-request-id"])
}

func extractUploadID(t *testing.T, body []byte) string {
	t.Helper()
	start := bytes.Index(body, []byte("<UploadId>"))
	end := bytes.Index(body, []byte("</UploadId>"))
	require.True(t, start >= 0 && end > start)
	return string(body[start+len("<UploadId>") : end])
}
