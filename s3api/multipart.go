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
	"strconv"

	"github.com/fadlee/mini-s3/reqctx"
	"github.com/fadlee/mini-s3/s3err"
	"github.com/fadlee/mini-s3/s3response"
	"github.com/fadlee/mini-s3/validate"
)

func (d *Dispatcher) initiateMultipart(bucket, key, resource string) *Response {
	uploadID, err := d.Storage.InitiateMultipart(bucket, key)
	if err != nil {
		return errorResponse(mapStorageError(err, true), resource)
	}
	return xmlResponse(http.StatusOK, s3response.EncodeInitiateMultipartUploadResult(bucket, key, uploadID))
}

func (d *Dispatcher) uploadPart(ctx *reqctx.Context, body io.Reader, bucket, key, resource string) *Response {
	uploadID := ctx.Query.Get("uploadId")
	partNumberStr := ctx.Query.Get("partNumber")
	if !validate.PartNumber(partNumberStr) {
		return errorResponse(s3err.GetAPIError(s3err.ErrInvalidPart), resource)
	}
	partNumber, _ := strconv.Atoi(partNumberStr)

	etag, err := d.Storage.UploadPart(bucket, key, uploadID, partNumber, body)
	if err != nil {
		return errorResponse(mapStorageError(err, true), resource)
	}
	return &Response{
		Status:  http.StatusOK,
		Headers: map[string]string{"ETag": etag},
	}
}

// completeMultipartRequest mirrors the body schema of a
// CompleteMultipartUpload request.
type completeMultipartRequest struct {
	Parts []struct {
		PartNumber int `xml:"PartNumber"`
	} `xml:"Part"`
}

func (d *Dispatcher) completeMultipart(ctx *reqctx.Context, body io.Reader, bucket, key, resource string) *Response {
	uploadID := ctx.Query.Get("uploadId")

	var req completeMultipartRequest
	if err := decodeXML(body, &req); err != nil {
		return errorResponse(s3err.GetAPIError(s3err.ErrMalformedXML), resource)
	}
	partNumbers := make([]int, len(req.Parts))
	for i, p := range req.Parts {
		partNumbers[i] = p.PartNumber
	}

	if err := d.Storage.CompleteMultipart(bucket, key, uploadID, partNumbers); err != nil {
		d.Metrics.Send(err, "CompleteMultipartUpload", 0, 0)
		return errorResponse(mapStorageError(err, true), resource)
	}
	d.notify("CompleteMultipartUpload", bucket, key, 0, 0)
	location := "/" + bucket + "/" + key
	return xmlResponse(http.StatusOK, s3response.EncodeCompleteMultipartUploadResult(location, bucket, key, uploadID))
}

func (d *Dispatcher) abortMultipart(ctx *reqctx.Context, bucket, key, resource string) *Response {
	uploadID := ctx.Query.Get("uploadId")
	if err := d.Storage.AbortMultipart(bucket, key, uploadID); err != nil {
		return errorResponse(mapStorageError(err, true), resource)
	}
	return emptyResponse(http.StatusNoContent)
}
