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

// Package s3response builds the S3 XML response documents:
// ListBucketResult, InitiateMultipartUploadResult,
// CompleteMultipartUploadResult, and DeleteResult. Element names and
// nesting follow the AWS SDK XML schema bit-exact.
package s3response

import (
	"bytes"
	"encoding/xml"
	"time"
)

const timestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in the fixed S3 timestamp shape.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// Contents is one <Contents> entry in a ListBucketResult.
type Contents struct {
	Key          string `xml:"Key"`
	LastModified string `xml:"LastModified"`
	Size         int64  `xml:"Size"`
	StorageClass string `xml:"StorageClass"`
}

// ListBucketResult is the GET-bucket (ListObjects) response body.
type ListBucketResult struct {
	XMLName     xml.Name   `xml:"ListBucketResult"`
	Name        string     `xml:"Name"`
	Prefix      string     `xml:"Prefix"`
	MaxKeys     int        `xml:"MaxKeys"`
	IsTruncated bool       `xml:"IsTruncated"`
	Contents    []Contents `xml:"Contents"`
}

// InitiateMultipartUploadResult is the POST-?uploads response body.
type InitiateMultipartUploadResult struct {
	XMLName  xml.Name `xml:"InitiateMultipartUploadResult"`
	Bucket   string   `xml:"Bucket"`
	Key      string   `xml:"Key"`
	UploadID string   `xml:"UploadId"`
}

// CompleteMultipartUploadResult is the POST-?uploadId= response body.
type CompleteMultipartUploadResult struct {
	XMLName  xml.Name `xml:"CompleteMultipartUploadResult"`
	Location string   `xml:"Location"`
	Bucket   string   `xml:"Bucket"`
	Key      string   `xml:"Key"`
	UploadID string   `xml:"UploadId"`
}

// Deleted is one successfully-deleted entry in a DeleteResult.
type Deleted struct {
	Key string `xml:"Key"`
}

// DeleteError is one rejected entry in a DeleteResult.
type DeleteError struct {
	Key     string `xml:"Key"`
	Code    string `xml:"Code"`
	Message string `xml:"Message"`
}

// DeleteResult is the POST-?delete (BulkDelete) response body.
type DeleteResult struct {
	XMLName xml.Name      `xml:"DeleteResult"`
	Deleted []Deleted     `xml:"Deleted,omitempty"`
	Error   []DeleteError `xml:"Error,omitempty"`
}

// Delete is the request body of a BulkDelete (POST ?delete) call.
type Delete struct {
	XMLName xml.Name       `xml:"Delete"`
	Quiet   bool           `xml:"Quiet"`
	Objects []DeleteObject `xml:"Object"`
}

// DeleteObject is one <Object><Key>…</Key></Object> entry in a Delete body.
type DeleteObject struct {
	Key string `xml:"Key"`
}

// encode renders v as a UTF-8 XML document with the standard header.
func encode(v any) []byte {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	_ = xml.NewEncoder(&buf).Encode(v)
	return buf.Bytes()
}

// EncodeListBucketResult renders a ListBucketResult document. MaxKeys is
// always reported as 1000 and IsTruncated as false: the storage engine
// has no pagination.
func EncodeListBucketResult(bucket, prefix string, contents []Contents) []byte {
	return encode(ListBucketResult{
		Name:        bucket,
		Prefix:      prefix,
		MaxKeys:     1000,
		IsTruncated: false,
		Contents:    contents,
	})
}

// EncodeInitiateMultipartUploadResult renders an
// InitiateMultipartUploadResult document.
func EncodeInitiateMultipartUploadResult(bucket, key, uploadID string) []byte {
	return encode(InitiateMultipartUploadResult{
		Bucket:   bucket,
		Key:      key,
		UploadID: uploadID,
	})
}

// EncodeCompleteMultipartUploadResult renders a
// CompleteMultipartUploadResult document.
func EncodeCompleteMultipartUploadResult(location, bucket, key, uploadID string) []byte {
	return encode(CompleteMultipartUploadResult{
		Location: location,
		Bucket:   bucket,
		Key:      key,
		UploadID: uploadID,
	})
}

// EncodeDeleteResult renders a DeleteResult document, omitting <Deleted>
// entries when quiet is set.
func EncodeDeleteResult(quiet bool, deleted []Deleted, errs []DeleteError) []byte {
	r := DeleteResult{Error: errs}
	if !quiet {
		r.Deleted = deleted
	}
	return encode(r)
}
