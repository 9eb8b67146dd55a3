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

// Package s3err defines the S3 error taxonomy: a fixed table mapping an
// internal error code to the XML <Code>/<Message> pair and HTTP status
// clients expect, plus the <Error> document encoder.
package s3err

import (
	"bytes"
	"encoding/xml"
	"net/http"
)

// ErrorCode is a discriminator into the fixed error table below.
type ErrorCode int

const (
	ErrNone ErrorCode = iota

	// Authentication
	ErrAccessDenied
	ErrInvalidAccessKeyID
	ErrSignatureDoesNotMatch
	ErrAuthorizationQueryParametersError
	ErrRequestTimeTooSkewed
	ErrExpiredToken

	// Request shape
	ErrInvalidBucketName
	ErrInvalidObjectKey
	ErrInvalidPart
	ErrMalformedXML
	ErrInvalidRequest
	ErrEntityTooLarge
	ErrMethodNotAllowed

	// Resource
	ErrNoSuchKey
	ErrNoSuchUpload

	// Server
	ErrInternalError
)

// APIError is the static (code, message, HTTP status) triple for one
// ErrorCode. It implements error so callers can return it directly up the
// call chain.
type APIError struct {
	Code           string
	Description    string
	HTTPStatusCode int
}

func (e APIError) Error() string {
	return e.Code + ": " + e.Description
}

var errorCodeResponse = map[ErrorCode]APIError{
	ErrAccessDenied: {
		Code:           "AccessDenied",
		Description:    "Access Denied",
		HTTPStatusCode: http.StatusForbidden,
	},
	ErrInvalidAccessKeyID: {
		Code:           "InvalidAccessKeyId",
		Description:    "The AWS access key Id you provided does not exist in our records.",
		HTTPStatusCode: http.StatusForbidden,
	},
	ErrSignatureDoesNotMatch: {
		Code:           "SignatureDoesNotMatch",
		Description:    "The request signature we calculated does not match the signature you provided.",
		HTTPStatusCode: http.StatusForbidden,
	},
	ErrAuthorizationQueryParametersError: {
		Code:           "AuthorizationQueryParametersError",
		Description:    "Error parsing the X-Amz-Credential parameter; the Credential is malformed.",
		HTTPStatusCode: http.StatusBadRequest,
	},
	ErrRequestTimeTooSkewed: {
		Code:           "RequestTimeTooSkewed",
		Description:    "The difference between the request time and the server's time is too large.",
		HTTPStatusCode: http.StatusForbidden,
	},
	ErrExpiredToken: {
		Code:           "ExpiredToken",
		Description:    "The provided token has expired.",
		HTTPStatusCode: http.StatusForbidden,
	},
	ErrInvalidBucketName: {
		Code:           "InvalidBucketName",
		Description:    "The specified bucket is not valid.",
		HTTPStatusCode: http.StatusBadRequest,
	},
	ErrInvalidObjectKey: {
		Code:           "InvalidObjectKey",
		Description:    "The specified object key is not valid.",
		HTTPStatusCode: http.StatusBadRequest,
	},
	ErrInvalidPart: {
		Code:           "InvalidPart",
		Description:    "One or more of the specified parts could not be found.",
		HTTPStatusCode: http.StatusBadRequest,
	},
	ErrMalformedXML: {
		Code:           "MalformedXML",
		Description:    "The XML you provided was not well-formed or did not validate against our published schema.",
		HTTPStatusCode: http.StatusBadRequest,
	},
	ErrInvalidRequest: {
		Code:           "InvalidRequest",
		Description:    "Invalid request.",
		HTTPStatusCode: http.StatusBadRequest,
	},
	ErrEntityTooLarge: {
		Code:           "EntityTooLarge",
		Description:    "Your proposed upload exceeds the maximum allowed size.",
		HTTPStatusCode: http.StatusRequestEntityTooLarge,
	},
	ErrMethodNotAllowed: {
		Code:           "MethodNotAllowed",
		Description:    "The specified method is not allowed against this resource.",
		HTTPStatusCode: http.StatusMethodNotAllowed,
	},
	ErrNoSuchKey: {
		Code:           "NoSuchKey",
		Description:    "The specified key does not exist.",
		HTTPStatusCode: http.StatusNotFound,
	},
	ErrNoSuchUpload: {
		Code:           "NoSuchUpload",
		Description:    "The specified multipart upload does not exist. The upload ID may be invalid, or the upload may have been aborted or completed.",
		HTTPStatusCode: http.StatusNotFound,
	},
	ErrInternalError: {
		Code:           "InternalError",
		Description:    "We encountered an internal error. Please try again.",
		HTTPStatusCode: http.StatusInternalServerError,
	},
}

// GetAPIError looks up the static error for code.
func GetAPIError(code ErrorCode) APIError {
	return errorCodeResponse[code]
}

// ErrorResponse is the <Error> document body.
type ErrorResponse struct {
	XMLName  xml.Name `xml:"Error"`
	Code     string   `xml:"Code"`
	Message  string   `xml:"Message"`
	Resource string   `xml:"Resource"`
}

// EncodeError renders an <Error> document for err against the given
// resource path. resource should be "/" when no bucket/key scope is
// known.
func EncodeError(err APIError, resource string) []byte {
	if resource == "" {
		resource = "/"
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	_ = xml.NewEncoder(&buf).Encode(ErrorResponse{
		Code:     err.Code,
		Message:  err.Description,
		Resource: resource,
	})
	return buf.Bytes()
}
