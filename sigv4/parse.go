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

package sigv4

import (
	"regexp"
	"strings"
	"time"

	"github.com/fadlee/mini-s3/s3err"
)

const dateLayout = "20060102"

// credentialScope is the parsed <accessKeyId>/<date>/<region>/<service>/
// aws4_request credential-scope shape shared by both auth paths.
type credentialScope struct {
	AccessKeyID string
	Date        string
	Region      string
}

func parseCredentialScope(s string) (credentialScope, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 5 {
		return credentialScope{}, s3err.GetAPIError(s3err.ErrAuthorizationQueryParametersError)
	}
	if parts[3] != "s3" || parts[4] != "aws4_request" {
		return credentialScope{}, s3err.GetAPIError(s3err.ErrAuthorizationQueryParametersError)
	}
	if _, err := time.Parse(dateLayout, parts[1]); err != nil {
		return credentialScope{}, s3err.GetAPIError(s3err.ErrAuthorizationQueryParametersError)
	}
	return credentialScope{AccessKeyID: parts[0], Date: parts[1], Region: parts[2]}, nil
}

var signedHeaderNameRE = regexp.MustCompile(`^[a-z0-9-]+$`)

// validateSignedHeaders checks the syntax of the SignedHeaders field:
// non-empty, semicolon-separated, each name lowercase-alnum-dash, unique,
// and already sorted ascending.
func validateSignedHeaders(s string) ([]string, bool) {
	if s == "" {
		return nil, false
	}
	names := strings.Split(s, ";")
	seen := make(map[string]bool, len(names))
	for i, n := range names {
		if !signedHeaderNameRE.MatchString(n) {
			return nil, false
		}
		if seen[n] {
			return nil, false
		}
		seen[n] = true
		if i > 0 && names[i-1] >= n {
			return nil, false
		}
	}
	return names, true
}

// headerAuth is the parsed Authorization header of a header-signed
// request.
type headerAuth struct {
	AccessKeyID   string
	Date          string
	Region        string
	SignedHeaders []string
	Signature     string
}

func parseAuthorizationHeader(h string) (headerAuth, error) {
	const prefix = "AWS4-HMAC-SHA256 "
	if !strings.HasPrefix(h, prefix) {
		return headerAuth{}, s3err.GetAPIError(s3err.ErrAuthorizationQueryParametersError)
	}

	var credential, signedHeadersStr, signature string
	var haveCredential, haveSignedHeaders, haveSignature bool

	for _, field := range strings.Split(strings.TrimPrefix(h, prefix), ",") {
		field = strings.TrimSpace(field)
		kv := strings.SplitN(field, "=", 2)
		if len(kv) != 2 {
			return headerAuth{}, s3err.GetAPIError(s3err.ErrAuthorizationQueryParametersError)
		}
		switch strings.TrimSpace(kv[0]) {
		case "Credential":
			credential, haveCredential = kv[1], true
		case "SignedHeaders":
			signedHeadersStr, haveSignedHeaders = kv[1], true
		case "Signature":
			signature, haveSignature = kv[1], true
		}
	}
	if !haveCredential || !haveSignedHeaders || !haveSignature {
		return headerAuth{}, s3err.GetAPIError(s3err.ErrAuthorizationQueryParametersError)
	}

	scope, err := parseCredentialScope(credential)
	if err != nil {
		return headerAuth{}, err
	}
	signedHeaders, ok := validateSignedHeaders(signedHeadersStr)
	if !ok {
		return headerAuth{}, s3err.GetAPIError(s3err.ErrAuthorizationQueryParametersError)
	}

	return headerAuth{
		AccessKeyID:   scope.AccessKeyID,
		Date:          scope.Date,
		Region:        scope.Region,
		SignedHeaders: signedHeaders,
		Signature:     signature,
	}, nil
}
