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
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/fadlee/mini-s3/reqctx"
	"github.com/fadlee/mini-s3/s3err"
)

// buildCanonicalRequest assembles the six-line canonical request.
// hostValue is only consulted when "host" appears in signedHeaders;
// excludeQueryKey is the decoded query key to drop from canonical-query
// (X-Amz-Signature, for the presigned variant, "" for header-signed
// requests, which sign the query string as-is).
func buildCanonicalRequest(ctx *reqctx.Context, signedHeaders []string, hostValue, payloadHash, excludeQueryKey string) (string, error) {
	uri, err := canonicalURI(ctx.Path)
	if err != nil {
		return "", err
	}
	headersBlock, err := canonicalHeaders(ctx, signedHeaders, hostValue)
	if err != nil {
		return "", err
	}
	return strings.Join([]string{
		ctx.Method,
		uri,
		canonicalQuery(ctx.RawQuery, excludeQueryKey),
		headersBlock,
		strings.Join(signedHeaders, ";"),
		payloadHash,
	}, "\n"), nil
}

// canonicalURI decodes each slash-delimited segment once, then
// AWS-percent-encodes it.
func canonicalURI(path string) (string, error) {
	if path == "" {
		return "/", nil
	}
	if !strings.HasPrefix(path, "/") {
		return "", s3err.GetAPIError(s3err.ErrAuthorizationQueryParametersError)
	}
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		decoded, err := url.PathUnescape(seg)
		if err != nil {
			return "", s3err.GetAPIError(s3err.ErrAuthorizationQueryParametersError)
		}
		segments[i] = awsPercentEncode(decoded)
	}
	return strings.Join(segments, "/"), nil
}

type queryPair struct{ key, value string }

// canonicalQuery builds the canonical query string from the raw query
// string rather than a parsed multimap, since AWS's encoded-key ordering
// depends on re-encoding the decoded key, not the wire key.
func canonicalQuery(rawQuery, excludeKey string) string {
	if rawQuery == "" {
		return ""
	}
	var pairs []queryPair
	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		dk, err := url.PathUnescape(k)
		if err != nil {
			dk = k
		}
		dv, err := url.PathUnescape(v)
		if err != nil {
			dv = v
		}
		if excludeKey != "" && dk == excludeKey {
			continue
		}
		pairs = append(pairs, queryPair{awsPercentEncode(dk), awsPercentEncode(dv)})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].key != pairs[j].key {
			return pairs[i].key < pairs[j].key
		}
		return pairs[i].value < pairs[j].value
	})
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.key + "=" + p.value
	}
	return strings.Join(parts, "&")
}

var whitespaceRunRE = regexp.MustCompile(`\s+`)

// canonicalHeaders builds the canonical-headers block. A missing signed
// header (other than "host", which always has a candidate value supplied
// by the caller) is AccessDenied.
func canonicalHeaders(ctx *reqctx.Context, signedHeaders []string, hostValue string) (string, error) {
	var b strings.Builder
	for _, name := range signedHeaders {
		var value string
		if name == "host" {
			value = hostValue
		} else {
			vs, ok := ctx.Headers[name]
			if !ok || len(vs) == 0 {
				return "", s3err.GetAPIError(s3err.ErrAccessDenied)
			}
			value = strings.Join(vs, ",")
		}
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(whitespaceRunRE.ReplaceAllString(strings.TrimSpace(value), " "))
		b.WriteByte('\n')
	}
	return b.String(), nil
}

const unreserved = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_.~"

var isUnreserved [256]bool

func init() {
	for _, c := range []byte(unreserved) {
		isUnreserved[c] = true
	}
}

// awsPercentEncode is AWS's rawurlencode: percent-encode every byte
// outside the unreserved set as uppercase-hex %XX, preserving "~".
func awsPercentEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved[c] {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hexDigit[c>>4])
		b.WriteByte(hexDigit[c&0xf])
	}
	return b.String()
}

const hexDigit = "0123456789ABCDEF"
