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
	"fmt"
	"strconv"
	"time"

	"github.com/fadlee/mini-s3/reqctx"
	"github.com/fadlee/mini-s3/s3err"
)

const unsignedPayload = "UNSIGNED-PAYLOAD"

func (a *Authenticator) authenticateHeader(ctx *reqctx.Context) (string, error) {
	auth, err := parseAuthorizationHeader(ctx.Header("Authorization"))
	if err != nil {
		return "", err
	}
	secret, ok := a.Credentials.Lookup(auth.AccessKeyID)
	if !ok {
		return "", s3err.GetAPIError(s3err.ErrInvalidAccessKeyID)
	}

	amzDate, err := time.Parse(amzDateLayout, ctx.Header("x-amz-date"))
	if err != nil {
		return "", s3err.GetAPIError(s3err.ErrAuthorizationQueryParametersError)
	}
	if err := a.checkHeaderSkew(a.now(), amzDate); err != nil {
		return "", err
	}

	payloadHash := ctx.Header("x-amz-content-sha256")
	if payloadHash == "" {
		return "", s3err.GetAPIError(s3err.ErrAccessDenied)
	}

	if err := a.tryVerify(ctx, auth.SignedHeaders, auth.Region, auth.Date, amzDate, payloadHash, "", secret, auth.Signature); err != nil {
		return "", err
	}
	return auth.AccessKeyID, nil
}

func (a *Authenticator) authenticatePresigned(ctx *reqctx.Context) (string, error) {
	if ctx.Query.Get("X-Amz-Algorithm") != "AWS4-HMAC-SHA256" {
		return "", s3err.GetAPIError(s3err.ErrAuthorizationQueryParametersError)
	}

	scope, err := parseCredentialScope(ctx.Query.Get("X-Amz-Credential"))
	if err != nil {
		return "", err
	}
	signedHeaders, ok := validateSignedHeaders(ctx.Query.Get("X-Amz-SignedHeaders"))
	if !ok {
		return "", s3err.GetAPIError(s3err.ErrAuthorizationQueryParametersError)
	}
	signature := ctx.Query.Get("X-Amz-Signature")
	if signature == "" {
		return "", s3err.GetAPIError(s3err.ErrAuthorizationQueryParametersError)
	}
	amzDate, err := time.Parse(amzDateLayout, ctx.Query.Get("X-Amz-Date"))
	if err != nil {
		return "", s3err.GetAPIError(s3err.ErrAuthorizationQueryParametersError)
	}

	secret, ok := a.Credentials.Lookup(scope.AccessKeyID)
	if !ok {
		return "", s3err.GetAPIError(s3err.ErrInvalidAccessKeyID)
	}

	if err := a.checkPresignTemporal(a.now(), amzDate, ctx.Query.Get("X-Amz-Expires")); err != nil {
		return "", err
	}

	if err := a.tryVerify(ctx, signedHeaders, scope.Region, scope.Date, amzDate, unsignedPayload, "X-Amz-Signature", secret, signature); err != nil {
		return "", err
	}
	return scope.AccessKeyID, nil
}

// tryVerify builds and checks the canonical request/signature once per
// host candidate (or once, if "host" isn't a signed header), accepting
// the first match.
func (a *Authenticator) tryVerify(ctx *reqctx.Context, signedHeaders []string, region, dateStr string, amzDate time.Time, payloadHash, excludeQueryKey, secret, wantSignature string) error {
	candidates := []string{""}
	if containsStr(signedHeaders, "host") {
		candidates = hostCandidates(ctx, a.AllowHostCandidateFallbacks)
		if len(candidates) == 0 {
			candidates = []string{""}
		}
	}

	var lastErr error
	for _, host := range candidates {
		canonicalRequest, err := buildCanonicalRequest(ctx, signedHeaders, host, payloadHash, excludeQueryKey)
		if err != nil {
			lastErr = err
			continue
		}
		sts := stringToSign(amzDate, dateStr, region, canonicalRequest)
		sig := computeSignature(secret, dateStr, region, sts)
		matched := constantTimeEqual(sig, wantSignature)
		a.logAttempt(ctx, host, matched)
		if matched {
			return nil
		}
	}
	if lastErr != nil {
		return lastErr
	}
	return s3err.GetAPIError(s3err.ErrSignatureDoesNotMatch)
}

func (a *Authenticator) checkHeaderSkew(now, amzDate time.Time) error {
	diff := now.Sub(amzDate)
	if diff < 0 {
		diff = -diff
	}
	if diff > time.Duration(a.clockSkew())*time.Second {
		return s3err.GetAPIError(s3err.ErrRequestTimeTooSkewed)
	}
	return nil
}

func (a *Authenticator) checkPresignTemporal(now, amzDate time.Time, expiresStr string) error {
	expires, err := strconv.ParseInt(expiresStr, 10, 64)
	if err != nil || expires < 1 || expires > a.maxPresignExpires() {
		return s3err.GetAPIError(s3err.ErrAuthorizationQueryParametersError)
	}
	skew := time.Duration(a.clockSkew()) * time.Second
	if amzDate.After(now.Add(skew)) {
		return s3err.GetAPIError(s3err.ErrRequestTimeTooSkewed)
	}
	if now.After(amzDate.Add(time.Duration(expires) * time.Second)) {
		return s3err.GetAPIError(s3err.ErrExpiredToken)
	}
	return nil
}

func (a *Authenticator) logAttempt(ctx *reqctx.Context, host string, matched bool) {
	if a.Debug == nil {
		return
	}
	fmt.Fprintf(a.Debug, "sigv4 attempt: %s %s host-candidate=%q matched=%v\n", ctx.Method, ctx.Path, host, matched)
}
