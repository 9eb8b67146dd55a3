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

// Package sigv4 implements AWS Signature Version 4 verification for both
// header-signed and presigned-URL requests. It has no dependency on the
// embedding HTTP framework, consuming the neutral reqctx.Context instead
// of a fiber.Ctx directly. Canonicalization is hand-rolled against
// stdlib crypto/hmac and crypto/sha256 rather than delegating to a signer
// package, since no available signer exposes a knob for trying multiple
// host candidates against one signature or for the legacy-access-key-only
// fallback this gateway supports.
package sigv4

import (
	"strings"
	"time"

	"github.com/fadlee/mini-s3/reqctx"
	"github.com/fadlee/mini-s3/s3err"
)

// CredentialLookup resolves an access key id to its secret key. A static
// map-backed implementation lives in the credentials package; this
// interface keeps sigv4 ignorant of how the table was loaded.
type CredentialLookup interface {
	Lookup(accessKeyID string) (secretKey string, ok bool)
}

// Authenticator holds the configuration knobs that bear on signature
// verification.
type Authenticator struct {
	Credentials CredentialLookup

	AllowLegacyAccessKeyOnly bool
	AllowedAccessKeys        map[string]struct{}

	ClockSkewSeconds  int64
	MaxPresignExpires int64

	AllowHostCandidateFallbacks bool

	// Debug, if non-nil, receives one line per host-candidate attempt.
	// Kept as a plain io.Writer rather than the ambient logger so this
	// package stays usable without the rest of the stack wired up.
	Debug Writer

	// Now returns the current time; defaults to time.Now. Overridden in
	// tests for deterministic skew/expiry checks.
	Now func() time.Time
}

// Writer is the minimal sink the attempt-trace debug log writes to.
type Writer interface {
	Write(p []byte) (int, error)
}

func (a *Authenticator) now() time.Time {
	if a.Now != nil {
		return a.Now().UTC()
	}
	return time.Now().UTC()
}

func (a *Authenticator) clockSkew() int64 {
	if a.ClockSkewSeconds > 0 {
		return a.ClockSkewSeconds
	}
	return 900
}

func (a *Authenticator) maxPresignExpires() int64 {
	if a.MaxPresignExpires > 0 {
		return a.MaxPresignExpires
	}
	return 604800
}

// Authenticate selects the auth path (presigned, header-signed, or
// legacy access-key-only) and runs full verification on it. On success it
// returns the verified access key id.
func (a *Authenticator) Authenticate(ctx *reqctx.Context) (string, error) {
	switch {
	case isPresigned(ctx):
		return a.authenticatePresigned(ctx)
	case strings.HasPrefix(ctx.Header("Authorization"), "AWS4-HMAC-SHA256"):
		return a.authenticateHeader(ctx)
	default:
		if accessKey := a.legacyAccessKey(ctx); accessKey != "" {
			return accessKey, nil
		}
		return "", s3err.GetAPIError(s3err.ErrAccessDenied)
	}
}

func isPresigned(ctx *reqctx.Context) bool {
	return ctx.QueryHas("X-Amz-Algorithm") ||
		ctx.QueryHas("X-Amz-Credential") ||
		ctx.QueryHas("X-Amz-Signature")
}

// legacyAccessKey returns the access key id to accept under
// ALLOW_LEGACY_ACCESS_KEY_ONLY mode, or "" if legacy mode is disabled or
// the extracted key isn't allow-listed. The access key may come from
// either an (otherwise unverified) Authorization header or a presigned
// X-Amz-Credential. Legacy mode only ever runs when neither matched a
// full auth path in Authenticate's switch, so this is best-effort
// extraction, not verification.
func (a *Authenticator) legacyAccessKey(ctx *reqctx.Context) string {
	if !a.AllowLegacyAccessKeyOnly {
		return ""
	}
	accessKey := extractAccessKey(ctx.Header("Authorization"))
	if accessKey == "" {
		accessKey = extractAccessKey(ctx.Query.Get("X-Amz-Credential"))
	}
	if accessKey == "" {
		return ""
	}
	if _, ok := a.AllowedAccessKeys[accessKey]; !ok {
		return ""
	}
	return accessKey
}

// extractAccessKey pulls a bare access key id out of either an
// Authorization header (AWS4-HMAC-SHA256 Credential=<key>/..., or the
// legacy "AWS <key>:<sig>" form) or a raw X-Amz-Credential value
// (<key>/date/region/s3/aws4_request), without verifying anything.
func extractAccessKey(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "AWS4-HMAC-SHA256 ") {
		for _, field := range strings.Split(strings.TrimPrefix(raw, "AWS4-HMAC-SHA256 "), ",") {
			field = strings.TrimSpace(field)
			if v, ok := strings.CutPrefix(field, "Credential="); ok {
				raw = v
				break
			}
		}
	} else if v, ok := strings.CutPrefix(raw, "AWS "); ok {
		if key, _, found := strings.Cut(v, ":"); found {
			return key
		}
		return v
	}
	if key, _, found := strings.Cut(raw, "/"); found {
		return key
	}
	return raw
}

func containsStr(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
