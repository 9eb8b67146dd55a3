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

// Package config loads the gateway's startup configuration: credentials,
// listen port, region, and the rest of the tunables, with a
// flag-plus-env-var-fallback shape and a fail-fast-on-invalid-startup
// posture.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds every gateway startup knob.
type Config struct {
	Port   string
	Region string

	DataDir        string
	MaxRequestSize int64

	// Credentials maps accessKeyId to secretKey, parsed from a
	// "key1:secret1,key2:secret2" CREDENTIALS value.
	Credentials map[string]string

	// AllowedAccessKeys is the legacy-mode allow-list, parsed from a
	// comma-separated ALLOWED_ACCESS_KEYS value.
	AllowedAccessKeys map[string]struct{}

	AllowLegacyAccessKeyOnly    bool
	ClockSkewSeconds            int64
	MaxPresignExpires           int64
	AllowHostCandidateFallbacks bool

	// AuthDebugLog is a path to the signature-mismatch trace log; empty
	// disables it.
	AuthDebugLog string
}

// Validate fails startup if Credentials is empty and legacy mode isn't
// enabled with a non-empty allow-list.
func (c *Config) Validate() error {
	if len(c.Credentials) == 0 && !(c.AllowLegacyAccessKeyOnly && len(c.AllowedAccessKeys) > 0) {
		return fmt.Errorf("config: CREDENTIALS is empty and ALLOW_LEGACY_ACCESS_KEY_ONLY is not enabled with a non-empty ALLOWED_ACCESS_KEYS")
	}
	return nil
}

// ParseCredentials parses a "key1:secret1,key2:secret2" string.
func ParseCredentials(s string) map[string]string {
	m := make(map[string]string)
	for _, pair := range splitNonEmpty(s, ",") {
		key, secret, ok := strings.Cut(pair, ":")
		if !ok || key == "" || secret == "" {
			continue
		}
		m[key] = secret
	}
	return m
}

// ParseAllowedAccessKeys parses a comma-separated access-key list.
func ParseAllowedAccessKeys(s string) map[string]struct{} {
	m := make(map[string]struct{})
	for _, key := range splitNonEmpty(s, ",") {
		m[key] = struct{}{}
	}
	return m
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt64Or(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func envBoolOr(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// FromEnv builds a Config from environment variables and defaults. It is
// the configuration surface cmd/s3fsgw's CLI flags bind onto via
// Destination fields with EnvVars fallbacks, exposed here directly so it
// can be exercised without going through urfave/cli.
func FromEnv() *Config {
	return &Config{
		Port:                        envOr("PORT", ":7070"),
		Region:                      envOr("REGION", "us-east-1"),
		DataDir:                     envOr("DATA_DIR", "./data"),
		MaxRequestSize:              envInt64Or("MAX_REQUEST_SIZE", 5<<30),
		Credentials:                 ParseCredentials(os.Getenv("CREDENTIALS")),
		AllowedAccessKeys:           ParseAllowedAccessKeys(os.Getenv("ALLOWED_ACCESS_KEYS")),
		AllowLegacyAccessKeyOnly:    envBoolOr("ALLOW_LEGACY_ACCESS_KEY_ONLY", false),
		ClockSkewSeconds:            envInt64Or("CLOCK_SKEW_SECONDS", 900),
		MaxPresignExpires:           envInt64Or("MAX_PRESIGN_EXPIRES", 604800),
		AllowHostCandidateFallbacks: envBoolOr("ALLOW_HOST_CANDIDATE_FALLBACKS", false),
		AuthDebugLog:                os.Getenv("AUTH_DEBUG_LOG"),
	}
}
