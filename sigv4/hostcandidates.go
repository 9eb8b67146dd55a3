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
	"net"
	"strings"

	"github.com/fadlee/mini-s3/reqctx"
)

// hostCandidates enumerates the ordered, deduplicated candidate set that
// the authenticator tries, in order, against the signed "host" header
// value.
func hostCandidates(ctx *reqctx.Context, allowFallbacks bool) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(h string) {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" || seen[h] {
			return
		}
		seen[h] = true
		out = append(out, h)
	}

	literal := strings.ToLower(strings.TrimSpace(ctx.Host))
	add(literal)
	addPortVariants(literal, ctx.Scheme, add)

	if allowFallbacks {
		if fwd, _, _ := strings.Cut(ctx.Header("X-Forwarded-Host"), ","); fwd != "" {
			fwd = strings.TrimSpace(fwd)
			add(fwd)
			addPortVariants(fwd, ctx.Scheme, add)
		}
		if ctx.ServerName != "" {
			add(ctx.ServerName)
			if ctx.ServerPort != "" {
				add(ctx.ServerName + ":" + ctx.ServerPort)
			}
		}
	}

	return out
}

// addPortVariants adds the default-port-stripped or -appended variant of
// host so a client that signed "example.com" matches "Host:
// example.com:80" and vice versa.
func addPortVariants(host, scheme string, add func(string)) {
	if host == "" {
		return
	}
	if h, port, err := net.SplitHostPort(host); err == nil {
		if port == "80" || port == "443" {
			add(h)
		}
		return
	}
	if scheme == "https" {
		add(host + ":443")
	} else {
		add(host + ":80")
	}
}
