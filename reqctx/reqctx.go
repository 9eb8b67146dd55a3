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

// Package reqctx normalizes a single inbound HTTP request into the
// neutral shape the Authenticator, Validators, and Dispatcher consume.
// Apart from the HTTP edge (s3api/server.go and cmd/s3fsgw), it is the
// only package in this module that knows about the embedding HTTP
// framework (fiber); the Authenticator, Validators, Storage Engine, and
// Dispatcher logic read and write plain Go values through the Context
// type below.
package reqctx

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Context is a normalized view of one HTTP request.
type Context struct {
	Method string

	// Path is the request path as fiber's c.Path() reports it, which
	// (without fiber's UnescapePath option) is the path as received, e.g.
	// "/bucket/key%20with%20spaces". The Dispatcher and the Authenticator
	// each URL-decode its segments once; nothing here decodes it.
	Path string

	// RawQuery is the query string exactly as received on the wire,
	// unmodified. The Authenticator needs this verbatim for
	// canonicalization.
	RawQuery string

	// Query is RawQuery decoded into a multimap.
	Query url.Values

	// Headers holds header values keyed by lowercased header name. Each
	// value is exactly as received except for leading/trailing
	// whitespace, which canonicalization (not retrieval) trims.
	Headers map[string][]string

	Host   string
	Scheme string

	ServerName string
	ServerPort string
}

// Header returns the first value for the given header name (case
// insensitive), or "" if absent.
func (c *Context) Header(name string) string {
	vs := c.Headers[strings.ToLower(name)]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// QueryHas reports whether key is present in the raw query string at all
// (even with an empty value), the test the Dispatcher's routing table uses
// for flags like ?uploads or ?delete.
func (c *Context) QueryHas(key string) bool {
	_, ok := c.Query[key]
	return ok
}

// FromFiber builds a Context from a live fiber request. The HTTP server
// itself handles TLS termination and body decoding; this is the single
// narrow seam where that external layer's data crosses into the core.
func FromFiber(c *fiber.Ctx) *Context {
	rawQuery := string(c.Request().URI().QueryString())

	query := make(url.Values)
	if vals, err := url.ParseQuery(rawQuery); err == nil {
		query = vals
	}

	headers := make(map[string][]string)
	c.Request().Header.VisitAll(func(key, value []byte) {
		k := strings.ToLower(string(key))
		headers[k] = append(headers[k], string(value))
	})

	scheme := "http"
	if c.Protocol() == "https" {
		scheme = "https"
	} else if strings.EqualFold(c.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}

	serverName, serverPort := splitHostPort(string(c.Context().LocalAddr().String()))

	return &Context{
		Method:     strings.ToUpper(c.Method()),
		Path:       c.Path(),
		RawQuery:   rawQuery,
		Query:      query,
		Headers:    headers,
		Host:       c.Get("Host"),
		Scheme:     scheme,
		ServerName: serverName,
		ServerPort: serverPort,
	}
}

func splitHostPort(addr string) (host, port string) {
	idx := strings.LastIndex(addr, ":")
	if idx < 0 {
		return addr, ""
	}
	return addr[:idx], addr[idx+1:]
}
