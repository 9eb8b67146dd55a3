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

// Package auditlog provides structured per-request logging: one line per
// request at info level carrying method, bucket, key, status, and a
// request id, and a warn-level line for signature mismatches. It is
// separate from the narrower, dependency-free sigv4.Writer debug sink, so
// sigv4 remains testable without this package wired in.
package auditlog

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Logger wraps a charmbracelet/log logger with the request-scoped fields
// this gateway always logs.
type Logger struct {
	l *log.Logger
}

// New builds a Logger writing to w (os.Stdout in cmd/s3fsgw, an
// in-memory buffer in tests).
func New(w io.Writer) *Logger {
	return &Logger{
		l: log.NewWithOptions(w, log.Options{
			Level:           log.InfoLevel,
			TimeFormat:      time.RFC3339,
			ReportTimestamp: true,
			TimeFunction:    log.NowUTC,
		}),
	}
}

// NewRequestID generates a fresh request id for one inbound request.
func NewRequestID() string {
	return uuid.NewString()
}

// Request logs one completed request at info level.
func (g *Logger) Request(requestID, method, bucket, key string, status int) {
	if g == nil {
		return
	}
	g.l.Info("request",
		"request_id", requestID,
		"method", method,
		"bucket", bucket,
		"key", key,
		"status", status,
	)
}

// SignatureMismatch logs a failed signature verification attempt at warn
// level, carrying the host candidates that were tried.
func (g *Logger) SignatureMismatch(requestID string, hostCandidates []string, reason string) {
	if g == nil {
		return
	}
	g.l.Warn("signature mismatch",
		"request_id", requestID,
		"host_candidates", hostCandidates,
		"reason", reason,
	)
}
