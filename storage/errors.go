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

package storage

// Kind discriminates the storage engine's typed failures. The Dispatcher
// maps a Kind to an s3err.APIError by calling context (e.g. KindNotFound
// means NoSuchKey under a plain object operation but NoSuchUpload under a
// multipart one).
type Kind int

const (
	KindNotFound Kind = iota
	KindInvalidPart
	KindIoError
)

// Error is the engine's uniform typed failure, mirroring the shape of
// s3err.APIError one level down the stack: a small fixed discriminator
// plus the underlying cause for logs, never for the client response.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	switch e.Kind {
	case KindNotFound:
		return "not found"
	case KindInvalidPart:
		return "invalid part"
	default:
		return "io error"
	}
}

func (e *Error) Unwrap() error { return e.Err }

func errNotFound(err error) *Error    { return &Error{Kind: KindNotFound, Err: err} }
func errInvalidPart(err error) *Error { return &Error{Kind: KindInvalidPart, Err: err} }
func errIoError(err error) *Error     { return &Error{Kind: KindIoError, Err: err} }
