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

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// keyNamespace derives a scratch-storage namespace from key: SHA-256(key),
// or the literal string "_root" when the key is empty. This guarantees
// multipart scratch storage never collides with another object's
// namespace regardless of key shape.
func keyNamespace(key string) string {
	if key == "" {
		return "_root"
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func (e *Engine) multipartRoot() string {
	return filepath.Join(e.Root, multipartRootName)
}

func (e *Engine) multipartBucketDir(bucket string) string {
	return filepath.Join(e.multipartRoot(), bucket)
}

func (e *Engine) multipartKeyDir(bucket, key string) string {
	return filepath.Join(e.multipartBucketDir(bucket), keyNamespace(key))
}

func (e *Engine) multipartSessionDir(bucket, key, uploadID string) string {
	return filepath.Join(e.multipartKeyDir(bucket, key), uploadID)
}

func (e *Engine) multipartPartPath(bucket, key, uploadID string, partNumber int) string {
	return filepath.Join(e.multipartSessionDir(bucket, key, uploadID), strconv.Itoa(partNumber))
}

// newUploadID generates a 128-bit random token rendered as 32 lowercase
// hex characters.
func newUploadID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// InitiateMultipart creates a new session directory for (bucket, key) and
// returns its uploadId. Two Initiates for the same (bucket, key) produce
// two distinct, mutually isolated sessions.
func (e *Engine) InitiateMultipart(bucket, key string) (string, error) {
	uploadID, err := newUploadID()
	if err != nil {
		return "", errIoError(err)
	}
	dir := e.multipartSessionDir(bucket, key, uploadID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errIoError(err)
	}
	return uploadID, nil
}

// sessionExists reports whether uploadID names a live session for
// (bucket, key).
func (e *Engine) sessionExists(bucket, key, uploadID string) bool {
	fi, err := os.Stat(e.multipartSessionDir(bucket, key, uploadID))
	return err == nil && fi.IsDir()
}

// UploadPart atomically writes body as partNumber within uploadID's
// session, overwriting any existing part with the same number, and
// returns the MD5 of the written part as its ETag.
func (e *Engine) UploadPart(bucket, key, uploadID string, partNumber int, body io.Reader) (string, error) {
	if !e.sessionExists(bucket, key, uploadID) {
		return "", errNotFound(nil)
	}
	etag, _, err := atomicWrite(e.multipartPartPath(bucket, key, uploadID, partNumber), body)
	if err != nil {
		return "", err
	}
	return etag, nil
}

// CompleteMultipart validates the session and part list, streams the
// parts in ascending order into the final object, and on success removes
// the session directory and opportunistically prunes now-empty parent
// directories, touching only this session, never a sibling uploadID under
// the same (bucket, key).
func (e *Engine) CompleteMultipart(bucket, key, uploadID string, partNumbers []int) error {
	sessionDir := e.multipartSessionDir(bucket, key, uploadID)
	if !e.sessionExists(bucket, key, uploadID) {
		return errNotFound(nil)
	}

	parts, err := normalizePartNumbers(partNumbers)
	if err != nil {
		return err
	}

	partPaths := make([]string, len(parts))
	for i, n := range parts {
		p := filepath.Join(sessionDir, strconv.Itoa(n))
		if _, err := os.Stat(p); err != nil {
			return errInvalidPart(fmt.Errorf("part %d: %w", n, err))
		}
		partPaths[i] = p
	}

	finalPath := e.objectPath(bucket, key)
	tf, err := openTmpFile(filepath.Dir(finalPath))
	if err != nil {
		return errIoError(err)
	}
	defer tf.cleanup()

	for _, p := range partPaths {
		pf, err := os.Open(p)
		if err != nil {
			return errIoError(err)
		}
		_, err = io.Copy(tf, pf)
		pf.Close()
		if err != nil {
			return errIoError(err)
		}
	}

	if err := tf.commit(finalPath); err != nil {
		return errIoError(err)
	}

	e.cleanupSession(bucket, key, uploadID)
	return nil
}

// AbortMultipart removes uploadID's session directory and prunes now-empty
// parents, leaving sibling sessions on the same (bucket, key) untouched.
func (e *Engine) AbortMultipart(bucket, key, uploadID string) error {
	if !e.sessionExists(bucket, key, uploadID) {
		return errNotFound(nil)
	}
	e.cleanupSession(bucket, key, uploadID)
	return nil
}

// cleanupSession removes exactly this session's directory, then
// opportunistically removes the key-namespace directory, the bucket's
// multipart subtree, and the .multipart root, each only if now empty.
// Because every step is an "only if empty" removal of this session's own
// ancestor chain, a sibling uploadID directory (which keeps the
// key-namespace directory non-empty) is never touched.
func (e *Engine) cleanupSession(bucket, key, uploadID string) {
	sessionDir := e.multipartSessionDir(bucket, key, uploadID)
	os.RemoveAll(sessionDir)
	removeIfEmpty(e.multipartKeyDir(bucket, key))
	removeIfEmpty(e.multipartBucketDir(bucket))
	removeIfEmpty(e.multipartRoot())
}

func removeIfEmpty(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) > 0 {
		return
	}
	os.Remove(dir)
}

// normalizePartNumbers de-duplicates and sorts part numbers ascending,
// rejecting an empty or non-positive list.
func normalizePartNumbers(partNumbers []int) ([]int, error) {
	if len(partNumbers) == 0 {
		return nil, errInvalidPart(errors.New("empty part list"))
	}
	seen := make(map[int]bool, len(partNumbers))
	var out []int
	for _, n := range partNumbers {
		if n <= 0 {
			return nil, errInvalidPart(fmt.Errorf("non-positive part number %d", n))
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}
