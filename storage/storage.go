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

// Package storage implements object placement on a filesystem, atomic
// writes, and multipart-session management. It knows nothing about HTTP,
// SigV4, or S3 XML, acting as the backend-agnostic operation layer
// underneath the request dispatcher.
package storage

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const multipartRootName = ".multipart"

// Engine roots every operation at a single DATA_DIR. One Engine instance
// serves one server process; there is no cross-instance consistency.
type Engine struct {
	Root string
}

// New returns an Engine rooted at root. Callers must ensure root exists.
func New(root string) *Engine {
	return &Engine{Root: root}
}

// ObjectInfo is the metadata the engine tracks per object: key, size,
// and mtime. No other per-object metadata is kept.
type ObjectInfo struct {
	Key     string
	Size    int64
	ModTime time.Time
}

func (e *Engine) bucketDir(bucket string) string {
	return filepath.Join(e.Root, bucket)
}

// objectPath maps a (bucket, key) to its on-disk path, under the
// "DATA_DIR/<bucket>/<key>" layout, with "/" becoming the OS separator.
func (e *Engine) objectPath(bucket, key string) string {
	return filepath.Join(e.bucketDir(bucket), filepath.FromSlash(key))
}

// PutObject atomically writes body to (bucket, key). It reports the
// number of bytes written, for the caller's metrics.
func (e *Engine) PutObject(bucket, key string, body io.Reader) (int64, error) {
	_, size, err := atomicWrite(e.objectPath(bucket, key), body)
	return size, err
}

// GetObject opens (bucket, key) for reading and reports its current
// size/mtime. The caller owns the returned file and must Close it; range
// slicing and streaming chunking are the Dispatcher's concern, not the
// engine's.
func (e *Engine) GetObject(bucket, key string) (*os.File, ObjectInfo, error) {
	path := e.objectPath(bucket, key)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ObjectInfo{}, errNotFound(err)
		}
		return nil, ObjectInfo{}, errIoError(err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, errIoError(err)
	}
	if fi.IsDir() {
		f.Close()
		return nil, ObjectInfo{}, errNotFound(nil)
	}
	return f, ObjectInfo{Key: key, Size: fi.Size(), ModTime: fi.ModTime()}, nil
}

// HeadObject reports (bucket, key)'s metadata without opening its content
// for reading.
func (e *Engine) HeadObject(bucket, key string) (ObjectInfo, error) {
	fi, err := os.Stat(e.objectPath(bucket, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ObjectInfo{}, errNotFound(err)
		}
		return ObjectInfo{}, errIoError(err)
	}
	if fi.IsDir() {
		return ObjectInfo{}, errNotFound(nil)
	}
	return ObjectInfo{Key: key, Size: fi.Size(), ModTime: fi.ModTime()}, nil
}

// DeleteObject unlinks (bucket, key). Absent is success.
func (e *Engine) DeleteObject(bucket, key string) error {
	err := os.Remove(e.objectPath(bucket, key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errIoError(err)
	}
	return nil
}

// ListObjects walks bucket recursively and returns every regular file
// whose key (relative path with "/" separators) starts with prefix,
// excluding dot-prefixed filenames and the .multipart tree, sorted by key
// ascending.
func (e *Engine) ListObjects(bucket, prefix string) ([]ObjectInfo, error) {
	root := e.bucketDir(bucket)
	var out []ObjectInfo
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		out = append(out, ObjectInfo{Key: key, Size: fi.Size(), ModTime: fi.ModTime()})
		return nil
	})
	if err != nil {
		return nil, errIoError(err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// atomicWrite writes body to a temp file in finalPath's parent directory
// and commits it atomically, returning the MD5 of the written content and
// its size. On any failure the temp file is discarded and finalPath is
// untouched.
func atomicWrite(finalPath string, body io.Reader) (string, int64, error) {
	tf, err := openTmpFile(filepath.Dir(finalPath))
	if err != nil {
		return "", 0, errIoError(err)
	}
	defer tf.cleanup()

	h := md5.New()
	n, err := io.Copy(io.MultiWriter(tf, h), body)
	if err != nil {
		return "", 0, errIoError(err)
	}
	if err := tf.commit(finalPath); err != nil {
		return "", 0, errIoError(err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
