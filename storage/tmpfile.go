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
	"os"
	"path/filepath"
)

// tmpFile is a handle to a not-yet-visible write target: either an
// unnamed O_TMPFILE inode (Linux, isOTmp true) or a conventionally named
// temp file in the destination's parent directory (every other platform,
// and the Linux fallback when O_TMPFILE isn't supported by the
// filesystem). Grounded on backend/posix/with_otmpfile.go and
// without_otmpfile.go's tmpfile type.
type tmpFile struct {
	f      *os.File
	isOTmp bool
}

func (t *tmpFile) Write(p []byte) (int, error) {
	return t.f.Write(p)
}

// cleanup discards the temp file on any exit path, committed or not:
// closing an O_TMPFILE inode that was never linked frees it automatically;
// removing a named temp file after a successful rename is a harmless
// no-op since the path is already gone.
func (t *tmpFile) cleanup() {
	if !t.isOTmp {
		os.Remove(t.f.Name())
	}
	t.f.Close()
}

func openTmpFileFallback(dir string) (*tmpFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return nil, err
	}
	return &tmpFile{f: f}, nil
}

// renameCommit is the portable commit path shared by the non-Linux build
// and the Linux O_TMPFILE-unsupported fallback: rename the named temp
// file over the destination. Grounded on without_otmpfile.go's link.
func renameCommit(t *tmpFile, finalPath string) error {
	name := t.f.Name()
	if err := t.f.Close(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return err
	}
	return os.Rename(name, finalPath)
}
