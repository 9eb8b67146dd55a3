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

//go:build linux

package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"syscall"

	"golang.org/x/sys/unix"
)

const procFdDir = "/proc/self/fd"

// openTmpFile prefers O_TMPFILE (an unnamed inode in dir, linked into the
// namespace only on a successful commit) and falls back to a named temp
// file when the filesystem doesn't support it, mirroring
// with_otmpfile.go's openTmpFile/openMkTemp split.
func openTmpFile(dir string) (*tmpFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	fd, err := unix.Open(dir, unix.O_RDWR|unix.O_TMPFILE|unix.O_CLOEXEC, 0o644)
	if err != nil {
		return openTmpFileFallback(dir)
	}
	f := os.NewFile(uintptr(fd), filepath.Join(procFdDir, strconv.Itoa(fd)))
	return &tmpFile{f: f, isOTmp: true}, nil
}

// commit moves the temp file into its final path, creating the parent
// directory if needed. An O_TMPFILE inode is first linked under a
// dot-prefixed temporary name in the destination directory and then
// renamed over finalPath, so an existing object is replaced in one atomic
// step; the fallback renames the named temp file. Grounded on
// with_otmpfile.go's link/fallbackLink.
func (t *tmpFile) commit(finalPath string) error {
	if !t.isOTmp {
		return renameCommit(t, finalPath)
	}

	dir := filepath.Dir(finalPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	procdir, err := os.Open(procFdDir)
	if err != nil {
		return err
	}
	defer procdir.Close()
	dirf, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer dirf.Close()

	fdName := filepath.Base(t.f.Name())
	linkName := ".tmp-link-" + strconv.Itoa(os.Getpid()) + "-" + fdName
	linkPath := filepath.Join(dir, linkName)
	for {
		err = unix.Linkat(int(procdir.Fd()), fdName, int(dirf.Fd()), linkName, unix.AT_SYMLINK_FOLLOW)
		if errors.Is(err, syscall.EEXIST) {
			if rmErr := os.Remove(linkPath); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
				return rmErr
			}
			continue
		}
		break
	}
	if err != nil {
		return err
	}
	if err := os.Rename(linkPath, finalPath); err != nil {
		os.Remove(linkPath)
		return err
	}
	return t.f.Close()
}
