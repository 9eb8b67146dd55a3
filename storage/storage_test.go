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
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_PutGetHeadDelete(t *testing.T) {
	e := New(t.TempDir())

	n, err := e.PutObject("bucket", "key", strings.NewReader("hello world"))
	require.NoError(t, err)
	assert.Equal(t, int64(11), n)

	f, info, err := e.GetObject("bucket", "key")
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, int64(11), info.Size)
	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(body))

	head, err := e.HeadObject("bucket", "key")
	require.NoError(t, err)
	assert.Equal(t, int64(11), head.Size)

	require.NoError(t, e.DeleteObject("bucket", "key"))
	_, _, err = e.GetObject("bucket", "key")
	require.Error(t, err)
	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindNotFound, se.Kind)
}

func TestEngine_DeleteObject_AbsentIsSuccess(t *testing.T) {
	e := New(t.TempDir())
	assert.NoError(t, e.DeleteObject("bucket", "missing"))
}

func TestEngine_GetObject_NotFound(t *testing.T) {
	e := New(t.TempDir())
	_, _, err := e.GetObject("bucket", "missing")
	require.Error(t, err)
	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindNotFound, se.Kind)
}

func TestEngine_HeadObject_DirectoryIsNotFound(t *testing.T) {
	e := New(t.TempDir())
	_, err := e.PutObject("bucket", "dir/key", strings.NewReader("x"))
	require.NoError(t, err)

	_, err = e.HeadObject("bucket", "dir")
	require.Error(t, err)
	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindNotFound, se.Kind)
}

func TestEngine_ListObjects(t *testing.T) {
	e := New(t.TempDir())
	for _, key := range []string{"a/1", "a/2", "b/1"} {
		_, err := e.PutObject("bucket", key, strings.NewReader("x"))
		require.NoError(t, err)
	}

	all, err := e.ListObjects("bucket", "")
	require.NoError(t, err)
	wantKeys := []string{"a/1", "a/2", "b/1"}
	gotKeys := make([]string, len(all))
	for i, o := range all {
		gotKeys[i] = o.Key
	}
	if diff := cmp.Diff(wantKeys, gotKeys); diff != "" {
		t.Fatalf("ListObjects keys mismatch (-want +got):\n%s", diff)
	}

	filtered, err := e.ListObjects("bucket", "a/")
	require.NoError(t, err)
	filteredKeys := make([]string, len(filtered))
	for i, o := range filtered {
		filteredKeys[i] = o.Key
	}
	if diff := cmp.Diff(wantKeys[:2], filteredKeys); diff != "" {
		t.Fatalf("ListObjects with prefix mismatch (-want +got):\n%s", diff)
	}
}

func TestEngine_ListObjects_EmptyBucketIsNotError(t *testing.T) {
	e := New(t.TempDir())
	out, err := e.ListObjects("missing-bucket", "")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestEngine_ListObjects_SkipsMultipartTree(t *testing.T) {
	e := New(t.TempDir())
	_, err := e.PutObject("bucket", "key", strings.NewReader("x"))
	require.NoError(t, err)
	_, err = e.InitiateMultipart("bucket", "other")
	require.NoError(t, err)

	out, err := e.ListObjects("bucket", "")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "key", out[0].Key)
}

func TestEngine_MultipartLifecycle(t *testing.T) {
	e := New(t.TempDir())

	uploadID, err := e.InitiateMultipart("bucket", "key")
	require.NoError(t, err)
	assert.Len(t, uploadID, 32)

	_, err = e.UploadPart("bucket", "key", uploadID, 2, strings.NewReader("world"))
	require.NoError(t, err)
	_, err = e.UploadPart("bucket", "key", uploadID, 1, strings.NewReader("hello "))
	require.NoError(t, err)

	require.NoError(t, e.CompleteMultipart("bucket", "key", uploadID, []int{1, 2}))

	f, info, err := e.GetObject("bucket", "key")
	require.NoError(t, err)
	defer f.Close()
	body, _ := io.ReadAll(f)
	assert.Equal(t, "hello world", string(body))
	assert.Equal(t, int64(11), info.Size)

	// session directory must be gone
	assert.False(t, e.sessionExists("bucket", "key", uploadID))
}

func TestEngine_MultipartLifecycle_TwoSessionsAreIsolated(t *testing.T) {
	e := New(t.TempDir())

	u1, err := e.InitiateMultipart("bucket", "key")
	require.NoError(t, err)
	u2, err := e.InitiateMultipart("bucket", "key")
	require.NoError(t, err)
	assert.NotEqual(t, u1, u2)

	_, err = e.UploadPart("bucket", "key", u1, 1, strings.NewReader("a"))
	require.NoError(t, err)

	require.NoError(t, e.AbortMultipart("bucket", "key", u2))
	assert.True(t, e.sessionExists("bucket", "key", u1))
	assert.False(t, e.sessionExists("bucket", "key", u2))
}

func TestEngine_UploadPart_UnknownSession(t *testing.T) {
	e := New(t.TempDir())
	_, err := e.UploadPart("bucket", "key", "deadbeef", 1, strings.NewReader("x"))
	require.Error(t, err)
	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindNotFound, se.Kind)
}

func TestEngine_CompleteMultipart_MissingPart(t *testing.T) {
	e := New(t.TempDir())
	uploadID, err := e.InitiateMultipart("bucket", "key")
	require.NoError(t, err)

	err = e.CompleteMultipart("bucket", "key", uploadID, []int{1})
	require.Error(t, err)
	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindInvalidPart, se.Kind)
}

func TestEngine_AbortMultipart_UnknownSession(t *testing.T) {
	e := New(t.TempDir())
	err := e.AbortMultipart("bucket", "key", "deadbeef")
	require.Error(t, err)
	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, KindNotFound, se.Kind)
}

func TestNormalizePartNumbers(t *testing.T) {
	tests := []struct {
		name    string
		in      []int
		want    []int
		wantErr bool
	}{
		{"sorts and dedups", []int{3, 1, 2, 1}, []int{1, 2, 3}, false},
		{"empty list", nil, nil, true},
		{"non-positive", []int{0, 1}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizePartNumbers(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKeyNamespace(t *testing.T) {
	assert.Equal(t, "_root", keyNamespace(""))
	assert.Len(t, keyNamespace("some/key"), 64)
	assert.NotEqual(t, keyNamespace("a"), keyNamespace("b"))
}

func TestError_ErrorString(t *testing.T) {
	assert.Equal(t, "not found", (&Error{Kind: KindNotFound}).Error())
	assert.Equal(t, "invalid part", (&Error{Kind: KindInvalidPart}).Error())
	assert.Equal(t, "io error", (&Error{Kind: KindIoError}).Error())
	assert.Equal(t, "boom", (&Error{Kind: KindIoError, Err: errors.New("boom")}).Error())
}
