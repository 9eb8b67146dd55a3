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

package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_NoServersConfigured(t *testing.T) {
	m, err := NewManager(context.Background(), Config{})
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestManager_NilReceiverIsNoOp(t *testing.T) {
	var m *Manager
	assert.NotPanics(t, func() {
		m.Send(nil, "PutObject", 10, 0)
		m.Increment("PutObject", "success_count")
		m.Add("PutObject", "bytes_written", 10)
		m.Close()
	})
}

type fakePublisher struct {
	adds []datapoint
}

func (f *fakePublisher) Add(action, key string, value int64, tags ...Tag) {
	f.adds = append(f.adds, datapoint{action: action, key: key, value: value, tags: tags})
}

func (f *fakePublisher) Close() {}

func TestManager_Send_RoutesActionToExpectedKey(t *testing.T) {
	tests := []struct {
		name     string
		action   string
		sendErr  error
		objSize  int64
		objCount int64
		wantKey  string
		wantVal  int64
	}{
		{"put object bytes", "PutObject", nil, 42, 0, "bytes_written", 42},
		{"upload part bytes", "UploadPart", nil, 7, 0, "bytes_written", 7},
		{"get object bytes", "GetObject", nil, 99, 0, "bytes_read", 99},
		{"delete objects count", "DeleteObjects", nil, 0, 3, "object_removed_count", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := &fakePublisher{}
			m := &Manager{ctx: context.Background(), addDataChan: make(chan datapoint, 10), publishers: []publisher{fp}}
			m.Send(tt.sendErr, tt.action, tt.objSize, tt.objCount)
			close(m.addDataChan)
			for d := range m.addDataChan {
				fp.Add(d.action, d.key, d.value, d.tags...)
			}

			var found bool
			for _, a := range fp.adds {
				if a.key == tt.wantKey {
					found = true
					assert.Equal(t, tt.wantVal, a.value)
				}
			}
			assert.True(t, found, "expected key %q to be recorded", tt.wantKey)
		})
	}
}

func TestManager_Send_RecordsSuccessAndFailureCounts(t *testing.T) {
	m := &Manager{ctx: context.Background(), addDataChan: make(chan datapoint, 10)}

	m.Send(nil, "HeadObject", 0, 0)
	d := <-m.addDataChan
	assert.Equal(t, "success_count", d.key)

	m.Send(assert.AnError, "HeadObject", 0, 0)
	d = <-m.addDataChan
	assert.Equal(t, "failed_count", d.key)
}

func TestManager_Add_DropsOnFullBuffer(t *testing.T) {
	m := &Manager{ctx: context.Background(), addDataChan: make(chan datapoint, 1)}
	m.Add("PutObject", "bytes_written", 1)
	assert.NotPanics(t, func() { m.Add("PutObject", "bytes_written", 2) })
}

func TestSplitNonEmpty(t *testing.T) {
	assert.Nil(t, splitNonEmpty(""))
	assert.Equal(t, []string{"a", "b"}, splitNonEmpty("a,b"))
}
