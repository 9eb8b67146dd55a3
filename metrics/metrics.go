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

// Package metrics counts request outcomes per S3 action behind one
// Manager/publisher seam, so a statsd or DataDog sink can be swapped in at
// startup with no change to the call sites in s3api.
package metrics

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
)

const dataItemCount = 100000

// Tag is metadata attached to a datapoint.
type Tag struct {
	Key   string
	Value string
}

// Manager fans datapoints out to every configured publisher. A nil
// *Manager is a valid no-op receiver (see Send/Add/Close below), so
// callers don't need to check whether metrics are configured.
type Manager struct {
	wg  sync.WaitGroup
	ctx context.Context

	publishers  []publisher
	addDataChan chan datapoint
}

// Config selects which metrics sinks to start.
type Config struct {
	StatsdServers string
	DatadogServer string
}

// publisher is the interface every metrics backend implements.
type publisher interface {
	Add(action, key string, value int64, tags ...Tag)
	Close()
}

type datapoint struct {
	action string
	key    string
	value  int64
	tags   []Tag
}

// NewManager starts the configured publishers. With no servers configured
// in conf it returns (nil, nil): every Manager method below tolerates a
// nil receiver, so callers never need to branch on whether metrics are
// enabled.
func NewManager(ctx context.Context, conf Config) (*Manager, error) {
	if conf.StatsdServers == "" && conf.DatadogServer == "" {
		return nil, nil
	}
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("metrics: get hostname: %w", err)
	}

	m := &Manager{
		addDataChan: make(chan datapoint, dataItemCount),
		ctx:         ctx,
	}

	for _, server := range splitNonEmpty(conf.StatsdServers) {
		p, err := newStatsd(server, hostname)
		if err != nil {
			return nil, err
		}
		m.publishers = append(m.publishers, p)
	}
	if conf.DatadogServer != "" {
		p, err := newDogStatsd(conf.DatadogServer, hostname)
		if err != nil {
			return nil, err
		}
		m.publishers = append(m.publishers, p)
	}

	m.wg.Add(1)
	go m.forward()
	return m, nil
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// Send records the outcome of one S3 action: a success/failure count plus
// an action-specific byte or object count.
func (m *Manager) Send(err error, action string, objSize, objCount int64) {
	if m == nil {
		return
	}
	if action == "" {
		action = "Undetected"
	}
	if err != nil {
		m.Increment(action, "failed_count")
	} else {
		m.Increment(action, "success_count")
	}

	switch action {
	case "PutObject":
		m.Add(action, "bytes_written", objSize)
	case "UploadPart":
		m.Add(action, "bytes_written", objSize)
	case "GetObject":
		m.Add(action, "bytes_read", objSize)
	case "DeleteObject":
		m.Increment(action, "object_removed_count")
	case "DeleteObjects":
		m.Add(action, "object_removed_count", objCount)
	case "CompleteMultipartUpload":
		m.Increment(action, "object_created_count")
	}
}

// Increment increments key by one.
func (m *Manager) Increment(action, key string, tags ...Tag) {
	m.Add(action, key, 1, tags...)
}

// Add adds value to key. A full buffer drops the datapoint rather than
// blocking the request path.
func (m *Manager) Add(action, key string, value int64, tags ...Tag) {
	if m == nil || m.ctx.Err() != nil {
		return
	}
	select {
	case m.addDataChan <- datapoint{action: action, key: key, value: value, tags: tags}:
	default:
	}
}

// Close drains the datapoint channel and closes every publisher.
func (m *Manager) Close() {
	if m == nil {
		return
	}
	close(m.addDataChan)
	m.wg.Wait()
	for _, p := range m.publishers {
		p.Close()
	}
}

func (m *Manager) forward() {
	defer m.wg.Done()
	for d := range m.addDataChan {
		for _, p := range m.publishers {
			p.Add(d.action, d.key, d.value, d.tags...)
		}
	}
}
