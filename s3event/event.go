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

// Package s3event sends best-effort, asynchronous notifications for
// mutating S3 operations (PutObject, CompleteMultipartUpload,
// DeleteObject/DeleteObjects) to one of three pluggable message brokers,
// behind a single Sender interface. Calls take a bucket/key shape instead
// of an HTTP context, since the Dispatcher never hands this package one.
package s3event

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"
)

// EventType names one of the notification kinds this gateway emits.
type EventType string

const (
	EventObjectCreatedPut               EventType = "s3:ObjectCreated:Put"
	EventObjectCreatedCompleteMultipart EventType = "s3:ObjectCreated:CompleteMultipartUpload"
	EventObjectRemovedDelete            EventType = "s3:ObjectRemoved:Delete"
)

// Sender is the notification sink the Dispatcher's OnEvent hook is wired
// to. Implementations must not block the request path for longer than it
// takes to enqueue the event.
type Sender interface {
	Send(event EventType, bucket, key string)
	Close() error
}

// Record is the JSON document published to the broker for one event. It
// carries no UserIdentity, RequestParameters, or GlacierEventData, since
// this gateway has no account or restore concept.
type Record struct {
	EventVersion string       `json:"eventVersion"`
	EventSource  string       `json:"eventSource"`
	EventTime    string       `json:"eventTime"`
	EventName    EventType    `json:"eventName"`
	S3           RecordS3Data `json:"s3"`
}

// RecordS3Data is the bucket/object payload of one Record.
type RecordS3Data struct {
	Bucket RecordBucket `json:"bucket"`
	Object RecordObject `json:"object"`
}

// RecordBucket names the bucket an event concerns.
type RecordBucket struct {
	Name string `json:"name"`
}

// RecordObject names the key (and a monotonic sequencer) an event concerns.
type RecordObject struct {
	Key       string `json:"key"`
	Sequencer string `json:"sequencer"`
}

// Config selects which broker to start.
type Config struct {
	KafkaURL   string
	KafkaTopic string
	KafkaKey   string

	NatsURL   string
	NatsTopic string

	RabbitMQURL        string
	RabbitMQExchange   string
	RabbitMQRoutingKey string
}

// InitSender starts whichever broker is configured, in first-match-wins
// order. With nothing configured it returns (nil, nil); callers wire the
// Dispatcher's OnEvent hook to the returned Sender's Send method only
// when it is non-nil.
func InitSender(cfg Config) (Sender, error) {
	switch {
	case cfg.KafkaURL != "":
		return newKafkaSender(cfg.KafkaURL, cfg.KafkaTopic, cfg.KafkaKey)
	case cfg.NatsURL != "":
		return newNatsSender(cfg.NatsURL, cfg.NatsTopic)
	case cfg.RabbitMQURL != "":
		return newRabbitMQSender(cfg.RabbitMQURL, cfg.RabbitMQExchange, cfg.RabbitMQRoutingKey)
	default:
		return nil, nil
	}
}

// MapAction translates a Dispatcher action name (PutObject,
// CompleteMultipartUpload, DeleteObject) into the EventType constant it
// notifies under. Actions with no notification mapping (e.g. GetObject)
// return "".
func MapAction(action string) EventType {
	switch action {
	case "PutObject":
		return EventObjectCreatedPut
	case "CompleteMultipartUpload":
		return EventObjectCreatedCompleteMultipart
	case "DeleteObject":
		return EventObjectRemovedDelete
	default:
		return ""
	}
}

var sequence atomic.Int64

func nextSequencer() string {
	return fmt.Sprintf("%X", sequence.Add(1))
}

func buildRecord(event EventType, bucket, key string) Record {
	return Record{
		EventVersion: "2.2",
		EventSource:  "aws:s3",
		EventTime:    time.Now().UTC().Format(time.RFC3339),
		EventName:    event,
		S3: RecordS3Data{
			Bucket: RecordBucket{Name: bucket},
			Object: RecordObject{Key: key, Sequencer: nextSequencer()},
		},
	}
}

func marshalRecord(event EventType, bucket, key string) ([]byte, error) {
	return json.Marshal(buildRecord(event, bucket, key))
}
