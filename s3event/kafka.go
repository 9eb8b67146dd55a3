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

package s3event

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/segmentio/kafka-go"
)

type kafkaSender struct {
	key    string
	writer *kafka.Writer
}

func newKafkaSender(url, topic, key string) (Sender, error) {
	if topic == "" {
		return nil, fmt.Errorf("s3event: kafka topic must be specified")
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(url),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 5 * time.Millisecond,
	}
	return &kafkaSender{key: key, writer: w}, nil
}

func (k *kafkaSender) Send(event EventType, bucket, key string) {
	body, err := marshalRecord(event, bucket, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "s3event: marshal kafka event: %v\n", err)
		return
	}
	msg := kafka.Message{Key: []byte(k.key), Value: body}
	go func() {
		if err := k.writer.WriteMessages(context.Background(), msg); err != nil {
			fmt.Fprintf(os.Stderr, "s3event: send kafka event: %v\n", err)
		}
	}()
}

func (k *kafkaSender) Close() error {
	return k.writer.Close()
}
