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
	"fmt"
	"os"

	"github.com/nats-io/nats.go"
)

type natsSender struct {
	topic string
	conn  *nats.Conn
}

func newNatsSender(url, topic string) (Sender, error) {
	if topic == "" {
		return nil, fmt.Errorf("s3event: nats topic must be specified")
	}
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("s3event: nats connect: %w", err)
	}
	return &natsSender{topic: topic, conn: conn}, nil
}

func (n *natsSender) Send(event EventType, bucket, key string) {
	body, err := marshalRecord(event, bucket, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "s3event: marshal nats event: %v\n", err)
		return
	}
	go func() {
		if err := n.conn.Publish(n.topic, body); err != nil {
			fmt.Fprintf(os.Stderr, "s3event: send nats event: %v\n", err)
		}
	}()
}

func (n *natsSender) Close() error {
	n.conn.Close()
	return nil
}
