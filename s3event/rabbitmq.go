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
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

type rabbitMQSender struct {
	exchange   string
	routingKey string
	conn       *amqp.Connection
	channel    *amqp.Channel
}

func newRabbitMQSender(url, exchange, routingKey string) (Sender, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("s3event: rabbitmq connect: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("s3event: rabbitmq channel: %w", err)
	}
	return &rabbitMQSender{exchange: exchange, routingKey: routingKey, conn: conn, channel: ch}, nil
}

func (r *rabbitMQSender) Send(event EventType, bucket, key string) {
	body, err := marshalRecord(event, bucket, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "s3event: marshal rabbitmq event: %v\n", err)
		return
	}
	msg := amqp.Publishing{
		Timestamp:   time.Now(),
		ContentType: "application/json",
		Body:        body,
	}
	go func() {
		if err := r.channel.Publish(r.exchange, r.routingKey, false, false, msg); err != nil {
			fmt.Fprintf(os.Stderr, "s3event: send rabbitmq event: %v\n", err)
		}
	}()
}

func (r *rabbitMQSender) Close() error {
	var firstErr error
	if err := r.channel.Close(); err != nil {
		firstErr = err
	}
	if err := r.conn.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
