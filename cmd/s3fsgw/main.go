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

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/urfave/cli/v2"

	"github.com/fadlee/mini-s3/auditlog"
	"github.com/fadlee/mini-s3/config"
	"github.com/fadlee/mini-s3/credentials"
	"github.com/fadlee/mini-s3/metrics"
	"github.com/fadlee/mini-s3/s3api"
	"github.com/fadlee/mini-s3/s3event"
	"github.com/fadlee/mini-s3/sigv4"
	"github.com/fadlee/mini-s3/storage"
)

var (
	port, region, dataDir              string
	maxRequestSize, maxPresignExpires  int64
	clockSkewSeconds                   int64
	credentialsFlag, allowedAccessKeys string
	allowLegacyAccessKeyOnly           bool
	allowHostCandidateFallbacks        bool
	authDebugLog                       string
	statsdServers, datadogServer       string
	eventKafkaURL, eventKafkaTopic     string
	eventKafkaKey, eventNatsURL        string
	eventNatsTopic, eventRabbitMQURL   string
	eventRabbitMQExchange              string
	eventRabbitMQRoutingKey            string
)

func main() {
	app := &cli.App{
		Name:  "s3fsgw",
		Usage: "Start a local filesystem-backed S3-compatible gateway.",
		Flags: initFlags(),
		Action: func(c *cli.Context) error {
			return run()
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func initFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "port", EnvVars: []string{"PORT"}, Value: ":7070", Destination: &port},
		&cli.StringFlag{Name: "region", EnvVars: []string{"REGION"}, Value: "us-east-1", Destination: &region},
		&cli.StringFlag{Name: "data-dir", EnvVars: []string{"DATA_DIR"}, Value: "./data", Destination: &dataDir},
		&cli.Int64Flag{Name: "max-request-size", EnvVars: []string{"MAX_REQUEST_SIZE"}, Value: 5 << 30, Destination: &maxRequestSize},
		&cli.StringFlag{Name: "credentials", EnvVars: []string{"CREDENTIALS"}, Destination: &credentialsFlag},
		&cli.StringFlag{Name: "allowed-access-keys", EnvVars: []string{"ALLOWED_ACCESS_KEYS"}, Destination: &allowedAccessKeys},
		&cli.BoolFlag{Name: "allow-legacy-access-key-only", EnvVars: []string{"ALLOW_LEGACY_ACCESS_KEY_ONLY"}, Destination: &allowLegacyAccessKeyOnly},
		&cli.Int64Flag{Name: "clock-skew-seconds", EnvVars: []string{"CLOCK_SKEW_SECONDS"}, Value: 900, Destination: &clockSkewSeconds},
		&cli.Int64Flag{Name: "max-presign-expires", EnvVars: []string{"MAX_PRESIGN_EXPIRES"}, Value: 604800, Destination: &maxPresignExpires},
		&cli.BoolFlag{Name: "allow-host-candidate-fallbacks", EnvVars: []string{"ALLOW_HOST_CANDIDATE_FALLBACKS"}, Destination: &allowHostCandidateFallbacks},
		&cli.StringFlag{Name: "auth-debug-log", EnvVars: []string{"AUTH_DEBUG_LOG"}, Destination: &authDebugLog},
		&cli.StringFlag{Name: "metrics-statsd-servers", EnvVars: []string{"METRICS_STATSD_SERVERS"}, Destination: &statsdServers},
		&cli.StringFlag{Name: "metrics-datadog-server", EnvVars: []string{"METRICS_DATADOG_SERVER"}, Destination: &datadogServer},
		&cli.StringFlag{Name: "event-kafka-url", EnvVars: []string{"EVENT_KAFKA_URL"}, Destination: &eventKafkaURL},
		&cli.StringFlag{Name: "event-kafka-topic", EnvVars: []string{"EVENT_KAFKA_TOPIC"}, Destination: &eventKafkaTopic},
		&cli.StringFlag{Name: "event-kafka-key", EnvVars: []string{"EVENT_KAFKA_KEY"}, Destination: &eventKafkaKey},
		&cli.StringFlag{Name: "event-nats-url", EnvVars: []string{"EVENT_NATS_URL"}, Destination: &eventNatsURL},
		&cli.StringFlag{Name: "event-nats-topic", EnvVars: []string{"EVENT_NATS_TOPIC"}, Destination: &eventNatsTopic},
		&cli.StringFlag{Name: "event-rabbitmq-url", EnvVars: []string{"EVENT_RABBITMQ_URL"}, Destination: &eventRabbitMQURL},
		&cli.StringFlag{Name: "event-rabbitmq-exchange", EnvVars: []string{"EVENT_RABBITMQ_EXCHANGE"}, Destination: &eventRabbitMQExchange},
		&cli.StringFlag{Name: "event-rabbitmq-routing-key", EnvVars: []string{"EVENT_RABBITMQ_ROUTING_KEY"}, Destination: &eventRabbitMQRoutingKey},
	}
}

func run() error {
	cfg := config.FromEnv()
	applyFlagOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	logger := auditlog.New(os.Stdout)

	mgr, err := metrics.NewManager(context.Background(), metrics.Config{
		StatsdServers: statsdServers,
		DatadogServer: datadogServer,
	})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer mgr.Close()

	sender, err := s3event.InitSender(s3event.Config{
		KafkaURL:           eventKafkaURL,
		KafkaTopic:         eventKafkaTopic,
		KafkaKey:           eventKafkaKey,
		NatsURL:            eventNatsURL,
		NatsTopic:          eventNatsTopic,
		RabbitMQURL:        eventRabbitMQURL,
		RabbitMQExchange:   eventRabbitMQExchange,
		RabbitMQRoutingKey: eventRabbitMQRoutingKey,
	})
	if err != nil {
		return fmt.Errorf("init event sender: %w", err)
	}
	if sender != nil {
		defer sender.Close()
	}

	creds := credentials.NewTable(cfg.Credentials)

	auth := &sigv4.Authenticator{
		Credentials:                 creds,
		AllowLegacyAccessKeyOnly:    cfg.AllowLegacyAccessKeyOnly,
		AllowedAccessKeys:           cfg.AllowedAccessKeys,
		ClockSkewSeconds:            cfg.ClockSkewSeconds,
		MaxPresignExpires:           cfg.MaxPresignExpires,
		AllowHostCandidateFallbacks: cfg.AllowHostCandidateFallbacks,
	}
	if cfg.AuthDebugLog != "" {
		f, err := os.OpenFile(cfg.AuthDebugLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open auth debug log: %w", err)
		}
		defer f.Close()
		auth.Debug = f
	}

	d := &s3api.Dispatcher{
		Storage:        storage.New(cfg.DataDir),
		Auth:           auth,
		MaxRequestSize: cfg.MaxRequestSize,
		Metrics:        mgr,
		Logger:         logger,
	}
	if sender != nil {
		d.OnEvent = func(action, bucket, key string) {
			if ev := s3event.MapAction(action); ev != "" {
				sender.Send(ev, bucket, key)
			}
		}
	}

	app := fiber.New(fiber.Config{
		AppName:           "s3fsgw",
		ServerHeader:      "mini-s3",
		BodyLimit:         int(cfg.MaxRequestSize),
		StreamRequestBody: true,
	})
	s3api.NewApp(app, d)

	log.Printf("s3fsgw listening on %s, data dir %s", cfg.Port, cfg.DataDir)
	return app.Listen(cfg.Port)
}

// applyFlagOverrides layers CLI-flag values on top of the env-derived
// config. A flag left at its Value default doesn't override the
// env-sourced config field for the map-typed settings, since those have
// no single scalar flag.
func applyFlagOverrides(cfg *config.Config) {
	if port != "" {
		cfg.Port = port
	}
	if region != "" {
		cfg.Region = region
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if maxRequestSize > 0 {
		cfg.MaxRequestSize = maxRequestSize
	}
	if credentialsFlag != "" {
		cfg.Credentials = config.ParseCredentials(credentialsFlag)
	}
	if allowedAccessKeys != "" {
		cfg.AllowedAccessKeys = config.ParseAllowedAccessKeys(allowedAccessKeys)
	}
	if allowLegacyAccessKeyOnly {
		cfg.AllowLegacyAccessKeyOnly = true
	}
	if clockSkewSeconds > 0 {
		cfg.ClockSkewSeconds = clockSkewSeconds
	}
	if maxPresignExpires > 0 {
		cfg.MaxPresignExpires = maxPresignExpires
	}
	if allowHostCandidateFallbacks {
		cfg.AllowHostCandidateFallbacks = true
	}
	if authDebugLog != "" {
		cfg.AuthDebugLog = authDebugLog
	}
}
