// SPDX-FileCopyrightText: 2025 Indiana University
// SPDX-License-Identifier: Apache-2.0

// cknd waits for the CKN broker to become reachable, loads one event
// document from a local JSON file, stamps its timestamps, and publishes it
// to a single Kafka topic.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/ckn-edge/cknd/internal/config"
	"github.com/ckn-edge/cknd/internal/daemon"
	"github.com/ckn-edge/cknd/internal/kafka"
	"github.com/ckn-edge/cknd/internal/logging"
	"github.com/ckn-edge/cknd/internal/metrics"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(os.Getenv(config.EnvConfigFile))
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return daemon.ExitError
	}

	log, logFile, err := logging.Setup(cfg.LogFile)
	if err != nil {
		slog.Error("failed to set up logging", "error", err)
		return daemon.ExitError
	}
	defer logFile.Close()

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Error("metrics endpoint failed", "addr", cfg.MetricsAddr, "error", err)
			}
		}()
	}

	publisher := &kafka.Publisher{
		Brokers:        []string{cfg.Broker},
		Topic:          cfg.Topic,
		ProbeAttempts:  cfg.Probe.Attempts,
		ProbeTimeout:   cfg.Probe.Timeout.Std(),
		ProbeDelay:     cfg.Probe.Delay.Std(),
		CleanupTimeout: cfg.FlushTimeout.Std(),
		Acks:           kafka.Acks(cfg.Acks),
		Compression:    kafka.Compression(cfg.Compression),
		Logger:         kafka.NewLogger(log),
		InitialDeliveryListeners: []func(*kafka.DeliveryEvent){
			daemon.DeliveryLogger(log),
			m.DeliveryListener(),
		},
	}

	if err := publisher.Start(); err != nil {
		log.Error("failed to start publisher", "error", err)
		return daemon.ExitError
	}

	return daemon.New(cfg, log, publisher, m).Run(context.Background())
}
