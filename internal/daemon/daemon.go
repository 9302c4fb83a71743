// SPDX-FileCopyrightText: 2025 Indiana University
// SPDX-License-Identifier: Apache-2.0

// Package daemon drives the single linear flow of the CKN example daemon:
// wait for the broker, load the event document, stamp and normalize it,
// publish it, flush, exit.
package daemon

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ckn-edge/cknd/internal/config"
	"github.com/ckn-edge/cknd/internal/event"
	"github.com/ckn-edge/cknd/internal/kafka"
	"github.com/ckn-edge/cknd/internal/metrics"
)

// Process exit codes.
const (
	ExitOK    = 0
	ExitError = 1
)

// Broker is the publisher surface the daemon drives. *kafka.Publisher is
// the production implementation.
type Broker interface {
	WaitForBroker(ctx context.Context) error
	Produce(ctx context.Context, value []byte) error
	Stop(ctx context.Context)
}

var _ Broker = (*kafka.Publisher)(nil)

// Daemon owns one run of the publish flow.
type Daemon struct {
	cfg     config.Config
	log     *slog.Logger
	broker  Broker
	metrics *metrics.Metrics

	// now is for internal use only (testing hook).
	now func() time.Time

	// loadEvent is for internal use only (testing hook).
	loadEvent func(string) (event.Event, error)
}

// New wires a Daemon from its parts.
func New(cfg config.Config, log *slog.Logger, broker Broker, m *metrics.Metrics) *Daemon {
	return &Daemon{
		cfg:       cfg,
		log:       log,
		broker:    broker,
		metrics:   m,
		now:       time.Now,
		loadEvent: event.Load,
	}
}

// Run executes the flow and returns the process exit code.
//
// Ordering guarantee: the event file is never touched unless the broker
// probe succeeds. Delivery failures on the publish path are logged by the
// delivery listeners only and do not affect the exit code; the flush inside
// Stop is the last step before return.
func (d *Daemon) Run(ctx context.Context) int {
	d.log.Info("connecting to the broker", "broker", d.cfg.Broker)

	if err := d.broker.WaitForBroker(ctx); err != nil {
		d.metrics.ObserveProbe(metrics.ProbeFailure)
		d.log.Error("shutting down, broker not available", "error", err)
		return ExitError
	}
	d.metrics.ObserveProbe(metrics.ProbeSuccess)
	d.log.Info("successfully connected to the broker", "broker", d.cfg.Broker)

	ev, err := d.loadEvent(d.cfg.EventFile)
	if err != nil {
		switch {
		case errors.Is(err, event.ErrFileMissing):
			d.log.Error("event file not found", "path", d.cfg.EventFile)
		case errors.Is(err, event.ErrInvalidJSON):
			d.log.Error("invalid JSON in event file", "path", d.cfg.EventFile)
		default:
			d.log.Error("failed to read event data", "path", d.cfg.EventFile, "error", err)
		}
		d.log.Error("failed to read event data, shutting down")
		return ExitError
	}

	ev.Stamp(d.now())
	if err := ev.NormalizeScores(); err != nil {
		d.log.Error("failed to normalize event scores", "error", err)
		return ExitError
	}

	payload, err := ev.Encode()
	if err != nil {
		d.log.Error("failed to encode event", "error", err)
		return ExitError
	}

	// Delivery outcome is best-effort: the callback logs it, the exit code
	// stays clean either way.
	if err := d.broker.Produce(ctx, payload); err != nil {
		d.log.Error("failed to hand event to the producer", "error", err)
	}

	d.broker.Stop(ctx)
	return ExitOK
}

// DeliveryLogger returns a delivery listener that logs the outcome of each
// publish, success or failure, and nothing more.
func DeliveryLogger(log *slog.Logger) func(*kafka.DeliveryEvent) {
	return func(e *kafka.DeliveryEvent) {
		if e.Error != nil {
			log.Error("delivery failed", "topic", e.Topic, "error", e.Error)
			return
		}
		log.Info("produced example event", "topic", e.Topic, "duration", e.Duration.String())
	}
}
