// SPDX-FileCopyrightText: 2025 Indiana University
// SPDX-License-Identifier: Apache-2.0

package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/xmidt-org/eventor"
)

// clientFactory is a function that creates a Kafka client and its admin
// counterpart from options. This allows dependency injection for testing.
type clientFactory func(opts ...kgo.Opt) (kafkaClient, adminClient, error)

// defaultClientFactory is the production client factory that uses franz-go.
func defaultClientFactory(opts ...kgo.Opt) (kafkaClient, adminClient, error) {
	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, nil, err
	}
	return client, kadm.NewClient(client), nil
}

// Publisher publishes event documents to a single Kafka topic.
//
// Thread Safety: All methods are safe for concurrent use by multiple
// goroutines, although the daemon itself drives the publisher from a single
// linear flow. The only asynchrony is the delivery promise, which fires on
// a background goroutine inside the broker client.
type Publisher struct {
	// --- STATIC CONFIGURATION (set before Start, immutable after) ---

	// Brokers is the list of Kafka broker addresses.
	// Required. Each address must be in "host:port" format.
	Brokers []string

	// Topic is the topic every record is published to.
	// Required.
	Topic string

	// RequestTimeout sets the maximum time to wait for broker responses.
	// Zero or negative values mean no timeout.
	// Default: 0 (no timeout).
	RequestTimeout time.Duration

	// CleanupTimeout sets the maximum time to wait for buffered messages
	// to flush on shutdown. Zero or negative values mean no timeout.
	// Default: 0 (no timeout).
	CleanupTimeout time.Duration

	// ProbeAttempts is the number of reachability attempts WaitForBroker
	// makes before reporting failure.
	// Default: 5.
	ProbeAttempts int

	// ProbeTimeout bounds each individual reachability attempt.
	// Default: 10s.
	ProbeTimeout time.Duration

	// ProbeDelay is the fixed wait between failed reachability attempts.
	// No backoff, no jitter.
	// Default: 5s.
	ProbeDelay time.Duration

	// AllowAutoTopicCreation enables automatic topic creation when
	// publishing to non-existent topics.
	// Default: false.
	AllowAutoTopicCreation bool

	// Acks controls broker acknowledgments.
	// Valid: "all", "leader", "none", or empty for the client default.
	Acks Acks

	// Compression specifies the compression algorithm.
	// Valid: "snappy", "gzip", "lz4", "zstd", "none", or empty.
	Compression Compression

	// Logger is the logger instance (same interface as franz-go).
	// Optional. If nil, a no-op logger will be used.
	Logger kgo.Logger

	// InitialDeliveryListeners are listeners registered when Start() is
	// called. These listeners receive DeliveryEvent notifications for all
	// produced messages. For dynamic listener management after Start(),
	// use AddDeliveryListener().
	// Optional.
	InitialDeliveryListeners []func(*DeliveryEvent)

	// --- INTERNAL FIELDS (not for user configuration) ---

	// logger is for internal use only.
	// The actively used logger instance (never nil, defaults to nopLogger).
	logger kgo.Logger

	// clientFactory is for internal use only (testing hook).
	clientFactory clientFactory

	// clientMu is for internal use only.
	// Protects the client and admin fields during Start/Stop operations.
	clientMu sync.Mutex

	// client is for internal use only.
	// The Kafka client instance, initialized in Start() and closed in Stop().
	client kafkaClient

	// admin is for internal use only.
	// The admin view of the client used by the reachability probe.
	admin adminClient

	// deliveryListeners is for internal use only.
	// Event broadcaster for DeliveryEvent notifications.
	deliveryListeners eventor.Eventor[func(*DeliveryEvent)]

	// registerInitialListenersOnce is for internal use only.
	// Ensures InitialDeliveryListeners are registered exactly once.
	registerInitialListenersOnce sync.Once
}

// AddDeliveryListener adds a listener for when a message has been either
// delivered or failed to be delivered.
//
// The returned function removes the listener. Listeners are called from
// internal goroutines and must be thread-safe.
func (p *Publisher) AddDeliveryListener(fn func(*DeliveryEvent)) func() {
	return p.deliveryListeners.Add(fn)
}

// Start validates the configuration and creates the Kafka client.
// Must be called before WaitForBroker() or Produce().
//
// The client does not dial the broker here; reachability is established by
// WaitForBroker(). Returns an error if the configuration is invalid, the
// client cannot be constructed, or the publisher is already started.
func (p *Publisher) Start() error {
	p.clientMu.Lock()
	defer p.clientMu.Unlock()

	if p.client != nil {
		return ErrAlreadyStarted
	}

	// Set default client factory if not configured
	if p.clientFactory == nil {
		p.clientFactory = defaultClientFactory
	}

	// Set default logger if not configured
	logger := p.Logger
	if logger == nil {
		logger = &nopLogger{}
	}
	p.logger = logger

	// Register initial listeners (only once, even if Start() is called multiple times)
	p.registerInitialListenersOnce.Do(func() {
		for _, listener := range p.InitialDeliveryListeners {
			p.deliveryListeners.Add(listener)
		}
	})

	if err := p.validate(); err != nil {
		return err
	}

	client, admin, err := p.clientFactory(p.toKgoOpts()...)
	if err != nil {
		return fmt.Errorf("failed to create Kafka client: %w", err)
	}

	p.client = client
	p.admin = admin
	p.logger.Log(kgo.LogLevelInfo, "publisher started", "topic", p.Topic)

	return nil
}

// WaitForBroker probes the broker by listing its topics until an attempt
// succeeds or the configured number of attempts is exhausted. Each attempt
// is bounded by ProbeTimeout; failed attempts are logged and followed by a
// fixed ProbeDelay sleep.
//
// Returns nil once the broker answers, ErrBrokerUnavailable after the last
// failed attempt, or the context error if ctx is canceled while waiting.
func (p *Publisher) WaitForBroker(ctx context.Context) error {
	p.clientMu.Lock()
	admin := p.admin
	p.clientMu.Unlock()

	if admin == nil {
		return ErrNotStarted
	}

	attempts := p.ProbeAttempts
	if attempts <= 0 {
		attempts = 5
	}
	timeout := p.ProbeTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	delay := p.ProbeDelay
	if delay <= 0 {
		delay = 5 * time.Second
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		topics, err := admin.ListTopics(attemptCtx)
		cancel()

		if err == nil {
			p.logger.Log(kgo.LogLevelInfo, "broker is reachable",
				"attempt", i+1, "topics", len(topics))
			return nil
		}
		lastErr = err

		p.logger.Log(kgo.LogLevelInfo, "broker not available yet, retrying",
			"attempt", i+1, "attempts", attempts, "delay", delay.String(), "error", err.Error())

		// No sleep after the final attempt.
		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	p.logger.Log(kgo.LogLevelError, "could not connect to the broker",
		"attempts", attempts)
	return errors.Join(ErrBrokerUnavailable,
		fmt.Errorf("broker unreachable after %d attempts", attempts), lastErr)
}

// Produce hands one record to the broker client for asynchronous delivery
// to the configured topic. The delivery outcome arrives via a background
// promise and is fanned out to the registered DeliveryEvent listeners; it
// is not surfaced to the caller.
//
// Returns a non-nil error only for pre-flight failures (publisher not
// started, context already canceled).
func (p *Publisher) Produce(ctx context.Context, value []byte) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	startTime := time.Now()

	// Get client reference while holding lock (brief hold)
	p.clientMu.Lock()
	client := p.client
	p.clientMu.Unlock()

	if client == nil {
		p.dispatchEvent(&DeliveryEvent{Topic: p.Topic}, startTime, ErrNotStarted)
		return ErrNotStarted
	}

	record := &kgo.Record{
		Topic: p.Topic,
		Value: value,
	}

	client.Produce(ctx, record, func(r *kgo.Record, err error) {
		p.dispatchEvent(&DeliveryEvent{Topic: record.Topic}, startTime, err)
	})

	return nil
}

// Stop gracefully shuts down and flushes buffered messages.
// Blocks until messages are sent or CleanupTimeout expires; a timed-out
// flush is logged at warn and otherwise ignored, since delivery is
// best-effort. Safe to call multiple times (idempotent).
func (p *Publisher) Stop(ctx context.Context) {
	p.clientMu.Lock()
	defer p.clientMu.Unlock()

	if p.client == nil {
		return // Already stopped or never started
	}

	p.logger.Log(kgo.LogLevelInfo, "stopping publisher, flushing buffered messages")

	// Apply CleanupTimeout only if the context doesn't already have a deadline.
	// This respects caller-provided timeouts while providing a sensible default.
	if p.CleanupTimeout > 0 {
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, p.CleanupTimeout)
			defer cancel()
		}
	}

	if err := p.client.Flush(ctx); err != nil {
		p.logger.Log(kgo.LogLevelWarn, "flush incomplete during shutdown", "error", err.Error())
	}

	p.client.Close()
	p.client = nil
	p.admin = nil

	p.logger.Log(kgo.LogLevelInfo, "publisher stopped")
}

// dispatchEvent dispatches a DeliveryEvent to all registered listeners.
func (p *Publisher) dispatchEvent(event *DeliveryEvent, since time.Time, err error) {
	if err != nil {
		event.Error = err
		event.ErrorType = errorType(err)
	}
	event.Duration = time.Since(since)

	p.deliveryListeners.Visit(func(listener func(*DeliveryEvent)) {
		listener(event)
	})
}

// validate validates the Publisher's configuration.
// Called during Start() to ensure fail-fast behavior.
func (p *Publisher) validate() error {
	if len(p.Brokers) == 0 {
		return errors.Join(ErrValidation, fmt.Errorf("brokers list is required"))
	}

	for i, broker := range p.Brokers {
		if broker == "" {
			return errors.Join(ErrValidation, fmt.Errorf("broker %d is empty", i))
		}
	}

	if p.Topic == "" {
		return errors.Join(ErrValidation, fmt.Errorf("topic is required"))
	}

	if err := validateAcks(p.Acks); err != nil {
		return err
	}

	return validateCompression(p.Compression)
}

// toKgoOpts converts the Publisher's configuration to franz-go client options.
func (p *Publisher) toKgoOpts() []kgo.Opt {
	opts := []kgo.Opt{
		kgo.SeedBrokers(p.Brokers...),
	}

	if p.logger != nil {
		opts = append(opts, kgo.WithLogger(p.logger))
	}

	if p.AllowAutoTopicCreation {
		opts = append(opts, kgo.AllowAutoTopicCreation())
	}

	if p.RequestTimeout > 0 {
		opts = append(opts, kgo.RequestTimeoutOverhead(p.RequestTimeout))
	}

	switch p.Acks {
	case AcksAll:
		opts = append(opts, kgo.RequiredAcks(kgo.AllISRAcks()))
	case AcksLeader:
		// Idempotent writes require acks=all; relaxed acks must opt out.
		opts = append(opts, kgo.RequiredAcks(kgo.LeaderAck()), kgo.DisableIdempotentWrite())
	case AcksNone:
		opts = append(opts, kgo.RequiredAcks(kgo.NoAck()), kgo.DisableIdempotentWrite())
	}

	switch p.Compression {
	case CompressionSnappy:
		opts = append(opts, kgo.ProducerBatchCompression(kgo.SnappyCompression()))
	case CompressionGzip:
		opts = append(opts, kgo.ProducerBatchCompression(kgo.GzipCompression()))
	case CompressionLz4:
		opts = append(opts, kgo.ProducerBatchCompression(kgo.Lz4Compression()))
	case CompressionZstd:
		opts = append(opts, kgo.ProducerBatchCompression(kgo.ZstdCompression()))
	case CompressionNone:
		opts = append(opts, kgo.ProducerBatchCompression(kgo.NoCompression()))
	}

	return opts
}
