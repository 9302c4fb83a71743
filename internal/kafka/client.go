// SPDX-FileCopyrightText: 2025 Indiana University
// SPDX-License-Identifier: Apache-2.0

package kafka

import (
	"context"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

// kafkaClient is an interface for the franz-go Kafka client methods we
// need. This allows us to mock the client for testing while using the real
// kgo.Client in production.
type kafkaClient interface {
	// Produce produces a record asynchronously, blocking if the buffer is full.
	// The promise fires on a background goroutine once delivery succeeds or fails.
	Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))

	// Flush flushes all buffered records and waits for them to be sent.
	Flush(ctx context.Context) error

	// Close closes the Kafka client and releases resources.
	Close()
}

// adminClient is the subset of the franz-go admin client used by the
// broker reachability probe.
type adminClient interface {
	// ListTopics lists the broker's topics.
	ListTopics(ctx context.Context, topics ...string) (kadm.TopicDetails, error)
}

// Verify the franz-go types satisfy the interfaces at compile time.
var _ kafkaClient = (*kgo.Client)(nil)
var _ adminClient = (*kadm.Client)(nil)
