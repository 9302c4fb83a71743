// SPDX-FileCopyrightText: 2025 Indiana University
// SPDX-License-Identifier: Apache-2.0

package kafka

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

// mockKafkaClient is a mock implementation of kafkaClient for testing.
type mockKafkaClient struct {
	mock.Mock
}

func (m *mockKafkaClient) Produce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error)) {
	m.Called(ctx, r, promise)
}

func (m *mockKafkaClient) Flush(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockKafkaClient) Close() {
	m.Called()
}

// mockAdminClient is a mock implementation of adminClient for testing.
type mockAdminClient struct {
	mock.Mock
}

func (m *mockAdminClient) ListTopics(ctx context.Context, topics ...string) (kadm.TopicDetails, error) {
	args := m.Called(ctx, topics)
	if td := args.Get(0); td != nil {
		return td.(kadm.TopicDetails), args.Error(1)
	}
	return nil, args.Error(1)
}
