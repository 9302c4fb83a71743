// SPDX-FileCopyrightText: 2025 Indiana University
// SPDX-License-Identifier: Apache-2.0

package kafka

import "time"

// DeliveryEvent represents an event when a message has been delivered or
// failed to deliver. It is the asynchronous counterpart of the produce
// call: the broker client invokes the promise on a background goroutine and
// the publisher fans the result out to registered listeners.
type DeliveryEvent struct {
	// Topic is the Kafka topic the message was published to (or attempted
	// to publish to).
	Topic string

	// Error is the error that occurred during publishing (nil for
	// successful deliveries).
	Error error

	// ErrorType is the error classification (empty for successful
	// deliveries). Values: "broker_error", "timeout", "validation_error", etc.
	ErrorType string

	// Duration is the time taken from Produce() call to completion
	// (success or failure).
	Duration time.Duration
}
