// SPDX-FileCopyrightText: 2025 Indiana University
// SPDX-License-Identifier: Apache-2.0

package kafka

import "errors"

var (
	// ErrValidation indicates configuration validation failed.
	ErrValidation = &metricError{
		metric:  "validation_error",
		message: "validation error",
	}

	// ErrNotStarted indicates the publisher has not been started.
	ErrNotStarted = &metricError{
		metric:  "not_started",
		message: "publisher not started",
	}

	// ErrAlreadyStarted indicates the publisher has already been started.
	ErrAlreadyStarted = &metricError{
		metric:  "already_started",
		message: "publisher already started",
	}

	// ErrBrokerUnavailable indicates the broker could not be reached within
	// the configured number of probe attempts.
	ErrBrokerUnavailable = &metricError{
		metric:  "broker_unavailable",
		message: "broker unavailable",
	}

	// ErrBroker indicates the Kafka broker rejected the message.
	ErrBroker = &metricError{
		metric:  "broker_error",
		message: "broker error",
	}

	// ErrTimeout indicates a request timeout was exceeded.
	ErrTimeout = &metricError{
		metric:  "timeout",
		message: "timeout",
	}
)

// metricError is an internal error type that wraps errors with a type
// classification for metrics and observability. The metric field provides a
// string label for grouping errors in metrics systems.
type metricError struct {
	metric  string // Type classification for metrics (e.g., "broker_error")
	message string // Human-readable message
}

// Error implements the error interface.
func (e *metricError) Error() string {
	return e.message
}

func (e *metricError) Metric() string {
	return e.metric
}

func (e *metricError) Is(target error) bool {
	if t, ok := target.(*metricError); ok {
		return e.message == t.message
	}
	return false
}

// errorType extracts the error type string for metrics classification.
// Walks the error chain to find metricError types.
func errorType(err error) string {
	if err == nil {
		return ""
	}

	var me *metricError
	if errors.As(err, &me) {
		return me.Metric()
	}

	return "unknown"
}
