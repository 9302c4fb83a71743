// SPDX-FileCopyrightText: 2025 Indiana University
// SPDX-License-Identifier: Apache-2.0

// Package kafka publishes event documents to a single Kafka topic via
// franz-go, with best-effort asynchronous delivery.
//
// # Quick Start
//
// Create a Publisher by setting fields directly:
//
//	publisher := &kafka.Publisher{
//	    Brokers: []string{"localhost:9092"},
//	    Topic:   "oracle-events",
//	}
//	if err := publisher.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer publisher.Stop(context.Background())
//
//	if err := publisher.WaitForBroker(ctx); err != nil {
//	    // broker unreachable after the configured attempts
//	}
//
//	err := publisher.Produce(ctx, payload)
//
// # Reachability Probe
//
// WaitForBroker lists the broker's topics up to ProbeAttempts times, each
// attempt bounded by ProbeTimeout, with a fixed ProbeDelay between failed
// attempts. There is no backoff and no jitter; the probe either succeeds or
// reports ErrBrokerUnavailable.
//
// # Delivery Events
//
// Produce is asynchronous. The delivery outcome is reported through
// DeliveryEvent listeners, which are invoked on a background goroutine:
//
//	publisher.InitialDeliveryListeners = []func(*kafka.DeliveryEvent){
//	    func(e *kafka.DeliveryEvent) {
//	        if e.Error != nil {
//	            log.Printf("delivery failed: %v", e.Error)
//	            return
//	        }
//	        log.Printf("produced event to %q", e.Topic)
//	    },
//	}
//
// Listeners observe the outcome; they do not retry and do not affect the
// caller. Stop flushes buffered records under CleanupTimeout and tolerates
// an incomplete flush.
package kafka
