// SPDX-FileCopyrightText: 2025 Indiana University
// SPDX-License-Identifier: Apache-2.0

// Package metrics exposes Prometheus instrumentation for the daemon's
// publish path and broker probe.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ckn-edge/cknd/internal/kafka"
)

// Probe outcome label values.
const (
	ProbeSuccess = "success"
	ProbeFailure = "failure"
)

// Metrics holds the daemon's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	publishes *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	probes    *prometheus.CounterVec
}

// New builds the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		publishes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ckn_publish_total",
			Help: "Publish outcomes by topic and result.",
		}, []string{"topic", "result"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ckn_publish_duration_seconds",
			Help:    "Time from produce call to delivery outcome.",
			Buckets: prometheus.DefBuckets,
		}, []string{"topic"}),
		probes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ckn_broker_probe_attempts_total",
			Help: "Broker reachability probe outcomes.",
		}, []string{"outcome"}),
	}
}

// DeliveryListener returns a listener that records delivery outcomes.
// Register it on the publisher with AddDeliveryListener or via
// InitialDeliveryListeners.
func (m *Metrics) DeliveryListener() func(*kafka.DeliveryEvent) {
	return func(e *kafka.DeliveryEvent) {
		result := "success"
		if e.Error != nil {
			result = e.ErrorType
			if result == "" {
				result = "unknown"
			}
		}
		m.publishes.WithLabelValues(e.Topic, result).Inc()
		m.duration.WithLabelValues(e.Topic).Observe(e.Duration.Seconds())
	}
}

// ObserveProbe records one broker reachability probe outcome.
func (m *Metrics) ObserveProbe(outcome string) {
	m.probes.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
