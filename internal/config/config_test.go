// SPDX-FileCopyrightText: 2025 Indiana University
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Environment-dependent subtests share the process environment, so no
// t.Parallel() here.
func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, DefaultLogFile, cfg.LogFile)
		assert.Equal(t, DefaultBroker, cfg.Broker)
		assert.Equal(t, DefaultTopic, cfg.Topic)
		assert.Equal(t, DefaultEventFile, cfg.EventFile)
		assert.Equal(t, DefaultProbeAttempts, cfg.Probe.Attempts)
		assert.Equal(t, Duration(DefaultProbeTimeout), cfg.Probe.Timeout)
		assert.Equal(t, Duration(DefaultProbeDelay), cfg.Probe.Delay)
		assert.Equal(t, Duration(DefaultFlushTimeout), cfg.FlushTimeout)
		assert.Empty(t, cfg.MetricsAddr)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv(EnvBroker, "localhost:9092")
		t.Setenv(EnvTopic, "test-events")
		t.Setenv(EnvLogFile, "/tmp/cknd.log")
		t.Setenv(EnvProbeAttempts, "3")
		t.Setenv(EnvProbeDelay, "250ms")

		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, "localhost:9092", cfg.Broker)
		assert.Equal(t, "test-events", cfg.Topic)
		assert.Equal(t, "/tmp/cknd.log", cfg.LogFile)
		assert.Equal(t, 3, cfg.Probe.Attempts)
		assert.Equal(t, Duration(250*time.Millisecond), cfg.Probe.Delay)
	})

	t.Run("yaml file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cknd.yml")
		require.NoError(t, os.WriteFile(path, []byte(`
broker: kafka-1:9092
topic: oracle-events-staging
probe:
  attempts: 10
  timeout: 2s
  delay: 1s
flush_timeout: 3s
acks: all
compression: snappy
`), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "kafka-1:9092", cfg.Broker)
		assert.Equal(t, "oracle-events-staging", cfg.Topic)
		assert.Equal(t, 10, cfg.Probe.Attempts)
		assert.Equal(t, Duration(2*time.Second), cfg.Probe.Timeout)
		assert.Equal(t, Duration(time.Second), cfg.Probe.Delay)
		assert.Equal(t, Duration(3*time.Second), cfg.FlushTimeout)
		assert.Equal(t, "all", cfg.Acks)
		assert.Equal(t, "snappy", cfg.Compression)
		// Untouched keys keep their defaults.
		assert.Equal(t, DefaultEventFile, cfg.EventFile)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cknd.yml")
		require.NoError(t, os.WriteFile(path, []byte("broker: from-file:9092\n"), 0o600))
		t.Setenv(EnvBroker, "from-env:9092")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "from-env:9092", cfg.Broker)
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
		assert.Error(t, err)
	})

	t.Run("malformed config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cknd.yml")
		require.NoError(t, os.WriteFile(path, []byte("broker: [unclosed"), 0o600))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("malformed env duration", func(t *testing.T) {
		t.Setenv(EnvProbeTimeout, "ten seconds")

		_, err := Load("")
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults are valid", func(c *Config) {}, true},
		{"empty broker", func(c *Config) { c.Broker = "" }, false},
		{"empty topic", func(c *Config) { c.Topic = "" }, false},
		{"empty event file", func(c *Config) { c.EventFile = "" }, false},
		{"zero probe attempts", func(c *Config) { c.Probe.Attempts = 0 }, false},
		{"negative probe attempts", func(c *Config) { c.Probe.Attempts = -1 }, false},
		{"zero probe timeout", func(c *Config) { c.Probe.Timeout = 0 }, false},
		{"negative probe delay", func(c *Config) { c.Probe.Delay = Duration(-time.Second) }, false},
		{"zero probe delay is allowed", func(c *Config) { c.Probe.Delay = 0 }, true},
		{"zero flush timeout", func(c *Config) { c.FlushTimeout = 0 }, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
