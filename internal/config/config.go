// SPDX-FileCopyrightText: 2025 Indiana University
// SPDX-License-Identifier: Apache-2.0

// Package config resolves daemon settings from defaults, an optional YAML
// file, and CKN_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables recognized by the daemon.
const (
	EnvLogFile     = "CKN_LOG_FILE"
	EnvBroker      = "CKN_KAFKA_BROKER"
	EnvTopic       = "CKN_KAFKA_TOPIC"
	EnvEventFile   = "CKN_EVENT_FILE"
	EnvConfigFile  = "CKN_CONFIG"
	EnvMetricsAddr = "CKN_METRICS_ADDR"

	EnvProbeAttempts = "CKN_BROKER_PROBE_ATTEMPTS"
	EnvProbeTimeout  = "CKN_BROKER_PROBE_TIMEOUT"
	EnvProbeDelay    = "CKN_BROKER_PROBE_DELAY"
)

// Defaults applied before the file and environment are consulted.
const (
	DefaultLogFile   = "ckn_example.log"
	DefaultBroker    = "broker:29092"
	DefaultTopic     = "oracle-events"
	DefaultEventFile = "/app/event.json"

	DefaultProbeAttempts = 5
	DefaultProbeTimeout  = 10 * time.Second
	DefaultProbeDelay    = 5 * time.Second
	DefaultFlushTimeout  = 1 * time.Second
)

// Duration is a time.Duration that unmarshals from Go duration strings
// ("10s", "250ms") in YAML, which yaml.v3 does not do for the bare type.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Probe tunes the broker reachability loop. Fixed count, fixed per-attempt
// timeout, fixed inter-attempt delay. No backoff, no jitter.
type Probe struct {
	Attempts int      `yaml:"attempts"`
	Timeout  Duration `yaml:"timeout"`
	Delay    Duration `yaml:"delay"`
}

// Config is the daemon's resolved configuration.
type Config struct {
	// LogFile receives a copy of everything written to stdout.
	LogFile string `yaml:"log_file"`

	// Broker is the Kafka bootstrap address in host:port form.
	Broker string `yaml:"broker"`

	// Topic is the single topic the event is published to.
	Topic string `yaml:"topic"`

	// EventFile is the path of the JSON event document.
	EventFile string `yaml:"event_file"`

	// MetricsAddr, when non-empty, exposes Prometheus metrics on this
	// listen address for the life of the process.
	MetricsAddr string `yaml:"metrics_addr"`

	// Probe tunes the broker reachability loop.
	Probe Probe `yaml:"probe"`

	// FlushTimeout bounds the final flush of buffered records before exit.
	// A flush that times out is logged, not fatal.
	FlushTimeout Duration `yaml:"flush_timeout"`

	// Acks controls broker acknowledgments: "all", "leader", or "none".
	Acks string `yaml:"acks"`

	// Compression selects the producer compression codec:
	// "none", "snappy", "gzip", "lz4", or "zstd".
	Compression string `yaml:"compression"`
}

// Default returns the configuration the daemon runs with when nothing is
// set in the environment.
func Default() Config {
	return Config{
		LogFile:   DefaultLogFile,
		Broker:    DefaultBroker,
		Topic:     DefaultTopic,
		EventFile: DefaultEventFile,
		Probe: Probe{
			Attempts: DefaultProbeAttempts,
			Timeout:  Duration(DefaultProbeTimeout),
			Delay:    Duration(DefaultProbeDelay),
		},
		FlushTimeout: Duration(DefaultFlushTimeout),
	}
}

// Load resolves the configuration: defaults, then the YAML file at path
// (skipped when path is empty), then environment overrides. The result is
// validated before being returned.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %q: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.LogFile, EnvLogFile)
	setString(&c.Broker, EnvBroker)
	setString(&c.Topic, EnvTopic)
	setString(&c.EventFile, EnvEventFile)
	setString(&c.MetricsAddr, EnvMetricsAddr)

	if err := setInt(&c.Probe.Attempts, EnvProbeAttempts); err != nil {
		return err
	}
	if err := setDuration(&c.Probe.Timeout, EnvProbeTimeout); err != nil {
		return err
	}
	return setDuration(&c.Probe.Delay, EnvProbeDelay)
}

// Validate checks the resolved configuration for values the daemon cannot
// run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Broker == "" {
		errs = append(errs, errors.New("broker address is required"))
	}
	if c.Topic == "" {
		errs = append(errs, errors.New("topic is required"))
	}
	if c.EventFile == "" {
		errs = append(errs, errors.New("event file path is required"))
	}
	if c.Probe.Attempts <= 0 {
		errs = append(errs, fmt.Errorf("probe attempts must be positive, got %d", c.Probe.Attempts))
	}
	if c.Probe.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("probe timeout must be positive, got %s", c.Probe.Timeout))
	}
	if c.Probe.Delay < 0 {
		errs = append(errs, fmt.Errorf("probe delay must not be negative, got %s", c.Probe.Delay))
	}
	if c.FlushTimeout <= 0 {
		errs = append(errs, fmt.Errorf("flush timeout must be positive, got %s", c.FlushTimeout))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = Duration(d)
	return nil
}
