// SPDX-FileCopyrightText: 2025 Indiana University
// SPDX-License-Identifier: Apache-2.0

// Package event holds the single JSON document the daemon publishes.
//
// An Event is loaded verbatim from a local file, stamped with the current
// time, normalized, and serialized for the broker. There is no identity or
// persistence beyond the process lifetime.
package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Field names the daemon touches before publishing.
const (
	FieldReceivingTimestamp = "image_receiving_timestamp"
	FieldScoringTimestamp   = "image_scoring_timestamp"
	FieldStoreDeleteTime    = "image_store_delete_time"
	FieldFlattenedScores    = "flattened_scores"
)

var (
	// ErrFileMissing indicates the event file does not exist.
	ErrFileMissing = errors.New("event file not found")

	// ErrInvalidJSON indicates the event file exists but is not valid JSON.
	ErrInvalidJSON = errors.New("event file is not valid JSON")
)

// Event is a flat mapping of string keys to JSON-compatible values.
type Event map[string]any

// Load reads and parses an event document from path.
//
// The two failure kinds are distinguishable with errors.Is: a missing file
// wraps ErrFileMissing, unparsable content wraps ErrInvalidJSON. Callers
// treat either as fatal.
func Load(path string) (Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Join(ErrFileMissing, fmt.Errorf("reading %q", path), err)
		}
		return nil, fmt.Errorf("reading event file %q: %w", path, err)
	}

	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, errors.Join(ErrInvalidJSON, fmt.Errorf("parsing %q", path), err)
	}

	return ev, nil
}

// Stamp sets the receiving, scoring, and store-delete timestamps to the
// same instant: now in UTC, ISO-8601 with microsecond precision and a
// trailing literal 'Z'.
func (e Event) Stamp(now time.Time) {
	ts := now.UTC().Format("2006-01-02T15:04:05.000000") + "Z"
	e[FieldReceivingTimestamp] = ts
	e[FieldScoringTimestamp] = ts
	e[FieldStoreDeleteTime] = ts
}

// NormalizeScores rewrites a list-valued flattened_scores field to the
// JSON-string encoding of that list. String values (and any other shape,
// including an absent field) pass through unchanged.
func (e Event) NormalizeScores() error {
	v, ok := e[FieldFlattenedScores]
	if !ok {
		return nil
	}

	list, ok := v.([]any)
	if !ok {
		return nil
	}

	encoded, err := json.Marshal(list)
	if err != nil {
		return errors.Join(ErrInvalidJSON, fmt.Errorf("encoding %s", FieldFlattenedScores), err)
	}
	e[FieldFlattenedScores] = string(encoded)

	return nil
}

// Encode serializes the event to its compact JSON wire form.
func (e Event) Encode() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encoding event: %w", err)
	}
	return data, nil
}
