// SPDX-FileCopyrightText: 2025 Indiana University
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Parallel()
	t.Run("writes to the file sink", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "cknd.log")

		log, closer, err := Setup(path)
		require.NoError(t, err)

		log.Info("connected to broker", "broker", "localhost:9092")
		log.Debug("this stays below the threshold")
		require.NoError(t, closer.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "connected to broker")
		assert.Contains(t, string(data), "localhost:9092")
		assert.NotContains(t, string(data), "below the threshold")
	})

	t.Run("appends across restarts", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "cknd.log")

		log, closer, err := Setup(path)
		require.NoError(t, err)
		log.Info("first run")
		require.NoError(t, closer.Close())

		log, closer, err = Setup(path)
		require.NoError(t, err)
		log.Info("second run")
		require.NoError(t, closer.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "first run")
		assert.Contains(t, string(data), "second run")
	})

	t.Run("unwritable path", func(t *testing.T) {
		t.Parallel()
		_, _, err := Setup(filepath.Join(t.TempDir(), "missing", "dir", "cknd.log"))
		assert.Error(t, err)
	})
}
