// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntries(t *testing.T, buffer *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buffer.String()), "\n") {
		if line == "" {
			continue
		}
		entry := make(map[string]any)
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestZapLogger(t *testing.T) {
	t.Run("With Debug level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(DebugLevel, buffer)
		logger.Debug("received message")
		logger.Debugf("received %d messages", 2)

		entries := decodeEntries(t, buffer)
		require.Len(t, entries, 2)
		assert.Equal(t, "received message", entries[0]["msg"])
		assert.Equal(t, "debug", entries[0]["level"])
		assert.Equal(t, "received 2 messages", entries[1]["msg"])
		assert.Equal(t, DebugLevel, logger.LogLevel())
	})
	t.Run("With Info level drops debug entries", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.Debug("hidden")
		logger.Info("cell started")
		logger.Warnf("cell %s suspended", "/user/a")

		entries := decodeEntries(t, buffer)
		require.Len(t, entries, 2)
		assert.Equal(t, "cell started", entries[0]["msg"])
		assert.Equal(t, "warn", entries[1]["level"])
		assert.Equal(t, "cell /user/a suspended", entries[1]["msg"])
		assert.Equal(t, InfoLevel, logger.LogLevel())
	})
	t.Run("With Error level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(ErrorLevel, buffer)
		logger.Warn("hidden")
		logger.Errorf("failed: %v", errors.New("boom"))

		entries := decodeEntries(t, buffer)
		require.Len(t, entries, 1)
		assert.Equal(t, "failed: boom", entries[0]["msg"])
		assert.Contains(t, entries[0], "stacktrace")
		assert.Equal(t, ErrorLevel, logger.LogLevel())
	})
	t.Run("With Panic level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(PanicLevel, buffer)
		assert.Panics(t, func() { logger.Panic("unrecoverable") })
		assert.Panics(t, func() { logger.Panicf("unrecoverable %s", "cell") })
		assert.Equal(t, PanicLevel, logger.LogLevel())
	})
	t.Run("With fields", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer).With("path", "/user/a", "uid", int32(12), "dangling")
		logger.Info("restarting")

		entries := decodeEntries(t, buffer)
		require.Len(t, entries, 1)
		assert.Equal(t, "/user/a", entries[0]["path"])
		assert.EqualValues(t, 12, entries[0]["uid"])
		assert.Equal(t, "dangling", entries[0]["_"])
	})
	t.Run("With no fields returns the same logger", func(t *testing.T) {
		logger := NewZap(InfoLevel, io.Discard)
		assert.Same(t, logger, logger.With())
		assert.Same(t, logger, logger.With(1, "non-string key"))
	})
	t.Run("LogOutput and StdLogger", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		require.Len(t, logger.LogOutput(), 1)
		logger.StdLogger().Print("from std")
		assert.Contains(t, buffer.String(), "from std")
		require.NoError(t, logger.Flush())
	})
}

func TestDiscardLogger(t *testing.T) {
	logger := DiscardLogger
	logger.Debug("x")
	logger.Infof("%s", "x")
	logger.Warn("x")
	logger.Errorf("%s", "x")
	assert.Equal(t, InfoLevel, logger.LogLevel())
	assert.NotPanics(t, func() { logger.With("path", "/user/a").Info("x") })
	assert.Equal(t, []io.Writer{io.Discard}, logger.LogOutput())
	assert.NotNil(t, logger.StdLogger())
	assert.Panics(t, func() { logger.Panic("boom") })
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DebugLevel.String())
	assert.Equal(t, "WARNING", WarningLevel.String())
	assert.Equal(t, "INVALID", InvalidLevel.String())
}
