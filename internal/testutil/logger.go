// Package testutil holds helpers shared by tests across packages.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
)

// NopLogger returns a logger that discards all output
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// LogBuffer collects JSON log lines written by a CaptureLogger
type LogBuffer struct {
	bytes.Buffer
}

// Entries decodes every line written so far. Lines that fail to decode are skipped.
func (b *LogBuffer) Entries() []map[string]any {
	var entries []map[string]any
	dec := json.NewDecoder(bytes.NewReader(b.Bytes()))
	for dec.More() {
		var entry map[string]any
		if err := dec.Decode(&entry); err != nil {
			break
		}
		entries = append(entries, entry)
	}
	return entries
}

// Last returns the most recent entry, or nil if nothing was logged
func (b *LogBuffer) Last() map[string]any {
	entries := b.Entries()
	if len(entries) == 0 {
		return nil
	}
	return entries[len(entries)-1]
}

// CaptureLogger returns a debug-level JSON logger writing into the returned buffer
func CaptureLogger() (*slog.Logger, *LogBuffer) {
	buf := &LogBuffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}
