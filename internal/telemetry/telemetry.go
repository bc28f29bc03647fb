// Package telemetry is the ambient logging and JSON-snapshot layer every
// NOTRAN command shares: a buffered message channel a display goroutine
// drains, and a JSON snapshot writer notranscope polls for its
// oscilloscope view.
package telemetry

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
)

// Logger fans formatted messages into a channel a display goroutine
// drains, the way synte's info/msg pair decouples callers from whatever
// is rendering output.
type Logger struct {
	messages chan string
	done     chan struct{}
}

// New starts a Logger whose messages are printed with the standard
// library logger until Close is called.
func New() *Logger {
	l := &Logger{
		messages: make(chan string, 64),
		done:     make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Logger) run() {
	for m := range l.messages {
		log.Println(m)
	}
	close(l.done)
}

// Msg formats and enqueues a message, matching the fire-and-forget style
// callers use elsewhere for compiler diagnostics and interpreter warnings.
func (l *Logger) Msg(format string, args ...any) {
	l.messages <- fmt.Sprintf(format, args...)
}

// Close drains any queued messages and stops the background goroutine.
func (l *Logger) Close() {
	close(l.messages)
	<-l.done
}

// SaveSnapshot marshals v as indented JSON and writes it to filename,
// the pattern used for functions.json/displaylisting.json style state
// dumps that other tools poll from disk.
func SaveSnapshot(v any, filename string) error {
	data, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return fmt.Errorf("telemetry: encoding %s: %w", filename, err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("telemetry: writing %s: %w", filename, err)
	}
	return nil
}

// LoadSnapshot reads and unmarshals a JSON snapshot written by
// SaveSnapshot.
func LoadSnapshot(filename string, v any) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("telemetry: reading %s: %w", filename, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("telemetry: decoding %s: %w", filename, err)
	}
	return nil
}

// IsErr reports whether err is non-nil, the one-word guard used
// throughout to keep error checks terse at call sites.
func IsErr(err error) bool {
	return err != nil
}
