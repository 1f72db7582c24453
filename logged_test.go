package mcp2515

import (
	"context"
	"log/slog"
	"testing"
)

type recordSink struct {
	records []slog.Record
}

func (s *recordSink) Enabled(context.Context, slog.Level) bool { return true }
func (s *recordSink) Handle(_ context.Context, r slog.Record) error {
	// Make a deep copy of attributes because slog reuses the record during processing
	attrs := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool { attrs = append(attrs, a); return true })
	nr := slog.Record{Time: r.Time, Level: r.Level, PC: r.PC, Message: r.Message}
	for _, a := range attrs {
		nr.AddAttrs(a)
	}
	s.records = append(s.records, nr)
	return nil
}
func (s *recordSink) WithAttrs(attrs []slog.Attr) slog.Handler { return s }
func (s *recordSink) WithGroup(name string) slog.Handler       { return s }

func hasSlogMsg(records []slog.Record, level slog.Level, msg string) bool {
	for _, r := range records {
		if r.Level == level && r.Message == msg {
			return true
		}
	}
	return false
}

func countSlogMsg(records []slog.Record, msg string) int {
	n := 0
	for _, r := range records {
		if r.Message == msg {
			n++
		}
	}
	return n
}

func TestLoggedBus_ExchangeAndSelectLogging(t *testing.T) {
	sink := &recordSink{}
	logger := slog.New(sink)

	d := New(NewLoggedBus(NewSimBus(), logger, slog.LevelInfo, LogAll))
	if _, err := d.ReadRegister(CANSTAT); err != nil {
		t.Fatalf("read: %v", err)
	}

	if !hasSlogMsg(sink.records, slog.LevelInfo, "mcp2515 select") {
		t.Fatalf("expected select log entry")
	}
	if !hasSlogMsg(sink.records, slog.LevelInfo, "mcp2515 deselect") {
		t.Fatalf("expected deselect log entry")
	}
	if got := countSlogMsg(sink.records, "mcp2515 exchange"); got != 3 {
		t.Fatalf("exchange log entries = %d, want 3", got)
	}
}

func TestLoggedBus_ExchangeOnlyOption(t *testing.T) {
	sink := &recordSink{}
	logger := slog.New(sink)

	d := New(NewLoggedBus(NewSimBus(), logger, slog.LevelDebug, LogExchange))
	if err := d.WriteRegister(CNF1, 0); err != nil {
		t.Fatalf("write: %v", err)
	}

	if hasSlogMsg(sink.records, slog.LevelDebug, "mcp2515 select") {
		t.Fatalf("select logging should be disabled")
	}
	if got := countSlogMsg(sink.records, "mcp2515 exchange"); got != 3 {
		t.Fatalf("exchange log entries = %d, want 3", got)
	}
}

func TestLoggedBus_ErrorLogging(t *testing.T) {
	inner := NewSimBus()
	_ = inner.Close()

	sink := &recordSink{}
	logger := slog.New(sink)
	wrapped := NewLoggedBus(inner, logger, slog.LevelInfo, LogExchange)
	if _, err := wrapped.Exchange(0x00); err == nil {
		t.Fatalf("expected error from closed bus")
	}

	if !hasSlogMsg(sink.records, slog.LevelError, "mcp2515 exchange error") {
		t.Fatalf("expected exchange error log entry")
	}
}
