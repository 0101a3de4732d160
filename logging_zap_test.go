package settings

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger(level zapcore.Level) (*ZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewZapLogger(zap.New(core)), logs
}

func TestZapLoggerDecodeLevels(t *testing.T) {
	logger, logs := observedLogger(zapcore.DebugLevel)
	d := newTestDecoder(t, WithDecodeLogger(logger))
	decodeLink(t, d, "rate=q")

	if got := logs.FilterMessage("field decoded").Len(); got != len(FieldOrder())-1 {
		t.Fatalf("expected %d debug field entries, got %d", len(FieldOrder())-1, got)
	}
	warn := logs.FilterMessage("field decoded with fallbacks").All()
	if len(warn) != 1 || warn[0].Level != zapcore.WarnLevel {
		t.Fatalf("expected one warn entry, got %+v", warn)
	}
	if warn[0].ContextMap()["field"] != FieldRate {
		t.Fatalf("expected rate field, got %v", warn[0].ContextMap())
	}
	finished := logs.FilterMessage("decode pass finished").All()
	if len(finished) != 1 || finished[0].ContextMap()["pass_id"] != "pass-1" {
		t.Fatalf("unexpected pass entry: %+v", finished)
	}
	if finished[0].LoggerName != "settings" {
		t.Fatalf("expected named logger, got %q", finished[0].LoggerName)
	}
}

func TestZapLoggerDecodeFailure(t *testing.T) {
	logger, logs := observedLogger(zapcore.InfoLevel)
	d := newTestDecoder(t, WithDecodeLogger(logger))
	if _, _, err := d.DecodeFragment(context.Background(), "items=itemA:x"); err == nil {
		t.Fatalf("expected fatal error")
	}
	if logs.FilterMessage("field decode failed").Len() != 1 {
		t.Fatalf("expected field failure entry, got %v", logs.All())
	}
	if logs.FilterMessage("decode pass aborted").Len() != 1 {
		t.Fatalf("expected pass failure entry, got %v", logs.All())
	}
	if logs.FilterMessage("field decoded").Len() != 0 {
		t.Fatalf("expected debug entries filtered at info level")
	}
}

func TestZapLoggerEvaluation(t *testing.T) {
	logger, logs := observedLogger(zapcore.DebugLevel)
	logger.LogEvaluation(EvaluatorLogEvent{Engine: "cel", Expr: "x"})
	logger.LogEvaluation(EvaluatorLogEvent{Engine: "cel", Rule: "hourly", Expr: "y", Phase: PhaseRun, Err: errors.New("boom")})

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Level != zapcore.DebugLevel || entries[1].Level != zapcore.WarnLevel {
		t.Fatalf("unexpected levels: %v %v", entries[0].Level, entries[1].Level)
	}
	fields := entries[1].ContextMap()
	if fields["engine"] != "cel" || fields["rule"] != "hourly" || fields["phase"] != PhaseRun {
		t.Fatalf("expected engine, rule and phase fields, got %v", fields)
	}
	if _, ok := entries[0].ContextMap()["rule"]; ok {
		t.Fatalf("expected no rule field for a query")
	}
}

func TestNewZapLoggerNil(t *testing.T) {
	logger := NewZapLogger(nil)
	logger.LogDecode(DecodeLogEvent{PassID: "x"})
}
