package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_BasicLevels(t *testing.T) {
	l := New("debug")
	if l == nil {
		t.Fatalf("logger nil")
	}
	l.Debug("dbg", "k", 1)
	l.Info("info")
	l.Warn("warn")
	l.Error("err")
}

func TestLogger_WithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).With("connection", "demo")

	l.Warn("orphan record", "sessionId", "s-1")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["connection"] != "demo" || ctx["sessionId"] != "s-1" {
		t.Fatalf("unexpected context %v", ctx)
	}
}

func TestLogger_Nop(t *testing.T) {
	NewNop().Info("nothing", "k", "v")
}
