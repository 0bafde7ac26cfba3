package logger

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStandardLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewStandardLogger(log.New(&buf, "", 0))
	l.Info("hello %s", "world")
	l.Warning("watch out")
	l.Error("broken")
	if err := l.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"[INFO] hello world", "[WARNING] watch out", "[ERROR] broken"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got %q", want, out)
		}
	}
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	l, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.Info("first run")
	if err := l.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	l2, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l2.Warning("second run")
	if err := l2.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "[INFO] first run") || !strings.Contains(out, "[WARNING] second run") {
		t.Fatalf("expected both runs in log file, got %q", out)
	}
}

func TestMockLoggerRecords(t *testing.T) {
	m := NewMockLogger()
	m.Info("a %d", 1)
	m.Warning("b")
	m.Error("c")
	m.Close()

	if len(m.InfoCalls) != 1 || m.InfoCalls[0] != "a 1" {
		t.Fatalf("unexpected info calls: %v", m.InfoCalls)
	}
	if len(m.WarningCalls) != 1 || len(m.ErrorCalls) != 1 {
		t.Fatalf("unexpected calls: %v %v", m.WarningCalls, m.ErrorCalls)
	}
	if !m.CloseCalled {
		t.Fatalf("expected close to be recorded")
	}
}

func TestMultiLoggerFansOut(t *testing.T) {
	a := NewMockLogger()
	b := NewMockLogger()
	m := NewMultiLogger(a, b)

	m.Info("hello")
	m.Warning("careful")
	m.Error("broken")
	if err := m.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, l := range []*MockLogger{a, b} {
		if len(l.InfoCalls) != 1 || len(l.WarningCalls) != 1 || len(l.ErrorCalls) != 1 {
			t.Fatalf("expected every level fanned out, got %+v", l)
		}
		if !l.CloseCalled {
			t.Fatalf("expected close fanned out")
		}
	}
}

func TestNopLoggerIsSilent(t *testing.T) {
	l := NewNopLogger()
	l.Info("dropped")
	l.Warning("dropped")
	l.Error("dropped")
	if err := l.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
