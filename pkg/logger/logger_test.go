package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCriticalRendersLevelName(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug, "text")

	log.Critical("identity action exhausted retries", "action_id", "a1")

	out := buf.String()
	if !strings.Contains(out, "level=CRITICAL") {
		t.Fatalf("expected CRITICAL level name, got %q", out)
	}
}

func TestBusinessErrorNilIsNoOp(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug, "text")

	log.BusinessError("rejected", nil)
	if buf.Len() != 0 {
		t.Fatalf("nil error must not log, got %q", buf.String())
	}

	log.BusinessError("rejected", errors.New("slug taken"), "slug", "grace-chapel")
	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "slug taken") {
		t.Fatalf("expected WARN with err attached, got %q", out)
	}
}

func TestInternalErrorLogsAtError(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelDebug, "text")

	log.InternalError("db write failed", errors.New("connection reset"))
	if !strings.Contains(buf.String(), "level=ERROR") {
		t.Fatalf("expected ERROR level, got %q", buf.String())
	}
}

func TestParseLevelDefaults(t *testing.T) {
	if got := parseLevel("", "development"); got != slog.LevelDebug {
		t.Fatalf("development default: expected debug, got %v", got)
	}
	if got := parseLevel("", "production"); got != slog.LevelInfo {
		t.Fatalf("production default: expected info, got %v", got)
	}
	if got := parseLevel("critical", ""); got != LevelCritical {
		t.Fatalf("expected critical level, got %v", got)
	}
}
