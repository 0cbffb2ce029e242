package akhttp

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSimpleLoggerFormatting(t *testing.T) {
	var buf bytes.Buffer
	l := &SimpleLogger{logger: log.New(&buf, "", 0)}

	l.Info("request finished", "method", "GET", "status", 200)
	line := buf.String()
	if !strings.Contains(line, "INFO request finished") {
		t.Errorf("line = %q, want level and message", line)
	}
	if !strings.Contains(line, "method=GET") || !strings.Contains(line, "status=200") {
		t.Errorf("line = %q, want key=value pairs", line)
	}

	buf.Reset()
	l.Warn("dangling", "orphan")
	if !strings.Contains(buf.String(), "WARN dangling orphan") {
		t.Errorf("line = %q, odd trailing value should still print", buf.String())
	}
}

func TestZeroLoggerEmitsStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewZeroLogger(zerolog.New(&buf))

	l.Error("request failed", "requestID", "abc123", "status", 502)

	line := buf.String()
	if !strings.Contains(line, `"level":"error"`) {
		t.Errorf("line = %q, want error level", line)
	}
	if !strings.Contains(line, `"message":"request failed"`) {
		t.Errorf("line = %q, want the message field", line)
	}
	if !strings.Contains(line, `"requestID":"abc123"`) || !strings.Contains(line, `"status":502`) {
		t.Errorf("line = %q, want structured key/value fields", line)
	}
}

func TestZeroLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewZeroLogger(zerolog.New(&buf).Level(zerolog.WarnLevel))

	l.Debug("too quiet")
	l.Info("still too quiet")
	if buf.Len() != 0 {
		t.Errorf("buffer = %q, want nothing below warn", buf.String())
	}

	l.Warn("loud enough")
	if !strings.Contains(buf.String(), "loud enough") {
		t.Errorf("buffer = %q, want the warn line", buf.String())
	}
}

func TestNewDefaultZeroLoggerFallsBackToInfo(t *testing.T) {
	if l := NewDefaultZeroLogger("not-a-level"); l == nil {
		t.Fatal("expected a logger")
	}
	if l := NewDefaultZeroLogger("debug"); l == nil {
		t.Fatal("expected a logger")
	}
}
