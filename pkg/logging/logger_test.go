package logging

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, zapcore.DebugLevel)

	logger.ComponentInfo(ComponentClient, "request completed", zap.Int("status", 200))

	out := buf.String()
	if !strings.Contains(out, "[CLIENT] request completed") {
		t.Errorf("Expected component prefix in output, got %q", out)
	}
	if !strings.Contains(out, "\tI\t") {
		t.Errorf("Expected single-letter level in output, got %q", out)
	}
}

func TestWriterLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, zapcore.WarnLevel)

	logger.ComponentDebug(ComponentFallback, "hidden")
	logger.ComponentWarn(ComponentFallback, "shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected debug line to be filtered, got %q", out)
	}
	if !strings.Contains(out, "[FALLBACK] shown") {
		t.Errorf("Expected warn line, got %q", out)
	}
}

func TestFromConfig(t *testing.T) {
	t.Run("invalid level", func(t *testing.T) {
		if _, err := FromConfig("loud", "console", ""); err == nil {
			t.Error("Expected error for invalid level")
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		if _, err := FromConfig("info", "xml", ""); err == nil {
			t.Error("Expected error for invalid format")
		}
	})

	t.Run("json file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "client.log")
		logger, err := FromConfig("info", "json", path)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		logger.ComponentInfo(ComponentReferral, "stored")
		_ = logger.Sync()

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("Failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), `"msg":"[REFERRAL] stored"`) {
			t.Errorf("Expected JSON line, got %q", string(data))
		}
	})
}

func TestStandardLogger(t *testing.T) {
	var buf bytes.Buffer
	std := NewStandardLogger(NewWriterLogger(&buf, zapcore.DebugLevel), ComponentDevServer)

	std.Printf("GET %s\n", "/health")

	if !strings.Contains(buf.String(), "[DEVSERVER] GET /health") {
		t.Errorf("Expected forwarded line, got %q", buf.String())
	}
}

func TestRedactHeaders(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLogger(&buf, zapcore.DebugLevel)

	h := http.Header{}
	h.Set("x-signature", "0xdeadbeef")
	h.Set("x-message", "sign%20me")
	h.Set("x-signer", "0xabc")
	h.Set("Content-Type", "application/json")

	logger.Info("outgoing", RedactHeaders(h))

	out := buf.String()
	if strings.Contains(out, "0xdeadbeef") || strings.Contains(out, "sign%20me") {
		t.Errorf("Expected sensitive values to be masked, got %q", out)
	}
	if !strings.Contains(out, "0xabc") {
		t.Errorf("Expected signer to be kept, got %q", out)
	}
	if !strings.Contains(out, redacted) {
		t.Errorf("Expected redaction marker, got %q", out)
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.ComponentError(ComponentGeneral, "nothing happens")
}
