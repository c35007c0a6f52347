package log

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew(t *testing.T) {
	t.Run("defaults to info level", func(t *testing.T) {
		logger, err := New(Options{Output: &bytes.Buffer{}})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if logger.GetLevel() != logrus.InfoLevel {
			t.Errorf("level = %v, want info", logger.GetLevel())
		}
	})

	t.Run("parses level", func(t *testing.T) {
		logger, err := New(Options{Level: "debug", Output: &bytes.Buffer{}})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if logger.GetLevel() != logrus.DebugLevel {
			t.Errorf("level = %v, want debug", logger.GetLevel())
		}
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		if _, err := New(Options{Level: "chatty"}); err == nil {
			t.Error("expected error for unknown level")
		}
	})

	t.Run("writes fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := New(Options{Output: &buf, NoColors: true})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		logger.WithFields(Fields{"faces": 2}).Info("frame analyzed")

		out := buf.String()
		if !strings.Contains(out, "frame analyzed") {
			t.Errorf("output missing message: %q", out)
		}
		if !strings.Contains(out, "faces:2") {
			t.Errorf("output missing field: %q", out)
		}
	})

	t.Run("also writes to file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "tiltcam.log")
		logger, err := New(Options{Output: &bytes.Buffer{}, File: file, NoColors: true})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		logger.Warn("camera stalled")

		data, err := os.ReadFile(file)
		if err != nil {
			t.Fatalf("read log file: %v", err)
		}
		if !strings.Contains(string(data), "camera stalled") {
			t.Errorf("log file missing entry: %q", data)
		}
	})
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	// Should not panic or write anywhere visible.
	logger.Error("ignored")
}
