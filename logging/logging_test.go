package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"

	"scdaid/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"":        zapcore.InfoLevel,
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	}
	for in, want := range tests {
		got, err := parseLevel(in)
		if err != nil {
			t.Fatalf("parseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := parseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	cfg := config.Default().Log
	cfg.Format = "xml"
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewWritesToFile(t *testing.T) {
	cfg := config.Default().Log
	cfg.Format = "json"
	cfg.File = filepath.Join(t.TempDir(), "service.log")

	logger, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("model loaded")
	logger.Debug("hidden at info level")
	_ = logger.Sync()

	data, err := os.ReadFile(cfg.File)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"model loaded"`) {
		t.Fatalf("log line missing: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line written at info level: %s", out)
	}
}
