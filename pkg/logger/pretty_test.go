package logger_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"emergencyHub/pkg/logger"
)

func TestPrettyHandler(t *testing.T) {
	var buf bytes.Buffer
	h := logger.PrettyHandlerOptions{SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug}}.NewPrettyHandler(&buf)

	log := slog.New(h).With(slog.String("op", "test.Op"))
	log.Info("incident saved", slog.Int("version", 2))

	out := buf.String()
	for _, want := range []string{"incident saved", `"op": "test.Op"`, `"version": 2`} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q lacks %q", out, want)
		}
	}
}
