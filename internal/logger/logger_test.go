package logger

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelDebug},
		{"bogus", slog.LevelDebug},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestSetupRespectsLevel(t *testing.T) {
	t.Cleanup(func() { Setup("debug", "json", "stdout") })

	Setup("error", "json", "stdout")
	if Get().Enabled(nil, slog.LevelWarn) {
		t.Error("warn should be disabled at error level")
	}
	if !Get().Enabled(nil, slog.LevelError) {
		t.Error("error should be enabled at error level")
	}

	Setup("info", "text", "stderr")
	if Get().Enabled(nil, slog.LevelDebug) {
		t.Error("debug should be disabled at info level")
	}
	if !Get().Enabled(nil, slog.LevelInfo) {
		t.Error("info should be enabled at info level")
	}
}
