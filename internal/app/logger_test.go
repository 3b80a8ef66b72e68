package app

import (
	"log/slog"
	"testing"
)

func TestLogLevel(t *testing.T) {
	cases := []struct {
		setting string
		want    slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := logLevel(&Config{LogLevel: tc.setting}); got != tc.want {
			t.Errorf("logLevel(%q) = %v, want %v", tc.setting, got, tc.want)
		}
	}
	if got := logLevel(nil); got != slog.LevelInfo {
		t.Errorf("logLevel(nil) = %v, want info", got)
	}
}
