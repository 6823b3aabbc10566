package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestToZapLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{DebugLevel, zapcore.DebugLevel},
		{InfoLevel, zapcore.InfoLevel},
		{WarnLevel, zapcore.WarnLevel},
		{ErrorLevel, zapcore.ErrorLevel},
		{"Debug", zapcore.DebugLevel},
		{" WARN ", zapcore.WarnLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		if got := toZapLevel(tt.in); got != tt.want {
			t.Errorf("toZapLevel(%q): want %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestGetReturnsSingleton(t *testing.T) {
	first := Get(DebugLevel)
	second := Get(ErrorLevel)
	if first == nil {
		t.Fatalf("expected a logger, got nil")
	}
	if first != second {
		t.Fatalf("expected the same instance from both calls")
	}
}
