package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected *zapcore.Level
	}{
		{"debug", levelPtr(zapcore.DebugLevel)},
		{"info", levelPtr(zapcore.InfoLevel)},
		{"warn", levelPtr(zapcore.WarnLevel)},
		{"error", levelPtr(zapcore.ErrorLevel)},
		{"verbose", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got := parseLevel(tt.input)
		switch {
		case tt.expected == nil && got != nil:
			t.Errorf("parseLevel(%q) = %v, want nil", tt.input, *got)
		case tt.expected != nil && (got == nil || *got != *tt.expected):
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, *tt.expected)
		}
	}
}

func TestWithKeepsInterface(t *testing.T) {
	log := New("error", false)
	child := log.With(String("platform", "codeforces"))
	if child == nil {
		t.Fatal("With() returned nil")
	}
	child.Debug("discarded at error level")
	NewNop().With(Bool("ok", true)).Info("discarded")
}

func levelPtr(l zapcore.Level) *zapcore.Level { return &l }
