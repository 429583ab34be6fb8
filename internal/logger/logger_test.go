package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level   string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"WARN", zapcore.WarnLevel, false},
		{"verbose", 0, true},
	}
	for _, tt := range tests {
		l, err := New(tt.level)
		if tt.wantErr {
			if err == nil {
				t.Errorf("level %q: expected error", tt.level)
			}
			continue
		}
		if err != nil {
			t.Fatalf("level %q: %v", tt.level, err)
		}
		if !l.Core().Enabled(tt.want) {
			t.Errorf("level %q: %v should be enabled", tt.level, tt.want)
		}
		if tt.want > zapcore.DebugLevel && l.Core().Enabled(tt.want-1) {
			t.Errorf("level %q: %v should be disabled", tt.level, tt.want-1)
		}
	}
}
