package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestInit_Levels(t *testing.T) {
	cases := []struct {
		level string
		env   string
		want  zapcore.Level
	}{
		{"debug", "dev", zapcore.DebugLevel},
		{"WARN", "prod", zapcore.WarnLevel},
		{"nonsense", "production", zapcore.InfoLevel},
	}
	for _, tc := range cases {
		t.Run(tc.level+"_"+tc.env, func(t *testing.T) {
			l, err := Init(tc.level, tc.env, "test")
			if err != nil {
				t.Fatal(err)
			}
			defer l.Closer()
			if got := l.Level.Level(); got != tc.want {
				t.Fatalf("уровень %v, ожидали %v", got, tc.want)
			}
			l.Level.SetLevel(zapcore.ErrorLevel)
			if l.Base.Core().Enabled(zapcore.WarnLevel) {
				t.Fatal("смена уровня не применилась к логгеру")
			}
		})
	}
}

func TestNormalizeEnv(t *testing.T) {
	cases := map[string]string{
		"":             "dev",
		"PROD":         "prod",
		" production ": "prod",
		"Staging":      "staging",
	}
	for in, want := range cases {
		if got := normalizeEnv(in); got != want {
			t.Errorf("normalizeEnv(%q) = %q, want %q", in, got, want)
		}
	}
}
