package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

// resetLogger restores the default state for test isolation
func resetLogger() {
	_ = Init(Options{})
}

func TestInit_Levels(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		visible []string
		hidden  []string
	}{
		{"default", Options{}, []string{"info", "warn", "error"}, []string{"debug"}},
		{"debug", Options{Debug: true}, []string{"debug", "info", "warn", "error"}, nil},
		{"quiet", Options{Quiet: true}, []string{"error"}, []string{"debug", "info", "warn"}},
		{"quiet wins over debug", Options{Debug: true, Quiet: true}, []string{"error"}, []string{"debug", "info"}},
		{"level warn", Options{Level: "warn"}, []string{"warn", "error"}, []string{"debug", "info"}},
		{"level overrides debug flag", Options{Debug: true, Level: "error"}, []string{"error"}, []string{"debug", "warn"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			opts := tt.opts
			opts.Output = buf
			if err := Init(opts); err != nil {
				t.Fatalf("Init() error = %v", err)
			}
			defer resetLogger()

			Debug("msg-debug")
			Info("msg-info")
			Warn("msg-warn")
			Error("msg-error")

			out := buf.String()
			for _, lvl := range tt.visible {
				if !strings.Contains(out, "msg-"+lvl) {
					t.Errorf("expected %s message in %q", lvl, out)
				}
			}
			for _, lvl := range tt.hidden {
				if strings.Contains(out, "msg-"+lvl) {
					t.Errorf("did not expect %s message in %q", lvl, out)
				}
			}
		})
	}
}

func TestInit_UnknownLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	err := Init(Options{Level: "loud", Output: buf})
	defer resetLogger()

	if err == nil {
		t.Fatal("expected error for unknown level")
	}
	Info("still info")
	if !strings.Contains(buf.String(), "still info") {
		t.Error("unknown level should fall back to info")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}

func TestInit_JSONFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	_ = Init(Options{JSON: true, Output: buf})
	defer resetLogger()

	Info("page fetched", "url", "https://docs.dev", "bytes", 42)

	out := buf.String()
	for _, want := range []string{`"msg":"page fetched"`, `"url":"https://docs.dev"`, `"bytes":42`, `"level":"INFO"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
}

func TestInit_TextFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	_ = Init(Options{Output: buf})
	defer resetLogger()

	Info("extracted markdown", "fragments", 3)

	out := buf.String()
	if !strings.Contains(out, "level=INFO") || !strings.Contains(out, "fragments=3") {
		t.Errorf("unexpected text output %q", out)
	}
}

func TestInit_CustomLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	custom := slog.New(slog.NewJSONHandler(buf, nil))
	_ = Init(Options{Logger: custom, Debug: true})
	defer resetLogger()

	Debug("hidden by custom handler level")
	Info("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("custom logger not used: %q", buf.String())
	}
}

func TestEnabled(t *testing.T) {
	_ = Init(Options{Output: &bytes.Buffer{}})
	defer resetLogger()

	if Enabled(slog.LevelDebug) {
		t.Error("debug should be disabled by default")
	}
	if !Enabled(slog.LevelWarn) {
		t.Error("warn should be enabled by default")
	}
}

func TestWith_ReturnsLoggerWithAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	_ = Init(Options{Output: buf})
	defer resetLogger()

	With("component", "fetcher").Info("ready")

	if !strings.Contains(buf.String(), "component=fetcher") {
		t.Errorf("expected attributes in %q", buf.String())
	}
}

func TestContextVariants(t *testing.T) {
	buf := &bytes.Buffer{}
	_ = Init(Options{Debug: true, Output: buf})
	defer resetLogger()

	ctx := context.Background()
	DebugContext(ctx, "ctx-debug")
	InfoContext(ctx, "ctx-info")
	WarnContext(ctx, "ctx-warn")
	ErrorContext(ctx, "ctx-error")

	for _, want := range []string{"ctx-debug", "ctx-info", "ctx-warn", "ctx-error"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %s in output", want)
		}
	}
}
