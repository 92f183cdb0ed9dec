package ssr

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// captureLogs installs a debug-level text logger for the duration of t.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}

func TestLoggerOffByDefault(t *testing.T) {
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev) })
	SetLogger(nil)

	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if Logger().Enabled(context.Background(), level) {
			t.Errorf("Enabled(%v) = true after SetLogger(nil)", level)
		}
	}

	h := Logger().Handler()
	if _, ok := h.WithAttrs([]slog.Attr{slog.Int("k", 1)}).(discard); !ok {
		t.Error("WithAttrs did not keep discarding")
	}
	if _, ok := h.WithGroup("g").(discard); !ok {
		t.Error("WithGroup did not keep discarding")
	}
}

func TestLogEvents(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
		want []string
	}{
		{
			name: "controller resize",
			run: func(t *testing.T) {
				c := NewController(NewPerspectiveCamera(1, 1, 0.1, 100))
				if err := c.Resize(640, 480); err != nil {
					t.Fatalf("Resize() = %v", err)
				}
			},
			want: []string{"level=DEBUG", "max_step=800"},
		},
		{
			name: "software pass lifecycle",
			run: func(t *testing.T) {
				p, err := NewSoftwarePass(16, 8, WithWorkers(1))
				if err != nil {
					t.Fatalf("NewSoftwarePass() = %v", err)
				}
				p.Release()
			},
			want: []string{"level=INFO", "software pass created", "width=16", "software pass released"},
		},
		{
			name: "near-plane rebuild",
			run: func(t *testing.T) {
				NewNearPlaneCache(1).Points(NewPerspectiveCamera(1, 1, 0.1, 100), 4, 4)
			},
			want: []string{"building near-plane points", "height=4"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)
			tt.run(t)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("log output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestSetLoggerConcurrent(t *testing.T) {
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev) })

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			Logger().Debug("frame", "i", i)
		}()
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				SetLogger(slog.Default())
			} else {
				SetLogger(nil)
			}
		}()
	}
	wg.Wait()
}

func BenchmarkDisabledLog(b *testing.B) {
	l := slog.New(discard{})
	b.ReportAllocs()
	for b.Loop() {
		l.Debug("dispatched frame", "width", 800, "height", 600)
	}
}
