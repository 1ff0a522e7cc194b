package texel

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/gogpu/texel/alloc"
	"github.com/gogpu/texel/jobs"
)

// captureLogs installs a debug-level text logger for the duration of the
// test and returns its output buffer.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return &buf
}

func TestLogger_SilentByDefault(t *testing.T) {
	ctx := context.Background()
	for _, lvl := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if Logger().Enabled(ctx, lvl) {
			t.Errorf("default logger enabled at %v", lvl)
		}
	}
}

func TestLogger_Propagates(t *testing.T) {
	buf := captureLogs(t)

	pool := jobs.NewPool(2)
	defer pool.Close()
	a := alloc.MustNew(alloc.Persistent)
	b, err := Allocate[float32](Shape{8, 8}, a, WithLabel("traced"))
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if err := Normalize(pool, b, ValueBounds{Min: 0, Max: 1}, jobs.Completed()).Wait(context.Background()); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	_ = b.Dispose()

	for _, want := range []string{
		"texel: buffer allocated",
		"label=traced",
		"alloc: block allocated",
		"texel: pass scheduled",
		"jobs: pass complete",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log output missing %q", want)
		}
	}
}

func TestLogger_DoubleDisposeWarns(t *testing.T) {
	buf := captureLogs(t)

	b, _ := Allocate[uint8](Shape{2, 2}, alloc.MustNew(alloc.Temp))
	_ = b.Dispose()
	buf.Reset()
	_ = b.Dispose()

	out := buf.String()
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "disposed twice") {
		t.Errorf("second Dispose logged %q, want a disposed-twice warning", out)
	}
}

func TestLogger_NilSilences(t *testing.T) {
	_ = captureLogs(t)
	SetLogger(nil)

	if Logger() == nil {
		t.Fatal("Logger() = nil after SetLogger(nil)")
	}
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("logger still enabled after SetLogger(nil)")
	}
}

func TestLogger_RaceFree(t *testing.T) {
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev) })

	var wg sync.WaitGroup
	for i := range 64 {
		wg.Go(func() {
			if i%2 == 0 {
				SetLogger(slog.Default())
				SetLogger(nil)
				return
			}
			Logger().Debug("read", "i", i)
		})
	}
	wg.Wait()
}

func BenchmarkLogger_Disabled(b *testing.B) {
	l := Logger()
	b.ReportAllocs()
	for b.Loop() {
		l.Debug("texel: pass scheduled", "length", 4096, "chunk", DefaultChunk)
	}
}
