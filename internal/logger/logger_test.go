package logger

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTeeToConsoleFileAndMemory(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "sim.txt")
	l, err := New(Options{Console: &console, File: path})
	if err != nil {
		t.Fatal(err)
	}
	l.Info("scene loaded", slog.String("name", "desert"))
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for name, got := range map[string]string{"console": console.String(), "file": string(data)} {
		if !strings.Contains(got, "scene loaded") || !strings.Contains(got, "name=desert") {
			t.Errorf("%s = %q", name, got)
		}
	}
	lines := l.Lines()
	if len(lines) != 1 || !strings.Contains(lines[0], "msg=\"scene loaded\"") {
		t.Fatalf("lines = %q", lines)
	}
}

func TestKeepBoundsHistory(t *testing.T) {
	l, _ := New(Options{Console: &bytes.Buffer{}, Keep: 3})
	child := l.With(slog.String("map", "hill1"))
	for i := 0; i < 5; i++ {
		child.Info(fmt.Sprintf("step %d", i))
	}
	lines := l.Lines()
	if len(lines) != 3 || !strings.Contains(lines[0], "step 2") || !strings.Contains(lines[2], "map=hill1") {
		t.Fatalf("lines = %q", lines)
	}
}

func TestLevel(t *testing.T) {
	var console bytes.Buffer
	l, _ := New(Options{Console: &console, Level: slog.LevelWarn, JSON: true})
	l.Info("hidden")
	l.Warn("shown")
	if strings.Contains(console.String(), "hidden") || !strings.Contains(console.String(), `"msg":"shown"`) {
		t.Fatalf("console = %q", console.String())
	}
	if l.Logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("info should be disabled")
	}
}
