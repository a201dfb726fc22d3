package engineconfig

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	d := Default()
	if c.Server != d.Server || c.Log != d.Log || c.Viewer != d.Viewer {
		t.Fatalf("got %+v, want defaults", c)
	}
	if c.Level() != slog.LevelInfo {
		t.Fatalf("level = %v", c.Level())
	}
}

func TestLoadFileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	yml := "seed: 42\nserver:\n  map: hill1\n  realtime: false\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SIM_ADDR", "0.0.0.0:9000")

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Seed != 42 || c.Server.Map != "hill1" || c.Server.Realtime {
		t.Fatalf("file values not applied: %+v", c)
	}
	if c.Server.Addr != "0.0.0.0:9000" {
		t.Fatalf("addr = %q, want env override", c.Server.Addr)
	}
	if c.Viewer.Width != 1280 {
		t.Fatalf("viewer width = %d, want default", c.Viewer.Width)
	}
	if c.Level() != slog.LevelDebug {
		t.Fatalf("level = %v", c.Level())
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	if err := os.WriteFile(path, []byte("server: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "sim.yaml")
	c := Default()
	c.ResourceDir = "/opt/rsc"
	c.Telemetry.Redis = true
	if err := Save(path, c); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.ResourceDir != "/opt/rsc" || !got.Telemetry.Redis {
		t.Fatalf("got %+v", got)
	}
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Type       string                     `json:"type"`
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Type != "object" {
		t.Fatalf("type = %q", doc.Type)
	}
	for _, key := range []string{"resource_dir", "server", "log", "telemetry", "viewer"} {
		if _, ok := doc.Properties[key]; !ok {
			t.Errorf("schema missing %q", key)
		}
	}
}

func TestWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sim.yaml")
	if err := os.WriteFile(path, []byte("seed: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, slog.New(slog.DiscardHandler), func(c Config) {
			select {
			case got <- c:
			default:
			}
		})
	}()

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case c := <-got:
			if c.Seed == 7 {
				cancel()
				if err := <-done; err != nil {
					t.Fatal(err)
				}
				return
			}
		case <-tick.C:
			// Rewrite until the watcher, which starts asynchronously, sees it.
			if err := os.WriteFile(path, []byte("seed: 7\n"), 0o644); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("no reload within 5s")
		}
	}
}
