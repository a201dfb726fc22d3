// Package engineconfig loads the simulator configuration from config/sim.yaml, overlays
// SIM_* environment variables and can watch the file for edits.
package engineconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/invopop/jsonschema"
	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"
)

// ConfigPath is the default config file, relative to the process working directory.
const ConfigPath = "config/sim.yaml"

// Server configures the visualization server.
type Server struct {
	Addr     string `yaml:"addr" json:"addr" env:"SIM_ADDR" jsonschema:"description=HTTP listen address"`
	Realtime bool   `yaml:"realtime" json:"realtime" env:"SIM_REALTIME" jsonschema:"description=pace the loop to the world time step"`
	Map      string `yaml:"map" json:"map" env:"SIM_MAP" jsonschema:"description=background map shown by the visualizer"`
}

// Log configures the process logger.
type Log struct {
	Level string `yaml:"level" json:"level" env:"SIM_LOG_LEVEL" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	File  string `yaml:"file" json:"file" env:"SIM_LOG_FILE"`
	JSON  bool   `yaml:"json" json:"json" env:"SIM_LOG_JSON"`
}

// Telemetry configures graph forwarding.
type Telemetry struct {
	Redis     bool   `yaml:"redis" json:"redis" env:"SIM_TELEMETRY_REDIS" jsonschema:"description=forward graph points to Redis streams"`
	RedisAddr string `yaml:"redis_addr" json:"redis_addr" env:"SIM_REDIS_ADDR"`
}

// Viewer configures the optional 3D window.
type Viewer struct {
	Enabled bool  `yaml:"enabled" json:"enabled" env:"SIM_VIEWER"`
	Width   int32 `yaml:"width" json:"width" env:"SIM_VIEWER_WIDTH" jsonschema:"minimum=320"`
	Height  int32 `yaml:"height" json:"height" env:"SIM_VIEWER_HEIGHT" jsonschema:"minimum=240"`
}

// Config holds everything the map programs read at startup. Persisted across runs.
type Config struct {
	ResourceDir   string    `yaml:"resource_dir" json:"resource_dir" env:"SIM_RESOURCE_DIR" jsonschema:"description=directory holding heightmaps meshes and robot descriptions; empty means next to the binary"`
	ActivationKey string    `yaml:"activation_key" json:"activation_key" env:"SIM_ACTIVATION_KEY"`
	Seed          uint64    `yaml:"seed" json:"seed" env:"SIM_SEED" jsonschema:"description=random seed; 0 seeds from the clock"`
	Server        Server    `yaml:"server" json:"server"`
	Log           Log       `yaml:"log" json:"log"`
	Telemetry     Telemetry `yaml:"telemetry" json:"telemetry"`
	Viewer        Viewer    `yaml:"viewer" json:"viewer"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		ActivationKey: filepath.Join(homeDir(), ".raisim", "activation.raisim"),
		Server: Server{
			Addr:     "127.0.0.1:8080",
			Realtime: true,
			Map:      "wheat",
		},
		Log: Log{Level: "info", File: "logs/sim.txt"},
		Telemetry: Telemetry{
			RedisAddr: "localhost:6379",
		},
		Viewer: Viewer{Width: 1280, Height: 720},
	}
}

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return "."
}

// Level parses Log.Level. Unknown names mean info.
func (c Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return slog.LevelInfo
	}
	return l
}

// Load reads path over Default(). A missing file is not an error. SIM_* environment
// variables override file values.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return c, fmt.Errorf("engineconfig: %w", err)
	default:
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Default(), fmt.Errorf("engineconfig: parse %s: %w", path, err)
		}
	}
	if err := envdecode.Decode(&c); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return c, fmt.Errorf("engineconfig: environment: %w", err)
	}
	return c, nil
}

// Save writes c to path as YAML, creating the directory if needed.
func Save(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("engineconfig: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("engineconfig: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Schema returns the JSON Schema of Config.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{DoNotReference: true, ExpandedStruct: true}
	s := r.Reflect(new(Config))
	s.Title = "sim-maps configuration"
	return json.MarshalIndent(s, "", "  ")
}

// Watch calls onChange with the reloaded config each time path is written, until ctx
// is done. Parse errors are logged and the previous config stays in effect.
// The parent directory is watched so editors that replace the file are seen.
func Watch(ctx context.Context, path string, log *slog.Logger, onChange func(Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("engineconfig: watch: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("engineconfig: watch %s: %w", path, err)
	}
	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			c, err := Load(path)
			if err != nil {
				log.Warn("engineconfig: reload failed", slog.String("path", path), slog.String("err", err.Error()))
				continue
			}
			onChange(c)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("engineconfig: watcher", slog.String("err", err.Error()))
		}
	}
}
