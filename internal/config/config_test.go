package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/talgya/hexwalk/internal/world"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hexwalk.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gc, err := cfg.GenConfig()
	if err != nil {
		t.Fatal(err)
	}
	if gc != world.DefaultGenConfig() {
		t.Fatalf("expected default gen config, got %+v", gc)
	}
	if cfg.Server.MaxIterations != 64 || cfg.Server.RateLimit != 60 || cfg.LogLevel() != slog.LevelInfo {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
generation:
  iterations: 0
  stay_prob: 0.6
  step_size: 0.5
  seed: 77
  color_mode: relief
scene:
  lights:
    - [0, -1, 0.25]
storage:
  path: runs.db
server:
  port: 8080
log:
  level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gc, err := cfg.GenConfig()
	if err != nil {
		t.Fatal(err)
	}
	want := world.GenConfig{Iterations: 0, StayProb: 0.6, StepSize: 0.5, Seed: 77, ColorMode: world.ColorRelief, PixelSize: 1.0}
	if gc != want {
		t.Fatalf("got %+v, want %+v", gc, want)
	}
	if cfg.Storage.Path != "runs.db" || cfg.Server.Port != 8080 || cfg.LogLevel() != slog.LevelDebug {
		t.Fatalf("unexpected config %+v", cfg)
	}
	lights := cfg.Lights()
	if len(lights) != 1 || lights[0].Direction != [3]float64{0, -1, 0.25} {
		t.Fatalf("lights = %+v", lights)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HEXWALK_SEED", "9")
	t.Setenv("HEXWALK_ITERATIONS", "4")
	t.Setenv("HEXWALK_DB", "/tmp/x.db")
	t.Setenv("HEXWALK_PORT", "9090")
	cfg, err := Load(writeFile(t, "generation:\n  seed: 1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Generation.Seed != 9 || *cfg.Generation.Iterations != 4 {
		t.Fatalf("env not applied: %+v", cfg.Generation)
	}
	if cfg.Storage.Path != "/tmp/x.db" || cfg.Server.Port != 9090 {
		t.Fatalf("env not applied: %+v %+v", cfg.Storage, cfg.Server)
	}

	t.Setenv("HEXWALK_SEED", "many")
	if _, err := Load(writeFile(t, "")); err == nil {
		t.Fatal("expected error for non-numeric seed")
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	if _, err := Load(writeFile(t, "generation:\n  stay_prob: 1.5\n")); !errors.Is(err, world.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := Load(writeFile(t, "generation:\n  color_mode: sepia\n")); !errors.Is(err, world.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := Load(writeFile(t, "generation: [")); err == nil {
		t.Fatal("expected parse error")
	}
}
