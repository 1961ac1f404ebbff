package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/matzehuels/spantree/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestDecodeOverridesDefaults(t *testing.T) {
	src := `
[canvas]
width = 800

[run]
algorithm = "prim"
interval = "250ms"

[server]
session_store = "redis"
`
	cfg, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Canvas.Width != 800 {
		t.Errorf("Width = %v, want 800", cfg.Canvas.Width)
	}
	if cfg.Canvas.Height != Default().Canvas.Height {
		t.Errorf("Height = %v, want default", cfg.Canvas.Height)
	}
	if cfg.Run.Algorithm != "prim" {
		t.Errorf("Algorithm = %q", cfg.Run.Algorithm)
	}
	if cfg.Run.Interval.Duration != 250*time.Millisecond {
		t.Errorf("Interval = %v", cfg.Run.Interval)
	}
	if cfg.Server.SessionStore != BackendRedis {
		t.Errorf("SessionStore = %q", cfg.Server.SessionStore)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", "[canvas\nwidth = 1", "parse config"},
		{"unknown key", "[canvas]\ndepth = 3", "unknown keys: canvas.depth"},
		{"bad algorithm", "[run]\nalgorithm = \"boruvka\"", "run.algorithm"},
		{"bad layout", "[layout]\ntype = \"spiral\"", "layout.type"},
		{"bad mode", "[run]\nmode = \"lockstep\"", "run.mode"},
		{"padding", "[canvas]\npadding = 300", "padding"},
		{"bad duration", "[run]\ninterval = \"soon\"", "parse config"},
		{"backend", "[cache]\nbackend = \"memcached\"", "cache.backend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("expected error")
			}
			if !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
				t.Errorf("code = %q, want INVALID_CONFIG", apperrors.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("missing default file should not fail: %v", err)
	}
	if cfg != Default() {
		t.Error("missing default file should yield defaults")
	}

	if _, err := Load(filepath.Join(dir, "nope.toml")); !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing path: err = %v", err)
	}

	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "spantree", "config.toml"); path != want {
		t.Errorf("DefaultPath() = %q, want %q", path, want)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[layout]\ntype = \"circular\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout.Type != "circular" {
		t.Errorf("Layout.Type = %q", cfg.Layout.Type)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Run.Interval = Duration{1500 * time.Millisecond}

	var buf bytes.Buffer
	if err := Encode(&buf, cfg); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `interval = "1.5s"`) {
		t.Errorf("duration not written as string:\n%s", buf.String())
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestLayoutOptions(t *testing.T) {
	cfg := Default()
	opts := cfg.LayoutOptions()
	if opts.Width != 600 || opts.Height != 400 || opts.Padding != 50 {
		t.Errorf("LayoutOptions() = %+v", opts)
	}
	if opts.Iterations != cfg.Layout.Iterations || opts.Seed != cfg.Layout.Seed {
		t.Errorf("LayoutOptions() = %+v", opts)
	}
}
