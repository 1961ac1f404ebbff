package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name string
		xdg  string
		want string
	}{
		{"default", "", filepath.Join(home, ".cache", appName)},
		{"xdg", "/tmp/custom-cache", filepath.Join("/tmp/custom-cache", appName)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CACHE_HOME", tt.xdg)
			dir, err := cacheDir()
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if dir != tt.want {
				t.Errorf("cacheDir() = %q, want %q", dir, tt.want)
			}
		})
	}
}

func TestFileCacheDirFromConfig(t *testing.T) {
	env := newTestEnv(t)
	c := New(io.Discard, LogInfo)
	c.ConfigPath = env.configPath

	dir, err := c.fileCacheDir()
	if err != nil {
		t.Fatalf("fileCacheDir() error: %v", err)
	}
	if dir != env.cacheDir {
		t.Errorf("fileCacheDir() = %q, want %q", dir, env.cacheDir)
	}
}

func TestFileCacheDirFallsBackToXDG(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte("[cache]\nbackend = \"file\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	c := New(io.Discard, LogInfo)
	c.ConfigPath = cfgPath
	dir, err := c.fileCacheDir()
	if err != nil {
		t.Fatalf("fileCacheDir() error: %v", err)
	}
	if want := filepath.Join(xdg, appName); dir != want {
		t.Errorf("fileCacheDir() = %q, want %q", dir, want)
	}
}

func TestConfigPathOrDefault(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	c := New(io.Discard, LogInfo)
	if got, want := c.configPathOrDefault(), filepath.Join(xdg, appName, "config.toml"); got != want {
		t.Errorf("configPathOrDefault() = %q, want %q", got, want)
	}
	c.ConfigPath = "/etc/spantree.toml"
	if got := c.configPathOrDefault(); got != "/etc/spantree.toml" {
		t.Errorf("configPathOrDefault() = %q, want explicit path", got)
	}
}
