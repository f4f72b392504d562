package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Fatalf("explicit missing file must be an error, got %+v", cfg)
	}

	// No explicit path: absence of the default file is fine.
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("cache_ttl default = %v", cfg.CacheTTL)
	}
	if cfg.MaxDepth != 10 {
		t.Errorf("max_depth default = %d", cfg.MaxDepth)
	}
	if cfg.Workers != 0 {
		t.Errorf("workers default = %d", cfg.Workers)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `cache_ttl: 30m
workers: 4
max_depth: 6
extra_markers:
  build-cache: [meson.build, BUILD.bazel]
protected:
  - ~/notes
opt_in_categories: [package-cache]
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CacheTTL != 30*time.Minute {
		t.Errorf("cache_ttl = %v", cfg.CacheTTL)
	}
	if cfg.Workers != 4 || cfg.MaxDepth != 6 {
		t.Errorf("workers=%d max_depth=%d", cfg.Workers, cfg.MaxDepth)
	}
	if got := cfg.ExtraMarkers["build-cache"]; len(got) != 2 || got[0] != "meson.build" {
		t.Errorf("extra_markers = %v", cfg.ExtraMarkers)
	}
	if len(cfg.OptInCategories) != 1 || cfg.OptInCategories[0] != "package-cache" {
		t.Errorf("opt_in_categories = %v", cfg.OptInCategories)
	}
}

func TestProtectedPathsMergeAndExpand(t *testing.T) {
	cfg := &Config{Protected: []string{"~/notes", "/srv/data"}}
	paths := cfg.ProtectedPaths()

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home dir")
	}
	want := filepath.Join(home, "notes")

	var sawHome, sawNotes, sawSrv bool
	for _, p := range paths {
		switch p {
		case home:
			sawHome = true
		case want:
			sawNotes = true
		case "/srv/data":
			sawSrv = true
		}
	}
	if !sawHome {
		t.Errorf("built-in home protection missing from %v", paths)
	}
	if !sawNotes || !sawSrv {
		t.Errorf("user paths not merged or expanded: %v", paths)
	}
}
