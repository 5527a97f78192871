package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromFileMissingYieldsDefaults(t *testing.T) {
	cfg, err := FromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if cfg.EsPath != "es" {
		t.Fatalf("EsPath = %q, want default", cfg.EsPath)
	}
	if cfg.MaxResults != 1000 {
		t.Fatalf("MaxResults = %d, want 1000", cfg.MaxResults)
	}
	if cfg.SearchTimeout != 30 {
		t.Fatalf("SearchTimeout = %d, want 30", cfg.SearchTimeout)
	}
	if !cfg.ShowIcons || !cfg.UnicodeIcons {
		t.Fatal("icon defaults should be on")
	}
}

func TestFromFileEmptyYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("  \n"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	cfg, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if cfg.MaxResults != 1000 {
		t.Fatalf("MaxResults = %d, want default", cfg.MaxResults)
	}
}

func TestFromFileOverridesAndBackfills(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	body := "es_path: /opt/es\nmax_results: 250\nsearch_content: true\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	cfg, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if cfg.EsPath != "/opt/es" {
		t.Fatalf("EsPath = %q", cfg.EsPath)
	}
	if cfg.MaxResults != 250 {
		t.Fatalf("MaxResults = %d", cfg.MaxResults)
	}
	if !cfg.SearchContent {
		t.Fatal("SearchContent not read")
	}
	// Unset numeric fields fall back instead of sticking at zero.
	if cfg.SearchTimeout != 30 {
		t.Fatalf("SearchTimeout = %d, want backfilled default", cfg.SearchTimeout)
	}
	if cfg.HistoryPath == "" {
		t.Fatal("HistoryPath not backfilled")
	}
}

func TestFromFileRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("es_path: [unclosed"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	if _, err := FromFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnsureConfigExists(t *testing.T) {
	home := t.TempDir()
	if err := EnsureConfigExists(home); err != nil {
		t.Fatalf("EnsureConfigExists: %v", err)
	}

	if _, err := os.Stat(GetConfigPath(home)); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	// Second call leaves the existing file alone.
	if err := os.WriteFile(GetConfigPath(home), []byte("max_results: 5\n"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}
	if err := EnsureConfigExists(home); err != nil {
		t.Fatalf("EnsureConfigExists again: %v", err)
	}
	data, err := os.ReadFile(GetConfigPath(home))
	if err != nil || string(data) != "max_results: 5\n" {
		t.Fatalf("existing config clobbered: %q, %v", data, err)
	}
}

func TestValidateToolsWarnsOnMissing(t *testing.T) {
	cfg := &Config{
		EsPath:       "/definitely/not/here/es",
		ExifToolPath: "/definitely/not/here/exiftool",
		IndexPath:    filepath.Join(t.TempDir(), "missing.bleve"),
	}

	warnings := cfg.ValidateTools()
	if len(warnings) != 3 {
		t.Fatalf("got %d warnings, want 3: %v", len(warnings), warnings)
	}
}
