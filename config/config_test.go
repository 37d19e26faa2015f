package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Extract.DeclarationSelector != ".api-declarations-list .declarations" {
		t.Errorf("unexpected DeclarationSelector %q", cfg.Extract.DeclarationSelector)
	}
	if cfg.Extract.SignatureSelector != ".signature" {
		t.Errorf("unexpected SignatureSelector %q", cfg.Extract.SignatureSelector)
	}
	if cfg.Extract.Workers != 1 {
		t.Errorf("expected Workers=1, got %d", cfg.Extract.Workers)
	}
	if len(cfg.Filter.Denylist) != 2 {
		t.Errorf("expected 2 denylisted types, got %v", cfg.Filter.Denylist)
	}
	if cfg.Output.Path != "declarations.txt" {
		t.Errorf("expected output declarations.txt, got %s", cfg.Output.Path)
	}
	if !cfg.Cache.Enabled {
		t.Error("expected cache enabled by default")
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sigdump.yaml")

	content := `
extract:
  workers: 3
  keyword_class: kw
filter:
  denylist: [Sequence]
  unit_for_empty_params: true
output:
  path: "-"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Extract.Workers != 3 {
		t.Errorf("expected Workers=3, got %d", cfg.Extract.Workers)
	}
	if cfg.Extract.KeywordClass != "kw" {
		t.Errorf("expected KeywordClass=kw, got %s", cfg.Extract.KeywordClass)
	}
	if cfg.Extract.SignatureSelector != ".signature" {
		t.Errorf("expected default SignatureSelector to survive, got %s", cfg.Extract.SignatureSelector)
	}
	if len(cfg.Filter.Denylist) != 1 || cfg.Filter.Denylist[0] != "Sequence" {
		t.Errorf("expected denylist [Sequence], got %v", cfg.Filter.Denylist)
	}
	if !cfg.Filter.UnitForEmptyParams {
		t.Error("expected UnitForEmptyParams=true")
	}
	if cfg.Output.Path != "-" {
		t.Errorf("expected output -, got %s", cfg.Output.Path)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "sigdump.yaml")
	if err := os.WriteFile(configPath, []byte("extract: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	if err := EnsureDir(tmpDir); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(tmpDir, ".sigdump", "config.yaml")

	content := `
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level debug, got %s", cfg.Logging.Level)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sigdump.yaml")
	cfg := DefaultConfig()
	cfg.Extract.Workers = 7

	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Extract.Workers != 7 {
		t.Errorf("expected Workers=7 after reload, got %d", loaded.Extract.Workers)
	}
}

func TestCacheDBPath(t *testing.T) {
	path := CacheDBPath("/home/user/docs")
	expected := filepath.Join("/home/user/docs", ".sigdump", "cache.db")
	if path != expected {
		t.Errorf("expected %s, got %s", expected, path)
	}
}
