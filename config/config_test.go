package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_FILE", filepath.Join(dir, "absent.yaml"))
	t.Setenv("DATA_DIR", dir)
	t.Setenv("SERVER_PORT", "6001")
	t.Setenv("GEMINI_API_KEY", "env-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr() != ":6001" {
		t.Errorf("addr = %q", cfg.Server.Addr())
	}
	if cfg.Gemini.APIKey != "env-key" {
		t.Errorf("api key = %q", cfg.Gemini.APIKey)
	}
	if cfg.Paths.HistoryFile != filepath.Join(dir, "history.json") {
		t.Errorf("history file = %q", cfg.Paths.HistoryFile)
	}
	for _, d := range []string{cfg.Paths.UploadsDir, cfg.Paths.TmpDir} {
		if _, err := os.Stat(d); err != nil {
			t.Errorf("dir %s not created: %v", d, err)
		}
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	yml := filepath.Join(dir, "config.yaml")
	content := "server:\n  port: 7777\nlog:\n  level: debug\n"
	if err := os.WriteFile(yml, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", yml)
	t.Setenv("DATA_DIR", dir)
	t.Setenv("SERVER_PORT", "")
	t.Setenv("GEMINI_API_KEY", "x")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("port = %d, want 7777 from yaml", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestLoadKeyFileFallback(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_FILE", filepath.Join(dir, "absent.yaml"))
	t.Setenv("DATA_DIR", dir)
	t.Setenv("GEMINI_API_KEY", "")

	if err := os.WriteFile(filepath.Join(dir, "gemini_key.txt"), []byte("  file-key \n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Gemini.APIKey != "file-key" {
		t.Errorf("api key = %q, want trimmed file contents", cfg.Gemini.APIKey)
	}
}
