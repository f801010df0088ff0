// config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr is the listen address handed to gin.
func (s ServerConfig) Addr() string { return fmt.Sprintf("%s:%d", s.Host, s.Port) }

type PathsConfig struct {
	DataDir       string `yaml:"data_dir"`
	UploadsDir    string `yaml:"uploads_dir"`
	TmpDir        string `yaml:"tmp_dir"`
	ProfileFile   string `yaml:"profile_file"`
	HistoryFile   string `yaml:"history_file"`
	FallbackImage string `yaml:"fallback_image"`
}

type GeminiConfig struct {
	APIKey  string `yaml:"api_key"`
	KeyFile string `yaml:"key_file"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout_sec"`
}

type SessionConfig struct {
	Secret string `yaml:"secret"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Paths   PathsConfig   `yaml:"paths"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	Session SessionConfig `yaml:"session"`
	Log     LogConfig     `yaml:"log"`
}

// Default returns the built-in configuration. Relative paths are anchored
// under Paths.DataDir by Load.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "", Port: 5000},
		Paths: PathsConfig{
			DataDir:       ".",
			UploadsDir:    "static/uploads",
			TmpDir:        "tmp",
			ProfileFile:   "user_profile.json",
			HistoryFile:   "history.json",
			FallbackImage: "static/fallback.png",
		},
		Gemini: GeminiConfig{
			KeyFile: "gemini_key.txt",
			Model:   "gemini-2.5-flash",
			BaseURL: "https://generativelanguage.googleapis.com/v1beta",
			Timeout: 60,
		},
		Session: SessionConfig{Secret: "nutriscan-key-2025"},
		Log:     LogConfig{Level: "info", Format: "text", Output: "stdout"},
	}
}

// Load builds the configuration: defaults, then the optional YAML file
// (CONFIG_FILE, default config.yaml), then environment overrides. A .env
// file is honored when present. Data directories are created on load, and
// the Gemini key falls back to the key file when no env/yaml key is set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(cfg)
	cfg.resolvePaths()

	if err := os.MkdirAll(cfg.Paths.UploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	if err := os.MkdirAll(cfg.Paths.TmpDir, 0o755); err != nil {
		return nil, fmt.Errorf("create tmp dir: %w", err)
	}

	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = readKeyFile(cfg.Gemini.KeyFile)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Paths.DataDir = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.Session.Secret = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func (c *Config) resolvePaths() {
	base := c.Paths.DataDir
	if base == "" {
		base = "."
	}
	c.Paths.DataDir = base
	c.Paths.UploadsDir = joinIfRelative(base, c.Paths.UploadsDir)
	c.Paths.TmpDir = joinIfRelative(base, c.Paths.TmpDir)
	c.Paths.ProfileFile = joinIfRelative(base, c.Paths.ProfileFile)
	c.Paths.HistoryFile = joinIfRelative(base, c.Paths.HistoryFile)
	c.Paths.FallbackImage = joinIfRelative(base, c.Paths.FallbackImage)
	c.Gemini.KeyFile = joinIfRelative(base, c.Gemini.KeyFile)
}

func joinIfRelative(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func readKeyFile(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
