package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/diogo/groqchat/internal/models"
)

// setupHome points the config dir at a fresh temp directory
func setupHome(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("GROQCHAT_HOME", "")
	return tmpDir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Model != models.DefaultModel {
		t.Errorf("Expected default model to be '%s', got '%s'", models.DefaultModel, cfg.Model)
	}
	if cfg.MaxTokens != 1000 {
		t.Errorf("Expected MaxTokens to be 1000, got %d", cfg.MaxTokens)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("Expected Temperature to be 0.7, got %g", cfg.Temperature)
	}
	if cfg.CredentialBackend != BackendFile {
		t.Errorf("Expected file backend, got %s", cfg.CredentialBackend)
	}
	if cfg.Verbose != false {
		t.Errorf("Expected Verbose to be false, got %v", cfg.Verbose)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestGetConfigDir(t *testing.T) {
	home := setupHome(t)

	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() returned error: %v", err)
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("GetConfigDir() returned relative path: %s", dir)
	}
	if dir != filepath.Join(home, ".groqchat") {
		t.Errorf("GetConfigDir() = %s, want %s", dir, filepath.Join(home, ".groqchat"))
	}
}

func TestGetConfigDir_Override(t *testing.T) {
	override := t.TempDir()
	t.Setenv("GROQCHAT_HOME", override)

	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() returned error: %v", err)
	}
	if dir != override {
		t.Errorf("GetConfigDir() = %s, want %s", dir, override)
	}
}

func TestGetCredentialsPath(t *testing.T) {
	setupHome(t)

	path, err := GetCredentialsPath()
	if err != nil {
		t.Fatalf("GetCredentialsPath() returned error: %v", err)
	}
	if filepath.Base(path) != "credentials.json" {
		t.Errorf("GetCredentialsPath() should end with credentials.json, got %s", filepath.Base(path))
	}
}

func TestGetLogPath(t *testing.T) {
	home := setupHome(t)

	path, err := GetLogPath(DefaultConfig())
	if err != nil {
		t.Fatalf("GetLogPath() returned error: %v", err)
	}
	if path != filepath.Join(home, ".groqchat", "groqchat.log") {
		t.Errorf("GetLogPath() = %s", path)
	}

	cfg := DefaultConfig()
	cfg.LogFile = "/tmp/custom.log"
	path, _ = GetLogPath(cfg)
	if path != "/tmp/custom.log" {
		t.Errorf("GetLogPath() should honour log_file, got %s", path)
	}
}

func TestEnsureConfigDir(t *testing.T) {
	setupHome(t)

	dir, err := EnsureConfigDir()
	if err != nil {
		t.Fatalf("EnsureConfigDir() returned error: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Directory does not exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("Path is not a directory")
	}
	if perm := info.Mode().Perm(); perm != 0o700 {
		t.Errorf("Directory permissions = %o, want 700", perm)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"keyring backend", func(c *Config) { c.CredentialBackend = BackendKeyring }, false},
		{"zero max tokens", func(c *Config) { c.MaxTokens = 0 }, true},
		{"negative temperature", func(c *Config) { c.Temperature = -0.1 }, true},
		{"temperature too high", func(c *Config) { c.Temperature = 2.5 }, true},
		{"temperature upper bound", func(c *Config) { c.Temperature = 2 }, false},
		{"unknown backend", func(c *Config) { c.CredentialBackend = "vault" }, true},
		{"empty model", func(c *Config) { c.Model = "" }, true},
		{"empty endpoint", func(c *Config) { c.Endpoint = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveConfig(t *testing.T) {
	home := setupHome(t)

	cfg := DefaultConfig()
	cfg.Model = "llama-3.3-70b-versatile"
	cfg.Verbose = true

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() returned error: %v", err)
	}

	configPath := filepath.Join(home, ".groqchat", "config.json")
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	var saved Config
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("Failed to parse saved config: %v", err)
	}
	if saved.Model != cfg.Model {
		t.Errorf("Model = %s, want %s", saved.Model, cfg.Model)
	}
	if saved.Verbose != cfg.Verbose {
		t.Errorf("Verbose = %v, want %v", saved.Verbose, cfg.Verbose)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Failed to stat config file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("File permissions = %o, want 600", perm)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	setupHome(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.Model != models.DefaultModel {
		t.Errorf("Model = %s, want default", cfg.Model)
	}
}

func TestLoadConfig_WithExistingFile(t *testing.T) {
	home := setupHome(t)

	configDir := filepath.Join(home, ".groqchat")
	_ = os.MkdirAll(configDir, 0o700)

	original := DefaultConfig()
	original.Model = "mixtral-8x7b-32768"
	original.MaxTokens = 256
	data, _ := json.MarshalIndent(original, "", "  ")
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), data, 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.Model != original.Model {
		t.Errorf("Model = %s, want %s", cfg.Model, original.Model)
	}
	if cfg.MaxTokens != 256 {
		t.Errorf("MaxTokens = %d, want 256", cfg.MaxTokens)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	home := setupHome(t)

	configDir := filepath.Join(home, ".groqchat")
	_ = os.MkdirAll(configDir, 0o700)
	_ = os.WriteFile(filepath.Join(configDir, "config.json"), []byte(`{"verbose": true}`), 0o600)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if !cfg.Verbose {
		t.Error("Verbose should be loaded from file")
	}
	if cfg.Endpoint != models.EndpointCompletions {
		t.Errorf("Endpoint = %s, want default", cfg.Endpoint)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	home := setupHome(t)

	configDir := filepath.Join(home, ".groqchat")
	_ = os.MkdirAll(configDir, 0o700)
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte(`{"invalid": json content`), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig()
	if err == nil {
		t.Error("LoadConfig() with invalid JSON should return error")
	}
	if cfg.Model != models.DefaultModel {
		t.Errorf("Model = %s, want %s", cfg.Model, models.DefaultModel)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	setupHome(t)
	t.Setenv("GROQCHAT_MODEL", "gemma2-9b-it")
	t.Setenv("GROQCHAT_TEMPERATURE", "1.25")
	t.Setenv("GROQCHAT_CREDENTIAL_BACKEND", BackendKeyring)
	t.Setenv("GROQCHAT_MARKDOWN_STYLE", "light")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.Model != "gemma2-9b-it" {
		t.Errorf("Model = %s, want env override", cfg.Model)
	}
	if cfg.Temperature != 1.25 {
		t.Errorf("Temperature = %g, want 1.25", cfg.Temperature)
	}
	if cfg.CredentialBackend != BackendKeyring {
		t.Errorf("CredentialBackend = %s, want keyring", cfg.CredentialBackend)
	}
	if cfg.Markdown.Style != "light" {
		t.Errorf("Markdown.Style = %s, want light", cfg.Markdown.Style)
	}
}

func TestLoadFileConfig_IgnoresEnv(t *testing.T) {
	setupHome(t)
	saved := DefaultConfig()
	saved.Model = "llama-3.3-70b-versatile"
	if err := SaveConfig(saved); err != nil {
		t.Fatalf("SaveConfig() returned error: %v", err)
	}
	t.Setenv("GROQCHAT_ENDPOINT", "http://localhost:9/one-off")
	t.Setenv("GROQCHAT_MODEL", "openai/gpt-oss-20b")

	cfg, err := LoadFileConfig()
	if err != nil {
		t.Fatalf("LoadFileConfig() returned error: %v", err)
	}
	if cfg.Endpoint != models.EndpointCompletions {
		t.Errorf("Endpoint = %s, want the file value", cfg.Endpoint)
	}
	if cfg.Model != "llama-3.3-70b-versatile" {
		t.Errorf("Model = %s, want the file value", cfg.Model)
	}

	effective, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if effective.Endpoint != "http://localhost:9/one-off" {
		t.Errorf("LoadConfig Endpoint = %s, want env override", effective.Endpoint)
	}
}

func TestLoadFileConfig_InvalidJSON(t *testing.T) {
	home := setupHome(t)
	dir := filepath.Join(home, ".groqchat")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFileConfig()
	if err == nil {
		t.Fatal("LoadFileConfig() should fail on invalid JSON")
	}
	if cfg.Model != models.DefaultModel {
		t.Errorf("Model = %s, want defaults on error", cfg.Model)
	}
}

func TestLoadConfig_InvalidEnv(t *testing.T) {
	setupHome(t)
	t.Setenv("GROQCHAT_MAX_TOKENS", "lots")

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() should fail on a non-numeric GROQCHAT_MAX_TOKENS")
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("GROQCHAT_DOTENV_PROBE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GROQCHAT_DOTENV_PROBE", "")
	_ = os.Unsetenv("GROQCHAT_DOTENV_PROBE")

	if err := LoadDotEnv(envFile); err != nil {
		t.Fatalf("LoadDotEnv() returned error: %v", err)
	}
	if got := os.Getenv("GROQCHAT_DOTENV_PROBE"); got != "from-file" {
		t.Errorf("GROQCHAT_DOTENV_PROBE = %q, want from-file", got)
	}
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}
}
