// Package config handles configuration and credential storage for groqchat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/diogo/groqchat/internal/models"
)

// Credential backends
const (
	BackendFile    = "file"
	BackendKeyring = "keyring"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style" env:"GROQCHAT_MARKDOWN_STYLE"` // "dark", "light", "dracula", "notty" or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`                        // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`                   // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`                          // Enable word wrap in table cells
}

// Config represents the user configuration
type Config struct {
	Model        string  `json:"model" env:"GROQCHAT_MODEL"`
	Endpoint     string  `json:"endpoint" env:"GROQCHAT_ENDPOINT"`
	SystemPrompt string  `json:"system_prompt" env:"GROQCHAT_SYSTEM_PROMPT"`
	MaxTokens    int     `json:"max_tokens" env:"GROQCHAT_MAX_TOKENS"`
	Temperature  float64 `json:"temperature" env:"GROQCHAT_TEMPERATURE"`
	// TimeoutSeconds is handed to the transport as-is. The client itself
	// never adds a deadline on top of it.
	TimeoutSeconds int `json:"timeout_seconds" env:"GROQCHAT_TIMEOUT_SECONDS"`
	// CredentialBackend selects where the API key lives: "file" or "keyring".
	CredentialBackend string         `json:"credential_backend" env:"GROQCHAT_CREDENTIAL_BACKEND"`
	Verbose           bool           `json:"verbose" env:"GROQCHAT_VERBOSE"`
	CopyToClipboard   bool           `json:"copy_to_clipboard" env:"GROQCHAT_COPY_TO_CLIPBOARD"`
	TUITheme          string         `json:"tui_theme,omitempty" env:"GROQCHAT_TUI_THEME"`
	LogFile           string         `json:"log_file,omitempty" env:"GROQCHAT_LOG_FILE"`
	Markdown          MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Model:             models.DefaultModel,
		Endpoint:          models.EndpointCompletions,
		SystemPrompt:      models.DefaultSystemPrompt,
		MaxTokens:         models.DefaultMaxTokens,
		Temperature:       models.DefaultTemperature,
		TimeoutSeconds:    300,
		CredentialBackend: BackendFile,
		Verbose:           false,
		CopyToClipboard:   false,
		TUITheme:          "groq",
		Markdown:          DefaultMarkdownConfig(),
	}
}

// Validate checks values that would otherwise only fail at request time
func (c Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint cannot be empty")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %g", c.Temperature)
	}
	switch c.CredentialBackend {
	case BackendFile, BackendKeyring:
	default:
		return fmt.Errorf("unknown credential backend %q (expected %q or %q)", c.CredentialBackend, BackendFile, BackendKeyring)
	}
	return nil
}

// GetConfigDir returns the configuration directory path.
// GROQCHAT_HOME overrides the default ~/.groqchat location.
func GetConfigDir() (string, error) {
	if dir := os.Getenv("GROQCHAT_HOME"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".groqchat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: the directory holds the API key when the file backend is used
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetCredentialsPath returns the path to the credentials file
func GetCredentialsPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "credentials.json"), nil
}

// GetLogPath returns the log file from config, falling back to the config dir
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := EnsureConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "groqchat.log"), nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (default ".env")
// into the process environment. Missing files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// LoadConfig loads the configuration from disk, then applies GROQCHAT_*
// environment overrides on top.
func LoadConfig() (Config, error) {
	cfg, err := LoadFileConfig()
	if err != nil {
		return cfg, err
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}

// LoadFileConfig reads config.json over the defaults without the
// environment overlay. Settings edited and saved back use this view.
func LoadFileConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
