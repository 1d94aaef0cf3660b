package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"scrivener/internal/logging"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const APP_NAME = "scrivener" // application name used for config directory

// DefaultMetaFileName is the metadata document kept at the project root.
const DefaultMetaFileName = "project_meta.json"

// AIConfig holds settings for the architecture audit model.
type AIConfig struct {
	// BaseURL of an OpenAI-compatible chat completions endpoint.
	// Empty means the public OpenAI API.
	BaseURL     string   `yaml:"base_url,omitempty"`
	Model       string   `yaml:"model"`
	Temperature *float64 `yaml:"temperature,omitempty"`
	MaxTokens   *int     `yaml:"max_tokens,omitempty"`
}

// Config holds user configuration for scrivener.
type Config struct {
	// ProjectRoot is the directory whose metadata scrivener manages.
	// Empty means the current working directory at startup.
	ProjectRoot string `yaml:"project_root,omitempty"`
	// MetaFileName overrides the metadata document name inside the root.
	MetaFileName string   `yaml:"meta_file_name,omitempty"`
	AI           AIConfig `yaml:"ai"`
	Version      string   `yaml:"version"`   // Track config version
	InitTime     int64    `yaml:"init_time"` // Unix timestamp of first setup
}

// ConfigPath returns the standard config file path for the current platform
func ConfigPath() (string, error) {
	configDir := filepath.Join(xdg.ConfigHome, APP_NAME)
	configPath := filepath.Join(configDir, "config.yaml")

	logging.Debug("Determined config path", "path", configPath)
	return configPath, nil
}

// Load loads the config from the standard location.
// If no config exists, defaults are returned; they are persisted on first Save.
func Load() (*Config, error) {
	configPath, exists := FindConfigFile()
	logging.Debug("Loading config from", "path", configPath)
	if !exists {
		cfg := DefaultConfig()
		return &cfg, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads config from a specific path
func LoadFrom(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.MetaFileName == "" {
		cfg.MetaFileName = DefaultMetaFileName
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = DefaultConfig().AI.Model
	}

	return &cfg, nil
}

// FindConfigFile returns the path to an existing config file, and whether it exists.
func FindConfigFile() (string, bool) {
	primary, err := ConfigPath()
	if err != nil {
		logging.Error("Failed to get config path", "error", err)
		return "", false
	}

	// Check primary location first
	if _, err := os.Stat(primary); err == nil {
		logging.Debug("Config found at primary path", "path", primary)
		return primary, true
	}

	// Return primary path for new config
	return primary, false
}

// IsFirstRun checks if this is the first time the application is run
func IsFirstRun() bool {
	_, exists := FindConfigFile()
	return !exists
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ProjectRoot:  "", // resolved to cwd at startup
		MetaFileName: DefaultMetaFileName,
		AI: AIConfig{
			Model: "gpt-4o",
		},
		Version:  "1.0",
		InitTime: 0, // Will be set during first save
	}
}

// ResolveProjectRoot returns the absolute project root, falling back to the
// current working directory when none is configured.
func (c *Config) ResolveProjectRoot() (string, error) {
	root := c.ProjectRoot
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to determine working directory: %w", err)
		}
		root = cwd
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project root: %w", err)
	}
	return abs, nil
}

// MetaFilePath returns the full path of the metadata document.
func (c *Config) MetaFilePath() (string, error) {
	root, err := c.ResolveProjectRoot()
	if err != nil {
		return "", err
	}

	name := c.MetaFileName
	if name == "" {
		name = DefaultMetaFileName
	}
	return filepath.Join(root, name), nil
}

// Save writes the config to the standard location
func (c *Config) Save() error {
	configPath, _ := FindConfigFile()
	return c.SaveTo(configPath)
}

// SaveTo writes the config to a specific path
func (c *Config) SaveTo(path string) error {
	// Set init time if this is the first save
	if c.InitTime == 0 {
		c.InitTime = time.Now().Unix()
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create file with restrictive permissions (600) for security
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	defer enc.Close()

	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
