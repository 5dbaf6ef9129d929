// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Environment variable names consulted by ApplyEnv.
const (
	EnvGeminiKey = "GEMINI_API_KEY"
	EnvTavilyKey = "TAVILY_API_KEY"
	EnvDataDir   = "CV_STUDIO_DATA_DIR"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via
// CLI flags or environment variables.
type Config struct {
	// Paths
	DataDir   string `json:"data_dir,omitempty"`   // Directory holding user.md, template.md, and output/
	AssetsDir string `json:"assets_dir,omitempty"` // Directory holding cv_style.css and cv_header.tex

	// Credentials
	GeminiAPIKey string `json:"gemini_api_key,omitempty"` // Gemini API key
	TavilyAPIKey string `json:"tavily_api_key,omitempty"` // Extraction service API key (optional)

	// Models, by tier
	ModelLite     string `json:"model_lite,omitempty"`
	ModelStandard string `json:"model_standard,omitempty"`
	ModelAdvanced string `json:"model_advanced,omitempty"`

	// Behavior
	MaxTurns   int  `json:"max_turns,omitempty" validate:"omitempty,min=1,max=128"` // Decision round bound per message
	Port       int  `json:"port,omitempty" validate:"omitempty,min=1,max=65535"`    // HTTP server port
	UseBrowser bool `json:"use_browser,omitempty"`                                  // Use headless browser for SPA job pages
	Verbose    bool `json:"verbose,omitempty"`                                      // Print detailed debug information
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:   "data",
		AssetsDir: "assets",
		MaxTurns:  32,
		Port:      8080,
	}
}

// Load loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: required fields (the Gemini key) are checked at client construction,
// after flag and environment merging.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// ApplyEnv fills credentials and paths from environment variables when the
// config has not set them. Explicit config values win over the environment.
func (c *Config) ApplyEnv() {
	if c.GeminiAPIKey == "" {
		c.GeminiAPIKey = os.Getenv(EnvGeminiKey)
	}
	if c.TavilyAPIKey == "" {
		c.TavilyAPIKey = os.Getenv(EnvTavilyKey)
	}
	if c.DataDir == "" {
		c.DataDir = os.Getenv(EnvDataDir)
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DataDir == "" {
		result.DataDir = defaults.DataDir
	}
	if result.AssetsDir == "" {
		result.AssetsDir = defaults.AssetsDir
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.TavilyAPIKey == "" {
		result.TavilyAPIKey = defaults.TavilyAPIKey
	}
	if result.ModelLite == "" {
		result.ModelLite = defaults.ModelLite
	}
	if result.ModelStandard == "" {
		result.ModelStandard = defaults.ModelStandard
	}
	if result.ModelAdvanced == "" {
		result.ModelAdvanced = defaults.ModelAdvanced
	}

	// Int fields: use default if zero
	if result.MaxTurns == 0 {
		result.MaxTurns = defaults.MaxTurns
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	return result
}
