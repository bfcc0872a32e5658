package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//nolint:gochecknoglobals // Compiled once, read-only
var tagName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// Provider names, matching the generator backends.
const (
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

// Where the API key was found.
const (
	KeySourceEnv     = "env"
	KeySourceFile    = "file"
	KeySourceKeyring = "keyring"
)

// Config represents the application configuration.
type Config struct {
	Provider      string          `json:"provider" yaml:"provider"`
	APIKey        string          `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Model         string          `json:"model,omitempty" yaml:"model,omitempty"`
	Temperature   float64         `json:"temperature" yaml:"temperature"`
	MaxTokens     int             `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
	ReasoningTags []string        `json:"reasoning_tags,omitempty" yaml:"reasoning_tags,omitempty"` // "think" when empty
	Portfolio     PortfolioConfig `json:"portfolio" yaml:"portfolio"`
	Sender        SenderConfig    `json:"sender" yaml:"sender"`
	Defaults      DefaultConfig   `json:"defaults" yaml:"defaults"`
	APIKeySource  string          `json:"-" yaml:"-"`
}

// PortfolioConfig locates the portfolio CSV and its SQLite store.
type PortfolioConfig struct {
	CSV string `json:"csv" yaml:"csv"`
	DB  string `json:"db" yaml:"db"`
}

// SenderConfig is the signature block of generated emails.
type SenderConfig struct {
	Name    string `json:"name" yaml:"name"`
	Title   string `json:"title" yaml:"title"`
	Company string `json:"company" yaml:"company"`
}

// DefaultConfig holds default values for commands.
type DefaultConfig struct {
	OutputDir         string  `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	Concurrency       int     `json:"concurrency" yaml:"concurrency"`
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
	LinksPerMail      int     `json:"links_per_mail" yaml:"links_per_mail"`
}

// DefaultPath returns ~/.referral-mailer/config.json.
func DefaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, ".referral-mailer", "config.json")
	return path, err
}

// Load reads configuration from file, then resolves the API key from the
// environment (including a .env file), the config file, or the OS keyring, in
// that order. A missing config file yields defaults.
func Load(configPath string) (cfg Config, err error) {
	// Determine config file location
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	err = loadDotEnv(".env")
	if err != nil {
		return cfg, err
	}

	// Read config file
	var data []byte
	data, err = os.ReadFile(path)
	switch {
	case err == nil:
		err = decode(path, data, &cfg)
		if err != nil {
			return cfg, err
		}
	case os.IsNotExist(err) && configPath == "":
		// No config yet, run on defaults
		err = nil
	case os.IsNotExist(err):
		err = errors.Errorf("config file not found: %s (run 'referral-mailer init' to create)", path)
		return cfg, err
	default:
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	cfg.ApplyDefaults(filepath.Dir(path))
	cfg.resolveAPIKey()

	// Validate required fields
	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

// decode parses JSON or, for .yaml/.yml files, YAML.
func decode(path string, data []byte, cfg *Config) (err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		err = errors.Wrapf(err, "failed to parse config file: %s", path)
		return err
	}
	return err
}

// loadDotEnv loads a .env file if present. Variables already set win.
func loadDotEnv(path string) (err error) {
	_, err = os.Stat(path)
	if os.IsNotExist(err) {
		err = nil
		return err
	}

	err = godotenv.Load(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to load env file: %s", path)
		return err
	}
	return err
}

// EnvVar returns the environment variable holding the API key for provider.
func EnvVar(provider string) (name string) {
	switch provider {
	case ProviderAnthropic:
		name = "ANTHROPIC_API_KEY"
	case ProviderGemini:
		name = "GEMINI_API_KEY"
	default:
		name = "GROQ_API_KEY"
	}
	return name
}

func (c *Config) resolveAPIKey() {
	if key := os.Getenv(EnvVar(c.Provider)); key != "" {
		c.APIKey = key
		c.APIKeySource = KeySourceEnv
		return
	}

	if c.APIKey != "" {
		c.APIKeySource = KeySourceFile
		return
	}

	key, err := GetAPIKey(c.Provider)
	if err == nil && key != "" {
		c.APIKey = key
		c.APIKeySource = KeySourceKeyring
	}
}

// ApplyDefaults fills unset fields. Relative portfolio paths are left alone;
// an unset portfolio database lives next to the config file.
func (c *Config) ApplyDefaults(configDir string) {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = ProviderGroq
	}

	if c.Portfolio.DB == "" {
		c.Portfolio.DB = filepath.Join(configDir, "portfolio.db")
	}

	if c.Sender.Name == "" {
		c.Sender.Name = "Taniya"
	}
	if c.Sender.Title == "" {
		c.Sender.Title = "Business Development Executive"
	}
	if c.Sender.Company == "" {
		c.Sender.Company = "XYZ Solutions"
	}

	if c.Defaults.Concurrency <= 0 {
		c.Defaults.Concurrency = 1
	}
	if c.Defaults.LinksPerMail <= 0 {
		c.Defaults.LinksPerMail = 2
	}
}

// Validate checks that the configuration is usable. The API key is checked
// separately by RequireAPIKey since not every command calls the model.
func (c *Config) Validate() (err error) {
	switch c.Provider {
	case ProviderGroq, ProviderAnthropic, ProviderGemini:
	default:
		err = errors.Errorf("unknown provider %q (expected groq, anthropic or gemini)", c.Provider)
		return err
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		err = errors.Errorf("temperature must be between 0 and 2, got %v", c.Temperature)
		return err
	}

	if c.MaxTokens < 0 {
		err = errors.Errorf("max_tokens must not be negative, got %d", c.MaxTokens)
		return err
	}

	for _, tag := range c.ReasoningTags {
		if !tagName.MatchString(tag) {
			err = errors.Errorf("reasoning tag %q must be a bare tag name like think", tag)
			return err
		}
	}

	if c.Defaults.RequestsPerSecond < 0 {
		err = errors.Errorf("defaults.requests_per_second must not be negative, got %v", c.Defaults.RequestsPerSecond)
		return err
	}

	return err
}

// RequireAPIKey fails when no API key was found for the provider.
func (c *Config) RequireAPIKey() (err error) {
	if c.APIKey == "" {
		err = errors.Errorf("API key for %s is required (set %s, api_key in config, or run 'referral-mailer key set')",
			c.Provider, EnvVar(c.Provider))
		return err
	}
	return err
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (err error) {
	// Determine config file location
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	// Check if file already exists
	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	defaultConfig := Config{
		Provider: ProviderGroq,
		Model:    "qwen/qwen3-32b",
		Portfolio: PortfolioConfig{
			CSV: filepath.Join(dir, "portfolio.csv"),
			DB:  filepath.Join(dir, "portfolio.db"),
		},
		Defaults: DefaultConfig{
			OutputDir:    filepath.Join(dir, "emails"),
			Concurrency:  2,
			LinksPerMail: 2,
		},
	}
	defaultConfig.ApplyDefaults(dir)

	// Write to file
	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(defaultConfig)
	default:
		data, err = json.MarshalIndent(defaultConfig, "", "  ")
	}
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	return err
}
