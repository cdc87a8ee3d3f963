package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the report generator
type Config struct {
	// Source page and API settings
	Wiki WikiConfig `yaml:"wiki" json:"wiki"`

	// Image download settings
	Download DownloadConfig `yaml:"download" json:"download"`

	// Image locator heuristics
	Locator LocatorConfig `yaml:"locator" json:"locator"`

	// Local paths for images, manifest and page cache
	Storage StorageConfig `yaml:"storage" json:"storage"`

	// Report rendering settings
	Report ReportConfig `yaml:"report" json:"report"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// WikiConfig holds settings for talking to the encyclopedia
type WikiConfig struct {
	PageURL           string        `yaml:"page_url" json:"page_url"`
	APIEndpoint       string        `yaml:"api_endpoint" json:"api_endpoint"`
	UserAgent         string        `yaml:"user_agent" json:"user_agent"`
	RequestTimeout    time.Duration `yaml:"request_timeout" json:"request_timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// DownloadConfig holds download-specific configuration
type DownloadConfig struct {
	Workers         int           `yaml:"workers" json:"workers"`
	RetryAttempts   int           `yaml:"retry_attempts" json:"retry_attempts"`
	Timeout         time.Duration `yaml:"timeout" json:"timeout"`
	MaxImageSize    int64         `yaml:"max_image_size" json:"max_image_size"`
	PlaceholderPath string        `yaml:"placeholder_path" json:"placeholder_path"`
	SkipDownload    bool          `yaml:"skip_download" json:"skip_download"`
}

// LocatorConfig holds the image-quality heuristics. The thresholds and the
// denylist are tuned against one site's markup conventions and are kept as
// data so they can be adjusted without touching the strategy cascade.
type LocatorConfig struct {
	MinDimension int      `yaml:"min_dimension" json:"min_dimension"`
	LeadBlocks   int      `yaml:"lead_blocks" json:"lead_blocks"`
	Denylist     []string `yaml:"denylist" json:"denylist"`
}

// StorageConfig holds local filesystem paths
type StorageConfig struct {
	ImageDir     string `yaml:"image_dir" json:"image_dir"`
	ManifestPath string `yaml:"manifest_path" json:"manifest_path"`
	CachePath    string `yaml:"cache_path" json:"cache_path"`
}

// ReportConfig holds report rendering configuration
type ReportConfig struct {
	OutputPath  string `yaml:"output_path" json:"output_path"`
	TemplateDir string `yaml:"template_dir" json:"template_dir"`
	StaticDir   string `yaml:"static_dir" json:"static_dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Wiki: WikiConfig{
			PageURL:           "https://en.wikipedia.org/wiki/List_of_animal_names",
			APIEndpoint:       "https://en.wikipedia.org/w/api.php",
			UserAgent:         "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			RequestTimeout:    10 * time.Second,
			RequestsPerMinute: 60,
		},
		Download: DownloadConfig{
			Workers:         8,
			RetryAttempts:   3,
			Timeout:         15 * time.Second,
			MaxImageSize:    5 * 1024 * 1024,
			PlaceholderPath: "assets/placeholder.jpg",
		},
		Locator: LocatorConfig{
			MinDimension: 50,
			LeadBlocks:   3,
			Denylist: []string{
				"icon", "logo", "wiki-letter", "question_book", "edit-icon",
				"ambox", "symbol", "padlock", "disambig", "sound-", "loudspeaker",
			},
		},
		Storage: StorageConfig{
			ImageDir:     "data/images",
			ManifestPath: "data/manifest.json",
			CachePath:    "data/raw_snapshot.html",
		},
		Report: ReportConfig{
			OutputPath:  "output/report.html",
			TemplateDir: "templates",
			StaticDir:   "static",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if pageURL := os.Getenv("WIKIFAUNA_PAGE_URL"); pageURL != "" {
		c.Wiki.PageURL = pageURL
	}
	if api := os.Getenv("WIKIFAUNA_API_ENDPOINT"); api != "" {
		c.Wiki.APIEndpoint = api
	}
	if userAgent := os.Getenv("WIKIFAUNA_USER_AGENT"); userAgent != "" {
		c.Wiki.UserAgent = userAgent
	}

	if workers := os.Getenv("WIKIFAUNA_WORKERS"); workers != "" {
		var val int
		fmt.Sscanf(workers, "%d", &val)
		if val > 0 {
			c.Download.Workers = val
		}
	}
	if retries := os.Getenv("WIKIFAUNA_RETRIES"); retries != "" {
		var val int
		fmt.Sscanf(retries, "%d", &val)
		if val > 0 {
			c.Download.RetryAttempts = val
		}
	}

	if imageDir := os.Getenv("WIKIFAUNA_IMAGE_DIR"); imageDir != "" {
		c.Storage.ImageDir = imageDir
	}
	if manifest := os.Getenv("WIKIFAUNA_MANIFEST"); manifest != "" {
		c.Storage.ManifestPath = manifest
	}

	if logLevel := os.Getenv("WIKIFAUNA_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".wikifauna.yaml",
		".wikifauna.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "wikifauna", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "wikifauna", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".wikifauna.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Wiki.PageURL == "" {
		errs = append(errs, errors.New("wiki page URL is required"))
	}
	if c.Wiki.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.Wiki.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}

	if c.Download.Workers <= 0 {
		errs = append(errs, errors.New("worker count must be positive"))
	}
	if c.Download.Workers > 32 {
		errs = append(errs, errors.New("worker count should not exceed 32"))
	}
	if c.Download.RetryAttempts <= 0 {
		errs = append(errs, errors.New("retry attempts must be positive"))
	}
	if c.Download.MaxImageSize <= 0 {
		errs = append(errs, errors.New("max image size must be positive"))
	}

	if c.Locator.MinDimension < 0 {
		errs = append(errs, errors.New("minimum image dimension cannot be negative"))
	}
	if c.Locator.LeadBlocks <= 0 {
		errs = append(errs, errors.New("lead block count must be positive"))
	}

	if c.Storage.ImageDir == "" {
		errs = append(errs, errors.New("image directory is required"))
	}
	if c.Storage.ManifestPath == "" {
		errs = append(errs, errors.New("manifest path is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if pageURL, ok := flags["page-url"].(string); ok && pageURL != "" {
		c.Wiki.PageURL = pageURL
	}
	if output, ok := flags["output"].(string); ok && output != "" {
		c.Report.OutputPath = output
	}
	if imageDir, ok := flags["image-dir"].(string); ok && imageDir != "" {
		c.Storage.ImageDir = imageDir
	}
	if manifest, ok := flags["manifest"].(string); ok && manifest != "" {
		c.Storage.ManifestPath = manifest
	}
	if cache, ok := flags["cache"].(string); ok && cache != "" {
		c.Storage.CachePath = cache
	}
	if templates, ok := flags["templates"].(string); ok && templates != "" {
		c.Report.TemplateDir = templates
	}
	if static, ok := flags["static"].(string); ok && static != "" {
		c.Report.StaticDir = static
	}
	if workers, ok := flags["workers"].(int); ok && workers > 0 {
		c.Download.Workers = workers
	}
	if retries, ok := flags["retries"].(int); ok && retries > 0 {
		c.Download.RetryAttempts = retries
	}
	if skip, ok := flags["skip-download"].(bool); ok {
		c.Download.SkipDownload = skip
	}
	if placeholder, ok := flags["placeholder"].(string); ok && placeholder != "" {
		c.Download.PlaceholderPath = placeholder
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".wikifauna.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
