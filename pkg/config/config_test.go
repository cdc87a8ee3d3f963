package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	// Test default values
	if config.Wiki.RequestsPerMinute != 60 {
		t.Errorf("Expected default requests per minute to be 60, got %d", config.Wiki.RequestsPerMinute)
	}

	if config.Download.Workers != 8 {
		t.Errorf("Expected default worker count to be 8, got %d", config.Download.Workers)
	}

	if config.Download.MaxImageSize != 5*1024*1024 {
		t.Errorf("Expected default max image size to be 5 MiB, got %d", config.Download.MaxImageSize)
	}

	if config.Storage.ImageDir != "data/images" {
		t.Errorf("Expected default image directory to be data/images, got %s", config.Storage.ImageDir)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	// Set test environment variables
	os.Setenv("WIKIFAUNA_PAGE_URL", "https://example.org/animals")
	os.Setenv("WIKIFAUNA_API_ENDPOINT", "https://example.org/api.php")
	os.Setenv("WIKIFAUNA_WORKERS", "4")
	os.Setenv("WIKIFAUNA_RETRIES", "5")
	os.Setenv("WIKIFAUNA_IMAGE_DIR", "/tmp/test-images")
	os.Setenv("WIKIFAUNA_MANIFEST", "/tmp/test-manifest.json")
	os.Setenv("WIKIFAUNA_LOG_LEVEL", "debug")

	defer func() {
		// Clean up environment variables
		os.Unsetenv("WIKIFAUNA_PAGE_URL")
		os.Unsetenv("WIKIFAUNA_API_ENDPOINT")
		os.Unsetenv("WIKIFAUNA_WORKERS")
		os.Unsetenv("WIKIFAUNA_RETRIES")
		os.Unsetenv("WIKIFAUNA_IMAGE_DIR")
		os.Unsetenv("WIKIFAUNA_MANIFEST")
		os.Unsetenv("WIKIFAUNA_LOG_LEVEL")
	}()

	config := DefaultConfig()
	err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	// Test loaded values
	if config.Wiki.PageURL != "https://example.org/animals" {
		t.Errorf("Expected page URL to be https://example.org/animals, got %s", config.Wiki.PageURL)
	}

	if config.Wiki.APIEndpoint != "https://example.org/api.php" {
		t.Errorf("Expected API endpoint to be https://example.org/api.php, got %s", config.Wiki.APIEndpoint)
	}

	if config.Download.Workers != 4 {
		t.Errorf("Expected worker count to be 4, got %d", config.Download.Workers)
	}

	if config.Download.RetryAttempts != 5 {
		t.Errorf("Expected retry attempts to be 5, got %d", config.Download.RetryAttempts)
	}

	if config.Storage.ImageDir != "/tmp/test-images" {
		t.Errorf("Expected image directory to be /tmp/test-images, got %s", config.Storage.ImageDir)
	}

	if config.Storage.ManifestPath != "/tmp/test-manifest.json" {
		t.Errorf("Expected manifest path to be /tmp/test-manifest.json, got %s", config.Storage.ManifestPath)
	}

	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level to be debug, got %s", config.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantError bool
	}{
		{
			name:      "valid config",
			mutate:    func(c *Config) {},
			wantError: false,
		},
		{
			name: "missing page URL",
			mutate: func(c *Config) {
				c.Wiki.PageURL = ""
			},
			wantError: true,
		},
		{
			name: "zero workers",
			mutate: func(c *Config) {
				c.Download.Workers = 0
			},
			wantError: true,
		},
		{
			name: "too many workers",
			mutate: func(c *Config) {
				c.Download.Workers = 64
			},
			wantError: true,
		},
		{
			name: "zero max image size",
			mutate: func(c *Config) {
				c.Download.MaxImageSize = 0
			},
			wantError: true,
		},
		{
			name: "negative minimum dimension",
			mutate: func(c *Config) {
				c.Locator.MinDimension = -1
			},
			wantError: true,
		},
		{
			name: "missing manifest path",
			mutate: func(c *Config) {
				c.Storage.ManifestPath = ""
			},
			wantError: true,
		},
		{
			name: "invalid log level",
			mutate: func(c *Config) {
				c.Logging.Level = "loud"
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	config := DefaultConfig()

	flags := map[string]interface{}{
		"page-url":      "https://example.org/list",
		"output":        "/flag/report.html",
		"image-dir":     "/flag/images",
		"workers":       7,
		"skip-download": true,
		"log-level":     "error",
	}

	config.MergeCommandLineFlags(flags)

	// Test merged values
	if config.Wiki.PageURL != "https://example.org/list" {
		t.Errorf("Expected page URL to be https://example.org/list, got %s", config.Wiki.PageURL)
	}

	if config.Report.OutputPath != "/flag/report.html" {
		t.Errorf("Expected output path to be /flag/report.html, got %s", config.Report.OutputPath)
	}

	if config.Storage.ImageDir != "/flag/images" {
		t.Errorf("Expected image directory to be /flag/images, got %s", config.Storage.ImageDir)
	}

	if config.Download.Workers != 7 {
		t.Errorf("Expected worker count to be 7, got %d", config.Download.Workers)
	}

	if !config.Download.SkipDownload {
		t.Error("Expected skip-download to be enabled")
	}

	if config.Logging.Level != "error" {
		t.Errorf("Expected log level to be error, got %s", config.Logging.Level)
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	os.Setenv("WIKIFAUNA_WORKERS", "2")
	defer os.Unsetenv("WIKIFAUNA_WORKERS")

	config, err := Load("", map[string]interface{}{"workers": 12})
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.Download.Workers != 12 {
		t.Errorf("Expected flag to win over environment, got %d workers", config.Download.Workers)
	}
}

func TestSaveAndLoadFromFile(t *testing.T) {
	// Create temporary directory for testing
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	// Create a config and save it
	config := DefaultConfig()
	config.Wiki.PageURL = "https://example.org/save-test"
	config.Download.Workers = 6
	config.Locator.Denylist = []string{"icon", "logo"}

	err := config.Save(configPath)
	if err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	// Load the saved config
	loadedConfig := DefaultConfig()
	err = loadedConfig.LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify loaded values
	if loadedConfig.Wiki.PageURL != "https://example.org/save-test" {
		t.Errorf("Expected loaded page URL to be https://example.org/save-test, got %s", loadedConfig.Wiki.PageURL)
	}

	if loadedConfig.Download.Workers != 6 {
		t.Errorf("Expected loaded worker count to be 6, got %d", loadedConfig.Download.Workers)
	}

	if len(loadedConfig.Locator.Denylist) != 2 {
		t.Errorf("Expected loaded denylist to have 2 entries, got %d", len(loadedConfig.Locator.Denylist))
	}
}
