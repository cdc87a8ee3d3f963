package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"wikifauna/pkg/config"
	"wikifauna/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage wikifauna configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (WIKIFAUNA_*)
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as 'wikifauna.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration after merging all sources:
  - Command line flags
  - Environment variables
  - Configuration file
  - Default values`,
	Run: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Required fields
  - Value types and ranges
  - Path accessibility`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = "wikifauna.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists: %s", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	exampleConfig := `# wikifauna configuration file
#
# This file contains all available configuration options.
# You can also use environment variables prefixed with WIKIFAUNA_
# For example: WIKIFAUNA_PAGE_URL, WIKIFAUNA_WORKERS

# Source page configuration
wiki:
  # Page holding the collateral adjective table
  page_url: "https://en.wikipedia.org/wiki/List_of_animal_names"

  # MediaWiki API endpoint, used as a last-resort image search
  api_endpoint: "https://en.wikipedia.org/w/api.php"

  # Request timeout
  request_timeout: 10s

  # Page lookups per minute, shared across workers
  requests_per_minute: 60

# Download configuration
download:
  # Number of concurrent workers
  # Range: 1-32
  workers: 8

  # Retry attempts per download
  retry_attempts: 3

  # Hard ceiling per image in bytes (5 MiB)
  max_image_size: 5242880

  # Image substituted when resolution fails; leave empty to disable
  placeholder_path: "assets/placeholder.jpg"

# Image locator tuning
locator:
  # Reject images declaring a width or height below this
  min_dimension: 50

  # Lead paragraphs scanned for inline images
  lead_blocks: 3

# Storage configuration
storage:
  image_dir: "data/images"
  manifest_path: "data/manifest.json"
  cache_path: "data/raw_snapshot.html"

# Report configuration
report:
  output_path: "report.html"
  template_dir: "templates"
  static_dir: "static"

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path (optional)
  # Leave empty to log to stdout only
  file: ""
`

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to create configuration file: %v", err)
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Adjust the configuration to taste")
	fmt.Println("2. Run 'wikifauna config validate' to check it")
	fmt.Println("3. Start a run with 'wikifauna run'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		ui.PrintError("Failed to format configuration: %v", err)
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (WIKIFAUNA_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (not specified)")
	}
	fmt.Println("4. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	if configFile == "" {
		possiblePaths := []string{
			"wikifauna.yaml",
			"wikifauna.yml",
			".wikifauna.yaml",
			".wikifauna.yml",
			filepath.Join(os.Getenv("HOME"), ".wikifauna.yaml"),
			filepath.Join(os.Getenv("HOME"), ".config", "wikifauna", "config.yaml"),
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			ui.PrintError("No configuration file found; specify one with --config")
			os.Exit(1)
		}
	}

	ui.PrintInfo("Validating configuration", configFile)

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed: %v", err)
		os.Exit(1)
	}

	var warnings []string
	var errs []string

	if cfg.Download.PlaceholderPath != "" {
		if _, err := os.Stat(cfg.Download.PlaceholderPath); err != nil {
			warnings = append(warnings, fmt.Sprintf("placeholder image not found: %s", cfg.Download.PlaceholderPath))
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.Report.TemplateDir, "report.gohtml")); err != nil {
		errs = append(errs, fmt.Sprintf("report template not found in %s", cfg.Report.TemplateDir))
	}
	if err := os.MkdirAll(cfg.Storage.ImageDir, 0755); err != nil {
		errs = append(errs, fmt.Sprintf("cannot create image directory: %v", err))
	}
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			errs = append(errs, fmt.Sprintf("cannot create log directory: %v", err))
		}
	}

	if len(errs) > 0 {
		ui.PrintError("Configuration has errors:")
		for _, e := range errs {
			fmt.Printf("  - %s\n", e)
		}
		os.Exit(1)
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Page URL: %s\n", cfg.Wiki.PageURL)
	fmt.Printf("  Workers: %d\n", cfg.Download.Workers)
	fmt.Printf("  Retries: %d\n", cfg.Download.RetryAttempts)
	fmt.Printf("  Image directory: %s\n", cfg.Storage.ImageDir)
	fmt.Printf("  Report output: %s\n", cfg.Report.OutputPath)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}
