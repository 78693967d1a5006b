package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"tagwatch/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage Tagwatch configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as 'tagwatch.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the current configuration including values from all sources.

Sensitive values like the bearer token will be masked for security.`,
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
		configPath = "tagwatch.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintln(os.Stderr, "Configuration file already exists:", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	exampleConfig := `# Tagwatch Configuration File
#
# This file contains all available configuration options.
# You can also use environment variables prefixed with TAGWATCH_
# For example: TAGWATCH_BEARER_TOKEN, TAGWATCH_STORE_PATH

# Twitter API settings
twitter:
  # Bearer token for app-only authentication (required)
  # Prefer 'tagwatch auth login' or TAGWATCH_BEARER_TOKEN over this file
  bearer_token: ""

  # API base URL, override for testing
  base_url: "https://api.twitter.com/1.1"

  # User agent string sent with every request
  user_agent: "tagwatch/1.0"

  # HTTP request timeout
  timeout: 30s

# Search behavior
search:
  # Tweets requested per page
  # Range: 1-100
  count: 100

  # Result type: recent, popular or mixed
  result_type: "recent"

  # Maximum pages fetched per run
  max_pages: 3

  # Delay between successive page requests
  page_delay: 5s

# Document store settings
store:
  # Backing store: sqlite or memory
  driver: "sqlite"

  # Database file path for the sqlite driver
  path: "./tagwatch.db"

# Rate limiting configuration
rate_limit:
  # Requests per minute
  # Range: 1-120
  requests_per_minute: 60

  # Maximum number of retry attempts
  max_retries: 3

  # Initial retry delay
  retry_delay: 5s

  # Backoff multiplier applied between attempts
  backoff_multiplier: 2.0

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path (optional)
  # Leave empty to log to stdout only
  file: ""
`

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to create configuration file:", err)
		os.Exit(1)
	}

	fmt.Println("Configuration file created:", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Store your bearer token with 'tagwatch auth login'")
	fmt.Println("2. Run 'tagwatch config validate' to check the configuration")
	fmt.Println("3. Start collecting with 'tagwatch run'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(1)
	}

	displayCfg := *cfg

	if displayCfg.Twitter.BearerToken != "" {
		if len(displayCfg.Twitter.BearerToken) > 8 {
			displayCfg.Twitter.BearerToken = displayCfg.Twitter.BearerToken[:4] + "..." + displayCfg.Twitter.BearerToken[len(displayCfg.Twitter.BearerToken)-4:]
		} else {
			displayCfg.Twitter.BearerToken = "***"
		}
	}

	data, err := yaml.Marshal(&displayCfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to format configuration:", err)
		os.Exit(1)
	}

	fmt.Println("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (TAGWATCH_*)")
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
			"tagwatch.yaml",
			"tagwatch.yml",
			".tagwatch.yaml",
			".tagwatch.yml",
			filepath.Join(os.Getenv("HOME"), ".tagwatch.yaml"),
			filepath.Join(os.Getenv("HOME"), ".config", "tagwatch", "config.yaml"),
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			fmt.Fprintln(os.Stderr, "No configuration file found. Specify a file with --config.")
			os.Exit(1)
		}
	}

	fmt.Println("Validating configuration:", configFile)

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Configuration validation failed:", err)
		os.Exit(1)
	}

	warnings := []string{}
	errs := []string{}

	if cfg.Twitter.BearerToken == "" {
		warnings = append(warnings, "bearer token not configured; runs need 'tagwatch auth login' or TAGWATCH_BEARER_TOKEN")
	}

	if cfg.Store.Driver == "sqlite" && cfg.Store.Path != "" {
		dir := filepath.Dir(cfg.Store.Path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			errs = append(errs, fmt.Sprintf("cannot create store directory: %v", err))
		}
	}

	if cfg.Logging.File != "" {
		dir := filepath.Dir(cfg.Logging.File)
		if err := os.MkdirAll(dir, 0755); err != nil {
			errs = append(errs, fmt.Sprintf("cannot create log directory: %v", err))
		}
	}

	if len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "Configuration has errors:")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  - %s\n", e)
		}
		os.Exit(1)
	}

	if len(warnings) > 0 {
		fmt.Println("Configuration warnings:")
		for _, w := range warnings {
			fmt.Printf("  - %s\n", w)
		}
		fmt.Println()
	}

	fmt.Println("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Store: %s (%s)\n", cfg.Store.Driver, cfg.Store.Path)
	fmt.Printf("  Tweets per page: %d\n", cfg.Search.Count)
	fmt.Printf("  Max pages per run: %d\n", cfg.Search.MaxPages)
	fmt.Printf("  Rate limit: %d requests/minute\n", cfg.RateLimit.RequestsPerMinute)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}
