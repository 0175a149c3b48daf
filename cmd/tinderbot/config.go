package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"tinderbot/pkg/config"
	"tinderbot/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage TinderBot configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (TINDERBOT_*)
  - .env files
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file is created in the current directory as '.tinderbot.yaml' unless a
different path is given with --config.`,
	Run: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the configuration merged from all sources. The Facebook token is
masked.`,
	Run: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Run:   runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

const exampleConfig = `# TinderBot configuration file
#
# Every option can also be set with an environment variable prefixed with
# TINDERBOT_, for example TINDERBOT_FACEBOOK_TOKEN or TINDERBOT_STORE_DIR.

# Remote API
api:
  base_url: "https://api.gotinder.com"
  user_agent: "Tinder/4.0.9 (iPhone; iOS 8.1.1; Scale/2.00)"
  app_version: "4"
  platform: "android"
  # Request timeout, e.g. 30s. 0 waits forever.
  timeout: 0s

# Facebook credentials. Prefer 'tinderbot auth login', which keeps the
# token out of this file.
credentials:
  facebook_token: ""
  facebook_id: ""

# Local store. The bot writes to {base_directory}/{name}_{id}_store.
store:
  base_directory: "~/tinderStore"

bot:
  # Greeting sent by 'tinderbot say-hi'. {name} is the match's name.
  hi_message: "Hi {name}! How are you?"

notifications:
  enabled: true
  # Desktop notification when a like turns into a match
  on_match: true

logging:
  # debug, info, warn, error
  level: "info"
  # Optional log file, in addition to the console
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = ".tinderbot.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		ui.PrintError("Failed to create configuration directory", err.Error())
		os.Exit(1)
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0600); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Store your credentials with 'tinderbot auth login'")
	fmt.Println("2. Run 'tinderbot config validate' to check the configuration")
	fmt.Println("3. Fetch profiles with 'tinderbot recs'")
}

// maskedConfig returns a copy of cfg safe to print
func maskedConfig(cfg *config.Config) config.Config {
	display := *cfg
	if token := display.Credentials.FacebookToken; token != "" {
		if len(token) > 8 {
			display.Credentials.FacebookToken = token[:4] + "..." + token[len(token)-4:]
		} else {
			display.Credentials.FacebookToken = "***"
		}
	}
	return display
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, commandLineFlags(cmd))
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	display := maskedConfig(cfg)
	data, err := yaml.Marshal(&display)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (TINDERBOT_*)")
	path := configFile
	if path == "" {
		path = config.FindConfigFile()
	}
	if path != "" {
		fmt.Printf("3. Configuration file: %s\n", path)
	} else {
		fmt.Println("3. Configuration file: (none found)")
	}
	fmt.Println("4. Default values")
}

// configWarnings lists problems that do not stop the configuration from
// loading but will stop the bot from working
func configWarnings(cfg *config.Config) []string {
	var warnings []string
	if !cfg.HasCredentials() {
		warnings = append(warnings, "Facebook credentials not configured; stored accounts will be used")
	}
	if info, err := os.Stat(cfg.Store.BaseDirectory); err == nil && !info.IsDir() {
		warnings = append(warnings, "store base directory is not a directory: "+cfg.Store.BaseDirectory)
	}
	if cfg.API.Timeout == 0 {
		warnings = append(warnings, "no request timeout; a stalled request waits until Ctrl+C")
	}
	return warnings
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	path := configFile
	if path == "" {
		path = config.FindConfigFile()
	}
	if path != "" {
		ui.PrintInfo("Validating configuration", path)
	} else {
		ui.PrintInfo("Validating configuration", "defaults and environment")
	}

	cfg, err := config.Load(path, commandLineFlags(cmd))
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	if warnings := configWarnings(cfg); len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, warn := range warnings {
			fmt.Printf("  - %s\n", warn)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  API: %s\n", cfg.API.BaseURL)
	fmt.Printf("  Store directory: %s\n", cfg.Store.BaseDirectory)
	fmt.Printf("  Notifications: %t\n", cfg.Notifications.Enabled)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}
