package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"tinderbot/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile    string
	logLevel      string
	storeDir      string
	baseURL       string
	accountName   string
	notifications bool
	useTUI        bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tinderbot",
	Short: "Mirror recommendations and matches to disk and like profiles",
	Long: `TinderBot logs in with a Facebook token, mirrors recommended profiles and
matches into a local store (profile.json, photos and a symlink index per
person) and likes profiles in bulk.

Store layout under the base directory:
  {name}_{id}_store/
    {person}_{id}/profile.json
    {person}_{id}/photos/
    index/      one link to the primary photo of every stored profile
    matches/    the same for matches
    likes.json  ids already liked

Press Ctrl+C at any time: batch operations stop after the current item.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cmd.Name() != "version" && cmd.Name() != "help" && !useTUI {
			ui.PrintLogo()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.tinderbot.yaml or ~/.config/tinderbot/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&storeDir, "store-dir", "", "base directory of the local store (default ~/tinderStore)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API base URL")
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "", "use a specific stored account")
	rootCmd.PersistentFlags().BoolVar(&notifications, "notifications", true, "enable desktop notifications")
	rootCmd.PersistentFlags().BoolVar(&useTUI, "tui", false, "show batch progress in an interactive terminal UI")

	rootCmd.SetVersionTemplate(`TinderBot {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// commandLineFlags collects the flags the user actually set, keyed the way
// config.MergeCommandLineFlags expects
func commandLineFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	if baseURL != "" {
		flags["base-url"] = baseURL
	}
	if storeDir != "" {
		flags["store-dir"] = storeDir
	}

	switch {
	case cmd.Flags().Changed("log-level"):
		flags["log-level"] = logLevel
	case useTUI:
		// console logging would tear the TUI frame
		flags["log-level"] = "error"
	}

	if cmd.Flags().Changed("notifications") {
		flags["notifications"] = notifications
	}
	return flags
}
