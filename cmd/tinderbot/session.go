package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"tinderbot/pkg/auth"
	"tinderbot/pkg/bot"
	"tinderbot/pkg/config"
	apperrors "tinderbot/pkg/errors"
	"tinderbot/pkg/logger"
	"tinderbot/pkg/ui"
	"tinderbot/pkg/ui/tui"
)

// credentialSource says where the credentials used for a run came from
type credentialSource string

const (
	sourceConfig  credentialSource = "configuration"
	sourceAccount credentialSource = "stored account"
)

// resolveCredentials fills cfg.Credentials when the configuration does not
// already carry both values. A named account must exist; otherwise the
// manager's default account is used.
func resolveCredentials(cfg *config.Config, manager *auth.Manager, account string) (credentialSource, string, error) {
	if account == "" && cfg.HasCredentials() {
		return sourceConfig, "", nil
	}

	var (
		stored *auth.Account
		err    error
	)
	if account != "" {
		stored, err = manager.Retrieve(account)
	} else {
		stored, err = manager.RetrieveDefault()
	}
	if err != nil {
		return "", "", err
	}

	cfg.Credentials = stored.Credentials()
	return sourceAccount, stored.Name, nil
}

// session is everything a bot command needs for one run
type session struct {
	cfg      *config.Config
	bot      *bot.Bot
	terminal *tui.TUI
	notifier *ui.Notifier
}

// Close shuts the TUI down when one is running
func (s *session) Close() {
	if s.terminal != nil {
		if err := s.terminal.Close(); err != nil {
			logger.WithError(err).Warn("Terminal UI exited with an error")
		}
	}
}

// startSession loads the configuration, initializes logging, resolves the
// credentials and starts the bot. Any failure exits the process.
func startSession(ctx context.Context, cmd *cobra.Command) *session {
	cfg, err := config.Load(configFile, commandLineFlags(cmd))
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		os.Exit(1)
	}
	logger.WithField("version", version).Debug("TinderBot starting")

	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	source, name, err := resolveCredentials(cfg, manager, accountName)
	if err != nil {
		if accountName != "" {
			ui.PrintError("Account not found", accountName)
			ui.PrintInfo("Available accounts", "Use 'tinderbot auth list' to see stored accounts")
		} else {
			ui.PrintError("No Facebook credentials found")
			fmt.Println("\nTo store credentials securely, run:")
			fmt.Println("  tinderbot auth login")
			fmt.Println("\nOr set environment variables:")
			fmt.Printf("  export %s=your_token\n", auth.EnvFacebookToken)
			fmt.Printf("  export %s=your_facebook_id\n", auth.EnvFacebookID)
		}
		os.Exit(1)
	}
	if source == sourceAccount {
		logger.WithField("account", name).Info("Using stored credentials")
		if !useTUI {
			ui.PrintInfo("Using account", name)
		}
	}

	s := &session{cfg: cfg, notifier: ui.NewNotifier(cfg.Notifications.Enabled)}
	opts := bot.Options{
		HiMessage: cfg.Bot.HiMessage,
		Logger:    logger.GetLogger(),
	}
	if cfg.Notifications.OnMatch {
		opts.Notifier = s.notifier
	}
	if useTUI {
		s.terminal = tui.New(os.Stdout)
		s.terminal.Run()
		opts.Progress = s.terminal
	} else {
		opts.Progress = ui.NewLineProgress()
	}

	b, err := bot.Start(ctx, cfg, opts)
	if err != nil {
		s.Close()
		exitOnError("Failed to start", err)
	}
	s.bot = b

	if !useTUI {
		self := b.Self()
		ui.PrintInfo("Logged in as", fmt.Sprintf("%s (%s)", self.Name, self.ID))
		ui.PrintInfo("Store", b.Store().Root())
	}
	return s
}

// runWithBot runs fn against a started bot under a context cancelled by
// SIGINT or SIGTERM
func runWithBot(cmd *cobra.Command, fn func(ctx context.Context, b *bot.Bot) error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := startSession(ctx, cmd)
	err := fn(ctx, s.bot)
	s.Close()

	if err != nil {
		logger.WithError(err).Error("Operation failed")
		s.notifier.SendError("Operation failed", err.Error())
		exitWithHint(err)
	}
}

// reportSummary prints the outcome of a batch operation
func reportSummary(summary bot.Summary) {
	switch {
	case summary.Cancelled:
		ui.PrintWarning(summary.String())
	case summary.RateLimited:
		ui.PrintWarning(summary.String())
	default:
		ui.PrintSuccess(summary.String())
	}
}

// exitOnError prints err with a hint matching its type and exits
func exitOnError(msg string, err error) {
	logger.WithError(err).Error(msg)
	ui.PrintError(msg, err.Error())
	exitWithHint(err)
}

// exitWithHint prints a hint matching the type of err and exits
func exitWithHint(err error) {
	switch {
	case errors.Is(err, context.Canceled):
		ui.PrintWarning("Interrupted")
	case apperrors.IsAuth(err):
		fmt.Println("\nThe Facebook token was rejected or has expired. Get a new one with:")
		fmt.Println("  tinderbot auth login")
	case apperrors.IsRateLimited(err):
		fmt.Println("\nOut of likes. Try again later.")
	case apperrors.IsLocalStore(err):
		fmt.Println("\nCheck that the store directory is writable and its profile.json files are intact.")
	}
	os.Exit(1)
}
