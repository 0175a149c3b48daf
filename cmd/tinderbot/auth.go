package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"tinderbot/pkg/auth"
	"tinderbot/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Facebook credentials",
	Long: `Manage stored Facebook credentials.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read only)

Never share your token or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [account]",
	Short: "Store a Facebook token and id",
	Long: `Store a Facebook access token and Facebook id under an account name.

The account is called "default" unless a name is given. The token is read
without echo.`,
	Example: `  # Interactive login
  tinderbot auth login

  # Store a second account
  tinderbot auth login work`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [account]",
	Short: "Remove stored credentials",
	Args:  cobra.MaximumNArgs(1),
	Run:   runLogout,
}

// listCmd represents the auth list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored accounts",
	Long:  `List all stored accounts with the token masked.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(listCmd)
}

func newManagerOrExit() *auth.Manager {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}
	return manager
}

func runLogin(cmd *cobra.Command, args []string) {
	manager := newManagerOrExit()

	name := auth.DefaultAccount
	if len(args) > 0 {
		name = strings.TrimSpace(args[0])
	}

	reader := bufio.NewReader(os.Stdin)

	auth.ShowTokenGuide(os.Stdout)
	fmt.Print("\nReady to enter your token? (Y/n): ")
	ready, _ := reader.ReadString('\n')
	if strings.ToLower(strings.TrimSpace(ready)) == "n" {
		fmt.Println("\nRun 'tinderbot auth login' when you're ready.")
		return
	}

	if existing, _ := manager.Retrieve(name); existing != nil {
		fmt.Printf("\nAccount '%s' already exists. Update credentials? (y/N): ", name)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Print("\nFacebook token (hidden): ")
	token, err := readPassword(reader)
	if err != nil {
		ui.PrintError("Failed to read token", err.Error())
		os.Exit(1)
	}

	fmt.Print("Facebook id: ")
	id, err := reader.ReadString('\n')
	if err != nil {
		ui.PrintError("Failed to read Facebook id", err.Error())
		os.Exit(1)
	}

	account := &auth.Account{
		Name:          name,
		FacebookToken: strings.TrimSpace(token),
		FacebookID:    strings.TrimSpace(id),
	}
	if err := manager.Store(account); err != nil {
		ui.PrintError("Failed to store credentials", err.Error())
		os.Exit(1)
	}

	masked := auth.SanitizeAccount(account)
	ui.PrintSuccess("Account saved: " + name)
	ui.PrintInfo("Token", masked.FacebookToken)
	ui.PrintInfo("Facebook id", masked.FacebookID)

	fmt.Println("\nNext steps:")
	fmt.Println("  tinderbot recs        fetch recommendations into the store")
	if name != auth.DefaultAccount {
		fmt.Printf("  tinderbot recs --account %s\n", name)
	}
	fmt.Println("  tinderbot like-all    like everything stored")
}

func runLogout(cmd *cobra.Command, args []string) {
	manager := newManagerOrExit()

	name := auth.DefaultAccount
	if len(args) > 0 {
		name = args[0]
	} else {
		accounts, err := manager.List()
		if err != nil || len(accounts) == 0 {
			ui.PrintError("No stored accounts found")
			return
		}
		if len(accounts) == 1 {
			name = accounts[0].Name
		}
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("Remove account '%s'? (y/N): ", name)
	input, _ := reader.ReadString('\n')
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
		return
	}

	if err := manager.Delete(name); err != nil {
		ui.PrintError("Failed to remove account", err.Error())
		os.Exit(1)
	}
	ui.PrintSuccess("Account removed: " + name)
}

func runList(cmd *cobra.Command, args []string) {
	manager := newManagerOrExit()

	accounts, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list accounts", err.Error())
		os.Exit(1)
	}
	if len(accounts) == 0 {
		ui.PrintInfo("No stored accounts", "Use 'tinderbot auth login' to add an account")
		return
	}

	ui.PrintHighlight("Stored Accounts")
	renderAccounts(os.Stdout, accounts)
}

// readPassword reads a line without echo when stdin is a terminal
func readPassword(reader *bufio.Reader) (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return string(password), nil
		}
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
