package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"weiboscraper/pkg/auth"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Weibo credentials",
	Long: `Manage the stored Weibo session cookie securely.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (read-only fallback)

Never share your cookie or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [account]",
	Short: "Store a Weibo session cookie securely",
	Long: `Store a Weibo session cookie in the system keychain or encrypted file.

You will be prompted for:
  - Session cookie (hidden while typing)
  - User agent (optional, press Enter for default)

To get the cookie:
1. Log into m.weibo.cn in your browser
2. Open Developer Tools (F12)
3. Go to Network, reload, and copy the Cookie request header`,
	Example: `  # Store under the default account name
  weiboscraper auth login

  # Store under a named account
  weiboscraper auth login myaccount`,
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

// statusCmd represents the auth status command
var statusCmd = &cobra.Command{
	Use:   "status [account]",
	Short: "Show whether credentials are stored",
	Args:  cobra.MaximumNArgs(1),
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
}

func accountArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "default"
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		out.Error("Failed to initialize credential manager: %v", err)
		os.Exit(1)
	}
	name := accountArg(args)

	fmt.Print("Cookie (hidden): ")
	cookieBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		out.Error("Failed to read cookie: %v", err)
		os.Exit(1)
	}
	cookie := strings.TrimSpace(string(cookieBytes))
	if cookie == "" {
		out.Error("Cookie must not be empty")
		os.Exit(1)
	}

	fmt.Print("User agent (optional): ")
	reader := bufio.NewReader(os.Stdin)
	userAgent, _ := reader.ReadString('\n')
	userAgent = strings.TrimSpace(userAgent)

	account := &auth.Account{
		Name:      name,
		Cookie:    cookie,
		UserAgent: userAgent,
	}
	if err := manager.Store(account); err != nil {
		out.Error("Failed to store credentials: %v", err)
		os.Exit(1)
	}
	out.Success("Credentials stored for account %q", name)
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		out.Error("Failed to initialize credential manager: %v", err)
		os.Exit(1)
	}
	name := accountArg(args)

	if err := manager.Delete(name); err != nil {
		out.Error("Failed to remove credentials: %v", err)
		os.Exit(1)
	}
	out.Success("Credentials removed for account %q", name)
}

func runStatus(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		out.Error("Failed to initialize credential manager: %v", err)
		os.Exit(1)
	}
	name := accountArg(args)

	account, err := manager.Retrieve(name)
	if err != nil {
		out.Warn("No stored credentials for account %q", name)
		return
	}
	masked := account.Cookie
	if len(masked) > 12 {
		masked = masked[:12] + "..."
	}
	out.Info("Account:       %s", account.Name)
	out.Info("Cookie:        %s", masked)
	if account.UserAgent != "" {
		out.Info("User agent:    %s", account.UserAgent)
	}
	if !account.LastModified.IsZero() {
		out.Info("Last modified: %s", account.LastModified.Format("2006-01-02 15:04:05"))
	}
}
