package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"weiboscraper/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	quiet      bool

	out *ui.Terminal
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "weiboscraper",
	Short: "Collect and analyze Weibo posts by keyword",
	Long: `weiboscraper crawls the Weibo mobile search API for a keyword,
deduplicates the posts, and writes them to CSV and an optional sqlite
archive. A separate analyze step computes influence scores, topics and
keyword frequencies, and renders an HTML report with charts.

Credentials (the Weibo session cookie) can be configured through:
  - Stored credentials (use 'weiboscraper auth login' to store)
  - Environment variables (WEIBOSCRAPER_COOKIE)
  - Configuration file`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logLevel == "error" {
			quiet = true
		}
		out = ui.New(quiet)
		if cmd.Name() != "version" && cmd.Name() != "help" && cmd.Name() != "completion" {
			out.Banner()
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
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is $HOME/.weiboscraper.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	rootCmd.SetVersionTemplate(`weiboscraper {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
