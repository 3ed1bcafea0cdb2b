package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"weiboscraper/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage weiboscraper configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (WEIBOSCRAPER_*)
  - Configuration file
  - Default values (lowest priority)`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file with default values",
	Long: `Create a configuration file with all options set to their defaults.

The file is created in the current directory as 'weiboscraper.yaml'
unless a different path is given with the --config flag.`,
	Run: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging all sources. The cookie is
masked.`,
	Run: runConfigShow,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Run:   runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = "weiboscraper.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		out.Error("Configuration file already exists: %s", configPath)
		os.Exit(1)
	}

	if err := config.DefaultConfig().Save(configPath); err != nil {
		out.Error("Failed to write %s: %v", configPath, err)
		os.Exit(1)
	}
	out.Success("Created %s", configPath)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		out.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	if cfg.Weibo.Cookie != "" {
		cfg.Weibo.Cookie = "********"
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		out.Error("Failed to render configuration: %v", err)
		os.Exit(1)
	}
	fmt.Print(string(data))
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	if _, err := config.Load(configFile, nil); err != nil {
		out.Error("Configuration invalid: %v", err)
		os.Exit(1)
	}
	out.Success("Configuration is valid")
}
