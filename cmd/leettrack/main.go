package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"leettrack/internal/app"
	"leettrack/internal/config"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Global flags.
var (
	offlineFlag bool
	userFlag    string
)

// loadConfig reads the config file and applies .env and LEETTRACK_*
// overrides, then the --user flag.
func loadConfig() (*config.Config, string, error) {
	if err := app.LoadDotEnv(".env"); err != nil {
		return nil, "", err
	}

	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, "", fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults.ConfigPath)
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, "", fmt.Errorf("applying environment: %w", err)
	}
	if userFlag != "" {
		cfg.Identity.UserID = userFlag
		cfg.Identity.Email = ""
	}
	return cfg, defaults.ConfigPath, nil
}

// newApp reads the config and creates an App. The caller must defer a.Close().
// operation identifies the CLI command being run (e.g. "problem add").
func newApp(ctx context.Context, operation string) (*app.App, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewApp(ctx, cfg, operation, app.Options{Offline: offlineFlag})
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// withApp wraps a command body so that the App is built before it runs and
// closed afterwards, with the outcome recorded on the operation.
func withApp(operation string, run func(cmd *cobra.Command, args []string, a *app.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), operation)
		if err != nil {
			return err
		}

		err = run(cmd, args, a)
		a.Operation().Fail(err)
		if closeErr := a.Close(); err == nil {
			err = closeErr
		}
		return err
	}
}

var rootCmd = &cobra.Command{
	Use:           "leettrack",
	Short:         "Coding practice progress tracker",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&offlineFlag, "offline", false, "Start in offline mode (settings are read and written locally)")
	rootCmd.PersistentFlags().StringVar(&userFlag, "user", "", "Act as this user ID instead of the configured identity")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(problemCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(contestCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(serveCmd)
}
