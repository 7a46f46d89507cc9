package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"leettrack/internal/app"
	"leettrack/internal/config"
	"leettrack/internal/encryption"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration and export keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user-id")
		email, _ := cmd.Flags().GetString("email")
		noKeys, _ := cmd.Flags().GetBool("no-keys")

		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		if userID == "" {
			userID = uuid.New().String()
		}

		cfg := config.NewConfig(userID, defaults.BaseDir)
		cfg.Identity.Email = email

		if err := config.Init(defaults.ConfigPath, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration initialized at %s\n", defaults.ConfigPath)
		fmt.Fprintf(out, "User ID:  %s\n", userID)
		fmt.Fprintf(out, "Base Dir: %s\n", defaults.BaseDir)

		if noKeys {
			return nil
		}

		enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
		if err != nil {
			return fmt.Errorf("creating encryptor: %w", err)
		}
		passphrase, err := readNewPassphrase()
		if err != nil {
			return err
		}
		if err := enc.Setup(passphrase); err != nil {
			return fmt.Errorf("generating export keys: %w", err)
		}
		fmt.Fprintf(out, "Export keys written to %s\n", cfg.Encryption.PublicKeyPath)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration from %s:\n\n", path)
		fmt.Fprintf(out, "User ID:     %s\n", cfg.Identity.UserID)
		fmt.Fprintf(out, "Base Dir:    %s\n", cfg.BaseDir)
		fmt.Fprintf(out, "Database:    %s\n", cfg.Database.Type)
		fmt.Fprintf(out, "Cache:       %s\n", cfg.Cache.Type)
		fmt.Fprintf(out, "Vault:       %s (%s)\n", cfg.Vault.Name, cfg.Vault.Type)
		fmt.Fprintf(out, "Encryption:  %s\n", cfg.Encryption.Type)
		fmt.Fprintf(out, "Lookup:      %s\n", cfg.Lookup.Type)
		fmt.Fprintf(out, "Week starts: %s\n", cfg.Stats.WeekStart)
		fmt.Fprintf(out, "Server:      %s (origins: %s)\n", cfg.Server.Addr, strings.Join(cfg.Server.AllowedOrigins, ", "))
		fmt.Fprintf(out, "Log Dir:     %s (level %s)\n", cfg.Log.Dir, cfg.Log.Level)
		return nil
	},
}

var configVaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Check that the export vault is reachable",
	RunE: withApp("config vault", func(cmd *cobra.Command, args []string, a *app.App) error {
		if err := a.ValidateVault(cmd.Context()); err != nil {
			return fmt.Errorf("vault check failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Vault %q is reachable\n", a.Config().Vault.Name)
		return nil
	}),
}

func init() {
	configInitCmd.Flags().String("user-id", "", "User ID for the CLI identity (default: random UUID)")
	configInitCmd.Flags().String("email", "", "Email for the CLI identity")
	configInitCmd.Flags().Bool("no-keys", false, "Skip generating the export key pair")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configVaultCmd)
}
