package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"leettrack/internal/app"
	"leettrack/internal/tracker"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show profile statistics for the configured LeetCode username",
	RunE: withApp("profile", func(cmd *cobra.Command, args []string, a *app.App) error {
		session := a.Session(cmd.Context(), a.Identity())
		defer session.Close()

		out := cmd.OutOrStdout()
		p, err := session.Profile(cmd.Context())
		if err != nil {
			return fmt.Errorf("looking up profile: %w", err)
		}
		if p == nil {
			fmt.Fprintln(out, "No LeetCode username set. Use: leettrack settings set --leetcode-username NAME")
			return nil
		}

		fmt.Fprintf(out, "%s (rank %d)\n", p.Username, p.Ranking)
		fmt.Fprintf(out, "Solved:     %d / %d\n", p.TotalSolved, p.TotalQuestions)
		fmt.Fprintf(out, "  Easy:     %d / %d\n", p.EasySolved, p.EasyTotal)
		fmt.Fprintf(out, "  Medium:   %d / %d\n", p.MediumSolved, p.MediumTotal)
		fmt.Fprintf(out, "  Hard:     %d / %d\n", p.HardSolved, p.HardTotal)
		fmt.Fprintf(out, "Acceptance: %.2f%%\n", p.AcceptanceRate)
		fmt.Fprintf(out, "Reputation: %d, contribution points: %d\n", p.Reputation, p.ContributionPoints)
		fmt.Fprintf(out, "Active days in calendar: %d\n", len(p.SubmissionCalendar))
		return nil
	}),
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write an encrypted archive of your data to the vault",
	RunE: withApp("export", func(cmd *cobra.Command, args []string, a *app.App) error {
		list, _ := cmd.Flags().GetBool("list")
		out := cmd.OutOrStdout()

		if list {
			keys, err := a.Exports().ListExports(cmd.Context(), a.Identity())
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				fmt.Fprintln(out, "No exports.")
			}
			for _, k := range keys {
				fmt.Fprintln(out, k)
			}
			return nil
		}

		key, err := a.Exports().Export(cmd.Context(), a.Identity())
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Fprintf(out, "Exported to %s\n", key)
		return nil
	}),
}

var importCmd = &cobra.Command{
	Use:   "import KEY",
	Short: "Restore an encrypted archive from the vault",
	Args:  cobra.ExactArgs(1),
	RunE: withApp("import", func(cmd *cobra.Command, args []string, a *app.App) error {
		passphrase, err := readPassphrase("Passphrase: ")
		if err != nil {
			return err
		}

		session := a.Session(cmd.Context(), a.Identity())
		defer session.Close()

		result, err := session.Import(cmd.Context(), args[0], passphrase)
		if errors.Is(err, tracker.ErrWrongPassphrase) {
			return errors.New("wrong passphrase")
		}
		if err != nil && !errors.Is(err, tracker.ErrSettingsRejected) {
			return fmt.Errorf("import failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d problem(s) and %d contest(s)\n", result.Problems, result.Contests)
		return err
	}),
}

func init() {
	exportCmd.Flags().Bool("list", false, "List existing exports instead of writing one")
}
