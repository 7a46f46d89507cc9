package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"leettrack/internal/app"
	"leettrack/internal/model"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and change preferences",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the resolved settings",
	RunE: withApp("settings get", func(cmd *cobra.Command, args []string, a *app.App) error {
		session := a.Session(cmd.Context(), a.Identity())
		defer session.Close()

		svc := session.Settings()
		s := svc.Settings()
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "theme:               %s\n", s.Theme)
		fmt.Fprintf(out, "daily-goal:          %d\n", s.DailyGoal)
		fmt.Fprintf(out, "weekly-goal:         %d\n", s.WeeklyGoal)
		fmt.Fprintf(out, "leetcode-username:   %s\n", s.LeetCodeUsername)
		fmt.Fprintf(out, "email-notifications: %t\n", s.EmailNotifications)
		fmt.Fprintf(out, "auto-sync:           %t\n", s.AutoSync)
		if notice := svc.Notice(); notice != "" {
			fmt.Fprintf(out, "\n%s\n", notice)
		}
		return nil
	}),
}

// settingsPatch builds a patch from the flags the user actually passed.
func settingsPatch(fs *pflag.FlagSet) model.SettingsPatch {
	var p model.SettingsPatch
	if fs.Changed("theme") {
		v, _ := fs.GetString("theme")
		theme := model.Theme(v)
		p.Theme = &theme
	}
	if fs.Changed("daily-goal") {
		v, _ := fs.GetInt("daily-goal")
		p.DailyGoal = &v
	}
	if fs.Changed("weekly-goal") {
		v, _ := fs.GetInt("weekly-goal")
		p.WeeklyGoal = &v
	}
	if fs.Changed("leetcode-username") {
		v, _ := fs.GetString("leetcode-username")
		p.LeetCodeUsername = &v
	}
	if fs.Changed("email-notifications") {
		v, _ := fs.GetBool("email-notifications")
		p.EmailNotifications = &v
	}
	if fs.Changed("auto-sync") {
		v, _ := fs.GetBool("auto-sync")
		p.AutoSync = &v
	}
	return p
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change settings; only the given flags change",
	RunE: withApp("settings set", func(cmd *cobra.Command, args []string, a *app.App) error {
		patch := settingsPatch(cmd.Flags())
		if patch.IsEmpty() {
			return errors.New("nothing to change: pass at least one setting flag")
		}

		session := a.Session(cmd.Context(), a.Identity())
		defer session.Close()

		result := session.Settings().Update(cmd.Context(), patch)
		if !result.Success {
			return errors.New(result.Error)
		}
		out := cmd.OutOrStdout()
		if result.Warning != "" {
			fmt.Fprintln(out, result.Warning)
			return nil
		}
		fmt.Fprintln(out, "Settings saved.")
		return nil
	}),
}

// addSettingsFlags registers one flag per setting on fs.
func addSettingsFlags(fs *pflag.FlagSet) {
	fs.String("theme", "", "light, dark or system")
	fs.Int("daily-goal", 0, "Problems to solve per day")
	fs.Int("weekly-goal", 0, "Problems to solve per week")
	fs.String("leetcode-username", "", "Username for profile statistics")
	fs.Bool("email-notifications", false, "Receive email notifications")
	fs.Bool("auto-sync", false, "Sync automatically")
}

func init() {
	addSettingsFlags(settingsSetCmd.Flags())

	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}
