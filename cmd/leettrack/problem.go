package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"leettrack/internal/app"
	"leettrack/internal/model"
)

var problemCmd = &cobra.Command{
	Use:   "problem",
	Short: "Manage tracked problems",
}

// addProblemFlags registers the editable problem fields on fs.
func addProblemFlags(fs *pflag.FlagSet) {
	fs.String("title", "", "Problem title")
	fs.String("url", "", "Problem URL")
	fs.String("topic", "", "Topic, e.g. Array or Dynamic Programming")
	fs.String("difficulty", "", "Easy, Medium or Hard")
	fs.String("status", string(model.StatusToDo), "Solved, Attempted or To Do")
	fs.String("date", "", "Date solved (YYYY-MM-DD); defaults to today for Solved problems")
	fs.String("notes", "", "Free-text notes")
	fs.StringSlice("companies", nil, "Company tags, comma separated")
	fs.String("time", "", "Time complexity")
	fs.String("space", "", "Space complexity")
	fs.String("contest", "", "ID of the contest the problem came from")
}

// applyProblemFlags copies every changed flag onto p.
func applyProblemFlags(fs *pflag.FlagSet, p *model.Problem) error {
	str := func(name string, dst *string) {
		if fs.Changed(name) {
			*dst, _ = fs.GetString(name)
		}
	}
	str("title", &p.Title)
	str("url", &p.URL)
	str("topic", &p.Topic)
	str("notes", &p.Notes)
	str("time", &p.TimeComplexity)
	str("space", &p.SpaceComplexity)
	str("contest", &p.ContestID)

	if fs.Changed("difficulty") {
		v, _ := fs.GetString("difficulty")
		p.Difficulty = model.Difficulty(normalizeChoice(v))
	}
	if fs.Changed("status") || p.Status == "" {
		v, _ := fs.GetString("status")
		p.Status = model.Status(normalizeChoice(v))
	}
	if fs.Changed("companies") {
		p.CompanyTags, _ = fs.GetStringSlice("companies")
	}
	if fs.Changed("date") {
		v, _ := fs.GetString("date")
		if v == "" {
			p.DateSolved = nil
		} else {
			d, err := model.ParseDay(v)
			if err != nil {
				return err
			}
			p.DateSolved = &d
		}
	}
	return nil
}

// normalizeChoice accepts "easy", "to do" or "todo" for the display values.
func normalizeChoice(v string) string {
	v = strings.TrimSpace(strings.ToLower(v))
	switch v {
	case "todo", "to-do", "to do":
		return string(model.StatusToDo)
	case "":
		return ""
	}
	return strings.ToUpper(v[:1]) + v[1:]
}

// defaultSolveDate sets today's date on a Solved problem that has none.
func defaultSolveDate(p *model.Problem, today model.Day) {
	if p.Status == model.StatusSolved && p.DateSolved == nil {
		p.DateSolved = &today
	}
}

var problemAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a problem",
	RunE: withApp("problem add", func(cmd *cobra.Command, args []string, a *app.App) error {
		p := &model.Problem{}
		if err := applyProblemFlags(cmd.Flags(), p); err != nil {
			return err
		}
		defaultSolveDate(p, model.DayOf(a.Clock().Now()))

		added, err := a.Problems().Add(cmd.Context(), a.Identity().UserID, p)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", added.Title, added.ID)
		return nil
	}),
}

var problemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List problems, newest first",
	RunE: withApp("problem list", func(cmd *cobra.Command, args []string, a *app.App) error {
		status, _ := cmd.Flags().GetString("status")
		topic, _ := cmd.Flags().GetString("topic")

		problems, err := a.Problems().List(cmd.Context(), a.Identity().UserID)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(problems) == 0 {
			fmt.Fprintln(out, "No problems tracked.")
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tTOPIC\tDIFFICULTY\tSTATUS\tSOLVED")
		for _, p := range problems {
			if status != "" && string(p.Status) != normalizeChoice(status) {
				continue
			}
			if topic != "" && !strings.EqualFold(p.Topic, topic) {
				continue
			}
			solved := "-"
			if d, ok := p.SolvedDay(); ok {
				solved = d.String()
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Title, p.Topic, p.Difficulty, p.Status, solved)
		}
		return tw.Flush()
	}),
}

var problemEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a problem; only the given flags change",
	Args:  cobra.ExactArgs(1),
	RunE: withApp("problem edit", func(cmd *cobra.Command, args []string, a *app.App) error {
		ctx := cmd.Context()
		userID := a.Identity().UserID

		p, err := a.Problems().Get(ctx, userID, args[0])
		if err != nil {
			return err
		}
		if err := applyProblemFlags(cmd.Flags(), p); err != nil {
			return err
		}
		defaultSolveDate(p, model.DayOf(a.Clock().Now()))

		updated, err := a.Problems().Update(ctx, userID, args[0], p)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", updated.Title, updated.Status)
		return nil
	}),
}

var problemDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a problem",
	Args:  cobra.ExactArgs(1),
	RunE: withApp("problem delete", func(cmd *cobra.Command, args []string, a *app.App) error {
		if err := a.Problems().Delete(cmd.Context(), a.Identity().UserID, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	}),
}

func init() {
	addProblemFlags(problemAddCmd.Flags())
	addProblemFlags(problemEditCmd.Flags())

	problemListCmd.Flags().String("status", "", "Only show problems with this status")
	problemListCmd.Flags().String("topic", "", "Only show problems with this topic")

	problemCmd.AddCommand(problemAddCmd)
	problemCmd.AddCommand(problemListCmd)
	problemCmd.AddCommand(problemEditCmd)
	problemCmd.AddCommand(problemDeleteCmd)
}
