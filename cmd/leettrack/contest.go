package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"leettrack/internal/app"
	"leettrack/internal/model"
	"leettrack/internal/stats"
)

var contestCmd = &cobra.Command{
	Use:   "contest",
	Short: "Log contests",
}

var contestAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a contest",
	RunE: withApp("contest add", func(cmd *cobra.Command, args []string, a *app.App) error {
		fs := cmd.Flags()
		title, _ := fs.GetString("title")
		date, _ := fs.GetString("date")
		notes, _ := fs.GetString("notes")

		c := &model.Contest{Title: title, Notes: notes}
		if date == "" {
			c.Date = model.DayOf(a.Clock().Now())
		} else {
			d, err := model.ParseDay(date)
			if err != nil {
				return err
			}
			c.Date = d
		}

		optionalInt := func(name string) *int {
			if !fs.Changed(name) {
				return nil
			}
			v, _ := fs.GetInt(name)
			return &v
		}
		c.Rank = optionalInt("rank")
		c.Score = optionalInt("score")
		c.ProblemsSolved = optionalInt("solved")
		c.TotalProblems = optionalInt("total")

		added, err := a.Contests().Add(cmd.Context(), a.Identity().UserID, c)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added contest %s on %s (%s)\n", added.Title, added.Date, added.ID)
		return nil
	}),
}

func optional(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

var contestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List contests, most recent first",
	RunE: withApp("contest list", func(cmd *cobra.Command, args []string, a *app.App) error {
		ranks, _ := cmd.Flags().GetBool("ranks")

		contests, err := a.Contests().List(cmd.Context(), a.Identity().UserID)
		if err != nil {
			return err
		}
		if ranks {
			contests = stats.RankHistory(contests)
		}

		out := cmd.OutOrStdout()
		if len(contests) == 0 {
			fmt.Fprintln(out, "No contests recorded.")
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "DATE\tTITLE\tRANK\tSCORE\tSOLVED")
		for _, c := range contests {
			solved := optional(c.ProblemsSolved)
			if c.TotalProblems != nil {
				solved += "/" + strconv.Itoa(*c.TotalProblems)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.Date, c.Title, optional(c.Rank), optional(c.Score), solved)
		}
		return tw.Flush()
	}),
}

func init() {
	fs := contestAddCmd.Flags()
	fs.String("title", "", "Contest name")
	fs.String("date", "", "Contest date (YYYY-MM-DD, default today)")
	fs.Int("rank", 0, "Final rank")
	fs.Int("score", 0, "Score")
	fs.Int("solved", 0, "Problems solved")
	fs.Int("total", 0, "Problems in the contest")
	fs.String("notes", "", "Free-text notes")

	contestListCmd.Flags().Bool("ranks", false, "Only ranked contests, oldest first")

	contestCmd.AddCommand(contestAddCmd)
	contestCmd.AddCommand(contestListCmd)
}
