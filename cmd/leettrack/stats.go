package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"leettrack/internal/app"
	"leettrack/internal/model"
	"leettrack/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress statistics",
}

// statsCommand builds a stats subcommand that receives the user's current
// problems.
func statsCommand(use, short string, show func(cmd *cobra.Command, a *app.App, problems []*model.Problem) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: withApp("stats "+use, func(cmd *cobra.Command, args []string, a *app.App) error {
			problems, err := a.Problems().List(cmd.Context(), a.Identity().UserID)
			if err != nil {
				return err
			}
			return show(cmd, a, problems)
		}),
	}
}

var statsSummaryCmd = statsCommand("summary", "Dashboard summary", func(cmd *cobra.Command, a *app.App, problems []*model.Problem) error {
	s := stats.Summarize(problems, a.Clock().Now(), a.StatsOptions())
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Problems:       %d (%d solved, %d attempted, %d to do)\n", s.Totals.Total, s.Totals.Solved, s.Totals.Attempted, s.Totals.ToDo)
	fmt.Fprintf(out, "Current streak: %d day(s)\n", s.CurrentStreak)
	fmt.Fprintf(out, "Longest streak: %d day(s)\n", s.LongestStreak)
	fmt.Fprintf(out, "This week:      %d solved\n", s.SolvedThisWeek)
	fmt.Fprintf(out, "Last 7 days:    %s\n", weekStrip(s.Last7Days))

	fmt.Fprintln(out, "\nBy difficulty (solved):")
	for _, d := range s.ByDifficulty {
		fmt.Fprintf(out, "  %-8s %d\n", d.Difficulty, d.Count)
	}

	fmt.Fprintln(out, "\nTop topics:")
	for _, t := range s.TopTopics {
		fmt.Fprintf(out, "  %-24s %d\n", t.Topic, t.Count)
	}
	return nil
})

// weekStrip renders the 7-day vector oldest first, '#' for active days.
func weekStrip(days [7]bool) string {
	var b strings.Builder
	for _, active := range days {
		if active {
			b.WriteByte('#')
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}

var statsStreakCmd = statsCommand("streak", "Current and longest solving streak", func(cmd *cobra.Command, a *app.App, problems []*model.Problem) error {
	now := a.Clock().Now()
	fmt.Fprintf(cmd.OutOrStdout(), "Current streak: %d day(s)\nLongest streak: %d day(s)\nThis week: %d solved\n",
		stats.CurrentStreak(problems, now),
		stats.LongestStreak(problems),
		stats.CountThisWeek(problems, now, a.StatsOptions().WeekStart))
	return nil
})

// heatmapGlyphs maps activity levels 0..4 to characters.
var heatmapGlyphs = []byte{'.', '-', '+', '*', '#'}

var statsHeatmapCmd = statsCommand("heatmap", "Daily activity heatmap", func(cmd *cobra.Command, a *app.App, problems []*model.Problem) error {
	days, _ := cmd.Flags().GetInt("days")
	if days <= 0 {
		days = a.HeatmapDays()
	}
	series := stats.DailyActivitySeries(problems, a.Clock().Now(), days)
	renderHeatmap(cmd.OutOrStdout(), series)
	return nil
})

// renderHeatmap prints one row per weekday and one column per week.
func renderHeatmap(w io.Writer, series []stats.DayCount) {
	if len(series) == 0 {
		return
	}
	offset := int(series[0].Date.Weekday())
	weeks := (offset + len(series) + 6) / 7

	rows := make([][]byte, 7)
	for r := range rows {
		rows[r] = []byte(strings.Repeat(" ", weeks))
	}
	total := 0
	for i, d := range series {
		slot := offset + i
		rows[slot%7][slot/7] = heatmapGlyphs[stats.ActivityLevel(d.Count)]
		total += d.Count
	}

	for r, row := range rows {
		fmt.Fprintf(w, "%s %s\n", weekdayLabel(r), row)
	}
	fmt.Fprintf(w, "%d solved from %s to %s\n", total, series[0].Date, series[len(series)-1].Date)
}

func weekdayLabel(r int) string {
	return []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}[r]
}

var statsTopicsCmd = statsCommand("topics", "Problems per topic", func(cmd *cobra.Command, a *app.App, problems []*model.Problem) error {
	limit, _ := cmd.Flags().GetInt("limit")
	scope, _ := cmd.Flags().GetString("scope")
	if limit <= 0 {
		limit = a.TopicLimit()
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, t := range stats.CountByTopic(problems, stats.ParseScope(scope), limit) {
		fmt.Fprintf(tw, "%s\t%d\n", t.Topic, t.Count)
	}
	return tw.Flush()
})

var statsCompaniesCmd = statsCommand("companies", "Progress per company tag", func(cmd *cobra.Command, a *app.App, problems []*model.Problem) error {
	query, _ := cmd.Flags().GetString("query")

	progress := stats.FilterCompanies(stats.CompanyProgress(problems, a.Companies()), query)
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPANY\tSOLVED\tTOTAL\tPROGRESS")
	for _, c := range progress {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d%%\n", c.Name, c.Solved, c.Total, c.Percentage)
	}
	return tw.Flush()
})

var statsTimelineCmd = statsCommand("timeline", "Cumulative solved problems over time", func(cmd *cobra.Command, a *app.App, problems []*model.Problem) error {
	out := cmd.OutOrStdout()
	timeline := stats.CumulativeTimeline(problems)
	if len(timeline) == 0 {
		fmt.Fprintln(out, "No solved problems yet.")
		return nil
	}
	for _, p := range timeline {
		fmt.Fprintf(out, "%s  %d\n", p.Date, p.Count)
	}
	return nil
})

func init() {
	statsHeatmapCmd.Flags().Int("days", 0, "Number of days to show (default from config)")
	statsTopicsCmd.Flags().Int("limit", 0, "Maximum number of topics (default from config)")
	statsTopicsCmd.Flags().String("scope", "solved", "solved or all")
	statsCompaniesCmd.Flags().StringP("query", "q", "", "Only companies whose name contains this text")

	statsCmd.AddCommand(statsSummaryCmd)
	statsCmd.AddCommand(statsStreakCmd)
	statsCmd.AddCommand(statsHeatmapCmd)
	statsCmd.AddCommand(statsTopicsCmd)
	statsCmd.AddCommand(statsCompaniesCmd)
	statsCmd.AddCommand(statsTimelineCmd)
}
