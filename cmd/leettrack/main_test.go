package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"leettrack/internal/config"
	"leettrack/internal/model"
	"leettrack/internal/stats"
)

func TestNormalizeChoice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"easy", "Easy"},
		{"MEDIUM", "Medium"},
		{" solved ", "Solved"},
		{"todo", "To Do"},
		{"to do", "To Do"},
		{"To Do", "To Do"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeChoice(tt.in); got != tt.want {
			t.Errorf("normalizeChoice(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestApplyProblemFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addProblemFlags(fs)
	err := fs.Parse([]string{"--title", "Two Sum", "--difficulty", "easy", "--status", "solved", "--date", "2024-06-01", "--companies", "Google,Amazon"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	p := &model.Problem{URL: "https://leetcode.com/problems/two-sum/", Topic: "Array"}
	if err := applyProblemFlags(fs, p); err != nil {
		t.Fatalf("applyProblemFlags() error = %v", err)
	}

	if p.Title != "Two Sum" || p.Difficulty != model.DifficultyEasy || p.Status != model.StatusSolved {
		t.Errorf("problem = %+v", p)
	}
	if p.URL != "https://leetcode.com/problems/two-sum/" {
		t.Errorf("URL = %q, unchanged flags must not overwrite", p.URL)
	}
	if p.DateSolved == nil || p.DateSolved.String() != "2024-06-01" {
		t.Errorf("DateSolved = %v, want 2024-06-01", p.DateSolved)
	}
	if len(p.CompanyTags) != 2 || p.CompanyTags[1] != "Amazon" {
		t.Errorf("CompanyTags = %v", p.CompanyTags)
	}

	bad := pflag.NewFlagSet("bad", pflag.ContinueOnError)
	addProblemFlags(bad)
	_ = bad.Parse([]string{"--date", "yesterday"})
	if err := applyProblemFlags(bad, &model.Problem{}); err == nil {
		t.Error("applyProblemFlags() expected error for malformed date")
	}
}

func TestDefaultSolveDate(t *testing.T) {
	today := model.MustParseDay("2024-06-03")

	solved := &model.Problem{Status: model.StatusSolved}
	defaultSolveDate(solved, today)
	if solved.DateSolved == nil || *solved.DateSolved != today {
		t.Errorf("DateSolved = %v, want %v", solved.DateSolved, today)
	}

	todo := &model.Problem{Status: model.StatusToDo}
	defaultSolveDate(todo, today)
	if todo.DateSolved != nil {
		t.Errorf("DateSolved = %v, want nil for To Do", todo.DateSolved)
	}
}

func TestSettingsPatch(t *testing.T) {
	probe := pflag.NewFlagSet("probe", pflag.ContinueOnError)
	addSettingsFlags(probe)
	if err := probe.Parse([]string{"--daily-goal", "3", "--auto-sync"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	p := settingsPatch(probe)
	if p.DailyGoal == nil || *p.DailyGoal != 3 {
		t.Errorf("DailyGoal = %v, want 3", p.DailyGoal)
	}
	if p.AutoSync == nil || !*p.AutoSync {
		t.Errorf("AutoSync = %v, want true", p.AutoSync)
	}
	if p.Theme != nil || p.WeeklyGoal != nil || p.LeetCodeUsername != nil {
		t.Errorf("unexpected fields set: %+v", p)
	}
}

func TestWeekStrip(t *testing.T) {
	got := weekStrip([7]bool{false, false, false, false, true, false, true})
	if got != "....#.#" {
		t.Errorf("weekStrip() = %q", got)
	}
}

func TestRenderHeatmap(t *testing.T) {
	// 2024-06-02 is a Sunday.
	start := model.MustParseDay("2024-06-02")
	series := []stats.DayCount{
		{Date: start, Count: 0},
		{Date: start.AddDays(1), Count: 1},
		{Date: start.AddDays(2), Count: 5},
	}

	var buf bytes.Buffer
	renderHeatmap(&buf, series)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 8 {
		t.Fatalf("got %d lines, want 8:\n%s", len(lines), buf.String())
	}
	if lines[0] != "Sun ." || lines[1] != "Mon -" || lines[2] != "Tue *" {
		t.Errorf("rows = %q", lines[:3])
	}
	if lines[7] != "6 solved from 2024-06-02 to 2024-06-04" {
		t.Errorf("footer = %q", lines[7])
	}
}

// run executes the root command with args and returns its stdout.
func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("leettrack %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestCLI_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "leettrack.toml")
	t.Setenv("LEETTRACK_CONFIG_PATH", configPath)
	t.Setenv("LEETTRACK_HOME", dir)
	t.Setenv("LEETTRACK_PASSPHRASE", "correct horse")

	cfg := config.NewConfig("cli-user", dir)
	cfg.Encryption = config.EncryptionConfig{Type: "test"}
	cfg.Log.Level = "error"
	if err := config.Init(configPath, cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	out := run(t, "problem", "add", "--title", "Two Sum", "--url", "https://leetcode.com/problems/two-sum/",
		"--topic", "Array", "--difficulty", "easy", "--status", "solved", "--companies", "Google")
	if !strings.HasPrefix(out, "Added Two Sum (") {
		t.Errorf("problem add output = %q", out)
	}

	if out := run(t, "problem", "list"); !strings.Contains(out, "Two Sum") || !strings.Contains(out, "Solved") {
		t.Errorf("problem list output = %q", out)
	}

	if out := run(t, "stats", "streak"); !strings.Contains(out, "Current streak: 1 day(s)") {
		t.Errorf("stats streak output = %q", out)
	}

	if out := run(t, "stats", "companies", "-q", "goog"); !strings.Contains(out, "Google") || !strings.Contains(out, "100%") {
		t.Errorf("stats companies output = %q", out)
	}

	if out := run(t, "settings", "set", "--daily-goal", "4", "--leetcode-username", "abc"); !strings.Contains(out, "Settings saved.") {
		t.Errorf("settings set output = %q", out)
	}
	if out := run(t, "settings", "get"); !strings.Contains(out, "daily-goal:          4") {
		t.Errorf("settings get output = %q", out)
	}

	if out := run(t, "profile"); !strings.Contains(out, "Solved:     154 / 2500") {
		t.Errorf("profile output = %q", out)
	}

	run(t, "contest", "add", "--title", "Weekly 400", "--date", "2024-06-02", "--rank", "1200")
	if out := run(t, "contest", "list", "--ranks"); !strings.Contains(out, "Weekly 400") || !strings.Contains(out, "1200") {
		t.Errorf("contest list output = %q", out)
	}

	out = run(t, "export")
	key := strings.TrimSpace(strings.TrimPrefix(out, "Exported to "))
	if !strings.HasPrefix(key, "exports/cli-user/") {
		t.Fatalf("export output = %q", out)
	}
	if out := run(t, "export", "--list"); strings.TrimSpace(out) != key {
		t.Errorf("export --list output = %q, want %q", out, key)
	}

	if out := run(t, "--user", "other-user", "import", key); out != "Imported 1 problem(s) and 1 contest(s)\n" {
		t.Errorf("import output = %q", out)
	}
	if out := run(t, "--user", "other-user", "problem", "list"); !strings.Contains(out, "Two Sum") {
		t.Errorf("imported problems missing: %q", out)
	}
}
