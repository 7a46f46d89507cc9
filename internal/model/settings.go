package model

import "fmt"

// Theme is the UI colour scheme preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// Settings is the per-user preferences record. There is exactly one per user.
type Settings struct {
	Theme              Theme  `json:"theme"`
	EmailNotifications bool   `json:"emailNotifications"`
	DailyGoal          int    `json:"dailyGoal"`
	WeeklyGoal         int    `json:"weeklyGoal"`
	LeetCodeUsername   string `json:"leetcodeUsername"`
	AutoSync           bool   `json:"autoSync"`
}

// DefaultSettings returns the settings a user starts with.
func DefaultSettings() Settings {
	return Settings{
		Theme:              ThemeSystem,
		EmailNotifications: false,
		DailyGoal:          1,
		WeeklyGoal:         5,
		LeetCodeUsername:   "",
		AutoSync:           false,
	}
}

// SettingsPatch is a partial update. Nil fields are left untouched.
type SettingsPatch struct {
	Theme              *Theme  `json:"theme,omitempty"`
	EmailNotifications *bool   `json:"emailNotifications,omitempty"`
	DailyGoal          *int    `json:"dailyGoal,omitempty"`
	WeeklyGoal         *int    `json:"weeklyGoal,omitempty"`
	LeetCodeUsername   *string `json:"leetcodeUsername,omitempty"`
	AutoSync           *bool   `json:"autoSync,omitempty"`
}

// IsEmpty reports whether the patch sets no field.
func (p SettingsPatch) IsEmpty() bool {
	return p.Theme == nil && p.EmailNotifications == nil && p.DailyGoal == nil &&
		p.WeeklyGoal == nil && p.LeetCodeUsername == nil && p.AutoSync == nil
}

// Validate checks the fields that are set.
func (p SettingsPatch) Validate() error {
	if p.Theme != nil && !p.Theme.Valid() {
		return &ValidationError{Field: "theme", Message: fmt.Sprintf("must be one of light, dark, system (got %q)", *p.Theme)}
	}
	if p.DailyGoal != nil && *p.DailyGoal < 1 {
		return &ValidationError{Field: "dailyGoal", Message: "must be at least 1"}
	}
	if p.WeeklyGoal != nil && *p.WeeklyGoal < 1 {
		return &ValidationError{Field: "weeklyGoal", Message: "must be at least 1"}
	}
	return nil
}

// Merge returns s with every field set in p applied.
func (s Settings) Merge(p SettingsPatch) Settings {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.EmailNotifications != nil {
		s.EmailNotifications = *p.EmailNotifications
	}
	if p.DailyGoal != nil {
		s.DailyGoal = *p.DailyGoal
	}
	if p.WeeklyGoal != nil {
		s.WeeklyGoal = *p.WeeklyGoal
	}
	if p.LeetCodeUsername != nil {
		s.LeetCodeUsername = *p.LeetCodeUsername
	}
	if p.AutoSync != nil {
		s.AutoSync = *p.AutoSync
	}
	return s
}

// PatchFrom returns a patch that sets every field to the value in s.
func PatchFrom(s Settings) SettingsPatch {
	return SettingsPatch{
		Theme:              &s.Theme,
		EmailNotifications: &s.EmailNotifications,
		DailyGoal:          &s.DailyGoal,
		WeeklyGoal:         &s.WeeklyGoal,
		LeetCodeUsername:   &s.LeetCodeUsername,
		AutoSync:           &s.AutoSync,
	}
}
