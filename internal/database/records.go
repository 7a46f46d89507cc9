package database

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"leettrack/internal/model"
)

// stringList is stored as a JSON array in a TEXT column.
type stringList []string

func (l stringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *stringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into string list", src)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decoding string list: %w", err)
	}
	*l = out
	return nil
}

type problemRecord struct {
	ID              string     `gorm:"primaryKey;type:text"`
	UserID          string     `gorm:"index;not null;type:text"`
	Title           string     `gorm:"not null"`
	URL             string     `gorm:"column:url;not null"`
	Topic           string     `gorm:"not null"`
	Difficulty      string     `gorm:"not null"`
	Status          string     `gorm:"not null"`
	Notes           string     `gorm:"not null"`
	DateSolved      *model.Day `gorm:"type:text"`
	CompanyTags     stringList `gorm:"type:text;not null"`
	TimeComplexity  string     `gorm:"not null"`
	SpaceComplexity string     `gorm:"not null"`
	ContestID       string     `gorm:"not null"`
	CreatedAt       time.Time  `gorm:"autoCreateTime:false;not null"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime:false;not null"`
}

func (problemRecord) TableName() string { return "problems" }

func problemToRecord(p *model.Problem) *problemRecord {
	return &problemRecord{
		ID:              p.ID,
		UserID:          p.UserID,
		Title:           p.Title,
		URL:             p.URL,
		Topic:           p.Topic,
		Difficulty:      string(p.Difficulty),
		Status:          string(p.Status),
		Notes:           p.Notes,
		DateSolved:      p.DateSolved,
		CompanyTags:     stringList(p.CompanyTags),
		TimeComplexity:  p.TimeComplexity,
		SpaceComplexity: p.SpaceComplexity,
		ContestID:       p.ContestID,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (r *problemRecord) toModel() *model.Problem {
	var dateSolved *model.Day
	if r.DateSolved != nil && !r.DateSolved.IsZero() {
		d := *r.DateSolved
		dateSolved = &d
	}
	return &model.Problem{
		ID:              r.ID,
		UserID:          r.UserID,
		Title:           r.Title,
		URL:             r.URL,
		Topic:           r.Topic,
		Difficulty:      model.Difficulty(r.Difficulty),
		Status:          model.Status(r.Status),
		Notes:           r.Notes,
		DateSolved:      dateSolved,
		CompanyTags:     []string(r.CompanyTags),
		TimeComplexity:  r.TimeComplexity,
		SpaceComplexity: r.SpaceComplexity,
		ContestID:       r.ContestID,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

type contestRecord struct {
	ID             string    `gorm:"primaryKey;type:text"`
	UserID         string    `gorm:"index;not null;type:text"`
	Title          string    `gorm:"not null"`
	Date           model.Day `gorm:"type:text;not null"`
	Rank           *int
	Score          *int
	ProblemsSolved *int
	TotalProblems  *int
	Notes          string    `gorm:"not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime:false;not null"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime:false;not null"`
}

func (contestRecord) TableName() string { return "contests" }

func contestToRecord(c *model.Contest) *contestRecord {
	return &contestRecord{
		ID:             c.ID,
		UserID:         c.UserID,
		Title:          c.Title,
		Date:           c.Date,
		Rank:           c.Rank,
		Score:          c.Score,
		ProblemsSolved: c.ProblemsSolved,
		TotalProblems:  c.TotalProblems,
		Notes:          c.Notes,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func (r *contestRecord) toModel() *model.Contest {
	return &model.Contest{
		ID:             r.ID,
		UserID:         r.UserID,
		Title:          r.Title,
		Date:           r.Date,
		Rank:           r.Rank,
		Score:          r.Score,
		ProblemsSolved: r.ProblemsSolved,
		TotalProblems:  r.TotalProblems,
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type settingsRecord struct {
	UserID             string    `gorm:"primaryKey;type:text"`
	Theme              string    `gorm:"not null"`
	EmailNotifications bool      `gorm:"not null"`
	DailyGoal          int       `gorm:"not null"`
	WeeklyGoal         int       `gorm:"not null"`
	LeetcodeUsername   string    `gorm:"column:leetcode_username;not null"`
	AutoSync           bool      `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime:false;not null"`
}

func (settingsRecord) TableName() string { return "user_settings" }

func settingsToRecord(userID string, s model.Settings, now time.Time) *settingsRecord {
	return &settingsRecord{
		UserID:             userID,
		Theme:              string(s.Theme),
		EmailNotifications: s.EmailNotifications,
		DailyGoal:          s.DailyGoal,
		WeeklyGoal:         s.WeeklyGoal,
		LeetcodeUsername:   s.LeetCodeUsername,
		AutoSync:           s.AutoSync,
		UpdatedAt:          now,
	}
}

func (r *settingsRecord) toModel() *model.Settings {
	return &model.Settings{
		Theme:              model.Theme(r.Theme),
		EmailNotifications: r.EmailNotifications,
		DailyGoal:          r.DailyGoal,
		WeeklyGoal:         r.WeeklyGoal,
		LeetCodeUsername:   r.LeetcodeUsername,
		AutoSync:           r.AutoSync,
	}
}
