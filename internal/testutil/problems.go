package testutil

import (
	"leettrack/internal/model"
)

// NewProblem returns a valid problem draft ready for ProblemService.Add.
func NewProblem(title string) *model.Problem {
	return &model.Problem{
		Title:      title,
		URL:        "https://leetcode.com/problems/two-sum/",
		Topic:      "Array",
		Difficulty: model.DifficultyEasy,
		Status:     model.StatusToDo,
	}
}

// NewSolvedProblem is NewProblem marked Solved on day (YYYY-MM-DD).
func NewSolvedProblem(title, day string) *model.Problem {
	p := NewProblem(title)
	d := model.MustParseDay(day)
	p.Status = model.StatusSolved
	p.DateSolved = &d
	return p
}
