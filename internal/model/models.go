package model

import "time"

// Difficulty is the problem difficulty as shown by the judge.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Difficulties lists the difficulty levels in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Status tracks where the user is with a problem.
type Status string

const (
	StatusSolved    Status = "Solved"
	StatusAttempted Status = "Attempted"
	StatusToDo      Status = "To Do"
)

func (s Status) Valid() bool {
	switch s {
	case StatusSolved, StatusAttempted, StatusToDo:
		return true
	}
	return false
}

// Problem is a single practice problem recorded by a user.
type Problem struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	Title           string     `json:"title"`
	URL             string     `json:"url"`
	Topic           string     `json:"topic"`
	Difficulty      Difficulty `json:"difficulty"`
	Status          Status     `json:"status"`
	Notes           string     `json:"notes,omitempty"`
	DateSolved      *Day       `json:"dateSolved,omitempty"`
	CompanyTags     []string   `json:"companyTags,omitempty"`
	TimeComplexity  string     `json:"timeComplexity,omitempty"`
	SpaceComplexity string     `json:"spaceComplexity,omitempty"`
	ContestID       string     `json:"contestId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// SolvedDay returns the solve date of a Solved problem. ok is false for
// any other status or when no date was recorded.
func (p *Problem) SolvedDay() (day Day, ok bool) {
	if p.Status != StatusSolved || p.DateSolved == nil || p.DateSolved.IsZero() {
		return Day{}, false
	}
	return *p.DateSolved, true
}

// HasCompany reports whether the problem is tagged with company (exact match).
func (p *Problem) HasCompany(company string) bool {
	for _, c := range p.CompanyTags {
		if c == company {
			return true
		}
	}
	return false
}

// Contest is a contest the user took part in.
type Contest struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Title          string    `json:"title"`
	Date           Day       `json:"date"`
	Rank           *int      `json:"rank,omitempty"`
	Score          *int      `json:"score,omitempty"`
	ProblemsSolved *int      `json:"problemsSolved,omitempty"`
	TotalProblems  *int      `json:"totalProblems,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ProfileStats is the aggregate third-party profile shown on the profile page.
type ProfileStats struct {
	Username           string         `json:"username"`
	Ranking            int            `json:"ranking"`
	TotalSolved        int            `json:"totalSolved"`
	TotalQuestions     int            `json:"totalQuestions"`
	EasySolved         int            `json:"easySolved"`
	EasyTotal          int            `json:"easyTotal"`
	MediumSolved       int            `json:"mediumSolved"`
	MediumTotal        int            `json:"mediumTotal"`
	HardSolved         int            `json:"hardSolved"`
	HardTotal          int            `json:"hardTotal"`
	AcceptanceRate     float64        `json:"acceptanceRate"`
	SubmissionCalendar map[string]int `json:"submissionCalendar"`
	ContributionPoints int            `json:"contributionPoints"`
	Reputation         int            `json:"reputation"`
	LastUpdated        time.Time      `json:"lastUpdated"`
}

// SuggestedTopics are offered by the problem form. Topic is free-form, so
// values outside this list are accepted.
var SuggestedTopics = []string{
	"Array",
	"String",
	"Hash Table",
	"Dynamic Programming",
	"Math",
	"Sorting",
	"Greedy",
	"Depth-First Search",
	"Binary Search",
	"Breadth-First Search",
	"Tree",
	"Matrix",
	"Graph",
	"Heap",
	"Bit Manipulation",
	"Stack",
	"Queue",
	"Linked List",
	"Sliding Window",
	"Divide and Conquer",
	"Recursion",
	"Other",
}

// CompanyRoster is the fixed set of company tags tracked on the companies page.
var CompanyRoster = []string{
	"Amazon",
	"Apple",
	"Bloomberg",
	"Facebook",
	"Google",
	"LinkedIn",
	"Microsoft",
	"Uber",
	"Twitter",
	"Adobe",
	"Airbnb",
	"ByteDance",
	"Cisco",
	"eBay",
	"Expedia",
	"Goldman Sachs",
	"IBM",
	"Intel",
	"Oracle",
	"PayPal",
	"Salesforce",
	"SAP",
	"Snapchat",
	"Spotify",
	"VMware",
	"Walmart",
	"Yahoo",
	"Yelp",
	"Zillow",
}
