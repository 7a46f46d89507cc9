package model

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ErrInvalid is wrapped by every ValidationError.
var ErrInvalid = errors.New("invalid input")

// ValidationError describes a single rejected field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

// notesPolicy allows the markup a user-generated comment would.
var notesPolicy = bluemonday.UGCPolicy()

// SanitizeNotes strips anything from free-text notes that could execute when
// rendered as HTML.
func SanitizeNotes(s string) string {
	return strings.TrimSpace(notesPolicy.Sanitize(s))
}

// Validate checks the user-editable fields of a problem.
func (p *Problem) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return &ValidationError{Field: "title", Message: "Title is required"}
	}
	if err := validateURL(p.URL); err != nil {
		return err
	}
	if strings.TrimSpace(p.Topic) == "" {
		return &ValidationError{Field: "topic", Message: "Topic is required"}
	}
	if !p.Difficulty.Valid() {
		return &ValidationError{Field: "difficulty", Message: fmt.Sprintf("must be Easy, Medium or Hard (got %q)", p.Difficulty)}
	}
	if !p.Status.Valid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("must be Solved, Attempted or To Do (got %q)", p.Status)}
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return &ValidationError{Field: "url", Message: "Please enter a valid URL"}
	}
	return nil
}

// Validate checks the required contest fields.
func (c *Contest) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return &ValidationError{Field: "title", Message: "Title is required"}
	}
	if c.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "Date is required"}
	}
	return nil
}
