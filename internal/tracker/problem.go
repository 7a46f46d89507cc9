// Package tracker is the service layer: problem CRUD and live snapshots,
// the two-tier settings store, the contest log, encrypted export and the
// per-identity session that ties them together.
package tracker

import (
	"context"
	"fmt"
	"strings"

	"leettrack/internal/model"
)

// ProblemService validates and stamps problems before handing them to the
// store. It keeps no copy of the data: the next snapshot from the store is
// the source of truth.
type ProblemService struct {
	store  ProblemStore
	logger Logger
	clock  Clock
	idgen  IDGenerator
}

// NewProblemService creates a ProblemService with the provided dependencies.
func NewProblemService(store ProblemStore, logger Logger, clock Clock, idgen IDGenerator) *ProblemService {
	return &ProblemService{
		store:  store,
		logger: logger,
		clock:  clock,
		idgen:  idgen,
	}
}

// Add creates a problem owned by userID. The ID and both timestamps are
// assigned here; any values the caller set are ignored.
func (s *ProblemService) Add(ctx context.Context, userID string, p *model.Problem) (*model.Problem, error) {
	if userID == "" {
		return nil, ErrNoIdentity
	}
	if err := normalize(p); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	p.ID = s.idgen.New()
	p.UserID = userID
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.store.CreateProblem(ctx, p); err != nil {
		s.logger.Error("adding problem failed", "title", p.Title, "error", err)
		return nil, fmt.Errorf("adding problem: %w", err)
	}

	s.logger.Info("problem added", "id", p.ID, "title", p.Title)
	return p, nil
}

// Update replaces the editable fields of problem id. UserID and CreatedAt
// are preserved from the stored record; UpdatedAt is refreshed.
func (s *ProblemService) Update(ctx context.Context, userID, id string, p *model.Problem) (*model.Problem, error) {
	if userID == "" {
		return nil, ErrNoIdentity
	}
	if err := normalize(p); err != nil {
		return nil, err
	}

	existing, err := s.store.GetProblem(ctx, userID, id)
	if err != nil {
		s.logger.Error("updating problem failed", "id", id, "error", err)
		return nil, fmt.Errorf("updating problem: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("updating problem %s: %w", id, ErrNotFound)
	}

	p.ID = existing.ID
	p.UserID = existing.UserID
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.clock.Now()

	if err := s.store.UpdateProblem(ctx, p); err != nil {
		s.logger.Error("updating problem failed", "id", id, "error", err)
		return nil, fmt.Errorf("updating problem: %w", err)
	}

	s.logger.Info("problem updated", "id", id)
	return p, nil
}

// Get returns one problem, or an error wrapping ErrNotFound.
func (s *ProblemService) Get(ctx context.Context, userID, id string) (*model.Problem, error) {
	if userID == "" {
		return nil, ErrNoIdentity
	}
	p, err := s.store.GetProblem(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("getting problem: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("problem %s: %w", id, ErrNotFound)
	}
	return p, nil
}

// Delete removes problem id. Deleting an unknown ID is an error.
func (s *ProblemService) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrNoIdentity
	}
	if err := s.store.DeleteProblem(ctx, userID, id); err != nil {
		s.logger.Error("deleting problem failed", "id", id, "error", err)
		return fmt.Errorf("deleting problem %s: %w", id, err)
	}

	s.logger.Info("problem deleted", "id", id)
	return nil
}

// List returns the user's problems. Without an identity the list is empty.
func (s *ProblemService) List(ctx context.Context, userID string) ([]*model.Problem, error) {
	if userID == "" {
		return []*model.Problem{}, nil
	}
	problems, err := s.store.ListProblems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing problems: %w", err)
	}
	return problems, nil
}

// Watch subscribes to the user's problem snapshots. Without an identity it
// delivers a single empty snapshot and returns a no-op unsubscribe.
func (s *ProblemService) Watch(userID string, onSnapshot SnapshotFunc, onError func(error)) func() {
	if userID == "" {
		onSnapshot([]*model.Problem{})
		return func() {}
	}
	return s.store.WatchProblems(userID, onSnapshot, func(err error) {
		s.logger.Error("problem subscription failed", "user", userID, "error", err)
		if onError != nil {
			onError(err)
		}
	})
}

// normalize trims and sanitises user input, then validates it.
func normalize(p *model.Problem) error {
	if p == nil {
		return &model.ValidationError{Field: "problem", Message: "is required"}
	}
	p.Title = strings.TrimSpace(p.Title)
	p.URL = strings.TrimSpace(p.URL)
	p.Topic = strings.TrimSpace(p.Topic)
	p.Notes = model.SanitizeNotes(p.Notes)

	tags := p.CompanyTags[:0]
	for _, tag := range p.CompanyTags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	p.CompanyTags = tags

	return p.Validate()
}
