package tracker

import (
	"context"
	"fmt"
	"strings"

	"leettrack/internal/model"
)

// ContestService records contest results.
type ContestService struct {
	store  ContestStore
	logger Logger
	clock  Clock
	idgen  IDGenerator
}

func NewContestService(store ContestStore, logger Logger, clock Clock, idgen IDGenerator) *ContestService {
	return &ContestService{store: store, logger: logger, clock: clock, idgen: idgen}
}

// Add appends a contest to the user's log.
func (s *ContestService) Add(ctx context.Context, userID string, c *model.Contest) (*model.Contest, error) {
	if userID == "" {
		return nil, ErrNoIdentity
	}
	c.Title = strings.TrimSpace(c.Title)
	c.Notes = model.SanitizeNotes(c.Notes)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	c.ID = s.idgen.New()
	c.UserID = userID
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := s.store.CreateContest(ctx, c); err != nil {
		s.logger.Error("adding contest failed", "title", c.Title, "error", err)
		return nil, fmt.Errorf("adding contest: %w", err)
	}

	s.logger.Info("contest added", "id", c.ID, "title", c.Title)
	return c, nil
}

// List returns the user's contests, most recent first.
func (s *ContestService) List(ctx context.Context, userID string) ([]*model.Contest, error) {
	if userID == "" {
		return []*model.Contest{}, nil
	}
	contests, err := s.store.ListContests(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing contests: %w", err)
	}
	return contests, nil
}
