package lookup

import (
	"fmt"
	"time"

	"leettrack/internal/config"
	"leettrack/internal/tracker"
)

// NewLookupFromConfig creates a StatsLookup based on the lookup config type.
func NewLookupFromConfig(cfg config.LookupConfig, clock tracker.Clock, logger tracker.Logger) (tracker.StatsLookup, error) {
	switch cfg.Type {
	case "", "stub":
		return NewStubLookup(clock), nil
	case "leetcode":
		timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
		return NewLeetCodeLookup(cfg.Endpoint, timeout, clock, logger), nil
	default:
		return nil, fmt.Errorf("unknown lookup type: %s", cfg.Type)
	}
}
