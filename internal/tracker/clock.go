package tracker

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies "now". Streaks and week boundaries are computed from it, so
// tests pin it to a fixed instant.
type Clock interface {
	Now() time.Time
}

// RealClock reads the wall clock in the local timezone.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator hands out record IDs.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random (v4) UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }
