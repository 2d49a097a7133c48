package interview

import (
	"fmt"
	"time"
)

// PacingMode selects how a session is bounded
type PacingMode string

const (
	ModeTurns PacingMode = "turns"
	ModeTime  PacingMode = "time"
)

// Pacing bounds a session either by main questions asked or by wall-clock minutes
type Pacing struct {
	Mode  PacingMode `json:"mode"`
	Limit int        `json:"limit"`
}

// Bounds are the operator limits applied to requested pacing
type Bounds struct {
	MinMinutes int
	MaxMinutes int
	MaxTurns   int
}

// DefaultBounds mirrors the service defaults
var DefaultBounds = Bounds{MinMinutes: 3, MaxMinutes: 45, MaxTurns: 20}

const questionsPerSlot = 3

// Validate reports ErrInvalidPacing when the mode is unknown or the limit is out of bounds
func (p Pacing) Validate(b Bounds) error {
	switch p.Mode {
	case ModeTurns:
		if p.Limit < 1 {
			return fmt.Errorf("%w: turn limit must be at least 1", ErrInvalidPacing)
		}
		if b.MaxTurns > 0 && p.Limit > b.MaxTurns {
			return fmt.Errorf("%w: turn limit must be at most %d", ErrInvalidPacing, b.MaxTurns)
		}
	case ModeTime:
		if p.Limit < b.MinMinutes || (b.MaxMinutes > 0 && p.Limit > b.MaxMinutes) {
			return fmt.Errorf("%w: duration must be between %d and %d minutes", ErrInvalidPacing, b.MinMinutes, b.MaxMinutes)
		}
		if p.Limit < 1 {
			return fmt.Errorf("%w: duration must be positive", ErrInvalidPacing)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidPacing, p.Mode)
	}
	return nil
}

// Budget is the total time allowed for time-bounded sessions
func (p Pacing) Budget() time.Duration {
	if p.Mode != ModeTime {
		return 0
	}
	return time.Duration(p.Limit) * time.Minute
}

// PoolSize is how many questions to request when the session starts.
// Time-bounded sessions assume roughly one main question per two minutes.
func (p Pacing) PoolSize() int {
	slots := p.Limit
	if p.Mode == ModeTime {
		slots = p.Limit / 2
		if slots < 2 {
			slots = 2
		}
	}
	if slots < 1 {
		slots = 1
	}
	return slots * questionsPerSlot
}
