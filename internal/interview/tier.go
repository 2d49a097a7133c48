package interview

import "strings"

// Tier is the difficulty band a question belongs to
type Tier string

const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
)

// Tiers lists every tier from easiest to hardest
var Tiers = []Tier{TierEasy, TierMedium, TierHard}

// order tried when the target tier's pool is empty
var fallbackOrder = []Tier{TierMedium, TierHard, TierEasy}

const (
	promoteAt   = 75
	demoteBelow = 45
)

// ParseTier accepts a tier name in any case. Empty input maps to medium.
func ParseTier(s string) (Tier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return TierMedium, true
	case "easy":
		return TierEasy, true
	case "medium":
		return TierMedium, true
	case "hard":
		return TierHard, true
	}
	return "", false
}

func (t Tier) Valid() bool {
	return t == TierEasy || t == TierMedium || t == TierHard
}

func (t Tier) up() Tier {
	switch t {
	case TierEasy:
		return TierMedium
	case TierMedium, TierHard:
		return TierHard
	}
	return t
}

func (t Tier) down() Tier {
	switch t {
	case TierHard:
		return TierMedium
	case TierMedium, TierEasy:
		return TierEasy
	}
	return t
}

// Retune moves the target tier one step based on a turn score.
// Scores of 75 or more promote, scores under 45 demote, anything else holds.
func Retune(current Tier, score int) Tier {
	switch {
	case score >= promoteAt:
		return current.up()
	case score < demoteBelow:
		return current.down()
	}
	return current
}
