package scoring

import "github.com/ppiankov/churnwatch/internal/model"

// TierFor returns the first tier whose minimum the score reaches.
// Tiers are checked highest-threshold-first; a score below every minimum
// falls into the last tier.
func (w *Weights) TierFor(score int) Tier {
	for _, t := range w.Tiers {
		if score >= t.Min {
			return t
		}
	}
	return w.Tiers[len(w.Tiers)-1]
}

// LevelRank maps a risk level to a comparable integer. Unknown levels rank -1.
func LevelRank(l model.RiskLevel) int {
	switch l {
	case model.LevelLow:
		return 0
	case model.LevelMedium:
		return 1
	case model.LevelHigh:
		return 2
	case model.LevelCritical:
		return 3
	default:
		return -1
	}
}
