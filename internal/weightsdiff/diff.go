// Package weightsdiff compares two scoring weight configurations.
package weightsdiff

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/churnwatch/internal/model"
	"github.com/ppiankov/churnwatch/internal/scoring"
)

// Change represents a scalar field change.
type Change struct {
	Field   string `json:"field"`
	Old     string `json:"old"`
	New     string `json:"new"`
	Comment string `json:"comment,omitempty"`
}

// TierChange represents a tier addition, removal, or modification.
type TierChange struct {
	Type string `json:"type"` // "added", "removed", "changed"
	Tier string `json:"tier"`
}

// DiffResult holds the comparison of two weight configurations.
type DiffResult struct {
	OldPath     string       `json:"old_path"`
	NewPath     string       `json:"new_path"`
	Changes     []Change     `json:"changes"`
	TierChanges []TierChange `json:"tier_changes"`
	HasChanges  bool         `json:"has_changes"`
}

// Diff compares two Weights and returns the differences.
func Diff(old, new *scoring.Weights) *DiffResult {
	r := &DiffResult{}

	diffBands(r, "age_bands", old.AgeBands, new.AgeBands)
	diffBands(r, "tenure_bands", old.TenureBands, new.TenureBands)
	diffBands(r, "charge_bands", old.ChargeBands, new.ChargeBands)

	diffInt(r, "support_call_points", old.SupportCallPoints, new.SupportCallPoints)

	diffTable(r, "contract_weights", old.Contract, new.Contract)
	diffTable(r, "payment_weights", old.Payment, new.Payment)
	diffTable(r, "customer_type_weights", old.CustomerType, new.CustomerType)

	diffTiers(r, old.Tiers, new.Tiers)

	r.HasChanges = len(r.Changes) > 0 || len(r.TierChanges) > 0
	return r
}

func diffInt(r *DiffResult, field string, old, new int) {
	if old != new {
		r.Changes = append(r.Changes, Change{
			Field:   field,
			Old:     fmt.Sprintf("%d", old),
			New:     fmt.Sprintf("%d", new),
			Comment: pointsComment(old, new),
		})
	}
}

// pointsComment describes a points change. More points means higher scores.
func pointsComment(old, new int) string {
	if new > old {
		return "riskier"
	}
	return "safer"
}

func bandLabel(b scoring.Band) string {
	return fmt.Sprintf("%s %s: %+d", b.Op, scoring.FormatCharges(b.Bound), b.Points)
}

// diffBands compares bands by position, since first match wins.
func diffBands(r *DiffResult, section string, oldBands, newBands []scoring.Band) {
	n := len(oldBands)
	if len(newBands) > n {
		n = len(newBands)
	}

	for i := 0; i < n; i++ {
		field := fmt.Sprintf("%s[%d]", section, i)
		switch {
		case i >= len(oldBands):
			r.Changes = append(r.Changes, Change{Field: field, New: bandLabel(newBands[i]), Comment: "added"})
		case i >= len(newBands):
			r.Changes = append(r.Changes, Change{Field: field, Old: bandLabel(oldBands[i]), Comment: "removed"})
		case oldBands[i] != newBands[i]:
			c := Change{Field: field, Old: bandLabel(oldBands[i]), New: bandLabel(newBands[i])}
			if oldBands[i].Op == newBands[i].Op && oldBands[i].Bound == newBands[i].Bound {
				c.Comment = pointsComment(oldBands[i].Points, newBands[i].Points)
			}
			r.Changes = append(r.Changes, c)
		}
	}
}

func diffTable(r *DiffResult, section string, old, new scoring.WeightTable) {
	diffInt(r, section+".default", old.Default, new.Default)

	for _, k := range unionKeys(old.Values, new.Values) {
		field := section + "." + k
		ov, inOld := old.Values[k]
		nv, inNew := new.Values[k]
		switch {
		case !inOld:
			r.Changes = append(r.Changes, Change{Field: field, New: fmt.Sprintf("%d", nv), Comment: "added"})
		case !inNew:
			r.Changes = append(r.Changes, Change{Field: field, Old: fmt.Sprintf("%d", ov), Comment: "removed"})
		default:
			diffInt(r, field, ov, nv)
		}
	}
}

func unionKeys(a, b map[string]int) []string {
	seen := make(map[string]bool, len(a)+len(b))
	for k := range a {
		seen[k] = true
	}
	for k := range b {
		seen[k] = true
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func tierLabel(t scoring.Tier) string {
	return fmt.Sprintf("%s >= %d (%s)", t.Level, t.Min, t.Probability)
}

func diffTiers(r *DiffResult, oldTiers, newTiers []scoring.Tier) {
	oldMap := make(map[model.RiskLevel]scoring.Tier)
	for _, t := range oldTiers {
		oldMap[t.Level] = t
	}
	newMap := make(map[model.RiskLevel]scoring.Tier)
	for _, t := range newTiers {
		newMap[t.Level] = t
	}

	// Check for added and changed
	for _, t := range newTiers {
		oldTier, exists := oldMap[t.Level]
		if !exists {
			r.TierChanges = append(r.TierChanges, TierChange{Type: "added", Tier: tierLabel(t)})
			continue
		}

		var diffs []string
		if oldTier.Min != t.Min {
			diffs = append(diffs, fmt.Sprintf("min %d → %d", oldTier.Min, t.Min))
		}
		if oldTier.Probability != t.Probability {
			diffs = append(diffs, fmt.Sprintf("probability %s → %s", oldTier.Probability, t.Probability))
		}
		if strings.Join(oldTier.Recommendations, "\n") != strings.Join(t.Recommendations, "\n") {
			diffs = append(diffs, fmt.Sprintf("recommendations [%s] → [%s]",
				strings.Join(oldTier.Recommendations, "; "), strings.Join(t.Recommendations, "; ")))
		}
		if len(diffs) > 0 {
			r.TierChanges = append(r.TierChanges, TierChange{
				Type: "changed",
				Tier: fmt.Sprintf("%s: %s", t.Level, strings.Join(diffs, ", ")),
			})
		}
	}

	// Check for removed
	for _, t := range oldTiers {
		if _, exists := newMap[t.Level]; !exists {
			r.TierChanges = append(r.TierChanges, TierChange{Type: "removed", Tier: tierLabel(t)})
		}
	}
}
