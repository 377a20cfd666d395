package weightsdiff

import (
	"encoding/json"
	"fmt"
	"strings"
)

var sections = []struct {
	prefix string
	title  string
}{
	{"age_bands", "Age Bands"},
	{"tenure_bands", "Tenure Bands"},
	{"charge_bands", "Charge Bands"},
	{"support_call_points", "Support Calls"},
	{"contract_weights", "Contract Weights"},
	{"payment_weights", "Payment Weights"},
	{"customer_type_weights", "Customer Type Weights"},
}

// FormatText renders the diff result as human-readable text.
func FormatText(r *DiffResult) string {
	if !r.HasChanges {
		return fmt.Sprintf("Weights diff: %s → %s\n\nNo changes detected.\n", r.OldPath, r.NewPath)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Weights diff: %s → %s\n", r.OldPath, r.NewPath)

	for _, s := range sections {
		changes := filterChanges(r.Changes, s.prefix)
		if len(changes) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n  %s:\n", s.title)
		for _, c := range changes {
			name := strings.TrimPrefix(strings.TrimPrefix(c.Field, s.prefix), ".")
			if name == "" {
				name = "per call"
			}
			switch c.Comment {
			case "added":
				fmt.Fprintf(&b, "    + %-20s %s\n", name, c.New)
			case "removed":
				fmt.Fprintf(&b, "    - %-20s %s\n", name, c.Old)
			default:
				fmt.Fprintf(&b, "    %-22s %s → %s", name+":", c.Old, c.New)
				if c.Comment != "" {
					fmt.Fprintf(&b, "  (%s)", c.Comment)
				}
				b.WriteString("\n")
			}
		}
	}

	if len(r.TierChanges) > 0 {
		b.WriteString("\n  Tiers:\n")
		for _, tc := range r.TierChanges {
			switch tc.Type {
			case "added":
				fmt.Fprintf(&b, "    + %s\n", tc.Tier)
			case "removed":
				fmt.Fprintf(&b, "    - %s\n", tc.Tier)
			case "changed":
				fmt.Fprintf(&b, "    ~ %s\n", tc.Tier)
			}
		}
	}

	return b.String()
}

// FormatJSON renders the diff result as JSON.
func FormatJSON(r *DiffResult) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal diff result: %w", err)
	}
	return string(data), nil
}

func filterChanges(changes []Change, prefix string) []Change {
	var out []Change
	for _, c := range changes {
		if c.Field == prefix || strings.HasPrefix(c.Field, prefix+".") || strings.HasPrefix(c.Field, prefix+"[") {
			out = append(out, c)
		}
	}
	return out
}
