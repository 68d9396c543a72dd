// Package progress turns the backend-owned confidence map into the discrete
// skill-level list the dashboard renders.
package progress

import (
	"math"
	"sort"
	"strings"
)

type SkillLevel struct {
	Name       string  `json:"name"`
	Level      int     `json:"level"`
	Confidence float64 `json:"confidence"`
}

// Aggregate derives an ordered skill-level list from a skill-code →
// confidence map. Levels are clamp(1,5, round(confidence*5)), with a floor
// of 1 so a zero-confidence skill still renders. An absent or empty map
// yields an empty list, not an error. Output order is deterministic
// (sorted by skill code) so repeated calls on the same input agree.
func Aggregate(confidences map[string]float64) []SkillLevel {
	if len(confidences) == 0 {
		return []SkillLevel{}
	}

	codes := make([]string, 0, len(confidences))
	for code := range confidences {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	levels := make([]SkillLevel, 0, len(codes))
	for _, code := range codes {
		c := confidences[code]
		levels = append(levels, SkillLevel{
			Name:       strings.ReplaceAll(code, "_", " "),
			Level:      DeriveLevel(c),
			Confidence: c,
		})
	}

	return levels
}

// DeriveLevel maps a confidence in [0,1] to an integer level in [1,5].
func DeriveLevel(confidence float64) int {
	level := int(math.Round(confidence * 5))
	if level == 0 {
		level = 1
	}
	if level < 1 {
		level = 1
	}
	if level > 5 {
		level = 5
	}
	return level
}
