package gap

import "strings"

// ResumeData is the parsed resume surface the engine consumes; parsing
// itself is an external concern.
type ResumeData struct {
	ExtractedSkills []ExtractedSkill `json:"extractedSkills"`
}

type ExtractedSkill struct {
	SkillName       string  `json:"skillName"`
	YearsExperience float64 `json:"yearsExperience"`
}

// resumeSkillBoosts maps lowercase skill names to an additive level boost:
// the full 1.0 for seasoned experience (>= boostYears), 0.5 otherwise.
// Skills absent from the resume get no entry and therefore no boost. When a
// skill appears more than once the larger boost wins.
func resumeSkillBoosts(resume *ResumeData, boostYears float64) map[string]float64 {
	boosts := make(map[string]float64)
	if resume == nil {
		return boosts
	}

	for _, skill := range resume.ExtractedSkills {
		key := strings.ToLower(strings.TrimSpace(skill.SkillName))
		if key == "" {
			continue
		}

		boost := 0.5
		if skill.YearsExperience >= boostYears {
			boost = 1.0
		}

		if boost > boosts[key] {
			boosts[key] = boost
		}
	}

	return boosts
}
