package gap

import (
	"strings"

	"github.com/skillmap/engine/internal/progress"
)

// ResponseSignal is the slice of a past response the evidence rules read.
type ResponseSignal struct {
	QuestionType     string
	Text             string
	Confidence       float64
	ThinkTimeSeconds int
}

// responseSummary buckets past responses into the three behavioral
// counters the evidence rules key off.
type responseSummary struct {
	shortResponses int
	lowConfidence  int
	quickResponses int
}

func summarizeResponses(responses []ResponseSignal) responseSummary {
	var summary responseSummary

	for _, r := range responses {
		if r.QuestionType == "text" && len(r.Text) < 50 {
			summary.shortResponses++
		}
		if r.Confidence < 0.6 {
			summary.lowConfidence++
		}
		if r.ThinkTimeSeconds > 0 && r.ThinkTimeSeconds < 30 {
			summary.quickResponses++
		}
	}

	return summary
}

// buildEvidence applies the fixed rule set; each matching rule appends one
// fixed string, order preserved. Evidence is a human-readable justification,
// not a statistical explanation.
func buildEvidence(skill progress.SkillLevel, boosts map[string]float64, signals responseSummary, targetRole string) []string {
	evidence := []string{}

	if signals.lowConfidence > 2 {
		evidence = append(evidence, "Multiple responses showed uncertainty - indicates knowledge gaps")
	}
	if signals.shortResponses > 3 {
		evidence = append(evidence, "Brief responses suggest areas needing deeper understanding")
	}
	if signals.quickResponses > 2 {
		evidence = append(evidence, "Quick responses may indicate surface-level knowledge")
	}

	if skill.Confidence < 0.4 {
		evidence = append(evidence, "Assessment confidence indicates room for improvement")
	}
	if float64(skill.Level) < 2.5 {
		evidence = append(evidence, "Current proficiency level suggests foundational gaps")
	}

	if boosts[strings.ToLower(skill.Name)] > 0 {
		evidence = append(evidence, "Resume shows related experience - build on existing foundation")
	} else {
		evidence = append(evidence, "Limited direct experience in this area")
	}

	if targetRole != "" && strings.Contains(strings.ToLower(skill.Name), strings.ToLower(targetRole)) {
		evidence = append(evidence, "Highly relevant to target career path")
	}

	return evidence
}
