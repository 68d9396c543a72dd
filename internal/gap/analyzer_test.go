package gap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillmap/engine/internal/progress"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(DefaultConfig(), nil)
}

func TestAnalyzeJavascriptScenario(t *testing.T) {
	skills := []progress.SkillLevel{
		{Name: "javascript", Level: 2, Confidence: 0.3},
	}
	resume := &ResumeData{
		ExtractedSkills: []ExtractedSkill{
			{SkillName: "JavaScript", YearsExperience: 3},
		},
	}

	report := newTestAnalyzer().Analyze(skills, "Software Engineer", resume, nil)

	require.Len(t, report.Opportunities, 1)
	opp := report.Opportunities[0]

	// 3 years of resume experience earns the full 1.0 boost.
	assert.Equal(t, 3.0, opp.CurrentLevel)
	assert.Equal(t, 4, opp.TargetLevel)
	assert.Equal(t, 1.0, opp.Growth)
	// "javascript" contains neither "programming" nor "coding" and does
	// not contain the role name, so the base gap stands.
	assert.Equal(t, 2.0, opp.Priority)
}

func TestAnalyzeSkipsDevelopedSkills(t *testing.T) {
	skills := []progress.SkillLevel{
		{Name: "react", Level: 4, Confidence: 0.85},
		{Name: "sql", Level: 5, Confidence: 1.0},
	}

	report := newTestAnalyzer().Analyze(skills, "", nil, nil)

	assert.True(t, report.NoGaps)
	assert.Empty(t, report.Opportunities)
	assert.Zero(t, report.TotalOpportunities)
}

func TestAnalyzeGrowthNeverNegative(t *testing.T) {
	// A big resume boost can push the adjusted level past the target;
	// those skills are dropped instead of reported with negative growth.
	skills := []progress.SkillLevel{
		{Name: "python basics", Level: 3, Confidence: 0.55},
	}
	resume := &ResumeData{
		ExtractedSkills: []ExtractedSkill{
			{SkillName: "Python Basics", YearsExperience: 6},
		},
	}

	report := newTestAnalyzer().Analyze(skills, "Data Analyst", resume, nil)

	for _, opp := range report.Opportunities {
		assert.Greater(t, opp.Growth, 0.0)
	}
	assert.True(t, report.NoGaps)
}

func TestAnalyzePriorityOrderingAndMultiplier(t *testing.T) {
	skills := []progress.SkillLevel{
		{Name: "sql", Level: 3, Confidence: 0.55},
		{Name: "python programming", Level: 1, Confidence: 0.1},
		{Name: "git", Level: 2, Confidence: 0.35},
	}

	report := newTestAnalyzer().Analyze(skills, "", nil, nil)
	require.Len(t, report.Opportunities, 3)

	// (4-1)*1.5 = 4.5 beats (4-2)*1 = 2 beats (4-3)*1 = 1.
	assert.Equal(t, "python programming", report.Opportunities[0].Skill)
	assert.Equal(t, 4.5, report.Opportunities[0].Priority)
	assert.Equal(t, "git", report.Opportunities[1].Skill)
	assert.Equal(t, "sql", report.Opportunities[2].Skill)

	for i := 1; i < len(report.Opportunities); i++ {
		assert.GreaterOrEqual(t,
			report.Opportunities[i-1].Priority,
			report.Opportunities[i].Priority,
		)
	}
}

func TestAnalyzeRoleBoost(t *testing.T) {
	skills := []progress.SkillLevel{
		{Name: "frontend engineering", Level: 2, Confidence: 0.4},
	}

	report := newTestAnalyzer().Analyze(skills, "frontend", nil, nil)
	require.Len(t, report.Opportunities, 1)

	// Role substring match: target 5 and a 0.5 priority bonus.
	assert.Equal(t, 5, report.Opportunities[0].TargetLevel)
	assert.Equal(t, 2.5, report.Opportunities[0].Priority)
}

func TestAnalyzeCapsOpportunities(t *testing.T) {
	skills := []progress.SkillLevel{
		{Name: "a", Level: 1, Confidence: 0.1},
		{Name: "b", Level: 1, Confidence: 0.1},
		{Name: "c", Level: 2, Confidence: 0.3},
		{Name: "d", Level: 2, Confidence: 0.3},
		{Name: "e", Level: 3, Confidence: 0.5},
		{Name: "f", Level: 3, Confidence: 0.5},
		{Name: "g", Level: 1, Confidence: 0.1},
	}

	report := newTestAnalyzer().Analyze(skills, "", nil, nil)

	assert.Equal(t, 7, report.TotalOpportunities)
	assert.Len(t, report.Opportunities, 5)
}

func TestRoadmapKeyedOffAdjustedLevel(t *testing.T) {
	phases := func(r []Phase) []string {
		names := make([]string, 0, len(r))
		for _, p := range r {
			names = append(names, p.Phase)
		}
		return names
	}

	assert.Equal(t,
		[]string{"Foundation Building", "Skill Development", "Advanced Practice", "Mastery & Specialization"},
		phases(buildRoadmap(1.5)),
	)
	assert.Equal(t,
		[]string{"Skill Development", "Advanced Practice", "Mastery & Specialization"},
		phases(buildRoadmap(3)),
	)
	assert.Equal(t,
		[]string{"Skill Development", "Mastery & Specialization"},
		phases(buildRoadmap(4.5)),
	)
}

func TestResumeSkillBoosts(t *testing.T) {
	resume := &ResumeData{
		ExtractedSkills: []ExtractedSkill{
			{SkillName: "Docker", YearsExperience: 1},
			{SkillName: "Kubernetes", YearsExperience: 2},
			{SkillName: "docker", YearsExperience: 5},
		},
	}

	boosts := resumeSkillBoosts(resume, 2)

	// Duplicate entries keep the larger boost; keys are lowercased.
	assert.Equal(t, 1.0, boosts["docker"])
	assert.Equal(t, 1.0, boosts["kubernetes"])
	assert.NotContains(t, boosts, "go")

	assert.Empty(t, resumeSkillBoosts(nil, 2))
}

func TestBuildEvidenceRules(t *testing.T) {
	signals := []ResponseSignal{
		{QuestionType: "text", Text: "short", Confidence: 0.2, ThinkTimeSeconds: 10},
		{QuestionType: "text", Text: "also short", Confidence: 0.3, ThinkTimeSeconds: 12},
		{QuestionType: "text", Text: "tiny", Confidence: 0.4, ThinkTimeSeconds: 8},
		{QuestionType: "text", Text: "brief", Confidence: 0.5, ThinkTimeSeconds: 20},
	}

	skill := progress.SkillLevel{Name: "javascript", Level: 2, Confidence: 0.3}
	evidence := buildEvidence(skill, map[string]float64{"javascript": 1.0}, summarizeResponses(signals), "")

	assert.Contains(t, evidence, "Multiple responses showed uncertainty - indicates knowledge gaps")
	assert.Contains(t, evidence, "Brief responses suggest areas needing deeper understanding")
	assert.Contains(t, evidence, "Quick responses may indicate surface-level knowledge")
	assert.Contains(t, evidence, "Assessment confidence indicates room for improvement")
	assert.Contains(t, evidence, "Current proficiency level suggests foundational gaps")
	assert.Contains(t, evidence, "Resume shows related experience - build on existing foundation")
	assert.NotContains(t, evidence, "Limited direct experience in this area")
}

func TestBuildEvidenceNoResumeExperience(t *testing.T) {
	skill := progress.SkillLevel{Name: "sql", Level: 3, Confidence: 0.6}
	evidence := buildEvidence(skill, nil, responseSummary{}, "sql engineer")

	assert.Contains(t, evidence, "Limited direct experience in this area")
	assert.NotContains(t, evidence, "Resume shows related experience - build on existing foundation")
}
