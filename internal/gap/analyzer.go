// Package gap computes prioritized, explainable growth opportunities from
// assessed skill levels, optional resume evidence and past responses.
package gap

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/skillmap/engine/internal/progress"
)

type Config struct {
	// ResumeBoostYears is the experience threshold above which resume
	// evidence earns the full level boost.
	ResumeBoostYears float64
	// DefaultTargetLevel applies when no target role is supplied.
	DefaultTargetLevel int
	// TopOpportunities caps how many opportunities are presented.
	TopOpportunities int
}

func DefaultConfig() Config {
	return Config{
		ResumeBoostYears:   2,
		DefaultTargetLevel: 4,
		TopOpportunities:   5,
	}
}

type Analyzer struct {
	cfg    Config
	logger *zap.Logger
}

func NewAnalyzer(cfg Config, logger *zap.Logger) *Analyzer {
	if cfg.ResumeBoostYears == 0 {
		cfg.ResumeBoostYears = 2
	}
	if cfg.DefaultTargetLevel == 0 {
		cfg.DefaultTargetLevel = 4
	}
	if cfg.TopOpportunities == 0 {
		cfg.TopOpportunities = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{cfg: cfg, logger: logger}
}

type Phase struct {
	Phase      string   `json:"phase"`
	Duration   string   `json:"duration"`
	Activities []string `json:"activities"`
}

type Opportunity struct {
	Skill        string   `json:"skill"`
	CurrentLevel float64  `json:"currentLevel"`
	TargetLevel  int      `json:"targetLevel"`
	Growth       float64  `json:"growth"`
	Priority     float64  `json:"priority"`
	Evidence     []string `json:"evidence"`
	Roadmap      []Phase  `json:"roadmap"`
}

// Report is the full analysis output. NoGaps distinguishes "analyzed, all
// skills developed" from "not yet computed" so callers can render a
// congratulatory state instead of a spinner.
type Report struct {
	NoGaps             bool          `json:"noGaps"`
	TotalOpportunities int           `json:"totalOpportunities"`
	HighImpact         int           `json:"highImpact"`
	ModerateImpact     int           `json:"moderateImpact"`
	Opportunities      []Opportunity `json:"opportunities"`
}

// Analyze recomputes the gap analysis in full. It is deterministic for a
// given input; nothing is partially patched on change.
func (a *Analyzer) Analyze(skills []progress.SkillLevel, targetRole string, resume *ResumeData, responses []ResponseSignal) *Report {
	boosts := resumeSkillBoosts(resume, a.cfg.ResumeBoostYears)
	signals := summarizeResponses(responses)

	var opportunities []Opportunity
	for _, skill := range skills {
		if skill.Level >= 4 {
			continue
		}

		boost := boosts[strings.ToLower(skill.Name)]
		adjusted := clampLevel(float64(skill.Level) + boost)
		target := a.targetLevel(skill.Name, targetRole)
		growth := float64(target) - adjusted
		if growth <= 0 {
			continue
		}

		opportunities = append(opportunities, Opportunity{
			Skill:        skill.Name,
			CurrentLevel: adjusted,
			TargetLevel:  target,
			Growth:       growth,
			Priority:     priority(skill, targetRole),
			Evidence:     buildEvidence(skill, boosts, signals, targetRole),
			Roadmap:      buildRoadmap(adjusted),
		})
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].Priority > opportunities[j].Priority
	})

	report := &Report{
		TotalOpportunities: len(opportunities),
	}

	if len(opportunities) == 0 {
		report.NoGaps = true
		report.Opportunities = []Opportunity{}
		return report
	}

	for _, o := range opportunities {
		if o.Priority > 0.7 {
			report.HighImpact++
		} else if o.Priority > 0.4 {
			report.ModerateImpact++
		}
	}

	if len(opportunities) > a.cfg.TopOpportunities {
		opportunities = opportunities[:a.cfg.TopOpportunities]
	}
	report.Opportunities = opportunities

	a.logger.Debug("Gap analysis computed",
		zap.Int("total", report.TotalOpportunities),
		zap.Int("high_impact", report.HighImpact),
	)

	return report
}

// targetLevel infers the bar for a skill: role-matched skills aim for
// mastery, foundational topics for working knowledge, everything else for
// proficiency.
func (a *Analyzer) targetLevel(skillName, targetRole string) int {
	if targetRole == "" {
		return a.cfg.DefaultTargetLevel
	}
	name := strings.ToLower(skillName)
	if strings.Contains(name, strings.ToLower(targetRole)) {
		return 5
	}
	if strings.Contains(name, "foundations") || strings.Contains(name, "basics") {
		return 3
	}
	return 4
}

// priority weighs the raw gap, with a multiplier for programming skills and
// a bonus for role-relevant ones. The substring check reads the skill name,
// not the evidence text.
func priority(skill progress.SkillLevel, targetRole string) float64 {
	rawLevel := skill.Level
	if rawLevel > 4 {
		rawLevel = 4
	}
	baseGap := float64(4 - rawLevel)

	name := strings.ToLower(skill.Name)
	multiplier := 1.0
	if strings.Contains(name, "programming") || strings.Contains(name, "coding") {
		multiplier = 1.5
	}

	roleBoost := 0.0
	if targetRole != "" && strings.Contains(name, strings.ToLower(targetRole)) {
		roleBoost = 0.5
	}

	return baseGap*multiplier + roleBoost
}

func clampLevel(level float64) float64 {
	if level < 1 {
		return 1
	}
	if level > 5 {
		return 5
	}
	return level
}
