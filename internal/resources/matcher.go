package resources

import (
	"sort"
	"strings"

	"go.uber.org/zap"
)

const (
	relevanceThreshold = 0.3
	defaultMaxResults  = 4
)

// MatchResult pairs a catalog entry with how it was selected.
type MatchResult struct {
	Resources []Resource `json:"resources"`
	// Fallback reports that nothing cleared the relevance threshold and the
	// results are a best-effort ranking instead.
	Fallback bool `json:"fallback"`
	// Default reports that no gaps were supplied at all.
	Default bool `json:"default"`
}

type Matcher struct {
	catalog []Resource
	limit   int
	logger  *zap.Logger
}

// NewMatcher builds a matcher over the built-in catalog. limit caps how many
// resources a match returns; values below one fall back to the default.
func NewMatcher(limit int, logger *zap.Logger) *Matcher {
	if limit < 1 {
		limit = defaultMaxResults
	}
	return &Matcher{catalog: catalog, limit: limit, logger: logger}
}

// Match selects up to limit resources for the given gap skill names. With no
// gaps it returns the head of the catalog; when no resource scores above the
// threshold it falls back to ranking by average relevance so the caller
// always has something to show.
func (m *Matcher) Match(gapSkills []string) MatchResult {
	if len(gapSkills) == 0 {
		return MatchResult{Resources: m.head(), Default: true}
	}

	type scored struct {
		resource Resource
		best     float64
		average  float64
	}

	// Each gap contributes its best tag score; the average is over gaps, so
	// a resource with many tags is not diluted by the ones that miss.
	candidates := make([]scored, 0, len(m.catalog))
	for _, res := range m.catalog {
		best, sum := 0.0, 0.0
		for _, skill := range gapSkills {
			gapBest := 0.0
			for _, tag := range res.Skills {
				if score := relevance(tag, skill); score > gapBest {
					gapBest = score
				}
			}
			if gapBest > best {
				best = gapBest
			}
			sum += gapBest
		}
		candidates = append(candidates, scored{resource: res, best: best, average: sum / float64(len(gapSkills))})
	}

	matched := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if c.best > relevanceThreshold {
			matched = append(matched, c)
		}
	}

	if len(matched) > 0 {
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].best > matched[j].best })
		out := make([]Resource, 0, m.limit)
		for _, c := range matched {
			out = append(out, c.resource)
			if len(out) == m.limit {
				break
			}
		}
		return MatchResult{Resources: out}
	}

	m.logger.Debug("no resources cleared relevance threshold, ranking by average",
		zap.Strings("gap_skills", gapSkills))
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].average > candidates[j].average })
	out := make([]Resource, 0, m.limit)
	for _, c := range candidates {
		out = append(out, c.resource)
		if len(out) == m.limit {
			break
		}
	}
	return MatchResult{Resources: out, Fallback: true}
}

func (m *Matcher) head() []Resource {
	if len(m.catalog) <= m.limit {
		return m.catalog
	}
	return m.catalog[:m.limit]
}

// relevance scores how well a resource tag matches a gap skill name.
// Substring containment is a full match, a synonym-table hit is nearly
// full, and otherwise token overlap gives partial credit.
func relevance(tag, skill string) float64 {
	tag = strings.ToLower(strings.TrimSpace(tag))
	skill = strings.ToLower(strings.TrimSpace(skill))
	if tag == "" || skill == "" {
		return 0
	}
	if strings.Contains(tag, skill) || strings.Contains(skill, tag) {
		return 1.0
	}
	if synonymous(tag, skill) || synonymous(skill, tag) {
		return 0.9
	}

	tagTokens := strings.Fields(tag)
	skillTokens := strings.Fields(skill)
	common := 0
	for _, t := range tagTokens {
		for _, s := range skillTokens {
			if t == s {
				common++
				break
			}
		}
	}
	longest := len(tagTokens)
	if len(skillTokens) > longest {
		longest = len(skillTokens)
	}
	if longest == 0 {
		return 0
	}
	return float64(common) / float64(longest)
}

func synonymous(canonical, term string) bool {
	alts, ok := skillSynonyms[canonical]
	if !ok {
		return false
	}
	for _, alt := range alts {
		if alt == term || strings.Contains(term, alt) || strings.Contains(alt, term) {
			return true
		}
	}
	return false
}
