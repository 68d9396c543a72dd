package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMatcher() *Matcher {
	return NewMatcher(4, zap.NewNop())
}

func TestMatchSubstring(t *testing.T) {
	result := newTestMatcher().Match([]string{"javascript"})

	require.NotEmpty(t, result.Resources)
	assert.False(t, result.Fallback)
	assert.False(t, result.Default)
	assert.LessOrEqual(t, len(result.Resources), 4)

	// Every result must carry a javascript-related tag.
	for _, res := range result.Resources {
		found := false
		for _, tag := range res.Skills {
			if relevance(tag, "javascript") > relevanceThreshold {
				found = true
				break
			}
		}
		assert.True(t, found, "resource %q matched without a relevant tag", res.Title)
	}
}

func TestMatchSynonym(t *testing.T) {
	// "predictive modeling" only matches "machine learning" through the
	// synonym table; no catalog tag shares a substring with it.
	result := newTestMatcher().Match([]string{"predictive modeling"})

	require.NotEmpty(t, result.Resources)
	assert.False(t, result.Fallback)
	assert.Equal(t, "Machine Learning by Andrew Ng", result.Resources[0].Title)
}

func TestMatchNoGapsReturnsDefaultSlice(t *testing.T) {
	result := newTestMatcher().Match(nil)

	assert.True(t, result.Default)
	assert.Len(t, result.Resources, 4)
	assert.Equal(t, catalog[0].ID, result.Resources[0].ID)
}

func TestMatchFallbackWhenNothingClears(t *testing.T) {
	result := newTestMatcher().Match([]string{"underwater basket weaving"})

	assert.True(t, result.Fallback)
	assert.Len(t, result.Resources, 4)
}

func TestMatchFallbackAveragesPerGapBest(t *testing.T) {
	// One gap where nothing clears the threshold: The Odin Project and AWS
	// Cloud Practitioner both peak at 0.25 (token overlap on "web" and
	// "cloud"), so the stable sort must keep catalog order. Averaging over
	// every tag would dilute Odin's score across its four tags and flip
	// the pair.
	result := newTestMatcher().Match([]string{"web cloud x y"})

	require.True(t, result.Fallback)
	require.Len(t, result.Resources, 4)
	assert.Equal(t, "The Odin Project", result.Resources[0].Title)
	assert.Equal(t, "AWS Cloud Practitioner Essentials", result.Resources[1].Title)
}

func TestMatchCapsAtFour(t *testing.T) {
	result := newTestMatcher().Match([]string{"javascript", "python", "sql", "git", "docker", "react"})
	assert.Len(t, result.Resources, 4)
}

func TestMatchHonorsConfiguredLimit(t *testing.T) {
	m := NewMatcher(2, zap.NewNop())

	assert.Len(t, m.Match([]string{"javascript", "python", "sql"}).Resources, 2)
	assert.Len(t, m.Match(nil).Resources, 2)
	assert.Len(t, m.Match([]string{"underwater basket weaving"}).Resources, 2)
}

func TestRelevanceScoring(t *testing.T) {
	assert.Equal(t, 1.0, relevance("javascript", "javascript"))
	assert.Equal(t, 1.0, relevance("data analysis", "data"))
	assert.Equal(t, 0.9, relevance("machine learning", "ml"))
	assert.Equal(t, 0.5, relevance("cloud computing", "cloud security"))
	assert.Equal(t, 0.0, relevance("git", "pottery"))
	assert.Equal(t, 0.0, relevance("", "anything"))
}
