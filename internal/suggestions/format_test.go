package suggestions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitNumberedList(t *testing.T) {
	content := "Here are your suggestions:\n1. Practice SQL daily\n2. Build a REST API\n3) Read code reviews"
	got := Split(content)

	require.Len(t, got, 3)
	assert.Equal(t, "Practice SQL daily", got[0])
	assert.Equal(t, "Build a REST API", got[1])
	assert.Equal(t, "Read code reviews", got[2])
}

func TestSplitBulletList(t *testing.T) {
	content := "- Learn Go concurrency\n- Write more tests\n* Pair program weekly"
	got := Split(content)

	require.Len(t, got, 3)
	assert.Equal(t, "Learn Go concurrency", got[0])
	assert.Equal(t, "Pair program weekly", got[2])
}

func TestSplitNumberedBeatsBullets(t *testing.T) {
	content := "1. First item\n- nested note\n2. Second item\n- another note"
	got := Split(content)

	require.Len(t, got, 2)
	assert.Contains(t, got[0], "First item")
	assert.Contains(t, got[1], "Second item")
}

func TestSplitSentencesFallback(t *testing.T) {
	content := "Focus on fundamentals before frameworks. Spend time reading production code. Ask for feedback early."
	got := Split(content)

	require.Len(t, got, 3)
	assert.Equal(t, "Focus on fundamentals before frameworks.", got[0])
}

func TestSplitSingleFragment(t *testing.T) {
	got := Split("keep practicing")
	assert.Equal(t, []string{"keep practicing"}, got)
}

func TestSplitEmpty(t *testing.T) {
	assert.Nil(t, Split(""))
	assert.Nil(t, Split("   \n  "))
}
