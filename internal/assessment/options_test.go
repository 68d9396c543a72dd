package assessment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionsArray(t *testing.T) {
	opts := ParseOptions(json.RawMessage(`["red", "green", "blue"]`))
	assert.Equal(t, []string{"red", "green", "blue"}, opts)
}

func TestParseOptionsObjectEntries(t *testing.T) {
	opts := ParseOptions(json.RawMessage(`[{"value":"a"},{"text":"b"},{"label":"c"}]`))
	assert.Equal(t, []string{"a", "b", "c"}, opts)
}

func TestParseOptionsJSONString(t *testing.T) {
	opts := ParseOptions(json.RawMessage(`"[\"yes\", \"no\"]"`))
	assert.Equal(t, []string{"yes", "no"}, opts)
}

func TestParseOptionsCommaString(t *testing.T) {
	opts := ParseOptions(json.RawMessage(`"alpha, beta ,gamma"`))
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, opts)
}

func TestParseOptionsDegradesToEmpty(t *testing.T) {
	assert.Nil(t, ParseOptions(nil))
	assert.Nil(t, ParseOptions(json.RawMessage(`null`)))
	assert.Nil(t, ParseOptions(json.RawMessage(`42`)))
	assert.Nil(t, ParseOptions(json.RawMessage(`"   "`)))
	assert.Nil(t, ParseOptions(json.RawMessage(`[{"weird": true}]`)))
}

func TestParseQuestionTypeKeyVariants(t *testing.T) {
	q, err := ParseQuestion([]byte(`{"id":"q1","questionText":"What is Go?","questionType":"TEXT"}`))
	require.NoError(t, err)
	assert.Equal(t, TypeText, q.Type)
	assert.Equal(t, "What is Go?", q.Text)

	q, err = ParseQuestion([]byte(`{"id":"q2","questionText":"Pick one","type":"mcq","options":["a","b"]}`))
	require.NoError(t, err)
	assert.Equal(t, TypeMCQ, q.Type)
	assert.Equal(t, []string{"a", "b"}, q.Options)
}

func TestParseQuestionDefaultsToText(t *testing.T) {
	q, err := ParseQuestion([]byte(`{"id":"q3","questionText":"Explain"}`))
	require.NoError(t, err)
	assert.Equal(t, TypeText, q.Type)
}

func TestParseQuestionChoicesFallback(t *testing.T) {
	q, err := ParseQuestion([]byte(`{"id":"q4","questionType":"choice","choices":"x,y,z"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "z"}, q.Options)
}
