package assessment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(ids ...string) []Question {
	qs := make([]Question, 0, len(ids))
	for _, id := range ids {
		qs = append(qs, Question{ID: id, Text: "Explain " + id, Type: TypeText})
	}
	return qs
}

func TestBatchStartLoadsPage(t *testing.T) {
	src := &fakeSource{pages: [][]Question{page("q1", "q2", "q3")}}
	b := NewBatchOrchestrator(src, nil, "tok", "sess", 5, nil)

	require.NoError(t, b.Start(context.Background()))

	assert.Equal(t, StateAwaitingAnswer, b.State())
	assert.Len(t, b.Questions(), 3)
}

func TestBatchEmptyPageStops(t *testing.T) {
	src := &fakeSource{}
	b := NewBatchOrchestrator(src, nil, "tok", "sess", 5, nil)

	require.NoError(t, b.Start(context.Background()))

	assert.Equal(t, StateStopped, b.State())
	assert.Empty(t, b.Questions())
	assert.Equal(t, StopReasonNoMoreQuestions, b.StopReason())
}

func TestBatchSubmitAllAdvances(t *testing.T) {
	src := &fakeSource{pages: [][]Question{page("q1", "q2"), page("q3")}}
	rec := &fakeRecorder{}
	b := NewBatchOrchestrator(src, rec, "tok", "sess", 5, nil)
	require.NoError(t, b.Start(context.Background()))

	err := b.SubmitAll(context.Background(), []BatchAnswer{
		{QuestionID: "q1", Answer: Answer{Text: "first answer", Confidence: 0.6}},
		{QuestionID: "q2", Answer: Answer{Text: "second answer", Confidence: 0.9}},
	})
	require.NoError(t, err)

	assert.Equal(t, StateAwaitingAnswer, b.State())
	require.Len(t, b.Questions(), 1)
	assert.Equal(t, "q3", b.Questions()[0].ID)
	assert.Len(t, src.submitted, 2)
	assert.Len(t, rec.records, 2)
}

func TestBatchPartialFailureStillRefreshes(t *testing.T) {
	src := &fakeSource{pages: [][]Question{page("q1", "q2"), page("q3")}}
	b := NewBatchOrchestrator(src, nil, "tok", "sess", 5, nil)
	require.NoError(t, b.Start(context.Background()))

	// One invalid answer and one unknown question id; the valid answer
	// still submits and the refresh still happens.
	err := b.SubmitAll(context.Background(), []BatchAnswer{
		{QuestionID: "q1", Answer: Answer{Text: "  "}},
		{QuestionID: "missing", Answer: Answer{Text: "x"}},
		{QuestionID: "q2", Answer: Answer{Text: "valid"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyAnswer)

	assert.Len(t, src.submitted, 1)
	assert.Equal(t, StateAwaitingAnswer, b.State())
	assert.Equal(t, 2, src.pageCalls)
}

func TestBatchRefreshFailureMovesToError(t *testing.T) {
	src := &fakeSource{pages: [][]Question{page("q1")}}
	b := NewBatchOrchestrator(src, nil, "tok", "sess", 5, nil)
	require.NoError(t, b.Start(context.Background()))

	src.pageErr = errors.New("page unavailable")
	err := b.SubmitAll(context.Background(), []BatchAnswer{
		{QuestionID: "q1", Answer: Answer{Text: "answer"}},
	})
	require.Error(t, err)
	assert.Equal(t, StateErrored, b.State())
}

func TestBatchRejectsReentrantSubmit(t *testing.T) {
	b := NewBatchOrchestrator(&fakeSource{}, nil, "tok", "sess", 5, nil)
	b.state = StateSubmitting

	err := b.SubmitAll(context.Background(), nil)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
}

func TestBatchMetricsCarryTextStatsOnly(t *testing.T) {
	q := &Question{ID: "q1", Type: TypeText}
	m := batchMetrics(q, Answer{Text: "three word answer", Confidence: 0.4})

	assert.Equal(t, 3, m.WordCount)
	assert.Equal(t, len("three word answer"), m.CharCount)
	assert.Equal(t, 0.4, m.ConfidenceLevel)
	assert.Zero(t, m.ThinkTimeSeconds)
	assert.Nil(t, m.TypingSpeedWpm)

	choice := "a"
	m = batchMetrics(&Question{ID: "q2", Type: TypeMCQ}, Answer{Choice: &choice, Confidence: 0.8})
	assert.Zero(t, m.CharCount)
	assert.Zero(t, m.WordCount)
}
