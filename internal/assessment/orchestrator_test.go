package assessment

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillmap/engine/internal/storage/models"
)

type fakeSource struct {
	mu sync.Mutex

	nextResults []*NextQuestionResult
	nextErr     error
	nextCalls   int

	pages     [][]Question
	pageErr   error
	pageCalls int

	submitErr   error
	submitted   []*Submission
	submitCalls int

	progress     *Progress
	progressErr  error
	progressCall int
}

func (f *fakeSource) NextQuestion(ctx context.Context, token string) (*NextQuestionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextCalls++
	if f.nextErr != nil {
		return nil, f.nextErr
	}
	if len(f.nextResults) == 0 {
		return &NextQuestionResult{ShouldStop: true, Reason: "NO_MORE_QUESTIONS"}, nil
	}
	res := f.nextResults[0]
	f.nextResults = f.nextResults[1:]
	return res, nil
}

func (f *fakeSource) RecommendedQuestions(ctx context.Context, token string, count int) ([]Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageCalls++
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	if len(f.pages) == 0 {
		return nil, nil
	}
	page := f.pages[0]
	f.pages = f.pages[1:]
	return page, nil
}

func (f *fakeSource) SubmitResponse(ctx context.Context, token string, sub *Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitCalls++
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, sub)
	return nil
}

func (f *fakeSource) Progress(ctx context.Context, token string) (*Progress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.progressCall++
	if f.progressErr != nil {
		return nil, f.progressErr
	}
	if f.progress != nil {
		return f.progress, nil
	}
	return &Progress{}, nil
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []*models.ResponseRecord
	err     error
}

func (f *fakeRecorder) InsertResponse(r *models.ResponseRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, r)
	return nil
}

func textQuestion(id string) *Question {
	return &Question{ID: id, Text: "Explain " + id, Type: TypeText}
}

func TestOrchestratorStartFetchesQuestion(t *testing.T) {
	src := &fakeSource{
		nextResults: []*NextQuestionResult{{Question: textQuestion("q1")}},
	}
	o := NewOrchestrator(src, nil, "tok", "sess", nil)
	require.Equal(t, StateIdle, o.State())

	require.NoError(t, o.Start(context.Background()))

	assert.Equal(t, StateAwaitingAnswer, o.State())
	require.NotNil(t, o.CurrentQuestion())
	assert.Equal(t, "q1", o.CurrentQuestion().ID)
	assert.False(t, o.Loading())
}

func TestOrchestratorStopSignal(t *testing.T) {
	src := &fakeSource{
		nextResults: []*NextQuestionResult{{ShouldStop: true, Reason: "NO_MORE_QUESTIONS"}},
	}
	o := NewOrchestrator(src, nil, "tok", "sess", nil)

	require.NoError(t, o.Start(context.Background()))

	assert.Equal(t, StateStopped, o.State())
	assert.Nil(t, o.CurrentQuestion())
	assert.Equal(t, "NO_MORE_QUESTIONS", o.StopReason())
	assert.False(t, o.Loading())
}

func TestOrchestratorRejectsEmptyText(t *testing.T) {
	src := &fakeSource{
		nextResults: []*NextQuestionResult{{Question: textQuestion("q1")}},
	}
	o := NewOrchestrator(src, nil, "tok", "sess", nil)
	require.NoError(t, o.Start(context.Background()))

	err := o.Submit(context.Background(), Answer{Text: "   "})
	assert.ErrorIs(t, err, ErrEmptyAnswer)

	// No transition, no network call.
	assert.Equal(t, StateAwaitingAnswer, o.State())
	assert.Equal(t, 0, src.submitCalls)
}

func TestOrchestratorRejectsMissingChoice(t *testing.T) {
	src := &fakeSource{
		nextResults: []*NextQuestionResult{
			{Question: &Question{ID: "q1", Type: TypeMCQ, Options: []string{"a", "b"}}},
		},
	}
	o := NewOrchestrator(src, nil, "tok", "sess", nil)
	require.NoError(t, o.Start(context.Background()))

	err := o.Submit(context.Background(), Answer{})
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Equal(t, StateAwaitingAnswer, o.State())
}

func TestOrchestratorSubmitAdvances(t *testing.T) {
	src := &fakeSource{
		nextResults: []*NextQuestionResult{
			{Question: textQuestion("q1")},
			{Question: textQuestion("q2")},
		},
		progress: &Progress{QuestionsAnswered: 1, TotalQuestions: 10},
	}
	rec := &fakeRecorder{}
	o := NewOrchestrator(src, rec, "tok", "sess", nil)
	require.NoError(t, o.Start(context.Background()))

	require.NoError(t, o.Submit(context.Background(), Answer{Text: "an answer", Confidence: 0.7}))

	assert.Equal(t, StateAwaitingAnswer, o.State())
	assert.Equal(t, "q2", o.CurrentQuestion().ID)
	require.NotNil(t, o.Progress())
	assert.Equal(t, 1, o.Progress().QuestionsAnswered)

	// Submission carried the answer and instrumentation.
	require.Len(t, src.submitted, 1)
	sub := src.submitted[0]
	assert.Equal(t, "q1", sub.QuestionID)
	assert.Equal(t, "an answer", sub.ResponseText)
	assert.Equal(t, 0.7, sub.ConfidenceLevel)
	assert.NotNil(t, sub.TypingSpeedWpm)

	// Both refresh requests were issued.
	assert.Equal(t, 2, src.nextCalls)
	assert.Equal(t, 2, src.progressCall)

	// Local history recorded.
	require.Len(t, rec.records, 1)
	assert.Equal(t, "sess", rec.records[0].SessionID)
}

func TestOrchestratorSubmitFailureKeepsAnswerState(t *testing.T) {
	src := &fakeSource{
		nextResults: []*NextQuestionResult{{Question: textQuestion("q1")}},
	}
	o := NewOrchestrator(src, nil, "tok", "sess", nil)
	require.NoError(t, o.Start(context.Background()))

	src.submitErr = errors.New("network down")
	err := o.Submit(context.Background(), Answer{Text: "kept"})
	require.Error(t, err)

	// Input is preserved for retry; the state machine did not advance.
	assert.Equal(t, StateAwaitingAnswer, o.State())
	assert.Equal(t, "q1", o.CurrentQuestion().ID)

	src.submitErr = nil
	require.NoError(t, o.Submit(context.Background(), Answer{Text: "kept"}))
	assert.Equal(t, 2, src.submitCalls)
}

func TestOrchestratorRefreshFailureMovesToError(t *testing.T) {
	src := &fakeSource{
		nextResults: []*NextQuestionResult{{Question: textQuestion("q1")}},
	}
	o := NewOrchestrator(src, nil, "tok", "sess", nil)
	require.NoError(t, o.Start(context.Background()))

	src.progressErr = errors.New("progress unavailable")
	err := o.Submit(context.Background(), Answer{Text: "answer"})
	require.Error(t, err)
	assert.Equal(t, StateErrored, o.State())

	// Error state is retryable through Start.
	src.progressErr = nil
	src.nextResults = []*NextQuestionResult{{Question: textQuestion("q2")}}
	require.NoError(t, o.Start(context.Background()))
	assert.Equal(t, StateAwaitingAnswer, o.State())
}

func TestOrchestratorRejectsReentrantSubmit(t *testing.T) {
	o := NewOrchestrator(&fakeSource{}, nil, "tok", "sess", nil)
	o.state = StateSubmitting

	err := o.Submit(context.Background(), Answer{Text: "x"})
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	o.state = StateStopped
	err = o.Submit(context.Background(), Answer{Text: "x"})
	assert.ErrorIs(t, err, ErrNotAwaitingAnswer)
}

func TestOrchestratorCannotStartTwice(t *testing.T) {
	src := &fakeSource{
		nextResults: []*NextQuestionResult{{Question: textQuestion("q1")}},
	}
	o := NewOrchestrator(src, nil, "tok", "sess", nil)
	require.NoError(t, o.Start(context.Background()))

	assert.Error(t, o.Start(context.Background()))
}

func TestSnapshotLoadingDerivedFromState(t *testing.T) {
	o := NewOrchestrator(&fakeSource{}, nil, "tok", "sess", nil)

	for state, loading := range map[State]bool{
		StateIdle:           false,
		StateFetching:       true,
		StateAwaitingAnswer: false,
		StateSubmitting:     true,
		StateStopped:        false,
		StateErrored:        false,
	} {
		o.state = state
		assert.Equal(t, loading, o.Snapshot().Loading, "state %s", state)
	}
}
