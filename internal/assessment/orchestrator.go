package assessment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillmap/engine/internal/metrics"
	"github.com/skillmap/engine/internal/storage/models"
)

var (
	ErrNotAwaitingAnswer  = errors.New("no question is awaiting an answer")
	ErrSubmissionInFlight = errors.New("a submission or fetch is already in flight")
	ErrEmptyAnswer        = errors.New("answer text is empty")
	ErrNoSelection        = errors.New("no choice selected")
)

type State int

const (
	StateIdle State = iota
	StateFetching
	StateAwaitingAnswer
	StateSubmitting
	StateStopped
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching_question"
	case StateAwaitingAnswer:
		return "awaiting_answer"
	case StateSubmitting:
		return "submitting"
	case StateStopped:
		return "stopped"
	case StateErrored:
		return "error"
	default:
		return "unknown"
	}
}

// QuestionSource is the upstream assessment API at the boundary the engine
// needs: question selection and stopping criteria live behind it.
type QuestionSource interface {
	NextQuestion(ctx context.Context, token string) (*NextQuestionResult, error)
	RecommendedQuestions(ctx context.Context, token string, count int) ([]Question, error)
	SubmitResponse(ctx context.Context, token string, sub *Submission) error
	Progress(ctx context.Context, token string) (*Progress, error)
}

// Recorder persists submitted responses locally so the gap analyzer can read
// behavioral history without a round trip. Recording is best-effort.
type Recorder interface {
	InsertResponse(r *models.ResponseRecord) error
}

// Orchestrator drives the question/answer loop for one session. All state
// transitions go through it; "stopped but still loading" and "no question
// but not stopped" are unrepresentable.
type Orchestrator struct {
	source   QuestionSource
	recorder Recorder
	logger   *zap.Logger

	token     string
	sessionID string

	mu         sync.Mutex
	state      State
	generation uint64
	current    *Question
	tracker    *Tracker
	progress   *Progress
	stopReason string
	lastErr    error
}

func NewOrchestrator(source QuestionSource, recorder Recorder, token, sessionID string, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		source:    source,
		recorder:  recorder,
		logger:    logger,
		token:     token,
		sessionID: sessionID,
		state:     StateIdle,
	}
}

// Snapshot is the UI-facing view of the session.
type Snapshot struct {
	State      string    `json:"state"`
	Loading    bool      `json:"loading"`
	Question   *Question `json:"question,omitempty"`
	Progress   *Progress `json:"progress,omitempty"`
	StopReason string    `json:"stopReason,omitempty"`
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	return Snapshot{
		State:      o.state.String(),
		Loading:    o.state == StateFetching || o.state == StateSubmitting,
		Question:   o.current,
		Progress:   o.progress,
		StopReason: o.stopReason,
	}
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) CurrentQuestion() *Question {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

func (o *Orchestrator) Progress() *Progress {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.progress
}

func (o *Orchestrator) StopReason() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stopReason
}

func (o *Orchestrator) Loading() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state == StateFetching || o.state == StateSubmitting
}

// Start moves an idle session into the fetch loop. It is also the retry
// entry point from the error state.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.state != StateIdle && o.state != StateErrored {
		o.mu.Unlock()
		return fmt.Errorf("cannot start from state %s", o.state)
	}
	o.state = StateFetching
	o.generation++
	gen := o.generation
	o.mu.Unlock()

	next, prog, err := o.refresh(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.generation != gen {
		// Superseded while in flight; discard the result.
		return nil
	}

	if err != nil {
		o.state = StateErrored
		o.lastErr = err
		return fmt.Errorf("failed to start session: %w", err)
	}

	o.progress = prog
	o.applyFetchLocked(next)
	return nil
}

// TrackText, TrackEdit, TrackPaste and SetConfidence feed the
// instrumentation tracker for the question currently awaiting an answer.
// Events outside that window are dropped.
func (o *Orchestrator) TrackText(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateAwaitingAnswer && o.tracker != nil {
		o.tracker.RecordText(text)
	}
}

func (o *Orchestrator) TrackEdit() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateAwaitingAnswer && o.tracker != nil {
		o.tracker.RecordEdit()
	}
}

func (o *Orchestrator) TrackPaste() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateAwaitingAnswer && o.tracker != nil {
		o.tracker.RecordPaste()
	}
}

// Submit validates and sends the answer for the current question, then
// refreshes the next question and progress concurrently. Invalid answers
// are rejected without a transition or a network call. A failed submission
// leaves the session awaiting the same answer so the caller can retry; a
// failed refresh after a successful submission moves to the error state.
func (o *Orchestrator) Submit(ctx context.Context, ans Answer) error {
	o.mu.Lock()

	switch o.state {
	case StateFetching, StateSubmitting:
		o.mu.Unlock()
		return ErrSubmissionInFlight
	case StateAwaitingAnswer:
	default:
		o.mu.Unlock()
		return ErrNotAwaitingAnswer
	}

	q := o.current
	if err := validateAnswer(q.Type, ans); err != nil {
		o.mu.Unlock()
		return err
	}

	if q.Type.IsFreeText() {
		o.tracker.RecordText(ans.Text)
	}
	o.tracker.SetConfidence(ans.Confidence)
	sub := buildSubmission(q, ans, o.tracker.Metrics(), o.sessionID)

	o.state = StateSubmitting
	o.generation++
	gen := o.generation
	o.mu.Unlock()

	if err := o.source.SubmitResponse(ctx, o.token, sub); err != nil {
		o.mu.Lock()
		if o.generation == gen {
			o.state = StateAwaitingAnswer
		}
		o.mu.Unlock()
		return fmt.Errorf("failed to submit response: %w", err)
	}

	o.record(q, sub)

	next, prog, err := o.refresh(ctx)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.generation != gen {
		return nil
	}

	if err != nil {
		o.state = StateErrored
		o.lastErr = err
		return fmt.Errorf("failed to refresh after submit: %w", err)
	}

	o.progress = prog
	o.applyFetchLocked(next)
	return nil
}

// refresh issues the next-question and progress requests together, not
// sequentially. A failure in either fails the whole step.
func (o *Orchestrator) refresh(ctx context.Context) (*NextQuestionResult, *Progress, error) {
	var (
		wg      sync.WaitGroup
		next    *NextQuestionResult
		nextErr error
		prog    *Progress
		progErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		next, nextErr = o.source.NextQuestion(ctx, o.token)
	}()
	go func() {
		defer wg.Done()
		prog, progErr = o.source.Progress(ctx, o.token)
	}()
	wg.Wait()

	if nextErr != nil {
		return nil, nil, nextErr
	}
	if progErr != nil {
		return nil, nil, progErr
	}
	return next, prog, nil
}

func (o *Orchestrator) applyFetchLocked(res *NextQuestionResult) {
	if res.ShouldStop {
		o.state = StateStopped
		o.current = nil
		o.tracker = nil
		o.stopReason = res.Reason
		o.logger.Info("Session stopped",
			zap.String("token", o.token),
			zap.String("reason", res.Reason),
		)
		return
	}

	o.state = StateAwaitingAnswer
	o.current = res.Question
	o.stopReason = ""
	o.tracker = NewTracker(res.Question.Type)
	o.generation++
}

func (o *Orchestrator) record(q *Question, sub *Submission) {
	if sub.TypingSpeedWpm != nil {
		metrics.TypingSpeed.Observe(*sub.TypingSpeedWpm)
	}

	if o.recorder == nil {
		return
	}

	rec := &models.ResponseRecord{
		ID:               uuid.New().String(),
		SessionID:        o.sessionID,
		QuestionID:       q.ID,
		QuestionType:     string(q.Type),
		ResponseText:     sub.ResponseText,
		ThinkTimeSeconds: sub.ThinkTimeSeconds,
		TotalTimeSeconds: sub.TotalTimeSeconds,
		CharCount:        sub.CharCount,
		WordCount:        sub.WordCount,
		TypingSpeedWpm:   sub.TypingSpeedWpm,
		EditCount:        sub.EditCount,
		PasteDetected:    sub.PasteDetected,
		ConfidenceLevel:  sub.ConfidenceLevel,
		CreatedAt:        time.Now(),
	}
	if sub.ResponseChoice != nil {
		rec.ResponseChoice = *sub.ResponseChoice
	}
	rec.ResponseScale = sub.ResponseScale

	if err := o.recorder.InsertResponse(rec); err != nil {
		o.logger.Warn("Failed to record response locally", zap.Error(err))
	}
}

func validateAnswer(qt QuestionType, ans Answer) error {
	if qt.IsFreeText() && strings.TrimSpace(ans.Text) == "" {
		return ErrEmptyAnswer
	}
	if qt.IsChoice() && ans.Choice == nil {
		return ErrNoSelection
	}
	return nil
}

func buildSubmission(q *Question, ans Answer, m Metrics, sessionID string) *Submission {
	sub := &Submission{
		QuestionID: q.ID,
		SessionID:  sessionID,
		Metrics:    m,
	}

	switch {
	case q.Type.IsFreeText():
		sub.ResponseText = ans.Text
	case q.Type.IsChoice():
		sub.ResponseChoice = ans.Choice
	case q.Type == TypeScale:
		sub.ResponseScale = ans.Scale
	}

	return sub
}
