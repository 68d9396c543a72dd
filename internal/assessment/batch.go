package assessment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillmap/engine/internal/storage/models"
)

// StopReasonNoMoreQuestions is the synthetic stop reason for batched mode,
// where "no more questions" is signaled by an empty page rather than an
// explicit stop record.
const StopReasonNoMoreQuestions = "NO_MORE_QUESTIONS"

// BatchAnswer pairs an answer with the page question it belongs to.
type BatchAnswer struct {
	QuestionID string `json:"questionId"`
	Answer
}

// BatchOrchestrator drives the paged variant of the loop: a fixed-size page
// of questions is fetched at once and answers are submitted individually,
// with a single progress/page refresh at the end.
type BatchOrchestrator struct {
	source   QuestionSource
	recorder Recorder
	logger   *zap.Logger

	token     string
	sessionID string
	pageSize  int

	mu         sync.Mutex
	state      State
	questions  []Question
	progress   *Progress
	stopReason string
	lastErr    error
}

func NewBatchOrchestrator(source QuestionSource, recorder Recorder, token, sessionID string, pageSize int, logger *zap.Logger) *BatchOrchestrator {
	if pageSize <= 0 {
		pageSize = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchOrchestrator{
		source:    source,
		recorder:  recorder,
		logger:    logger,
		token:     token,
		sessionID: sessionID,
		pageSize:  pageSize,
		state:     StateIdle,
	}
}

type BatchSnapshot struct {
	State      string     `json:"state"`
	Loading    bool       `json:"loading"`
	Questions  []Question `json:"questions"`
	Progress   *Progress  `json:"progress,omitempty"`
	StopReason string     `json:"stopReason,omitempty"`
}

func (b *BatchOrchestrator) Snapshot() BatchSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	return BatchSnapshot{
		State:      b.state.String(),
		Loading:    b.state == StateFetching || b.state == StateSubmitting,
		Questions:  b.questions,
		Progress:   b.progress,
		StopReason: b.stopReason,
	}
}

func (b *BatchOrchestrator) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *BatchOrchestrator) Questions() []Question {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.questions
}

func (b *BatchOrchestrator) StopReason() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stopReason
}

func (b *BatchOrchestrator) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.state != StateIdle && b.state != StateErrored {
		b.mu.Unlock()
		return fmt.Errorf("cannot start from state %s", b.state)
	}
	b.state = StateFetching
	b.mu.Unlock()

	questions, prog, err := b.fetchPage(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.state = StateErrored
		b.lastErr = err
		return fmt.Errorf("failed to load question batch: %w", err)
	}

	b.progress = prog
	b.applyPageLocked(questions)
	return nil
}

// SubmitAll submits each answer in turn. Individual failures do not roll
// back or halt the batch; the page/progress refresh happens once at the end
// regardless of partial failure.
func (b *BatchOrchestrator) SubmitAll(ctx context.Context, answers []BatchAnswer) error {
	b.mu.Lock()
	switch b.state {
	case StateFetching, StateSubmitting:
		b.mu.Unlock()
		return ErrSubmissionInFlight
	case StateAwaitingAnswer:
	default:
		b.mu.Unlock()
		return ErrNotAwaitingAnswer
	}
	page := b.questions
	b.state = StateSubmitting
	b.mu.Unlock()

	var submitErrs []error
	for _, ans := range answers {
		q := findQuestion(page, ans.QuestionID)
		if q == nil {
			submitErrs = append(submitErrs, fmt.Errorf("question %s is not in the current batch", ans.QuestionID))
			continue
		}
		if err := validateAnswer(q.Type, ans.Answer); err != nil {
			submitErrs = append(submitErrs, fmt.Errorf("question %s: %w", ans.QuestionID, err))
			continue
		}

		sub := buildSubmission(q, ans.Answer, batchMetrics(q, ans.Answer), b.sessionID)
		if err := b.source.SubmitResponse(ctx, b.token, sub); err != nil {
			submitErrs = append(submitErrs, fmt.Errorf("question %s: %w", ans.QuestionID, err))
			continue
		}
		b.record(q, sub)
	}

	questions, prog, refreshErr := b.fetchPage(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()

	if refreshErr != nil {
		b.state = StateErrored
		b.lastErr = refreshErr
		submitErrs = append(submitErrs, fmt.Errorf("failed to refresh after batch submit: %w", refreshErr))
		return errors.Join(submitErrs...)
	}

	b.progress = prog
	b.applyPageLocked(questions)
	return errors.Join(submitErrs...)
}

func (b *BatchOrchestrator) fetchPage(ctx context.Context) ([]Question, *Progress, error) {
	var (
		wg      sync.WaitGroup
		page    []Question
		pageErr error
		prog    *Progress
		progErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		page, pageErr = b.source.RecommendedQuestions(ctx, b.token, b.pageSize)
	}()
	go func() {
		defer wg.Done()
		prog, progErr = b.source.Progress(ctx, b.token)
	}()
	wg.Wait()

	if pageErr != nil {
		return nil, nil, pageErr
	}
	if progErr != nil {
		return nil, nil, progErr
	}
	return page, prog, nil
}

func (b *BatchOrchestrator) applyPageLocked(questions []Question) {
	if len(questions) == 0 {
		b.state = StateStopped
		b.questions = nil
		b.stopReason = StopReasonNoMoreQuestions
		b.logger.Info("Batch session stopped",
			zap.String("token", b.token),
			zap.String("reason", b.stopReason),
		)
		return
	}

	b.state = StateAwaitingAnswer
	b.questions = questions
	b.stopReason = ""
}

func (b *BatchOrchestrator) record(q *Question, sub *Submission) {
	if b.recorder == nil {
		return
	}

	rec := &models.ResponseRecord{
		ID:               uuid.New().String(),
		SessionID:        b.sessionID,
		QuestionID:       q.ID,
		QuestionType:     string(q.Type),
		ResponseText:     sub.ResponseText,
		ThinkTimeSeconds: sub.ThinkTimeSeconds,
		TotalTimeSeconds: sub.TotalTimeSeconds,
		CharCount:        sub.CharCount,
		WordCount:        sub.WordCount,
		EditCount:        sub.EditCount,
		PasteDetected:    sub.PasteDetected,
		ConfidenceLevel:  sub.ConfidenceLevel,
		CreatedAt:        time.Now(),
	}
	if sub.ResponseChoice != nil {
		rec.ResponseChoice = *sub.ResponseChoice
	}
	rec.ResponseScale = sub.ResponseScale

	if err := b.recorder.InsertResponse(rec); err != nil {
		b.logger.Warn("Failed to record batch response locally", zap.Error(err))
	}
}

// batchMetrics derives what instrumentation a paged submission can carry.
// Batched answering has no per-question tracker, so timing and edit signals
// are absent; text statistics still come from the answer itself.
func batchMetrics(q *Question, ans Answer) Metrics {
	m := Metrics{
		ConfidenceLevel: ans.Confidence,
	}
	if q.Type.IsFreeText() {
		m.CharCount = len(ans.Text)
		m.WordCount = countWords(ans.Text)
	}
	return m
}

func findQuestion(page []Question, id string) *Question {
	for i := range page {
		if page[i].ID == id {
			return &page[i]
		}
	}
	return nil
}
