package assessment

import (
	"math"
	"strings"
	"time"
)

// Tracker accumulates behavioral signals for a single answer between
// question arrival and submission. It performs no I/O; Metrics is a pure
// read of the accumulated state.
type Tracker struct {
	questionType QuestionType
	start        time.Time
	text         string
	editCount    int
	paste        bool
	confidence   float64
	now          func() time.Time
}

func NewTracker(qt QuestionType) *Tracker {
	t := &Tracker{
		questionType: qt,
		confidence:   0.5,
		now:          time.Now,
	}
	t.start = t.now()
	return t
}

// RecordText replaces the tracked text. A shrinking value counts as an edit
// (backspace/deletion), matching how the dashboard counted edits.
func (t *Tracker) RecordText(text string) {
	if len(text) < len(t.text) {
		t.editCount++
	}
	t.text = text
}

func (t *Tracker) RecordEdit() {
	t.editCount++
}

func (t *Tracker) RecordPaste() {
	t.paste = true
}

// SetConfidence stores the self-reported confidence, clamped into [0,1].
func (t *Tracker) SetConfidence(c float64) {
	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	t.confidence = c
}

func (t *Tracker) Text() string {
	return t.text
}

// Metrics computes the instrumentation attached to a submission. Typing
// speed exists only for free-text question types; it is omitted, not zero,
// for choice and scale answers. Think time equals total time: there is a
// single answer phase.
func (t *Tracker) Metrics() Metrics {
	elapsed := int(t.now().Sub(t.start).Seconds())

	m := Metrics{
		ThinkTimeSeconds: elapsed,
		TotalTimeSeconds: elapsed,
		CharCount:        len(t.text),
		WordCount:        countWords(t.text),
		EditCount:        t.editCount,
		PasteDetected:    t.paste,
		ConfidenceLevel:  t.confidence,
	}

	if t.questionType.IsFreeText() {
		minutes := math.Max(0.001, float64(elapsed)/60)
		wpm := math.Round(float64(m.WordCount)/minutes*100) / 100
		m.TypingSpeedWpm = &wpm
	}

	return m
}

// countWords counts whitespace-delimited tokens; blank or whitespace-only
// text counts zero.
func countWords(text string) int {
	return len(strings.Fields(text))
}
