package assessment

import "encoding/json"

type QuestionType string

const (
	TypeText   QuestionType = "text"
	TypeTyping QuestionType = "typing"
	TypeMCQ    QuestionType = "mcq"
	TypeChoice QuestionType = "choice"
	TypeScale  QuestionType = "scale"
)

// IsFreeText reports whether answers arrive as typed prose. Typing-speed
// metrics only exist for these types.
func (t QuestionType) IsFreeText() bool {
	return t == TypeText || t == TypeTyping
}

func (t QuestionType) IsChoice() bool {
	return t == TypeMCQ || t == TypeChoice
}

// Question is immutable once received; the orchestrator replaces it
// wholesale on every cycle.
type Question struct {
	ID              string       `json:"id"`
	Text            string       `json:"questionText"`
	Type            QuestionType `json:"questionType"`
	Options         []string     `json:"options,omitempty"`
	Topic           string       `json:"topic,omitempty"`
	Difficulty      string       `json:"difficulty,omitempty"`
	SuggestedLength int          `json:"suggestedLength,omitempty"`
	CorrectAnswer   string       `json:"correctAnswer,omitempty"`
}

// questionPayload is the wire shape: options may arrive as an array, a JSON
// string, or a comma-separated string, and the type key varies.
type questionPayload struct {
	ID              string          `json:"id"`
	QuestionText    string          `json:"questionText"`
	QuestionType    string          `json:"questionType"`
	Type            string          `json:"type"`
	Options         json.RawMessage `json:"options"`
	Choices         json.RawMessage `json:"choices"`
	Topic           string          `json:"topic"`
	Difficulty      string          `json:"difficulty"`
	SuggestedLength int             `json:"suggestedLength"`
	CorrectAnswer   string          `json:"correctAnswer"`
}

// Answer is the caller-supplied input for the current question. Exactly one
// of Text, Choice or Scale is meaningful depending on the question type.
type Answer struct {
	Text       string   `json:"responseText"`
	Choice     *string  `json:"responseChoice"`
	Scale      *int     `json:"responseScale"`
	Confidence float64  `json:"confidenceLevel"`
}

// Metrics are the behavioral signals captured alongside an answer. They are
// evidence, not correctness.
type Metrics struct {
	ThinkTimeSeconds int      `json:"thinkTime"`
	TotalTimeSeconds int      `json:"totalTimeSeconds"`
	CharCount        int      `json:"charCount"`
	WordCount        int      `json:"wordCount"`
	TypingSpeedWpm   *float64 `json:"typingSpeedWpm,omitempty"`
	EditCount        int      `json:"editCount"`
	PasteDetected    bool     `json:"pasteDetected"`
	ConfidenceLevel  float64  `json:"confidenceLevel"`
}

// Submission is constructed once per answer, sent once, and never mutated
// after submission.
type Submission struct {
	QuestionID     string  `json:"questionId"`
	SessionID      string  `json:"sessionId,omitempty"`
	ResponseText   string  `json:"responseText,omitempty"`
	ResponseChoice *string `json:"responseChoice,omitempty"`
	ResponseScale  *int    `json:"responseScale,omitempty"`
	Metrics
}

// NextQuestionResult is the upstream's answer to "what now": either a stop
// signal with a reason code, or a question payload.
type NextQuestionResult struct {
	ShouldStop bool
	Reason     string
	Question   *Question
}

// Progress is the backend-owned assessment snapshot; the engine only reads
// and derives from it.
type Progress struct {
	QuestionsAnswered     int                `json:"questionsAnswered"`
	TotalQuestions        int                `json:"totalQuestions"`
	OverallProgress       float64            `json:"overallProgress"`
	SkillConfidenceLevels map[string]float64 `json:"skillConfidenceLevels"`
}
