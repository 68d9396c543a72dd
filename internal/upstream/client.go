// Package upstream talks to the assessment platform's HTTP API. All engine
// question, progress, feedback, resume and cognitive data comes through
// here; the engine itself owns no question content.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/skillmap/engine/internal/assessment"
	"github.com/skillmap/engine/internal/llm"
	"github.com/skillmap/engine/internal/metrics"
	"github.com/skillmap/engine/pkg/circuitbreaker"
	"github.com/skillmap/engine/pkg/logger"
	"github.com/skillmap/engine/pkg/retry"
)

type Client struct {
	baseURL     string
	apiToken    string
	httpClient  *http.Client
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
}

// FeedbackEntry is one stored feedback record for a session. Records of
// type AI_SUGGESTIONS carry previously generated suggestion text.
type FeedbackEntry struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"sessionId"`
	FeedbackType string    `json:"feedbackType"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ResumeData mirrors the platform's parsed-resume payload.
type ResumeData struct {
	ExtractedSkills []ExtractedSkill       `json:"extractedSkills"`
	RawFields       map[string]interface{} `json:"-"`
}

type ExtractedSkill struct {
	SkillName       string  `json:"skillName"`
	YearsExperience float64 `json:"yearsExperience"`
}

// CognitiveAnalysis holds the bias patterns the platform detected for a
// session. Absence of an analysis is normal.
type CognitiveAnalysis struct {
	SessionID string     `json:"sessionId"`
	Biases    []llm.Bias `json:"biases"`
}

// StartResult identifies a freshly started assessment session.
type StartResult struct {
	SessionID    string `json:"sessionId"`
	SessionToken string `json:"sessionToken"`
}

func NewClient(baseURL, apiToken string, timeout time.Duration) *Client {
	cb := circuitbreaker.New("upstream", circuitbreaker.Config{
		MaxRequests:      10,
		Interval:         time.Minute,
		Timeout:          15 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	retryConfig := retry.Config{
		MaxAttempts:  3,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     3 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
		Logger:       logger.GetLogger(),
	}

	return &Client{
		baseURL:  baseURL,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cb:          cb,
		retryConfig: retryConfig,
	}
}

// StartAssessment opens a session for a user, optionally scoped to a target
// role so the platform can bias question selection.
func (c *Client) StartAssessment(ctx context.Context, userID, targetRole string) (*StartResult, error) {
	defer metrics.ObserveUpstream("start_assessment", time.Now())

	payload := map[string]string{"userId": userID}
	if targetRole != "" {
		payload["targetRole"] = targetRole
	}

	var result StartResult
	if err := c.postJSON(ctx, "/api/assessment/start", nil, payload, &result); err != nil {
		return nil, fmt.Errorf("failed to start assessment: %w", err)
	}

	logger.Info("Assessment started",
		zap.String("session_id", result.SessionID),
		zap.String("target_role", targetRole),
	)
	return &result, nil
}

// NextQuestion fetches the adaptive next question. The platform answers
// with either a question payload or a stop signal carrying a reason code.
func (c *Client) NextQuestion(ctx context.Context, token string) (*assessment.NextQuestionResult, error) {
	defer metrics.ObserveUpstream("next_question", time.Now())

	body, err := c.getWithRetry(ctx, "/api/questions/next/"+url.PathEscape(token), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch next question: %w", err)
	}

	var signal struct {
		ShouldStop bool   `json:"shouldStop"`
		Reason     string `json:"reason"`
	}
	if err := json.Unmarshal(body, &signal); err == nil && signal.ShouldStop {
		logger.Debug("Next question stop signal", zap.String("reason", signal.Reason))
		return &assessment.NextQuestionResult{ShouldStop: true, Reason: signal.Reason}, nil
	}

	q, err := assessment.ParseQuestion(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse question payload: %w", err)
	}
	return &assessment.NextQuestionResult{Question: q}, nil
}

// RecommendedQuestions fetches a page for batched mode. An empty page is a
// valid answer, not an error.
func (c *Client) RecommendedQuestions(ctx context.Context, token string, count int) ([]assessment.Question, error) {
	defer metrics.ObserveUpstream("recommended_questions", time.Now())

	query := url.Values{}
	query.Set("count", fmt.Sprintf("%d", count))

	body, err := c.getWithRetry(ctx, "/api/questions/recommended/"+url.PathEscape(token), query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recommended questions: %w", err)
	}
	if len(body) == 0 {
		return nil, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse question page: %w", err)
	}

	questions := make([]assessment.Question, 0, len(raw))
	for _, r := range raw {
		q, err := assessment.ParseQuestion(r)
		if err != nil {
			logger.Warn("Skipping unparseable question in page", zap.Error(err))
			continue
		}
		questions = append(questions, *q)
	}
	return questions, nil
}

// SubmitResponse posts one answer. Submissions are not retried
// automatically; the caller decides whether a resend is safe.
func (c *Client) SubmitResponse(ctx context.Context, token string, sub *assessment.Submission) error {
	defer metrics.ObserveUpstream("submit_response", time.Now())

	query := url.Values{}
	query.Set("sessionToken", token)

	if err := c.postJSON(ctx, "/api/responses", query, sub, nil); err != nil {
		return fmt.Errorf("failed to submit response: %w", err)
	}
	return nil
}

func (c *Client) Progress(ctx context.Context, token string) (*assessment.Progress, error) {
	defer metrics.ObserveUpstream("progress", time.Now())

	body, err := c.getWithRetry(ctx, "/api/questions/progress/"+url.PathEscape(token), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch progress: %w", err)
	}

	var progress assessment.Progress
	if err := json.Unmarshal(body, &progress); err != nil {
		return nil, fmt.Errorf("failed to parse progress: %w", err)
	}
	return &progress, nil
}

// LiveSuggestions asks the platform for current feedback suggestions for a
// session. Nothing available yet is (nil, nil).
func (c *Client) LiveSuggestions(ctx context.Context, sessionID string) ([]string, error) {
	defer metrics.ObserveUpstream("live_suggestions", time.Now())

	body, err := c.getWithRetry(ctx, "/api/feedback/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch live suggestions: %w", err)
	}
	if len(body) == 0 {
		return nil, nil
	}

	var payload struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}
	return payload.Suggestions, nil
}

// SessionFeedback lists stored feedback records for a session. A session
// with no feedback yet returns an empty slice.
func (c *Client) SessionFeedback(ctx context.Context, sessionID string) ([]FeedbackEntry, error) {
	defer metrics.ObserveUpstream("session_feedback", time.Now())

	body, err := c.getWithRetry(ctx, "/api/user-data/session/"+url.PathEscape(sessionID)+"/feedback", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session feedback: %w", err)
	}
	if len(body) == 0 {
		return nil, nil
	}

	var entries []FeedbackEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse feedback entries: %w", err)
	}
	return entries, nil
}

// Resume fetches the parsed resume attached to a session. No resume on
// file is (nil, nil).
func (c *Client) Resume(ctx context.Context, sessionID string) (*ResumeData, error) {
	defer metrics.ObserveUpstream("resume", time.Now())

	body, err := c.getWithRetry(ctx, "/api/resume/session/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch resume data: %w", err)
	}
	if len(body) == 0 {
		return nil, nil
	}

	var resume ResumeData
	if err := json.Unmarshal(body, &resume); err != nil {
		return nil, fmt.Errorf("failed to parse resume data: %w", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err == nil {
		resume.RawFields = raw
	}
	return &resume, nil
}

// BiasAnalysis fetches the cognitive pattern analysis for a session. No
// analysis on file is (nil, nil).
func (c *Client) BiasAnalysis(ctx context.Context, sessionID string) (*CognitiveAnalysis, error) {
	defer metrics.ObserveUpstream("bias_analysis", time.Now())

	body, err := c.getWithRetry(ctx, "/api/cognitive/bias-analysis/session/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bias analysis: %w", err)
	}
	if len(body) == 0 {
		return nil, nil
	}

	var analysis CognitiveAnalysis
	if err := json.Unmarshal(body, &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse bias analysis: %w", err)
	}
	return &analysis, nil
}

// getWithRetry wraps idempotent reads in the breaker and retry policy.
// A 404 or empty body comes back as (nil, nil): absent data is a normal
// outcome for history, resume and cognitive lookups.
func (c *Client) getWithRetry(ctx context.Context, path string, query url.Values) ([]byte, error) {
	var body []byte

	err := c.cb.Execute(ctx, func() error {
		return retry.Do(ctx, c.retryConfig, func() error {
			b, err := c.doRequest(ctx, http.MethodGet, path, query, nil)
			if err != nil {
				return err
			}
			body = b
			return nil
		})
	})

	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) postJSON(ctx context.Context, path string, query url.Values, payload, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	var body []byte
	err = c.cb.Execute(ctx, func() error {
		b, err := c.doRequest(ctx, http.MethodPost, path, query, data)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return err
	}

	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
