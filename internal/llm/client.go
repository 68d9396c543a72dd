package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/skillmap/engine/internal/metrics"
	"github.com/skillmap/engine/pkg/circuitbreaker"
	"github.com/skillmap/engine/pkg/logger"
	"github.com/skillmap/engine/pkg/retry"
)

type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	cb          *circuitbreaker.CircuitBreaker
	retryConfig retry.Config
}

type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	MaxTokens    int
}

type CompletionResponse struct {
	Content string
	Usage   Usage
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Bias is a cognitive pattern flagged by the upstream analysis service,
// fed into the suggestion prompt as coaching context.
type Bias struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// SuggestionRequest carries everything the coaching prompt draws on. Any
// field may be zero; the prompt degrades gracefully.
type SuggestionRequest struct {
	TargetRole     string
	ResumeData     map[string]interface{}
	Biases         []Bias
	SessionSummary string
}

func NewClient(apiKey, model string, temperature float32, maxTokens int) *Client {
	client := openai.NewClient(apiKey)

	cb := circuitbreaker.New("llm", circuitbreaker.Config{
		MaxRequests:      5,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Logger:           logger.GetLogger(),
	})

	retryConfig := retry.Config{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
		Logger:       logger.GetLogger(),
	}

	logger.Info("LLM client initialized", zap.String("model", model))

	return &Client{
		client:      client,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		cb:          cb,
		retryConfig: retryConfig,
	}
}

func (c *Client) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.temperature
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: req.UserPrompt,
		},
	}

	var result *CompletionResponse

	err := c.cb.Execute(ctx, func() error {
		return retry.Do(ctx, c.retryConfig, func() error {
			resp, err := c.client.CreateChatCompletion(
				ctx,
				openai.ChatCompletionRequest{
					Model:       c.model,
					Messages:    messages,
					Temperature: temperature,
					MaxTokens:   maxTokens,
				},
			)

			if err != nil {
				return fmt.Errorf("failed to create completion: %w", err)
			}

			if len(resp.Choices) == 0 {
				return fmt.Errorf("completion returned no choices")
			}

			logger.Debug("LLM completion generated",
				zap.Int("prompt_tokens", resp.Usage.PromptTokens),
				zap.Int("completion_tokens", resp.Usage.CompletionTokens),
			)

			result = &CompletionResponse{
				Content: resp.Choices[0].Message.Content,
				Usage: Usage{
					PromptTokens:     resp.Usage.PromptTokens,
					CompletionTokens: resp.Usage.CompletionTokens,
					TotalTokens:      resp.Usage.TotalTokens,
				},
			}

			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	metrics.LLMTokensUsed.WithLabelValues(c.model, "prompt").Add(float64(result.Usage.PromptTokens))
	metrics.LLMTokensUsed.WithLabelValues(c.model, "completion").Add(float64(result.Usage.CompletionTokens))

	return result, nil
}

// GenerateSuggestions produces coaching suggestions as a single block of
// numbered text. Callers split it into individual suggestions.
func (c *Client) GenerateSuggestions(ctx context.Context, req SuggestionRequest) (string, error) {
	systemPrompt := `You are an expert career coach and learning advisor. You help people close skill gaps based on assessment results.

Your suggestions must:
1. Be specific and actionable, not generic encouragement
2. Reference the candidate's actual assessment performance
3. Account for experience already shown on the resume
4. Address any cognitive patterns observed during the assessment
5. Prioritize the skills that matter most for the target role

Respond with 3-5 suggestions as a numbered list. Each suggestion is one or two sentences.`

	var b strings.Builder

	if req.TargetRole != "" {
		fmt.Fprintf(&b, "Target role: %s\n\n", req.TargetRole)
	}

	if len(req.ResumeData) > 0 {
		resumeJSON, err := json.Marshal(req.ResumeData)
		if err == nil {
			fmt.Fprintf(&b, "Resume data:\n%s\n\n", resumeJSON)
		}
	}

	if len(req.Biases) > 0 {
		b.WriteString("Cognitive patterns observed during the assessment:\n")
		for _, bias := range req.Biases {
			fmt.Fprintf(&b, "- %s: %s\n", bias.Type, bias.Description)
		}
		b.WriteString("\n")
	}

	if req.SessionSummary != "" {
		fmt.Fprintf(&b, "Assessment session summary:\n%s\n\n", req.SessionSummary)
	}

	b.WriteString("Provide 3-5 specific, actionable suggestions for this candidate as a numbered list.")

	resp, err := c.Complete(ctx, CompletionRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   b.String(),
		Temperature:  0.7,
		MaxTokens:    600,
	})

	if err != nil {
		return "", fmt.Errorf("failed to generate suggestions: %w", err)
	}

	logger.Info("Suggestions generated", zap.Int("response_length", len(resp.Content)))

	return resp.Content, nil
}
