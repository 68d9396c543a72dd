// Package suggestions resolves coaching suggestions for a session through
// an ordered fallback chain: cache, stored feedback, the live platform
// endpoint, then local generation.
package suggestions

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/skillmap/engine/internal/llm"
	"github.com/skillmap/engine/internal/upstream"
	"github.com/skillmap/engine/pkg/logger"
)

// ErrExhausted reports that every source in the chain failed or came back
// empty. Callers see this single error, never the per-source failures.
var ErrExhausted = errors.New("suggestions: all sources exhausted")

const feedbackTypeAISuggestions = "AI_SUGGESTIONS"

// Store is the session-keyed suggestion cache. Implemented by the redis
// client and the in-memory store.
type Store interface {
	Get(ctx context.Context, sessionID string) ([]string, bool, error)
	Set(ctx context.Context, sessionID string, suggestions []string, ttl time.Duration) error
}

// Platform is the slice of the upstream API the chain reads from.
type Platform interface {
	SessionFeedback(ctx context.Context, sessionID string) ([]upstream.FeedbackEntry, error)
	LiveSuggestions(ctx context.Context, sessionID string) ([]string, error)
	Resume(ctx context.Context, sessionID string) (*upstream.ResumeData, error)
	BiasAnalysis(ctx context.Context, sessionID string) (*upstream.CognitiveAnalysis, error)
}

// Generator produces suggestions locally when the platform has none.
type Generator interface {
	GenerateSuggestions(ctx context.Context, req llm.SuggestionRequest) (string, error)
}

type Service struct {
	store     Store
	platform  Platform
	generator Generator
	ttl       time.Duration
	logger    *zap.Logger
}

// NewService builds the chain. generator may be nil when no LLM credential
// is configured; the chain then ends at the live endpoint.
func NewService(store Store, platform Platform, generator Generator, ttl time.Duration) *Service {
	return &Service{
		store:     store,
		platform:  platform,
		generator: generator,
		ttl:       ttl,
		logger:    logger.GetLogger(),
	}
}

// GetSuggestions walks the chain until a source yields suggestions. Every
// success from a non-cache source is written through to the cache with a
// fresh TTL.
func (s *Service) GetSuggestions(ctx context.Context, sessionID string) ([]string, string, error) {
	if cached, ok, err := s.store.Get(ctx, sessionID); err == nil && ok {
		return cached, "cache", nil
	} else if err != nil {
		s.logger.Warn("Suggestion cache read failed", zap.String("session_id", sessionID), zap.Error(err))
	}

	return s.resolve(ctx, sessionID)
}

// Refresh skips the cache read but still writes the result back, so a
// forced refresh renews the TTL like any other success.
func (s *Service) Refresh(ctx context.Context, sessionID string) ([]string, string, error) {
	return s.resolve(ctx, sessionID)
}

func (s *Service) resolve(ctx context.Context, sessionID string) ([]string, string, error) {
	if suggestions := s.fromHistory(ctx, sessionID); len(suggestions) > 0 {
		s.writeThrough(ctx, sessionID, suggestions)
		return suggestions, "history", nil
	}

	if suggestions := s.fromLive(ctx, sessionID); len(suggestions) > 0 {
		s.writeThrough(ctx, sessionID, suggestions)
		return suggestions, "live", nil
	}

	if suggestions := s.fromGenerator(ctx, sessionID); len(suggestions) > 0 {
		s.writeThrough(ctx, sessionID, suggestions)
		return suggestions, "generated", nil
	}

	return nil, "", ErrExhausted
}

// fromHistory looks for a stored AI_SUGGESTIONS feedback record. Stored
// content may carry HTML from the platform's rich editor, so it is
// flattened to plain text before splitting.
func (s *Service) fromHistory(ctx context.Context, sessionID string) []string {
	entries, err := s.platform.SessionFeedback(ctx, sessionID)
	if err != nil {
		s.logger.Debug("Historical feedback lookup failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil
	}

	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		if entry.FeedbackType != feedbackTypeAISuggestions {
			continue
		}
		text := stripHTML(entry.Content)
		if suggestions := Split(text); len(suggestions) > 0 {
			return suggestions
		}
	}
	return nil
}

func (s *Service) fromLive(ctx context.Context, sessionID string) []string {
	suggestions, err := s.platform.LiveSuggestions(ctx, sessionID)
	if err != nil {
		s.logger.Debug("Live suggestion lookup failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil
	}
	return cleanAll(suggestions)
}

func (s *Service) fromGenerator(ctx context.Context, sessionID string) []string {
	if s.generator == nil {
		return nil
	}

	req := llm.SuggestionRequest{}

	if resume, err := s.platform.Resume(ctx, sessionID); err == nil && resume != nil {
		req.ResumeData = resume.RawFields
	}
	if analysis, err := s.platform.BiasAnalysis(ctx, sessionID); err == nil && analysis != nil {
		req.Biases = analysis.Biases
	}

	content, err := s.generator.GenerateSuggestions(ctx, req)
	if err != nil {
		s.logger.Warn("Suggestion generation failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil
	}
	return Split(content)
}

func (s *Service) writeThrough(ctx context.Context, sessionID string, suggestions []string) {
	if err := s.store.Set(ctx, sessionID, suggestions, s.ttl); err != nil {
		s.logger.Warn("Suggestion cache write failed", zap.String("session_id", sessionID), zap.Error(err))
	}
}

// stripHTML flattens markup to plain text. Non-HTML input passes through
// unchanged.
func stripHTML(content string) string {
	if !strings.Contains(content, "<") {
		return content
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return content
	}
	return doc.Text()
}

func cleanAll(suggestions []string) []string {
	out := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
