package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillmap/engine/internal/metrics"
	"github.com/skillmap/engine/internal/storage/models"
	"github.com/skillmap/engine/internal/storage/sqlite"
	"github.com/skillmap/engine/internal/suggestions"
	"github.com/skillmap/engine/pkg/logger"
)

type SuggestionsHandler struct {
	service *suggestions.Service
	store   *sqlite.Client
}

func NewSuggestionsHandler(service *suggestions.Service, store *sqlite.Client) *SuggestionsHandler {
	return &SuggestionsHandler{
		service: service,
		store:   store,
	}
}

func (h *SuggestionsHandler) GetSuggestions(c *fiber.Ctx) error {
	return h.serve(c, false)
}

// RefreshSuggestions bypasses the cache read and renews the TTL.
func (h *SuggestionsHandler) RefreshSuggestions(c *fiber.Ctx) error {
	return h.serve(c, true)
}

func (h *SuggestionsHandler) serve(c *fiber.Ctx, refresh bool) error {
	sessionID := c.Params("id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Session id is required",
		})
	}

	var (
		items  []string
		source string
		err    error
	)
	if refresh {
		items, source, err = h.service.Refresh(c.Context(), sessionID)
	} else {
		items, source, err = h.service.GetSuggestions(c.Context(), sessionID)
	}

	if err != nil {
		if errors.Is(err, suggestions.ErrExhausted) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "No suggestions are available for this session",
			})
		}
		logger.Error("Failed to resolve suggestions", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to resolve suggestions",
		})
	}

	metrics.SuggestionSource.WithLabelValues(source).Inc()
	if source == "cache" {
		metrics.CacheHits.WithLabelValues("suggestions").Inc()
	} else {
		metrics.CacheMisses.WithLabelValues("suggestions").Inc()
		h.record(sessionID, source, items)
	}

	return c.JSON(fiber.Map{
		"sessionId":   sessionID,
		"source":      source,
		"suggestions": items,
	})
}

func (h *SuggestionsHandler) record(sessionID, source string, items []string) {
	rec := &models.SuggestionRecord{
		ID:        uuid.New().String(),
		SessionID: sessionID,
		Source:    source,
		Content:   strings.Join(items, "\n"),
		CreatedAt: time.Now(),
	}
	if err := h.store.InsertSuggestion(rec); err != nil {
		logger.Warn("Failed to persist suggestions", zap.Error(err))
	}
}
