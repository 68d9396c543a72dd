package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/skillmap/engine/internal/assessment"
	"github.com/skillmap/engine/internal/metrics"
	"github.com/skillmap/engine/internal/storage/models"
	"github.com/skillmap/engine/internal/storage/sqlite"
	"github.com/skillmap/engine/internal/upstream"
	"github.com/skillmap/engine/pkg/logger"
)

type SessionHandler struct {
	platform  *upstream.Client
	registry  *assessment.Registry
	store     *sqlite.Client
	batchSize int
}

func NewSessionHandler(platform *upstream.Client, registry *assessment.Registry, store *sqlite.Client, batchSize int) *SessionHandler {
	return &SessionHandler{
		platform:  platform,
		registry:  registry,
		store:     store,
		batchSize: batchSize,
	}
}

// StartSession opens an upstream assessment and begins the question loop.
// Batched sessions fetch a page instead of a single question.
func (h *SessionHandler) StartSession(c *fiber.Ctx) error {
	var req struct {
		UserID     string `json:"userId"`
		TargetRole string `json:"targetRole"`
		Batch      bool   `json:"batch"`
	}

	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "userId is required",
		})
	}

	started, err := h.platform.StartAssessment(c.Context(), req.UserID, req.TargetRole)
	if err != nil {
		logger.Error("Failed to start assessment", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to start assessment",
		})
	}

	session := &models.Session{
		ID:         started.SessionID,
		Token:      started.SessionToken,
		UserID:     req.UserID,
		TargetRole: req.TargetRole,
		Status:     "active",
		StartedAt:  time.Now(),
	}
	if err := h.store.UpsertSession(session); err != nil {
		logger.Warn("Failed to persist session", zap.Error(err))
	}

	if req.Batch {
		orch := assessment.NewBatchOrchestrator(h.platform, h.store, started.SessionToken, started.SessionID, h.batchSize, logger.GetLogger())
		h.registry.PutBatch(started.SessionToken, orch)

		if err := orch.Start(c.Context()); err != nil {
			logger.Error("Failed to start batch session", zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Failed to load first question batch",
			})
		}
		metrics.QuestionsFetched.WithLabelValues("batch").Inc()

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"sessionId":    started.SessionID,
			"sessionToken": started.SessionToken,
			"mode":         "batch",
			"snapshot":     orch.Snapshot(),
		})
	}

	orch := assessment.NewOrchestrator(h.platform, h.store, started.SessionToken, started.SessionID, logger.GetLogger())
	h.registry.Put(started.SessionToken, orch)

	if err := orch.Start(c.Context()); err != nil {
		logger.Error("Failed to start session", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to load first question",
		})
	}
	metrics.QuestionsFetched.WithLabelValues("single").Inc()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"sessionId":    started.SessionID,
		"sessionToken": started.SessionToken,
		"mode":         "single",
		"snapshot":     orch.Snapshot(),
	})
}

// GetSession returns the current view of a session in either mode.
func (h *SessionHandler) GetSession(c *fiber.Ctx) error {
	token := c.Params("token")

	if orch, ok := h.registry.Get(token); ok {
		return c.JSON(orch.Snapshot())
	}
	if orch, ok := h.registry.GetBatch(token); ok {
		return c.JSON(orch.Snapshot())
	}

	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Session not found",
	})
}

// SubmitResponse answers the current question of a single-mode session.
func (h *SessionHandler) SubmitResponse(c *fiber.Ctx) error {
	token := c.Params("token")

	orch, ok := h.registry.Get(token)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	var ans assessment.Answer
	if err := c.BodyParser(&ans); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := orch.Submit(c.Context(), ans); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		return submissionError(c, err)
	}
	metrics.SubmissionsTotal.WithLabelValues("ok").Inc()

	snap := orch.Snapshot()
	if snap.StopReason != "" {
		metrics.SessionsStopped.WithLabelValues(snap.StopReason).Inc()
		// The final snapshot still goes out; the orchestrator itself is done.
		h.registry.Remove(token)
	}
	return c.JSON(snap)
}

// SubmitBatch answers some or all questions of the current page.
func (h *SessionHandler) SubmitBatch(c *fiber.Ctx) error {
	token := c.Params("token")

	orch, ok := h.registry.GetBatch(token)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	var req struct {
		Answers []assessment.BatchAnswer `json:"answers"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if len(req.Answers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "answers is required",
		})
	}

	err := orch.SubmitAll(c.Context(), req.Answers)
	snap := orch.Snapshot()
	if snap.StopReason != "" {
		metrics.SessionsStopped.WithLabelValues(snap.StopReason).Inc()
		h.registry.Remove(token)
	}

	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		if errors.Is(err, assessment.ErrSubmissionInFlight) || errors.Is(err, assessment.ErrNotAwaitingAnswer) {
			return submissionError(c, err)
		}
		// Partial failure: the page advanced where it could, so the
		// caller gets the snapshot alongside the per-answer errors.
		return c.Status(fiber.StatusMultiStatus).JSON(fiber.Map{
			"errors":   err.Error(),
			"snapshot": snap,
		})
	}

	metrics.SubmissionsTotal.WithLabelValues("ok").Inc()
	return c.JSON(snap)
}

// TrackEvent feeds typing instrumentation for the question currently
// awaiting an answer.
func (h *SessionHandler) TrackEvent(c *fiber.Ctx) error {
	token := c.Params("token")

	orch, ok := h.registry.Get(token)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	var event struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	switch event.Type {
	case "text":
		orch.TrackText(event.Text)
	case "edit":
		orch.TrackEdit()
	case "paste":
		orch.TrackPaste()
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown event type",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RetrySession re-enters the fetch loop from the error state.
func (h *SessionHandler) RetrySession(c *fiber.Ctx) error {
	token := c.Params("token")

	if orch, ok := h.registry.Get(token); ok {
		if err := orch.Start(c.Context()); err != nil {
			metrics.RefreshFailures.Inc()
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Retry failed",
			})
		}
		return c.JSON(orch.Snapshot())
	}
	if orch, ok := h.registry.GetBatch(token); ok {
		if err := orch.Start(c.Context()); err != nil {
			metrics.RefreshFailures.Inc()
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "Retry failed",
			})
		}
		return c.JSON(orch.Snapshot())
	}

	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Session not found",
	})
}

// GetProgress returns the latest progress snapshot, fetching from the
// platform when the orchestrator has none yet.
func (h *SessionHandler) GetProgress(c *fiber.Ctx) error {
	token := c.Params("token")

	if orch, ok := h.registry.Get(token); ok {
		if prog := orch.Progress(); prog != nil {
			return c.JSON(prog)
		}
	}

	prog, err := h.platform.Progress(c.Context(), token)
	if err != nil {
		logger.Error("Failed to fetch progress", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to fetch progress",
		})
	}
	return c.JSON(prog)
}

func submissionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, assessment.ErrEmptyAnswer),
		errors.Is(err, assessment.ErrNoSelection):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, assessment.ErrSubmissionInFlight):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, assessment.ErrNotAwaitingAnswer):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		logger.Error("Submission failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Submission failed, answer preserved for retry",
		})
	}
}
