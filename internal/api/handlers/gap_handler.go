package handlers

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillmap/engine/internal/gap"
	"github.com/skillmap/engine/internal/metrics"
	"github.com/skillmap/engine/internal/progress"
	"github.com/skillmap/engine/internal/storage/models"
	"github.com/skillmap/engine/internal/storage/sqlite"
	"github.com/skillmap/engine/internal/upstream"
	"github.com/skillmap/engine/pkg/logger"
)

type GapHandler struct {
	platform *upstream.Client
	store    *sqlite.Client
	analyzer *gap.Analyzer
}

func NewGapHandler(platform *upstream.Client, store *sqlite.Client, analyzer *gap.Analyzer) *GapHandler {
	return &GapHandler{
		platform: platform,
		store:    store,
		analyzer: analyzer,
	}
}

// AnalyzeGaps recomputes the skill gap report for a session from the
// current progress snapshot, the resume on file and recorded response
// behavior, then persists it.
func (h *GapHandler) AnalyzeGaps(c *fiber.Ctx) error {
	token := c.Params("token")

	session, err := h.store.GetSessionByToken(token)
	if err != nil {
		logger.Error("Failed to load session", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load session",
		})
	}
	if session == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	prog, err := h.platform.Progress(c.Context(), token)
	if err != nil {
		logger.Error("Failed to fetch progress for analysis", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to fetch assessment progress",
		})
	}

	skills := progress.Aggregate(prog.SkillConfidenceLevels)

	// An absent resume is a normal outcome; nothing is boosted.
	var resume *gap.ResumeData
	if upstreamResume, err := h.platform.Resume(c.Context(), session.ID); err == nil && upstreamResume != nil {
		resume = convertResume(upstreamResume)
	}

	signals := h.responseSignals(session.ID)

	report := h.analyzer.Analyze(skills, session.TargetRole, resume, signals)
	metrics.GapAnalyses.Inc()
	metrics.GapOpportunities.Observe(float64(len(report.Opportunities)))

	if payload, err := json.Marshal(report); err == nil {
		rec := &models.GapReport{
			ID:         uuid.New().String(),
			SessionID:  session.ID,
			TargetRole: session.TargetRole,
			Payload:    string(payload),
			CreatedAt:  time.Now(),
		}
		if err := h.store.InsertGapReport(rec); err != nil {
			logger.Warn("Failed to persist gap report", zap.Error(err))
		}
	}

	return c.JSON(report)
}

// GetLatestReport serves the most recent persisted report without
// recomputing.
func (h *GapHandler) GetLatestReport(c *fiber.Ctx) error {
	token := c.Params("token")

	session, err := h.store.GetSessionByToken(token)
	if err != nil {
		logger.Error("Failed to load session", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load session",
		})
	}
	if session == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Session not found",
		})
	}

	report, err := h.store.GetLatestGapReport(session.ID)
	if err != nil {
		logger.Error("Failed to load gap report", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load gap report",
		})
	}
	if report == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No gap report computed yet",
		})
	}

	c.Set("Content-Type", "application/json")
	return c.SendString(report.Payload)
}

func (h *GapHandler) responseSignals(sessionID string) []gap.ResponseSignal {
	records, err := h.store.ListSessionResponses(sessionID)
	if err != nil {
		logger.Warn("Failed to load response history", zap.Error(err))
		return nil
	}

	signals := make([]gap.ResponseSignal, 0, len(records))
	for _, r := range records {
		signals = append(signals, gap.ResponseSignal{
			QuestionType:     r.QuestionType,
			Text:             r.ResponseText,
			Confidence:       r.ConfidenceLevel,
			ThinkTimeSeconds: r.ThinkTimeSeconds,
		})
	}
	return signals
}

func convertResume(r *upstream.ResumeData) *gap.ResumeData {
	skills := make([]gap.ExtractedSkill, 0, len(r.ExtractedSkills))
	for _, s := range r.ExtractedSkills {
		skills = append(skills, gap.ExtractedSkill{
			SkillName:       s.SkillName,
			YearsExperience: s.YearsExperience,
		})
	}
	return &gap.ResumeData{ExtractedSkills: skills}
}
