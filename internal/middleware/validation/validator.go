package validation

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var xssPattern = regexp.MustCompile(`(?i)(<script|<iframe|javascript:|onerror=|onload=|onclick=)`)

type Config struct {
	MaxAnswerLength     int
	AllowedContentTypes []string
	Logger              *zap.Logger
}

// Middleware rejects oversized or hostile answer payloads before they reach
// the orchestrator. Semantic validation (empty text, missing choice) stays
// in the orchestrator where it can refuse the state transition.
func Middleware(cfg Config) fiber.Handler {
	if cfg.MaxAnswerLength == 0 {
		cfg.MaxAnswerLength = 20000
	}
	if len(cfg.AllowedContentTypes) == 0 {
		cfg.AllowedContentTypes = []string{"application/json"}
	}

	return func(c *fiber.Ctx) error {
		if c.Method() == "POST" || c.Method() == "PUT" {
			contentType := c.Get("Content-Type")
			if contentType != "" {
				allowed := false
				for _, allowedType := range cfg.AllowedContentTypes {
					if strings.Contains(contentType, allowedType) {
						allowed = true
						break
					}
				}
				if !allowed {
					return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
						"error": "Unsupported content type",
					})
				}
			}
		}

		if strings.Contains(c.Path(), "/responses") && c.Method() == "POST" {
			var req map[string]interface{}
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid JSON format",
				})
			}

			for _, text := range answerTexts(req) {
				if len(text) > cfg.MaxAnswerLength {
					return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
						"error": "Answer exceeds maximum length",
					})
				}
				if xssPattern.MatchString(text) {
					cfg.Logger.Warn("Potential XSS attempt in answer",
						zap.String("ip", c.IP()),
						zap.String("path", c.Path()),
					)
					return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
						"error": "Invalid answer content",
					})
				}
			}
		}

		return c.Next()
	}
}

// answerTexts collects the free-text fields of a submission body: the
// responseText of a single answer, or of each entry in a batch page.
func answerTexts(req map[string]interface{}) []string {
	var texts []string

	if text, ok := req["responseText"].(string); ok {
		texts = append(texts, text)
	}

	answers, ok := req["answers"].([]interface{})
	if !ok {
		return texts
	}
	for _, item := range answers {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if text, ok := entry["responseText"].(string); ok {
			texts = append(texts, text)
		}
	}
	return texts
}
