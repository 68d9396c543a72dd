package handlers

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/skillmap/engine/internal/assessment"
	"github.com/skillmap/engine/pkg/logger"
)

// WebSocketHandler streams session snapshots so the client can render
// progress without polling.
type WebSocketHandler struct {
	registry *assessment.Registry
	interval time.Duration
}

func NewWebSocketHandler(registry *assessment.Registry) *WebSocketHandler {
	return &WebSocketHandler{
		registry: registry,
		interval: 2 * time.Second,
	}
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	token := c.Params("token")
	logger.Info("WebSocket connection established", zap.String("token", token))

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed", zap.String("token", token))
	}()

	orch, single := h.registry.Get(token)
	batch, batched := h.registry.GetBatch(token)
	if !single && !batched {
		h.sendError(c, "Session not found")
		return
	}

	// Read pump only watches for the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var lastState, lastQuestion string
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
		}

		var (
			state    string
			question string
			payload  interface{}
		)
		if single {
			snap := orch.Snapshot()
			state = snap.State
			if snap.Question != nil {
				question = snap.Question.ID
			}
			payload = snap
		} else {
			snap := batch.Snapshot()
			state = snap.State
			if len(snap.Questions) > 0 {
				question = snap.Questions[0].ID
			}
			payload = snap
		}

		if state == lastState && question == lastQuestion {
			continue
		}
		lastState, lastQuestion = state, question

		if err := c.WriteJSON(map[string]interface{}{
			"type":     "snapshot",
			"snapshot": payload,
		}); err != nil {
			logger.Error("Failed to push snapshot", zap.Error(err))
			return
		}

		if state == assessment.StateStopped.String() {
			return
		}
	}
}

func (h *WebSocketHandler) sendError(c *websocket.Conn, errorMsg string) {
	c.WriteJSON(map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	})
}
