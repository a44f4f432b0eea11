package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"webchat/metrics"
	"webchat/models"
)

// ChatHandler processes POST /api/chat requests. A body that fails to
// decode is treated the same as a missing message rather than rejected
// outright, so the only 400 cause is an empty message.
func (c *Controller) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req = models.ChatRequest{}
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.logger.Warn("empty message received")
		metrics.ChatRequests.WithLabelValues("none", "invalid").Inc()
		c.writeJSON(w, http.StatusBadRequest, models.ChatResponse{
			Success: false,
			Error:   "No message provided.",
		})
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	result := c.generator.Generate(r.Context(), sessionID, message)
	if !result.Success {
		c.logger.Error("error generating response",
			zap.String("session_id", sessionID),
			zap.String("reason", result.Response))
		metrics.ChatRequests.WithLabelValues("none", "failure").Inc()
		c.writeJSON(w, http.StatusInternalServerError, models.ChatResponse{
			Success: false,
			Error:   result.Response,
		})
		return
	}

	metrics.ChatRequests.WithLabelValues(result.Mode, "success").Inc()
	c.writeJSON(w, http.StatusOK, models.ChatResponse{
		Success:   true,
		Mode:      result.Mode,
		Query:     result.Query,
		Response:  result.Response,
		SessionID: sessionID,
	})
}
