package controllers

import (
	"net/http"
)

// IndexHandler serves the chat UI landing page.
func (c *Controller) IndexHandler(w http.ResponseWriter, r *http.Request) {
	c.renderTemplate(w, "views/index.html", nil)
}

// HealthHandler provides a health check endpoint.
func (c *Controller) HealthHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status":    "healthy",
		"service":   "webchat",
		"endpoints": []string{"/", "/api/chat", "/health", "/metrics"},
	}
	if c.ai != nil {
		health["ai"] = c.ai.GetStatus()
	}
	if c.discord != nil {
		health["discord"] = c.discord.GetStatus()
	}
	c.writeJSON(w, http.StatusOK, health)
}
