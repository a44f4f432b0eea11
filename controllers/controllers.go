package controllers

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"path/filepath"

	"go.uber.org/zap"

	"webchat/models"
	"webchat/services"
)

// ResponseGenerator is the routing/composition core consumed by the HTTP
// surface. Satisfied by services.Generator.
type ResponseGenerator interface {
	Generate(ctx context.Context, sessionID, text string) models.GenerationResult
}

// StatusReporter exposes collaborator status for the health endpoint.
type StatusReporter interface {
	GetStatus() map[string]interface{}
}

// Controller wires the HTTP handlers to the response generator and the
// background Discord service.
type Controller struct {
	generator ResponseGenerator
	ai        StatusReporter
	discord   *services.DiscordService
	logger    *zap.Logger
}

// NewController creates a new controller instance.
func NewController(generator ResponseGenerator, ai StatusReporter, discord *services.DiscordService, logger *zap.Logger) *Controller {
	return &Controller{
		generator: generator,
		ai:        ai,
		discord:   discord,
		logger:    logger,
	}
}

// StartServices starts background services (the Discord bot when configured).
func (c *Controller) StartServices() error {
	if c.discord != nil && c.discord.IsEnabled() {
		if err := c.discord.Start(); err != nil {
			c.logger.Error("failed to start Discord service", zap.Error(err))
			return err
		}
	}
	return nil
}

// StopServices stops background services.
func (c *Controller) StopServices() error {
	if c.discord != nil {
		return c.discord.Stop()
	}
	return nil
}

// writeJSON writes a JSON response with the given status code.
func (c *Controller) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		c.logger.Error("error encoding response", zap.Error(err))
	}
}

// renderTemplate renders an HTML template with data.
func (c *Controller) renderTemplate(w http.ResponseWriter, templatePath string, data interface{}) {
	absPath, err := filepath.Abs(templatePath)
	if err != nil {
		c.logger.Error("error resolving template path", zap.String("path", templatePath), zap.Error(err))
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	tmpl, err := template.ParseFiles(absPath)
	if err != nil {
		c.logger.Error("error parsing template", zap.String("path", templatePath), zap.Error(err))
		http.Error(w, "Template parsing error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := tmpl.Execute(w, data); err != nil {
		c.logger.Error("error executing template", zap.String("path", templatePath), zap.Error(err))
	}
}
