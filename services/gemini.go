package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiService talks to the Google Gemini API and keeps one conversation
// history per session, so turns sent through the same session id build on
// each other. Histories live in memory only and are dropped on restart.
type GeminiService struct {
	client *genai.Client
	model  string
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[string]*conversation
}

// conversation is the stateful handle for one chat session. Its mutex
// serializes interleaved requests on the same session so the history
// stays an alternating user/model sequence.
type conversation struct {
	mu      sync.Mutex
	history []*genai.Content
}

// NewGeminiService creates the AI collaborator. A missing API key does not
// fail startup: the service is returned in a degraded state where Ready()
// reports false and no API calls are ever attempted.
func NewGeminiService(ctx context.Context, apiKey, model string, logger *zap.Logger) *GeminiService {
	svc := &GeminiService{
		model:    model,
		logger:   logger,
		sessions: make(map[string]*conversation),
	}

	if apiKey == "" {
		logger.Warn("GEMINI_API_KEY not set, AI service disabled")
		return svc
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		logger.Error("failed to create Gemini client", zap.Error(err))
		return svc
	}

	svc.client = client
	logger.Info("Gemini client initialized", zap.String("model", model))
	return svc
}

// Ready reports whether the client was successfully initialized.
func (g *GeminiService) Ready() bool {
	return g.client != nil
}

// Send submits one turn on the given session's conversation and returns the
// model's reply. The turn is appended to the session history only after a
// successful response, so a failed call does not poison the history.
func (g *GeminiService) Send(ctx context.Context, sessionID, text string) (string, error) {
	if g.client == nil {
		return "", fmt.Errorf("gemini client not initialized")
	}

	conv := g.conversation(sessionID)
	conv.mu.Lock()
	defer conv.mu.Unlock()

	userTurn := &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: text}},
	}
	contents := append(append([]*genai.Content{}, conv.history...), userTurn)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	reply := responseText(resp)
	if reply == "" {
		return "", fmt.Errorf("gemini returned no text candidates")
	}

	conv.history = append(conv.history, userTurn, &genai.Content{
		Role:  "model",
		Parts: []*genai.Part{{Text: reply}},
	})

	return reply, nil
}

// conversation returns the handle for sessionID, creating it on first use.
func (g *GeminiService) conversation(sessionID string) *conversation {
	g.mu.Lock()
	defer g.mu.Unlock()

	conv, ok := g.sessions[sessionID]
	if !ok {
		conv = &conversation{}
		g.sessions[sessionID] = conv
	}
	return conv
}

// EndSession drops the conversation history for a session.
func (g *GeminiService) EndSession(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.sessions, sessionID)
}

// SessionCount returns the number of live conversation handles.
func (g *GeminiService) SessionCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sessions)
}

// GetStatus returns the status of the Gemini service for health reporting.
func (g *GeminiService) GetStatus() map[string]interface{} {
	status := map[string]interface{}{
		"model":    g.model,
		"sessions": g.SessionCount(),
	}
	if g.Ready() {
		status["status"] = "available"
	} else {
		status["status"] = "unavailable"
		status["error"] = "GEMINI_API_KEY not set"
	}
	return status
}

// responseText extracts the first candidate's text parts.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}
