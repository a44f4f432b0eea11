package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"webchat/metrics"
	"webchat/models"
)

// Fixed user-facing messages. Collaborator error detail never reaches the
// client; it is logged server-side only.
const (
	msgNotConfigured  = "AI service is not configured correctly."
	msgNoWebResults   = "Could not retrieve web results."
	msgGenerateFailed = "An error occurred while processing your request."
)

const researchInstruction = "You are an AI research assistant. Use the provided web results to answer the user query. " +
	"Cite sources inline like [1], [2], and include a concise summary."

// Conversationalist is the AI collaborator consumed by the generator.
type Conversationalist interface {
	Ready() bool
	Send(ctx context.Context, sessionID, text string) (string, error)
}

// Searcher is the web search collaborator consumed by the generator.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error)
}

// Generator routes a user message to plain chat or web-search-augmented
// chat based on a trigger prefix, and composes the prompt for the latter.
type Generator struct {
	ai         Conversationalist
	search     Searcher
	maxResults int
	logger     *zap.Logger
}

// NewGenerator creates a response generator over the two collaborators.
func NewGenerator(ai Conversationalist, search Searcher, maxResults int, logger *zap.Logger) *Generator {
	if maxResults <= 0 {
		maxResults = 6
	}
	return &Generator{
		ai:         ai,
		search:     search,
		maxResults: maxResults,
		logger:     logger,
	}
}

// Generate produces a response for one user message on the given session.
// It never returns an error; all failures collapse into a failure result
// carrying a fixed user-facing message.
func (g *Generator) Generate(ctx context.Context, sessionID, text string) models.GenerationResult {
	if !g.ai.Ready() {
		return models.GenerationResult{Success: false, Response: msgNotConfigured}
	}

	text = strings.TrimSpace(text)
	query, triggered := detectSearchTrigger(text)

	if triggered {
		return g.generateWithSearch(ctx, sessionID, query)
	}
	return g.generateChat(ctx, sessionID, text)
}

// detectSearchTrigger checks for the two trigger prefixes, case-insensitive,
// in order. The query keeps the original casing; only the prefix match is
// done on a lowercase copy. An empty query after a trigger still counts as
// triggered.
func detectSearchTrigger(text string) (query string, triggered bool) {
	lower := strings.ToLower(text)

	switch {
	case strings.HasPrefix(lower, "search:"):
		parts := strings.SplitN(text, ":", 2)
		return strings.TrimSpace(parts[1]), true
	case strings.HasPrefix(lower, "/search "):
		parts := strings.SplitN(text, " ", 2)
		return strings.TrimSpace(parts[1]), true
	}
	return "", false
}

func (g *Generator) generateChat(ctx context.Context, sessionID, text string) models.GenerationResult {
	reply, err := g.ai.Send(ctx, sessionID, text)
	if err != nil {
		g.logger.Error("AI call failed", zap.String("session_id", sessionID), zap.Error(err))
		metrics.CollaboratorFailures.WithLabelValues("gemini").Inc()
		return models.GenerationResult{Success: false, Response: msgGenerateFailed}
	}

	return models.GenerationResult{
		Success:  true,
		Mode:     models.ModeChat,
		Response: strings.TrimSpace(reply),
	}
}

func (g *Generator) generateWithSearch(ctx context.Context, sessionID, query string) models.GenerationResult {
	results, err := g.search.Search(ctx, query, g.maxResults)
	if err != nil {
		// Search failures degrade to the empty-result branch on purpose:
		// the user sees the same message either way.
		g.logger.Error("web search failed", zap.String("query", query), zap.Error(err))
		metrics.CollaboratorFailures.WithLabelValues("search").Inc()
		results = nil
	}
	if len(results) == 0 {
		return models.GenerationResult{Success: false, Response: msgNoWebResults}
	}

	reply, err := g.ai.Send(ctx, sessionID, composePrompt(query, results))
	if err != nil {
		g.logger.Error("AI call failed", zap.String("session_id", sessionID), zap.Error(err))
		metrics.CollaboratorFailures.WithLabelValues("gemini").Inc()
		return models.GenerationResult{Success: false, Response: msgGenerateFailed}
	}

	return models.GenerationResult{
		Success:  true,
		Mode:     models.ModeWebSearch,
		Query:    query,
		Response: strings.TrimSpace(reply),
	}
}

// composePrompt builds the structured search prompt: instruction, the
// user's query, and the numbered references block in delimited sections.
func composePrompt(query string, results []models.SearchResult) string {
	return fmt.Sprintf("<system>\n%s\n</system>\n<user_query>\n%s\n</user_query>\n<web_results>\n%s\n</web_results>",
		researchInstruction, query, referencesBlock(results))
}

// referencesBlock formats results as "[n] title — href\nbody" entries,
// 1-based, joined by a blank line, preserving the collaborator's order.
func referencesBlock(results []models.SearchResult) string {
	entries := make([]string, 0, len(results))
	for i, r := range results {
		entries = append(entries, fmt.Sprintf("[%d] %s — %s\n%s", i+1, r.Title, r.Href, r.Body))
	}
	return strings.Join(entries, "\n\n")
}
