package models

// Chat modes reported back to the client
const (
	ModeChat      = "chat"
	ModeWebSearch = "web_search"
)

// ChatRequest represents an incoming chat request
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse represents the JSON envelope returned by /api/chat
type ChatResponse struct {
	Success   bool   `json:"success"`
	Mode      string `json:"mode,omitempty"` // "chat" or "web_search"
	Query     string `json:"query,omitempty"`
	Response  string `json:"response,omitempty"`
	Error     string `json:"error,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// GenerationResult is the single result shape produced by the response
// generator. Success carries Mode, Query (web_search only) and the AI text
// in Response; failure carries the user-facing message in Response.
type GenerationResult struct {
	Success  bool
	Mode     string
	Query    string
	Response string
}
