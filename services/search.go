package services

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"webchat/models"
)

const defaultSearchBaseURL = "https://html.duckduckgo.com/html/"

// Patterns for the DuckDuckGo HTML results page. The href on result
// anchors is a redirect URL carrying the real target in the uddg param.
var (
	resultLinkPattern    = regexp.MustCompile(`<a[^>]*class="result__a"[^>]*href="([^"]*)"[^>]*>([^<]*)</a>`)
	resultSnippetPattern = regexp.MustCompile(`class="result__snippet"[^>]*>(.*?)</a>`)
	tagPattern           = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern    = regexp.MustCompile(`\s+`)
)

// SearchService performs web searches against DuckDuckGo's HTML interface.
// It is stateless; every call is an independent request.
type SearchService struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewSearchService creates a new search service instance. An empty baseURL
// selects the DuckDuckGo endpoint.
func NewSearchService(baseURL string, logger *zap.Logger) *SearchService {
	if baseURL == "" {
		baseURL = defaultSearchBaseURL
	}
	return &SearchService{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Search runs one query and returns up to maxResults results in page order.
// Results missing a title or href are discarded. An empty query is sent
// through unchanged; the engine simply returns nothing for it.
func (s *SearchService) Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	if maxResults <= 0 || maxResults > 10 {
		maxResults = 6
	}

	requestURL := fmt.Sprintf("%s?q=%s", strings.TrimRight(s.baseURL, "?"), url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}

	// The HTML endpoint rejects clients without browser-ish headers.
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("search API error %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	results := parseResultsPage(string(body), maxResults)
	s.logger.Debug("web search completed",
		zap.String("query", query),
		zap.Int("results", len(results)))

	return results, nil
}

// parseResultsPage extracts results from the DuckDuckGo HTML page. The
// snippet for a result is looked up between its link anchor and the next
// one, so a result without a snippet cannot steal a neighbor's body.
func parseResultsPage(page string, maxResults int) []models.SearchResult {
	linkMatches := resultLinkPattern.FindAllStringSubmatchIndex(page, -1)

	results := make([]models.SearchResult, 0, maxResults)
	for i, loc := range linkMatches {
		if len(results) >= maxResults {
			break
		}

		href := extractTargetURL(page[loc[2]:loc[3]])
		title := cleanText(page[loc[4]:loc[5]])
		if title == "" || href == "" {
			continue
		}

		regionEnd := len(page)
		if i+1 < len(linkMatches) {
			regionEnd = linkMatches[i+1][0]
		}

		body := ""
		if m := resultSnippetPattern.FindStringSubmatch(page[loc[1]:regionEnd]); m != nil {
			body = cleanText(m[1])
		}

		results = append(results, models.SearchResult{
			Title: title,
			Href:  href,
			Body:  body,
		})
	}

	return results
}

// extractTargetURL unwraps DuckDuckGo's redirect links
// (//duckduckgo.com/l/?uddg=https%3A%2F%2F...) into the real target.
func extractTargetURL(raw string) string {
	if strings.Contains(raw, "uddg=") {
		parsed, err := url.Parse(raw)
		if err != nil {
			return ""
		}
		raw = parsed.Query().Get("uddg")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	return raw
}

// cleanText strips markup, decodes entities and collapses whitespace.
func cleanText(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
