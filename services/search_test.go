package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const resultsPage = `
<div class="result">
  <a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2Fblog%2Fgenerics&amp;rut=abc">An Introduction To Generics</a>
  <a class="result__snippet" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2Fblog%2Fgenerics">Generics add <b>type parameters</b> to Go.</a>
</div>
<div class="result">
  <a rel="nofollow" class="result__a" href="https://example.com/plain">Plain Link</a>
  <a class="result__snippet" href="https://example.com/plain">No redirect here.</a>
</div>
<div class="result">
  <a rel="nofollow" class="result__a" href="https://example.com/untitled"></a>
  <a class="result__snippet" href="https://example.com/untitled">Snippet without a title.</a>
</div>
`

func TestSearchParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "go generics", r.URL.Query().Get("q"))
		io.WriteString(w, resultsPage)
	}))
	defer srv.Close()

	s := NewSearchService(srv.URL, zap.NewNop())
	results, err := s.Search(context.Background(), "go generics", 6)
	require.NoError(t, err)

	// The title-less third entry is dropped.
	require.Len(t, results, 2)
	require.Equal(t, "An Introduction To Generics", results[0].Title)
	require.Equal(t, "https://go.dev/blog/generics", results[0].Href)
	require.Equal(t, "Generics add type parameters to Go.", results[0].Body)
	require.Equal(t, "Plain Link", results[1].Title)
	require.Equal(t, "https://example.com/plain", results[1].Href)
}

func TestSearchMaxResults(t *testing.T) {
	var page string
	for i := 0; i < 5; i++ {
		page += fmt.Sprintf(`<a class="result__a" href="https://example.com/%d">Result %d</a>
<a class="result__snippet" href="https://example.com/%d">snippet %d</a>
`, i, i, i, i)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	s := NewSearchService(srv.URL, zap.NewNop())
	results, err := s.Search(context.Background(), "q", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Equal(t, "Result 0", results[0].Title)
	require.Equal(t, "Result 2", results[2].Title)
}

func TestSearchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewSearchService(srv.URL, zap.NewNop())
	_, err := s.Search(context.Background(), "q", 6)
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}

func TestSearchSnippetAttribution(t *testing.T) {
	// The first result has no snippet anchor; the second result's body
	// must stay with the second result instead of shifting up.
	page := `
<div class="result">
  <a class="result__a" href="https://example.com/a">First</a>
</div>
<div class="result">
  <a class="result__a" href="https://example.com/b">Second</a>
  <a class="result__snippet" href="https://example.com/b">body for second</a>
</div>
`
	results := parseResultsPage(page, 6)
	require.Len(t, results, 2)
	require.Equal(t, "First", results[0].Title)
	require.Empty(t, results[0].Body)
	require.Equal(t, "Second", results[1].Title)
	require.Equal(t, "body for second", results[1].Body)
}

func TestExtractTargetURL(t *testing.T) {
	require.Equal(t, "https://go.dev/blog/generics",
		extractTargetURL("//duckduckgo.com/l/?uddg=https%3A%2F%2Fgo.dev%2Fblog%2Fgenerics&rut=abc"))
	require.Equal(t, "https://example.com/x", extractTargetURL("https://example.com/x"))
	require.Empty(t, extractTargetURL("javascript:alert(1)"))
	require.Empty(t, extractTargetURL("//duckduckgo.com/l/?other=1"))
}
