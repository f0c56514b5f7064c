package domain

// SearchResult is one record returned by the web search service.
type SearchResult struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// SearchResponse carries an optional natural-language answer plus raw
// result snippets. An empty response is valid input for extraction.
type SearchResponse struct {
	Answer  string         `json:"answer,omitempty"`
	Results []SearchResult `json:"results"`
}

func (r SearchResponse) Empty() bool {
	return r.Answer == "" && len(r.Results) == 0
}
