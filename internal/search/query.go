package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// BrowseParams configures a browse/search query over the book catalog.
type BrowseParams struct {
	Query string // User's search query (empty = browse everything)

	// Filters
	Kinds     []string // Filter by book kind (novel, comic, shortstory)
	Genre     string   // Filter by exact genre
	AgeRating string   // Filter by exact age rating

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string // "relevance", "title", "recent", "popular", "rating"
	SortOrder string // "asc", "desc"

	// Options
	IncludeFacets bool // Include kind/genre facet counts
	Highlight     bool // Include match highlighting
}

// DefaultBrowseParams returns sensible defaults.
func DefaultBrowseParams() BrowseParams {
	return BrowseParams{
		Limit:         20,
		Offset:        0,
		SortBy:        "relevance",
		SortOrder:     "desc",
		IncludeFacets: true,
		Highlight:     true,
	}
}

// BrowseResult holds the outcome of a browse query.
type BrowseResult struct {
	Query  string       `json:"query"`
	Total  uint64       `json:"total"`
	TookMs int64        `json:"took_ms"`
	Hits   []BrowseHit  `json:"hits"`
	Facets BrowseFacets `json:"facets,omitempty"`
}

// BrowseHit is a single matching book.
type BrowseHit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Title      string            `json:"title"`
	Author     string            `json:"author,omitempty"`
	Kind       string            `json:"kind,omitempty"`
	Genre      string            `json:"genre,omitempty"`
	AgeRating  string            `json:"age_rating,omitempty"`
	Views      int64             `json:"views"`
	Rating     float64           `json:"rating"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// BrowseFacets contains facet counts for the browse sidebar.
type BrowseFacets struct {
	Kinds  []FacetCount `json:"kinds,omitempty"`
	Genres []FacetCount `json:"genres,omitempty"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Browse executes a browse/search query.
func (s *Index) Browse(ctx context.Context, params BrowseParams) (*BrowseResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	searchQuery := buildBrowseQuery(params)

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	addSorting(searchRequest, params)

	if params.IncludeFacets {
		searchRequest.AddFacet("kind", bleve.NewFacetRequest("kind", 10))
		searchRequest.AddFacet("genre", bleve.NewFacetRequest("genre", 20))
	}

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("title")
		searchRequest.Highlight.AddField("author")
	}

	searchRequest.Fields = []string{
		"id", "title", "author", "kind", "genre", "age_rating", "views", "rating",
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute browse: %w", err)
	}

	result := &BrowseResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]BrowseHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		browseHit := BrowseHit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if t, ok := hit.Fields["title"].(string); ok {
			browseHit.Title = t
		}
		if a, ok := hit.Fields["author"].(string); ok {
			browseHit.Author = a
		}
		if k, ok := hit.Fields["kind"].(string); ok {
			browseHit.Kind = k
		}
		if g, ok := hit.Fields["genre"].(string); ok {
			browseHit.Genre = g
		}
		if ar, ok := hit.Fields["age_rating"].(string); ok {
			browseHit.AgeRating = ar
		}
		if v, ok := hit.Fields["views"].(float64); ok {
			browseHit.Views = int64(v)
		}
		if r, ok := hit.Fields["rating"].(float64); ok {
			browseHit.Rating = r
		}

		if len(hit.Fragments) > 0 {
			browseHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					browseHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, browseHit)
	}

	if params.IncludeFacets {
		result.Facets = extractFacets(searchResult)
	}

	return result, nil
}

// buildBrowseQuery constructs the Bleve query from params.
func buildBrowseQuery(params BrowseParams) query.Query {
	var queries []query.Query

	// Main text query across title and author, with fuzzy tolerance and
	// a prefix clause so partial titles still match while typing.
	if params.Query != "" {
		textQueries := []query.Query{}

		titleMatch := bleve.NewMatchQuery(params.Query)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)
		textQueries = append(textQueries, titleMatch)

		authorMatch := bleve.NewMatchQuery(params.Query)
		authorMatch.SetField("author")
		authorMatch.SetBoost(1.5)
		textQueries = append(textQueries, authorMatch)

		descMatch := bleve.NewMatchQuery(params.Query)
		descMatch.SetField("description")
		descMatch.SetBoost(0.5)
		textQueries = append(textQueries, descMatch)

		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("title")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("title")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	// Kind filter (OR across kinds)
	if len(params.Kinds) > 0 {
		kindQueries := make([]query.Query, len(params.Kinds))
		for i, k := range params.Kinds {
			kq := bleve.NewTermQuery(k)
			kq.SetField("kind")
			kindQueries[i] = kq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(kindQueries...))
	}

	// Genre filter (exact match)
	if params.Genre != "" {
		gq := bleve.NewTermQuery(params.Genre)
		gq.SetField("genre")
		queries = append(queries, gq)
	}

	// Age rating filter (exact match)
	if params.AgeRating != "" {
		aq := bleve.NewTermQuery(params.AgeRating)
		aq.SetField("age_rating")
		queries = append(queries, aq)
	}

	// Combine all queries with AND
	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params BrowseParams) {
	switch params.SortBy {
	case "title":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-title"})
		} else {
			req.SortBy([]string{"title"})
		}
	case "recent":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"created_at"})
		} else {
			req.SortBy([]string{"-created_at"})
		}
	case "popular":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"views"})
		} else {
			req.SortBy([]string{"-views"})
		}
	case "rating":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"rating"})
		} else {
			req.SortBy([]string{"-rating", "-views"})
		}
	default:
		// Relevance (score) is the default.
		req.SortBy([]string{"-_score"})
	}
}

// extractFacets converts Bleve facets to our format.
func extractFacets(result *bleve.SearchResult) BrowseFacets {
	facets := BrowseFacets{}

	if kindFacet, ok := result.Facets["kind"]; ok {
		for _, term := range kindFacet.Terms.Terms() {
			facets.Kinds = append(facets.Kinds, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	if genreFacet, ok := result.Facets["genre"]; ok {
		for _, term := range genreFacet.Terms.Terms() {
			facets.Genres = append(facets.Genres, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	return facets
}
