// Package search provides free-text lexical search over the movie index.
// The core consumes the Searcher interface; the index itself is owned by an
// external search cluster and populated by the ingest tool.
package search

import (
	"context"
)

// MovieDoc is an indexed movie document.
type MovieDoc struct {
	ExternalID    string `json:"external_id"`
	Title         string `json:"title"`
	OriginalTitle string `json:"original_title,omitempty"`
	Description   string `json:"description,omitempty"`
}

// Searcher runs lexical queries over movie title and description.
type Searcher interface {
	SearchMovies(ctx context.Context, query string, limit int) ([]MovieDoc, error)
}
