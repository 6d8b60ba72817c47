package movies

import (
	"context"
	"log/slog"

	"github.com/peliculas/peliculas/internal/apperr"
	"github.com/peliculas/peliculas/internal/graph"
)

// Similarity recommends movies connected to an anchor movie through shared
// collaborators and attributes within two traversal hops.
type Similarity struct {
	store  graph.Store
	logger *slog.Logger
}

// NewSimilarity creates the pairwise similarity recommender.
func NewSimilarity(store graph.Store) *Similarity {
	return &Similarity{
		store:  store,
		logger: slog.Default().With("component", "similarity"),
	}
}

// GetSimilarMovies returns up to limit movies ranked by weighted shared-node
// score. The anchor itself never appears in the output. An anchor with no
// relationships yields an empty list, not an error.
func (s *Similarity) GetSimilarMovies(ctx context.Context, movieID string, limit int) ([]Recommendation, error) {
	if movieID == "" {
		return nil, apperr.InvalidArgument("movie id must not be empty")
	}
	if limit < 1 {
		return nil, apperr.InvalidArgumentf("limit must be positive, got %d", limit)
	}

	rows, err := s.store.Execute(ctx, similarMoviesQuery, map[string]any{
		"movie_external_id": movieID,
	})
	if err != nil {
		s.logger.Error("similarity traversal failed", "movie_id", movieID, "error", err)
		return nil, err
	}

	recs := make([]Recommendation, 0, len(rows))
	for _, row := range rows {
		ref := candidateRef(row)
		if ref.ExternalID == movieID {
			// The query excludes the anchor already; keep the guard so a
			// schema drift can not leak the origin into results.
			continue
		}
		recs = append(recs, Recommendation{
			MovieRef: ref,
			Score:    Score(decodeIntermediates(row.Maps("shared"))),
		})
	}

	return rank(recs, limit), nil
}
