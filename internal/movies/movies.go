// Package movies implements the recommendation core: like-edge mutation and
// the three recommenders (similarity, collaborative, content-based) over the
// entity graph.
package movies

import (
	"context"
	"log/slog"
	"time"

	"github.com/peliculas/peliculas/internal/apperr"
	"github.com/peliculas/peliculas/internal/graph"
)

// MovieRef identifies a movie in a result list.
type MovieRef struct {
	ExternalID string `json:"external_id"`
	Title      string `json:"title"`
}

// Recommendation is a scored movie in a ranked result list.
type Recommendation struct {
	MovieRef
	Score float64 `json:"score"`
}

// MovieDetail is a hydrated movie record with its collected relationships.
type MovieDetail struct {
	ExternalID          string   `json:"external_id"`
	Title               string   `json:"title"`
	OriginalTitle       string   `json:"original_title,omitempty"`
	Description         string   `json:"description,omitempty"`
	Actors              []string `json:"actors"`
	Writers             []string `json:"writers"`
	Directors           []string `json:"directors"`
	ProductionCompanies []string `json:"production_companies"`
	Genres              []string `json:"genres"`
	Countries           []string `json:"countries"`
}

// Clock supplies timestamps for LIKED edge creation. It must be
// monotonically non-decreasing across creations so recency ordering holds.
type Clock func() time.Time

// recencyWindow bounds collaborative/content-based fan-out to the N most
// recently liked movies. Fixed design constant.
const recencyWindow = 10

// Catalog reads hydrated movie records from the graph.
type Catalog struct {
	store  graph.Store
	logger *slog.Logger
}

// NewCatalog creates a catalog backed by the given store.
func NewCatalog(store graph.Store) *Catalog {
	return &Catalog{
		store:  store,
		logger: slog.Default().With("component", "catalog"),
	}
}

// GetMovie returns the movie with the given external id, hydrated with its
// distinct collaborator and attribute names. Fails with NotFound when the
// movie does not exist.
func (c *Catalog) GetMovie(ctx context.Context, movieID string) (*MovieDetail, error) {
	if movieID == "" {
		return nil, apperr.InvalidArgument("movie id must not be empty")
	}

	rows, err := c.store.Execute(ctx, getMovieQuery, map[string]any{
		"movie_external_id": movieID,
	})
	if err != nil {
		c.logger.Error("movie hydration failed", "movie_id", movieID, "error", err)
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.NotFoundf("movie %s does not exist", movieID)
	}

	row := rows[0]
	return &MovieDetail{
		ExternalID:          row.String("external_id"),
		Title:               row.String("title"),
		OriginalTitle:       row.String("original_title"),
		Description:         row.String("description"),
		Actors:              row.Strings("actors"),
		Writers:             row.Strings("writers"),
		Directors:           row.Strings("directors"),
		ProductionCompanies: row.Strings("production_companies"),
		Genres:              row.Strings("genres"),
		Countries:           row.Strings("countries"),
	}, nil
}
