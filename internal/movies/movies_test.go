package movies

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peliculas/peliculas/internal/apperr"
	"github.com/peliculas/peliculas/internal/graph"
)

func TestGetMovieHydration(t *testing.T) {
	store := &fakeStore{execute: func(query string, params map[string]any) ([]graph.Row, error) {
		require.Equal(t, getMovieQuery, query)
		require.Equal(t, "tt001", params["movie_external_id"])
		return []graph.Row{{
			"external_id":          "tt001",
			"title":                "Seven Samurai",
			"original_title":       "Shichinin no Samurai",
			"description":          "A village hires seven ronin.",
			"actors":               []any{"Toshiro Mifune", "Takashi Shimura"},
			"writers":              []any{"Akira Kurosawa"},
			"directors":            []any{"Akira Kurosawa"},
			"production_companies": []any{"Toho"},
			"genres":               []any{"Drama", "Action"},
			"countries":            []any{"Japan"},
		}}, nil
	}}

	movie, err := NewCatalog(store).GetMovie(context.Background(), "tt001")
	require.NoError(t, err)
	assert.Equal(t, "Seven Samurai", movie.Title)
	assert.Equal(t, "Shichinin no Samurai", movie.OriginalTitle)
	assert.Equal(t, []string{"Toshiro Mifune", "Takashi Shimura"}, movie.Actors)
	assert.Equal(t, []string{"Drama", "Action"}, movie.Genres)
	assert.Equal(t, []string{"Japan"}, movie.Countries)
}

func TestGetMovieWithoutRelationships(t *testing.T) {
	// A movie with no edges of some relation type still hydrates; the
	// optional matches collect nulls that are dropped on decode.
	store := &fakeStore{execute: func(query string, params map[string]any) ([]graph.Row, error) {
		return []graph.Row{{
			"external_id": "tt002",
			"title":       "Obscure Short",
			"actors":      []any{nil},
			"genres":      []any{nil},
		}}, nil
	}}

	movie, err := NewCatalog(store).GetMovie(context.Background(), "tt002")
	require.NoError(t, err)
	assert.Empty(t, movie.Actors)
	assert.Empty(t, movie.Genres)
}

func TestGetMovieNotFound(t *testing.T) {
	store := &fakeStore{execute: func(string, map[string]any) ([]graph.Row, error) {
		return nil, nil
	}}

	_, err := NewCatalog(store).GetMovie(context.Background(), "tt999")
	assert.True(t, apperr.IsNotFound(err), "expected NotFound, got %v", err)
}

func TestGetMovieInvalidArgument(t *testing.T) {
	_, err := NewCatalog(&fakeStore{}).GetMovie(context.Background(), "")
	assert.True(t, apperr.IsInvalidArgument(err))
}
