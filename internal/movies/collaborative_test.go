package movies

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peliculas/peliculas/internal/apperr"
	"github.com/peliculas/peliculas/internal/graph"
)

func collaborativeRows(rows []graph.Row) *fakeStore {
	return &fakeStore{execute: func(query string, params map[string]any) ([]graph.Row, error) {
		if query != collaborativeQuery {
			return nil, errors.New("unexpected query")
		}
		return rows, nil
	}}
}

func TestCollaborativeDistinctUserCount(t *testing.T) {
	// U1 liked {M1, M2}; U2 liked {M1, M3}; U3 liked {M2, M3}. For U1, M3
	// is liked by two distinct similar users and must rank first.
	store := collaborativeRows([]graph.Row{
		{"external_id": "M3", "title": "Movie 3", "similar_user": "U2"},
		{"external_id": "M4", "title": "Movie 4", "similar_user": "U2"},
		{"external_id": "M3", "title": "Movie 3", "similar_user": "U3"},
	})

	recs, err := NewCollaborative(store).GetRecommendations(context.Background(), "U1", 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "M3", recs[0].ExternalID)
	assert.Equal(t, 2.0, recs[0].Score)
	assert.Equal(t, "M4", recs[1].ExternalID)
	assert.Equal(t, 1.0, recs[1].Score)
}

func TestCollaborativeSingleEnthusiastCountsOnce(t *testing.T) {
	// The same similar user reached through two window movies is one vote.
	store := collaborativeRows([]graph.Row{
		{"external_id": "M5", "title": "Movie 5", "similar_user": "U2"},
		{"external_id": "M5", "title": "Movie 5", "similar_user": "U2"},
		{"external_id": "M5", "title": "Movie 5", "similar_user": "U2"},
	})

	recs, err := NewCollaborative(store).GetRecommendations(context.Background(), "U1", 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 1.0, recs[0].Score)
}

func TestCollaborativeAnchorNeverCountsAsSimilar(t *testing.T) {
	// Defensive: a row attributing the anchor user as its own similar user
	// contributes nothing.
	store := collaborativeRows([]graph.Row{
		{"external_id": "M5", "title": "Movie 5", "similar_user": "U1"},
	})

	recs, err := NewCollaborative(store).GetRecommendations(context.Background(), "U1", 10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestCollaborativeEmptyResults(t *testing.T) {
	// Zero likes, or liked movies with no other likers, both surface as an
	// empty row set from the traversal.
	recs, err := NewCollaborative(collaborativeRows(nil)).GetRecommendations(context.Background(), "U1", 10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestCollaborativeLimit(t *testing.T) {
	store := collaborativeRows([]graph.Row{
		{"external_id": "M3", "title": "Movie 3", "similar_user": "U2"},
		{"external_id": "M4", "title": "Movie 4", "similar_user": "U3"},
		{"external_id": "M5", "title": "Movie 5", "similar_user": "U4"},
	})

	recs, err := NewCollaborative(store).GetRecommendations(context.Background(), "U1", 2)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestCollaborativeDeterministicOrdering(t *testing.T) {
	rows := []graph.Row{
		{"external_id": "M3", "title": "Movie 3", "similar_user": "U2"},
		{"external_id": "M4", "title": "Movie 4", "similar_user": "U3"},
		{"external_id": "M5", "title": "Movie 5", "similar_user": "U4"},
	}
	collab := NewCollaborative(collaborativeRows(rows))

	first, err := collab.GetRecommendations(context.Background(), "U1", 10)
	require.NoError(t, err)
	second, err := collab.GetRecommendations(context.Background(), "U1", 10)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCollaborativeInvalidArguments(t *testing.T) {
	collab := NewCollaborative(collaborativeRows(nil))

	_, err := collab.GetRecommendations(context.Background(), "", 10)
	assert.True(t, apperr.IsInvalidArgument(err))

	_, err = collab.GetRecommendations(context.Background(), "U1", 0)
	assert.True(t, apperr.IsInvalidArgument(err))
}
