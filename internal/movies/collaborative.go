package movies

import (
	"context"
	"log/slog"

	"github.com/peliculas/peliculas/internal/apperr"
	"github.com/peliculas/peliculas/internal/graph"
)

// Collaborative recommends movies liked by users who share recent likes
// with the anchor user.
type Collaborative struct {
	store  graph.Store
	logger *slog.Logger
}

// NewCollaborative creates the collaborative-filtering recommender.
func NewCollaborative(store graph.Store) *Collaborative {
	return &Collaborative{
		store:  store,
		logger: slog.Default().With("component", "collaborative"),
	}
}

// GetRecommendations ranks candidate movies by the number of distinct
// similar users who liked them. A similar user is any other user who liked
// a movie in the anchor's recency window. Movies the anchor already liked
// never appear, regardless of signal strength; the score of a result is its
// distinct-similar-user count, so one enthusiastic user counts once.
//
// A user with no likes, or whose liked movies have no other likers, yields
// an empty list.
func (c *Collaborative) GetRecommendations(ctx context.Context, userID string, limit int) ([]Recommendation, error) {
	if userID == "" {
		return nil, apperr.InvalidArgument("user id must not be empty")
	}
	if limit < 1 {
		return nil, apperr.InvalidArgumentf("limit must be positive, got %d", limit)
	}

	rows, err := c.store.Execute(ctx, collaborativeQuery, map[string]any{
		"user_external_id": userID,
		"window":           recencyWindow,
	})
	if err != nil {
		c.logger.Error("collaborative traversal failed", "user_id", userID, "error", err)
		return nil, err
	}

	// One row per (candidate, similar user); count distinct users locally.
	type tally struct {
		ref   MovieRef
		users map[string]struct{}
	}
	order := make([]string, 0, len(rows))
	tallies := make(map[string]*tally, len(rows))
	for _, row := range rows {
		ref := candidateRef(row)
		t, seen := tallies[ref.ExternalID]
		if !seen {
			t = &tally{ref: ref, users: make(map[string]struct{})}
			tallies[ref.ExternalID] = t
			order = append(order, ref.ExternalID)
		}
		if similar := row.String("similar_user"); similar != "" && similar != userID {
			t.users[similar] = struct{}{}
		}
	}

	recs := make([]Recommendation, 0, len(order))
	for _, id := range order {
		t := tallies[id]
		if len(t.users) == 0 {
			continue
		}
		recs = append(recs, Recommendation{
			MovieRef: t.ref,
			Score:    float64(len(t.users)),
		})
	}

	return rank(recs, limit), nil
}
