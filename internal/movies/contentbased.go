package movies

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/peliculas/peliculas/internal/apperr"
	"github.com/peliculas/peliculas/internal/graph"
)

// ContentBased recommends movies sharing collaborators and attributes with
// the user's recently liked movies.
type ContentBased struct {
	store  graph.Store
	logger *slog.Logger
}

// NewContentBased creates the content-based recommender.
func NewContentBased(store graph.Store) *ContentBased {
	return &ContentBased{
		store:  store,
		logger: slog.Default().With("component", "contentbased"),
	}
}

// GetRecommendations unions the two-hop similarity neighborhoods of the
// user's recency window and ranks candidates by weighted shared-node score.
// A candidate reached from several liked movies accumulates the distinct
// intermediates of all of them. The user's full like set is excluded from
// the output, not just the window.
func (c *ContentBased) GetRecommendations(ctx context.Context, userID string, limit int) ([]Recommendation, error) {
	if userID == "" {
		return nil, apperr.InvalidArgument("user id must not be empty")
	}
	if limit < 1 {
		return nil, apperr.InvalidArgumentf("limit must be positive, got %d", limit)
	}

	liked, err := c.store.Execute(ctx, likedMoviesQuery, map[string]any{
		"user_external_id": userID,
	})
	if err != nil {
		c.logger.Error("liked set fetch failed", "user_id", userID, "error", err)
		return nil, err
	}
	if len(liked) == 0 {
		return []Recommendation{}, nil
	}

	likedSet := make(map[string]struct{}, len(liked))
	for _, row := range liked {
		likedSet[row.String("external_id")] = struct{}{}
	}

	// likedMoviesQuery orders by LIKED.at descending, so the recency window
	// is its prefix.
	anchors := make([]string, 0, recencyWindow)
	for _, row := range liked {
		anchors = append(anchors, row.String("external_id"))
		if len(anchors) == recencyWindow {
			break
		}
	}

	// One traversal per anchor, in parallel. Results are merged in window
	// order afterwards so ranking stays deterministic.
	perAnchor := make([][]graph.Row, len(anchors))
	g, gctx := errgroup.WithContext(ctx)
	for i, anchor := range anchors {
		i, anchor := i, anchor
		g.Go(func() error {
			rows, err := c.store.Execute(gctx, similarMoviesQuery, map[string]any{
				"movie_external_id": anchor,
			})
			if err != nil {
				return err
			}
			perAnchor[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.logger.Error("content-based traversal failed", "user_id", userID, "error", err)
		return nil, err
	}

	order := make([]string, 0)
	refs := make(map[string]MovieRef)
	evidence := make(map[string]intermediateSet)
	for _, rows := range perAnchor {
		for _, row := range rows {
			ref := candidateRef(row)
			if _, isLiked := likedSet[ref.ExternalID]; isLiked {
				continue
			}
			set, seen := evidence[ref.ExternalID]
			if !seen {
				set = make(intermediateSet)
				evidence[ref.ExternalID] = set
				refs[ref.ExternalID] = ref
				order = append(order, ref.ExternalID)
			}
			set.add(decodeIntermediates(row.Maps("shared")))
		}
	}

	recs := make([]Recommendation, 0, len(order))
	for _, id := range order {
		recs = append(recs, Recommendation{
			MovieRef: refs[id],
			Score:    evidence[id].score(),
		})
	}

	return rank(recs, limit), nil
}
