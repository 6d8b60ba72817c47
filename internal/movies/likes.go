package movies

import (
	"context"
	"log/slog"
	"time"

	"github.com/peliculas/peliculas/internal/apperr"
	"github.com/peliculas/peliculas/internal/graph"
)

// Like records a LIKED edge between a user and a movie.
type Like struct {
	UserID  string    `json:"user_id"`
	MovieID string    `json:"movie_id"`
	LikedAt time.Time `json:"liked_at"`
}

// Likes creates and removes LIKED edges. It is the only component that
// mutates the graph at runtime.
type Likes struct {
	store  graph.Store
	clock  Clock
	logger *slog.Logger
}

// NewLikes creates the like mutator. A nil clock defaults to time.Now.
func NewLikes(store graph.Store, clock Clock) *Likes {
	if clock == nil {
		clock = time.Now
	}
	return &Likes{
		store:  store,
		clock:  clock,
		logger: slog.Default().With("component", "likes"),
	}
}

// CreateLike upserts the user node and the LIKED edge to the given movie.
// Idempotent: re-liking keeps the original edge and its timestamp. The
// movie must already exist; the user is created lazily on first like.
//
// Concurrent creations for the same (user, movie) pair converge to one edge
// with one timestamp through the store's merge semantics; no application
// locking is involved.
func (l *Likes) CreateLike(ctx context.Context, userID, movieID string) (*Like, error) {
	if userID == "" {
		return nil, apperr.InvalidArgument("user id must not be empty")
	}
	if movieID == "" {
		return nil, apperr.InvalidArgument("movie id must not be empty")
	}

	rows, err := l.store.Execute(ctx, createLikeQuery, map[string]any{
		"user_external_id":  userID,
		"movie_external_id": movieID,
		"liked_at":          l.clock().UnixMilli(),
	})
	if err != nil {
		l.logger.Error("failed to create liked relationship",
			"user_id", userID, "movie_id", movieID, "error", err)
		return nil, err
	}
	// The MATCH on the movie precedes the merges: zero rows means the movie
	// does not exist and nothing was written.
	if len(rows) == 0 {
		return nil, apperr.NotFoundf("movie %s does not exist", movieID).
			WithContext("user_id", userID)
	}

	row := rows[0]
	like := &Like{
		UserID:  row.String("user_id"),
		MovieID: row.String("movie_id"),
		LikedAt: time.UnixMilli(row.Int64("liked_at")),
	}

	l.logger.Info("liked relationship created",
		"user_id", like.UserID, "movie_id", like.MovieID)
	return like, nil
}

// DeleteLike removes the LIKED edge if present. Absence is not an error.
func (l *Likes) DeleteLike(ctx context.Context, userID, movieID string) error {
	if userID == "" {
		return apperr.InvalidArgument("user id must not be empty")
	}
	if movieID == "" {
		return apperr.InvalidArgument("movie id must not be empty")
	}

	_, err := l.store.Execute(ctx, deleteLikeQuery, map[string]any{
		"user_external_id":  userID,
		"movie_external_id": movieID,
	})
	if err != nil {
		l.logger.Error("failed to delete liked relationship",
			"user_id", userID, "movie_id", movieID, "error", err)
		return err
	}

	l.logger.Info("liked relationship deleted", "user_id", userID, "movie_id", movieID)
	return nil
}

// GetLikedMovies returns the movies the user has liked, most recent first.
// A user with no likes yields an empty list.
func (l *Likes) GetLikedMovies(ctx context.Context, userID string) ([]MovieRef, error) {
	if userID == "" {
		return nil, apperr.InvalidArgument("user id must not be empty")
	}

	rows, err := l.store.Execute(ctx, likedMoviesQuery, map[string]any{
		"user_external_id": userID,
	})
	if err != nil {
		l.logger.Error("failed to fetch liked movies", "user_id", userID, "error", err)
		return nil, err
	}

	liked := make([]MovieRef, 0, len(rows))
	for _, row := range rows {
		liked = append(liked, MovieRef{
			ExternalID: row.String("external_id"),
			Title:      row.String("title"),
		})
	}
	return liked, nil
}
