// Package api exposes the recommendation core over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/peliculas/peliculas/internal/apperr"
	"github.com/peliculas/peliculas/internal/auth"
	"github.com/peliculas/peliculas/internal/cache"
	"github.com/peliculas/peliculas/internal/movies"
	"github.com/peliculas/peliculas/internal/search"
)

// defaultLimit applies when the caller does not specify one.
const defaultLimit = 10

// HealthChecker reports backing-store connectivity.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server wires the core components to HTTP routes. All dependencies are
// injected; the server holds no state of its own.
type Server struct {
	catalog       *movies.Catalog
	likes         *movies.Likes
	similarity    *movies.Similarity
	collaborative *movies.Collaborative
	contentBased  *movies.ContentBased
	searcher      search.Searcher
	issuer        *auth.TokenIssuer
	movieCache    *cache.Client // nil when caching is disabled
	health        HealthChecker
	logger        *slog.Logger
}

// Deps carries the injected collaborators for NewServer.
type Deps struct {
	Catalog       *movies.Catalog
	Likes         *movies.Likes
	Similarity    *movies.Similarity
	Collaborative *movies.Collaborative
	ContentBased  *movies.ContentBased
	Searcher      search.Searcher
	Issuer        *auth.TokenIssuer
	MovieCache    *cache.Client
	Health        HealthChecker
}

// NewServer creates the HTTP server facade.
func NewServer(deps Deps) *Server {
	return &Server{
		catalog:       deps.Catalog,
		likes:         deps.Likes,
		similarity:    deps.Similarity,
		collaborative: deps.Collaborative,
		contentBased:  deps.ContentBased,
		searcher:      deps.Searcher,
		issuer:        deps.Issuer,
		movieCache:    deps.MovieCache,
		health:        deps.Health,
		logger:        slog.Default().With("component", "api"),
	}
}

// Routes builds the gin engine with all endpoints registered.
func (s *Server) Routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID())

	router.NoRoute(func(c *gin.Context) {
		respondMessage(c, http.StatusNotFound,
			"The endpoint you are trying to access could not be found on the server.")
	})
	router.NoMethod(func(c *gin.Context) {
		respondMessage(c, http.StatusMethodNotAllowed,
			"The method you are trying to use for this URL is not supported.")
	})

	router.GET("/health", s.handleHealth)
	router.GET("/search/movies", s.handleSearchMovies)
	router.GET("/movies/:movie_id", s.handleGetMovie)
	router.GET("/movies/:movie_id/similar", s.handleSimilarMovies)

	authed := router.Group("/", s.authRequired())
	authed.GET("/user/movies", s.handleUserLikedMovies)
	authed.POST("/movies/:movie_id/like", s.handleCreateLike)
	authed.DELETE("/movies/:movie_id/like", s.handleDeleteLike)
	authed.GET("/movies/recommendations/collaborative", s.handleCollaborative)
	authed.GET("/movies/recommendations/content-based", s.handleContentBased)

	return router
}

func (s *Server) handleHealth(c *gin.Context) {
	if err := s.health.HealthCheck(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "OK")
}

func (s *Server) handleGetMovie(c *gin.Context) {
	movieID := c.Param("movie_id")
	ctx := c.Request.Context()

	if s.movieCache != nil {
		if detail := s.movieCache.GetMovie(ctx, movieID); detail != nil {
			respondOK(c, http.StatusOK, detail)
			return
		}
	}

	detail, err := s.catalog.GetMovie(ctx, movieID)
	if err != nil {
		respondError(c, err)
		return
	}

	if s.movieCache != nil {
		s.movieCache.SetMovie(ctx, detail)
	}
	respondOK(c, http.StatusOK, detail)
}

func (s *Server) handleSearchMovies(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		respondMessage(c, http.StatusUnprocessableEntity,
			"Required field query is not provided in the query params.")
		return
	}
	limit, err := parseLimit(c)
	if err != nil {
		respondError(c, err)
		return
	}

	docs, err := s.searcher.SearchMovies(c.Request.Context(), query, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, docs)
}

func (s *Server) handleSimilarMovies(c *gin.Context) {
	limit, err := parseLimit(c)
	if err != nil {
		respondError(c, err)
		return
	}

	recs, err := s.similarity.GetSimilarMovies(c.Request.Context(), c.Param("movie_id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, recs)
}

func (s *Server) handleCreateLike(c *gin.Context) {
	like, err := s.likes.CreateLike(c.Request.Context(), currentUser(c), c.Param("movie_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, like)
}

func (s *Server) handleDeleteLike(c *gin.Context) {
	if err := s.likes.DeleteLike(c.Request.Context(), currentUser(c), c.Param("movie_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusNoContent, envelope{Success: true})
}

func (s *Server) handleUserLikedMovies(c *gin.Context) {
	liked, err := s.likes.GetLikedMovies(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, liked)
}

func (s *Server) handleCollaborative(c *gin.Context) {
	limit, err := parseLimit(c)
	if err != nil {
		respondError(c, err)
		return
	}

	recs, err := s.collaborative.GetRecommendations(c.Request.Context(), currentUser(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, recs)
}

func (s *Server) handleContentBased(c *gin.Context) {
	limit, err := parseLimit(c)
	if err != nil {
		respondError(c, err)
		return
	}

	recs, err := s.contentBased.GetRecommendations(c.Request.Context(), currentUser(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, recs)
}

// parseLimit reads the limit query parameter, defaulting to 10. Malformed
// or non-positive values are rejected before any core call.
func parseLimit(c *gin.Context) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.InvalidArgumentf("limit must be an integer, got %q", raw)
	}
	if limit < 1 {
		return 0, apperr.InvalidArgumentf("limit must be positive, got %d", limit)
	}
	return limit, nil
}
