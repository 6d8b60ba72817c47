package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peliculas/peliculas/internal/apperr"
	"github.com/peliculas/peliculas/internal/auth"
	"github.com/peliculas/peliculas/internal/graph"
	"github.com/peliculas/peliculas/internal/movies"
	"github.com/peliculas/peliculas/internal/search"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// scriptedStore answers graph queries by matching fragments of the query
// text, which keeps the HTTP tests independent of the core's query
// constants.
type scriptedStore struct {
	answers map[string]func(params map[string]any) ([]graph.Row, error)
}

func (s *scriptedStore) Execute(_ context.Context, query string, params map[string]any) ([]graph.Row, error) {
	for fragment, answer := range s.answers {
		if strings.Contains(query, fragment) {
			return answer(params)
		}
	}
	return nil, errors.New("unscripted query")
}

type stubSearcher struct {
	docs []search.MovieDoc
	err  error

	gotQuery string
	gotLimit int
}

func (s *stubSearcher) SearchMovies(_ context.Context, query string, limit int) ([]search.MovieDoc, error) {
	s.gotQuery = query
	s.gotLimit = limit
	return s.docs, s.err
}

type okHealth struct{}

func (okHealth) HealthCheck(context.Context) error { return nil }

func newTestServer(store graph.Store, searcher search.Searcher) (*Server, *auth.TokenIssuer) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	srv := NewServer(Deps{
		Catalog:       movies.NewCatalog(store),
		Likes:         movies.NewLikes(store, nil),
		Similarity:    movies.NewSimilarity(store),
		Collaborative: movies.NewCollaborative(store),
		ContentBased:  movies.NewContentBased(store),
		Searcher:      searcher,
		Issuer:        issuer,
		Health:        okHealth{},
	})
	return srv, issuer
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestAuthRequired(t *testing.T) {
	srv, issuer := newTestServer(&scriptedStore{}, &stubSearcher{})
	router := srv.Routes()

	rec := doRequest(t, router, http.MethodGet, "/user/movies", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/user/movies", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	store := &scriptedStore{answers: map[string]func(map[string]any) ([]graph.Row, error){
		"ORDER BY liked.at DESC": func(params map[string]any) ([]graph.Row, error) {
			assert.Equal(t, "user-5", params["user_external_id"])
			return []graph.Row{{"external_id": "tt001", "title": "Seven Samurai"}}, nil
		},
	}}
	srv, issuer = newTestServer(store, &stubSearcher{})
	token, err := issuer.Issue("user-5")
	require.NoError(t, err)

	rec = doRequest(t, srv.Routes(), http.MethodGet, "/user/movies", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
}

func TestSearchEndpoint(t *testing.T) {
	searcher := &stubSearcher{docs: []search.MovieDoc{{ExternalID: "tt001", Title: "Seven Samurai"}}}
	srv, _ := newTestServer(&scriptedStore{}, searcher)
	router := srv.Routes()

	// Missing query parameter is rejected before the searcher runs.
	rec := doRequest(t, router, http.MethodGet, "/search/movies", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/search/movies?query=samurai", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "samurai", searcher.gotQuery)
	assert.Equal(t, defaultLimit, searcher.gotLimit)

	rec = doRequest(t, router, http.MethodGet, "/search/movies?query=samurai&limit=3", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, searcher.gotLimit)
}

func TestLimitValidation(t *testing.T) {
	srv, _ := newTestServer(&scriptedStore{}, &stubSearcher{})
	router := srv.Routes()

	for _, limit := range []string{"0", "-1", "abc"} {
		rec := doRequest(t, router, http.MethodGet, "/search/movies?query=x&limit="+limit, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", limit)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	store := &scriptedStore{answers: map[string]func(map[string]any) ([]graph.Row, error){
		"OPTIONAL MATCH": func(map[string]any) ([]graph.Row, error) {
			return nil, nil // zero rows: movie absent
		},
		"collect(DISTINCT {kind:": func(map[string]any) ([]graph.Row, error) {
			return nil, apperr.Unavailable(errors.New("connection refused"), "graph query failed")
		},
	}}
	srv, _ := newTestServer(store, &stubSearcher{})
	router := srv.Routes()

	rec := doRequest(t, router, http.MethodGet, "/movies/tt999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)

	rec = doRequest(t, router, http.MethodGet, "/movies/tt001/similar", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLikeEndpoints(t *testing.T) {
	likedAt := time.Now().UnixMilli()
	store := &scriptedStore{answers: map[string]func(map[string]any) ([]graph.Row, error){
		"ON CREATE SET liked.at": func(params map[string]any) ([]graph.Row, error) {
			return []graph.Row{{
				"user_id":  params["user_external_id"],
				"movie_id": params["movie_external_id"],
				"liked_at": likedAt,
			}}, nil
		},
		"DELETE liked": func(map[string]any) ([]graph.Row, error) {
			return nil, nil
		},
	}}
	srv, issuer := newTestServer(store, &stubSearcher{})
	router := srv.Routes()
	token, err := issuer.Issue("user-5")
	require.NoError(t, err)

	rec := doRequest(t, router, http.MethodPost, "/movies/tt001/like", token)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, "/movies/tt001/like", token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newTestServer(&scriptedStore{}, &stubSearcher{})
	rec := doRequest(t, srv.Routes(), http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
}
