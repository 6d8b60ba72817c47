// Command peliculas-server runs the movie recommendation API.
//
// The process entry point owns the lifecycle of every external collaborator
// (graph store, search cluster, cache); components receive them injected and
// never open connections themselves.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/peliculas/peliculas/internal/api"
	"github.com/peliculas/peliculas/internal/auth"
	"github.com/peliculas/peliculas/internal/cache"
	"github.com/peliculas/peliculas/internal/config"
	"github.com/peliculas/peliculas/internal/graph"
	"github.com/peliculas/peliculas/internal/logging"
	"github.com/peliculas/peliculas/internal/movies"
	"github.com/peliculas/peliculas/internal/search"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.Setup(cfg.Log.Level, cfg.Log.JSON)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := graph.NewNeo4jStore(ctx, graph.Neo4jConfig{
		URI:          cfg.Neo4j.URI,
		User:         cfg.Neo4j.User,
		Password:     cfg.Neo4j.Password,
		Database:     cfg.Neo4j.Database,
		QueryTimeout: cfg.Neo4j.QueryTimeout,
	})
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	searcher, err := search.NewElasticsearch(cfg.Search.Addresses, cfg.Search.Index)
	if err != nil {
		return err
	}

	var movieCache *cache.Client
	if cfg.Cache.Enabled {
		movieCache, err = cache.NewClient(ctx, cfg.Cache.Addr, cfg.Cache.TTL)
		if err != nil {
			// The cache is an optimization; the server runs without it.
			logger.Warn("cache unavailable, continuing without it", "error", err)
		} else {
			defer movieCache.Close()
		}
	}

	server := api.NewServer(api.Deps{
		Catalog:       movies.NewCatalog(store),
		Likes:         movies.NewLikes(store, nil),
		Similarity:    movies.NewSimilarity(store),
		Collaborative: movies.NewCollaborative(store),
		ContentBased:  movies.NewContentBased(store),
		Searcher:      searcher,
		Issuer:        auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		MovieCache:    movieCache,
		Health:        store,
	})

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
