// Command peliculas-ingest loads a movie dataset into the graph store and
// the search index, and mints development tokens.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/peliculas/peliculas/internal/auth"
	"github.com/peliculas/peliculas/internal/config"
	"github.com/peliculas/peliculas/internal/graph"
	"github.com/peliculas/peliculas/internal/ingestion"
	"github.com/peliculas/peliculas/internal/logging"
	"github.com/peliculas/peliculas/internal/search"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "peliculas-ingest",
		Short:         "Load the movie dataset into the graph store and search index",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(loadCmd(), tokenCmd())
	return root
}

func loadCmd() *cobra.Command {
	var (
		file       string
		batchSize  int
		skipSearch bool
	)

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Merge dataset movies and relationships into the graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.Setup(cfg.Log.Level, cfg.Log.JSON)

			ctx := context.Background()
			store, err := graph.NewNeo4jStore(ctx, graph.Neo4jConfig{
				URI:      cfg.Neo4j.URI,
				User:     cfg.Neo4j.User,
				Password: cfg.Neo4j.Password,
				Database: cfg.Neo4j.Database,
			})
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			var index *search.Elasticsearch
			if !skipSearch {
				index, err = search.NewElasticsearch(cfg.Search.Addresses, cfg.Search.Index)
				if err != nil {
					return err
				}
			}

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open dataset: %w", err)
			}
			defer f.Close()

			records, err := ingestion.ReadDataset(f)
			if err != nil {
				return err
			}

			loader := ingestion.NewLoader(store, index, batchSize)
			if err := loader.Load(ctx, records); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d movies\n", len(records))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "imdb.csv", "path to the dataset CSV")
	cmd.Flags().IntVar(&batchSize, "batch-size", ingestion.DefaultBatchSize, "rows per UNWIND batch")
	cmd.Flags().BoolVar(&skipSearch, "skip-search", false, "skip search index population")
	return cmd
}

func tokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue a bearer token for a user (development helper)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			token, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).Issue(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
