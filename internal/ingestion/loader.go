package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/peliculas/peliculas/internal/graph"
	"github.com/peliculas/peliculas/internal/search"
)

// DefaultBatchSize balances round trips against transaction size for the
// UNWIND merges below.
const DefaultBatchSize = 500

// Instead of one MERGE round trip per node, rows are sent in UNWIND batches
// so the store optimizes execution:
//
//	UNWIND $rows AS row MERGE (...{key: row.key}) ...
const mergeMoviesBatch = `
	UNWIND $rows AS row
	MERGE (movie:Movie {external_id: row.external_id})
	SET movie.title = row.title,
		movie.original_title = row.original_title,
		movie.description = row.description
`

// relationSpec describes one relation type's merge shape: the attribute
// label and whether the edge points at the movie (people, companies) or
// away from it (categorical attributes).
type relationSpec struct {
	label    string
	relation string
	toMovie  bool
	values   func(MovieRecord) []string
}

var relationSpecs = []relationSpec{
	{"Genre", "IN_GENRE", false, func(r MovieRecord) []string { return r.Genres }},
	{"Country", "IN_COUNTRY", false, func(r MovieRecord) []string { return r.Countries }},
	{"Director", "DIRECTED", true, func(r MovieRecord) []string { return r.Directors }},
	{"Writer", "WROTE", true, func(r MovieRecord) []string { return r.Writers }},
	{"ProductionCompany", "PRODUCED", true, func(r MovieRecord) []string { return r.ProductionCompanies }},
	{"Actor", "ACTED_IN", true, func(r MovieRecord) []string { return r.Actors }},
}

func (s relationSpec) query() string {
	pattern := fmt.Sprintf("MERGE (movie)-[:%s]->(node)", s.relation)
	if s.toMovie {
		pattern = fmt.Sprintf("MERGE (node)-[:%s]->(movie)", s.relation)
	}
	return fmt.Sprintf(`
	UNWIND $rows AS row
	MATCH (movie:Movie {external_id: row.external_id})
	MERGE (node:%s {name: row.name})
	%s
`, s.label, pattern)
}

// Loader writes parsed dataset records into the graph and, optionally, the
// search index.
type Loader struct {
	store     graph.Store
	index     *search.Elasticsearch // nil skips search indexing
	batchSize int
	logger    *slog.Logger
}

// NewLoader creates a loader. A nil index skips search indexing; a
// non-positive batch size falls back to the default.
func NewLoader(store graph.Store, index *search.Elasticsearch, batchSize int) *Loader {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &Loader{
		store:     store,
		index:     index,
		batchSize: batchSize,
		logger:    slog.Default().With("component", "ingestion"),
	}
}

// Load merges all records into the graph, one UNWIND batch per node kind,
// then indexes the movie documents for lexical search. Re-running over the
// same dataset is a no-op thanks to merge semantics.
func (l *Loader) Load(ctx context.Context, records []MovieRecord) error {
	if err := l.loadMovies(ctx, records); err != nil {
		return err
	}
	for _, spec := range relationSpecs {
		if err := l.loadRelations(ctx, spec, records); err != nil {
			return err
		}
	}
	if l.index != nil {
		if err := l.indexMovies(ctx, records); err != nil {
			return err
		}
	}
	l.logger.Info("dataset loaded", "movies", len(records))
	return nil
}

func (l *Loader) loadMovies(ctx context.Context, records []MovieRecord) error {
	rows := make([]map[string]any, len(records))
	for i, r := range records {
		rows[i] = map[string]any{
			"external_id":    r.ExternalID,
			"title":          r.Title,
			"original_title": r.OriginalTitle,
			"description":    r.Description,
		}
	}
	return l.executeBatches(ctx, mergeMoviesBatch, rows, "Movie")
}

func (l *Loader) loadRelations(ctx context.Context, spec relationSpec, records []MovieRecord) error {
	var rows []map[string]any
	for _, r := range records {
		for _, name := range spec.values(r) {
			rows = append(rows, map[string]any{
				"external_id": r.ExternalID,
				"name":        name,
			})
		}
	}
	return l.executeBatches(ctx, spec.query(), rows, spec.label)
}

func (l *Loader) executeBatches(ctx context.Context, query string, rows []map[string]any, kind string) error {
	for start := 0; start < len(rows); start += l.batchSize {
		end := start + l.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if _, err := l.store.Execute(ctx, query, map[string]any{"rows": rows[start:end]}); err != nil {
			return fmt.Errorf("batch %s merge failed (rows %d-%d): %w", kind, start, end, err)
		}
	}
	l.logger.Debug("batch merge complete", "kind", kind, "rows", len(rows))
	return nil
}

func (l *Loader) indexMovies(ctx context.Context, records []MovieRecord) error {
	for _, r := range records {
		doc := search.MovieDoc{
			ExternalID:    r.ExternalID,
			Title:         r.Title,
			OriginalTitle: r.OriginalTitle,
			Description:   r.Description,
		}
		if err := l.index.IndexMovie(ctx, doc); err != nil {
			return fmt.Errorf("failed to index movie %s: %w", r.ExternalID, err)
		}
	}
	l.logger.Info("search index populated", "documents", len(records))
	return nil
}
