package graph

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/peliculas/peliculas/internal/apperr"
)

// Neo4jStore implements Store over the Neo4j bolt driver.
//
// Stateless per request: every Execute call runs in its own driver-managed
// session, acquired at the start of the call and released on every exit path.
type Neo4jStore struct {
	driver       neo4j.DriverWithContext
	logger       *slog.Logger
	database     string
	queryTimeout time.Duration
}

// Neo4jConfig holds connection settings for the graph store.
type Neo4jConfig struct {
	URI          string
	User         string
	Password     string
	Database     string
	QueryTimeout time.Duration
}

// NewNeo4jStore creates a connected store. Fails fast when the store is
// unreachable so the process does not come up half-wired.
func NewNeo4jStore(ctx context.Context, cfg Neo4jConfig) (*Neo4jStore, error) {
	if cfg.URI == "" || cfg.User == "" || cfg.Password == "" {
		return nil, apperr.InvalidArgument("neo4j credentials missing")
	}
	if cfg.Database == "" {
		cfg.Database = "neo4j"
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI,
		neo4j.BasicAuth(cfg.User, cfg.Password, ""),
		func(config *neo4j.Config) {
			config.MaxConnectionPoolSize = 50
			config.ConnectionAcquisitionTimeout = 60 * time.Second
			config.MaxConnectionLifetime = time.Hour
			config.SocketConnectTimeout = 5 * time.Second
			config.SocketKeepalive = true
		})
	if err != nil {
		return nil, apperr.Unavailable(err, "failed to create neo4j driver")
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, apperr.Unavailablef(err, "failed to connect to neo4j at %s", cfg.URI)
	}

	logger := slog.Default().With("component", "neo4j")
	logger.Info("neo4j store connected", "uri", cfg.URI, "database", cfg.Database)

	return &Neo4jStore{
		driver:       driver,
		logger:       logger,
		database:     cfg.Database,
		queryTimeout: cfg.QueryTimeout,
	}, nil
}

// Execute runs a parameterized Cypher query and returns the result rows.
// Read-only queries are routed to read replicas in cluster deployments.
func (s *Neo4jStore) Execute(ctx context.Context, query string, params map[string]any) ([]Row, error) {
	queryCtx := ctx
	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		queryCtx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	opts := []neo4j.ExecuteQueryConfigurationOption{
		neo4j.ExecuteQueryWithDatabase(s.database),
	}
	if isReadQuery(query) {
		opts = append(opts, neo4j.ExecuteQueryWithReadersRouting())
	}

	result, err := neo4j.ExecuteQuery(queryCtx, s.driver, query, params,
		neo4j.EagerResultTransformer, opts...)
	if err != nil {
		// Context cancellation belongs to the caller, not the store.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apperr.Unavailable(err, "graph query failed")
	}

	rows := make([]Row, 0, len(result.Records))
	for _, record := range result.Records {
		rows = append(rows, Row(record.AsMap()))
	}

	s.logger.Debug("query executed", "rows", len(rows))
	return rows, nil
}

// HealthCheck verifies connectivity for the API health endpoint.
func (s *Neo4jStore) HealthCheck(ctx context.Context) error {
	if err := s.driver.VerifyConnectivity(ctx); err != nil {
		return apperr.Unavailable(err, "neo4j health check failed")
	}
	return nil
}

// Close closes the underlying driver.
func (s *Neo4jStore) Close(ctx context.Context) error {
	if err := s.driver.Close(ctx); err != nil {
		return apperr.Unavailable(err, "failed to close neo4j driver")
	}
	s.logger.Info("neo4j store closed")
	return nil
}

// isReadQuery detects read-only query text so writes always route to the
// cluster leader.
func isReadQuery(query string) bool {
	upper := strings.ToUpper(query)
	for _, kw := range []string{"MERGE ", "CREATE ", "DELETE ", "SET ", "REMOVE "} {
		if strings.Contains(upper, kw) {
			return false
		}
	}
	return true
}
