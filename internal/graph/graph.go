package graph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Row maps each returned alias to its flat attribute map.
type Row map[string]map[string]any

// Executor runs read queries. Errors from the store (connectivity, syntax)
// are returned wrapped but otherwise untouched.
// Implementations must be safe for concurrent use.
type Executor interface {
	// Execute runs a query and converts every record to a Row.
	Execute(ctx context.Context, cypher string, params map[string]any) ([]Row, error)

	// Count runs a query returning a single integer in column.
	Count(ctx context.Context, cypher string, params map[string]any, column string) (int64, error)
}

// Config holds the Neo4j connection settings.
type Config struct {
	URI      string
	User     string
	Password string
	Database string // empty = server default
}

// Neo4j is an Executor backed by a Neo4j driver.
type Neo4j struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *slog.Logger
}

// Open connects to Neo4j and verifies the connection.
// The caller must Close the returned executor.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Neo4j, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("neo4j uri is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("connect to neo4j at %s: %w", cfg.URI, err)
	}

	logger.Debug("connected to neo4j", "uri", cfg.URI, "database", cfg.Database)
	return &Neo4j{driver: driver, database: cfg.Database, logger: logger}, nil
}

// Close releases the driver.
func (n *Neo4j) Close(ctx context.Context) error {
	return n.driver.Close(ctx)
}

func (n *Neo4j) session(ctx context.Context) neo4j.SessionWithContext {
	return n.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: n.database,
	})
}

// Execute implements Executor.
func (n *Neo4j) Execute(ctx context.Context, cypher string, params map[string]any) ([]Row, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	n.logger.Debug("running query", "cypher", cypher, "params", len(params))
	result, err := session.Run(ctx, cypher, params)
	if err != nil {
		return nil, fmt.Errorf("run query: %w", err)
	}

	var rows []Row
	for result.Next(ctx) {
		rows = append(rows, RecordToRow(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}
	return rows, nil
}

// Count implements Executor.
func (n *Neo4j) Count(ctx context.Context, cypher string, params map[string]any, column string) (int64, error) {
	session := n.session(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, cypher, params)
	if err != nil {
		return 0, fmt.Errorf("run count query: %w", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return 0, fmt.Errorf("read count: %w", err)
		}
		return 0, nil
	}
	return RecordCount(result.Record(), column)
}
