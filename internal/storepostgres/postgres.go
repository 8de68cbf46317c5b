// Package storepostgres implements store.DocumentStoreClient over
// PostgreSQL, modelling an engine-visible "database" as a distinct Postgres
// database (one connection pool per entry) and a "container" as a distinct
// value of the container column in a shared jsonb table.
//
// Grounded on the teacher's pkg/database.PostgreSQL connection-pool
// construction (pgxpool.ParseConfig, per-field assignment, MaxConns),
// generalized from that package's per-SQL-dialect adapter map into "the
// same interface, two backends" alongside internal/storeredis
// (SPEC_FULL.md §11).
package storepostgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/afrugalpenguin/cosmos-mapper/internal/store"
)

var _ store.DocumentStoreClient = (*Client)(nil)

// schemaDDL is the shared table every configured database is expected to
// carry; EnsureSchema creates it if missing.
const schemaDDL = `CREATE TABLE IF NOT EXISTS container_documents (
	container text NOT NULL,
	id text NOT NULL,
	doc jsonb NOT NULL
)`

// Config maps each engine-visible database name to the DSN used to reach
// it.
type Config struct {
	DSNs           map[string]string
	MaxConnections int32
}

// DefaultConfig returns a baseline pool configuration; DSNs must still be
// supplied by the caller.
func DefaultConfig() Config {
	return Config{MaxConnections: 10}
}

// Client is a store.DocumentStoreClient backed by one *pgxpool.Pool per
// configured database.
type Client struct {
	pools map[string]*pgxpool.Pool
}

// New opens and pings a connection pool for every configured database.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if len(cfg.DSNs) == 0 {
		return nil, fmt.Errorf("storepostgres: no databases configured")
	}
	maxConns := cfg.MaxConnections
	if maxConns <= 0 {
		maxConns = 10
	}

	pools := make(map[string]*pgxpool.Pool, len(cfg.DSNs))
	for name, dsn := range cfg.DSNs {
		poolConfig, err := pgxpool.ParseConfig(dsn)
		if err != nil {
			closeAll(pools)
			return nil, fmt.Errorf("parsing connection string for database %q: %w", name, err)
		}
		poolConfig.MaxConns = maxConns

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			closeAll(pools)
			return nil, fmt.Errorf("connecting to database %q: %w", name, err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			closeAll(pools)
			return nil, fmt.Errorf("pinging database %q: %w", name, err)
		}
		pools[name] = pool
	}
	return &Client{pools: pools}, nil
}

func closeAll(pools map[string]*pgxpool.Pool) {
	for _, p := range pools {
		p.Close()
	}
}

// Close closes every underlying pool.
func (c *Client) Close() {
	closeAll(c.pools)
}

// EnsureSchema creates the shared container_documents table in every
// configured database if it does not already exist.
func (c *Client) EnsureSchema(ctx context.Context) error {
	for name, pool := range c.pools {
		if _, err := pool.Exec(ctx, schemaDDL); err != nil {
			return fmt.Errorf("ensuring schema in %s: %w", name, err)
		}
	}
	return nil
}

func (c *Client) pool(database string) (*pgxpool.Pool, error) {
	p, ok := c.pools[database]
	if !ok {
		return nil, fmt.Errorf("storepostgres: unknown database %q", database)
	}
	return p, nil
}

// ListDatabases returns the configured database names.
func (c *Client) ListDatabases(ctx context.Context) ([]string, error) {
	out := make([]string, 0, len(c.pools))
	for name := range c.pools {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// ListContainers returns the distinct container values present in
// database.
func (c *Client) ListContainers(ctx context.Context, database string) ([]string, error) {
	pool, err := c.pool(database)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx, `SELECT DISTINCT container FROM container_documents ORDER BY container`)
	if err != nil {
		return nil, fmt.Errorf("listing containers in %s: %w", database, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// SampleDocuments returns up to n randomly ordered documents from
// container.
func (c *Client) SampleDocuments(ctx context.Context, database, container string, n int) ([]map[string]interface{}, error) {
	pool, err := c.pool(database)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx,
		`SELECT doc FROM container_documents WHERE container = $1 ORDER BY random() LIMIT $2`,
		container, n)
	if err != nil {
		return nil, fmt.Errorf("sampling %s.%s: %w", database, container, err)
	}
	defer rows.Close()

	var docs []map[string]interface{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var doc map[string]interface{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// GetDistinctValues returns up to max distinct values stored at path
// across container's documents.
func (c *Client) GetDistinctValues(ctx context.Context, database, container, path string, max int) ([]interface{}, error) {
	pool, err := c.pool(database)
	if err != nil {
		return nil, err
	}
	rows, err := pool.Query(ctx,
		`SELECT DISTINCT doc -> $2 FROM container_documents WHERE container = $1 AND doc ? $2 LIMIT $3`,
		container, path, max)
	if err != nil {
		return nil, fmt.Errorf("distinct values for %s.%s.%s: %w", database, container, path, err)
	}
	defer rows.Close()

	var out []interface{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// CheckIDsExist returns the subset of ids present as an id in container.
func (c *Client) CheckIDsExist(ctx context.Context, database, container string, ids []interface{}) ([]interface{}, error) {
	pool, err := c.pool(database)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = fmt.Sprintf("%v", id)
	}

	rows, err := pool.Query(ctx,
		`SELECT id FROM container_documents WHERE container = $1 AND id = ANY($2)`,
		container, strIDs)
	if err != nil {
		return nil, fmt.Errorf("checking id existence in %s.%s: %w", database, container, err)
	}
	defer rows.Close()

	existing := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var out []interface{}
	for i, id := range ids {
		if _, ok := existing[strIDs[i]]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}
