// Package storeredis implements store.DocumentStoreClient over Redis,
// modelling an engine-visible "database" as a logical Redis database index
// and a "container" as a key prefix ("{container}:{id}") holding a
// JSON-encoded document string.
//
// Grounded on the teacher's pkg/database.Redis (redis.Options{PoolSize,
// MinIdleConns, MaxRetries} construction, Ping-on-connect), repurposed from
// a relational/cache service client into a schemaless document source
// (SPEC_FULL.md §11).
package storeredis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/afrugalpenguin/cosmos-mapper/internal/store"
)

var _ store.DocumentStoreClient = (*Client)(nil)

// Config holds one Redis connection's shared parameters plus the mapping
// from an engine-visible database name to the Redis logical DB index that
// backs it.
type Config struct {
	Addr         string
	Password     string
	MaxRetries   int
	PoolSize     int
	MinIdleConns int

	// Databases maps the name the engine sees (used in catalog entries and
	// relationship records) to a Redis SELECT-able DB index.
	Databases map[string]int
}

// DefaultConfig returns a baseline configuration for local development: a
// single "default" database at Redis DB 0.
func DefaultConfig() Config {
	return Config{
		Addr:         "localhost:6379",
		MaxRetries:   3,
		PoolSize:     10,
		MinIdleConns: 2,
		Databases:    map[string]int{"default": 0},
	}
}

// Client is a store.DocumentStoreClient backed by one *redis.Client per
// configured logical database.
type Client struct {
	clients map[string]*redis.Client
}

// New connects to Redis and pings every configured database, closing any
// already-opened connections and returning an error on the first failure.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if len(cfg.Databases) == 0 {
		return nil, fmt.Errorf("storeredis: no databases configured")
	}

	clients := make(map[string]*redis.Client, len(cfg.Databases))
	for name, db := range cfg.Databases {
		rc := redis.NewClient(&redis.Options{
			Addr:         cfg.Addr,
			Password:     cfg.Password,
			DB:           db,
			MaxRetries:   cfg.MaxRetries,
			PoolSize:     cfg.PoolSize,
			MinIdleConns: cfg.MinIdleConns,
		})
		if err := rc.Ping(ctx).Err(); err != nil {
			rc.Close()
			closeAll(clients)
			return nil, fmt.Errorf("connecting to redis database %q: %w", name, err)
		}
		clients[name] = rc
	}
	return &Client{clients: clients}, nil
}

func closeAll(clients map[string]*redis.Client) {
	for _, rc := range clients {
		rc.Close()
	}
}

// Close closes every underlying connection.
func (c *Client) Close() {
	closeAll(c.clients)
}

func (c *Client) clientFor(database string) (*redis.Client, error) {
	rc, ok := c.clients[database]
	if !ok {
		return nil, fmt.Errorf("storeredis: unknown database %q", database)
	}
	return rc, nil
}

// ListDatabases returns the configured database names.
func (c *Client) ListDatabases(ctx context.Context) ([]string, error) {
	out := make([]string, 0, len(c.clients))
	for name := range c.clients {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// ListContainers derives container names from the prefix of every key in
// database, scanning the full keyspace since Redis has no native container
// index.
func (c *Client) ListContainers(ctx context.Context, database string) ([]string, error) {
	rc, err := c.clientFor(database)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var cursor uint64
	for {
		keys, next, err := rc.Scan(ctx, cursor, "*", 1000).Result()
		if err != nil {
			return nil, fmt.Errorf("scanning database %s: %w", database, err)
		}
		for _, k := range keys {
			if container, ok := containerPrefix(k); ok {
				seen[container] = struct{}{}
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	out := make([]string, 0, len(seen))
	for container := range seen {
		out = append(out, container)
	}
	sort.Strings(out)
	return out, nil
}

func containerPrefix(key string) (string, bool) {
	idx := strings.Index(key, ":")
	if idx <= 0 {
		return "", false
	}
	return key[:idx], true
}

// SampleDocuments scans up to n keys under container's prefix and decodes
// each as a JSON document. Redis SCAN offers no true random sample across
// an arbitrary key pattern, so this takes the first n keys the cursor walk
// encounters; the sampling strategy is the collaborator's own concern per
// SPEC_FULL.md §6.
func (c *Client) SampleDocuments(ctx context.Context, database, container string, n int) ([]map[string]interface{}, error) {
	rc, err := c.clientFor(database)
	if err != nil {
		return nil, err
	}
	keys, err := c.scanContainerKeys(ctx, rc, container, n)
	if err != nil {
		return nil, fmt.Errorf("sampling %s.%s: %w", database, container, err)
	}
	return c.loadDocuments(ctx, rc, keys)
}

func (c *Client) scanContainerKeys(ctx context.Context, rc *redis.Client, container string, limit int) ([]string, error) {
	match := container + ":*"
	var out []string
	var cursor uint64
	for {
		keys, next, err := rc.Scan(ctx, cursor, match, 1000).Result()
		if err != nil {
			return nil, err
		}
		out = append(out, keys...)
		cursor = next
		if cursor == 0 {
			break
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (c *Client) loadDocuments(ctx context.Context, rc *redis.Client, keys []string) ([]map[string]interface{}, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	values, err := rc.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	docs := make([]map[string]interface{}, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var doc map[string]interface{}
		if err := json.Unmarshal([]byte(s), &doc); err != nil {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// GetDistinctValues walks every document in container, collecting up to
// max distinct non-null values observed at path.
func (c *Client) GetDistinctValues(ctx context.Context, database, container, path string, max int) ([]interface{}, error) {
	rc, err := c.clientFor(database)
	if err != nil {
		return nil, err
	}
	keys, err := c.scanContainerKeys(ctx, rc, container, 0)
	if err != nil {
		return nil, fmt.Errorf("scanning %s.%s for distinct values: %w", database, container, err)
	}
	docs, err := c.loadDocuments(ctx, rc, keys)
	if err != nil {
		return nil, err
	}

	seen := make(map[interface{}]struct{})
	var out []interface{}
	for _, doc := range docs {
		v, ok := doc[path]
		if !ok || v == nil {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if len(out) >= max {
			break
		}
	}
	return out, nil
}

// CheckIDsExist pipelines an EXISTS per candidate key ("{container}:{id}")
// and returns the subset that resolved to a present key.
func (c *Client) CheckIDsExist(ctx context.Context, database, container string, ids []interface{}) ([]interface{}, error) {
	rc, err := c.clientFor(database)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	pipe := rc.Pipeline()
	cmds := make([]*redis.IntCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Exists(ctx, fmt.Sprintf("%s:%v", container, id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("checking id existence in %s.%s: %w", database, container, err)
	}

	var out []interface{}
	for i, cmd := range cmds {
		if cmd.Val() > 0 {
			out = append(out, ids[i])
		}
	}
	return out, nil
}
