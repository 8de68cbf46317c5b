package storeredis

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func connectOrSkip(t *testing.T) *Client {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Databases = map[string]int{"shop": 0}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := New(ctx, cfg)
	if err != nil {
		t.Skipf("skipping: could not connect to redis: %v", err)
	}
	return client
}

func seed(t *testing.T, client *Client, database, container string, docs []map[string]interface{}) {
	t.Helper()
	rc := client.clients[database]
	for _, doc := range docs {
		id, ok := doc["id"]
		require.True(t, ok, "fixture document needs an id field")
		data, err := json.Marshal(doc)
		require.NoError(t, err)
		require.NoError(t, rc.Set(context.Background(), fmt.Sprintf("%s:%v", container, id), data, 0).Err())
	}
}

func TestClient_ListAndSample(t *testing.T) {
	client := connectOrSkip(t)
	defer client.Close()

	docs := []map[string]interface{}{
		{"id": "s1", "name": "Acme"},
		{"id": "s2", "name": "Globex"},
	}
	seed(t, client, "shop", "stores", docs)

	ctx := context.Background()

	dbs, err := client.ListDatabases(ctx)
	require.NoError(t, err)
	require.Contains(t, dbs, "shop")

	containers, err := client.ListContainers(ctx, "shop")
	require.NoError(t, err)
	require.Contains(t, containers, "stores")

	sampled, err := client.SampleDocuments(ctx, "shop", "stores", 10)
	require.NoError(t, err)
	require.Len(t, sampled, 2)
}

func TestClient_CheckIDsExist(t *testing.T) {
	client := connectOrSkip(t)
	defer client.Close()

	seed(t, client, "shop", "stores", []map[string]interface{}{
		{"id": "s1", "name": "Acme"},
	})

	ctx := context.Background()
	found, err := client.CheckIDsExist(ctx, "shop", "stores", []interface{}{"s1", "missing"})
	require.NoError(t, err)
	require.ElementsMatch(t, []interface{}{"s1"}, found)
}

func TestClient_UnknownDatabase(t *testing.T) {
	client := connectOrSkip(t)
	defer client.Close()

	_, err := client.ListContainers(context.Background(), "does-not-exist")
	require.Error(t, err)
}
