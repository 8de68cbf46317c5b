package store

import "context"

// timeoutClientFn wraps a DocumentStoreClient so every call runs under its
// own per-call deadline, per SPEC_FULL.md §5's "per-collaborator-call
// timeout is a configuration parameter; expiry surfaces as a failed
// integrity factor ... and does not fail the whole run" — the wrapped call
// simply returns context.DeadlineExceeded, which the engine and confidence
// calculator already treat as an ordinary collaborator error.
type timeoutClientFn struct {
	inner    DocumentStoreClient
	deadline func(context.Context) (context.Context, context.CancelFunc)
}

// WithTimeout returns a DocumentStoreClient that bounds every call to inner
// using deadline. A nil deadline disables the wrapper and returns inner
// unchanged.
func WithTimeout(inner DocumentStoreClient, deadline func(context.Context) (context.Context, context.CancelFunc)) DocumentStoreClient {
	if deadline == nil {
		return inner
	}
	return &timeoutClientFn{inner: inner, deadline: deadline}
}

func (c *timeoutClientFn) ListDatabases(ctx context.Context) ([]string, error) {
	ctx, cancel := c.deadline(ctx)
	defer cancel()
	return c.inner.ListDatabases(ctx)
}

func (c *timeoutClientFn) ListContainers(ctx context.Context, database string) ([]string, error) {
	ctx, cancel := c.deadline(ctx)
	defer cancel()
	return c.inner.ListContainers(ctx, database)
}

func (c *timeoutClientFn) SampleDocuments(ctx context.Context, database, container string, n int) ([]map[string]interface{}, error) {
	ctx, cancel := c.deadline(ctx)
	defer cancel()
	return c.inner.SampleDocuments(ctx, database, container, n)
}

func (c *timeoutClientFn) GetDistinctValues(ctx context.Context, database, container, path string, max int) ([]interface{}, error) {
	ctx, cancel := c.deadline(ctx)
	defer cancel()
	return c.inner.GetDistinctValues(ctx, database, container, path, max)
}

func (c *timeoutClientFn) CheckIDsExist(ctx context.Context, database, container string, ids []interface{}) ([]interface{}, error) {
	ctx, cancel := c.deadline(ctx)
	defer cancel()
	return c.inner.CheckIDsExist(ctx, database, container, ids)
}
