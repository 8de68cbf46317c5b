package engine

import (
	"context"
	"sync"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
	"github.com/afrugalpenguin/cosmos-mapper/internal/schema"
)

// sampleAndInfer fans out sampling and inference across a bounded worker
// pool (SPEC_FULL.md §5): each container's sampling and inference runs
// entirely on one worker, with no cross-container shared mutable state
// during inference. The schema map is written once per key by its single
// owning worker, so no lock is needed around the writes themselves — only
// around collecting the results, which a channel already serialises.
func (e *Engine) sampleAndInfer(ctx context.Context, identities []model.ContainerIdentity) (map[model.ContainerIdentity]*model.ContainerSchema, []model.ContainerFailure) {
	type outcome struct {
		id     model.ContainerIdentity
		schema *model.ContainerSchema
		err    error
	}

	jobs := make(chan model.ContainerIdentity)
	results := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < e.opts.Parallelism; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				select {
				case <-ctx.Done():
					results <- outcome{id: id, err: ctx.Err()}
					continue
				default:
				}
				docs, err := e.collaborator.SampleDocuments(ctx, id.Database, id.Name, e.opts.SampleSize)
				if err != nil {
					results <- outcome{id: id, err: err}
					continue
				}
				s := schema.Infer(docs, schema.Options{CustomPatterns: e.opts.CustomPatterns, Enum: e.opts.EnumConfig})
				results <- outcome{id: id, schema: s}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, id := range identities {
			select {
			case jobs <- id:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	schemas := make(map[model.ContainerIdentity]*model.ContainerSchema, len(identities))
	var failures []model.ContainerFailure
	for res := range results {
		if res.err != nil {
			e.logger.Warn("sampling failed for %s.%s: %v", res.id.Database, res.id.Name, res.err)
			failures = append(failures, model.ContainerFailure{
				Container: res.id,
				Err:       &model.CollaboratorError{Container: res.id, Op: "sample", Err: res.err},
			})
			continue
		}
		schemas[res.id] = res.schema
	}

	return schemas, failures
}
