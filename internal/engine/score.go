package engine

import (
	"context"
	"sync"

	"github.com/afrugalpenguin/cosmos-mapper/internal/confidence"
	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

// scoreRelationships fans out confidence computation across the same
// bounded parallelism used for sampling (§5). Each relationship's
// Confidence field is written by exactly one goroutine, so the "exclusive
// write per record" requirement in §5 holds without an explicit lock.
func (e *Engine) scoreRelationships(ctx context.Context, calc *confidence.Calculator, relationships []*model.Relationship, schemas map[model.ContainerIdentity]*model.ContainerSchema) {
	jobs := make(chan *model.Relationship)

	var wg sync.WaitGroup
	for i := 0; i < e.opts.Parallelism; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rel := range jobs {
				fromSchema := schemas[model.ContainerIdentity{Database: rel.FromDatabase, Name: rel.FromContainer}]
				var toSchema *model.ContainerSchema
				if !rel.IsOrphan {
					toSchema = schemas[model.ContainerIdentity{Database: rel.ToDatabase, Name: rel.ToContainer}]
				}
				rel.Confidence = calc.Compute(ctx, rel, fromSchema, toSchema)
			}
		}()
	}

	for _, rel := range relationships {
		jobs <- rel
	}
	close(jobs)
	wg.Wait()
}
