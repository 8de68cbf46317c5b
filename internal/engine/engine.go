// Package engine orchestrates the full pipeline described in SPEC_FULL.md
// §2 and §5: sample containers, infer schemas, detect relationships, score
// confidence, and assemble the resulting AnalysisResult.
//
// Grounded on the teacher's services/unifiedmodel/internal/engine.Engine
// (injected config/logger, atomic operation counters, mutex-guarded
// running state) narrowed to a one-shot library invoked per run rather
// than a long-running gRPC-registered service: there is no SetGRPCServer
// analogue here, since this repository has no RPC surface.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/afrugalpenguin/cosmos-mapper/internal/classify"
	"github.com/afrugalpenguin/cosmos-mapper/internal/confidence"
	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
	"github.com/afrugalpenguin/cosmos-mapper/internal/relate"
	"github.com/afrugalpenguin/cosmos-mapper/internal/schema"
	"github.com/afrugalpenguin/cosmos-mapper/internal/store"
	"github.com/afrugalpenguin/cosmos-mapper/pkg/syslog"
)

// Options configures one Run.
type Options struct {
	SampleSize     int
	Parallelism    int
	Databases      []string // restrict to these databases; empty means all
	Containers     []string // restrict to these containers; empty means all
	Validate       bool
	EnumConfig     schema.EnumConfig
	CustomPatterns []classify.CustomPattern
	Weights        confidence.Weights
}

// Engine runs the pipeline once per Run call. It holds no state between
// runs beyond its injected collaborator, options, and logger, mirroring
// the teacher's pattern of an injected config/logger pair but without that
// service's long-lived running-state mutex, since a CLI invocation has no
// concept of "already running".
type Engine struct {
	collaborator store.DocumentStoreClient
	opts         Options
	logger       *syslog.Logger
}

// New returns an Engine. logger may be nil, in which case a discarding
// logger is used.
func New(collaborator store.DocumentStoreClient, opts Options, logger *syslog.Logger) *Engine {
	if logger == nil {
		logger = syslog.Noop()
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.NumCPU()
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = 100
	}
	return &Engine{collaborator: collaborator, opts: opts, logger: logger}
}

// Run executes the full pipeline: list databases and containers, sample
// and infer schemas (fanned out, §5), detect relationships (single
// threaded reduction), score confidence (fanned out), and assemble the
// result.
func (e *Engine) Run(ctx context.Context) (*model.AnalysisResult, error) {
	start := time.Now()

	databases, err := e.resolveDatabases(ctx)
	if err != nil {
		return nil, &model.FatalError{Op: "list databases", Err: err}
	}

	identities, err := e.resolveCatalog(ctx, databases)
	if err != nil {
		return nil, &model.FatalError{Op: "list containers", Err: err}
	}

	schemas, failures := e.sampleAndInfer(ctx, identities)
	catalog := relate.NewCatalog(identitiesWithSchema(identities, schemas))

	relationships := e.detectRelationships(identities, schemas, catalog)

	calc := confidence.New(e.collaboratorIfValidating(), e.weightsOrDefault(), e.opts.SampleSize, e.logger)
	e.scoreRelationships(ctx, calc, relationships, schemas)

	result := &model.AnalysisResult{
		Databases:         databases,
		Schemas:           schemas,
		Relationships:     relationships,
		Timestamp:         start,
		SampleSize:        e.opts.SampleSize,
		ContainerOrder:    identitiesWithSchema(identities, schemas),
		ContainerFailures: failures,
	}

	e.logger.WithFields(syslog.Fields{
		"containers":    len(identities),
		"relationships": len(relationships),
		"failures":      len(failures),
		"elapsed":       time.Since(start).String(),
	}).Info("analysis run complete")

	return result, nil
}

func (e *Engine) weightsOrDefault() confidence.Weights {
	if (e.opts.Weights == confidence.Weights{}) {
		return confidence.DefaultWeights()
	}
	return e.opts.Weights
}

func (e *Engine) collaboratorIfValidating() store.DocumentStoreClient {
	if !e.opts.Validate {
		return nil
	}
	return e.collaborator
}

func (e *Engine) resolveDatabases(ctx context.Context) ([]string, error) {
	all, err := e.collaborator.ListDatabases(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing databases: %w", err)
	}
	if len(e.opts.Databases) == 0 {
		return all, nil
	}
	wanted := make(map[string]struct{}, len(e.opts.Databases))
	for _, d := range e.opts.Databases {
		wanted[d] = struct{}{}
	}
	var out []string
	for _, d := range all {
		if _, ok := wanted[d]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (e *Engine) resolveCatalog(ctx context.Context, databases []string) ([]model.ContainerIdentity, error) {
	var wantedContainers map[string]struct{}
	if len(e.opts.Containers) > 0 {
		wantedContainers = make(map[string]struct{}, len(e.opts.Containers))
		for _, c := range e.opts.Containers {
			wantedContainers[c] = struct{}{}
		}
	}

	var identities []model.ContainerIdentity
	for _, db := range databases {
		containers, err := e.collaborator.ListContainers(ctx, db)
		if err != nil {
			return nil, fmt.Errorf("listing containers in %s: %w", db, err)
		}
		for _, c := range containers {
			if wantedContainers != nil {
				if _, ok := wantedContainers[c]; !ok {
					continue
				}
			}
			identities = append(identities, model.ContainerIdentity{Database: db, Name: c})
		}
	}
	return identities, nil
}

// identitiesWithSchema filters identities down to those that actually
// produced a schema (sampling failures are excluded), preserving catalog
// order.
func identitiesWithSchema(identities []model.ContainerIdentity, schemas map[model.ContainerIdentity]*model.ContainerSchema) []model.ContainerIdentity {
	out := make([]model.ContainerIdentity, 0, len(identities))
	for _, id := range identities {
		if _, ok := schemas[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

