// Command schemascope is the thin CLI driver over the inference engine
// (SPEC_FULL.md §6 "CLI surface"). It owns flag parsing, config
// resolution, collaborator construction, and output; all analytical work
// happens in internal/engine and the packages it calls.
//
// Grounded on the teacher's cmd/supervisor (a single-binary driver wiring
// config, logger, and a long-running loop) narrowed to a one-shot (or
// --watch) CLI rather than a supervised service tree.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/afrugalpenguin/cosmos-mapper/internal/classify"
	"github.com/afrugalpenguin/cosmos-mapper/internal/confidence"
	"github.com/afrugalpenguin/cosmos-mapper/internal/diff"
	"github.com/afrugalpenguin/cosmos-mapper/internal/engine"
	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
	"github.com/afrugalpenguin/cosmos-mapper/internal/render"
	"github.com/afrugalpenguin/cosmos-mapper/internal/schema"
	"github.com/afrugalpenguin/cosmos-mapper/internal/snapshot"
	"github.com/afrugalpenguin/cosmos-mapper/pkg/config"
	"github.com/afrugalpenguin/cosmos-mapper/pkg/syslog"

	"github.com/google/uuid"
)

// flags is the parsed command line, applied over the config file and
// environment layers per the precedence rules in SPEC_FULL.md §10.
type flags struct {
	output         string
	sampleSize     int
	databases      string
	containers     string
	format         string
	validate       bool
	noValidate     bool
	snapshotName   string
	takeSnapshot   bool
	diff           bool
	diffFrom       string
	failOnBreaking bool
	quiet          bool
	verbose        bool
	watch          bool
	configPath     string
	demo           bool
}

func parseFlags(args []string) *flags {
	fs := flag.NewFlagSet("schemascope", flag.ContinueOnError)
	f := &flags{}

	fs.StringVar(&f.output, "output", "", "output file path (default: stdout)")
	fs.IntVar(&f.sampleSize, "sample-size", 0, "documents sampled per container")
	fs.StringVar(&f.databases, "databases", "", "comma-separated list of databases to analyse")
	fs.StringVar(&f.containers, "container", "", "comma-separated list of containers to analyse")
	fs.StringVar(&f.format, "format", "", "output format: markdown, json, mermaid")
	fs.BoolVar(&f.validate, "validate", false, "validate relationships against the live store")
	fs.BoolVar(&f.noValidate, "no-validate", false, "skip relationship validation")
	fs.StringVar(&f.snapshotName, "snapshot", "", "save the result as a named snapshot")
	fs.BoolVar(&f.diff, "diff", false, "compare against the most recent snapshot")
	fs.StringVar(&f.diffFrom, "diff-from", "", "compare against a specific snapshot id or name")
	fs.BoolVar(&f.failOnBreaking, "fail-on-breaking", false, "exit 1 if a breaking change is detected")
	fs.BoolVar(&f.quiet, "quiet", false, "suppress non-error log output")
	fs.BoolVar(&f.verbose, "verbose", false, "verbose (debug-level) log output")
	fs.BoolVar(&f.watch, "watch", false, "re-run the analysis on an interval")
	fs.StringVar(&f.configPath, "config", "", "path to a YAML config file")
	fs.BoolVar(&f.demo, "demo", false, "analyse a small built-in fixture store instead of a live endpoint")

	fs.BoolVar(&f.quiet, "q", false, "shorthand for -quiet")
	fs.BoolVar(&f.verbose, "v", false, "shorthand for -verbose")
	fs.BoolVar(&f.watch, "w", false, "shorthand for -watch")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	// `--snapshot=` with an empty name still takes an unnamed snapshot;
	// fs.Visit only reports flags the caller actually set, so an empty
	// string here is distinguishable from "flag absent". A bare
	// `--snapshot` with no value is rejected by the flag package as a
	// missing argument.
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == "snapshot" {
			f.takeSnapshot = true
		}
	})
	return f
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	f := parseFlags(args)

	if f.demo && os.Getenv("SCHEMASCOPE_ENDPOINT") == "" {
		// --demo analyses the built-in in-memory fixture store instead of a
		// live endpoint; setting the env var here reuses the same
		// precedence-respecting config.Load path rather than special-casing
		// validation.
		os.Setenv("SCHEMASCOPE_ENDPOINT", "memory://demo")
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	applyFlags(&cfg, f)

	logger := newLogger(f, cfg)
	runID := uuid.New().String()
	logger.WithFields(syslog.Fields{"run_id": runID}).Info("starting schemascope run")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Warn("received interrupt signal, cancelling run %s", runID)
		cancel()
	}()

	collaborator, closeCollaborator, err := buildCollaborator(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, &model.FatalError{Op: "connect to document store", Err: err})
		return 1
	}
	defer closeCollaborator()

	eng := engine.New(collaborator, engineOptions(cfg, f), logger)

	if f.watch {
		return runWatch(ctx, eng, cfg, f, logger)
	}

	code, err := runOnce(ctx, eng, cfg, f, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return code
}

// runOnce executes exactly one pipeline run, renders it, optionally snapshots
// it, optionally diffs it, and returns the process exit code.
func runOnce(ctx context.Context, eng *engine.Engine, cfg config.Config, f *flags, logger *syslog.Logger) (int, error) {
	result, err := eng.Run(ctx)
	if err != nil {
		var fatal *model.FatalError
		if errors.As(err, &fatal) {
			return 1, fatal
		}
		return 1, err
	}

	for _, failure := range result.ContainerFailures {
		logger.Warn("container %s.%s failed to sample: %v", failure.Container.Database, failure.Container.Name, failure.Err)
	}

	in := render.Input{Result: result}
	var cmp *diff.Result
	if f.diff || f.diffFrom != "" {
		baseline, err := loadBaseline(cfg, f, logger)
		if err != nil {
			logger.Warn("could not load baseline snapshot for --diff: %v", err)
		} else {
			cmp = diff.Compare(baseline, result)
			in.Comparison = cmp
		}
	}

	if err := writeOutput(in, cfg.Format, f.output); err != nil {
		return 1, err
	}

	if f.snapshotName != "" || f.takeSnapshot {
		name := f.snapshotName
		if _, err := snapshot.Save(cfg.CacheDir, name, result, time.Now()); err != nil {
			return 1, fmt.Errorf("saving snapshot: %w", err)
		}
		if err := snapshot.Prune(cfg.CacheDir, 20); err != nil {
			logger.Warn("pruning old snapshots: %v", err)
		}
	}

	if f.failOnBreaking && cmp != nil && cmp.Summary.BreakingChanges > 0 {
		return 1, nil
	}
	return 0, nil
}

func loadBaseline(cfg config.Config, f *flags, logger *syslog.Logger) (*model.AnalysisResult, error) {
	var snap *model.Snapshot
	var err error
	if f.diffFrom != "" {
		snap, err = snapshot.Load(cfg.CacheDir, f.diffFrom)
	} else {
		snap, err = snapshot.LoadLatest(cfg.CacheDir)
	}
	if err != nil {
		var corrupt *model.SnapshotCorruptionError
		if !errors.As(err, &corrupt) {
			return nil, err
		}
		logger.Warn("%v", err)
	}
	return &model.AnalysisResult{
		Databases:     snap.Databases,
		Schemas:       snap.Schemas,
		Relationships: snap.Relationships,
		Timestamp:     snap.Metadata.CreatedAt,
		SampleSize:    snap.Metadata.SampleSize,
	}, nil
}

func writeOutput(in render.Input, format, outputPath string) error {
	var data []byte
	var err error
	switch render.Format(format) {
	case render.FormatJSON:
		data, err = render.JSON(in)
	case render.FormatMermaid:
		data = []byte(render.Mermaid(in))
	default:
		data = []byte(render.Markdown(in))
	}
	if err != nil {
		return fmt.Errorf("rendering %s output: %w", format, err)
	}

	if outputPath == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}

func applyFlags(cfg *config.Config, f *flags) {
	if f.sampleSize > 0 {
		cfg.SampleSize = f.sampleSize
	}
	if f.databases != "" {
		cfg.Databases = strings.Split(f.databases, ",")
	}
	if f.format != "" {
		cfg.Format = f.format
	}
	if f.validate {
		cfg.Validate = true
	}
	if f.noValidate {
		cfg.Validate = false
	}
	if f.snapshotName != "" {
		f.takeSnapshot = true
	}
}

func engineOptions(cfg config.Config, f *flags) engine.Options {
	var containers []string
	if f.containers != "" {
		containers = strings.Split(f.containers, ",")
	}
	opts := engine.Options{
		SampleSize:  cfg.SampleSize,
		Parallelism: cfg.Parallelism,
		Databases:   cfg.Databases,
		Containers:  containers,
		Validate:    cfg.Validate,
		EnumConfig: schema.EnumConfig{
			Enabled:         cfg.EnumDetection,
			MaxUniqueValues: 10,
			MinFrequency:    0.8,
		},
		CustomPatterns: customPatterns(cfg),
		Weights:        confidence.DefaultWeights(),
	}
	return opts
}

func customPatterns(cfg config.Config) []classify.CustomPattern {
	return classify.CompileCustomPatterns(cfg.CustomPatterns, cfg.CustomOrder)
}

func newLogger(f *flags, cfg config.Config) *syslog.Logger {
	level := syslog.INFO
	switch {
	case f.quiet:
		level = syslog.WARN
	case f.verbose:
		level = syslog.DEBUG
	}
	return syslog.New(os.Stdout, level, "schemascope")
}
