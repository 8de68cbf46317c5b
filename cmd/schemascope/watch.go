package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/afrugalpenguin/cosmos-mapper/internal/diff"
	"github.com/afrugalpenguin/cosmos-mapper/internal/engine"
	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
	"github.com/afrugalpenguin/cosmos-mapper/internal/render"
	"github.com/afrugalpenguin/cosmos-mapper/pkg/config"
	"github.com/afrugalpenguin/cosmos-mapper/pkg/health"
	"github.com/afrugalpenguin/cosmos-mapper/pkg/syslog"
)

// watchState is shared, mutex-guarded state between the pipeline loop (the
// only writer, under the write lock) and the status server's handlers
// (readers, under the read lock).
type watchState struct {
	mu      sync.RWMutex
	last    *model.AnalysisResult
	lastErr error
	runs    int
}

func (s *watchState) set(result *model.AnalysisResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	if err != nil {
		s.lastErr = err
		return
	}
	s.last = result
	s.lastErr = nil
}

func (s *watchState) snapshot() (*model.AnalysisResult, error, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.lastErr, s.runs
}

// runWatch runs the pipeline on cfg.WatchInterval, diffing each run against
// the previous in-memory result and logging a one-line change summary
// (SPEC_FULL.md §12), while a small chi status server exposes /healthz and
// /snapshot for an operator to poll.
func runWatch(ctx context.Context, eng *engine.Engine, cfg config.Config, f *flags, logger *syslog.Logger) int {
	state := &watchState{}
	checker := health.NewChecker()

	srv := newStatusServer(cfg, state, checker)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("status server stopped: %v", err)
		}
	}()
	defer srv.Shutdown(context.Background())

	interval := cfg.WatchInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	logger.Info("watch mode started, interval=%s, status server on %s", interval, srv.Addr)

	var previous *model.AnalysisResult
	runOne := func() {
		result, err := eng.Run(ctx)
		checker.RunCheck("pipeline", func() error { return err })
		state.set(result, err)
		if err != nil {
			logger.Error("watch run failed: %v", err)
			return
		}

		if previous != nil {
			cmp := diff.Compare(previous, result)
			logger.Info("watch run complete: %d containers, %d relationships, %d changes (%d breaking)",
				len(result.Schemas), len(result.Relationships), cmp.Summary.TotalChanges, cmp.Summary.BreakingChanges)
			if f.failOnBreaking && cmp.Summary.BreakingChanges > 0 {
				logger.Warn("breaking change detected under --fail-on-breaking in watch mode; continuing to watch")
			}
		} else {
			logger.Info("watch run complete: %d containers, %d relationships", len(result.Schemas), len(result.Relationships))
		}
		previous = result
	}

	runOne()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("watch mode stopping: %v", ctx.Err())
			return 0
		case <-ticker.C:
			runOne()
		}
	}
}

func newStatusServer(cfg config.Config, state *watchState, checker *health.Checker) *http.Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		status := checker.OverallStatus()
		code := http.StatusOK
		if status != health.StatusHealthy {
			code = http.StatusServiceUnavailable
		}
		respondJSON(w, code, map[string]interface{}{
			"status": status.String(),
			"checks": checker.AllChecks(),
		})
	})

	r.Get("/snapshot", func(w http.ResponseWriter, req *http.Request) {
		result, err, runs := state.snapshot()
		if result == nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"error": "no successful run yet",
				"runs":  runs,
			})
			return
		}
		data, jerr := render.JSON(render.Input{Result: result})
		if jerr != nil {
			respondJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": jerr.Error()})
			return
		}
		if err != nil {
			w.Header().Set("X-Last-Run-Error", err.Error())
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	port := cfg.WatchStatusPort
	if port <= 0 {
		port = 8090
	}
	return &http.Server{
		Addr:    net.JoinHostPort("127.0.0.1", fmt.Sprintf("%d", port)),
		Handler: r,
	}
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
