// Package exporter serves mount-table metrics for Prometheus scraping.
//
// Each scrape triggers a fresh capture of the configured mountinfo source,
// bounded by a rate limiter: scrapes beyond the /proc re-read budget are
// served from the last captured table, so an aggressive scrape interval (or
// several Prometheus servers scraping one box) never turns into a stream of
// kernel reads.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marmos91/mountscope/internal/logger"
	"github.com/marmos91/mountscope/internal/ratelimiter"
	"github.com/marmos91/mountscope/pkg/metrics"
	"github.com/marmos91/mountscope/pkg/mountinfo"
	"github.com/marmos91/mountscope/pkg/snapshot"
)

// Config contains exporter settings.
type Config struct {
	// Listen is the address the metrics endpoint binds to, e.g. ":9312".
	Listen string

	// Source is the mountinfo path to capture, e.g. /proc/self/mountinfo.
	Source string

	// CaptureRate caps mount-table re-reads per second. 0 means unlimited.
	CaptureRate uint

	// CaptureBurst is the re-read burst budget.
	CaptureBurst uint

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration
}

// Exporter captures mount tables on scrape and publishes gauges about them.
type Exporter struct {
	cfg     Config
	limiter *ratelimiter.RateLimiter
	metrics metrics.MountTableMetrics

	// mu guards the cached table and the previously published label sets.
	mu           sync.Mutex
	lastRecords  []*mountinfo.Record
	prevFsTypes  map[string]bool
	prevPropKeys map[string]bool
}

// New creates an exporter. The metrics parameter may be nil, in which case
// one is created from the global registry (a no-op when metrics are
// disabled).
func New(cfg Config, m metrics.MountTableMetrics) *Exporter {
	if m == nil {
		m = metrics.NewMountTableMetrics()
	}
	return &Exporter{
		cfg:          cfg,
		limiter:      ratelimiter.New(cfg.CaptureRate, cfg.CaptureBurst),
		metrics:      m,
		prevFsTypes:  make(map[string]bool),
		prevPropKeys: make(map[string]bool),
	}
}

// Serve runs the metrics endpoint until the context is cancelled.
func (e *Exporter) Serve(ctx context.Context) error {
	reg := metrics.GetRegistry()
	if reg == nil {
		return fmt.Errorf("metrics registry is not initialized")
	}

	mux := http.NewServeMux()
	metricsHandler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		e.refresh()
		metricsHandler.ServeHTTP(w, r)
	})

	srv := &http.Server{
		Addr:    e.cfg.Listen,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("exporter listening on %s (source: %s)", e.cfg.Listen, e.cfg.Source)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("exporter server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), e.cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// refresh re-captures the mount table if the rate budget allows, then
// publishes gauges from the freshest table available.
func (e *Exporter) refresh() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.limiter.Allow() {
		e.metrics.RecordRateLimited()
		return
	}

	start := time.Now()
	snap, err := snapshot.Capture(e.cfg.Source)
	if err != nil {
		logger.Warn("mount table capture failed: %v", err)
		e.metrics.RecordCaptureError()
		return
	}

	e.lastRecords = snap.Records
	e.metrics.RecordCapture(len(snap.Records), time.Since(start))
	e.publish(snap.Records)
}

// propagationKind extracts the tag kind from an optional field: "shared:3"
// counts as "shared", a bare "unbindable" as itself.
func propagationKind(field string) string {
	kind, _, _ := strings.Cut(field, ":")
	return kind
}

// publish recomputes per-fstype and per-propagation-kind gauges. Label sets
// seen in the previous capture but absent now are zeroed rather than left
// stale.
func (e *Exporter) publish(records []*mountinfo.Record) {
	fsCounts := make(map[string]int)
	propCounts := make(map[string]int)
	for _, r := range records {
		fsCounts[r.FsType]++
		for _, field := range r.OptFields {
			propCounts[propagationKind(field)]++
		}
	}

	for fstype := range e.prevFsTypes {
		if _, ok := fsCounts[fstype]; !ok {
			e.metrics.SetMountCount(fstype, 0)
		}
	}
	for kind := range e.prevPropKeys {
		if _, ok := propCounts[kind]; !ok {
			e.metrics.SetPropagationCount(kind, 0)
		}
	}

	e.prevFsTypes = make(map[string]bool, len(fsCounts))
	for fstype, count := range fsCounts {
		e.metrics.SetMountCount(fstype, count)
		e.prevFsTypes[fstype] = true
	}
	e.prevPropKeys = make(map[string]bool, len(propCounts))
	for kind, count := range propCounts {
		e.metrics.SetPropagationCount(kind, count)
		e.prevPropKeys[kind] = true
	}
}
