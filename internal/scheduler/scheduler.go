package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"bom-sourcing/internal/catalog"
)

const RefreshKey = "refresh"

// Counter is the part of the catalog store the refresh job needs.
type Counter interface {
	Counts(ctx context.Context) (catalog.Counts, error)
}

// Scheduler runs the catalog refresh job on a cron schedule and on demand.
// The job only re-reads the catalog and stamps metadata; acquisition of new
// parts happens elsewhere.
type Scheduler struct {
	cron    *cron.Cron
	meta    *MetaStore
	catalog Counter
	log     zerolog.Logger
	now     func() time.Time

	running atomic.Bool
	wg      sync.WaitGroup
}

func New(meta *MetaStore, c Counter, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		meta:    meta,
		catalog: c,
		log:     logger.With().Str("component", "scheduler").Logger(),
		now:     time.Now,
	}
}

// Start registers the refresh job on spec (empty disables it) and starts
// the cron loop.
func (s *Scheduler) Start(spec string) error {
	if spec != "" {
		if _, err := s.cron.AddFunc(spec, func() { _ = s.Refresh(context.Background()) }); err != nil {
			return fmt.Errorf("register refresh job %q: %w", spec, err)
		}
	}
	s.cron.Start()
	s.log.Info().Str("spec", spec).Msg("scheduler started")
	return nil
}

// Stop waits for running jobs, including triggered ones.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
}

// Trigger starts a refresh in the background. It reports false when one is
// already running.
func (s *Scheduler) Trigger() bool {
	if !s.running.CompareAndSwap(false, true) {
		return false
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Store(false)
		_ = s.refresh(context.Background())
	}()
	return true
}

// Refresh re-reads catalog counts and records the refresh time. It is a
// no-op while another refresh runs.
func (s *Scheduler) Refresh(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Debug().Msg("refresh already running")
		return nil
	}
	defer s.running.Store(false)
	return s.refresh(ctx)
}

func (s *Scheduler) refresh(ctx context.Context) error {
	s.progress(Progress{Status: "running"})
	c, err := s.catalog.Counts(ctx)
	if err != nil {
		s.progress(Progress{Status: "failed"})
		s.log.Error().Err(err).Msg("refresh failed")
		return err
	}
	if err := s.meta.WriteProgress(RefreshKey, Progress{Pct: 100, Done: int(c.Parts), Status: "done"}); err != nil {
		return err
	}
	if err := s.meta.SetLastUpdate(s.now()); err != nil {
		return err
	}
	s.log.Info().Int64("suppliers", c.Suppliers).Int64("active_suppliers", c.ActiveSuppliers).
		Int64("parts", c.Parts).Msg("catalog refreshed")
	return nil
}

func (s *Scheduler) progress(p Progress) {
	if err := s.meta.WriteProgress(RefreshKey, p); err != nil {
		s.log.Warn().Err(err).Str("status", p.Status).Msg("write refresh progress")
	}
}
