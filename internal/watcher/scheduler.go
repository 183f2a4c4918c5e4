package watcher

import (
	"context"
	"errors"
	"streamwatch/internal/models"
	"streamwatch/internal/providers"
	"streamwatch/internal/store"
	"streamwatch/internal/structures"
	"streamwatch/internal/subscription"
	"streamwatch/internal/watcher/interfaces"
	"sync"
	"time"

	"github.com/roylee0704/gron"
	"go.uber.org/atomic"
)

const (
	SourceSchedule = "schedule"
	SourceTrigger  = "trigger"
	SourceCLI      = "cli"
)

var (
	ErrPassRunning = errors.New("watcher: a pass is already running")
	ErrTooSoon     = errors.New("watcher: previous pass finished too recently")
)

type Scheduler struct {
	config     *structures.Config
	logger     providers.Logger
	reconciler ReconcilerInterface
	validator  subscription.TokenValidatorInterface
	store      *store.StateStore
	clock      Clock
	cron       *gron.Cron
	running    atomic.Bool
	opsMu      sync.Mutex
}

func NewScheduler(
	config *structures.Config,
	logger providers.Logger,
	reconciler ReconcilerInterface,
	validator subscription.TokenValidatorInterface,
	stateStore *store.StateStore,
	clock Clock,
) interfaces.SchedulerInterface {
	return &Scheduler{
		config:     config,
		logger:     logger,
		reconciler: reconciler,
		validator:  validator,
		store:      stateStore,
		clock:      clock,
	}
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Watcher.Interval), func() {
		_, err := s.RunOnce(context.Background(), SourceSchedule)
		if err != nil && !errors.Is(err, ErrTooSoon) && !errors.Is(err, ErrPassRunning) {
			s.logger.Errorf(providers.TypeWatch, "Scheduled pass failed: %s", err)
		}
	})

	if s.config.Watcher.TokenValidationInterval > 0 {
		s.cron.AddFunc(gron.Every(s.config.Watcher.TokenValidationInterval), func() {
			if _, err := s.ValidateTokens(context.Background()); err != nil {
				s.logger.Errorf(providers.TypeNotify, "Token validation failed: %s", err)
			}
		})
	}

	s.cron.Start()
	s.logger.Infof(providers.TypeWatch, "Watching every %s", s.config.Watcher.Interval)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) Restore() error {
	return s.store.Backend().Restore()
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	err := s.store.Backend().Persist()
	if err != nil {
		s.logger.Errorf(providers.TypeApp, "Error while persisting state: %s", err)
		return err
	}
	return nil
}

// RunOnce performs one reconciliation pass unless one is in flight or the
// previous pass started less than watcher.minGap ago. Scheduled, HTTP and
// CLI triggers all come through here and all advance lastRunTime, which
// holds the start time of the last pass so a slow pass does not push the
// next regular tick inside the gap.
func (s *Scheduler) RunOnce(ctx context.Context, source string) (models.CycleReport, error) {
	skipped := models.CycleReport{Source: source, StartedAt: s.clock.Now(), Skipped: true}

	if !s.running.CompareAndSwap(false, true) {
		s.logger.Infof(providers.TypeWatch, "Pass (%s) skipped: another pass is running", source)
		return skipped, ErrPassRunning
	}
	defer s.running.Store(false)

	last, err := s.store.GetLastRun(ctx)
	switch {
	case err == nil:
		if gap := s.clock.Now().Sub(last); gap < s.config.Watcher.MinGap {
			s.logger.Infof(providers.TypeWatch, "Pass (%s) skipped: last run %s ago", source, gap.Truncate(time.Millisecond))
			return skipped, ErrTooSoon
		}
	case !store.IsNotFound(err):
		s.logger.Warnf(providers.TypeWatch, "Last run time unreadable, running anyway: %s", err)
	}

	started := s.clock.Now()
	report := s.reconciler.RunPass(ctx, source)

	if err := s.store.PutLastRun(ctx, started); err != nil {
		s.logger.Errorf(providers.TypeWatch, "Unable to record last run time: %s", err)
	}
	if err := s.Persist(); err != nil {
		return report, err
	}
	return report, nil
}

func (s *Scheduler) ValidateTokens(ctx context.Context) (subscription.ValidationReport, error) {
	report, err := s.validator.Validate(ctx)
	if err != nil {
		return report, err
	}
	return report, s.Persist()
}
