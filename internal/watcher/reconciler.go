package watcher

import (
	"context"
	"errors"
	"fmt"
	"streamwatch/internal/models"
	"streamwatch/internal/notify"
	"streamwatch/internal/platform"
	"streamwatch/internal/providers"
	"streamwatch/internal/store"
	"streamwatch/internal/structures"
	"sync"
	"time"
)

var ErrFetch = errors.New("watcher: status fetch failed")

// StateStoreInterface is the per-channel state the reconciler reads and writes.
type StateStoreInterface interface {
	GetStream(ctx context.Context, channelID string) (models.StreamState, error)
	PutStream(ctx context.Context, channelID string, state models.StreamState) error
	GetOfflineMarker(ctx context.Context, channelID string) (time.Time, error)
	PutOfflineMarker(ctx context.Context, channelID string, at time.Time) error
	GetPriorChange(ctx context.Context, channelID string) (models.PriorChangeMarker, error)
	PutPriorChange(ctx context.Context, channelID string, marker models.PriorChangeMarker) error
}

// DecisionListener observes every decision that changed stored state.
type DecisionListener interface {
	OnDecision(channel models.MonitoredChannel, d models.ChangeDecision)
}

type ReconcilerInterface interface {
	Reconcile(ctx context.Context, channel models.MonitoredChannel) (models.ChangeDecision, error)
	RunPass(ctx context.Context, source string) models.CycleReport
}

type Reconciler struct {
	roster     models.Roster
	provider   platform.StatusProviderInterface
	store      StateStoreInterface
	suppressor *FlapSuppressor
	router     notify.RouterInterface
	listener   DecisionListener
	clock      Clock
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewReconciler(
	conf *structures.Config,
	roster models.Roster,
	provider platform.StatusProviderInterface,
	stateStore StateStoreInterface,
	router notify.RouterInterface,
	listener DecisionListener,
	clock Clock,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) ReconcilerInterface {
	return &Reconciler{
		roster:     roster,
		provider:   provider,
		store:      stateStore,
		suppressor: NewFlapSuppressor(conf),
		router:     router,
		listener:   listener,
		clock:      clock,
		logger:     logger,
		metrics:    metrics,
	}
}

// RunPass reconciles the roster in order. Dispatch of a channel's
// notifications overlaps with the next channel's fetch; the pass returns
// once every dispatch has completed.
func (r *Reconciler) RunPass(ctx context.Context, source string) models.CycleReport {
	start := r.clock.Now()
	report := models.CycleReport{Source: source, StartedAt: start}

	var wg sync.WaitGroup
	for _, channel := range r.roster {
		report.Checked++
		d, err := r.Reconcile(ctx, channel)
		if err != nil {
			report.Failed++
			r.metrics.IncChannelResult(channel.ID, "error")
			r.logger.Errorf(providers.TypeWatch, "Channel %s skipped: %s", channel.ID, err)
			continue
		}
		if !d.Persisted {
			r.metrics.IncChannelResult(channel.ID, "unchanged")
			continue
		}

		report.Changed++
		r.metrics.IncChannelResult(channel.ID, "changed")
		if r.listener != nil {
			r.listener.OnDecision(channel, d)
		}
		if !d.Notify() {
			continue
		}

		report.Notified++
		r.metrics.IncNotifications(channel.ID)
		wg.Add(1)
		go func() {
			defer wg.Done()
			results := r.router.Dispatch(ctx, channel, d)
			failed := 0
			for _, res := range results {
				if !res.OK() {
					failed++
				}
			}
			r.logger.Infof(providers.TypeNotify, "Notified %s %v: %d sinks, %d failed", channel.ID, d.Changes(), len(results), failed)
		}()
	}
	wg.Wait()

	report.Duration = r.clock.Now().Sub(start)
	r.metrics.ObserveCycleDuration(report.Duration)
	r.logger.Infof(providers.TypeWatch, "Pass (%s) done in %s: checked=%d changed=%d notified=%d failed=%d",
		source, report.Duration, report.Checked, report.Changed, report.Notified, report.Failed)
	return report
}

// Reconcile runs fetch, compare, suppress and persist for one channel.
// A channel with no stored record is seeded with the fetched state and
// nothing is announced for it.
func (r *Reconciler) Reconcile(ctx context.Context, channel models.MonitoredChannel) (models.ChangeDecision, error) {
	decision := models.ChangeDecision{ChannelID: channel.ID}

	raw, err := r.provider.GetStatus(ctx, channel)
	if err != nil {
		return decision, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	stored, err := r.store.GetStream(ctx, channel.ID)
	if store.IsNotFound(err) {
		if err := r.store.PutStream(ctx, channel.ID, raw); err != nil {
			return decision, fmt.Errorf("seed state: %w", err)
		}
		r.logger.Infof(providers.TypeWatch, "Seeded state for %s: %+v", channel.ID, raw)
		decision.State = raw
		decision.Persisted = true
		return decision, nil
	}
	if err != nil {
		return decision, fmt.Errorf("load state: %w", err)
	}

	decision.State = stored
	if stored == raw {
		return decision, nil
	}

	now := r.clock.Now()
	obs := Observation{Stored: stored, Raw: raw, Now: now}
	if at, err := r.store.GetOfflineMarker(ctx, channel.ID); err == nil {
		obs.OfflineAt = at
	} else if !store.IsNotFound(err) {
		r.logger.Warnf(providers.TypeWatch, "Offline marker of %s unreadable, ignoring: %s", channel.ID, err)
	}
	if prior, err := r.store.GetPriorChange(ctx, channel.ID); err == nil {
		obs.Prior = prior
		obs.HasPrior = true
	} else if !store.IsNotFound(err) {
		r.logger.Warnf(providers.TypeWatch, "Prior change marker of %s unreadable, ignoring: %s", channel.ID, err)
	}

	verdict := r.suppressor.Apply(obs)
	if verdict.WriteOfflineMarker {
		if err := r.store.PutOfflineMarker(ctx, channel.ID, now); err != nil {
			r.logger.Errorf(providers.TypeWatch, "Unable to record offline marker of %s: %s", channel.ID, err)
		}
	}
	if verdict.WriteMarker {
		if err := r.store.PutPriorChange(ctx, channel.ID, verdict.Marker); err != nil {
			r.logger.Errorf(providers.TypeWatch, "Unable to record prior change of %s: %s", channel.ID, err)
		}
	}

	decision = verdict.Decision
	decision.ChannelID = channel.ID
	if decision.State != stored {
		if err := r.store.PutStream(ctx, channel.ID, decision.State); err != nil {
			return decision, fmt.Errorf("store state: %w", err)
		}
		decision.Persisted = true
	}
	if decision.State.Online != raw.Online {
		r.logger.Infof(providers.TypeWatch, "%s reported offline inside the grace window with activity, kept online", channel.ID)
	}
	r.logger.Debugf(providers.TypeWatch, "%s: stored=%+v raw=%+v decision=%+v", channel.ID, stored, raw, decision)
	return decision, nil
}
