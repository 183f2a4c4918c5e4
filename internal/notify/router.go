package notify

import (
	"context"
	"fmt"
	"math/rand/v2"
	"streamwatch/internal/models"
	"streamwatch/internal/providers"
	"streamwatch/internal/structures"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type RouterInterface interface {
	Dispatch(ctx context.Context, channel models.MonitoredChannel, d models.ChangeDecision) []SinkResult
}

// RetryPolicy drives push retries: attempt n waits BaseDelay*2^(n-1) plus a
// jitter in [0, BaseDelay).
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	Sleep     func(ctx context.Context, d time.Duration) error
	Jitter    func(max time.Duration) time.Duration
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	d := p.BaseDelay << (attempt - 1)
	if p.BaseDelay > 0 && p.Jitter != nil {
		d += p.Jitter(p.BaseDelay)
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func randomJitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(max)))
}

type Router struct {
	sinks     Sinks
	registry  WebhookRegistryInterface
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	retry     RetryPolicy
	pushSlot  chan struct{}
	linkBase  string
	maxLength int

	microblogLimiter *rate.Limiter
	webhookLimiter   *rate.Limiter
}

func NewRouter(conf *structures.Config, sinks Sinks, registry WebhookRegistryInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) RouterInterface {
	return newRouter(conf, sinks, registry, logger, metrics, RetryPolicy{
		Attempts:  conf.Notify.Push.Attempts,
		BaseDelay: conf.Notify.Push.BaseDelay,
		Sleep:     sleepContext,
		Jitter:    randomJitter,
	})
}

func newRouter(conf *structures.Config, sinks Sinks, registry WebhookRegistryInterface, logger providers.Logger, metrics providers.MetricsProviderInterface, retry RetryPolicy) *Router {
	if retry.Attempts < 1 {
		retry.Attempts = 1
	}
	return &Router{
		sinks:            sinks,
		registry:         registry,
		logger:           logger,
		metrics:          metrics,
		retry:            retry,
		pushSlot:         make(chan struct{}, 1),
		linkBase:         conf.Notify.Microblog.LinkBase,
		maxLength:        conf.Notify.Microblog.MaxLength,
		microblogLimiter: perSecondLimiter(conf.Notify.Microblog.RatePerSecond),
		webhookLimiter:   perSecondLimiter(conf.Notify.Webhook.RatePerSecond),
	}
}

func perSecondLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// Dispatch sends one decision to every enabled sink and every registered
// webhook of the channel. Each task runs on its own goroutine; Dispatch
// waits for all of them and returns every outcome.
func (r *Router) Dispatch(ctx context.Context, channel models.MonitoredChannel, d models.ChangeDecision) []SinkResult {
	msg := Compose(channel, d)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []SinkResult
	)
	run := func(sink string, task func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := guard(task)
			r.metrics.IncSinkResult(sinkLabel(sink), outcome(err))
			mu.Lock()
			results = append(results, SinkResult{Sink: sink, Err: err})
			mu.Unlock()
		}()
	}

	if r.sinks.Push != nil {
		payload := models.NewPushPayload(d, msg)
		run(SinkPush, func() error { return r.sendPush(ctx, channel, payload) })
	}
	if r.sinks.Bot != nil {
		run(SinkBot, func() error {
			err := r.sinks.Bot.SendEmbed(ctx, channel, msg)
			if err != nil {
				r.logger.Warnf(providers.TypeNotify, "Bot message for %s failed: %s", channel.ID, err)
			}
			return err
		})
	}
	if r.sinks.Microblog != nil {
		text := ComposeMicroblog(channel, d, r.linkBase, r.maxLength)
		run(SinkMicroblog, func() error { return r.postMicroblog(ctx, channel, text) })
	}
	if r.sinks.Webhooks != nil && r.registry != nil {
		hooks, err := r.registry.ListWebhooks(ctx, channel.ID)
		if err != nil {
			r.logger.Errorf(providers.TypeNotify, "Unable to list webhooks for %s: %s", channel.ID, err)
		}
		for _, hook := range hooks {
			run(SinkWebhook+":"+hook.Key, func() error { return r.sendWebhook(ctx, channel, hook, msg) })
		}
	}

	wg.Wait()
	return results
}

// sendPush holds the process-wide push slot for the whole retry sequence.
func (r *Router) sendPush(ctx context.Context, channel models.MonitoredChannel, payload models.PushPayload) error {
	select {
	case r.pushSlot <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-r.pushSlot }()

	var err error
	for attempt := 1; attempt <= r.retry.Attempts; attempt++ {
		if err = r.sinks.Push.Send(ctx, payload); err == nil {
			return nil
		}
		if IsPermanent(err) || attempt == r.retry.Attempts {
			break
		}
		delay := r.retry.delay(attempt)
		r.logger.Debugf(providers.TypeNotify, "Push to %s failed (attempt %d/%d), retrying in %s: %s",
			channel.ID, attempt, r.retry.Attempts, delay, err)
		if serr := r.retry.Sleep(ctx, delay); serr != nil {
			break
		}
	}
	r.logger.Warnf(providers.TypeNotify, "Push to %s gave up: %s", channel.ID, err)
	return err
}

func (r *Router) postMicroblog(ctx context.Context, channel models.MonitoredChannel, text string) error {
	if err := r.microblogLimiter.Wait(ctx); err != nil {
		return err
	}
	err := r.sinks.Microblog.Post(ctx, text)
	if err != nil {
		r.logger.Warnf(providers.TypeNotify, "Microblog post for %s failed: %s", channel.ID, err)
	}
	return err
}

// sendWebhook prunes the registration on a permanent failure and retries
// exactly once on anything else.
func (r *Router) sendWebhook(ctx context.Context, channel models.MonitoredChannel, hook models.Webhook, msg models.Message) error {
	if err := r.webhookLimiter.Wait(ctx); err != nil {
		return err
	}
	err := r.sinks.Webhooks.Execute(ctx, hook, channel, msg)
	if err == nil {
		return nil
	}
	if IsPermanent(err) {
		r.prune(ctx, channel, hook, err)
		return err
	}

	err = r.sinks.Webhooks.Execute(ctx, hook, channel, msg)
	if err == nil {
		return nil
	}
	if IsPermanent(err) {
		r.prune(ctx, channel, hook, err)
		return err
	}
	r.logger.Warnf(providers.TypeNotify, "Webhook %s for %s failed after retry: %s", hook.Key, channel.ID, err)
	return err
}

func (r *Router) prune(ctx context.Context, channel models.MonitoredChannel, hook models.Webhook, cause error) {
	if err := r.registry.DeleteWebhook(ctx, channel.ID, hook.Key); err != nil {
		r.logger.Errorf(providers.TypeNotify, "Unable to remove webhook %s for %s: %s", hook.Key, channel.ID, err)
		return
	}
	r.metrics.IncSinkResult(SinkWebhook, "pruned")
	r.logger.Infof(providers.TypeNotify, "Removed webhook %s for %s: %s", hook.Key, channel.ID, cause)
}

// guard turns a panicking sink into an error so siblings are unaffected.
func guard(task func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("sink panic: %v", rec)
		}
	}()
	return task()
}

func sinkLabel(sink string) string {
	if strings.HasPrefix(sink, SinkWebhook+":") {
		return SinkWebhook
	}
	return sink
}

func outcome(err error) string {
	if err != nil {
		return "failed"
	}
	return "ok"
}
