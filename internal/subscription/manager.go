package subscription

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"streamwatch/internal/models"
	"streamwatch/internal/providers"
	"sync"
)

var (
	ErrEmptyIdentity  = errors.New("subscription: empty identity")
	ErrUnknownChannel = errors.New("subscription: unknown channel")
)

type TopicManagerInterface interface {
	SubscribeToTopic(ctx context.Context, token, topic string) error
	UnsubscribeFromTopic(ctx context.Context, token, topic string) error
}

// RegistryInterface is the subscription part of the state store.
type RegistryInterface interface {
	GetSubscription(ctx context.Context, identity string) ([]string, error)
	PutSubscription(ctx context.Context, identity string, channelIDs []string) error
	DeleteSubscription(ctx context.Context, identity string) error
	ListSubscribers(ctx context.Context) ([]string, error)
}

type ManagerInterface interface {
	Get(ctx context.Context, identity string) ([]string, error)
	Update(ctx context.Context, identity string, channelIDs []string) (UpdateResult, error)
}

// TopicCall is the outcome of one subscribe or unsubscribe call.
type TopicCall struct {
	Channel   string
	Subscribe bool
	Err       error
}

type UpdateResult struct {
	Added   []string
	Removed []string
	Failed  []TopicCall
}

type Manager struct {
	registry RegistryInterface
	topics   TopicManagerInterface
	roster   models.Roster
	logger   providers.Logger
}

func NewManager(registry RegistryInterface, topics TopicManagerInterface, roster models.Roster, logger providers.Logger) ManagerInterface {
	return &Manager{registry: registry, topics: topics, roster: roster, logger: logger}
}

func (m *Manager) Get(ctx context.Context, identity string) ([]string, error) {
	if identity == "" {
		return nil, ErrEmptyIdentity
	}
	return m.registry.GetSubscription(ctx, identity)
}

// Update replaces the channel set of an identity. Topic membership follows
// the difference with the stored set; every call runs concurrently and a
// failed call does not stop the others.
func (m *Manager) Update(ctx context.Context, identity string, channelIDs []string) (UpdateResult, error) {
	if identity == "" {
		return UpdateResult{}, ErrEmptyIdentity
	}
	current := dedupe(channelIDs)
	for _, id := range current {
		if !m.roster.Has(id) {
			return UpdateResult{}, fmt.Errorf("%s: %w", id, ErrUnknownChannel)
		}
	}

	previous, err := m.registry.GetSubscription(ctx, identity)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("load subscription: %w", err)
	}
	if err := m.registry.PutSubscription(ctx, identity, current); err != nil {
		return UpdateResult{}, fmt.Errorf("store subscription: %w", err)
	}

	toAdd, toRemove := Diff(previous, current)
	result := UpdateResult{Added: toAdd, Removed: toRemove}
	result.Failed = m.apply(ctx, identity, toAdd, toRemove)
	for _, f := range result.Failed {
		m.logger.Warnf(providers.TypeNotify, "Topic change %s (subscribe=%t) failed: %s", f.Channel, f.Subscribe, f.Err)
	}
	return result, nil
}

func (m *Manager) apply(ctx context.Context, identity string, toAdd, toRemove []string) []TopicCall {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed []TopicCall
	)
	call := func(channel string, subscribe bool) {
		defer wg.Done()
		var err error
		if subscribe {
			err = m.topics.SubscribeToTopic(ctx, identity, channel)
		} else {
			err = m.topics.UnsubscribeFromTopic(ctx, identity, channel)
		}
		if err != nil {
			mu.Lock()
			failed = append(failed, TopicCall{Channel: channel, Subscribe: subscribe, Err: err})
			mu.Unlock()
		}
	}

	wg.Add(len(toAdd) + len(toRemove))
	for _, id := range toAdd {
		go call(id, true)
	}
	for _, id := range toRemove {
		go call(id, false)
	}
	wg.Wait()

	sort.Slice(failed, func(i, j int) bool { return failed[i].Channel < failed[j].Channel })
	return failed
}

// Diff returns current minus previous and previous minus current, sorted.
func Diff(previous, current []string) (toAdd, toRemove []string) {
	prev := toSet(previous)
	cur := toSet(current)
	for id := range cur {
		if _, ok := prev[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	for id := range prev {
		if _, ok := cur[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}
	sort.Strings(toAdd)
	sort.Strings(toRemove)
	return toAdd, toRemove
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func dedupe(ids []string) []string {
	set := toSet(ids)
	out := make([]string, 0, len(set))
	for id := range set {
		if id != "" {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
