package store

import (
	"context"
	"errors"
	"fmt"
	json "github.com/goccy/go-json"
	"sort"
	"streamwatch/internal/models"
	"streamwatch/internal/store/interfaces"
	"strings"
	"time"
)

// StateStore gives typed access to the key layout:
//
//	stream/{channelId}              StreamState
//	offtime/{channelId}             epoch millis of the last online→offline transition
//	prev/{channelId}                PriorChangeMarker
//	webhooks/{channelId}/{key}      Webhook
//	subscriptions/{identity}        comma-joined channel ids
//	lastRunTime                     epoch millis of the last completed pass
//
// Identities and webhook keys are written through models.EncodeKey.
type StateStore struct {
	backend interfaces.BackendInterface
}

func NewStateStore(backend interfaces.BackendInterface) *StateStore {
	return &StateStore{backend: backend}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func (s *StateStore) Backend() interfaces.BackendInterface {
	return s.backend
}

func (s *StateStore) getJSON(ctx context.Context, key string, out any) error {
	data, err := s.backend.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *StateStore) putJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.backend.Put(ctx, key, data)
}

func (s *StateStore) GetStream(ctx context.Context, channelID string) (models.StreamState, error) {
	var state models.StreamState
	err := s.getJSON(ctx, models.StreamKey(channelID), &state)
	return state, err
}

func (s *StateStore) PutStream(ctx context.Context, channelID string, state models.StreamState) error {
	return s.putJSON(ctx, models.StreamKey(channelID), state)
}

func (s *StateStore) GetOfflineMarker(ctx context.Context, channelID string) (time.Time, error) {
	var ms int64
	if err := s.getJSON(ctx, models.OffTimeKey(channelID), &ms); err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}

func (s *StateStore) PutOfflineMarker(ctx context.Context, channelID string, at time.Time) error {
	return s.putJSON(ctx, models.OffTimeKey(channelID), at.UnixMilli())
}

func (s *StateStore) GetPriorChange(ctx context.Context, channelID string) (models.PriorChangeMarker, error) {
	var marker models.PriorChangeMarker
	err := s.getJSON(ctx, models.PrevKey(channelID), &marker)
	return marker, err
}

func (s *StateStore) PutPriorChange(ctx context.Context, channelID string, marker models.PriorChangeMarker) error {
	return s.putJSON(ctx, models.PrevKey(channelID), marker)
}

func (s *StateStore) ListWebhooks(ctx context.Context, channelID string) ([]models.Webhook, error) {
	keys, err := s.backend.List(ctx, models.WebhookPrefix(channelID))
	if err != nil {
		return nil, err
	}
	hooks := make([]models.Webhook, 0, len(keys))
	for _, key := range keys {
		var hook models.Webhook
		if err := s.getJSON(ctx, key, &hook); err != nil {
			if IsNotFound(err) {
				continue
			}
			return hooks, err
		}
		hooks = append(hooks, hook)
	}
	return hooks, nil
}

func (s *StateStore) PutWebhook(ctx context.Context, channelID string, hook models.Webhook) error {
	if hook.Key == "" {
		return ErrInvalidInput
	}
	return s.putJSON(ctx, models.WebhookKey(channelID, hook.Key), hook)
}

func (s *StateStore) DeleteWebhook(ctx context.Context, channelID, key string) error {
	return s.backend.Delete(ctx, models.WebhookKey(channelID, key))
}

// GetSubscription returns the channel ids an identity is subscribed to.
// An unknown identity has an empty set.
func (s *StateStore) GetSubscription(ctx context.Context, identity string) ([]string, error) {
	var joined string
	err := s.getJSON(ctx, models.SubscriptionKey(identity), &joined)
	if IsNotFound(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return splitIDs(joined), nil
}

// PutSubscription stores the set sorted; an empty set removes the record.
func (s *StateStore) PutSubscription(ctx context.Context, identity string, channelIDs []string) error {
	if identity == "" {
		return ErrInvalidInput
	}
	if len(channelIDs) == 0 {
		return s.DeleteSubscription(ctx, identity)
	}
	ids := append([]string(nil), channelIDs...)
	sort.Strings(ids)
	return s.putJSON(ctx, models.SubscriptionKey(identity), strings.Join(ids, ","))
}

func (s *StateStore) DeleteSubscription(ctx context.Context, identity string) error {
	return s.backend.Delete(ctx, models.SubscriptionKey(identity))
}

// ListSubscribers returns every identity with a subscription record.
// Records whose key cannot be decoded are skipped.
func (s *StateStore) ListSubscribers(ctx context.Context) ([]string, error) {
	keys, err := s.backend.List(ctx, models.SubscriptionPrefix)
	if err != nil {
		return nil, err
	}
	identities := make([]string, 0, len(keys))
	for _, key := range keys {
		identity, err := models.DecodeKey(strings.TrimPrefix(key, models.SubscriptionPrefix))
		if err != nil {
			continue
		}
		identities = append(identities, identity)
	}
	return identities, nil
}

func (s *StateStore) GetLastRun(ctx context.Context) (time.Time, error) {
	var ms int64
	if err := s.getJSON(ctx, models.LastRunKey, &ms); err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}

func (s *StateStore) PutLastRun(ctx context.Context, at time.Time) error {
	return s.putJSON(ctx, models.LastRunKey, at.UnixMilli())
}

func splitIDs(joined string) []string {
	ids := make([]string, 0)
	for _, id := range strings.Split(joined, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
