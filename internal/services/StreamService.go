package services

import (
	"context"
	"streamwatch/internal/models"
	"streamwatch/internal/providers"
	"streamwatch/internal/store"
	"time"
)

// StreamsCacheKey is the cache entry holding the rendered /streams listing.
const StreamsCacheKey = "streams"

// StreamView is one roster entry joined with its stored state.
type StreamView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Online   bool   `json:"online"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

func NewStreamView(channel models.MonitoredChannel, state models.StreamState) StreamView {
	return StreamView{
		ID:       channel.ID,
		Name:     channel.Name,
		Color:    channel.Color,
		Online:   state.Online,
		Title:    state.Title,
		Category: state.Category,
	}
}

type StreamStoreInterface interface {
	GetStream(ctx context.Context, channelID string) (models.StreamState, error)
	GetLastRun(ctx context.Context) (time.Time, error)
}

type StreamServiceInterface interface {
	List(ctx context.Context) ([]StreamView, error)
	Roster() models.Roster
	LastRun(ctx context.Context) (time.Time, bool)
}

type StreamService struct {
	roster models.Roster
	store  StreamStoreInterface
	logger providers.Logger
}

func NewStreamService(roster models.Roster, stateStore *store.StateStore, logger providers.Logger) StreamServiceInterface {
	return &StreamService{roster: roster, store: stateStore, logger: logger}
}

// List returns the roster in configured order. A channel never observed
// yet is listed as offline with empty fields.
func (s *StreamService) List(ctx context.Context) ([]StreamView, error) {
	views := make([]StreamView, 0, len(s.roster))
	for _, ch := range s.roster {
		state, err := s.store.GetStream(ctx, ch.ID)
		if err != nil && !store.IsNotFound(err) {
			s.logger.Errorf(providers.TypeGet, "Unable to read state of %s: %s", ch.ID, err)
			return nil, err
		}
		views = append(views, NewStreamView(ch, state))
	}
	return views, nil
}

func (s *StreamService) Roster() models.Roster {
	return s.roster
}

func (s *StreamService) LastRun(ctx context.Context) (time.Time, bool) {
	at, err := s.store.GetLastRun(ctx)
	if err != nil {
		return time.Time{}, false
	}
	return at, true
}
