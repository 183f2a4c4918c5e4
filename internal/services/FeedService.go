package services

import (
	"streamwatch/internal/models"
	"streamwatch/internal/providers"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/atomic"
)

const feedBuffer = 16

// FeedEvent is what live feed clients receive for every state change.
type FeedEvent struct {
	StreamView
	OnlineChanged   bool      `json:"onlineChanged"`
	TitleChanged    bool      `json:"titleChanged"`
	CategoryChanged bool      `json:"categoryChanged"`
	Notified        bool      `json:"notified"`
	At              time.Time `json:"at"`
}

type FeedServiceInterface interface {
	OnDecision(channel models.MonitoredChannel, d models.ChangeDecision)
	Subscribe() (<-chan []byte, func())
	Subscribers() int
	Generation() uint64
}

// FeedService fans persisted decisions out to live subscribers and drops
// the cached stream listing. A subscriber whose buffer is full misses the
// event.
type FeedService struct {
	mu         sync.RWMutex
	subs       map[chan []byte]struct{}
	cache      providers.CacheProviderInterface
	logger     providers.Logger
	generation atomic.Uint64
}

func NewFeedService(cache providers.CacheProviderInterface, logger providers.Logger) FeedServiceInterface {
	return &FeedService{
		subs:   make(map[chan []byte]struct{}),
		cache:  cache,
		logger: logger,
	}
}

func (fs *FeedService) OnDecision(channel models.MonitoredChannel, d models.ChangeDecision) {
	fs.generation.Inc()
	fs.cache.Del(StreamsCacheKey)

	data, err := json.Marshal(FeedEvent{
		StreamView:      NewStreamView(channel, d.State),
		OnlineChanged:   d.OnlineChanged,
		TitleChanged:    d.TitleChanged,
		CategoryChanged: d.CategoryChanged,
		Notified:        d.Notify(),
		At:              time.Now().UTC(),
	})
	if err != nil {
		fs.logger.Errorf(providers.TypeApp, "Unable to encode feed event: %s", err)
		return
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()
	for ch := range fs.subs {
		select {
		case ch <- data:
		default:
			fs.logger.Debugf(providers.TypeGet, "Feed subscriber lagging, event for %s dropped", channel.ID)
		}
	}
}

// Subscribe registers a subscriber. The returned func unsubscribes and
// closes the channel; calling it more than once is safe.
func (fs *FeedService) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, feedBuffer)
	fs.mu.Lock()
	fs.subs[ch] = struct{}{}
	fs.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			fs.mu.Lock()
			delete(fs.subs, ch)
			fs.mu.Unlock()
			close(ch)
		})
	}
}

func (fs *FeedService) Subscribers() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return len(fs.subs)
}

// Generation counts persisted decisions. A reader that computed the stream
// listing under an older generation must not keep it cached.
func (fs *FeedService) Generation() uint64 {
	return fs.generation.Load()
}
